// Package server serves procmon's Prometheus metrics over HTTP.
package server
