// Package ui holds the colour themes shared by the text report and the
// dashboard. Colours honour --no-color and the NO_COLOR convention.
package ui
