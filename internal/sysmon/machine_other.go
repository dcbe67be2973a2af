//go:build !unix

package sysmon

import "runtime"

func machine() string { return runtime.GOARCH }
