// File: internal/affinity/affinity_other.go
// Package affinity
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

//go:build !linux

package affinity

import "github.com/villasnode/node/api"

const available = false

func pin(cpu int) error {
	return api.RuntimeError(false, "affinity: CPU pinning is not supported on this platform")
}

func unpin() error {
	return nil
}
