// File: api/format.go
// Package api
// Author: momentics <momentics@gmail.com>
//
// Format is the wire codec plugin contract (spec.md §4, §6): serialize
// or deserialize a batch of Samples to/from bytes.

package api

import (
	"github.com/villasnode/node/pkg/sample"
	"github.com/villasnode/node/pkg/signal"
)

// Format encodes/decodes Sample batches to/from a wire representation.
// Implementations: villas.binary, json, villas.human.
type Format interface {
	Type() string

	// Encode appends the wire representation of smps[:n] to dst,
	// returning the extended slice.
	Encode(dst []byte, smps []*sample.Sample, n int, signals *signal.List) ([]byte, error)

	// Decode parses samples from data into out, filling at most
	// len(out) entries (each must already be capacity-sized and
	// pool-attached by the caller). Returns the number of samples
	// produced and the number of input bytes consumed.
	Decode(data []byte, out []*sample.Sample, signals *signal.List) (produced int, consumed int, err error)
}

// FormatFactory constructs Format instances of one named type.
type FormatFactory interface {
	Type() string
	New() Format
}
