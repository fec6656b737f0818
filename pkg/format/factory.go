// File: pkg/format/factory.go
// Package format
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// NewRegistry wires the three built-in Format plugins into an
// api.FormatFactory registry (internal/registry.Registry), the same
// registration pattern pkg/hook and pkg/node use for their own
// factories.

package format

import (
	"github.com/villasnode/node/api"
	"github.com/villasnode/node/internal/registry"
)

type binaryFactory struct{}

func (binaryFactory) Type() string    { return "villas.binary" }
func (binaryFactory) New() api.Format { return NewBinary() }

type jsonFactory struct{}

func (jsonFactory) Type() string    { return "json" }
func (jsonFactory) New() api.Format { return NewJSON() }

type humanFactory struct{}

func (humanFactory) Type() string    { return "villas.human" }
func (humanFactory) New() api.Format { return NewHuman() }

// NewRegistry returns a registry.Registry[api.FormatFactory] populated
// with villas.binary, json, and villas.human.
func NewRegistry() *registry.Registry[api.FormatFactory] {
	r := registry.New[api.FormatFactory]()
	r.Register("villas.binary", binaryFactory{})
	r.Register("json", jsonFactory{})
	r.Register("villas.human", humanFactory{})
	return r
}
