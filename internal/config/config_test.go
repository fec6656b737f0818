// File: internal/config/config_test.go
// Package config
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package config

import (
	"os"
	"testing"
)

func TestSubstituteReplacesBracedAndBareVars(t *testing.T) {
	os.Setenv("VILLAS_TEST_HOST", "broker.example.com")
	defer os.Unsetenv("VILLAS_TEST_HOST")

	in := []byte(`{"addr": "${VILLAS_TEST_HOST}:1234", "fallback": "$VILLAS_TEST_HOST"}`)
	out := string(Substitute(in))
	want := `{"addr": "broker.example.com:1234", "fallback": "broker.example.com"}`
	if out != want {
		t.Fatalf("Substitute() = %q, want %q", out, want)
	}
}

func TestParseValidConfig(t *testing.T) {
	raw := []byte(`{
		"nodes": {
			"src": {"type": "internal_loopback"},
			"dst": {"type": "internal_loopback"}
		},
		"paths": [
			{"in": ["src.data[0:1]"], "out": ["dst"], "mode": "any", "queuelen": 128}
		]
	}`)
	cfg, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cfg.Nodes) != 2 {
		t.Fatalf("len(Nodes) = %d, want 2", len(cfg.Nodes))
	}
	if cfg.Nodes["src"].Type != "internal_loopback" {
		t.Fatalf("Nodes[src].Type = %q", cfg.Nodes["src"].Type)
	}
	if len(cfg.Paths) != 1 || cfg.Paths[0].Mode != "any" || !cfg.Paths[0].Enabled {
		t.Fatalf("Paths[0] = %+v", cfg.Paths[0])
	}
}

func TestParseRejectsMissingNodes(t *testing.T) {
	raw := []byte(`{"paths": []}`)
	if _, err := Parse(raw); err == nil {
		t.Fatal("Parse should reject a document missing required \"nodes\"")
	}
}

func TestParseRejectsBadPathShape(t *testing.T) {
	raw := []byte(`{"nodes": {}, "paths": [{"in": "not-an-array", "out": ["x"]}]}`)
	if _, err := Parse(raw); err == nil {
		t.Fatal("Parse should reject a path whose \"in\" is not an array")
	}
}

func TestParsePathDefaults(t *testing.T) {
	raw := []byte(`{
		"nodes": {"a": {"type": "internal_loopback"}},
		"paths": [{"in": ["a.data[0:0]"], "out": ["a"]}]
	}`)
	cfg, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p := cfg.Paths[0]
	if p.Mode != "any" {
		t.Fatalf("default Mode = %q, want any", p.Mode)
	}
	if !p.Enabled {
		t.Fatal("default Enabled should be true")
	}
}
