// File: internal/logging/logging_test.go
// Package logging
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package logging

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestComponentTagsLogLine(t *testing.T) {
	var buf bytes.Buffer
	root := New(Config{Level: LevelDebug, Format: FormatJSON, Output: &buf})
	log := Component(root, "path")
	log.Info().Str("uuid", "abc").Msg("started")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if line["component"] != "path" {
		t.Fatalf("component = %v, want path", line["component"])
	}
	if line["uuid"] != "abc" {
		t.Fatalf("uuid = %v, want abc", line["uuid"])
	}
}

func TestLevelFiltersBelowThreshold(t *testing.T) {
	var buf bytes.Buffer
	root := New(Config{Level: LevelWarn, Format: FormatJSON, Output: &buf})
	root.Info().Msg("should not appear")
	if buf.Len() != 0 {
		t.Fatalf("info line emitted at warn threshold: %s", buf.String())
	}
	root.Warn().Msg("should appear")
	if buf.Len() == 0 {
		t.Fatal("warn line was suppressed")
	}
}
