// File: pkg/mapping/entry.go
// Package mapping implements the declarative per-path selector grammar
// of spec.md §4.4: a string like "node1.data[0-3]" or "node1.ts.origin"
// names the Sample fields one source contributes to a muxed output.
//
// Grounded on internal/transport/transport.go's detect-then-construct
// parse style (string sniffed for a discriminating substring, then
// dispatched to a dedicated constructor); no teacher analogue for the
// grammar itself exists, so the parser below is newly authored in that
// idiom.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package mapping

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/villasnode/node/api"
)

// Kind discriminates the four selector forms spec.md §4.4 defines.
type Kind int

const (
	KindData Kind = iota
	KindTimestamp
	KindHeader
	KindStats
)

func (k Kind) String() string {
	switch k {
	case KindData:
		return "data"
	case KindTimestamp:
		return "ts"
	case KindHeader:
		return "hdr"
	case KindStats:
		return "stats"
	default:
		return "invalid"
	}
}

// TimestampField selects which of a Sample's two timestamps a
// KindTimestamp entry contributes.
type TimestampField int

const (
	TsOrigin TimestampField = iota
	TsReceived
)

// HeaderField selects which scalar header value a KindHeader entry
// contributes.
type HeaderField int

const (
	HdrSequence HeaderField = iota
	HdrLength
)

// Entry is one parsed selector. Before Prepare, NodeName/SignalName/
// First/Last/TsField/HdrField/Stat* are the only populated fields;
// Prepare resolves Node and assigns Offset/Length.
type Entry struct {
	raw string

	Kind     Kind
	NodeName string

	// KindData
	SignalName string // set when the selector names a channel by name
	First      int    // inclusive; -1 when SignalName is set instead
	Last       int    // inclusive; == First for a single-index selector

	TsField  TimestampField
	HdrField HeaderField

	StatMetric string
	StatType   string

	// Populated by List.Prepare.
	Node   api.Node
	Offset int
	Length int
}

// String returns the original expression this Entry was parsed from.
func (e *Entry) String() string { return e.raw }

// Parse accepts one of the four forms spec.md §4.4 lists and returns
// the corresponding unresolved Entry.
func Parse(expr string) (*Entry, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("mapping: empty expression")
	}

	node, rest, hasRest := splitNode(expr)
	if node == "" {
		return nil, fmt.Errorf("mapping: %q: missing node name", expr)
	}
	e := &Entry{raw: expr, NodeName: node, First: -1, Last: -1}

	switch {
	case !hasRest:
		return nil, fmt.Errorf("mapping: %q: expected selector after node name", expr)

	case strings.HasPrefix(rest, "["):
		// <node>[<first>[-<last>]]
		first, last, err := parseRange(rest)
		if err != nil {
			return nil, fmt.Errorf("mapping: %q: %w", expr, err)
		}
		e.Kind = KindData
		e.First, e.Last = first, last
		return e, nil

	case strings.HasPrefix(rest, ".data["):
		first, last, err := parseRange(rest[len(".data"):])
		if err != nil {
			return nil, fmt.Errorf("mapping: %q: %w", expr, err)
		}
		e.Kind = KindData
		e.First, e.Last = first, last
		return e, nil

	case strings.HasPrefix(rest, ".ts."):
		field := rest[len(".ts."):]
		e.Kind = KindTimestamp
		switch field {
		case "origin":
			e.TsField = TsOrigin
		case "received":
			e.TsField = TsReceived
		default:
			return nil, fmt.Errorf("mapping: %q: unknown ts field %q", expr, field)
		}
		return e, nil

	case strings.HasPrefix(rest, ".hdr."):
		field := rest[len(".hdr."):]
		e.Kind = KindHeader
		switch field {
		case "sequence":
			e.HdrField = HdrSequence
		case "length":
			e.HdrField = HdrLength
		default:
			return nil, fmt.Errorf("mapping: %q: unknown hdr field %q", expr, field)
		}
		return e, nil

	case strings.HasPrefix(rest, ".stats."):
		parts := strings.SplitN(rest[len(".stats."):], ".", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("mapping: %q: stats selector needs <metric>.<type>", expr)
		}
		e.Kind = KindStats
		e.StatMetric, e.StatType = parts[0], parts[1]
		return e, nil

	case strings.HasPrefix(rest, "."):
		// <node>.<signal_name>
		name := rest[1:]
		if name == "" {
			return nil, fmt.Errorf("mapping: %q: empty signal name", expr)
		}
		e.Kind = KindData
		e.SignalName = name
		return e, nil

	default:
		return nil, fmt.Errorf("mapping: %q: unrecognized selector %q", expr, rest)
	}
}

// splitNode separates the leading node identifier from the rest of the
// expression; the node name ends at the first '.' or '['.
func splitNode(expr string) (node, rest string, hasRest bool) {
	for i, r := range expr {
		if r == '.' || r == '[' {
			return expr[:i], expr[i:], true
		}
	}
	return expr, "", false
}

// parseRange parses "[<first>]" or "[<first>-<last>]".
func parseRange(s string) (first, last int, err error) {
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return 0, 0, fmt.Errorf("expected bracketed index range, got %q", s)
	}
	body := s[1 : len(s)-1]
	if body == "" {
		return 0, 0, fmt.Errorf("empty index range")
	}
	if idx := strings.IndexByte(body, '-'); idx > 0 {
		first, err = strconv.Atoi(body[:idx])
		if err != nil {
			return 0, 0, fmt.Errorf("bad range start %q: %w", body[:idx], err)
		}
		last, err = strconv.Atoi(body[idx+1:])
		if err != nil {
			return 0, 0, fmt.Errorf("bad range end %q: %w", body[idx+1:], err)
		}
		if last < first {
			return 0, 0, fmt.Errorf("range end %d before start %d", last, first)
		}
		return first, last, nil
	}
	v, err := strconv.Atoi(body)
	if err != nil {
		return 0, 0, fmt.Errorf("bad index %q: %w", body, err)
	}
	return v, v, nil
}
