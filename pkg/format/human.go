// File: pkg/format/human.go
// Package format
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// villas.human per spec.md §6: whitespace-separated columns,
// "<sec>.<nsec>(<seq>)\t<v0>\t<v1>...\n", with an optional header line
// naming each column from the SignalList. Grounded on
// pkg/signal.List.String's existing column-header renderer and
// signal.Data.PrintString's existing value formatting, both written for
// exactly this textual representation.

package format

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/villasnode/node/pkg/sample"
	"github.com/villasnode/node/pkg/signal"
)

// Human implements api.Format as "villas.human". Precision controls the
// number of significant digits printed for floating-point values (0
// selects strconv's shortest round-trip representation); Header, when
// true, makes Encode prefix the first call's output with a "# "-led
// column header line.
type Human struct {
	Precision int
	Header    bool

	headerWritten bool
}

// NewHuman constructs the villas.human Format with default precision
// (shortest round-trip) and no header line.
func NewHuman() *Human { return &Human{} }

func (h *Human) Type() string { return "villas.human" }

// Encode appends smps[:n] to dst as one line per Sample.
func (h *Human) Encode(dst []byte, smps []*sample.Sample, n int, signals *signal.List) ([]byte, error) {
	if h.Header && !h.headerWritten && signals != nil {
		dst = append(dst, "# sec.nsec(seq)\t"...)
		dst = append(dst, signals.String()...)
		dst = append(dst, '\n')
		h.headerWritten = true
	}
	for i := 0; i < n; i++ {
		s := smps[i]
		dst = append(dst, strconv.FormatInt(s.TsOrigin.Sec, 10)...)
		dst = append(dst, '.')
		dst = append(dst, fmt.Sprintf("%09d", s.TsOrigin.Nsec)...)
		dst = append(dst, '(')
		dst = append(dst, strconv.FormatUint(s.Sequence, 10)...)
		dst = append(dst, ')')
		for j := 0; j < s.Length; j++ {
			dst = append(dst, '\t')
			dst = append(dst, s.Data[j].PrintString(h.Precision)...)
		}
		dst = append(dst, '\n')
	}
	return dst, nil
}

// Decode parses "<sec>.<nsec>(<seq>)\t<v0>\t<v1>...\n" lines from data
// into out, skipping "#"-prefixed header/comment lines. A trailing
// partial line is left unconsumed.
func (h *Human) Decode(data []byte, out []*sample.Sample, signals *signal.List) (produced int, consumed int, err error) {
	offset := 0
	for produced < len(out) {
		nl := bytes.IndexByte(data[offset:], '\n')
		if nl < 0 {
			break
		}
		line := string(data[offset : offset+nl])
		offset += nl + 1

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		cols := strings.Split(line, "\t")
		tsField := cols[0]
		seq := uint64(0)
		ts := tsField
		if lp := strings.IndexByte(tsField, '('); lp >= 0 && strings.HasSuffix(tsField, ")") {
			ts = tsField[:lp]
			seqStr := tsField[lp+1 : len(tsField)-1]
			seq, err = strconv.ParseUint(seqStr, 10, 64)
			if err != nil {
				return produced, offset, fmt.Errorf("format: villas.human: parse sequence %q: %w", seqStr, err)
			}
		}
		secStr, nsecStr, _ := strings.Cut(ts, ".")
		sec, err := strconv.ParseInt(secStr, 10, 64)
		if err != nil {
			return produced, offset, fmt.Errorf("format: villas.human: parse seconds %q: %w", secStr, err)
		}
		var nsec int64
		if nsecStr != "" {
			nsec, err = strconv.ParseInt(nsecStr, 10, 64)
			if err != nil {
				return produced, offset, fmt.Errorf("format: villas.human: parse nanoseconds %q: %w", nsecStr, err)
			}
		}

		s := out[produced]
		s.Sequence = seq
		s.TsOrigin = sample.Timespec{Sec: sec, Nsec: nsec}
		s.TsReceived = sample.Now()
		s.Signals = signals
		s.Flags = s.Flags.Set(sample.HasSequence | sample.HasTsOrigin | sample.HasTsReceived | sample.HasData)
		if signals != nil {
			s.Flags = s.Flags.Set(sample.HasSignals)
		}

		values := cols[1:]
		n := len(values)
		if n > s.Capacity {
			n = s.Capacity
		}
		for j := 0; j < n; j++ {
			typ := signal.Float
			if signals != nil {
				if d, ok := signals.At(j); ok {
					typ = d.Type
				}
			}
			v, perr := signal.ParseString(typ, values[j])
			if perr != nil {
				return produced, offset, fmt.Errorf("format: villas.human: %w", perr)
			}
			s.Data[j] = v
		}
		s.Length = n
		produced++
	}
	return produced, offset, nil
}
