// File: pkg/format/json.go
// Package format
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// JSON implements api.Format using encoding/json (the wire format
// itself, so no third-party serializer belongs here — see DESIGN.md):
// one JSON object per Sample, keys `ts: [sec,nsec]`, `sequence`,
// `values` per spec.md §6, newline-delimited so Decode can
// incrementally consume a byte stream the same way Binary does.

package format

import (
	"bytes"
	"encoding/json"

	"github.com/villasnode/node/pkg/sample"
	"github.com/villasnode/node/pkg/signal"
)

// jsonSample is the on-wire representation of one Sample.
type jsonSample struct {
	Ts       [2]int64  `json:"ts"`
	Sequence uint64    `json:"sequence"`
	Values   []float64 `json:"values"`
}

// JSON implements api.Format as "json".
type JSON struct{}

// NewJSON constructs the json Format.
func NewJSON() *JSON { return &JSON{} }

func (JSON) Type() string { return "json" }

// Encode appends smps[:n] to dst, one newline-terminated JSON object
// per Sample. TsReceived is not part of the wire shape (spec.md §6);
// it is reconstructed on Decode from the time of reception.
func (JSON) Encode(dst []byte, smps []*sample.Sample, n int, signals *signal.List) ([]byte, error) {
	for i := 0; i < n; i++ {
		s := smps[i]
		js := jsonSample{
			Ts:       [2]int64{s.TsOrigin.Sec, s.TsOrigin.Nsec},
			Sequence: s.Sequence,
			Values:   make([]float64, s.Length),
		}
		for j := 0; j < s.Length; j++ {
			js.Values[j] = s.Data[j].Float()
		}
		b, err := json.Marshal(js)
		if err != nil {
			return nil, err
		}
		dst = append(dst, b...)
		dst = append(dst, '\n')
	}
	return dst, nil
}

// Decode parses newline-delimited JSON objects from data into out. A
// trailing partial line (no terminating '\n') is left unconsumed.
func (JSON) Decode(data []byte, out []*sample.Sample, signals *signal.List) (produced int, consumed int, err error) {
	offset := 0
	for produced < len(out) {
		nl := bytes.IndexByte(data[offset:], '\n')
		if nl < 0 {
			break
		}
		line := data[offset : offset+nl]
		offset += nl + 1

		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var js jsonSample
		if err := json.Unmarshal(line, &js); err != nil {
			return produced, offset, err
		}

		s := out[produced]
		s.Sequence = js.Sequence
		s.TsOrigin = sample.Timespec{Sec: js.Ts[0], Nsec: js.Ts[1]}
		s.TsReceived = sample.Now()
		s.Signals = signals
		s.Flags = s.Flags.Set(sample.HasSequence | sample.HasTsOrigin | sample.HasTsReceived | sample.HasData)
		if signals != nil {
			s.Flags = s.Flags.Set(sample.HasSignals)
		}
		n := len(js.Values)
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
			if typ == signal.Integer {
				s.Data[j] = signal.FromInteger(int64(js.Values[j]))
			} else {
				s.Data[j] = signal.FromFloat(js.Values[j])
			}
		}
		s.Length = n
		produced++
	}
	return produced, offset, nil
}
