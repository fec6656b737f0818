// File: pkg/format/binary.go
// Package format implements the wire codec plugins of spec.md §4, §6:
// villas.binary, json, and villas.human.
//
// villas.binary mirrors original_source's
// include/villas/formats/msg_format.hpp "struct Message" layout: a
// 16-byte fixed header (version/type/reserved bit-packed byte,
// source_index, length, sequence, ts.sec, ts.nsec) followed by
// length 4-byte little-endian values. Grounded on
// protocol/frame_codec.go's incomplete-frame/oversized-frame handling
// idiom (return (nil, 0, nil) on a short buffer, an error past a hard
// limit) generalized from a WebSocket frame to this header.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package format

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/villasnode/node/pkg/sample"
	"github.com/villasnode/node/pkg/signal"
)

const (
	binaryHeaderLen    = 16
	binaryMsgVersion   = 2
	binaryMsgTypeData  = 0

	// MaxBinaryValues bounds a single message's value count, mirroring
	// protocol/frame_codec.go's MaxFramePayload guard against a
	// maliciously large length field exhausting memory on decode.
	MaxBinaryValues = 1 << 16
)

// Binary implements api.Format as "villas.binary": the original
// node-to-node wire protocol's fixed-size Message struct, one 4-byte
// value slot per channel. Complex-typed channels lose their imaginary
// component on the wire (the original format predates complex
// support); Encode returns an error for a Complex signal rather than
// silently dropping data.
type Binary struct{}

// NewBinary constructs the villas.binary Format.
func NewBinary() *Binary { return &Binary{} }

func (Binary) Type() string { return "villas.binary" }

// Encode appends smps[:n] to dst as one Message per Sample.
func (Binary) Encode(dst []byte, smps []*sample.Sample, n int, signals *signal.List) ([]byte, error) {
	for i := 0; i < n; i++ {
		s := smps[i]
		if s.Length > MaxBinaryValues {
			return nil, errors.New("format: villas.binary: sample length exceeds MaxBinaryValues")
		}
		var hdr [binaryHeaderLen]byte
		hdr[0] = byte(binaryMsgVersion<<4) | byte(binaryMsgTypeData<<2)
		hdr[1] = 0 // source_index: unused, single-stream wire framing
		binary.LittleEndian.PutUint16(hdr[2:4], uint16(s.Length))
		binary.LittleEndian.PutUint32(hdr[4:8], uint32(s.Sequence))
		binary.LittleEndian.PutUint32(hdr[8:12], uint32(s.TsOrigin.Sec))
		binary.LittleEndian.PutUint32(hdr[12:16], uint32(s.TsOrigin.Nsec))
		dst = append(dst, hdr[:]...)

		for j := 0; j < s.Length; j++ {
			v := s.Data[j]
			typ := channelType(signals, j, v)
			var word uint32
			switch typ {
			case signal.Integer:
				word = uint32(int32(v.Integer()))
			case signal.Complex:
				return nil, errors.New("format: villas.binary: complex signals are not representable on the wire")
			default: // Float, Boolean
				word = math.Float32bits(float32(v.Float()))
			}
			var b [4]byte
			binary.LittleEndian.PutUint32(b[:], word)
			dst = append(dst, b[:]...)
		}
	}
	return dst, nil
}

// Decode parses Messages from data into out, filling at most len(out)
// Samples. Returns (0, 0, nil) if data holds less than one complete
// header; a truncated final message is left unconsumed for the next
// call, matching protocol/frame_codec.go's incomplete-frame contract.
func (Binary) Decode(data []byte, out []*sample.Sample, signals *signal.List) (produced int, consumed int, err error) {
	offset := 0
	for produced < len(out) {
		if len(data)-offset < binaryHeaderLen {
			break
		}
		hdr := data[offset : offset+binaryHeaderLen]
		length := int(binary.LittleEndian.Uint16(hdr[2:4]))
		if length > MaxBinaryValues {
			return produced, offset, errors.New("format: villas.binary: decoded length exceeds MaxBinaryValues")
		}
		msgLen := binaryHeaderLen + length*4
		if len(data)-offset < msgLen {
			break
		}

		s := out[produced]
		sequence := binary.LittleEndian.Uint32(hdr[4:8])
		sec := binary.LittleEndian.Uint32(hdr[8:12])
		nsec := binary.LittleEndian.Uint32(hdr[12:16])
		s.Sequence = uint64(sequence)
		s.TsOrigin = sample.Timespec{Sec: int64(sec), Nsec: int64(nsec)}
		s.TsReceived = sample.Now()
		s.Signals = signals
		s.Flags = s.Flags.Set(sample.HasSequence | sample.HasTsOrigin | sample.HasTsReceived | sample.HasData)
		if signals != nil {
			s.Flags = s.Flags.Set(sample.HasSignals)
		}

		n := length
		if n > s.Capacity {
			n = s.Capacity
		}
		valOff := offset + binaryHeaderLen
		for j := 0; j < n; j++ {
			word := binary.LittleEndian.Uint32(data[valOff+j*4 : valOff+j*4+4])
			typ := signal.Float
			if signals != nil {
				if d, ok := signals.At(j); ok {
					typ = d.Type
				}
			}
			if typ == signal.Integer {
				s.Data[j] = signal.FromInteger(int64(int32(word)))
			} else {
				s.Data[j] = signal.FromFloat(float64(math.Float32frombits(word)))
			}
		}
		s.Length = n

		offset += msgLen
		produced++
	}
	return produced, offset, nil
}

func channelType(signals *signal.List, idx int, v signal.Data) signal.Type {
	if signals != nil {
		if d, ok := signals.At(idx); ok {
			return d.Type
		}
	}
	return v.Type()
}
