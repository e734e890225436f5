/*
DESCRIPTION
  nal.go provides splitting of an H.265 byte stream into NAL units, parsing
  of the NAL unit header and conversion of a NAL unit payload to its raw byte
  sequence payload.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package h265 provides H.265 byte stream handling: splitting a stream into
// NAL units and recovering the raw byte sequence payload of a unit.
package h265

import (
	"io"

	"github.com/pkg/errors"
)

// NAL unit types, see table 7-1.
const (
	TypeTrailN    = 0
	TypeRASLR     = 9
	TypeBLAWLP    = 16
	TypeIDRWRADL  = 19
	TypeIDRNLP    = 20
	TypeCRA       = 21
	TypeRsvIRAP23 = 23
	TypeVPS       = 32
	TypeSPS       = 33
	TypePPS       = 34
	TypeAUD       = 35
	TypeSEIPrefix = 39
)

// HeaderSize is the size of nal_unit_header() in bytes.
const HeaderSize = 2

var (
	ErrShortUnit    = errors.New("NAL unit shorter than its header")
	ErrForbiddenBit = errors.New("forbidden_zero_bit set")
	ErrNoSliceUnit  = errors.New("no such slice segment NAL unit")
)

// Header is a parsed nal_unit_header().
type Header struct {
	Type       uint8 // nal_unit_type
	LayerID    uint8 // nuh_layer_id
	TemporalID uint8 // nuh_temporal_id_plus1 - 1
}

// ParseHeader parses the NAL unit header at the start of nal.
func ParseHeader(nal []byte) (Header, error) {
	if len(nal) < HeaderSize {
		return Header{}, ErrShortUnit
	}
	if nal[0]&0x80 != 0 {
		return Header{}, ErrForbiddenBit
	}
	return Header{
		Type:       (nal[0] >> 1) & 0x3f,
		LayerID:    (nal[0]&0x01)<<5 | nal[1]>>3,
		TemporalID: nal[1]&0x07 - 1,
	}, nil
}

// IsSlice reports whether t is a VCL NAL unit type, i.e. one carrying a slice
// segment. Reserved VCL types are included.
func IsSlice(t uint8) bool { return t <= 31 }

// Units reads the byte stream src and returns its NAL units, without start
// codes or trailing zero bytes.
func Units(src io.Reader) ([][]byte, error) {
	s := newScanner(src, make([]byte, 4<<10))
	var (
		units [][]byte
		cur   []byte
		in    bool // A start code has been seen.
	)
	for {
		b, err := s.readByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		cur = append(cur, b)

		// A start code is 0x000001; any zero bytes before it belong to
		// trailing_zero_8bits or a zero_byte.
		n := len(cur)
		if n < 3 || cur[n-1] != 0x01 || cur[n-2] != 0x00 || cur[n-3] != 0x00 {
			continue
		}
		if in {
			if u := trimZeros(cur[:n-3]); len(u) != 0 {
				units = append(units, u)
			}
		}
		cur, in = nil, true
	}
	if in {
		if u := trimZeros(cur); len(u) != 0 {
			units = append(units, u)
		}
	}
	return units, nil
}

func trimZeros(b []byte) []byte {
	for len(b) != 0 && b[len(b)-1] == 0x00 {
		b = b[:len(b)-1]
	}
	return b
}

// RBSP returns the raw byte sequence payload of the NAL unit payload p,
// removing each emulation_prevention_three_byte, i.e. the 0x03 of a 0x000003
// sequence.
func RBSP(p []byte) []byte {
	rbsp := make([]byte, 0, len(p))
	zeros := 0
	for _, b := range p {
		if zeros >= 2 && b == 0x03 {
			zeros = 0
			continue
		}
		if b == 0x00 {
			zeros++
		} else {
			zeros = 0
		}
		rbsp = append(rbsp, b)
	}
	return rbsp
}

// SliceRBSP returns the header and the RBSP following the NAL unit header of
// the i'th slice segment NAL unit in units.
func SliceRBSP(units [][]byte, i int) (Header, []byte, error) {
	for _, u := range units {
		h, err := ParseHeader(u)
		if err != nil {
			return Header{}, nil, err
		}
		if !IsSlice(h.Type) {
			continue
		}
		if i == 0 {
			return h, RBSP(u[HeaderSize:]), nil
		}
		i--
	}
	return Header{}, nil, ErrNoSliceUnit
}
