/*
DESCRIPTION
  bitreader.go provides a bit reader that reads or peeks from an io.Reader,
  used to walk slice segment headers up to the start of CABAC slice data.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bits provides bit level access to HEVC byte data, both as a
// streaming reader for header syntax and as unchecked, zero padded peeks
// over a byte slice for the arithmetic decoding engine.
package bits

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

type bytePeeker interface {
	io.ByteReader
	Peek(int) ([]byte, error)
}

// BitReader reads bits MSB first from an io.Reader source.
type BitReader struct {
	r     bytePeeker
	n     uint64 // Buffered bits; the low br.bits bits are unread.
	bits  int
	nRead int
}

// NewBitReader returns a new BitReader reading from r.
func NewBitReader(r io.Reader) *BitReader {
	byter, ok := r.(bytePeeker)
	if !ok {
		byter = bufio.NewReader(r)
	}
	return &BitReader{r: byter}
}

// ReadBits reads n bits, n <= 57, and returns them in the least-significant
// part of a uint64.
// For example, with a source of []byte{0x8f,0xe3} (1000 1111, 1110 0011),
// consecutive reads give:
// n = 4, res = 0x8 (1000)
// n = 2, res = 0x3 (0011)
// n = 4, res = 0xf (1111)
// n = 6, res = 0x23 (0010 0011)
func (br *BitReader) ReadBits(n int) (uint64, error) {
	for n > br.bits {
		b, err := br.r.ReadByte()
		if err == io.EOF {
			return 0, io.ErrUnexpectedEOF
		}
		if err != nil {
			return 0, err
		}
		br.nRead++
		br.n = br.n<<8 | uint64(b)
		br.bits += 8
	}
	r := (br.n >> uint(br.bits-n)) & (1<<uint(n) - 1)
	br.bits -= n
	return r, nil
}

// ReadFlag reads a single bit as a bool.
func (br *BitReader) ReadFlag() (bool, error) {
	b, err := br.ReadBits(1)
	return b == 1, err
}

// PeekBits returns the next n bits in the least-significant part of a uint64
// without advancing the reader.
func (br *BitReader) PeekBits(n int) (uint64, error) {
	if n <= br.bits {
		return (br.n >> uint(br.bits-n)) & (1<<uint(n) - 1), nil
	}
	byt, err := br.r.Peek((n - br.bits + 7) / 8)
	if err != nil {
		if err == io.EOF {
			return 0, io.ErrUnexpectedEOF
		}
		return 0, err
	}
	v, bits := br.n, br.bits
	for i := 0; n > bits; i++ {
		v = v<<8 | uint64(byt[i])
		bits += 8
	}
	return (v >> uint(bits-n)) & (1<<uint(n) - 1), nil
}

// errBadExpGolomb is returned by ReadUE for a prefix of more than 32 zeros.
var errBadExpGolomb = errors.New("exp-golomb prefix longer than 32 bits")

// ReadUE reads an unsigned Exp-Golomb coded value (ue(v)).
func (br *BitReader) ReadUE() (uint64, error) {
	zeros := 0
	for {
		b, err := br.ReadBits(1)
		if err != nil {
			return 0, err
		}
		if b == 1 {
			break
		}
		zeros++
		if zeros > 32 {
			return 0, errBadExpGolomb
		}
	}
	if zeros == 0 {
		return 0, nil
	}
	suffix, err := br.ReadBits(zeros)
	if err != nil {
		return 0, err
	}
	return 1<<uint(zeros) - 1 + suffix, nil
}

// ReadSE reads a signed Exp-Golomb coded value (se(v)).
func (br *BitReader) ReadSE() (int64, error) {
	k, err := br.ReadUE()
	if err != nil {
		return 0, err
	}
	if k&1 == 1 {
		return int64(k+1) / 2, nil
	}
	return -int64(k / 2), nil
}

// Align discards bits up to the next byte boundary.
func (br *BitReader) Align() {
	br.bits -= br.bits % 8
}

// ByteAligned returns true if the reader position is at the start of a byte.
func (br *BitReader) ByteAligned() bool {
	return br.bits%8 == 0
}

// Off returns the number of buffered bits not yet read from the current byte.
func (br *BitReader) Off() int {
	return br.bits
}

// BytesRead returns the number of bytes that have been consumed from the
// source. Buffered but unread bits count as read.
func (br *BitReader) BytesRead() int {
	return br.nRead
}

// BitsRead returns the number of bits read so far.
func (br *BitReader) BitsRead() int {
	return br.nRead*8 - br.bits
}
