/*
DESCRIPTION
  encoder.go provides a reference CABAC arithmetic encoder following
  ITU-T H.265 9.3.4.4 (as used by the HM encoder). It exists to build test
  streams with known bins for the decoding engine and is not used outside
  tests.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package cabactest provides a reference CABAC encoder for generating test
// streams.
package cabactest

import (
	"math/rand"

	"github.com/ausocean/hevc/codec/h265/h265dec/cabac"
)

// Encoder is a CABAC arithmetic encoder writing to an in-memory bit buffer.
type Encoder struct {
	low         uint32
	rng         uint32
	firstBit    bool
	outstanding int
	bits        []byte // One element per bit.
}

// NewEncoder returns an initialised Encoder. ITU-T H.265 9.3.4.4.1 (9.3.2.6).
func NewEncoder() *Encoder {
	return &Encoder{rng: 510, firstBit: true}
}

// EncodeDecision encodes bin with the probability state s, updating s.
func (e *Encoder) EncodeDecision(s *cabac.State, bin int) {
	lps := cabac.RangeLPS(*s, e.rng)
	e.rng -= lps
	if bin != s.MPS() {
		e.low += e.rng
		e.rng = lps
	}
	s.Update(bin)
	e.renorm()
}

// EncodeBypass encodes bin with equal probability.
func (e *Encoder) EncodeBypass(bin int) {
	e.low <<= 1
	if bin != 0 {
		e.low += e.rng
	}
	switch {
	case e.low >= 1024:
		e.putBit(1)
		e.low -= 1024
	case e.low < 512:
		e.putBit(0)
	default:
		e.low -= 512
		e.outstanding++
	}
}

// EncodeBypassBits encodes the n low bits of v, MSB first.
func (e *Encoder) EncodeBypassBits(v uint32, n int) {
	for i := n - 1; i >= 0; i-- {
		e.EncodeBypass(int(v>>uint(i)) & 1)
	}
}

// EncodeTerminate encodes a terminate bin. Encoding 1 flushes the encoder,
// writing the stop bit, after which Bytes gives the complete stream.
func (e *Encoder) EncodeTerminate(bin int) {
	e.rng -= 2
	if bin == 0 {
		e.renorm()
		return
	}
	e.low += e.rng
	e.flush()
}

// flush finishes the arithmetic codeword. ITU-T H.265 9.3.4.4.6 (EncodeFlush).
func (e *Encoder) flush() {
	e.rng = 2
	e.renorm()
	e.putBit(int(e.low>>9) & 1)
	v := (e.low>>7)&3 | 1
	e.bits = append(e.bits, byte(v>>1), byte(v&1))
}

// Align pads the stream with zero bits to a byte boundary.
func (e *Encoder) Align() {
	for len(e.bits)%8 != 0 {
		e.bits = append(e.bits, 0)
	}
}

// WriteBytes appends raw bytes, such as PCM samples, to the stream. The stream
// must be byte aligned.
func (e *Encoder) WriteBytes(b []byte) {
	for _, v := range b {
		for i := 7; i >= 0; i-- {
			e.bits = append(e.bits, v>>uint(i)&1)
		}
	}
}

// Restart re-initialises the arithmetic coder after a flush, as after PCM
// samples or at the start of a new substream.
func (e *Encoder) Restart() {
	e.low, e.rng, e.firstBit, e.outstanding = 0, 510, true, 0
}

// BitLen returns the number of bits written so far.
func (e *Encoder) BitLen() int { return len(e.bits) }

// Bytes returns the stream packed into bytes, zero padded to a byte boundary.
func (e *Encoder) Bytes() []byte {
	out := make([]byte, (len(e.bits)+7)/8)
	for i, b := range e.bits {
		out[i/8] |= b << uint(7-i%8)
	}
	return out
}

func (e *Encoder) renorm() {
	for e.rng < 256 {
		switch {
		case e.low < 256:
			e.putBit(0)
		case e.low >= 512:
			e.low -= 512
			e.putBit(1)
		default:
			e.low -= 256
			e.outstanding++
		}
		e.rng <<= 1
		e.low <<= 1
	}
}

func (e *Encoder) putBit(b int) {
	if e.firstBit {
		e.firstBit = false
	} else {
		e.bits = append(e.bits, byte(b))
	}
	for ; e.outstanding > 0; e.outstanding-- {
		e.bits = append(e.bits, byte(1-b))
	}
}

// RandomBytes returns n pseudo-random bytes from a fixed seed, for use as
// arbitrary stream data.
func RandomBytes(seed int64, n int) []byte {
	b := make([]byte, n)
	rand.New(rand.NewSource(seed)).Read(b)
	return b
}
