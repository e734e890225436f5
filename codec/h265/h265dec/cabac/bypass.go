/*
DESCRIPTION
  bypass.go provides bulk decoding of bypass bins. A run of bypass bins is the
  binary expansion of the offset, extended with further stream bits, divided
  by the range, so up to Width bins can be produced by one division instead
  of one comparison per bin.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package cabac

import (
	"fmt"

	bitio "github.com/ausocean/hevc/codec/h265/h265dec/bits"
)

// peekBits is the number of stream bits appended to the offset by a peek.
const peekBits = 23

// BypassStrategy selects the arithmetic used to divide by the range during
// bulk bypass decoding.
type BypassStrategy int

// Bypass strategies.
const (
	// Reciprocal multiplies by a precomputed 2^40/range + 1, giving 22
	// exact bins per peek.
	Reciprocal BypassStrategy = iota

	// Divide uses an integer divide, giving 23 exact bins per peek.
	Divide
)

// Width returns the number of bins a single peek yields under s.
func (s BypassStrategy) Width() int {
	if s == Divide {
		return 23
	}
	return 22
}

func (s BypassStrategy) String() string {
	switch s {
	case Reciprocal:
		return "reciprocal"
	case Divide:
		return "divide"
	default:
		return fmt.Sprintf("BypassStrategy(%d)", int(s))
	}
}

// quotient returns floor(x/rng) left aligned at bit 31 with 9 bits of
// fraction below it. At least Width leading bits are exact.
func (s BypassStrategy) quotient(x, rng uint32) uint32 {
	if s == Divide {
		return x / rng << 9
	}
	y := x &^ 1
	if inv := invRange[rng-minRange]; inv != 0 {
		y = uint32(uint64(y) * uint64(inv) >> 32)
	}
	return y << 1
}

// bypassHost is an engine that can take back its state at the end of a bulk
// bypass bracket.
type bypassHost interface {
	endBypass(c core)
}

// Bypass is an open bulk bypass bracket. Bins are read by calling Peek and
// then Flush with the number of bins used. Finish must be called before the
// owning engine is used again.
//
// Calling Flush without a preceding Peek, flushing a value other than the one
// peeked, flushing outside [1, Width] or using a finished Bypass panics.
type Bypass struct {
	host     bypassHost
	c        core
	strategy BypassStrategy
	width    int
	peeked   bool
	last     uint32
	done     bool
}

func newBypass(h bypassHost, c core, s BypassStrategy) *Bypass {
	return &Bypass{host: h, c: c, strategy: s, width: s.Width()}
}

// Width returns the maximum number of bins that may be flushed per peek.
func (b *Bypass) Width() int { return b.width }

// Peek returns the next Width bypass bins left aligned, the first bin in bit
// 31. Bits below the top Width are not meaningful. Peek does not advance the
// decoder and repeated calls return the same value.
func (b *Bypass) Peek() uint32 {
	b.mustBeOpen()
	x := b.c.off<<peekBits | bitio.Peek32(b.c.buf, b.c.pos)>>(32-peekBits)
	b.last = b.strategy.quotient(x, b.c.rng)
	b.peeked = true
	return b.last
}

// Flush consumes the first n bins of val, which must be the value returned by
// the most recent Peek.
func (b *Bypass) Flush(n int, val uint32) {
	b.mustBeOpen()
	if !b.peeked {
		panic("cabac: bypass flush without peek")
	}
	if val != b.last {
		panic("cabac: bypass flush of a value that was not peeked")
	}
	if n < 1 || n > b.width {
		panic(fmt.Sprintf("cabac: bypass flush of %d bins, want [1,%d]", n, b.width))
	}
	q := val >> uint(32-n)
	x := b.c.off<<uint(n) | bitio.Peek32(b.c.buf, b.c.pos)>>uint(32-n)
	b.c.off = x - q*b.c.rng
	b.c.pos += n
	b.peeked = false
}

// Read decodes n bypass bins, n <= 32, returned MSB first.
func (b *Bypass) Read(n int) uint32 {
	var v uint32
	for n > 0 {
		k := n
		if k > b.width {
			k = b.width
		}
		y := b.Peek()
		b.Flush(k, y)
		v = v<<uint(k) | y>>uint(32-k)
		n -= k
	}
	return v
}

// Finish closes the bracket and returns the decoder state to the owning
// engine, which may then be used for any decode.
func (b *Bypass) Finish() {
	b.mustBeOpen()
	b.done = true
	b.host.endBypass(b.c)
}

func (b *Bypass) mustBeOpen() {
	if b.done {
		panic("cabac: use of finished bypass bracket")
	}
}
