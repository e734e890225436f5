/*
DESCRIPTION
  low.go provides LowDecoder, a CABAC engine that keeps the offset in a wide
  accumulator above a window of pending stream bits, refilled a byte at a
  time, and comparisons against a range scaled up to match.

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
	"math/bits"

	bitio "github.com/ausocean/hevc/codec/h265/h265dec/bits"
	"github.com/pkg/errors"
)

// refillAt is the pending bit count at or below which the window is refilled.
const refillAt = 24

// LowDecoder is an Engine holding val = offset<<cnt | pending, where pending
// is the next cnt stream bits. Data is loaded a byte at a time so no per bit
// position arithmetic is needed. Bytes past the end of the data load as zero.
type LowDecoder struct {
	buf      []byte
	next     int // Index of the next byte to load.
	val      uint64
	cnt      uint
	rng      uint32
	ctx      *ContextTable
	strategy BypassStrategy
	open     *Bypass
}

// NewLowDecoder returns a LowDecoder primed from the start of buf using the
// contexts of t.
func NewLowDecoder(buf []byte, t *ContextTable) (*LowDecoder, error) {
	l := &LowDecoder{ctx: t, strategy: DefaultBypassStrategy}
	err := l.Reset(buf)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Reset re-primes l from the start of buf, keeping its ContextTable.
func (l *LowDecoder) Reset(buf []byte) error {
	l.mustBeClosed()
	if len(buf) < primeBytes {
		return errors.Wrapf(ErrInsufficientData, "need %d bytes to initialise, have %d", primeBytes, len(buf))
	}
	l.buf, l.next, l.val, l.cnt = buf, 0, 0, 0
	l.rng = maxRange
	l.fill()
	l.cnt -= 9
	return nil
}

func (l *LowDecoder) fill() {
	for l.cnt <= refillAt {
		l.val = l.val<<8 | uint64(bitio.Byte(l.buf, l.next))
		l.next++
		l.cnt += 8
	}
}

func (l *LowDecoder) need(n uint) {
	if l.cnt < n {
		l.fill()
	}
}

func (l *LowDecoder) renorm() {
	n := bits.LeadingZeros32(l.rng) - 23
	if n <= 0 {
		return
	}
	l.need(uint(n))
	l.rng <<= uint(n)
	l.cnt -= uint(n)
}

// SetContexts binds t as the ContextTable used by DecodeBin.
func (l *LowDecoder) SetContexts(t *ContextTable) { l.ctx = t }

// Contexts implements Engine.
func (l *LowDecoder) Contexts() *ContextTable { return l.ctx }

// SetBypassStrategy selects the arithmetic used by subsequent bulk bypass
// brackets.
func (l *LowDecoder) SetBypassStrategy(s BypassStrategy) { l.strategy = s }

// DecodeBin implements Engine.
func (l *LowDecoder) DecodeBin(ctxIdx int) int {
	return l.DecodeDecision(&l.ctx.States[ctxIdx])
}

// DecodeDecision implements Engine.
func (l *LowDecoder) DecodeDecision(s *State) int {
	l.mustBeClosed()
	lps := RangeLPS(*s, l.rng)
	l.rng -= lps
	bin := s.MPS()
	if scaled := uint64(l.rng) << l.cnt; l.val >= scaled {
		l.val -= scaled
		l.rng = lps
		bin ^= 1
	}
	s.Update(bin)
	l.renorm()
	return bin
}

// DecodeBypass implements Engine.
func (l *LowDecoder) DecodeBypass() int {
	l.mustBeClosed()
	l.need(1)
	l.cnt--
	if scaled := uint64(l.rng) << l.cnt; l.val >= scaled {
		l.val -= scaled
		return 1
	}
	return 0
}

// DecodeBypassBits implements Engine.
func (l *LowDecoder) DecodeBypassBits(n int) uint32 {
	var v uint32
	for i := 0; i < n; i++ {
		v = v<<1 | uint32(l.DecodeBypass())
	}
	return v
}

// DecodeBypassSign implements Engine.
func (l *LowDecoder) DecodeBypassSign(v int) int {
	if l.DecodeBypass() == 1 {
		return v
	}
	return -v
}

// DecodeTerminate implements Engine.
func (l *LowDecoder) DecodeTerminate() (int, bool) {
	l.mustBeClosed()
	l.rng -= 2
	if l.val >= uint64(l.rng)<<l.cnt {
		return (l.BitPos() + 7) >> 3, true
	}
	l.renorm()
	return 0, false
}

// SkipBytes implements Engine.
func (l *LowDecoder) SkipBytes(n int) ([]byte, error) {
	l.mustBeClosed()
	c := l.logical()
	payload, err := c.skip(n)
	if err != nil {
		return payload, err
	}
	l.setLogical(c)
	return payload, nil
}

// StartBypass implements Engine.
func (l *LowDecoder) StartBypass() *Bypass {
	l.mustBeClosed()
	l.open = newBypass(l, l.logical(), l.strategy)
	return l.open
}

// Range implements Engine.
func (l *LowDecoder) Range() uint32 { return l.rng }

// Offset implements Engine.
func (l *LowDecoder) Offset() uint32 { return uint32(l.val >> l.cnt) }

// BitPos implements Engine.
func (l *LowDecoder) BitPos() int { return l.next*8 - int(l.cnt) }

// Overflowed implements Engine.
func (l *LowDecoder) Overflowed() bool { return bitio.Exhausted(l.buf, l.BitPos()) }

func (l *LowDecoder) endBypass(c core) {
	l.setLogical(c)
	l.open = nil
}

func (l *LowDecoder) mustBeClosed() {
	if l.open != nil {
		panic("cabac: decode called inside an open bulk bypass bracket")
	}
}
