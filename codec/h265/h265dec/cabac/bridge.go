/*
DESCRIPTION
  bridge.go converts between the Decoder and LowDecoder representations of
  the engine state, preserving range, offset and bit position.

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

import bitio "github.com/ausocean/hevc/codec/h265/h265dec/bits"

// ToLow returns a LowDecoder in the same logical state as d, sharing its data
// and ContextTable. d must not have an open bypass bracket.
func ToLow(d *Decoder) *LowDecoder {
	d.mustBeClosed()
	l := &LowDecoder{ctx: d.ctx, strategy: d.strategy}
	l.setLogical(d.core)
	return l
}

// FromLow returns a Decoder in the same logical state as l, sharing its data
// and ContextTable. l must not have an open bypass bracket.
func FromLow(l *LowDecoder) *Decoder {
	l.mustBeClosed()
	return &Decoder{core: l.logical(), ctx: l.ctx, strategy: l.strategy}
}

// logical returns l's state in the canonical representation.
func (l *LowDecoder) logical() core {
	return core{buf: l.buf, pos: l.BitPos(), rng: l.rng, off: l.Offset()}
}

// setLogical loads the canonical state c into l. The accumulator is rebuilt
// from the offset and the remainder of the byte holding bit c.pos.
func (l *LowDecoder) setLogical(c core) {
	l.buf, l.rng = c.buf, c.rng
	l.next = c.pos >> 3
	l.val, l.cnt = uint64(c.off), 0
	if r := uint(c.pos & 7); r != 0 {
		l.val = l.val<<(8-r) | uint64(bitio.Byte(l.buf, l.next)&(1<<(8-r)-1))
		l.cnt = 8 - r
		l.next++
	}
	l.fill()
}
