/*
DESCRIPTION
  core.go provides the canonical arithmetic decoding state, a 9 bit range and
  offset with an explicit bit position, and the decoding processes of
  ITU-T H.265 9.3.4.3 that operate on it.

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

// Range bounds after renormalisation.
const (
	minRange = 256
	maxRange = 510
)

// primeBytes is the number of bytes needed to initialise the decoder.
const primeBytes = 2

// core is the arithmetic decoder state. After any decode rng is in
// [minRange, maxRange] and off < rng. pos is the number of bits of buf
// consumed; bits past the end of buf read as zero.
type core struct {
	buf []byte
	pos int
	rng uint32
	off uint32
}

// init primes c from the start of buf. ITU-T H.265 9.3.2.5.
func (c *core) init(buf []byte) error {
	if len(buf) < primeBytes {
		return errors.Wrapf(ErrInsufficientData, "need %d bytes to initialise, have %d", primeBytes, len(buf))
	}
	c.buf = buf
	c.rng = maxRange
	c.off = uint32(buf[0])<<1 | uint32(buf[1])>>7
	c.pos = 9
	return nil
}

// renorm brings rng back into [minRange, maxRange] in one step.
// ITU-T H.265 9.3.4.3.3.
func (c *core) renorm() {
	n := bits.LeadingZeros32(c.rng) - 23
	if n <= 0 {
		return
	}
	c.off = c.off<<uint(n) | bitio.Peek32(c.buf, c.pos)>>uint(32-n)
	c.rng <<= uint(n)
	c.pos += n
}

// decision decodes a regular bin using and updating s. ITU-T H.265 9.3.4.3.2.
func (c *core) decision(s *State) int {
	lps := RangeLPS(*s, c.rng)
	c.rng -= lps
	bin := s.MPS()
	if c.off >= c.rng {
		c.off -= c.rng
		c.rng = lps
		bin ^= 1
	}
	s.Update(bin)
	c.renorm()
	return bin
}

// bypass decodes a bypass bin. ITU-T H.265 9.3.4.3.4.
func (c *core) bypass() int {
	c.off = c.off<<1 | bitio.Bit(c.buf, c.pos)
	c.pos++
	if c.off >= c.rng {
		c.off -= c.rng
		return 1
	}
	return 0
}

// terminate decodes a terminate bin. When the bin is 1 it returns the number
// of bytes consumed, rounded up, and true. ITU-T H.265 9.3.4.3.5.
func (c *core) terminate() (int, bool) {
	c.rng -= 2
	if c.off >= c.rng {
		return (c.pos + 7) >> 3, true
	}
	c.renorm()
	return 0, false
}

// skip returns the n bytes following the consumed bits and re-initialises c
// on the data after them.
func (c *core) skip(n int) ([]byte, error) {
	p := (c.pos + 7) >> 3
	if n < 0 || len(c.buf)-p < n {
		return nil, errors.Wrapf(ErrInsufficientData, "escape of %d bytes at byte %d overruns %d byte buffer", n, p, len(c.buf))
	}
	payload := c.buf[p : p+n]
	err := c.init(c.buf[p+n:])
	if err != nil {
		return payload, errors.Wrap(err, "could not re-initialise after escape data")
	}
	return payload, nil
}

// overflowed reports whether bits past the end of buf have been consumed.
func (c *core) overflowed() bool {
	return bitio.Exhausted(c.buf, c.pos)
}
