/*
DESCRIPTION
  residual.go provides decoding of the bypass coded residual syntax elements
  coeff_abs_level_remaining and coeff_sign_flag, one bin at a time or in bulk
  from a bypass bracket, with the persistent rice parameter statistics, and
  of the coeff_abs_level_greater1_flag run of a sub-block.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package h265dec

import (
	"math/bits"

	"github.com/ausocean/hevc/codec/h265/h265dec/cabac"
	"github.com/pkg/errors"
)

// maxPrefix bounds the unary prefix of coeff_abs_level_remaining.
const maxPrefix = 31

// ErrPrefixTooLong is returned when a coeff_abs_level_remaining prefix reaches
// 31 bins, which no conforming stream produces.
var ErrPrefixTooLong = errors.New("coeff_abs_level_remaining prefix too long")

// SubBlockType returns the index of the rice statistic used for a transform
// block: 2 for luma, 0 for chroma, plus 1 when transform_skip_flag or
// cu_transquant_bypass_flag is set. ITU-T H.265 9.3.3.11.
func SubBlockType(cIdx int, skipOrBypass bool) int {
	sb := 0
	if cIdx == 0 {
		sb = 2
	}
	if skipOrBypass {
		sb++
	}
	return sb
}

// RiceParam returns the initial rice parameter for a sub-block from the
// statistic of the given sub-block type.
func RiceParam(t *cabac.ContextTable, sbType int) int {
	return int(t.Rice[sbType] >> 2)
}

// UpdateRice adapts the rice statistic stat after the first
// coeff_abs_level_remaining v of a sub-block, decoded with rice parameter
// rice.
func UpdateRice(stat *uint8, v, rice int) {
	x := (uint(v) << 1) >> uint(rice)
	switch {
	case x >= 6:
		*stat++
	case x == 0 && *stat > 0:
		*stat--
	}
}

// CoeffAbsLevelRemaining decodes coeff_abs_level_remaining with rice
// parameter rice one bin at a time. ITU-T H.265 9.3.3.11.
func CoeffAbsLevelRemaining(e cabac.Engine, rice int) (int, error) {
	prefix := 0
	for prefix < maxPrefix && e.DecodeBypass() == 1 {
		prefix++
	}
	if prefix == maxPrefix {
		return 0, errors.Wrapf(ErrPrefixTooLong, "at bit %d", e.BitPos())
	}
	if prefix < 3 {
		return prefix<<uint(rice) + int(e.DecodeBypassBits(rice)), nil
	}
	suffix := e.DecodeBypassBits(prefix - 3 + rice)
	return (1<<uint(prefix-3)+2)<<uint(rice) + int(suffix), nil
}

// CoeffAbsLevelRemainingBulk decodes coeff_abs_level_remaining from the open
// bypass bracket b. Codes that fit one peek are decoded with a single flush.
// The result always equals that of CoeffAbsLevelRemaining.
func CoeffAbsLevelRemainingBulk(b *cabac.Bypass, rice int) (int, error) {
	w := b.Width()
	y := b.Peek()
	prefix := bits.LeadingZeros32(^y)

	switch {
	case prefix < 3 && prefix+1+rice <= w:
		suffix := (y << uint(prefix)) >> uint(31-rice)
		b.Flush(prefix+1+rice, y)
		return prefix<<uint(rice) + int(suffix), nil
	case prefix >= 3 && 2*prefix+rice-2 <= w:
		// The terminating zero is replaced by the leading one of the
		// 1<<(prefix-3) term.
		suffix := ((y << uint(prefix)) | 0x80000000) >> uint(34-(prefix+rice))
		b.Flush(2*prefix+rice-2, y)
		return 2<<uint(rice) + int(suffix), nil
	}
	return coeffAbsLevelRemainingLong(b, rice)
}

// coeffAbsLevelRemainingLong decodes a code that may span peeks.
func coeffAbsLevelRemainingLong(b *cabac.Bypass, rice int) (int, error) {
	w := b.Width()
	prefix := 0
	for {
		n := maxPrefix - prefix
		if n > w {
			n = w
		}
		y := b.Peek()
		ones := bits.LeadingZeros32(^y)
		if ones >= n {
			b.Flush(n, y)
			prefix += n
			if prefix == maxPrefix {
				return 0, ErrPrefixTooLong
			}
			continue
		}
		b.Flush(ones+1, y)
		prefix += ones
		break
	}
	if prefix < 3 {
		return prefix<<uint(rice) + int(b.Read(rice)), nil
	}
	suffix := b.Read(prefix - 3 + rice)
	return (1<<uint(prefix-3)+2)<<uint(rice) + int(suffix), nil
}

// CoeffSignFlags decodes n coeff_sign_flag bins, returned left aligned with
// the first in bit 31.
func CoeffSignFlags(e cabac.Engine, n int) uint32 {
	if n == 0 {
		return 0
	}
	return e.DecodeBypassBits(n) << uint(32-n)
}

// CoeffSignFlagsBulk decodes n coeff_sign_flag bins, n <= b.Width(), from the
// open bypass bracket b. The result is as for CoeffSignFlags.
func CoeffSignFlagsBulk(b *cabac.Bypass, n int) uint32 {
	if n == 0 {
		return 0
	}
	y := b.Peek()
	b.Flush(n, y)
	return y &^ (0xffffffff >> uint(n))
}

// Greater1Flags decodes n coeff_abs_level_greater1_flag bins of a
// sub-block using the context set starting at ctxSet. Each flag uses
// context increment min(i+1, 3) until a flag of 1 is decoded, after which
// increment 0 is used. The flags are returned with the first in bit n-1.
// ITU-T H.265 9.3.4.2.6.
func Greater1Flags(e cabac.Engine, n, ctxSet int) uint32 {
	var v uint32
	for i := 0; i < n; i++ {
		inc := 0
		if v == 0 {
			inc = i + 1
			if inc > 3 {
				inc = 3
			}
		}
		v = v<<1 | uint32(e.DecodeBin(ctxSet+inc))
	}
	return v
}
