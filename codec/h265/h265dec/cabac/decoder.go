/*
DESCRIPTION
  decoder.go provides Decoder, the CABAC arithmetic decoding engine over a
  slice segment's data, and the Engine interface shared by the engine's
  state representations.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package cabac provides the context-adaptive binary arithmetic decoding
// engine of ITU-T H.265 9.3.4.3: regular, bypass and terminate bin decoding,
// bulk decoding of bypass runs, context table initialisation and
// resynchronisation after escape data such as PCM samples.
//
// An engine is single threaded. Separate engines may run concurrently over
// disjoint data, sharing contexts only through Snapshot copies.
package cabac

// Engine is a CABAC arithmetic decoding engine. Decoder and LowDecoder both
// implement Engine and produce identical results for identical input.
type Engine interface {
	// DecodeBin decodes a regular bin using context ctxIdx of the bound
	// ContextTable.
	DecodeBin(ctxIdx int) int

	// DecodeDecision decodes a regular bin using and updating s.
	DecodeDecision(s *State) int

	// DecodeBypass decodes a single bypass bin.
	DecodeBypass() int

	// DecodeBypassBits decodes n bypass bins, returned MSB first.
	DecodeBypassBits(n int) uint32

	// DecodeBypassSign decodes a bypass bin and returns -v if it is 0 and v
	// otherwise.
	DecodeBypassSign(v int) int

	// DecodeTerminate decodes a terminate bin. If the bin is 1, it returns
	// the number of bytes consumed so far, rounded up to a whole byte, and
	// true.
	DecodeTerminate() (int, bool)

	// SkipBytes returns the n bytes of escape data that follow the consumed
	// bits and re-initialises the engine on the data after them.
	SkipBytes(n int) ([]byte, error)

	// StartBypass opens a bulk bypass bracket. No other decode may be made
	// until the returned Bypass is finished.
	StartBypass() *Bypass

	// Contexts returns the bound ContextTable.
	Contexts() *ContextTable

	// Range and Offset return the current interval range and offset.
	Range() uint32
	Offset() uint32

	// BitPos returns the number of bits consumed from the start of the
	// current data.
	BitPos() int

	// Overflowed reports whether decoding has read past the end of the data.
	Overflowed() bool
}

// Decoder is the canonical CABAC engine holding the interval as a 9 bit
// range and offset with an explicit bit position into the data.
//
// Bits read past the end of the data are zero. Decoding continues silently
// past the end and Overflowed reports when it has happened.
type Decoder struct {
	core
	ctx      *ContextTable
	strategy BypassStrategy
	open     *Bypass
}

// NewDecoder returns a Decoder primed from the start of buf using the
// contexts of t. buf is borrowed and must not be modified while the Decoder
// is in use.
func NewDecoder(buf []byte, t *ContextTable) (*Decoder, error) {
	d := &Decoder{ctx: t, strategy: DefaultBypassStrategy}
	err := d.init(buf)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Reset re-primes d from the start of buf, keeping its ContextTable.
func (d *Decoder) Reset(buf []byte) error {
	d.mustBeClosed()
	return d.init(buf)
}

// SetContexts binds t as the ContextTable used by DecodeBin.
func (d *Decoder) SetContexts(t *ContextTable) { d.ctx = t }

// Contexts implements Engine.
func (d *Decoder) Contexts() *ContextTable { return d.ctx }

// SetBypassStrategy selects the arithmetic used by subsequent bulk bypass
// brackets.
func (d *Decoder) SetBypassStrategy(s BypassStrategy) { d.strategy = s }

// DecodeBin implements Engine.
func (d *Decoder) DecodeBin(ctxIdx int) int {
	return d.DecodeDecision(&d.ctx.States[ctxIdx])
}

// DecodeDecision implements Engine.
func (d *Decoder) DecodeDecision(s *State) int {
	d.mustBeClosed()
	return d.decision(s)
}

// DecodeBypass implements Engine.
func (d *Decoder) DecodeBypass() int {
	d.mustBeClosed()
	return d.bypass()
}

// DecodeBypassBits implements Engine.
func (d *Decoder) DecodeBypassBits(n int) uint32 {
	d.mustBeClosed()
	var v uint32
	for i := 0; i < n; i++ {
		v = v<<1 | uint32(d.bypass())
	}
	return v
}

// DecodeBypassSign implements Engine.
func (d *Decoder) DecodeBypassSign(v int) int {
	if d.DecodeBypass() == 1 {
		return v
	}
	return -v
}

// DecodeTerminate implements Engine.
func (d *Decoder) DecodeTerminate() (int, bool) {
	d.mustBeClosed()
	return d.terminate()
}

// SkipBytes implements Engine.
func (d *Decoder) SkipBytes(n int) ([]byte, error) {
	d.mustBeClosed()
	return d.skip(n)
}

// StartBypass implements Engine.
func (d *Decoder) StartBypass() *Bypass {
	d.mustBeClosed()
	d.open = newBypass(d, d.core, d.strategy)
	return d.open
}

// Range implements Engine.
func (d *Decoder) Range() uint32 { return d.rng }

// Offset implements Engine.
func (d *Decoder) Offset() uint32 { return d.off }

// BitPos implements Engine.
func (d *Decoder) BitPos() int { return d.pos }

// Overflowed implements Engine.
func (d *Decoder) Overflowed() bool { return d.overflowed() }

func (d *Decoder) endBypass(c core) {
	d.core = c
	d.open = nil
}

func (d *Decoder) mustBeClosed() {
	if d.open != nil {
		panic("cabac: decode called inside an open bulk bypass bracket")
	}
}
