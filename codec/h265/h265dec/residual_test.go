/*
DESCRIPTION
  residual_test.go provides testing for residual syntax element decoding in
  residual.go.

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
	"math/rand"
	"testing"

	"github.com/ausocean/hevc/codec/h265/h265dec/cabac"
	"github.com/ausocean/hevc/internal/cabactest"
	"github.com/pkg/errors"
)

// encodeRemaining writes the binarisation of coeff_abs_level_remaining v with
// rice parameter rice.
func encodeRemaining(enc *cabactest.Encoder, v, rice int) {
	if v < 3<<uint(rice) {
		prefix := v >> uint(rice)
		enc.EncodeBypassBits(1<<uint(prefix+1)-2, prefix+1)
		enc.EncodeBypassBits(uint32(v), rice)
		return
	}
	prefix := 3
	for v >= (1<<uint(prefix-2)+2)<<uint(rice) {
		prefix++
	}
	enc.EncodeBypassBits(1<<uint(prefix+1)-2, prefix+1)
	enc.EncodeBypassBits(uint32(v-(1<<uint(prefix-3)+2)<<uint(rice)), prefix-3+rice)
}

type remaining struct {
	v, rice int
}

// remainingValues returns values covering each binarisation branch for each
// rice parameter.
func remainingValues(rnd *rand.Rand) []remaining {
	var vals []remaining
	for rice := 0; rice <= 4; rice++ {
		for v := 0; v < 64; v++ {
			vals = append(vals, remaining{v, rice})
		}
		for _, v := range []int{1000, 4095, 4096, 32767, 1 << 16, 1<<20 + 7} {
			vals = append(vals, remaining{v, rice})
		}
		for i := 0; i < 64; i++ {
			vals = append(vals, remaining{rnd.Intn(1 << uint(rnd.Intn(18))), rice})
		}
	}
	rnd.Shuffle(len(vals), func(i, j int) { vals[i], vals[j] = vals[j], vals[i] })
	return vals
}

func TestCoeffAbsLevelRemaining(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	vals := remainingValues(rnd)

	enc := cabactest.NewEncoder()
	for _, r := range vals {
		encodeRemaining(enc, r.v, r.rice)
	}
	enc.EncodeTerminate(1)
	stream := enc.Bytes()

	d, err := cabac.NewDecoder(stream, &cabac.ContextTable{})
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	for i, r := range vals {
		got, err := CoeffAbsLevelRemaining(d, r.rice)
		if err != nil {
			t.Fatalf("did not expect error for value %d: %v", i, err)
		}
		if got != r.v {
			t.Fatalf("did not get expected result for value %d (rice %d)\nGot: %v\nWant: %v\n", i, r.rice, got, r.v)
		}
	}
	if n, ok := d.DecodeTerminate(); !ok || n != len(stream) {
		t.Errorf("did not get expected termination\nGot: %v, %v\nWant: %v, true\n", n, ok, len(stream))
	}

	for _, s := range []cabac.BypassStrategy{cabac.Reciprocal, cabac.Divide} {
		for _, newEngine := range []func() (cabac.Engine, error){
			func() (cabac.Engine, error) { return cabac.NewDecoder(stream, &cabac.ContextTable{}) },
			func() (cabac.Engine, error) { return cabac.NewLowDecoder(stream, &cabac.ContextTable{}) },
		} {
			e, err := newEngine()
			if err != nil {
				t.Fatalf("did not expect error: %v", err)
			}
			switch v := e.(type) {
			case *cabac.Decoder:
				v.SetBypassStrategy(s)
			case *cabac.LowDecoder:
				v.SetBypassStrategy(s)
			}
			b := e.StartBypass()
			for i, r := range vals {
				got, err := CoeffAbsLevelRemainingBulk(b, r.rice)
				if err != nil {
					t.Fatalf("%v: did not expect error for value %d: %v", s, i, err)
				}
				if got != r.v {
					t.Fatalf("%v: did not get expected result for value %d (rice %d)\nGot: %v\nWant: %v\n", s, i, r.rice, got, r.v)
				}
			}
			b.Finish()
			if n, ok := e.DecodeTerminate(); !ok || n != len(stream) {
				t.Errorf("%v: did not get expected termination\nGot: %v, %v\nWant: %v, true\n", s, n, ok, len(stream))
			}
		}
	}
}

func TestPrefixTooLong(t *testing.T) {
	enc := cabactest.NewEncoder()
	enc.EncodeBypassBits(0xffffffff, 32)
	enc.EncodeBypassBits(0xffffffff, 8)
	enc.EncodeTerminate(1)
	stream := enc.Bytes()

	d, err := cabac.NewDecoder(stream, &cabac.ContextTable{})
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	_, err = CoeffAbsLevelRemaining(d, 0)
	if !errors.Is(err, ErrPrefixTooLong) {
		t.Errorf("did not get expected error\nGot: %v\nWant: %v\n", err, ErrPrefixTooLong)
	}

	for _, s := range []cabac.BypassStrategy{cabac.Reciprocal, cabac.Divide} {
		bd, err := cabac.NewDecoder(stream, &cabac.ContextTable{})
		if err != nil {
			t.Fatalf("did not expect error: %v", err)
		}
		bd.SetBypassStrategy(s)
		b := bd.StartBypass()
		_, err = CoeffAbsLevelRemainingBulk(b, 0)
		if !errors.Is(err, ErrPrefixTooLong) {
			t.Errorf("%v: did not get expected error\nGot: %v\nWant: %v\n", s, err, ErrPrefixTooLong)
		}
		b.Finish()
		if bd.BitPos() != d.BitPos() {
			t.Errorf("%v: did not get expected bit position\nGot: %v\nWant: %v\n", s, bd.BitPos(), d.BitPos())
		}
	}
}

func TestCoeffSignFlags(t *testing.T) {
	rnd := rand.New(rand.NewSource(12))
	var runs []uint32
	enc := cabactest.NewEncoder()
	for n := 0; n <= 16; n++ {
		v := rnd.Uint32() & (1<<uint(n) - 1)
		runs = append(runs, v)
		enc.EncodeBypassBits(v, n)
	}
	enc.EncodeTerminate(1)
	stream := enc.Bytes()

	d, err := cabac.NewDecoder(stream, &cabac.ContextTable{})
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	bd, err := cabac.NewDecoder(stream, &cabac.ContextTable{})
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	b := bd.StartBypass()
	for n, v := range runs {
		var want uint32
		if n != 0 {
			want = v << uint(32-n)
		}
		if got := CoeffSignFlags(d, n); got != want {
			t.Errorf("did not get expected result for %d flags\nGot: %#x\nWant: %#x\n", n, got, want)
		}
		if got := CoeffSignFlagsBulk(b, n); got != want {
			t.Errorf("did not get expected bulk result for %d flags\nGot: %#x\nWant: %#x\n", n, got, want)
		}
	}
	b.Finish()
	if d.BitPos() != bd.BitPos() || d.Offset() != bd.Offset() {
		t.Errorf("scalar and bulk decoding ended in different states")
	}
}

func TestUpdateRice(t *testing.T) {
	tests := []struct {
		stat uint8
		v    int
		rice int
		want uint8
	}{
		{stat: 0, v: 0, rice: 0, want: 0},
		{stat: 3, v: 0, rice: 0, want: 2},
		{stat: 3, v: 3, rice: 0, want: 4},
		{stat: 3, v: 2, rice: 0, want: 3},
		{stat: 5, v: 2, rice: 1, want: 5},
		{stat: 5, v: 1, rice: 2, want: 4},
		{stat: 8, v: 12, rice: 2, want: 9},
		{stat: 8, v: 11, rice: 2, want: 8},
	}

	for i, test := range tests {
		got := test.stat
		UpdateRice(&got, test.v, test.rice)
		if got != test.want {
			t.Errorf("did not get expected result for test %d\nGot: %v\nWant: %v\n", i, got, test.want)
		}
	}
}

func TestRiceParam(t *testing.T) {
	ct := &cabac.ContextTable{Rice: [cabac.NumRiceStats]uint8{0, 5, 9, 17}}
	tests := []struct {
		cIdx int
		skip bool
		want int
	}{
		{cIdx: 1, skip: false, want: 0},
		{cIdx: 2, skip: true, want: 1},
		{cIdx: 0, skip: false, want: 2},
		{cIdx: 0, skip: true, want: 4},
	}

	for i, test := range tests {
		got := RiceParam(ct, SubBlockType(test.cIdx, test.skip))
		if got != test.want {
			t.Errorf("did not get expected result for test %d\nGot: %v\nWant: %v\n", i, got, test.want)
		}
	}
}

func TestGreater1Flags(t *testing.T) {
	tests := [][]int{
		{0},
		{1},
		{0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 1, 0, 1, 1, 0, 0},
		{1, 1, 1, 1},
		{0, 0, 0, 0, 0, 1, 0},
	}

	initial, err := cabac.NewContextTable(2, 30)
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	const ctxSet = CtxCoeffAbsLevelGreater1 + 4

	for i, flags := range tests {
		enc := cabactest.NewEncoder()
		encCtx := *initial
		var want uint32
		for j, f := range flags {
			inc := 0
			if want == 0 {
				inc = j + 1
				if inc > 3 {
					inc = 3
				}
			}
			enc.EncodeDecision(&encCtx.States[ctxSet+inc], f)
			want = want<<1 | uint32(f)
		}
		enc.EncodeTerminate(1)

		decCtx := *initial
		d, err := cabac.NewDecoder(enc.Bytes(), &decCtx)
		if err != nil {
			t.Fatalf("did not expect error: %v", err)
		}
		got := Greater1Flags(d, len(flags), ctxSet)
		if got != want {
			t.Errorf("did not get expected result for test %d\nGot: %b\nWant: %b\n", i, got, want)
		}
		if decCtx != encCtx {
			t.Errorf("context states differ after test %d", i)
		}
	}
}
