/*
DESCRIPTION
  context_test.go provides testing for context table initialisation, the
  initType derivation and context snapshots.

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
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// intraQP26 holds the initial states of an I slice (initType 0) at slice QP 26.
var intraQP26 = [NumContexts]State{
	14, 17, 0, 31, 49, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 16, 0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 14, 16, 16, 31, 31, 0, 16, 30, 1, 0, 0,
	0, 0, 0, 0, 15, 15, 0, 15, 15, 14, 15, 47, 15, 0, 31, 63,
	47, 31, 0, 16, 16, 16, 15, 15, 0, 15, 15, 14, 15, 47, 15, 0,
	31, 63, 47, 31, 0, 16, 16, 16, 48, 33, 80, 31, 31, 31, 15, 15,
	15, 0, 0, 16, 0, 32, 15, 31, 78, 14, 15, 32, 15, 31, 78, 14,
	15, 32, 15, 31, 78, 14, 15, 15, 0, 30, 30, 30, 48, 30, 48, 14,
	48, 0, 31, 48, 0, 31, 31, 31, 15, 32, 32, 16, 15, 30, 16, 0,
	14, 80, 78, 32, 0, 32, 32, 30, 15, 78, 46, 30, 15, 30, 32, 30,
	16, 14, 48, 30, 30, 30, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 124, 124, 124, 124, 124, 124, 124, 124, 124, 124, 124, 124, 124, 124,
	124, 124, 124, 124, 124, 124, 124,
}

func TestInitIntraQP26(t *testing.T) {
	ct, err := NewContextTable(0, 26)
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	if !cmp.Equal(ct.States, intraQP26) {
		t.Errorf("did not get expected states\n%s", cmp.Diff(intraQP26, ct.States))
	}
	if ct.Rice != [NumRiceStats]uint8{} {
		t.Errorf("expected zero rice statistics, got %v", ct.Rice)
	}
}

func TestInitState(t *testing.T) {
	tests := []struct {
		initValue uint8
		qp        int
		want      State
	}{
		{initValue: 154, qp: 26, want: 1},
		{initValue: 153, qp: 26, want: 14},
		{initValue: 200, qp: 26, want: 17},
		{initValue: 63, qp: 0, want: 81},
		{initValue: 224, qp: 51, want: 0},
		{initValue: 0, qp: 26, want: 124},
		{initValue: 31, qp: 22, want: 28},
		{initValue: 160, qp: -5, want: 124},
		{initValue: 160, qp: 0, want: 124},
	}

	for i, test := range tests {
		got := InitState(test.initValue, test.qp)
		if got != test.want {
			t.Errorf("did not get expected result for test %d\nGot: %v\nWant: %v\n", i, got, test.want)
		}
	}
}

func TestInitTypes(t *testing.T) {
	tests := []struct {
		initType int
		qp       int
		idx      []int
		want     []State
	}{
		{initType: 1, qp: 0, idx: []int{0, 1, 2, 92, 160, 177, 178}, want: []State{14, 14, 17, 17, 17, 1, 124}},
		{initType: 2, qp: 51, idx: []int{0, 1, 2, 92, 160, 177, 178}, want: []State{14, 124, 78, 31, 78, 1, 124}},
		{initType: 2, qp: -5, idx: []int{0, 1, 2, 92, 160, 177, 178}, want: []State{14, 124, 17, 1, 17, 1, 124}},
		{initType: 0, qp: 60, idx: []int{0, 1, 2, 92, 160, 177, 178}, want: []State{14, 63, 14, 14, 30, 1, 124}},
	}

	for i, test := range tests {
		ct, err := NewContextTable(test.initType, test.qp)
		if err != nil {
			t.Fatalf("did not expect error: %v for test %d", err, i)
		}
		for j, idx := range test.idx {
			if ct.States[idx] != test.want[j] {
				t.Errorf("did not get expected state for test %d, context %d\nGot: %v\nWant: %v\n", i, idx, ct.States[idx], test.want[j])
			}
		}
	}
}

func TestBadInitType(t *testing.T) {
	for _, it := range []int{-1, 3, 10} {
		_, err := NewContextTable(it, 26)
		if !errors.Is(err, ErrBadInitType) {
			t.Errorf("did not get expected error for initType %d\nGot: %v\nWant: %v\n", it, err, ErrBadInitType)
		}
	}
}

func TestInitType(t *testing.T) {
	tests := []struct {
		st   SliceType
		flag bool
		want int
	}{
		{st: SliceI, flag: false, want: 0},
		{st: SliceI, flag: true, want: 0},
		{st: SliceP, flag: false, want: 1},
		{st: SliceP, flag: true, want: 2},
		{st: SliceB, flag: false, want: 2},
		{st: SliceB, flag: true, want: 1},
	}

	for i, test := range tests {
		got := InitType(test.st, test.flag)
		if got != test.want {
			t.Errorf("did not get expected result for test %d\nGot: %v\nWant: %v\n", i, got, test.want)
		}
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(5))
	for i := 0; i < 100; i++ {
		var want ContextTable
		for j := range want.States {
			want.States[j] = State(rnd.Intn(128))
		}
		for j := range want.Rice {
			want.Rice[j] = uint8(rnd.Intn(256))
		}

		snap := want.Save()
		for j, s := range want.States {
			if snap[j] != byte(s) {
				t.Fatalf("snapshot byte %d is %d, want %d", j, snap[j], s)
			}
		}

		var got ContextTable
		got.Restore(&snap)
		if !cmp.Equal(got, want) {
			t.Fatalf("restored table differs\n%s", cmp.Diff(want, got))
		}

		// Mutating the source must not affect the snapshot.
		want.States[0] ^= 1
		if snap[0] == byte(want.States[0]) {
			t.Fatal("snapshot shares storage with table")
		}
	}
}

func TestSnapshotBinary(t *testing.T) {
	ct, err := NewContextTable(1, 30)
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	ct.Rice = [NumRiceStats]uint8{1, 2, 3, 4}
	want := ct.Save()

	b, err := want.MarshalBinary()
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	if len(b) != SnapshotSize {
		t.Fatalf("unexpected marshalled length\nGot: %v\nWant: %v\n", len(b), SnapshotSize)
	}
	if !cmp.Equal(b[NumContexts:], []byte{1, 2, 3, 4}) {
		t.Errorf("unexpected rice bytes: %v", b[NumContexts:])
	}

	var got Snapshot
	err = got.UnmarshalBinary(b)
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	if got != want {
		t.Errorf("unmarshalled snapshot differs\n%s", cmp.Diff(want, got))
	}

	err = got.UnmarshalBinary(b[:10])
	if !errors.Is(err, ErrBadSnapshot) {
		t.Errorf("did not get expected error\nGot: %v\nWant: %v\n", err, ErrBadSnapshot)
	}
}
