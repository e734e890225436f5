/*
DESCRIPTION
  context.go provides the context table holding the probability state for
  every context index, its initialisation from slice QP and the snapshots
  used to hand contexts between wavefront rows and dependent slices.

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

	"github.com/pkg/errors"
)

// NumContexts is the number of context indices in a ContextTable.
const NumContexts = 199

// NumRiceStats is the number of persistent rice adaptation statistics
// (StatCoeff) carried with the contexts.
const NumRiceStats = 4

// SnapshotSize is the length of a Snapshot in bytes.
const SnapshotSize = NumContexts + NumRiceStats

// SliceType is the HEVC slice_type.
type SliceType int

// Slice types.
const (
	SliceB SliceType = iota
	SliceP
	SliceI
)

// InitType returns the initType used to select context initialisation values
// for a slice of type st with the given cabac_init_flag.
func InitType(st SliceType, cabacInitFlag bool) int {
	t := 2 - int(st)
	if cabacInitFlag && st != SliceI {
		t ^= 3
	}
	return t
}

// ContextTable holds the adaptive state of every context for one decoding
// unit, along with the rice adaptation statistics that are saved and restored
// with it.
type ContextTable struct {
	States [NumContexts]State
	Rice   [NumRiceStats]uint8
}

// NewContextTable returns a ContextTable initialised for initType and sliceQP.
func NewContextTable(initType, sliceQP int) (*ContextTable, error) {
	t := &ContextTable{}
	err := t.Init(initType, sliceQP)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Init sets every context to its initial state for initType and sliceQP and
// clears the rice statistics. ITU-T H.265 9.3.2.2.
func (t *ContextTable) Init(initType, sliceQP int) error {
	if initType < 0 || initType > 2 {
		return errors.Wrap(ErrBadInitType, fmt.Sprint(initType))
	}
	for i, v := range initValues[initType] {
		t.States[i] = InitState(v, sliceQP)
	}
	t.Rice = [NumRiceStats]uint8{}
	return nil
}

// InitState returns the initial State for initValue at sliceQP, which is
// clipped to [0,51].
func InitState(initValue uint8, sliceQP int) State {
	m := int(initValue>>4)*5 - 45
	n := int(initValue&15)<<3 - 16
	pre := 2*((m*clip(sliceQP, 0, 51))>>4+n) - 127
	pre ^= pre >> 31
	if pre > 124 {
		pre = 124 + pre&1
	}
	return State(pre)
}

// Snapshot is a byte copy of a ContextTable: one state byte per context index
// followed by the rice statistics.
type Snapshot [SnapshotSize]byte

// Save returns a Snapshot of t.
func (t *ContextTable) Save() Snapshot {
	var s Snapshot
	for i, st := range t.States {
		s[i] = byte(st)
	}
	copy(s[NumContexts:], t.Rice[:])
	return s
}

// Restore overwrites t with the contents of s.
func (t *ContextTable) Restore(s *Snapshot) {
	for i := range t.States {
		t.States[i] = State(s[i])
	}
	copy(t.Rice[:], s[NumContexts:])
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (s Snapshot) MarshalBinary() ([]byte, error) {
	b := make([]byte, SnapshotSize)
	copy(b, s[:])
	return b, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (s *Snapshot) UnmarshalBinary(b []byte) error {
	if len(b) != SnapshotSize {
		return errors.Wrapf(ErrBadSnapshot, "got %d bytes, want %d", len(b), SnapshotSize)
	}
	copy(s[:], b)
	return nil
}

func clip(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
