/*
DESCRIPTION
  state.go provides the packed adaptive probability state used for regular
  (context coded) bins.

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

import "fmt"

// State is a probability state packed as pStateIdx<<1 | valMPS, so it lies
// in [0,127].
type State uint8

// NewState returns the State for the given pStateIdx and valMPS.
func NewState(pStateIdx, valMPS int) State {
	return State(pStateIdx<<1 | valMPS&1)
}

// Index returns pStateIdx.
func (s State) Index() int { return int(s >> 1) }

// MPS returns valMPS.
func (s State) MPS() int { return int(s & 1) }

// Update moves s to the state following a coded bin. ITU-T H.265 9.3.4.3.2.2.
func (s *State) Update(bin int) {
	if bin == s.MPS() {
		*s = nextStateMPS[*s&0x7f]
		return
	}
	*s = nextStateLPS[*s&0x7f]
}

// RangeLPS returns the LPS sub-range for s within an interval of range rng.
func RangeLPS(s State, rng uint32) uint32 {
	return uint32(rangeTabLPS[s.Index()][(rng>>6)&3])
}

func (s State) String() string {
	return fmt.Sprintf("{pStateIdx: %d, valMPS: %d}", s.Index(), s.MPS())
}
