/*
DESCRIPTION
  wpp.go provides the hand off of CABAC context state between coding tree
  block rows under wavefront parallel processing, and the rules deciding when
  state is saved and how a row starts.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package wpp provides wavefront parallel processing support for CABAC
// decoding. Each row of coding tree blocks is decoded by its own engine and
// starts from a copy of the contexts its upper neighbour held after its
// second block.
package wpp

import (
	"context"
	"sync"

	"github.com/ausocean/hevc/codec/h265/h265dec/cabac"
	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
)

// Log is used by the package for debug output. It may be nil.
var Log logging.Logger

func debug(msg string, args ...interface{}) {
	if Log != nil {
		Log.Debug(msg, args...)
	}
}

// Errors returned by Rows.
var (
	ErrPublished = errors.New("row already published")
	ErrBadRow    = errors.New("row out of range")
)

// Action is what a row's engine does with its contexts before decoding the
// first block of the row.
type Action int

const (
	ActionNone Action = iota // Not a row start; keep the current contexts.
	ActionInit               // Initialise contexts from the slice.
	ActionLoad               // Load the contexts saved by the row above.
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionInit:
		return "init"
	case ActionLoad:
		return "load"
	default:
		return "unknown"
	}
}

// ShouldSave reports whether contexts are saved for the next row having just
// decoded the block before ctbAddrTs, in a picture ctbWidth blocks wide. State
// is saved after the second block of a row, or after the last block of a row
// two blocks wide.
func ShouldSave(ctbAddrTs, ctbWidth int) bool {
	return ctbAddrTs%ctbWidth == 2 || (ctbWidth == 2 && ctbAddrTs%ctbWidth == 0)
}

// RowStart returns the Action for the block at ctbAddrTs in a picture ctbWidth
// blocks wide. A picture one block wide never saves state, so each of its rows
// initialises afresh.
func RowStart(ctbAddrTs, ctbWidth int) Action {
	switch {
	case ctbAddrTs%ctbWidth != 0:
		return ActionNone
	case ctbWidth == 1:
		return ActionInit
	default:
		return ActionLoad
	}
}

// Rows holds the context snapshots handed from each row to the next. A row's
// snapshot is written once, by Publish, and read by any number of waiters.
type Rows struct {
	snaps []cabac.Snapshot
	done  []chan struct{}
	once  []sync.Once
}

// NewRows returns Rows for a picture n rows high.
func NewRows(n int) *Rows {
	r := &Rows{
		snaps: make([]cabac.Snapshot, n),
		done:  make([]chan struct{}, n),
		once:  make([]sync.Once, n),
	}
	for i := range r.done {
		r.done[i] = make(chan struct{})
	}
	return r
}

// Len returns the number of rows.
func (r *Rows) Len() int { return len(r.snaps) }

// Publish saves the contexts of t as the snapshot of row and releases any
// waiters. A row may be published once only.
func (r *Rows) Publish(row int, t *cabac.ContextTable) error {
	if row < 0 || row >= len(r.snaps) {
		return errors.Wrapf(ErrBadRow, "publish of row %d of %d", row, len(r.snaps))
	}
	published := false
	r.once[row].Do(func() {
		r.snaps[row] = t.Save()
		close(r.done[row])
		published = true
	})
	if !published {
		return errors.Wrapf(ErrPublished, "row %d", row)
	}
	debug("published contexts", "row", row)
	return nil
}

// Wait blocks until row has been published, returning its snapshot, or until
// ctx is done. The returned snapshot must not be modified.
func (r *Rows) Wait(ctx context.Context, row int) (*cabac.Snapshot, error) {
	if row < 0 || row >= len(r.snaps) {
		return nil, errors.Wrapf(ErrBadRow, "wait on row %d of %d", row, len(r.snaps))
	}
	select {
	case <-r.done[row]:
		return &r.snaps[row], nil
	case <-ctx.Done():
		return nil, errors.Wrapf(ctx.Err(), "waiting on row %d", row)
	}
}

// Restore waits for the row above row and restores its snapshot into t. Row 0
// has no row above and t is left unchanged.
func (r *Rows) Restore(ctx context.Context, row int, t *cabac.ContextTable) error {
	if row == 0 {
		return nil
	}
	s, err := r.Wait(ctx, row-1)
	if err != nil {
		return err
	}
	t.Restore(s)
	debug("restored contexts", "row", row)
	return nil
}

// Run calls decode for each row of r concurrently and waits for
// them all. decode is expected to restore its starting contexts with
// r.Restore and publish with r.Publish. The first error returned cancels the
// context passed to the remaining rows and is returned.
func Run(ctx context.Context, r *Rows, decode func(ctx context.Context, row int) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg    sync.WaitGroup
		once  sync.Once
		first error
	)
	for row := 0; row < r.Len(); row++ {
		wg.Add(1)
		go func(row int) {
			defer wg.Done()
			err := decode(ctx, row)
			if err != nil {
				once.Do(func() {
					first = errors.Wrapf(err, "row %d", row)
					cancel()
				})
			}
		}(row)
	}
	wg.Wait()
	return first
}
