/*
DESCRIPTION
  errors.go defines the errors returned by the cabac package.

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

import "errors"

var (
	// ErrInsufficientData is returned when a buffer is too short to prime the
	// decoder, or when escape data runs past the end of the buffer. Callers
	// should treat the slice or tile as corrupt and abandon it.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrBadInitType is returned for an initType outside [0,2].
	ErrBadInitType = errors.New("invalid context initialisation type")

	// ErrBadSnapshot is returned when unmarshalling a snapshot of the wrong size.
	ErrBadSnapshot = errors.New("invalid context snapshot length")
)
