/*
DESCRIPTION
  slice.go provides entry to slice segment data, initialising the arithmetic
  decoding engine after the slice segment header, and the terminate coded
  syntax elements that end slices, substreams and precede PCM samples.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package h265dec provides the syntax side of HEVC CABAC decoding: context
// indices, slice data entry and the bypass coded residual syntax elements.
package h265dec

import (
	"github.com/ausocean/hevc/codec/h265/h265dec/bits"
	"github.com/ausocean/hevc/codec/h265/h265dec/cabac"
	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
)

// Log is used by the package for debug and warning output. It may be nil.
var Log logging.Logger

func debug(msg string, args ...interface{}) {
	if Log != nil {
		Log.Debug(msg, args...)
	}
}

func warning(msg string, args ...interface{}) {
	if Log != nil {
		Log.Warning(msg, args...)
	}
}

var errNoSubsetEnd = errors.New("end_of_subset_one_bit not set")

// NewSliceDecoder returns a Decoder over the slice segment data of rbsp. br
// must have just read the slice segment header from rbsp; the byte_alignment()
// syntax is consumed from br and decoding starts at the following byte.
// ITU-T H.265 7.3.2.12 and 9.3.2.5.
func NewSliceDecoder(rbsp []byte, br *bits.BitReader, t *cabac.ContextTable) (*cabac.Decoder, error) {
	one, err := br.ReadFlag()
	if err != nil {
		return nil, errors.Wrap(err, "could not read alignment_bit_equal_to_one")
	}
	if !one {
		warning("alignment_bit_equal_to_one is zero", "bit", br.BitsRead()-1)
	}
	br.Align()

	start := br.BitsRead() / 8
	if start > len(rbsp) {
		return nil, errors.Wrapf(cabac.ErrInsufficientData, "slice data starts at byte %d of %d", start, len(rbsp))
	}
	d, err := cabac.NewDecoder(rbsp[start:], t)
	if err != nil {
		return nil, errors.Wrap(err, "could not initialise arithmetic decoder")
	}
	debug("cabac init", "start", start, "bytes", len(rbsp)-start)
	return d, nil
}

// EndOfSliceSegment decodes end_of_slice_segment_flag. When set, it also
// returns the number of bytes of slice data consumed.
func EndOfSliceSegment(e cabac.Engine) (bool, int) {
	n, ok := e.DecodeTerminate()
	if ok {
		debug("end of slice segment", "bytes", n)
	}
	return ok, n
}

// EndOfSubset decodes end_of_subset_one_bit at the end of a tile or CTU row
// substream and re-initialises e at the start of the next substream.
func EndOfSubset(e cabac.Engine) error {
	n, ok := e.DecodeTerminate()
	if !ok {
		return errors.Wrapf(errNoSubsetEnd, "at bit %d", e.BitPos())
	}
	_, err := e.SkipBytes(0)
	if err != nil {
		return errors.Wrapf(err, "could not start substream after %d bytes", n)
	}
	debug("new substream", "after", n)
	return nil
}

// PCMSampleBytes returns the byte length of the pcm_sample() syntax for a
// coding block of size (1<<log2Size)^2 with the given PCM bit depths and
// chroma format. ITU-T H.265 7.3.8.7.
func PCMSampleBytes(log2Size, lumaDepth, chromaDepth, chromaFormat int) int {
	n := 1 << uint(2*log2Size)
	nb := n * lumaDepth
	switch chromaFormat {
	case 1:
		nb += n / 2 * chromaDepth
	case 2:
		nb += n * chromaDepth
	case 3:
		nb += 2 * n * chromaDepth
	}
	return (nb + 7) / 8
}

// PCM decodes pcm_flag. When set, it returns the n bytes of PCM sample data
// that follow and leaves e initialised after them. ITU-T H.265 9.3.2.5.
func PCM(e cabac.Engine, n int) ([]byte, bool, error) {
	_, ok := e.DecodeTerminate()
	if !ok {
		return nil, false, nil
	}
	samples, err := e.SkipBytes(n)
	if err != nil {
		return nil, true, errors.Wrap(err, "could not read pcm samples")
	}
	debug("pcm samples", "bytes", n)
	return samples, true, nil
}
