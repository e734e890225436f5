/*
DESCRIPTION
  script.go provides a small language describing a sequence of CABAC decode
  operations, and running such a sequence against a decoding engine. It is
  used to inspect slice data and to write decoding regressions compactly.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package script parses and runs decode operation scripts. A script is a
// list of operations separated by white space or commas, with # starting a
// comment that runs to the end of the line:
//
//	bin:N      regular bin with context N, or a syntax element name with an
//	           optional increment, e.g. bin:split_cu_flag+1
//	bypass*K   K bypass bins, one at a time (bypass is bypass*1)
//	bulk:K     K bypass bins decoded in bulk
//	rem:R      coeff_abs_level_remaining with rice parameter R
//	sign:N     N coeff_sign_flag bins decoded in bulk
//	term       terminate bin
//	skip:N     N bytes of escape data, then re-initialise
package script

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ausocean/hevc/codec/h265/h265dec"
	"github.com/ausocean/hevc/codec/h265/h265dec/cabac"
	"github.com/pkg/errors"
)

// Kind is the kind of an operation.
type Kind int

// Operation kinds.
const (
	Bin Kind = iota
	Bypass
	Bulk
	Remaining
	Sign
	Term
	Skip
)

var kindNames = map[Kind]string{
	Bin:       "bin",
	Bypass:    "bypass",
	Bulk:      "bulk",
	Remaining: "rem",
	Sign:      "sign",
	Term:      "term",
	Skip:      "skip",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// ErrSyntax is returned for a malformed script.
var ErrSyntax = errors.New("script syntax error")

// Argument limits.
const (
	maxRun  = 32
	maxRice = 4
	maxSign = 16
)

// Op is a single decode operation.
type Op struct {
	Kind Kind
	Arg  int
}

func (o Op) String() string {
	switch o.Kind {
	case Term:
		return "term"
	case Bypass:
		return "bypass*" + strconv.Itoa(o.Arg)
	default:
		return o.Kind.String() + ":" + strconv.Itoa(o.Arg)
	}
}

// Parse parses the script src.
func Parse(src string) ([]Op, error) {
	var ops []Op
	for i, line := range strings.Split(src, "\n") {
		if c := strings.IndexByte(line, '#'); c >= 0 {
			line = line[:c]
		}
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\r'
		})
		for _, f := range fields {
			op, err := parseOp(f)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", i+1)
			}
			ops = append(ops, op)
		}
	}
	return ops, nil
}

func parseOp(s string) (Op, error) {
	switch {
	case s == "term":
		return Op{Kind: Term}, nil
	case s == "bypass":
		return Op{Kind: Bypass, Arg: 1}, nil
	case strings.HasPrefix(s, "bypass*"):
		n, err := parseArg(s, "bypass*", 1, maxRun)
		return Op{Kind: Bypass, Arg: n}, err
	case strings.HasPrefix(s, "bin:"):
		n, err := parseCtx(strings.TrimPrefix(s, "bin:"))
		return Op{Kind: Bin, Arg: n}, err
	case strings.HasPrefix(s, "bulk:"):
		n, err := parseArg(s, "bulk:", 1, maxRun)
		return Op{Kind: Bulk, Arg: n}, err
	case strings.HasPrefix(s, "rem:"):
		n, err := parseArg(s, "rem:", 0, maxRice)
		return Op{Kind: Remaining, Arg: n}, err
	case strings.HasPrefix(s, "sign:"):
		n, err := parseArg(s, "sign:", 0, maxSign)
		return Op{Kind: Sign, Arg: n}, err
	case strings.HasPrefix(s, "skip:"):
		n, err := parseArg(s, "skip:", 0, 1<<30)
		return Op{Kind: Skip, Arg: n}, err
	default:
		return Op{}, errors.Wrapf(ErrSyntax, "unknown operation %q", s)
	}
}

// parseArg parses the integer following prefix in s and checks it is within
// [min, max].
func parseArg(s, prefix string, min, max int) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(s, prefix))
	if err != nil {
		return 0, errors.Wrapf(ErrSyntax, "bad argument in %q", s)
	}
	if n < min || n > max {
		return 0, errors.Wrapf(ErrSyntax, "argument of %q outside [%d,%d]", s, min, max)
	}
	return n, nil
}

// parseCtx parses a context index given as a number or as a syntax element
// name with an optional +increment.
func parseCtx(s string) (int, error) {
	idx, err := strconv.Atoi(s)
	if err != nil {
		name, inc := s, 0
		if p := strings.IndexByte(s, '+'); p >= 0 {
			name = s[:p]
			inc, err = strconv.Atoi(s[p+1:])
			if err != nil {
				return 0, errors.Wrapf(ErrSyntax, "bad context increment in %q", s)
			}
		}
		base, ok := h265dec.ContextIndex(name)
		if !ok {
			return 0, errors.Wrapf(ErrSyntax, "unknown syntax element %q", name)
		}
		idx = base + inc
	}
	if idx < 0 || idx >= cabac.NumContexts {
		return 0, errors.Wrapf(ErrSyntax, "context %d outside [0,%d)", idx, cabac.NumContexts)
	}
	return idx, nil
}

// Result is the outcome of one operation.
type Result struct {
	Op Op

	// Value is the decoded value: the bin, the bypass bins MSB first, the
	// coeff_abs_level_remaining value, or the sign flags left aligned.
	Value uint32

	// End is set when a terminate bin of 1 was decoded, with Bytes the
	// number of bytes consumed.
	End   bool
	Bytes int

	// Payload holds the escape data of a skip.
	Payload []byte
}

func (r Result) String() string {
	switch r.Op.Kind {
	case Term:
		if r.End {
			return fmt.Sprintf("%v = 1 (%d bytes)", r.Op, r.Bytes)
		}
		return fmt.Sprintf("%v = 0", r.Op)
	case Bypass, Bulk:
		return fmt.Sprintf("%v = %0*b", r.Op, r.Op.Arg, r.Value)
	case Sign:
		return fmt.Sprintf("%v = %#08x", r.Op, r.Value)
	case Skip:
		return fmt.Sprintf("%v = %x", r.Op, r.Payload)
	default:
		return fmt.Sprintf("%v = %d", r.Op, r.Value)
	}
}

// Run runs ops against e, returning the result of each. On error the results
// of the operations before the failing one are returned with it.
func Run(e cabac.Engine, ops []Op) ([]Result, error) {
	results := make([]Result, 0, len(ops))
	for i, op := range ops {
		r := Result{Op: op}
		switch op.Kind {
		case Bin:
			r.Value = uint32(e.DecodeBin(op.Arg))
		case Bypass:
			r.Value = e.DecodeBypassBits(op.Arg)
		case Bulk:
			b := e.StartBypass()
			r.Value = b.Read(op.Arg)
			b.Finish()
		case Remaining:
			b := e.StartBypass()
			v, err := h265dec.CoeffAbsLevelRemainingBulk(b, op.Arg)
			b.Finish()
			if err != nil {
				return results, errors.Wrapf(err, "op %d (%v)", i, op)
			}
			r.Value = uint32(v)
		case Sign:
			b := e.StartBypass()
			r.Value = h265dec.CoeffSignFlagsBulk(b, op.Arg)
			b.Finish()
		case Term:
			r.Bytes, r.End = e.DecodeTerminate()
		case Skip:
			p, err := e.SkipBytes(op.Arg)
			if err != nil {
				return results, errors.Wrapf(err, "op %d (%v)", i, op)
			}
			r.Payload = p
		default:
			panic(fmt.Sprintf("script: unknown operation kind %d", op.Kind))
		}
		results = append(results, r)
	}
	return results, nil
}
