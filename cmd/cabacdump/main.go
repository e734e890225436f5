/*
DESCRIPTION
  cabacdump runs a script of CABAC decode operations against HEVC slice data
  held in a file and prints the result of each operation.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package cabacdump is a command for inspecting CABAC coded slice data.
//
// Usage:
//
//	cabacdump -in slice.bin -script "bin:split_cu_flag bypass*3 term"
//	cabacdump -in nal.rbsp -header-bits 37 -script-file ops.txt -engine low
//	cabacdump -in slice.bin -set Strategy=divide -set SliceQP=30
//	cabacdump -in clip.h265 -annexb true -slice 2 -header-bits 21 -qp 32
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/hevc/codec/h265"
	"github.com/ausocean/hevc/codec/h265/h265dec"
	"github.com/ausocean/hevc/codec/h265/h265dec/bits"
	"github.com/ausocean/hevc/codec/h265/h265dec/cabac"
	"github.com/ausocean/hevc/codec/h265/h265dec/script"
	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
)

// Current software version.
const version = "v0.1.0"

// Logging configuration.
const (
	logMaxSize   = 100 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
	logSuppress  = true
)

// Profiling output.
const profilePath = "cabacdump.pprof"

// This is set to true if the 'profile' build tag is provided in the build command.
var canProfile = false

// setFlags collects repeated -set name=value flags.
type setFlags map[string]string

func (s setFlags) String() string {
	var b strings.Builder
	for k, v := range s {
		fmt.Fprintf(&b, "%s=%s ", k, v)
	}
	return strings.TrimSpace(b.String())
}

func (s setFlags) Set(v string) error {
	p := strings.IndexByte(v, '=')
	if p <= 0 {
		return errors.Errorf("expected name=value, got %q", v)
	}
	s[v[:p]] = v[p+1:]
	return nil
}

func main() {
	vars := setFlags{}
	var (
		showVersion = flag.Bool("version", false, "show version")
		inPtr       = flag.String("in", "", "file holding slice data")
		annexBPtr   = flag.String("annexb", "", "input is an H.265 byte stream: true or false")
		slicePtr    = flag.String("slice", "", "slice segment NAL unit to decode from a byte stream")
		scriptPtr   = flag.String("script", "", "decode operations to run")
		scriptFile  = flag.String("script-file", "", "file holding decode operations")
		enginePtr   = flag.String("engine", "", "decoding engine: canonical or low")
		strategyPtr = flag.String("strategy", "", "bulk bypass arithmetic: default, reciprocal or divide")
		initPtr     = flag.String("init-type", "", "context initType: 0, 1 or 2")
		qpPtr       = flag.String("qp", "", "SliceQpY used for context initialisation")
		offsetPtr   = flag.String("offset", "", "byte offset of slice data in the input")
		headerPtr   = flag.String("header-bits", "", "slice segment header bits preceding byte_alignment()")
		logPathPtr  = flag.String("log-path", "", "log file path")
		levelPtr    = flag.String("log-level", "", "log level: debug, info, warning, error or fatal")
	)
	flag.Var(vars, "set", "set a config variable by name, e.g. -set SliceQP=30 (repeatable)")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	for k, v := range map[string]string{
		KeyInputPath:  *inPtr,
		KeyAnnexB:     *annexBPtr,
		KeySliceIndex: *slicePtr,
		KeyScript:     *scriptPtr,
		KeyScriptPath: *scriptFile,
		KeyEngine:     *enginePtr,
		KeyStrategy:   *strategyPtr,
		KeyInitType:   *initPtr,
		KeySliceQP:    *qpPtr,
		KeyOffset:     *offsetPtr,
		KeyHeaderBits: *headerPtr,
		KeyLogPath:    *logPathPtr,
		KeyLogging:    *levelPtr,
	} {
		if v != "" {
			vars[k] = v
		}
	}

	// The logger writes to stderr until the configured log file is known.
	log := logging.New(defaultVerbosity, os.Stderr, logSuppress)
	cfg := Config{
		Logger:   log,
		Engine:   defaultEngine,
		Strategy: defaultStrategy,
		InitType: defaultInitType,
		SliceQP:  defaultSliceQP,
		LogLevel: defaultVerbosity,
		LogPath:  defaultLogPath,
	}
	cfg.Update(vars)
	cfg.Validate()

	fileLog := &lumberjack.Logger{
		Filename:   cfg.LogPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	defer fileLog.Close()
	log = logging.New(cfg.LogLevel, io.MultiWriter(fileLog, os.Stderr), logSuppress || cfg.Suppress)
	cfg.Logger = log
	h265dec.Log = log

	log.Info("starting cabacdump", "version", version)

	if canProfile {
		profile(log)
		defer pprof.StopCPUProfile()
	}

	err := run(&cfg, os.Stdout)
	if err != nil {
		log.Fatal("cabacdump failed", "error", err.Error())
	}
}

// run decodes the input described by cfg and writes one line per operation
// result to w.
func run(cfg *Config, w io.Writer) error {
	if cfg.InputPath == "" {
		return errors.New("no input file")
	}
	in, err := os.ReadFile(cfg.InputPath)
	if err != nil {
		return errors.Wrap(err, "could not read input")
	}
	if cfg.AnnexB {
		in, err = sliceRBSP(cfg, in)
		if err != nil {
			return err
		}
	}

	src := cfg.Script
	if cfg.ScriptPath != "" {
		b, err := os.ReadFile(cfg.ScriptPath)
		if err != nil {
			return errors.Wrap(err, "could not read script")
		}
		src = string(b)
	}
	ops, err := script.Parse(src)
	if err != nil {
		return errors.Wrap(err, "could not parse script")
	}

	ct, err := cabac.NewContextTable(cfg.InitType, cfg.SliceQP)
	if err != nil {
		return errors.Wrap(err, "could not initialise contexts")
	}

	e, err := newEngine(cfg, in, ct)
	if err != nil {
		return err
	}
	cfg.Logger.Debug("engine ready", "engine", cfg.Engine, "strategy", cfg.BypassStrategy().String(), "ops", len(ops))

	results, runErr := script.Run(e, ops)
	for _, r := range results {
		fmt.Fprintln(w, r)
	}
	if e.Overflowed() {
		cfg.Logger.Warning("decoding read past end of data", "bitPos", e.BitPos())
	}
	if runErr != nil {
		return errors.Wrap(runErr, "could not run script")
	}
	fmt.Fprintf(w, "range=%d offset=%d bitpos=%d\n", e.Range(), e.Offset(), e.BitPos())
	return nil
}

// sliceRBSP returns the RBSP following the NAL unit header of the slice
// segment selected by cfg from the byte stream in.
func sliceRBSP(cfg *Config, in []byte) ([]byte, error) {
	units, err := h265.Units(bytes.NewReader(in))
	if err != nil {
		return nil, errors.Wrap(err, "could not split byte stream")
	}
	h, rbsp, err := h265.SliceRBSP(units, int(cfg.SliceIndex))
	if err != nil {
		return nil, errors.Wrapf(err, "could not get slice %d of %d NAL units", cfg.SliceIndex, len(units))
	}
	cfg.Logger.Debug("found slice segment", "type", h.Type, "layer", h.LayerID, "temporalID", h.TemporalID, "bytes", len(rbsp))
	return rbsp, nil
}

// newEngine returns the engine selected by cfg bound to ct. When HeaderBits is
// set, in is taken to be a slice segment RBSP and decoding starts after the
// header's byte_alignment(); otherwise it starts at Offset.
func newEngine(cfg *Config, in []byte, ct *cabac.ContextTable) (cabac.Engine, error) {
	if int(cfg.Offset) >= len(in) {
		return nil, errors.Errorf("offset %d beyond input of %d bytes", cfg.Offset, len(in))
	}
	in = in[cfg.Offset:]

	var (
		d   *cabac.Decoder
		err error
	)
	if cfg.HeaderBits != 0 {
		br := bits.NewBitReader(bytes.NewReader(in))
		for n := int(cfg.HeaderBits); n > 0; n -= 32 {
			_, err = br.ReadBits(min(n, 32))
			if err != nil {
				return nil, errors.Wrap(err, "could not skip slice segment header")
			}
		}
		d, err = h265dec.NewSliceDecoder(in, br, ct)
	} else {
		d, err = cabac.NewDecoder(in, ct)
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not create decoder")
	}
	d.SetBypassStrategy(cfg.BypassStrategy())

	if cfg.Engine == EngineLow {
		return cabac.ToLow(d), nil
	}
	return d, nil
}

// profile opens a file to hold CPU profiling metrics and then starts the
// CPU profiler.
func profile(l logging.Logger) {
	f, err := os.Create(profilePath)
	if err != nil {
		l.Fatal("could not create CPU profile", "error", err.Error())
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		l.Fatal("could not start CPU profile", "error", err.Error())
	}
}
