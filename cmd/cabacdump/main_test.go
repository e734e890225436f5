/*
DESCRIPTION
  main_test.go provides testing for running scripts against slice data files.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const knownFragment = "ea382601af1c0ba8d2737d5e3c104448e4f06a9b37c5d2e81f4b6a90c1d57e22"

const knownOutput = `bin:0 = 1
bypass*3 = 101
term = 1 (2 bytes)
range=330 offset=331 bitpos=13
`

func writeFile(t *testing.T, dir, name string, b []byte) string {
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, b, 0o644))
	return p
}

func TestRun(t *testing.T) {
	frag, err := hex.DecodeString(knownFragment)
	require.NoError(t, err)
	dir := t.TempDir()

	plain := writeFile(t, dir, "slice.bin", frag)
	prefixed := writeFile(t, dir, "prefixed.bin", append([]byte{0x00, 0x00, 0x01}, frag...))
	rbsp := writeFile(t, dir, "slice.rbsp", append([]byte{0xb4}, frag...)) // 10110 1 00
	var stream []byte
	stream = append(stream, 0x00, 0x00, 0x00, 0x01, 0x40, 0x01, 0x0c) // VPS.
	stream = append(stream, 0x00, 0x00, 0x01, 0x26, 0x01, 0xb4)       // IDR slice NAL unit header and slice header.
	stream = append(stream, frag...)
	stream = append(stream, 0x00, 0x00, 0x03, 0x01)
	annexB := writeFile(t, dir, "clip.h265", stream)
	ops := writeFile(t, dir, "ops.txt", []byte("# known vector\nbin:sao_merge_flag\nbypass*3, term\n"))

	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "canonical", cfg: Config{InputPath: plain, Script: "bin:0 bypass*3 term"}},
		{name: "low", cfg: Config{InputPath: plain, Script: "bin:0 bypass*3 term", Engine: EngineLow}},
		{name: "offset", cfg: Config{InputPath: prefixed, Offset: 3, Script: "bin:0 bypass*3 term"}},
		{name: "header", cfg: Config{InputPath: rbsp, HeaderBits: 5, Script: "bin:0 bypass*3 term"}},
		{name: "annexb", cfg: Config{InputPath: annexB, AnnexB: true, HeaderBits: 5, Script: "bin:0 bypass*3 term"}},
		{name: "script file", cfg: Config{InputPath: plain, Script: "term", ScriptPath: ops}},
	}

	for _, test := range tests {
		cfg := test.cfg
		cfg.Logger = &dumbLogger{}
		require.NoError(t, cfg.Validate())
		cfg.InitType, cfg.SliceQP = 0, 26

		var out bytes.Buffer
		err := run(&cfg, &out)
		require.NoError(t, err, test.name)
		assert.Equal(t, knownOutput, out.String(), test.name)
	}
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "slice.bin", []byte{0xea, 0x38, 0x26})

	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "no input", cfg: Config{}},
		{name: "missing input", cfg: Config{InputPath: filepath.Join(dir, "none.bin")}},
		{name: "missing script", cfg: Config{InputPath: in, ScriptPath: filepath.Join(dir, "none.txt")}},
		{name: "bad script", cfg: Config{InputPath: in, Script: "bin:999"}},
		{name: "bad offset", cfg: Config{InputPath: in, Offset: 3}},
		{name: "short data", cfg: Config{InputPath: in, Offset: 2}},
		{name: "no slice", cfg: Config{InputPath: in, AnnexB: true, SliceIndex: 1}},
		{name: "bad skip", cfg: Config{InputPath: in, Script: "bin:0 skip:64"}},
	}

	for _, test := range tests {
		cfg := test.cfg
		cfg.Logger = &dumbLogger{}
		require.NoError(t, cfg.Validate())

		var out bytes.Buffer
		assert.Error(t, run(&cfg, &out), test.name)
	}
}
