/*
DESCRIPTION
  config_test.go provides testing for the Config methods (Validate and Update).

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
	"testing"

	"github.com/ausocean/hevc/codec/h265/h265dec/cabac"
	"github.com/ausocean/utils/logging"
	"github.com/google/go-cmp/cmp"
)

type dumbLogger struct{}

func (dl *dumbLogger) Log(l int8, m string, a ...interface{})  {}
func (dl *dumbLogger) SetLevel(l int8)                         {}
func (dl *dumbLogger) Debug(msg string, args ...interface{})   {}
func (dl *dumbLogger) Info(msg string, args ...interface{})    {}
func (dl *dumbLogger) Warning(msg string, args ...interface{}) {}
func (dl *dumbLogger) Error(msg string, args ...interface{})   {}
func (dl *dumbLogger) Fatal(msg string, args ...interface{})   {}

func TestValidate(t *testing.T) {
	dl := &dumbLogger{}

	want := Config{
		Logger:   dl,
		Engine:   defaultEngine,
		Strategy: defaultStrategy,
		Script:   defaultScript,
		LogPath:  defaultLogPath,
	}

	got := Config{Logger: dl}
	err := (&got).Validate()
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}

	if !cmp.Equal(got, want) {
		t.Errorf("configs not equal\nwant: %v\ngot: %v", want, got)
	}
}

func TestValidateBad(t *testing.T) {
	dl := &dumbLogger{}

	got := Config{
		Logger:     dl,
		Engine:     "fast",
		Strategy:   "guess",
		InitType:   3,
		SliceQP:    52,
		ScriptPath: "ops.txt",
		LogPath:    "x.log",
	}
	want := Config{
		Logger:     dl,
		Engine:     defaultEngine,
		Strategy:   defaultStrategy,
		InitType:   defaultInitType,
		SliceQP:    defaultSliceQP,
		ScriptPath: "ops.txt",
		LogPath:    "x.log",
	}

	err := (&got).Validate()
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	if !cmp.Equal(got, want) {
		t.Errorf("configs not equal\nwant: %v\ngot: %v", want, got)
	}
}

func TestUpdate(t *testing.T) {
	updateMap := map[string]string{
		"AnnexB":     "true",
		"Engine":     "LOW",
		"HeaderBits": "37",
		"InitType":   "1",
		"InputPath":  "/tmp/slice.bin",
		"logging":    "Debug",
		"LogPath":    "/var/log/cabacdump.log",
		"Offset":     "12",
		"Script":     "bin:0 term",
		"ScriptPath": "/tmp/ops.txt",
		"SliceIndex": "3",
		"SliceQP":    "-6",
		"Strategy":   "divide",
		"Suppress":   "false",
		"Unknown":    "ignored",
	}

	dl := &dumbLogger{}
	want := Config{
		Logger:     dl,
		AnnexB:     true,
		Engine:     EngineLow,
		HeaderBits: 37,
		InitType:   1,
		InputPath:  "/tmp/slice.bin",
		LogLevel:   logging.Debug,
		LogPath:    "/var/log/cabacdump.log",
		Offset:     12,
		Script:     "bin:0 term",
		ScriptPath: "/tmp/ops.txt",
		SliceIndex: 3,
		SliceQP:    -6,
		Strategy:   StrategyDivide,
		Suppress:   false,
	}

	got := Config{Logger: dl, Suppress: true}
	got.Update(updateMap)
	if !cmp.Equal(want, got) {
		t.Errorf("configs not equal\nwant: %v\ngot: %v", want, got)
	}
}

func TestUpdateBadValues(t *testing.T) {
	dl := &dumbLogger{}
	got := Config{Logger: dl, LogLevel: logging.Warning}
	got.Update(map[string]string{
		"logging":    "loud",
		"Offset":     "-1",
		"HeaderBits": "many",
	})
	want := Config{Logger: dl, LogLevel: logging.Warning}
	if !cmp.Equal(want, got) {
		t.Errorf("configs not equal\nwant: %v\ngot: %v", want, got)
	}
}

func TestBypassStrategy(t *testing.T) {
	tests := []struct {
		strategy string
		want     cabac.BypassStrategy
	}{
		{strategy: StrategyReciprocal, want: cabac.Reciprocal},
		{strategy: StrategyDivide, want: cabac.Divide},
		{strategy: StrategyDefault, want: cabac.DefaultBypassStrategy},
	}

	for i, test := range tests {
		c := Config{Strategy: test.strategy}
		if got := c.BypassStrategy(); got != test.want {
			t.Errorf("did not get expected strategy for test %d\nGot: %v\nWant: %v\n", i, got, test.want)
		}
	}
}
