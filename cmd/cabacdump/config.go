/*
DESCRIPTION
  config.go provides the cabacdump configuration, the variables that may be
  set by name with string values, and validation applying defaults.

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
	"fmt"
	"strconv"
	"strings"

	"github.com/ausocean/hevc/codec/h265/h265dec/cabac"
	"github.com/ausocean/utils/logging"
)

// Config map keys.
const (
	KeyAnnexB     = "AnnexB"
	KeyEngine     = "Engine"
	KeyHeaderBits = "HeaderBits"
	KeyInitType   = "InitType"
	KeyInputPath  = "InputPath"
	KeyLogging    = "logging"
	KeyLogPath    = "LogPath"
	KeyOffset     = "Offset"
	KeyScript     = "Script"
	KeyScriptPath = "ScriptPath"
	KeySliceIndex = "SliceIndex"
	KeySliceQP    = "SliceQP"
	KeyStrategy   = "Strategy"
	KeySuppress   = "Suppress"
)

// Config map parameter types.
const (
	typeString = "string"
	typeInt    = "int"
	typeUint   = "uint"
	typeBool   = "bool"
)

// Engines.
const (
	EngineCanonical = "canonical"
	EngineLow       = "low"
)

// Bulk bypass strategies. StrategyDefault uses the build's default.
const (
	StrategyDefault    = "default"
	StrategyReciprocal = "reciprocal"
	StrategyDivide     = "divide"
)

// Default variable values.
const (
	defaultEngine    = EngineCanonical
	defaultStrategy  = StrategyDefault
	defaultInitType  = 2
	defaultSliceQP   = 26
	defaultScript    = "bin:0 bypass*3 term"
	defaultVerbosity = logging.Info
	defaultLogPath   = "cabacdump.log"
)

// Config holds the cabacdump configuration.
type Config struct {
	Logger logging.Logger

	InputPath  string // File holding slice data, or an RBSP when HeaderBits is set.
	AnnexB     bool   // Input is an H.265 byte stream.
	SliceIndex uint   // Slice segment NAL unit to decode from an AnnexB input.
	Offset     uint   // Byte offset of the slice data in the input.
	HeaderBits uint   // Slice segment header bits preceding byte_alignment().
	Script     string // Operations to run; see the script package.
	ScriptPath string // File holding the operations; overrides Script.
	Engine     string
	Strategy   string
	InitType   int
	SliceQP    int
	LogLevel   int8
	LogPath    string
	Suppress   bool
}

var levels = map[string]int8{
	"debug":   logging.Debug,
	"info":    logging.Info,
	"warning": logging.Warning,
	"error":   logging.Error,
	"fatal":   logging.Fatal,
}

// Variables describes the variables that can be used to configure cabacdump.
// Each provides the name and type of the variable, a function for updating it
// in a Config from a string, and a function for validating its value.
var Variables = []struct {
	Name     string
	Type     string
	Update   func(*Config, string)
	Validate func(*Config)
}{
	{
		Name:   KeyAnnexB,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.AnnexB = parseBool(KeyAnnexB, v, c) },
	},
	{
		Name:   KeyEngine,
		Type:   "enum:" + EngineCanonical + "," + EngineLow,
		Update: func(c *Config, v string) { c.Engine = strings.ToLower(v) },
		Validate: func(c *Config) {
			switch c.Engine {
			case EngineCanonical, EngineLow:
			default:
				c.LogInvalidField(KeyEngine, defaultEngine)
				c.Engine = defaultEngine
			}
		},
	},
	{
		Name:   KeyHeaderBits,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.HeaderBits = parseUint(KeyHeaderBits, v, c) },
	},
	{
		Name:   KeyInitType,
		Type:   typeInt,
		Update: func(c *Config, v string) { c.InitType = parseInt(KeyInitType, v, c) },
		Validate: func(c *Config) {
			if c.InitType < 0 || c.InitType > 2 {
				c.LogInvalidField(KeyInitType, defaultInitType)
				c.InitType = defaultInitType
			}
		},
	},
	{
		Name:   KeyInputPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.InputPath = v },
	},
	{
		Name: KeyLogging,
		Type: "enum:debug,info,warning,error,fatal",
		Update: func(c *Config, v string) {
			l, ok := levels[strings.ToLower(v)]
			if !ok {
				c.Logger.Warning(fmt.Sprintf("invalid value for %s param", KeyLogging), "value", v)
				return
			}
			c.LogLevel = l
		},
	},
	{
		Name:   KeyLogPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.LogPath = v },
		Validate: func(c *Config) {
			if c.LogPath == "" {
				c.LogInvalidField(KeyLogPath, defaultLogPath)
				c.LogPath = defaultLogPath
			}
		},
	},
	{
		Name:   KeyOffset,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.Offset = parseUint(KeyOffset, v, c) },
	},
	{
		Name:   KeyScript,
		Type:   typeString,
		Update: func(c *Config, v string) { c.Script = v },
		Validate: func(c *Config) {
			if c.Script == "" && c.ScriptPath == "" {
				c.LogInvalidField(KeyScript, defaultScript)
				c.Script = defaultScript
			}
		},
	},
	{
		Name:   KeyScriptPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.ScriptPath = v },
	},
	{
		Name:   KeySliceIndex,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.SliceIndex = parseUint(KeySliceIndex, v, c) },
	},
	{
		Name:   KeySliceQP,
		Type:   typeInt,
		Update: func(c *Config, v string) { c.SliceQP = parseInt(KeySliceQP, v, c) },
		Validate: func(c *Config) {
			if c.SliceQP < -48 || c.SliceQP > 51 {
				c.LogInvalidField(KeySliceQP, defaultSliceQP)
				c.SliceQP = defaultSliceQP
			}
		},
	},
	{
		Name:   KeyStrategy,
		Type:   "enum:" + StrategyDefault + "," + StrategyReciprocal + "," + StrategyDivide,
		Update: func(c *Config, v string) { c.Strategy = strings.ToLower(v) },
		Validate: func(c *Config) {
			switch c.Strategy {
			case StrategyDefault, StrategyReciprocal, StrategyDivide:
			default:
				c.LogInvalidField(KeyStrategy, defaultStrategy)
				c.Strategy = defaultStrategy
			}
		},
	},
	{
		Name:   KeySuppress,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.Suppress = parseBool(KeySuppress, v, c) },
	},
}

// Validate checks for any errors in the config fields and defaults settings
// if particular parameters have not been defined.
func (c *Config) Validate() error {
	for _, v := range Variables {
		if v.Validate != nil {
			v.Validate(c)
		}
	}
	return nil
}

// Update takes a map of configuration variable names and their corresponding
// values, parses the string values and sets the config struct fields as
// appropriate.
func (c *Config) Update(vars map[string]string) {
	for _, value := range Variables {
		if v, ok := vars[value.Name]; ok && value.Update != nil {
			value.Update(c, v)
		}
	}
}

func (c *Config) LogInvalidField(name string, def interface{}) {
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}

// BypassStrategy returns the bulk bypass strategy selected by c.
func (c *Config) BypassStrategy() cabac.BypassStrategy {
	switch c.Strategy {
	case StrategyReciprocal:
		return cabac.Reciprocal
	case StrategyDivide:
		return cabac.Divide
	default:
		return cabac.DefaultBypassStrategy
	}
}

func parseUint(n, v string, c *Config) uint {
	_v, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected unsigned int for param %s", n), "value", v)
	}
	return uint(_v)
}

func parseInt(n, v string, c *Config) int {
	_v, err := strconv.Atoi(v)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected integer for param %s", n), "value", v)
	}
	return _v
}

func parseBool(n, v string, c *Config) (b bool) {
	switch strings.ToLower(v) {
	case "true":
		b = true
	case "false":
		b = false
	default:
		c.Logger.Warning(fmt.Sprintf("expect bool for param %s", n), "value", v)
	}
	return
}
