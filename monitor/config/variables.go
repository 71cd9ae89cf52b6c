/*
DESCRIPTION
  variables.go contains a list of structs that provide a variable Name, type in
  a string format, a function for updating the variable in the Config struct
  from a string, and finally, a validation function to check the validity of the
  corresponding field value in the Config.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ausocean/utils/logging"
)

// Config map Keys.
const (
	KeyBackend            = "Backend"
	KeyBlurKernel         = "BlurKernel"
	KeyBlurSigma          = "BlurSigma"
	KeyDBPath             = "DBPath"
	KeyDilateIterations   = "DilateIterations"
	KeyDilateKernel       = "DilateKernel"
	KeyFileFPS            = "FileFPS"
	KeyFrameHeight        = "FrameHeight"
	KeyFrameWidth         = "FrameWidth"
	KeyFreeColour         = "FreeColour"
	KeyInput              = "Input"
	KeyLogging            = "logging"
	KeyMedianKernel       = "MedianKernel"
	KeyMetricsAddr        = "MetricsAddr"
	KeyOccupancyThreshold = "OccupancyThreshold"
	KeyOccupiedColour     = "OccupiedColour"
	KeySinglePass         = "SinglePass"
	KeySnapshotDir        = "SnapshotDir"
	KeySnapshotInterval   = "SnapshotInterval"
	KeySources            = "Sources"
	KeySpotHeight         = "SpotHeight"
	KeySpotsKey           = "SpotsKey"
	KeySpotWidth          = "SpotWidth"
	KeySuppress           = "Suppress"
	KeyThresholdBlock     = "ThresholdBlock"
	KeyThresholdOffset    = "ThresholdOffset"
)

// Config map parameter types.
const (
	typeString = "string"
	typeUint   = "uint"
	typeBool   = "bool"
	typeFloat  = "float"
)

// Default variable values.
const (
	// General defaults.
	defaultInput     = InputAuto
	defaultBackend   = BackendGo
	defaultVerbosity = logging.Info
	defaultDBPath    = "parkwatch.db"
	defaultSpotsKey  = "parking_spots"

	// Spot geometry and classification defaults.
	defaultSpotWidth          = 103
	defaultSpotHeight         = 43
	defaultOccupancyThreshold = 900

	// Filter parameter defaults.
	defaultBlurKernel       = 3
	defaultBlurSigma        = 1.0
	defaultThresholdBlock   = 25
	defaultThresholdOffset  = 16.0
	defaultMedianKernel     = 5
	defaultDilateKernel     = 3
	defaultDilateIterations = 1

	// Overlay defaults.
	defaultFreeColour     = "#00c800"
	defaultOccupiedColour = "#c80000"
)

// DefaultSources are the video files monitored when no sources are configured.
var DefaultSources = []string{
	"data/parking1.mp4",
	"data/parking2.mp4",
	"data/parking3.mp4",
	"data/parking4.mp4",
}

// Variables describes the variables that can be used for parkwatch control.
// These structs provide the name and type of variable, a function for updating
// this variable in a Config, and a function for validating the value of the variable.
var Variables = []struct {
	Name     string
	Type     string
	Update   func(*Config, string)
	Validate func(*Config)
}{
	{
		Name:   KeyBackend,
		Type:   "enum:go,cv",
		Update: func(c *Config, v string) { c.Backend = parseEnum(KeyBackend, v, map[string]uint8{"go": BackendGo, "cv": BackendCV}, c) },
		Validate: func(c *Config) {
			switch c.Backend {
			case BackendGo, BackendCV:
			default:
				c.LogInvalidField(KeyBackend, defaultBackend)
				c.Backend = defaultBackend
			}
		},
	},
	{
		Name:     KeyBlurKernel,
		Type:     typeUint,
		Update:   func(c *Config, v string) { c.BlurKernel = parseUint(KeyBlurKernel, v, c) },
		Validate: func(c *Config) { c.BlurKernel = oddSize(KeyBlurKernel, c.BlurKernel, 1, c, defaultBlurKernel) },
	},
	{
		Name:   KeyBlurSigma,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.BlurSigma = parseFloat(KeyBlurSigma, v, c) },
		Validate: func(c *Config) {
			if c.BlurSigma <= 0 {
				c.LogInvalidField(KeyBlurSigma, defaultBlurSigma)
				c.BlurSigma = defaultBlurSigma
			}
		},
	},
	{
		Name:   KeyDBPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.DBPath = v },
		Validate: func(c *Config) {
			if c.DBPath == "" {
				c.LogInvalidField(KeyDBPath, defaultDBPath)
				c.DBPath = defaultDBPath
			}
		},
	},
	{
		Name:     KeyDilateIterations,
		Type:     typeUint,
		Update:   func(c *Config, v string) { c.DilateIterations = parseUint(KeyDilateIterations, v, c) },
		Validate: func(c *Config) { c.DilateIterations = lessThanOrEqual(KeyDilateIterations, c.DilateIterations, 0, c, defaultDilateIterations) },
	},
	{
		Name:     KeyDilateKernel,
		Type:     typeUint,
		Update:   func(c *Config, v string) { c.DilateKernel = parseUint(KeyDilateKernel, v, c) },
		Validate: func(c *Config) { c.DilateKernel = oddSize(KeyDilateKernel, c.DilateKernel, 1, c, defaultDilateKernel) },
	},
	{
		Name:   KeyFileFPS,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.FileFPS = parseUint(KeyFileFPS, v, c) },
	},
	{
		Name:   KeyFrameHeight,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.FrameHeight = parseUint(KeyFrameHeight, v, c) },
	},
	{
		Name:   KeyFrameWidth,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.FrameWidth = parseUint(KeyFrameWidth, v, c) },
		Validate: func(c *Config) {
			if (c.FrameWidth == 0) != (c.FrameHeight == 0) {
				c.Logger.Warning("only one of FrameWidth and FrameHeight set, accepting any frame size", "FrameWidth", c.FrameWidth, "FrameHeight", c.FrameHeight)
				c.FrameWidth, c.FrameHeight = 0, 0
			}
		},
	},
	{
		Name:   KeyFreeColour,
		Type:   typeString,
		Update: func(c *Config, v string) { c.FreeColour = v },
		Validate: func(c *Config) {
			if c.FreeColour == "" {
				c.LogInvalidField(KeyFreeColour, defaultFreeColour)
				c.FreeColour = defaultFreeColour
			}
		},
	},
	{
		Name: KeyInput,
		Type: "enum:auto,file,dir,ffmpeg,cv",
		Update: func(c *Config, v string) {
			c.Input = parseEnum(
				KeyInput,
				v,
				map[string]uint8{
					"auto":   InputAuto,
					"file":   InputFile,
					"dir":    InputDir,
					"ffmpeg": InputFFmpeg,
					"cv":     InputCV,
				},
				c,
			)
		},
		Validate: func(c *Config) {
			switch c.Input {
			case InputAuto, InputFile, InputDir, InputFFmpeg, InputCV:
			default:
				c.LogInvalidField(KeyInput, defaultInput)
				c.Input = defaultInput
			}
		},
	},
	{
		Name: KeyLogging,
		Type: "enum:Debug,Info,Warning,Error,Fatal",
		Update: func(c *Config, v string) {
			switch v {
			case "Debug":
				c.LogLevel = logging.Debug
			case "Info":
				c.LogLevel = logging.Info
			case "Warning":
				c.LogLevel = logging.Warning
			case "Error":
				c.LogLevel = logging.Error
			case "Fatal":
				c.LogLevel = logging.Fatal
			default:
				c.Logger.Warning("invalid Logging param", "value", v)
			}
		},
		Validate: func(c *Config) {
			switch c.LogLevel {
			case logging.Debug, logging.Info, logging.Warning, logging.Error, logging.Fatal:
			default:
				c.LogInvalidField("LogLevel", defaultVerbosity)
				c.LogLevel = defaultVerbosity
			}
		},
	},
	{
		Name:     KeyMedianKernel,
		Type:     typeUint,
		Update:   func(c *Config, v string) { c.MedianKernel = parseUint(KeyMedianKernel, v, c) },
		Validate: func(c *Config) { c.MedianKernel = oddSize(KeyMedianKernel, c.MedianKernel, 1, c, defaultMedianKernel) },
	},
	{
		Name:   KeyMetricsAddr,
		Type:   typeString,
		Update: func(c *Config, v string) { c.MetricsAddr = v },
	},
	{
		Name:   KeyOccupancyThreshold,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.OccupancyThreshold = parseUint(KeyOccupancyThreshold, v, c) },
		Validate: func(c *Config) {
			c.OccupancyThreshold = lessThanOrEqual(KeyOccupancyThreshold, c.OccupancyThreshold, 0, c, defaultOccupancyThreshold)
		},
	},
	{
		Name:   KeyOccupiedColour,
		Type:   typeString,
		Update: func(c *Config, v string) { c.OccupiedColour = v },
		Validate: func(c *Config) {
			if c.OccupiedColour == "" {
				c.LogInvalidField(KeyOccupiedColour, defaultOccupiedColour)
				c.OccupiedColour = defaultOccupiedColour
			}
		},
	},
	{
		Name:   KeySinglePass,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.SinglePass = parseBool(KeySinglePass, v, c) },
	},
	{
		Name:   KeySnapshotDir,
		Type:   typeString,
		Update: func(c *Config, v string) { c.SnapshotDir = v },
	},
	{
		Name: KeySnapshotInterval,
		Type: typeUint,
		Update: func(c *Config, v string) {
			_v, err := strconv.Atoi(v)
			if err != nil {
				c.Logger.Warning("invalid SnapshotInterval param", "value", v)
			}
			c.SnapshotInterval = time.Duration(_v) * time.Second
		},
		Validate: func(c *Config) {
			if c.SnapshotInterval < 0 {
				c.LogInvalidField(KeySnapshotInterval, time.Duration(0))
				c.SnapshotInterval = 0
			}
		},
	},
	{
		Name: KeySources,
		Type: typeString,
		Update: func(c *Config, v string) {
			c.Sources = nil
			for _, s := range strings.Split(v, ",") {
				s = strings.TrimSpace(s)
				if s != "" {
					c.Sources = append(c.Sources, s)
				}
			}
		},
		Validate: func(c *Config) {
			if len(c.Sources) == 0 {
				c.LogInvalidField(KeySources, DefaultSources)
				c.Sources = append([]string(nil), DefaultSources...)
			}
		},
	},
	{
		Name:     KeySpotHeight,
		Type:     typeUint,
		Update:   func(c *Config, v string) { c.SpotHeight = parseUint(KeySpotHeight, v, c) },
		Validate: func(c *Config) { c.SpotHeight = lessThanOrEqual(KeySpotHeight, c.SpotHeight, 0, c, defaultSpotHeight) },
	},
	{
		Name:   KeySpotsKey,
		Type:   typeString,
		Update: func(c *Config, v string) { c.SpotsKey = v },
		Validate: func(c *Config) {
			if c.SpotsKey == "" {
				c.LogInvalidField(KeySpotsKey, defaultSpotsKey)
				c.SpotsKey = defaultSpotsKey
			}
		},
	},
	{
		Name:   KeySpotWidth,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.SpotWidth = parseUint(KeySpotWidth, v, c) },
		Validate: func(c *Config) {
			c.SpotWidth = lessThanOrEqual(KeySpotWidth, c.SpotWidth, 0, c, defaultSpotWidth)

			// Runs after SpotHeight and OccupancyThreshold have been validated, so
			// the threshold check sees final values.
			if c.OccupancyThreshold >= c.SpotArea() {
				c.Logger.Warning("occupancy threshold not below spot area, spots will almost never read occupied", "threshold", c.OccupancyThreshold, "area", c.SpotArea())
			}
		},
	},
	{
		Name:   KeySuppress,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.Suppress = parseBool(KeySuppress, v, c) },
	},
	{
		Name:     KeyThresholdBlock,
		Type:     typeUint,
		Update:   func(c *Config, v string) { c.ThresholdBlock = parseUint(KeyThresholdBlock, v, c) },
		Validate: func(c *Config) { c.ThresholdBlock = oddSize(KeyThresholdBlock, c.ThresholdBlock, 3, c, defaultThresholdBlock) },
	},
	{
		Name:   KeyThresholdOffset,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.ThresholdOffset = parseFloat(KeyThresholdOffset, v, c) },
		Validate: func(c *Config) {
			if c.ThresholdOffset == 0 {
				c.LogInvalidField(KeyThresholdOffset, defaultThresholdOffset)
				c.ThresholdOffset = defaultThresholdOffset
			}
		},
	},
}

func parseUint(n, v string, c *Config) uint {
	_v, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected unsigned int for param %s", n), "value", v)
	}
	return uint(_v)
}

func parseFloat(n, v string, c *Config) float64 {
	_v, err := strconv.ParseFloat(v, 64)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected float for param %s", n), "value", v)
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

func parseEnum(n, v string, enums map[string]uint8, c *Config) uint8 {
	_v, ok := enums[strings.ToLower(v)]
	if !ok {
		c.Logger.Warning(fmt.Sprintf("invalid value for %s param", n), "value", v)
	}
	return _v
}

func lessThanOrEqual(n string, v, cmp uint, c *Config, def uint) uint {
	if v <= cmp {
		c.LogInvalidField(n, def)
		return def
	}
	return v
}

// oddSize checks that a kernel size is odd and at least min.
func oddSize(n string, v, min uint, c *Config, def uint) uint {
	if v < min || v%2 == 0 {
		c.LogInvalidField(n, def)
		return def
	}
	return v
}
