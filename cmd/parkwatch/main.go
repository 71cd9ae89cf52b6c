/*
DESCRIPTION
  parkwatch monitors parking spots in one or more video sources, records the
  number of free spots and provides editing of the spot list and analysis of
  the recorded data.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Alan Noble <alan@ausocean.org>
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// parkwatch is a parking spot monitor.
//
// Usage:
//
//	parkwatch [flags] [monitor]
//	parkwatch [flags] spots list|add X Y|remove X Y|delete N|clear
//	parkwatch [flags] analyze [-camera id] [-plot file]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/parkwatch/monitor/config"
	"github.com/ausocean/utils/logging"
)

// Current software version.
const version = "v0.3.0"

// Logging configuration.
const (
	logMaxSize   = 500 // MB
	logMaxBackup = 10
	logMaxAge    = 28 // days
	logVerbosity = logging.Info
	logSuppress  = true
)

const pkg = "parkwatch: "

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version")
		cfgPath     = flag.String("config", "", "path of the JSON config file")
		logPath     = flag.String("log-path", "", "path of the rotated log file, logs go only to stderr if empty")
		logLevel    = flag.String("log-level", "", "log level, one of Debug, Info, Warning, Error or Fatal; overrides the config file")
	)
	flag.Usage = usage
	flag.Parse()
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	var w io.Writer = os.Stderr
	if *logPath != "" {
		// Create lumberjack logger to handle logging to file.
		fileLog := &lumberjack.Logger{
			Filename:   *logPath,
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackup,
			MaxAge:     logMaxAge,
		}
		defer fileLog.Close()
		w = io.MultiWriter(fileLog, os.Stderr)
	}
	log := logging.New(logVerbosity, w, logSuppress)
	log.Debug("starting parkwatch", "version", version)

	overrides := map[string]string{}
	if *logLevel != "" {
		overrides[config.KeyLogging] = *logLevel
	}

	cmd, args := "monitor", flag.Args()
	if len(args) != 0 {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "monitor":
		err = runMonitor(context.Background(), *cfgPath, overrides, log)
	case "spots":
		err = withConfig(*cfgPath, overrides, log, func(c config.Config) error {
			return runSpots(c, args, os.Stdout)
		})
	case "analyze":
		err = withConfig(*cfgPath, overrides, log, func(c config.Config) error {
			return runAnalyze(c, args, os.Stdout)
		})
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Error(pkg+cmd+" failed", "error", err.Error())
		fmt.Fprintln(os.Stderr, pkg+err.Error())
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `Usage:
  parkwatch [flags] [monitor]
  parkwatch [flags] spots list|add X Y|remove X Y|delete N|clear
  parkwatch [flags] analyze [-camera id] [-plot file]

Flags:
`)
	flag.PrintDefaults()
}

// loadConfig returns the validated config read from path, with overrides
// applied over the file values. An empty path gives the defaults.
func loadConfig(path string, overrides map[string]string, l logging.Logger) (config.Config, error) {
	c := config.Config{Logger: l}
	vars := make(map[string]string)
	if path != "" {
		var err error
		vars, err = config.ReadFile(path)
		if err != nil {
			return c, err
		}
	}
	for k, v := range overrides {
		vars[k] = v
	}

	l.Debug("updating config", "vars", vars)
	c.Update(vars)
	err := c.Validate()
	if err != nil {
		return c, fmt.Errorf("config struct is bad: %w", err)
	}
	l.SetLevel(c.LogLevel)
	return c, nil
}

func withConfig(path string, overrides map[string]string, l logging.Logger, fn func(config.Config) error) error {
	c, err := loadConfig(path, overrides, l)
	if err != nil {
		return err
	}
	return fn(c)
}
