// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2016-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	flags "github.com/jessevdk/go-flags"
)

const (
	defaultDataDirname    = "data"
	defaultLogLevel       = "info"
	defaultLogFilename    = "chaind.log"
	defaultConfigFilename = "chaind.conf"
)

// config defines the command-line and config-file options chaind accepts.
// Unrecognized positional arguments are the subcommand and its arguments
// (see dispatch in main.go); go-flags leaves those in Args after Parse.
type config struct {
	ConfigFile string `short:"C" long:"configfile" description:"Path to configuration file"`
	AppDataDir string `short:"A" long:"appdata" description:"Directory to store UTXO database and logs"`
	DebugLevel string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical}"`
	NoFileLog  bool   `long:"nofilelog" description:"Disable logging to a file"`
}

func defaultAppDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".", "chaind")
	}
	return filepath.Join(home, ".chaind")
}

func (c *config) dataDir() string {
	return filepath.Join(c.AppDataDir, defaultDataDirname)
}

func (c *config) logDir() string {
	return c.AppDataDir
}

// loadConfig parses command-line flags, optionally layering them on top of
// an INI-style config file, and fills in defaults for anything left unset.
// It returns the remaining, unparsed positional arguments (the subcommand
// and its operands).
func loadConfig() (*config, []string, error) {
	cfg := config{
		AppDataDir: defaultAppDataDir(),
		DebugLevel: defaultLogLevel,
	}

	preParser := flags.NewParser(&cfg, flags.HelpFlag|flags.PassDoubleDash|flags.IgnoreUnknown)
	_, err := preParser.Parse()
	if err != nil {
		return nil, nil, err
	}

	if cfg.ConfigFile == "" {
		cfg.ConfigFile = filepath.Join(cfg.AppDataDir, defaultConfigFilename)
	}
	if _, err := os.Stat(cfg.ConfigFile); err == nil {
		iniParser := flags.NewIniParser(flags.NewParser(&cfg, flags.Default))
		if err := iniParser.ParseFile(cfg.ConfigFile); err != nil {
			return nil, nil, fmt.Errorf("parsing config file %s: %w", cfg.ConfigFile, err)
		}
	}

	parser := flags.NewParser(&cfg, flags.Default)
	rest, err := parser.Parse()
	if err != nil {
		return nil, nil, err
	}

	return &cfg, rest, nil
}
