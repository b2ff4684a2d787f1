// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2016-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"

	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"

	"github.com/silverpine/chaind/internal/blockchain"
	"github.com/silverpine/chaind/internal/utxostore"
)

// logWriter fans every log line out to stdout and, once initLogRotator has
// run, the rotating log file. Until then the rotator half is a no-op.
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	os.Stdout.Write(p)
	if logRotator != nil {
		logRotator.Write(p)
	}
	return len(p), nil
}

const (
	logFileThreshold = 10 * 1024
	logFileMaxRolls  = 3
)

var (
	logRotator *rotator.Rotator

	backendLog = slog.NewBackend(logWriter{})
	chaindLog  = backendLog.Logger("CHND")
)

// subsystemLoggers maps each package's logging subsystem tag to the logger
// UseLogger expects, mirroring the convention the rest of this node's
// packages follow: one tag per package, one UseLogger setter per package.
var subsystemLoggers = map[string]slog.Logger{
	"CHND": chaindLog,
	"UCHN": backendLog.Logger("UCHN"),
	"UTXS": backendLog.Logger("UTXS"),
}

func init() {
	blockchain.UseLogger(subsystemLoggers["UCHN"])
	utxostore.UseLogger(subsystemLoggers["UTXS"])
}

// initLogRotator opens (creating if needed) a rotating log file at logFile.
// Until this is called, log output still reaches stdout; only the
// file-rotation half of logWriter is deferred.
func initLogRotator(logFile string) error {
	if err := os.MkdirAll(filepath.Dir(logFile), 0700); err != nil {
		return err
	}
	r, err := rotator.New(logFile, logFileThreshold, false, logFileMaxRolls)
	if err != nil {
		return err
	}
	logRotator = r
	return nil
}

// setLogLevels applies levelStr to every known subsystem logger.
func setLogLevels(levelStr string) error {
	level, ok := slog.LevelFromString(levelStr)
	if !ok {
		return errInvalidLogLevel(levelStr)
	}
	for _, logger := range subsystemLoggers {
		logger.SetLevel(level)
	}
	return nil
}

type errInvalidLogLevel string

func (e errInvalidLogLevel) Error() string {
	return "invalid log level: " + string(e)
}
