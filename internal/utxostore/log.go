// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2016-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package utxostore

import "github.com/decred/slog"

var log = slog.Disabled

// UseLogger sets the package-wide logger used for store diagnostics. This
// should be called before any Store method, typically during application
// init.
func UseLogger(logger slog.Logger) {
	log = logger
}
