// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2016-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import "github.com/silverpine/chaind/wire"

// NewCoinsFromTx builds a Coins record for every output of tx at the given
// confirmation height. Outputs with a provably unspendable script are
// skipped, landing as gaps rather than entries, exactly as if they had
// already been spent.
func NewCoinsFromTx(tx *wire.MsgTx, height int32) *Coins {
	outputs := make([]Output, len(tx.TxOut))
	for i, txOut := range tx.TxOut {
		outputs[i] = Output{Value: uint64(txOut.Value), Script: txOut.PkScript}
	}
	return NewCoins(tx.TxHash(), tx.Version, height, tx.IsCoinBase(), outputs)
}
