// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package standalone houses the context-free transaction sanity checks:
// rules that can be evaluated from the transaction's own bytes with no
// chain state, as opposed to the contextual checks (double-spend,
// signature validity, maturity) that require the UTXO set.
package standalone

import (
	"fmt"
	"math"

	"github.com/silverpine/chaind/chaincfg/chainhash"
	"github.com/silverpine/chaind/wire"
)

// zeroHash is the zero value for a chainhash.Hash and is defined as a
// package level variable to avoid the need to create a new instance every
// time a check is needed.
var zeroHash = chainhash.Hash{}

// IsCoinBaseTx determines whether or not a transaction is a coinbase.  A
// coinbase is a special transaction created by miners that has no real
// inputs.  This is represented in the block chain by a transaction with a
// single input that has a previous output transaction index set to the
// maximum value along with a zero hash.
func IsCoinBaseTx(tx *wire.MsgTx) bool {
	// A coinbase must only have one transaction input.
	if len(tx.TxIn) != 1 {
		return false
	}

	// The previous output of a coinbase must have a max value index and a
	// zero hash.
	prevOut := &tx.TxIn[0].PreviousOutPoint
	return prevOut.Index == math.MaxUint32 && prevOut.Hash == zeroHash
}

// CheckTransactionSanity performs some preliminary checks on a transaction
// to ensure it is sane.  These checks are context free.
func CheckTransactionSanity(tx *wire.MsgTx, maxTxSize uint64) error {
	if len(tx.TxIn) == 0 {
		return ruleError(ErrNoTxInputs, "transaction has no inputs")
	}

	if len(tx.TxOut) == 0 {
		return ruleError(ErrNoTxOutputs, "transaction has no outputs")
	}

	serializedTxSize := uint64(tx.SerializeSize())
	if serializedTxSize > maxTxSize {
		str := fmt.Sprintf("serialized transaction is too big - got %d, max %d",
			serializedTxSize, maxTxSize)
		return ruleError(ErrTxTooBig, str)
	}

	// Ensure the transaction amounts are in range.  Each transaction output
	// must not be negative or more than the maximum allowed per
	// transaction, and the total of all outputs must not overflow either.
	var totalAtoms int64
	for _, txOut := range tx.TxOut {
		atoms := txOut.Value
		if atoms < 0 {
			str := fmt.Sprintf("transaction output has negative value of %v", atoms)
			return ruleError(ErrBadTxOutValue, str)
		}
		if atoms > math.MaxInt64 {
			str := fmt.Sprintf("transaction output value of %v is higher "+
				"than the max allowed value", atoms)
			return ruleError(ErrBadTxOutValue, str)
		}

		// Two's complement int64 overflow guarantees that any overflow is
		// detected and reported.
		totalAtoms += atoms
		if totalAtoms < 0 {
			str := "total value of all transaction outputs exceeds max " +
				"allowed value"
			return ruleError(ErrBadTxOutValue, str)
		}
	}

	// Check for duplicate transaction inputs.
	existingTxOut := make(map[wire.OutPoint]struct{})
	for _, txIn := range tx.TxIn {
		if _, exists := existingTxOut[txIn.PreviousOutPoint]; exists {
			return ruleError(ErrDuplicateTxInputs, "transaction contains duplicate inputs")
		}
		existingTxOut[txIn.PreviousOutPoint] = struct{}{}
	}

	// A coinbase must have a single input with a null previous outpoint;
	// everything else must not.
	isCoinBase := IsCoinBaseTx(tx)
	if !isCoinBase {
		for _, txIn := range tx.TxIn {
			if txIn.PreviousOutPoint.IsNull() {
				return ruleError(ErrBadTxInput, "transaction input refers to "+
					"null previous outpoint outside of a coinbase")
			}
		}
	}

	return nil
}
