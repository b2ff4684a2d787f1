// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package standalone

import (
	"errors"
	"math"
	"testing"

	"github.com/silverpine/chaind/chaincfg/chainhash"
	"github.com/silverpine/chaind/wire"
)

func mustHash(b byte) chainhash.Hash {
	var h chainhash.Hash
	for i := range h {
		h[i] = b
	}
	return h
}

func validTxIn(hash chainhash.Hash, index uint32) *wire.TxIn {
	return &wire.TxIn{
		PreviousOutPoint: wire.OutPoint{Hash: hash, Index: index},
		SignatureScript:  []byte{0x01},
		Sequence:         wire.MaxTxInSequenceNum,
	}
}

func validTxOut(value int64) *wire.TxOut {
	return &wire.TxOut{Value: value, PkScript: []byte{0x76, 0xa9, 0x14}}
}

func coinbaseTxIn() *wire.TxIn {
	return &wire.TxIn{
		PreviousOutPoint: wire.OutPoint{Hash: chainhash.Hash{}, Index: math.MaxUint32},
		SignatureScript:  []byte{0x00},
		Sequence:         wire.MaxTxInSequenceNum,
	}
}

func TestIsCoinBaseTx(t *testing.T) {
	coinbase := &wire.MsgTx{TxIn: []*wire.TxIn{coinbaseTxIn()}, TxOut: []*wire.TxOut{validTxOut(1)}}
	if !IsCoinBaseTx(coinbase) {
		t.Error("expected single null-outpoint input to be recognized as a coinbase")
	}

	regular := &wire.MsgTx{TxIn: []*wire.TxIn{validTxIn(mustHash(1), 0)}, TxOut: []*wire.TxOut{validTxOut(1)}}
	if IsCoinBaseTx(regular) {
		t.Error("expected ordinary input to not be recognized as a coinbase")
	}

	twoInputs := &wire.MsgTx{TxIn: []*wire.TxIn{coinbaseTxIn(), coinbaseTxIn()}}
	if IsCoinBaseTx(twoInputs) {
		t.Error("expected two null-outpoint inputs to not be recognized as a coinbase")
	}
}

func TestCheckTransactionSanity(t *testing.T) {
	const maxTxSize = 1_000_000

	tests := []struct {
		name    string
		tx      *wire.MsgTx
		wantErr ErrorKind
	}{
		{
			name: "valid regular transaction",
			tx: &wire.MsgTx{
				TxIn:  []*wire.TxIn{validTxIn(mustHash(1), 0)},
				TxOut: []*wire.TxOut{validTxOut(5_000_000_000)},
			},
		},
		{
			name: "valid coinbase transaction",
			tx: &wire.MsgTx{
				TxIn:  []*wire.TxIn{coinbaseTxIn()},
				TxOut: []*wire.TxOut{validTxOut(5_000_000_000)},
			},
		},
		{
			name:    "no inputs",
			tx:      &wire.MsgTx{TxIn: nil, TxOut: []*wire.TxOut{validTxOut(1)}},
			wantErr: ErrNoTxInputs,
		},
		{
			name:    "no outputs",
			tx:      &wire.MsgTx{TxIn: []*wire.TxIn{validTxIn(mustHash(1), 0)}, TxOut: nil},
			wantErr: ErrNoTxOutputs,
		},
		{
			name: "negative output value",
			tx: &wire.MsgTx{
				TxIn:  []*wire.TxIn{validTxIn(mustHash(1), 0)},
				TxOut: []*wire.TxOut{validTxOut(-1)},
			},
			wantErr: ErrBadTxOutValue,
		},
		{
			name: "output total overflows int64",
			tx: &wire.MsgTx{
				TxIn: []*wire.TxIn{validTxIn(mustHash(1), 0)},
				TxOut: []*wire.TxOut{
					validTxOut(math.MaxInt64),
					validTxOut(math.MaxInt64),
				},
			},
			wantErr: ErrBadTxOutValue,
		},
		{
			name: "duplicate inputs",
			tx: &wire.MsgTx{
				TxIn: []*wire.TxIn{
					validTxIn(mustHash(1), 0),
					validTxIn(mustHash(1), 0),
				},
				TxOut: []*wire.TxOut{validTxOut(1)},
			},
			wantErr: ErrDuplicateTxInputs,
		},
		{
			name: "null outpoint outside coinbase",
			tx: &wire.MsgTx{
				TxIn: []*wire.TxIn{
					validTxIn(mustHash(1), 0),
					coinbaseTxIn(),
				},
				TxOut: []*wire.TxOut{validTxOut(1)},
			},
			wantErr: ErrBadTxInput,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckTransactionSanity(tc.tx, maxTxSize)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error kind %v, got nil", tc.wantErr)
			}
			var ruleErr RuleError
			if !errors.As(err, &ruleErr) {
				t.Fatalf("expected a RuleError, got %T: %v", err, err)
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("error kind = %v, want %v", ruleErr.ErrorCode, tc.wantErr)
			}
		})
	}
}

func TestCheckTransactionSanityTooBig(t *testing.T) {
	tx := &wire.MsgTx{
		TxIn:  []*wire.TxIn{validTxIn(mustHash(1), 0)},
		TxOut: []*wire.TxOut{validTxOut(1)},
	}
	err := CheckTransactionSanity(tx, 0)
	if !errors.Is(err, ErrTxTooBig) {
		t.Fatalf("expected ErrTxTooBig against a zero max size, got %v", err)
	}
}
