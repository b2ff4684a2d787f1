// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2023 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"math"
	"reflect"
	"testing"

	"github.com/silverpine/chaind/chaincfg/chainhash"
)

func mustHash(b byte) chainhash.Hash {
	var h chainhash.Hash
	for i := range h {
		h[i] = b
	}
	return h
}

func sampleTx() *MsgTx {
	tx := NewMsgTx(TxVersion)
	tx.AddTxIn(NewTxIn(NewOutPoint(&chainhash.Hash{}, math.MaxUint32), []byte{0x01, 0x02}))
	tx.AddTxOut(NewTxOut(5_000_000_000, []byte{0x76, 0xa9, 0x14}))
	tx.AddTxOut(NewTxOut(125, []byte{}))
	tx.LockTime = 0
	return tx
}

func TestMsgTxSerializeDeserializeRoundTrip(t *testing.T) {
	tx := sampleTx()

	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	if got := buf.Len(); got != tx.SerializeSize() {
		t.Fatalf("SerializeSize mismatch: wrote %d bytes, SerializeSize reported %d", got, tx.SerializeSize())
	}

	var got MsgTx
	if err := got.Deserialize(&buf); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	if !reflect.DeepEqual(tx.TxIn, got.TxIn) {
		t.Errorf("TxIn mismatch:\n got  %+v\n want %+v", got.TxIn, tx.TxIn)
	}
	if !reflect.DeepEqual(tx.TxOut, got.TxOut) {
		t.Errorf("TxOut mismatch:\n got  %+v\n want %+v", got.TxOut, tx.TxOut)
	}
	if got.Version != tx.Version || got.LockTime != tx.LockTime {
		t.Errorf("version/locktime mismatch: got %+v want %+v", got, tx)
	}
}

func TestMsgTxEmptyScriptRoundTrip(t *testing.T) {
	tx := NewMsgTx(TxVersion)
	tx.AddTxIn(NewTxIn(NewOutPoint(&chainhash.Hash{}, 0), nil))
	tx.AddTxOut(NewTxOut(0, nil))

	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	var got MsgTx
	if err := got.Deserialize(&buf); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if len(got.TxIn[0].SignatureScript) != 0 {
		t.Errorf("expected empty signature script, got %x", got.TxIn[0].SignatureScript)
	}
	if len(got.TxOut[0].PkScript) != 0 {
		t.Errorf("expected empty pkScript, got %x", got.TxOut[0].PkScript)
	}
}

func TestOutPointIsNull(t *testing.T) {
	tests := []struct {
		name string
		op   OutPoint
		want bool
	}{
		{"null outpoint", OutPoint{Hash: chainhash.Hash{}, Index: math.MaxUint32}, true},
		{"zero hash, index zero", OutPoint{Hash: chainhash.Hash{}, Index: 0}, false},
		{"nonzero hash, max index", OutPoint{Hash: mustHash(1), Index: math.MaxUint32}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.op.IsNull(); got != tc.want {
				t.Errorf("IsNull() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestOutPointString(t *testing.T) {
	op := OutPoint{Hash: mustHash(0xab), Index: 3}
	want := op.Hash.String() + ":3"
	if got := op.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestMsgTxIsCoinBase(t *testing.T) {
	coinbase := NewMsgTx(TxVersion)
	coinbase.AddTxIn(NewTxIn(NewOutPoint(&chainhash.Hash{}, math.MaxUint32), []byte{0x00}))
	coinbase.AddTxOut(NewTxOut(5_000_000_000, []byte{0x76, 0xa9, 0x14}))
	if !coinbase.IsCoinBase() {
		t.Error("expected single null-outpoint input to be a coinbase")
	}

	regular := sampleTx()
	regular.TxIn[0].PreviousOutPoint = OutPoint{Hash: mustHash(7), Index: 0}
	if regular.IsCoinBase() {
		t.Error("expected non-null-outpoint input to not be a coinbase")
	}

	multiInput := NewMsgTx(TxVersion)
	multiInput.AddTxIn(NewTxIn(NewOutPoint(&chainhash.Hash{}, math.MaxUint32), nil))
	multiInput.AddTxIn(NewTxIn(NewOutPoint(&chainhash.Hash{}, math.MaxUint32), nil))
	if multiInput.IsCoinBase() {
		t.Error("expected two-input transaction to not be a coinbase regardless of outpoints")
	}
}

func TestMsgTxHashDeterministic(t *testing.T) {
	tx1 := sampleTx()
	tx2 := sampleTx()

	h1 := tx1.TxHash()
	h2 := tx2.TxHash()
	if h1 != h2 {
		t.Errorf("identical transactions hashed differently: %s != %s", h1, h2)
	}
	if tx1.Hash() != h1 {
		t.Errorf("Hash() and TxHash() disagree: %s != %s", tx1.Hash(), h1)
	}

	tx2.LockTime = 1
	if tx2.TxHash() == h1 {
		t.Error("changing LockTime did not change the transaction hash")
	}
}

func TestMsgTxCopyIsDeep(t *testing.T) {
	tx := sampleTx()
	cp := tx.Copy()

	if !reflect.DeepEqual(tx, cp) {
		t.Fatalf("copy diverged from original:\n got  %+v\n want %+v", cp, tx)
	}

	cp.TxOut[0].Value = 1
	cp.TxIn[0].SignatureScript[0] = 0xff
	if tx.TxOut[0].Value == cp.TxOut[0].Value {
		t.Error("mutating the copy's TxOut changed the original")
	}
	if tx.TxIn[0].SignatureScript[0] == cp.TxIn[0].SignatureScript[0] {
		t.Error("mutating the copy's SignatureScript changed the original")
	}
}

func TestMsgTxSerializeSizeMatchesOutput(t *testing.T) {
	tx := sampleTx()
	var buf bytes.Buffer
	if err := tx.BtcEncode(&buf); err != nil {
		t.Fatalf("BtcEncode: %v", err)
	}
	if buf.Len() != tx.SerializeSize() {
		t.Errorf("SerializeSize() = %d, actual encoded length = %d", tx.SerializeSize(), buf.Len())
	}
}

func TestMsgTxDeserializeTooManyInputs(t *testing.T) {
	var buf bytes.Buffer
	if err := binarySerializer.PutUint32(&buf, TxVersion); err != nil {
		t.Fatal(err)
	}
	// A huge input count should be rejected before any allocation is
	// attempted, regardless of how much data actually follows.
	if err := WriteVarInt(&buf, uint64(maxTxInPerMessage)+1); err != nil {
		t.Fatal(err)
	}

	var tx MsgTx
	if err := tx.Deserialize(&buf); err == nil {
		t.Fatal("expected an error decoding an implausibly large input count")
	}
}
