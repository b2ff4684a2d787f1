// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2023 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"
	"math"

	"github.com/silverpine/chaind/chaincfg/chainhash"
)

// TxVersion is the current latest supported transaction version.
const TxVersion = 1

// MaxTxInSequenceNum is the maximum sequence number the sequence field of a
// transaction input can be set to.
const MaxTxInSequenceNum uint32 = 0xffffffff

// minTxInPayload is the minimum payload size for a transaction input.
// PreviousOutPoint.Hash + PreviousOutPoint.Index 4 bytes + Varint for
// SignatureScript length 1 byte + Sequence 4 bytes.
const minTxInPayload = 9 + chainhash.HashSize

// maxTxInPerMessage is a reasonable upper bound on the number of inputs or
// outputs that will ever be read while decoding a single transaction;
// it guards against corrupt length prefixes causing a huge allocation.
const maxTxInPerMessage = (1024 * 1024 * 32) / minTxInPayload

// OutPoint defines a bitcoin data type that is used to track previous
// transaction outputs.
type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
}

// NewOutPoint returns a new bitcoin transaction outpoint point with the
// provided hash and index.
func NewOutPoint(hash *chainhash.Hash, index uint32) *OutPoint {
	return &OutPoint{
		Hash:  *hash,
		Index: index,
	}
}

// String returns the OutPoint in the human-readable form "hash:index".
func (o OutPoint) String() string {
	return fmt.Sprintf("%s:%d", o.Hash, o.Index)
}

// IsNull reports whether the outpoint is the null outpoint used by coinbase
// inputs: a zero hash and a maximum-value index.
func (o OutPoint) IsNull() bool {
	return o.Index == math.MaxUint32 && o.Hash == (chainhash.Hash{})
}

// TxIn defines a bitcoin transaction input.
type TxIn struct {
	PreviousOutPoint OutPoint
	SignatureScript  []byte
	Sequence         uint32
}

// NewTxIn returns a new bitcoin transaction input with the provided
// previous outpoint point and signature script with a default sequence of
// MaxTxInSequenceNum.
func NewTxIn(prevOut *OutPoint, signatureScript []byte) *TxIn {
	return &TxIn{
		PreviousOutPoint: *prevOut,
		SignatureScript:  signatureScript,
		Sequence:         MaxTxInSequenceNum,
	}
}

// SerializeSize returns the number of bytes it would take to serialize the
// the transaction input.
func (t *TxIn) SerializeSize() int {
	// Outpoint Hash 32 bytes + Outpoint Index 4 bytes + Sequence 4 bytes +
	// serialized varint size for the length of SignatureScript +
	// SignatureScript bytes.
	return 40 + VarIntSerializeSize(uint64(len(t.SignatureScript))) +
		len(t.SignatureScript)
}

// TxOut defines a bitcoin transaction output.  Value is denominated in
// atomic units (satoshis) and is explicitly left uncompressed in the wire
// form; domain-specific compression of the (value, script) pair happens
// only in the UTXO-set codec, not here.
type TxOut struct {
	Value    int64
	PkScript []byte
}

// NewTxOut returns a new bitcoin transaction output with the provided
// transaction value and public key script.
func NewTxOut(value int64, pkScript []byte) *TxOut {
	return &TxOut{
		Value:    value,
		PkScript: pkScript,
	}
}

// SerializeSize returns the number of bytes it would take to serialize the
// the transaction output.
func (t *TxOut) SerializeSize() int {
	// Value 8 bytes + serialized varint size for the length of PkScript +
	// PkScript bytes.
	return 8 + VarIntSerializeSize(uint64(len(t.PkScript))) + len(t.PkScript)
}

// MsgTx represents a bitcoin transaction: version, inputs, outputs and lock
// time, with the wire encoding used for hashing and storage.
//
// Use the AddTxIn and AddTxOut functions to build up the list of transaction
// inputs and outputs.
type MsgTx struct {
	Version  uint32
	TxIn     []*TxIn
	TxOut    []*TxOut
	LockTime uint32
}

// AddTxIn adds a transaction input to the message.
func (msg *MsgTx) AddTxIn(ti *TxIn) {
	msg.TxIn = append(msg.TxIn, ti)
}

// AddTxOut adds a transaction output to the message.
func (msg *MsgTx) AddTxOut(to *TxOut) {
	msg.TxOut = append(msg.TxOut, to)
}

// TxHash generates the hash for the transaction.
func (msg *MsgTx) TxHash() chainhash.Hash {
	buf := make([]byte, 0, msg.SerializeSize())
	w := newFixedWriter(buf)
	_ = msg.Serialize(w)
	return chainhash.DoubleHashH(w.Bytes())
}

// Hash satisfies the codec's Transaction.hash() contract.
func (msg *MsgTx) Hash() chainhash.Hash {
	return msg.TxHash()
}

// IsCoinBase determines whether or not the transaction is a coinbase.  A
// coinbase is a special transaction created by miners that has no real
// inputs.  This is represented in the block chain by a transaction with a
// single input whose previous output index is set to the maximum value
// along with a zero hash.
//
// Grounded on the same structural check used throughout the btcd/Decred
// lineage (a single null-outpoint input), stripped of every consensus
// special-case (treasury spends, stake votes, and similar) that does not
// apply outside a specific chain's agenda rules.
func (msg *MsgTx) IsCoinBase() bool {
	if len(msg.TxIn) != 1 {
		return false
	}
	return msg.TxIn[0].PreviousOutPoint.IsNull()
}

// Outputs returns the transaction's outputs as the Output-shaped slice the
// UTXO codec expects.
func (msg *MsgTx) Outputs() []*TxOut {
	return msg.TxOut
}

// Copy creates a deep copy of a transaction so that the original does not
// get modified when the copy is manipulated.
func (msg *MsgTx) Copy() *MsgTx {
	newTx := MsgTx{
		Version:  msg.Version,
		TxIn:     make([]*TxIn, 0, len(msg.TxIn)),
		TxOut:    make([]*TxOut, 0, len(msg.TxOut)),
		LockTime: msg.LockTime,
	}

	for _, oldTxIn := range msg.TxIn {
		newTxIn := TxIn{
			PreviousOutPoint: OutPoint{
				Hash:  oldTxIn.PreviousOutPoint.Hash,
				Index: oldTxIn.PreviousOutPoint.Index,
			},
			Sequence: oldTxIn.Sequence,
		}
		if oldTxIn.SignatureScript != nil {
			newTxIn.SignatureScript = make([]byte, len(oldTxIn.SignatureScript))
			copy(newTxIn.SignatureScript, oldTxIn.SignatureScript)
		}
		newTx.TxIn = append(newTx.TxIn, &newTxIn)
	}

	for _, oldTxOut := range msg.TxOut {
		newTxOut := TxOut{
			Value: oldTxOut.Value,
		}
		if oldTxOut.PkScript != nil {
			newTxOut.PkScript = make([]byte, len(oldTxOut.PkScript))
			copy(newTxOut.PkScript, oldTxOut.PkScript)
		}
		newTx.TxOut = append(newTx.TxOut, &newTxOut)
	}

	return &newTx
}

// BtcDecode decodes r using the bitcoin protocol encoding into the
// receiver.
func (msg *MsgTx) BtcDecode(r io.Reader) error {
	version, err := binarySerializer.Uint32(r)
	if err != nil {
		return err
	}
	msg.Version = version

	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > uint64(maxTxInPerMessage) {
		return fmt.Errorf("too many input transactions to fit into "+
			"max message size [count %d, max %d]", count, maxTxInPerMessage)
	}

	msg.TxIn = make([]*TxIn, 0, count)
	for i := uint64(0); i < count; i++ {
		ti := new(TxIn)
		if err := readTxIn(r, ti); err != nil {
			return err
		}
		msg.TxIn = append(msg.TxIn, ti)
	}

	count, err = ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > uint64(maxTxInPerMessage) {
		return fmt.Errorf("too many output transactions to fit into "+
			"max message size [count %d, max %d]", count, maxTxInPerMessage)
	}

	msg.TxOut = make([]*TxOut, 0, count)
	for i := uint64(0); i < count; i++ {
		to := new(TxOut)
		if err := readTxOut(r, to); err != nil {
			return err
		}
		msg.TxOut = append(msg.TxOut, to)
	}

	lockTime, err := binarySerializer.Uint32(r)
	if err != nil {
		return err
	}
	msg.LockTime = lockTime

	return nil
}

// Deserialize decodes a transaction from r into the receiver using a
// format that is suitable for long-term storage such as a block.
func (msg *MsgTx) Deserialize(r io.Reader) error {
	return msg.BtcDecode(r)
}

// BtcEncode encodes the receiver to w using the bitcoin protocol encoding.
func (msg *MsgTx) BtcEncode(w io.Writer) error {
	if err := binarySerializer.PutUint32(w, msg.Version); err != nil {
		return err
	}

	if err := WriteVarInt(w, uint64(len(msg.TxIn))); err != nil {
		return err
	}
	for _, ti := range msg.TxIn {
		if err := writeTxIn(w, ti); err != nil {
			return err
		}
	}

	if err := WriteVarInt(w, uint64(len(msg.TxOut))); err != nil {
		return err
	}
	for _, to := range msg.TxOut {
		if err := writeTxOut(w, to); err != nil {
			return err
		}
	}

	return binarySerializer.PutUint32(w, msg.LockTime)
}

// Serialize encodes the transaction to w in a format suitable for
// long-term storage.
func (msg *MsgTx) Serialize(w io.Writer) error {
	return msg.BtcEncode(w)
}

// SerializeSize returns the number of bytes it would take to serialize the
// the transaction.
func (msg *MsgTx) SerializeSize() int {
	// Version 4 bytes + LockTime 4 bytes + Serialized varint size for the
	// number of transaction inputs and outputs.
	n := 8 + VarIntSerializeSize(uint64(len(msg.TxIn))) +
		VarIntSerializeSize(uint64(len(msg.TxOut)))

	for _, txIn := range msg.TxIn {
		n += txIn.SerializeSize()
	}
	for _, txOut := range msg.TxOut {
		n += txOut.SerializeSize()
	}

	return n
}

// NewMsgTx returns a new bitcoin transaction with the given version and no
// transaction inputs or outputs.  Also, the lock time is set to zero to
// indicate the transaction is valid immediately as opposed to some time in
// future.
func NewMsgTx(version uint32) *MsgTx {
	return &MsgTx{
		Version: version,
		TxIn:    make([]*TxIn, 0, defaultTxInOutAlloc),
		TxOut:   make([]*TxOut, 0, defaultTxInOutAlloc),
	}
}

// defaultTxInOutAlloc is the default size used for the inputs and outputs
// slices. Most transactions hold a single input and a single or a pair of
// outputs so the allocations are kept small ahead of append growth.
const defaultTxInOutAlloc = 15

func readTxIn(r io.Reader, ti *TxIn) error {
	if _, err := io.ReadFull(r, ti.PreviousOutPoint.Hash[:]); err != nil {
		return err
	}
	index, err := binarySerializer.Uint32(r)
	if err != nil {
		return err
	}
	ti.PreviousOutPoint.Index = index

	script, err := readScript(r)
	if err != nil {
		return err
	}
	ti.SignatureScript = script

	sequence, err := binarySerializer.Uint32(r)
	if err != nil {
		return err
	}
	ti.Sequence = sequence
	return nil
}

func writeTxIn(w io.Writer, ti *TxIn) error {
	if _, err := w.Write(ti.PreviousOutPoint.Hash[:]); err != nil {
		return err
	}
	if err := binarySerializer.PutUint32(w, ti.PreviousOutPoint.Index); err != nil {
		return err
	}
	if err := WriteVarBytes(w, ti.SignatureScript); err != nil {
		return err
	}
	return binarySerializer.PutUint32(w, ti.Sequence)
}

func readTxOut(r io.Reader, to *TxOut) error {
	value, err := binarySerializer.Uint64(r)
	if err != nil {
		return err
	}
	to.Value = int64(value)

	script, err := readScript(r)
	if err != nil {
		return err
	}
	to.PkScript = script
	return nil
}

func writeTxOut(w io.Writer, to *TxOut) error {
	if err := binarySerializer.PutUint64(w, uint64(to.Value)); err != nil {
		return err
	}
	return WriteVarBytes(w, to.PkScript)
}

// readScript reads a variable-length byte slice prefixed by its length as a
// serialized varint.
func readScript(r io.Reader) ([]byte, error) {
	count, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}

	const maxScriptSize = 1024 * 1024 * 4
	if count > maxScriptSize {
		return nil, fmt.Errorf("script is larger than the max allowed "+
			"size [count %d, max %d]", count, maxScriptSize)
	}

	b := make([]byte, count)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}
