// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2016-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/silverpine/chaind/chaincfg/chainhash"
	"github.com/silverpine/chaind/txscript"
)

// Output is a minimal (value, script) pair: the codec's view of a
// transaction output, decoupled from any particular wire representation.
type Output struct {
	Value  uint64
	Script []byte
}

// IsUnspendable reports whether the output's script is provably
// unredeemable and therefore must never be stored.
func (o *Output) IsUnspendable() bool {
	return txscript.IsUnspendable(o.Script)
}

// Coin is one UTXO projected as a self-contained value, combining an
// Output with the metadata of its containing transaction.
type Coin struct {
	Output
	Hash     chainhash.Hash
	Index    uint32
	Height   int32
	Version  uint32
	CoinBase bool
}

// CoinEntry is a lazy handle to one output inside an encoded Coins record.
// It holds either a materialized Output or a reference into the parent's
// backing buffer; decompression of the latter is deferred until the output
// is actually read.
//
// Exactly one of {output, raw} is usable at any given time for a freshly
// constructed entry; after lazy materialization of a raw-backed entry both
// fields are populated and output shadows raw for reads. raw is always a
// read-only sub-slice of the parent Coins' own backing buffer — Go's slice
// semantics make that aliasing free and let the garbage collector keep the
// buffer alive for exactly as long as any entry still references it.
type CoinEntry struct {
	output *Output
	raw    []byte
	offset int
	size   int
	spent  bool
}

// newCoinEntryFromOutput builds an entry that is materialized from the
// start: there is no backing buffer to speak of.
func newCoinEntryFromOutput(output Output) *CoinEntry {
	o := output
	return &CoinEntry{output: &o}
}

// newCoinEntryFromReader records the entry's position within the reader's
// backing buffer and skips the compressed bytes it describes without
// decompressing them. The reader is left positioned just past the entry.
func newCoinEntryFromReader(r *byteCursor) (*CoinEntry, error) {
	offset := r.position()
	n, err := skipCompressedTxOut(r.remaining())
	if err != nil {
		return nil, err
	}
	r.seek(offset + n)

	return &CoinEntry{
		raw:    r.bytes(),
		offset: offset,
		size:   n,
	}, nil
}

// toOutput materializes the entry's output, decompressing it from the
// backing buffer on first call and caching the result. Idempotent.
func (e *CoinEntry) toOutput() (*Output, error) {
	if e.output != nil {
		return e.output, nil
	}

	value, script, _, err := decodeCompressedTxOut(e.raw[e.offset : e.offset+e.size])
	if err != nil {
		return nil, err
	}
	e.output = &Output{Value: value, Script: script}
	return e.output, nil
}

// toCoin combines the entry's materialized output with the parent record's
// metadata and the supplied index to yield a standalone Coin.
func (e *CoinEntry) toCoin(version uint32, height int32, coinBase bool,
	hash chainhash.Hash, index uint32) (*Coin, error) {

	output, err := e.toOutput()
	if err != nil {
		return nil, err
	}
	return &Coin{
		Output:   *output,
		Hash:     hash,
		Index:    index,
		Height:   height,
		Version:  version,
		CoinBase: coinBase,
	}, nil
}

// entrySize returns the byte count this entry occupies in compressed form:
// the recorded size if it was loaded from bytes, otherwise the size that
// compressing its materialized output would take.
func (e *CoinEntry) entrySize() int {
	if e.raw != nil {
		return e.size
	}
	return compressedTxOutSize(e.output.Value, e.output.Script)
}

// writeEntry appends the entry's compressed form to target, returning the
// number of bytes written. An entry still backed by raw bytes that were
// never materialized is copied verbatim (the fast path: untouched outputs
// round-trip by memcpy, never recompression); anything else is freshly
// compressed from the materialized output.
func (e *CoinEntry) writeEntry(target []byte) int {
	if e.raw != nil && e.output == nil {
		return copy(target, e.raw[e.offset:e.offset+e.size])
	}
	return putCompressedTxOut(target, e.output.Value, e.output.Script)
}
