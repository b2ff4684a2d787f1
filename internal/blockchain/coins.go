// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2016-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blockchain implements the UTXO-set record codec: the compact,
// bit-packed, lazily-decompressed on-disk encoding of the unspent outputs
// belonging to a single confirmed transaction, together with the in-memory
// container (Coins) and lazy per-output handle (CoinEntry) that sit on top
// of it.
//
// A UTXO database holds on the order of hundreds of millions of these
// records, so the encoding favors density and the ability to extract a
// single output without fully parsing the record over any other concern.
// The key/value store that actually persists a record under its
// transaction-hash key, and the concrete transaction/block types that
// produce the outputs in the first place, are external collaborators; this
// package only knows about the (value, script) pairs and a handful of
// transaction-level metadata fields.
package blockchain

import (
	"github.com/silverpine/chaind/chaincfg/chainhash"
)

// Coins represents the unspent outputs of one transaction. It is the
// per-transaction container: version, height, a coinbase flag, and an
// index-addressable sparse vector of CoinEntry handles where a nil entry
// means the output at that index is spent or was never stored because it
// was provably unspendable.
//
// hash is injected by the caller on load (normally the database key) and
// is never part of the encoded body.
type Coins struct {
	hash     chainhash.Hash
	version  uint32
	height   int32
	coinbase bool
	outputs  []*CoinEntry
}

// NewCoins builds a Coins record for a freshly confirmed transaction.
// Outputs whose script is provably unspendable are never inserted; they
// appear as gaps from creation, exactly as if they had already been spent.
func NewCoins(hash chainhash.Hash, version uint32, height int32, coinbase bool, outputs []Output) *Coins {
	c := &Coins{
		hash:     hash,
		version:  version,
		height:   height,
		coinbase: coinbase,
	}
	for i, o := range outputs {
		if o.IsUnspendable() {
			continue
		}
		c.Add(uint32(i), newCoinEntryFromOutput(o))
	}
	c.cleanup()
	return c
}

// Hash returns the transaction hash this record's outputs belong to.
func (c *Coins) Hash() chainhash.Hash { return c.hash }

// Version returns the containing transaction's version.
func (c *Coins) Version() uint32 { return c.version }

// Height returns the confirming block height, or -1 for an unconfirmed,
// in-memory-only record.
func (c *Coins) Height() int32 { return c.height }

// IsCoinBase reports whether the containing transaction is a coinbase.
func (c *Coins) IsCoinBase() bool { return c.coinbase }

// Length returns one plus the index of the highest entry that is still
// physically present (spent or not), or zero if the record holds no
// entries at all.
func (c *Coins) Length() int { return len(c.outputs) }

// Has reports whether index holds a present entry, spent or not.
func (c *Coins) Has(index uint32) bool {
	i := int(index)
	return i < len(c.outputs) && c.outputs[i] != nil
}

// IsUnspent reports whether index holds a present, not-yet-spent entry.
func (c *Coins) IsUnspent(index uint32) bool {
	i := int(index)
	return i < len(c.outputs) && c.outputs[i] != nil && !c.outputs[i].spent
}

// hasAnyUnspent reports whether any index in the record is still unspent.
// A record with no unspent entries anywhere must not be serialized;
// callers are expected to delete the underlying key instead.
func (c *Coins) hasAnyUnspent() bool {
	for _, e := range c.outputs {
		if e != nil && !e.spent {
			return true
		}
	}
	return false
}

// GetCoin projects the entry at index into a standalone Coin. It returns
// (nil, nil) if the index is absent (a gap) — a distinct, non-error
// not-found signal, matching the fast-path lookup in ParseCoin.
func (c *Coins) GetCoin(index uint32) (*Coin, error) {
	i := int(index)
	if i >= len(c.outputs) || c.outputs[i] == nil {
		return nil, nil
	}
	return c.outputs[i].toCoin(c.version, c.height, c.coinbase, c.hash, index)
}

// Add inserts entry at index, padding any trailing gaps needed to reach it.
// The target slot must already be empty; this is a programming error, not
// a data error, and is enforced with a hard assertion rather than a
// returned error.
func (c *Coins) Add(index uint32, entry *CoinEntry) {
	i := int(index)
	for len(c.outputs) <= i {
		c.outputs = append(c.outputs, nil)
	}
	assert(c.outputs[i] == nil, "add: index %d is already occupied", i)
	c.outputs[i] = entry
}

// AddOutput wraps output in a CoinEntry and adds it at index. An
// unspendable output is rejected with a hard assertion: provably
// unspendable outputs are never represented by an entry, only by a gap.
func (c *Coins) AddOutput(index uint32, output Output) {
	assert(!output.IsUnspendable(), "add_output: output at index %d is unspendable", index)
	c.Add(index, newCoinEntryFromOutput(output))
}

// AddCoin adds coin at its own recorded index.
func (c *Coins) AddCoin(coin *Coin) {
	c.AddOutput(coin.Index, coin.Output)
}

// Spend marks the entry at index spent and returns it. It is a no-op,
// reported via the second return value, when the index is absent or was
// already spent — calling Spend twice on the same index leaves the record
// in the same state as calling it once.
func (c *Coins) Spend(index uint32) (entry *CoinEntry, spentNow bool) {
	i := int(index)
	if i >= len(c.outputs) || c.outputs[i] == nil {
		return nil, false
	}
	e := c.outputs[i]
	if e.spent {
		return e, false
	}
	e.spent = true
	return e, true
}

// Remove sets the slot at index to a gap, runs cleanup, and returns the
// entry that had been there (nil if it was already a gap).
func (c *Coins) Remove(index uint32) *CoinEntry {
	i := int(index)
	if i >= len(c.outputs) {
		return nil
	}
	prev := c.outputs[i]
	c.outputs[i] = nil
	c.cleanup()
	return prev
}

// cleanup trims trailing gaps so that the physical slice length matches
// Length()'s definition: one past the highest still-present entry.
func (c *Coins) cleanup() {
	n := len(c.outputs)
	for n > 0 && c.outputs[n-1] == nil {
		n--
	}
	c.outputs = c.outputs[:n]
}
