// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2016-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package utxostore persists blockchain.Coins records under their owning
// transaction hash in an embedded key/value store. It is the concrete
// realization of the codec's "external collaborator" persistence contract:
// the codec itself never touches a database, it only produces and consumes
// byte slices.
package utxostore

import (
	"errors"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/silverpine/chaind/chaincfg/chainhash"
	"github.com/silverpine/chaind/internal/blockchain"
)

// Store persists Coins records keyed by transaction hash in a LevelDB
// database.
type Store struct {
	db *leveldb.DB
}

// Open opens (creating if necessary) the LevelDB database rooted at dir.
func Open(dir string) (*Store, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, err
	}
	log.Infof("opened UTXO store at %s", dir)
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put serializes c and writes it under hash. If c has no unspent outputs
// anywhere, Serialize reports that as blockchain.ErrFullySpent rather than
// writing an all-spent record; Put treats that specific sentinel as the
// caller's cue to delete the key instead, exactly as the codec's design
// intends. Any other error — including the header-code overflow guard,
// which is also a DeserializeError but signals genuine corruption rather
// than "nothing to persist" — is propagated unchanged rather than deleted.
func (s *Store) Put(hash chainhash.Hash, c *blockchain.Coins) error {
	body, err := c.Serialize()
	if err != nil {
		if errors.Is(err, blockchain.ErrFullySpent) {
			log.Debugf("%s has no unspent outputs, deleting", hash)
			return s.db.Delete(hash[:], nil)
		}
		return err
	}
	return s.db.Put(hash[:], body, nil)
}

// Get reads and fully decodes the record stored under hash. It returns
// (nil, nil) if no record is stored under that key.
func (s *Store) Get(hash chainhash.Hash) (*blockchain.Coins, error) {
	body, err := s.db.Get(hash[:], nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return blockchain.Deserialize(hash, body)
}

// FetchCoin locates the output at index within the record stored under
// hash without decoding the rest of the record, using the codec's
// single-coin fast path directly against the stored bytes. It returns
// (nil, nil) if the key is absent or the index names a gap.
func (s *Store) FetchCoin(hash chainhash.Hash, index uint32) (*blockchain.Coin, error) {
	body, err := s.db.Get(hash[:], nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return blockchain.ParseCoin(body, hash, index)
}

// Delete removes any record stored under hash. It is not an error for the
// key to already be absent.
func (s *Store) Delete(hash chainhash.Hash) error {
	return s.db.Delete(hash[:], nil)
}

// Batch accumulates Put/Delete operations from one caller-defined unit of
// work (typically: every output touched while connecting a block) so they
// commit to the database atomically and in one syscall round trip.
type Batch struct {
	store *Store
	batch leveldb.Batch
}

// NewBatch starts a batch of writes against s.
func (s *Store) NewBatch() *Batch {
	return &Batch{store: s}
}

// Put stages a write of c under hash, applying the same fully-spent-means-
// delete rule as Store.Put.
func (b *Batch) Put(hash chainhash.Hash, c *blockchain.Coins) error {
	body, err := c.Serialize()
	if err != nil {
		if errors.Is(err, blockchain.ErrFullySpent) {
			b.batch.Delete(hash[:])
			return nil
		}
		return err
	}
	b.batch.Put(hash[:], body)
	return nil
}

// Delete stages a deletion of hash's key.
func (b *Batch) Delete(hash chainhash.Hash) {
	b.batch.Delete(hash[:])
}

// Commit atomically applies every staged operation.
func (b *Batch) Commit() error {
	return b.store.db.Write(&b.batch, nil)
}
