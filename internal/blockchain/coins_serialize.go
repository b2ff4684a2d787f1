// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2016-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/jrick/bitset"

	"github.com/silverpine/chaind/chaincfg/chainhash"
)

// -----------------------------------------------------------------------------
// The serialized Coins body is:
//
//   varint    version
//   u32-le    height
//   varint    header code
//   S bytes   extended spent-field
//   ...       compressed-output bytes, one per unspent entry, in ascending
//             index order (output 0 first, then output 1, then the
//             extended-field range)
//
// The header code packs, from the low bit up: the coinbase flag, whether
// output 0 is unspent, whether output 1 is unspent, and — above that — the
// byte count S of the extended spent-field that describes outputs at
// indices 2 and up. If neither output 0 nor output 1 is unspent but S is
// still nonzero, S is encoded as S-1 in the header code; this "offset
// correction" exists so that a record whose only unspent outputs live past
// index 1 can't be confused, bit-for-bit, with the code for an empty
// record, which must never be written at all.
// -----------------------------------------------------------------------------

// headerCodeExtendedFieldSize returns S, the number of bytes needed for the
// extended spent-field describing outputs 2..L-1, given the record's
// physical length L.
func headerCodeExtendedFieldSize(length int) int {
	return (length + 5) / 8
}

// Serialize encodes the record to its compact on-disk form. It is a hard
// error to serialize a record with no unspent outputs anywhere — callers
// must delete the underlying database key instead of writing an
// all-spent record.
func (c *Coins) Serialize() ([]byte, error) {
	if !c.hasAnyUnspent() {
		return nil, ErrFullySpent
	}

	length := c.Length()
	spentFieldSize := headerCodeExtendedFieldSize(length)

	out0Unspent := c.IsUnspent(0)
	out1Unspent := c.IsUnspent(1)

	highPart := uint64(spentFieldSize)
	if !out0Unspent && !out1Unspent && spentFieldSize >= 1 {
		highPart = uint64(spentFieldSize - 1)
	}
	code := highPart << 3
	if c.coinbase {
		code |= 1
	}
	if out0Unspent {
		code |= 2
	}
	if out1Unspent {
		code |= 4
	}

	// The reference implementation computes the header code as if it
	// always fit in 32 bits; that's true for any realistic transaction
	// (outputs well under 2^20), but a conformant implementation should
	// still refuse to serialize a record whose spent-field size would
	// push the high part of the code past that bound rather than let it
	// silently wrap.
	if highPart > 0xffffffff {
		return nil, errDeserialize("extended spent-field size %d overflows "+
			"the header code's practical range", spentFieldSize)
	}

	spentField := bitset.NewBytes(spentFieldSize * 8)
	for i := 2; i < length; i++ {
		if c.IsUnspent(uint32(i)) {
			spentField.Set(i - 2)
		}
	}

	tailSize := 0
	if out0Unspent {
		tailSize += c.outputs[0].entrySize()
	}
	if out1Unspent {
		tailSize += c.outputs[1].entrySize()
	}
	for i := 2; i < length; i++ {
		if c.IsUnspent(uint32(i)) {
			tailSize += c.outputs[i].entrySize()
		}
	}

	versionSize := serializeSizeVLQ(uint64(c.version))
	codeSize := serializeSizeVLQ(code)
	buf := make([]byte, versionSize+4+codeSize+spentFieldSize+tailSize)

	offset := putVLQ(buf, uint64(c.version))
	buf[offset] = byte(uint32(c.height))
	buf[offset+1] = byte(uint32(c.height) >> 8)
	buf[offset+2] = byte(uint32(c.height) >> 16)
	buf[offset+3] = byte(uint32(c.height) >> 24)
	offset += 4
	offset += putVLQ(buf[offset:], code)
	offset += copy(buf[offset:], spentField)

	if out0Unspent {
		offset += c.outputs[0].writeEntry(buf[offset:])
	}
	if out1Unspent {
		offset += c.outputs[1].writeEntry(buf[offset:])
	}
	for i := 2; i < length; i++ {
		if c.IsUnspent(uint32(i)) {
			offset += c.outputs[i].writeEntry(buf[offset:])
		}
	}

	return buf, nil
}

// decodeHeader reads (version, height, coinbase, out0Present, out1Present,
// spentFieldSize) from the front of r, applying the offset correction
// described above, and returns the position at which the extended
// spent-field begins.
func decodeHeader(r *byteCursor) (version uint32, height int32, coinbase, out0, out1 bool,
	spentFieldSize int, spentFieldOffset int, err error) {

	v, err := r.readVarInt()
	if err != nil {
		return 0, 0, false, false, false, 0, 0, err
	}
	version = uint32(v)

	h, err := r.readU32LE()
	if err != nil {
		return 0, 0, false, false, false, 0, 0, err
	}
	height = int32(h)

	code, err := r.readVarInt()
	if err != nil {
		return 0, 0, false, false, false, 0, 0, err
	}

	coinbase = code&1 != 0
	out0 = code&2 != 0
	out1 = code&4 != 0
	s := code >> 3
	if code&6 == 0 {
		s++
	}
	spentFieldSize = int(s)

	spentFieldOffset = r.position()
	if spentFieldOffset+spentFieldSize > len(r.bytes()) {
		return 0, 0, false, false, false, 0, 0, errDeserialize(
			"unexpected end of data reading the extended spent-field")
	}
	r.seek(spentFieldOffset + spentFieldSize)

	return version, height, coinbase, out0, out1, spentFieldSize, spentFieldOffset, nil
}

// Deserialize decodes a Coins record from buf. hash is injected by the
// caller (normally the database key the record was stored under) since the
// hash is never part of the encoded body.
func Deserialize(hash chainhash.Hash, buf []byte) (*Coins, error) {
	r := newByteCursor(buf)

	version, height, coinbase, out0, out1, spentFieldSize, spentFieldOffset, err := decodeHeader(r)
	if err != nil {
		return nil, err
	}

	var outputs []*CoinEntry

	if out0 {
		e, err := newCoinEntryFromReader(r)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, e)
	} else {
		outputs = append(outputs, nil)
	}

	if out1 {
		e, err := newCoinEntryFromReader(r)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, e)
	} else {
		outputs = append(outputs, nil)
	}

	spentField := bitset.Bytes(buf[spentFieldOffset : spentFieldOffset+spentFieldSize])
	for bit := 0; bit < 8*spentFieldSize; bit++ {
		if spentField.Get(bit) {
			e, err := newCoinEntryFromReader(r)
			if err != nil {
				return nil, err
			}
			outputs = append(outputs, e)
		} else {
			outputs = append(outputs, nil)
		}
	}

	c := &Coins{
		hash:     hash,
		version:  version,
		height:   height,
		coinbase: coinbase,
		outputs:  outputs,
	}
	c.cleanup()
	return c, nil
}

// ParseCoin locates the output at wantedIndex within an encoded record
// without constructing the full Coins value: it walks the same index order
// deserialization would, decompressing only the one entry that matches and
// skipping the rest. Returns (nil, nil) if wantedIndex names a gap or lies
// past the end of the record's described range.
func ParseCoin(buf []byte, hash chainhash.Hash, wantedIndex uint32) (*Coin, error) {
	r := newByteCursor(buf)

	version, height, coinbase, out0, out1, spentFieldSize, spentFieldOffset, err := decodeHeader(r)
	if err != nil {
		return nil, err
	}

	if wantedIndex >= uint32(2+8*spentFieldSize) {
		return nil, nil
	}

	idx := wantedIndex

	present, err := walkSlot(r, out0, idx == 0)
	if err != nil {
		return nil, err
	}
	if idx == 0 {
		if !present {
			return nil, nil
		}
		return decodeCoinAtCursor(r, version, height, coinbase, hash, wantedIndex)
	}
	idx--

	present, err = walkSlot(r, out1, idx == 0)
	if err != nil {
		return nil, err
	}
	if idx == 0 {
		if !present {
			return nil, nil
		}
		return decodeCoinAtCursor(r, version, height, coinbase, hash, wantedIndex)
	}
	idx--

	spentField := bitset.Bytes(buf[spentFieldOffset : spentFieldOffset+spentFieldSize])
	for bit := 0; bit < 8*spentFieldSize; bit++ {
		present, err := walkSlot(r, spentField.Get(bit), idx == 0)
		if err != nil {
			return nil, err
		}
		if idx == 0 {
			if !present {
				return nil, nil
			}
			return decodeCoinAtCursor(r, version, height, coinbase, hash, wantedIndex)
		}
		idx--
	}

	return nil, nil
}

// walkSlot advances r past one slot during the ParseCoin walk. If the slot
// is absent, nothing is consumed. If it is present and this is the slot
// the caller wants (atTarget), the cursor is left positioned at the start
// of its compressed bytes for the caller to decode. Otherwise the slot's
// compressed bytes are skipped.
func walkSlot(r *byteCursor, slotPresent, atTarget bool) (present bool, err error) {
	if !slotPresent {
		return false, nil
	}
	if atTarget {
		return true, nil
	}
	n, err := skipCompressedTxOut(r.remaining())
	if err != nil {
		return false, err
	}
	r.seek(r.position() + n)
	return true, nil
}

// decodeCoinAtCursor decompresses the output at r's current position and
// projects it into a Coin using the record-level metadata and index
// supplied by the caller.
func decodeCoinAtCursor(r *byteCursor, version uint32, height int32, coinbase bool,
	hash chainhash.Hash, index uint32) (*Coin, error) {

	value, script, _, err := decodeCompressedTxOut(r.remaining())
	if err != nil {
		return nil, err
	}
	return &Coin{
		Output:   Output{Value: value, Script: script},
		Hash:     hash,
		Index:    index,
		Height:   height,
		Version:  version,
		CoinBase: coinbase,
	}, nil
}
