// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2016-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/silverpine/chaind/txscript"
)

// -----------------------------------------------------------------------------
// In order to reduce the size of the UTXO database, each unspent transaction
// output is compressed before storage as a (value, script) pair.  The
// monetary value is left uncompressed — the CPU cost of a decoded-branch
// compression scheme for amounts was judged not worth it at design time —
// but the script half is recognized against four common templates and
// collapsed to a one-byte prefix plus a fixed payload wherever it matches.
//
// Descriptor                                  Prefix    Payload
// -----------------------------------------------------------------------------
// pay-to-pubkey-hash                          0x00      20-byte hash160
// pay-to-script-hash                          0x01      20-byte hash160
// pay-to-pubkey, compressed, even Y            0x02      32-byte x-coordinate
// pay-to-pubkey, compressed, odd Y             0x03      32-byte x-coordinate
// pay-to-pubkey, uncompressed, even Y          0x04      32-byte x-coordinate
// pay-to-pubkey, uncompressed, odd Y           0x05      32-byte x-coordinate
// reserved (must not be produced)             0x06-0x0F  -
// anything else                               n >= 0x10  (n-0x10) raw bytes
// -----------------------------------------------------------------------------

const (
	cstPayToPubKeyHash       = 0
	cstPayToScriptHash       = 1
	cstPayToPubKeyComp0      = 2
	cstPayToPubKeyComp1      = 3
	cstPayToPubKeyUncomp0    = 4
	cstPayToPubKeyUncomp1    = 5
	cstReservedRangeStart    = 6
	cstReservedRangeEnd      = 15
	cstRawScriptOffset       = 0x10
	cstHash160Payload        = 20
	cstPubKeyXCoordPayload   = 32
	cstCompressedPubKeySize  = 33
	cstUncompressedPubKeySize = 65
)

// compressedScriptSize returns the number of bytes the compressed form of
// pkScript would occupy (prefix byte plus payload), without allocating it.
func compressedScriptSize(pkScript []byte) int {
	if _, payloadLen, ok := matchCompressibleScript(pkScript); ok {
		return 1 + payloadLen
	}
	return 1 + len(pkScript)
}

// matchCompressibleScript inspects pkScript against the four recognized
// templates and, on a match, returns the prefix byte to emit and the
// payload length the template carries. The recognizers themselves live in
// txscript; this just maps a recognized template to its on-disk prefix.
func matchCompressibleScript(pkScript []byte) (prefix byte, payloadLen int, ok bool) {
	if _, ok := txscript.IsPubKeyHashScript(pkScript); ok {
		return cstPayToPubKeyHash, cstHash160Payload, true
	}

	if _, ok := txscript.IsScriptHashScript(pkScript); ok {
		return cstPayToScriptHash, cstHash160Payload, true
	}

	if _, compressed, ok := txscript.IsPubKeyScript(pkScript); ok {
		if compressed {
			return pkScript[1], cstPubKeyXCoordPayload, true
		}
		// The on-disk prefix encodes the parity of the Y coordinate, then
		// shifts by two to land in the 0x04/0x05 "uncompressed" range so the
		// reader knows to reconstitute the full point rather than just
		// reusing the bytes verbatim.
		yLastByte := pkScript[len(pkScript)-1]
		return cstPayToPubKeyUncomp0 + (yLastByte & 0x01), cstPubKeyXCoordPayload, true
	}

	return 0, 0, false
}

// putCompressedScript writes the compressed form of pkScript into target,
// which must be at least compressedScriptSize(pkScript) bytes long, and
// returns the number of bytes written.
func putCompressedScript(target, pkScript []byte) int {
	if prefix, payloadLen, ok := matchCompressibleScript(pkScript); ok {
		target[0] = prefix
		switch prefix {
		case cstPayToPubKeyHash:
			copy(target[1:], pkScript[3:23])
		case cstPayToScriptHash:
			copy(target[1:], pkScript[2:22])
		case cstPayToPubKeyComp0, cstPayToPubKeyComp1:
			copy(target[1:], pkScript[2:34])
		case cstPayToPubKeyUncomp0, cstPayToPubKeyUncomp1:
			copy(target[1:], pkScript[2:34])
		}
		return 1 + payloadLen
	}

	n := putVLQRawScriptPrefix(target, len(pkScript))
	copy(target[n:], pkScript)
	return n + len(pkScript)
}

// putVLQRawScriptPrefix writes the single-byte raw-script prefix
// (cstRawScriptOffset + length) for scripts that don't match a known
// template.  Scripts long enough that the prefix byte itself would overflow
// are never produced by this codec (UTXO scripts are bounded well under
// that in practice); the caller relies on that invariant rather than this
// function attempting to multi-byte encode the prefix.
func putVLQRawScriptPrefix(target []byte, scriptLen int) int {
	target[0] = byte(cstRawScriptOffset + scriptLen)
	return 1
}

// decompressScript reconstitutes the original script from its compressed
// prefix byte and payload.  serialized begins at the prefix byte.  Returns
// the script, the number of bytes consumed, and an error for a reserved
// prefix or a truncated payload.
func decompressScript(serialized []byte) ([]byte, int, error) {
	if len(serialized) == 0 {
		return nil, 0, errDeserialize("unexpected end of data during script prefix")
	}

	prefix := serialized[0]
	switch {
	case prefix == cstPayToPubKeyHash:
		if len(serialized) < 1+cstHash160Payload {
			return nil, 0, errDeserialize("unexpected end of data after p2pkh prefix")
		}
		script := make([]byte, 25)
		script[0], script[1], script[2] = 0x76, 0xa9, 0x14
		copy(script[3:23], serialized[1:1+cstHash160Payload])
		script[23], script[24] = 0x88, 0xac
		return script, 1 + cstHash160Payload, nil

	case prefix == cstPayToScriptHash:
		if len(serialized) < 1+cstHash160Payload {
			return nil, 0, errDeserialize("unexpected end of data after p2sh prefix")
		}
		script := make([]byte, 23)
		script[0], script[1] = 0xa9, 0x14
		copy(script[2:22], serialized[1:1+cstHash160Payload])
		script[22] = 0x87
		return script, 1 + cstHash160Payload, nil

	case prefix == cstPayToPubKeyComp0 || prefix == cstPayToPubKeyComp1:
		if len(serialized) < 1+cstPubKeyXCoordPayload {
			return nil, 0, errDeserialize("unexpected end of data after compressed pubkey prefix")
		}
		script := make([]byte, 35)
		script[0] = 0x21
		script[1] = prefix
		copy(script[2:34], serialized[1:1+cstPubKeyXCoordPayload])
		script[34] = 0xac
		return script, 1 + cstPubKeyXCoordPayload, nil

	case prefix == cstPayToPubKeyUncomp0 || prefix == cstPayToPubKeyUncomp1:
		if len(serialized) < 1+cstPubKeyXCoordPayload {
			return nil, 0, errDeserialize("unexpected end of data after uncompressed pubkey prefix")
		}
		compressed := make([]byte, cstCompressedPubKeySize)
		compressed[0] = prefix - cstPayToPubKeyUncomp0 + cstPayToPubKeyComp0
		copy(compressed[1:], serialized[1:1+cstPubKeyXCoordPayload])

		pubKey, err := secp256k1.ParsePubKey(compressed)
		if err != nil {
			return nil, 0, errDeserialize("invalid pubkey x-coordinate for "+
				"uncompressed reconstitution: %v", err)
		}

		script := make([]byte, 67)
		script[0] = 0x41
		copy(script[1:66], pubKey.SerializeUncompressed())
		script[66] = 0xac
		return script, 1 + cstPubKeyXCoordPayload, nil

	case prefix >= cstReservedRangeStart && prefix <= cstReservedRangeEnd:
		return nil, 0, errDeserialize("reserved script compression prefix %#x "+
			"encountered during decode", prefix)

	default:
		scriptLen := int(prefix) - cstRawScriptOffset
		if len(serialized) < 1+scriptLen {
			return nil, 0, errDeserialize("unexpected end of data during raw script")
		}
		script := make([]byte, scriptLen)
		copy(script, serialized[1:1+scriptLen])
		return script, 1 + scriptLen, nil
	}
}

// decodeCompressedScriptSize returns the number of bytes the compressed
// script beginning at serialized[0] occupies (prefix plus payload) without
// decompressing it, or -1 if serialized is empty or carries a reserved
// prefix.  It does not check that the payload is actually present.
func decodeCompressedScriptSize(serialized []byte) int {
	if len(serialized) == 0 {
		return -1
	}

	prefix := serialized[0]
	switch {
	case prefix == cstPayToPubKeyHash || prefix == cstPayToScriptHash:
		return 1 + cstHash160Payload
	case prefix == cstPayToPubKeyComp0 || prefix == cstPayToPubKeyComp1 ||
		prefix == cstPayToPubKeyUncomp0 || prefix == cstPayToPubKeyUncomp1:
		return 1 + cstPubKeyXCoordPayload
	case prefix >= cstReservedRangeStart && prefix <= cstReservedRangeEnd:
		return -1
	default:
		return 1 + int(prefix) - cstRawScriptOffset
	}
}

// compressedTxOutSize returns the number of bytes that putCompressedTxOut
// would write for the given amount and script.
func compressedTxOutSize(amount uint64, pkScript []byte) int {
	return serializeSizeVLQ(amount) + compressedScriptSize(pkScript)
}

// putCompressedTxOut writes the compressed (amount, script) pair to target
// and returns the number of bytes written.  target must be at least
// compressedTxOutSize(amount, pkScript) bytes long.
func putCompressedTxOut(target []byte, amount uint64, pkScript []byte) int {
	offset := putVLQ(target, amount)
	offset += putCompressedScript(target[offset:], pkScript)
	return offset
}

// decodeCompressedTxOut decodes a compressed (amount, script) pair from the
// start of serialized and returns the amount, the reconstituted script, and
// the number of bytes consumed.
func decodeCompressedTxOut(serialized []byte) (uint64, []byte, int, error) {
	amount, bytesRead := deserializeVLQ(serialized)
	if bytesRead >= len(serialized) {
		return 0, nil, 0, errDeserialize("unexpected end of data after value")
	}
	offset := bytesRead

	script, scriptBytesRead, err := decompressScript(serialized[offset:])
	if err != nil {
		return 0, nil, 0, err
	}
	offset += scriptBytesRead

	return amount, script, offset, nil
}

// skipCompressedTxOut advances past one compressed (amount, script) pair
// beginning at the start of serialized without allocating a script, and
// returns the number of bytes it would consume.  It still validates the
// value varint and the script-prefix byte, but not the payload contents.
func skipCompressedTxOut(serialized []byte) (int, error) {
	_, bytesRead := deserializeVLQ(serialized)
	if bytesRead >= len(serialized) {
		return 0, errDeserialize("unexpected end of data after value")
	}
	offset := bytesRead

	scriptSize := decodeCompressedScriptSize(serialized[offset:])
	if scriptSize < 0 {
		if len(serialized[offset:]) == 0 {
			return 0, errDeserialize("unexpected end of data before script prefix")
		}
		return 0, errDeserialize("reserved or invalid script compression "+
			"prefix %#x", serialized[offset])
	}
	if offset+scriptSize > len(serialized) {
		return 0, errDeserialize("unexpected end of data during script")
	}
	offset += scriptSize

	return offset, nil
}
