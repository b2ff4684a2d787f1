// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package txscript implements just enough of the bitcoin transaction
// scripting language to recognize the handful of output templates the
// UTXO-set script compressor cares about.  It is not a script interpreter.
package txscript

// Opcodes referenced by the standard-template recognizers below.  Defined
// locally rather than as a full opcode table since nothing here executes a
// script, it only pattern-matches a handful of byte sequences.
const (
	OP_DUP         = 0x76
	OP_HASH160     = 0xa9
	OP_DATA_20     = 0x14
	OP_DATA_32     = 0x20
	OP_DATA_33     = 0x21
	OP_DATA_65     = 0x41
	OP_EQUAL       = 0x87
	OP_EQUALVERIFY = 0x88
	OP_CHECKSIG    = 0xac
	OP_RETURN      = 0x6a
)

// hash160Len is the size, in bytes, of a HASH160 digest (RIPEMD160 of
// SHA256) as embedded in p2pkh and p2sh scripts.
const hash160Len = 20

// IsPubKeyHashScript reports whether script is a standard pay-to-pubkey-hash
// script: OP_DUP OP_HASH160 <20-byte-hash> OP_EQUALVERIFY OP_CHECKSIG. When
// true, it also returns the embedded hash.
func IsPubKeyHashScript(script []byte) ([]byte, bool) {
	if len(script) != 25 {
		return nil, false
	}
	if script[0] != OP_DUP || script[1] != OP_HASH160 ||
		script[2] != OP_DATA_20 || script[23] != OP_EQUALVERIFY ||
		script[24] != OP_CHECKSIG {
		return nil, false
	}
	return script[3:23], true
}

// IsScriptHashScript reports whether script is a standard pay-to-script-hash
// script: OP_HASH160 <20-byte-hash> OP_EQUAL. When true, it also returns the
// embedded hash.
func IsScriptHashScript(script []byte) ([]byte, bool) {
	if len(script) != 23 {
		return nil, false
	}
	if script[0] != OP_HASH160 || script[1] != OP_DATA_20 ||
		script[22] != OP_EQUAL {
		return nil, false
	}
	return script[2:22], true
}

// IsPubKeyScript reports whether script is a standard pay-to-pubkey script,
// either compressed (33-byte pubkey) or uncompressed (65-byte pubkey),
// followed by OP_CHECKSIG. When true, it also returns the embedded pubkey
// and whether it was in compressed form.
func IsPubKeyScript(script []byte) (pubKey []byte, compressed bool, ok bool) {
	switch len(script) {
	case 35:
		if script[0] != OP_DATA_33 || script[34] != OP_CHECKSIG {
			return nil, false, false
		}
		if script[1] != 0x02 && script[1] != 0x03 {
			return nil, false, false
		}
		return script[1:34], true, true
	case 67:
		if script[0] != OP_DATA_65 || script[66] != OP_CHECKSIG {
			return nil, false, false
		}
		if script[1] != 0x04 {
			return nil, false, false
		}
		return script[1:66], false, true
	default:
		return nil, false, false
	}
}

// IsUnspendable reports whether a script is provably unspendable, i.e. it
// is an OP_RETURN data-carrier output or is otherwise too short to ever be
// satisfiable. Such outputs must never be inserted into a Coins record.
func IsUnspendable(script []byte) bool {
	if len(script) == 0 {
		return true
	}
	return script[0] == OP_RETURN
}
