// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2016-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"bytes"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

func p2pkhScript(hash [20]byte) []byte {
	s := make([]byte, 25)
	s[0], s[1], s[2] = 0x76, 0xa9, 0x14
	copy(s[3:23], hash[:])
	s[23], s[24] = 0x88, 0xac
	return s
}

func p2shScript(hash [20]byte) []byte {
	s := make([]byte, 23)
	s[0], s[1] = 0xa9, 0x14
	copy(s[2:22], hash[:])
	s[22] = 0x87
	return s
}

func TestCompressDecompressScript(t *testing.T) {
	var hash20 [20]byte
	for i := range hash20 {
		hash20[i] = byte(i + 1)
	}

	priv := secp256k1.PrivKeyFromBytes(bytes.Repeat([]byte{0x11}, 32))
	pub := priv.PubKey()
	compressedPub := pub.SerializeCompressed()
	uncompressedPub := pub.SerializeUncompressed()

	compressedPKScript := make([]byte, 35)
	compressedPKScript[0] = 0x21
	copy(compressedPKScript[1:34], compressedPub)
	compressedPKScript[34] = 0xac

	uncompressedPKScript := make([]byte, 67)
	uncompressedPKScript[0] = 0x41
	copy(uncompressedPKScript[1:66], uncompressedPub)
	uncompressedPKScript[66] = 0xac

	tests := []struct {
		name         string
		script       []byte
		wantPrefix   byte
		wantPayload  int
		reconstitute []byte // expected decompressed form; nil means same as script
	}{
		{"p2pkh", p2pkhScript(hash20), 0x00, 20, nil},
		{"p2sh", p2shScript(hash20), 0x01, 20, nil},
		{"p2pk compressed", compressedPKScript, compressedPub[0], 32, nil},
		{"p2pk uncompressed", uncompressedPKScript, 0, 32, uncompressedPKScript},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			size := compressedScriptSize(test.script)
			buf := make([]byte, size)
			n := putCompressedScript(buf, test.script)
			if n != size {
				t.Fatalf("putCompressedScript wrote %d bytes, want %d", n, size)
			}

			if test.name != "p2pk uncompressed" && buf[0] != test.wantPrefix {
				t.Errorf("prefix = %#x, want %#x", buf[0], test.wantPrefix)
			}
			if len(buf)-1 != test.wantPayload {
				t.Errorf("payload length = %d, want %d", len(buf)-1, test.wantPayload)
			}

			got, read, err := decompressScript(buf)
			if err != nil {
				t.Fatalf("decompressScript: %v", err)
			}
			if read != size {
				t.Errorf("decompressScript consumed %d bytes, want %d", read, size)
			}

			want := test.script
			if test.reconstitute != nil {
				want = test.reconstitute
			}
			if !bytes.Equal(got, want) {
				t.Errorf("decompressScript = %x, want %x", got, want)
			}
		})
	}
}

func TestDecompressScriptRejectsReservedPrefixes(t *testing.T) {
	for prefix := byte(cstReservedRangeStart); prefix <= cstReservedRangeEnd; prefix++ {
		buf := []byte{prefix, 0x00, 0x00, 0x00}
		if _, _, err := decompressScript(buf); err == nil {
			t.Errorf("decompressScript accepted reserved prefix %#x", prefix)
		}
	}
}

func TestDecompressScriptRejectsTruncatedRawScript(t *testing.T) {
	// Prefix says "16 raw bytes follow" but only provides 2.
	buf := []byte{cstRawScriptOffset + 16, 0x01, 0x02}
	if _, _, err := decompressScript(buf); err == nil {
		t.Error("decompressScript accepted a truncated raw script")
	}
}

func TestCompressedTxOutRoundTrip(t *testing.T) {
	var hash20 [20]byte
	for i := range hash20 {
		hash20[i] = byte(i)
	}
	script := p2pkhScript(hash20)

	size := compressedTxOutSize(5000000000, script)
	buf := make([]byte, size)
	n := putCompressedTxOut(buf, 5000000000, script)
	if n != size {
		t.Fatalf("putCompressedTxOut wrote %d, want %d", n, size)
	}

	value, gotScript, read, err := decodeCompressedTxOut(buf)
	if err != nil {
		t.Fatalf("decodeCompressedTxOut: %v", err)
	}
	if value != 5000000000 || read != size || !bytes.Equal(gotScript, script) {
		t.Errorf("decodeCompressedTxOut = (%d, %x, %d), want (%d, %x, %d)",
			value, gotScript, read, 5000000000, script, size)
	}

	skipped, err := skipCompressedTxOut(buf)
	if err != nil {
		t.Fatalf("skipCompressedTxOut: %v", err)
	}
	if skipped != size {
		t.Errorf("skipCompressedTxOut = %d, want %d", skipped, size)
	}
}
