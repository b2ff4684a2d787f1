// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2016-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"bytes"
	"testing"
)

func TestVLQ(t *testing.T) {
	tests := []struct {
		value    uint64
		expected []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x00}},
		{129, []byte{0x80, 0x01}},
		{255, []byte{0x80, 0x7f}},
		{256, []byte{0x81, 0x00}},
		{16511, []byte{0xff, 0x7f}},
		{16512, []byte{0x80, 0x80, 0x00}},
		{5000000000, []byte{0x91, 0xcf, 0x96, 0xe3, 0x00}},
	}

	for _, test := range tests {
		gotSize := serializeSizeVLQ(test.value)
		if gotSize != len(test.expected) {
			t.Errorf("serializeSizeVLQ(%d): got %d, want %d", test.value,
				gotSize, len(test.expected))
			continue
		}

		buf := make([]byte, gotSize)
		n := putVLQ(buf, test.value)
		if n != len(test.expected) {
			t.Errorf("putVLQ(%d): wrote %d bytes, want %d", test.value, n,
				len(test.expected))
			continue
		}
		if !bytes.Equal(buf, test.expected) {
			t.Errorf("putVLQ(%d): got %x, want %x", test.value, buf, test.expected)
			continue
		}

		gotValue, bytesRead := deserializeVLQ(buf)
		if gotValue != test.value {
			t.Errorf("deserializeVLQ(%x): got %d, want %d", buf, gotValue, test.value)
		}
		if bytesRead != len(test.expected) {
			t.Errorf("deserializeVLQ(%x): read %d bytes, want %d", buf,
				bytesRead, len(test.expected))
		}
	}
}

func TestVLQRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 2, 100, 1000, 1 << 16, 1 << 24, 1 << 32, 1 << 40, 1<<63 - 1}
	for _, v := range values {
		size := serializeSizeVLQ(v)
		buf := make([]byte, size)
		putVLQ(buf, v)
		got, n := deserializeVLQ(buf)
		if got != v || n != size {
			t.Errorf("round trip for %d: got (%d, %d), want (%d, %d)", v, got, n, v, size)
		}
	}
}
