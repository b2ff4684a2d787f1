// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2023 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"fmt"
	"io"
)

// binarySerializer serializes and deserializes little-endian primitive
// integer values to and from io.Reader and io.Writer through fixed-size
// local arrays.  This is used as opposed to binary.Read and binary.Write
// because those go through reflection and an allocation for every call.
var binarySerializer = binarySerializerType{}

type binarySerializerType struct{}

func (binarySerializerType) Uint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func (binarySerializerType) Uint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

func (binarySerializerType) PutUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func (binarySerializerType) PutUint64(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// ReadVarInt reads a variably sized unsigned integer from r using Bitcoin's
// CompactSize wire encoding (distinct from the "varint-A" VLQ form used by
// the UTXO-set codec: this one is little-endian with single-byte markers
// 0xfd/0xfe/0xff introducing a 2/4/8-byte payload) and returns it as a
// uint64.
func ReadVarInt(r io.Reader) (uint64, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}

	switch b[0] {
	case 0xff:
		v, err := binarySerializer.Uint64(r)
		if err != nil {
			return 0, err
		}
		if v < 0x100000000 {
			return 0, messageError("ReadVarInt", fmt.Sprintf(
				"non-canonical varint %x - discriminant %x must "+
					"encode a value greater than %x", v, b[0], uint64(0xffffffff)))
		}
		return v, nil

	case 0xfe:
		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		v := uint64(binary.LittleEndian.Uint32(buf[:]))
		if v < 0x10000 {
			return 0, messageError("ReadVarInt", fmt.Sprintf(
				"non-canonical varint %x - discriminant %x must "+
					"encode a value greater than %x", v, b[0], uint64(0xffff)))
		}
		return v, nil

	case 0xfd:
		var buf [2]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		v := uint64(binary.LittleEndian.Uint16(buf[:]))
		if v < 0xfd {
			return 0, messageError("ReadVarInt", fmt.Sprintf(
				"non-canonical varint %x - discriminant %x must "+
					"encode a value greater than %x", v, b[0], uint64(0xfc)))
		}
		return v, nil

	default:
		return uint64(b[0]), nil
	}
}

// WriteVarInt serializes val to w using Bitcoin's CompactSize wire
// encoding, which writes the minimum number of bytes based on the value.
func WriteVarInt(w io.Writer, val uint64) error {
	if val < 0xfd {
		_, err := w.Write([]byte{byte(val)})
		return err
	}

	if val <= 0xffff {
		buf := make([]byte, 3)
		buf[0] = 0xfd
		binary.LittleEndian.PutUint16(buf[1:], uint16(val))
		_, err := w.Write(buf)
		return err
	}

	if val <= 0xffffffff {
		buf := make([]byte, 5)
		buf[0] = 0xfe
		binary.LittleEndian.PutUint32(buf[1:], uint32(val))
		_, err := w.Write(buf)
		return err
	}

	buf := make([]byte, 9)
	buf[0] = 0xff
	binary.LittleEndian.PutUint64(buf[1:], val)
	_, err := w.Write(buf)
	return err
}

// VarIntSerializeSize returns the number of bytes it would take to
// serialize val as a variable length integer.
func VarIntSerializeSize(val uint64) int {
	switch {
	case val < 0xfd:
		return 1
	case val <= 0xffff:
		return 3
	case val <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// WriteVarBytes serializes a variable length byte array to w as a varint
// containing the number of bytes, followed by the bytes themselves.
func WriteVarBytes(w io.Writer, data []byte) error {
	if err := WriteVarInt(w, uint64(len(data))); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

// messageError creates an error for the given function and description.
func messageError(f string, desc string) error {
	return fmt.Errorf("%s: %s", f, desc)
}

// fixedWriter is a minimal io.Writer over a growable in-memory buffer, used
// for the one-shot "serialize into a byte slice" path (TxHash and similar)
// where allocating a bytes.Buffer would be overkill.
type fixedWriter struct {
	buf []byte
}

func newFixedWriter(buf []byte) *fixedWriter {
	return &fixedWriter{buf: buf}
}

func (f *fixedWriter) Write(p []byte) (int, error) {
	f.buf = append(f.buf, p...)
	return len(p), nil
}

func (f *fixedWriter) Bytes() []byte {
	return f.buf
}
