package common

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// ValidateTag checks that magic matches the expected ASCII tag exactly.
func ValidateTag(magic [4]byte, want string) error {
	if string(magic[:]) != want {
		return fmt.Errorf("invalid tag: expected '%s', got '%s'", want, string(magic[:]))
	}
	return nil
}

// ReadUint16LE reads a uint16 in little-endian format
func ReadUint16LE(reader io.Reader) (uint16, error) {
	var value uint16
	err := binary.Read(reader, binary.LittleEndian, &value)
	return value, err
}

// ReadUint32LE reads a uint32 in little-endian format
func ReadUint32LE(reader io.Reader) (uint32, error) {
	var value uint32
	err := binary.Read(reader, binary.LittleEndian, &value)
	return value, err
}

// WriteUint16LE writes a uint16 in little-endian format
func WriteUint16LE(writer io.Writer, value uint16) error {
	return binary.Write(writer, binary.LittleEndian, value)
}

// WriteUint32LE writes a uint32 in little-endian format
func WriteUint32LE(writer io.Writer, value uint32) error {
	return binary.Write(writer, binary.LittleEndian, value)
}

// ReadBytes reads a specified number of bytes
func ReadBytes(reader io.Reader, count int) ([]byte, error) {
	buffer := make([]byte, count)
	n, err := io.ReadFull(reader, buffer)
	if err != nil {
		return nil, err
	}
	if n != count {
		return nil, fmt.Errorf("expected to read %d bytes, got %d", count, n)
	}
	return buffer, nil
}

// SkipBytes skips a specified number of bytes in the reader
func SkipBytes(reader io.Reader, count int) error {
	_, err := io.CopyN(io.Discard, reader, int64(count))
	return err
}

// ReadFixedString reads a fixed-size field and trims everything from the
// first NUL byte onward, returning the textual prefix.
func ReadFixedString(reader io.Reader, size int) (string, error) {
	raw, err := ReadBytes(reader, size)
	if err != nil {
		return "", err
	}
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	return string(raw), nil
}

// WriteFixedString writes s into a size-byte field, NUL-padding the
// remainder. s is truncated to size-1 bytes (leaving room for a
// terminating NUL) if it would not otherwise fit.
func WriteFixedString(writer io.Writer, s string, size int) error {
	buf := make([]byte, size)
	b := []byte(s)
	if len(b) > size-1 {
		b = b[:size-1]
	}
	copy(buf, b)
	_, err := writer.Write(buf)
	return err
}

// AlignUp rounds offset up to the next multiple of alignment.
func AlignUp(offset int64, alignment int64) int64 {
	rem := offset % alignment
	if rem == 0 {
		return offset
	}
	return offset + (alignment - rem)
}
