// SPDX-License-Identifier: MIT
// Source: github.com/lithrez/rez

package rez

import (
	"encoding/binary"
	"io"
)

// readU32LE reads one little-endian unsigned 32-bit integer.
// Returns io.EOF only when no bytes were available at all; a partial read
// surfaces as io.ErrUnexpectedEOF.
func readU32LE(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(buf[:]), nil
}

// readByte reads exactly one byte.
func readByte(r io.Reader) (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}

	return buf[0], nil
}

// readNulTerminated reads bytes up to and including the next NUL terminator
// and returns them without the terminator. Running out of data before the
// terminator is an io.ErrUnexpectedEOF.
func readNulTerminated(r io.ByteReader) ([]byte, error) {
	var out []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF {
				return nil, io.ErrUnexpectedEOF
			}

			return nil, err
		}

		if b == 0x00 {
			return out, nil
		}

		out = append(out, b)
	}
}
