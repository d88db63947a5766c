// SPDX-License-Identifier: MIT
// Source: github.com/lithrez/rez

package rez

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"
)

// ReadFileHeader opens a REZ file and parses only its header, without
// touching the directory tree.
func ReadFileHeader(path string) (FileHeader, error) {
	f, size, err := openFileWithSize(path)
	if err != nil {
		return FileHeader{}, err
	}
	defer func() { _ = f.Close() }()

	return ReadFileHeaderFromReaderAt(f, size)
}

// ReadFileHeaderFromReaderAt parses only the REZ header from a
// random-access source.
func ReadFileHeaderFromReaderAt(ra io.ReaderAt, size int64) (FileHeader, error) {
	if ra == nil {
		return FileHeader{}, ErrNilReader
	}

	return decodeFileHeader(bufio.NewReader(io.NewSectionReader(ra, 0, size)))
}

// decodeFileHeader reads the variable-length REZ header from the start of
// the stream. It consumes exactly the header's byte span and fails hard on
// the first invalid byte; no partial header is ever returned.
func decodeFileHeader(r io.Reader) (FileHeader, error) {
	var hdr FileHeader

	var two [2]byte
	if _, err := io.ReadFull(r, two[:]); err != nil {
		return hdr, fmt.Errorf("read header separator: %w", err)
	}
	if err := checkControlByte(two[0], 0, '\r', '&'); err != nil {
		return hdr, err
	}
	if err := checkControlByte(two[1], 1, '\n', '#'); err != nil {
		return hdr, err
	}

	fileType := make([]byte, fileTypeFieldSize)
	if _, err := io.ReadFull(r, fileType); err != nil {
		return hdr, fmt.Errorf("read file type: %w", err)
	}
	hdr.FileType = DecodeLegacyText(trimTrailingSpaces(fileType))

	if _, err := io.ReadFull(r, two[:]); err != nil {
		return hdr, fmt.Errorf("read header separator: %w", err)
	}
	if err := checkControlByte(two[0], 2, '\r', '!'); err != nil {
		return hdr, err
	}
	if err := checkControlByte(two[1], 3, '\n', '"'); err != nil {
		return hdr, err
	}

	userTitle := make([]byte, userTitleFieldSize)
	if _, err := io.ReadFull(r, userTitle); err != nil {
		return hdr, fmt.Errorf("read user title: %w", err)
	}
	hdr.UserTitle = DecodeLegacyText(trimTrailingSpaces(userTitle))

	var three [3]byte
	if _, err := io.ReadFull(r, three[:]); err != nil {
		return hdr, fmt.Errorf("read header separator: %w", err)
	}
	if err := checkControlByte(three[0], 4, '\r', '%'); err != nil {
		return hdr, err
	}
	if err := checkControlByte(three[1], 5, '\n', '\''); err != nil {
		return hdr, err
	}
	// Byte 6 selects the header variant; anything else fails here.
	if err := checkControlByte(three[2], 6, variantEOFMarker, variantEncoded); err != nil {
		return hdr, err
	}

	version, err := decodeVersionSection(r, three[2])
	if err != nil {
		return hdr, err
	}
	hdr.Version = version

	fields := []*uint32{
		&hdr.RootDirPosition,
		&hdr.RootDirSize,
		&hdr.RootDirTime,
		&hdr.NextWritePosition,
		&hdr.Time,
		&hdr.LargestKeyArraySize,
		&hdr.LargestDirNameSize,
		&hdr.LargestRezNameSize,
		&hdr.LargestCommentSize,
	}
	for _, field := range fields {
		value, err := readU32LE(r)
		if err != nil {
			return hdr, fmt.Errorf("read header fields: %w", err)
		}

		*field = value
	}

	sorted, err := readByte(r)
	if err != nil {
		return hdr, fmt.Errorf("read sorted flag: %w", err)
	}
	hdr.IsSorted = sorted != 0x00

	return hdr, nil
}

// decodeVersionSection parses the variant-specific header bytes selected by
// the third separator byte and returns the archive version.
func decodeVersionSection(r io.Reader, variant byte) (uint32, error) {
	switch variant {
	case variantEOFMarker:
		return decodeMarkerVersion(r)
	case variantEncoded:
		return decodeEncodedVersion(r)
	default:
		// Unreachable: byte 6 is validated before dispatch.
		return 0, checkControlByte(variant, 6, variantEOFMarker, variantEncoded)
	}
}

// decodeMarkerVersion handles the 0x1A layout: a version-1 field, with a
// fallback that skips three historical filler bytes and requires version 2.
func decodeMarkerVersion(r io.Reader) (uint32, error) {
	version, err := readU32LE(r)
	if err != nil {
		return 0, fmt.Errorf("read version: %w", err)
	}
	if version == 1 {
		return version, nil
	}

	var filler [3]byte
	if _, err := io.ReadFull(r, filler[:]); err != nil {
		return 0, fmt.Errorf("read version filler: %w", err)
	}

	version, err = readU32LE(r)
	if err != nil {
		return 0, fmt.Errorf("read version: %w", err)
	}
	if version != 2 {
		return 0, fmt.Errorf("%w: obtained %d (expected 2)", ErrInvalidVersion, version)
	}

	return version, nil
}

// decodeEncodedVersion handles the 0x2A layout, where head, tail and encode
// value each carry a redundant XOR-transformed detection copy.
func decodeEncodedVersion(r io.Reader) (uint32, error) {
	head, err := readByte(r)
	if err != nil {
		return 0, fmt.Errorf("read encode head: %w", err)
	}

	encodeBuf := make([]byte, encodeTokenSize)
	if _, err := io.ReadFull(r, encodeBuf); err != nil {
		return 0, fmt.Errorf("read encode value: %w", err)
	}

	var two [2]byte
	if _, err := io.ReadFull(r, two[:]); err != nil {
		return 0, fmt.Errorf("read encode tail: %w", err)
	}
	tail, detectHead := two[0], two[1]

	if detectHead != head^headTailXOR {
		return 0, fmt.Errorf("%w (head 0x%02X, detect_head 0x%02X, xor 0x%02X)",
			ErrInvalidDetectHead, head, detectHead, head^headTailXOR)
	}

	encodeValue, err := parseEncodeToken(encodeBuf, false)
	if err != nil {
		return 0, err
	}
	expected := encodeValue ^ encodeValueXOR

	detectBuf := make([]byte, encodeTokenSize)
	if _, err := io.ReadFull(r, detectBuf); err != nil {
		return 0, fmt.Errorf("read encode detection value: %w", err)
	}

	detectValue, err := parseEncodeToken(detectBuf, true)
	if err != nil {
		return 0, err
	}
	if detectValue != expected {
		return 0, fmt.Errorf("%w (encode 0x%08X, xor'ed 0x%08X, detect 0x%08X)",
			ErrEncodeValueMismatch, encodeValue, expected, detectValue)
	}

	detectTail, err := readByte(r)
	if err != nil {
		return 0, fmt.Errorf("read encode detect tail: %w", err)
	}
	if detectTail != tail^headTailXOR {
		return 0, fmt.Errorf("%w (tail 0x%02X, detect_tail 0x%02X, xor 0x%02X)",
			ErrInvalidDetectTail, tail, detectTail, tail^headTailXOR)
	}

	version, err := readU32LE(r)
	if err != nil {
		return 0, fmt.Errorf("read version: %w", err)
	}
	if version != 1 {
		return 0, fmt.Errorf("%w: obtained %d (expected 1)", ErrInvalidVersion, version)
	}

	return version, nil
}

// parseEncodeToken decodes one 32-byte ASCII integer token: trailing NUL
// padding stripped, UTF-8 checked, then parsed as decimal.
func parseEncodeToken(buf []byte, detection bool) (uint32, error) {
	trimmed := trimTrailingZeros(buf)
	if !utf8.Valid(trimmed) {
		return 0, fmt.Errorf("%w (detection %t): % X", ErrInvalidEncodeUTF8, detection, trimmed)
	}

	token := string(trimmed)
	value, err := strconv.ParseUint(token, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w (detection %t): %q", ErrInvalidEncodeInteger, detection, token)
	}

	return uint32(value), nil
}

// checkControlByte validates one header separator byte against its primary
// value or its historically tolerated alternate.
func checkControlByte(value byte, index int, expected1, expected2 byte) error {
	if value == expected1 || value == expected2 {
		return nil
	}

	return fmt.Errorf("%w %d (expected one of 0x%02X 0x%02X, obtained 0x%02X)",
		ErrInvalidControlByte, index, expected1, expected2, value)
}
