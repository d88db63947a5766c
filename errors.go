// SPDX-License-Identifier: MIT
// Source: github.com/lithrez/rez

package rez

import "errors"

// Sentinel errors for REZ operations. Use errors.Is in callers; wrapped
// messages carry the exact offending values (byte index, expected versus
// obtained) for diagnosis.
var (
	// ErrInvalidControlByte means a header separator byte matched none of its accepted values.
	ErrInvalidControlByte = errors.New("invalid header control byte")
	// ErrInvalidVersion means the header version field holds an unsupported value.
	ErrInvalidVersion = errors.New("invalid archive version")
	// ErrInvalidDetectHead means the encoded header head detection byte failed its XOR relation.
	ErrInvalidDetectHead = errors.New("invalid encoded header detect head")
	// ErrInvalidDetectTail means the encoded header tail detection byte failed its XOR relation.
	ErrInvalidDetectTail = errors.New("invalid encoded header detect tail")
	// ErrInvalidEncodeUTF8 means an encode token is not valid UTF-8.
	ErrInvalidEncodeUTF8 = errors.New("encode value is not valid UTF-8")
	// ErrInvalidEncodeInteger means an encode token is not a decimal integer.
	ErrInvalidEncodeInteger = errors.New("encode value is not a decimal integer")
	// ErrEncodeValueMismatch means the encode detection value failed its XOR relation.
	ErrEncodeValueMismatch = errors.New("encode value mismatch")
	// ErrUnknownEntryType means a directory block holds an entry with an unknown type code.
	// Unknown entries are never skipped: their trailing layout is unknown and
	// skipping would desynchronize the rest of the block.
	ErrUnknownEntryType = errors.New("unknown entry type code")
	// ErrDirectoryTooDeep means nested directory recursion exceeded the configured depth cap.
	ErrDirectoryTooDeep = errors.New("directory nesting too deep")
	// ErrInvalidFilterPattern means a glob filter pattern could not be compiled.
	ErrInvalidFilterPattern = errors.New("invalid filter pattern")
	// ErrInvalidExtractRules means one or more extraction path rules are invalid.
	ErrInvalidExtractRules = errors.New("invalid extract rules")
	// ErrInvalidExtractPath means an archive entry name is invalid as an extraction destination.
	ErrInvalidExtractPath = errors.New("invalid extract path")
	// ErrNilReader means the reader is nil.
	ErrNilReader = errors.New("reader is nil")
	// ErrClosed means the reader is already closed.
	ErrClosed = errors.New("reader already closed")
)
