// SPDX-License-Identifier: MIT
// Source: github.com/lithrez/rez

package rez

// DecodeLegacyText decodes single-byte legacy text: every byte value maps
// 1:1 to the Unicode code point of the same value. Total and
// length-preserving, one code point per input byte.
func DecodeLegacyText(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}

	return string(runes)
}

// trimTrailingSpaces strips trailing 0x20 padding from fixed-width fields.
func trimTrailingSpaces(b []byte) []byte {
	for len(b) > 0 && b[len(b)-1] == ' ' {
		b = b[:len(b)-1]
	}

	return b
}

// trimTrailingZeros strips trailing NUL bytes from encode tokens.
func trimTrailingZeros(b []byte) []byte {
	for len(b) > 0 && b[len(b)-1] == 0x00 {
		b = b[:len(b)-1]
	}

	return b
}

// trimLeadingZeros strips leading NUL bytes from reversed extension fields.
func trimLeadingZeros(b []byte) []byte {
	for len(b) > 0 && b[0] == 0x00 {
		b = b[1:]
	}

	return b
}
