package rez

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// Fixed bookkeeping values used by header fixtures.
const (
	fixtureRootTime    = 1111
	fixtureNextWrite   = 2222
	fixtureTime        = 3333
	fixtureLargestKey  = 4
	fixtureLargestDir  = 16
	fixtureLargestName = 32
	fixtureLargestDesc = 64
)

func u32le(v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return b[:]
}

// padField right-pads s with spaces to n bytes.
func padField(s string, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = ' '
	}
	copy(out, s)
	return out
}

// headerV1Bytes builds a 0x1A version-1 header pointing at the given root block.
func headerV1Bytes(rootPos, rootSize uint32) []byte {
	var b bytes.Buffer
	b.Write([]byte{'\r', '\n'})
	b.Write(padField("RezMgr Version 1", fileTypeFieldSize))
	b.Write([]byte{'\r', '\n'})
	b.Write(padField("Test Archive", userTitleFieldSize))
	b.Write([]byte{'\r', '\n', variantEOFMarker})
	b.Write(u32le(1))
	writeFixedHeaderFields(&b, rootPos, rootSize)
	return b.Bytes()
}

// headerV2Bytes builds a 0x1A version-2 header with the three filler bytes.
func headerV2Bytes(rootPos, rootSize uint32) []byte {
	var b bytes.Buffer
	b.Write([]byte{'\r', '\n'})
	b.Write(padField("RezMgr Version 2", fileTypeFieldSize))
	b.Write([]byte{'\r', '\n'})
	b.Write(padField("Test Archive", userTitleFieldSize))
	b.Write([]byte{'\r', '\n', variantEOFMarker})
	b.Write(u32le(0))
	b.Write([]byte{0xAA, 0xBB, 0xCC})
	b.Write(u32le(2))
	writeFixedHeaderFields(&b, rootPos, rootSize)
	return b.Bytes()
}

// encodedHeaderBytes builds a 0x2A self-validating header.
func encodedHeaderBytes(head, tail byte, encode uint32, rootPos, rootSize uint32) []byte {
	return encodedHeaderBytesDetect(head, tail, encode, encode^encodeValueXOR, rootPos, rootSize)
}

// encodedHeaderBytesDetect builds a 0x2A header with an explicit detection value.
func encodedHeaderBytesDetect(head, tail byte, encode, detect uint32, rootPos, rootSize uint32) []byte {
	var b bytes.Buffer
	b.Write([]byte{'\r', '\n'})
	b.Write(padField("RezMgr Version 1", fileTypeFieldSize))
	b.Write([]byte{'\r', '\n'})
	b.Write(padField("Encoded Archive", userTitleFieldSize))
	b.Write([]byte{'\r', '\n', variantEncoded})
	b.WriteByte(head)
	b.Write(encodeToken(fmt.Sprintf("%d", encode)))
	b.WriteByte(tail)
	b.WriteByte(head ^ headTailXOR)
	b.Write(encodeToken(fmt.Sprintf("%d", detect)))
	b.WriteByte(tail ^ headTailXOR)
	b.Write(u32le(1))
	writeFixedHeaderFields(&b, rootPos, rootSize)
	return b.Bytes()
}

// encodeToken zero-pads an ASCII integer token to its fixed on-disk size.
func encodeToken(s string) []byte {
	out := make([]byte, encodeTokenSize)
	copy(out, s)
	return out
}

func writeFixedHeaderFields(b *bytes.Buffer, rootPos, rootSize uint32) {
	b.Write(u32le(rootPos))
	b.Write(u32le(rootSize))
	b.Write(u32le(fixtureRootTime))
	b.Write(u32le(fixtureNextWrite))
	b.Write(u32le(fixtureTime))
	b.Write(u32le(fixtureLargestKey))
	b.Write(u32le(fixtureLargestDir))
	b.Write(u32le(fixtureLargestName))
	b.Write(u32le(fixtureLargestDesc))
	b.WriteByte(0x00)
}

// entryHeaderBytes encodes the common 16-byte entry prologue.
func entryHeaderBytes(typ EntryType, pos, size, time uint32) []byte {
	var b bytes.Buffer
	b.Write(u32le(uint32(typ)))
	b.Write(u32le(pos))
	b.Write(u32le(size))
	b.Write(u32le(time))
	return b.Bytes()
}

// resourceEntryBytes encodes one full resource record.
func resourceEntryBytes(pos, size, time, id uint32, ext, name, desc string, keys []uint32) []byte {
	var b bytes.Buffer
	b.Write(entryHeaderBytes(EntryTypeResource, pos, size, time))
	b.Write(u32le(id))
	b.Write(diskExtension(ext))
	b.Write(u32le(uint32(len(keys))))
	b.WriteString(name)
	b.WriteByte(0x00)
	b.WriteString(desc)
	b.WriteByte(0x00)
	for _, key := range keys {
		b.Write(u32le(key))
	}
	return b.Bytes()
}

// directoryEntryBytes encodes one directory record pointing at a child block.
func directoryEntryBytes(pos, size, time uint32, name string) []byte {
	var b bytes.Buffer
	b.Write(entryHeaderBytes(EntryTypeDirectory, pos, size, time))
	b.WriteString(name)
	b.WriteByte(0x00)
	return b.Bytes()
}

// diskExtension encodes a logical extension into the byte-reversed,
// zero-padded on-disk field.
func diskExtension(ext string) []byte {
	var post [extensionFieldSize]byte
	copy(post[extensionFieldSize-len(ext):], ext)

	disk := make([]byte, extensionFieldSize)
	for i := range disk {
		disk[i] = post[extensionFieldSize-1-i]
	}
	return disk
}

// simpleArchive is one fixed two-level fixture used by reader, extract and
// list tests:
//
//	readme.txt  [7, first file]    payload "hello rez"
//	sounds/
//	  boom.wav  [9]                payload "BOOMDATA", keys 10,20,30
//	  empty.bin [11]               zero-size payload
type simpleArchive struct {
	data []byte
}

func buildSimpleArchive() simpleArchive {
	headerLen := uint32(len(headerV1Bytes(0, 0)))

	payloadA := []byte("hello rez")
	payloadB := []byte("BOOMDATA")

	posA := headerLen
	posB := posA + uint32(len(payloadA))
	posEmpty := posB + uint32(len(payloadB))

	// sounds/ child block sits after the payload region.
	childBlock := bytes.Join([][]byte{
		resourceEntryBytes(posB, uint32(len(payloadB)), 501, 9, "wav", "boom", "", []uint32{10, 20, 30}),
		resourceEntryBytes(posEmpty, 0, 502, 11, "bin", "empty", "", nil),
	}, nil)
	childPos := posEmpty

	rootBlock := bytes.Join([][]byte{
		resourceEntryBytes(posA, uint32(len(payloadA)), 500, 7, "txt", "readme", "first file", nil),
		directoryEntryBytes(childPos, uint32(len(childBlock)), 503, "sounds"),
	}, nil)
	rootPos := childPos + uint32(len(childBlock))

	var file bytes.Buffer
	file.Write(headerV1Bytes(rootPos, uint32(len(rootBlock))))
	file.Write(payloadA)
	file.Write(payloadB)
	file.Write(childBlock)
	file.Write(rootBlock)

	return simpleArchive{data: file.Bytes()}
}

// writeTempArchive writes archive bytes to a temp file and returns its path.
func writeTempArchive(t *testing.T, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.rez")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	return path
}
