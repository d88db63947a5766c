// SPDX-License-Identifier: MIT
// Source: github.com/lithrez/rez

package rez

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
)

// Reader provides read-only access to a parsed REZ file.
type Reader struct {
	// ra is the underlying random-access reader used for payload reads.
	ra io.ReaderAt
	// file is set when Reader owns an *os.File opened via Open.
	file *os.File
	// entries stores the decoded root entries in on-disk order.
	entries []Entry
	// header stores the parsed archive header.
	header FileHeader
	// size is total source size in bytes.
	size int64
	// mu guards closed state and close operation.
	mu sync.Mutex
	// closed reports whether Close was already called.
	closed bool
}

// Archive is the fully decoded result of one REZ source: archive metadata
// plus the owned entry tree.
type Archive struct {
	// FileType is the archive file type field.
	FileType string `json:"file_type" yaml:"file_type"`
	// UserTitle is the archive user title field.
	UserTitle string `json:"user_title" yaml:"user_title"`
	// Version is the detected format version (1 or 2).
	Version uint32 `json:"version" yaml:"version"`
	// Time is the archive timestamp.
	Time uint32 `json:"time" yaml:"time"`
	// Entries are the decoded top-level entries in on-disk order.
	Entries []Entry `json:"entries" yaml:"entries"`
}

// Open opens a REZ file by path and decodes its header and full entry tree.
func Open(path string) (*Reader, error) {
	return OpenWithOptions(path, ReaderOptions{})
}

// OpenWithOptions opens a REZ file by path and decodes it using explicit
// reader options.
func OpenWithOptions(path string, opts ReaderOptions) (*Reader, error) {
	opts.applyDefaults()

	f, size, err := openFileWithSize(path)
	if err != nil {
		return nil, err
	}

	r, err := NewReaderFromReaderAtWithOptions(f, size, opts)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	r.file = f
	return r, nil
}

// NewReaderFromReaderAt decodes a REZ archive from an existing ReaderAt and
// known size.
func NewReaderFromReaderAt(ra io.ReaderAt, size int64) (*Reader, error) {
	return NewReaderFromReaderAtWithOptions(ra, size, ReaderOptions{})
}

// NewReaderFromReaderAtWithOptions decodes a REZ archive from an existing
// ReaderAt and known size using explicit reader options.
func NewReaderFromReaderAtWithOptions(ra io.ReaderAt, size int64, opts ReaderOptions) (*Reader, error) {
	opts.applyDefaults()

	if ra == nil {
		return nil, ErrNilReader
	}

	r := &Reader{ra: ra, size: size}
	if err := r.parse(opts); err != nil {
		return nil, err
	}

	return r, nil
}

// DecodeArchive decodes one REZ source into an owned Archive tree.
func DecodeArchive(ra io.ReaderAt, size int64) (*Archive, error) {
	r, err := NewReaderFromReaderAt(ra, size)
	if err != nil {
		return nil, err
	}

	return r.Archive(), nil
}

// parse decodes the header and recursively materializes the entry tree.
func (r *Reader) parse(opts ReaderOptions) error {
	header, err := decodeFileHeader(bufio.NewReader(io.NewSectionReader(r.ra, 0, r.size)))
	if err != nil {
		return err
	}
	r.header = header

	entries, err := decodeDirectoryBlock(r.ra, header.RootDirPosition, header.RootDirSize, 0, opts.MaxDepth)
	if err != nil {
		return err
	}
	r.entries = entries

	return nil
}

// Header returns the parsed archive header.
func (r *Reader) Header() FileHeader {
	if r == nil {
		return FileHeader{}
	}

	return r.header
}

// Entries returns a copy of the decoded root entry list.
func (r *Reader) Entries() []Entry {
	if r == nil {
		return nil
	}

	entries := make([]Entry, len(r.entries))
	copy(entries, r.entries)
	return entries
}

// Archive returns the decoded tree with archive-level metadata attached.
func (r *Reader) Archive() *Archive {
	if r == nil {
		return nil
	}

	return &Archive{
		FileType:  r.header.FileType,
		UserTitle: r.header.UserTitle,
		Version:   r.header.Version,
		Time:      r.header.Time,
		Entries:   r.Entries(),
	}
}

// Close closes the underlying file if the reader owns one.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}

	r.closed = true
	if r.file != nil {
		return r.file.Close()
	}

	return nil
}

// nopCloser wraps a reader and provides a no-op close.
type nopCloser struct {
	io.Reader
}

// Close closes nopCloser (no-op).
func (nopCloser) Close() error {
	return nil
}

// OpenResource opens the raw payload stream of one resource.
func (r *Reader) OpenResource(res *Resource) (io.ReadCloser, error) {
	if r == nil || r.ra == nil {
		return nil, ErrNilReader
	}

	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}

	sr := io.NewSectionReader(r.ra, int64(res.Header.Position), int64(res.Header.Size))
	return nopCloser{Reader: sr}, nil
}

// ReadResource reads the full payload of one resource.
func (r *Reader) ReadResource(res *Resource) ([]byte, error) {
	rc, err := r.OpenResource(res)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	return io.ReadAll(rc)
}

// WriteResourceTo streams the payload of one resource to w in bounded
// chunks, never buffering the full payload.
func (r *Reader) WriteResourceTo(res *Resource, w io.Writer) (int64, error) {
	rc, err := r.OpenResource(res)
	if err != nil {
		return 0, err
	}
	defer func() { _ = rc.Close() }()

	written, err := copyChunked(w, rc, make([]byte, DefaultCopyChunkSize))
	if err != nil {
		return written, fmt.Errorf("copy resource %s: %w", res.FileName(), err)
	}
	if written != int64(res.Header.Size) {
		return written, fmt.Errorf("copy resource %s: %w", res.FileName(), io.ErrUnexpectedEOF)
	}

	return written, nil
}

// decodeDirectoryBlock parses the exact byte range [position, position+size)
// into an ordered entry list, recursing into nested directory blocks via
// random access on ra. The block's own records are parsed from an isolated
// in-memory cursor, bounding every field read to the declared block size.
func decodeDirectoryBlock(ra io.ReaderAt, position, size uint32, depth, maxDepth int) ([]Entry, error) {
	if depth >= maxDepth {
		return nil, fmt.Errorf("%w: more than %d nested directories", ErrDirectoryTooDeep, maxDepth)
	}

	block := make([]byte, size)
	if size > 0 {
		if _, err := ra.ReadAt(block, int64(position)); err != nil {
			return nil, fmt.Errorf("read directory block %d+%d: %w", position, size, err)
		}
	}

	cur := bytes.NewReader(block)
	var entries []Entry
	for {
		header, ok, err := readEntryHeader(cur)
		if err != nil {
			return nil, err
		}
		if !ok {
			// Clean end of block data.
			return entries, nil
		}

		switch header.Type {
		case EntryTypeDirectory:
			nameBytes, err := readNulTerminated(cur)
			if err != nil {
				return nil, fmt.Errorf("read directory name: %w", err)
			}

			children, err := decodeDirectoryBlock(ra, header.Position, header.Size, depth+1, maxDepth)
			if err != nil {
				return nil, err
			}

			entries = append(entries, &Directory{
				Header:  header,
				Name:    DecodeLegacyText(nameBytes),
				Entries: children,
			})
		case EntryTypeResource:
			res, err := readResourceEntry(cur, header)
			if err != nil {
				return nil, err
			}

			entries = append(entries, res)
		default:
			return nil, fmt.Errorf("%w: %d", ErrUnknownEntryType, uint32(header.Type))
		}
	}
}

// readEntryHeader reads the next 16-byte entry prologue from the block
// cursor. A clean end of data reports ok=false; a mid-record shortfall is
// an error.
func readEntryHeader(cur *bytes.Reader) (EntryHeader, bool, error) {
	typeCode, err := readU32LE(cur)
	if err != nil {
		if err == io.EOF {
			return EntryHeader{}, false, nil
		}

		return EntryHeader{}, false, fmt.Errorf("read entry type: %w", err)
	}

	position, err := readU32LE(cur)
	if err != nil {
		return EntryHeader{}, false, fmt.Errorf("read entry position: %w", err)
	}

	size, err := readU32LE(cur)
	if err != nil {
		return EntryHeader{}, false, fmt.Errorf("read entry size: %w", err)
	}

	timestamp, err := readU32LE(cur)
	if err != nil {
		return EntryHeader{}, false, fmt.Errorf("read entry time: %w", err)
	}

	return EntryHeader{
		Type:     EntryType(typeCode),
		Position: position,
		Size:     size,
		Time:     timestamp,
	}, true, nil
}

// readResourceEntry reads the resource-specific trailing fields following
// an already parsed entry prologue.
func readResourceEntry(cur *bytes.Reader, header EntryHeader) (*Resource, error) {
	id, err := readU32LE(cur)
	if err != nil {
		return nil, fmt.Errorf("read resource id: %w", err)
	}

	var ext [extensionFieldSize]byte
	if _, err := io.ReadFull(cur, ext[:]); err != nil {
		return nil, fmt.Errorf("read resource extension: %w", err)
	}
	// The extension is stored byte-reversed and zero-padded on disk.
	for i, j := 0, len(ext)-1; i < j; i, j = i+1, j-1 {
		ext[i], ext[j] = ext[j], ext[i]
	}
	extension := DecodeLegacyText(trimLeadingZeros(ext[:]))

	numKeys, err := readU32LE(cur)
	if err != nil {
		return nil, fmt.Errorf("read resource key count: %w", err)
	}

	nameBytes, err := readNulTerminated(cur)
	if err != nil {
		return nil, fmt.Errorf("read resource name: %w", err)
	}

	descBytes, err := readNulTerminated(cur)
	if err != nil {
		return nil, fmt.Errorf("read resource description: %w", err)
	}

	// Cap the preallocation by what the block can still hold; a bogus
	// count fails on the first short read instead of a huge allocation.
	capHint := int(numKeys)
	if maxKeys := cur.Len() / 4; capHint > maxKeys {
		capHint = maxKeys
	}

	keys := make([]uint32, 0, capHint)
	for i := uint32(0); i < numKeys; i++ {
		key, err := readU32LE(cur)
		if err != nil {
			return nil, fmt.Errorf("read resource keys: %w", err)
		}

		keys = append(keys, key)
	}

	return &Resource{
		Header:      header,
		ID:          id,
		Extension:   extension,
		Name:        DecodeLegacyText(nameBytes),
		Description: DecodeLegacyText(descBytes),
		Keys:        keys,
	}, nil
}

// openFileWithSize opens a file and returns a handle plus current size.
func openFileWithSize(path string) (*os.File, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open REZ: %w", err)
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, fmt.Errorf("stat: %w", err)
	}

	return f, fi.Size(), nil
}
