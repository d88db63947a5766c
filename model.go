// SPDX-License-Identifier: MIT
// Source: github.com/lithrez/rez

package rez

import "github.com/woozymasta/pathrules"

// Internal binary layout and format limits.
const (
	fileTypeFieldSize  = 60 // fixed file type field size in bytes
	userTitleFieldSize = 60 // fixed user title field size in bytes
	entryHeaderSize    = 16 // common entry record prologue size in bytes
	extensionFieldSize = 4  // reversed on-disk extension field size in bytes
	encodeTokenSize    = 32 // ASCII-encoded integer token size in encoded headers

	// headTailXOR relates head/tail bytes to their detection copies in encoded headers.
	headTailXOR = 0x11
	// encodeValueXOR relates the encode value to its detection copy in encoded headers.
	encodeValueXOR = 0x016B4423

	// variantEOFMarker selects the plain version-1/version-2 header layout.
	variantEOFMarker = 0x1A
	// variantEncoded selects the self-validating encoded header layout.
	variantEncoded = 0x2A
)

// Default reader and extraction tuning values.
const (
	// DefaultMaxDepth bounds nested directory recursion during decode.
	DefaultMaxDepth = 64
	// DefaultCopyChunkSize is the payload copy buffer size used by extraction.
	DefaultCopyChunkSize = 4 * 1024 * 1024
)

// EntryType is the 4-byte record type tag stored in directory blocks.
type EntryType uint32

// Known entry type codes. Any other code is a hard decode failure.
const (
	EntryTypeResource  EntryType = 0
	EntryTypeDirectory EntryType = 1
)

// FileHeader contains archive-level metadata parsed from the REZ header.
type FileHeader struct {
	// FileType is the 60-byte file type field with trailing padding stripped.
	FileType string `json:"file_type" yaml:"file_type"`
	// UserTitle is the 60-byte user title field with trailing padding stripped.
	UserTitle string `json:"user_title" yaml:"user_title"`
	// Version is the detected format version, always 1 or 2.
	Version uint32 `json:"version" yaml:"version"`
	// RootDirPosition is the byte offset of the root directory block.
	RootDirPosition uint32 `json:"root_dir_position" yaml:"root_dir_position"`
	// RootDirSize is the byte length of the root directory block.
	RootDirSize uint32 `json:"root_dir_size" yaml:"root_dir_size"`
	// RootDirTime is the root directory timestamp.
	RootDirTime uint32 `json:"root_dir_time" yaml:"root_dir_time"`
	// NextWritePosition is the writer bookkeeping offset stored in the header.
	NextWritePosition uint32 `json:"next_write_position" yaml:"next_write_position"`
	// Time is the archive timestamp.
	Time uint32 `json:"time" yaml:"time"`
	// LargestKeyArraySize is a size hint for the biggest key array in the archive.
	LargestKeyArraySize uint32 `json:"largest_key_array_size" yaml:"largest_key_array_size"`
	// LargestDirNameSize is a size hint for the longest directory name.
	LargestDirNameSize uint32 `json:"largest_dir_name_size" yaml:"largest_dir_name_size"`
	// LargestRezNameSize is a size hint for the longest resource name.
	LargestRezNameSize uint32 `json:"largest_rez_name_size" yaml:"largest_rez_name_size"`
	// LargestCommentSize is a size hint for the longest resource description.
	LargestCommentSize uint32 `json:"largest_comment_size" yaml:"largest_comment_size"`
	// IsSorted reports the informational sorted flag; the decoder never enforces it.
	IsSorted bool `json:"is_sorted" yaml:"is_sorted"`
}

// EntryHeader is the common 16-byte prologue preceding every directory entry.
type EntryHeader struct {
	// Type is the record type tag.
	Type EntryType `json:"type" yaml:"type"`
	// Position is the byte offset of the payload or nested block.
	Position uint32 `json:"position" yaml:"position"`
	// Size is the byte length of the payload or nested block.
	Size uint32 `json:"size" yaml:"size"`
	// Time is the entry timestamp.
	Time uint32 `json:"time" yaml:"time"`
}

// Entry is one node of the decoded archive tree.
// The only implementations are *Resource and *Directory.
type Entry interface {
	entryNode()
}

// Resource is a leaf entry owning a raw byte-range payload in the source.
type Resource struct {
	// Header is the common entry prologue; Position/Size describe the payload.
	Header EntryHeader `json:"header" yaml:"header"`
	// ID is the numeric resource identifier.
	ID uint32 `json:"id" yaml:"id"`
	// Extension is the decoded short extension (stored byte-reversed on disk).
	Extension string `json:"extension" yaml:"extension"`
	// Name is the NUL-terminated resource name.
	Name string `json:"name" yaml:"name"`
	// Description is the NUL-terminated resource description.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Keys are opaque per-resource tags; their semantics are external.
	Keys []uint32 `json:"keys,omitempty" yaml:"keys,omitempty"`
}

// Directory is an entry owning an ordered list of child entries.
type Directory struct {
	// Header is the common entry prologue; Position/Size describe the child block.
	Header EntryHeader `json:"header" yaml:"header"`
	// Name is the NUL-terminated directory name.
	Name string `json:"name" yaml:"name"`
	// Entries are the children in on-disk encounter order.
	Entries []Entry `json:"entries" yaml:"entries"`
}

func (*Resource) entryNode()  {}
func (*Directory) entryNode() {}

// FileName returns the resource name joined with its extension.
func (r *Resource) FileName() string {
	return r.Name + "." + r.Extension
}

// EntryName returns the logical name of an entry: "name.extension" for
// resources, the plain directory name for directories.
func EntryName(e Entry) string {
	switch v := e.(type) {
	case *Resource:
		return v.FileName()
	case *Directory:
		return v.Name
	default:
		return ""
	}
}

// ReaderOptions configures archive decode behavior.
type ReaderOptions struct {
	// MaxDepth bounds nested directory recursion; zero means DefaultMaxDepth.
	MaxDepth int `json:"max_depth,omitempty" yaml:"max_depth,omitempty"`
}

// ExtractOptions configures Extract behavior.
type ExtractOptions struct {
	// OnResourceDone is called after one resource is fully written to disk.
	OnResourceDone func(res *Resource, written int64, outputPath string) `json:"-" yaml:"-"`
	// Filters are glob patterns matched against logical resource paths.
	// Multiple patterns combine with OR; an empty list matches everything.
	Filters []string `json:"filters,omitempty" yaml:"filters,omitempty"`
	// Rules are ordered include/exclude path rules applied after Filters.
	Rules []pathrules.Rule `json:"rules,omitempty" yaml:"rules,omitempty"`
	// RuleMatcherOptions control rule matching behavior.
	RuleMatcherOptions pathrules.MatcherOptions `json:"rule_matcher_options,omitzero" yaml:"rule_matcher_options,omitzero"`
	// CopyChunkSize is the payload copy buffer size in bytes.
	CopyChunkSize int `json:"copy_chunk_size,omitempty" yaml:"copy_chunk_size,omitempty"`
}

// applyDefaults fills zero-valued reader options with defaults.
func (opts *ReaderOptions) applyDefaults() {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
}

// applyDefaults fills zero-valued extract options with defaults.
func (opts *ExtractOptions) applyDefaults() {
	if opts.CopyChunkSize <= 0 {
		opts.CopyChunkSize = DefaultCopyChunkSize
	}

	if opts.RuleMatcherOptions.DefaultAction == pathrules.ActionUnknown {
		opts.RuleMatcherOptions.DefaultAction = pathrules.ActionExclude
	}
}
