// SPDX-License-Identifier: MIT
// Source: github.com/lithrez/rez

package rez

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Extract walks the decoded tree depth-first and writes selected resources
// under dstDir, mirroring the directory structure. Resources are selected
// by the glob filter set and the optional rule matcher, both applied to
// logical "/"-joined paths. The walk is strictly sequential over the one
// shared source handle; the first failure aborts the whole run.
func (r *Reader) Extract(ctx context.Context, dstDir string, opts ExtractOptions) error {
	if r == nil || r.ra == nil {
		return ErrNilReader
	}

	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return ErrClosed
	}

	opts.applyDefaults()

	filters, err := CompileFilters(opts.Filters)
	if err != nil {
		return err
	}

	rules, err := newRuleMatcher(opts.Rules, opts.RuleMatcherOptions)
	if err != nil {
		return err
	}

	dstRootAbs, err := filepath.Abs(dstDir)
	if err != nil {
		return fmt.Errorf("resolve output dir: %w", err)
	}

	if err := os.MkdirAll(dstRootAbs, 0o750); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	copyBuf := make([]byte, opts.CopyChunkSize)
	return r.extractEntries(ctx, r.entries, "", dstRootAbs, filters, rules, copyBuf, opts.OnResourceDone)
}

// extractEntries extracts one entry list into outDir, descending into
// same-named subdirectories for nested directories.
func (r *Reader) extractEntries(
	ctx context.Context,
	entries []Entry,
	basePath string,
	outDir string,
	filters FilterSet,
	rules *ruleMatcher,
	copyBuf []byte,
	onResourceDone func(res *Resource, written int64, outputPath string),
) error {
	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		entryPath := EntryName(entry)
		if basePath != "" {
			entryPath = basePath + "/" + entryPath
		}

		switch v := entry.(type) {
		case *Directory:
			name, err := normalizeOutputName(v.Name)
			if err != nil {
				return fmt.Errorf("directory %s: %w", entryPath, err)
			}

			subDir := filepath.Join(outDir, name)
			if err := r.extractEntries(ctx, v.Entries, entryPath, subDir, filters, rules, copyBuf, onResourceDone); err != nil {
				return err
			}
		case *Resource:
			if !filters.Match(entryPath) || !rules.Included(entryPath) {
				continue
			}

			if err := r.extractResource(v, entryPath, outDir, copyBuf, onResourceDone); err != nil {
				return err
			}
		}
	}

	return nil
}

// extractResource streams one resource payload into its output file,
// creating parent directories as needed.
func (r *Reader) extractResource(
	res *Resource,
	entryPath string,
	outDir string,
	copyBuf []byte,
	onResourceDone func(res *Resource, written int64, outputPath string),
) error {
	fileName, err := normalizeOutputName(res.FileName())
	if err != nil {
		return fmt.Errorf("resource %s: %w", entryPath, err)
	}

	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return fmt.Errorf("create output directory %s: %w", outDir, err)
	}

	outPath := filepath.Join(outDir, fileName)
	rc, err := r.OpenResource(res)
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()

	file, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("open %s: %w", outPath, err)
	}

	written, copyErr := copyChunked(file, rc, copyBuf)
	closeErr := file.Close()

	if copyErr != nil {
		return fmt.Errorf("write %s: %w", entryPath, copyErr)
	}
	if written != int64(res.Header.Size) {
		return fmt.Errorf("write %s: %w", entryPath, io.ErrUnexpectedEOF)
	}
	if closeErr != nil {
		return fmt.Errorf("close %s: %w", entryPath, closeErr)
	}

	if onResourceDone != nil {
		onResourceDone(res, written, outPath)
	}

	return nil
}

// copyChunked copies src to dst using the provided fixed buffer.
func copyChunked(dst io.Writer, src io.Reader, buf []byte) (int64, error) {
	if len(buf) == 0 {
		return 0, io.ErrShortBuffer
	}

	var total int64
	for {
		readN, readErr := src.Read(buf)
		if readN > 0 {
			writeN, writeErr := dst.Write(buf[:readN])
			total += int64(writeN)

			if writeErr != nil {
				return total, writeErr
			}

			if writeN != readN {
				return total, io.ErrShortWrite
			}
		}

		if readErr == nil {
			continue
		}

		if readErr == io.EOF {
			return total, nil
		}

		return total, readErr
	}
}

// normalizeOutputName validates one archive-supplied name as a single
// filesystem path segment. Separator bytes, NUL bytes and dot segments are
// rejected; decoded names are never trusted as-is when joined into output
// paths.
func normalizeOutputName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || trimmed == "." || trimmed == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidExtractPath, name)
	}

	if strings.ContainsAny(trimmed, "\x00/\\") {
		return "", fmt.Errorf("%w: %q", ErrInvalidExtractPath, name)
	}

	return trimmed, nil
}
