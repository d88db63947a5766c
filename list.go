// SPDX-License-Identifier: MIT
// Source: github.com/lithrez/rez

package rez

import (
	"fmt"
	"io"
	"strings"
)

// WalkFunc visits one entry together with its logical "/"-joined path.
// Returning an error stops the walk.
type WalkFunc func(path string, e Entry) error

// Walk traverses entries depth-first in on-disk order.
func Walk(entries []Entry, fn WalkFunc) error {
	return walkEntries(entries, "", fn)
}

func walkEntries(entries []Entry, basePath string, fn WalkFunc) error {
	for _, entry := range entries {
		entryPath := EntryName(entry)
		if basePath != "" {
			entryPath = basePath + "/" + entryPath
		}

		if err := fn(entryPath, entry); err != nil {
			return err
		}

		if dir, ok := entry.(*Directory); ok {
			if err := walkEntries(dir.Entries, entryPath, fn); err != nil {
				return err
			}
		}
	}

	return nil
}

// WriteTree renders the entry tree as an indented listing: directories as
// "name (time)/", resources as "name.ext [id, description] (time,
// position+size bytes)".
func WriteTree(w io.Writer, entries []Entry) error {
	return writeTree(w, entries, 0)
}

func writeTree(w io.Writer, entries []Entry, indent int) error {
	pad := strings.Repeat("  ", indent)
	for _, entry := range entries {
		switch v := entry.(type) {
		case *Directory:
			if _, err := fmt.Fprintf(w, "%s%s (%d)/\n", pad, v.Name, v.Header.Time); err != nil {
				return err
			}

			if err := writeTree(w, v.Entries, indent+1); err != nil {
				return err
			}
		case *Resource:
			tag := fmt.Sprintf("%d", v.ID)
			if v.Description != "" {
				tag += ", " + v.Description
			}

			_, err := fmt.Fprintf(w, "%s%s [%s] (%d, %d+%d bytes)\n",
				pad, v.FileName(), tag, v.Header.Time, v.Header.Position, v.Header.Size)
			if err != nil {
				return err
			}
		}
	}

	return nil
}
