// SPDX-License-Identifier: MIT
// Source: github.com/lithrez/rez

/*
Package rez reads REZ archive containers: a legacy single-file format
storing a tree of named, typed resource blobs addressed by absolute byte
ranges. The package decodes the full directory tree up front and streams
resource payloads on demand, without loading payload data into memory.

The decoder is strict: the header's separator bytes, version fields and
the encoded-variant detection values are validated byte for byte, and the
first invalid byte aborts the whole read. Unknown entry type codes are
never skipped, since their trailing layout is unknown and skipping would
desynchronize the rest of the block.

# Reading

Open a REZ file and walk or list its tree:

	r, err := rez.Open("game.rez")
	if err != nil {
	    return err
	}
	defer r.Close()

	err = rez.Walk(r.Entries(), func(path string, e rez.Entry) error {
	    if res, ok := e.(*rez.Resource); ok {
	        data, err := r.ReadResource(res)
	        // use data
	        _, _ = data, err
	    }
	    return nil
	})

For metadata-only scans, read just the header:

	hdr, err := rez.ReadFileHeader("game.rez")
	if err != nil {
	    return err
	}
	_ = hdr.Version

# Extracting

Extract everything, or limit the run with glob filters matched against
logical "/"-joined paths (one "*" stays within a path segment, "**"
crosses segments, "?" matches one character):

	err = r.Extract(ctx, "out/", rez.ExtractOptions{
	    Filters: []string{"*.txt", "sounds/**"},
	})

Rule-based selection composes with glob filters, for example to carve
exceptions out of a broad match:

	err = r.Extract(ctx, "out/", rez.ExtractOptions{
	    Rules: []pathrules.Rule{
	        {Action: pathrules.ActionInclude, Pattern: "world/**"},
	        {Action: pathrules.ActionExclude, Pattern: "world/tmp/**"},
	    },
	})
*/
package rez
