// Package database bundles the default magic database.
//
// The rules are kept in "magic" for editing and shipped gzip compressed in
// "magic.gz"; regenerate the archive with
//
//	gzip -9 -n -k -f magic
package database

import "embed"

// Name is the file name of the compressed database inside FS.
const Name = "magic.gz"

// FS holds the compressed database.
//
//go:embed magic.gz
var FS embed.FS
