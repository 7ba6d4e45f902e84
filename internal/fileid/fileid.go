// Package fileid derives a stable document ID from a watched file's path.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

const prefix = "file_"

// DocID returns a deterministic document ID for the given path. The same
// path always maps to the same ID, so a re-dropped file updates rather than
// duplicates, and a deleted file can be removed by path alone.
func DocID(path string) string {
	normalized := filepath.Clean(path)
	sum := sha256.Sum256([]byte(normalized))
	return prefix + hex.EncodeToString(sum[:8])
}
