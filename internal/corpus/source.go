// Package corpus models the raw input: immutable source files discovered
// by walking a directory tree.
package corpus

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// SourceFile is a read-once input file. It is never mutated after Load;
// every downstream entity derives from it.
type SourceFile struct {
	Path     string
	Hash     string
	Content  []byte
	Language string
}

// Load reads a file and computes its identity hash. Files that are not
// valid UTF-8 are treated as undecodable and refused here so the caller
// can skip them without aborting the run.
func Load(path, language string) (*SourceFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("undecodable file %s: not valid UTF-8", path)
	}
	sum := sha256.Sum256(data)
	return &SourceFile{
		Path:     path,
		Hash:     hex.EncodeToString(sum[:]),
		Content:  data,
		Language: language,
	}, nil
}

// Ext returns the lowercased file extension without the leading dot.
func Ext(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}
