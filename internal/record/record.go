// Package record turns surviving candidates into corpus records and
// enforces run-wide deduplication.
package record

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"

	"fimcorpus/internal/split"
)

// Provenance ties a record back to its source file.
type Provenance struct {
	Path     string `json:"path"`
	FileHash string `json:"file_hash"`
	Offset   int    `json:"offset"`
	Line     int    `json:"line"`
}

// Record is the final accepted unit of the corpus.
type Record struct {
	ID          string     `json:"id"`
	Prefix      string     `json:"prefix"`
	Suffix      string     `json:"suffix"`
	Middle      string     `json:"middle"`
	Language    string     `json:"language"`
	Fingerprint string     `json:"fingerprint"`
	Source      Provenance `json:"source"`
}

// New builds a record from a candidate. The id is a stable function of
// provenance and content so that re-running an unchanged corpus yields an
// identical record set.
func New(c *split.Candidate) Record {
	idSum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d:%s", c.File.Hash, c.Offset, c.Middle)))
	return Record{
		ID:          hex.EncodeToString(idSum[:16]),
		Prefix:      c.Prefix,
		Suffix:      c.Suffix,
		Middle:      c.Middle,
		Language:    c.File.Language,
		Fingerprint: ExampleFingerprint(c.Prefix, c.Middle, c.Suffix),
		Source: Provenance{
			Path:     c.File.Path,
			FileHash: c.File.Hash,
			Offset:   c.Offset,
			Line:     c.Line,
		},
	}
}

// Normalize strips the formatting noise that makes near-duplicates look
// distinct: per-line trailing whitespace and blank edges.
func Normalize(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// ExampleFingerprint identifies a whole example for exact-duplicate
// elimination across the corpus.
func ExampleFingerprint(prefix, middle, suffix string) string {
	h := sha256.New()
	h.Write([]byte(Normalize(prefix)))
	h.Write([]byte{0})
	h.Write([]byte(Normalize(middle)))
	h.Write([]byte{0})
	h.Write([]byte(Normalize(suffix)))
	return hex.EncodeToString(h.Sum(nil))
}

// MiddleFingerprint keys the boilerplate frequency table. xxhash is enough
// here: the table only caps repeats, it is not an identity.
func MiddleFingerprint(middle string) uint64 {
	return xxhash.Sum64String(Normalize(middle))
}
