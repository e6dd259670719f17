package corpus

import (
	"io/fs"
	"path/filepath"
)

// Crawler scans a directory for source files in the recognized languages.
type Crawler struct {
	languageOf func(ext string) string
	ignored    []string
}

// NewCrawler creates a crawler. languageOf maps a file extension to a
// language tag ("generic" for unmapped extensions).
func NewCrawler(languageOf func(ext string) string) *Crawler {
	return &Crawler{
		languageOf: languageOf,
		ignored:    []string{".git", "vendor", "node_modules", "testdata"},
	}
}

// Walk streams the path and language of every candidate file under root.
// It uses a callback to avoid holding the whole file list in memory.
func (c *Crawler) Walk(root string, onFile func(path, language string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			for _, ign := range c.ignored {
				if d.Name() == ign {
					return filepath.SkipDir
				}
			}
			return nil
		}

		ext := Ext(path)
		if ext == "" {
			return nil
		}
		lang := c.languageOf(ext)
		if lang == "generic" && !textExtension(ext) {
			return nil
		}

		return onFile(path, lang)
	})
}

// textExtension lists extensions accepted for the generic language when no
// explicit mapping exists.
func textExtension(ext string) bool {
	switch ext {
	case "txt", "py", "js", "ts", "java", "rs", "m", "mm":
		return true
	}
	return false
}
