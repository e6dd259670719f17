package record

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Writer streams records as JSONL: one record per line, consumed by the
// downstream tokenization/training collaborator.
type Writer struct {
	f   *os.File
	buf *bufio.Writer
	enc *json.Encoder
	n   int64
}

func NewWriter(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create corpus file %s: %w", path, err)
	}
	buf := bufio.NewWriterSize(f, 1<<20)
	return &Writer{f: f, buf: buf, enc: json.NewEncoder(buf)}, nil
}

func (w *Writer) Write(rec Record) error {
	if err := w.enc.Encode(rec); err != nil {
		return fmt.Errorf("encode record %s: %w", rec.ID, err)
	}
	w.n++
	return nil
}

// Count returns the number of records written so far.
func (w *Writer) Count() int64 { return w.n }

func (w *Writer) Close() error {
	if err := w.buf.Flush(); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}

// ReadAll loads a JSONL corpus back into memory, for the validate and
// stats subcommands. Blank lines are skipped.
func ReadAll(r io.Reader) ([]Record, error) {
	var out []Record
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1<<20), 1<<24)
	line := 0
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("corpus line %d: %w", line, err)
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
