package spa

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jszwec/csvutil"
)

const (
	delimiter   = ';'
	commentRune = '#'
)

var errEmptyFile = errors.New("file is empty")

// row is a decoded record together with its line in the source file.
type row[T any] struct {
	line int
	v    T
}

// readRows decodes every record of path into T. The first line must be a
// header naming at least the columns of T.
func readRows[T any](op, path string, skipComments bool) ([]row[T], error) {
	name := filepath.Base(path)
	f, err := os.Open(path)
	if err != nil {
		kind := KindIOFailure
		if errors.Is(err, os.ErrNotExist) {
			kind = KindMissingTarget
		}
		return nil, &Error{Kind: kind, Op: op, File: name, Err: err}
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.Comma = delimiter
	r.TrimLeadingSpace = true
	if skipComments {
		r.Comment = commentRune
	}
	dec, err := csvutil.NewDecoder(r)
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = errEmptyFile
		}
		return nil, &Error{Kind: KindMalformedRecord, Op: op, File: name, Line: 1, Err: err}
	}
	if err := checkHeader[T](dec.Header()); err != nil {
		return nil, &Error{Kind: KindMalformedRecord, Op: op, File: name, Line: 1, Err: err}
	}

	var rows []row[T]
	line := 1
	for {
		var v T
		err := dec.Decode(&v)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line = pe.Line
			} else {
				line, _ = r.FieldPos(0)
			}
			return nil, &Error{Kind: KindMalformedRecord, Op: op, File: name, Line: line, Err: err}
		}
		line, _ = r.FieldPos(0)
		rows = append(rows, row[T]{line: line, v: v})
	}
	return rows, nil
}

func checkHeader[T any](header []string) error {
	var zero T
	want, err := csvutil.Header(zero, "csv")
	if err != nil {
		return err
	}
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[strings.TrimSpace(h)] = true
	}
	var missing []string
	for _, w := range want {
		if !have[w] {
			missing = append(missing, w)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// writeRows writes a header and rows to path. The data goes to a temporary
// sibling first and is renamed into place once complete.
func writeRows[T any](path string, rows []T) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	cw := csv.NewWriter(tmp)
	cw.Comma = delimiter
	enc := csvutil.NewEncoder(cw)
	var zero T
	if err := enc.EncodeHeader(zero); err != nil {
		return err
	}
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return err
	}
	committed = true
	return nil
}
