package schema

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Description documents one column.
type Description struct {
	Description      string `json:"description"`
	ValueDescription string `json:"value_description"`
}

// Descriptions maps table name to column name to description.
type Descriptions map[string]map[string]Description

// DescriptionDir is the directory next to a database file that holds one
// CSV per table.
const DescriptionDir = "database_description"

// CSV header names.
const (
	colOriginalName     = "original_column_name"
	colDescription      = "column_description"
	colValueDescription = "value_description"
)

// descriptionEncodings are tried in order. The UTF-8 decoder strips a
// leading BOM and is only used when the input is valid UTF-8.
var descriptionEncodings = []struct {
	name      string
	enc       encoding.Encoding
	needsUTF8 bool
}{
	{"utf-8", unicode.UTF8BOM, true},
	{"iso-8859-1", charmap.ISO8859_1, false},
	{"windows-1252", charmap.Windows1252, false},
}

// LoadDescriptions reads every *.csv file in dir. The file stem names the
// table. A missing directory yields no descriptions and no error. Files
// that cannot be read are skipped and reported in the joined error, while
// the descriptions of every other file are still returned.
func LoadDescriptions(dir string) (Descriptions, error) {
	descs := make(Descriptions)

	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return descs, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return descs, fmt.Errorf("listing %s: %w", dir, err)
	}

	var errs []error
	for _, file := range files {
		table := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		cols, err := readDescriptionFile(file)
		if err != nil {
			errs = append(errs, fmt.Errorf("reading %s: %w", file, err))
			continue
		}
		descs[table] = cols
	}

	return descs, errors.Join(errs...)
}

func readDescriptionFile(path string) (map[string]Description, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text, err := decodeText(raw)
	if err != nil {
		return nil, err
	}
	return ParseDescriptions(strings.NewReader(text))
}

// decodeText returns raw as a UTF-8 string using the first encoding that
// accepts it.
func decodeText(raw []byte) (string, error) {
	for _, candidate := range descriptionEncodings {
		if candidate.needsUTF8 && !utf8.Valid(raw) {
			continue
		}
		out, err := candidate.enc.NewDecoder().Bytes(raw)
		if err == nil {
			return string(out), nil
		}
	}
	return "", errors.New("no supported text encoding")
}

// ParseDescriptions parses one description CSV. Rows without an
// original_column_name are skipped.
func ParseDescriptions(r io.Reader) (map[string]Description, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return map[string]Description{}, nil
	}
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	cols := make(map[string]Description)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		name := field(record, colOriginalName)
		if name == "" {
			continue
		}
		cols[name] = Description{
			Description:      field(record, colDescription),
			ValueDescription: field(record, colValueDescription),
		}
	}
	return cols, nil
}
