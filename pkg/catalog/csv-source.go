package catalog

import (
	"encoding/csv"
	"io"
	"os"
)

// CSVSource reads catalog rows from CSV with a header row, the format the
// questionnaire is shipped in.
type CSVSource struct {
	reader io.Reader
}

func NewCSVSource(reader io.Reader) *CSVSource {
	return &CSVSource{reader: reader}
}

func (s *CSVSource) Rows() ([]Row, error) {
	r := csv.NewReader(s.reader)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return nil, err
	}

	var rows []Row
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := Row{}
		for i, value := range record {
			if i >= len(header) {
				break
			}
			row[header[i]] = value
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// FileSource reads the CSV catalog from a file path on every Rows call.
type FileSource struct {
	Path string
}

func (s FileSource) Rows() ([]Row, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return NewCSVSource(f).Rows()
}
