package casestudy

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
)

// Filename is the name offered when a result set is downloaded.
const Filename = "charitycomms_case_studies.csv"

// ContentType is the media type of the CSV encoding.
const ContentType = "text/csv; charset=utf-8"

// ErrBadHeader is returned by ReadCSV when the first row is not Columns.
var ErrBadHeader = errors.New("unexpected CSV header")

// WriteCSV encodes studies as UTF-8 CSV with a header row and one row per
// study.
func WriteCSV(w io.Writer, studies []CaseStudy) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i, study := range studies {
		if err := cw.Write(study.Row()); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// MarshalCSV returns the CSV encoding of studies.
func MarshalCSV(studies []CaseStudy) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, studies); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadCSV decodes what WriteCSV produced. Empty Title, Summary and URL cells
// decode to nil.
func ReadCSV(r io.Reader) ([]CaseStudy, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Columns)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty input", ErrBadHeader)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if !slices.Equal(header, Columns) {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, header)
	}

	studies := []CaseStudy{}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		studies = append(studies, New(
			optional(record[0]),
			optional(record[1]),
			optional(record[2]),
			record[3],
		))
	}

	return studies, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
