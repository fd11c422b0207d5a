// Package transfer moves contacts in and out of the book as JSON or CSV files.
package transfer

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"rhystmorgan/contactbook/internal/models"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

const exportVersion = "1.0"

var ErrUnsupportedFormat = errors.New("unsupported format")

// ParseFormat accepts "json" or "csv" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnsupportedFormat, s)
	}
}

// FormatFromPath guesses the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return FormatCSV
	}
	return FormatJSON
}

// Record is one contact as it appears in an export. Ids are not carried:
// imported contacts get fresh ids from the book.
type Record struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

func (r Record) empty() bool {
	return r.Name == "" && r.Phone == "" && r.Email == ""
}

type exportFile struct {
	ExportedAt    time.Time `json:"exported_at"`
	Version       string    `json:"version"`
	TotalContacts int       `json:"total_contacts"`
	Contacts      []Record  `json:"contacts"`
}

var csvHeader = []string{"name", "phone", "email"}

type Exporter struct {
	format Format
	now    func() time.Time
}

func NewExporter(format Format) *Exporter {
	return &Exporter{format: format, now: time.Now}
}

// Export writes contacts to w in list order.
func (e *Exporter) Export(w io.Writer, contacts []models.Contact) error {
	records := make([]Record, 0, len(contacts))
	for _, c := range contacts {
		records = append(records, Record{Name: c.Name, Phone: c.Phone, Email: c.Email})
	}

	switch e.format {
	case FormatJSON:
		return e.exportJSON(w, records)
	case FormatCSV:
		return e.exportCSV(w, records)
	default:
		return fmt.Errorf("%w %q", ErrUnsupportedFormat, e.format)
	}
}

func (e *Exporter) exportJSON(w io.Writer, records []Record) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(exportFile{
		ExportedAt:    e.now().UTC(),
		Version:       exportVersion,
		TotalContacts: len(records),
		Contacts:      records,
	}); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func (e *Exporter) exportCSV(w io.Writer, records []Record) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range records {
		if err := writer.Write([]string{r.Name, r.Phone, r.Email}); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ImportResult summarises an import.
type ImportResult struct {
	Total    int
	Imported int
	Skipped  int
	Warnings []string
}

type Importer struct {
	format Format
}

func NewImporter(format Format) *Importer {
	return &Importer{format: format}
}

// Import reads records from r. Rows with no name, phone or email are skipped
// with a warning; nothing else is checked.
func (i *Importer) Import(r io.Reader) (*ImportResult, []Record, error) {
	var (
		records []Record
		err     error
	)
	switch i.format {
	case FormatJSON:
		records, err = importJSON(r)
	case FormatCSV:
		records, err = importCSV(r)
	default:
		return nil, nil, fmt.Errorf("%w %q", ErrUnsupportedFormat, i.format)
	}
	if err != nil {
		return nil, nil, err
	}

	result := &ImportResult{Total: len(records)}
	kept := make([]Record, 0, len(records))
	for idx, rec := range records {
		if rec.empty() {
			result.Warnings = append(result.Warnings, fmt.Sprintf("record %d: empty, skipped", idx+1))
			continue
		}
		kept = append(kept, rec)
	}
	result.Imported = len(kept)
	result.Skipped = result.Total - result.Imported
	return result, kept, nil
}

// importJSON accepts an export file or a bare list of records.
func importJSON(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var records []Record
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("failed to decode JSON: %w", err)
		}
		return records, nil
	}

	var file exportFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}
	return file.Contacts, nil
}

func importCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("empty CSV file")
	}

	columns := make(map[string]int)
	for idx, col := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(col))] = idx
	}
	if _, ok := columns["name"]; !ok {
		return nil, errors.New("CSV header has no name column")
	}

	field := func(row []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, Record{
			Name:  field(row, "name"),
			Phone: field(row, "phone"),
			Email: field(row, "email"),
		})
	}
	return records, nil
}

// DropExisting removes records that exactly match a contact already in the
// book, and returns how many were dropped.
func DropExisting(records []Record, existing []models.Contact) ([]Record, int) {
	seen := make(map[Record]struct{}, len(existing))
	for _, c := range existing {
		seen[Record{Name: c.Name, Phone: c.Phone, Email: c.Email}] = struct{}{}
	}

	kept := records[:0:0]
	for _, r := range records {
		if _, dup := seen[r]; dup {
			continue
		}
		kept = append(kept, r)
	}
	return kept, len(records) - len(kept)
}
