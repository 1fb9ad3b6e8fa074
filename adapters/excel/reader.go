package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/core"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/dataset"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/internal"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/ports"
)

// DataReader reads feature and metadata tables from CSV, TSV and Excel files. It implements
// ports.TableReader.
type DataReader struct {
	logger *internal.Logger
}

var _ ports.TableReader = (*DataReader)(nil)

// NewDataReader creates a reader; a nil logger falls back to internal.DefaultLogger
func NewDataReader(logger *internal.Logger) *DataReader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DataReader{logger: logger}
}

// ReadFeatureTable reads a sample x feature intensity table. The first column holds sample
// ids and the header row holds feature ids; with opts.Transpose the roles are swapped.
func (r *DataReader) ReadFeatureTable(path string, opts ports.TableReadOptions) (*dataset.FeatureTable, error) {
	raw, err := r.ReadFile(path, opts.Sheet)
	if err != nil {
		return nil, err
	}
	return ParseFeatureTable(raw, opts.Transpose)
}

// ReadMetadataTable reads a sample x attribute table; the first column holds sample ids.
func (r *DataReader) ReadMetadataTable(path string, opts ports.TableReadOptions) (*dataset.MetadataTable, error) {
	raw, err := r.ReadFile(path, opts.Sheet)
	if err != nil {
		return nil, err
	}
	return ParseMetadataTable(raw)
}

// ReadFile loads any supported file into a RawTable
func (r *DataReader) ReadFile(path, sheet string) (*RawTable, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: file %s", core.ErrTableNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return r.Read(filepath.Base(path), f, sheet)
}

// Read parses src according to the format implied by name. Uploaded files go through here.
func (r *DataReader) Read(name string, src io.Reader, sheet string) (*RawTable, error) {
	start := time.Now()
	format := DetectFormat(name)

	var rows [][]string
	var err error
	switch format {
	case FormatXLSX:
		rows, err = readExcelRows(src, sheet)
	case FormatTSV:
		rows, err = readDelimitedRows(src, '\t')
	default:
		rows, err = readDelimitedRows(src, ',')
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s file %s: %w", format, name, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: %s must have a header row and at least one data row", core.ErrEmptyTable, name)
	}

	raw := processRows(name, rows)
	r.logger.Debug("[DataReader] %s read in %.2fms (%d columns, %d rows)",
		name, float64(time.Since(start).Nanoseconds())/1e6, len(raw.Headers), len(raw.Rows))
	return raw, nil
}

func readExcelRows(src io.Reader, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	return f.GetRows(sheet)
}

func readDelimitedRows(src io.Reader, comma rune) ([][]string, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader.ReadAll()
}

// processRows trims every cell, drops blank lines and pads short rows to the header width.
func processRows(name string, rows [][]string) *RawTable {
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}
	// spreadsheets often carry empty trailing header cells
	for len(headers) > 0 && headers[len(headers)-1] == "" {
		headers = headers[:len(headers)-1]
	}

	raw := &RawTable{Name: name, Headers: headers}
	for _, row := range rows[1:] {
		cells := make([]string, len(headers))
		blank := true
		for j := range headers {
			if j < len(row) {
				cells[j] = strings.TrimSpace(row[j])
			}
			if cells[j] != "" {
				blank = false
			}
		}
		if !blank {
			raw.Rows = append(raw.Rows, cells)
		}
	}
	return raw
}

// ParseFeatureTable converts a raw table into intensities. Missing markers become NaN; any
// other non-numeric cell is an error naming its position.
func ParseFeatureTable(raw *RawTable, transpose bool) (*dataset.FeatureTable, error) {
	if len(raw.Headers) < 2 {
		return nil, fmt.Errorf("%w: %s has no value columns", core.ErrEmptyTable, raw.Name)
	}

	rowIDs := make([]string, len(raw.Rows))
	cells := make([][]float64, len(raw.Rows))
	for i, row := range raw.Rows {
		rowIDs[i] = row[0]
		cells[i] = make([]float64, len(raw.Headers)-1)
		for j, cell := range row[1:] {
			v, err := parseIntensity(cell)
			if err != nil {
				return nil, core.NewValidationError(raw.Name,
					fmt.Sprintf("row %q column %q: %v", row[0], raw.Headers[j+1], err))
			}
			cells[i][j] = v
		}
	}
	colIDs := raw.Headers[1:]

	if !transpose {
		return dataset.NewFeatureTable(raw.Name, rowIDs, colIDs, cells)
	}

	values := make([][]float64, len(colIDs))
	for s := range colIDs {
		values[s] = make([]float64, len(rowIDs))
		for f := range rowIDs {
			values[s][f] = cells[f][s]
		}
	}
	return dataset.NewFeatureTable(raw.Name, colIDs, rowIDs, values)
}

// ParseMetadataTable keeps cells as strings; the first column is the sample id.
func ParseMetadataTable(raw *RawTable) (*dataset.MetadataTable, error) {
	if len(raw.Headers) < 2 {
		return nil, fmt.Errorf("%w: %s has no attribute columns", core.ErrEmptyTable, raw.Name)
	}
	ids := make([]string, len(raw.Rows))
	values := make([][]string, len(raw.Rows))
	for i, row := range raw.Rows {
		ids[i] = row[0]
		values[i] = row[1:]
	}
	return dataset.NewMetadataTable(raw.Name, ids, raw.Headers[1:], values)
}

func parseIntensity(cell string) (float64, error) {
	if numericMissing[strings.ToLower(cell)] {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", cell)
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("not a finite intensity: %q", cell)
	}
	return v, nil
}
