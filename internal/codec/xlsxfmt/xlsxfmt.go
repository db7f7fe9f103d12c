// Package xlsxfmt implements an XLSX workbook codec for transaction
// batches.
//
// The workbook carries a single "Transactions" sheet with the same
// column contract as the CSV format: a mandatory header row matched by
// name (reordering tolerated), one data row per transaction, shared
// numeric and enum tokens. Encoding emits the canonical column order.
package xlsxfmt

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ledgertools/banktx/internal/codec"
	"github.com/ledgertools/banktx/internal/model"
)

// SheetName is the sheet the codec reads and writes.
const SheetName = "Transactions"

// zipMagic is the local-file-header signature every XLSX (ZIP) starts
// with.
var zipMagic = []byte{'P', 'K', 0x03, 0x04}

func init() {
	codec.Register(&Codec{})
}

// Codec implements codec.Codec for XLSX workbooks.
type Codec struct{}

// Name returns the format name.
func (*Codec) Name() string { return "Transaction XLSX" }

// Kind returns codec.XLSX.
func (*Codec) Kind() codec.Kind { return codec.XLSX }

// Extensions returns the file extensions handled by this codec.
func (*Codec) Extensions() []string { return []string{".xlsx"} }

// Match checks the ZIP magic.
func (*Codec) Match(data []byte) bool {
	return len(data) >= len(zipMagic) && bytes.Equal(data[:len(zipMagic)], zipMagic)
}

// Decode parses an XLSX workbook into a batch.
func (*Codec) Decode(data []byte) (*model.Batch, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &codec.FormatError{
			Kind:    codec.UnknownFormat,
			Section: "workbook",
			Reason:  fmt.Sprintf("not a readable XLSX workbook: %v", err),
		}
	}
	defer f.Close()

	sheet := SheetName
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		// Fall back to the first sheet for workbooks produced elsewhere.
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &codec.FormatError{
			Kind:    codec.UnknownFormat,
			Section: "workbook",
			Reason:  fmt.Sprintf("cannot read sheet %q: %v", sheet, err),
		}
	}
	if len(rows) == 0 {
		return nil, codec.NewHeaderError(model.FieldNames(), nil)
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}
	colIndex, ok := matchHeader(header)
	if !ok {
		return nil, codec.NewHeaderError(model.FieldNames(), header)
	}

	var txs []model.Transaction
	for i, row := range rows[1:] {
		rowNo := i + 2 // header is row 1
		if rowEmpty(row) {
			continue
		}
		fields := make(map[string]string, len(colIndex))
		for name, col := range colIndex {
			var v string
			if col < len(row) {
				v = row[col]
			}
			// The memo is free-form; whitespace is only noise in the
			// structured cells.
			if name != "memo" {
				v = strings.TrimSpace(v)
			}
			fields[name] = v
		}
		tx, err := codec.ParseRecord(fields)
		if err != nil {
			var re *codec.RecordError
			if errors.As(err, &re) {
				return nil, codec.NewRowError(rowNo, re.Field, re.Reason)
			}
			return nil, err // *model.ValidationError
		}
		txs = append(txs, tx)
	}

	return model.NewBatch(txs)
}

// Encode serializes a batch into an XLSX workbook with the canonical
// header row on the Transactions sheet.
func (*Codec) Encode(batch *model.Batch) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, err
	}

	names := model.FieldNames()
	headerRow := make([]any, len(names))
	for i, n := range names {
		headerRow[i] = n
	}
	if err := setRow(f, 1, headerRow); err != nil {
		return nil, err
	}

	for i, tx := range batch.Transactions() {
		row := make([]any, len(names))
		for j, n := range names {
			row[j] = tx.Field(n)
		}
		if err := setRow(f, i+2, row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(SheetName, cell, &values)
}

func matchHeader(header []string) (map[string]int, bool) {
	want := model.FieldNames()
	if len(header) != len(want) {
		return nil, false
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := idx[h]; dup {
			return nil, false
		}
		idx[h] = i
	}
	for _, w := range want {
		if _, ok := idx[w]; !ok {
			return nil, false
		}
	}
	return idx, true
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
