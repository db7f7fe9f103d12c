package xlsxfmt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ledgertools/banktx/internal/codec"
	"github.com/ledgertools/banktx/internal/model"
)

func mustTx(t *testing.T, id uint64, kind model.Kind, amount int64, memo string) model.Transaction {
	t.Helper()
	tx, err := model.NewTransaction(id, 1700000000, "ACC001", "ACC002", amount, "USD", kind, model.Completed, memo)
	require.NoError(t, err)
	return tx
}

func mustBatch(t *testing.T, txs ...model.Transaction) *model.Batch {
	t.Helper()
	b, err := model.NewBatch(txs)
	require.NoError(t, err)
	return b
}

func TestRoundTrip(t *testing.T) {
	c := &Codec{}
	batch := mustBatch(t,
		mustTx(t, 1, model.Deposit, 500, "plain"),
		mustTx(t, 2, model.Payment, -42, "second row"),
		mustTx(t, 3, model.Reversal, 0, ""),
	)

	data, err := c.Encode(batch)
	require.NoError(t, err)

	decoded, err := c.Decode(data)
	require.NoError(t, err)
	assert.True(t, batch.Equal(decoded))
}

// Memo whitespace is significant; only the structured cells are
// trimmed on decode.
func TestRoundTripPaddedMemo(t *testing.T) {
	c := &Codec{}
	batch := mustBatch(t, mustTx(t, 1, model.Deposit, 500, "  padded memo  "))

	data, err := c.Encode(batch)
	require.NoError(t, err)

	decoded, err := c.Decode(data)
	require.NoError(t, err)
	require.Equal(t, 1, decoded.Len())
	assert.Equal(t, "  padded memo  ", decoded.At(0).Memo())
}

func TestMatchZipMagic(t *testing.T) {
	c := &Codec{}
	data, err := c.Encode(mustBatch(t, mustTx(t, 1, model.Deposit, 500, "")))
	require.NoError(t, err)

	assert.True(t, c.Match(data))
	assert.False(t, c.Match([]byte("id,timestamp\n")))
	assert.False(t, c.Match([]byte("PK")))
}

// Workbooks written by other software may reorder columns; they are
// matched by name like the CSV format.
func TestDecodeReorderedHeader(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), SheetName))

	header := []any{"memo", "status", "currency", "amount", "account_to", "account_from", "kind", "timestamp", "id"}
	row := []any{"hello", "COMPLETED", "USD", "500", "ACC002", "ACC001", "DEPOSIT", "1700000000", "1"}
	require.NoError(t, f.SetSheetRow(SheetName, "A1", &header))
	require.NoError(t, f.SetSheetRow(SheetName, "A2", &row))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	b, err := (&Codec{}).Decode(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, 1, b.Len())
	assert.Equal(t, uint64(1), b.At(0).ID())
	assert.Equal(t, "hello", b.At(0).Memo())
}

func TestDecodeHeaderMismatch(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), SheetName))
	header := []any{"id", "timestamp", "kind"}
	require.NoError(t, f.SetSheetRow(SheetName, "A1", &header))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	_, err := (&Codec{}).Decode(buf.Bytes())
	require.Error(t, err)
	var fe *codec.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, codec.HeaderMismatch, fe.Kind)
}

func TestDecodeStopsAtFirstBadRow(t *testing.T) {
	c := &Codec{}
	batch := mustBatch(t, mustTx(t, 1, model.Deposit, 500, "ok"))
	data, err := c.Encode(batch)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	bad := []any{"2", "1700000000", "GIFT", "ACC001", "ACC002", "500", "USD", "COMPLETED", ""}
	require.NoError(t, f.SetSheetRow(SheetName, "A3", &bad))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	_, err = c.Decode(buf.Bytes())
	require.Error(t, err)
	var fe *codec.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, codec.MalformedRow, fe.Kind)
	assert.Equal(t, 3, fe.Row)
	assert.Equal(t, "kind", fe.Field)
}

func TestDecodeNotAWorkbook(t *testing.T) {
	// ZIP magic but not a workbook.
	_, err := (&Codec{}).Decode([]byte("PK\x03\x04garbage"))
	require.Error(t, err)
	var fe *codec.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, codec.UnknownFormat, fe.Kind)
}
