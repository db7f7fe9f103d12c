package csvfmt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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
		mustTx(t, 2, model.Payment, -42, `commas, "quotes" and
newlines`),
	)

	data, err := c.Encode(batch)
	require.NoError(t, err)

	decoded, err := c.Decode(data)
	require.NoError(t, err)
	assert.True(t, batch.Equal(decoded))
}

// Carriage returns in memos must survive encoding/csv's CRLF
// normalization inside quoted cells.
func TestRoundTripCarriageReturns(t *testing.T) {
	c := &Codec{}
	batch := mustBatch(t,
		mustTx(t, 1, model.Deposit, 500, "line1\r\nline2"),
		mustTx(t, 2, model.Payment, -42, "trailing\r"),
		mustTx(t, 3, model.Transfer, 7, `back\slash and \r literal`),
	)

	data, err := c.Encode(batch)
	require.NoError(t, err)

	decoded, err := c.Decode(data)
	require.NoError(t, err)
	assert.True(t, batch.Equal(decoded))
}

// Exports from spreadsheet tools often start with a UTF-8 BOM.
func TestDecodeBOMHeader(t *testing.T) {
	input := "\uFEFFid,timestamp,kind,account_from,account_to,amount,currency,status,memo\n" +
		"1,1700000000,DEPOSIT,ACC001,ACC002,500,USD,COMPLETED,hello\n"

	b, err := (&Codec{}).Decode([]byte(input))
	require.NoError(t, err)
	require.Equal(t, 1, b.Len())
	assert.Equal(t, "hello", b.At(0).Memo())
}

func TestEncodeCanonicalHeader(t *testing.T) {
	c := &Codec{}
	data, err := c.Encode(mustBatch(t, mustTx(t, 1, model.Deposit, 500, "")))
	require.NoError(t, err)

	first, _, _ := strings.Cut(string(data), "\n")
	assert.Equal(t, "id,timestamp,kind,account_from,account_to,amount,currency,status,memo", first)
}

// A header with the canonical columns in any order decodes to the same
// batch: columns are matched by name, not position.
func TestDecodeReorderedHeader(t *testing.T) {
	c := &Codec{}

	canonical := "id,timestamp,kind,account_from,account_to,amount,currency,status,memo\n" +
		"1,1700000000,DEPOSIT,ACC001,ACC002,500,USD,COMPLETED,hello\n"
	reversed := "memo,status,currency,amount,account_to,account_from,kind,timestamp,id\n" +
		"hello,COMPLETED,USD,500,ACC002,ACC001,DEPOSIT,1700000000,1\n"

	a, err := c.Decode([]byte(canonical))
	require.NoError(t, err)
	b, err := c.Decode([]byte(reversed))
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}

func TestHeaderMismatch(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"missing column", "id,timestamp,kind,account_from,account_to,amount,currency,status\n"},
		{"renamed column", "id,timestamp,type,account_from,account_to,amount,currency,status,memo\n"},
		{"extra column", "id,timestamp,kind,account_from,account_to,amount,currency,status,memo,extra\n"},
		{"duplicate column", "id,id,kind,account_from,account_to,amount,currency,status,memo\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&Codec{}).Decode([]byte(tt.input))
			require.Error(t, err)
			var fe *codec.FormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, codec.HeaderMismatch, fe.Kind)
			assert.Equal(t, model.FieldNames(), fe.Expected)
		})
	}
}

func TestDecodeStopsAtFirstBadRow(t *testing.T) {
	input := "id,timestamp,kind,account_from,account_to,amount,currency,status,memo\n" +
		"1,1700000000,DEPOSIT,ACC001,ACC002,500,USD,COMPLETED,ok\n" +
		"2,1700000000,DEPOSIT,ACC001,ACC002,oops,USD,COMPLETED,bad\n" +
		"3,1700000000,DEPOSIT,ACC001,ACC002,500,USD,COMPLETED,never reached\n"

	_, err := (&Codec{}).Decode([]byte(input))
	require.Error(t, err)
	var fe *codec.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, codec.MalformedRow, fe.Kind)
	assert.Equal(t, 3, fe.Row, "header is row 1, the bad row is row 3")
	assert.Equal(t, "amount", fe.Field)
}

func TestDecodeWrongCellCount(t *testing.T) {
	input := "id,timestamp,kind,account_from,account_to,amount,currency,status,memo\n" +
		"1,1700000000,DEPOSIT,ACC001,ACC002,500,USD,COMPLETED\n"

	_, err := (&Codec{}).Decode([]byte(input))
	require.Error(t, err)
	var fe *codec.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, codec.MalformedRow, fe.Kind)
	assert.Equal(t, 2, fe.Row)
}

func TestDecodePropagatesValidation(t *testing.T) {
	input := "id,timestamp,kind,account_from,account_to,amount,currency,status,memo\n" +
		"1,1700000000,DEPOSIT,ACC001,ACC001,500,USD,COMPLETED,self\n"

	_, err := (&Codec{}).Decode([]byte(input))
	require.Error(t, err)
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "account_to", ve.Field)
}

func TestDuplicateIDsRejected(t *testing.T) {
	input := "id,timestamp,kind,account_from,account_to,amount,currency,status,memo\n" +
		"1,1700000000,DEPOSIT,ACC001,ACC002,500,USD,COMPLETED,a\n" +
		"1,1700000000,DEPOSIT,ACC001,ACC002,600,USD,COMPLETED,b\n"

	_, err := (&Codec{}).Decode([]byte(input))
	require.Error(t, err)
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "id", ve.Field)
}

func TestHeaderOnlyDecodesToEmptyBatch(t *testing.T) {
	input := "id,timestamp,kind,account_from,account_to,amount,currency,status,memo\n"
	b, err := (&Codec{}).Decode([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, 0, b.Len())
}

func TestMatch(t *testing.T) {
	c := &Codec{}
	assert.True(t, c.Match([]byte("id,timestamp,kind,account_from,account_to,amount,currency,status,memo\n1,...")))
	assert.True(t, c.Match([]byte("memo,status,currency,amount,account_to,account_from,kind,timestamp,id\n")))
	assert.False(t, c.Match([]byte("1|2|DEPOSIT|a|b|5|USD|PENDING|\n")))
	assert.False(t, c.Match([]byte("a,b,c\n")))
}
