package textfmt

import (
	"fmt"
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
		mustTx(t, 1, model.Deposit, 500, "plain memo"),
		mustTx(t, 2, model.Payment, -1200, "pipes | and \\ backslashes"),
		mustTx(t, 3, model.Transfer, 77, "multi\nline"),
		mustTx(t, 4, model.Reversal, 0, ""),
	)

	data, err := c.Encode(batch)
	require.NoError(t, err)

	decoded, err := c.Decode(data)
	require.NoError(t, err)
	assert.True(t, batch.Equal(decoded), "round-trip must preserve every field and the order")
}

// Carriage returns in memos travel as the `\r` escape, so they survive
// both the round trip and CRLF line-ending normalization.
func TestRoundTripCarriageReturns(t *testing.T) {
	c := &Codec{}
	batch := mustBatch(t,
		mustTx(t, 1, model.Deposit, 500, "trailing\r"),
		mustTx(t, 2, model.Payment, -42, "crlf\r\ninside"),
	)

	data, err := c.Encode(batch)
	require.NoError(t, err)
	decoded, err := c.Decode(data)
	require.NoError(t, err)
	assert.True(t, batch.Equal(decoded))
}

func TestDecodeCRLFLineEndings(t *testing.T) {
	input := "1|1700000000|DEPOSIT|ACC001|ACC002|500|USD|COMPLETED|x\r\n" +
		"2|1700000000|WITHDRAWAL|ACC002|ACC001|-200|EUR|PENDING|y\r\n"

	b, err := (&Codec{}).Decode([]byte(input))
	require.NoError(t, err)
	require.Equal(t, 2, b.Len())
	assert.Equal(t, "x", b.At(0).Memo())
	assert.Equal(t, "y", b.At(1).Memo())
}

func TestEncodeDeterministic(t *testing.T) {
	c := &Codec{}
	batch := mustBatch(t, mustTx(t, 1, model.Deposit, 500, "memo"))

	a, err := c.Encode(batch)
	require.NoError(t, err)
	b, err := c.Encode(batch)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDecodeSkipsBlanksAndComment(t *testing.T) {
	input := "# exported 2026-01-02\n" +
		"\n" +
		"1|1700000000|DEPOSIT|ACC001|ACC002|500|USD|COMPLETED|hello\n" +
		"\n" +
		"2|1700000001|WITHDRAWAL|ACC002|ACC001|-200|EUR|PENDING|\n"

	b, err := (&Codec{}).Decode([]byte(input))
	require.NoError(t, err)
	require.Equal(t, 2, b.Len())
	assert.Equal(t, "hello", b.At(0).Memo())
	assert.Equal(t, model.Withdrawal, b.At(1).Kind())
}

func TestDecodeStopsAtFirstFault(t *testing.T) {
	// Lines 1-4 valid, line 5 malformed: decode must fail naming line 5
	// and never return the four valid transactions.
	var lines []string
	for i := 1; i <= 4; i++ {
		lines = append(lines, fmt.Sprintf("%d|1700000000|DEPOSIT|ACC001|ACC002|500|USD|COMPLETED|ok", i))
	}
	lines = append(lines, "5|1700000000|DEPOSIT|ACC001|ACC002|not-a-number|USD|COMPLETED|bad")

	_, err := (&Codec{}).Decode([]byte(strings.Join(lines, "\n") + "\n"))
	require.Error(t, err)
	var fe *codec.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, codec.MalformedLine, fe.Kind)
	assert.Equal(t, 5, fe.Line)
	assert.Contains(t, fe.Reason, "amount")
}

func TestDecodeFaults(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		reason string
	}{
		{"wrong field count", "1|1700000000|DEPOSIT|ACC001|ACC002|500|USD|COMPLETED", "field count"},
		{"bad kind token", "1|1700000000|GIFT|ACC001|ACC002|500|USD|COMPLETED|x", "kind"},
		{"bad status token", "1|1700000000|DEPOSIT|ACC001|ACC002|500|USD|DONE|x", "status"},
		{"bad id", "x|1700000000|DEPOSIT|ACC001|ACC002|500|USD|COMPLETED|x", "id"},
		{"dangling escape", `1|1700000000|DEPOSIT|ACC001|ACC002|500|USD|COMPLETED|memo\`, "escape"},
		{"bad escape", `1|1700000000|DEPOSIT|ACC001|ACC002|500|USD|COMPLETED|me\mo`, "escape"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&Codec{}).Decode([]byte(tt.line + "\n"))
			require.Error(t, err)
			var fe *codec.FormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, codec.MalformedLine, fe.Kind)
			assert.Equal(t, 1, fe.Line)
			assert.Contains(t, fe.Reason, tt.reason)
		})
	}
}

func TestDecodePropagatesValidation(t *testing.T) {
	// Structurally fine, domain-invalid: lowercase currency.
	line := "1|1700000000|DEPOSIT|ACC001|ACC002|500|usd|COMPLETED|x\n"
	_, err := (&Codec{}).Decode([]byte(line))
	require.Error(t, err)
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "currency", ve.Field)
}

func TestDecodeRejectsLateComment(t *testing.T) {
	input := "1|1700000000|DEPOSIT|ACC001|ACC002|500|USD|COMPLETED|x\n" +
		"# not allowed here\n"
	_, err := (&Codec{}).Decode([]byte(input))
	var fe *codec.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 2, fe.Line)
}

func TestMatch(t *testing.T) {
	c := &Codec{}
	assert.True(t, c.Match([]byte("1|1700000000|DEPOSIT|ACC001|ACC002|500|USD|COMPLETED|x\n")))
	assert.True(t, c.Match([]byte("# comment\n1|2|DEPOSIT|a|b|5|USD|PENDING|\n")))
	// Blank lines before the comment are fine, as in Decode.
	assert.True(t, c.Match([]byte("\n# comment\n1|2|DEPOSIT|a|b|5|USD|PENDING|\n")))
	assert.False(t, c.Match([]byte("id,timestamp,kind\n")))
	assert.False(t, c.Match([]byte("")))
	assert.False(t, c.Match([]byte("BTXF\x01")))
}

func TestEmptyInputDecodesToEmptyBatch(t *testing.T) {
	b, err := (&Codec{}).Decode(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, b.Len())
}
