// Package binfmt implements the compact framed binary transaction
// format (BTXF).
//
// Layout, all integers big-endian:
//
//	header : magic "BTXF" (4 bytes) | version (1 byte, 0x01) | record count (u32)
//	records: count records back to back
//	record : id u64 | timestamp i64 | kind u8 | status u8 | amount i64 |
//	         currency 3 ASCII bytes | account_from | account_to | memo
//	         (strings as u16 length prefix + UTF-8 bytes)
//	trailer: CRC-32 (IEEE) over the records section (u32)
//
// This layout is a durable external contract: any change bumps the
// version byte, and bytes with an unknown version fail with
// UnsupportedVersion rather than being guessed at.
//
// The checksum is verified over the whole records section before any
// record is materialized, so a flipped byte can never surface as a
// misparsed transaction. Input longer than the declared frame fails
// with TrailingData; shorter fails with TruncatedInput.
package binfmt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"unicode/utf8"

	"github.com/ledgertools/banktx/internal/codec"
	"github.com/ledgertools/banktx/internal/model"
)

// Magic identifies a BTXF stream.
var Magic = [4]byte{'B', 'T', 'X', 'F'}

// Version is the current format version byte.
const Version = 0x01

const headerLen = 4 + 1 + 4

const trailerLen = 4

// minRecordLen is the smallest possible record: all fixed fields plus
// three empty length-prefixed strings.
const minRecordLen = 8 + 8 + 1 + 1 + 8 + 3 + 2 + 2 + 2

func init() {
	codec.Register(&Codec{})
}

// Codec implements codec.Codec for the binary format.
type Codec struct{}

// Name returns the format name.
func (*Codec) Name() string { return "Transaction Binary (BTXF)" }

// Kind returns codec.Binary.
func (*Codec) Kind() codec.Kind { return codec.Binary }

// Extensions returns the file extensions handled by this codec.
func (*Codec) Extensions() []string { return []string{".btx", ".bin"} }

// Match checks the magic bytes.
func (*Codec) Match(data []byte) bool {
	return len(data) >= len(Magic) && bytes.Equal(data[:len(Magic)], Magic[:])
}

// Encode serializes a batch into one BTXF frame. It is total for any
// valid batch and deterministic.
func (*Codec) Encode(batch *model.Batch) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(Magic[:])
	buf.WriteByte(Version)

	var count [4]byte
	binary.BigEndian.PutUint32(count[:], uint32(batch.Len()))
	buf.Write(count[:])

	var records bytes.Buffer
	for _, tx := range batch.Transactions() {
		writeRecord(&records, tx)
	}
	buf.Write(records.Bytes())

	var sum [4]byte
	binary.BigEndian.PutUint32(sum[:], crc32.ChecksumIEEE(records.Bytes()))
	buf.Write(sum[:])

	return buf.Bytes(), nil
}

func writeRecord(w *bytes.Buffer, tx model.Transaction) {
	var scratch [8]byte

	binary.BigEndian.PutUint64(scratch[:], tx.ID())
	w.Write(scratch[:8])
	binary.BigEndian.PutUint64(scratch[:], uint64(tx.Timestamp()))
	w.Write(scratch[:8])
	w.WriteByte(tx.Kind().Code())
	w.WriteByte(tx.Status().Code())
	binary.BigEndian.PutUint64(scratch[:], uint64(tx.Amount()))
	w.Write(scratch[:8])
	w.WriteString(tx.Currency()) // validated [A-Z]{3}, exactly 3 bytes
	writeString(w, tx.AccountFrom())
	writeString(w, tx.AccountTo())
	writeString(w, tx.Memo())
}

func writeString(w *bytes.Buffer, s string) {
	var l [2]byte
	binary.BigEndian.PutUint16(l[:], uint16(len(s)))
	w.Write(l[:])
	w.WriteString(s)
}

// Decode parses one BTXF frame back into a batch.
func (*Codec) Decode(data []byte) (*model.Batch, error) {
	if len(data) < len(Magic) {
		return nil, codec.NewBinaryError(codec.TruncatedInput, "header", len(data),
			"input shorter than magic")
	}
	if !bytes.Equal(data[:len(Magic)], Magic[:]) {
		return nil, codec.NewBinaryError(codec.BadMagic, "header", 0,
			fmt.Sprintf("expected %q, got %q", Magic[:], data[:len(Magic)]))
	}
	if len(data) < headerLen {
		return nil, codec.NewBinaryError(codec.TruncatedInput, "header", len(data),
			"input shorter than header")
	}
	if v := data[4]; v != Version {
		return nil, codec.NewBinaryError(codec.UnsupportedVersion, "header", 4,
			fmt.Sprintf("version %#02x, this build reads %#02x", v, Version))
	}
	count := binary.BigEndian.Uint32(data[5:9])

	if len(data) < headerLen+trailerLen {
		return nil, codec.NewBinaryError(codec.TruncatedInput, "trailer", len(data),
			"input too short for checksum trailer")
	}
	records := data[headerLen : len(data)-trailerLen]
	want := binary.BigEndian.Uint32(data[len(data)-trailerLen:])

	// The declared count bounds the records section from below. This
	// catches most physical truncations with a precise error, and keeps
	// a hostile count from driving the preallocation below.
	if uint64(len(records)) < uint64(count)*minRecordLen {
		return nil, codec.NewBinaryError(codec.TruncatedInput, "records", len(data),
			fmt.Sprintf("%d bytes cannot hold the declared %d records", len(records), count))
	}

	// Verify integrity before materializing anything.
	if got := crc32.ChecksumIEEE(records); got != want {
		return nil, codec.NewBinaryError(codec.ChecksumMismatch, "trailer", len(data)-trailerLen,
			fmt.Sprintf("computed %#08x, stored %#08x", got, want))
	}

	r := &reader{data: records, base: headerLen}
	txs := make([]model.Transaction, 0, count)
	for i := uint32(0); i < count; i++ {
		tx, err := r.readRecord()
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	if r.pos != len(records) {
		return nil, codec.NewBinaryError(codec.TrailingData, "records", r.base+r.pos,
			fmt.Sprintf("%d bytes after the declared %d records", len(records)-r.pos, count))
	}

	return model.NewBatch(txs)
}

// reader walks the records section, translating short reads into
// TruncatedInput with the absolute byte offset.
type reader struct {
	data []byte
	pos  int
	base int
}

func (r *reader) need(n int, what string) ([]byte, error) {
	if r.pos+n > len(r.data) {
		return nil, codec.NewBinaryError(codec.TruncatedInput, "records", r.base+r.pos,
			"input ends inside "+what)
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *reader) readRecord() (model.Transaction, error) {
	b, err := r.need(8, "id")
	if err != nil {
		return model.Transaction{}, err
	}
	id := binary.BigEndian.Uint64(b)

	if b, err = r.need(8, "timestamp"); err != nil {
		return model.Transaction{}, err
	}
	ts := int64(binary.BigEndian.Uint64(b))

	if b, err = r.need(1, "kind"); err != nil {
		return model.Transaction{}, err
	}
	kind, ok := model.KindFromCode(b[0])
	if !ok {
		return model.Transaction{}, codec.NewBinaryError(codec.MalformedRow, "records", r.base+r.pos-1,
			fmt.Sprintf("unknown kind code %#02x", b[0]))
	}

	if b, err = r.need(1, "status"); err != nil {
		return model.Transaction{}, err
	}
	status, ok := model.StatusFromCode(b[0])
	if !ok {
		return model.Transaction{}, codec.NewBinaryError(codec.MalformedRow, "records", r.base+r.pos-1,
			fmt.Sprintf("unknown status code %#02x", b[0]))
	}

	if b, err = r.need(8, "amount"); err != nil {
		return model.Transaction{}, err
	}
	amount := int64(binary.BigEndian.Uint64(b))

	if b, err = r.need(3, "currency"); err != nil {
		return model.Transaction{}, err
	}
	currency := string(b)

	from, err := r.readString("account_from")
	if err != nil {
		return model.Transaction{}, err
	}
	to, err := r.readString("account_to")
	if err != nil {
		return model.Transaction{}, err
	}
	memo, err := r.readString("memo")
	if err != nil {
		return model.Transaction{}, err
	}

	return model.NewTransaction(id, ts, from, to, amount, currency, kind, status, memo)
}

func (r *reader) readString(what string) (string, error) {
	b, err := r.need(2, what+" length")
	if err != nil {
		return "", err
	}
	n := int(binary.BigEndian.Uint16(b))
	if b, err = r.need(n, what); err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", codec.NewBinaryError(codec.MalformedRow, "records", r.base+r.pos-n,
			what+" is not valid UTF-8")
	}
	return string(b), nil
}
