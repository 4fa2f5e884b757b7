package csvtable

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/domonda/go-types/charset"
	"github.com/mattn/go-runewidth"

	"github.com/domonda/go-datagrid"
)

// Encoder is an interface to encode byte strings.
type Encoder interface {
	Bytes([]byte) ([]byte, error)
}

// EncoderFunc implements the Encoder interface for a function.
type EncoderFunc func([]byte) ([]byte, error)

func (f EncoderFunc) Bytes(data []byte) ([]byte, error) {
	return f(data)
}

// PassthroughEncoder returns an Encoder that returns the passed data unchanged.
func PassthroughEncoder() Encoder {
	return EncoderFunc(func(data []byte) ([]byte, error) {
		return data, nil
	})
}

type Padding int

const (
	NoPadding Padding = iota
	AlignLeft
	AlignRight
	AlignCenter
)

// Writer writes records as CSV using the cell formatter
// cascade of the columns, like the export of the
// filtered view of a datagrid.Store.
type Writer struct {
	typeFormatters   datagrid.CellFormatter
	padding          Padding
	headerRow        bool
	quoteAllFields   bool
	quoteEmptyFields bool
	escapeQuotes     string
	nilValue         string
	delimiter        rune
	newLine          string
	encoder          Encoder
	logger           *slog.Logger
}

func NewWriter() *Writer {
	return &Writer{
		typeFormatters: datagrid.DefaultTypeFormatters,
		padding:        NoPadding,
		headerRow:      true,
		escapeQuotes:   `""`,
		delimiter:      ';',
		newLine:        "\r\n",
		logger:         slog.Default(),
	}
}

func (w *Writer) clone() *Writer {
	c := new(Writer)
	*c = *w
	return c
}

// Write writes records for the columns to dest.
func (w *Writer) Write(ctx context.Context, dest io.Writer, columns []*datagrid.Column, records []datagrid.Record) error {
	rows, err := w.Strings(ctx, columns, records)
	if err != nil {
		return err
	}
	var colWidths []int
	if w.padding != NoPadding {
		colWidths = datagrid.StringColumnWidths(rows, len(columns))
	}
	rowBuf := bytes.NewBuffer(make([]byte, 0, 1024))
	for _, row := range rows {
		for col, str := range row {
			if col > 0 {
				rowBuf.WriteRune(w.delimiter)
			}
			if colWidths == nil {
				rowBuf.WriteString(str)
				continue
			}
			var (
				padTotal = colWidths[col] - runewidth.StringWidth(str)
				padLeft  = 0
				padRight = 0
			)
			switch w.padding {
			case AlignLeft:
				padRight = padTotal
			case AlignRight:
				padLeft = padTotal
			case AlignCenter:
				padLeft = padTotal / 2
				padRight = (padTotal + 1) / 2
			}
			rowBuf.WriteString(strings.Repeat(" ", max(padLeft, 0)))
			rowBuf.WriteString(str)
			rowBuf.WriteString(strings.Repeat(" ", max(padRight, 0)))
		}
		rowBuf.WriteString(w.newLine)

		if w.encoder != nil {
			encoded, err := w.encoder.Bytes(rowBuf.Bytes())
			if err != nil {
				return err
			}
			rowBuf.Reset()
			rowBuf.Write(encoded)
		}
		if _, err := dest.Write(rowBuf.Bytes()); err != nil {
			return err
		}
		rowBuf.Reset()
	}
	return nil
}

// Strings returns the escaped CSV fields of the header row
// if enabled and of the records.
func (w *Writer) Strings(ctx context.Context, columns []*datagrid.Column, records []datagrid.Record) ([][]string, error) {
	rows := make([][]string, 0, len(records)+1)
	if w.headerRow {
		header := make([]string, len(columns))
		for i, col := range columns {
			header[i] = w.escapeString(col.TitleOrField(), false)
		}
		rows = append(rows, header)
	}
	for r, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := make([]string, len(columns))
		for i, col := range columns {
			cell := datagrid.NewCell(rec, col, r)
			if cell.Value == nil && col.Formatter == nil {
				row[i] = w.escapeString(w.nilValue, false)
				continue
			}
			str, raw := datagrid.FormatCell(ctx, cell, w.typeFormatters, w.logger)
			row[i] = w.escapeString(str, raw)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (w *Writer) escapeString(str string, isRaw bool) string {
	if isRaw {
		return str
	}
	// \n alone is valid within quotes
	str = strings.ReplaceAll(str, "\r", "")
	switch {
	case w.quoteAllFields || strings.ContainsRune(str, w.delimiter) || strings.ContainsRune(str, '\n'):
		return `"` + strings.ReplaceAll(str, `"`, w.escapeQuotes) + `"`
	case w.quoteEmptyFields && str == "":
		return `""`
	}
	return strings.ReplaceAll(str, `"`, w.escapeQuotes)
}

// WithFormat returns a writer using the separator and newline of format
// and an encoder for its encoding if it is not UTF-8.
func (w *Writer) WithFormat(format *Format) (*Writer, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	mod := w.clone()
	mod.delimiter = rune(format.Separator[0])
	mod.newLine = format.Newline
	mod.encoder = nil
	if format.Encoding != "UTF-8" {
		enc, err := charset.GetEncoding(format.Encoding)
		if err != nil {
			return nil, err
		}
		mod.encoder = EncoderFunc(enc.Encode)
	}
	return mod, nil
}

func (w *Writer) WithHeaderRow(headerRow bool) *Writer {
	mod := w.clone()
	mod.headerRow = headerRow
	return mod
}

// WithTypeFormatters returns a writer using formatters
// instead of datagrid.DefaultTypeFormatters.
func (w *Writer) WithTypeFormatters(formatters datagrid.CellFormatter) *Writer {
	mod := w.clone()
	mod.typeFormatters = formatters
	return mod
}

func (w *Writer) WithPadding(padding Padding) *Writer {
	mod := w.clone()
	mod.padding = padding
	return mod
}

func (w *Writer) WithQuoteAllFields(quoteAllFields bool) *Writer {
	mod := w.clone()
	mod.quoteAllFields = quoteAllFields
	return mod
}

func (w *Writer) WithQuoteEmptyFields(quoteEmptyFields bool) *Writer {
	mod := w.clone()
	mod.quoteEmptyFields = quoteEmptyFields
	return mod
}

func (w *Writer) WithNilValue(nilValue string) *Writer {
	mod := w.clone()
	mod.nilValue = nilValue
	return mod
}

func (w *Writer) WithEscapeQuotes(escapeQuotes string) *Writer {
	mod := w.clone()
	mod.escapeQuotes = escapeQuotes
	return mod
}

func (w *Writer) WithDelimiter(delimiter rune) *Writer {
	mod := w.clone()
	mod.delimiter = delimiter
	return mod
}

func (w *Writer) WithNewLine(newLine string) *Writer {
	mod := w.clone()
	mod.newLine = newLine
	return mod
}

func (w *Writer) WithEncoder(encoder Encoder) *Writer {
	mod := w.clone()
	mod.encoder = encoder
	return mod
}

func (w *Writer) WithLogger(logger *slog.Logger) *Writer {
	mod := w.clone()
	mod.logger = logger
	return mod
}

func (w *Writer) HeaderRow() bool        { return w.headerRow }
func (w *Writer) QuoteAllFields() bool   { return w.quoteAllFields }
func (w *Writer) QuoteEmptyFields() bool { return w.quoteEmptyFields }
func (w *Writer) Delimiter() rune        { return w.delimiter }
func (w *Writer) EscapeQuotes() string   { return w.escapeQuotes }
func (w *Writer) NilValue() string       { return w.nilValue }
func (w *Writer) NewLine() string        { return w.newLine }
func (w *Writer) Encoder() Encoder       { return w.encoder }
