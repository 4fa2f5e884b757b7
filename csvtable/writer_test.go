package csvtable

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domonda/go-datagrid"
)

func TestWriter_Write(t *testing.T) {
	ctx := context.Background()
	columns := []*datagrid.Column{
		{Field: "ID", Title: "Id"},
		{Field: "NAME", Title: "Nome"},
		{Field: "AMT", Title: "Valor", Type: datagrid.TypeCurrency},
	}
	records := []datagrid.Record{
		{"ID": 1, "NAME": "Hello", "AMT": nil},
		{"ID": 2, "NAME": "world!", "AMT": 1000.5},
	}
	tests := []struct {
		name     string
		writer   *Writer
		columns  []*datagrid.Column
		records  []datagrid.Record
		wantDest string
	}{
		{
			name:     "no columns no header",
			writer:   NewWriter().WithHeaderRow(false),
			wantDest: ``,
		},
		{
			name:    "simple",
			writer:  NewWriter(),
			columns: columns,
			records: records,
			wantDest: "" +
				`Id;Nome;Valor` + "\r\n" +
				`1;Hello;` + "\r\n" +
				`2;world!;R$ 1.000,50` + "\r\n",
		},
		{
			name: "simple no header",
			writer: NewWriter().
				WithHeaderRow(true).
				WithHeaderRow(false),
			columns: columns,
			records: records,
			wantDest: "" +
				`1;Hello;` + "\r\n" +
				`2;world!;R$ 1.000,50` + "\r\n",
		},
		{
			name: "padded align left",
			writer: NewWriter().
				WithPadding(AlignLeft),
			columns: columns,
			records: records,
			wantDest: "" +
				`Id;Nome  ;Valor      ` + "\r\n" +
				`1 ;Hello ;           ` + "\r\n" +
				`2 ;world!;R$ 1.000,50` + "\r\n",
		},
		{
			name: "padded align right",
			writer: NewWriter().
				WithPadding(AlignRight),
			columns: columns,
			records: records,
			wantDest: "" +
				`Id;  Nome;      Valor` + "\r\n" +
				` 1; Hello;           ` + "\r\n" +
				` 2;world!;R$ 1.000,50` + "\r\n",
		},
		{
			name: "padded align center",
			writer: NewWriter().
				WithPadding(AlignCenter),
			columns: columns[:2],
			records: records,
			wantDest: "" +
				`Id; Nome ` + "\r\n" +
				`1 ;Hello ` + "\r\n" +
				`2 ;world!` + "\r\n",
		},
		{
			name: "comma delimiter quotes formatted numbers",
			writer: NewWriter().
				WithHeaderRow(false).
				WithDelimiter(',').
				WithNewLine("\n").
				WithNilValue("-"),
			columns: columns,
			records: records,
			wantDest: "" +
				`1,Hello,-` + "\n" +
				`2,world!,"R$ 1.000,50"` + "\n",
		},
		{
			name: "quote all and empty fields",
			writer: NewWriter().
				WithHeaderRow(false).
				WithQuoteAllFields(true),
			columns: []*datagrid.Column{{Field: "A"}, {Field: "B"}},
			records: []datagrid.Record{{"A": `Say "hi"`, "B": ""}},
			wantDest: `"Say ""hi""";""` + "\r\n",
		},
		{
			name: "quote empty fields only",
			writer: NewWriter().
				WithHeaderRow(false).
				WithQuoteEmptyFields(true),
			columns: []*datagrid.Column{{Field: "A"}, {Field: "B"}},
			records: []datagrid.Record{{"A": "x", "B": ""}},
			wantDest: `x;""` + "\r\n",
		},
		{
			name: "multi line field",
			writer: NewWriter().
				WithHeaderRow(false),
			columns:  []*datagrid.Column{{Field: "A"}},
			records:  []datagrid.Record{{"A": "line 1\r\nline 2"}},
			wantDest: "\"line 1\nline 2\"\r\n",
		},
		{
			name: "raw column formatter",
			writer: NewWriter().
				WithHeaderRow(false),
			columns:  []*datagrid.Column{{Field: "A", Formatter: datagrid.RawCellString(`"as;is"`)}},
			records:  []datagrid.Record{{"A": nil}},
			wantDest: `"as;is"` + "\r\n",
		},
		{
			name: "custom type formatters",
			writer: NewWriter().
				WithHeaderRow(false).
				WithTypeFormatters(datagrid.DefaultTypeFormatters.With(datagrid.TypeCurrency, datagrid.CurrencyFormatter("US$"))),
			columns:  columns[2:],
			records:  records[1:],
			wantDest: `US$ 1.000,50` + "\r\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dest := bytes.NewBuffer(nil)
			err := tt.writer.Write(ctx, dest, tt.columns, tt.records)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDest, dest.String())
		})
	}
}

func TestWriter_WithFormat(t *testing.T) {
	ctx := context.Background()
	columns := []*datagrid.Column{{Field: "CITY", Title: "Cidade"}}
	records := []datagrid.Record{{"CITY": "São Paulo"}}

	_, err := NewWriter().WithFormat(&Format{Encoding: "UTF-8", Separator: ";;", Newline: "\n"})
	require.Error(t, err)

	w, err := NewWriter().WithFormat(&Format{Encoding: "ISO 8859-1", Separator: ",", Newline: "\n"})
	require.NoError(t, err)
	assert.Equal(t, ',', w.Delimiter())
	assert.Equal(t, "\n", w.NewLine())
	require.NotNil(t, w.Encoder())

	dest := bytes.NewBuffer(nil)
	require.NoError(t, w.Write(ctx, dest, columns, records))
	assert.Equal(t, []byte("Cidade\nS\xe3o Paulo\n"), dest.Bytes())

	// Round trip through format detection
	rows, format, err := ParseDetectFormat(dest.Bytes(), nil)
	require.NoError(t, err)
	assert.NotEqual(t, "UTF-8", format.Encoding)
	assert.Equal(t, [][]string{{"Cidade"}, {"São Paulo"}}, rows)
}

func TestWriter_WriteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewWriter().Write(ctx, &strings.Builder{}, []*datagrid.Column{{Field: "A"}}, []datagrid.Record{{"A": 1}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriter_Encoder(t *testing.T) {
	upper := EncoderFunc(func(data []byte) ([]byte, error) {
		return bytes.ToUpper(data), nil
	})
	dest := bytes.NewBuffer(nil)
	err := NewWriter().
		WithEncoder(upper).
		Write(context.Background(), dest, []*datagrid.Column{{Field: "A", Title: "a"}}, []datagrid.Record{{"A": "x"}})
	require.NoError(t, err)
	assert.Equal(t, "A\r\nX\r\n", dest.String())

	data := []byte("same")
	passed, err := PassthroughEncoder().Bytes(data)
	require.NoError(t, err)
	assert.Equal(t, data, passed)
}
