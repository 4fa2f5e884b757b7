package htmltable

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/domonda/go-datagrid"
)

func formatValue(f datagrid.CellFormatter, val any) (string, bool, error) {
	return f.FormatCell(context.Background(), &datagrid.Cell{Column: &datagrid.Column{Field: "F"}, Value: val})
}

func TestJSONCellFormatter_FormatCell(t *testing.T) {
	tests := []struct {
		name    string
		fmt     JSONCellFormatter
		val     any
		wantStr string
		wantRaw bool
		wantErr bool
	}{
		{name: "empty nil", fmt: ``, val: nil, wantStr: ``, wantRaw: false, wantErr: true},
		{name: "empty string", fmt: ``, val: "", wantStr: ``, wantRaw: false, wantErr: true},
		{name: "compact string JSON", fmt: ``, val: `{"1": 1}`, wantStr: `<pre>{"1":1}</pre>`, wantRaw: true, wantErr: false},
		{name: "compact []byte JSON", fmt: ``, val: []byte(`{"1": 1}`), wantStr: `<pre>{"1":1}</pre>`, wantRaw: true, wantErr: false},
		{name: "compact RawMessage JSON", fmt: ``, val: json.RawMessage(`{"1": 1}`), wantStr: `<pre>{"1":1}</pre>`, wantRaw: true, wantErr: false},
		{name: "indented", fmt: `  `, val: `[1]`, wantStr: "<pre>[\n  1\n]</pre>", wantRaw: true, wantErr: false},
		{name: "invalid", fmt: ``, val: `{`, wantStr: ``, wantRaw: false, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			str, raw, err := formatValue(tt.fmt, tt.val)
			require.Equal(t, tt.wantErr, err != nil, "err result: %v", err)
			require.Equal(t, tt.wantStr, str, "str result")
			require.Equal(t, tt.wantRaw, raw, "raw result")
		})
	}
}

func TestBadgeCellFormatter(t *testing.T) {
	tests := []struct {
		name    string
		fmt     BadgeCellFormatter
		val     any
		wantStr string
	}{
		{name: "slug", fmt: BadgeCellFormatter{Prefix: "badge"}, val: "Pago  em dia!", wantStr: `<span class='badge badge-pago-em-dia'>Pago  em dia!</span>`},
		{name: "mapped", fmt: BadgeCellFormatter{Prefix: "badge", Classes: map[string]string{"OK": "success"}}, val: "OK", wantStr: `<span class='badge success'>OK</span>`},
		{name: "no prefix", fmt: BadgeCellFormatter{}, val: "Late", wantStr: `<span class='late'>Late</span>`},
		{name: "escaped", fmt: BadgeCellFormatter{Prefix: "b"}, val: "<x>", wantStr: `<span class='b b-x'>&lt;x&gt;</span>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			str, raw, err := formatValue(tt.fmt, tt.val)
			require.NoError(t, err)
			require.True(t, raw)
			require.Equal(t, tt.wantStr, str)
		})
	}

	_, _, err := formatValue(BadgeCellFormatter{Prefix: "badge"}, " ")
	require.ErrorIs(t, err, errors.ErrUnsupported)
}

func TestMailtoCellFormatter(t *testing.T) {
	str, raw, err := formatValue(MailtoCellFormatter, "ana@example.com")
	require.NoError(t, err)
	require.True(t, raw)
	require.Equal(t, `<a href='mailto:ana@example.com'>ana@example.com</a>`, str)

	_, _, err = formatValue(MailtoCellFormatter, "ana")
	require.ErrorIs(t, err, errors.ErrUnsupported)
}

func TestTemplateFormatter(t *testing.T) {
	f, err := TemplateFormatter(`<b>{{.Value | upper}}</b> {{.Record.ID}}`)
	require.NoError(t, err)
	str, raw, err := f.FormatCell(context.Background(), datagrid.NewCell(datagrid.Record{"ID": 7, "F": "a<b"}, &datagrid.Column{Field: "F"}, 0))
	require.NoError(t, err)
	require.True(t, raw)
	require.Equal(t, `<b>A&lt;B</b> 7`, str)

	_, err = TemplateFormatter(`{{.Value`)
	require.Error(t, err)
}

func TestRawCellFormatter(t *testing.T) {
	str, raw, err := formatValue(RawCellFormatter{Raw(`<i class="icon"></i>`)}, nil)
	require.NoError(t, err)
	require.True(t, raw)
	require.Equal(t, `<i class="icon"></i>`, str)
}
