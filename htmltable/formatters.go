package htmltable

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/domonda/go-datagrid"
)

// DefaultTypeFormatters extend datagrid.DefaultTypeFormatters
// with HTML formatters for badge and email columns.
var DefaultTypeFormatters = datagrid.DefaultTypeFormatters.
	With(datagrid.TypeBadge, BadgeCellFormatter{Prefix: "badge"}).
	With(datagrid.TypeEmail, MailtoCellFormatter)

var (
	HTMLPreCellFormatter datagrid.CellFormatterFunc = func(ctx context.Context, cell *datagrid.Cell) (str string, raw bool, err error) {
		value := template.HTMLEscapeString(datagrid.ValueString(cell.Value))
		return "<pre>" + value + "</pre>", true, nil
	}

	HTMLCodeCellFormatter datagrid.CellFormatterFunc = func(ctx context.Context, cell *datagrid.Cell) (str string, raw bool, err error) {
		value := template.HTMLEscapeString(datagrid.ValueString(cell.Value))
		return "<code>" + value + "</code>", true, nil
	}

	// ValueAsHTMLAnchorCellFormatter formats the cell value using datagrid.ValueString,
	// escapes it for HTML and returns an HTML anchor element with the
	// value as id and inner text.
	ValueAsHTMLAnchorCellFormatter datagrid.CellFormatterFunc = func(ctx context.Context, cell *datagrid.Cell) (str string, raw bool, err error) {
		value := template.HTMLEscapeString(datagrid.ValueString(cell.Value))
		return fmt.Sprintf("<a id='%[1]s'>%[1]s</a>", value), true, nil
	}

	// MailtoCellFormatter formats values containing an '@' as mailto link.
	MailtoCellFormatter datagrid.CellFormatterFunc = func(ctx context.Context, cell *datagrid.Cell) (str string, raw bool, err error) {
		addr := strings.TrimSpace(datagrid.ValueString(cell.Value))
		if !strings.Contains(addr, "@") {
			return "", false, errors.ErrUnsupported
		}
		value := template.HTMLEscapeString(addr)
		return fmt.Sprintf("<a href='mailto:%[1]s'>%[1]s</a>", value), true, nil
	}

	_ datagrid.CellFormatter = JSONCellFormatter("")
	_ datagrid.CellFormatter = HTMLSpanClassCellFormatter("")
	_ datagrid.CellFormatter = BadgeCellFormatter{}
)

// JSONCellFormatter formats JSON string and []byte values within a pre element,
// indented with the underlying string or compacted if it is empty.
type JSONCellFormatter string

func (indent JSONCellFormatter) FormatCell(ctx context.Context, cell *datagrid.Cell) (str string, raw bool, err error) {
	if cell.Value == nil {
		return "", false, errors.ErrUnsupported
	}
	src := []byte(datagrid.ValueString(cell.Value))
	if len(src) == 0 {
		return "", false, errors.ErrUnsupported
	}
	buf := bytes.NewBufferString("<pre>")
	if indent == "" {
		err = json.Compact(buf, src)
	} else {
		err = json.Indent(buf, src, "", string(indent))
	}
	if err != nil {
		return "", false, err
	}
	buf.WriteString("</pre>")
	return buf.String(), true, nil
}

// HTMLSpanClassCellFormatter formats the cell value within an HTML span element
// with the class of the underlying string value.
type HTMLSpanClassCellFormatter string

func (class HTMLSpanClassCellFormatter) FormatCell(ctx context.Context, cell *datagrid.Cell) (str string, raw bool, err error) {
	text := template.HTMLEscapeString(datagrid.ValueString(cell.Value))
	return fmt.Sprintf("<span class='%s'>%s</span>", class, text), true, nil
}

// BadgeCellFormatter formats non empty values as badge span
// with the classes Prefix and Prefix-<value> in kebab case,
// or the class mapped in Classes for the value.
type BadgeCellFormatter struct {
	Prefix  string
	Classes map[string]string
}

func (f BadgeCellFormatter) FormatCell(ctx context.Context, cell *datagrid.Cell) (str string, raw bool, err error) {
	text := datagrid.ValueString(cell.Value)
	if strings.TrimSpace(text) == "" {
		return "", false, errors.ErrUnsupported
	}
	class, ok := f.Classes[text]
	switch {
	case !ok && f.Prefix != "":
		class = f.Prefix + " " + f.Prefix + "-" + badgeSlug(text)
	case !ok:
		class = badgeSlug(text)
	case f.Prefix != "":
		class = f.Prefix + " " + class
	}
	return HTMLSpanClassCellFormatter(template.HTMLEscapeString(class)).FormatCell(ctx, cell)
}

func badgeSlug(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
