package main

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	fs "github.com/ungerik/go-fs"

	"github.com/domonda/go-datagrid/logger"
)

const salesCSV = "ID;UF;CIDADE\r\n1;SP;Campinas\r\n2;SP;Santos\r\n3;RJ;Niterói\r\n"

const salesConfig = `
keyField: ID
levels: [UF]
columns:
  - field: ID
    title: Id
    sortable: true
  - field: UF
    sortable: true
  - field: CIDADE
    title: Cidade
    sortable: true
`

func writeTestFiles(t *testing.T) (dir fs.File) {
	t.Helper()
	dir = fs.File(t.TempDir())
	require.NoError(t, dir.Join("vendas.csv").WriteAll([]byte(salesCSV)))
	require.NoError(t, dir.Join("vendas.yaml").WriteAll([]byte(salesConfig)))
	return dir
}

func TestRunTable(t *testing.T) {
	dir := writeTestFiles(t)
	opts := &options{
		Data:   dir.Join("vendas.csv").LocalPath(),
		Mode:   "table",
		Search: "sp",
		Sort:   "CIDADE:desc",
		Page:   1,
		Out:    dir.Join("vendas.html").LocalPath(),
	}
	require.NoError(t, run(context.Background(), opts, logger.Discard()))

	html, err := dir.Join("vendas.html").ReadAllString()
	require.NoError(t, err)
	assert.Contains(t, html, "<title>vendas</title>")
	assert.Contains(t, html, "Santos")
	assert.NotContains(t, html, "Niterói")
	assert.Less(t, strings.Index(html, "Santos"), strings.Index(html, "Campinas"), "sorted descending")
}

func TestRunAccordionCSVExport(t *testing.T) {
	dir := writeTestFiles(t)
	opts := &options{
		Data:      dir.Join("vendas.csv").LocalPath(),
		Config:    dir.Join("vendas.yaml").LocalPath(),
		Mode:      "accordion",
		Sort:      "CIDADE",
		Page:      1,
		ExpandAll: true,
		Hide:      []string{"UF"},
		Prefs:     dir.Join("prefs").LocalPath(),
		Out:       dir.Join("vendas.csv.out.csv").LocalPath(),
	}
	require.NoError(t, run(context.Background(), opts, logger.Discard()))

	csv, err := dir.Join("vendas.csv.out.csv").ReadAllString()
	require.NoError(t, err)
	assert.Equal(t, "Id;Cidade\r\n1;Campinas\r\n3;Niterói\r\n2;Santos\r\n", csv)
	assert.True(t, dir.Join("prefs", "vendas.json").Exists(), "persisted hidden column")
}

func TestRunAccordionHTML(t *testing.T) {
	dir := writeTestFiles(t)
	opts := &options{
		Data:      dir.Join("vendas.csv").LocalPath(),
		Config:    dir.Join("vendas.yaml").LocalPath(),
		Mode:      "accordion",
		Page:      1,
		ExpandAll: true,
		Out:       dir.Join("vendas.html").LocalPath(),
	}
	require.NoError(t, run(context.Background(), opts, logger.Discard()))

	html, err := dir.Join("vendas.html").ReadAllString()
	require.NoError(t, err)
	assert.Contains(t, html, `aria-expanded="true"`)
	assert.Contains(t, html, "Campinas", "leaf table composed into the page")
	assert.Contains(t, html, `<div class="datagrid-container" id="`)
}

func TestRunAccordionPageSize(t *testing.T) {
	dir := writeTestFiles(t)
	opts := &options{
		Data:      dir.Join("vendas.csv").LocalPath(),
		Config:    dir.Join("vendas.yaml").LocalPath(),
		Mode:      "accordion",
		PageSize:  1,
		Page:      2,
		ExpandAll: true,
		Out:       dir.Join("vendas.html").LocalPath(),
	}
	require.NoError(t, run(context.Background(), opts, logger.Discard()))

	html, err := dir.Join("vendas.html").ReadAllString()
	require.NoError(t, err)
	assert.Contains(t, html, `<select class="datagrid-page-size"`)
	assert.Contains(t, html, "Niterói")
	assert.NotContains(t, html, "Campinas", "first group is on page 1")
}

func TestRunErrors(t *testing.T) {
	dir := writeTestFiles(t)
	err := run(context.Background(), &options{Data: dir.Join("missing.csv").LocalPath(), Mode: "table"}, logger.Discard())
	assert.Error(t, err)

	err = run(context.Background(), &options{Data: dir.Join("vendas.csv").LocalPath(), Mode: "pivot"}, logger.Discard())
	assert.Error(t, err)
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		sort      string
		wantField string
		wantDesc  bool
	}{
		{sort: "NAME", wantField: "NAME"},
		{sort: "NAME:asc", wantField: "NAME"},
		{sort: "NAME:DESC", wantField: "NAME", wantDesc: true},
	}
	for _, tt := range tests {
		t.Run(tt.sort, func(t *testing.T) {
			field, desc := parseSort(tt.sort)
			assert.Equal(t, tt.wantField, field)
			assert.Equal(t, tt.wantDesc, desc)
		})
	}
}
