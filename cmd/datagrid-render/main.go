// Command datagrid-render renders a dataset file
// as static HTML table or accordion, or exports it as CSV.
//
//	datagrid-render --data sales.csv --config sales.yaml --mode accordion --out sales.html
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/jessevdk/go-flags"
	fs "github.com/ungerik/go-fs"

	"github.com/domonda/go-datagrid"
	"github.com/domonda/go-datagrid/accordion"
	"github.com/domonda/go-datagrid/colprefs"
	"github.com/domonda/go-datagrid/csvtable"
	"github.com/domonda/go-datagrid/dataset"
	"github.com/domonda/go-datagrid/htmltable"
	"github.com/domonda/go-datagrid/logger"
)

type options struct {
	Data      string   `long:"data" description:"dataset file (.json, .yaml, .csv, .tsv, .xlsx)" required:"true"`
	Config    string   `short:"c" long:"config" description:"YAML component config"`
	Mode      string   `short:"m" long:"mode" description:"component to render" choice:"table" choice:"accordion" default:"table"`
	Search    string   `short:"s" long:"search" description:"search term"`
	Sort      string   `long:"sort" description:"sort column as FIELD or FIELD:desc"`
	Page      int      `short:"p" long:"page" description:"page number" default:"1"`
	PageSize  int      `long:"page-size" description:"records per page, top-level groups per page for accordions"`
	ExpandAll bool     `long:"expand-all" description:"expand all accordion groups"`
	Hide      []string `long:"hide" description:"hide column field, can be repeated"`
	Prefs     string   `long:"prefs" description:"directory persisting column visibility preferences"`
	Out       string   `short:"o" long:"out" description:"output file, .csv exports the filtered records as CSV, stdout if empty"`
	Debug     bool     `short:"d" long:"debug" description:"debug logging"`
}

// component is implemented by htmltable.Table and accordion.Accordion.
type component interface {
	ContainerID() string
	Store() *datagrid.Store
	SetData(data any)
	HandleSearch(term string)
	HandleSort(field string) bool
	HandlePage(page int)
	HandlePageSize(size int)
	Destroy()
}

var (
	_ component = new(htmltable.Table)
	_ component = new(accordion.Accordion)
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
{{.Body}}
</body>
</html>
`))

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "--data FILE [OPTIONS]"
	if _, err := parser.Parse(); err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		os.Exit(2)
	}
	if opts.Debug {
		logger.Level.Set(slog.LevelDebug)
	}
	log := logger.Default()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, &opts, log); err != nil {
		log.Error("render failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts *options, log *slog.Logger) error {
	ds, err := dataset.ReadFile(ctx, fs.File(opts.Data), log)
	if err != nil {
		return err
	}
	config := new(datagrid.Config)
	if opts.Config != "" {
		config, err = datagrid.LoadConfig(fs.File(opts.Config))
		if err != nil {
			return err
		}
	}
	if len(config.Columns) == 0 {
		config.Columns = ds.Columns
	}
	if config.KeyField == "" && len(config.Columns) > 0 {
		config.KeyField = config.Columns[0].Field
	}
	if err = config.Validate(); err != nil {
		return err
	}

	prefs, err := columnPrefs(ctx, opts, config, log)
	if err != nil {
		return err
	}

	surface := datagrid.NewBufferSurface()
	comp, err := newComponent(opts.Mode, config, prefs, surface, log)
	if err != nil {
		return err
	}
	defer comp.Destroy()

	comp.SetData(ds.Records)
	if opts.Search != "" {
		comp.HandleSearch(opts.Search)
	}
	if opts.Sort != "" {
		field, desc := parseSort(opts.Sort)
		if !comp.HandleSort(field) {
			log.Warn("column is not sortable", "field", field)
		} else if desc {
			comp.HandleSort(field)
		}
	}
	if opts.PageSize > 0 {
		comp.HandlePageSize(opts.PageSize)
	}
	if opts.Page > 1 {
		comp.HandlePage(opts.Page)
	}
	if acc, ok := comp.(*accordion.Accordion); ok && opts.ExpandAll {
		if err = expandAll(acc); err != nil {
			return err
		}
	}

	var out bytes.Buffer
	if strings.EqualFold(fs.File(opts.Out).Ext(), ".csv") {
		columns := datagrid.VisibleColumns(config.Columns, prefs.IsVisible, config.CriticalColumns...)
		err = csvtable.NewWriter().
			WithLogger(log).
			Write(ctx, &out, columns, comp.Store().Filtered())
	} else {
		title := ds.Name
		if config.PersistenceKey != "" {
			title = config.PersistenceKey
		}
		err = pageTemplate.Execute(&out, map[string]any{
			"Title": title,
			"Body":  surface.Compose(comp.ContainerID()),
		})
	}
	if err != nil {
		return err
	}

	if opts.Out == "" {
		_, err = os.Stdout.Write(out.Bytes())
		return err
	}
	log.Info("writing output", "file", opts.Out, "records", len(comp.Store().Filtered()))
	return fs.File(opts.Out).WriteAll(out.Bytes())
}

func newComponent(mode string, config *datagrid.Config, prefs *colprefs.Manager, surface datagrid.Surface, log *slog.Logger) (component, error) {
	plugins := []datagrid.Plugin{htmltable.SearchPlugin{}, htmltable.PageSizePlugin{}, prefs}
	switch mode {
	case "table":
		c := htmltable.ConfigFrom(config)
		c.IsFieldVisible = prefs.IsVisible
		c.Plugins = plugins
		c.Surface = surface
		c.Logger = log
		return htmltable.New(c)
	case "accordion":
		c := accordion.ConfigFrom(config)
		c.IsFieldVisible = prefs.IsVisible
		c.Plugins = plugins
		c.Surface = surface
		c.Logger = log
		return accordion.New(c)
	}
	return nil, fmt.Errorf("unknown mode %q", mode)
}

// columnPrefs returns the column visibility manager
// with the --hide fields hidden, persisted in the
// --prefs directory if set.
func columnPrefs(ctx context.Context, opts *options, config *datagrid.Config, log *slog.Logger) (*colprefs.Manager, error) {
	var store colprefs.Store = new(colprefs.MemoryStore)
	if opts.Prefs != "" {
		fileStore, err := colprefs.NewFileStore(fs.File(opts.Prefs))
		if err != nil {
			return nil, err
		}
		store = fileStore
	}
	key := config.PersistenceKey
	if key == "" {
		key = strings.TrimSuffix(fs.File(opts.Data).Name(), fs.File(opts.Data).Ext())
	}
	prefs := colprefs.NewManager(key, store, log, config.CriticalColumns...)
	if err := prefs.Load(ctx); err != nil {
		return nil, err
	}
	for _, field := range opts.Hide {
		if err := prefs.SetHidden(ctx, field, true); err != nil {
			return nil, err
		}
	}
	return prefs, nil
}

func parseSort(s string) (field string, desc bool) {
	field, dir, _ := strings.Cut(s, ":")
	return field, strings.EqualFold(dir, string(datagrid.SortDesc))
}

// expandAll expands groups level by level
// until every rendered group is expanded.
func expandAll(acc *accordion.Accordion) error {
	for {
		expanded := false
		for _, id := range acc.GroupIDs() {
			if acc.IsExpanded(id) {
				continue
			}
			if err := acc.ToggleGroup(id); err != nil {
				if errors.Is(err, datagrid.ErrUnknownGroup) {
					continue
				}
				return err
			}
			expanded = true
		}
		if !expanded {
			return nil
		}
	}
}
