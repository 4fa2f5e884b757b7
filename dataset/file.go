package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	fs "github.com/ungerik/go-fs"
	"gopkg.in/yaml.v3"

	"github.com/domonda/go-datagrid/csvtable"
)

// ReadFile reads a dataset file with a format
// depending on the file extension:
//   - .json
//   - .yaml and .yml with the shapes of FromAny
//   - .csv, .tsv and .txt with format detection
//   - .xlsx, .xlsm, .xltx and .xltm (first sheet)
//
// The dataset is named after the file without extension
// unless an Excel sheet name is used.
func ReadFile(ctx context.Context, file fs.File, logger *slog.Logger) (*Dataset, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ext := strings.ToLower(file.Ext())
	switch ext {
	case ".json", ".yaml", ".yml", ".csv", ".tsv", ".txt", ".xlsx", ".xlsm", ".xltx", ".xltm":
	default:
		return nil, fmt.Errorf("unsupported dataset file extension %q: %s", ext, file)
	}
	data, err := file.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("can't read dataset: %w", err)
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	var ds *Dataset
	switch ext {
	case ".json":
		ds, err = FromJSON(data)
	case ".yaml", ".yml":
		var doc any
		if err = yaml.Unmarshal(data, &doc); err == nil {
			ds = FromAny(doc, logger)
		}
	case ".csv", ".tsv", ".txt":
		var format *csvtable.Format
		ds, format, err = FromCSV(data, nil)
		if err == nil {
			logger.Debug("detected CSV format", "file", file.Name(), "encoding", format.Encoding, "separator", format.Separator)
		}
	default:
		ds, err = FromExcel(data, "")
	}
	if err != nil {
		return nil, fmt.Errorf("can't parse dataset %s: %w", file.Name(), err)
	}
	if ds.Name == "" {
		ds.Name = strings.TrimSuffix(file.Name(), file.Ext())
	}
	logger.Debug("read dataset", "file", file.Name(), "records", len(ds.Records), "columns", len(ds.Columns))
	return ds, nil
}
