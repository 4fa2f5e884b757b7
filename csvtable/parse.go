package csvtable

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"

	"github.com/domonda/go-types/charset"
)

// ParseDetectFormat parses CSV data detecting its format:
//  1. The first of config.Encodings that decodes one of
//     config.EncodingTests is used, UTF-8 otherwise
//  2. "\r\n" newlines are used if present, "\n" otherwise
//  3. A first line "sep=X" declares the separator,
//     otherwise the most frequent of ',', ';' and '\t' is used
//     with ',' winning ties
//
// A nil config means NewDefaultFormatDetectionConfig().
// Data without non empty lines returns no rows and a format
// without separator.
func ParseDetectFormat(data []byte, config *FormatDetectionConfig) (rows [][]string, format *Format, err error) {
	if config == nil {
		config = NewDefaultFormatDetectionConfig()
	}
	format, data, err = detectFormat(data, config)
	if err != nil || format.Separator == "" {
		return nil, format, err
	}
	rows, err = readRows(data, format.Separator)
	return rows, format, err
}

// ParseWithFormat parses CSV data in a known format.
// A "sep=X" header line must match format.Separator.
func ParseWithFormat(data []byte, format *Format) (rows [][]string, err error) {
	if err = format.Validate(); err != nil {
		return nil, err
	}
	if format.Encoding == "UTF-8" {
		data = charset.TrimBOM(data, charset.BOMUTF8)
	} else {
		enc, err := charset.GetEncoding(format.Encoding)
		if err != nil {
			return nil, err
		}
		data, err = enc.Decode(data)
		if err != nil {
			return nil, err
		}
	}
	data = sanitizeUTF8(data)

	firstLine, rest, _ := bytes.Cut(data, []byte(format.Newline))
	if headerSep := parseSepHeaderLine(firstLine); headerSep != "" {
		if headerSep != format.Separator {
			return nil, fmt.Errorf("separator '%s' in header line is different from format.Separator '%s'", headerSep, format.Separator)
		}
		data = rest
	}
	return readRows(data, format.Separator)
}

// detectFormat returns the detected format and the data
// decoded to UTF-8 without a "sep=X" header line.
func detectFormat(data []byte, config *FormatDetectionConfig) (format *Format, decoded []byte, err error) {
	if config == nil {
		return nil, nil, errors.New("FormatDetectionConfig must not be nil")
	}
	format = new(Format)
	data = charset.TrimBOM(data, charset.BOMUTF8)

	var encodings []charset.Encoding
	for _, name := range config.Encodings {
		enc, err := charset.GetEncoding(name)
		if err != nil {
			return nil, nil, err
		}
		encodings = append(encodings, enc)
	}
	data, format.Encoding, err = charset.AutoDecode(data, encodings, config.EncodingTests)
	if err != nil {
		return nil, nil, err
	}
	if format.Encoding == "" {
		format.Encoding = "UTF-8"
	}
	data = sanitizeUTF8(data)

	// Prefer the standard \r\n if present
	if bytes.Contains(data, []byte{'\r', '\n'}) {
		format.Newline = "\r\n"
	} else {
		format.Newline = "\n"
	}

	firstLine, rest, _ := bytes.Cut(data, []byte(format.Newline))
	if format.Separator = parseSepHeaderLine(firstLine); format.Separator != "" {
		return format, rest, nil
	}

	var commas, semicolons, tabs, nonEmptyLines int
	for _, line := range bytes.Split(data, []byte(format.Newline)) {
		line = bytes.Trim(line, "\r\n")
		if len(line) == 0 {
			continue
		}
		nonEmptyLines++
		commas += bytes.Count(line, []byte{','})
		semicolons += bytes.Count(line, []byte{';'})
		tabs += bytes.Count(line, []byte{'\t'})
	}
	switch {
	case nonEmptyLines == 0:
		// No separator
	case semicolons > commas && semicolons > tabs:
		format.Separator = ";"
	case tabs > commas && tabs > semicolons:
		format.Separator = "\t"
	default:
		format.Separator = ","
	}
	return format, data, nil
}

// parseSepHeaderLine returns the separator of a
// "sep=X" or "SEP=X" line that may be quoted.
func parseSepHeaderLine(line []byte) (sep string) {
	line = bytes.TrimRight(line, "\r")
	if len(line) < 5 {
		return ""
	}
	if line[0] == '"' && line[len(line)-1] == '"' {
		line = line[1 : len(line)-1]
	}
	if len(line) != 5 {
		return ""
	}
	if !bytes.HasPrefix(line, []byte("sep=")) && !bytes.HasPrefix(line, []byte("SEP=")) {
		return ""
	}
	return string(line[4:5])
}

// readRows reads UTF-8 CSV data with lazy quotes
// and a variable number of fields per row.
// Quoted fields may contain newlines.
func readRows(data []byte, separator string) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = rune(separator[0])
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("can't read CSV: %w", err)
	}
	return rows, nil
}

// sanitizeUTF8 replaces invalid characters
// and no-break spaces with spaces.
func sanitizeUTF8(str []byte) []byte {
	return bytes.Map(
		func(r rune) rune {
			switch r {
			case '\uFFFD', '\u00A0':
				return ' '
			default:
				return r
			}
		},
		str,
	)
}
