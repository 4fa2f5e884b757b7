// Package csvtable reads string tables from CSV data with
// detection of the character encoding, separator and line endings,
// and writes datagrid records as CSV.
//
// Supported encodings are the ones of github.com/domonda/go-types/charset,
// like UTF-8, UTF-16LE, ISO 8859-1, Windows 1252 and Macintosh.
package csvtable

import (
	"errors"
	"fmt"
	"strings"
)

// Format describes the encoding and structural format of CSV data.
//
//	format := &Format{
//	    Encoding:  "UTF-8",
//	    Separator: ";",
//	    Newline:   "\r\n",
//	}
type Format struct {
	// Encoding like "UTF-8", "UTF-16LE", "ISO 8859-1", "Windows 1252"
	Encoding string `json:"encoding"`
	// Separator is a single field delimiter character
	Separator string `json:"separator"`
	// Newline is one of "\n", "\r\n", "\n\r"
	Newline string `json:"newline"`
}

// NewFormat returns a UTF-8 Format with separator and "\r\n" newlines.
func NewFormat(separator string) *Format {
	return &Format{
		Encoding:  "UTF-8",
		Separator: separator,
		Newline:   "\r\n",
	}
}

// Validate returns an error if the format is not usable.
// It can be called on a nil receiver.
func (f *Format) Validate() error {
	switch {
	case f == nil:
		return errors.New("<nil> csvtable.Format")
	case f.Encoding == "":
		return errors.New("missing csvtable.Format.Encoding")
	case f.Separator == "":
		return errors.New("missing csvtable.Format.Separator")
	case len(f.Separator) > 1:
		return fmt.Errorf("invalid csvtable.Format.Separator: %q", f.Separator)
	case f.Newline == "":
		return errors.New("missing csvtable.Format.Newline")
	case f.Newline != "\n" && f.Newline != "\n\r" && f.Newline != "\r\n":
		return fmt.Errorf("invalid csvtable.Format.Newline: %q", f.Newline)
	}
	return nil
}

// FormatDetectionConfig configures ParseDetectFormat.
type FormatDetectionConfig struct {
	// Encodings to try in priority order
	Encodings []string `json:"encodings"`
	// EncodingTests are strings with characters that have different
	// byte representations across the Encodings. An encoding is
	// accepted if the decoded data contains one of them.
	EncodingTests []string `json:"encodingTests"`
}

// NewDefaultFormatDetectionConfig returns a FormatDetectionConfig
// for western European CSV exports, with Portuguese and German
// special characters as encoding tests.
func NewDefaultFormatDetectionConfig() *FormatDetectionConfig {
	return &FormatDetectionConfig{
		Encodings: []string{
			"UTF-8",
			"UTF-16LE",
			"ISO 8859-1",
			"Windows 1252", // like ANSI
			"Macintosh",
		},
		EncodingTests: []string{
			"ç", "Ç",
			"ã", "Ã",
			"õ", "Õ",
			"á", "é", "í", "ó", "ú",
			"â", "ê", "ô",
			"ä", "ö", "ü", "ß",
			"§", "€",
		},
	}
}

// EscapeQuotes doubles the double quotes of val.
func EscapeQuotes(val string) string {
	return strings.ReplaceAll(val, `"`, `""`)
}
