package exceltable

import (
	"errors"

	"github.com/xuri/excelize/v2"
)

// ErrEmptySheet is returned for a sheet without data
// after removing empty rows and columns.
// Read and ReadLocalFile skip empty sheets.
var ErrEmptySheet = errors.New("empty sheet")

// ErrSheetNotExist is returned by excelize
// for a sheet name that does not exist.
type ErrSheetNotExist = excelize.ErrSheetNotExist
