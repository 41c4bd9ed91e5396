package readers

import (
	"io"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"

	"github.com/deskflow-io/deskflow/modules/ingestion/services"
)

// ReadXLSX reads an export in xlsx form from the first sheet of the
// workbook. The first row is the header; every following row becomes one
// RawRecord.
func ReadXLSX(r io.Reader) ([]services.RawRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open workbook")
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(err, "failed to read sheet rows")
	}
	if len(rows) == 0 {
		return nil, nil
	}

	fields := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		fields[i] = headerToField(h)
	}

	records := make([]services.RawRecord, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		records = append(records, rowToRecord(fields, cells))
	}
	return records, nil
}
