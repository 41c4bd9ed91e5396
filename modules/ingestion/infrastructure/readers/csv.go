package readers

import (
	"encoding/csv"
	"io"

	"github.com/go-faster/errors"

	"github.com/deskflow-io/deskflow/modules/ingestion/services"
)

// ReadCSV reads an export in CSV form: first row is the header, every
// following row becomes one RawRecord. Rows shorter than the header are
// padded with absent fields; longer rows have their surplus ignored.
func ReadCSV(r io.Reader) ([]services.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to read csv header")
	}

	fields := make([]string, len(header))
	for i, h := range header {
		fields[i] = headerToField(h)
	}

	var records []services.RawRecord
	for {
		cells, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read csv row")
		}
		records = append(records, rowToRecord(fields, cells))
	}
	return records, nil
}
