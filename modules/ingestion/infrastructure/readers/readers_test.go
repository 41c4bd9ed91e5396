package readers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/deskflow-io/deskflow/modules/ingestion/services"
)

func TestHeaderToField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header   string
		expected string
	}{
		{"Number", services.FieldIncidentID},
		{"Incident Number", services.FieldIncidentID},
		{"Assigned To", services.FieldAssignee},
		{"Opened", services.FieldOpenedAt},
		{"cmdb_ci", services.FieldConfigurationItem},
		{"Made SLA", services.FieldMadeSLA},
		{"priority", services.FieldPriority},
		{"  State  ", services.FieldState},
		{"Some Custom Column", "some_custom_column"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.header, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, headerToField(tt.header))
		})
	}
}

func TestReadCSV(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		`Number,Priority,Assigned To,Opened`,
		`INC001,"2 - High",J. Doe,"1/15/2024, 3:04:05 PM"`,
		`INC002,,A. Smith`,
	}, "\n")

	records, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "INC001", records[0][services.FieldIncidentID])
	assert.Equal(t, "2 - High", records[0][services.FieldPriority])
	assert.Equal(t, "J. Doe", records[0][services.FieldAssignee])
	assert.Equal(t, "1/15/2024, 3:04:05 PM", records[0][services.FieldOpenedAt])

	// Short rows are padded with empty values.
	assert.Equal(t, "INC002", records[1][services.FieldIncidentID])
	assert.Equal(t, "", records[1][services.FieldPriority])
	assert.Equal(t, "", records[1][services.FieldOpenedAt])
}

func TestReadCSV_EmptyInput(t *testing.T) {
	t.Parallel()

	records, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReadXLSX(t *testing.T) {
	t.Parallel()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Number", "State", "Resolve Time"},
		{"INC001", "Resolved", "02:58:25"},
		{"INC002", "Open"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	var buf strings.Builder
	require.NoError(t, f.Write(&buf))

	records, err := ReadXLSX(strings.NewReader(buf.String()))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "INC001", records[0][services.FieldIncidentID])
	assert.Equal(t, "Resolved", records[0][services.FieldState])
	assert.Equal(t, "02:58:25", records[0][services.FieldResolvedTime])
	assert.Equal(t, "INC002", records[1][services.FieldIncidentID])
	assert.Equal(t, "", records[1][services.FieldResolvedTime])
}
