package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Columns: []Column{
			{Key: "number", Label: "Registration Number", Width: 1.5},
			{Key: "name", Label: "Full Name", Width: 2},
			{Key: "status"},
		},
		Rows: []map[string]string{
			{"number": "REG-2024-001", "name": "Siti, Rahma", "status": "pending"},
			{"number": "REG-2024-002", "name": "Budi", "status": "accepted"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "Registration Number,Full Name,status\nREG-2024-001,\"Siti, Rahma\",pending\nREG-2024-002,Budi,accepted\n", string(out))
}

func TestCSVExporterRequiresColumns(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset(), "Registrations")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestColumnWidthsFillPage(t *testing.T) {
	widths := columnWidths(sampleDataset().Columns)
	sum := 0.0
	for _, w := range widths {
		sum += w
	}
	assert.InDelta(t, landscapeWidth, sum, 0.001)
	assert.Greater(t, widths[1], widths[2])
}
