package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestXLSXWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clean.xlsx")
	ds := sampleDataset()

	w, err := NewXLSXWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(context.Background(), ds))
	require.NoError(t, w.Close())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, ds.Columns, rows[0])
	assert.Equal(t, "1001", rows[1][0])
	assert.Equal(t, "Center Square", rows[1][3])
	assert.Equal(t, "2023-06-01", rows[1][4])
	assert.Equal(t, "45", rows[1][6])
	assert.Equal(t, "1.5", rows[1][8])
	assert.Equal(t, "", rows[2][4], "missing last_review stays blank")
}
