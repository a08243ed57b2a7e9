package jobs

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"nearby-places/internal/catalog"
	"nearby-places/internal/models"
)

func writeQueries(t *testing.T, path string, rows [][]interface{}) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	_, err := f.NewSheet(QueriesSheet)
	require.NoError(t, err)
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetSheetRow(QueriesSheet, cell, &r))
	}
	require.NoError(t, f.SaveAs(path))
}

func waitDone(t *testing.T, job *Job) Snapshot {
	t.Helper()
	select {
	case <-job.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("job did not finish in time")
	}
	return job.Snapshot()
}

func referencePoints(t *testing.T) []models.GeoPoint {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return c.Points()
}

func TestStore_BatchJob(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.xlsx")
	writeQueries(t, input, [][]interface{}{
		{"ID", "Name", "Latitude", "Longitude"},
		{"Q1", "Dhaka", "23.685", "90.3563"},
		{"Q2", "London", "51.5", "-0.12"},
	})

	store := NewStore(filepath.Join(dir, "output"), zap.NewNop())
	job := store.Start(input, referencePoints(t), 2)
	assert.Same(t, job, store.Get(job.ID()))

	snap := waitDone(t, job)
	require.Equal(t, StatusDone, snap.Status, snap.Error)
	assert.Equal(t, 100, snap.Progress)
	require.NotNil(t, snap.Result)
	assert.Equal(t, 2, snap.Result.Queries)
	assert.Equal(t, 4, snap.Result.Rows)
	assert.NotEmpty(t, snap.Logs)

	out, err := excelize.OpenFile(snap.Result.Output)
	require.NoError(t, err)
	defer out.Close()

	rows, err := out.GetRows(ResultsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "Curry Palace", rows[1][6])
	assert.Equal(t, "Bengal Delight", rows[2][6])
	assert.Equal(t, "The Fish House", rows[3][6])
}

func TestStore_FailedJob(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, zap.NewNop())

	job := store.Start(filepath.Join(dir, "missing.xlsx"), referencePoints(t), 5)
	snap := waitDone(t, job)

	assert.Equal(t, StatusError, snap.Status)
	assert.Contains(t, snap.Error, "open workbook")
	assert.Nil(t, snap.Result)
}

func TestStore_EmptyQueries(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.xlsx")
	writeQueries(t, input, [][]interface{}{
		{"ID", "Name", "Latitude", "Longitude"},
		{"Q1", "Broken", "200", "0"},
	})

	store := NewStore(dir, zap.NewNop())
	snap := waitDone(t, store.Start(input, referencePoints(t), 5))

	assert.Equal(t, StatusError, snap.Status)
	assert.Contains(t, snap.Error, "empty query list")
}

func TestStore_GetUnknown(t *testing.T) {
	store := NewStore(t.TempDir(), zap.NewNop())
	assert.Nil(t, store.Get("nope"))
}
