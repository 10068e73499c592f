package services

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/glucoquest/glucoquest/models"
)

func seedRecords(t *testing.T, db *gorm.DB, userID uint) {
	t.Helper()
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	records := []models.HealthRecord{
		{
			UserID: userID, Glucose: 148, Insulin: 94.5, BMI: 33.6, Age: 50,
			BPSystolic: 145, BPDiastolic: 95, FamilyHistory: true, Prediction: 1,
			CreatedAt: base,
		},
		{
			UserID: userID, Glucose: 85, Insulin: 30, BMI: 23.1, Age: 50,
			BPSystolic: 118, BPDiastolic: 76, FamilyHistory: true, Prediction: 0,
			CreatedAt: base.AddDate(0, 0, 1),
		},
	}
	for i := range records {
		require.NoError(t, db.Create(&records[i]).Error)
	}
}

func TestRowsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	seedRecords(t, db, user.ID)
	svc := NewExportService(db)

	rows, err := svc.Rows(user.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "2025-06-02 10:00", rows[0].Date)
	assert.Equal(t, "Low Risk", rows[0].Prediction)
	assert.Equal(t, "2025-06-01 10:00", rows[1].Date)
	assert.Equal(t, "High Risk", rows[1].Prediction)
	assert.Equal(t, "Yes", rows[1].FamilyHistory)
	assert.Equal(t, "148.0", rows[1].Glucose)
	assert.Equal(t, "145", rows[1].BPSystolic)
}

func TestRowsScopedToUser(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	seedRecords(t, db, alice.ID)
	svc := NewExportService(db)

	rows, err := svc.Rows(bob.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestWriteCSV(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	seedRecords(t, db, user.ID)
	svc := NewExportService(db)

	rows, err := svc.Rows(user.ID)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.WriteCSV(&buf, rows))

	parsed, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, parsed, 3, "header plus two records")
	assert.Equal(t, exportHeader, parsed[0])
	assert.Equal(t, "High Risk", parsed[2][8])
}

func TestWriteCSVEmptyHistory(t *testing.T) {
	svc := NewExportService(newTestDB(t))

	var buf bytes.Buffer
	require.NoError(t, svc.WriteCSV(&buf, nil))

	parsed, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, parsed, 1, "header only")
}

func TestWritePDFProducesDocument(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	seedRecords(t, db, user.ID)
	svc := NewExportService(db)

	rows, err := svc.Rows(user.ID)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.WritePDF(&buf, "alice", rows))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestWritePDFEmptyHistory(t *testing.T) {
	svc := NewExportService(newTestDB(t))

	var buf bytes.Buffer
	require.NoError(t, svc.WritePDF(&buf, "alice", nil))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}
