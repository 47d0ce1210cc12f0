package services

import (
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysUntil(t *testing.T) {
	now := time.Date(2026, time.September, 1, 15, 30, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysUntil(now, time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, DaysUntil(now, time.Date(2026, time.September, 2, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, 30, DaysUntil(now, time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, -1, DaysUntil(now, time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)))
}

// The scan must bound the window on both sides: nothing already expired,
// nothing further out than the requested number of days.
func TestFindExpiringDocumentsWindow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"source", "title", "owner_name", "expired_date"}).
		AddRow("vendor", "ISO 9001", "PT Acme Konstruksi", now.AddDate(0, 0, 10)).
		AddRow("person", "Sertifikat K3", "Budi Santoso", now.AddDate(0, 0, 25))

	mock.ExpectQuery(`d\.expired_date >= CURRENT_DATE\s+AND d\.expired_date < CURRENT_DATE \+ \$1::int`).
		WithArgs(ExpiryWindowDays).
		WillReturnRows(rows)

	docs, err := FindExpiringDocuments(db, ExpiryWindowDays)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "vendor", docs[0].Source)
	assert.Equal(t, "PT Acme Konstruksi", docs[0].OwnerName)
	assert.Equal(t, 10, docs[0].DaysLeft)
	assert.Equal(t, "person", docs[1].Source)
	assert.Equal(t, 25, docs[1].DaysLeft)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindExpiringDocumentsEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM vendor_documents`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"source", "title", "owner_name", "expired_date"}))

	docs, err := FindExpiringDocuments(db, 7)
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildExpiryMail(t *testing.T) {
	docs := []ExpiringDocument{
		{
			Source:      "vendor",
			Title:       "ISO 9001",
			OwnerName:   "PT Acme Konstruksi",
			ExpiredDate: time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC),
			DaysLeft:    14,
		},
		{
			Source:      "person",
			Title:       "Sertifikat K3",
			OwnerName:   "Budi Santoso",
			ExpiredDate: time.Date(2026, time.September, 20, 0, 0, 0, 0, time.UTC),
			DaysLeft:    19,
		},
	}

	html := buildExpiryMail(docs)

	assert.Contains(t, html, "PT Acme Konstruksi")
	assert.Contains(t, html, "Budi Santoso")
	assert.Contains(t, html, "2026-09-15")
	assert.Contains(t, html, "2026-09-20")
	assert.Equal(t, 3, strings.Count(html, "<tr>"), "header plus one row per document")
}
