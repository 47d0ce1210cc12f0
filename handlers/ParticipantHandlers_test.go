package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newGormDB opens a gorm handle over a sqlmock connection, configured the
// same way as the real one (TranslateError included).
func newGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	return gdb, mock
}

func TestCreateParticipantDuplicatePair(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gdb, mock := newGormDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "procurement_participants"`).
		WillReturnError(gorm.ErrDuplicatedKey)
	mock.ExpectRollback()

	r := gin.New()
	r.POST("/api/participant_create", CreateParticipant(gdb, nil))

	body := `{"procurement_id": 1, "vendor_id": 2, "bid_value": 1500000000, "submission_date": "2026-09-01"}`
	req := httptest.NewRequest(http.MethodPost, "/api/participant_create", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already participates")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateParticipantMissingIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/api/participant_create", CreateParticipant(nil, nil))

	body := `{"bid_value": 1500000000, "submission_date": "2026-09-01"}`
	req := httptest.NewRequest(http.MethodPost, "/api/participant_create", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "procurement_id and vendor_id are required")
}
