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
)

// Renaming a vendor only rewrites the vendors row. The pinned column list
// and the strict expectation set prove no statement touches
// vendor_documents or any file_key.
func TestUpdateVendorLeavesDocumentKeysAlone(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE vendors\s+SET name = \$1, npwp = \$2, vendor_type = \$3, address = \$4, email = \$5, phone = \$6, updated_at = \$7\s+WHERE id = \$8`).
		WithArgs("PT Acme Rebranded", nil, "PT", "", "", "", sqlmock.AnyArg(), "7").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO activity_logs`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	r := gin.New()
	r.PUT("/api/update_vendor/:id", UpdateVendor(db))

	body := `{"name": "PT Acme Rebranded", "vendor_type": "PT"}`
	req := httptest.NewRequest(http.MethodPut, "/api/update_vendor/7", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateVendorNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE vendors`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	r := gin.New()
	r.PUT("/api/update_vendor/:id", UpdateVendor(db))

	body := `{"name": "Ghost", "vendor_type": "CV"}`
	req := httptest.NewRequest(http.MethodPut, "/api/update_vendor/999", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
