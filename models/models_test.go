package models

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOnlyJSON(t *testing.T) {
	var d DateOnly
	require.NoError(t, json.Unmarshal([]byte(`"2026-03-15"`), &d))
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 15, d.Day())

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-03-15"`, string(out))
}

func TestDateOnlyUnmarshalRejectsTimestamps(t *testing.T) {
	var d DateOnly
	assert.Error(t, json.Unmarshal([]byte(`"2026-03-15T10:00:00Z"`), &d))
}

func TestDateOnlyScan(t *testing.T) {
	var d DateOnly
	require.NoError(t, d.Scan(time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 15, d.Day())

	require.NoError(t, d.Scan([]byte("2026-04-01")))
	assert.Equal(t, time.April, d.Month())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
}

func TestEnumValidation(t *testing.T) {
	assert.True(t, VendorTypePT.Valid())
	assert.False(t, VendorType("LLC").Valid())

	assert.True(t, ProcurementLelang.Valid())
	assert.False(t, ProcurementType("tender").Valid())

	assert.True(t, ParticipantWinner.Valid())
	assert.False(t, ParticipantStatus("pending").Valid())

	assert.True(t, ProjectPlanning.Valid())
	assert.False(t, ProjectStatus("archived").Valid())

	assert.True(t, VendorDocumentNPWP.Valid())
	assert.False(t, VendorDocumentType("contract").Valid())

	assert.True(t, PersonDocumentCV.Valid())
	assert.False(t, PersonDocumentType("photo").Valid())
}

func documentGormTag(t *testing.T, model interface{}, field string) string {
	t.Helper()
	f, ok := reflect.TypeOf(model).FieldByName(field)
	require.True(t, ok, "missing field %s", field)
	return f.Tag.Get("gorm")
}

// The owner/file-name pair is unique so concurrent uploads of the same
// filename cannot create two rows sharing one storage key.
func TestDocumentFileNameUniquePerOwner(t *testing.T) {
	assert.Contains(t, documentGormTag(t, VendorDocument{}, "VendorID"), "uniqueIndex:idx_vendor_document_file")
	assert.Contains(t, documentGormTag(t, VendorDocument{}, "FileName"), "uniqueIndex:idx_vendor_document_file")

	assert.Contains(t, documentGormTag(t, PersonDocument{}, "PersonID"), "uniqueIndex:idx_person_document_file")
	assert.Contains(t, documentGormTag(t, PersonDocument{}, "FileName"), "uniqueIndex:idx_person_document_file")

	assert.Contains(t, documentGormTag(t, ProcurementParticipant{}, "ProcurementID"), "uniqueIndex:idx_procurement_vendor")
	assert.Contains(t, documentGormTag(t, ProcurementParticipant{}, "VendorID"), "uniqueIndex:idx_procurement_vendor")
}
