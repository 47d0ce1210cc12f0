package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVendorDocumentKey(t *testing.T) {
	cfg := PathConfig{Environment: "prod"}

	key := VendorDocumentKey(cfg, "acme corp", "cv.pdf")
	assert.Equal(t, "prod/vendors/acme_corp/cv.pdf", key)
}

func TestVendorDocumentKeyDefaultEnvironment(t *testing.T) {
	key := VendorDocumentKey(PathConfig{}, "acme corp", "cv.pdf")
	assert.Equal(t, "dev/vendors/acme_corp/cv.pdf", key)
}

func TestVendorDocumentKeyFilenameVerbatim(t *testing.T) {
	// Only the name segments are sanitized; the filename is the caller's
	// responsibility and is kept as the final segment.
	cfg := PathConfig{Environment: "dev"}
	key := VendorDocumentKey(cfg, "PT Acme / Konstruksi", "Laporan Akhir (final).pdf")
	assert.Equal(t, "dev/vendors/PT_Acme_Konstruksi/Laporan Akhir (final).pdf", key)
}

func TestVendorDocumentKeyDotName(t *testing.T) {
	// A vendor named with dots only must not produce a traversable segment.
	cfg := PathConfig{Environment: "dev"}
	key := VendorDocumentKey(cfg, "..", "cv.pdf")
	assert.Equal(t, "dev/vendors/_/cv.pdf", key)
}

func TestPersonDocumentKey(t *testing.T) {
	cfg := PathConfig{Environment: "prod"}

	key := PersonDocumentKey(cfg, "PT Acme Konstruksi", "Budi Santoso", "cv.pdf")
	assert.Equal(t, "prod/vendors/PT_Acme_Konstruksi/persons/Budi_Santoso/cv.pdf", key)
}

func TestParticipantFileKey(t *testing.T) {
	cfg := PathConfig{Environment: "prod"}

	key := ParticipantFileKey(cfg, "CV Maju Jaya", "Jembatan Musi III", "penawaran.pdf")
	assert.Equal(t, "prod/vendors/CV_Maju_Jaya/Jembatan_Musi_III/penawaran.pdf", key)
}

func TestKeysStableUnderRename(t *testing.T) {
	// A key computed at upload time must not depend on anything mutable
	// besides the names passed in; recomputing with the same inputs always
	// yields the same key.
	cfg := PathConfig{Environment: "dev"}
	first := VendorDocumentKey(cfg, "acme corp", "npwp.pdf")
	second := VendorDocumentKey(cfg, "acme corp", "npwp.pdf")
	assert.Equal(t, first, second)
}
