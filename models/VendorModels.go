package models

import (
	"time"
)

// VendorType classifies the legal form of a vendor.
type VendorType string

const (
	VendorTypePT       VendorType = "PT"
	VendorTypeCV       VendorType = "CV"
	VendorTypeBUMN     VendorType = "BUMN"
	VendorTypePersonal VendorType = "PERSONAL"
)

func (t VendorType) Valid() bool {
	switch t {
	case VendorTypePT, VendorTypeCV, VendorTypeBUMN, VendorTypePersonal:
		return true
	}
	return false
}

// VendorDocumentType is the kind of document attached to a vendor.
type VendorDocumentType string

const (
	VendorDocumentCertificate VendorDocumentType = "certificate"
	VendorDocumentNPWP        VendorDocumentType = "npwp"
	VendorDocumentPortfolio   VendorDocumentType = "portfolio"
)

func (t VendorDocumentType) Valid() bool {
	switch t {
	case VendorDocumentCertificate, VendorDocumentNPWP, VendorDocumentPortfolio:
		return true
	}
	return false
}

// Vendor represents a company or individual bidding in procurements.
type Vendor struct {
	ID         uint       `gorm:"primaryKey" json:"id" example:"1"`
	Name       string     `gorm:"size:255;not null" json:"name" example:"PT Acme Konstruksi"`
	NPWP       *string    `gorm:"size:50;uniqueIndex" json:"npwp,omitempty" example:"01.234.567.8-901.000"`
	VendorType VendorType `gorm:"size:20;not null" json:"vendor_type" example:"PT"`
	Address    string     `gorm:"size:1000" json:"address" example:"Jl. Sudirman No. 1, Jakarta"`
	Email      string     `gorm:"size:255" json:"email" example:"contact@acme.co.id"`
	Phone      string     `gorm:"size:50" json:"phone" example:"+62211234567"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// Relations
	Persons   []Person         `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE" json:"persons,omitempty"`
	Documents []VendorDocument `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE" json:"documents,omitempty"`
}

func (Vendor) TableName() string {
	return "vendors"
}

// VendorDocument holds the stored-file reference for a vendor-level
// document. FileKey is computed once at upload time and never recomputed,
// even if the vendor is renamed afterwards. One row exists per
// (vendor, file name); re-uploads overwrite it.
type VendorDocument struct {
	ID           uint               `gorm:"primaryKey" json:"id" example:"1"`
	VendorID     uint               `gorm:"not null;uniqueIndex:idx_vendor_document_file" json:"vendor_id" example:"1"`
	DocumentType VendorDocumentType `gorm:"size:20;not null" json:"document_type" example:"certificate"`
	Title        string             `gorm:"size:255;not null" json:"title" example:"ISO 9001"`
	FileKey      string             `gorm:"size:1024" json:"file_key" example:"dev/vendors/PT_Acme_Konstruksi/iso9001.pdf"`
	FileName     string             `gorm:"size:512;uniqueIndex:idx_vendor_document_file" json:"file_name" example:"iso9001.pdf"`
	IssuedDate   *DateOnly          `json:"issued_date,omitempty"`
	ExpiredDate  *DateOnly          `json:"expired_date,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`

	// Computed on access, never persisted
	SignedFileURL string `gorm:"-" json:"signed_file_url,omitempty"`
}

func (VendorDocument) TableName() string {
	return "vendor_documents"
}
