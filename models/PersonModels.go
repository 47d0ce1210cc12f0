package models

import (
	"time"
)

// PersonDocumentType is the kind of document attached to a person.
type PersonDocumentType string

const (
	PersonDocumentCV          PersonDocumentType = "cv"
	PersonDocumentCertificate PersonDocumentType = "certificate"
)

func (t PersonDocumentType) Valid() bool {
	switch t {
	case PersonDocumentCV, PersonDocumentCertificate:
		return true
	}
	return false
}

// Person is a vendor's contact or key personnel. Full names are unique
// across the whole system, not per vendor.
type Person struct {
	ID        uint      `gorm:"primaryKey" json:"id" example:"1"`
	VendorID  uint      `gorm:"not null;index" json:"vendor_id" example:"1"`
	FullName  string    `gorm:"size:255;not null;uniqueIndex" json:"full_name" example:"Budi Santoso"`
	Role      string    `gorm:"size:100" json:"role" example:"Project Manager"`
	Email     string    `gorm:"size:255" json:"email,omitempty" example:"budi@acme.co.id"`
	Phone     string    `gorm:"size:50" json:"phone,omitempty" example:"+628121234567"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Vendor    *Vendor          `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE" json:"vendor,omitempty"`
	Documents []PersonDocument `gorm:"foreignKey:PersonID;constraint:OnDelete:CASCADE" json:"documents,omitempty"`
}

func (Person) TableName() string {
	return "persons"
}

// PersonDocument holds the stored-file reference for a person-level
// document (CV, certificate). One row exists per (person, file name);
// re-uploads overwrite it.
type PersonDocument struct {
	ID           uint               `gorm:"primaryKey" json:"id" example:"1"`
	PersonID     uint               `gorm:"not null;uniqueIndex:idx_person_document_file" json:"person_id" example:"1"`
	DocumentType PersonDocumentType `gorm:"size:20;not null" json:"document_type" example:"cv"`
	Title        string             `gorm:"size:255;not null" json:"title" example:"Curriculum Vitae"`
	FileKey      string             `gorm:"size:1024" json:"file_key" example:"dev/vendors/PT_Acme_Konstruksi/persons/Budi_Santoso/cv.pdf"`
	FileName     string             `gorm:"size:512;uniqueIndex:idx_person_document_file" json:"file_name" example:"cv.pdf"`
	IssuedDate   *DateOnly          `json:"issued_date,omitempty"`
	ExpiredDate  *DateOnly          `json:"expired_date,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`

	SignedFileURL string `gorm:"-" json:"signed_file_url,omitempty"`
}

func (PersonDocument) TableName() string {
	return "person_documents"
}
