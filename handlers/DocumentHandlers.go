package handlers

import (
	"database/sql"
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/SandiRizqi/procurement-backend/models"
	"github.com/SandiRizqi/procurement-backend/services"
	"github.com/SandiRizqi/procurement-backend/utils"
)

// MaxUploadSize caps document uploads at 25 MiB.
const MaxUploadSize = 25 << 20

// uploadedFile pulls the multipart "file" part out of the request and
// normalizes the filename to its base name, so client paths never leak into
// storage keys.
func uploadedFile(c *gin.Context) (multipart.File, *multipart.FileHeader, string, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required", "details": err.Error()})
		return nil, nil, "", false
	}
	if header.Size > MaxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file exceeds the upload limit"})
		return nil, nil, "", false
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload", "details": err.Error()})
		return nil, nil, "", false
	}
	return file, header, filepath.Base(filepath.ToSlash(header.Filename)), true
}

// optionalDate parses an optional "2006-01-02" form value.
func optionalDate(c *gin.Context, field string) (*models.DateOnly, bool) {
	raw := c.PostForm(field)
	if raw == "" {
		return nil, true
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": field + " must be YYYY-MM-DD"})
		return nil, false
	}
	return &models.DateOnly{Time: parsed}, true
}

// UploadVendorDocument attaches a document file to a vendor. Re-uploading a
// file with the same name for the same vendor overwrites the stored object
// and updates the existing row.
// @Summary Upload vendor document
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Vendor ID"
// @Param file formData file true "Document file"
// @Param title formData string true "Document title"
// @Param document_type formData string true "certificate, npwp or portfolio"
// @Param issued_date formData string false "YYYY-MM-DD"
// @Param expired_date formData string false "YYYY-MM-DD"
// @Success 201 {object} models.VendorDocument
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/vendor_document_upload/{id} [post]
func UploadVendorDocument(gdb *gorm.DB, db *sql.DB, docs *services.DocumentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var vendor models.Vendor
		if err := gdb.First(&vendor, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "vendor not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch vendor", "details": err.Error()})
			return
		}

		docType := models.VendorDocumentType(c.PostForm("document_type"))
		if !docType.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document_type"})
			return
		}
		title := c.PostForm("title")
		if title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
			return
		}
		issued, ok := optionalDate(c, "issued_date")
		if !ok {
			return
		}
		expired, ok := optionalDate(c, "expired_date")
		if !ok {
			return
		}

		file, header, filename, ok := uploadedFile(c)
		if !ok {
			return
		}
		defer file.Close()

		ctx, cancel := utils.GetDefaultQueryContext(c.Request.Context())
		defer cancel()
		key, err := docs.UploadVendorDocument(ctx, vendor.Name, filename, file, header.Size,
			header.Header.Get("Content-Type"))
		if err != nil {
			log.Printf("Vendor document upload failed: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to store document", "details": err.Error()})
			return
		}

		doc := models.VendorDocument{
			VendorID:     vendor.ID,
			DocumentType: docType,
			Title:        title,
			FileKey:      key,
			FileName:     filename,
			IssuedDate:   issued,
			ExpiredDate:  expired,
		}

		var existing models.VendorDocument
		err = gdb.First(&existing, "vendor_id = ? AND file_name = ?", vendor.ID, filename).Error
		switch {
		case err == nil:
			doc.ID = existing.ID
			doc.CreatedAt = existing.CreatedAt
			err = gdb.Save(&doc).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			err = gdb.Create(&doc).Error
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// A concurrent upload of the same filename won the insert;
				// overwrite that row instead.
				if err = gdb.First(&existing, "vendor_id = ? AND file_name = ?", vendor.ID, filename).Error; err == nil {
					doc.ID = existing.ID
					doc.CreatedAt = existing.CreatedAt
					err = gdb.Save(&doc).Error
				}
			}
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save document", "details": err.Error()})
			return
		}

		doc.SignedFileURL = signedURLOrEmpty(ctx, docs, doc.FileKey)
		c.JSON(http.StatusCreated, doc)

		if logErr := SaveActivityLog(db, models.ActivityLog{
			EventContext: "VendorDocument",
			EventName:    "Upload",
			Description:  "Upload document " + filename + " for vendor " + vendor.Name,
			UserName:     actorName(c),
		}); logErr != nil {
			log.Printf("Failed to log activity: %v", logErr)
		}
	}
}

// UploadPersonDocument attaches a document file to a person. The storage key
// nests under the person's vendor.
// @Summary Upload person document
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Person ID"
// @Param file formData file true "Document file"
// @Param title formData string true "Document title"
// @Param document_type formData string true "cv or certificate"
// @Param issued_date formData string false "YYYY-MM-DD"
// @Param expired_date formData string false "YYYY-MM-DD"
// @Success 201 {object} models.PersonDocument
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/person_document_upload/{id} [post]
func UploadPersonDocument(gdb *gorm.DB, db *sql.DB, docs *services.DocumentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var person models.Person
		if err := gdb.Preload("Vendor").First(&person, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "person not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch person", "details": err.Error()})
			return
		}
		if person.Vendor == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "person has no vendor"})
			return
		}

		docType := models.PersonDocumentType(c.PostForm("document_type"))
		if !docType.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document_type"})
			return
		}
		title := c.PostForm("title")
		if title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
			return
		}
		issued, ok := optionalDate(c, "issued_date")
		if !ok {
			return
		}
		expired, ok := optionalDate(c, "expired_date")
		if !ok {
			return
		}

		file, header, filename, ok := uploadedFile(c)
		if !ok {
			return
		}
		defer file.Close()

		ctx, cancel := utils.GetDefaultQueryContext(c.Request.Context())
		defer cancel()
		key, err := docs.UploadPersonDocument(ctx, person.Vendor.Name, person.FullName, filename,
			file, header.Size, header.Header.Get("Content-Type"))
		if err != nil {
			log.Printf("Person document upload failed: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to store document", "details": err.Error()})
			return
		}

		doc := models.PersonDocument{
			PersonID:     person.ID,
			DocumentType: docType,
			Title:        title,
			FileKey:      key,
			FileName:     filename,
			IssuedDate:   issued,
			ExpiredDate:  expired,
		}

		var existing models.PersonDocument
		err = gdb.First(&existing, "person_id = ? AND file_name = ?", person.ID, filename).Error
		switch {
		case err == nil:
			doc.ID = existing.ID
			doc.CreatedAt = existing.CreatedAt
			err = gdb.Save(&doc).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			err = gdb.Create(&doc).Error
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// A concurrent upload of the same filename won the insert;
				// overwrite that row instead.
				if err = gdb.First(&existing, "person_id = ? AND file_name = ?", person.ID, filename).Error; err == nil {
					doc.ID = existing.ID
					doc.CreatedAt = existing.CreatedAt
					err = gdb.Save(&doc).Error
				}
			}
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save document", "details": err.Error()})
			return
		}

		doc.SignedFileURL = signedURLOrEmpty(ctx, docs, doc.FileKey)
		c.JSON(http.StatusCreated, doc)

		if logErr := SaveActivityLog(db, models.ActivityLog{
			EventContext: "PersonDocument",
			EventName:    "Upload",
			Description:  "Upload document " + filename + " for person " + person.FullName,
			UserName:     actorName(c),
		}); logErr != nil {
			log.Printf("Failed to log activity: %v", logErr)
		}
	}
}

// UploadParticipantFile attaches the bid file to a procurement participant.
// The storage key nests the project folder under the vendor folder.
// @Summary Upload participant bid file
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Participant ID"
// @Param file formData file true "Bid file"
// @Success 200 {object} models.ProcurementParticipant
// @Failure 404 {object} models.ErrorResponse
// @Router /api/participant_file_upload/{id} [post]
func UploadParticipantFile(gdb *gorm.DB, db *sql.DB, docs *services.DocumentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var participant models.ProcurementParticipant
		err := gdb.Preload("Vendor").Preload("Procurement.Project").
			First(&participant, "id = ?", c.Param("id")).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "participant not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch participant", "details": err.Error()})
			return
		}
		if participant.Vendor == nil || participant.Procurement == nil || participant.Procurement.Project == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "participant relations incomplete"})
			return
		}

		file, header, filename, ok := uploadedFile(c)
		if !ok {
			return
		}
		defer file.Close()

		ctx, cancel := utils.GetDefaultQueryContext(c.Request.Context())
		defer cancel()
		key, err := docs.UploadParticipantFile(ctx, participant.Vendor.Name,
			participant.Procurement.Project.ProjectName, filename,
			file, header.Size, header.Header.Get("Content-Type"))
		if err != nil {
			log.Printf("Participant file upload failed: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to store file", "details": err.Error()})
			return
		}

		updates := map[string]interface{}{
			"file_key":   key,
			"file_name":  filename,
			"updated_at": time.Now(),
		}
		if err := gdb.Model(&participant).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file reference", "details": err.Error()})
			return
		}

		participant.SignedFileURL = signedURLOrEmpty(ctx, docs, key)
		c.JSON(http.StatusOK, participant)

		if logErr := SaveActivityLog(db, models.ActivityLog{
			EventContext: "Participant",
			EventName:    "UploadFile",
			Description:  "Upload bid file " + filename + " for vendor " + participant.Vendor.Name,
			UserName:     actorName(c),
		}); logErr != nil {
			log.Printf("Failed to log activity: %v", logErr)
		}
	}
}

// DeleteVendorDocument removes a vendor document row and, best effort, the
// stored object.
// @Summary Delete vendor document
// @Tags Documents
// @Param id path int true "Document ID"
// @Success 200 {object} utils.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /api/vendor_document/{id} [delete]
func DeleteVendorDocument(gdb *gorm.DB, db *sql.DB, docs *services.DocumentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var doc models.VendorDocument
		if err := gdb.First(&doc, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch document", "details": err.Error()})
			return
		}

		if err := gdb.Delete(&doc).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete document", "details": err.Error()})
			return
		}

		ctx, cancel := utils.GetDefaultQueryContext(c.Request.Context())
		defer cancel()
		if err := docs.Remove(ctx, doc.FileKey); err != nil {
			log.Printf("Failed to remove object %q: %v", doc.FileKey, err)
		}

		utils.SuccessResponse(c, "Document deleted", http.StatusOK)

		if logErr := SaveActivityLog(db, models.ActivityLog{
			EventContext: "VendorDocument",
			EventName:    "Delete",
			Description:  "Delete vendor document " + doc.Title,
			UserName:     actorName(c),
		}); logErr != nil {
			log.Printf("Failed to log activity: %v", logErr)
		}
	}
}

// DeletePersonDocument removes a person document row and, best effort, the
// stored object.
// @Summary Delete person document
// @Tags Documents
// @Param id path int true "Document ID"
// @Success 200 {object} utils.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /api/person_document/{id} [delete]
func DeletePersonDocument(gdb *gorm.DB, db *sql.DB, docs *services.DocumentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var doc models.PersonDocument
		if err := gdb.First(&doc, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch document", "details": err.Error()})
			return
		}

		if err := gdb.Delete(&doc).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete document", "details": err.Error()})
			return
		}

		ctx, cancel := utils.GetDefaultQueryContext(c.Request.Context())
		defer cancel()
		if err := docs.Remove(ctx, doc.FileKey); err != nil {
			log.Printf("Failed to remove object %q: %v", doc.FileKey, err)
		}

		utils.SuccessResponse(c, "Document deleted", http.StatusOK)

		if logErr := SaveActivityLog(db, models.ActivityLog{
			EventContext: "PersonDocument",
			EventName:    "Delete",
			Description:  "Delete person document " + doc.Title,
			UserName:     actorName(c),
		}); logErr != nil {
			log.Printf("Failed to log activity: %v", logErr)
		}
	}
}

// signedURLResponse is the body of the dedicated signed-URL endpoints.
type signedURLResponse struct {
	SignedURL string `json:"signed_url" example:"https://bucket.s3.amazonaws.com/dev/vendors/..."`
	ExpiresIn int    `json:"expires_in" example:"3600"`
}

// documentFileKey looks up the stored key across the three file-bearing
// tables for the signed-URL endpoint.
func documentFileKey(gdb *gorm.DB, kind, id string) (string, error) {
	switch kind {
	case "vendor":
		var doc models.VendorDocument
		if err := gdb.First(&doc, "id = ?", id).Error; err != nil {
			return "", err
		}
		return doc.FileKey, nil
	case "person":
		var doc models.PersonDocument
		if err := gdb.First(&doc, "id = ?", id).Error; err != nil {
			return "", err
		}
		return doc.FileKey, nil
	case "participant":
		var p models.ProcurementParticipant
		if err := gdb.First(&p, "id = ?", id).Error; err != nil {
			return "", err
		}
		return p.FileKey, nil
	}
	return "", gorm.ErrRecordNotFound
}

// GetSignedURL mints a fresh presigned URL for one stored document. Unlike
// the list endpoints, a presign failure here is surfaced as 502.
// @Summary Presign a document URL
// @Tags Documents
// @Produce json
// @Param kind path string true "vendor, person or participant"
// @Param id path int true "Document or participant ID"
// @Success 200 {object} signedURLResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /api/documents/{kind}/{id}/signed_url [get]
func GetSignedURL(gdb *gorm.DB, docs *services.DocumentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileKey, err := documentFileKey(gdb, c.Param("kind"), c.Param("id"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch document", "details": err.Error()})
			return
		}
		if fileKey == "" {
			c.JSON(http.StatusNotFound, gin.H{"error": "document has no stored file"})
			return
		}

		ctx, cancel := utils.GetDefaultQueryContext(c.Request.Context())
		defer cancel()
		url, err := docs.SignedURL(ctx, fileKey)
		if err != nil {
			log.Printf("presign failed for key %q: %v", fileKey, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to sign document URL"})
			return
		}

		c.JSON(http.StatusOK, signedURLResponse{
			SignedURL: url,
			ExpiresIn: int(services.SignedURLTTL / time.Second),
		})
	}
}
