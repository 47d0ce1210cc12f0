package handlers

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/SandiRizqi/procurement-backend/models"
	"github.com/SandiRizqi/procurement-backend/services"
	"github.com/SandiRizqi/procurement-backend/utils"
)

// uniqueViolation reports whether a raw-SQL error is a Postgres
// unique-constraint violation (class 23505).
func uniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// CreateVendor creates a new vendor.
// @Summary Create vendor
// @Description Creates a vendor. NPWP must be unique when given.
// @Tags Vendors
// @Accept json
// @Produce json
// @Param body body models.Vendor true "Vendor data"
// @Success 201 {object} models.Vendor
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/create_vendor [post]
func CreateVendor(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var vendor models.Vendor
		if err := c.ShouldBindJSON(&vendor); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON input", "details": err.Error()})
			return
		}
		if vendor.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}
		if !vendor.VendorType.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vendor_type"})
			return
		}

		vendor.CreatedAt = time.Now()
		vendor.UpdatedAt = time.Now()

		query := `
			INSERT INTO vendors (name, npwp, vendor_type, address, email, phone, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`

		err := db.QueryRow(query,
			vendor.Name,
			vendor.NPWP,
			vendor.VendorType,
			vendor.Address,
			vendor.Email,
			vendor.Phone,
			vendor.CreatedAt,
			vendor.UpdatedAt,
		).Scan(&vendor.ID)
		if err != nil {
			if uniqueViolation(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "npwp already registered"})
				return
			}
			log.Printf("Error inserting vendor: %v\n", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to insert vendor", "details": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, vendor)

		if logErr := SaveActivityLog(db, models.ActivityLog{
			EventContext: "Vendor",
			EventName:    "Create",
			Description:  "Create vendor " + vendor.Name,
			UserName:     actorName(c),
		}); logErr != nil {
			log.Printf("Failed to log activity: %v", logErr)
		}
	}
}

// UpdateVendor updates a vendor by ID. Renaming a vendor does not touch the
// storage keys of documents uploaded earlier.
// @Summary Update vendor
// @Tags Vendors
// @Accept json
// @Produce json
// @Param id path int true "Vendor ID"
// @Param body body models.Vendor true "Vendor data"
// @Success 200 {object} models.Vendor
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/update_vendor/{id} [put]
func UpdateVendor(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var vendor models.Vendor
		if err := c.ShouldBindJSON(&vendor); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON input", "details": err.Error()})
			return
		}
		if !vendor.VendorType.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vendor_type"})
			return
		}

		query := `
			UPDATE vendors
			SET name = $1, npwp = $2, vendor_type = $3, address = $4, email = $5, phone = $6, updated_at = $7
			WHERE id = $8`

		result, err := db.Exec(query,
			vendor.Name, vendor.NPWP, vendor.VendorType, vendor.Address,
			vendor.Email, vendor.Phone, time.Now(), id,
		)
		if err != nil {
			if uniqueViolation(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "npwp already registered"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update vendor", "details": err.Error()})
			return
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "vendor not found"})
			return
		}

		utils.SuccessResponse(c, "Vendor updated", http.StatusOK)

		if logErr := SaveActivityLog(db, models.ActivityLog{
			EventContext: "Vendor",
			EventName:    "Update",
			Description:  "Update vendor " + vendor.Name,
			UserName:     actorName(c),
		}); logErr != nil {
			log.Printf("Failed to log activity: %v", logErr)
		}
	}
}

// DeleteVendor removes a vendor; persons, documents and participations go
// with it via the cascade constraints.
// @Summary Delete vendor
// @Tags Vendors
// @Param id path int true "Vendor ID"
// @Success 200 {object} utils.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /api/delete_vendor/{id} [delete]
func DeleteVendor(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		result, err := db.Exec(`DELETE FROM vendors WHERE id = $1`, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete vendor", "details": err.Error()})
			return
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "vendor not found"})
			return
		}

		utils.SuccessResponse(c, "Vendor deleted", http.StatusOK)

		if logErr := SaveActivityLog(db, models.ActivityLog{
			EventContext: "Vendor",
			EventName:    "Delete",
			Description:  "Delete vendor id " + id,
			UserName:     actorName(c),
		}); logErr != nil {
			log.Printf("Failed to log activity: %v", logErr)
		}
	}
}

// GetAllVendors lists vendors with the admin list filters: vendor_type and
// a search over name, npwp and person full names.
// @Summary List vendors
// @Tags Vendors
// @Produce json
// @Param vendor_type query string false "PT, CV, BUMN or PERSONAL"
// @Param search query string false "Search name, npwp, person names"
// @Success 200 {array} models.Vendor
// @Router /api/vendors [get]
func GetAllVendors(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := `
			SELECT DISTINCT v.id, v.name, v.npwp, v.vendor_type, v.address, v.email, v.phone, v.created_at, v.updated_at
			FROM vendors v
			LEFT JOIN persons p ON p.vendor_id = v.id
			WHERE 1=1`
		args := []interface{}{}

		if vendorType := c.Query("vendor_type"); vendorType != "" {
			args = append(args, vendorType)
			query += ` AND v.vendor_type = $1`
		}
		if search := c.Query("search"); search != "" {
			args = append(args, "%"+search+"%")
			n := strconv.Itoa(len(args))
			query += ` AND (v.name ILIKE $` + n + ` OR v.npwp ILIKE $` + n + ` OR p.full_name ILIKE $` + n + `)`
		}
		query += ` ORDER BY v.name`

		rows, err := db.Query(query, args...)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch vendors", "details": err.Error()})
			return
		}
		defer rows.Close()

		vendors := []models.Vendor{}
		for rows.Next() {
			var v models.Vendor
			if err := rows.Scan(&v.ID, &v.Name, &v.NPWP, &v.VendorType, &v.Address, &v.Email, &v.Phone,
				&v.CreatedAt, &v.UpdatedAt); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan vendor", "details": err.Error()})
				return
			}
			vendors = append(vendors, v)
		}

		c.JSON(http.StatusOK, vendors)
	}
}

// FetchVendor returns one vendor with persons and documents inlined, each
// document carrying a fresh signed URL. A presign failure downgrades to an
// empty URL rather than failing the whole response.
// @Summary Fetch vendor with inlines
// @Tags Vendors
// @Produce json
// @Param id path int true "Vendor ID"
// @Success 200 {object} models.Vendor
// @Failure 404 {object} models.ErrorResponse
// @Router /api/vendor_fetch/{id} [get]
func FetchVendor(gdb *gorm.DB, docs *services.DocumentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var vendor models.Vendor
		err := gdb.Preload("Persons.Documents").Preload("Documents").
			First(&vendor, "id = ?", c.Param("id")).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "vendor not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch vendor", "details": err.Error()})
			return
		}

		ctx, cancel := utils.GetDefaultQueryContext(c.Request.Context())
		defer cancel()
		for i := range vendor.Documents {
			vendor.Documents[i].SignedFileURL = signedURLOrEmpty(ctx, docs, vendor.Documents[i].FileKey)
		}
		for i := range vendor.Persons {
			for j := range vendor.Persons[i].Documents {
				vendor.Persons[i].Documents[j].SignedFileURL = signedURLOrEmpty(ctx, docs, vendor.Persons[i].Documents[j].FileKey)
			}
		}

		c.JSON(http.StatusOK, vendor)
	}
}

// signedURLOrEmpty degrades a presign failure to an unavailable link.
func signedURLOrEmpty(ctx context.Context, docs *services.DocumentService, fileKey string) string {
	url, err := docs.SignedURL(ctx, fileKey)
	if err != nil {
		log.Printf("presign failed for key %q: %v", fileKey, err)
		return ""
	}
	return url
}
