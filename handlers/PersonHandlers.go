package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/SandiRizqi/procurement-backend/models"
	"github.com/SandiRizqi/procurement-backend/services"
	"github.com/SandiRizqi/procurement-backend/utils"
)

// CreatePerson creates a person under a vendor. Full names are unique
// system-wide.
// @Summary Create person
// @Tags Persons
// @Accept json
// @Produce json
// @Param body body models.Person true "Person data"
// @Success 201 {object} models.Person
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/create_person [post]
func CreatePerson(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var person models.Person
		if err := c.ShouldBindJSON(&person); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON input", "details": err.Error()})
			return
		}
		if person.FullName == "" || person.VendorID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "full_name and vendor_id are required"})
			return
		}

		person.CreatedAt = time.Now()
		person.UpdatedAt = time.Now()

		query := `
			INSERT INTO persons (vendor_id, full_name, role, email, phone, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`

		err := db.QueryRow(query,
			person.VendorID, person.FullName, person.Role, person.Email, person.Phone,
			person.CreatedAt, person.UpdatedAt,
		).Scan(&person.ID)
		if err != nil {
			if uniqueViolation(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "full_name already registered"})
				return
			}
			log.Printf("Error inserting person: %v\n", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to insert person", "details": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, person)

		if logErr := SaveActivityLog(db, models.ActivityLog{
			EventContext: "Person",
			EventName:    "Create",
			Description:  "Create person " + person.FullName,
			UserName:     actorName(c),
		}); logErr != nil {
			log.Printf("Failed to log activity: %v", logErr)
		}
	}
}

// UpdatePerson updates a person by ID. A rename never moves document
// storage keys computed earlier.
// @Summary Update person
// @Tags Persons
// @Accept json
// @Produce json
// @Param id path int true "Person ID"
// @Param body body models.Person true "Person data"
// @Success 200 {object} utils.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /api/update_person/{id} [put]
func UpdatePerson(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var person models.Person
		if err := c.ShouldBindJSON(&person); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON input", "details": err.Error()})
			return
		}

		result, err := db.Exec(`
			UPDATE persons
			SET full_name = $1, role = $2, email = $3, phone = $4, updated_at = $5
			WHERE id = $6`,
			person.FullName, person.Role, person.Email, person.Phone, time.Now(), id,
		)
		if err != nil {
			if uniqueViolation(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "full_name already registered"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update person", "details": err.Error()})
			return
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "person not found"})
			return
		}

		utils.SuccessResponse(c, "Person updated", http.StatusOK)

		if logErr := SaveActivityLog(db, models.ActivityLog{
			EventContext: "Person",
			EventName:    "Update",
			Description:  "Update person " + person.FullName,
			UserName:     actorName(c),
		}); logErr != nil {
			log.Printf("Failed to log activity: %v", logErr)
		}
	}
}

// DeletePerson removes a person and, via cascade, their documents.
// @Summary Delete person
// @Tags Persons
// @Param id path int true "Person ID"
// @Success 200 {object} utils.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /api/delete_person/{id} [delete]
func DeletePerson(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		result, err := db.Exec(`DELETE FROM persons WHERE id = $1`, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete person", "details": err.Error()})
			return
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "person not found"})
			return
		}

		utils.SuccessResponse(c, "Person deleted", http.StatusOK)

		if logErr := SaveActivityLog(db, models.ActivityLog{
			EventContext: "Person",
			EventName:    "Delete",
			Description:  "Delete person id " + id,
			UserName:     actorName(c),
		}); logErr != nil {
			log.Printf("Failed to log activity: %v", logErr)
		}
	}
}

// GetAllPersons lists persons, ordered by vendor like the admin list, with
// optional vendor and search filters.
// @Summary List persons
// @Tags Persons
// @Produce json
// @Param vendor_id query int false "Filter by vendor"
// @Param search query string false "Search full name or email"
// @Success 200 {array} models.Person
// @Router /api/persons [get]
func GetAllPersons(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := `
			SELECT p.id, p.vendor_id, p.full_name, p.role, p.email, p.phone, p.created_at, p.updated_at
			FROM persons p
			WHERE 1=1`
		args := []interface{}{}

		if vendorID := c.Query("vendor_id"); vendorID != "" {
			args = append(args, vendorID)
			query += ` AND p.vendor_id = $1`
		}
		if search := c.Query("search"); search != "" {
			args = append(args, "%"+search+"%")
			if len(args) == 1 {
				query += ` AND (p.full_name ILIKE $1 OR p.email ILIKE $1)`
			} else {
				query += ` AND (p.full_name ILIKE $2 OR p.email ILIKE $2)`
			}
		}
		query += ` ORDER BY p.vendor_id, p.full_name`

		rows, err := db.Query(query, args...)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch persons", "details": err.Error()})
			return
		}
		defer rows.Close()

		persons := []models.Person{}
		for rows.Next() {
			var p models.Person
			if err := rows.Scan(&p.ID, &p.VendorID, &p.FullName, &p.Role, &p.Email, &p.Phone,
				&p.CreatedAt, &p.UpdatedAt); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan person", "details": err.Error()})
				return
			}
			persons = append(persons, p)
		}

		c.JSON(http.StatusOK, persons)
	}
}

// FetchPerson returns one person with vendor and documents inlined, each
// document carrying a fresh signed URL.
// @Summary Fetch person with documents
// @Tags Persons
// @Produce json
// @Param id path int true "Person ID"
// @Success 200 {object} models.Person
// @Failure 404 {object} models.ErrorResponse
// @Router /api/person_fetch/{id} [get]
func FetchPerson(gdb *gorm.DB, docs *services.DocumentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var person models.Person
		err := gdb.Preload("Vendor").Preload("Documents").
			First(&person, "id = ?", c.Param("id")).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "person not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch person", "details": err.Error()})
			return
		}

		ctx, cancel := utils.GetDefaultQueryContext(c.Request.Context())
		defer cancel()
		for i := range person.Documents {
			person.Documents[i].SignedFileURL = signedURLOrEmpty(ctx, docs, person.Documents[i].FileKey)
		}

		c.JSON(http.StatusOK, person)
	}
}
