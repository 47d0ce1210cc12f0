package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/SandiRizqi/procurement-backend/models"
	"github.com/SandiRizqi/procurement-backend/repository"
	"github.com/SandiRizqi/procurement-backend/services"
	"github.com/SandiRizqi/procurement-backend/utils"
)

// CreateProcurement opens a procurement process against a project.
// @Summary Create procurement
// @Tags Procurements
// @Accept json
// @Produce json
// @Param body body models.Procurement true "Procurement data"
// @Success 201 {object} models.Procurement
// @Failure 400 {object} models.ErrorResponse
// @Router /api/procurement_create [post]
func CreateProcurement(gdb *gorm.DB, db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var procurement models.Procurement
		if err := c.ShouldBindJSON(&procurement); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON input", "details": err.Error()})
			return
		}
		if procurement.ProjectID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "project_id is required"})
			return
		}
		if !procurement.ProcurementType.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid procurement_type"})
			return
		}
		if procurement.Status == "" {
			procurement.Status = models.ProcurementOpen
		}
		if !procurement.Status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		if procurement.EndDate.ToTime().Before(procurement.StartDate.ToTime()) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must not be before start_date"})
			return
		}

		if err := gdb.Create(&procurement).Error; err != nil {
			log.Printf("Error inserting procurement: %v\n", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to insert procurement", "details": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, procurement)

		if logErr := SaveActivityLog(db, models.ActivityLog{
			EventContext: "Procurement",
			EventName:    "Create",
			Description:  fmt.Sprintf("Open procurement for project id %d", procurement.ProjectID),
			UserName:     actorName(c),
		}); logErr != nil {
			log.Printf("Failed to log activity: %v", logErr)
		}
	}
}

// UpdateProcurement updates a procurement by ID.
// @Summary Update procurement
// @Tags Procurements
// @Accept json
// @Produce json
// @Param id path int true "Procurement ID"
// @Param body body models.Procurement true "Procurement data"
// @Success 200 {object} utils.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /api/procurement_update/{id} [put]
func UpdateProcurement(gdb *gorm.DB, db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var existing models.Procurement
		if err := gdb.First(&existing, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "procurement not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch procurement", "details": err.Error()})
			return
		}

		var input models.Procurement
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON input", "details": err.Error()})
			return
		}
		if !input.ProcurementType.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid procurement_type"})
			return
		}
		if !input.Status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}

		updates := map[string]interface{}{
			"project_id":       input.ProjectID,
			"procurement_type": input.ProcurementType,
			"start_date":       input.StartDate,
			"end_date":         input.EndDate,
			"status":           input.Status,
			"updated_at":       time.Now(),
		}
		if err := gdb.Model(&existing).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update procurement", "details": err.Error()})
			return
		}

		utils.SuccessResponse(c, "Procurement updated", http.StatusOK)

		if logErr := SaveActivityLog(db, models.ActivityLog{
			EventContext: "Procurement",
			EventName:    "Update",
			Description:  "Update procurement id " + c.Param("id"),
			UserName:     actorName(c),
		}); logErr != nil {
			log.Printf("Failed to log activity: %v", logErr)
		}
	}
}

// DeleteProcurement removes a procurement and its participants via cascade.
// @Summary Delete procurement
// @Tags Procurements
// @Param id path int true "Procurement ID"
// @Success 200 {object} utils.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /api/procurement_delete/{id} [delete]
func DeleteProcurement(gdb *gorm.DB, db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := gdb.Delete(&models.Procurement{}, "id = ?", c.Param("id"))
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete procurement", "details": result.Error.Error()})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "procurement not found"})
			return
		}

		utils.SuccessResponse(c, "Procurement deleted", http.StatusOK)

		if logErr := SaveActivityLog(db, models.ActivityLog{
			EventContext: "Procurement",
			EventName:    "Delete",
			Description:  "Delete procurement id " + c.Param("id"),
			UserName:     actorName(c),
		}); logErr != nil {
			log.Printf("Failed to log activity: %v", logErr)
		}
	}
}

// GetAllProcurements lists procurements newest first, with the project
// inlined and the admin filters for status and procurement_type.
// @Summary List procurements
// @Tags Procurements
// @Produce json
// @Param status query string false "open, evaluation, winner_selected or failed"
// @Param procurement_type query string false "lelang or penunjukan"
// @Param project_id query int false "Filter by project"
// @Success 200 {array} models.Procurement
// @Router /api/procurements [get]
func GetAllProcurements(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tx := gdb.Preload("Project").Order("start_date DESC")

		if status := c.Query("status"); status != "" {
			tx = tx.Where("status = ?", status)
		}
		if pType := c.Query("procurement_type"); pType != "" {
			tx = tx.Where("procurement_type = ?", pType)
		}
		if projectID := c.Query("project_id"); projectID != "" {
			tx = tx.Where("project_id = ?", projectID)
		}

		procurements := []models.Procurement{}
		if err := tx.Find(&procurements).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch procurements", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, procurements)
	}
}

// FetchProcurement returns one procurement with project and participants
// inlined. Each participant carries a formatted bid value and, when a bid
// file was uploaded, a fresh signed URL.
// @Summary Fetch procurement with participants
// @Tags Procurements
// @Produce json
// @Param id path int true "Procurement ID"
// @Success 200 {object} models.Procurement
// @Failure 404 {object} models.ErrorResponse
// @Router /api/procurement_fetch/{id} [get]
func FetchProcurement(gdb *gorm.DB, docs *services.DocumentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var procurement models.Procurement
		err := gdb.Preload("Project").
			Preload("Participants", func(tx *gorm.DB) *gorm.DB {
				return tx.Order("bid_value ASC")
			}).
			Preload("Participants.Vendor").
			First(&procurement, "id = ?", c.Param("id")).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "procurement not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch procurement", "details": err.Error()})
			return
		}

		ctx, cancel := utils.GetDefaultQueryContext(c.Request.Context())
		defer cancel()
		for i := range procurement.Participants {
			p := &procurement.Participants[i]
			p.BidValueDisplay = repository.FormatRupiah(p.BidValue)
			p.SignedFileURL = signedURLOrEmpty(ctx, docs, p.FileKey)
		}

		c.JSON(http.StatusOK, procurement)
	}
}
