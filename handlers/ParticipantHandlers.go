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

// CreateParticipant registers a vendor's bid in a procurement. A vendor can
// join a procurement at most once; the bid file is attached separately via
// the upload endpoint.
// @Summary Register procurement participant
// @Tags Participants
// @Accept json
// @Produce json
// @Param body body models.ProcurementParticipant true "Participant data"
// @Success 201 {object} models.ProcurementParticipant
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/participant_create [post]
func CreateParticipant(gdb *gorm.DB, db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var participant models.ProcurementParticipant
		if err := c.ShouldBindJSON(&participant); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON input", "details": err.Error()})
			return
		}
		if participant.ProcurementID == 0 || participant.VendorID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "procurement_id and vendor_id are required"})
			return
		}
		if participant.Status == "" {
			participant.Status = models.ParticipantSubmitted
		}
		if !participant.Status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}

		// File attachments go through the upload endpoint only.
		participant.FileKey = ""
		participant.FileName = ""

		if err := gdb.Create(&participant).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, gin.H{"error": "vendor already participates in this procurement"})
				return
			}
			log.Printf("Error inserting participant: %v\n", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to insert participant", "details": err.Error()})
			return
		}

		participant.BidValueDisplay = repository.FormatRupiah(participant.BidValue)
		c.JSON(http.StatusCreated, participant)

		if logErr := SaveActivityLog(db, models.ActivityLog{
			EventContext: "Participant",
			EventName:    "Create",
			Description: fmt.Sprintf("Register vendor id %d in procurement id %d",
				participant.VendorID, participant.ProcurementID),
			UserName: actorName(c),
		}); logErr != nil {
			log.Printf("Failed to log activity: %v", logErr)
		}
	}
}

// UpdateParticipant updates a bid's value, submission date or status. The
// procurement and vendor of a bid never change, and the stored file key is
// left untouched.
// @Summary Update procurement participant
// @Tags Participants
// @Accept json
// @Produce json
// @Param id path int true "Participant ID"
// @Param body body models.ProcurementParticipant true "Participant data"
// @Success 200 {object} utils.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /api/participant_update/{id} [put]
func UpdateParticipant(gdb *gorm.DB, db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var existing models.ProcurementParticipant
		if err := gdb.First(&existing, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "participant not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch participant", "details": err.Error()})
			return
		}

		var input models.ProcurementParticipant
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON input", "details": err.Error()})
			return
		}
		if !input.Status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}

		updates := map[string]interface{}{
			"bid_value":       input.BidValue,
			"submission_date": input.SubmissionDate,
			"status":          input.Status,
			"updated_at":      time.Now(),
		}
		if err := gdb.Model(&existing).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update participant", "details": err.Error()})
			return
		}

		utils.SuccessResponse(c, "Participant updated", http.StatusOK)

		if logErr := SaveActivityLog(db, models.ActivityLog{
			EventContext: "Participant",
			EventName:    "Update",
			Description:  "Update participant id " + c.Param("id"),
			UserName:     actorName(c),
		}); logErr != nil {
			log.Printf("Failed to log activity: %v", logErr)
		}
	}
}

// DeleteParticipant withdraws a bid. The uploaded bid file, if any, is
// removed from storage on a best-effort basis.
// @Summary Delete procurement participant
// @Tags Participants
// @Param id path int true "Participant ID"
// @Success 200 {object} utils.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /api/participant_delete/{id} [delete]
func DeleteParticipant(gdb *gorm.DB, db *sql.DB, docs *services.DocumentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var participant models.ProcurementParticipant
		if err := gdb.First(&participant, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "participant not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch participant", "details": err.Error()})
			return
		}

		if err := gdb.Delete(&participant).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete participant", "details": err.Error()})
			return
		}

		if participant.FileKey != "" {
			ctx, cancel := utils.GetDefaultQueryContext(c.Request.Context())
			defer cancel()
			if err := docs.Remove(ctx, participant.FileKey); err != nil {
				log.Printf("Failed to remove object %q: %v", participant.FileKey, err)
			}
		}

		utils.SuccessResponse(c, "Participant deleted", http.StatusOK)

		if logErr := SaveActivityLog(db, models.ActivityLog{
			EventContext: "Participant",
			EventName:    "Delete",
			Description:  "Delete participant id " + c.Param("id"),
			UserName:     actorName(c),
		}); logErr != nil {
			log.Printf("Failed to log activity: %v", logErr)
		}
	}
}

// GetAllParticipants lists the bids of one procurement ordered by bid value,
// each with a formatted value and a fresh signed file URL.
// @Summary List participants of a procurement
// @Tags Participants
// @Produce json
// @Param id path int true "Procurement ID"
// @Success 200 {array} models.ProcurementParticipant
// @Router /api/procurement/{id}/participants [get]
func GetAllParticipants(gdb *gorm.DB, docs *services.DocumentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		participants := []models.ProcurementParticipant{}
		err := gdb.Preload("Vendor").
			Where("procurement_id = ?", c.Param("id")).
			Order("bid_value ASC").
			Find(&participants).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch participants", "details": err.Error()})
			return
		}

		ctx, cancel := utils.GetDefaultQueryContext(c.Request.Context())
		defer cancel()
		for i := range participants {
			participants[i].BidValueDisplay = repository.FormatRupiah(participants[i].BidValue)
			participants[i].SignedFileURL = signedURLOrEmpty(ctx, docs, participants[i].FileKey)
		}

		c.JSON(http.StatusOK, participants)
	}
}
