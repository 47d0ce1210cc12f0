package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/SandiRizqi/procurement-backend/models"
	"github.com/SandiRizqi/procurement-backend/repository"
	"github.com/SandiRizqi/procurement-backend/utils"
)

// GenerateProcurementPDF renders the result sheet of one procurement:
// project info, schedule and the participant table with the winner
// highlighted.
// @Summary Generate procurement result PDF
// @Tags Procurements
// @Param id path int true "Procurement ID"
// @Success 200 "PDF file"
// @Failure 404 {object} models.ErrorResponse
// @Router /api/procurement_pdf/{id} [get]
func GenerateProcurementPDF(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		procurementID := c.Param("id")
		if procurementID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing procurement id"})
			return
		}

		titleCaser := cases.Title(language.Und)

		var (
			procurementType, status  string
			startDate, endDate       models.DateOnly
			projectName              string
			projectValue             float64
			projectStart, projectEnd models.DateOnly
		)
		err := db.QueryRow(`
			SELECT p.procurement_type, p.status, p.start_date, p.end_date,
				pr.project_name, pr.project_value, pr.start_date, pr.end_date
			FROM procurements p
			JOIN projects pr ON pr.id = p.project_id
			WHERE p.id = $1`, procurementID).Scan(
			&procurementType, &status, &startDate, &endDate,
			&projectName, &projectValue, &projectStart, &projectEnd,
		)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "procurement not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		type participantRow struct {
			VendorName     string
			NPWP           string
			BidValue       float64
			SubmissionDate models.DateOnly
			Status         string
		}
		rows, err := db.Query(`
			SELECT v.name, COALESCE(v.npwp, '-'), pp.bid_value, pp.submission_date, pp.status
			FROM procurement_participants pp
			JOIN vendors v ON v.id = pp.vendor_id
			WHERE pp.procurement_id = $1
			ORDER BY pp.bid_value`, procurementID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer rows.Close()

		var participants []participantRow
		for rows.Next() {
			var p participantRow
			if err := rows.Scan(&p.VendorName, &p.NPWP, &p.BidValue, &p.SubmissionDate, &p.Status); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			participants = append(participants, p)
		}

		// --- Generate PDF ---
		pdf := gofpdf.New("P", "mm", "A4", "")
		pdf.AddPage()
		pdf.SetMargins(10, 10, 10)

		// --- Header ---
		pdf.SetFont("Arial", "B", 16)
		pdf.Cell(190, 10, utils.CompanyName())
		pdf.Ln(10)
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(190, 8, "Procurement Result")
		pdf.Ln(12)

		// --- Project info ---
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(50, 7, "Project")
		pdf.SetFont("Arial", "", 11)
		pdf.Cell(140, 7, projectName)
		pdf.Ln(7)

		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(50, 7, "Project Value")
		pdf.SetFont("Arial", "", 11)
		pdf.Cell(140, 7, repository.FormatRupiah(projectValue))
		pdf.Ln(7)

		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(50, 7, "Project Schedule")
		pdf.SetFont("Arial", "", 11)
		pdf.Cell(140, 7, fmt.Sprintf("%s - %s (%s)",
			projectStart.Format("2006-01-02"), projectEnd.Format("2006-01-02"),
			repository.DurationLabel(projectStart.ToTime(), projectEnd.ToTime())))
		pdf.Ln(7)

		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(50, 7, "Procurement Type")
		pdf.SetFont("Arial", "", 11)
		pdf.Cell(140, 7, titleCaser.String(procurementType))
		pdf.Ln(7)

		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(50, 7, "Procurement Period")
		pdf.SetFont("Arial", "", 11)
		pdf.Cell(140, 7, fmt.Sprintf("%s - %s",
			startDate.Format("2006-01-02"), endDate.Format("2006-01-02")))
		pdf.Ln(7)

		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(50, 7, "Status")
		pdf.SetFont("Arial", "", 11)
		pdf.Cell(140, 7, titleCaser.String(status))
		pdf.Ln(12)

		// --- Participants table ---
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(190, 8, "Participants")
		pdf.Ln(9)

		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(68, 114, 196)
		pdf.SetTextColor(255, 255, 255)
		pdf.CellFormat(60, 8, "Vendor", "1", 0, "L", true, 0, "")
		pdf.CellFormat(40, 8, "NPWP", "1", 0, "L", true, 0, "")
		pdf.CellFormat(45, 8, "Bid Value", "1", 0, "R", true, 0, "")
		pdf.CellFormat(25, 8, "Submitted", "1", 0, "C", true, 0, "")
		pdf.CellFormat(20, 8, "Status", "1", 0, "C", true, 0, "")
		pdf.Ln(8)

		pdf.SetTextColor(0, 0, 0)
		for _, p := range participants {
			winner := p.Status == string(models.ParticipantWinner)
			if winner {
				pdf.SetFont("Arial", "B", 9)
				pdf.SetFillColor(198, 239, 206)
			} else {
				pdf.SetFont("Arial", "", 9)
				pdf.SetFillColor(255, 255, 255)
			}
			pdf.CellFormat(60, 8, p.VendorName, "1", 0, "L", winner, 0, "")
			pdf.CellFormat(40, 8, p.NPWP, "1", 0, "L", winner, 0, "")
			pdf.CellFormat(45, 8, repository.FormatRupiah(p.BidValue), "1", 0, "R", winner, 0, "")
			pdf.CellFormat(25, 8, p.SubmissionDate.Format("2006-01-02"), "1", 0, "C", winner, 0, "")
			pdf.CellFormat(20, 8, titleCaser.String(p.Status), "1", 0, "C", winner, 0, "")
			pdf.Ln(8)
		}
		if len(participants) == 0 {
			pdf.SetFont("Arial", "I", 9)
			pdf.CellFormat(190, 8, "No participants registered", "1", 0, "C", false, 0, "")
			pdf.Ln(8)
		}

		// --- Footer ---
		pdf.Ln(10)
		pdf.SetFont("Arial", "I", 8)
		pdf.Cell(190, 6, "Generated "+time.Now().Format("2006-01-02 15:04"))

		c.Header("Content-Type", "application/pdf")
		c.Header("Content-Disposition",
			fmt.Sprintf("attachment; filename=procurement_%s_%s.pdf", procurementID, utils.SafeName(projectName)))

		if err := pdf.Output(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error writing PDF file"})
			return
		}
	}
}
