package handlers

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/SandiRizqi/procurement-backend/models"
	"github.com/SandiRizqi/procurement-backend/repository"
	"github.com/SandiRizqi/procurement-backend/utils"
)

var titleCaser = cases.Title(language.Indonesian)

// ExportProjectsExcel exports the project list as an XLSX workbook. The same
// filters as the list endpoint apply, so what the user sees is what they get.
// @Summary Export projects to Excel
// @Tags Export
// @Param status query string false "Filter by status"
// @Param value_range query string false "small, medium or large"
// @Param search query string false "Search project name"
// @Success 200 {file} file "Excel file"
// @Router /api/export_excel_projects [get]
func ExportProjectsExcel(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := `SELECT id, project_name, project_value, start_date, end_date, status
			FROM projects WHERE 1=1`
		args := []interface{}{}

		if status := c.Query("status"); status != "" {
			args = append(args, status)
			query += fmt.Sprintf(` AND status = $%d`, len(args))
		}
		switch c.Query("value_range") {
		case "small":
			query += fmt.Sprintf(` AND project_value < %d`, repository.ValueMediumThreshold)
		case "medium":
			query += fmt.Sprintf(` AND project_value >= %d AND project_value < %d`,
				repository.ValueMediumThreshold, repository.ValueLargeThreshold)
		case "large":
			query += fmt.Sprintf(` AND project_value >= %d`, repository.ValueLargeThreshold)
		}
		if search := c.Query("search"); search != "" {
			args = append(args, "%"+search+"%")
			query += fmt.Sprintf(` AND project_name ILIKE $%d`, len(args))
		}
		query += ` ORDER BY start_date DESC`

		rows, err := db.Query(query, args...)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching project data"})
			return
		}
		defer rows.Close()

		f := excelize.NewFile()
		defer f.Close()

		sheet := "Projects"
		index, err := f.NewSheet(sheet)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating sheet"})
			return
		}
		f.SetActiveSheet(index)
		f.DeleteSheet("Sheet1")

		headerStyle, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{
				Bold:   true,
				Size:   12,
				Family: "Arial",
				Color:  "#FFFFFF",
			},
			Fill: excelize.Fill{
				Type:    "pattern",
				Color:   []string{"#4472C4"},
				Pattern: 1,
			},
			Alignment: &excelize.Alignment{
				Horizontal: "center",
				Vertical:   "center",
			},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating header style"})
			return
		}

		headers := []string{"ID", "Project Name", "Value", "Value (Rp)", "Start Date", "End Date", "Duration", "Status"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, h)
		}
		f.SetCellStyle(sheet, "A1", "H1", headerStyle)
		f.SetColWidth(sheet, "B", "B", 40)
		f.SetColWidth(sheet, "C", "G", 22)
		f.SetRowHeight(sheet, 1, 25)

		row := 2
		for rows.Next() {
			var p models.Project
			if err := rows.Scan(&p.ID, &p.ProjectName, &p.ProjectValue, &p.StartDate, &p.EndDate, &p.Status); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scanning project data"})
				return
			}

			values := []interface{}{
				p.ID,
				p.ProjectName,
				p.ProjectValue,
				repository.FormatRupiah(p.ProjectValue),
				p.StartDate.Format("2006-01-02"),
				p.EndDate.Format("2006-01-02"),
				repository.DurationLabel(p.StartDate.ToTime(), p.EndDate.ToTime()),
				titleCaser.String(string(p.Status)),
			}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				f.SetCellValue(sheet, cell, v)
			}
			row++
		}
		if err := rows.Err(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating project data"})
			return
		}

		filename := "projects_export.xlsx"
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"; filename*=UTF-8''%s",
			filename, url.PathEscape(filename)))

		if err := f.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error writing Excel file"})
			return
		}
	}
}

// ExportParticipantsCSV exports the bids of one procurement as CSV, ordered
// by bid value like the detail view.
// @Summary Export procurement participants as CSV
// @Tags Export
// @Produce text/csv
// @Param id path int true "Procurement ID"
// @Success 200 {file} file "CSV file"
// @Failure 404 {object} models.ErrorResponse
// @Router /api/export_csv_participants/{id} [get]
func ExportParticipantsCSV(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		procurementID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid procurement id"})
			return
		}

		var projectName string
		err = db.QueryRow(`
			SELECT pr.project_name
			FROM procurements p
			JOIN projects pr ON pr.id = p.project_id
			WHERE p.id = $1`, procurementID).Scan(&projectName)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "procurement not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching procurement"})
			return
		}

		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition",
			fmt.Sprintf("attachment;filename=participants_%s.csv", utils.SafeName(projectName)))

		writer := csv.NewWriter(c.Writer)
		defer writer.Flush()

		header := []string{"Vendor", "NPWP", "BidValue", "BidValueDisplay", "SubmissionDate", "Status", "FileName"}
		if err := writer.Write(header); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error writing CSV header"})
			return
		}

		rows, err := db.Query(`
			SELECT v.name, COALESCE(v.npwp, ''), pp.bid_value, pp.submission_date, pp.status, COALESCE(pp.file_name, '')
			FROM procurement_participants pp
			JOIN vendors v ON v.id = pp.vendor_id
			WHERE pp.procurement_id = $1
			ORDER BY pp.bid_value`, procurementID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching participant data"})
			return
		}
		defer rows.Close()

		for rows.Next() {
			var vendorName, npwp, fileName string
			var bidValue float64
			var submissionDate models.DateOnly
			var status string

			if err := rows.Scan(&vendorName, &npwp, &bidValue, &submissionDate, &status, &fileName); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scanning participant data"})
				return
			}

			record := []string{
				vendorName,
				npwp,
				strconv.FormatFloat(bidValue, 'f', 2, 64),
				repository.FormatRupiah(bidValue),
				submissionDate.Format("2006-01-02"),
				status,
				fileName,
			}
			if err := writer.Write(record); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error writing CSV row"})
				return
			}
		}
		if err := rows.Err(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating participant data"})
			return
		}
	}
}
