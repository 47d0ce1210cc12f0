package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SandiRizqi/procurement-backend/models"
	"github.com/SandiRizqi/procurement-backend/repository"
	"github.com/SandiRizqi/procurement-backend/services"
)

// DashboardData is the aggregate snapshot the landing page renders.
type DashboardData struct {
	TotalProjects        int64            `json:"total_projects" example:"42"`
	TotalProjectValue    float64          `json:"total_project_value" example:"125000000000"`
	TotalProjectDisplay  string           `json:"total_project_value_display" example:"Rp 125.000.000.000,00"`
	ProjectsByStatus     map[string]int64 `json:"projects_by_status"`
	ProcurementsByStatus map[string]int64 `json:"procurements_by_status"`
	VendorsByType        map[string]int64 `json:"vendors_by_type"`
	ExpiringDocuments    int64            `json:"expiring_documents" example:"3"`
}

// statusCounts runs a GROUP BY count and folds it into the given map, which
// is pre-seeded with zeroes so every status shows up even when empty.
func statusCounts(db *sql.DB, query string, into map[string]int64) error {
	rows, err := db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return err
		}
		into[key] = count
	}
	return rows.Err()
}

// GetDashboard aggregates counts and totals across the whole database in a
// single response.
// @Summary Dashboard snapshot
// @Tags Dashboard
// @Produce json
// @Success 200 {object} DashboardData
// @Router /api/dashboard [get]
func GetDashboard(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		data := DashboardData{
			ProjectsByStatus:     map[string]int64{},
			ProcurementsByStatus: map[string]int64{},
			VendorsByType:        map[string]int64{},
		}
		for _, s := range models.ProjectStatuses {
			data.ProjectsByStatus[string(s)] = 0
		}
		for _, s := range models.ProcurementStatuses {
			data.ProcurementsByStatus[string(s)] = 0
		}
		for _, t := range []models.VendorType{
			models.VendorTypePT, models.VendorTypeCV, models.VendorTypeBUMN, models.VendorTypePersonal,
		} {
			data.VendorsByType[string(t)] = 0
		}

		err := db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(project_value), 0) FROM projects`).
			Scan(&data.TotalProjects, &data.TotalProjectValue)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate projects", "details": err.Error()})
			return
		}
		data.TotalProjectDisplay = repository.FormatRupiah(data.TotalProjectValue)

		if err := statusCounts(db,
			`SELECT status, COUNT(*) FROM projects GROUP BY status`, data.ProjectsByStatus); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count projects", "details": err.Error()})
			return
		}
		if err := statusCounts(db,
			`SELECT status, COUNT(*) FROM procurements GROUP BY status`, data.ProcurementsByStatus); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count procurements", "details": err.Error()})
			return
		}
		if err := statusCounts(db,
			`SELECT vendor_type, COUNT(*) FROM vendors GROUP BY vendor_type`, data.VendorsByType); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count vendors", "details": err.Error()})
			return
		}

		expiring, err := services.FindExpiringDocuments(db, services.ExpiryWindowDays)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count expiring documents", "details": err.Error()})
			return
		}
		data.ExpiringDocuments = int64(len(expiring))

		c.JSON(http.StatusOK, data)
	}
}

// GetExpiringDocuments lists vendor and person documents whose expiry date
// falls inside the reminder window, soonest first.
// @Summary List expiring documents
// @Tags Dashboard
// @Produce json
// @Success 200 {array} services.ExpiringDocument
// @Router /api/expiring_documents [get]
func GetExpiringDocuments(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		expiring, err := services.FindExpiringDocuments(db, services.ExpiryWindowDays)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch expiring documents", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, expiring)
	}
}
