package handlers

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	"github.com/SandiRizqi/procurement-backend/models"
	"github.com/SandiRizqi/procurement-backend/repository"
	"github.com/SandiRizqi/procurement-backend/utils"
)

// projectListRow is a project plus the display columns the admin list shows.
type projectListRow struct {
	models.Project
	ProjectValueDisplay string `json:"project_value_display"`
	DurationDisplay     string `json:"duration_display"`
	ValueBucket         string `json:"value_bucket"`
	DurationBucket      string `json:"duration_bucket"`
}

// CreateProject creates a new project.
// @Summary Create project
// @Tags Projects
// @Accept json
// @Produce json
// @Param body body models.Project true "Project data"
// @Success 201 {object} models.Project
// @Failure 400 {object} models.ErrorResponse
// @Router /api/project_create [post]
func CreateProject(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var project models.Project
		if err := c.ShouldBindJSON(&project); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON input", "details": err.Error()})
			return
		}
		if project.ProjectName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "project_name is required"})
			return
		}
		if !project.Status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		if project.EndDate.ToTime().Before(project.StartDate.ToTime()) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must not be before start_date"})
			return
		}

		project.CreatedAt = time.Now()
		project.UpdatedAt = time.Now()

		err := db.QueryRow(`
			INSERT INTO projects (project_name, project_value, start_date, end_date, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			project.ProjectName, project.ProjectValue, project.StartDate.ToTime(), project.EndDate.ToTime(),
			project.Status, project.CreatedAt, project.UpdatedAt,
		).Scan(&project.ID)
		if err != nil {
			log.Printf("Error inserting project: %v\n", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to insert project", "details": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, project)

		if logErr := SaveActivityLog(db, models.ActivityLog{
			EventContext: "Project",
			EventName:    "Create",
			Description:  "Create project " + project.ProjectName,
			UserName:     actorName(c),
		}); logErr != nil {
			log.Printf("Failed to log activity: %v", logErr)
		}
	}
}

// UpdateProject updates a project by ID.
// @Summary Update project
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param body body models.Project true "Project data"
// @Success 200 {object} utils.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /api/project_update/{id} [put]
func UpdateProject(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var project models.Project
		if err := c.ShouldBindJSON(&project); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON input", "details": err.Error()})
			return
		}
		if !project.Status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}

		result, err := db.Exec(`
			UPDATE projects
			SET project_name = $1, project_value = $2, start_date = $3, end_date = $4, status = $5, updated_at = $6
			WHERE id = $7`,
			project.ProjectName, project.ProjectValue, project.StartDate.ToTime(), project.EndDate.ToTime(),
			project.Status, time.Now(), id,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project", "details": err.Error()})
			return
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}

		utils.SuccessResponse(c, "Project updated", http.StatusOK)

		if logErr := SaveActivityLog(db, models.ActivityLog{
			EventContext: "Project",
			EventName:    "Update",
			Description:  "Update project " + project.ProjectName,
			UserName:     actorName(c),
		}); logErr != nil {
			log.Printf("Failed to log activity: %v", logErr)
		}
	}
}

// DeleteProject removes a project and its procurements via cascade.
// @Summary Delete project
// @Tags Projects
// @Param id path int true "Project ID"
// @Success 200 {object} utils.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /api/project_delete/{id} [delete]
func DeleteProject(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		result, err := db.Exec(`DELETE FROM projects WHERE id = $1`, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project", "details": err.Error()})
			return
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}

		utils.SuccessResponse(c, "Project deleted", http.StatusOK)

		if logErr := SaveActivityLog(db, models.ActivityLog{
			EventContext: "Project",
			EventName:    "Delete",
			Description:  "Delete project id " + id,
			UserName:     actorName(c),
		}); logErr != nil {
			log.Printf("Failed to log activity: %v", logErr)
		}
	}
}

// FetchAllProjects lists projects with the admin filters: status, value
// bucket (small: < 1 milyar, medium: 1-10 milyar, large: >= 10 milyar),
// duration bucket (short: < 1 month, medium: 1-12 months, long: >= 1 year),
// free-text search and pagination.
// @Summary List projects
// @Tags Projects
// @Produce json
// @Param status query string false "planning, ongoing, completed or cancelled"
// @Param value_range query string false "small, medium or large"
// @Param duration query string false "short, medium or long"
// @Param search query string false "Search project name"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 20)"
// @Success 200 {object} models.ListResponse
// @Router /api/projects [get]
func FetchAllProjects(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		where := ` WHERE 1=1`
		args := []interface{}{}

		if status := c.Query("status"); status != "" {
			args = append(args, status)
			where += fmt.Sprintf(` AND status = $%d`, len(args))
		}
		switch c.Query("value_range") {
		case "small":
			where += fmt.Sprintf(` AND project_value < %d`, repository.ValueMediumThreshold)
		case "medium":
			where += fmt.Sprintf(` AND project_value >= %d AND project_value < %d`,
				repository.ValueMediumThreshold, repository.ValueLargeThreshold)
		case "large":
			where += fmt.Sprintf(` AND project_value >= %d`, repository.ValueLargeThreshold)
		}
		switch c.Query("duration") {
		case "short":
			where += fmt.Sprintf(` AND (end_date - start_date) < %d`, repository.DurationMediumDays)
		case "medium":
			where += fmt.Sprintf(` AND (end_date - start_date) >= %d AND (end_date - start_date) < %d`,
				repository.DurationMediumDays, repository.DurationLongDays)
		case "long":
			where += fmt.Sprintf(` AND (end_date - start_date) >= %d`, repository.DurationLongDays)
		}
		if search := c.Query("search"); search != "" {
			args = append(args, "%"+search+"%")
			where += fmt.Sprintf(` AND project_name ILIKE $%d`, len(args))
		}

		var total int64
		if err := db.QueryRow(`SELECT COUNT(*) FROM projects`+where, args...).Scan(&total); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count projects", "details": err.Error()})
			return
		}

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page < 1 {
			page = 1
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if limit < 1 || limit > 200 {
			limit = 20
		}

		query := `SELECT id, project_name, project_value, start_date, end_date, status, created_at, updated_at
			FROM projects` + where +
			fmt.Sprintf(` ORDER BY start_date DESC LIMIT %d OFFSET %d`, limit, (page-1)*limit)

		rows, err := db.Query(query, args...)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projects", "details": err.Error()})
			return
		}
		defer rows.Close()

		projects := []projectListRow{}
		for rows.Next() {
			var p models.Project
			if err := rows.Scan(&p.ID, &p.ProjectName, &p.ProjectValue, &p.StartDate, &p.EndDate,
				&p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan project", "details": err.Error()})
				return
			}
			projects = append(projects, projectListRow{
				Project:             p,
				ProjectValueDisplay: repository.FormatRupiah(p.ProjectValue),
				DurationDisplay:     repository.DurationLabel(p.StartDate.ToTime(), p.EndDate.ToTime()),
				ValueBucket:         repository.ValueBucket(p.ProjectValue),
				DurationBucket:      repository.DurationBucket(p.StartDate.ToTime(), p.EndDate.ToTime()),
			})
		}

		c.JSON(http.StatusOK, models.ListResponse{Data: projects, Total: total, Page: page, Limit: limit})
	}
}

// FetchProject returns one project row.
// @Summary Fetch project
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} models.Project
// @Failure 404 {object} models.ErrorResponse
// @Router /api/project_fetch/{id} [get]
func FetchProject(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var p models.Project
		err := db.QueryRow(`
			SELECT id, project_name, project_value, start_date, end_date, status, created_at, updated_at
			FROM projects WHERE id = $1`, c.Param("id")).
			Scan(&p.ID, &p.ProjectName, &p.ProjectValue, &p.StartDate, &p.EndDate,
				&p.Status, &p.CreatedAt, &p.UpdatedAt)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch project", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

type markStatusRequest struct {
	IDs    []int64              `json:"ids"`
	Status models.ProjectStatus `json:"status"`
}

// MarkProjectsStatus applies one status to many projects at once, the bulk
// action of the admin changelist.
// @Summary Bulk-update project status
// @Tags Projects
// @Accept json
// @Produce json
// @Param body body markStatusRequest true "Project ids and target status"
// @Success 200 {object} utils.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /api/projects/mark_status [post]
func MarkProjectsStatus(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req markStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON input", "details": err.Error()})
			return
		}
		if len(req.IDs) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ids is required"})
			return
		}
		if !req.Status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}

		result, err := db.Exec(`UPDATE projects SET status = $1, updated_at = $2 WHERE id = ANY($3)`,
			req.Status, time.Now(), pq.Array(req.IDs))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update projects", "details": err.Error()})
			return
		}
		updated, _ := result.RowsAffected()

		utils.SuccessResponse(c, fmt.Sprintf("%d project(s) marked as %s", updated, req.Status), http.StatusOK)

		if logErr := SaveActivityLog(db, models.ActivityLog{
			EventContext: "Project",
			EventName:    "MarkStatus",
			Description:  fmt.Sprintf("Mark %d project(s) as %s", updated, req.Status),
			UserName:     actorName(c),
		}); logErr != nil {
			log.Printf("Failed to log activity: %v", logErr)
		}
	}
}
