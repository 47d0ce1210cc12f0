package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SandiRizqi/procurement-backend/models"
)

// actorName resolves who performed an administrative action. Authentication
// is handled upstream; the proxy forwards the account name in X-User.
func actorName(c *gin.Context) string {
	if user := c.GetHeader("X-User"); user != "" {
		return user
	}
	return "admin"
}

// SaveActivityLog inserts one audit entry. Failures are returned so callers
// can decide whether to surface them; most call sites only log.
func SaveActivityLog(db *sql.DB, entry models.ActivityLog) error {
	if entry.EventID == "" {
		entry.EventID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := db.Exec(`
		INSERT INTO activity_logs (event_id, event_context, event_name, description, user_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.EventID, entry.EventContext, entry.EventName, entry.Description, entry.UserName, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

// GetActivityLogs lists audit entries, newest first.
// @Summary List activity logs
// @Tags ActivityLogs
// @Produce json
// @Param context query string false "Filter by event context (Vendor, Project, ...)"
// @Param limit query int false "Max rows (default 100)"
// @Success 200 {array} models.ActivityLog
// @Router /api/activity_logs [get]
func GetActivityLogs(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 100
		if raw := c.Query("limit"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 1000 {
				limit = n
			}
		}

		query := `SELECT id, event_id, event_context, event_name, description, user_name, created_at
			FROM activity_logs`
		args := []interface{}{}
		if context := c.Query("context"); context != "" {
			query += ` WHERE event_context = $1`
			args = append(args, context)
		}
		query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, limit)

		rows, err := db.Query(query, args...)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch activity logs", "details": err.Error()})
			return
		}
		defer rows.Close()

		logs := []models.ActivityLog{}
		for rows.Next() {
			var entry models.ActivityLog
			if err := rows.Scan(&entry.ID, &entry.EventID, &entry.EventContext, &entry.EventName,
				&entry.Description, &entry.UserName, &entry.CreatedAt); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan activity log", "details": err.Error()})
				return
			}
			logs = append(logs, entry)
		}

		c.JSON(http.StatusOK, logs)
	}
}
