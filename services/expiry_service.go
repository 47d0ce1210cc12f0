package services

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SandiRizqi/procurement-backend/utils"
)

// ExpiryWindowDays is how far ahead the daily scan looks for documents
// about to expire.
const ExpiryWindowDays = 30

// ExpiringDocument is one row of the expiry scan result.
type ExpiringDocument struct {
	Source      string    `json:"source"` // "vendor" or "person"
	Title       string    `json:"title"`
	OwnerName   string    `json:"owner_name"`
	ExpiredDate time.Time `json:"expired_date"`
	DaysLeft    int       `json:"days_left"`
}

// FindExpiringDocuments returns vendor and person documents whose
// expired_date falls between today and today+days, soonest first.
func FindExpiringDocuments(db *sql.DB, days int) ([]ExpiringDocument, error) {
	query := `
		SELECT 'vendor' AS source, d.title, v.name AS owner_name, d.expired_date
		FROM vendor_documents d
		JOIN vendors v ON v.id = d.vendor_id
		WHERE d.expired_date IS NOT NULL
		  AND d.expired_date >= CURRENT_DATE
		  AND d.expired_date < CURRENT_DATE + $1::int
		UNION ALL
		SELECT 'person' AS source, d.title, p.full_name AS owner_name, d.expired_date
		FROM person_documents d
		JOIN persons p ON p.id = d.person_id
		WHERE d.expired_date IS NOT NULL
		  AND d.expired_date >= CURRENT_DATE
		  AND d.expired_date < CURRENT_DATE + $1::int
		ORDER BY expired_date ASC`

	rows, err := db.Query(query, days)
	if err != nil {
		return nil, fmt.Errorf("scan expiring documents: %w", err)
	}
	defer rows.Close()

	now := time.Now()
	var docs []ExpiringDocument
	for rows.Next() {
		var d ExpiringDocument
		if err := rows.Scan(&d.Source, &d.Title, &d.OwnerName, &d.ExpiredDate); err != nil {
			return nil, fmt.Errorf("scan expiring document row: %w", err)
		}
		d.DaysLeft = DaysUntil(now, d.ExpiredDate)
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// DaysUntil counts whole calendar days from now until the given date.
// A date earlier than today yields a negative count.
func DaysUntil(now, date time.Time) int {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	target := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return int(target.Sub(today).Hours() / 24)
}

// RunExpiryReminders is the daily cron body: find documents expiring within
// the window, mail the administrator and write an activity-log entry.
// Nothing expiring is a successful no-op.
func RunExpiryReminders(db *sql.DB) error {
	docs, err := FindExpiringDocuments(db, ExpiryWindowDays)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return nil
	}

	adminEmail := utils.GetEnv("ADMIN_EMAIL", "")
	if adminEmail != "" {
		subject := fmt.Sprintf("[%s] %d document(s) expiring within %d days",
			utils.CompanyName(), len(docs), ExpiryWindowDays)
		if err := SendEmail(adminEmail, subject, buildExpiryMail(docs)); err != nil {
			// Reminder mail failing must not abort the scan; the activity
			// log below still records the finding.
			log.Printf("expiry reminder mail failed: %v", err)
		}
	}

	_, err = db.Exec(`
		INSERT INTO activity_logs (event_id, event_context, event_name, description, user_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.NewString(), "Document", "ExpiryScan",
		fmt.Sprintf("%d document(s) expiring within %d days", len(docs), ExpiryWindowDays),
		"system", time.Now(),
	)
	if err != nil {
		return fmt.Errorf("log expiry scan: %w", err)
	}
	return nil
}

func buildExpiryMail(docs []ExpiringDocument) string {
	var b strings.Builder
	b.WriteString("<h3>Documents expiring soon</h3>")
	b.WriteString("<table border=\"1\" cellpadding=\"4\">")
	b.WriteString("<tr><th>Owner</th><th>Title</th><th>Type</th><th>Expires</th><th>Days left</th></tr>")
	for _, d := range docs {
		b.WriteString(fmt.Sprintf("<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%d</td></tr>",
			d.OwnerName, d.Title, d.Source, d.ExpiredDate.Format("2006-01-02"), d.DaysLeft))
	}
	b.WriteString("</table>")
	return b.String()
}
