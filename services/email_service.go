package services

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/SandiRizqi/procurement-backend/utils"
)

// convertHTMLToText converts HTML content to plain text for the text/plain
// alternative part of reminder mails.
func convertHTMLToText(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return htmlContent
	}

	var text strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			text.WriteString(n.Data)
		case html.ElementNode:
			switch n.Data {
			case "p", "div", "br", "h1", "h2", "h3", "h4", "h5", "h6", "table", "tr":
				text.WriteString("\n")
			case "li":
				text.WriteString("- ")
			case "td", "th":
				text.WriteString(" | ")
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			extractText(child)
		}
	}
	extractText(doc)

	result := text.String()
	for strings.Contains(result, "\n\n\n") {
		result = strings.ReplaceAll(result, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(result)
}

// SendEmail sends a multipart mail with HTML body and a derived plain-text
// alternative, using the SMTP_* environment settings.
func SendEmail(to, subject, htmlBody string) error {
	host := utils.GetEnv("SMTP_HOST", "")
	if host == "" {
		return fmt.Errorf("SMTP_HOST is not set")
	}
	port := utils.GetEnv("SMTP_PORT", "587")
	user := utils.GetEnv("SMTP_USER", "")
	password := utils.GetEnv("SMTP_PASSWORD", "")
	from := utils.GetEnv("SMTP_FROM", user)

	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, password, host)
	}
	msg := buildMailMessage(from, to, subject, htmlBody)
	if err := smtp.SendMail(host+":"+port, auth, from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// buildMailMessage assembles the multipart/alternative payload. The boundary
// is randomized per message so rendered body content can never collide with
// it.
func buildMailMessage(from, to, subject, htmlBody string) string {
	boundary := "mail-" + uuid.NewString()
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary))

	msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	msg.WriteString(convertHTMLToText(htmlBody))
	msg.WriteString("\r\n\r\n")

	msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	msg.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n\r\n")
	msg.WriteString(htmlBody)
	msg.WriteString("\r\n\r\n")
	msg.WriteString(fmt.Sprintf("--%s--\r\n", boundary))
	return msg.String()
}
