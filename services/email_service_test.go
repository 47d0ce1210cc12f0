package services

import (
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertHTMLToText(t *testing.T) {
	html := `<h3>Documents expiring soon</h3><p>Check the list:</p><ul><li>ISO 9001</li><li>NPWP</li></ul>`

	text := convertHTMLToText(html)

	assert.Contains(t, text, "Documents expiring soon")
	assert.Contains(t, text, "Check the list:")
	assert.Contains(t, text, "- ISO 9001")
	assert.Contains(t, text, "- NPWP")
	assert.NotContains(t, text, "<")
}

func TestConvertHTMLToTextTable(t *testing.T) {
	html := `<table><tr><th>Owner</th><th>Title</th></tr><tr><td>Acme</td><td>ISO</td></tr></table>`

	text := convertHTMLToText(html)

	assert.Contains(t, text, "| Owner")
	assert.Contains(t, text, "| Acme")
	assert.NotContains(t, text, "<td>")
}

func TestConvertHTMLToTextPlainInput(t *testing.T) {
	assert.Equal(t, "just text", convertHTMLToText("just text"))
}

// mailBoundary splits a built message into its multipart boundary and body.
func mailBoundary(t *testing.T, msg string) (string, string) {
	t.Helper()
	headerEnd := strings.Index(msg, "\r\n\r\n")
	require.NotEqual(t, -1, headerEnd)

	var contentType string
	for _, line := range strings.Split(msg[:headerEnd], "\r\n") {
		if strings.HasPrefix(line, "Content-Type:") {
			contentType = strings.TrimSpace(strings.TrimPrefix(line, "Content-Type:"))
		}
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	require.Equal(t, "multipart/alternative", mediaType)
	require.NotEmpty(t, params["boundary"])
	return params["boundary"], msg[headerEnd+4:]
}

func TestBuildMailMessageParts(t *testing.T) {
	htmlBody := "<p>Dokumen <b>ISO 9001</b> akan kedaluwarsa</p>"
	msg := buildMailMessage("noreply@example.com", "admin@example.com", "Reminder", htmlBody)
	boundary, body := mailBoundary(t, msg)

	mr := multipart.NewReader(strings.NewReader(body), boundary)

	plain, err := mr.NextPart()
	require.NoError(t, err)
	assert.Contains(t, plain.Header.Get("Content-Type"), "text/plain")
	text, err := io.ReadAll(plain)
	require.NoError(t, err)
	assert.Contains(t, string(text), "ISO 9001")

	htmlPart, err := mr.NextPart()
	require.NoError(t, err)
	assert.Contains(t, htmlPart.Header.Get("Content-Type"), "text/html")
	got, err := io.ReadAll(htmlPart)
	require.NoError(t, err)
	assert.Equal(t, htmlBody, strings.TrimSpace(string(got)))

	_, err = mr.NextPart()
	assert.Equal(t, io.EOF, err)
}

func TestBuildMailMessageBoundaryPerMessage(t *testing.T) {
	first, _ := mailBoundary(t, buildMailMessage("a@x.id", "b@y.id", "s", "<p>x</p>"))
	second, _ := mailBoundary(t, buildMailMessage("a@x.id", "b@y.id", "s", "<p>x</p>"))
	assert.NotEqual(t, first, second)

	// A body that happens to contain another message's boundary must still
	// parse into two parts.
	msg := buildMailMessage("a@x.id", "b@y.id", "s", "<p>"+first+"</p>")
	boundary, body := mailBoundary(t, msg)
	mr := multipart.NewReader(strings.NewReader(body), boundary)
	for i := 0; i < 2; i++ {
		_, err := mr.NextPart()
		require.NoError(t, err)
	}
}
