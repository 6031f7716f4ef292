package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMIME_PlainText(t *testing.T) {
	msg := Message{
		To:      []string{"billing@acme.test"},
		Subject: "Invoice #42",
		Body:    "Hello Acme,\n\nPlease find attached your invoice #42.\n\nThanks!",
	}

	raw := string(buildMIME("noreply@devgate.test", msg))

	assert.Contains(t, raw, "From: noreply@devgate.test\r\n")
	assert.Contains(t, raw, "To: billing@acme.test\r\n")
	assert.Contains(t, raw, "Subject: Invoice #42\r\n")
	assert.Contains(t, raw, "Content-Type: text/plain")
	assert.NotContains(t, raw, "multipart/mixed")
	assert.True(t, strings.HasSuffix(raw, "Thanks!"))
}

func TestBuildMIME_WithAttachment(t *testing.T) {
	msg := Message{
		To:             []string{"billing@acme.test", "cc@acme.test"},
		Subject:        "Invoice #42",
		Body:           "See attachment.",
		AttachmentName: "invoice-42.pdf",
		Attachment:     []byte("%PDF-1.7 fake"),
	}

	raw := string(buildMIME("noreply@devgate.test", msg))

	assert.Contains(t, raw, "To: billing@acme.test, cc@acme.test\r\n")
	assert.Contains(t, raw, "multipart/mixed")
	assert.Contains(t, raw, "Content-Type: application/pdf")
	assert.Contains(t, raw, "Content-Transfer-Encoding: base64")
	assert.Contains(t, raw, `filename="invoice-42.pdf"`)
	assert.Contains(t, raw, "See attachment.")
	// Closing boundary terminates the message.
	assert.True(t, strings.HasSuffix(raw, "--"+boundary+"--\r\n"))
}

func TestBuildMIME_WrapsBase64(t *testing.T) {
	payload := make([]byte, 600)
	msg := Message{
		To:             []string{"billing@acme.test"},
		Subject:        "Invoice",
		AttachmentName: "invoice.pdf",
		Attachment:     payload,
	}

	raw := string(buildMIME("noreply@devgate.test", msg))

	for _, line := range strings.Split(raw, "\r\n") {
		assert.LessOrEqual(t, len(line), 78)
	}
}
