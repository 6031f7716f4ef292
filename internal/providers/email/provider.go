package email

import "context"

// Message is a single outbound mail. Attachment is optional; when set,
// AttachmentName must carry the filename the recipient sees.
type Message struct {
	To             []string
	Subject        string
	Body           string
	AttachmentName string
	Attachment     []byte
}

type Provider interface {
	Send(ctx context.Context, msg Message) error
}

// NoOpProvider swallows every message. It stands in when no SMTP host
// is configured so the rest of the app keeps working.
type NoOpProvider struct{}

func (p *NoOpProvider) Send(ctx context.Context, msg Message) error {
	return nil
}
