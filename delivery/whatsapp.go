// Package delivery sends rendered digests over the outbound WhatsApp channel.
package delivery

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"

	"newsbrief/newsletter"
)

const (
	// Twilio caps a WhatsApp body at 1600 characters; segmenting at 1500
	// leaves margin for the part header prepended below.
	maxSegmentLength = 1500

	partPause = time.Second
)

// Sender is what the CLI depends on; the Twilio client hides behind it so
// tests can capture outgoing parts.
type Sender interface {
	Send(ctx context.Context, message, to string, mediaURLs []string) error
}

type messageCreator interface {
	CreateMessage(params *twilioapi.CreateMessageParams) (*twilioapi.ApiV2010Message, error)
}

// WhatsAppSender segments a message and delivers the parts in order through
// Twilio.
type WhatsAppSender struct {
	api    messageCreator
	from   string
	logger *log.Logger
	pause  time.Duration
}

func NewWhatsAppSender(accountSID, authToken, from string, logger *log.Logger) (*WhatsAppSender, error) {
	if accountSID == "" || authToken == "" || from == "" {
		return nil, fmt.Errorf("missing Twilio credentials: set TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_WHATSAPP_NUMBER")
	}
	if logger == nil {
		logger = log.Default()
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &WhatsAppSender{
		api:    client.Api,
		from:   ensureWhatsAppPrefix(from),
		logger: logger,
		pause:  partPause,
	}, nil
}

// Send splits the message under the size cap and sends each part with a
// "Part i/n" header when there is more than one. Media rides only on the
// first part. Parts are paced to stay clear of rate limits.
func (s *WhatsAppSender) Send(ctx context.Context, message, to string, mediaURLs []string) error {
	to = ensureWhatsAppPrefix(to)

	parts := BuildParts(message, maxSegmentLength)
	s.logger.Printf("message will be sent in %d part(s)", len(parts))

	for i, part := range parts {
		if err := ctx.Err(); err != nil {
			return err
		}

		params := &twilioapi.CreateMessageParams{}
		params.SetBody(part)
		params.SetFrom(s.from)
		params.SetTo(to)
		if i == 0 && len(mediaURLs) > 0 {
			params.SetMediaUrl(mediaURLs)
		}

		msg, err := s.api.CreateMessage(params)
		if err != nil {
			return fmt.Errorf("send part %d/%d: %w", i+1, len(parts), err)
		}

		sid := ""
		if msg.Sid != nil {
			sid = *msg.Sid
		}
		s.logger.Printf("part %d/%d sent: %s (%d chars)", i+1, len(parts), sid, len(part))

		if i < len(parts)-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.pause):
			}
		}
	}

	return nil
}

// BuildParts segments the message and prepends part headers when the result
// is multi-part. A single-part message goes out without a header.
func BuildParts(message string, maxLength int) []string {
	segments := newsletter.SegmentMessage(message, maxLength)
	if len(segments) <= 1 {
		return segments
	}

	parts := make([]string, len(segments))
	for i, segment := range segments {
		header := fmt.Sprintf("\U0001F4EC *Part %d/%d*\n%s\n\n", i+1, len(segments), strings.Repeat("=", 25))
		parts[i] = header + segment
	}
	return parts
}

func ensureWhatsAppPrefix(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}

var _ Sender = (*WhatsAppSender)(nil)
