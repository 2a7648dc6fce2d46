package mail

import (
	"fmt"

	"github.com/supra126/worker-email-notifier/pkg/config"
	"github.com/supra126/worker-email-notifier/pkg/validate"
)

// htmlFallbackNotice is the plain-text part sent when a tenant provides only
// an HTML body.
const htmlFallbackNotice = "Please use an HTML-capable email client to view this message."

// Compose builds the wire-ready message for a single recipient. The tenant id
// is embedded as a provenance tag: a plaintext "[Source: id]" prefix on the
// text part and a styled div prefix on the HTML part. The id has already
// passed format validation but is escaped anyway before entering the HTML
// context.
func Compose(p config.Platform, platformID, recipient, subject, content, html string) *Message {
	var sourceTag, htmlSourceTag string
	if platformID != "" {
		escaped := validate.EscapeHTML(platformID)
		sourceTag = fmt.Sprintf("[Source: %s]", escaped)
		htmlSourceTag = fmt.Sprintf(
			`<div style="color: #666; font-size: 12px; margin-bottom: 16px;">[Source: %s]</div>`,
			escaped)
	}

	msg := &Message{
		SenderAddress: p.SenderEmail,
		SenderName:    p.SenderName,
		Recipient:     recipient,
		Subject:       subject,
	}

	switch {
	case content != "":
		msg.Text = content
		if sourceTag != "" {
			msg.Text = sourceTag + "\n\n" + content
		}
	case html != "":
		msg.Text = htmlFallbackNotice
		if sourceTag != "" {
			msg.Text = sourceTag + "\n\n" + htmlFallbackNotice
		}
	}

	if html != "" {
		msg.HTML = htmlSourceTag + html
	}

	return msg
}
