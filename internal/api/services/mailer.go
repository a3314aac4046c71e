package services

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/securefold/server/internal/config"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer dispatches security-alert emails through SendGrid. When no API key
// is configured every send degrades to a logged no-op that reports failure.
type Mailer struct {
	apiKey string
	sender string
}

func NewMailer(cfg config.MailConfig) *Mailer {
	return &Mailer{
		apiKey: cfg.SendGridAPIKey,
		sender: cfg.SenderEmail,
	}
}

// SendAlert emails a failed-attempt notification, attaching the captured
// photo when one was supplied. It reports whether dispatch succeeded and
// never returns an error; delivery problems are logged and swallowed.
func (m *Mailer) SendAlert(ctx context.Context, email string, latitude, longitude *float64, photoBase64 string) bool {
	if m.apiKey == "" {
		log.Println("SendGrid API key not configured, skipping alert email")
		return false
	}

	now := time.Now().UTC()
	from := mail.NewEmail("Securefold", m.sender)
	to := mail.NewEmail("", email)
	subject := "SECURITY ALERT - Failed Access Attempt"
	html := BuildAlertHTML(now, latitude, longitude, photoBase64 != "")
	plain := fmt.Sprintf("Failed PIN attempt detected at %s. Open the app to review your access history.", now.Format("2006-01-02 15:04:05 UTC"))

	message := mail.NewSingleEmail(from, subject, to, plain, html)

	if photoBase64 != "" {
		attachment := mail.NewAttachment()
		attachment.SetContent(StripDataURLPrefix(photoBase64))
		attachment.SetType("image/jpeg")
		attachment.SetFilename(fmt.Sprintf("intruder_%s.jpg", now.Format("20060102_150405")))
		attachment.SetDisposition("attachment")
		message.AddAttachment(attachment)
	}

	client := sendgrid.NewSendClient(m.apiKey)
	resp, err := client.SendWithContext(ctx, message)
	if err != nil {
		log.Printf("Failed to send alert email: %v", err)
		return false
	}
	if resp.StatusCode != http.StatusAccepted {
		log.Printf("Alert email rejected by SendGrid: status %d", resp.StatusCode)
		return false
	}
	return true
}

// StripDataURLPrefix removes a leading data:image/...;base64, marker so the
// attachment carries bare base64 content.
func StripDataURLPrefix(photo string) string {
	if i := strings.IndexByte(photo, ','); i >= 0 {
		return photo[i+1:]
	}
	return photo
}

// BuildAlertHTML renders the alert email body: attempt time, a Google Maps
// link when coordinates are present, and a callout when a photo was captured.
func BuildAlertHTML(at time.Time, latitude, longitude *float64, hasPhoto bool) string {
	var b strings.Builder

	b.WriteString(`<html><body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`)
	b.WriteString(`<div style="background: #dc3545; color: white; padding: 20px; text-align: center;"><h1 style="margin: 0;">Security Alert</h1></div>`)
	b.WriteString(`<div style="padding: 20px; background: #f8f9fa; border: 1px solid #dee2e6;">`)
	b.WriteString(`<h2 style="color: #dc3545;">Failed PIN Attempt Detected</h2>`)
	b.WriteString(`<p>Someone attempted to unlock your Securefold vault with an incorrect PIN.</p>`)

	fmt.Fprintf(&b, `<p><strong>Time:</strong> %s</p>`, at.Format("2006-01-02 15:04:05 UTC"))
	if latitude != nil && longitude != nil {
		fmt.Fprintf(&b, `<p><strong>Location:</strong> Lat: %v, Long: %v</p>`, *latitude, *longitude)
		fmt.Fprintf(&b, `<p><a href='https://maps.google.com/?q=%v,%v'>View on Google Maps</a></p>`, *latitude, *longitude)
	}
	if hasPhoto {
		b.WriteString(`<div style="padding: 15px; background: #fff3cd;"><h3 style="color: #856404; margin: 0 0 10px 0;">Intruder Photo Captured</h3>`)
		b.WriteString(`<p style="color: #856404; margin: 0;">A photo was taken of the person attempting to access your vault. See attached image.</p></div>`)
	}

	b.WriteString(`<div style="padding: 15px; background: #d4edda; margin-top: 20px;"><p style="color: #155724; margin: 0;"><strong>What to do:</strong></p>`)
	b.WriteString(`<ul style="color: #155724;"><li>Check if your phone is still in your possession</li><li>Consider changing your PIN if compromised</li><li>Review your access history in the app</li></ul></div>`)
	b.WriteString(`</div><div style="padding: 15px; text-align: center; color: #6c757d; font-size: 12px;"><p>Securefold - Your documents, protected.</p></div>`)
	b.WriteString(`</body></html>`)

	return b.String()
}
