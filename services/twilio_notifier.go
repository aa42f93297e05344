// services/twilio_notifier.go
package services

import (
	"log"
	"os"
	"time"

	"tutorpro-backend/models"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

// TwilioNotifier delivers notifications over Twilio and records every
// attempt in the notification log.
type TwilioNotifier struct {
	db     *gorm.DB
	client *twilio.RestClient
	from   string
}

func NewTwilioNotifier(db *gorm.DB) *TwilioNotifier {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &TwilioNotifier{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		from: os.Getenv("TWILIO_PHONE_NUMBER"),
	}
}

func (t *TwilioNotifier) Send(n Notification) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(n.To)
	params.SetBody(n.Subject + "\n" + n.HTMLBody)
	params.SetFrom(t.from)

	resp, sendErr := t.client.Api.CreateMessage(params)

	status := "sent"
	errorMsg := ""
	if sendErr != nil {
		log.Printf("Failed to send notification to %s: %v", n.To, sendErr)
		status = "failed"
		errorMsg = sendErr.Error()
	} else if resp.Sid != nil {
		log.Printf("Notification sent to %s, SID: %s", n.To, *resp.Sid)
	}

	entry := models.NotificationLog{
		WorkspaceID:  n.WorkspaceID,
		LessonID:     n.LessonID,
		Recipient:    n.To,
		Subject:      n.Subject,
		Body:         n.HTMLBody,
		Status:       status,
		ErrorMessage: errorMsg,
		SentAt:       time.Now(),
	}
	if err := t.db.Create(&entry).Error; err != nil {
		log.Printf("Failed to log notification for %s: %v", n.To, err)
	}

	return sendErr
}
