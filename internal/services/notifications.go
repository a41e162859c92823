package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/tranvdm/clinic-api/internal/models"
)

// NotificationService sends SMS to patients about their appointments via
// the Textbelt API. Sends are fire-and-forget; a failed SMS never fails the
// request that triggered it.
type NotificationService struct {
	apiKey string
	log    *logrus.Logger
}

func NewNotificationService(apiKey string, log *logrus.Logger) *NotificationService {
	return &NotificationService{apiKey: apiKey, log: log}
}

var statusMessages = map[string]string{
	models.AptPendingApproval: "Your appointment on %s is awaiting doctor approval.",
	models.AptApproved:        "Your appointment on %s has been approved.",
	models.AptRejected:        "Your appointment on %s was rejected.",
	models.AptPaymentPending:  "Your visit on %s is complete. Please settle payment at the front desk.",
	models.AptPaid:            "Payment received for your visit on %s. Thank you.",
}

// SendAppointmentStatusSMS notifies the patient about a status change.
func (s *NotificationService) SendAppointmentStatusSMS(patient *models.User, apt *models.Appointment) {
	if patient.Phone == "" {
		s.log.WithField("patientId", patient.ID.Hex()).Debug("SMS not sent: patient has no phone number")
		return
	}
	tmpl, ok := statusMessages[apt.Status]
	if !ok {
		return
	}
	body := fmt.Sprintf(tmpl, apt.ScheduledAt.Format("Jan 2 at 3:04 PM"))

	// Send in a goroutine so it doesn't block the API response
	go s.sendSmsWithTextbelt(patient.Phone, body)
}

// SendAppointmentReminderSMS is used by the daily reminder job.
func (s *NotificationService) SendAppointmentReminderSMS(patient *models.User, apt *models.Appointment) {
	if patient.Phone == "" {
		return
	}
	body := fmt.Sprintf("Reminder: you have an appointment tomorrow at %s.", apt.ScheduledAt.Format("3:04 PM"))
	go s.sendSmsWithTextbelt(patient.Phone, body)
}

func (s *NotificationService) sendSmsWithTextbelt(phone, message string) {
	postBody, _ := json.Marshal(map[string]string{
		"phone":   phone,
		"message": message,
		"key":     s.apiKey,
	})

	resp, err := http.Post("https://textbelt.com/text", "application/json", bytes.NewBuffer(postBody))
	if err != nil {
		s.log.WithError(err).WithField("phone", phone).Error("Failed to send Textbelt request")
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)

	if success, _ := result["success"].(bool); !success {
		errorMsg, _ := result["error"].(string)
		s.log.WithFields(logrus.Fields{"phone": phone, "reason": errorMsg}).Error("Failed to send SMS via Textbelt")
	} else {
		s.log.WithField("phone", phone).Info("SMS sent via Textbelt")
	}
}
