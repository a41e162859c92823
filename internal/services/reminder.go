package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tranvdm/clinic-api/internal/models"
)

// ReminderService sends next-day reminders for approved appointments.
type ReminderService struct {
	db  *mongo.Database
	sms *NotificationService
	log *logrus.Logger
}

func NewReminderService(db *mongo.Database, sms *NotificationService, log *logrus.Logger) *ReminderService {
	return &ReminderService{db: db, sms: sms, log: log}
}

// StartCron schedules the daily reminder sweep at 07:00 server time.
func (s *ReminderService) StartCron() *cron.Cron {
	c := cron.New()
	if _, err := c.AddFunc("0 7 * * *", s.SendDailyReminders); err != nil {
		s.log.WithError(err).Fatal("Failed to schedule reminder job")
	}
	c.Start()
	return c
}

// SendDailyReminders looks up tomorrow's approved appointments and texts
// each patient.
func (s *ReminderService) SendDailyReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	to := from.Add(24 * time.Hour)

	cursor, err := s.db.Collection("appointments").Find(ctx, bson.M{
		"status":      models.AptApproved,
		"scheduledAt": bson.M{"$gte": from, "$lt": to},
	})
	if err != nil {
		s.log.WithError(err).Error("Reminder sweep: failed to list appointments")
		return
	}
	defer cursor.Close(ctx)

	var appointments []models.Appointment
	if err := cursor.All(ctx, &appointments); err != nil {
		s.log.WithError(err).Error("Reminder sweep: failed to decode appointments")
		return
	}

	for i := range appointments {
		apt := &appointments[i]
		var patient models.User
		err := s.db.Collection("users").FindOne(ctx, bson.M{"_id": apt.PatientID}).Decode(&patient)
		if err != nil {
			s.log.WithField("appointmentId", apt.ID.Hex()).Warn("Reminder sweep: patient not found")
			continue
		}
		s.sms.SendAppointmentReminderSMS(&patient, apt)
	}
	s.log.WithField("count", len(appointments)).Info("Reminder sweep finished")
}
