package services

import (
	"encoding/json"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/sirupsen/logrus"
)

const appointmentTopic = "appointment_status"

// AppointmentEvent is published whenever an appointment changes status, for
// downstream consumers (reporting, notification fan-out).
type AppointmentEvent struct {
	AppointmentID string    `json:"appointmentId"`
	PatientID     string    `json:"patientId"`
	DoctorID      string    `json:"doctorId"`
	FromStatus    string    `json:"fromStatus"`
	ToStatus      string    `json:"toStatus"`
	ChangedBy     string    `json:"changedBy"`
	ChangedAt     time.Time `json:"changedAt"`
}

// EventProducer publishes appointment events to Kafka. A nil producer is
// valid and drops all events, so callers never have to branch on whether a
// broker is configured.
type EventProducer struct {
	producer *kafka.Producer
	log      *logrus.Logger
}

// NewEventProducer connects to the given brokers. Returns nil when brokers
// is empty.
func NewEventProducer(brokers string, log *logrus.Logger) (*EventProducer, error) {
	if brokers == "" {
		return nil, nil
	}
	producer, err := kafka.NewProducer(&kafka.ConfigMap{"bootstrap.servers": brokers})
	if err != nil {
		return nil, err
	}
	return &EventProducer{producer: producer, log: log}, nil
}

// PublishStatusChange is fire-and-forget; delivery failures are logged only.
func (p *EventProducer) PublishStatusChange(event AppointmentEvent) {
	if p == nil {
		return
	}
	message, err := json.Marshal(event)
	if err != nil {
		p.log.WithError(err).Error("Failed to marshal appointment event")
		return
	}
	topic := appointmentTopic
	err = p.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          message,
	}, nil)
	if err != nil {
		p.log.WithError(err).Error("Failed to produce appointment event")
		return
	}
	p.log.WithFields(logrus.Fields{
		"appointmentId": event.AppointmentID,
		"toStatus":      event.ToStatus,
	}).Info("Appointment event produced")
}

func (p *EventProducer) Close() {
	if p != nil {
		p.producer.Close()
	}
}
