package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Appointment statuses. Transitions between them are validated by the
// workflow package; the stored value is always one of these strings.
const (
	AptPendingApproval    = "PENDING_APPROVAL"
	AptApproved           = "APPROVED"
	AptRejected           = "REJECTED"
	AptCancelledByPatient = "CANCELLED_BY_PATIENT"
	AptCancelledByDoctor  = "CANCELLED_BY_DOCTOR"
	AptCancelledByStaff   = "CANCELLED_BY_STAFF"
	AptCompleted          = "COMPLETED"
	AptPaymentPending     = "PAYMENT_PENDING"
	AptPaid               = "PAID"
)

type Appointment struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PatientID    primitive.ObjectID `bson:"patientId" json:"patientId"`
	DoctorID     primitive.ObjectID `bson:"doctorId" json:"doctorId"`
	ClinicID     primitive.ObjectID `bson:"clinicId" json:"clinicId"`
	ScheduledAt  time.Time          `bson:"scheduledAt" json:"scheduledAt"`
	Reason       string             `bson:"reason" json:"reason"`
	Status       string             `bson:"status" json:"status"`
	StatusReason string             `bson:"statusReason,omitempty" json:"statusReason,omitempty"` // set on reject/cancel
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`

	// Expanded relations, populated on demand via the "with" query parameter.
	Patient *User   `bson:"-" json:"patient,omitempty"`
	Doctor  *User   `bson:"-" json:"doctor,omitempty"`
	Clinic  *Clinic `bson:"-" json:"clinic,omitempty"`
}
