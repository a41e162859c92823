package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PaymentMethodCash     = "CASH"
	PaymentMethodTransfer = "BANK_TRANSFER"
	PaymentMethodCard     = "CARD"
)

type Payment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AppointmentID primitive.ObjectID `bson:"appointmentId" json:"appointmentId"`
	Amount        float64            `bson:"amount" json:"amount"`
	Method        string             `bson:"method" json:"method"`
	ReceiptNumber string             `bson:"receiptNumber" json:"receiptNumber"`
	ConfirmedBy   primitive.ObjectID `bson:"confirmedBy" json:"confirmedBy"` // nurse user id
	PaidAt        time.Time          `bson:"paidAt" json:"paidAt"`
	Note          string             `bson:"note,omitempty" json:"note,omitempty"`
}
