package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Leave request statuses. Requests travel a two-tier approval chain: HOD
// first, then super admin. A HOD's own request skips straight to the
// super-admin tier.
const (
	LeavePendingHOD = "PENDING_HOD_APPROVAL"
	LeavePendingSA  = "PENDING_SA_APPROVAL"
	LeaveApproved   = "APPROVED"
	LeaveRejected   = "REJECTED"
)

type LeaveRequest struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID  `bson:"userId" json:"userId"`
	ClinicID     *primitive.ObjectID `bson:"clinicId,omitempty" json:"clinicId,omitempty"`
	StartDate    string              `bson:"startDate" json:"startDate"` // YYYY-MM-DD
	EndDate      string              `bson:"endDate" json:"endDate"`     // YYYY-MM-DD
	Reason       string              `bson:"reason" json:"reason"`
	Status       string              `bson:"status" json:"status"`
	ApproverID   *primitive.ObjectID `bson:"approverId,omitempty" json:"approverId,omitempty"`
	RejectReason string              `bson:"rejectReason,omitempty" json:"rejectReason,omitempty"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt" json:"updatedAt"`

	Requester *User `bson:"-" json:"requester,omitempty"`
}
