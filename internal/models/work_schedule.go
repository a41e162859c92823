package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ScheduleWorking       = "WORKING"
	ScheduleDayOff        = "DAY_OFF"
	ScheduleApprovedLeave = "APPROVED_LEAVE"
)

type WorkSchedule struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Date      string             `bson:"date" json:"date"` // YYYY-MM-DD
	StartTime string             `bson:"startTime,omitempty" json:"startTime,omitempty"`
	EndTime   string             `bson:"endTime,omitempty" json:"endTime,omitempty"`
	Type      string             `bson:"type" json:"type"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`

	User *User `bson:"-" json:"user,omitempty"`
}
