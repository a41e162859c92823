package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tranvdm/clinic-api/internal/models"
	"github.com/tranvdm/clinic-api/internal/utils"
	"github.com/tranvdm/clinic-api/internal/workflow"
)

const dateLayout = "2006-01-02"

// CreateLeaveRequest files a leave request for the calling staff member.
// A HOD's own request starts at the super-admin tier.
func (h *Handler) CreateLeaveRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		StartDate string `json:"start_date" binding:"required"`
		EndDate   string `json:"end_date" binding:"required"`
		Reason    string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err1 := time.Parse(dateLayout, req.StartDate)
	end, err2 := time.Parse(dateLayout, req.EndDate)
	if err1 != nil || err2 != nil {
		fieldErrors(c, map[string][]string{"start_date": {"Dates must be YYYY-MM-DD"}})
		return
	}
	if !end.After(start) {
		fieldErrors(c, map[string][]string{"end_date": {"End date must be after start date"}})
		return
	}

	role := c.GetString("userRole")
	var clinicID *primitive.ObjectID
	if id, err := primitive.ObjectIDFromHex(c.GetString("clinicID")); err == nil {
		clinicID = &id
	}

	now := time.Now()
	lr := models.LeaveRequest{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		ClinicID:  clinicID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Reason:    req.Reason,
		Status:    workflow.InitialLeaveStatus(role),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := h.DB.Collection("leave_requests").InsertOne(context.TODO(), lr); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create leave request"})
		return
	}

	c.JSON(http.StatusCreated, lr)
}

// ListLeaveRequests scopes by role: staff see their own requests, a HOD
// sees their clinic's pending first tier plus their own, admins see all.
func (h *Handler) ListLeaveRequests(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	filter := bson.M{}
	switch c.GetString("userRole") {
	case models.RoleDoctor, models.RoleNurse:
		filter["userId"] = userID
	case models.RoleHOD:
		clinicID, err := primitive.ObjectIDFromHex(c.GetString("clinicID"))
		if err != nil {
			filter["userId"] = userID
		} else {
			filter["$or"] = bson.A{
				bson.M{"clinicId": clinicID},
				bson.M{"userId": userID},
			}
		}
	}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	pg := utils.ParsePagination(c)
	cursor, err := h.DB.Collection("leave_requests").Find(context.TODO(), filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetSkip(pg.Skip()).SetLimit(pg.Limit()))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve leave requests"})
		return
	}
	defer cursor.Close(context.TODO())

	var requests []models.LeaveRequest
	if err := cursor.All(context.TODO(), &requests); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode leave requests"})
		return
	}
	if requests == nil {
		requests = make([]models.LeaveRequest, 0)
	}

	if utils.ParseWith(c)["requester"] {
		var ids []primitive.ObjectID
		for _, r := range requests {
			ids = append(ids, r.UserID)
		}
		users, err := h.usersByID(context.TODO(), ids)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load requesters"})
			return
		}
		for i := range requests {
			requests[i].Requester = users[requests[i].UserID]
		}
	}

	c.JSON(http.StatusOK, requests)
}

// UpdateLeaveRequestStatus drives the two-tier approval chain. A HOD may
// only act on their own clinic's requests and never on their own request.
func (h *Handler) UpdateLeaveRequestStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	lrID, ok := objectIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var lr models.LeaveRequest
	if err := h.DB.Collection("leave_requests").FindOne(context.TODO(), bson.M{"_id": lrID}).Decode(&lr); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Leave request not found"})
		return
	}

	role := c.GetString("userRole")
	if role == models.RoleHOD {
		if lr.UserID == userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Cannot decide your own leave request"})
			return
		}
		clinicID, err := primitive.ObjectIDFromHex(c.GetString("clinicID"))
		if err != nil || lr.ClinicID == nil || *lr.ClinicID != clinicID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied."})
			return
		}
	}
	if !workflow.Leave.Can(role, lr.Status, req.Status) {
		c.JSON(http.StatusConflict, gin.H{"error": "Transition from " + lr.Status + " to " + req.Status + " is not allowed"})
		return
	}
	if workflow.Leave.NeedsReason(req.Status) && req.Reason == "" {
		fieldErrors(c, map[string][]string{"reason": {"A reason is required"}})
		return
	}

	update := bson.M{
		"status":     req.Status,
		"approverId": userID,
		"updatedAt":  time.Now(),
	}
	if req.Status == models.LeaveRejected {
		update["rejectReason"] = req.Reason
	}
	_, err := h.DB.Collection("leave_requests").UpdateOne(context.TODO(), bson.M{"_id": lrID}, bson.M{"$set": update})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update leave request"})
		return
	}

	// Approved leave becomes APPROVED_LEAVE entries on the work schedule so
	// the booking screens stop offering those days.
	if req.Status == models.LeaveApproved {
		if err := h.materializeLeave(context.TODO(), &lr); err != nil {
			h.Log.WithError(err).WithField("leaveRequestId", lr.ID.Hex()).Error("Failed to materialize approved leave")
		}
	}

	h.Log.WithFields(logrus.Fields{
		"leaveRequestId": lr.ID.Hex(),
		"from":           lr.Status,
		"to":             req.Status,
		"by":             userID.Hex(),
	}).Info("Leave request status changed")

	lr.Status = req.Status
	lr.ApproverID = &userID
	c.JSON(http.StatusOK, lr)
}

func (h *Handler) materializeLeave(ctx context.Context, lr *models.LeaveRequest) error {
	start, err := time.Parse(dateLayout, lr.StartDate)
	if err != nil {
		return err
	}
	end, err := time.Parse(dateLayout, lr.EndDate)
	if err != nil {
		return err
	}

	var entries []interface{}
	for _, date := range leaveDates(start, end) {
		entries = append(entries, models.WorkSchedule{
			ID:        primitive.NewObjectID(),
			UserID:    lr.UserID,
			Date:      date,
			Type:      models.ScheduleApprovedLeave,
			CreatedAt: time.Now(),
		})
	}
	if len(entries) == 0 {
		return nil
	}
	_, err = h.DB.Collection("work_schedules").InsertMany(ctx, entries)
	return err
}

// leaveDates expands a leave range into schedule dates. The end date is
// exclusive, matching the validation that a one-day leave is filed as
// end_date = start_date + 1, so the requester's return day stays bookable.
func leaveDates(start, end time.Time) []string {
	var dates []string
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(dateLayout))
	}
	return dates
}
