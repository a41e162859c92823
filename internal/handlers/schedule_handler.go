package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tranvdm/clinic-api/internal/models"
	"github.com/tranvdm/clinic-api/internal/utils"
)

// CreateWorkSchedule adds a schedule entry for a staff member (admin only).
func (h *Handler) CreateWorkSchedule(c *gin.Context) {
	var req struct {
		UserID    string `json:"userId" binding:"required"`
		Date      string `json:"date" binding:"required"`
		StartTime string `json:"startTime"`
		EndTime   string `json:"endTime"`
		Type      string `json:"type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch req.Type {
	case models.ScheduleWorking, models.ScheduleDayOff, models.ScheduleApprovedLeave:
	default:
		fieldErrors(c, map[string][]string{"type": {"Unknown schedule type"}})
		return
	}
	if _, err := time.Parse(dateLayout, req.Date); err != nil {
		fieldErrors(c, map[string][]string{"date": {"Date must be YYYY-MM-DD"}})
		return
	}
	if req.Type == models.ScheduleWorking && (req.StartTime == "" || req.EndTime == "") {
		fieldErrors(c, map[string][]string{"startTime": {"Working entries need start and end times"}})
		return
	}

	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}
	var user models.User
	if err := h.DB.Collection("users").FindOne(context.TODO(), bson.M{"_id": userID}).Decode(&user); err != nil {
		fieldErrors(c, map[string][]string{"userId": {"User not found"}})
		return
	}

	ws := models.WorkSchedule{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Type:      req.Type,
		CreatedAt: time.Now(),
	}
	if _, err := h.DB.Collection("work_schedules").InsertOne(context.TODO(), ws); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create work schedule"})
		return
	}

	c.JSON(http.StatusCreated, ws)
}

// ListWorkSchedules is admin-wide or self-scoped depending on the caller.
func (h *Handler) ListWorkSchedules(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	filter := bson.M{}
	role := c.GetString("userRole")
	if role == models.RoleDoctor || role == models.RoleNurse {
		filter["userId"] = userID
	} else if userIDQuery := c.Query("userId"); userIDQuery != "" {
		if uID, err := primitive.ObjectIDFromHex(userIDQuery); err == nil {
			filter["userId"] = uID
		}
	}
	if from := c.Query("from"); from != "" {
		filter["date"] = bson.M{"$gte": from}
	}
	if to := c.Query("to"); to != "" {
		if f, ok := filter["date"].(bson.M); ok {
			f["$lte"] = to
		} else {
			filter["date"] = bson.M{"$lte": to}
		}
	}

	pg := utils.ParsePagination(c)
	cursor, err := h.DB.Collection("work_schedules").Find(context.TODO(), filter,
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}}).SetSkip(pg.Skip()).SetLimit(pg.Limit()))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve work schedules"})
		return
	}
	defer cursor.Close(context.TODO())

	var schedules []models.WorkSchedule
	if err := cursor.All(context.TODO(), &schedules); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode work schedules"})
		return
	}
	if schedules == nil {
		schedules = make([]models.WorkSchedule, 0)
	}

	if utils.ParseWith(c)["user"] {
		var ids []primitive.ObjectID
		for _, s := range schedules {
			ids = append(ids, s.UserID)
		}
		users, err := h.usersByID(context.TODO(), ids)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
			return
		}
		for i := range schedules {
			schedules[i].User = users[schedules[i].UserID]
		}
	}

	c.JSON(http.StatusOK, schedules)
}

// DeleteWorkSchedule removes an entry (admin only).
func (h *Handler) DeleteWorkSchedule(c *gin.Context) {
	id, ok := objectIDParam(c)
	if !ok {
		return
	}

	result, err := h.DB.Collection("work_schedules").DeleteOne(context.TODO(), bson.M{"_id": id})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete work schedule"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Work schedule not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Work schedule deleted"})
}
