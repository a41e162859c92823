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
	"github.com/tranvdm/clinic-api/internal/services"
	"github.com/tranvdm/clinic-api/internal/utils"
	"github.com/tranvdm/clinic-api/internal/workflow"
)

// CreateAppointment books a new appointment for the calling patient.
func (h *Handler) CreateAppointment(c *gin.Context) {
	patientID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		DoctorID    string `json:"doctorId" binding:"required"`
		ClinicID    string `json:"clinicId" binding:"required"`
		ScheduledAt string `json:"scheduledAt" binding:"required"`
		Reason      string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		fieldErrors(c, map[string][]string{"scheduledAt": {"Invalid time format, use RFC3339"}})
		return
	}
	if !scheduledAt.After(time.Now()) {
		fieldErrors(c, map[string][]string{"scheduledAt": {"Appointment time must be in the future"}})
		return
	}

	doctorID, err1 := primitive.ObjectIDFromHex(req.DoctorID)
	clinicID, err2 := primitive.ObjectIDFromHex(req.ClinicID)
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid doctor or clinic id"})
		return
	}

	var doctor models.User
	err = h.DB.Collection("users").FindOne(context.TODO(), bson.M{"_id": doctorID}).Decode(&doctor)
	if err != nil || !doctor.HasRole(models.RoleDoctor) {
		fieldErrors(c, map[string][]string{"doctorId": {"Doctor not found"}})
		return
	}

	now := time.Now()
	apt := models.Appointment{
		ID:          primitive.NewObjectID(),
		PatientID:   patientID,
		DoctorID:    doctorID,
		ClinicID:    clinicID,
		ScheduledAt: scheduledAt,
		Reason:      req.Reason,
		Status:      models.AptPendingApproval,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := h.DB.Collection("appointments").InsertOne(context.TODO(), apt); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create appointment"})
		return
	}

	var patient models.User
	if err := h.DB.Collection("users").FindOne(context.TODO(), bson.M{"_id": patientID}).Decode(&patient); err == nil {
		h.NotificationSvc.SendAppointmentStatusSMS(&patient, &apt)
	}

	c.JSON(http.StatusCreated, apt)
}

// ListAppointments serves every role-scoped appointment list. The caller's
// role decides the base filter: patients and doctors see their own records,
// a HOD sees their clinic, nurses and admins see everything.
func (h *Handler) ListAppointments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	filter := bson.M{}
	switch c.GetString("userRole") {
	case models.RolePatient:
		filter["patientId"] = userID
	case models.RoleDoctor:
		filter["doctorId"] = userID
	case models.RoleHOD:
		clinicID, err := primitive.ObjectIDFromHex(c.GetString("clinicID"))
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "No clinic affiliation"})
			return
		}
		filter["clinicId"] = clinicID
	}

	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}
	if startDateStr := c.Query("startDate"); startDateStr != "" {
		if startDate, err := time.Parse("2006-01-02", startDateStr); err == nil {
			filter["scheduledAt"] = bson.M{"$gte": startDate}
		}
	}
	if endDateStr := c.Query("endDate"); endDateStr != "" {
		if endDate, err := time.Parse("2006-01-02", endDateStr); err == nil {
			endDate = endDate.Add(23*time.Hour + 59*time.Minute)
			if f, ok := filter["scheduledAt"].(bson.M); ok {
				f["$lte"] = endDate
			} else {
				filter["scheduledAt"] = bson.M{"$lte": endDate}
			}
		}
	}

	pg := utils.ParsePagination(c)
	findOptions := options.Find().
		SetSort(bson.D{{Key: "scheduledAt", Value: -1}}).
		SetSkip(pg.Skip()).
		SetLimit(pg.Limit())

	cursor, err := h.DB.Collection("appointments").Find(context.TODO(), filter, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve appointments"})
		return
	}
	defer cursor.Close(context.TODO())

	var appointments []models.Appointment
	if err = cursor.All(context.TODO(), &appointments); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode appointments"})
		return
	}
	if appointments == nil {
		appointments = make([]models.Appointment, 0)
	}

	if err := h.expandAppointments(c, appointments); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load related records"})
		return
	}

	c.JSON(http.StatusOK, appointments)
}

// expandAppointments resolves the "with" eager-load parameter.
func (h *Handler) expandAppointments(c *gin.Context, appointments []models.Appointment) error {
	with := utils.ParseWith(c)
	if len(with) == 0 || len(appointments) == 0 {
		return nil
	}

	var userIDs, clinicIDs []primitive.ObjectID
	for _, apt := range appointments {
		if with["patient"] {
			userIDs = append(userIDs, apt.PatientID)
		}
		if with["doctor"] {
			userIDs = append(userIDs, apt.DoctorID)
		}
		if with["clinic"] {
			clinicIDs = append(clinicIDs, apt.ClinicID)
		}
	}

	users, err := h.usersByID(context.TODO(), userIDs)
	if err != nil {
		return err
	}
	clinics, err := h.clinicsByID(context.TODO(), clinicIDs)
	if err != nil {
		return err
	}

	for i := range appointments {
		if with["patient"] {
			appointments[i].Patient = users[appointments[i].PatientID]
		}
		if with["doctor"] {
			appointments[i].Doctor = users[appointments[i].DoctorID]
		}
		if with["clinic"] {
			appointments[i].Clinic = clinics[appointments[i].ClinicID]
		}
	}
	return nil
}

// UpdateAppointmentStatus is the single PATCH endpoint behind every
// approve/reject/cancel/complete button. The workflow table decides whether
// the caller's role may perform the requested transition; ownership is
// checked on top of that.
func (h *Handler) UpdateAppointmentStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	aptID, ok := objectIDParam(c)
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

	// PAID is reserved for payment confirmation: that endpoint records the
	// Payment document and receipt together with the transition, so it must
	// not be reachable through a bare status change.
	if req.Status == models.AptPaid {
		c.JSON(http.StatusConflict, gin.H{"error": "PAID is set through payment confirmation"})
		return
	}

	var apt models.Appointment
	err := h.DB.Collection("appointments").FindOne(context.TODO(), bson.M{"_id": aptID}).Decode(&apt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		return
	}

	role := c.GetString("userRole")
	if !h.ownsAppointment(c, role, userID, &apt) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied."})
		return
	}
	if !workflow.Appointment.Can(role, apt.Status, req.Status) {
		c.JSON(http.StatusConflict, gin.H{"error": "Transition from " + apt.Status + " to " + req.Status + " is not allowed"})
		return
	}
	if workflow.Appointment.NeedsReason(req.Status) && req.Reason == "" {
		fieldErrors(c, map[string][]string{"reason": {"A reason is required"}})
		return
	}

	update := bson.M{"status": req.Status, "updatedAt": time.Now()}
	if req.Reason != "" {
		update["statusReason"] = req.Reason
	}
	_, err = h.DB.Collection("appointments").UpdateOne(context.TODO(), bson.M{"_id": aptID}, bson.M{"$set": update})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update appointment"})
		return
	}

	fromStatus := apt.Status
	apt.Status = req.Status
	apt.StatusReason = req.Reason

	var patient models.User
	if err := h.DB.Collection("users").FindOne(context.TODO(), bson.M{"_id": apt.PatientID}).Decode(&patient); err == nil {
		h.NotificationSvc.SendAppointmentStatusSMS(&patient, &apt)
	}
	h.Events.PublishStatusChange(services.AppointmentEvent{
		AppointmentID: apt.ID.Hex(),
		PatientID:     apt.PatientID.Hex(),
		DoctorID:      apt.DoctorID.Hex(),
		FromStatus:    fromStatus,
		ToStatus:      apt.Status,
		ChangedBy:     userID.Hex(),
		ChangedAt:     time.Now(),
	})
	h.Log.WithFields(logrus.Fields{
		"appointmentId": apt.ID.Hex(),
		"from":          fromStatus,
		"to":            apt.Status,
		"by":            userID.Hex(),
	}).Info("Appointment status changed")

	c.JSON(http.StatusOK, apt)
}

func (h *Handler) ownsAppointment(c *gin.Context, role string, userID primitive.ObjectID, apt *models.Appointment) bool {
	switch role {
	case models.RolePatient:
		return apt.PatientID == userID
	case models.RoleDoctor:
		return apt.DoctorID == userID
	case models.RoleHOD:
		clinicID, err := primitive.ObjectIDFromHex(c.GetString("clinicID"))
		return err == nil && apt.ClinicID == clinicID
	default: // nurse, super admin
		return true
	}
}
