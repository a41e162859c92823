package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tranvdm/clinic-api/internal/models"
	"github.com/tranvdm/clinic-api/internal/services"
	"github.com/tranvdm/clinic-api/internal/utils"
	"github.com/tranvdm/clinic-api/internal/workflow"
)

// ConfirmPayment settles an appointment that is awaiting payment. On
// success the appointment moves to PAID and a receipt is written.
func (h *Handler) ConfirmPayment(c *gin.Context) {
	nurseID, ok := currentUserID(c)
	if !ok {
		return
	}
	aptID, ok := objectIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Amount        float64 `json:"amount" binding:"required"`
		PaymentMethod string  `json:"payment_method" binding:"required"`
		Note          string  `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Amount <= 0 {
		fieldErrors(c, map[string][]string{"amount": {"Amount must be greater than zero"}})
		return
	}
	switch req.PaymentMethod {
	case models.PaymentMethodCash, models.PaymentMethodTransfer, models.PaymentMethodCard:
	default:
		fieldErrors(c, map[string][]string{"payment_method": {"Unknown payment method"}})
		return
	}

	var apt models.Appointment
	if err := h.DB.Collection("appointments").FindOne(context.TODO(), bson.M{"_id": aptID}).Decode(&apt); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		return
	}

	role := c.GetString("userRole")
	if !workflow.Appointment.Can(role, apt.Status, models.AptPaid) {
		c.JSON(http.StatusConflict, gin.H{"error": "Appointment is not awaiting payment"})
		return
	}

	payment := models.Payment{
		ID:            primitive.NewObjectID(),
		AppointmentID: aptID,
		Amount:        req.Amount,
		Method:        req.PaymentMethod,
		ReceiptNumber: "RC-" + uuid.NewString()[:8],
		ConfirmedBy:   nurseID,
		PaidAt:        time.Now(),
		Note:          req.Note,
	}
	if _, err := h.DB.Collection("payments").InsertOne(context.TODO(), payment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}

	_, err := h.DB.Collection("appointments").UpdateOne(context.TODO(),
		bson.M{"_id": aptID},
		bson.M{"$set": bson.M{"status": models.AptPaid, "updatedAt": time.Now()}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update appointment"})
		return
	}

	fromStatus := apt.Status
	apt.Status = models.AptPaid
	var patient models.User
	if err := h.DB.Collection("users").FindOne(context.TODO(), bson.M{"_id": apt.PatientID}).Decode(&patient); err == nil {
		h.NotificationSvc.SendAppointmentStatusSMS(&patient, &apt)
	}
	h.Events.PublishStatusChange(services.AppointmentEvent{
		AppointmentID: apt.ID.Hex(),
		PatientID:     apt.PatientID.Hex(),
		DoctorID:      apt.DoctorID.Hex(),
		FromStatus:    fromStatus,
		ToStatus:      models.AptPaid,
		ChangedBy:     nurseID.Hex(),
		ChangedAt:     time.Now(),
	})
	h.Log.WithFields(logrus.Fields{
		"appointmentId": apt.ID.Hex(),
		"amount":        req.Amount,
		"method":        req.PaymentMethod,
	}).Info("Payment confirmed")

	c.JSON(http.StatusOK, gin.H{"payment": payment, "appointment": apt})
}

// ListPayments returns receipts, filterable by date range for the cashier
// end-of-day view.
func (h *Handler) ListPayments(c *gin.Context) {
	filter := bson.M{}
	if startDateStr := c.Query("startDate"); startDateStr != "" {
		if startDate, err := time.Parse("2006-01-02", startDateStr); err == nil {
			filter["paidAt"] = bson.M{"$gte": startDate}
		}
	}
	if endDateStr := c.Query("endDate"); endDateStr != "" {
		if endDate, err := time.Parse("2006-01-02", endDateStr); err == nil {
			endDate = endDate.Add(23*time.Hour + 59*time.Minute)
			if f, ok := filter["paidAt"].(bson.M); ok {
				f["$lte"] = endDate
			} else {
				filter["paidAt"] = bson.M{"$lte": endDate}
			}
		}
	}

	pg := utils.ParsePagination(c)
	cursor, err := h.DB.Collection("payments").Find(context.TODO(), filter,
		options.Find().SetSort(bson.D{{Key: "paidAt", Value: -1}}).SetSkip(pg.Skip()).SetLimit(pg.Limit()))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve payments"})
		return
	}
	defer cursor.Close(context.TODO())

	var payments []models.Payment
	if err := cursor.All(context.TODO(), &payments); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode payments"})
		return
	}
	if payments == nil {
		payments = make([]models.Payment, 0)
	}

	c.JSON(http.StatusOK, payments)
}
