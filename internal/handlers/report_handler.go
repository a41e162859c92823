package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tranvdm/clinic-api/internal/models"
)

type statusCount struct {
	Status string `bson:"_id" json:"status"`
	Count  int64  `bson:"count" json:"count"`
}

// AppointmentsReport aggregates appointment counts by status, optionally
// restricted to a date range.
func (h *Handler) AppointmentsReport(c *gin.Context) {
	match := bson.M{}
	if startDateStr := c.Query("startDate"); startDateStr != "" {
		if startDate, err := time.Parse("2006-01-02", startDateStr); err == nil {
			match["scheduledAt"] = bson.M{"$gte": startDate}
		}
	}
	if endDateStr := c.Query("endDate"); endDateStr != "" {
		if endDate, err := time.Parse("2006-01-02", endDateStr); err == nil {
			endDate = endDate.Add(23*time.Hour + 59*time.Minute)
			if f, ok := match["scheduledAt"].(bson.M); ok {
				f["$lte"] = endDate
			} else {
				match["scheduledAt"] = bson.M{"$lte": endDate}
			}
		}
	}

	pipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
		{"$sort": bson.M{"_id": 1}},
	}
	cursor, err := h.DB.Collection("appointments").Aggregate(context.TODO(), pipeline)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}
	defer cursor.Close(context.TODO())

	var counts []statusCount
	if err := cursor.All(context.TODO(), &counts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode report"})
		return
	}
	if counts == nil {
		counts = make([]statusCount, 0)
	}

	var total int64
	for _, sc := range counts {
		total += sc.Count
	}
	c.JSON(http.StatusOK, gin.H{"total": total, "byStatus": counts})
}

// RevenueReport sums confirmed payments per day over a date range.
func (h *Handler) RevenueReport(c *gin.Context) {
	match := bson.M{}
	if startDateStr := c.Query("startDate"); startDateStr != "" {
		if startDate, err := time.Parse("2006-01-02", startDateStr); err == nil {
			match["paidAt"] = bson.M{"$gte": startDate}
		}
	}
	if endDateStr := c.Query("endDate"); endDateStr != "" {
		if endDate, err := time.Parse("2006-01-02", endDateStr); err == nil {
			endDate = endDate.Add(23*time.Hour + 59*time.Minute)
			if f, ok := match["paidAt"].(bson.M); ok {
				f["$lte"] = endDate
			} else {
				match["paidAt"] = bson.M{"$lte": endDate}
			}
		}
	}

	pipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{
			"_id":   bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$paidAt"}},
			"total": bson.M{"$sum": "$amount"},
			"count": bson.M{"$sum": 1},
		}},
		{"$sort": bson.M{"_id": 1}},
	}
	cursor, err := h.DB.Collection("payments").Aggregate(context.TODO(), pipeline)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}
	defer cursor.Close(context.TODO())

	var rows []struct {
		Date  string  `bson:"_id" json:"date"`
		Total float64 `bson:"total" json:"total"`
		Count int64   `bson:"count" json:"count"`
	}
	if err := cursor.All(context.TODO(), &rows); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode report"})
		return
	}

	var grandTotal float64
	for _, r := range rows {
		grandTotal += r.Total
	}
	c.JSON(http.StatusOK, gin.H{"grandTotal": grandTotal, "byDay": rows})
}

// ExportAppointmentsReport streams the appointment list as an .xlsx file.
func (h *Handler) ExportAppointmentsReport(c *gin.Context) {
	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	cursor, err := h.DB.Collection("appointments").Find(context.TODO(), filter,
		options.Find().SetSort(bson.D{{Key: "scheduledAt", Value: -1}}).SetLimit(10000))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve appointments"})
		return
	}
	defer cursor.Close(context.TODO())

	var appointments []models.Appointment
	if err := cursor.All(context.TODO(), &appointments); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode appointments"})
		return
	}

	var userIDs []primitive.ObjectID
	for _, apt := range appointments {
		userIDs = append(userIDs, apt.PatientID, apt.DoctorID)
	}
	users, err := h.usersByID(context.TODO(), userIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}
	names := map[string]string{}
	for id, u := range users {
		names[id.Hex()] = u.FullName
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Appointments"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Patient", "Doctor", "Scheduled At", "Status", "Reason"}
	for i, hdr := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, hdr)
	}
	for row, apt := range appointments {
		values := []interface{}{
			apt.ID.Hex(),
			names[apt.PatientID.Hex()],
			names[apt.DoctorID.Hex()],
			apt.ScheduledAt.Format("2006-01-02 15:04"),
			apt.Status,
			apt.Reason,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	filename := fmt.Sprintf("appointments-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		h.Log.WithError(err).Error("Failed to stream report export")
	}
}
