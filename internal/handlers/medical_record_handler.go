package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tranvdm/clinic-api/internal/models"
	"github.com/tranvdm/clinic-api/internal/utils"
)

// CreateMedicalRecord records a consultation outcome. Only the doctor the
// appointment belongs to can write it, and only once.
func (h *Handler) CreateMedicalRecord(c *gin.Context) {
	doctorID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		AppointmentID string        `json:"appointmentId" binding:"required"`
		Symptoms      string        `json:"symptoms" binding:"required"`
		Diagnosis     string        `json:"diagnosis" binding:"required"`
		Treatment     string        `json:"treatment"`
		Vitals        models.Vitals `json:"vitals"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	aptID, err := primitive.ObjectIDFromHex(req.AppointmentID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment id"})
		return
	}

	var apt models.Appointment
	if err := h.DB.Collection("appointments").FindOne(context.TODO(), bson.M{"_id": aptID}).Decode(&apt); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		return
	}
	if apt.DoctorID != doctorID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied."})
		return
	}
	if apt.Status != models.AptApproved {
		c.JSON(http.StatusConflict, gin.H{"error": "Medical record can only be written for an approved appointment"})
		return
	}

	count, err := h.DB.Collection("medical_records").CountDocuments(context.TODO(), bson.M{"appointmentId": aptID})
	if err == nil && count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "A medical record already exists for this appointment"})
		return
	}

	now := time.Now()
	record := models.MedicalRecord{
		ID:            primitive.NewObjectID(),
		AppointmentID: aptID,
		PatientID:     apt.PatientID,
		DoctorID:      doctorID,
		Symptoms:      req.Symptoms,
		Diagnosis:     req.Diagnosis,
		Treatment:     req.Treatment,
		Vitals:        req.Vitals,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := h.DB.Collection("medical_records").InsertOne(context.TODO(), record); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create medical record"})
		return
	}

	c.JSON(http.StatusCreated, record)
}

// ListMedicalRecords scopes by role: patients see their own history,
// doctors the records they wrote, nurses and admins everything.
func (h *Handler) ListMedicalRecords(c *gin.Context) {
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
	}
	if patientIDQuery := c.Query("patientId"); patientIDQuery != "" && c.GetString("userRole") != models.RolePatient {
		if pID, err := primitive.ObjectIDFromHex(patientIDQuery); err == nil {
			filter["patientId"] = pID
		}
	}

	pg := utils.ParsePagination(c)
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(pg.Skip()).
		SetLimit(pg.Limit())

	cursor, err := h.DB.Collection("medical_records").Find(context.TODO(), filter, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve medical records"})
		return
	}
	defer cursor.Close(context.TODO())

	var records []models.MedicalRecord
	if err := cursor.All(context.TODO(), &records); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode medical records"})
		return
	}
	if records == nil {
		records = make([]models.MedicalRecord, 0)
	}

	with := utils.ParseWith(c)
	if with["prescriptions"] {
		for i := range records {
			prescriptions, err := h.prescriptionsForRecord(context.TODO(), records[i].ID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load prescriptions"})
				return
			}
			records[i].Prescriptions = prescriptions
		}
	}
	if with["patient"] || with["doctor"] {
		var ids []primitive.ObjectID
		for _, r := range records {
			ids = append(ids, r.PatientID, r.DoctorID)
		}
		users, err := h.usersByID(context.TODO(), ids)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load related users"})
			return
		}
		for i := range records {
			if with["patient"] {
				records[i].Patient = users[records[i].PatientID]
			}
			if with["doctor"] {
				records[i].Doctor = users[records[i].DoctorID]
			}
		}
	}

	c.JSON(http.StatusOK, records)
}

// UpdateNurseNotes lets a nurse append care notes to an existing record.
func (h *Handler) UpdateNurseNotes(c *gin.Context) {
	recordID, ok := objectIDParam(c)
	if !ok {
		return
	}

	var req struct {
		NurseNotes string `json:"nurseNotes" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.DB.Collection("medical_records").UpdateOne(
		context.TODO(),
		bson.M{"_id": recordID},
		bson.M{"$set": bson.M{"nurseNotes": req.NurseNotes, "updatedAt": time.Now()}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update medical record"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Medical record not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notes updated successfully"})
}

// CreatePrescription issues a prescription against a medical record. Unit
// prices are snapshotted from the medicine catalog at issue time so later
// price edits don't rewrite history.
func (h *Handler) CreatePrescription(c *gin.Context) {
	doctorID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		MedicalRecordID string `json:"medicalRecordId" binding:"required"`
		Items           []struct {
			MedicineID string `json:"medicineId" binding:"required"`
			Dosage     string `json:"dosage" binding:"required"`
			Quantity   int    `json:"quantity" binding:"required,min=1"`
		} `json:"items" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recordID, err := primitive.ObjectIDFromHex(req.MedicalRecordID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid medical record id"})
		return
	}

	var record models.MedicalRecord
	if err := h.DB.Collection("medical_records").FindOne(context.TODO(), bson.M{"_id": recordID}).Decode(&record); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Medical record not found"})
		return
	}
	if record.DoctorID != doctorID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied."})
		return
	}

	items := make([]models.PrescriptionItem, 0, len(req.Items))
	for _, it := range req.Items {
		medID, err := primitive.ObjectIDFromHex(it.MedicineID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid medicine id"})
			return
		}
		var med models.Medicine
		if err := h.DB.Collection("medicines").FindOne(context.TODO(), bson.M{"_id": medID}).Decode(&med); err != nil {
			fieldErrors(c, map[string][]string{"items": {"Medicine " + it.MedicineID + " not found"}})
			return
		}
		items = append(items, models.PrescriptionItem{
			MedicineID: medID,
			Dosage:     it.Dosage,
			Quantity:   it.Quantity,
			UnitPrice:  med.Price,
		})
	}

	prescription := models.Prescription{
		ID:              primitive.NewObjectID(),
		Number:          "RX-" + uuid.NewString()[:8],
		MedicalRecordID: recordID,
		PatientID:       record.PatientID,
		DoctorID:        doctorID,
		Items:           items,
		CreatedAt:       time.Now(),
	}

	if _, err := h.DB.Collection("prescriptions").InsertOne(context.TODO(), prescription); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create prescription"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"prescription": prescription, "total": prescription.Total()})
}

// ListPrescriptions is patient-scoped for patients, unrestricted for staff.
func (h *Handler) ListPrescriptions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	filter := bson.M{}
	if c.GetString("userRole") == models.RolePatient {
		filter["patientId"] = userID
	} else if patientIDQuery := c.Query("patientId"); patientIDQuery != "" {
		if pID, err := primitive.ObjectIDFromHex(patientIDQuery); err == nil {
			filter["patientId"] = pID
		}
	}

	cursor, err := h.DB.Collection("prescriptions").Find(context.TODO(), filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve prescriptions"})
		return
	}
	defer cursor.Close(context.TODO())

	var prescriptions []models.Prescription
	if err := cursor.All(context.TODO(), &prescriptions); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode prescriptions"})
		return
	}
	if prescriptions == nil {
		prescriptions = make([]models.Prescription, 0)
	}

	if utils.ParseWith(c)["medicine"] {
		for i := range prescriptions {
			for j := range prescriptions[i].Items {
				var med models.Medicine
				if err := h.DB.Collection("medicines").FindOne(context.TODO(),
					bson.M{"_id": prescriptions[i].Items[j].MedicineID}).Decode(&med); err == nil {
					prescriptions[i].Items[j].Medicine = &med
				}
			}
		}
	}

	c.JSON(http.StatusOK, prescriptions)
}

func (h *Handler) prescriptionsForRecord(ctx context.Context, recordID primitive.ObjectID) ([]models.Prescription, error) {
	cursor, err := h.DB.Collection("prescriptions").Find(ctx, bson.M{"medicalRecordId": recordID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var prescriptions []models.Prescription
	if err := cursor.All(ctx, &prescriptions); err != nil {
		return nil, err
	}
	return prescriptions, nil
}
