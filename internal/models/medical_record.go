package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Vitals struct {
	TemperatureC  float64 `bson:"temperatureC,omitempty" json:"temperatureC,omitempty"`
	Pulse         int     `bson:"pulse,omitempty" json:"pulse,omitempty"`
	BloodPressure string  `bson:"bloodPressure,omitempty" json:"bloodPressure,omitempty"`
	WeightKg      float64 `bson:"weightKg,omitempty" json:"weightKg,omitempty"`
}

type MedicalRecord struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AppointmentID primitive.ObjectID `bson:"appointmentId" json:"appointmentId"`
	PatientID     primitive.ObjectID `bson:"patientId" json:"patientId"`
	DoctorID      primitive.ObjectID `bson:"doctorId" json:"doctorId"`
	Symptoms      string             `bson:"symptoms" json:"symptoms"`
	Diagnosis     string             `bson:"diagnosis" json:"diagnosis"`
	Treatment     string             `bson:"treatment" json:"treatment"`
	Vitals        Vitals             `bson:"vitals" json:"vitals"`
	NurseNotes    string             `bson:"nurseNotes,omitempty" json:"nurseNotes,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`

	Patient       *User          `bson:"-" json:"patient,omitempty"`
	Doctor        *User          `bson:"-" json:"doctor,omitempty"`
	Prescriptions []Prescription `bson:"-" json:"prescriptions,omitempty"`
}

type PrescriptionItem struct {
	MedicineID primitive.ObjectID `bson:"medicineId" json:"medicineId"`
	Dosage     string             `bson:"dosage" json:"dosage"`
	Quantity   int                `bson:"quantity" json:"quantity"`
	UnitPrice  float64            `bson:"unitPrice" json:"unitPrice"` // snapshot of medicine price at issue time

	Medicine *Medicine `bson:"-" json:"medicine,omitempty"`
}

type Prescription struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Number          string             `bson:"number" json:"number"`
	MedicalRecordID primitive.ObjectID `bson:"medicalRecordId" json:"medicalRecordId"`
	PatientID       primitive.ObjectID `bson:"patientId" json:"patientId"`
	DoctorID        primitive.ObjectID `bson:"doctorId" json:"doctorId"`
	Items           []PrescriptionItem `bson:"items" json:"items"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}

// Total is price × quantity summed over items.
func (p *Prescription) Total() float64 {
	var total float64
	for _, it := range p.Items {
		total += it.UnitPrice * float64(it.Quantity)
	}
	return total
}
