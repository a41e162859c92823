package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Admin reference data. Uniqueness of names/codes is enforced with unique
// indexes on the corresponding collections.

type Role struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Permissions []string           `bson:"permissions" json:"permissions"`
}

type Permission struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
}

type Clinic struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name   string             `bson:"name" json:"name"`
	Phone  string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Status string             `bson:"status" json:"status"` // active / inactive
}

type MedicineCategory struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
}

type Medicine struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	CategoryID primitive.ObjectID `bson:"categoryId" json:"categoryId"`
	Unit       string             `bson:"unit" json:"unit"` // viên, vỉ, chai...
	Price      float64            `bson:"price" json:"price"`
	Stock      int                `bson:"stock" json:"stock"`
	Status     string             `bson:"status" json:"status"`

	Category *MedicineCategory `bson:"-" json:"category,omitempty"`
}

type SystemConfiguration struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Key   string             `bson:"key" json:"key"`
	Value string             `bson:"value" json:"value"`
}
