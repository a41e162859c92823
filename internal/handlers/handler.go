package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tranvdm/clinic-api/internal/models"
	"github.com/tranvdm/clinic-api/internal/services"
)

// Handler carries the database and shared services into every endpoint.
type Handler struct {
	DB              *mongo.Database
	NotificationSvc *services.NotificationService
	Events          *services.EventProducer
	Log             *logrus.Logger
}

func NewHandler(db *mongo.Database, notificationSvc *services.NotificationService, events *services.EventProducer, log *logrus.Logger) *Handler {
	return &Handler{
		DB:              db,
		NotificationSvc: notificationSvc,
		Events:          events,
		Log:             log,
	}
}

// objectIDParam parses the :id path parameter; on failure it writes a 400
// and returns false.
func objectIDParam(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// currentUserID returns the authenticated caller's id from the context set
// by the auth middleware.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// fieldErrors writes a 422 with a field -> messages map, the shape form
// screens expect for inline validation display.
func fieldErrors(c *gin.Context, errs map[string][]string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
}

// usersByID fetches the users referenced by ids in one query, keyed by id.
// Used for the "with" eager-load parameter.
func (h *Handler) usersByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	out := map[primitive.ObjectID]*models.User{}
	if len(ids) == 0 {
		return out, nil
	}
	cursor, err := h.DB.Collection("users").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	for i := range users {
		out[users[i].ID] = &users[i]
	}
	return out, nil
}

func (h *Handler) clinicsByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Clinic, error) {
	out := map[primitive.ObjectID]*models.Clinic{}
	if len(ids) == 0 {
		return out, nil
	}
	cursor, err := h.DB.Collection("clinics").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var clinics []models.Clinic
	if err := cursor.All(ctx, &clinics); err != nil {
		return nil, err
	}
	for i := range clinics {
		out[clinics[i].ID] = &clinics[i]
	}
	return out, nil
}
