package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tranvdm/clinic-api/internal/models"
	"github.com/tranvdm/clinic-api/internal/utils"
)

var validRoles = map[string]bool{
	models.RoleSuperAdmin: true,
	models.RoleHOD:        true,
	models.RoleDoctor:     true,
	models.RoleNurse:      true,
	models.RolePatient:    true,
}

// --- Users ---

// CreateUser lets an admin create staff accounts with explicit roles and an
// optional clinic affiliation.
func (h *Handler) CreateUser(c *gin.Context) {
	var req struct {
		FullName string   `json:"fullName" binding:"required"`
		Email    string   `json:"email" binding:"required,email"`
		Password string   `json:"password" binding:"required,min=8"`
		Phone    string   `json:"phone"`
		Roles    []string `json:"roles" binding:"required,min=1"`
		ClinicID string   `json:"clinicId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	for _, r := range req.Roles {
		if !validRoles[r] {
			fieldErrors(c, map[string][]string{"roles": {"Unknown role " + r}})
			return
		}
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		ID:       primitive.NewObjectID(),
		FullName: req.FullName,
		Email:    req.Email,
		Password: hashed,
		Phone:    req.Phone,
		Roles:    req.Roles,
		Active:   true,
	}
	if req.ClinicID != "" {
		clinicID, err := primitive.ObjectIDFromHex(req.ClinicID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid clinic id"})
			return
		}
		user.ClinicID = &clinicID
	}

	if _, err := h.DB.Collection("users").InsertOne(context.TODO(), user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			fieldErrors(c, map[string][]string{"email": {"An account with this email already exists"}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *Handler) ListUsers(c *gin.Context) {
	filter := bson.M{}
	if role := c.Query("role"); role != "" {
		filter["roles"] = role
	}
	if q := c.Query("q"); q != "" {
		filter["$or"] = bson.A{
			bson.M{"fullName": bson.M{"$regex": q, "$options": "i"}},
			bson.M{"email": bson.M{"$regex": q, "$options": "i"}},
		}
	}

	pg := utils.ParsePagination(c)
	cursor, err := h.DB.Collection("users").Find(context.TODO(), filter,
		options.Find().SetSort(bson.D{{Key: "fullName", Value: 1}}).SetSkip(pg.Skip()).SetLimit(pg.Limit()))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}
	defer cursor.Close(context.TODO())

	var users []models.User
	if err := cursor.All(context.TODO(), &users); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode users"})
		return
	}
	if users == nil {
		users = make([]models.User, 0)
	}

	c.JSON(http.StatusOK, users)
}

// ListClinicDoctors serves a HOD's doctor roster, scoped to the clinic in
// their token claims.
func (h *Handler) ListClinicDoctors(c *gin.Context) {
	clinicID, err := primitive.ObjectIDFromHex(c.GetString("clinicID"))
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "No clinic affiliation"})
		return
	}

	filter := bson.M{"roles": models.RoleDoctor, "clinicId": clinicID}
	if q := c.Query("q"); q != "" {
		filter["fullName"] = bson.M{"$regex": q, "$options": "i"}
	}

	pg := utils.ParsePagination(c)
	cursor, err := h.DB.Collection("users").Find(context.TODO(), filter,
		options.Find().SetSort(bson.D{{Key: "fullName", Value: 1}}).SetSkip(pg.Skip()).SetLimit(pg.Limit()))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve doctors"})
		return
	}
	defer cursor.Close(context.TODO())

	var doctors []models.User
	if err := cursor.All(context.TODO(), &doctors); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode doctors"})
		return
	}
	if doctors == nil {
		doctors = make([]models.User, 0)
	}

	c.JSON(http.StatusOK, doctors)
}

// UpdateUser edits staff details, roles, clinic and active flag.
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := objectIDParam(c)
	if !ok {
		return
	}

	var req struct {
		FullName *string   `json:"fullName"`
		Phone    *string   `json:"phone"`
		Roles    *[]string `json:"roles"`
		ClinicID *string   `json:"clinicId"`
		Active   *bool     `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	set := bson.M{}
	if req.FullName != nil {
		set["fullName"] = *req.FullName
	}
	if req.Phone != nil {
		set["phone"] = *req.Phone
	}
	if req.Roles != nil {
		for _, r := range *req.Roles {
			if !validRoles[r] {
				fieldErrors(c, map[string][]string{"roles": {"Unknown role " + r}})
				return
			}
		}
		set["roles"] = *req.Roles
	}
	if req.ClinicID != nil {
		if *req.ClinicID == "" {
			set["clinicId"] = nil
		} else {
			clinicID, err := primitive.ObjectIDFromHex(*req.ClinicID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid clinic id"})
				return
			}
			set["clinicId"] = clinicID
		}
	}
	if req.Active != nil {
		set["active"] = *req.Active
	}
	if len(set) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No update fields provided"})
		return
	}

	result, err := h.DB.Collection("users").UpdateOne(context.TODO(), bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully"})
}

// --- Roles & permissions ---

func (h *Handler) CreateRole(c *gin.Context) {
	var req struct {
		Name        string   `json:"name" binding:"required"`
		Description string   `json:"description"`
		Permissions []string `json:"permissions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := models.Role{
		ID:          primitive.NewObjectID(),
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	}
	if _, err := h.DB.Collection("roles").InsertOne(context.TODO(), role); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			fieldErrors(c, map[string][]string{"name": {"Role name already exists"}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create role"})
		return
	}
	c.JSON(http.StatusCreated, role)
}

func (h *Handler) ListRoles(c *gin.Context) {
	h.listCollection(c, "roles", bson.M{}, "name", func() interface{} { return &[]models.Role{} })
}

func (h *Handler) UpdateRole(c *gin.Context) {
	id, ok := objectIDParam(c)
	if !ok {
		return
	}
	var req struct {
		Description *string   `json:"description"`
		Permissions *[]string `json:"permissions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	set := bson.M{}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Permissions != nil {
		set["permissions"] = *req.Permissions
	}
	if len(set) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No update fields provided"})
		return
	}
	result, err := h.DB.Collection("roles").UpdateOne(context.TODO(), bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role updated successfully"})
}

func (h *Handler) ListPermissions(c *gin.Context) {
	h.listCollection(c, "permissions", bson.M{}, "name", func() interface{} { return &[]models.Permission{} })
}

// --- Clinics ---

func (h *Handler) CreateClinic(c *gin.Context) {
	var req struct {
		Name   string `json:"name" binding:"required"`
		Phone  string `json:"phone"`
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Status == "" {
		req.Status = "active"
	}
	if req.Status != "active" && req.Status != "inactive" {
		fieldErrors(c, map[string][]string{"status": {"Status must be active or inactive"}})
		return
	}

	clinic := models.Clinic{
		ID:     primitive.NewObjectID(),
		Name:   req.Name,
		Phone:  req.Phone,
		Status: req.Status,
	}
	if _, err := h.DB.Collection("clinics").InsertOne(context.TODO(), clinic); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			fieldErrors(c, map[string][]string{"name": {"Clinic name already exists"}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create clinic"})
		return
	}
	c.JSON(http.StatusCreated, clinic)
}

func (h *Handler) ListClinics(c *gin.Context) {
	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}
	h.listCollection(c, "clinics", filter, "name", func() interface{} { return &[]models.Clinic{} })
}

func (h *Handler) UpdateClinic(c *gin.Context) {
	id, ok := objectIDParam(c)
	if !ok {
		return
	}
	var req struct {
		Name   *string `json:"name"`
		Phone  *string `json:"phone"`
		Status *string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	set := bson.M{}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Phone != nil {
		set["phone"] = *req.Phone
	}
	if req.Status != nil {
		if *req.Status != "active" && *req.Status != "inactive" {
			fieldErrors(c, map[string][]string{"status": {"Status must be active or inactive"}})
			return
		}
		set["status"] = *req.Status
	}
	if len(set) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No update fields provided"})
		return
	}
	result, err := h.DB.Collection("clinics").UpdateOne(context.TODO(), bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update clinic"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Clinic not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Clinic updated successfully"})
}

// --- System configuration ---

func (h *Handler) ListSystemConfigurations(c *gin.Context) {
	h.listCollection(c, "system_configurations", bson.M{}, "key", func() interface{} { return &[]models.SystemConfiguration{} })
}

// UpsertSystemConfiguration writes a key/value pair, creating it if absent.
func (h *Handler) UpsertSystemConfiguration(c *gin.Context) {
	var req struct {
		Key   string `json:"key" binding:"required"`
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, err := h.DB.Collection("system_configurations").UpdateOne(
		context.TODO(),
		bson.M{"key": req.Key},
		bson.M{"$set": bson.M{"value": req.Value}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save configuration"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Configuration saved"})
}

// listCollection is the shared list path for small reference collections.
func (h *Handler) listCollection(c *gin.Context, name string, filter bson.M, sortKey string, newSlice func() interface{}) {
	pg := utils.ParsePagination(c)
	cursor, err := h.DB.Collection(name).Find(context.TODO(), filter,
		options.Find().SetSort(bson.D{{Key: sortKey, Value: 1}}).SetSkip(pg.Skip()).SetLimit(pg.Limit()))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve " + name})
		return
	}
	defer cursor.Close(context.TODO())

	out := newSlice()
	if err := cursor.All(context.TODO(), out); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode " + name})
		return
	}
	c.JSON(http.StatusOK, out)
}
