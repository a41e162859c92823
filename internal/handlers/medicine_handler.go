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

// --- Medicine categories ---

func (h *Handler) CreateMedicineCategory(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := models.MedicineCategory{
		ID:          primitive.NewObjectID(),
		Name:        req.Name,
		Description: req.Description,
	}
	if _, err := h.DB.Collection("medicine_categories").InsertOne(context.TODO(), category); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			fieldErrors(c, map[string][]string{"name": {"Category name already exists"}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *Handler) ListMedicineCategories(c *gin.Context) {
	h.listCollection(c, "medicine_categories", bson.M{}, "name", func() interface{} { return &[]models.MedicineCategory{} })
}

// MedicineCategoriesLookup is the lightweight id/name list used by select
// inputs on the medicine form.
func (h *Handler) MedicineCategoriesLookup(c *gin.Context) {
	cursor, err := h.DB.Collection("medicine_categories").Find(context.TODO(), bson.M{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}).SetProjection(bson.M{"name": 1}))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve categories"})
		return
	}
	defer cursor.Close(context.TODO())

	var categories []models.MedicineCategory
	if err := cursor.All(context.TODO(), &categories); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode categories"})
		return
	}
	if categories == nil {
		categories = make([]models.MedicineCategory, 0)
	}
	c.JSON(http.StatusOK, categories)
}

// --- Medicines ---

func (h *Handler) CreateMedicine(c *gin.Context) {
	var req struct {
		Name       string  `json:"name" binding:"required"`
		CategoryID string  `json:"categoryId" binding:"required"`
		Unit       string  `json:"unit" binding:"required"`
		Price      float64 `json:"price" binding:"required"`
		Stock      int     `json:"stock"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Price <= 0 {
		fieldErrors(c, map[string][]string{"price": {"Price must be greater than zero"}})
		return
	}

	categoryID, err := primitive.ObjectIDFromHex(req.CategoryID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category id"})
		return
	}
	var category models.MedicineCategory
	if err := h.DB.Collection("medicine_categories").FindOne(context.TODO(), bson.M{"_id": categoryID}).Decode(&category); err != nil {
		fieldErrors(c, map[string][]string{"categoryId": {"Category not found"}})
		return
	}

	medicine := models.Medicine{
		ID:         primitive.NewObjectID(),
		Name:       req.Name,
		CategoryID: categoryID,
		Unit:       req.Unit,
		Price:      req.Price,
		Stock:      req.Stock,
		Status:     "active",
	}
	if _, err := h.DB.Collection("medicines").InsertOne(context.TODO(), medicine); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			fieldErrors(c, map[string][]string{"name": {"Medicine name already exists"}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create medicine"})
		return
	}
	c.JSON(http.StatusCreated, medicine)
}

func (h *Handler) ListMedicines(c *gin.Context) {
	filter := bson.M{}
	if categoryIDQuery := c.Query("categoryId"); categoryIDQuery != "" {
		if catID, err := primitive.ObjectIDFromHex(categoryIDQuery); err == nil {
			filter["categoryId"] = catID
		}
	}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	pg := utils.ParsePagination(c)
	cursor, err := h.DB.Collection("medicines").Find(context.TODO(), filter,
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}).SetSkip(pg.Skip()).SetLimit(pg.Limit()))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve medicines"})
		return
	}
	defer cursor.Close(context.TODO())

	var medicines []models.Medicine
	if err := cursor.All(context.TODO(), &medicines); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode medicines"})
		return
	}
	if medicines == nil {
		medicines = make([]models.Medicine, 0)
	}

	if utils.ParseWith(c)["category"] {
		for i := range medicines {
			var category models.MedicineCategory
			if err := h.DB.Collection("medicine_categories").FindOne(context.TODO(),
				bson.M{"_id": medicines[i].CategoryID}).Decode(&category); err == nil {
				medicines[i].Category = &category
			}
		}
	}

	c.JSON(http.StatusOK, medicines)
}

func (h *Handler) UpdateMedicine(c *gin.Context) {
	id, ok := objectIDParam(c)
	if !ok {
		return
	}
	var req struct {
		Name   *string  `json:"name"`
		Unit   *string  `json:"unit"`
		Price  *float64 `json:"price"`
		Stock  *int     `json:"stock"`
		Status *string  `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	set := bson.M{}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Unit != nil {
		set["unit"] = *req.Unit
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			fieldErrors(c, map[string][]string{"price": {"Price must be greater than zero"}})
			return
		}
		set["price"] = *req.Price
	}
	if req.Stock != nil {
		set["stock"] = *req.Stock
	}
	if req.Status != nil {
		set["status"] = *req.Status
	}
	if len(set) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No update fields provided"})
		return
	}

	result, err := h.DB.Collection("medicines").UpdateOne(context.TODO(), bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update medicine"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Medicine not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Medicine updated successfully"})
}

// SearchMedicines backs the prescription form's typeahead.
func (h *Handler) SearchMedicines(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusOK, []models.Medicine{})
		return
	}

	cursor, err := h.DB.Collection("medicines").Find(context.TODO(),
		bson.M{"name": bson.M{"$regex": q, "$options": "i"}, "status": "active"},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}).SetLimit(20))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search medicines"})
		return
	}
	defer cursor.Close(context.TODO())

	var medicines []models.Medicine
	if err := cursor.All(context.TODO(), &medicines); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode medicines"})
		return
	}
	if medicines == nil {
		medicines = make([]models.Medicine, 0)
	}
	c.JSON(http.StatusOK, medicines)
}
