package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tranvdm/clinic-api/internal/config"
	"github.com/tranvdm/clinic-api/internal/handlers"
	"github.com/tranvdm/clinic-api/internal/middleware"
	"github.com/tranvdm/clinic-api/internal/models"
	"github.com/tranvdm/clinic-api/internal/services"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, relying on environment variables.")
	}
	cfg := config.LoadConfig()
	if os.Getenv("JWT_SECRET") == "" {
		log.Warn("JWT_SECRET is NOT SET.")
	}

	// --- Database Connection ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer client.Disconnect(ctx)
	db := client.Database(cfg.MongoDatabase)
	log.Info("Successfully connected to MongoDB")

	// --- Initialize Services ---
	notificationSvc := services.NewNotificationService(cfg.TextbeltKey, log)
	events, err := services.NewEventProducer(cfg.KafkaBrokers, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Kafka")
	}
	defer events.Close()

	reminder := services.NewReminderService(db, notificationSvc, log)
	reminder.StartCron()

	// --- Initialize Handlers ---
	h := handlers.NewHandler(db, notificationSvc, events, log)

	// --- Gin Router ---
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// --- Routes ---
	r.POST("/login", h.Login)
	r.POST("/register", h.RegisterUser)

	authed := r.Group("")
	authed.Use(middleware.AuthMiddleware())
	{
		authed.POST("/logout", h.Logout)
		authed.GET("/user/profile", h.GetProfile)
		authed.PUT("/user/profile", h.UpdateProfile)
		authed.PUT("/user/password", h.ChangePassword)

		authed.GET("/medicines/search", h.SearchMedicines)
		authed.GET("/medicine-categories-lookup", h.MedicineCategoriesLookup)
	}

	patient := r.Group("/patient")
	patient.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.RolePatient))
	{
		patient.GET("/appointments", h.ListAppointments)
		patient.POST("/appointments", h.CreateAppointment)
		patient.PATCH("/appointments/:id/status", h.UpdateAppointmentStatus)
		patient.GET("/medical-records", h.ListMedicalRecords)
		patient.GET("/prescriptions", h.ListPrescriptions)
	}

	doctor := r.Group("/doctor")
	doctor.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.RoleDoctor))
	{
		doctor.GET("/appointments", h.ListAppointments)
		doctor.PATCH("/appointments/:id/status", h.UpdateAppointmentStatus)
		doctor.GET("/medical-records", h.ListMedicalRecords)
		doctor.POST("/medical-records", h.CreateMedicalRecord)
		doctor.POST("/prescriptions", h.CreatePrescription)
		doctor.GET("/prescriptions", h.ListPrescriptions)
		doctor.GET("/work-schedules", h.ListWorkSchedules)
		doctor.GET("/leave-requests", h.ListLeaveRequests)
		doctor.POST("/leave-requests", h.CreateLeaveRequest)
	}

	nurse := r.Group("/nurse")
	nurse.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.RoleNurse))
	{
		nurse.GET("/appointments", h.ListAppointments)
		nurse.PATCH("/appointments/:id/status", h.UpdateAppointmentStatus)
		nurse.POST("/payments/:id/confirm", h.ConfirmPayment)
		nurse.GET("/payments", h.ListPayments)
		nurse.PUT("/medical-records/:id/notes", h.UpdateNurseNotes)
		nurse.GET("/work-schedules", h.ListWorkSchedules)
		nurse.GET("/leave-requests", h.ListLeaveRequests)
		nurse.POST("/leave-requests", h.CreateLeaveRequest)
	}

	hod := r.Group("/hod")
	hod.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.RoleHOD))
	{
		hod.GET("/appointments", h.ListAppointments)
		hod.GET("/doctors", h.ListClinicDoctors)
		hod.GET("/leave-requests", h.ListLeaveRequests)
		hod.POST("/leave-requests", h.CreateLeaveRequest)
		hod.PATCH("/leave-requests/:id/status", h.UpdateLeaveRequestStatus)
	}

	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.RoleSuperAdmin))
	{
		admin.GET("/users", h.ListUsers)
		admin.POST("/users", h.CreateUser)
		admin.PUT("/users/:id", h.UpdateUser)

		admin.GET("/roles", h.ListRoles)
		admin.POST("/roles", h.CreateRole)
		admin.PUT("/roles/:id", h.UpdateRole)
		admin.GET("/permissions", h.ListPermissions)

		admin.GET("/clinics", h.ListClinics)
		admin.POST("/clinics", h.CreateClinic)
		admin.PUT("/clinics/:id", h.UpdateClinic)

		admin.GET("/medicines", h.ListMedicines)
		admin.POST("/medicines", h.CreateMedicine)
		admin.PUT("/medicines/:id", h.UpdateMedicine)
		admin.GET("/medicine-categories", h.ListMedicineCategories)
		admin.POST("/medicine-categories", h.CreateMedicineCategory)

		admin.GET("/work-schedules", h.ListWorkSchedules)
		admin.POST("/work-schedules", h.CreateWorkSchedule)
		admin.DELETE("/work-schedules/:id", h.DeleteWorkSchedule)

		admin.GET("/appointments", h.ListAppointments)
		admin.PATCH("/appointments/:id/status", h.UpdateAppointmentStatus)
		admin.GET("/leave-requests", h.ListLeaveRequests)
		admin.PATCH("/leave-requests/:id/status", h.UpdateLeaveRequestStatus)

		admin.GET("/reports/appointments", h.AppointmentsReport)
		admin.GET("/reports/appointments/export", h.ExportAppointmentsReport)
		admin.GET("/reports/revenue", h.RevenueReport)

		admin.GET("/system-configurations", h.ListSystemConfigurations)
		admin.PUT("/system-configurations", h.UpsertSystemConfiguration)
	}

	log.WithField("port", cfg.ListenPort).Info("Starting server")
	if err := r.Run(":" + cfg.ListenPort); err != nil {
		log.WithError(err).Fatal("Server exited")
	}
}
