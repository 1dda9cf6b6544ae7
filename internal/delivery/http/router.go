package http

import (
	"net/http"

	"github.com/medilink/telehealth-api/internal/delivery/http/handler"
	"github.com/medilink/telehealth-api/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router               *mux.Router
	authHandler          *handler.AuthHandler
	doctorHandler        *handler.DoctorHandler
	availabilityHandler  *handler.AvailabilityHandler
	appointmentHandler   *handler.AppointmentHandler
	prescriptionHandler  *handler.PrescriptionHandler
	medicalRecordHandler *handler.MedicalRecordHandler
	auditLogHandler      *handler.AuditLogHandler
	authMiddleware       *middleware.AuthMiddleware
	corsMiddleware       *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	doctorHandler *handler.DoctorHandler,
	availabilityHandler *handler.AvailabilityHandler,
	appointmentHandler *handler.AppointmentHandler,
	prescriptionHandler *handler.PrescriptionHandler,
	medicalRecordHandler *handler.MedicalRecordHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:               mux.NewRouter(),
		authHandler:          authHandler,
		doctorHandler:        doctorHandler,
		availabilityHandler:  availabilityHandler,
		appointmentHandler:   appointmentHandler,
		prescriptionHandler:  prescriptionHandler,
		medicalRecordHandler: medicalRecordHandler,
		auditLogHandler:      auditLogHandler,
		authMiddleware:       authMiddleware,
		corsMiddleware:       corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register/patient", r.authHandler.RegisterPatient).Methods(http.MethodPost)
	auth.HandleFunc("/register/doctor", r.authHandler.RegisterDoctor).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/token/exchange", r.authHandler.ExchangeToken).Methods(http.MethodPost)
	auth.HandleFunc("/session", r.authHandler.Session).Methods(http.MethodGet)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.Me).Methods(http.MethodGet)

	// Doctor discovery (public)
	api.HandleFunc("/doctors", r.doctorHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}", r.doctorHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}/slots", r.availabilityHandler.BookableSlots).Methods(http.MethodGet)

	// Patient routes (protected - patient only)
	patient := api.PathPrefix("").Subrouter()
	patient.Use(r.authMiddleware.Authenticate)
	patient.Use(middleware.RequirePatient)
	patient.HandleFunc("/appointments", r.appointmentHandler.Book).Methods(http.MethodPost)
	patient.HandleFunc("/appointments", r.appointmentHandler.ListMine).Methods(http.MethodGet)
	patient.HandleFunc("/prescriptions", r.prescriptionHandler.ListMine).Methods(http.MethodGet)
	patient.HandleFunc("/medical-records", r.medicalRecordHandler.Create).Methods(http.MethodPost)
	patient.HandleFunc("/medical-records", r.medicalRecordHandler.ListMine).Methods(http.MethodGet)

	// Appointment routes shared by every authenticated party
	appointments := api.PathPrefix("/appointments").Subrouter()
	appointments.Use(r.authMiddleware.Authenticate)
	appointments.HandleFunc("/{id}", r.appointmentHandler.Get).Methods(http.MethodGet)
	appointments.HandleFunc("/{id}/cancel", r.appointmentHandler.Cancel).Methods(http.MethodPost)
	appointments.HandleFunc("/{id}/video-token", r.appointmentHandler.VideoToken).Methods(http.MethodGet)

	// Shared reads with per-record ownership checks in the usecase
	shared := api.PathPrefix("").Subrouter()
	shared.Use(r.authMiddleware.Authenticate)
	shared.HandleFunc("/prescriptions/{id}", r.prescriptionHandler.Get).Methods(http.MethodGet)
	shared.HandleFunc("/medical-records/{id}", r.medicalRecordHandler.Get).Methods(http.MethodGet)

	// Doctor routes (protected - doctor only)
	doctor := api.PathPrefix("/doctor").Subrouter()
	doctor.Use(r.authMiddleware.Authenticate)
	doctor.Use(middleware.RequireDoctor)
	doctor.HandleFunc("/profile", r.doctorHandler.UpdateProfile).Methods(http.MethodPut)
	doctor.HandleFunc("/accepting", r.doctorHandler.SetAccepting).Methods(http.MethodPatch)
	doctor.HandleFunc("/availability", r.availabilityHandler.MyAvailability).Methods(http.MethodGet)
	doctor.HandleFunc("/availability", r.availabilityHandler.SetAvailability).Methods(http.MethodPut)
	doctor.HandleFunc("/appointments", r.appointmentHandler.ListForDoctor).Methods(http.MethodGet)
	doctor.HandleFunc("/appointments/{id}/complete", r.appointmentHandler.Complete).Methods(http.MethodPost)
	doctor.HandleFunc("/appointments/{id}/no-show", r.appointmentHandler.NoShow).Methods(http.MethodPost)
	doctor.HandleFunc("/prescriptions", r.prescriptionHandler.Create).Methods(http.MethodPost)
	doctor.HandleFunc("/prescriptions", r.prescriptionHandler.ListIssued).Methods(http.MethodGet)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.List).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
