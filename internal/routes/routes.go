package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-core/internal/audit"
	"github.com/BruksfildServices01/barbershop-core/internal/config"
	"github.com/BruksfildServices01/barbershop-core/internal/handlers"
	"github.com/BruksfildServices01/barbershop-core/internal/middleware"
	ucAvailability "github.com/BruksfildServices01/barbershop-core/internal/usecase/availability"
	ucBooking "github.com/BruksfildServices01/barbershop-core/internal/usecase/booking"
	ucRequest "github.com/BruksfildServices01/barbershop-core/internal/usecase/request"
)

// Infra is built once in main and shared by every route.
type Infra struct {
	DB        *gorm.DB
	Config    *config.Config
	Booking   ucBooking.Deps
	AuditLogs *audit.Logger
}

func RegisterRoutes(r *gin.Engine, in Infra) {
	cfg := in.Config
	deps := in.Booking

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RateLimitMiddleware(cfg.RateLimitPerMinute))

	// ======================================================
	// USE CASES
	// ======================================================
	getAvailabilityUC := ucAvailability.NewGetAvailability(deps.Repo, deps.Cache, deps.Clock, deps.Logger)

	recordPaymentUC := ucBooking.NewRecordPayment(deps)
	createBookingUC := ucBooking.NewCreateBooking(deps, recordPaymentUC)
	listBookingsUC := ucBooking.NewListBookingsByDate(deps.Repo, deps.Clock)
	changeStatusUC := ucBooking.NewChangeStatus(deps)
	refundUC := ucBooking.NewRefund(deps)

	submitRequestUC := ucRequest.NewSubmitRequest(deps.Repo, deps.Clock, deps.Audit, cfg.MaxLeaveDays)
	listRequestsUC := ucRequest.NewListRequests(deps.Repo)
	approveRequestUC := ucRequest.NewApprove(
		deps.Repo,
		deps.Locker,
		deps.Cache,
		deps.Clock,
		deps.Audit,
		deps.Logger,
		deps.Policy.LockWait,
	)
	denyRequestUC := ucRequest.NewDeny(deps.Repo, deps.Clock, deps.Audit)

	// ======================================================
	// HANDLERS
	// ======================================================
	healthHandler := handlers.NewHealthHandler(in.DB)
	availabilityHandler := handlers.NewAvailabilityHandler(getAvailabilityUC)
	bookingHandler := handlers.NewBookingHandler(
		createBookingUC,
		listBookingsUC,
		recordPaymentUC,
		changeStatusUC,
		refundUC,
	)
	requestHandler := handlers.NewRequestHandler(
		submitRequestUC,
		listRequestsUC,
		approveRequestUC,
		denyRequestUC,
	)
	workingHoursHandler := handlers.NewWorkingHoursHandler(deps.Repo, deps.Cache, deps.Clock)
	serviceHandler := handlers.NewServiceHandler(deps.Repo)
	auditLogsHandler := handlers.NewAuditLogsHandler(in.AuditLogs, deps.Clock)

	r.GET("/health", healthHandler.Get)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		const (
			customer = middleware.RoleCustomer
			barber   = middleware.RoleBarber
			cashier  = middleware.RoleCashier
			admin    = middleware.RoleAdmin
		)
		anyRole := middleware.RequireRole(customer, barber, cashier, admin)

		// ------------------------------
		// AVAILABILITY
		// ------------------------------
		api.GET("/barbers/:barberId/availability", anyRole, availabilityHandler.Get)

		// ------------------------------
		// BOOKINGS
		// ------------------------------
		api.POST("/bookings", middleware.RequireRole(customer, cashier, admin), bookingHandler.Create)
		api.GET("/barbers/:barberId/bookings", middleware.RequireRole(barber, cashier, admin), bookingHandler.ListByDate)
		api.POST("/bookings/:id/payments", middleware.RequireRole(customer, cashier), bookingHandler.RecordPayment)
		api.PATCH("/bookings/:id/status", middleware.RequireRole(barber, cashier, admin), bookingHandler.ChangeStatus)
		api.POST("/bookings/:id/refund", middleware.RequireRole(cashier, admin), bookingHandler.Refund)

		// ------------------------------
		// LEAVE / PRICE REQUESTS
		// ------------------------------
		api.POST("/requests", middleware.RequireRole(barber), requestHandler.Submit)

		requests := api.Group("/requests", middleware.RequireRole(admin))
		{
			requests.GET("", requestHandler.List)
			requests.POST("/:id/approve", requestHandler.Approve)
			requests.POST("/:id/deny", requestHandler.Deny)
		}

		// ------------------------------
		// ADMIN
		// ------------------------------
		adminAPI := api.Group("/admin", middleware.RequireRole(admin))
		{
			adminAPI.GET("/barbers/:barberId/working-hours", workingHoursHandler.Get)
			adminAPI.PUT("/barbers/:barberId/working-hours", workingHoursHandler.Update)

			adminAPI.GET("/barbers/:barberId/services", serviceHandler.List)
			adminAPI.POST("/barbers/:barberId/services", serviceHandler.Create)
			adminAPI.PATCH("/barbers/:barberId/services/:serviceId", serviceHandler.Update)

			adminAPI.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
