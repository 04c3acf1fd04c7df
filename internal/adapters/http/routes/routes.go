package routes

import (
	"clubtrack/internal/adapters/http/handlers"
	"clubtrack/internal/adapters/http/middleware"
	"clubtrack/internal/adapters/persistence/repositories"
	"clubtrack/internal/config"
	"clubtrack/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	profileRepo := repositories.NewProfileRepository(db)
	attendanceRepo := repositories.NewAttendanceRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(db)
	attendanceService := services.NewAttendanceService(db)
	paymentService := services.NewPaymentService(db)
	sessionService := services.NewSessionService(db)
	dashboardService := services.NewDashboardService(
		userRepo, profileRepo, attendanceRepo, paymentRepo, sessionRepo,
	)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	membershipHandler := handlers.NewMembershipHandler()
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.Health)

	api := app.Group("/api/v1")

	// Auth routes (stricter rate limit on credential endpoints)
	auth := api.Group("/auth")
	auth.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	auth.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Post("/logout", authHandler.Logout)
	auth.Post("/logout-all", middleware.AuthMiddleware(cfg), authHandler.LogoutAll)
	auth.Get("/me", middleware.AuthMiddleware(cfg), authHandler.Me)

	// Public membership catalog (static data, cacheable)
	memberships := api.Group("/memberships", middleware.CatalogCache())
	memberships.Get("/tiers", membershipHandler.ListTiers)
	memberships.Get("/tiers/:id", membershipHandler.GetTier)
	memberships.Get("/session-pricing", membershipHandler.ListSessionPricing)

	// Everything below needs authentication
	authed := api.Group("", middleware.AuthMiddleware(cfg))

	// Profile self-service
	profile := authed.Group("/profile")
	profile.Get("/", userHandler.GetProfile)
	profile.Put("/", userHandler.UpdateProfile)
	profile.Put("/password", userHandler.ChangePassword)

	// Member management (admin)
	members := authed.Group("/members", middleware.AdminOnly())
	members.Get("/", userHandler.ListMembers)
	members.Post("/", userHandler.CreateMember)
	members.Get("/:id", userHandler.GetMember)
	members.Put("/:id", userHandler.UpdateMember)
	members.Delete("/:id", userHandler.DeleteMember)
	members.Put("/:id/role", userHandler.SetRole)
	members.Get("/:memberId/payments", paymentHandler.ListForMember)

	// Attendance
	attendance := authed.Group("/attendance")
	attendance.Get("/my", attendanceHandler.ListMine)
	attendance.Post("/check-in", middleware.CoachOrAdmin(), attendanceHandler.CheckIn)
	attendance.Post("/:id/check-out", middleware.CoachOrAdmin(), attendanceHandler.CheckOut)
	attendance.Get("/", middleware.CoachOrAdmin(), attendanceHandler.List)
	attendance.Get("/stats", middleware.CoachOrAdmin(), attendanceHandler.Stats)
	attendance.Get("/current/:memberId", middleware.CoachOrAdmin(), attendanceHandler.Current)

	// Payments
	payments := authed.Group("/payments")
	payments.Get("/my", paymentHandler.ListMine)
	payments.Post("/", middleware.AdminOnly(), paymentHandler.Record)
	payments.Get("/", middleware.AdminOnly(), paymentHandler.List)
	payments.Get("/:id", middleware.AdminOnly(), paymentHandler.Get)

	// Sessions
	sessions := authed.Group("/sessions")
	sessions.Get("/", sessionHandler.List)
	sessions.Get("/:id", sessionHandler.Get)
	sessions.Post("/", middleware.CoachOrAdmin(), sessionHandler.Create)
	sessions.Put("/:id", middleware.CoachOrAdmin(), sessionHandler.Update)
	sessions.Delete("/:id", middleware.CoachOrAdmin(), sessionHandler.Delete)
	sessions.Post("/:id/register", sessionHandler.Register)
	sessions.Post("/:id/cancel", sessionHandler.Cancel)

	// Dashboards
	dashboard := authed.Group("/dashboard")
	dashboard.Get("/", dashboardHandler.Get)
	dashboard.Get("/admin", middleware.CoachOrAdmin(), dashboardHandler.Admin)
	dashboard.Get("/member", dashboardHandler.Member)
}
