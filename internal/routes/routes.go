package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/arminshz/TutorAppBack/internal/config"
	"github.com/arminshz/TutorAppBack/internal/handlers"
	"github.com/arminshz/TutorAppBack/internal/middleware"
	"github.com/arminshz/TutorAppBack/internal/repository"
	"github.com/arminshz/TutorAppBack/internal/services"
)

// RegisterRoutes wires repositories, services and handlers onto the app and
// returns the sweeper so main can control its lifecycle.
func RegisterRoutes(
	app *fiber.App,
	cfg *config.Config,
	db *pgxpool.Pool,
	logger *zap.Logger,
) *services.Sweeper {
	userRepo := repository.NewUserRepository(db)
	teacherProfileRepo := repository.NewTeacherProfileRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	seatRepo := repository.NewSeatRepository(db)
	invitationRepo := repository.NewGroupInvitationRepository(db)
	earningsRepo := repository.NewTeacherEarningsRepository(db)

	notifier := services.NewLogNotificationSink(logger)
	meetings := &services.StaticMeetingProvisioner{BaseURL: cfg.MeetingBaseURL}
	gateway := services.NewAcceptAllPaymentGateway(logger)
	invoices := services.NewLogInvoiceIssuer(logger)

	walletService := services.NewWalletService(db, logger)
	lessonService := services.NewLessonService(
		db,
		lessonRepo,
		seatRepo,
		invitationRepo,
		userRepo,
		teacherProfileRepo,
		walletService,
		notifier,
		meetings,
		gateway,
		invoices,
		logger,
		cfg.BufferMinutes,
	)
	groupService := services.NewGroupService(
		db,
		lessonService,
		lessonRepo,
		seatRepo,
		invitationRepo,
		teacherProfileRepo,
		walletService,
		notifier,
		gateway,
		logger,
		cfg.BufferMinutes,
	)
	sweeper := services.NewSweeper(
		lessonService,
		groupService,
		lessonRepo,
		logger,
		cfg.SweepInterval,
		cfg.ConfirmWindow,
		cfg.SweepBatchSize,
	)

	authHandler := handlers.NewAuthHandler(db, userRepo, teacherProfileRepo, cfg.JWTSecret)
	lessonHandler := handlers.NewLessonHandler(lessonService)
	groupHandler := handlers.NewGroupHandler(groupService)
	walletHandler := handlers.NewWalletHandler(walletService)
	teacherHandler := handlers.NewTeacherHandler(teacherProfileRepo, earningsRepo)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	authProtected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	teachers := authProtected.Group("/teachers")
	teachers.Put("/rate", teacherHandler.UpdateRate)
	teachers.Get("/earnings", teacherHandler.GetEarnings)
	teachers.Get("/:id", teacherHandler.GetProfile)

	lessons := authProtected.Group("/lessons")
	lessons.Post("/book", lessonHandler.Book)
	lessons.Get("", lessonHandler.List)
	lessons.Get("/:id", lessonHandler.Get)
	lessons.Put("/:id/status", lessonHandler.UpdateStatus)

	groups := authProtected.Group("/groups")
	groups.Post("", groupHandler.Create)
	groups.Post("/join", groupHandler.Join)
	groups.Get("/open", groupHandler.ListOpen)
	groups.Post("/:id/join", groupHandler.JoinFromListing)
	groups.Post("/:id/resolve", groupHandler.ResolveDeadline)
	groups.Post("/:id/cancel-seat", groupHandler.CancelSeat)

	wallet := authProtected.Group("/wallet")
	wallet.Get("", walletHandler.Get)
	wallet.Get("/entries", walletHandler.ListEntries)
	wallet.Post("/top-up", walletHandler.TopUp)
	wallet.Get("/verify", walletHandler.Verify)

	return sweeper
}
