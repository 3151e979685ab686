package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	natsio "github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/costaverde/reservation-gateway/internal/api/handler"
	"github.com/costaverde/reservation-gateway/internal/api/middleware"
	"github.com/costaverde/reservation-gateway/internal/core/domain"
	"github.com/costaverde/reservation-gateway/internal/core/service"
	"github.com/costaverde/reservation-gateway/internal/infrastructure/config"
	mongostore "github.com/costaverde/reservation-gateway/internal/infrastructure/db/mongo"
	redisstore "github.com/costaverde/reservation-gateway/internal/infrastructure/db/redis"
	natsinfra "github.com/costaverde/reservation-gateway/internal/infrastructure/nats"
	"github.com/costaverde/reservation-gateway/internal/realtime"
)

// NewRouter builds the Echo instance with every route registered behind its
// declared role requirement.
func NewRouter(db *mongo.Database, rdb *redis.Client, nc *natsio.Conn, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddleware("gateway"))

	// --- Dependencies ---
	userRepo := mongostore.NewUserRepository(db)
	codec := service.NewTokenCodec(cfg.JWTSecret, cfg.JWTTTL)
	revocations := redisstore.NewRevocationList(rdb)
	authService := service.NewAuthService(userRepo, codec, revocations)

	registry := realtime.NewRegistry()
	notifier := realtime.NewNotifier(registry, log)
	dispatcher := natsinfra.NewDispatcher(nc, natsinfra.Config{
		SubjectPrefix:  cfg.NATS.SubjectPrefix,
		RequestTimeout: cfg.NATS.RequestTimeout,
	}, log)
	userService := service.NewUserService(userRepo, dispatcher, notifier, log)

	// --- Guards ---
	identity := middleware.NewIdentityGuard(codec, revocations, log)
	roles := middleware.NewRoleGuard(log)
	access := middleware.NewAccessGuard(identity, roles)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	departmentHandler := handler.NewDepartmentHandler(dispatcher)
	reservationHandler := handler.NewReservationHandler(dispatcher)
	parcelHandler := handler.NewParcelHandler(dispatcher)
	checkinHandler := handler.NewCheckinHandler(dispatcher)
	realtimeGateway := realtime.NewGateway(codec, registry, log)

	apiGroup := e.Group("/api")

	// --- Users ---
	users := apiGroup.Group("/usuarios")
	users.POST("/register", authHandler.Register)
	users.POST("/login", authHandler.Login)
	users.POST("/logout", authHandler.Logout, access.Require())
	users.POST("/check-token", authHandler.CheckToken, access.Require())
	users.GET("/all", userHandler.GetAll, access.Require(domain.RoleClient))
	users.GET("", userHandler.List, access.Require(domain.RoleClient))
	users.GET("/token/:id", userHandler.GetByToken, access.Require(domain.RoleAdmin))
	users.GET("/:id", userHandler.Get, access.Require(domain.RoleAdmin))
	users.PATCH("/:id", userHandler.Update, access.Require(domain.RoleAdmin))
	users.DELETE("/:id", userHandler.Delete, access.Require(domain.RoleAdmin))
	users.POST("/:id/notificar", userHandler.Notify, access.Require(domain.RoleAdmin))

	// --- Departments ---
	departments := apiGroup.Group("/departamento")
	departments.GET("", departmentHandler.List, access.Require(domain.RoleClient))
	departments.GET("/:id_depto", departmentHandler.Get, access.Require(domain.RoleAdmin))
	departments.POST("", departmentHandler.Create, access.Require(domain.RoleAdmin))
	departments.PATCH("/:id_depto", departmentHandler.Update, access.Require(domain.RoleAdmin))
	departments.DELETE("/:id_depto", departmentHandler.Delete, access.Require(domain.RoleAdmin))

	// --- Department reservations ---
	reservations := apiGroup.Group("/reservas")
	reservations.POST("/pendientes", reservationHandler.Pending, access.Require(domain.RoleAdmin))
	reservations.POST("/salida/:id_reserva_depto", reservationHandler.CheckOut, access.Require(domain.RoleAdmin))
	reservations.POST("/:id_depto", reservationHandler.Create, access.Require(domain.RoleAdmin))
	reservations.GET("", reservationHandler.List, access.Require(domain.RoleAdmin))

	// --- Parcels ---
	parcels := apiGroup.Group("/parcelas")
	parcels.POST("", parcelHandler.Create, access.Require(domain.RoleAdmin))
	parcels.GET("", parcelHandler.List, access.Require(domain.RoleAdmin))
	parcels.GET("/:id_parcela", parcelHandler.Get, access.Require(domain.RoleAdmin))
	parcels.PATCH("/:id_parcela", parcelHandler.Update, access.Require(domain.RoleAdmin))
	parcels.DELETE("/:id_parcela", parcelHandler.Delete, access.Require(domain.RoleAdmin))

	// --- Parcel check-in/out registry ---
	checkins := apiGroup.Group("/registro-parcelas")
	checkins.POST("/ingreso/:id_parcela", checkinHandler.CheckIn, access.Require(domain.RoleClient))
	checkins.POST("/salida/:codigo_unico", checkinHandler.CheckOut, access.Require(domain.RoleAdmin))
	checkins.GET("", checkinHandler.List, access.Require(domain.RoleClient))
	checkins.DELETE("/:codigo_unico", checkinHandler.Delete, access.Require(domain.RoleAdmin))

	// --- Realtime channel (token verified during the handshake) ---
	e.GET("/ws", realtimeGateway.Handle)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb, nc)

	e.GET("/health", healthHandler.Liveness)            // is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
