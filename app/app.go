package app

import (
	"context"
	"errors"
	"sync"

	"rental-admin/config"
	"rental-admin/controllers"
	"rental-admin/libs"
	"rental-admin/middleware"
	"rental-admin/models"
	"rental-admin/pkg/logger"
	"rental-admin/realtime"
	"rental-admin/repositories"
	"rental-admin/routes"
	"rental-admin/services"
	"rental-admin/utils"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const hubBuffer = 32

// App owns every long-lived client and the HTTP router built on them.
type App struct {
	Config *config.Config
	Log    logger.ILogger
	Pool   *pgxpool.Pool
	Redis  *redis.Client
	Hub    *realtime.Hub
	Router *gin.Engine
	Auth   *services.AuthService

	listener *realtime.Listener
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func New(ctx context.Context, cfg *config.Config, log logger.ILogger) (*App, error) {
	pool, err := config.NewPool(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config: cfg,
		Log:    log,
		Pool:   pool,
		Redis:  libs.NewRedis(ctx, cfg, log),
		Hub:    realtime.NewHub(hubBuffer, log),
	}
	a.listener = realtime.NewListener(pool, a.Hub, log)
	a.Router = a.buildRouter()
	return a, nil
}

func (a *App) buildRouter() *gin.Engine {
	cfg, log := a.Config, a.Log

	users := repositories.NewTable[models.User](a.Pool, repositories.UserSchema)
	verifications := repositories.NewTable[models.Verification](a.Pool, repositories.VerificationSchema)
	rentals := repositories.NewTable[models.RentalRequest](a.Pool, repositories.RentalRequestSchema)
	history := repositories.NewTable[models.History](a.Pool, repositories.HistorySchema)
	deals := repositories.NewTable[models.Deal](a.Pool, repositories.DealSchema)

	provider := repositories.NewProvider(
		repositories.Erase(users),
		repositories.Erase(verifications),
		repositories.Erase(rentals),
		repositories.Erase(history),
		repositories.Erase(deals),
	)

	a.Auth = services.NewAuthService(
		repositories.NewAccountRepository(a.Pool),
		users,
		utils.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry),
		a.sessionStore(),
		a.mailer(),
		services.AuthOptions{Providers: cfg.OAuthProviders, AppURL: cfg.AppURL},
		log,
	)

	verificationService := services.NewVerificationService(verifications, users, log)
	userService := services.NewUserService(users, a.uploader(), cfg.AllowUnverify, log)

	deps := services.DashboardDeps{
		Users:    users,
		Rentals:  rentals,
		History:  history,
		Approved: repositories.NewActivityRepository(a.Pool),
		People:   users,
		Deals:    deals,
		CacheTTL: cfg.ActivityCacheTTL,
	}
	if a.Redis != nil {
		deps.Cache = libs.NewRedisCache(a.Redis, "dashboard:")
	}
	dashboardService := services.NewDashboardService(deps, log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORSMiddleware(cfg.OriginURL))

	routes.SetupRoutes(router, routes.Controllers{
		Auth:          controllers.NewAuthController(a.Auth, log),
		Users:         controllers.NewUserController(userService, log),
		Verifications: controllers.NewVerificationController(verificationService, log),
		Dashboard:     controllers.NewDashboardController(dashboardService, log),
		Resources:     controllers.NewResourceController(provider, log),
		Realtime:      controllers.NewRealtimeController(a.Hub, realtime.NewUpgrader(middleware.AllowedOrigins(cfg.OriginURL)...), verificationService, userService, log),
	}, a.Auth)

	return router
}

// The optional integrations below return untyped nil when unavailable so
// the services see a nil interface.

func (a *App) sessionStore() services.SessionStore {
	if a.Redis == nil {
		return nil
	}
	return libs.NewSessionStore(a.Redis)
}

func (a *App) mailer() services.Mailer {
	m, err := libs.NewEmailService(a.Config)
	if err != nil {
		a.Log.Warning("password reset e-mails disabled", logger.Error(err))
		return nil
	}
	return m
}

func (a *App) uploader() services.ImageUploader {
	u, err := libs.NewCloudinaryService(a.Config)
	if err != nil {
		if !errors.Is(err, libs.ErrCloudinaryNotConfigured) {
			a.Log.Error("cloudinary init failed", logger.Error(err))
		}
		a.Log.Warning("avatar uploads disabled")
		return nil
	}
	return u
}

// StartRealtime runs the change listener until Close.
func (a *App) StartRealtime(ctx context.Context) {
	ctx, a.cancel = context.WithCancel(ctx)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.listener.Run(ctx)
	}()
}

// Close stops the listener, releases subscribers and closes the clients.
func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	a.wg.Wait()
	a.Hub.Close()
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Log.Warning("redis close failed", logger.Error(err))
		}
	}
	a.Pool.Close()
}
