// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	router "auction-listings/internal/api"
	"auction-listings/internal/api/handler"
	"auction-listings/internal/config"
	"auction-listings/internal/repository"
	"auction-listings/internal/repository/postgres"
	"auction-listings/internal/service"
	"auction-listings/internal/util"
	"auction-listings/pkg/auth"
	"auction-listings/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB

	// Repositories
	UserRepository     repository.UserRepository
	ListingRepository  repository.ListingRepository
	BidRepository      repository.BidRepository
	CommentRepository  repository.CommentRepository
	CategoryRepository repository.CategoryRepository
	WatchRepository    repository.WatchRepository

	// Services
	AuctionService service.AuctionService
	AccountService service.AccountService
	JWTManager     *auth.JWTManager

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// InitializeDatabase loads configuration, sets up logging and connects to the database.
// It is all the migrate command needs.
func (app *Application) InitializeDatabase(ctx context.Context) error {
	// 1. Load Configuration
	config.LoadDotEnv()
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger(cfg.LogLevel)
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.", "timezone", cfg.Location.String())

	// 3. Connect to Database
	database, err := db.NewPostgresDB(ctx, app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.", "host", cfg.DB.Host, "dbname", cfg.DB.DBName)
	return nil
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	if err := app.InitializeDatabase(ctx); err != nil {
		return err
	}

	// 4. Initialize Repositories
	app.UserRepository = postgres.NewUserRepository()
	app.ListingRepository = postgres.NewListingRepository()
	app.BidRepository = postgres.NewBidRepository()
	app.CommentRepository = postgres.NewCommentRepository()
	app.CategoryRepository = postgres.NewCategoryRepository()
	app.WatchRepository = postgres.NewWatchRepository()
	app.Logger.Info("Repositories initialized.")

	// 5. Initialize Services
	// Pass the concrete db.BeginTx, db.CommitTx, db.RollbackTx functions from pkg/db
	app.JWTManager = auth.NewJWTManager(app.Config.JWTSecret, app.Config.TokenTTL)
	app.AuctionService = service.NewAuctionService(
		app.DB, // This is the DBTxBeginner
		app.DB, // This is the DBExecutor
		app.ListingRepository,
		app.BidRepository,
		app.CommentRepository,
		app.CategoryRepository,
		app.WatchRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
		app.Config.Location,
	)
	app.AccountService = service.NewAccountService(app.DB, app.UserRepository, app.JWTManager)
	app.Logger.Info("Services initialized.")

	// 6. Initialize HTTP Handlers and Router
	app.HTTPHandler = router.NewRouter(
		handler.NewListingHandler(app.AuctionService, app.Logger),
		handler.NewAuthHandler(app.AccountService, app.Logger),
		handler.NewAuthenticator(app.JWTManager, app.Logger),
		app.Logger,
	)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
