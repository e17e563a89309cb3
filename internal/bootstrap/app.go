package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"jengahub-backend/internal/account"
	googleauth "jengahub-backend/internal/auth"
	"jengahub-backend/internal/drafts"
	"jengahub-backend/internal/messages"
	"jengahub-backend/internal/notifications"
	"jengahub-backend/internal/otp"
	"jengahub-backend/internal/queue"
	"jengahub-backend/internal/quota"
	"jengahub-backend/internal/rfqs"
	"jengahub-backend/internal/shared/config"
	"jengahub-backend/internal/shared/server"
	"jengahub-backend/internal/shared/storage/db"
	"jengahub-backend/internal/shared/storage/object"
	localstore "jengahub-backend/internal/shared/storage/object/local"
	s3store "jengahub-backend/internal/shared/storage/object/s3"
	"jengahub-backend/internal/users"
	"jengahub-backend/internal/vendors"
)

// App holds shared dependencies for the API and the worker.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Queue  queue.Client

	VendorRepo       vendors.Repo
	RFQRepo          rfqs.Repo
	UserRepo         users.Repo
	DraftRepo        drafts.Repo
	NotificationRepo notifications.Repo
	MessageRepo      messages.Repo

	VendorService       *vendors.Service
	RFQService          *rfqs.Service
	QuotaService        *quota.Service
	OTPService          *otp.Service
	UserService         *users.Service
	DraftService        *drafts.Service
	NotificationService *notifications.Service
	MessageService      *messages.Service
	AccountService      *account.Service
	Matcher             *rfqs.AutoMatcher

	VendorHandler       *vendors.Handler
	RFQHandler          *rfqs.Handler
	QuotaHandler        *quota.Handler
	OTPHandler          *otp.Handler
	UserHandler         *users.Handler
	DraftHandler        *drafts.Handler
	NotificationHandler *notifications.Handler
	MessageHandler      *messages.Handler
	AccountHandler      *account.Handler
	GoogleAuth          *googleauth.GoogleService
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
	}

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:              app.Config,
		AccountHandler:      app.AccountHandler,
		VendorHandler:       app.VendorHandler,
		RFQHandler:          app.RFQHandler,
		QuotaHandler:        app.QuotaHandler,
		OTPHandler:          app.OTPHandler,
		UserHandler:         app.UserHandler,
		DraftHandler:        app.DraftHandler,
		NotificationHandler: app.NotificationHandler,
		MessageHandler:      app.MessageHandler,
		GoogleAuth:          app.GoogleAuth,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		opts := db.OptionsFromEnv(db.DefaultLambdaOptions())
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, opts)
	} else {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if strings.TrimSpace(cfg.SQSQueueURL) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) {
	if app.DB != nil {
		app.VendorRepo = &vendors.PGRepo{DB: app.DB}
		app.RFQRepo = &rfqs.PGRepo{DB: app.DB}
		app.UserRepo = &users.PGRepo{DB: app.DB}
		app.DraftRepo = &drafts.PGRepo{DB: app.DB}
		app.NotificationRepo = &notifications.PGRepo{DB: app.DB}
		app.MessageRepo = &messages.PGRepo{DB: app.DB}
		app.QuotaService = quota.NewPostgresService(quota.NewPGStore(app.DB))
		app.OTPService = otp.NewPostgresService(otp.NewPGStore(app.DB), otpSender())
	} else {
		app.VendorRepo = vendors.NewMemoryRepo()
		app.RFQRepo = rfqs.NewMemoryRepo()
		app.UserRepo = users.NewMemoryRepo()
		app.DraftRepo = drafts.NewMemoryRepo()
		app.NotificationRepo = notifications.NewMemoryRepo()
		app.MessageRepo = messages.NewMemoryRepo()
		app.QuotaService = quota.NewService()
		app.OTPService = otp.NewService(otpSender())
	}

	app.VendorService = &vendors.Service{Repo: app.VendorRepo}
	app.UserService = users.NewService(app.UserRepo)
	app.DraftService = drafts.NewService(app.DraftRepo)
	app.NotificationService = notifications.NewService(app.NotificationRepo, app.Config.AdminUserIDs)

	app.Matcher = &rfqs.AutoMatcher{
		Repo:     app.RFQRepo,
		Vendors:  app.VendorService,
		Notifier: app.NotificationService,
	}
	app.RFQService = &rfqs.Service{
		Repo:     app.RFQRepo,
		Vendors:  app.VendorService,
		Quota:    app.QuotaService,
		Notifier: app.NotificationService,
		Matcher:  app.Matcher,
		Queue:    app.Queue,
	}
	app.MessageService = &messages.Service{
		Repo:     app.MessageRepo,
		RFQs:     app.RFQRepo,
		Vendors:  app.VendorService,
		Store:    app.Store,
		Notifier: app.NotificationService,
	}
	app.AccountService = account.NewService(app.RFQRepo, app.NotificationRepo)

	app.GoogleAuth = googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
	)

	app.VendorHandler = vendors.NewHandler(app.VendorService)
	app.RFQHandler = rfqs.NewHandler(app.RFQService)
	app.QuotaHandler = quota.NewHandler(app.QuotaService)
	app.OTPHandler = otp.NewHandler(app.OTPService)
	app.UserHandler = users.NewHandler(app.UserService)
	app.DraftHandler = drafts.NewHandler(app.DraftService)
	app.NotificationHandler = notifications.NewHandler(app.NotificationService)
	app.MessageHandler = messages.NewHandler(app.MessageService)
	app.AccountHandler = account.NewHandler(app.AccountService)
}

// otpSender picks the SMS transport. Only the telemetry-backed sender ships
// today; a gateway integration slots in here.
func otpSender() otp.SMSSender {
	return otp.LogSender{}
}
