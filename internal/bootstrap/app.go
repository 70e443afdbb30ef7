package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "callportal-backend/internal/auth"
	"callportal-backend/internal/candidates"
	"callportal-backend/internal/companies"
	"callportal-backend/internal/convert"
	"callportal-backend/internal/importer"
	"callportal-backend/internal/patterns"
	"callportal-backend/internal/shared/config"
	"callportal-backend/internal/shared/server"
	"callportal-backend/internal/shared/storage/db"
	"callportal-backend/internal/shared/storage/object"
	localstore "callportal-backend/internal/shared/storage/object/local"
	s3store "callportal-backend/internal/shared/storage/object/s3"
	"callportal-backend/internal/staff"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	CandidatesRepo  candidates.Repo
	CompaniesRepo   companies.Repo
	PatternsRepo    patterns.Repo
	CallResultsRepo patterns.CallResultsRepo
	StaffRepo       staff.Repo

	CandidatesService *candidates.Service
	CompaniesService  *companies.Service
	PatternsService   *patterns.Service
	ImportService     *importer.Service
	StaffService      *staff.Service

	CandidatesHandler *candidates.Handler
	CompaniesHandler  *companies.Handler
	PatternsHandler   *patterns.Handler
	ImportHandler     *importer.Handler
	ConvertHandler    *convert.Handler
	StaffHandler      *staff.Handler
	GoogleAuth        *googleauth.GoogleService
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

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            app.Config,
		CandidatesHandler: app.CandidatesHandler,
		CompaniesHandler:  app.CompaniesHandler,
		PatternsHandler:   app.PatternsHandler,
		ImportHandler:     app.ImportHandler,
		ConvertHandler:    app.ConvertHandler,
		StaffHandler:      app.StaffHandler,
		GoogleAuth:        app.GoogleAuth,
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

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
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

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) error {
	var candidateRepo candidates.Repo
	var companyRepo companies.Repo
	var patternRepo patterns.Repo
	var callResultRepo patterns.CallResultsRepo
	var staffRepo staff.Repo

	if app.DB != nil {
		candidateRepo = &candidates.PGRepo{DB: app.DB}
		companyRepo = &companies.PGRepo{DB: app.DB}
		patternRepo = &patterns.PGRepo{DB: app.DB}
		callResultRepo = &patterns.PGCallResultsRepo{DB: app.DB}
		staffRepo = &staff.PGRepo{DB: app.DB}
	} else {
		candidateRepo = candidates.NewMemoryRepo()
		companyRepo = companies.NewMemoryRepo()
		patternRepo = patterns.NewMemoryRepo()
		callResultRepo = patterns.NewMemoryCallResultsRepo()
		staffRepo = staff.NewMemoryRepo()
	}

	patternSvc := patterns.NewService(patternRepo, callResultRepo)
	candidateSvc := candidates.NewService(candidateRepo, patternSvc)
	companySvc := companies.NewService(companyRepo)
	staffSvc := staff.NewService(staffRepo)
	importSvc := &importer.Service{
		Candidates: candidateRepo,
		Companies:  companyRepo,
		Patterns:   patternSvc,
		Store:      app.Store,
	}

	googleAuthSvc := googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		staffSvc,
	)

	app.CandidatesRepo = candidateRepo
	app.CompaniesRepo = companyRepo
	app.PatternsRepo = patternRepo
	app.CallResultsRepo = callResultRepo
	app.StaffRepo = staffRepo
	app.CandidatesService = candidateSvc
	app.CompaniesService = companySvc
	app.PatternsService = patternSvc
	app.ImportService = importSvc
	app.StaffService = staffSvc
	app.CandidatesHandler = candidates.NewHandler(candidateSvc, staffSvc)
	app.CompaniesHandler = companies.NewHandler(companySvc, candidateSvc)
	app.PatternsHandler = patterns.NewHandler(patternSvc)
	app.ImportHandler = importer.NewHandler(importSvc, companySvc, candidateSvc)
	app.ConvertHandler = convert.NewHandler()
	app.StaffHandler = staff.NewHandler(staffSvc)
	app.GoogleAuth = googleAuthSvc

	if app.CandidatesHandler == nil || app.CompaniesHandler == nil || app.ImportHandler == nil {
		return errors.New("failed to initialize handlers")
	}

	return nil
}
