// Package app wires configuration, the SQL store, the adapters and the
// services into one container shared by the commands.
package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"gdocs/internal/config"
	"gdocs/internal/email/noop"
	"gdocs/internal/email/ses"
	"gdocs/internal/logger"
	"gdocs/internal/port"
	"gdocs/internal/repository/sqlstore"
	"gdocs/internal/service"
	s3storage "gdocs/internal/storage/s3"
)

// Repositories groups the SQL gateway implementations.
type Repositories struct {
	Users                port.UserRepository
	Documents            port.DocumentRepository
	Categories           port.CategoryRepository
	Notifications        port.NotificationRepository
	NotificationSettings port.NotificationSettingsRepository
	Logs                 port.LogRepository
	Stats                port.StatsRepository
}

// Services groups the service layer.
type Services struct {
	Audit         service.AuditService
	Notifications service.NotificationService
	Auth          service.AuthService
	Users         service.UserService
	Documents     service.DocumentService
	Categories    service.CategoryService
	Stats         service.StatsService
}

// App is the wired application.
type App struct {
	Config   *config.Config
	Log      *logger.Logger
	DB       *sqlx.DB
	Repos    Repositories
	Services Services
	Limits   service.UploadLimits
}

// New opens the database and builds every repository and service.
func New(cfg *config.Config, log *logger.Logger) (*App, error) {
	db, err := sqlstore.NewDB(&cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	a, err := build(cfg, log, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return a, nil
}

func build(cfg *config.Config, log *logger.Logger, db *sqlx.DB) (*App, error) {
	repos := Repositories{
		Users:                sqlstore.NewUserRepo(db),
		Documents:            sqlstore.NewDocumentRepo(db),
		Categories:           sqlstore.NewCategoryRepo(db),
		Notifications:        sqlstore.NewNotificationRepo(db),
		NotificationSettings: sqlstore.NewNotificationSettingsRepo(db),
		Logs:                 sqlstore.NewLogRepo(db),
		Stats:                sqlstore.NewStatsRepo(db),
	}

	storage, err := newStorage(cfg, log)
	if err != nil {
		return nil, err
	}
	email, err := newEmailSender(cfg, log)
	if err != nil {
		return nil, err
	}

	limits := service.UploadLimits{Form: cfg.Upload.FormMaxBytes, Bulk: cfg.Upload.BulkMaxBytes}

	audit := service.NewAuditService(repos.Logs, log.WithField("service", "audit"))
	feed := service.NewNotificationService(repos.Notifications, repos.NotificationSettings, repos.Users, email, audit, log.WithField("service", "notification"))

	svcs := Services{
		Audit:         audit,
		Notifications: feed,
		Auth:          service.NewAuthService(repos.Users, audit, feed, cfg.JWT, log.WithField("service", "auth")),
		Users:         service.NewUserService(repos.Users, audit, feed, log.WithField("service", "user"), cfg.Auth.AllowRegistration),
		Documents:     service.NewDocumentService(repos.Documents, repos.Categories, storage, limits, audit, feed, log.WithField("service", "document")),
		Categories:    service.NewCategoryService(repos.Categories, audit, feed, log.WithField("service", "category")),
		Stats:         service.NewStatsService(repos.Stats, audit, log.WithField("service", "stats")),
	}

	return &App{
		Config:   cfg,
		Log:      log,
		DB:       db,
		Repos:    repos,
		Services: svcs,
		Limits:   limits,
	}, nil
}

// newStorage returns nil when S3 is disabled, which turns the upload
// endpoints off.
func newStorage(cfg *config.Config, log *logger.Logger) (port.ObjectStorage, error) {
	if !cfg.S3.Enabled {
		log.Warn().Msg("S3 disabled; file uploads will be rejected")
		return nil, nil
	}
	client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
	}
	return client, nil
}

func newEmailSender(cfg *config.Config, log *logger.Logger) (port.EmailSender, error) {
	switch cfg.Email.Provider {
	case "ses":
		sender, err := ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SES sender: %w", err)
		}
		return sender, nil
	case "", "noop":
		return noop.NewNoopSender(log.WithField("component", "email")), nil
	default:
		return nil, fmt.Errorf("unsupported email provider %q", cfg.Email.Provider)
	}
}

// Close releases the database connection.
func (a *App) Close() error {
	return a.DB.Close()
}
