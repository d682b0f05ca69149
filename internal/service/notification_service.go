package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gdocs/internal/domain"
	"gdocs/internal/logger"
	"gdocs/internal/metrics"
	"gdocs/internal/port"
)

// NotificationService defines the notification feed contract.
type NotificationService interface {
	// Notify appends a feed entry unless the session's settings disable the
	// type, in which case it returns (nil, nil). An empty target is a
	// broadcast.
	Notify(ctx context.Context, sess *domain.Session, t domain.NotificationType, title, message, target string) (*domain.Notification, error)
	List(ctx context.Context, sess *domain.Session) ([]domain.Notification, error)
	MarkRead(ctx context.Context, sess *domain.Session, id string) error
	ClearAll(ctx context.Context, sess *domain.Session) error
	SettingsFor(ctx context.Context, userID string) (domain.NotificationSettings, error)
	UpdateSettings(ctx context.Context, sess *domain.Session, input UpdateSettingsInput) (*domain.NotificationSettings, error)
}

// UpdateSettingsInput is the DTO for saving feed toggles.
type UpdateSettingsInput struct {
	Documents     bool `json:"documents"`
	UserActivity  bool `json:"user_activity"`
	SystemUpdates bool `json:"system_updates"`
}

type notificationService struct {
	repo     port.NotificationRepository
	settings port.NotificationSettingsRepository
	userRepo port.UserRepository
	email    port.EmailSender
	log      *logger.Logger
	fx       *effects
}

// NewNotificationService creates a new NotificationService implementation.
// email may be nil, in which case targeted notifications are not mirrored.
func NewNotificationService(
	repo port.NotificationRepository,
	settings port.NotificationSettingsRepository,
	userRepo port.UserRepository,
	email port.EmailSender,
	audit AuditService,
	log *logger.Logger,
) NotificationService {
	if log == nil {
		log = logger.Nop()
	}
	return &notificationService{
		repo:     repo,
		settings: settings,
		userRepo: userRepo,
		email:    email,
		log:      log,
		fx:       newEffects(audit, nil, log),
	}
}

func (s *notificationService) Notify(ctx context.Context, sess *domain.Session, t domain.NotificationType, title, message, target string) (*domain.Notification, error) {
	settings := domain.DefaultNotificationSettings(sess.ActorID())
	if sess != nil {
		settings = sess.Settings
	}
	if !settings.Allows(t) {
		return nil, nil
	}

	n := &domain.Notification{
		ID:        uuid.NewString(),
		Type:      t,
		Title:     title,
		Message:   message,
		Timestamp: time.Now().UTC(),
		UserID:    target,
		CreatedBy: sess.ActorID(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("notification.Notify: %w", err)
	}

	if target != "" {
		s.mirror(ctx, target, title, message)
	}
	return n, nil
}

// mirror emails a targeted notification. Failures are logged only.
func (s *notificationService) mirror(ctx context.Context, target, title, message string) {
	if s.email == nil {
		return
	}
	user, err := s.userRepo.GetByID(ctx, target)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", target).Msg("notification email skipped: recipient lookup failed")
		return
	}
	if user.Email == "" {
		return
	}
	if err := s.email.SendNotification(ctx, user.Email, user.Username, title, message); err != nil {
		metrics.SideEffectFailuresTotal.WithLabelValues("email").Inc()
		s.log.Warn().Err(err).Str("user_id", target).Msg("failed to send notification email")
	}
}

func (s *notificationService) List(ctx context.Context, sess *domain.Session) ([]domain.Notification, error) {
	if err := authenticated(sess); err != nil {
		return nil, err
	}
	scope := sess.User.ID
	if sess.User.IsAdmin() {
		scope = ""
	}
	items, err := s.repo.List(ctx, scope)
	if err != nil {
		return nil, s.fx.gatewayFailure(ctx, sess, "notification", "list", "list_notifications", err)
	}
	return items, nil
}

// MarkRead is idempotent. A notification outside the actor's scope is
// reported as not found.
func (s *notificationService) MarkRead(ctx context.Context, sess *domain.Session, id string) error {
	if err := authenticated(sess); err != nil {
		return err
	}
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return s.fx.gatewayFailure(ctx, sess, "notification", "mark", "mark_notification_read", err)
	}
	if !sess.User.IsAdmin() && n.UserID != sess.User.ID {
		return domain.ErrNotFound
	}
	if n.Read {
		return nil
	}
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return s.fx.gatewayFailure(ctx, sess, "notification", "mark", "mark_notification_read", err)
	}
	return nil
}

func (s *notificationService) ClearAll(ctx context.Context, sess *domain.Session) error {
	if err := authenticated(sess); err != nil {
		return err
	}
	var err error
	if sess.User.IsAdmin() {
		err = s.repo.DeleteAll(ctx)
	} else {
		err = s.repo.DeleteForUser(ctx, sess.User.ID)
	}
	if err != nil {
		return s.fx.gatewayFailure(ctx, sess, "notifications", "clear", "clear_notifications", err)
	}
	s.fx.succeed(ctx, sess, "notifications", "clear", nil, audited{
		Action:  "clear_notifications",
		Message: "Notifications cleared",
	})
	return nil
}

// SettingsFor returns the stored toggles, or every type enabled when the
// user never saved any.
func (s *notificationService) SettingsFor(ctx context.Context, userID string) (domain.NotificationSettings, error) {
	stored, err := s.settings.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.DefaultNotificationSettings(userID), nil
	}
	if err != nil {
		return domain.NotificationSettings{}, fmt.Errorf("notification.SettingsFor: %w", err)
	}
	return *stored, nil
}

func (s *notificationService) UpdateSettings(ctx context.Context, sess *domain.Session, input UpdateSettingsInput) (*domain.NotificationSettings, error) {
	if err := authenticated(sess); err != nil {
		return nil, err
	}
	settings := &domain.NotificationSettings{
		UserID:        sess.User.ID,
		Documents:     input.Documents,
		UserActivity:  input.UserActivity,
		SystemUpdates: input.SystemUpdates,
	}
	if err := s.settings.Upsert(ctx, settings); err != nil {
		return nil, s.fx.gatewayFailure(ctx, sess, "notification settings", "update", "update_notification_settings", err)
	}
	sess.Settings = *settings
	s.fx.succeed(ctx, sess, "notification settings", "update", nil, audited{
		Action:  "update_notification_settings",
		Message: "Notification settings updated",
	})
	return settings, nil
}
