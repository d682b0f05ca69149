package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"gdocs/internal/csvexport"
	"gdocs/internal/domain"
	"gdocs/internal/logger"
	"gdocs/internal/port"
)

// AuditService defines the append-only audit log contract.
type AuditService interface {
	// Record appends an entry. It performs no permission check and is the
	// sink for every orchestrated mutation.
	Record(ctx context.Context, severity domain.LogSeverity, action, message, actorID, details string) (*domain.LogEntry, error)
	List(ctx context.Context, sess *domain.Session) ([]domain.LogEntry, error)
	Export(ctx context.Context, sess *domain.Session, w io.Writer) error
	Clear(ctx context.Context, sess *domain.Session) error
	Delete(ctx context.Context, sess *domain.Session, id string) error
}

type auditService struct {
	repo port.LogRepository
	log  *logger.Logger
	fx   *effects
}

// NewAuditService creates a new AuditService implementation.
func NewAuditService(repo port.LogRepository, log *logger.Logger) AuditService {
	if log == nil {
		log = logger.Nop()
	}
	s := &auditService{repo: repo, log: log}
	s.fx = newEffects(s, nil, log)
	return s
}

func (s *auditService) Record(ctx context.Context, severity domain.LogSeverity, action, message, actorID, details string) (*domain.LogEntry, error) {
	entry := &domain.LogEntry{
		ID:        uuid.NewString(),
		Type:      severity,
		Action:    action,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
		UserID:    actorID,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("audit.Record: %w", err)
	}
	s.log.Debug().Str("severity", string(severity)).Str("action", action).Str("actor", actorID).Msg(message)
	return entry, nil
}

func (s *auditService) List(ctx context.Context, sess *domain.Session) ([]domain.LogEntry, error) {
	if err := s.fx.authorize(sess, domain.ResourceLogs, domain.ActionView, "log", "list"); err != nil {
		return nil, err
	}
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.fx.gatewayFailure(ctx, sess, "log", "list", "list_logs", err)
	}
	return entries, nil
}

func (s *auditService) Export(ctx context.Context, sess *domain.Session, w io.Writer) error {
	entries, err := s.List(ctx, sess)
	if err != nil {
		return err
	}
	if err := csvexport.Export(w, entries); err != nil {
		return fmt.Errorf("audit.Export: %w", err)
	}
	return nil
}

// Clear uses the unmodeled logs.delete pair, so only admins pass.
func (s *auditService) Clear(ctx context.Context, sess *domain.Session) error {
	if err := s.fx.authorize(sess, domain.ResourceLogs, domain.ActionDelete, "log", "clear"); err != nil {
		return err
	}
	if err := s.repo.Clear(ctx); err != nil {
		return s.fx.gatewayFailure(ctx, sess, "log", "clear", "clear_logs", err)
	}
	s.fx.succeed(ctx, sess, "log", "clear", nil, audited{
		Action:  "clear_logs",
		Message: "Logs cleared",
	})
	return nil
}

func (s *auditService) Delete(ctx context.Context, sess *domain.Session, id string) error {
	if err := s.fx.authorize(sess, domain.ResourceLogs, domain.ActionDelete, "log", "delete"); err != nil {
		return err
	}
	if id == "" {
		return s.fx.invalid("log", "delete", domain.NewValidationError("id", "is required"))
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.fx.gatewayFailure(ctx, sess, "log", "delete", "delete_log", err)
	}
	s.fx.succeed(ctx, sess, "log", "delete", nil, audited{
		Action:  "delete_log",
		Message: "Log deleted",
		Details: id,
	})
	return nil
}
