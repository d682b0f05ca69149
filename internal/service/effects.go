package service

import (
	"context"
	"errors"

	"gdocs/internal/domain"
	"gdocs/internal/logger"
	"gdocs/internal/metrics"
)

// note is the feed entry emitted after a successful write.
type note struct {
	Type    domain.NotificationType
	Title   string
	Message string
	Target  string
}

// audited is the info entry appended after a successful write.
type audited struct {
	Action  string
	Message string
	Details string
}

// effects implements the post-permission half of every orchestrated
// mutation: classify gateway failures, then emit the notification and the
// audit entry. Side-effect failures are recorded once and swallowed.
type effects struct {
	audit AuditService
	feed  NotificationService
	log   *logger.Logger
}

func newEffects(audit AuditService, feed NotificationService, log *logger.Logger) *effects {
	if log == nil {
		log = logger.Nop()
	}
	return &effects{audit: audit, feed: feed, log: log}
}

// authorize returns ErrForbidden without touching the gateway or the audit
// log when the actor lacks the permission.
func (e *effects) authorize(sess *domain.Session, resource domain.Resource, action domain.Action, entity, op string) error {
	if sess.Can(resource, action) {
		return nil
	}
	metrics.MutationsTotal.WithLabelValues(entity, op, "forbidden").Inc()
	return domain.ErrForbidden
}

// authenticated only requires a resolved actor.
func authenticated(sess *domain.Session) error {
	if sess == nil || sess.User == nil {
		return domain.ErrUnauthorized
	}
	return nil
}

// invalid counts a rejected input and returns err unchanged.
func (e *effects) invalid(entity, op string, err error) error {
	metrics.MutationsTotal.WithLabelValues(entity, op, "invalid").Inc()
	return err
}

// gatewayFailure passes expected outcomes through and turns anything else
// into a *domain.PersistenceError with exactly one error audit entry.
func (e *effects) gatewayFailure(ctx context.Context, sess *domain.Session, entity, op, action string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		metrics.MutationsTotal.WithLabelValues(entity, op, "not_found").Inc()
		return err
	case errors.Is(err, domain.ErrDuplicateName):
		metrics.MutationsTotal.WithLabelValues(entity, op, "conflict").Inc()
		return err
	case errors.Is(err, domain.ErrValidation):
		metrics.MutationsTotal.WithLabelValues(entity, op, "invalid").Inc()
		return err
	}

	metrics.MutationsTotal.WithLabelValues(entity, op, "error").Inc()
	perr := &domain.PersistenceError{Op: op + " " + entity, Err: err}
	e.log.Error().Err(err).Str("entity", entity).Str("op", op).Str("actor", sess.ActorID()).Msg("gateway call failed")
	e.auditError(ctx, sess.ActorID(), action, "Failed to "+op+" "+entity, perr.Error())
	return perr
}

// succeed emits the optional notification, then the info audit entry.
func (e *effects) succeed(ctx context.Context, sess *domain.Session, entity, op string, n *note, a audited) {
	metrics.MutationsTotal.WithLabelValues(entity, op, "success").Inc()

	if n != nil && e.feed != nil {
		if _, err := e.feed.Notify(ctx, sess, n.Type, n.Title, n.Message, n.Target); err != nil {
			metrics.SideEffectFailuresTotal.WithLabelValues("notification").Inc()
			e.log.Warn().Err(err).Str("action", a.Action).Msg("notification dropped")
			e.auditError(ctx, sess.ActorID(), "notification_failed", "Notification could not be recorded", n.Title)
		}
	}

	if _, err := e.audit.Record(ctx, domain.LogInfo, a.Action, a.Message, sess.ActorID(), a.Details); err != nil {
		metrics.SideEffectFailuresTotal.WithLabelValues("audit").Inc()
		e.log.Warn().Err(err).Str("action", a.Action).Msg("audit entry dropped")
		e.auditError(ctx, sess.ActorID(), "audit_failed", "Audit entry could not be recorded", a.Action)
	}
}

// auditError writes one error entry. If that write fails too, the failure
// only reaches the process log.
func (e *effects) auditError(ctx context.Context, actorID, action, message, details string) {
	if _, err := e.audit.Record(ctx, domain.LogError, action, message, actorID, details); err != nil {
		metrics.SideEffectFailuresTotal.WithLabelValues("audit").Inc()
		e.log.Error().Err(err).Str("action", action).Msg("error audit entry dropped")
	}
}
