package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"gdocs/internal/config"
	"gdocs/internal/domain"
	"gdocs/internal/logger"
	"gdocs/internal/metrics"
	"gdocs/internal/port"
)

// Claims are the signed contents of a session token. The subject is the
// user id; username and role are informational only.
type Claims struct {
	jwt.RegisteredClaims
	Username string          `json:"username"`
	Role     domain.UserRole `json:"role"`
}

// LoginInput is the DTO for login requests.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult carries the signed token and the authenticated user.
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

// AuthService defines the authentication contract.
type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	Logout(ctx context.Context, sess *domain.Session) error
	ValidateToken(tokenString string) (*Claims, error)
	// CurrentUser resolves a token into a session, re-reading the user and
	// their notification settings.
	CurrentUser(ctx context.Context, tokenString string) (*domain.Session, error)
}

type authService struct {
	userRepo port.UserRepository
	feed     NotificationService
	cfg      config.JWTConfig
	log      *logger.Logger
	fx       *effects
}

// NewAuthService creates a new AuthService implementation.
func NewAuthService(
	userRepo port.UserRepository,
	audit AuditService,
	feed NotificationService,
	cfg config.JWTConfig,
	log *logger.Logger,
) AuthService {
	if log == nil {
		log = logger.Nop()
	}
	return &authService{
		userRepo: userRepo,
		feed:     feed,
		cfg:      cfg,
		log:      log,
		fx:       newEffects(audit, feed, log),
	}
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	// missing fields fail like a wrong password
	if err := validateInput(input); err != nil {
		return nil, s.rejectLogin(ctx, input.Username)
	}

	user, err := s.userRepo.GetByCredentials(ctx, input.Username, input.Password)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("error").Inc()
		return nil, s.fx.gatewayFailure(ctx, nil, "user", "authenticate", "login_failed", err)
	}
	if user == nil {
		return nil, s.rejectLogin(ctx, input.Username)
	}
	metrics.AuthAttemptsTotal.WithLabelValues("success").Inc()

	now := time.Now().UTC()
	updated, err := s.userRepo.Update(ctx, domain.UserPatch{ID: user.ID, LastLogin: &now})
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to record last login")
		s.fx.auditError(ctx, user.ID, "login", "Last login could not be recorded", user.ID)
	} else {
		user = updated
	}

	sess, err := s.session(ctx, user)
	if err != nil {
		return nil, err
	}

	s.fx.succeed(ctx, sess, "user", "login", &note{
		Type:    domain.NotificationUser,
		Title:   "Login",
		Message: fmt.Sprintf("%s signed in", user.Username),
		Target:  user.ID,
	}, audited{
		Action:  "login",
		Message: fmt.Sprintf("User %s signed in", user.Username),
	})

	token, expiresAt, err := s.sign(user, now)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// rejectLogin records a failed attempt and returns the generic AuthError.
func (s *authService) rejectLogin(ctx context.Context, username string) error {
	metrics.AuthAttemptsTotal.WithLabelValues("failure").Inc()
	s.fx.auditError(ctx, "", "login_failed", "Login failed", fmt.Sprintf("failed login attempt for user %s", username))
	return domain.ErrInvalidCredentials
}

// Logout only records the event. Tokens are held by the client.
func (s *authService) Logout(ctx context.Context, sess *domain.Session) error {
	if err := authenticated(sess); err != nil {
		return err
	}
	s.fx.succeed(ctx, sess, "user", "logout", nil, audited{
		Action:  "logout",
		Message: fmt.Sprintf("User %s signed out", sess.User.Username),
	})
	return nil
}

func (s *authService) CurrentUser(ctx context.Context, tokenString string) (*domain.Session, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	user, err := s.userRepo.GetByID(ctx, claims.Subject)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("auth.CurrentUser: %w", err)
	}
	return s.session(ctx, user)
}

func (s *authService) session(ctx context.Context, user *domain.User) (*domain.Session, error) {
	settings := domain.DefaultNotificationSettings(user.ID)
	if s.feed != nil {
		loaded, err := s.feed.SettingsFor(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("auth.session: %w", err)
		}
		settings = loaded
	}
	return domain.NewSession(user, settings), nil
}

func (s *authService) sign(user *domain.User, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(s.cfg.Expiry)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
		Username: user.Username,
		Role:     user.Role,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}
	return token, expiresAt, nil
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithIssuer(s.cfg.Issuer))
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}
