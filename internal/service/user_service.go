package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"gdocs/internal/domain"
	"gdocs/internal/logger"
	"gdocs/internal/port"
)

const passwordCost = 12

// CreateUserInput is the DTO for creating a user.
type CreateUserInput struct {
	Username     string                  `json:"username" validate:"required,min=3,max=64"`
	Password     string                  `json:"password" validate:"required,min=6,max=72"`
	Email        string                  `json:"email" validate:"omitempty,email"`
	Role         domain.UserRole         `json:"role" validate:"required,oneof=admin user"`
	ProfilePhoto string                  `json:"profile_photo" validate:"omitempty,url"`
	Permissions  *domain.UserPermissions `json:"permissions"`
}

// UpdateUserInput is the DTO for updating a user. Nil fields are unchanged.
type UpdateUserInput struct {
	Username     *string          `json:"username" validate:"omitempty,min=3,max=64"`
	Password     *string          `json:"password" validate:"omitempty,min=6,max=72"`
	Email        *string          `json:"email" validate:"omitempty,email"`
	Role         *domain.UserRole `json:"role" validate:"omitempty,oneof=admin user"`
	ProfilePhoto *string          `json:"profile_photo" validate:"omitempty,url"`
}

// UpdateProfileInput is the DTO a user submits for their own account.
type UpdateProfileInput struct {
	Password     *string `json:"password" validate:"omitempty,min=6,max=72"`
	Email        *string `json:"email" validate:"omitempty,email"`
	ProfilePhoto *string `json:"profile_photo" validate:"omitempty,url"`
}

// RegisterInput is the DTO for self-registration.
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// UserService defines the user management contract.
type UserService interface {
	Create(ctx context.Context, sess *domain.Session, input CreateUserInput) (*domain.User, error)
	Get(ctx context.Context, sess *domain.Session, id string) (*domain.User, error)
	List(ctx context.Context, sess *domain.Session) ([]domain.User, error)
	Update(ctx context.Context, sess *domain.Session, id string, input UpdateUserInput) (*domain.User, error)
	UpdatePermissions(ctx context.Context, sess *domain.Session, id string, perms domain.UserPermissions) (*domain.User, error)
	UpdateProfile(ctx context.Context, sess *domain.Session, input UpdateProfileInput) (*domain.User, error)
	Delete(ctx context.Context, sess *domain.Session, id string) error
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
}

type userService struct {
	repo              port.UserRepository
	fx                *effects
	allowRegistration bool
}

// NewUserService creates a new UserService implementation.
func NewUserService(repo port.UserRepository, audit AuditService, feed NotificationService, log *logger.Logger, allowRegistration bool) UserService {
	return &userService{
		repo:              repo,
		fx:                newEffects(audit, feed, log),
		allowRegistration: allowRegistration,
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

func (s *userService) Create(ctx context.Context, sess *domain.Session, input CreateUserInput) (*domain.User, error) {
	if err := s.fx.authorize(sess, domain.ResourceUsers, domain.ActionCreate, "user", "create"); err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, s.fx.invalid("user", "create", err)
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	perms := domain.DefaultPermissions()
	switch {
	case input.Role == domain.RoleAdmin:
		perms = domain.FullPermissions()
	case input.Permissions != nil:
		perms = *input.Permissions
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     input.Username,
		Password:     hash,
		Role:         input.Role,
		Email:        input.Email,
		ProfilePhoto: input.ProfilePhoto,
		Permissions:  perms,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, s.fx.gatewayFailure(ctx, sess, "user", "create", "create_user", err)
	}

	s.fx.succeed(ctx, sess, "user", "create", &note{
		Type:    domain.NotificationUser,
		Title:   "New user",
		Message: fmt.Sprintf("%s was created", user.Username),
		Target:  user.ID,
	}, audited{
		Action:  "create_user",
		Message: fmt.Sprintf("User %s was created", user.Username),
		Details: user.ID,
	})
	return user, nil
}

// Get allows users.view, and always allows reading one's own record.
func (s *userService) Get(ctx context.Context, sess *domain.Session, id string) (*domain.User, error) {
	if sess.ActorID() == "" || sess.ActorID() != id {
		if err := s.fx.authorize(sess, domain.ResourceUsers, domain.ActionView, "user", "get"); err != nil {
			return nil, err
		}
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.fx.gatewayFailure(ctx, sess, "user", "get", "get_user", err)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, sess *domain.Session) ([]domain.User, error) {
	if err := s.fx.authorize(sess, domain.ResourceUsers, domain.ActionView, "user", "list"); err != nil {
		return nil, err
	}
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.fx.gatewayFailure(ctx, sess, "user", "list", "list_users", err)
	}
	return users, nil
}

func (s *userService) Update(ctx context.Context, sess *domain.Session, id string, input UpdateUserInput) (*domain.User, error) {
	if err := s.fx.authorize(sess, domain.ResourceUsers, domain.ActionEdit, "user", "update"); err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, s.fx.invalid("user", "update", err)
	}

	patch := domain.UserPatch{
		ID:           id,
		Username:     input.Username,
		Email:        input.Email,
		Role:         input.Role,
		ProfilePhoto: input.ProfilePhoto,
	}
	if input.Password != nil {
		hash, err := hashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		patch.Password = &hash
	}
	if input.Role != nil {
		switch *input.Role {
		case domain.RoleAdmin:
			full := domain.FullPermissions()
			patch.Permissions = &full
		case domain.RoleUser:
			// a demoted admin must not keep the matrix granted on promotion
			current, err := s.repo.GetByID(ctx, id)
			if err != nil {
				return nil, s.fx.gatewayFailure(ctx, sess, "user", "update", "update_user", err)
			}
			if current.Role == domain.RoleAdmin {
				def := domain.DefaultPermissions()
				patch.Permissions = &def
			}
		}
	}

	user, err := s.repo.Update(ctx, patch)
	if err != nil {
		return nil, s.fx.gatewayFailure(ctx, sess, "user", "update", "update_user", err)
	}

	s.fx.succeed(ctx, sess, "user", "update", &note{
		Type:    domain.NotificationUser,
		Title:   "User updated",
		Message: fmt.Sprintf("%s was updated", user.Username),
		Target:  user.ID,
	}, audited{
		Action:  "update_user",
		Message: fmt.Sprintf("User %s was updated", user.Username),
		Details: user.ID,
	})
	return user, nil
}

func (s *userService) UpdatePermissions(ctx context.Context, sess *domain.Session, id string, perms domain.UserPermissions) (*domain.User, error) {
	if err := s.fx.authorize(sess, domain.ResourceUsers, domain.ActionEdit, "permissions", "update"); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, s.fx.invalid("permissions", "update", domain.NewValidationError("id", "is required"))
	}

	user, err := s.repo.Update(ctx, domain.UserPatch{ID: id, Permissions: &perms})
	if err != nil {
		return nil, s.fx.gatewayFailure(ctx, sess, "permissions", "update", "update_permissions", err)
	}

	s.fx.succeed(ctx, sess, "permissions", "update", &note{
		Type:    domain.NotificationUser,
		Title:   "Permissions updated",
		Message: "Your permissions were updated",
		Target:  user.ID,
	}, audited{
		Action:  "update_permissions",
		Message: fmt.Sprintf("Permissions of user %s were updated", user.Username),
		Details: user.ID,
	})
	return user, nil
}

// UpdateProfile edits the actor's own record. Role and permissions are out
// of reach here.
func (s *userService) UpdateProfile(ctx context.Context, sess *domain.Session, input UpdateProfileInput) (*domain.User, error) {
	if err := authenticated(sess); err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, s.fx.invalid("profile", "update", err)
	}

	patch := domain.UserPatch{
		ID:           sess.User.ID,
		Email:        input.Email,
		ProfilePhoto: input.ProfilePhoto,
	}
	if input.Password != nil {
		hash, err := hashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		patch.Password = &hash
	}

	user, err := s.repo.Update(ctx, patch)
	if err != nil {
		return nil, s.fx.gatewayFailure(ctx, sess, "profile", "update", "update_profile", err)
	}
	sess.User = user

	s.fx.succeed(ctx, sess, "profile", "update", &note{
		Type:    domain.NotificationUser,
		Title:   "Profile updated",
		Message: "Your profile was updated",
		Target:  user.ID,
	}, audited{
		Action:  "update_profile",
		Message: fmt.Sprintf("Profile of %s was updated", user.Username),
	})
	return user, nil
}

// Delete removes only the user row. Documents, notifications and log
// entries that reference the user are kept.
func (s *userService) Delete(ctx context.Context, sess *domain.Session, id string) error {
	if err := s.fx.authorize(sess, domain.ResourceUsers, domain.ActionDelete, "user", "delete"); err != nil {
		return err
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return s.fx.gatewayFailure(ctx, sess, "user", "delete", "delete_user", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.fx.gatewayFailure(ctx, sess, "user", "delete", "delete_user", err)
	}

	s.fx.succeed(ctx, sess, "user", "delete", &note{
		Type:    domain.NotificationUser,
		Title:   "User deleted",
		Message: fmt.Sprintf("%s was deleted", user.Username),
		Target:  user.ID,
	}, audited{
		Action:  "delete_user",
		Message: fmt.Sprintf("User %s was deleted", user.Username),
		Details: user.ID,
	})
	return nil
}

// Register creates a user-role account with the default matrix. The new
// account is the actor of its own audit entry.
func (s *userService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if !s.allowRegistration {
		return nil, domain.ErrForbidden
	}
	if err := validateInput(input); err != nil {
		return nil, s.fx.invalid("user", "register", err)
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		ID:          uuid.NewString(),
		Username:    input.Username,
		Password:    hash,
		Role:        domain.RoleUser,
		Email:       input.Email,
		Permissions: domain.DefaultPermissions(),
		CreatedAt:   time.Now().UTC(),
	}
	sess := domain.NewSession(user, domain.DefaultNotificationSettings(user.ID))
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, s.fx.gatewayFailure(ctx, sess, "user", "register", "register_user", err)
	}

	s.fx.succeed(ctx, sess, "user", "register", &note{
		Type:    domain.NotificationUser,
		Title:   "New registration",
		Message: fmt.Sprintf("%s registered", user.Username),
	}, audited{
		Action:  "register_user",
		Message: fmt.Sprintf("User %s registered", user.Username),
		Details: user.ID,
	})
	return user, nil
}
