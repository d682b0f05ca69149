// Package bootstrap writes the initial data a fresh installation needs: an
// administrator account and the default category roots. Seeding is
// idempotent; existing rows are left untouched.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"gdocs/internal/config"
	"gdocs/internal/domain"
	"gdocs/internal/logger"
	"gdocs/internal/port"
)

const passwordCost = 12

// Result reports what Seed created.
type Result struct {
	AdminCreated      bool
	CategoriesCreated []string
}

// Seed creates the administrator and the default categories when missing.
func Seed(ctx context.Context, users port.UserRepository, categories port.CategoryRepository, cfg config.BootstrapConfig, log *logger.Logger) (*Result, error) {
	if log == nil {
		log = logger.Nop()
	}
	res := &Result{}

	created, err := seedAdmin(ctx, users, cfg)
	if err != nil {
		return nil, err
	}
	res.AdminCreated = created
	if created {
		log.Info().Str("username", cfg.AdminUsername).Msg("administrator created")
	}

	names := cfg.DefaultCategories
	if len(names) == 0 {
		names = domain.DefaultCategories
	}
	res.CategoriesCreated, err = seedCategories(ctx, categories, names)
	if err != nil {
		return nil, err
	}
	for _, name := range res.CategoriesCreated {
		log.Info().Str("category", name).Msg("category created")
	}
	return res, nil
}

func seedAdmin(ctx context.Context, users port.UserRepository, cfg config.BootstrapConfig) (bool, error) {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return false, fmt.Errorf("bootstrap: admin username and password are required")
	}

	_, err := users.GetByUsername(ctx, cfg.AdminUsername)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return false, fmt.Errorf("bootstrap: looking up admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), passwordCost)
	if err != nil {
		return false, fmt.Errorf("bootstrap: hashing admin password: %w", err)
	}
	admin := &domain.User{
		ID:          uuid.NewString(),
		Username:    cfg.AdminUsername,
		Password:    string(hash),
		Role:        domain.RoleAdmin,
		Email:       cfg.AdminEmail,
		Permissions: domain.FullPermissions(),
		CreatedAt:   time.Now().UTC(),
	}
	if err := users.Create(ctx, admin); err != nil {
		return false, fmt.Errorf("bootstrap: creating admin: %w", err)
	}
	return true, nil
}

func seedCategories(ctx context.Context, categories port.CategoryRepository, names []string) ([]string, error) {
	nodes, err := categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: listing categories: %w", err)
	}
	existing := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if n.ParentID == nil {
			existing[n.Name] = true
		}
	}

	var created []string
	for _, raw := range names {
		name, err := domain.NormalizeCategoryName(raw)
		if err != nil || existing[name] {
			continue
		}
		node := &domain.CategoryNode{ID: uuid.NewString(), Name: name, CreatedAt: time.Now().UTC()}
		if err := categories.Create(ctx, node); err != nil {
			if errors.Is(err, domain.ErrDuplicateName) {
				continue
			}
			return created, fmt.Errorf("bootstrap: creating category %q: %w", name, err)
		}
		existing[name] = true
		created = append(created, name)
	}
	return created, nil
}
