package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gdocs/internal/domain"
	"gdocs/internal/logger"
	"gdocs/internal/port"
)

// CategoryService manages the one-level category tree.
type CategoryService interface {
	AddCategory(ctx context.Context, sess *domain.Session, name string) (*domain.Category, error)
	AddSubcategory(ctx context.Context, sess *domain.Session, categoryID, name string) (*domain.Subcategory, error)
	DeleteCategory(ctx context.Context, sess *domain.Session, id string) error
	DeleteSubcategory(ctx context.Context, sess *domain.Session, id string) error
	ListCategories(ctx context.Context, sess *domain.Session) ([]domain.Category, error)
	GetSubcategory(ctx context.Context, sess *domain.Session, id string) (*domain.Subcategory, error)
}

type categoryService struct {
	repo port.CategoryRepository
	fx   *effects
}

// NewCategoryService creates a new CategoryService implementation.
func NewCategoryService(repo port.CategoryRepository, audit AuditService, feed NotificationService, log *logger.Logger) CategoryService {
	return &categoryService{
		repo: repo,
		fx:   newEffects(audit, feed, log),
	}
}

func (s *categoryService) AddCategory(ctx context.Context, sess *domain.Session, name string) (*domain.Category, error) {
	if err := s.fx.authorize(sess, domain.ResourceSettings, domain.ActionManage, "category", "create"); err != nil {
		return nil, err
	}
	normalized, err := domain.NormalizeCategoryName(name)
	if err != nil {
		return nil, s.fx.invalid("category", "create", err)
	}

	node := &domain.CategoryNode{
		ID:        uuid.NewString(),
		Name:      normalized,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, node); err != nil {
		return nil, s.fx.gatewayFailure(ctx, sess, "category", "create", "add_category", err)
	}

	s.fx.succeed(ctx, sess, "category", "create", &note{
		Type:    domain.NotificationSystem,
		Title:   "New category",
		Message: fmt.Sprintf("Category %s was created", normalized),
		Target:  sess.ActorID(),
	}, audited{
		Action:  "add_category",
		Message: fmt.Sprintf("Category %s was created", normalized),
	})

	return &domain.Category{
		ID:            node.ID,
		Name:          node.Name,
		CreatedAt:     node.CreatedAt,
		Subcategories: []domain.Subcategory{},
	}, nil
}

func (s *categoryService) AddSubcategory(ctx context.Context, sess *domain.Session, categoryID, name string) (*domain.Subcategory, error) {
	if err := s.fx.authorize(sess, domain.ResourceSettings, domain.ActionManage, "subcategory", "create"); err != nil {
		return nil, err
	}
	normalized, err := domain.NormalizeCategoryName(name)
	if err != nil {
		return nil, s.fx.invalid("subcategory", "create", err)
	}

	parent, err := s.repo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, s.fx.gatewayFailure(ctx, sess, "subcategory", "create", "add_subcategory", err)
	}
	if parent.ParentID != nil {
		return nil, s.fx.invalid("subcategory", "create", domain.ErrCategoryDepth)
	}

	node := &domain.CategoryNode{
		ID:        uuid.NewString(),
		Name:      normalized,
		ParentID:  &parent.ID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, node); err != nil {
		return nil, s.fx.gatewayFailure(ctx, sess, "subcategory", "create", "add_subcategory", err)
	}

	s.fx.succeed(ctx, sess, "subcategory", "create", &note{
		Type:    domain.NotificationSystem,
		Title:   "New subcategory",
		Message: fmt.Sprintf("Subcategory %s was created in %s", normalized, parent.Name),
		Target:  sess.ActorID(),
	}, audited{
		Action:  "add_subcategory",
		Message: fmt.Sprintf("Subcategory %s was created in %s", normalized, parent.Name),
		Details: parent.ID,
	})

	sub, _ := domain.SubcategoryFromNode(*node)
	return &sub, nil
}

// DeleteCategory removes a root row. Children and documents that reference
// it are left in place.
func (s *categoryService) DeleteCategory(ctx context.Context, sess *domain.Session, id string) error {
	return s.deleteNode(ctx, sess, id, false)
}

// DeleteSubcategory removes a child row. Documents that reference it keep
// the stale id.
func (s *categoryService) DeleteSubcategory(ctx context.Context, sess *domain.Session, id string) error {
	return s.deleteNode(ctx, sess, id, true)
}

func (s *categoryService) deleteNode(ctx context.Context, sess *domain.Session, id string, child bool) error {
	entity, action, label := "category", "delete_category", "Category"
	if child {
		entity, action, label = "subcategory", "delete_subcategory", "Subcategory"
	}
	if err := s.fx.authorize(sess, domain.ResourceSettings, domain.ActionManage, entity, "delete"); err != nil {
		return err
	}

	node, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return s.fx.gatewayFailure(ctx, sess, entity, "delete", action, err)
	}
	if (node.ParentID != nil) != child {
		return s.fx.gatewayFailure(ctx, sess, entity, "delete", action, domain.ErrNotFound)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.fx.gatewayFailure(ctx, sess, entity, "delete", action, err)
	}

	s.fx.succeed(ctx, sess, entity, "delete", &note{
		Type:    domain.NotificationSystem,
		Title:   label + " deleted",
		Message: fmt.Sprintf("%s %s was deleted", label, node.Name),
		Target:  sess.ActorID(),
	}, audited{
		Action:  action,
		Message: fmt.Sprintf("%s %s was deleted", label, node.Name),
		Details: node.ID,
	})
	return nil
}

func (s *categoryService) ListCategories(ctx context.Context, sess *domain.Session) ([]domain.Category, error) {
	if err := authenticated(sess); err != nil {
		return nil, err
	}
	nodes, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.fx.gatewayFailure(ctx, sess, "category", "list", "list_categories", err)
	}
	return domain.BuildCategoryTree(nodes), nil
}

// GetSubcategory looks a child row up by id. It also reaches children whose
// parent was deleted.
func (s *categoryService) GetSubcategory(ctx context.Context, sess *domain.Session, id string) (*domain.Subcategory, error) {
	if err := authenticated(sess); err != nil {
		return nil, err
	}
	node, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.fx.gatewayFailure(ctx, sess, "subcategory", "get", "get_subcategory", err)
	}
	sub, ok := domain.SubcategoryFromNode(*node)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &sub, nil
}
