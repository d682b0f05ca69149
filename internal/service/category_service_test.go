package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gdocs/internal/domain"
	"gdocs/internal/service"
	"gdocs/mocks"
)

func newCategoryFixture() (*mocks.MockCategoryRepo, *mocks.MockAuditService, *mocks.MockNotificationService, service.CategoryService) {
	repo := new(mocks.MockCategoryRepo)
	audit := new(mocks.MockAuditService)
	feed := new(mocks.MockNotificationService)
	return repo, audit, feed, service.NewCategoryService(repo, audit, feed, nil)
}

func TestCategoryService_AddCategory_Normalizes(t *testing.T) {
	repo, audit, feed, svc := newCategoryFixture()

	var stored []domain.CategoryNode
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.CategoryNode")).
		Run(func(args mock.Arguments) { stored = append(stored, *args.Get(1).(*domain.CategoryNode)) }).
		Return(nil)
	expectNotify(feed, domain.NotificationSystem, "admin-1")
	expectInfo(audit, "add_category")

	cat, err := svc.AddCategory(context.Background(), adminSession(), "  Finance ")
	require.NoError(t, err)
	assert.Equal(t, "finance", cat.Name)
	assert.NotNil(t, cat.Subcategories)

	require.Len(t, stored, 1)
	assert.Nil(t, stored[0].ParentID)

	repo.On("List", mock.Anything).Return(stored, nil)
	tree, err := svc.ListCategories(context.Background(), adminSession())
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, "finance", tree[0].Name)
	feed.AssertExpectations(t)
	audit.AssertExpectations(t)
}

func TestCategoryService_AddCategory_EmptyName(t *testing.T) {
	repo, _, _, svc := newCategoryFixture()

	_, err := svc.AddCategory(context.Background(), adminSession(), "   ")

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCategoryService_AddCategory_Duplicate(t *testing.T) {
	repo, audit, _, svc := newCategoryFixture()
	repo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicateName)

	_, err := svc.AddCategory(context.Background(), adminSession(), "finance")

	assert.ErrorIs(t, err, domain.ErrDuplicateName)
	audit.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCategoryService_AddCategory_RequiresSettingsManage(t *testing.T) {
	repo, _, _, svc := newCategoryFixture()
	sess := userSession(domain.UserPermissions{Settings: domain.SettingsPermissions{View: true}})

	_, err := svc.AddCategory(context.Background(), sess, "finance")

	assert.ErrorIs(t, err, domain.ErrForbidden)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCategoryService_AddSubcategory(t *testing.T) {
	repo, audit, feed, svc := newCategoryFixture()
	repo.On("GetByID", mock.Anything, "cat-legal").Return(rootNode("cat-legal", "legal"), nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.CategoryNode) bool {
		return n.Name == "contracts" && n.ParentID != nil && *n.ParentID == "cat-legal"
	})).Return(nil)
	expectNotify(feed, domain.NotificationSystem, "admin-1")
	expectInfo(audit, "add_subcategory")

	sub, err := svc.AddSubcategory(context.Background(), adminSession(), "cat-legal", "Contracts")

	require.NoError(t, err)
	assert.Equal(t, "contracts", sub.Name)
	assert.Equal(t, "cat-legal", sub.CategoryID)
	repo.AssertExpectations(t)
}

func TestCategoryService_AddSubcategory_MissingParent(t *testing.T) {
	repo, audit, _, svc := newCategoryFixture()
	repo.On("GetByID", mock.Anything, "nope").Return(nil, domain.ErrNotFound)

	_, err := svc.AddSubcategory(context.Background(), adminSession(), "nope", "x")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	audit.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCategoryService_AddSubcategory_OneLevelOnly(t *testing.T) {
	repo, _, _, svc := newCategoryFixture()
	repo.On("GetByID", mock.Anything, "sub-contracts").Return(childNode("sub-contracts", "contracts", "cat-legal"), nil)

	_, err := svc.AddSubcategory(context.Background(), adminSession(), "sub-contracts", "leases")

	assert.ErrorIs(t, err, domain.ErrCategoryDepth)
	assert.ErrorIs(t, err, domain.ErrValidation)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCategoryService_AddSubcategory_SiblingDuplicate(t *testing.T) {
	repo, _, _, svc := newCategoryFixture()
	repo.On("GetByID", mock.Anything, "cat-legal").Return(rootNode("cat-legal", "legal"), nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicateName)

	_, err := svc.AddSubcategory(context.Background(), adminSession(), "cat-legal", "contracts")

	assert.ErrorIs(t, err, domain.ErrDuplicateName)
}

func TestCategoryService_LegalContractsScenario(t *testing.T) {
	repo, _, _, svc := newCategoryFixture()
	repo.On("List", mock.Anything).Return([]domain.CategoryNode{
		*childNode("sub-contracts", "contracts", "cat-legal"),
		*rootNode("cat-legal", "legal"),
		*rootNode("cat-finance", "finance"),
		*childNode("sub-orphan", "orphan", "cat-gone"),
	}, nil)

	tree, err := svc.ListCategories(context.Background(), userSession(domain.UserPermissions{}))

	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.Equal(t, "finance", tree[0].Name)
	assert.Empty(t, tree[0].Subcategories)
	assert.Equal(t, "legal", tree[1].Name)
	require.Len(t, tree[1].Subcategories, 1)
	assert.Equal(t, "contracts", tree[1].Subcategories[0].Name)
}

func TestCategoryService_ListCategories_RequiresSession(t *testing.T) {
	_, _, _, svc := newCategoryFixture()

	_, err := svc.ListCategories(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCategoryService_DeleteCategory_NoCascade(t *testing.T) {
	repo, audit, feed, svc := newCategoryFixture()
	repo.On("GetByID", mock.Anything, "cat-legal").Return(rootNode("cat-legal", "legal"), nil)
	repo.On("Delete", mock.Anything, "cat-legal").Return(nil)
	expectNotify(feed, domain.NotificationSystem, "admin-1")
	expectInfo(audit, "delete_category")

	err := svc.DeleteCategory(context.Background(), adminSession(), "cat-legal")

	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "Delete", 1)
	repo.AssertNotCalled(t, "List", mock.Anything)
}

func TestCategoryService_DeleteKindMismatch(t *testing.T) {
	repo, _, _, svc := newCategoryFixture()
	repo.On("GetByID", mock.Anything, "cat-legal").Return(rootNode("cat-legal", "legal"), nil)
	repo.On("GetByID", mock.Anything, "sub-contracts").Return(childNode("sub-contracts", "contracts", "cat-legal"), nil)

	assert.ErrorIs(t, svc.DeleteSubcategory(context.Background(), adminSession(), "cat-legal"), domain.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteCategory(context.Background(), adminSession(), "sub-contracts"), domain.ErrNotFound)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCategoryService_DeleteSubcategory(t *testing.T) {
	repo, audit, feed, svc := newCategoryFixture()
	repo.On("GetByID", mock.Anything, "sub-contracts").Return(childNode("sub-contracts", "contracts", "cat-legal"), nil)
	repo.On("Delete", mock.Anything, "sub-contracts").Return(nil)
	expectNotify(feed, domain.NotificationSystem, "admin-1")
	expectInfo(audit, "delete_subcategory")

	err := svc.DeleteSubcategory(context.Background(), adminSession(), "sub-contracts")

	require.NoError(t, err)
	audit.AssertExpectations(t)
}

func TestCategoryService_GetSubcategory_ReachesOrphans(t *testing.T) {
	repo, _, _, svc := newCategoryFixture()
	repo.On("GetByID", mock.Anything, "sub-orphan").Return(childNode("sub-orphan", "orphan", "cat-gone"), nil)
	repo.On("GetByID", mock.Anything, "cat-legal").Return(rootNode("cat-legal", "legal"), nil)
	sess := userSession(domain.UserPermissions{})

	sub, err := svc.GetSubcategory(context.Background(), sess, "sub-orphan")
	require.NoError(t, err)
	assert.Equal(t, "cat-gone", sub.CategoryID)

	_, err = svc.GetSubcategory(context.Background(), sess, "cat-legal")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
