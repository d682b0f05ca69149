package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gdocs/internal/domain"
	"gdocs/internal/handler"
	"gdocs/mocks"
)

func TestCategoryHandler_List(t *testing.T) {
	cats := new(mocks.MockCategoryService)
	h := handler.NewCategoryHandler(cats)
	cats.On("ListCategories", mock.Anything, mock.Anything).Return([]domain.Category{
		{ID: "c1", Name: "legal", Subcategories: []domain.Subcategory{{ID: "s1", Name: "contracts", CategoryID: "c1"}}},
	}, nil)

	c, w := newContext(http.MethodGet, "/api/v1/categories", nil, adminSession())
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"contracts"`)
}

func TestCategoryHandler_Create(t *testing.T) {
	cats := new(mocks.MockCategoryService)
	h := handler.NewCategoryHandler(cats)
	cats.On("AddCategory", mock.Anything, mock.Anything, "Finance").
		Return(&domain.Category{ID: "c2", Name: "finance", Subcategories: []domain.Subcategory{}}, nil)

	c, w := jsonContext(t, http.MethodPost, "/api/v1/categories", map[string]string{"name": "Finance"}, adminSession())
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"finance"`)
}

func TestCategoryHandler_Create_Duplicate(t *testing.T) {
	cats := new(mocks.MockCategoryService)
	h := handler.NewCategoryHandler(cats)
	cats.On("AddCategory", mock.Anything, mock.Anything, "finance").Return(nil, domain.ErrDuplicateName)

	c, w := jsonContext(t, http.MethodPost, "/api/v1/categories", map[string]string{"name": "finance"}, adminSession())
	h.Create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCategoryHandler_AddSubcategory_Nested(t *testing.T) {
	cats := new(mocks.MockCategoryService)
	h := handler.NewCategoryHandler(cats)
	cats.On("AddSubcategory", mock.Anything, mock.Anything, "s1", "drafts").Return(nil, domain.ErrCategoryDepth)

	c, w := jsonContext(t, http.MethodPost, "/api/v1/categories/s1/subcategories", map[string]string{"name": "drafts"}, adminSession(), idParam("s1"))
	h.AddSubcategory(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "CATEGORY_DEPTH", decode(t, w).Error.Code)
}

func TestCategoryHandler_AddSubcategory(t *testing.T) {
	cats := new(mocks.MockCategoryService)
	h := handler.NewCategoryHandler(cats)
	cats.On("AddSubcategory", mock.Anything, mock.Anything, "c1", "contracts").
		Return(&domain.Subcategory{ID: "s1", Name: "contracts", CategoryID: "c1"}, nil)

	c, w := jsonContext(t, http.MethodPost, "/api/v1/categories/c1/subcategories", map[string]string{"name": "contracts"}, adminSession(), idParam("c1"))
	h.AddSubcategory(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCategoryHandler_Delete(t *testing.T) {
	cats := new(mocks.MockCategoryService)
	h := handler.NewCategoryHandler(cats)
	cats.On("DeleteCategory", mock.Anything, mock.Anything, "c1").Return(nil)

	c, w := newContext(http.MethodDelete, "/api/v1/categories/c1", nil, adminSession(), idParam("c1"))
	h.Delete(c)

	assert.Equal(t, http.StatusOK, w.Code)
	cats.AssertExpectations(t)
}

func TestCategoryHandler_Subcategory_GetAndDelete(t *testing.T) {
	cats := new(mocks.MockCategoryService)
	h := handler.NewCategoryHandler(cats)
	cats.On("GetSubcategory", mock.Anything, mock.Anything, "c1").Return(nil, domain.ErrNotFound)
	cats.On("DeleteSubcategory", mock.Anything, mock.Anything, "s1").Return(nil)

	c, w := newContext(http.MethodGet, "/api/v1/subcategories/c1", nil, adminSession(), idParam("c1"))
	h.GetSubcategory(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	c, w = newContext(http.MethodDelete, "/api/v1/subcategories/s1", nil, adminSession(), idParam("s1"))
	h.DeleteSubcategory(c)
	assert.Equal(t, http.StatusOK, w.Code)
}
