package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"gdocs/internal/domain"
	"gdocs/internal/handler"
	"gdocs/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func adminSession() *domain.Session {
	return domain.NewSession(&domain.User{
		ID:          "admin-1",
		Username:    "admin",
		Role:        domain.RoleAdmin,
		Permissions: domain.FullPermissions(),
	}, domain.DefaultNotificationSettings("admin-1"))
}

// newContext builds a test context with sess attached, as AuthMiddleware
// would. A nil sess leaves the context unauthenticated.
func newContext(method, path string, body io.Reader, sess *domain.Session, params ...gin.Param) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(method, path, body)
	if sess != nil {
		c.Set(middleware.ContextKeySession, sess)
	}
	c.Params = params
	return c, w
}

func jsonContext(t *testing.T, method, path string, payload interface{}, sess *domain.Session, params ...gin.Param) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	c, w := newContext(method, path, bytes.NewReader(body), sess, params...)
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

type formFile struct {
	field, name string
	content     []byte
}

func multipartContext(t *testing.T, path string, fields map[string]string, files []formFile, sess *domain.Session) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	c, w := newContext(http.MethodPost, path, &buf, sess)
	c.Request.Header.Set("Content-Type", mw.FormDataContentType())
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) handler.APIResponse {
	t.Helper()
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func idParam(id string) gin.Param {
	return gin.Param{Key: "id", Value: id}
}

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n")
