package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gdocs/internal/config"
	"gdocs/internal/domain"
	"gdocs/internal/service"
	"gdocs/mocks"
)

var testJWT = config.JWTConfig{Secret: "test-secret", Expiry: time.Hour, Issuer: "gdocs"}

type authFixture struct {
	users *mocks.MockUserRepo
	audit *mocks.MockAuditService
	feed  *mocks.MockNotificationService
	svc   service.AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users: new(mocks.MockUserRepo),
		audit: new(mocks.MockAuditService),
		feed:  new(mocks.MockNotificationService),
	}
	f.svc = service.NewAuthService(f.users, f.audit, f.feed, testJWT, nil)
	return f
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newAuthFixture()
	user := &domain.User{ID: "u1", Username: "alice", Role: domain.RoleUser}
	f.users.On("GetByCredentials", mock.Anything, "alice", "pw").Return(user, nil)
	f.users.On("Update", mock.Anything, mock.MatchedBy(func(p domain.UserPatch) bool {
		return p.ID == "u1" && p.LastLogin != nil && p.Password == nil
	})).Return(func() *domain.User { u := *user; now := time.Now(); u.LastLogin = &now; return &u }(), nil)
	f.feed.On("SettingsFor", mock.Anything, "u1").Return(domain.DefaultNotificationSettings("u1"), nil)
	expectNotify(f.feed, domain.NotificationUser, "u1")
	expectInfo(f.audit, "login")

	res, err := f.svc.Login(context.Background(), service.LoginInput{Username: "alice", Password: "pw"})

	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.NotNil(t, res.User.LastLogin)
	assert.WithinDuration(t, time.Now().Add(time.Hour), res.ExpiresAt, time.Minute)

	claims, err := f.svc.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	f.users.AssertExpectations(t)
	f.feed.AssertExpectations(t)
	f.audit.AssertExpectations(t)
}

func TestAuthService_Login_BadCredentials(t *testing.T) {
	f := newAuthFixture()
	f.users.On("GetByCredentials", mock.Anything, "alice", "wrong").Return(nil, nil)
	expectError(f.audit, "login_failed").Once()

	res, err := f.svc.Login(context.Background(), service.LoginInput{Username: "alice", Password: "wrong"})

	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	f.users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.feed.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.audit.AssertExpectations(t)
}

func TestAuthService_Login_GatewayFailure(t *testing.T) {
	f := newAuthFixture()
	f.users.On("GetByCredentials", mock.Anything, "alice", "pw").Return(nil, errors.New("dial tcp: refused"))
	expectError(f.audit, "login_failed").Once()

	_, err := f.svc.Login(context.Background(), service.LoginInput{Username: "alice", Password: "pw"})

	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Login_MissingFieldsFailLikeBadCredentials(t *testing.T) {
	f := newAuthFixture()
	expectError(f.audit, "login_failed").Twice()

	_, err := f.svc.Login(context.Background(), service.LoginInput{Username: "alice"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.NotErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.Login(context.Background(), service.LoginInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	f.users.AssertNotCalled(t, "GetByCredentials", mock.Anything, mock.Anything, mock.Anything)
	f.audit.AssertExpectations(t)
}

func TestAuthService_CurrentUser(t *testing.T) {
	f := newAuthFixture()
	user := &domain.User{ID: "u1", Username: "alice"}
	f.users.On("GetByCredentials", mock.Anything, "alice", "pw").Return(user, nil)
	f.users.On("Update", mock.Anything, mock.Anything).Return(user, nil)
	f.feed.On("SettingsFor", mock.Anything, "u1").Return(domain.NotificationSettings{UserID: "u1", SystemUpdates: true}, nil)
	f.feed.On("Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	expectInfo(f.audit, "login")

	res, err := f.svc.Login(context.Background(), service.LoginInput{Username: "alice", Password: "pw"})
	require.NoError(t, err)

	f.users.On("GetByID", mock.Anything, "u1").Return(user, nil)
	sess, err := f.svc.CurrentUser(context.Background(), res.Token)

	require.NoError(t, err)
	assert.Equal(t, "u1", sess.ActorID())
	assert.False(t, sess.Settings.Documents)
	assert.True(t, sess.Settings.SystemUpdates)
}

func TestAuthService_CurrentUser_Rejects(t *testing.T) {
	f := newAuthFixture()

	_, err := f.svc.CurrentUser(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	other := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		Issuer:    "gdocs",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	forged, err := other.SignedString([]byte("another-secret"))
	require.NoError(t, err)
	_, err = f.svc.CurrentUser(context.Background(), forged)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		Issuer:    "gdocs",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})
	stale, err := expired.SignedString([]byte(testJWT.Secret))
	require.NoError(t, err)
	_, err = f.svc.CurrentUser(context.Background(), stale)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthService_CurrentUser_DeletedUser(t *testing.T) {
	f := newAuthFixture()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "gone",
		Issuer:    "gdocs",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(testJWT.Secret))
	require.NoError(t, err)
	f.users.On("GetByID", mock.Anything, "gone").Return(nil, domain.ErrNotFound)

	_, err = f.svc.CurrentUser(context.Background(), signed)

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture()
	expectInfo(f.audit, "logout")

	require.NoError(t, f.svc.Logout(context.Background(), adminSession()))
	assert.ErrorIs(t, f.svc.Logout(context.Background(), nil), domain.ErrUnauthorized)
	f.audit.AssertNumberOfCalls(t, "Record", 1)
}
