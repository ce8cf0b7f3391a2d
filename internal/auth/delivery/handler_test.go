package delivery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	authdomain "feedhub-backend/internal/auth/domain"
	authdto "feedhub-backend/internal/auth/dto"
	"feedhub-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAuthUsecase struct {
	mock.Mock
}

func (m *mockAuthUsecase) Signup(ctx context.Context, req *authdto.SignupRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *mockAuthUsecase) Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.LoginResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*authdto.LoginResponse)
	return resp, args.Error(1)
}

func (m *mockAuthUsecase) Verify(token string) (*authdomain.Claims, error) {
	args := m.Called(token)
	claims, _ := args.Get(0).(*authdomain.Claims)
	return claims, args.Error(1)
}

func (m *mockAuthUsecase) GetUser(ctx context.Context, userID string) (*authdomain.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*authdomain.User)
	return user, args.Error(1)
}

func (m *mockAuthUsecase) GetStatus(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *mockAuthUsecase) SetStatus(ctx context.Context, userID, status string) (string, error) {
	args := m.Called(ctx, userID, status)
	return args.String(0), args.Error(1)
}

func (m *mockAuthUsecase) RegisterDevice(ctx context.Context, userID string, req *authdto.RegisterDeviceRequest) error {
	return m.Called(ctx, userID, req).Error(0)
}

func (m *mockAuthUsecase) UnregisterDevice(ctx context.Context, userID, token string) error {
	return m.Called(ctx, userID, token).Error(0)
}

func setupRouter(uc *mockAuthUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(apperror.Middleware(), AuthMiddleware(uc))

	h := NewAuthHandler(uc)
	r.PUT("/auth/signup", h.Signup)
	r.POST("/auth/login", h.Login)
	r.GET("/auth/status", RequireAuth(), h.GetStatus)
	r.PATCH("/auth/status", RequireAuth(), h.UpdateStatus)
	return r
}

func TestSignupHandler(t *testing.T) {
	uc := new(mockAuthUsecase)
	uc.On("Signup", mock.Anything, mock.MatchedBy(func(req *authdto.SignupRequest) bool {
		return req.Email == "max@test.com"
	})).Return("user-1", nil)
	r := setupRouter(uc)

	body := `{"email":"max@test.com","password":"secret1","name":"Max"}`
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/auth/signup", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "user-1", resp["userId"])
	uc.AssertExpectations(t)
}

func TestSignupHandler_BindingFailure(t *testing.T) {
	uc := new(mockAuthUsecase)
	r := setupRouter(uc)

	body := `{"email":"nope","password":"1","name":""}`
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/auth/signup", strings.NewReader(body)))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp apperror.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)
	assert.NotEmpty(t, resp.Data)
	uc.AssertNotCalled(t, "Signup", mock.Anything, mock.Anything)
}

func TestLoginHandler_BadCredentials(t *testing.T) {
	uc := new(mockAuthUsecase)
	uc.On("Login", mock.Anything, mock.Anything).Return(nil, apperror.Auth("Credentials entered by you is not valid!"))
	r := setupRouter(uc)

	body := `{"email":"max@test.com","password":"wrong-pass"}`
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body)))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), "token\"")
}

func TestRequireAuth(t *testing.T) {
	uc := new(mockAuthUsecase)
	uc.On("Verify", "good").Return(&authdomain.Claims{UserID: "user-1", Email: "max@test.com"}, nil)
	uc.On("Verify", "bad").Return(nil, apperror.Auth("Not authenticated."))
	uc.On("GetStatus", mock.Anything, "user-1").Return("busy", nil)
	r := setupRouter(uc)

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/status", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
		req.Header.Set("Authorization", "Bearer bad")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
		req.Header.Set("Authorization", "Bearer good")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "busy")
	})
}
