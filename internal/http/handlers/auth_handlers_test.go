package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ravesdeleste/PluginPitch/domain"
	"github.com/ravesdeleste/PluginPitch/internal/mocks"
	"github.com/ravesdeleste/PluginPitch/internal/services"
)

func newAuthTestRouter(creds *mocks.MockCredentialService, store *mocks.MockSessionStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	sessions := services.NewSessionService(store, &mocks.MockUserRepository{}, &mocks.MockIdentityProvider{})
	h := NewAuthHandlers(creds, sessions)

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/verify", h.Verify)
	r.GET("/auth/verify-link", h.VerifyLink)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandlers_Register(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		setupMocks     func(creds *mocks.MockCredentialService)
		expectedStatus int
	}{
		{
			name:           "successful registration",
			body:           RegisterRequest{Email: "ana@example.com", Name: "Ana"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing name fails binding",
			body:           map[string]string{"email": "ana@example.com"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "invalid input maps to 400",
			body: RegisterRequest{Email: "bad", Name: "Ana"},
			setupMocks: func(creds *mocks.MockCredentialService) {
				creds.IssueFunc = func(ctx context.Context, email, displayName, juryCode string) (*domain.PendingRegistration, error) {
					return nil, domain.ErrInvalidInput
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "already voted maps to 409",
			body: RegisterRequest{Email: "ana@example.com", Name: "Ana"},
			setupMocks: func(creds *mocks.MockCredentialService) {
				creds.IssueFunc = func(ctx context.Context, email, displayName, juryCode string) (*domain.PendingRegistration, error) {
					return nil, domain.ErrAlreadyVoted
				}
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "resend throttle maps to 429",
			body: RegisterRequest{Email: "ana@example.com", Name: "Ana"},
			setupMocks: func(creds *mocks.MockCredentialService) {
				creds.IssueFunc = func(ctx context.Context, email, displayName, juryCode string) (*domain.PendingRegistration, error) {
					return nil, domain.ErrResendThrottled
				}
			},
			expectedStatus: http.StatusTooManyRequests,
		},
		{
			name: "delivery failure maps to 502",
			body: RegisterRequest{Email: "ana@example.com", Name: "Ana"},
			setupMocks: func(creds *mocks.MockCredentialService) {
				creds.IssueFunc = func(ctx context.Context, email, displayName, juryCode string) (*domain.PendingRegistration, error) {
					return nil, domain.ErrNotifierFailure
				}
			},
			expectedStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds := &mocks.MockCredentialService{}
			if tt.setupMocks != nil {
				tt.setupMocks(creds)
			}
			r := newAuthTestRouter(creds, mocks.NewMockSessionStore())

			w := postJSON(t, r, "/auth/register", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestAuthHandlers_Verify(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(creds *mocks.MockCredentialService)
		expectedStatus int
	}{
		{
			name: "successful verification returns a session",
			setupMocks: func(creds *mocks.MockCredentialService) {
				creds.VerifyFunc = func(ctx context.Context, code, email string) (*domain.VerifiedIdentity, error) {
					return &domain.VerifiedIdentity{Email: email, DisplayName: "Ana", IsJury: true}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "unknown code maps to 404",
			setupMocks: func(creds *mocks.MockCredentialService) {
				creds.VerifyFunc = func(ctx context.Context, code, email string) (*domain.VerifiedIdentity, error) {
					return nil, domain.ErrArtifactNotFound
				}
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "expired code maps to 410",
			setupMocks: func(creds *mocks.MockCredentialService) {
				creds.VerifyFunc = func(ctx context.Context, code, email string) (*domain.VerifiedIdentity, error) {
					return nil, domain.ErrArtifactExpired
				}
			},
			expectedStatus: http.StatusGone,
		},
		{
			name: "email mismatch maps to 403",
			setupMocks: func(creds *mocks.MockCredentialService) {
				creds.VerifyFunc = func(ctx context.Context, code, email string) (*domain.VerifiedIdentity, error) {
					return nil, domain.ErrEmailMismatch
				}
			},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds := &mocks.MockCredentialService{}
			tt.setupMocks(creds)
			store := mocks.NewMockSessionStore()
			r := newAuthTestRouter(creds, store)

			w := postJSON(t, r, "/auth/verify", VerifyRequest{Email: "ana@example.com", Code: "123456"})
			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}

			if tt.expectedStatus == http.StatusOK {
				var resp struct {
					Data struct {
						SessionID string `json:"session_id"`
						Weight    int    `json:"weight"`
						IsJury    bool   `json:"is_jury"`
					} `json:"data"`
				}
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("invalid response: %v", err)
				}
				if resp.Data.SessionID == "" {
					t.Error("expected a session id in the response")
				}
				if resp.Data.Weight != 2 || !resp.Data.IsJury {
					t.Errorf("jury verification must yield weight 2: %+v", resp.Data)
				}
				if len(store.Voters) != 1 {
					t.Errorf("expected 1 stored session, got %d", len(store.Voters))
				}
			}
		})
	}
}

func TestAuthHandlers_VerifyLink(t *testing.T) {
	creds := &mocks.MockCredentialService{
		VerifyLinkFunc: func(ctx context.Context, token string) (*domain.VerifiedIdentity, error) {
			if token == "good" {
				return &domain.VerifiedIdentity{Email: "ana@example.com", DisplayName: "Ana"}, nil
			}
			return nil, domain.ErrArtifactNotFound
		},
	}
	r := newAuthTestRouter(creds, mocks.NewMockSessionStore())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/verify-link?token=good", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for valid link, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/verify-link", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without token, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/verify-link?token=bad", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for bad token, got %d", w.Code)
	}
}
