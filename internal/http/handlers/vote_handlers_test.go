package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ravesdeleste/PluginPitch/domain"
	"github.com/ravesdeleste/PluginPitch/internal/mocks"
)

// withSession injects an authenticated session the way the session
// middleware would
func withSession(session *domain.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("session", session)
		c.Next()
	}
}

func newVoteTestRouter(votes *mocks.MockVoteGateway, projects *mocks.MockProjectRepository, winners *mocks.MockWinnerRepository, session *domain.Session) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewVoteHandlers(votes, projects, winners)

	r := gin.New()
	r.GET("/projects", h.ListProjects)
	r.GET("/winner", h.Winner)
	r.GET("/votes/me", withSession(session), h.MyVote)
	r.POST("/votes", withSession(session), h.Cast)
	return r
}

func voterSession() *domain.Session {
	return &domain.Session{
		ID:        "session_test",
		UserEmail: "ana@example.com",
		UserName:  "Ana",
		Role:      domain.RoleJury,
		Weight:    2,
		IsJury:    true,
	}
}

func TestVoteHandlers_Cast(t *testing.T) {
	votes := &mocks.MockVoteGateway{}
	var castIdentity, castProject string
	var castWeight int
	votes.CastFunc = func(ctx context.Context, identity, projectID string, weight int) error {
		castIdentity, castProject, castWeight = identity, projectID, weight
		return nil
	}
	r := newVoteTestRouter(votes, &mocks.MockProjectRepository{}, &mocks.MockWinnerRepository{}, voterSession())

	w := postJSON(t, r, "/votes", CastRequest{ProjectID: "p1"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if castIdentity != "ana@example.com" || castProject != "p1" || castWeight != 2 {
		t.Errorf("cast called with %s/%s/%d", castIdentity, castProject, castWeight)
	}

	// Missing project id fails binding
	w = postJSON(t, r, "/votes", map[string]string{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without project id, got %d", w.Code)
	}
}

func TestVoteHandlers_CastFailure(t *testing.T) {
	votes := &mocks.MockVoteGateway{
		CastFunc: func(ctx context.Context, identity, projectID string, weight int) error {
			return errors.New("ledger unavailable")
		},
	}
	r := newVoteTestRouter(votes, &mocks.MockProjectRepository{}, &mocks.MockWinnerRepository{}, voterSession())

	w := postJSON(t, r, "/votes", CastRequest{ProjectID: "p1"})
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 on ledger failure, got %d", w.Code)
	}
}

func TestVoteHandlers_CastAlreadyVotedToday(t *testing.T) {
	casts := 0
	votes := &mocks.MockVoteGateway{
		LookupFunc: func(ctx context.Context, identity string) (*domain.VoteLookup, error) {
			return &domain.VoteLookup{Found: true, ProjectID: "p1"}, nil
		},
		CastFunc: func(ctx context.Context, identity, projectID string, weight int) error {
			casts++
			return nil
		},
	}
	r := newVoteTestRouter(votes, &mocks.MockProjectRepository{}, &mocks.MockWinnerRepository{}, voterSession())

	w := postJSON(t, r, "/votes", CastRequest{ProjectID: "p2"})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for a second vote on the same day, got %d: %s", w.Code, w.Body.String())
	}
	if casts != 0 {
		t.Errorf("no vote must be appended, got %d casts", casts)
	}
}

func TestVoteHandlers_MyVote(t *testing.T) {
	votes := &mocks.MockVoteGateway{
		LookupFunc: func(ctx context.Context, identity string) (*domain.VoteLookup, error) {
			return &domain.VoteLookup{Found: true, ProjectID: "p1", IsJury: true}, nil
		},
	}
	r := newVoteTestRouter(votes, &mocks.MockProjectRepository{}, &mocks.MockWinnerRepository{}, voterSession())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/votes/me", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Data struct {
			Voted     bool   `json:"voted"`
			ProjectID string `json:"project_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if !resp.Data.Voted || resp.Data.ProjectID != "p1" {
		t.Errorf("unexpected response: %+v", resp.Data)
	}
}

func TestVoteHandlers_Winner(t *testing.T) {
	t.Run("no announcement yields null winner", func(t *testing.T) {
		r := newVoteTestRouter(&mocks.MockVoteGateway{}, &mocks.MockProjectRepository{}, &mocks.MockWinnerRepository{}, voterSession())

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/winner", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}

		var resp struct {
			Data struct {
				Winner *domain.WinnerAnnouncement `json:"winner"`
			} `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid response: %v", err)
		}
		if resp.Data.Winner != nil {
			t.Errorf("expected null winner, got %+v", resp.Data.Winner)
		}
	})

	t.Run("announced winner is returned", func(t *testing.T) {
		winners := &mocks.MockWinnerRepository{
			GetFunc: func(ctx context.Context) (*domain.WinnerAnnouncement, error) {
				return &domain.WinnerAnnouncement{WinnerID: "p1"}, nil
			},
		}
		r := newVoteTestRouter(&mocks.MockVoteGateway{}, &mocks.MockProjectRepository{}, winners, voterSession())

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/winner", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}

		var resp struct {
			Data struct {
				Winner *domain.WinnerAnnouncement `json:"winner"`
			} `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid response: %v", err)
		}
		if resp.Data.Winner == nil || resp.Data.Winner.WinnerID != "p1" {
			t.Errorf("unexpected winner: %+v", resp.Data.Winner)
		}
	})
}

func TestVoteHandlers_ListProjects(t *testing.T) {
	projects := &mocks.MockProjectRepository{
		ListFunc: func(ctx context.Context) ([]domain.Project, error) {
			return []domain.Project{{ID: "p1", Name: "Synth One"}}, nil
		},
	}
	r := newVoteTestRouter(&mocks.MockVoteGateway{}, projects, &mocks.MockWinnerRepository{}, voterSession())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/projects", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Data struct {
			Projects []domain.Project `json:"projects"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if len(resp.Data.Projects) != 1 || resp.Data.Projects[0].ID != "p1" {
		t.Errorf("unexpected projects: %+v", resp.Data.Projects)
	}
}
