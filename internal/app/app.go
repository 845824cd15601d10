package app

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ravesdeleste/PluginPitch/internal/config"
	httpx "github.com/ravesdeleste/PluginPitch/internal/http"
	"github.com/ravesdeleste/PluginPitch/internal/http/handlers"
	"github.com/ravesdeleste/PluginPitch/internal/http/middleware"
)

func Run(cfg *config.Config) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	c, err := NewContainer(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.RedisClient.Ping(context.Background()).Err(); err != nil {
		return err
	}

	if err := c.WatchSvc.Start(context.Background()); err != nil {
		return err
	}

	authH := handlers.NewAuthHandlers(c.CredentialSvc, c.SessionSvc)
	voteH := handlers.NewVoteHandlers(c.VoteSvc, c.ProjectRepo, c.WinnerRepo)
	adminH := handlers.NewAdminHandlers(c.AdminKeySvc, c.SessionSvc, c.ProjectRepo, c.WinnerRepo, c.VoteSvc)
	appH := handlers.NewAppHandlers(c.FlowSvc)

	sessMW := middleware.NewSessionMW(c.SessionSvc)
	casbinMW := middleware.NewCasbinMW(c.Casbin.E)

	r := httpx.BuildRouter(authH, voteH, adminH, appH, sessMW, casbinMW)

	policies, err := c.Casbin.E.GetPolicy()
	if err != nil {
		log.Printf("casbin: failed to read policies, skipping seed: %v", err)
	} else if len(policies) == 0 {
		c.Casbin.E.AddPolicy("role_admin", "/admin/*", "(GET|POST|PUT|DELETE)")
		_ = c.Casbin.E.SavePolicy()
		log.Println("casbin: seeded default policies")
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, r)
}
