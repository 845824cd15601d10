package httpx

import (
	"github.com/gin-gonic/gin"

	"github.com/ravesdeleste/PluginPitch/internal/http/handlers"
	"github.com/ravesdeleste/PluginPitch/internal/http/middleware"
)

func BuildRouter(ah *handlers.AuthHandlers, vh *handlers.VoteHandlers, adh *handlers.AdminHandlers, aph *handlers.AppHandlers, sess *middleware.SessionMW, cb middleware.CasbinMiddleware) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })
	r.GET("/app/state", aph.State)

	auth := r.Group("/auth")
	auth.POST("/register", ah.Register)
	auth.POST("/verify", ah.Verify)
	auth.GET("/verify-link", ah.VerifyLink)
	auth.POST("/resend", ah.Resend)

	voter := r.Group("/").Use(sess.RequireVoter())
	voter.GET("/auth/session", ah.Session)
	voter.POST("/auth/logout", ah.Logout)
	voter.GET("/votes/me", vh.MyVote)
	voter.POST("/votes", vh.Cast)

	r.GET("/projects", vh.ListProjects)
	r.GET("/winner", vh.Winner)

	r.POST("/admin/login", adh.Login)

	adm := r.Group("/admin").Use(sess.RequireAdmin(), cb.Enforce())
	adm.POST("/logout", adh.Logout)
	adm.GET("/tally", adh.Tally)
	adm.POST("/projects", adh.CreateProject)
	adm.PUT("/projects/:id", adh.UpdateProject)
	adm.DELETE("/projects/:id", adh.DeleteProject)
	adm.POST("/winner", adh.SetWinner)
	adm.DELETE("/winner", adh.ClearWinner)

	return r
}
