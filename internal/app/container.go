package app

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ravesdeleste/PluginPitch/domain"
	"github.com/ravesdeleste/PluginPitch/internal/config"
	"github.com/ravesdeleste/PluginPitch/internal/infrastructure/auth"
	"github.com/ravesdeleste/PluginPitch/internal/infrastructure/database"
	"github.com/ravesdeleste/PluginPitch/internal/infrastructure/notifications"
	"github.com/ravesdeleste/PluginPitch/internal/infrastructure/repositories"
	"github.com/ravesdeleste/PluginPitch/internal/services"
)

// Container holds all dependencies
type Container struct {
	Config *config.Config
	Clock  domain.Clock

	DB          *gorm.DB
	RedisClient *redis.Client
	Casbin      *auth.CasbinService

	VoteRepo    domain.VoteRepository
	ProjectRepo domain.ProjectRepository
	WinnerRepo  domain.WinnerRepository
	UserRepo    domain.UserRepository
	Sessions    domain.SessionStore

	NotificationSvc domain.NotificationService
	LinkTokenSvc    domain.LinkTokenService
	AdminKeySvc     domain.AdminKeyService
	VoteSvc         domain.VoteGateway
	CredentialSvc   domain.CredentialService
	SessionSvc      *services.SessionService
	FlowSvc         *services.FlowService
	WatchSvc        *services.WatchService
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg, Clock: domain.SystemClock()}

	if err := c.initDatabase(); err != nil {
		return nil, err
	}
	if err := c.initRedis(); err != nil {
		return nil, err
	}
	c.initRepositories()
	c.initServices()
	return c, nil
}

func (c *Container) initDatabase() error {
	db, err := database.Open(c.Config.DSN)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	cas, err := auth.NewCasbinService(db, c.Config.CasbinModelPath)
	if err != nil {
		return err
	}
	c.DB = db
	c.Casbin = cas
	return nil
}

func (c *Container) initRedis() error {
	c.RedisClient = database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB).Client
	return nil
}

func (c *Container) initRepositories() {
	c.VoteRepo = repositories.NewVoteRepository(c.DB)
	c.ProjectRepo = repositories.NewProjectRepository(c.DB, c.RedisClient)
	c.WinnerRepo = repositories.NewWinnerRepository(c.DB, c.RedisClient, c.Clock)
	c.UserRepo = repositories.NewUserRepository(c.DB, c.Clock)

	if c.Config.SessionBackend == "memory" {
		c.Sessions = repositories.NewMemorySessionStore(c.Clock, c.Config.VoterSessionTTL, c.Config.AdminSessionTTL)
	} else {
		c.Sessions = repositories.NewRedisSessionStore(c.RedisClient, c.Clock, c.Config.VoterSessionTTL, c.Config.AdminSessionTTL)
	}
}

func (c *Container) initServices() {
	if c.Config.DeliveryChannel == "sms" {
		c.NotificationSvc = notifications.NewTwilioService(c.Config.TwilioSID, c.Config.TwilioToken, c.Config.TwilioFrom)
	} else {
		c.NotificationSvc = notifications.NewBrevoService(c.Config.BrevoAPIKey, c.Config.BrevoSenderName, c.Config.BrevoSenderAddr)
	}

	c.LinkTokenSvc = auth.NewLinkTokenService(c.Config.LinkSecret, c.Config.LinkIssuer, c.Config.ArtifactTTL, c.Clock)
	c.AdminKeySvc = auth.NewAdminKeyService(c.Config.AdminKey)

	c.VoteSvc = services.NewVoteService(c.VoteRepo, c.ProjectRepo, c.RedisClient, c.Clock, c.Config.VoteCacheTTL)
	c.CredentialSvc = services.NewCredentialService(
		c.NotificationSvc,
		c.VoteSvc,
		c.LinkTokenSvc,
		c.RedisClient,
		c.Clock,
		services.CredentialConfig{
			CodeLength:   c.Config.ArtifactCodeLength,
			TTL:          c.Config.ArtifactTTL,
			ResendWindow: c.Config.ArtifactResendWindow,
			JuryCode:     c.Config.JuryCode,
			Channel:      c.Config.DeliveryChannel,
			LinkBaseURL:  c.Config.LinkBaseURL,
		},
	)
	c.SessionSvc = services.NewSessionService(c.Sessions, c.UserRepo, auth.NewNullIdentityProvider())
	c.FlowSvc = services.NewFlowService(c.CredentialSvc, c.SessionSvc, c.VoteSvc, c.AdminKeySvc, 3*time.Second)
	c.WatchSvc = services.NewWatchService(c.RedisClient, c.ProjectRepo, c.WinnerRepo, c.FlowSvc)
}

// Close closes all connections
func (c *Container) Close() error {
	if c.WatchSvc != nil {
		c.WatchSvc.Stop()
	}
	if c.FlowSvc != nil {
		c.FlowSvc.Close()
	}
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}
	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
