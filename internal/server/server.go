package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/orghub/internal/authorization"
	"github.com/smallbiznis/orghub/internal/config"
	followdomain "github.com/smallbiznis/orghub/internal/follow/domain"
	invitationdomain "github.com/smallbiznis/orghub/internal/invitation/domain"
	membershipdomain "github.com/smallbiznis/orghub/internal/membership/domain"
	organizationdomain "github.com/smallbiznis/orghub/internal/organization/domain"
	"github.com/smallbiznis/orghub/internal/owner"
	projectdomain "github.com/smallbiznis/orghub/internal/project/domain"
	"github.com/smallbiznis/orghub/internal/role"
	userdomain "github.com/smallbiznis/orghub/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, log *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(MetricsMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	genID           *snowflake.Node
	userSvc         userdomain.Service
	organizationSvc organizationdomain.Service
	membershipSvc   membershipdomain.Service
	invitationSvc   invitationdomain.Service
	followSvc       followdomain.Service
	projectSvc      projectdomain.Service
	ownerSvc        owner.Service
	authzSvc        authorization.Service
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	GenID           *snowflake.Node
	UserSvc         userdomain.Service
	OrganizationSvc organizationdomain.Service
	MembershipSvc   membershipdomain.Service
	InvitationSvc   invitationdomain.Service
	FollowSvc       followdomain.Service
	ProjectSvc      projectdomain.Service
	OwnerSvc        owner.Service
	AuthzSvc        authorization.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		genID:           p.GenID,
		userSvc:         p.UserSvc,
		organizationSvc: p.OrganizationSvc,
		membershipSvc:   p.MembershipSvc,
		invitationSvc:   p.InvitationSvc,
		followSvc:       p.FollowSvc,
		projectSvc:      p.ProjectSvc,
		ownerSvc:        p.OwnerSvc,
		authzSvc:        p.AuthzSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Owner resolution --------
	api.GET("/resolve/:owner", s.ResolveOwner)
	api.GET("/resolve/:owner/:project", s.ResolveNested)

	// -------- Users --------
	api.POST("/users", s.CreateUser)
	api.GET("/users/:username", s.GetUserByUsername)
	api.PATCH("/users/:username", s.ActorRequired(), s.UpdateUserProfile)
	api.POST("/users/:username/rename", s.ActorRequired(), s.RenameUser)
	api.PUT("/users/:username/settings", s.ActorRequired(), s.UpdateUserSettings)

	// -------- Follow graph --------
	api.POST("/users/:username/follow", s.ActorRequired(), s.FollowUser)
	api.DELETE("/users/:username/follow", s.ActorRequired(), s.UnfollowUser)
	api.GET("/users/:username/followers", s.ListFollowers)
	api.GET("/users/:username/following", s.ListFollowing)
	api.GET("/users/:username/graph", s.FollowCounts)

	// -------- Organizations --------
	api.POST("/orgs", s.ActorRequired(), s.CreateOrganization)
	api.GET("/orgs", s.ActorRequired(), s.ListOrganizations)
	api.GET("/orgs/:slug", s.GetOrganizationBySlug)
	api.PATCH("/orgs/:slug", s.ActorRequired(), s.requireOrgRole(role.Admin), s.UpdateOrganization)
	api.POST("/orgs/:slug/rename", s.ActorRequired(), s.requireOrgRole(role.Owner), s.RenameOrganization)

	// -------- Members --------
	api.GET("/orgs/:slug/members", s.ActorRequired(), s.requireOrgRole(role.Viewer), s.ListMembers)
	api.PUT("/orgs/:slug/members/:userId/role", s.ActorRequired(), s.requireOrgRole(role.Admin), s.ChangeMemberRole)
	api.DELETE("/orgs/:slug/members/:userId", s.ActorRequired(), s.requireOrgRole(role.Admin), s.RemoveMember)

	// -------- Invitations --------
	api.POST("/orgs/:slug/invitations", s.ActorRequired(), s.requireOrgRole(role.Admin), s.CreateInvitation)
	api.GET("/orgs/:slug/invitations", s.ActorRequired(), s.requireOrgRole(role.Admin), s.ListInvitations)
	api.POST("/invitations/:token/accept", s.ActorRequired(), s.AcceptInvitation)
	api.POST("/invitations/:token/decline", s.DeclineInvitation)
	api.POST("/invitations/:token/cancel", s.ActorRequired(), s.CancelInvitation)

	// -------- Projects --------
	api.POST("/orgs/:slug/projects", s.ActorRequired(), s.requireOrgRole(role.Member), s.CreateOrgProject)
	api.GET("/orgs/:slug/projects", s.ListOrgProjects)
	api.POST("/user/projects", s.ActorRequired(), s.CreateUserProject)
	api.DELETE("/projects/:id", s.ActorRequired(), s.DeleteProject)
}
