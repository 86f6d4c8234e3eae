// Package server exposes the document generation engine over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/paydocs/internal/authorization"
	"github.com/smallbiznis/paydocs/internal/config"
	"github.com/smallbiznis/paydocs/internal/document"
	documentdomain "github.com/smallbiznis/paydocs/internal/document/domain"
	"github.com/smallbiznis/paydocs/internal/observability"
	obsmiddleware "github.com/smallbiznis/paydocs/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/paydocs/internal/observability/metrics"
	obstracing "github.com/smallbiznis/paydocs/internal/observability/tracing"
	"github.com/smallbiznis/paydocs/internal/order"
	orderdomain "github.com/smallbiznis/paydocs/internal/order/domain"
	"github.com/smallbiznis/paydocs/internal/payroll"
	"github.com/smallbiznis/paydocs/internal/providers/pdf"
	"github.com/smallbiznis/paydocs/internal/ratelimit"
	"github.com/smallbiznis/paydocs/internal/session"
	sessiondomain "github.com/smallbiznis/paydocs/internal/session/domain"
	taxdomain "github.com/smallbiznis/paydocs/internal/taxtable/domain"
	"github.com/smallbiznis/paydocs/internal/ytd"
	"go.uber.org/fx"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	authorization.Module,
	payroll.Module,
	ytd.Module,
	document.Module,
	order.Module,
	session.Module,
	pdf.Module,
	ratelimit.Module,
	fx.Provide(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, s *Server) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: s.Engine(),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
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
	engine      *gin.Engine
	cfg         config.Config
	genID       *snowflake.Node
	sessionSvc  sessiondomain.Service
	sessionRepo sessiondomain.Repository
	orderSvc    orderdomain.Service
	orderRepo   orderdomain.Repository
	docRepo     documentdomain.Repository
	tablesSvc   taxdomain.Service
	authzSvc    authorization.Service
	genLimiter  *ratelimit.GenerationLimiter
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	GenID       *snowflake.Node
	SessionSvc  sessiondomain.Service
	SessionRepo sessiondomain.Repository
	OrderSvc    orderdomain.Service
	OrderRepo   orderdomain.Repository
	DocRepo     documentdomain.Repository
	TablesSvc   taxdomain.Service
	AuthzSvc    authorization.Service
	GenLimiter  *ratelimit.GenerationLimiter
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		genID:       p.GenID,
		sessionSvc:  p.SessionSvc,
		sessionRepo: p.SessionRepo,
		orderSvc:    p.OrderSvc,
		orderRepo:   p.OrderRepo,
		docRepo:     p.DocRepo,
		tablesSvc:   p.TablesSvc,
		authzSvc:    p.AuthzSvc,
		genLimiter:  p.GenLimiter,
	}

	s.registerAPIRoutes()
	s.registerWebhookRoutes()
	s.registerAdminRoutes()

	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/v1", s.IdentityRequired())

	sessions := v1.Group("/sessions")
	sessions.POST("", s.genLimiter.Middleware(), s.StartSession)
	sessions.GET("", s.ListSessions)
	sessions.GET("/:id", s.GetSession)
	sessions.PATCH("/:id/inputs", s.UpdateSessionInputs)
	sessions.POST("/:id/validate", s.ValidateSession)
	sessions.POST("/:id/preview", s.genLimiter.Middleware(), s.PreviewSession)
	sessions.POST("/:id/confirm", s.ConfirmSessionOrder)
	sessions.POST("/:id/deliver", s.DeliverSession)
	sessions.POST("/:id/cancel", s.CancelSession)

	orders := v1.Group("/orders")
	orders.POST("", s.CreateOrder)
	orders.GET("/:id", s.GetOrder)

	v1.GET("/dashboard", s.Dashboard)
	v1.GET("/documents/:id", s.GetDocument)
	v1.GET("/taxtables/:year", s.GetTaxTables)
}

func (s *Server) registerWebhookRoutes() {
	s.engine.POST("/v1/webhooks/payment", s.PaymentWebhook)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin/v1", s.IdentityRequired())

	admin.GET("/sessions/:id", s.RequireAuthorization(authorization.ObjectSession, authorization.ActionSessionInspect), s.AdminGetSession)
	admin.GET("/orders/:id", s.RequireAuthorization(authorization.ObjectOrder, authorization.ActionOrderInspect), s.AdminGetOrder)
	admin.GET("/users/:user_id/dashboard", s.RequireAuthorization(authorization.ObjectLedger, authorization.ActionLedgerView), s.AdminUserDashboard)
	admin.POST("/roles", s.RequireAuthorization(authorization.ObjectPolicy, authorization.ActionPolicyManage), s.GrantRole)
	admin.DELETE("/roles", s.RequireAuthorization(authorization.ObjectPolicy, authorization.ActionPolicyManage), s.RevokeRole)
}
