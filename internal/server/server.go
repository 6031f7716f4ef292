package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	authdomain "github.com/smallbiznis/devgate/internal/auth/domain"
	catalogdomain "github.com/smallbiznis/devgate/internal/catalog/domain"
	clientdomain "github.com/smallbiznis/devgate/internal/client/domain"
	"github.com/smallbiznis/devgate/internal/config"
	dashboarddomain "github.com/smallbiznis/devgate/internal/dashboard/domain"
	invoicedomain "github.com/smallbiznis/devgate/internal/invoice/domain"
	projectdomain "github.com/smallbiznis/devgate/internal/project/domain"
	timeentrydomain "github.com/smallbiznis/devgate/internal/timeentry/domain"
	userdomain "github.com/smallbiznis/devgate/internal/user/domain"
	"github.com/smallbiznis/devgate/pkg/telemetry"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Provide(telemetry.NewMetrics),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(metrics *telemetry.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(MetricsMiddleware(metrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(metrics *telemetry.Metrics) *gin.Engine {
	return NewEngine(metrics)
}

func run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
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
	engine       *gin.Engine
	cfg          config.Config
	authSvc      authdomain.Service
	clientSvc    clientdomain.Service
	projectSvc   projectdomain.Service
	timeEntrySvc timeentrydomain.Service
	catalogSvc   catalogdomain.Catalog
	invoiceSvc   invoicedomain.Service
	dashboardSvc dashboarddomain.Service
	userSvc      userdomain.Service
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	AuthSvc      authdomain.Service
	ClientSvc    clientdomain.Service
	ProjectSvc   projectdomain.Service
	TimeEntrySvc timeentrydomain.Service
	CatalogSvc   catalogdomain.Catalog
	InvoiceSvc   invoicedomain.Service
	DashboardSvc dashboarddomain.Service
	UserSvc      userdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		authSvc:      p.AuthSvc,
		clientSvc:    p.ClientSvc,
		projectSvc:   p.ProjectSvc,
		timeEntrySvc: p.TimeEntrySvc,
		catalogSvc:   p.CatalogSvc,
		invoiceSvc:   p.InvoiceSvc,
		dashboardSvc: p.DashboardSvc,
		userSvc:      p.UserSvc,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()
	svc.registerStaticRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/signup", s.SignUp)
	auth.POST("/login", s.Login)
	auth.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.AuthRequired())

	// -------- Clients --------
	api.GET("/clients", s.ListClients)
	api.POST("/clients", s.CreateClient)
	api.GET("/clients/:id", s.GetClientByID)
	api.PUT("/clients/:id", s.UpdateClient)
	api.DELETE("/clients/:id", s.DeleteClient)

	// -------- Projects --------
	api.GET("/projects", s.ListProjects)
	api.POST("/projects", s.CreateProject)
	api.GET("/projects/:id", s.GetProjectByID)
	api.PUT("/projects/:id", s.UpdateProject)
	api.PATCH("/projects/:id/complete", s.CompleteProject)
	api.PATCH("/projects/:id/reactivate", s.ReactivateProject)
	api.DELETE("/projects/:id", s.DeleteProject)

	// -------- Time entries --------
	api.GET("/time-entries", s.ListTimeEntries)
	api.POST("/time-entries", s.CreateTimeEntry)
	api.DELETE("/time-entries/:id", s.DeleteTimeEntry)

	// -------- Services --------
	api.GET("/services", s.ListServices)
	api.POST("/services", s.CreateService)
	api.PUT("/services/:id", s.UpdateService)
	api.DELETE("/services/:id", s.DeleteService)

	// -------- Invoices --------
	api.GET("/invoices/billable", s.ListBillableItems)
	api.GET("/invoices", s.ListInvoices)
	api.POST("/invoices", s.CreateInvoice)
	api.GET("/invoices/:id", s.GetInvoiceByID)
	api.PATCH("/invoices/:id/paid", s.MarkInvoicePaid)
	api.GET("/invoices/:id/pdf", s.DownloadInvoicePDF)
	api.POST("/invoices/:id/send", s.SendInvoice)

	// -------- Dashboard --------
	api.GET("/dashboard", s.DashboardOverview)
	api.GET("/dashboard/metrics", s.DashboardMetrics)

	// -------- Profile --------
	api.GET("/users/me", s.Profile)
	api.POST("/users/me/avatar", s.UploadAvatar)
}

func (s *Server) registerStaticRoutes() {
	s.engine.Static("/uploads", s.cfg.UploadDir)
}
