package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/taskpulse/apiserver/config"
	"github.com/taskpulse/apiserver/internal/auth"
	"github.com/taskpulse/apiserver/internal/db"
	"github.com/taskpulse/apiserver/internal/handlers"
	"github.com/taskpulse/apiserver/internal/logging"
	"github.com/taskpulse/apiserver/internal/media"
	"github.com/taskpulse/apiserver/internal/mq"
	"github.com/taskpulse/apiserver/internal/services"
	"github.com/taskpulse/apiserver/internal/storage"
	"github.com/taskpulse/apiserver/internal/store"
)

// Server wraps the HTTP server, router and the connections it owns.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	objects    storage.ObjectStorage
	broker     mq.Backend
	redis      *redis.Client
	logger     logging.Logger
}

// Services bundles what the router needs.
type Services struct {
	Auth     *services.AuthService
	Users    *services.UserService
	Projects *services.ProjectService
	Tasks    *services.TaskService
	Teams    *services.TeamService
	Search   *services.SearchService
}

// New connects every backing service and builds the HTTP server.
func New(ctx context.Context, cfg config.Config, logger logging.Logger) (*Server, error) {
	issuer, err := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("JWT_SECRET is required: %w", err)
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	s := &Server{db: dbConn, logger: logger}
	fail := func(err error) (*Server, error) {
		s.closeBackends()
		return nil, err
	}

	objectStore, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return fail(fmt.Errorf("storage: %w", err))
	}
	s.objects = objectStore
	bucketCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := objectStore.EnsureBucket(bucketCtx); err != nil {
		logger.Warn(ctx, "ensure bucket failed", "bucket", objectStore.Bucket(), "error", err)
	}
	cancel()

	s.broker, err = mq.New(ctx, cfg.MQ)
	if err != nil {
		return fail(fmt.Errorf("mq: %w", err))
	}

	authOpts := []services.AuthOption{
		services.WithNotifier(services.NewEventPublisher(s.broker, cfg.MQ.RegisteredTopic)),
		services.WithMaxPictureBytes(cfg.Upload.MaxBytes),
	}
	if cfg.Redis.Addr != "" {
		s.redis, err = auth.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return fail(err)
		}
		authOpts = append(authOpts, services.WithDenylist(auth.NewRedisDenylist(s.redis, auth.WithDenylistClock(issuer.Now))))
		logger.Info(ctx, "token revocation enabled", "redis", cfg.Redis.Addr)
	}

	userRepo := store.NewUserRepository(dbConn)
	projectRepo := store.NewProjectRepository(dbConn)
	taskRepo := store.NewTaskRepository(dbConn)
	teamRepo := store.NewTeamRepository(dbConn)

	svcs := Services{
		Auth:     services.NewAuthService(userRepo, media.NewUploader(objectStore, cfg.Upload), issuer, logger, authOpts...),
		Users:    services.NewUserService(userRepo),
		Projects: services.NewProjectService(projectRepo),
		Tasks:    services.NewTaskService(taskRepo, projectRepo),
		Teams:    services.NewTeamService(teamRepo),
		Search:   services.NewSearchService(taskRepo, projectRepo, userRepo),
	}

	s.router = NewRouter(svcs, logger, cfg.Upload.MaxBytes)

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// NewRouter mounts every route on a chi router.
func NewRouter(svcs Services, logger logging.Logger, maxPictureBytes int64) *chi.Mux {
	requireAuth := handlers.RequireAuth(svcs.Auth)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, handlers.NewAuthHandler(svcs.Auth, svcs.Users, logger, maxPictureBytes), requireAuth)
	})

	router.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Route("/projects", func(r chi.Router) {
			handlers.ProjectRouter(r, handlers.NewProjectHandler(svcs.Projects, logger))
		})
		r.Route("/tasks", func(r chi.Router) {
			handlers.TaskRouter(r, handlers.NewTaskHandler(svcs.Tasks, logger))
		})
		r.Route("/users", func(r chi.Router) {
			handlers.UserRouter(r, handlers.NewUserHandler(svcs.Users, logger))
		})
		r.Route("/teams", func(r chi.Router) {
			handlers.TeamRouter(r, handlers.NewTeamHandler(svcs.Teams, logger))
		})
		r.Get("/search", handlers.NewSearchHandler(svcs.Search, logger).Search)
	})

	return router
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then closes backing connections.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	s.closeBackends()
	return err
}

func (s *Server) closeBackends() {
	if s.broker != nil {
		if err := s.broker.Close(); err != nil {
			s.logger.Warn(context.Background(), "close broker", "error", err)
		}
	}
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if closer, ok := s.objects.(io.Closer); ok {
		_ = closer.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
}
