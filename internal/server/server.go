package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/khalfanathman/portfolio-api/config"
	"github.com/khalfanathman/portfolio-api/internal/auth"
	"github.com/khalfanathman/portfolio-api/internal/db"
	"github.com/khalfanathman/portfolio-api/internal/mq"
	"github.com/khalfanathman/portfolio-api/internal/services"
	"github.com/khalfanathman/portfolio-api/internal/storage"
	"github.com/khalfanathman/portfolio-api/internal/store"
)

// writeTimeout leaves room for the timeout middleware to send its 504
// before the connection is cut.
const writeTimeout = requestTimeout + 5*time.Second

// Server wraps the HTTP server, router and the connections it owns.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	broker     mq.Backend
	redis      *redis.Client
	logger     *zap.Logger
}

// New connects to every configured backend and builds the router.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Server, error) {
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	dbConn, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	s := &Server{db: dbConn, logger: logger}

	media, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		s.close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	if media != nil {
		if err := media.EnsureBucket(ctx); err != nil {
			s.close()
			return nil, fmt.Errorf("ensure bucket %s: %w", media.Bucket(), err)
		}
		logger.Info("media storage ready", zap.String("backend", cfg.Storage.Backend), zap.String("bucket", media.Bucket()))
	}

	broker, err := mq.New(ctx, cfg.MQ)
	if err != nil {
		s.close()
		return nil, fmt.Errorf("init mq: %w", err)
	}
	s.broker = broker

	if cfg.Redis.Addr != "" {
		s.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := s.redis.Ping(ctx).Err(); err != nil {
			// Rate limiting fails open, so an unreachable Redis is not fatal.
			logger.Warn("redis unreachable", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
	}

	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)

	s.router = NewRouter(Dependencies{
		Tokens:         tokens,
		Users:          services.NewUserService(dbConn, services.StoreRepositories{}, tokens, media, cfg.MediaURL, logger),
		Projects:       services.NewProjectService(store.NewProjectRepository(dbConn)),
		Blog:           services.NewBlogService(store.NewBlogPostRepository(dbConn)),
		About:          services.NewAboutService(store.NewAboutRepository(dbConn)),
		SkillCategory:  services.NewSkillCategoryService(store.NewSkillCategoryRepository(dbConn)),
		Skills:         services.NewSkillService(store.NewSkillRepository(dbConn)),
		Certifications: services.NewCertificationService(store.NewCertificationRepository(dbConn)),
		Languages:      services.NewLanguageService(store.NewLanguageRepository(dbConn)),
		Contacts: services.NewContactService(
			store.NewContactRepository(dbConn),
			mq.NewNotifier(broker, cfg.MQ.ContactChannel),
			logger,
		),
		Media:       media,
		Redis:       s.redis,
		MediaURL:    cfg.MediaURL,
		CORSOrigins: cfg.CORSOrigins,
		RateLimit:   cfg.Redis,
		Logger:      logger,
	})

	s.httpServer = newHTTPServer(cfg.ServerPort, s.router)
	return s, nil
}

func newHTTPServer(port int, handler http.Handler) *http.Server {
	if port == 0 {
		port = 8080
	}
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	s.logger.Info("server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, drains in-flight ones until ctx is
// done, then releases the backends.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	s.close()
	return err
}

func (s *Server) close() {
	if s.broker != nil {
		if err := s.broker.Close(); err != nil {
			s.logger.Warn("close mq", zap.Error(err))
		}
	}
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
}
