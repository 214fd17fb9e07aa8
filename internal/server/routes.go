package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/khalfanathman/portfolio-api/config"
	"github.com/khalfanathman/portfolio-api/internal/auth"
	"github.com/khalfanathman/portfolio-api/internal/handlers"
	"github.com/khalfanathman/portfolio-api/internal/services"
	"github.com/khalfanathman/portfolio-api/internal/storage"
	"github.com/khalfanathman/portfolio-api/types"
)

const requestTimeout = 60 * time.Second

// Dependencies are the wired services the router dispatches to.
type Dependencies struct {
	Tokens         *auth.Tokens
	Users          *services.UserService
	Projects       *services.ProjectService
	Blog           *services.BlogService
	About          *services.PublicService[types.About]
	SkillCategory  *services.PublicService[types.SkillCategory]
	Skills         *services.PublicService[types.Skill]
	Certifications *services.PublicService[types.Certification]
	Languages      *services.PublicService[types.Language]
	Contacts       *services.ContactService

	// Media may be nil when no storage backend is configured.
	Media storage.ObjectStorage
	// Redis may be nil, which disables rate limiting.
	Redis *redis.Client

	MediaURL    string
	CORSOrigins []string
	RateLimit   config.RedisConfig
	Logger      *zap.Logger
}

// NewRouter builds the HTTP routing tree.
func NewRouter(d Dependencies) *chi.Mux {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		handlers.RequestLogger(logger),
		middleware.Recoverer,
		middleware.StripSlashes,
		cors.Handler(cors.Options{
			AllowedOrigins:   d.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
			ExposedHeaders:   []string{"Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
		middleware.Timeout(requestTimeout),
	)

	router.Get("/healthz", handlers.Healthz)
	router.Get(d.MediaURL+"*", handlers.NewMediaHandler(d.Media, logger).Serve)

	limit := func(prefix string) func(http.Handler) http.Handler {
		return handlers.RateLimiter(d.Redis, handlers.RateLimit{
			Limit:  d.RateLimit.RateLimit,
			Window: d.RateLimit.RateWindow,
			Block:  d.RateLimit.RateBlock,
			Prefix: "ratelimit:" + prefix,
		}, logger)
	}

	router.Group(func(r chi.Router) {
		r.Use(handlers.Authenticate(d.Tokens))

		r.Route("/users", func(r chi.Router) {
			handlers.UserRouter(r, d.Users, logger, limit("auth"))
		})

		r.Route("/api", func(r chi.Router) {
			r.Route("/projects", func(r chi.Router) {
				handlers.OwnedRouter(r, d.Projects, logger)
			})
			r.Route("/blog", func(r chi.Router) {
				handlers.OwnedRouter(r, d.Blog, logger)
			})
			r.Route("/about", func(r chi.Router) {
				handlers.PublicRouter(r, d.About, logger)
			})
			r.Route("/skill-categories", func(r chi.Router) {
				handlers.PublicRouter(r, d.SkillCategory, logger)
			})
			r.Route("/skills", func(r chi.Router) {
				handlers.PublicRouter(r, d.Skills, logger)
			})
			r.Route("/certifications", func(r chi.Router) {
				handlers.PublicRouter(r, d.Certifications, logger)
			})
			r.Route("/languages", func(r chi.Router) {
				handlers.PublicRouter(r, d.Languages, logger)
			})
			r.Route("/contact", func(r chi.Router) {
				handlers.ContactRouter(r, d.Contacts, handlers.RequireAdmin(d.Users, logger), limit("contact"), logger)
			})
		})
	})

	return router
}
