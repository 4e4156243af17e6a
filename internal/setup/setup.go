package setup

import (
	"github.com/redvibe-dev/redvibe/internal/config"
	"github.com/redvibe-dev/redvibe/internal/handler"
	"github.com/redvibe-dev/redvibe/internal/jwt"
	"github.com/redvibe-dev/redvibe/internal/media"
	"github.com/redvibe-dev/redvibe/internal/middleware"
	"github.com/redvibe-dev/redvibe/internal/render"
	"github.com/redvibe-dev/redvibe/internal/service"
	"github.com/redvibe-dev/redvibe/internal/storage/fs"
	"github.com/redvibe-dev/redvibe/internal/storage/pg"
	"github.com/redvibe-dev/redvibe/internal/suspension"
	"github.com/redvibe-dev/redvibe/internal/validation"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	Storage         *pg.Storage
	Media           *fs.Storage
	Handler         *handler.Handler
	Jwt             jwt.JwtService
	AuthMiddleware  *middleware.Auth
	SuspensionCache *suspension.Cache
	ThumbnailWorker *media.Worker
	Config          *config.Config
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(cfg)
	if err != nil {
		return nil, err
	}

	files, err := fs.New(cfg.Public.MediaRoot)
	if err != nil {
		storage.Cleanup()
		return nil, err
	}

	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())
	suspensionCache := suspension.NewCache(storage, cfg.JwtTTL())

	deriver := media.NewDeriver(files, cfg.Public.ThumbnailMaxDim, cfg.Public.ThumbnailJPEGQuality)
	thumbWorker := media.NewWorker(deriver, storage, cfg.Public.DerivationQueueSize, cfg.Public.DerivationTimeout)

	prober := media.NewProber()
	uploadValidator := validation.NewUploadValidator(&cfg.Public, prober)

	auth := service.NewAuth(storage, jwtService)
	posts := service.NewPost(storage, files, uploadValidator, thumbWorker)
	relations := service.NewRelation(storage)
	comments := service.NewComment(storage, cfg.Public.MaxCommentLength)
	moderation := service.NewModeration(storage, files, suspensionCache)

	renderer := render.New()
	h := handler.New(auth, posts, relations, comments, moderation, renderer, files, cfg, storage)

	authMw := middleware.NewAuth(jwtService, suspensionCache, cfg.Public.SecureCookies)

	return &Dependencies{
		Storage:         storage,
		Media:           files,
		Handler:         h,
		Jwt:             jwtService,
		AuthMiddleware:  authMw,
		SuspensionCache: suspensionCache,
		ThumbnailWorker: thumbWorker,
		Config:          cfg,
	}, nil
}
