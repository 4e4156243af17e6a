package handler

import (
	"encoding/json"
	"net/http"

	"github.com/redvibe-dev/redvibe/internal/config"
	"github.com/redvibe-dev/redvibe/internal/logger"
	"github.com/redvibe-dev/redvibe/internal/render"
	"github.com/redvibe-dev/redvibe/internal/service"
	"github.com/redvibe-dev/redvibe/internal/storage/fs"
)

type Handler struct {
	auth       service.AuthService
	posts      service.PostService
	relations  service.RelationService
	comments   service.CommentService
	moderation service.ModerationService
	renderer   *render.TextRenderer
	media      *fs.Storage
	cfg        *config.Config
	health     Pinger
}

// Pinger is the storage surface the health endpoint checks.
type Pinger interface {
	Ping() error
}

func New(auth service.AuthService, posts service.PostService, relations service.RelationService,
	comments service.CommentService, moderation service.ModerationService,
	renderer *render.TextRenderer, media *fs.Storage, cfg *config.Config, health Pinger) *Handler {
	return &Handler{
		auth:       auth,
		posts:      posts,
		relations:  relations,
		comments:   comments,
		moderation: moderation,
		renderer:   renderer,
		media:      media,
		cfg:        cfg,
		health:     health,
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Log.Error("failed to encode response", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
	w.Write([]byte("\n"))
}
