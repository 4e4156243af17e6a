package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	internal_errors "github.com/redvibe-dev/redvibe/internal/errors"
	"github.com/redvibe-dev/redvibe/internal/middleware"
	"github.com/redvibe-dev/redvibe/internal/utils"
)

type likeResponse struct {
	Liked bool  `json:"liked"`
	Count int64 `json:"count"`
}

func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)

	postId, err := parseIdParam(chi.URLParam(r, "post"), "post id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, internal_errors.BadRequest(err.Error()))
		return
	}

	liked, count, err := h.relations.ToggleLike(r.Context(), user.Id, postId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, likeResponse{Liked: liked, Count: count})
}

type followResponse struct {
	Ok        bool  `json:"ok"`
	Following bool  `json:"following"`
	Count     int64 `json:"count"`
}

func (h *Handler) ToggleFollow(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)

	targetId, err := parseIdParam(chi.URLParam(r, "user"), "user id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, internal_errors.BadRequest(err.Error()))
		return
	}

	following, count, err := h.relations.ToggleFollow(r.Context(), user.Id, targetId)
	if err != nil {
		writeOkError(w, err)
		return
	}

	writeJSON(w, followResponse{Ok: true, Following: following, Count: count})
}

// writeOkError wraps a failure in the {"ok":false,"error":...} envelope
// the toggle and comment buttons consume.
func writeOkError(w http.ResponseWriter, err error) {
	var statusErr *internal_errors.ErrorWithStatusCode
	status := http.StatusInternalServerError
	message := "Internal error"
	if errors.As(err, &statusErr) {
		status = statusErr.StatusCode
		message = statusErr.Message
	}
	writeJSONStatus(w, status, map[string]any{"ok": false, "error": message})
}
