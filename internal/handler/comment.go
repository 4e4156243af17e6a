package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	internal_errors "github.com/redvibe-dev/redvibe/internal/errors"
	"github.com/redvibe-dev/redvibe/internal/middleware"
	"github.com/redvibe-dev/redvibe/internal/utils"
)

type commentRequest struct {
	Content string `json:"content"`
}

func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)

	postId, err := parseIdParam(chi.URLParam(r, "post"), "post id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, internal_errors.BadRequest(err.Error()))
		return
	}

	var req commentRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	count, err := h.comments.Add(r.Context(), user.Id, postId, req.Content)
	if err != nil {
		writeOkError(w, err)
		return
	}

	writeJSON(w, map[string]any{"ok": true, "count": count})
}
