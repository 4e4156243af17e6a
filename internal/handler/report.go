package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/redvibe-dev/redvibe/internal/domain"
	internal_errors "github.com/redvibe-dev/redvibe/internal/errors"
	"github.com/redvibe-dev/redvibe/internal/middleware"
	"github.com/redvibe-dev/redvibe/internal/service"
	"github.com/redvibe-dev/redvibe/internal/utils"
)

type reportRequest struct {
	Reason  string `json:"reason" validate:"required"`
	Details string `json:"details"`
}

func (h *Handler) FileReport(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)

	postId, err := parseIdParam(chi.URLParam(r, "post"), "post id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, internal_errors.BadRequest(err.Error()))
		return
	}

	var req reportRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	reason := domain.ReportReason(req.Reason)
	if !domain.ValidReportReason(reason) {
		utils.WriteErrorAndStatusCode(w, internal_errors.BadRequest("Invalid report reason."))
		return
	}

	if err := h.moderation.FileReport(r.Context(), postId, user.Id, reason, req.Details); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, map[string]any{"ok": true, "message": service.ReportAck})
}
