package handler

import (
	"net/http"
	"time"

	"github.com/redvibe-dev/redvibe/internal/domain"
	internal_errors "github.com/redvibe-dev/redvibe/internal/errors"
	"github.com/redvibe-dev/redvibe/internal/middleware"
	"github.com/redvibe-dev/redvibe/internal/utils"
)

type reportView struct {
	Id        domain.ReportId     `json:"id"`
	Post      *postResponse       `json:"post,omitempty"`
	Reporter  userResponse        `json:"reporter"`
	Reason    domain.ReportReason `json:"reason"`
	Details   string              `json:"details,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

type adminActionView struct {
	Id        int64     `json:"id"`
	Admin     string    `json:"admin"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}

type dashboardResponse struct {
	Reports []reportView      `json:"reports"`
	Actions []adminActionView `json:"actions"`
}

func (h *Handler) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)

	reports, actions, err := h.moderation.Dashboard(r.Context(), user)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	resp := dashboardResponse{
		Reports: make([]reportView, 0, len(reports)),
		Actions: make([]adminActionView, 0, len(actions)),
	}
	for _, rep := range reports {
		view := reportView{
			Id:        rep.Id,
			Reporter:  toUserResponse(rep.Reporter),
			Reason:    rep.Reason,
			Details:   rep.Details,
			CreatedAt: rep.CreatedAt,
		}
		if rep.Post != nil {
			post := h.toPostResponse(*rep.Post)
			view.Post = &post
		}
		resp.Reports = append(resp.Reports, view)
	}
	for _, a := range actions {
		resp.Actions = append(resp.Actions, adminActionView{
			Id:        a.Id,
			Admin:     a.Admin.Email,
			Action:    a.Action,
			CreatedAt: a.CreatedAt,
		})
	}

	writeJSON(w, resp)
}

const (
	actionDeletePost  = "delete_post"
	actionSuspendUser = "suspend_user"
	actionViewPost    = "view_post"
)

type adminActionRequest struct {
	Action string        `json:"action" validate:"required"`
	PostId domain.PostId `json:"post_id" validate:"required"`
}

func (h *Handler) AdminAction(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)

	var req adminActionRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	switch req.Action {
	case actionDeletePost:
		if err := h.moderation.DeletePost(r.Context(), user, req.PostId); err != nil {
			utils.WriteErrorAndStatusCode(w, err)
			return
		}
		writeJSON(w, map[string]any{"ok": true})
	case actionSuspendUser:
		if err := h.moderation.SuspendUser(r.Context(), user, req.PostId); err != nil {
			utils.WriteErrorAndStatusCode(w, err)
			return
		}
		writeJSON(w, map[string]any{"ok": true})
	case actionViewPost:
		post, err := h.posts.Get(req.PostId)
		if err != nil {
			utils.WriteErrorAndStatusCode(w, err)
			return
		}
		writeJSON(w, map[string]any{"ok": true, "post": h.toPostResponse(*post)})
	default:
		utils.WriteErrorAndStatusCode(w, internal_errors.BadRequest("Unknown action"))
	}
}
