package handler

import (
	"errors"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/redvibe-dev/redvibe/internal/domain"
	internal_errors "github.com/redvibe-dev/redvibe/internal/errors"
	"github.com/redvibe-dev/redvibe/internal/middleware"
	"github.com/redvibe-dev/redvibe/internal/utils"
	"github.com/redvibe-dev/redvibe/internal/validation"
)

const multipartBufferBytes = 1 << 20

type createPostResponse struct {
	Ok   bool          `json:"ok"`
	Post postResponse  `json:"post"`
	Id   domain.PostId `json:"id"`
}

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)

	maxSize := validation.CalculateMaxRequestSize(h.cfg.Public.MaxUploadBytes, multipartBufferBytes)
	if err := validation.ValidateAndParseMultipart(r, w, maxSize); err != nil {
		if errors.Is(err, validation.ErrPayloadTooLarge) {
			utils.WriteErrorAndStatusCode(w, &internal_errors.ErrorWithStatusCode{
				Message:    validation.MsgFileTooLarge,
				StatusCode: http.StatusRequestEntityTooLarge,
			})
			return
		}
		utils.WriteErrorAndStatusCode(w, internal_errors.BadRequest("Invalid upload"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["media"]
	if len(files) != 1 {
		utils.WriteErrorAndStatusCode(w, internal_errors.BadRequest("Exactly one media file is required"))
		return
	}
	description := r.FormValue("description")

	id, err := h.posts.Create(r.Context(), user, files[0], description)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	post, err := h.posts.Get(id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSONStatus(w, http.StatusCreated, createPostResponse{
		Ok:   true,
		Post: h.toPostResponse(*post),
		Id:   id,
	})
}

func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	postId, err := parseIdParam(chi.URLParam(r, "post"), "post id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, internal_errors.BadRequest(err.Error()))
		return
	}

	post, err := h.posts.Get(postId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, h.toPostResponse(*post))
}

func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.Feed(r.Context())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, map[string]any{"posts": h.toPostResponses(posts)})
}

type profileResponse struct {
	User  userResponse        `json:"user"`
	Posts []postResponse      `json:"posts"`
	Stats domain.ProfileStats `json:"stats"`
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	userId, err := parseIdParam(chi.URLParam(r, "user"), "user id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, internal_errors.BadRequest(err.Error()))
		return
	}

	var viewerId domain.UserId
	if viewer := middleware.GetUserFromContext(r); viewer != nil {
		viewerId = viewer.Id
	}

	user, posts, stats, err := h.posts.Profile(r.Context(), userId, viewerId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, profileResponse{
		User:  toUserResponse(user),
		Posts: h.toPostResponses(posts),
		Stats: stats,
	})
}

// ServeMedia serves uploaded files and derived thumbnails from fs storage.
// AbsolutePath resolves the wildcard against the media root and rejects
// traversal outside it.
func (h *Handler) ServeMedia(w http.ResponseWriter, r *http.Request) {
	rel := chi.URLParam(r, "*")
	if rel == "" {
		utils.WriteErrorAndStatusCode(w, internal_errors.NotFound("File not found"))
		return
	}

	abs := h.media.AbsolutePath(rel)
	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		utils.WriteErrorAndStatusCode(w, internal_errors.NotFound("File not found"))
		return
	}

	http.ServeFile(w, r, abs)
}
