package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redvibe-dev/redvibe/internal/domain"
)

// parseIdParam parses an integer route parameter with a meaningful error.
func parseIdParam(param, paramName string) (int64, error) {
	val, err := strconv.ParseInt(param, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: must be an integer", paramName)
	}
	return val, nil
}

func (h *Handler) setAccessCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     "accessToken",
		Value:    token,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.Public.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearAccessCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     "accessToken",
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.Public.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// userResponse is the public projection of a user.
type userResponse struct {
	Id    domain.UserId `json:"id"`
	Name  string        `json:"name"`
	Email string        `json:"email,omitempty"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{Id: u.Id, Name: u.Name}
}

// toOwnerResponse includes the email; only used for the account owner.
func toOwnerResponse(u domain.User) userResponse {
	resp := toUserResponse(u)
	resp.Email = u.Email
	return resp
}

type commentResponse struct {
	Id        domain.CommentId `json:"id"`
	User      userResponse     `json:"user"`
	Content   string           `json:"content"`
	CreatedAt time.Time        `json:"created_at"`
}

type postResponse struct {
	Id              domain.PostId     `json:"id"`
	Creator         userResponse      `json:"creator"`
	MediaURL        string            `json:"media_url"`
	MediaType       domain.MediaType  `json:"media_type"`
	ThumbnailURL    string            `json:"thumbnail_url,omitempty"`
	Description     string            `json:"description"`
	DescriptionHTML string            `json:"description_html,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	LikeCount       int64             `json:"like_count"`
	CommentCount    int64             `json:"comment_count"`
	Comments        []commentResponse `json:"comments"`
}

const mediaRoutePrefix = "/v1/media/"

func (h *Handler) toPostResponse(p domain.Post) postResponse {
	resp := postResponse{
		Id:              p.Id,
		Creator:         toUserResponse(p.Creator),
		MediaURL:        mediaRoutePrefix + p.MediaPath,
		MediaType:       p.MediaType,
		Description:     p.Description,
		DescriptionHTML: h.renderer.HTML(p.Description),
		CreatedAt:       p.CreatedAt,
		LikeCount:       p.LikeCount,
		CommentCount:    p.CommentCount,
		Comments:        make([]commentResponse, 0, len(p.Comments)),
	}
	if p.ThumbnailPath != "" {
		resp.ThumbnailURL = mediaRoutePrefix + p.ThumbnailPath
	}
	for _, c := range p.Comments {
		resp.Comments = append(resp.Comments, commentResponse{
			Id:        c.Id,
			User:      toUserResponse(c.User),
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
		})
	}
	return resp
}

func (h *Handler) toPostResponses(posts []domain.Post) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, h.toPostResponse(p))
	}
	return out
}
