package service

import (
	"context"
	"fmt"

	"github.com/redvibe-dev/redvibe/internal/domain"
	"github.com/redvibe-dev/redvibe/internal/errors"
	"github.com/redvibe-dev/redvibe/internal/logger"
)

// ReportAck is the fixed acknowledgment returned for every accepted report.
const ReportAck = "Thank you for your report. Our team will review it shortly."

type ModerationService interface {
	FileReport(ctx context.Context, postId domain.PostId, reporterId domain.UserId, reason domain.ReportReason, details string) error
	Dashboard(ctx context.Context, staff *domain.User) ([]domain.Report, []domain.AdminAction, error)
	DeletePost(ctx context.Context, staff *domain.User, postId domain.PostId) error
	SuspendUser(ctx context.Context, staff *domain.User, postId domain.PostId) error
}

type Moderation struct {
	storage ModerationStorage
	files   MediaStorage
	cache   SuspensionCache
}

type ModerationStorage interface {
	CreateReport(ctx context.Context, postId domain.PostId, reporterId domain.UserId, reason domain.ReportReason, details string) error
	Reports(ctx context.Context) ([]domain.Report, error)
	AdminActions(ctx context.Context, limit int) ([]domain.AdminAction, error)
	GetPost(id domain.PostId) (*domain.Post, error)
	DeletePostWithLog(ctx context.Context, adminId domain.UserId, postId domain.PostId, action string) (mediaPath, thumbnailPath string, err error)
	SuspendUserWithLog(ctx context.Context, adminId, userId domain.UserId, action string) error
}

// SuspensionCache lets a suspension take effect on live tokens immediately.
type SuspensionCache interface {
	MarkSuspended(userId domain.UserId)
}

const dashboardLogLimit = 50

func NewModeration(storage ModerationStorage, files MediaStorage, cache SuspensionCache) *Moderation {
	return &Moderation{storage: storage, files: files, cache: cache}
}

// FileReport queues a report for staff review. Always succeeds on
// well-formed input; duplicates from the same reporter are kept.
func (m *Moderation) FileReport(ctx context.Context, postId domain.PostId, reporterId domain.UserId, reason domain.ReportReason, details string) error {
	if !domain.ValidReportReason(reason) {
		return errors.BadRequest("Invalid report reason.")
	}
	return m.storage.CreateReport(ctx, postId, reporterId, reason, details)
}

func (m *Moderation) Dashboard(ctx context.Context, staff *domain.User) ([]domain.Report, []domain.AdminAction, error) {
	if err := requireStaff(staff); err != nil {
		return nil, nil, err
	}

	reports, err := m.storage.Reports(ctx)
	if err != nil {
		return nil, nil, err
	}
	actions, err := m.storage.AdminActions(ctx, dashboardLogLimit)
	if err != nil {
		return nil, nil, err
	}
	return reports, actions, nil
}

// DeletePost removes the post row (likes, comments and reports cascade with
// it) together with the audit entry, then reclaims the stored media and
// thumbnail files. File reclaim is best effort: the row deletion has already
// committed, so an orphaned file only costs disk space.
func (m *Moderation) DeletePost(ctx context.Context, staff *domain.User, postId domain.PostId) error {
	if err := requireStaff(staff); err != nil {
		return err
	}

	post, err := m.storage.GetPost(postId)
	if err != nil {
		return err
	}

	action := fmt.Sprintf("Deleted post #%d by %s", post.Id, post.Creator.Email)
	mediaPath, thumbnailPath, err := m.storage.DeletePostWithLog(ctx, staff.Id, postId, action)
	if err != nil {
		return err
	}

	for _, path := range []string{mediaPath, thumbnailPath} {
		if path == "" {
			continue
		}
		if err := m.files.DeleteFile(path); err != nil {
			logger.Log.Warn("failed to reclaim media file",
				"component", "moderation",
				"path", path,
				"error", err)
		}
	}
	return nil
}

// SuspendUser deactivates the creator of the given post. Their content
// stays; they can no longer log in, and live tokens are cut off through the
// suspension cache.
func (m *Moderation) SuspendUser(ctx context.Context, staff *domain.User, postId domain.PostId) error {
	if err := requireStaff(staff); err != nil {
		return err
	}

	post, err := m.storage.GetPost(postId)
	if err != nil {
		return err
	}

	action := fmt.Sprintf("Suspended user %s", post.Creator.Email)
	if err := m.storage.SuspendUserWithLog(ctx, staff.Id, post.Creator.Id, action); err != nil {
		return err
	}

	m.cache.MarkSuspended(post.Creator.Id)
	return nil
}

func requireStaff(user *domain.User) error {
	if user == nil || !user.Staff {
		return errors.Forbidden("Access denied. Staff only.")
	}
	return nil
}
