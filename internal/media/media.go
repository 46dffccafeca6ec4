// Package media handles proof uploads: photos and videos attached to a
// donation or a task as evidence of fulfilment.
package media

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mabuhanifa/aahaar-backend/internal/apperr"
	"github.com/mabuhanifa/aahaar-backend/internal/imaging"
	"github.com/mabuhanifa/aahaar-backend/internal/model"
	"github.com/mabuhanifa/aahaar-backend/internal/notify"
	"github.com/mabuhanifa/aahaar-backend/internal/store"
)

// Service stores proof uploads and notifies interested parties.
type Service struct {
	DB       *sql.DB
	Notifier notify.Sender
}

// Upload stores a proof file linked to exactly one of a donation or a
// task. The MIME type is sniffed from the bytes, never taken from the
// client. Images are normalized; if normalization fails the original
// bytes are kept.
func (s *Service) Upload(ctx context.Context, filename string, data []byte, donationID, taskID, uploadedBy *int64) (*model.Media, error) {
	if (donationID == nil) == (taskID == nil) {
		return nil, fmt.Errorf("proof must reference exactly one of a donation or a task: %w", apperr.ErrInvalidArgument)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty upload: %w", apperr.ErrInvalidArgument)
	}

	var donation *model.Donation
	var task *model.Task
	if donationID != nil {
		d, err := store.GetDonation(ctx, s.DB, *donationID)
		if err != nil {
			return nil, err
		}
		if d == nil {
			return nil, fmt.Errorf("donation %d: %w", *donationID, apperr.ErrNotFound)
		}
		donation = d
	} else {
		t, err := store.GetTask(ctx, s.DB, *taskID)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, fmt.Errorf("task %d: %w", *taskID, apperr.ErrNotFound)
		}
		task = t
	}

	mime := http.DetectContentType(data)
	mediaType := classify(mime)

	if mediaType == model.MediaTypeImage {
		normalized, err := imaging.Normalize(data)
		if err != nil {
			slog.Warn("keeping original upload, normalization failed", "filename", filename, "error", err)
		} else {
			data = normalized
			mime = "image/jpeg"
		}
	}

	m, err := store.CreateMedia(ctx, s.DB, filename, mime, data, mediaType, donationID, taskID, uploadedBy)
	if err != nil {
		return nil, err
	}

	s.notifyProof(ctx, m, donation, task)
	return m, nil
}

// Get returns proof metadata by ID.
func (s *Service) Get(ctx context.Context, id int64) (*model.Media, error) {
	m, err := store.GetMedia(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("media %d: %w", id, apperr.ErrNotFound)
	}
	return m, nil
}

// Data returns a proof file's bytes and MIME type.
func (s *Service) Data(ctx context.Context, id int64) ([]byte, string, error) {
	data, mime, err := store.GetMediaData(ctx, s.DB, id)
	if err != nil {
		return nil, "", err
	}
	if data == nil {
		return nil, "", fmt.Errorf("media %d: %w", id, apperr.ErrNotFound)
	}
	return data, mime, nil
}

// notifyProof tells the donor about proof on their donation, or staff
// about proof on a task.
func (s *Service) notifyProof(ctx context.Context, m *model.Media, donation *model.Donation, task *model.Task) {
	payload := map[string]any{"mediaId": m.ID}

	var recipient notify.Recipient
	switch {
	case donation != nil:
		payload["donationId"] = donation.ID
		if donation.DonorID != nil {
			recipient = notify.User(*donation.DonorID)
		} else {
			recipient = notify.Email(donation.AnonymousEmail)
		}
	default:
		payload["taskId"] = task.ID
		recipient = notify.Roles(model.RoleAdmin, model.RoleManager)
	}

	s.Notifier.Send(ctx, notify.TypeProofUploaded, recipient, payload)
}

// classify maps a sniffed MIME type onto a stored media type.
func classify(mime string) string {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return model.MediaTypeImage
	case strings.HasPrefix(mime, "video/"):
		return model.MediaTypeVideo
	default:
		return model.MediaTypeOther
	}
}
