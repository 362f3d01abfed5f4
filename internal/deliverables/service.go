package deliverables

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"neon/collab-portal/collab-portal-backend/internal/apperr"
	"neon/collab-portal/collab-portal-backend/pkg/storage"
)

// presignTTL bounds how long a generated download link stays valid.
const presignTTL = 15 * time.Minute

type UploadRequest struct {
	ProjectID   uuid.UUID
	UploaderID  string
	FileType    string
	FileName    string
	FileSize    int64
	FileContent io.Reader // nil for link deliverables
	ContentType string
	LinkURL     string
	Status      Status // defaults to StatusDraft when empty
}

type Service interface {
	Upload(ctx context.Context, req UploadRequest) (*Deliverable, error)
	Get(ctx context.Context, id uuid.UUID) (*Deliverable, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]Deliverable, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, newStatus Status, reviewerID string) (*Deliverable, error)
	Delete(ctx context.Context, id uuid.UUID, actor string) error
	DownloadURL(ctx context.Context, id uuid.UUID) (string, error)

	Confirm(ctx context.Context, deliverableID uuid.UUID, userID string) (*Confirmation, error)
	ConfirmStatus(ctx context.Context, deliverableID uuid.UUID, userID string) (bool, error)
	ProjectConfirmStatus(ctx context.Context, projectID uuid.UUID, userID string) (*ProjectConfirmStatus, error)
}

type deliverableService struct {
	repo   Repository
	blobs  storage.BlobStore
	logger *zap.Logger
}

func NewService(repo Repository, blobs storage.BlobStore, logger *zap.Logger) Service {
	return &deliverableService{repo: repo, blobs: blobs, logger: logger}
}

// Upload accepts output from any identity, participant or not. The
// project only needs to exist.
func (s *deliverableService) Upload(ctx context.Context, req UploadRequest) (*Deliverable, error) {
	if req.UploaderID == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "uploader id is required")
	}
	if req.FileContent == nil && req.LinkURL == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "either a file or a link_url is required")
	}

	status := req.Status
	if status == "" {
		status = StatusDraft
	}
	if !StatusMachine.Valid(string(status)) {
		return nil, apperr.Newf(apperr.KindInvalidArgument, "unknown deliverable status %q", status)
	}

	project, err := s.repo.GetProject(ctx, req.ProjectID)
	if err != nil {
		return nil, apperr.Internal("lookup project", err)
	}
	if project == nil {
		return nil, apperr.New(apperr.KindNotFound, "project not found")
	}

	deliverable := &Deliverable{
		ID:         uuid.New(),
		ProjectID:  req.ProjectID,
		UploaderID: req.UploaderID,
		FileType:   req.FileType,
		FileName:   req.FileName,
		FileSize:   req.FileSize,
		LinkURL:    req.LinkURL,
		Status:     status,
	}

	if req.FileContent != nil {
		key := storage.DeliverableKey(req.ProjectID.String(), req.FileName)
		if err := s.blobs.Upload(ctx, key, req.FileContent, req.ContentType); err != nil {
			return nil, apperr.Internal("store payload", err)
		}
		deliverable.StorageKey = key
	}

	if err := s.repo.Create(ctx, deliverable); err != nil {
		return nil, apperr.Internal("create deliverable", err)
	}

	s.logger.Info("deliverable uploaded",
		zap.String("deliverable_id", deliverable.ID.String()),
		zap.String("project_id", deliverable.ProjectID.String()))
	return deliverable, nil
}

func (s *deliverableService) Get(ctx context.Context, id uuid.UUID) (*Deliverable, error) {
	deliverable, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("lookup deliverable", err)
	}
	if deliverable == nil {
		return nil, apperr.New(apperr.KindNotFound, "deliverable not found")
	}
	return deliverable, nil
}

func (s *deliverableService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]Deliverable, error) {
	result, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, apperr.Internal("list deliverables", err)
	}
	return result, nil
}

// UpdateStatus overwrites the status; the only guard is the enum domain.
// Moving a deliverable to reviewed may complete the project, so the
// completion predicate runs in the same transaction.
func (s *deliverableService) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus Status, reviewerID string) (*Deliverable, error) {
	if !StatusMachine.Valid(string(newStatus)) {
		return nil, apperr.Newf(apperr.KindInvalidArgument, "unknown deliverable status %q", newStatus)
	}

	var updated *Deliverable
	err := s.repo.Transact(ctx, func(tx Repository) error {
		deliverable, err := tx.GetByID(ctx, id)
		if err != nil {
			return apperr.Internal("lookup deliverable", err)
		}
		if deliverable == nil {
			return apperr.New(apperr.KindNotFound, "deliverable not found")
		}

		deliverable.Status = newStatus
		if reviewerID != "" {
			deliverable.ReviewerID = reviewerID
		}
		if err := tx.Update(ctx, deliverable); err != nil {
			return apperr.Internal("update deliverable", err)
		}
		updated = deliverable

		if newStatus == StatusReviewed {
			if _, err := s.evaluateCompletion(ctx, tx, deliverable.ProjectID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete is restricted to the uploader. Confirmations referencing the
// deliverable are removed in the same transaction so no dangling rows
// survive.
func (s *deliverableService) Delete(ctx context.Context, id uuid.UUID, actor string) error {
	var storageKey string
	err := s.repo.Transact(ctx, func(tx Repository) error {
		deliverable, err := tx.GetByID(ctx, id)
		if err != nil {
			return apperr.Internal("lookup deliverable", err)
		}
		if deliverable == nil {
			return apperr.New(apperr.KindNotFound, "deliverable not found")
		}
		if deliverable.UploaderID != actor {
			return apperr.New(apperr.KindUnauthorized, "only the uploader may delete a deliverable")
		}

		if err := tx.DeleteConfirmationsForDeliverable(ctx, id); err != nil {
			return apperr.Internal("delete confirmations", err)
		}
		if err := tx.Delete(ctx, id); err != nil {
			return apperr.Internal("delete deliverable", err)
		}
		storageKey = deliverable.StorageKey
		return nil
	})
	if err != nil {
		return err
	}

	if storageKey != "" {
		// Blob removal is best effort; the row is already gone.
		if err := s.blobs.Delete(ctx, storageKey); err != nil {
			s.logger.Warn("failed to delete payload blob",
				zap.String("storage_key", storageKey), zap.Error(err))
		}
	}
	return nil
}

func (s *deliverableService) DownloadURL(ctx context.Context, id uuid.UUID) (string, error) {
	deliverable, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if deliverable.LinkURL != "" {
		return deliverable.LinkURL, nil
	}
	if deliverable.StorageKey == "" {
		return "", apperr.New(apperr.KindInvalidState, "deliverable has no payload")
	}
	url, err := s.blobs.PresignGet(ctx, deliverable.StorageKey, presignTTL)
	if err != nil {
		return "", apperr.Internal("presign download", err)
	}
	return url, nil
}

// Confirm records a participant's acceptance of a reviewed deliverable.
// Confirming twice returns the existing record unchanged.
func (s *deliverableService) Confirm(ctx context.Context, deliverableID uuid.UUID, userID string) (*Confirmation, error) {
	if userID == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "user id is required")
	}

	var confirmation *Confirmation
	err := s.repo.Transact(ctx, func(tx Repository) error {
		deliverable, err := tx.GetByID(ctx, deliverableID)
		if err != nil {
			return apperr.Internal("lookup deliverable", err)
		}
		if deliverable == nil {
			return apperr.New(apperr.KindNotFound, "deliverable not found")
		}
		if deliverable.Status != StatusReviewed {
			return apperr.New(apperr.KindInvalidState, "only reviewed deliverables can be confirmed")
		}

		existing, err := tx.GetConfirmation(ctx, deliverableID, userID)
		if err != nil {
			return apperr.Internal("lookup confirmation", err)
		}
		if existing != nil {
			confirmation = existing
			return nil
		}

		confirmation = &Confirmation{
			ID:            uuid.New(),
			ProjectID:     deliverable.ProjectID,
			DeliverableID: deliverableID,
			UserID:        userID,
			Confirmed:     true,
			ConfirmedAt:   time.Now(),
		}
		if err := tx.CreateConfirmation(ctx, confirmation); err != nil {
			return apperr.Internal("create confirmation", err)
		}

		_, err = s.evaluateCompletion(ctx, tx, deliverable.ProjectID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return confirmation, nil
}

func (s *deliverableService) ConfirmStatus(ctx context.Context, deliverableID uuid.UUID, userID string) (bool, error) {
	confirmation, err := s.repo.GetConfirmation(ctx, deliverableID, userID)
	if err != nil {
		return false, apperr.Internal("lookup confirmation", err)
	}
	return confirmation != nil && confirmation.Confirmed, nil
}

func (s *deliverableService) ProjectConfirmStatus(ctx context.Context, projectID uuid.UUID, userID string) (*ProjectConfirmStatus, error) {
	reviewed, err := s.repo.ListReviewedByProject(ctx, projectID)
	if err != nil {
		return nil, apperr.Internal("list reviewed deliverables", err)
	}
	if len(reviewed) == 0 {
		return &ProjectConfirmStatus{}, nil
	}

	ids := make([]uuid.UUID, 0, len(reviewed))
	for _, d := range reviewed {
		ids = append(ids, d.ID)
	}
	count, err := s.repo.CountConfirmed(ctx, userID, ids)
	if err != nil {
		return nil, apperr.Internal("count confirmations", err)
	}

	return &ProjectConfirmStatus{
		AllConfirmed:   int(count) == len(reviewed),
		Total:          len(reviewed),
		ConfirmedCount: int(count),
	}, nil
}

// evaluateCompletion is the single authoritative completion predicate:
// a project completes once every approved participant has confirmed
// every reviewed deliverable. With no reviewed deliverables there is
// nothing to agree on and the project stays in progress.
func (s *deliverableService) evaluateCompletion(ctx context.Context, tx Repository, projectID uuid.UUID) (bool, error) {
	reviewed, err := tx.ListReviewedByProject(ctx, projectID)
	if err != nil {
		return false, apperr.Internal("list reviewed deliverables", err)
	}
	if len(reviewed) == 0 {
		return false, nil
	}

	participants, err := tx.ListApprovedApplicantIDs(ctx, projectID)
	if err != nil {
		return false, apperr.Internal("list participants", err)
	}

	for _, deliverable := range reviewed {
		confirmedBy, err := tx.ListConfirmedUserIDs(ctx, deliverable.ID)
		if err != nil {
			return false, apperr.Internal("list confirmations", err)
		}
		confirmed := make(map[string]bool, len(confirmedBy))
		for _, userID := range confirmedBy {
			confirmed[userID] = true
		}
		for _, participant := range participants {
			if !confirmed[participant] {
				return false, nil
			}
		}
	}

	completed, err := tx.MarkProjectCompleted(ctx, projectID)
	if err != nil {
		return false, apperr.Internal("mark project completed", err)
	}
	if completed {
		s.logger.Info("project completed by consensus",
			zap.String("project_id", projectID.String()),
			zap.Int("reviewed_deliverables", len(reviewed)),
			zap.Int("participants", len(participants)))
	}
	return true, nil
}
