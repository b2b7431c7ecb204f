package service

import (
	"context"
	"strings"
	"time"

	"audio-mixing-backend/internal/models"
	"audio-mixing-backend/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RevisionService struct {
	repo     *repository.Repository
	notifier *Notifier
	now      func() time.Time
	log      *zap.Logger
}

func NewRevisionService(repo *repository.Repository, notifier *Notifier, log *zap.Logger) *RevisionService {
	return &RevisionService{repo: repo, notifier: notifier, now: time.Now, log: log}
}

type SubmitRevisionInput struct {
	OrderID    uuid.UUID
	OfferingID uuid.UUID
	Message    string
	// Set for paid revisions. A resubmit with an id already on file for this
	// (order, offering) edits the existing request instead of creating one.
	TransactionID *string
	Files         []string
}

// Submit files a revision request. The order item is locked for the whole
// transaction so two concurrent submissions cannot both pass the counter
// check; the counter never goes below zero.
func (s *RevisionService) Submit(ctx context.Context, in SubmitRevisionInput) (*models.Revision, error) {
	userID, role, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	ord, err := s.repo.Orders.GetByID(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	if role != models.RoleAdmin {
		if ord.UserID == nil || *ord.UserID != userID {
			return nil, ErrForbidden
		}
	}

	now := s.now()
	var rev *models.Revision
	err = s.repo.WithTx(func(tx *repository.Repository) error {
		item, err := tx.OrderItems.LockByOrderAndOffering(ctx, in.OrderID, in.OfferingID)
		if err != nil {
			return err
		}
		if item == nil {
			return ErrOrderItemNotFound
		}

		if in.TransactionID != nil && *in.TransactionID != "" {
			existing, err := tx.Revisions.FindPaid(ctx, in.OrderID, in.OfferingID, *in.TransactionID)
			if err != nil {
				return err
			}
			if existing != nil {
				// Paid revision edit: overwrite the message, no decrement.
				if err := tx.Revisions.UpdateMessage(ctx, existing.ID, in.Message); err != nil {
					return err
				}
				existing.Message = in.Message
				existing.AdminIsRead = false
				rev = existing
				return nil
			}
		}

		if item.MaxRevision <= 0 {
			return ErrMaxRevisionReached
		}
		if !ord.Status.CanTransition(models.OrderStatusRevisionRequested) {
			return ErrInvalidTransition
		}

		rev = &models.Revision{
			OrderID:       in.OrderID,
			OrderItemID:   item.ID,
			OfferingID:    in.OfferingID,
			UserID:        ord.UserID,
			Message:       in.Message,
			TransactionID: in.TransactionID,
			Status:        models.RevisionStatusRequested,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := tx.Revisions.Create(ctx, rev); err != nil {
			return err
		}

		files := trimmedFiles(rev.ID, in.Files, now)
		if err := tx.Revisions.AddFiles(ctx, files); err != nil {
			return err
		}

		if err := tx.OrderItems.SetMaxRevision(ctx, item.ID, item.MaxRevision-1); err != nil {
			return err
		}
		return tx.Orders.UpdateStatus(ctx, in.OrderID, models.OrderStatusRevisionRequested)
	})
	if err != nil {
		return nil, err
	}

	email := ord.GuestEmail
	if ord.UserID != nil {
		if u, uerr := s.repo.Users.GetByID(ctx, *ord.UserID); uerr == nil && u != nil {
			email = ord.PurchaserEmail(u.Email)
		}
	}
	s.notifier.Broadcast(ctx, ord.ID.String(), email, "Revision requested", TmplRevisionRequested, map[string]any{
		"order_id":    ord.ID.String(),
		"revision_id": rev.ID.String(),
	})

	return rev, nil
}

type UploadDeliveryInput struct {
	RevisionID uuid.UUID
	Links      []string
}

// UploadDelivery attaches revised files to a revision. Links are inserted as
// child rows, so earlier deliveries are never lost to a failed re-encode of
// the whole list.
func (s *RevisionService) UploadDelivery(ctx context.Context, in UploadDeliveryInput) (*models.Revision, error) {
	_, role, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if role != models.RoleAdmin && role != models.RoleEngineer {
		return nil, ErrForbidden
	}

	links := make([]string, 0, len(in.Links))
	for _, l := range in.Links {
		if t := strings.TrimSpace(l); t != "" {
			links = append(links, t)
		}
	}
	if len(links) == 0 {
		return nil, ErrNoDeliverables
	}

	rev, err := s.repo.Revisions.GetByID(ctx, in.RevisionID)
	if err != nil {
		return nil, err
	}
	if rev == nil {
		return nil, ErrRevisionNotFound
	}

	ord, err := s.repo.Orders.GetByID(ctx, rev.OrderID)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	if !ord.Status.CanTransition(models.OrderStatusDelivered) {
		return nil, ErrInvalidTransition
	}

	now := s.now()
	err = s.repo.WithTx(func(tx *repository.Repository) error {
		if err := tx.Revisions.AddFiles(ctx, trimmedFiles(rev.ID, links, now)); err != nil {
			return err
		}
		if err := tx.Revisions.SetStatus(ctx, rev.ID, models.RevisionStatusDelivered); err != nil {
			return err
		}
		if err := tx.Revisions.SetUserIsRead(ctx, rev.ID, false); err != nil {
			return err
		}
		return tx.Orders.UpdateStatus(ctx, rev.OrderID, models.OrderStatusDelivered)
	})
	if err != nil {
		return nil, err
	}

	email := ord.GuestEmail
	if ord.UserID != nil {
		if u, uerr := s.repo.Users.GetByID(ctx, *ord.UserID); uerr == nil && u != nil {
			email = ord.PurchaserEmail(u.Email)
		}
	}
	s.notifier.Send(ctx, ord.ID.String(), EmailMessage{
		To:       email,
		Subject:  "Your revision is ready",
		Template: TmplRevisionDelivered,
		Data:     map[string]any{"order_id": ord.ID.String(), "revision_id": rev.ID.String()},
	})

	return s.repo.Revisions.GetByID(ctx, rev.ID)
}

type FlagTarget string

const (
	FlagTargetOrder    FlagTarget = "order"
	FlagTargetRevision FlagTarget = "revision"
)

type FlagReadInput struct {
	Type        FlagTarget
	OrderID     uuid.UUID
	OrderItemID uuid.UUID
	// true flips the admin flag, false the user flag.
	Admin bool
}

// FlagRead marks an order item or its latest unread revision as read for one
// side of the conversation.
func (s *RevisionService) FlagRead(ctx context.Context, in FlagReadInput) error {
	_, role, err := requireAuth(ctx)
	if err != nil {
		return err
	}
	if in.Admin && role != models.RoleAdmin && role != models.RoleEngineer {
		return ErrForbidden
	}

	switch in.Type {
	case FlagTargetOrder:
		item, err := s.repo.OrderItems.GetByID(ctx, in.OrderItemID)
		if err != nil {
			return err
		}
		if item == nil || item.OrderID != in.OrderID {
			return ErrOrderItemNotFound
		}
		if in.Admin {
			return s.repo.OrderItems.SetAdminIsRead(ctx, item.ID, true)
		}
		return s.repo.OrderItems.SetUserIsRead(ctx, item.ID, true)

	case FlagTargetRevision:
		onlyUnread := true
		rev, err := s.repo.Revisions.FindByOrderAndItem(ctx, in.OrderID, in.OrderItemID, &onlyUnread)
		if err != nil {
			return err
		}
		if rev == nil {
			return ErrRevisionNotFound
		}
		if in.Admin {
			return s.repo.Revisions.SetAdminIsRead(ctx, rev.ID, true)
		}
		return s.repo.Revisions.SetUserIsRead(ctx, rev.ID, true)
	}
	return ErrNotFound
}

func (s *RevisionService) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Revision, error) {
	userID, role, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	ord, err := s.repo.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	if role != models.RoleAdmin && role != models.RoleEngineer {
		if ord.UserID == nil || *ord.UserID != userID {
			return nil, ErrForbidden
		}
	}
	return s.repo.Revisions.ListByOrder(ctx, orderID)
}

func trimmedFiles(revisionID uuid.UUID, links []string, now time.Time) []models.RevisionFile {
	files := make([]models.RevisionFile, 0, len(links))
	for _, l := range links {
		if t := strings.TrimSpace(l); t != "" {
			files = append(files, models.RevisionFile{RevisionID: revisionID, URL: t, CreatedAt: now})
		}
	}
	return files
}
