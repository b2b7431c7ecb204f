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

type OrderService struct {
	repo     *repository.Repository
	notifier *Notifier
	now      func() time.Time
	log      *zap.Logger
}

func NewOrderService(repo *repository.Repository, notifier *Notifier, log *zap.Logger) *OrderService {
	return &OrderService{repo: repo, notifier: notifier, now: time.Now, log: log}
}

type OrderListFilter struct {
	UserID *uuid.UUID
	Status *models.OrderStatus
	Limit  int
	Offset int
}

func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	userID, role, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	var ord *models.Order
	if role == models.RoleAdmin || role == models.RoleEngineer {
		ord, err = s.repo.Orders.GetByID(ctx, id)
	} else {
		ord, err = s.repo.Orders.GetByIDForUser(ctx, id, userID)
	}
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	return ord, nil
}

func (s *OrderService) ListOrders(ctx context.Context, f OrderListFilter) ([]models.Order, int64, error) {
	userID, role, err := requireAuth(ctx)
	if err != nil {
		return nil, 0, err
	}
	if role != models.RoleAdmin && role != models.RoleEngineer {
		f.UserID = &userID
	}

	ordersPtr, total, err := s.repo.Orders.List(ctx, repository.OrderListFilter{
		UserID: f.UserID,
		Status: f.Status,
		Limit:  f.Limit,
		Offset: f.Offset,
	})
	if err != nil {
		return nil, 0, err
	}

	orders := make([]models.Order, len(ordersPtr))
	for i, o := range ordersPtr {
		orders[i] = *o
	}
	return orders, total, nil
}

// ChangeStatus moves an order through the transition table. Admins may apply
// any allowed transition; owners may only cancel their own order.
func (s *OrderService) ChangeStatus(ctx context.Context, id uuid.UUID, next models.OrderStatus) (*models.Order, error) {
	userID, role, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if !next.Valid() {
		return nil, ErrInvalidTransition
	}

	ord, err := s.repo.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}

	isAdmin := role == models.RoleAdmin
	if !isAdmin {
		owns := ord.UserID != nil && *ord.UserID == userID
		if !owns || next != models.OrderStatusCancelled {
			return nil, ErrForbidden
		}
	}

	if !ord.Status.CanTransition(next) {
		return nil, ErrInvalidTransition
	}
	if ord.Status == next {
		return ord, nil
	}

	if err := s.repo.Orders.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	ord.Status = next

	s.notifyStatus(ctx, ord)
	return ord, nil
}

type DeliverFilesInput struct {
	OrderID     uuid.UUID
	OrderItemID uuid.UUID
	Links       []string
}

// DeliverFiles attaches deliverable links to an order item, marks the order
// delivered and flips the item back to unread for the customer. Empty or
// whitespace-only links are discarded; delivering nothing is an error.
func (s *OrderService) DeliverFiles(ctx context.Context, in DeliverFilesInput) (*models.OrderItem, error) {
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

	ord, err := s.repo.Orders.GetByID(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	if !ord.Status.CanTransition(models.OrderStatusDelivered) {
		return nil, ErrInvalidTransition
	}

	item, err := s.repo.OrderItems.GetByID(ctx, in.OrderItemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.OrderID != in.OrderID {
		return nil, ErrOrderItemNotFound
	}

	now := s.now()
	err = s.repo.WithTx(func(tx *repository.Repository) error {
		files := make([]models.DeliverableFile, 0, len(links))
		for _, l := range links {
			files = append(files, models.DeliverableFile{OrderItemID: item.ID, URL: l, CreatedAt: now})
		}
		if err := tx.OrderItems.AddDeliverables(ctx, files); err != nil {
			return err
		}
		if err := tx.OrderItems.SetUserIsRead(ctx, item.ID, false); err != nil {
			return err
		}
		return tx.Orders.UpdateStatus(ctx, in.OrderID, models.OrderStatusDelivered)
	})
	if err != nil {
		return nil, err
	}

	ord.Status = models.OrderStatusDelivered
	s.notifyStatus(ctx, ord)

	return s.repo.OrderItems.GetByID(ctx, item.ID)
}

func (s *OrderService) notifyStatus(ctx context.Context, ord *models.Order) {
	email := ord.GuestEmail
	if ord.UserID != nil {
		if u, err := s.repo.Users.GetByID(ctx, *ord.UserID); err == nil && u != nil {
			email = ord.PurchaserEmail(u.Email)
		}
	}
	s.notifier.Send(ctx, ord.ID.String(), EmailMessage{
		To:       email,
		Subject:  "Your order status changed",
		Template: TmplOrderStatus,
		Data: map[string]any{
			"order_id": ord.ID.String(),
			"status":   string(ord.Status),
		},
	})
}
