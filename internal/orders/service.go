package orders

import (
	"errors"
	"fmt"

	"github.com/Ahmadvoltic/hyperscaleinboxes123-sub001/internal/logger"
	"github.com/Ahmadvoltic/hyperscaleinboxes123-sub001/internal/orders/db"
)

var ErrOrderNotFound = errors.New("order not found")

type DBLayer interface {
	CreateOrder(order db.Order) error
	GetOrderByID(id string) (*db.Order, error)
	ListOrders() ([]db.Order, error)
	UpdateOrderFields(id string, patch db.OrderPatch) (*db.Order, error)
	OrderExists(id string) (bool, error)
}

type EventPublisher interface {
	PublishOrderUpdated(order db.Order) error
}

type OrderService struct {
	DB     DBLayer
	Events EventPublisher
	Logger *logger.Logger
}

func NewOrderService(dbLayer DBLayer, events EventPublisher, log *logger.Logger) *OrderService {
	return &OrderService{DB: dbLayer, Events: events, Logger: log}
}

// ListOrders returns every order, newest first. Deliberately unpaginated:
// the admin dashboard operates at a scale where the full set is small.
func (s *OrderService) ListOrders() ([]db.Order, error) {
	orders, err := s.DB.ListOrders()
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// UpdateOrder applies a merge patch to one order. Fields the caller did not
// supply keep their stored values.
func (s *OrderService) UpdateOrder(id string, patch db.OrderPatch) (*db.Order, error) {
	order, err := s.DB.UpdateOrderFields(id, patch)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update order %s: %w", id, err)
	}

	s.Logger.LogOrder("UPDATE", id, fmt.Sprintf("status=%s progress=%d", order.Status, order.ProgressPercentage))

	if s.Events != nil {
		if err := s.Events.PublishOrderUpdated(*order); err != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("failed to publish order update for %s: %v", id, err))
		}
	}

	return order, nil
}

// CreateOrder persists a freshly finalized order. Used by the checkout
// finalizer, not by the admin API.
func (s *OrderService) CreateOrder(order db.Order) error {
	if err := s.DB.CreateOrder(order); err != nil {
		return fmt.Errorf("failed to create order %s: %w", order.OrderID, err)
	}
	s.Logger.LogOrder("CREATE", order.OrderID, "order created from checkout session")
	return nil
}

// OrderExists reports whether an order with the given id is already stored.
func (s *OrderService) OrderExists(id string) (bool, error) {
	return s.DB.OrderExists(id)
}

// ExportAccountsCSV renders one order's account payload as CSV bytes. A
// malformed payload degrades to a header-only export rather than failing.
func (s *OrderService) ExportAccountsCSV(id string) ([]byte, error) {
	order, err := s.DB.GetOrderByID(id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order %s: %w", id, err)
	}

	accounts, err := ParseAccountNames(order.AccountNames)
	if err != nil {
		s.Logger.Warn("ORDER", fmt.Sprintf("order %s has a malformed account payload, exporting zero rows: %v", id, err))
	}

	return RenderAccountsCSV(accounts), nil
}
