package models

// OrderStatus is a closed set of order states. Transitions go through
// CanTransition; handlers never assign arbitrary values.
type OrderStatus string

const (
	OrderStatusPending           OrderStatus = "ORDER_STATUS_PENDING"
	OrderStatusInProcess         OrderStatus = "ORDER_STATUS_IN_PROCESS"
	OrderStatusDelivered         OrderStatus = "ORDER_STATUS_DELIVERED"
	OrderStatusCancelled         OrderStatus = "ORDER_STATUS_CANCELLED"
	OrderStatusRevisionRequested OrderStatus = "ORDER_STATUS_REVISION_REQUESTED"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:           {OrderStatusInProcess, OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusInProcess:         {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:         {OrderStatusRevisionRequested},
	OrderStatusRevisionRequested: {OrderStatusDelivered},
	OrderStatusCancelled:         {},
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransition reports whether moving from s to next is allowed.
// A no-op transition (same state) is always allowed.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
