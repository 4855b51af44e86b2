package orders

import (
	"errors"
	"fmt"

	"izakaya-order/internal/models"
)

// ErrIllegalTransition is wrapped by every TransitionError
var ErrIllegalTransition = errors.New("illegal status transition")

// TransitionError reports a status change the lifecycle does not allow
type TransitionError struct {
	OrderID string
	From    models.OrderStatus
	To      models.OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("order %s: cannot move from %s to %s", e.OrderID, e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrIllegalTransition
}

// pending -> served -> paid; pending and served may be cancelled; paid and cancelled are final
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.StatusPending: {models.StatusServed, models.StatusCancelled},
	models.StatusServed:  {models.StatusPaid, models.StatusCancelled},
}

// CanTransition reports whether an order in from may move to to.
// Staying in the same status is always allowed and changes nothing.
func CanTransition(from, to models.OrderStatus) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
