package booking

import "github.com/BruksfildServices01/barbershop-core/internal/httperr"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

type PaymentStatus string

const (
	PaymentNotPaid PaymentStatus = "not_paid"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

// Actions on the booking state machine.
const (
	ActionConfirm  = "confirm"
	ActionComplete = "complete"
	ActionCancel   = "cancel"
	ActionNoShow   = "no_show"
	ActionRefund   = "refund"
	ActionExpire   = "expire"
)

var transitionMap = map[string][]Status{
	ActionConfirm:  {StatusPending},
	ActionComplete: {StatusConfirmed},
	ActionCancel:   {StatusConfirmed},
	ActionNoShow:   {StatusPending, StatusConfirmed},
	ActionRefund:   {StatusConfirmed, StatusCompleted},
	ActionExpire:   {StatusPending},
}

// statusActions maps a target status requested through ChangeStatus to the
// action that reaches it. Expire and refund are not reachable this way.
var statusActions = map[Status]string{
	StatusConfirmed: ActionConfirm,
	StatusCompleted: ActionComplete,
	StatusCancelled: ActionCancel,
	StatusNoShow:    ActionNoShow,
}

func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return st, true
	}
	return "", false
}

func ValidTransition(action string, from Status) bool {
	allowed, ok := transitionMap[action]
	if !ok {
		return false
	}
	for _, st := range allowed {
		if st == from {
			return true
		}
	}
	return false
}

// ActionFor resolves the action behind a ChangeStatus request.
func ActionFor(target Status) (string, error) {
	action, ok := statusActions[target]
	if !ok {
		return "", httperr.New(httperr.CodeIllegalTransition, "status %q cannot be set directly", target)
	}
	return action, nil
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// Active bookings hold their slot. Only cancellation frees it.
func (s Status) Active() bool {
	return s != StatusCancelled
}

// ActiveStatuses lists the statuses that claim a slot, for storage queries.
func ActiveStatuses() []string {
	return []string{
		string(StatusPending),
		string(StatusConfirmed),
		string(StatusCompleted),
		string(StatusNoShow),
	}
}
