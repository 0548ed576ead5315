package request

import "github.com/BruksfildServices01/barbershop-core/internal/httperr"

type Type string

const (
	TypePTO         Type = "pto"
	TypeSick        Type = "sick"
	TypePriceChange Type = "price_change"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDenied   Status = "denied"
)

func ParseType(s string) (Type, bool) {
	switch t := Type(s); t {
	case TypePTO, TypeSick, TypePriceChange:
		return t, true
	}
	return "", false
}

func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusPending, StatusApproved, StatusDenied:
		return st, true
	}
	return "", false
}

func (t Type) IsLeave() bool {
	return t == TypePTO || t == TypeSick
}

// CanRespond: approved and denied are terminal.
func CanRespond(current Status) error {
	if current != StatusPending {
		return httperr.New(httperr.CodeIllegalTransition, "request is already %s", current)
	}
	return nil
}
