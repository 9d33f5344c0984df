package calculator

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrZeroSubtotal    = errors.New("subtotal cannot be zero")
	ErrNoParticipants  = errors.New("must have at least one participant")
	ErrTotalBelowItems = errors.New("total cannot be less than subtotal")
)

// PersonShare represents the calculated share of a shared expense for one person.
type PersonShare struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// SplitItem represents a single line of a shared expense.
type SplitItem struct {
	Description string
	Amount      decimal.Decimal
	AssignedTo  []string
}

// SplitShares computes how much each participant owes of a shared expense,
// including a proportional share of tax and tip:
//
//	person_total = person_subtotal × (1 + (total - subtotal) / subtotal)
//
// With no items the total is split equally. Results are rounded to cents.
func SplitShares(items []SplitItem, total, subtotal decimal.Decimal, participants []string) (map[string]*PersonShare, error) {
	if subtotal.IsZero() {
		return nil, ErrZeroSubtotal
	}
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}
	if total.LessThan(subtotal) {
		return nil, ErrTotalBelowItems
	}

	tax := total.Sub(subtotal)
	shares := make(map[string]*PersonShare, len(participants))
	for _, p := range participants {
		shares[p] = &PersonShare{}
	}

	if len(items) == 0 {
		n := decimal.NewFromInt(int64(len(participants)))
		for _, share := range shares {
			share.Subtotal = subtotal.Div(n).Round(2)
			share.Tax = tax.Div(n).Round(2)
			share.Total = total.Div(n).Round(2)
		}
		return shares, nil
	}

	for _, item := range items {
		if len(item.AssignedTo) == 0 {
			continue
		}
		perPerson := item.Amount.Div(decimal.NewFromInt(int64(len(item.AssignedTo))))
		for _, person := range item.AssignedTo {
			if share, ok := shares[person]; ok {
				share.Subtotal = share.Subtotal.Add(perPerson)
			}
		}
	}

	rate := tax.Div(subtotal)
	for _, share := range shares {
		share.Tax = share.Subtotal.Mul(rate).Round(2)
		share.Subtotal = share.Subtotal.Round(2)
		share.Total = share.Subtotal.Add(share.Tax)
	}

	return shares, nil
}
