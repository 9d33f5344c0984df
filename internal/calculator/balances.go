package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
)

// ContactBalance is the outstanding position with one contact in one currency.
type ContactBalance struct {
	ContactID string
	Currency  string
	OwedToMe  decimal.Decimal // What the contact still owes the user
	IOwe      decimal.Decimal // What the user still owes the contact
	Net       decimal.Decimal // Positive = contact owes the user
	OpenDebts int
}

// ContactBalances aggregates unpaid debts per contact and currency.
// Paid debts and debts without a contact are ignored. The result is sorted by
// contact then currency.
func ContactBalances(debts []*models.Debt) []ContactBalance {
	type key struct{ contact, currency string }
	balances := make(map[key]*ContactBalance)

	for _, d := range debts {
		if d.ContactID == "" || d.Status == models.DebtPaid || !d.CurrentAmount.IsPositive() {
			continue
		}
		k := key{d.ContactID, d.Currency}
		bal, ok := balances[k]
		if !ok {
			bal = &ContactBalance{ContactID: d.ContactID, Currency: d.Currency}
			balances[k] = bal
		}
		switch d.Direction {
		case models.DebtOwedToMe:
			bal.OwedToMe = bal.OwedToMe.Add(d.CurrentAmount)
		case models.DebtIOwe:
			bal.IOwe = bal.IOwe.Add(d.CurrentAmount)
		}
		bal.OpenDebts++
	}

	out := make([]ContactBalance, 0, len(balances))
	for _, bal := range balances {
		bal.Net = bal.OwedToMe.Sub(bal.IOwe)
		out = append(out, *bal)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ContactID != out[j].ContactID {
			return out[i].ContactID < out[j].ContactID
		}
		return out[i].Currency < out[j].Currency
	})
	return out
}
