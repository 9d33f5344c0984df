package calculator

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSplitShares(t *testing.T) {
	tests := []struct {
		name         string
		items        []SplitItem
		total        string
		subtotal     string
		participants []string
		wantErr      error
		validateFunc func(t *testing.T, shares map[string]*PersonShare)
	}{
		{
			name: "simple two-person split with tax",
			items: []SplitItem{
				{Description: "Pizza", Amount: d("20"), AssignedTo: []string{"me", "alice"}},
				{Description: "Salad", Amount: d("10"), AssignedTo: []string{"me"}},
			},
			total:        "33",
			subtotal:     "30",
			participants: []string{"me", "alice"},
			validateFunc: func(t *testing.T, shares map[string]*PersonShare) {
				// me: subtotal = 10 + 10 = 20, tax = 20 * (3/30) = 2, total = 22
				// alice: subtotal = 10, tax = 1, total = 11
				if got := shares["me"].Total; !got.Equal(d("22")) {
					t.Errorf("me total = %s, want 22", got)
				}
				if got := shares["alice"].Tax; !got.Equal(d("1")) {
					t.Errorf("alice tax = %s, want 1", got)
				}
				if got := shares["alice"].Total; !got.Equal(d("11")) {
					t.Errorf("alice total = %s, want 11", got)
				}
			},
		},
		{
			name:         "zero subtotal should error",
			items:        []SplitItem{{Description: "Item", Amount: d("10"), AssignedTo: []string{"me"}}},
			total:        "10",
			subtotal:     "0",
			participants: []string{"me"},
			wantErr:      ErrZeroSubtotal,
		},
		{
			name:         "no participants should error",
			total:        "10",
			subtotal:     "10",
			participants: []string{},
			wantErr:      ErrNoParticipants,
		},
		{
			name:         "total below subtotal should error",
			total:        "9",
			subtotal:     "10",
			participants: []string{"me"},
			wantErr:      ErrTotalBelowItems,
		},
		{
			name:         "no items - split equally",
			total:        "33",
			subtotal:     "30",
			participants: []string{"me", "alice"},
			validateFunc: func(t *testing.T, shares map[string]*PersonShare) {
				for _, p := range []string{"me", "alice"} {
					if got := shares[p].Total; !got.Equal(d("16.5")) {
						t.Errorf("%s total = %s, want 16.5", p, got)
					}
					if got := shares[p].Tax; !got.Equal(d("1.5")) {
						t.Errorf("%s tax = %s, want 1.5", p, got)
					}
				}
			},
		},
		{
			name: "three-way item rounds to cents",
			items: []SplitItem{
				{Description: "Cab", Amount: d("10"), AssignedTo: []string{"me", "alice", "bob"}},
			},
			total:        "10",
			subtotal:     "10",
			participants: []string{"me", "alice", "bob"},
			validateFunc: func(t *testing.T, shares map[string]*PersonShare) {
				if got := shares["bob"].Total; !got.Equal(d("3.33")) {
					t.Errorf("bob total = %s, want 3.33", got)
				}
			},
		},
		{
			name: "item assigned to unknown person is ignored",
			items: []SplitItem{
				{Description: "Snack", Amount: d("4"), AssignedTo: []string{"me", "stranger"}},
			},
			total:        "4",
			subtotal:     "4",
			participants: []string{"me"},
			validateFunc: func(t *testing.T, shares map[string]*PersonShare) {
				if _, ok := shares["stranger"]; ok {
					t.Error("stranger should not get a share")
				}
				if got := shares["me"].Subtotal; !got.Equal(d("2")) {
					t.Errorf("me subtotal = %s, want 2", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := SplitShares(tt.items, d(tt.total), d(tt.subtotal), tt.participants)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("SplitShares() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("SplitShares() unexpected error: %v", err)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, shares)
			}
		})
	}
}
