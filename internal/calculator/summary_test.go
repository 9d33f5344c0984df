package calculator

import (
	"testing"
	"time"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
)

func tx(typ models.TransactionType, amount, category string, date time.Time) *models.Transaction {
	return &models.Transaction{Type: typ, Amount: d(amount), CategoryID: category, Date: date.Unix()}
}

func TestSummarize(t *testing.T) {
	base := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	txns := []*models.Transaction{
		tx(models.TransactionIncome, "1000", "salary", base),
		tx(models.TransactionExpense, "40", "food", base),
		tx(models.TransactionExpense, "60", "food", base.Add(time.Hour)),
		tx(models.TransactionExpense, "200", "rent", base),
		tx(models.TransactionExpense, "999", "rent", base.AddDate(0, 1, 0)), // outside range
	}

	from := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC).Unix()
	to := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC).Unix()
	s := Summarize(txns, from, to)

	if !s.Income.Equal(d("1000")) {
		t.Errorf("Income = %s, want 1000", s.Income)
	}
	if !s.Expense.Equal(d("300")) {
		t.Errorf("Expense = %s, want 300", s.Expense)
	}
	if !s.Net.Equal(d("700")) {
		t.Errorf("Net = %s, want 700", s.Net)
	}
	if s.Count != 4 {
		t.Errorf("Count = %d, want 4", s.Count)
	}
	if len(s.ByCategory) != 2 {
		t.Fatalf("ByCategory len = %d, want 2", len(s.ByCategory))
	}
	if s.ByCategory[0].CategoryID != "rent" || s.ByCategory[1].CategoryID != "food" {
		t.Errorf("ByCategory order = %v, want rent then food", s.ByCategory)
	}
	if s.ByCategory[1].Count != 2 {
		t.Errorf("food count = %d, want 2", s.ByCategory[1].Count)
	}
}

func TestMonthlyTrend(t *testing.T) {
	txns := []*models.Transaction{
		tx(models.TransactionIncome, "10", "", time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)),
		tx(models.TransactionExpense, "4", "", time.Date(2026, time.January, 6, 0, 0, 0, 0, time.UTC)),
		tx(models.TransactionExpense, "7", "", time.Date(2026, time.December, 31, 23, 0, 0, 0, time.UTC)),
		tx(models.TransactionExpense, "9", "", time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)),
	}
	months := MonthlyTrend(txns, 2026, time.UTC)
	if len(months) != 12 {
		t.Fatalf("len = %d, want 12", len(months))
	}
	if !months[0].Income.Equal(d("10")) || !months[0].Expense.Equal(d("4")) {
		t.Errorf("January = %+v", months[0])
	}
	if !months[11].Expense.Equal(d("7")) {
		t.Errorf("December expense = %s, want 7", months[11].Expense)
	}
}

func TestComputeBudgetProgress(t *testing.T) {
	now := time.Date(2026, time.May, 14, 9, 0, 0, 0, time.UTC) // Thursday
	budget := &models.Budget{CategoryID: "food", Amount: d("100"), Period: models.BudgetMonthly}
	txns := []*models.Transaction{
		tx(models.TransactionExpense, "30", "food", time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)),
		tx(models.TransactionExpense, "50", "food", time.Date(2026, time.May, 13, 0, 0, 0, 0, time.UTC)),
		tx(models.TransactionExpense, "80", "fun", time.Date(2026, time.May, 13, 0, 0, 0, 0, time.UTC)),
		tx(models.TransactionExpense, "30", "food", time.Date(2026, time.April, 30, 0, 0, 0, 0, time.UTC)),
		tx(models.TransactionIncome, "30", "food", time.Date(2026, time.May, 2, 0, 0, 0, 0, time.UTC)),
	}

	p := ComputeBudgetProgress(budget, txns, now)
	if !p.Spent.Equal(d("80")) {
		t.Errorf("Spent = %s, want 80", p.Spent)
	}
	if !p.Remaining.Equal(d("20")) {
		t.Errorf("Remaining = %s, want 20", p.Remaining)
	}
	if !p.Percent.Equal(d("80")) {
		t.Errorf("Percent = %s, want 80", p.Percent)
	}
	if p.Exceeded {
		t.Error("budget should not be exceeded")
	}

	overall := &models.Budget{Amount: d("100"), Period: models.BudgetMonthly}
	if p := ComputeBudgetProgress(overall, txns, now); !p.Exceeded {
		t.Errorf("overall budget should be exceeded, spent %s", p.Spent)
	}
}

func TestPeriodBounds(t *testing.T) {
	now := time.Date(2026, time.May, 14, 9, 0, 0, 0, time.UTC) // Thursday

	start, end := PeriodBounds(models.BudgetWeekly, now)
	if want := time.Date(2026, time.May, 11, 0, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Errorf("weekly start = %v, want %v", start, want)
	}
	if end.Sub(start) != 7*24*time.Hour {
		t.Errorf("weekly window = %v", end.Sub(start))
	}

	start, _ = PeriodBounds(models.BudgetYearly, now)
	if want := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Errorf("yearly start = %v, want %v", start, want)
	}
}

func TestContactBalances(t *testing.T) {
	debts := []*models.Debt{
		{ContactID: "c1", Direction: models.DebtOwedToMe, CurrentAmount: d("30"), Currency: "USD", Status: models.DebtOpen},
		{ContactID: "c1", Direction: models.DebtIOwe, CurrentAmount: d("10"), Currency: "USD", Status: models.DebtPartiallyPaid},
		{ContactID: "c1", Direction: models.DebtOwedToMe, CurrentAmount: d("0"), Currency: "USD", Status: models.DebtPaid},
		{ContactID: "c2", Direction: models.DebtIOwe, CurrentAmount: d("5"), Currency: "EUR", Status: models.DebtOverdue},
		{ContactID: "", Direction: models.DebtIOwe, CurrentAmount: d("5"), Currency: "EUR", Status: models.DebtOpen},
	}

	got := ContactBalances(debts)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ContactID != "c1" || !got[0].Net.Equal(d("20")) || got[0].OpenDebts != 2 {
		t.Errorf("c1 balance = %+v", got[0])
	}
	if got[1].ContactID != "c2" || !got[1].Net.Equal(d("-5")) {
		t.Errorf("c2 balance = %+v", got[1])
	}
}

func TestContribute(t *testing.T) {
	goal := &models.Goal{TargetAmount: d("100"), Status: models.GoalActive}
	if err := Contribute(goal, d("60"), 1); err != nil {
		t.Fatalf("Contribute failed: %v", err)
	}
	if goal.Status != models.GoalActive {
		t.Errorf("Status = %s, want active", goal.Status)
	}
	if got := GoalProgress(goal); !got.Equal(d("60")) {
		t.Errorf("GoalProgress = %s, want 60", got)
	}
	if err := Contribute(goal, d("50"), 2); err != nil {
		t.Fatalf("Contribute failed: %v", err)
	}
	if goal.Status != models.GoalCompleted {
		t.Errorf("Status = %s, want completed", goal.Status)
	}
	if got := GoalProgress(goal); !got.Equal(d("100")) {
		t.Errorf("GoalProgress = %s, want capped 100", got)
	}
	if err := Contribute(goal, d("1"), 3); err == nil {
		t.Error("expected error contributing to completed goal")
	}
}
