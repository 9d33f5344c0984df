package service

import (
	"context"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/api"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
)

func ptr[T any](v T) *T {
	return &v
}

func TestTransactionService(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "alice@example.com")
	otherToken, _ := env.register(t, "mallory@example.com")

	lunch := mustCall[api.TransactionResponse](t, env, api.TransactionServiceName, "CreateTransaction", token, &api.CreateTransactionRequest{
		Type: "expense", Amount: dec("12.50"), CategoryID: "sys-food", Description: "Lunch",
	}).Transaction
	mustCall[api.TransactionResponse](t, env, api.TransactionServiceName, "CreateTransaction", token, &api.CreateTransactionRequest{
		Type: "income", Amount: dec("1000"), Currency: "usd", CategoryID: "sys-salary",
	})

	if lunch.Currency != "USD" || lunch.Date == 0 {
		t.Errorf("lunch defaults: currency=%q date=%d", lunch.Currency, lunch.Date)
	}

	t.Run("validation", func(t *testing.T) {
		cases := []struct {
			name string
			req  *api.CreateTransactionRequest
		}{
			{"zero amount", &api.CreateTransactionRequest{Type: "expense", Amount: dec("0")}},
			{"negative amount", &api.CreateTransactionRequest{Type: "expense", Amount: dec("-5")}},
			{"bad type", &api.CreateTransactionRequest{Type: "transfer", Amount: dec("5")}},
			{"category of other type", &api.CreateTransactionRequest{Type: "expense", Amount: dec("5"), CategoryID: "sys-salary"}},
			{"unknown category", &api.CreateTransactionRequest{Type: "expense", Amount: dec("5"), CategoryID: "nope"}},
			{"unknown currency", &api.CreateTransactionRequest{Type: "expense", Amount: dec("5"), Currency: "XXX"}},
			{"subcategory without category", &api.CreateTransactionRequest{Type: "expense", Amount: dec("5"), SubcategoryID: "sys-food"}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := call[api.TransactionResponse](env, api.TransactionServiceName, "CreateTransaction", token, tc.req)
				wantCode(t, err, connect.CodeInvalidArgument)
			})
		}
	})

	t.Run("list and filter", func(t *testing.T) {
		all := mustCall[api.ListTransactionsResponse](t, env, api.TransactionServiceName, "ListTransactions", token, &api.ListTransactionsRequest{})
		if len(all.Transactions) != 2 {
			t.Fatalf("transactions = %d, want 2", len(all.Transactions))
		}
		expenses := mustCall[api.ListTransactionsResponse](t, env, api.TransactionServiceName, "ListTransactions", token, &api.ListTransactionsRequest{Type: "expense"})
		if len(expenses.Transactions) != 1 || expenses.Transactions[0].ID != lunch.ID {
			t.Errorf("expenses = %+v", expenses.Transactions)
		}
		other := mustCall[api.ListTransactionsResponse](t, env, api.TransactionServiceName, "ListTransactions", otherToken, &api.ListTransactionsRequest{})
		if len(other.Transactions) != 0 {
			t.Errorf("other user sees %d transactions", len(other.Transactions))
		}
		_, err := call[api.TransactionResponse](env, api.TransactionServiceName, "GetTransaction", otherToken, &api.IDRequest{ID: lunch.ID})
		wantCode(t, err, connect.CodeNotFound)
	})

	t.Run("summary", func(t *testing.T) {
		sum := mustCall[api.GetSummaryResponse](t, env, api.TransactionServiceName, "GetSummary", token, &api.GetSummaryRequest{})
		if !sum.Income.Equal(dec("1000")) || !sum.Expense.Equal(dec("12.5")) || !sum.Net.Equal(dec("987.5")) {
			t.Errorf("summary = income %s expense %s net %s", sum.Income, sum.Expense, sum.Net)
		}
		if len(sum.ByCategory) != 1 || sum.ByCategory[0].CategoryID != "sys-food" {
			t.Errorf("by category = %+v", sum.ByCategory)
		}

		trend := mustCall[api.GetMonthlyTrendResponse](t, env, api.TransactionServiceName, "GetMonthlyTrend", token, &api.GetMonthlyTrendRequest{})
		if len(trend.Months) != 12 {
			t.Fatalf("months = %d, want 12", len(trend.Months))
		}
		month := trend.Months[int(time.Unix(lunch.Date, 0).UTC().Month())-1]
		if !month.Expense.Equal(dec("12.5")) {
			t.Errorf("month expense = %s, want 12.5", month.Expense)
		}
	})

	t.Run("update and delete", func(t *testing.T) {
		res := mustCall[api.TransactionResponse](t, env, api.TransactionServiceName, "UpdateTransaction", token, &api.UpdateTransactionRequest{
			ID: lunch.ID, Amount: ptr(dec("20")), Description: ptr("Team lunch"),
		})
		if !res.Transaction.Amount.Equal(dec("20")) || res.Transaction.Description != "Team lunch" {
			t.Errorf("updated = %+v", res.Transaction)
		}
		_, err := call[api.TransactionResponse](env, api.TransactionServiceName, "UpdateTransaction", token, &api.UpdateTransactionRequest{
			ID: lunch.ID, Type: ptr("income"),
		})
		wantCode(t, err, connect.CodeInvalidArgument)

		mustCall[api.Empty](t, env, api.TransactionServiceName, "DeleteTransaction", token, &api.IDRequest{ID: lunch.ID})
		_, err = call[api.TransactionResponse](env, api.TransactionServiceName, "GetTransaction", token, &api.IDRequest{ID: lunch.ID})
		wantCode(t, err, connect.CodeNotFound)
	})
}

func TestCategoryService(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "alice@example.com")

	coffee := mustCall[api.CategoryResponse](t, env, api.CategoryServiceName, "CreateCategory", token, &api.CreateCategoryRequest{
		ParentID: "sys-food", Name: "Coffee", Type: "expense", Color: "#6b4f2a",
	}).Category

	t.Run("subcategory rules", func(t *testing.T) {
		_, err := call[api.CategoryResponse](env, api.CategoryServiceName, "CreateCategory", token, &api.CreateCategoryRequest{
			ParentID: "sys-food", Name: "Refunds", Type: "income",
		})
		wantCode(t, err, connect.CodeInvalidArgument)

		_, err = call[api.CategoryResponse](env, api.CategoryServiceName, "CreateCategory", token, &api.CreateCategoryRequest{
			ParentID: coffee.ID, Name: "Espresso", Type: "expense",
		})
		wantCode(t, err, connect.CodeInvalidArgument)

		_, err = call[api.CategoryResponse](env, api.CategoryServiceName, "CreateCategory", token, &api.CreateCategoryRequest{
			Name: "Bad color", Type: "expense", Color: "brown",
		})
		wantCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("system categories are read-only", func(t *testing.T) {
		_, err := call[api.CategoryResponse](env, api.CategoryServiceName, "UpdateCategory", token, &api.UpdateCategoryRequest{ID: "sys-food", Name: ptr("Groceries")})
		wantCode(t, err, connect.CodePermissionDenied)
		_, err = call[api.Empty](env, api.CategoryServiceName, "DeleteCategory", token, &api.IDRequest{ID: "sys-food"})
		wantCode(t, err, connect.CodePermissionDenied)
	})

	t.Run("transactions use subcategories", func(t *testing.T) {
		mustCall[api.TransactionResponse](t, env, api.TransactionServiceName, "CreateTransaction", token, &api.CreateTransactionRequest{
			Type: "expense", Amount: dec("3.20"), CategoryID: "sys-food", SubcategoryID: coffee.ID,
		})
		_, err := call[api.TransactionResponse](env, api.TransactionServiceName, "CreateTransaction", token, &api.CreateTransactionRequest{
			Type: "expense", Amount: dec("3.20"), CategoryID: "sys-transport", SubcategoryID: coffee.ID,
		})
		wantCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("list, rename, delete", func(t *testing.T) {
		list := mustCall[api.ListCategoriesResponse](t, env, api.CategoryServiceName, "ListCategories", token, &api.Empty{})
		var system, own int
		for _, c := range list.Categories {
			if c.System {
				system++
			} else {
				own++
			}
		}
		if system == 0 || own != 1 {
			t.Errorf("system = %d, own = %d", system, own)
		}

		res := mustCall[api.CategoryResponse](t, env, api.CategoryServiceName, "UpdateCategory", token, &api.UpdateCategoryRequest{ID: coffee.ID, Name: ptr("Cafés")})
		if res.Category.Name != "Cafés" || res.Category.ParentID != "sys-food" {
			t.Errorf("renamed = %+v", res.Category)
		}
		mustCall[api.Empty](t, env, api.CategoryServiceName, "DeleteCategory", token, &api.IDRequest{ID: coffee.ID})
	})
}

func TestDebtService(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "alice@example.com")

	bob := mustCall[api.ContactResponse](t, env, api.ContactServiceName, "CreateContact", token, &api.ContactRequest{Name: "Bob", Email: "Bob@Example.com"}).Contact
	if bob.Email != "bob@example.com" {
		t.Errorf("contact email = %q", bob.Email)
	}

	debt := mustCall[api.DebtResponse](t, env, api.DebtServiceName, "CreateDebt", token, &api.CreateDebtRequest{
		ContactID: bob.ID, Direction: "owed_to_me", Description: "Concert tickets", Amount: dec("100"),
	}).Debt
	if debt.Status != "open" || !debt.CurrentAmount.Equal(dec("100")) {
		t.Fatalf("new debt = %+v", debt)
	}

	t.Run("partial payment books income", func(t *testing.T) {
		res := mustCall[api.DebtResponse](t, env, api.DebtServiceName, "AddPayment", token, &api.AddPaymentRequest{
			DebtID: debt.ID, Amount: dec("40"), RecordTransaction: true,
		})
		if res.Debt.Status != "partially_paid" || !res.Debt.CurrentAmount.Equal(dec("60")) || len(res.Payments) != 1 {
			t.Errorf("after payment = %+v, payments = %d", res.Debt, len(res.Payments))
		}
		txns := mustCall[api.ListTransactionsResponse](t, env, api.TransactionServiceName, "ListTransactions", token, &api.ListTransactionsRequest{ContactID: bob.ID})
		if len(txns.Transactions) != 1 || txns.Transactions[0].Type != "income" || !txns.Transactions[0].Amount.Equal(dec("40")) {
			t.Errorf("payment transactions = %+v", txns.Transactions)
		}
	})

	t.Run("overpayment is rejected", func(t *testing.T) {
		_, err := call[api.DebtResponse](env, api.DebtServiceName, "AddPayment", token, &api.AddPaymentRequest{DebtID: debt.ID, Amount: dec("60.01")})
		wantCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("balances", func(t *testing.T) {
		res := mustCall[api.ContactBalancesResponse](t, env, api.DebtServiceName, "GetContactBalances", token, &api.Empty{})
		if len(res.Balances) != 1 || !res.Balances[0].Net.Equal(dec("60")) {
			t.Errorf("balances = %+v", res.Balances)
		}
		contact := mustCall[api.ContactResponse](t, env, api.ContactServiceName, "GetContact", token, &api.IDRequest{ID: bob.ID})
		if len(contact.Balances) != 1 || !contact.Balances[0].OwedToMe.Equal(dec("60")) {
			t.Errorf("contact balances = %+v", contact.Balances)
		}
		_, err := call[api.Empty](env, api.ContactServiceName, "DeleteContact", token, &api.IDRequest{ID: bob.ID})
		wantCode(t, err, connect.CodeFailedPrecondition)
	})

	t.Run("mark paid", func(t *testing.T) {
		res := mustCall[api.DebtResponse](t, env, api.DebtServiceName, "MarkPaid", token, &api.MarkPaidRequest{DebtID: debt.ID})
		if res.Debt.Status != "paid" || !res.Debt.CurrentAmount.IsZero() || len(res.Payments) != 2 {
			t.Errorf("after mark paid = %+v, payments = %d", res.Debt, len(res.Payments))
		}
		_, err := call[api.DebtResponse](env, api.DebtServiceName, "MarkPaid", token, &api.MarkPaidRequest{DebtID: debt.ID})
		wantCode(t, err, connect.CodeFailedPrecondition)
		_, err = call[api.DebtResponse](env, api.DebtServiceName, "AddPayment", token, &api.AddPaymentRequest{DebtID: debt.ID, Amount: dec("1")})
		wantCode(t, err, connect.CodeFailedPrecondition)

		mustCall[api.Empty](t, env, api.ContactServiceName, "DeleteContact", token, &api.IDRequest{ID: bob.ID})
	})

	t.Run("past due debts start overdue", func(t *testing.T) {
		res := mustCall[api.DebtResponse](t, env, api.DebtServiceName, "CreateDebt", token, &api.CreateDebtRequest{
			Direction: "i_owe", Amount: dec("15"), DueDate: ptr(time.Now().Add(-time.Hour).Unix()),
		})
		if res.Debt.Status != "overdue" {
			t.Errorf("status = %q, want overdue", res.Debt.Status)
		}
		updated := mustCall[api.DebtResponse](t, env, api.DebtServiceName, "UpdateDebt", token, &api.UpdateDebtRequest{ID: res.Debt.ID, ClearDueDate: true})
		if updated.Debt.Status != "open" || updated.Debt.DueDate != nil {
			t.Errorf("after clearing due date = %+v", updated.Debt)
		}
		list := mustCall[api.ListDebtsResponse](t, env, api.DebtServiceName, "ListDebts", token, &api.ListDebtsRequest{Direction: "i_owe"})
		if len(list.Debts) != 1 {
			t.Errorf("i_owe debts = %d, want 1", len(list.Debts))
		}
	})

	t.Run("validation", func(t *testing.T) {
		_, err := call[api.DebtResponse](env, api.DebtServiceName, "CreateDebt", token, &api.CreateDebtRequest{Direction: "sideways", Amount: dec("1")})
		wantCode(t, err, connect.CodeInvalidArgument)
		_, err = call[api.DebtResponse](env, api.DebtServiceName, "CreateDebt", token, &api.CreateDebtRequest{Direction: "i_owe", Amount: dec("0")})
		wantCode(t, err, connect.CodeInvalidArgument)
		_, err = call[api.DebtResponse](env, api.DebtServiceName, "CreateDebt", token, &api.CreateDebtRequest{Direction: "i_owe", Amount: dec("-10")})
		wantCode(t, err, connect.CodeInvalidArgument)
		_, err = call[api.DebtResponse](env, api.DebtServiceName, "CreateDebt", token, &api.CreateDebtRequest{Direction: "i_owe", Amount: dec("1"), ContactID: "ghost"})
		wantCode(t, err, connect.CodeInvalidArgument)
	})
}

func TestSplitExpense(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "alice@example.com")
	bob := mustCall[api.ContactResponse](t, env, api.ContactServiceName, "CreateContact", token, &api.ContactRequest{Name: "Bob"}).Contact
	carol := mustCall[api.ContactResponse](t, env, api.ContactServiceName, "CreateContact", token, &api.ContactRequest{Name: "Carol"}).Contact

	res := mustCall[api.SplitExpenseResponse](t, env, api.DebtServiceName, "SplitExpense", token, &api.SplitExpenseRequest{
		Description:  "Dinner",
		Total:        dec("33"),
		Subtotal:     dec("30"),
		Participants: []string{Me, bob.ID, carol.ID},
		Items: []api.SplitItem{
			{Description: "Pizza", Amount: dec("20"), AssignedTo: []string{Me, bob.ID}},
			{Description: "Salad", Amount: dec("10"), AssignedTo: []string{carol.ID}},
		},
		CategoryID: "sys-food",
	})

	if res.Transaction.Type != "expense" || !res.Transaction.Amount.Equal(dec("33")) {
		t.Errorf("split transaction = %+v", res.Transaction)
	}
	if len(res.Shares) != 3 {
		t.Fatalf("shares = %d, want 3", len(res.Shares))
	}
	for _, share := range res.Shares {
		if !share.Total.Equal(dec("11")) {
			t.Errorf("%s total = %s, want 11", share.Participant, share.Total)
		}
		if (share.Participant == Me) != (share.DebtID == "") {
			t.Errorf("%s debt id = %q", share.Participant, share.DebtID)
		}
	}

	debts := mustCall[api.ListDebtsResponse](t, env, api.DebtServiceName, "ListDebts", token, &api.ListDebtsRequest{Direction: "owed_to_me"})
	if len(debts.Debts) != 2 {
		t.Errorf("split debts = %d, want 2", len(debts.Debts))
	}

	t.Run("rejects unknown participants", func(t *testing.T) {
		_, err := call[api.SplitExpenseResponse](env, api.DebtServiceName, "SplitExpense", token, &api.SplitExpenseRequest{
			Description: "Taxi", Total: dec("10"), Participants: []string{Me, "stranger"},
		})
		wantCode(t, err, connect.CodeInvalidArgument)

		_, err = call[api.SplitExpenseResponse](env, api.DebtServiceName, "SplitExpense", token, &api.SplitExpenseRequest{
			Description: "Taxi", Total: dec("10"), Subtotal: dec("10"), Participants: []string{Me},
			Items: []api.SplitItem{{Description: "Ride", Amount: dec("10"), AssignedTo: []string{bob.ID}}},
		})
		wantCode(t, err, connect.CodeInvalidArgument)
	})
}

func TestSplitExpenseOverLimitLeavesNothing(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "alice@example.com")

	for i := 0; i < 4; i++ {
		mustCall[api.DebtResponse](t, env, api.DebtServiceName, "CreateDebt", token, &api.CreateDebtRequest{Direction: "i_owe", Amount: dec("1")})
	}
	participants := []string{Me}
	for _, name := range []string{"Bob", "Carol", "Dave"} {
		c := mustCall[api.ContactResponse](t, env, api.ContactServiceName, "CreateContact", token, &api.ContactRequest{Name: name}).Contact
		participants = append(participants, c.ID)
	}

	_, err := call[api.SplitExpenseResponse](env, api.DebtServiceName, "SplitExpense", token, &api.SplitExpenseRequest{
		Description: "Dinner", Total: dec("40"), Participants: participants,
	})
	wantCode(t, err, connect.CodeResourceExhausted)

	txns := mustCall[api.ListTransactionsResponse](t, env, api.TransactionServiceName, "ListTransactions", token, &api.ListTransactionsRequest{})
	if len(txns.Transactions) != 0 {
		t.Errorf("transactions = %d, want 0", len(txns.Transactions))
	}
	owed := mustCall[api.ListDebtsResponse](t, env, api.DebtServiceName, "ListDebts", token, &api.ListDebtsRequest{Direction: "owed_to_me"})
	if len(owed.Debts) != 0 {
		t.Errorf("owed_to_me debts = %d, want 0", len(owed.Debts))
	}
	usage := mustCall[api.GetUsageResponse](t, env, api.BillingServiceName, "GetUsage", token, &api.Empty{})
	for _, r := range usage.Resources {
		switch {
		case r.Resource == "debts" && r.Used != 4:
			t.Errorf("debt usage = %d, want 4", r.Used)
		case r.Resource == "transactions" && r.Used != 0:
			t.Errorf("transaction usage = %d, want 0", r.Used)
		}
	}

	// One slot left is enough for a split with a single contact.
	res := mustCall[api.SplitExpenseResponse](t, env, api.DebtServiceName, "SplitExpense", token, &api.SplitExpenseRequest{
		Description: "Taxi", Total: dec("10"), Participants: participants[:2],
	})
	if len(res.Shares) != 2 || res.Shares[1].DebtID == "" {
		t.Errorf("shares = %+v", res.Shares)
	}
}

func TestPlanLimits(t *testing.T) {
	env := newTestEnv(t)
	token, user := env.register(t, "alice@example.com")

	create := func() error {
		_, err := call[api.DebtResponse](env, api.DebtServiceName, "CreateDebt", token, &api.CreateDebtRequest{Direction: "i_owe", Amount: dec("1")})
		return err
	}
	for i := 0; i < 5; i++ {
		if err := create(); err != nil {
			t.Fatalf("debt %d: %v", i+1, err)
		}
	}
	wantCode(t, create(), connect.CodeResourceExhausted)

	usage := mustCall[api.GetUsageResponse](t, env, api.BillingServiceName, "GetUsage", token, &api.Empty{})
	for _, r := range usage.Resources {
		if r.Resource == "debts" && (r.Used != 5 || r.Limit != 5) {
			t.Errorf("debt usage = %d/%d, want 5/5", r.Used, r.Limit)
		}
	}

	t.Run("deleting does not free a slot", func(t *testing.T) {
		list := mustCall[api.ListDebtsResponse](t, env, api.DebtServiceName, "ListDebts", token, &api.ListDebtsRequest{})
		mustCall[api.Empty](t, env, api.DebtServiceName, "DeleteDebt", token, &api.IDRequest{ID: list.Debts[0].ID})
		wantCode(t, create(), connect.CodeResourceExhausted)
	})

	t.Run("premium is unlimited", func(t *testing.T) {
		u, err := env.store.GetUserByID(context.Background(), user.ID)
		if err != nil {
			t.Fatal(err)
		}
		u.Plan = models.PlanPremium
		if err := env.store.UpdateUser(context.Background(), u); err != nil {
			t.Fatal(err)
		}
		if err := create(); err != nil {
			t.Errorf("premium create failed: %v", err)
		}
	})
}

func TestRecurringService(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "alice@example.com")

	start := time.Date(2025, time.January, 31, 9, 0, 0, 0, time.UTC)
	rent := mustCall[api.RecurringResponse](t, env, api.RecurringServiceName, "CreateRecurring", token, &api.CreateRecurringRequest{
		Type: "expense", Amount: dec("850"), Description: "Rent", CategoryID: "sys-housing",
		Frequency: "monthly", StartDate: start.Unix(),
	}).Recurring
	if !rent.Active || rent.NextExecution != start.Unix() || rent.Interval != 1 {
		t.Fatalf("created = %+v", rent)
	}

	preview := mustCall[api.PreviewRecurringResponse](t, env, api.RecurringServiceName, "PreviewRecurring", token, &api.PreviewRecurringRequest{ID: rent.ID, Count: 3})
	want := []time.Time{start, time.Date(2025, time.February, 28, 9, 0, 0, 0, time.UTC), time.Date(2025, time.March, 31, 9, 0, 0, 0, time.UTC)}
	if len(preview.Dates) != len(want) {
		t.Fatalf("preview = %v", preview.Dates)
	}
	for i, w := range want {
		if preview.Dates[i] != w.Unix() {
			t.Errorf("preview[%d] = %v, want %v", i, time.Unix(preview.Dates[i], 0).UTC(), w)
		}
	}

	t.Run("execute now", func(t *testing.T) {
		res := mustCall[api.ExecuteRecurringResponse](t, env, api.RecurringServiceName, "ExecuteRecurringNow", token, &api.IDRequest{ID: rent.ID})
		if res.Transaction.RecurringID != rent.ID || !res.Transaction.Amount.Equal(dec("850")) {
			t.Errorf("spawned = %+v", res.Transaction)
		}
		if res.Recurring.ExecutionCount != 0 || res.Recurring.LastExecution == nil || res.Recurring.NextExecution != start.Unix() {
			t.Errorf("schedule moved: %+v", res.Recurring)
		}
	})

	t.Run("schedule edits restart the count", func(t *testing.T) {
		res := mustCall[api.RecurringResponse](t, env, api.RecurringServiceName, "UpdateRecurring", token, &api.UpdateRecurringRequest{ID: rent.ID, Interval: ptr(2)})
		if res.Recurring.Interval != 2 || res.Recurring.ExecutionCount != 0 {
			t.Errorf("updated = %+v", res.Recurring)
		}
		preview := mustCall[api.PreviewRecurringResponse](t, env, api.RecurringServiceName, "PreviewRecurring", token, &api.PreviewRecurringRequest{ID: rent.ID, Count: 2})
		if len(preview.Dates) != 2 || preview.Dates[1] != time.Date(2025, time.March, 31, 9, 0, 0, 0, time.UTC).Unix() {
			t.Errorf("preview after edit = %v", preview.Dates)
		}
	})

	t.Run("pause", func(t *testing.T) {
		res := mustCall[api.RecurringResponse](t, env, api.RecurringServiceName, "SetRecurringActive", token, &api.SetRecurringActiveRequest{ID: rent.ID, Active: false})
		if res.Recurring.Active {
			t.Error("still active")
		}
		preview := mustCall[api.PreviewRecurringResponse](t, env, api.RecurringServiceName, "PreviewRecurring", token, &api.PreviewRecurringRequest{ID: rent.ID})
		if len(preview.Dates) != 0 {
			t.Errorf("paused preview = %v", preview.Dates)
		}
	})

	t.Run("validation", func(t *testing.T) {
		_, err := call[api.RecurringResponse](env, api.RecurringServiceName, "CreateRecurring", token, &api.CreateRecurringRequest{
			Type: "expense", Amount: dec("1"), Frequency: "fortnightly",
		})
		wantCode(t, err, connect.CodeInvalidArgument)
		_, err = call[api.RecurringResponse](env, api.RecurringServiceName, "CreateRecurring", token, &api.CreateRecurringRequest{
			Type: "expense", Amount: dec("1"), Frequency: "daily", StartDate: start.Unix(), EndDate: ptr(start.Add(-time.Hour).Unix()),
		})
		wantCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("delete", func(t *testing.T) {
		mustCall[api.Empty](t, env, api.RecurringServiceName, "DeleteRecurring", token, &api.IDRequest{ID: rent.ID})
		_, err := call[api.RecurringResponse](env, api.RecurringServiceName, "GetRecurring", token, &api.IDRequest{ID: rent.ID})
		wantCode(t, err, connect.CodeNotFound)
	})
}

func TestReminderService(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "alice@example.com")
	now := time.Now().Unix()

	weekly := mustCall[api.ReminderResponse](t, env, api.ReminderServiceName, "CreateReminder", token, &api.CreateReminderRequest{
		Title: "Review budget", DueAt: now + 3600, Repeat: "weekly",
	}).Reminder
	once := mustCall[api.ReminderResponse](t, env, api.ReminderServiceName, "CreateReminder", token, &api.CreateReminderRequest{
		Title: "Call the bank", DueAt: now - 60,
	}).Reminder

	due := mustCall[api.ListRemindersResponse](t, env, api.ReminderServiceName, "ListDueReminders", token, &api.Empty{})
	if len(due.Reminders) != 1 || due.Reminders[0].ID != once.ID {
		t.Errorf("due reminders = %+v", due.Reminders)
	}

	t.Run("repeating reminders roll forward", func(t *testing.T) {
		res := mustCall[api.ReminderResponse](t, env, api.ReminderServiceName, "CompleteReminder", token, &api.IDRequest{ID: weekly.ID})
		if res.Reminder.Completed || res.Reminder.DueAt != weekly.DueAt+7*24*3600 {
			t.Errorf("rolled reminder = %+v", res.Reminder)
		}
	})

	t.Run("one-off reminders complete", func(t *testing.T) {
		res := mustCall[api.ReminderResponse](t, env, api.ReminderServiceName, "CompleteReminder", token, &api.IDRequest{ID: once.ID})
		if !res.Reminder.Completed || res.Reminder.CompletedAt == nil {
			t.Errorf("completed reminder = %+v", res.Reminder)
		}
		open := mustCall[api.ListRemindersResponse](t, env, api.ReminderServiceName, "ListReminders", token, &api.ListRemindersRequest{})
		if len(open.Reminders) != 1 {
			t.Errorf("open reminders = %d, want 1", len(open.Reminders))
		}
		all := mustCall[api.ListRemindersResponse](t, env, api.ReminderServiceName, "ListReminders", token, &api.ListRemindersRequest{IncludeCompleted: true})
		if len(all.Reminders) != 2 {
			t.Errorf("all reminders = %d, want 2", len(all.Reminders))
		}
	})

	t.Run("validation", func(t *testing.T) {
		_, err := call[api.ReminderResponse](env, api.ReminderServiceName, "CreateReminder", token, &api.CreateReminderRequest{Title: "x", DueAt: now, Repeat: "hourly"})
		wantCode(t, err, connect.CodeInvalidArgument)
		_, err = call[api.ReminderResponse](env, api.ReminderServiceName, "CreateReminder", token, &api.CreateReminderRequest{Title: " ", DueAt: now})
		wantCode(t, err, connect.CodeInvalidArgument)
		_, err = call[api.ReminderResponse](env, api.ReminderServiceName, "CreateReminder", token, &api.CreateReminderRequest{Title: "x", DueAt: now, DebtID: "ghost"})
		wantCode(t, err, connect.CodeInvalidArgument)
	})
}

func TestBudgetService(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "alice@example.com")

	mustCall[api.BudgetResponse](t, env, api.BudgetServiceName, "CreateBudget", token, &api.CreateBudgetRequest{
		CategoryID: "sys-food", Name: "Food", Amount: dec("200"), Period: "monthly",
	})
	mustCall[api.TransactionResponse](t, env, api.TransactionServiceName, "CreateTransaction", token, &api.CreateTransactionRequest{
		Type: "expense", Amount: dec("50"), CategoryID: "sys-food",
	})
	mustCall[api.TransactionResponse](t, env, api.TransactionServiceName, "CreateTransaction", token, &api.CreateTransactionRequest{
		Type: "expense", Amount: dec("75"), CategoryID: "sys-transport",
	})

	budgets := mustCall[api.ListBudgetsResponse](t, env, api.BudgetServiceName, "ListBudgets", token, &api.Empty{})
	if len(budgets.Budgets) != 1 || budgets.Budgets[0].Progress == nil {
		t.Fatalf("budgets = %+v", budgets.Budgets)
	}
	p := budgets.Budgets[0].Progress
	if !p.Spent.Equal(dec("50")) || !p.Remaining.Equal(dec("150")) || p.Exceeded || !p.Percent.Equal(dec("25")) {
		t.Errorf("progress = %+v", p)
	}

	_, err := call[api.BudgetResponse](env, api.BudgetServiceName, "CreateBudget", token, &api.CreateBudgetRequest{
		CategoryID: "sys-salary", Name: "Salary", Amount: dec("1"), Period: "monthly",
	})
	wantCode(t, err, connect.CodeInvalidArgument)
	_, err = call[api.BudgetResponse](env, api.BudgetServiceName, "CreateBudget", token, &api.CreateBudgetRequest{
		Name: "Daily", Amount: dec("1"), Period: "daily",
	})
	wantCode(t, err, connect.CodeInvalidArgument)

	t.Run("goals", func(t *testing.T) {
		goal := mustCall[api.GoalResponse](t, env, api.BudgetServiceName, "CreateGoal", token, &api.CreateGoalRequest{Name: "Bike", TargetAmount: dec("100")}).Goal

		res := mustCall[api.GoalResponse](t, env, api.BudgetServiceName, "ContributeGoal", token, &api.ContributeGoalRequest{ID: goal.ID, Amount: dec("60")})
		if res.Goal.Status != "active" || !res.Goal.Progress.Equal(dec("60")) {
			t.Errorf("after 60 = %+v", res.Goal)
		}
		res = mustCall[api.GoalResponse](t, env, api.BudgetServiceName, "ContributeGoal", token, &api.ContributeGoalRequest{ID: goal.ID, Amount: dec("40")})
		if res.Goal.Status != "completed" {
			t.Errorf("status = %q, want completed", res.Goal.Status)
		}
		_, err := call[api.GoalResponse](env, api.BudgetServiceName, "ContributeGoal", token, &api.ContributeGoalRequest{ID: goal.ID, Amount: dec("1")})
		wantCode(t, err, connect.CodeFailedPrecondition)

		mustCall[api.Empty](t, env, api.BudgetServiceName, "DeleteGoal", token, &api.IDRequest{ID: goal.ID})
		goals := mustCall[api.ListGoalsResponse](t, env, api.BudgetServiceName, "ListGoals", token, &api.Empty{})
		if len(goals.Goals) != 0 {
			t.Errorf("goals = %d after delete", len(goals.Goals))
		}
	})
}
