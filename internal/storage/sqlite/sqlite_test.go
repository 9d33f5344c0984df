package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "financezz-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createUser(t *testing.T, store *SQLiteStore, email string) *models.User {
	t.Helper()
	user := models.NewUser(email, "Test User", "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := createUser(t, store, "alice@example.com")
	if user.ID == "" {
		t.Fatal("Expected user ID to be generated")
	}

	t.Run("lookup by email ignores case", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "ALICE@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got.ID != user.ID || got.Role != models.RoleUser || got.Plan != models.PlanFree {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		dup := models.NewUser("alice@example.com", "Other", "hash")
		if err := store.CreateUser(ctx, dup); !errors.Is(err, storage.ErrAlreadyExists) {
			t.Errorf("err = %v, want ErrAlreadyExists", err)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		if _, err := store.GetUserByID(ctx, "nope"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("update and expired premium", func(t *testing.T) {
		past := time.Now().Add(-time.Hour).Unix()
		user.Plan = models.PlanPremium
		user.PlanExpiresAt = &past
		user.Role = models.RoleAdmin
		if err := store.UpdateUser(ctx, user); err != nil {
			t.Fatalf("UpdateUser failed: %v", err)
		}
		expired, err := store.ListExpiredPremium(ctx, time.Now().Unix())
		if err != nil {
			t.Fatalf("ListExpiredPremium failed: %v", err)
		}
		if len(expired) != 1 || expired[0].ID != user.ID {
			t.Errorf("expired = %v, want [%s]", expired, user.ID)
		}
		if expired[0].PlanExpiresAt == nil || *expired[0].PlanExpiresAt != past {
			t.Errorf("PlanExpiresAt not persisted")
		}
	})

	t.Run("list with search and role", func(t *testing.T) {
		createUser(t, store, "bob@example.com")
		users, total, err := store.ListUsers(ctx, storage.UserFilter{Search: "bob"})
		if err != nil {
			t.Fatalf("ListUsers failed: %v", err)
		}
		if total != 1 || len(users) != 1 || users[0].Email != "bob@example.com" {
			t.Errorf("search bob: total=%d users=%d", total, len(users))
		}
		_, total, err = store.ListUsers(ctx, storage.UserFilter{Role: models.RoleAdmin})
		if err != nil {
			t.Fatalf("ListUsers failed: %v", err)
		}
		if total != 1 {
			t.Errorf("admins = %d, want 1", total)
		}
	})
}

func TestTransactions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := createUser(t, store, "t@example.com")
	other := createUser(t, store, "o@example.com")

	day := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC).Unix()
	txns := []*models.Transaction{
		{UserID: user.ID, Type: models.TransactionIncome, Amount: amount("1500.00"), Currency: "USD", Description: "Salary", CategoryID: "sys-salary", Date: day},
		{UserID: user.ID, Type: models.TransactionExpense, Amount: amount("12.34"), Currency: "USD", Description: "Lunch 50% off", CategoryID: "sys-food", Date: day + 3600},
		{UserID: other.ID, Type: models.TransactionExpense, Amount: amount("1"), Currency: "USD", Date: day},
	}
	for _, txn := range txns {
		if err := store.CreateTransaction(ctx, txn); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}
	}

	t.Run("amount round-trips exactly", func(t *testing.T) {
		got, err := store.GetTransaction(ctx, user.ID, txns[1].ID)
		if err != nil {
			t.Fatalf("GetTransaction failed: %v", err)
		}
		if !got.Amount.Equal(amount("12.34")) {
			t.Errorf("Amount = %s, want 12.34", got.Amount)
		}
	})

	t.Run("other users cannot read", func(t *testing.T) {
		if _, err := store.GetTransaction(ctx, other.ID, txns[0].ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("filters", func(t *testing.T) {
		all, err := store.ListTransactions(ctx, user.ID, storage.TransactionFilter{})
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(all) != 2 || all[0].ID != txns[1].ID {
			t.Errorf("expected 2 transactions newest first, got %d", len(all))
		}

		expenses, _ := store.ListTransactions(ctx, user.ID, storage.TransactionFilter{Type: models.TransactionExpense})
		if len(expenses) != 1 {
			t.Errorf("expenses = %d, want 1", len(expenses))
		}

		// % must match literally, not as a wildcard
		found, _ := store.ListTransactions(ctx, user.ID, storage.TransactionFilter{Search: "50%"})
		if len(found) != 1 {
			t.Errorf("search 50%% = %d, want 1", len(found))
		}
		literal, _ := store.ListTransactions(ctx, user.ID, storage.TransactionFilter{Search: "%"})
		if len(literal) != 1 {
			t.Errorf("search %% = %d, want 1", len(literal))
		}

		ranged, _ := store.ListTransactions(ctx, user.ID, storage.TransactionFilter{From: day, To: day + 1})
		if len(ranged) != 1 || ranged[0].ID != txns[0].ID {
			t.Errorf("range query returned %d", len(ranged))
		}
	})

	t.Run("update and delete", func(t *testing.T) {
		txns[0].Amount = amount("1600")
		if err := store.UpdateTransaction(ctx, txns[0]); err != nil {
			t.Fatalf("UpdateTransaction failed: %v", err)
		}
		if err := store.DeleteTransaction(ctx, other.ID, txns[0].ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("cross-user delete err = %v", err)
		}
		if err := store.DeleteTransaction(ctx, user.ID, txns[0].ID); err != nil {
			t.Fatalf("DeleteTransaction failed: %v", err)
		}
	})
}

func TestCategories(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := createUser(t, store, "c@example.com")

	parent := &models.Category{UserID: user.ID, Name: "Pets", Type: models.TransactionExpense}
	if err := store.CreateCategory(ctx, parent); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	child := &models.Category{UserID: user.ID, ParentID: parent.ID, Name: "Vet", Type: models.TransactionExpense}
	if err := store.CreateCategory(ctx, child); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}

	cats, err := store.ListCategories(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(cats) != 12 {
		t.Errorf("categories = %d, want 10 system + 2 own", len(cats))
	}
	if !cats[0].IsSystem() {
		t.Error("system categories should be listed first")
	}

	sys, err := store.GetCategory(ctx, user.ID, "sys-food")
	if err != nil || !sys.IsSystem() {
		t.Fatalf("GetCategory(sys-food) = %v, %v", sys, err)
	}
	if err := store.DeleteCategory(ctx, user.ID, "sys-food"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("deleting a system category err = %v", err)
	}

	if err := store.DeleteCategory(ctx, user.ID, parent.ID); err != nil {
		t.Fatalf("DeleteCategory failed: %v", err)
	}
	if _, err := store.GetCategory(ctx, user.ID, child.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("subcategory should be removed with its parent, err = %v", err)
	}
}

func TestDebtsAndContacts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := createUser(t, store, "d@example.com")

	contact := &models.Contact{UserID: user.ID, Name: "Carol", Email: "carol@example.com"}
	if err := store.CreateContact(ctx, contact); err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}

	due := time.Now().Add(-24 * time.Hour).Unix()
	debt := &models.Debt{
		UserID:         user.ID,
		ContactID:      contact.ID,
		Direction:      models.DebtOwedToMe,
		OriginalAmount: amount("100"),
		CurrentAmount:  amount("100"),
		Currency:       "USD",
		DueDate:        &due,
		Status:         models.DebtOpen,
	}
	if err := store.CreateDebt(ctx, debt); err != nil {
		t.Fatalf("CreateDebt failed: %v", err)
	}

	t.Run("contact with open debt cannot be deleted", func(t *testing.T) {
		if err := store.DeleteContact(ctx, user.ID, contact.ID); !errors.Is(err, storage.ErrInUse) {
			t.Errorf("err = %v, want ErrInUse", err)
		}
	})

	t.Run("payment is recorded with balance", func(t *testing.T) {
		debt.CurrentAmount = amount("60")
		debt.Status = models.DebtPartiallyPaid
		payment := &models.DebtPayment{Amount: amount("40"), Note: "cash"}
		txn := &models.Transaction{UserID: user.ID, Type: models.TransactionIncome, Amount: amount("40"), Currency: "USD", ContactID: contact.ID}
		if err := store.AddDebtPayment(ctx, debt, payment, txn); err != nil {
			t.Fatalf("AddDebtPayment failed: %v", err)
		}
		if _, err := store.GetTransaction(ctx, user.ID, txn.ID); err != nil {
			t.Errorf("payment transaction not stored: %v", err)
		}
		payments, err := store.ListDebtPayments(ctx, debt.ID)
		if err != nil {
			t.Fatalf("ListDebtPayments failed: %v", err)
		}
		if len(payments) != 1 || !payments[0].Amount.Equal(amount("40")) {
			t.Errorf("payments = %+v", payments)
		}
		got, _ := store.GetDebt(ctx, user.ID, debt.ID)
		if !got.CurrentAmount.Equal(amount("60")) {
			t.Errorf("CurrentAmount = %s, want 60", got.CurrentAmount)
		}
	})

	t.Run("overdue marking", func(t *testing.T) {
		n, err := store.MarkOverdueDebts(ctx, time.Now().Unix())
		if err != nil {
			t.Fatalf("MarkOverdueDebts failed: %v", err)
		}
		if n != 1 {
			t.Errorf("marked = %d, want 1", n)
		}
		overdue, _ := store.ListDebts(ctx, user.ID, storage.DebtFilter{Status: models.DebtOverdue})
		if len(overdue) != 1 {
			t.Errorf("overdue debts = %d, want 1", len(overdue))
		}
		n, _ = store.MarkOverdueDebts(ctx, time.Now().Unix())
		if n != 0 {
			t.Errorf("second pass marked %d, want 0", n)
		}
	})

	t.Run("paid debt releases the contact", func(t *testing.T) {
		debt.Status = models.DebtPaid
		debt.CurrentAmount = decimal.Zero
		if err := store.UpdateDebt(ctx, debt); err != nil {
			t.Fatalf("UpdateDebt failed: %v", err)
		}
		if err := store.DeleteContact(ctx, user.ID, contact.ID); err != nil {
			t.Errorf("DeleteContact failed: %v", err)
		}
	})

	t.Run("contact search", func(t *testing.T) {
		store.CreateContact(ctx, &models.Contact{UserID: user.ID, Name: "Dave", Phone: "555-0101"})
		found, err := store.ListContacts(ctx, user.ID, "0101")
		if err != nil {
			t.Fatalf("ListContacts failed: %v", err)
		}
		if len(found) != 1 || found[0].Name != "Dave" {
			t.Errorf("found = %v", found)
		}
	})
}

func TestCreateSplitExpense(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := createUser(t, store, "split@example.com")

	newDebt := func(contactID string) *models.Debt {
		return &models.Debt{
			UserID:         user.ID,
			ContactID:      contactID,
			Direction:      models.DebtOwedToMe,
			OriginalAmount: amount("10"),
			CurrentAmount:  amount("10"),
			Currency:       "USD",
			Status:         models.DebtOpen,
		}
	}

	t.Run("expense and debts are stored together", func(t *testing.T) {
		txn := &models.Transaction{UserID: user.ID, Type: models.TransactionExpense, Amount: amount("30"), Currency: "USD", Description: "Dinner"}
		debts := []*models.Debt{newDebt("c1"), newDebt("c2")}
		if err := store.CreateSplitExpense(ctx, txn, debts); err != nil {
			t.Fatalf("CreateSplitExpense failed: %v", err)
		}
		for _, d := range debts {
			if d.ID == "" {
				t.Fatal("debt ID not assigned")
			}
			if _, err := store.GetDebt(ctx, user.ID, d.ID); err != nil {
				t.Errorf("GetDebt(%s) failed: %v", d.ID, err)
			}
		}
	})

	t.Run("failed debt rolls back the expense", func(t *testing.T) {
		existing, err := store.ListDebts(ctx, user.ID, storage.DebtFilter{})
		if err != nil {
			t.Fatalf("ListDebts failed: %v", err)
		}
		dup := newDebt("c3")
		dup.ID = existing[0].ID
		txn := &models.Transaction{UserID: user.ID, Type: models.TransactionExpense, Amount: amount("20"), Currency: "USD", Description: "Lunch"}
		if err := store.CreateSplitExpense(ctx, txn, []*models.Debt{newDebt("c4"), dup}); err == nil {
			t.Fatal("CreateSplitExpense with duplicate debt ID succeeded")
		}
		all, _ := store.ListTransactions(ctx, user.ID, storage.TransactionFilter{})
		if len(all) != 1 {
			t.Errorf("transactions = %d, want 1", len(all))
		}
		debts, _ := store.ListDebts(ctx, user.ID, storage.DebtFilter{})
		if len(debts) != 2 {
			t.Errorf("debts = %d, want 2", len(debts))
		}
	})
}

func TestRecurringExecution(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := createUser(t, store, "r@example.com")

	start := time.Date(2025, 1, 31, 9, 0, 0, 0, time.UTC).Unix()
	rt := &models.RecurringTransaction{
		UserID:        user.ID,
		Type:          models.TransactionExpense,
		Amount:        amount("9.99"),
		Currency:      "USD",
		Description:   "Streaming",
		Frequency:     models.FrequencyMonthly,
		Interval:      1,
		StartDate:     start,
		NextExecution: start,
		Active:        true,
	}
	if err := store.CreateRecurring(ctx, rt); err != nil {
		t.Fatalf("CreateRecurring failed: %v", err)
	}

	due, err := store.ListDueRecurring(ctx, start)
	if err != nil {
		t.Fatalf("ListDueRecurring failed: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("due = %d, want 1", len(due))
	}

	txn := &models.Transaction{UserID: user.ID, Type: rt.Type, Amount: rt.Amount, Currency: "USD", RecurringID: rt.ID, Date: start}
	rt.ExecutionCount = 1
	rt.LastExecution = &start
	rt.NextExecution = time.Date(2025, 2, 28, 9, 0, 0, 0, time.UTC).Unix()
	if err := store.RecordRecurringExecution(ctx, rt, txn); err != nil {
		t.Fatalf("RecordRecurringExecution failed: %v", err)
	}

	spawned, _ := store.ListTransactions(ctx, user.ID, storage.TransactionFilter{RecurringID: rt.ID})
	if len(spawned) != 1 {
		t.Errorf("spawned = %d, want 1", len(spawned))
	}
	got, _ := store.GetRecurring(ctx, user.ID, rt.ID)
	if got.ExecutionCount != 1 || got.LastExecution == nil || got.NextExecution != rt.NextExecution {
		t.Errorf("recurring not advanced: %+v", got)
	}

	t.Run("failed update rolls back the transaction", func(t *testing.T) {
		ghost := *rt
		ghost.ID = "missing"
		txn := &models.Transaction{UserID: user.ID, Type: rt.Type, Amount: rt.Amount, Currency: "USD", RecurringID: "missing", Date: start}
		if err := store.RecordRecurringExecution(ctx, &ghost, txn); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
		left, _ := store.ListTransactions(ctx, user.ID, storage.TransactionFilter{RecurringID: "missing"})
		if len(left) != 0 {
			t.Errorf("transaction was not rolled back")
		}
	})
}

func TestReminders(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := createUser(t, store, "rem@example.com")
	now := time.Now().Unix()

	past := &models.Reminder{UserID: user.ID, Title: "Pay rent", DueAt: now - 60}
	future := &models.Reminder{UserID: user.ID, Title: "Renew insurance", DueAt: now + 3600}
	for _, r := range []*models.Reminder{past, future} {
		if err := store.CreateReminder(ctx, r); err != nil {
			t.Fatalf("CreateReminder failed: %v", err)
		}
	}

	due, _ := store.ListDueReminders(ctx, "", now)
	if len(due) != 1 || due[0].ID != past.ID {
		t.Fatalf("due = %v, want [%s]", due, past.ID)
	}

	past.NotifiedAt = &now
	past.UpdatedAt = now
	past.AnchorAt = now - 86400
	if err := store.UpdateReminder(ctx, past); err != nil {
		t.Fatalf("UpdateReminder failed: %v", err)
	}
	if got, _ := store.GetReminder(ctx, user.ID, past.ID); got == nil || got.AnchorAt != now-86400 {
		t.Errorf("anchor not persisted: %+v", got)
	}
	if due, _ := store.ListDueReminders(ctx, "", now); len(due) != 0 {
		t.Errorf("notified reminders should not be listed for the worker")
	}
	if due, _ := store.ListDueReminders(ctx, user.ID, now); len(due) != 1 {
		t.Errorf("user listing should still include notified reminders")
	}

	past.Completed = true
	past.CompletedAt = &now
	store.UpdateReminder(ctx, past)
	open, _ := store.ListReminders(ctx, user.ID, false)
	all, _ := store.ListReminders(ctx, user.ID, true)
	if len(open) != 1 || len(all) != 2 {
		t.Errorf("open = %d, all = %d", len(open), len(all))
	}
}

func TestCurrenciesAndSettings(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seeded, err := store.ListCurrencies(ctx)
	if err != nil {
		t.Fatalf("ListCurrencies failed: %v", err)
	}
	if len(seeded) != 1 || seeded[0].Code != "USD" || !seeded[0].IsDefault {
		t.Fatalf("seeded currencies = %+v, want USD only", seeded)
	}

	if err := store.CreateCurrency(ctx, &models.Currency{Code: "JPY", Name: "Yen", Symbol: "¥"}); err != nil {
		t.Fatalf("CreateCurrency failed: %v", err)
	}
	if err := store.CreateCurrency(ctx, &models.Currency{Code: "JPY", Name: "Yen", Symbol: "¥"}); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Errorf("duplicate currency err = %v", err)
	}
	if err := store.SetDefaultCurrency(ctx, "JPY"); err != nil {
		t.Fatalf("SetDefaultCurrency failed: %v", err)
	}

	currencies, _ := store.ListCurrencies(ctx)
	defaults := 0
	for _, c := range currencies {
		if c.IsDefault {
			defaults++
			if c.Code != "JPY" {
				t.Errorf("default = %s, want JPY", c.Code)
			}
		}
	}
	if defaults != 1 {
		t.Errorf("defaults = %d, want 1", defaults)
	}
	if err := store.DeleteCurrency(ctx, "JPY"); !errors.Is(err, storage.ErrInUse) {
		t.Errorf("deleting default err = %v", err)
	}
	if err := store.SetDefaultCurrency(ctx, "XXX"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("unknown currency err = %v", err)
	}

	setting, err := store.GetSetting(ctx, models.SettingRegistrationEnabled)
	if err != nil || setting.Value != "true" {
		t.Fatalf("seeded setting = %v, %v", setting, err)
	}
	if err := store.SetSetting(ctx, &models.SystemSetting{Key: models.SettingRegistrationEnabled, Value: "false", UpdatedBy: "admin"}); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	setting, _ = store.GetSetting(ctx, models.SettingRegistrationEnabled)
	if setting.Value != "false" || setting.UpdatedBy != "admin" {
		t.Errorf("setting = %+v", setting)
	}
}

func TestUsageCounters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := createUser(t, store, "u@example.com")

	for i := 0; i < 2; i++ {
		ok, err := store.IncrementUsage(ctx, user.ID, "2025-03", "contacts", 2)
		if err != nil || !ok {
			t.Fatalf("increment %d = %v, %v", i, ok, err)
		}
	}
	ok, err := store.IncrementUsage(ctx, user.ID, "2025-03", "contacts", 2)
	if err != nil {
		t.Fatalf("IncrementUsage failed: %v", err)
	}
	if ok {
		t.Error("third increment should hit the limit")
	}

	if ok, _ := store.IncrementUsage(ctx, user.ID, "2025-04", "contacts", 2); !ok {
		t.Error("new period should start from zero")
	}
	if ok, _ := store.IncrementUsage(ctx, user.ID, "2025-03", "debts", -1); !ok {
		t.Error("unlimited increment should always succeed")
	}

	if err := store.DecrementUsage(ctx, user.ID, "2025-03", "contacts"); err != nil {
		t.Fatalf("DecrementUsage failed: %v", err)
	}
	usage, err := store.GetUsage(ctx, user.ID, "2025-03")
	if err != nil {
		t.Fatalf("GetUsage failed: %v", err)
	}
	if usage["contacts"] != 1 || usage["debts"] != 1 {
		t.Errorf("usage = %v", usage)
	}
}

func TestStatsAndAudit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	admin := createUser(t, store, "admin@example.com")
	createUser(t, store, "user@example.com")

	for _, action := range []string{"user.update", "setting.update"} {
		if err := store.CreateAuditLog(ctx, &models.AuditLog{ActorID: admin.ID, Action: action, EntityType: "user"}); err != nil {
			t.Fatalf("CreateAuditLog failed: %v", err)
		}
	}
	logs, err := store.ListAuditLogs(ctx, storage.AuditFilter{Action: "user.update"})
	if err != nil {
		t.Fatalf("ListAuditLogs failed: %v", err)
	}
	if len(logs) != 1 {
		t.Errorf("logs = %d, want 1", len(logs))
	}

	stats, err := store.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.Users != 2 || stats.PremiumUsers != 0 {
		t.Errorf("stats = %+v", stats)
	}
}
