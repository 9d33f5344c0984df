package service

import (
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/api"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/billing"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/calculator"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
)

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:              u.ID,
		Email:           u.Email,
		DisplayName:     u.DisplayName,
		Role:            string(u.Role),
		Plan:            string(u.Plan),
		PlanExpiresAt:   u.PlanExpiresAt,
		DefaultCurrency: u.DefaultCurrency,
		Disabled:        u.Disabled,
		CreatedAt:       u.CreatedAt,
	}
}

func toAPITransaction(t *models.Transaction) *api.Transaction {
	return &api.Transaction{
		ID:            t.ID,
		Type:          string(t.Type),
		Amount:        t.Amount,
		Currency:      t.Currency,
		Description:   t.Description,
		CategoryID:    t.CategoryID,
		SubcategoryID: t.SubcategoryID,
		ContactID:     t.ContactID,
		RecurringID:   t.RecurringID,
		Date:          t.Date,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func toAPICategory(c *models.Category) *api.Category {
	return &api.Category{
		ID:       c.ID,
		ParentID: c.ParentID,
		Name:     c.Name,
		Type:     string(c.Type),
		Color:    c.Color,
		Icon:     c.Icon,
		System:   c.IsSystem(),
	}
}

func toAPIDebt(d *models.Debt) *api.Debt {
	return &api.Debt{
		ID:             d.ID,
		ContactID:      d.ContactID,
		Direction:      string(d.Direction),
		Description:    d.Description,
		OriginalAmount: d.OriginalAmount,
		CurrentAmount:  d.CurrentAmount,
		Currency:       d.Currency,
		DueDate:        d.DueDate,
		Status:         string(d.Status),
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func toAPIPayments(payments []*models.DebtPayment) []*api.DebtPayment {
	out := make([]*api.DebtPayment, 0, len(payments))
	for _, p := range payments {
		out = append(out, &api.DebtPayment{ID: p.ID, Amount: p.Amount, Note: p.Note, PaidAt: p.PaidAt})
	}
	return out
}

func toAPIContact(c *models.Contact) *api.Contact {
	return &api.Contact{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
	}
}

func toAPIBalances(balances []calculator.ContactBalance) []api.ContactBalance {
	out := make([]api.ContactBalance, 0, len(balances))
	for _, b := range balances {
		out = append(out, api.ContactBalance{
			ContactID: b.ContactID,
			Currency:  b.Currency,
			OwedToMe:  b.OwedToMe,
			IOwe:      b.IOwe,
			Net:       b.Net,
			OpenDebts: b.OpenDebts,
		})
	}
	return out
}

func toAPIReminder(r *models.Reminder) *api.Reminder {
	return &api.Reminder{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		DueAt:       r.DueAt,
		Repeat:      string(r.Repeat),
		DebtID:      r.DebtID,
		Completed:   r.Completed,
		CompletedAt: r.CompletedAt,
		NotifiedAt:  r.NotifiedAt,
	}
}

func toAPIRecurring(rt *models.RecurringTransaction) *api.RecurringTransaction {
	return &api.RecurringTransaction{
		ID:             rt.ID,
		Type:           string(rt.Type),
		Amount:         rt.Amount,
		Currency:       rt.Currency,
		Description:    rt.Description,
		CategoryID:     rt.CategoryID,
		Frequency:      string(rt.Frequency),
		Interval:       rt.Interval,
		StartDate:      rt.StartDate,
		EndDate:        rt.EndDate,
		NextExecution:  rt.NextExecution,
		LastExecution:  rt.LastExecution,
		ExecutionCount: rt.ExecutionCount,
		Active:         rt.Active,
	}
}

func toAPIBudget(b *models.Budget, p *calculator.BudgetProgress) *api.Budget {
	out := &api.Budget{
		ID:         b.ID,
		CategoryID: b.CategoryID,
		Name:       b.Name,
		Amount:     b.Amount,
		Period:     string(b.Period),
	}
	if p != nil {
		out.Progress = &api.BudgetProgress{
			PeriodStart: p.PeriodStart,
			PeriodEnd:   p.PeriodEnd,
			Spent:       p.Spent,
			Remaining:   p.Remaining,
			Percent:     p.Percent,
			Exceeded:    p.Exceeded,
		}
	}
	return out
}

func toAPIGoal(g *models.Goal) *api.Goal {
	return &api.Goal{
		ID:            g.ID,
		Name:          g.Name,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		Deadline:      g.Deadline,
		Status:        string(g.Status),
		Progress:      calculator.GoalProgress(g),
	}
}

func toAPICurrency(c *models.Currency) *api.Currency {
	return &api.Currency{Code: c.Code, Name: c.Name, Symbol: c.Symbol, IsDefault: c.IsDefault}
}

func toAPIAuditLog(e *models.AuditLog) *api.AuditLog {
	return &api.AuditLog{
		ID:         e.ID,
		ActorID:    e.ActorID,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Details:    e.Details,
		CreatedAt:  e.CreatedAt,
	}
}

func toAPISetting(s *models.SystemSetting) *api.Setting {
	return &api.Setting{Key: s.Key, Value: s.Value, UpdatedBy: s.UpdatedBy, UpdatedAt: s.UpdatedAt}
}

func toAPIPlan(p *billing.Plan) *api.Plan {
	limits := make(map[string]int, len(p.Limits))
	for r, n := range p.Limits {
		limits[string(r)] = n
	}
	return &api.Plan{
		Tier:         string(p.Tier),
		Name:         p.Name,
		PriceMonthly: p.PriceMonthly,
		Currency:     p.Currency,
		Limits:       limits,
		Features:     p.Features,
	}
}

func toAPIReminders(reminders []*models.Reminder) []*api.Reminder {
	out := make([]*api.Reminder, 0, len(reminders))
	for _, r := range reminders {
		out = append(out, toAPIReminder(r))
	}
	return out
}
