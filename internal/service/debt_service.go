package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/api"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/billing"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/calculator"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/storage"
)

// Me stands for the user's own share in SplitExpense participants.
const Me = "me"

// DebtService implements the DebtService RPC interface.
type DebtService struct {
	store    storage.Store
	enforcer *billing.Enforcer
	logger   *slog.Logger
	now      func() time.Time
}

func NewDebtService(store storage.Store, enforcer *billing.Enforcer, logger *slog.Logger) *DebtService {
	return &DebtService{store: store, enforcer: enforcer, logger: logger, now: time.Now}
}

// CreateDebt records money owed to or by the user.
func (s *DebtService) CreateDebt(ctx context.Context, req *connect.Request[api.CreateDebtRequest]) (*connect.Response[api.DebtResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("CreateDebt request received", "user_id", user.ID, "direction", req.Msg.Direction)

	debt := &models.Debt{
		UserID:         user.ID,
		ContactID:      req.Msg.ContactID,
		Direction:      models.DebtDirection(req.Msg.Direction),
		Description:    strings.TrimSpace(req.Msg.Description),
		OriginalAmount: req.Msg.Amount,
		DueDate:        req.Msg.DueDate,
	}
	if !debt.Direction.Valid() {
		return nil, toConnectError(invalidf("direction must be owed_to_me or i_owe"))
	}
	if len(debt.Description) > maxDescription {
		return nil, toConnectError(invalidf("description must be at most %d characters", maxDescription))
	}
	if debt.Currency, err = resolveCurrency(ctx, s.store, user, req.Msg.Currency); err != nil {
		return nil, toConnectError(err)
	}
	if err := checkContact(ctx, s.store, user.ID, debt.ContactID); err != nil {
		return nil, toConnectError(err)
	}
	if err := calculator.NewDebt(debt, s.now().Unix()); err != nil {
		return nil, toConnectError(err)
	}

	err = reserved(ctx, s.enforcer, s.logger, user, billing.ResourceDebts, func() error {
		return s.store.CreateDebt(ctx, debt)
	})
	if err != nil {
		s.logger.Warn("CreateDebt failed", "user_id", user.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Debt created", "debt_id", debt.ID, "amount", debt.OriginalAmount.String())
	return connect.NewResponse(&api.DebtResponse{Debt: toAPIDebt(debt)}), nil
}

// GetDebt returns a debt with its payment history.
func (s *DebtService) GetDebt(ctx context.Context, req *connect.Request[api.IDRequest]) (*connect.Response[api.DebtResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	debt, err := s.store.GetDebt(ctx, user.ID, req.Msg.ID)
	if err != nil {
		s.logger.Warn("GetDebt failed", "debt_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}
	payments, err := s.store.ListDebtPayments(ctx, debt.ID)
	if err != nil {
		s.logger.Error("Failed to list debt payments", "debt_id", debt.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.DebtResponse{Debt: toAPIDebt(debt), Payments: toAPIPayments(payments)}), nil
}

func (s *DebtService) ListDebts(ctx context.Context, req *connect.Request[api.ListDebtsRequest]) (*connect.Response[api.ListDebtsResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("ListDebts request received", "user_id", user.ID)

	filter := storage.DebtFilter{
		Status:    models.DebtStatus(req.Msg.Status),
		Direction: models.DebtDirection(req.Msg.Direction),
		ContactID: req.Msg.ContactID,
		Page:      storage.Page{Limit: req.Msg.Limit, Offset: req.Msg.Offset},
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, toConnectError(invalidf("unknown status %q", req.Msg.Status))
	}
	if filter.Direction != "" && !filter.Direction.Valid() {
		return nil, toConnectError(invalidf("unknown direction %q", req.Msg.Direction))
	}

	debts, err := s.store.ListDebts(ctx, user.ID, filter)
	if err != nil {
		s.logger.Error("ListDebts failed", "user_id", user.ID, "error", err)
		return nil, toConnectError(err)
	}
	resp := &api.ListDebtsResponse{Debts: make([]*api.Debt, 0, len(debts))}
	for _, d := range debts {
		resp.Debts = append(resp.Debts, toAPIDebt(d))
	}
	return connect.NewResponse(resp), nil
}

// UpdateDebt edits the descriptive fields of a debt. Amounts only change
// through payments.
func (s *DebtService) UpdateDebt(ctx context.Context, req *connect.Request[api.UpdateDebtRequest]) (*connect.Response[api.DebtResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("UpdateDebt request received", "user_id", user.ID, "debt_id", req.Msg.ID)

	debt, err := s.store.GetDebt(ctx, user.ID, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if req.Msg.ContactID != nil {
		if err := checkContact(ctx, s.store, user.ID, *req.Msg.ContactID); err != nil {
			return nil, toConnectError(err)
		}
		debt.ContactID = *req.Msg.ContactID
	}
	if req.Msg.Description != nil {
		debt.Description = strings.TrimSpace(*req.Msg.Description)
		if len(debt.Description) > maxDescription {
			return nil, toConnectError(invalidf("description must be at most %d characters", maxDescription))
		}
	}
	switch {
	case req.Msg.ClearDueDate:
		debt.DueDate = nil
	case req.Msg.DueDate != nil:
		debt.DueDate = req.Msg.DueDate
	}

	now := s.now().Unix()
	calculator.RefreshStatus(debt, now)
	debt.UpdatedAt = now
	if err := s.store.UpdateDebt(ctx, debt); err != nil {
		s.logger.Error("UpdateDebt failed", "debt_id", debt.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.DebtResponse{Debt: toAPIDebt(debt)}), nil
}

func (s *DebtService) DeleteDebt(ctx context.Context, req *connect.Request[api.IDRequest]) (*connect.Response[api.Empty], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("DeleteDebt request received", "user_id", user.ID, "debt_id", req.Msg.ID)

	if err := s.store.DeleteDebt(ctx, user.ID, req.Msg.ID); err != nil {
		s.logger.Warn("DeleteDebt failed", "debt_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.Empty{}), nil
}

// paymentTransaction is the ledger entry for money moving on a debt. Money
// received on a debt owed to the user is income; paying back is an expense.
func paymentTransaction(debt *models.Debt, amount decimal.Decimal, at int64) *models.Transaction {
	t := models.TransactionExpense
	if debt.Direction == models.DebtOwedToMe {
		t = models.TransactionIncome
	}
	desc := "Debt payment"
	if debt.Description != "" {
		desc += ": " + debt.Description
	}
	return &models.Transaction{
		UserID:      debt.UserID,
		Type:        t,
		Amount:      amount,
		Currency:    debt.Currency,
		Description: desc,
		ContactID:   debt.ContactID,
		Date:        at,
	}
}

// recordPayment stores payment against debt and, when book is set, the
// matching ledger entry.
func (s *DebtService) recordPayment(ctx context.Context, user *models.User, debt *models.Debt, payment *models.DebtPayment, book bool) (*models.Transaction, error) {
	if !book {
		return nil, s.store.AddDebtPayment(ctx, debt, payment, nil)
	}
	txn := paymentTransaction(debt, payment.Amount, payment.PaidAt)
	err := reserved(ctx, s.enforcer, s.logger, user, billing.ResourceTransactions, func() error {
		return s.store.AddDebtPayment(ctx, debt, payment, txn)
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// AddPayment applies a partial or full repayment.
func (s *DebtService) AddPayment(ctx context.Context, req *connect.Request[api.AddPaymentRequest]) (*connect.Response[api.DebtResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("AddPayment request received", "user_id", user.ID, "debt_id", req.Msg.DebtID, "amount", req.Msg.Amount.String())

	debt, err := s.store.GetDebt(ctx, user.ID, req.Msg.DebtID)
	if err != nil {
		return nil, toConnectError(err)
	}
	now := s.now().Unix()
	if err := calculator.ApplyPayment(debt, req.Msg.Amount, now); err != nil {
		return nil, toConnectError(err)
	}

	payment := &models.DebtPayment{Amount: req.Msg.Amount, Note: strings.TrimSpace(req.Msg.Note), PaidAt: now}
	if _, err := s.recordPayment(ctx, user, debt, payment, req.Msg.RecordTransaction); err != nil {
		s.logger.Error("AddPayment failed", "debt_id", debt.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Payment recorded", "debt_id", debt.ID, "remaining", debt.CurrentAmount.String(), "status", debt.Status)
	return s.withPayments(ctx, debt)
}

// MarkPaid settles the remaining balance in one payment.
func (s *DebtService) MarkPaid(ctx context.Context, req *connect.Request[api.MarkPaidRequest]) (*connect.Response[api.DebtResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("MarkPaid request received", "user_id", user.ID, "debt_id", req.Msg.DebtID)

	debt, err := s.store.GetDebt(ctx, user.ID, req.Msg.DebtID)
	if err != nil {
		return nil, toConnectError(err)
	}
	now := s.now().Unix()
	remainder, err := calculator.MarkPaid(debt, now)
	if err != nil {
		return nil, toConnectError(err)
	}

	payment := &models.DebtPayment{Amount: remainder, Note: "Marked as paid", PaidAt: now}
	if _, err := s.recordPayment(ctx, user, debt, payment, req.Msg.RecordTransaction && remainder.IsPositive()); err != nil {
		s.logger.Error("MarkPaid failed", "debt_id", debt.ID, "error", err)
		return nil, toConnectError(err)
	}
	return s.withPayments(ctx, debt)
}

func (s *DebtService) withPayments(ctx context.Context, debt *models.Debt) (*connect.Response[api.DebtResponse], error) {
	payments, err := s.store.ListDebtPayments(ctx, debt.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.DebtResponse{Debt: toAPIDebt(debt), Payments: toAPIPayments(payments)}), nil
}

// allDebts pages through every debt of a user.
func allDebts(ctx context.Context, store storage.DebtStore, userID string, filter storage.DebtFilter) ([]*models.Debt, error) {
	const pageSize = 500
	var out []*models.Debt
	for offset := 0; ; offset += pageSize {
		filter.Page = storage.Page{Limit: pageSize, Offset: offset}
		page, err := store.ListDebts(ctx, userID, filter)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		if len(page) < pageSize {
			return out, nil
		}
	}
}

// GetContactBalances nets the unpaid debts per contact and currency.
func (s *DebtService) GetContactBalances(ctx context.Context, req *connect.Request[api.Empty]) (*connect.Response[api.ContactBalancesResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("GetContactBalances request received", "user_id", user.ID)

	debts, err := allDebts(ctx, s.store, user.ID, storage.DebtFilter{})
	if err != nil {
		s.logger.Error("GetContactBalances failed", "user_id", user.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ContactBalancesResponse{Balances: toAPIBalances(calculator.ContactBalances(debts))}), nil
}

// SplitExpense books a shared bill as one expense and opens a debt owed to
// the user for every contact's share.
func (s *DebtService) SplitExpense(ctx context.Context, req *connect.Request[api.SplitExpenseRequest]) (*connect.Response[api.SplitExpenseResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	m := req.Msg
	s.logger.Info("SplitExpense request received",
		"user_id", user.ID,
		"participants", len(m.Participants),
		"items", len(m.Items),
	)

	description, err := requireName("description", m.Description, maxDescription)
	if err != nil {
		return nil, toConnectError(err)
	}
	currency, err := resolveCurrency(ctx, s.store, user, m.Currency)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := checkCategory(ctx, s.store, user.ID, models.TransactionExpense, m.CategoryID, ""); err != nil {
		return nil, toConnectError(err)
	}

	seen := make(map[string]bool, len(m.Participants))
	participants := make([]string, 0, len(m.Participants))
	for _, p := range m.Participants {
		if seen[p] {
			return nil, toConnectError(invalidf("participant %q listed twice", p))
		}
		seen[p] = true
		if p != Me {
			if err := checkContact(ctx, s.store, user.ID, p); err != nil {
				return nil, toConnectError(err)
			}
		}
		participants = append(participants, p)
	}
	items := make([]calculator.SplitItem, 0, len(m.Items))
	for _, item := range m.Items {
		if err := calculator.ValidateAmount(item.Amount); err != nil {
			return nil, toConnectError(invalidf("item %q: %v", item.Description, err))
		}
		for _, p := range item.AssignedTo {
			if !seen[p] {
				return nil, toConnectError(invalidf("item %q assigned to unknown participant %q", item.Description, p))
			}
		}
		items = append(items, calculator.SplitItem{Description: item.Description, Amount: item.Amount, AssignedTo: item.AssignedTo})
	}
	if err := calculator.ValidateAmount(m.Total); err != nil {
		return nil, toConnectError(err)
	}
	subtotal := m.Subtotal
	if subtotal.IsZero() && len(items) == 0 {
		subtotal = m.Total
	}

	shares, err := calculator.SplitShares(items, m.Total, subtotal, participants)
	if err != nil {
		return nil, toConnectError(err)
	}

	now := s.now().Unix()
	txn := &models.Transaction{
		UserID:      user.ID,
		Type:        models.TransactionExpense,
		Amount:      m.Total,
		Currency:    currency,
		Description: description,
		CategoryID:  m.CategoryID,
		Date:        now,
	}
	resp := &api.SplitExpenseResponse{}
	resources := []billing.Resource{billing.ResourceTransactions}
	var debts []*models.Debt
	for _, p := range participants {
		share := shares[p]
		out := api.Share{Participant: p, Subtotal: share.Subtotal, Tax: share.Tax, Total: share.Total}
		if p != Me && share.Total.IsPositive() {
			debt := &models.Debt{
				UserID:         user.ID,
				ContactID:      p,
				Direction:      models.DebtOwedToMe,
				Description:    description,
				OriginalAmount: share.Total,
				Currency:       currency,
				DueDate:        m.DueDate,
			}
			if err := calculator.NewDebt(debt, now); err != nil {
				return nil, toConnectError(err)
			}
			debts = append(debts, debt)
			resources = append(resources, billing.ResourceDebts)
		}
		resp.Shares = append(resp.Shares, out)
	}

	err = reservedAll(ctx, s.enforcer, s.logger, user, resources, func() error {
		return s.store.CreateSplitExpense(ctx, txn, debts)
	})
	if err != nil {
		s.logger.Warn("SplitExpense failed", "user_id", user.ID, "debts", len(debts), "error", err)
		return nil, toConnectError(err)
	}

	resp.Transaction = toAPITransaction(txn)
	byContact := make(map[string]string, len(debts))
	for _, d := range debts {
		byContact[d.ContactID] = d.ID
	}
	for i := range resp.Shares {
		resp.Shares[i].DebtID = byContact[resp.Shares[i].Participant]
	}

	s.logger.Info("Expense split", "transaction_id", txn.ID, "shares", len(resp.Shares))
	return connect.NewResponse(resp), nil
}
