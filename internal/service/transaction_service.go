package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/api"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/billing"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/calculator"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/storage"
)

const maxDescription = 500

// TransactionService implements the TransactionService RPC interface.
type TransactionService struct {
	store    storage.Store
	enforcer *billing.Enforcer
	loc      *time.Location
	logger   *slog.Logger
}

// NewTransactionService creates a TransactionService. Reports bucket by month in loc.
func NewTransactionService(store storage.Store, enforcer *billing.Enforcer, loc *time.Location, logger *slog.Logger) *TransactionService {
	return &TransactionService{store: store, enforcer: enforcer, loc: loc, logger: logger}
}

// checkCategory verifies that categoryID is a top-level category of type t
// visible to the user and that subcategoryID, if set, is one of its children.
func checkCategory(ctx context.Context, store storage.CategoryStore, userID string, t models.TransactionType, categoryID, subcategoryID string) error {
	if categoryID == "" {
		if subcategoryID != "" {
			return invalidf("subcategory requires a category")
		}
		return nil
	}
	cat, err := store.GetCategory(ctx, userID, categoryID)
	if errors.Is(err, storage.ErrNotFound) {
		return invalidf("unknown category %q", categoryID)
	}
	if err != nil {
		return err
	}
	if cat.ParentID != "" {
		return invalidf("category %q is a subcategory", categoryID)
	}
	if cat.Type != t {
		return invalidf("category %q is for %s", cat.Name, cat.Type)
	}
	if subcategoryID == "" {
		return nil
	}
	sub, err := store.GetCategory(ctx, userID, subcategoryID)
	if errors.Is(err, storage.ErrNotFound) {
		return invalidf("unknown subcategory %q", subcategoryID)
	}
	if err != nil {
		return err
	}
	if sub.ParentID != cat.ID {
		return invalidf("subcategory %q does not belong to %q", sub.Name, cat.Name)
	}
	return nil
}

func checkContact(ctx context.Context, store storage.ContactStore, userID, contactID string) error {
	if contactID == "" {
		return nil
	}
	if _, err := store.GetContact(ctx, userID, contactID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return invalidf("unknown contact %q", contactID)
		}
		return err
	}
	return nil
}

func (s *TransactionService) validate(ctx context.Context, user *models.User, t *models.Transaction) error {
	if !t.Type.Valid() {
		return invalidf("type must be income or expense")
	}
	if err := calculator.ValidateAmount(t.Amount); err != nil {
		return err
	}
	if len(t.Description) > maxDescription {
		return invalidf("description must be at most %d characters", maxDescription)
	}
	currency, err := resolveCurrency(ctx, s.store, user, t.Currency)
	if err != nil {
		return err
	}
	t.Currency = currency
	if err := checkCategory(ctx, s.store, user.ID, t.Type, t.CategoryID, t.SubcategoryID); err != nil {
		return err
	}
	return checkContact(ctx, s.store, user.ID, t.ContactID)
}

// CreateTransaction books a new income or expense.
func (s *TransactionService) CreateTransaction(ctx context.Context, req *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.TransactionResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("CreateTransaction request received", "user_id", user.ID, "type", req.Msg.Type)

	txn := &models.Transaction{
		UserID:        user.ID,
		Type:          models.TransactionType(req.Msg.Type),
		Amount:        req.Msg.Amount,
		Currency:      req.Msg.Currency,
		Description:   strings.TrimSpace(req.Msg.Description),
		CategoryID:    req.Msg.CategoryID,
		SubcategoryID: req.Msg.SubcategoryID,
		ContactID:     req.Msg.ContactID,
		Date:          req.Msg.Date,
	}
	if err := s.validate(ctx, user, txn); err != nil {
		return nil, toConnectError(err)
	}

	err = reserved(ctx, s.enforcer, s.logger, user, billing.ResourceTransactions, func() error {
		return s.store.CreateTransaction(ctx, txn)
	})
	if err != nil {
		s.logger.Warn("CreateTransaction failed", "user_id", user.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Transaction created", "transaction_id", txn.ID)
	return connect.NewResponse(&api.TransactionResponse{Transaction: toAPITransaction(txn)}), nil
}

func (s *TransactionService) GetTransaction(ctx context.Context, req *connect.Request[api.IDRequest]) (*connect.Response[api.TransactionResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	txn, err := s.store.GetTransaction(ctx, user.ID, req.Msg.ID)
	if err != nil {
		s.logger.Warn("GetTransaction failed", "transaction_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.TransactionResponse{Transaction: toAPITransaction(txn)}), nil
}

func (s *TransactionService) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("ListTransactions request received", "user_id", user.ID)

	if req.Msg.Type != "" && !models.TransactionType(req.Msg.Type).Valid() {
		return nil, toConnectError(invalidf("type must be income or expense"))
	}
	txns, err := s.store.ListTransactions(ctx, user.ID, storage.TransactionFilter{
		Type:        models.TransactionType(req.Msg.Type),
		CategoryID:  req.Msg.CategoryID,
		ContactID:   req.Msg.ContactID,
		RecurringID: req.Msg.RecurringID,
		From:        req.Msg.From,
		To:          req.Msg.To,
		Search:      strings.TrimSpace(req.Msg.Search),
		Page:        storage.Page{Limit: req.Msg.Limit, Offset: req.Msg.Offset},
	})
	if err != nil {
		s.logger.Error("ListTransactions failed", "user_id", user.ID, "error", err)
		return nil, toConnectError(err)
	}

	resp := &api.ListTransactionsResponse{Transactions: make([]*api.Transaction, 0, len(txns))}
	for _, t := range txns {
		resp.Transactions = append(resp.Transactions, toAPITransaction(t))
	}
	return connect.NewResponse(resp), nil
}

// UpdateTransaction applies the fields set in the request.
func (s *TransactionService) UpdateTransaction(ctx context.Context, req *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.TransactionResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("UpdateTransaction request received", "user_id", user.ID, "transaction_id", req.Msg.ID)

	txn, err := s.store.GetTransaction(ctx, user.ID, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	m := req.Msg
	if m.Type != nil {
		txn.Type = models.TransactionType(*m.Type)
	}
	if m.Amount != nil {
		txn.Amount = *m.Amount
	}
	if m.Currency != nil {
		txn.Currency = *m.Currency
	}
	if m.Description != nil {
		txn.Description = strings.TrimSpace(*m.Description)
	}
	if m.CategoryID != nil {
		txn.CategoryID = *m.CategoryID
		if m.SubcategoryID == nil {
			txn.SubcategoryID = ""
		}
	}
	if m.SubcategoryID != nil {
		txn.SubcategoryID = *m.SubcategoryID
	}
	if m.ContactID != nil {
		txn.ContactID = *m.ContactID
	}
	if m.Date != nil {
		txn.Date = *m.Date
	}

	if err := s.validate(ctx, user, txn); err != nil {
		return nil, toConnectError(err)
	}
	if err := s.store.UpdateTransaction(ctx, txn); err != nil {
		s.logger.Error("UpdateTransaction failed", "transaction_id", txn.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.TransactionResponse{Transaction: toAPITransaction(txn)}), nil
}

// DeleteTransaction removes a transaction. Monthly usage is not refunded.
func (s *TransactionService) DeleteTransaction(ctx context.Context, req *connect.Request[api.IDRequest]) (*connect.Response[api.Empty], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("DeleteTransaction request received", "user_id", user.ID, "transaction_id", req.Msg.ID)

	if err := s.store.DeleteTransaction(ctx, user.ID, req.Msg.ID); err != nil {
		s.logger.Warn("DeleteTransaction failed", "transaction_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.Empty{}), nil
}

// allTransactions pages through every transaction matching filter.
func allTransactions(ctx context.Context, store storage.TransactionStore, userID string, filter storage.TransactionFilter) ([]*models.Transaction, error) {
	const pageSize = 500
	var out []*models.Transaction
	for offset := 0; ; offset += pageSize {
		filter.Page = storage.Page{Limit: pageSize, Offset: offset}
		page, err := store.ListTransactions(ctx, userID, filter)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		if len(page) < pageSize {
			return out, nil
		}
	}
}

// GetSummary totals income and expenses in [from, to).
func (s *TransactionService) GetSummary(ctx context.Context, req *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("GetSummary request received", "user_id", user.ID, "from", req.Msg.From, "to", req.Msg.To)

	if req.Msg.From != 0 && req.Msg.To != 0 && req.Msg.To <= req.Msg.From {
		return nil, toConnectError(invalidf("to must be after from"))
	}
	txns, err := allTransactions(ctx, s.store, user.ID, storage.TransactionFilter{From: req.Msg.From, To: req.Msg.To})
	if err != nil {
		s.logger.Error("GetSummary failed", "user_id", user.ID, "error", err)
		return nil, toConnectError(err)
	}

	sum := calculator.Summarize(txns, req.Msg.From, req.Msg.To)
	resp := &api.GetSummaryResponse{
		Income:     sum.Income,
		Expense:    sum.Expense,
		Net:        sum.Net,
		Count:      sum.Count,
		ByCategory: make([]api.CategoryTotal, 0, len(sum.ByCategory)),
	}
	for _, ct := range sum.ByCategory {
		resp.ByCategory = append(resp.ByCategory, api.CategoryTotal{CategoryID: ct.CategoryID, Total: ct.Total, Count: ct.Count})
	}
	return connect.NewResponse(resp), nil
}

// GetMonthlyTrend returns income and expense per month of a year.
func (s *TransactionService) GetMonthlyTrend(ctx context.Context, req *connect.Request[api.GetMonthlyTrendRequest]) (*connect.Response[api.GetMonthlyTrendResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	year := req.Msg.Year
	if year == 0 {
		year = time.Now().In(s.loc).Year()
	}
	if year < 1970 || year > 9999 {
		return nil, toConnectError(invalidf("year %d out of range", year))
	}
	s.logger.Info("GetMonthlyTrend request received", "user_id", user.ID, "year", year)

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, s.loc)
	txns, err := allTransactions(ctx, s.store, user.ID, storage.TransactionFilter{
		From: from.Unix(),
		To:   from.AddDate(1, 0, 0).Unix(),
	})
	if err != nil {
		s.logger.Error("GetMonthlyTrend failed", "user_id", user.ID, "error", err)
		return nil, toConnectError(err)
	}

	resp := &api.GetMonthlyTrendResponse{Year: year}
	for _, m := range calculator.MonthlyTrend(txns, year, s.loc) {
		resp.Months = append(resp.Months, api.MonthTotal{Month: int(m.Month), Income: m.Income, Expense: m.Expense})
	}
	return connect.NewResponse(resp), nil
}
