package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/api"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/billing"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/recurring"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/storage"
)

const (
	defaultPreview = 5
	maxPreview     = 50
)

// RecurringService implements the RecurringService RPC interface.
type RecurringService struct {
	store    storage.Store
	enforcer *billing.Enforcer
	executor *recurring.Executor
	logger   *slog.Logger
	now      func() time.Time
}

func NewRecurringService(store storage.Store, enforcer *billing.Enforcer, executor *recurring.Executor, logger *slog.Logger) *RecurringService {
	return &RecurringService{store: store, enforcer: enforcer, executor: executor, logger: logger, now: time.Now}
}

func (s *RecurringService) validate(ctx context.Context, user *models.User, rt *models.RecurringTransaction) error {
	if err := recurring.Validate(rt); err != nil {
		return err
	}
	if len(rt.Description) > maxDescription {
		return invalidf("description must be at most %d characters", maxDescription)
	}
	currency, err := resolveCurrency(ctx, s.store, user, rt.Currency)
	if err != nil {
		return err
	}
	rt.Currency = currency
	return checkCategory(ctx, s.store, user.ID, rt.Type, rt.CategoryID, "")
}

// CreateRecurring stores a template whose first execution is its start date.
// Start dates in the past are caught up by the worker.
func (s *RecurringService) CreateRecurring(ctx context.Context, req *connect.Request[api.CreateRecurringRequest]) (*connect.Response[api.RecurringResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	m := req.Msg
	s.logger.Info("CreateRecurring request received", "user_id", user.ID, "frequency", m.Frequency)

	start := m.StartDate
	if start == 0 {
		start = s.now().Unix()
	}
	rt := &models.RecurringTransaction{
		UserID:      user.ID,
		Type:        models.TransactionType(m.Type),
		Amount:      m.Amount,
		Currency:    m.Currency,
		Description: strings.TrimSpace(m.Description),
		CategoryID:  m.CategoryID,
		Frequency:   models.Frequency(m.Frequency),
		Interval:    m.Interval,
		StartDate:   start,
		EndDate:     m.EndDate,
	}
	if err := s.validate(ctx, user, rt); err != nil {
		return nil, toConnectError(err)
	}
	recurring.Reschedule(rt, start)

	err = reserved(ctx, s.enforcer, s.logger, user, billing.ResourceRecurring, func() error {
		return s.store.CreateRecurring(ctx, rt)
	})
	if err != nil {
		s.logger.Warn("CreateRecurring failed", "user_id", user.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Recurring transaction created", "recurring_id", rt.ID, "next_execution", rt.NextExecution)
	return connect.NewResponse(&api.RecurringResponse{Recurring: toAPIRecurring(rt)}), nil
}

func (s *RecurringService) GetRecurring(ctx context.Context, req *connect.Request[api.IDRequest]) (*connect.Response[api.RecurringResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	rt, err := s.store.GetRecurring(ctx, user.ID, req.Msg.ID)
	if err != nil {
		s.logger.Warn("GetRecurring failed", "recurring_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.RecurringResponse{Recurring: toAPIRecurring(rt)}), nil
}

func (s *RecurringService) ListRecurring(ctx context.Context, req *connect.Request[api.Empty]) (*connect.Response[api.ListRecurringResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	list, err := s.store.ListRecurring(ctx, user.ID)
	if err != nil {
		s.logger.Error("ListRecurring failed", "user_id", user.ID, "error", err)
		return nil, toConnectError(err)
	}
	resp := &api.ListRecurringResponse{Recurring: make([]*api.RecurringTransaction, 0, len(list))}
	for _, rt := range list {
		resp.Recurring = append(resp.Recurring, toAPIRecurring(rt))
	}
	return connect.NewResponse(resp), nil
}

// UpdateRecurring edits a template. Schedule edits restart the occurrence
// count; a paused template stays paused.
func (s *RecurringService) UpdateRecurring(ctx context.Context, req *connect.Request[api.UpdateRecurringRequest]) (*connect.Response[api.RecurringResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	m := req.Msg
	s.logger.Info("UpdateRecurring request received", "user_id", user.ID, "recurring_id", m.ID)

	rt, err := s.store.GetRecurring(ctx, user.ID, m.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if m.Amount != nil {
		rt.Amount = *m.Amount
	}
	if m.Currency != nil {
		rt.Currency = *m.Currency
	}
	if m.Description != nil {
		rt.Description = strings.TrimSpace(*m.Description)
	}
	if m.CategoryID != nil {
		rt.CategoryID = *m.CategoryID
	}

	rescheduled := m.Frequency != nil || m.Interval != nil || m.StartDate != nil
	if m.Frequency != nil {
		rt.Frequency = models.Frequency(*m.Frequency)
	}
	if m.Interval != nil {
		rt.Interval = *m.Interval
	}
	start := rt.NextExecution
	if m.StartDate != nil {
		start = *m.StartDate
		rt.StartDate = start
	}
	switch {
	case m.ClearEndDate:
		rt.EndDate = nil
	case m.EndDate != nil:
		rt.EndDate = m.EndDate
	}

	if err := s.validate(ctx, user, rt); err != nil {
		return nil, toConnectError(err)
	}
	wasActive := rt.Active
	if rescheduled {
		recurring.Reschedule(rt, start)
		rt.Active = rt.Active && wasActive
	} else if rt.EndDate != nil && rt.NextExecution > *rt.EndDate {
		rt.Active = false
	}
	rt.UpdatedAt = s.now().Unix()

	if err := s.store.UpdateRecurring(ctx, rt); err != nil {
		s.logger.Error("UpdateRecurring failed", "recurring_id", rt.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.RecurringResponse{Recurring: toAPIRecurring(rt)}), nil
}

// SetRecurringActive pauses or resumes a template. Resuming a template
// whose end date has passed is rejected.
func (s *RecurringService) SetRecurringActive(ctx context.Context, req *connect.Request[api.SetRecurringActiveRequest]) (*connect.Response[api.RecurringResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("SetRecurringActive request received", "user_id", user.ID, "recurring_id", req.Msg.ID, "active", req.Msg.Active)

	rt, err := s.store.GetRecurring(ctx, user.ID, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if req.Msg.Active && rt.EndDate != nil && rt.NextExecution > *rt.EndDate {
		return nil, toConnectError(invalidf("recurring transaction has ended"))
	}
	rt.Active = req.Msg.Active
	rt.UpdatedAt = s.now().Unix()
	if err := s.store.UpdateRecurring(ctx, rt); err != nil {
		s.logger.Error("SetRecurringActive failed", "recurring_id", rt.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.RecurringResponse{Recurring: toAPIRecurring(rt)}), nil
}

// DeleteRecurring removes a template. Transactions it spawned are kept.
func (s *RecurringService) DeleteRecurring(ctx context.Context, req *connect.Request[api.IDRequest]) (*connect.Response[api.Empty], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("DeleteRecurring request received", "user_id", user.ID, "recurring_id", req.Msg.ID)

	if err := s.store.DeleteRecurring(ctx, user.ID, req.Msg.ID); err != nil {
		s.logger.Warn("DeleteRecurring failed", "recurring_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.Empty{}), nil
}

// ExecuteRecurringNow books one extra transaction from the template today.
// The schedule is not moved.
func (s *RecurringService) ExecuteRecurringNow(ctx context.Context, req *connect.Request[api.IDRequest]) (*connect.Response[api.ExecuteRecurringResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("ExecuteRecurringNow request received", "user_id", user.ID, "recurring_id", req.Msg.ID)

	rt, err := s.store.GetRecurring(ctx, user.ID, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	txn, err := s.executor.ExecuteNow(ctx, user, rt, s.now())
	if err != nil {
		s.logger.Warn("ExecuteRecurringNow failed", "recurring_id", rt.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ExecuteRecurringResponse{
		Transaction: toAPITransaction(txn),
		Recurring:   toAPIRecurring(rt),
	}), nil
}

// PreviewRecurring lists the upcoming execution dates of an active template.
func (s *RecurringService) PreviewRecurring(ctx context.Context, req *connect.Request[api.PreviewRecurringRequest]) (*connect.Response[api.PreviewRecurringResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	count := req.Msg.Count
	switch {
	case count <= 0:
		count = defaultPreview
	case count > maxPreview:
		count = maxPreview
	}

	rt, err := s.store.GetRecurring(ctx, user.ID, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	resp := &api.PreviewRecurringResponse{Dates: []int64{}}
	if rt.Active {
		resp.Dates = recurring.Preview(rt, s.executor.Location(), count)
	}
	return connect.NewResponse(resp), nil
}
