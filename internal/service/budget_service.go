package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/api"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/billing"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/calculator"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/storage"
)

const maxPlanName = 100

// BudgetService implements the BudgetService RPC interface. It covers
// spending budgets and savings goals.
type BudgetService struct {
	store    storage.Store
	enforcer *billing.Enforcer
	loc      *time.Location
	logger   *slog.Logger
	now      func() time.Time
}

func NewBudgetService(store storage.Store, enforcer *billing.Enforcer, loc *time.Location, logger *slog.Logger) *BudgetService {
	return &BudgetService{store: store, enforcer: enforcer, loc: loc, logger: logger, now: time.Now}
}

func (s *BudgetService) checkBudget(ctx context.Context, userID string, b *models.Budget) error {
	if err := calculator.ValidateAmount(b.Amount); err != nil {
		return err
	}
	if !b.Period.Valid() {
		return invalidf("period must be weekly, monthly or yearly")
	}
	if b.CategoryID == "" {
		return nil
	}
	cat, err := s.store.GetCategory(ctx, userID, b.CategoryID)
	if errors.Is(err, storage.ErrNotFound) {
		return invalidf("unknown category %q", b.CategoryID)
	}
	if err != nil {
		return err
	}
	if cat.Type != models.TransactionExpense {
		return invalidf("budgets only apply to expense categories")
	}
	return nil
}

func (s *BudgetService) CreateBudget(ctx context.Context, req *connect.Request[api.CreateBudgetRequest]) (*connect.Response[api.BudgetResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("CreateBudget request received", "user_id", user.ID, "period", req.Msg.Period)

	name, err := requireName("name", req.Msg.Name, maxPlanName)
	if err != nil {
		return nil, toConnectError(err)
	}
	budget := &models.Budget{
		UserID:     user.ID,
		CategoryID: req.Msg.CategoryID,
		Name:       name,
		Amount:     req.Msg.Amount,
		Period:     models.BudgetPeriod(req.Msg.Period),
	}
	if err := s.checkBudget(ctx, user.ID, budget); err != nil {
		return nil, toConnectError(err)
	}
	err = reserved(ctx, s.enforcer, s.logger, user, billing.ResourceBudgets, func() error {
		return s.store.CreateBudget(ctx, budget)
	})
	if err != nil {
		s.logger.Warn("CreateBudget failed", "user_id", user.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.BudgetResponse{Budget: toAPIBudget(budget, nil)}), nil
}

// ListBudgets returns every budget with its spending in the current period.
func (s *BudgetService) ListBudgets(ctx context.Context, req *connect.Request[api.Empty]) (*connect.Response[api.ListBudgetsResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("ListBudgets request received", "user_id", user.ID)

	budgets, err := s.store.ListBudgets(ctx, user.ID)
	if err != nil {
		s.logger.Error("ListBudgets failed", "user_id", user.ID, "error", err)
		return nil, toConnectError(err)
	}
	resp := &api.ListBudgetsResponse{Budgets: make([]*api.Budget, 0, len(budgets))}
	if len(budgets) == 0 {
		return connect.NewResponse(resp), nil
	}

	// One query covering the widest period of any budget.
	now := s.now().In(s.loc)
	var from, to time.Time
	for i, b := range budgets {
		start, end := calculator.PeriodBounds(b.Period, now)
		if i == 0 || start.Before(from) {
			from = start
		}
		if i == 0 || end.After(to) {
			to = end
		}
	}
	txns, err := allTransactions(ctx, s.store, user.ID, storage.TransactionFilter{
		Type: models.TransactionExpense,
		From: from.Unix(),
		To:   to.Unix(),
	})
	if err != nil {
		s.logger.Error("ListBudgets failed", "user_id", user.ID, "error", err)
		return nil, toConnectError(err)
	}

	for _, b := range budgets {
		progress := calculator.ComputeBudgetProgress(b, txns, now)
		resp.Budgets = append(resp.Budgets, toAPIBudget(b, &progress))
	}
	return connect.NewResponse(resp), nil
}

func (s *BudgetService) UpdateBudget(ctx context.Context, req *connect.Request[api.UpdateBudgetRequest]) (*connect.Response[api.BudgetResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("UpdateBudget request received", "user_id", user.ID, "budget_id", req.Msg.ID)

	budget, err := s.store.GetBudget(ctx, user.ID, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if req.Msg.Name != nil {
		if budget.Name, err = requireName("name", *req.Msg.Name, maxPlanName); err != nil {
			return nil, toConnectError(err)
		}
	}
	if req.Msg.CategoryID != nil {
		budget.CategoryID = *req.Msg.CategoryID
	}
	if req.Msg.Amount != nil {
		budget.Amount = *req.Msg.Amount
	}
	if req.Msg.Period != nil {
		budget.Period = models.BudgetPeriod(*req.Msg.Period)
	}
	if err := s.checkBudget(ctx, user.ID, budget); err != nil {
		return nil, toConnectError(err)
	}
	budget.UpdatedAt = s.now().Unix()
	if err := s.store.UpdateBudget(ctx, budget); err != nil {
		s.logger.Error("UpdateBudget failed", "budget_id", budget.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.BudgetResponse{Budget: toAPIBudget(budget, nil)}), nil
}

func (s *BudgetService) DeleteBudget(ctx context.Context, req *connect.Request[api.IDRequest]) (*connect.Response[api.Empty], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := s.store.DeleteBudget(ctx, user.ID, req.Msg.ID); err != nil {
		s.logger.Warn("DeleteBudget failed", "budget_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.Empty{}), nil
}

func (s *BudgetService) CreateGoal(ctx context.Context, req *connect.Request[api.CreateGoalRequest]) (*connect.Response[api.GoalResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("CreateGoal request received", "user_id", user.ID)

	name, err := requireName("name", req.Msg.Name, maxPlanName)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := calculator.ValidateAmount(req.Msg.TargetAmount); err != nil {
		return nil, toConnectError(err)
	}
	if req.Msg.Deadline != nil && *req.Msg.Deadline <= s.now().Unix() {
		return nil, toConnectError(invalidf("deadline must be in the future"))
	}
	goal := &models.Goal{
		UserID:       user.ID,
		Name:         name,
		TargetAmount: req.Msg.TargetAmount,
		Deadline:     req.Msg.Deadline,
		Status:       models.GoalActive,
	}
	err = reserved(ctx, s.enforcer, s.logger, user, billing.ResourceGoals, func() error {
		return s.store.CreateGoal(ctx, goal)
	})
	if err != nil {
		s.logger.Warn("CreateGoal failed", "user_id", user.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GoalResponse{Goal: toAPIGoal(goal)}), nil
}

func (s *BudgetService) ListGoals(ctx context.Context, req *connect.Request[api.Empty]) (*connect.Response[api.ListGoalsResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	goals, err := s.store.ListGoals(ctx, user.ID)
	if err != nil {
		s.logger.Error("ListGoals failed", "user_id", user.ID, "error", err)
		return nil, toConnectError(err)
	}
	resp := &api.ListGoalsResponse{Goals: make([]*api.Goal, 0, len(goals))}
	for _, g := range goals {
		resp.Goals = append(resp.Goals, toAPIGoal(g))
	}
	return connect.NewResponse(resp), nil
}

// ContributeGoal adds savings to a goal, completing it at the target.
func (s *BudgetService) ContributeGoal(ctx context.Context, req *connect.Request[api.ContributeGoalRequest]) (*connect.Response[api.GoalResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("ContributeGoal request received", "user_id", user.ID, "goal_id", req.Msg.ID, "amount", req.Msg.Amount.String())

	goal, err := s.store.GetGoal(ctx, user.ID, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := calculator.Contribute(goal, req.Msg.Amount, s.now().Unix()); err != nil {
		return nil, toConnectError(err)
	}
	if err := s.store.UpdateGoal(ctx, goal); err != nil {
		s.logger.Error("ContributeGoal failed", "goal_id", goal.ID, "error", err)
		return nil, toConnectError(err)
	}
	if goal.Status == models.GoalCompleted {
		s.logger.Info("Goal completed", "goal_id", goal.ID)
	}
	return connect.NewResponse(&api.GoalResponse{Goal: toAPIGoal(goal)}), nil
}

func (s *BudgetService) DeleteGoal(ctx context.Context, req *connect.Request[api.IDRequest]) (*connect.Response[api.Empty], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := s.store.DeleteGoal(ctx, user.ID, req.Msg.ID); err != nil {
		s.logger.Warn("DeleteGoal failed", "goal_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.Empty{}), nil
}
