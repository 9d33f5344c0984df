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
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/recurring"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/storage"
)

const maxTitle = 200

// ReminderService implements the ReminderService RPC interface.
type ReminderService struct {
	store    storage.Store
	enforcer *billing.Enforcer
	loc      *time.Location
	logger   *slog.Logger
	now      func() time.Time
}

func NewReminderService(store storage.Store, enforcer *billing.Enforcer, loc *time.Location, logger *slog.Logger) *ReminderService {
	return &ReminderService{store: store, enforcer: enforcer, loc: loc, logger: logger, now: time.Now}
}

func validRepeat(repeat string) error {
	if repeat != "" && !models.Frequency(repeat).Valid() {
		return invalidf("repeat must be daily, weekly, monthly or yearly")
	}
	return nil
}

func (s *ReminderService) CreateReminder(ctx context.Context, req *connect.Request[api.CreateReminderRequest]) (*connect.Response[api.ReminderResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("CreateReminder request received", "user_id", user.ID, "due_at", req.Msg.DueAt)

	title, err := requireName("title", req.Msg.Title, maxTitle)
	if err != nil {
		return nil, toConnectError(err)
	}
	if req.Msg.DueAt <= 0 {
		return nil, toConnectError(invalidf("dueAt is required"))
	}
	if err := validRepeat(req.Msg.Repeat); err != nil {
		return nil, toConnectError(err)
	}
	if req.Msg.DebtID != "" {
		if _, err := s.store.GetDebt(ctx, user.ID, req.Msg.DebtID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, toConnectError(invalidf("unknown debt %q", req.Msg.DebtID))
			}
			return nil, toConnectError(err)
		}
	}

	reminder := &models.Reminder{
		UserID:      user.ID,
		Title:       title,
		Description: strings.TrimSpace(req.Msg.Description),
		DueAt:       req.Msg.DueAt,
		AnchorAt:    req.Msg.DueAt,
		Repeat:      models.Frequency(req.Msg.Repeat),
		DebtID:      req.Msg.DebtID,
	}
	err = reserved(ctx, s.enforcer, s.logger, user, billing.ResourceReminders, func() error {
		return s.store.CreateReminder(ctx, reminder)
	})
	if err != nil {
		s.logger.Warn("CreateReminder failed", "user_id", user.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ReminderResponse{Reminder: toAPIReminder(reminder)}), nil
}

func (s *ReminderService) ListReminders(ctx context.Context, req *connect.Request[api.ListRemindersRequest]) (*connect.Response[api.ListRemindersResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	reminders, err := s.store.ListReminders(ctx, user.ID, req.Msg.IncludeCompleted)
	if err != nil {
		s.logger.Error("ListReminders failed", "user_id", user.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ListRemindersResponse{Reminders: toAPIReminders(reminders)}), nil
}

// ListDueReminders returns the user's open reminders that are due now.
func (s *ReminderService) ListDueReminders(ctx context.Context, req *connect.Request[api.Empty]) (*connect.Response[api.ListRemindersResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	reminders, err := s.store.ListDueReminders(ctx, user.ID, s.now().Unix())
	if err != nil {
		s.logger.Error("ListDueReminders failed", "user_id", user.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ListRemindersResponse{Reminders: toAPIReminders(reminders)}), nil
}

func (s *ReminderService) UpdateReminder(ctx context.Context, req *connect.Request[api.UpdateReminderRequest]) (*connect.Response[api.ReminderResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("UpdateReminder request received", "user_id", user.ID, "reminder_id", req.Msg.ID)

	reminder, err := s.store.GetReminder(ctx, user.ID, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if req.Msg.Title != nil {
		if reminder.Title, err = requireName("title", *req.Msg.Title, maxTitle); err != nil {
			return nil, toConnectError(err)
		}
	}
	if req.Msg.Description != nil {
		reminder.Description = strings.TrimSpace(*req.Msg.Description)
	}
	if req.Msg.DueAt != nil {
		if *req.Msg.DueAt <= 0 {
			return nil, toConnectError(invalidf("dueAt is required"))
		}
		reminder.DueAt = *req.Msg.DueAt
	}
	if req.Msg.Repeat != nil {
		if err := validRepeat(*req.Msg.Repeat); err != nil {
			return nil, toConnectError(err)
		}
		reminder.Repeat = models.Frequency(*req.Msg.Repeat)
	}
	if req.Msg.DueAt != nil || req.Msg.Repeat != nil {
		reminder.AnchorAt = reminder.DueAt
	}
	reminder.UpdatedAt = s.now().Unix()

	if err := s.store.UpdateReminder(ctx, reminder); err != nil {
		s.logger.Error("UpdateReminder failed", "reminder_id", reminder.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ReminderResponse{Reminder: toAPIReminder(reminder)}), nil
}

// CompleteReminder closes a one-off reminder. A repeating reminder moves to
// its next occurrence instead and stays open.
func (s *ReminderService) CompleteReminder(ctx context.Context, req *connect.Request[api.IDRequest]) (*connect.Response[api.ReminderResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("CompleteReminder request received", "user_id", user.ID, "reminder_id", req.Msg.ID)

	reminder, err := s.store.GetReminder(ctx, user.ID, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if reminder.Completed {
		return connect.NewResponse(&api.ReminderResponse{Reminder: toAPIReminder(reminder)}), nil
	}

	now := s.now().Unix()
	after := max(now, reminder.DueAt)
	if !recurring.RollForward(reminder, after, s.loc) {
		reminder.Completed = true
		reminder.CompletedAt = &now
	}
	reminder.UpdatedAt = now

	if err := s.store.UpdateReminder(ctx, reminder); err != nil {
		s.logger.Error("CompleteReminder failed", "reminder_id", reminder.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ReminderResponse{Reminder: toAPIReminder(reminder)}), nil
}

func (s *ReminderService) DeleteReminder(ctx context.Context, req *connect.Request[api.IDRequest]) (*connect.Response[api.Empty], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := s.store.DeleteReminder(ctx, user.ID, req.Msg.ID); err != nil {
		s.logger.Warn("DeleteReminder failed", "reminder_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.Empty{}), nil
}
