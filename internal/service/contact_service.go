package service

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"

	"connectrpc.com/connect"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/api"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/billing"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/calculator"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/storage"
)

const (
	maxContactName = 100
	maxNotes       = 1000
)

// ContactService implements the ContactService RPC interface.
type ContactService struct {
	store    storage.Store
	enforcer *billing.Enforcer
	logger   *slog.Logger
}

func NewContactService(store storage.Store, enforcer *billing.Enforcer, logger *slog.Logger) *ContactService {
	return &ContactService{store: store, enforcer: enforcer, logger: logger}
}

// fill validates req and copies it onto c.
func (s *ContactService) fill(c *models.Contact, req *api.ContactRequest) error {
	name, err := requireName("name", req.Name, maxContactName)
	if err != nil {
		return err
	}
	email := strings.TrimSpace(req.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return invalidf("invalid email %q", email)
		}
	}
	notes := strings.TrimSpace(req.Notes)
	if len(notes) > maxNotes {
		return invalidf("notes must be at most %d characters", maxNotes)
	}
	c.Name = name
	c.Email = strings.ToLower(email)
	c.Phone = strings.TrimSpace(req.Phone)
	c.Notes = notes
	return nil
}

func (s *ContactService) CreateContact(ctx context.Context, req *connect.Request[api.ContactRequest]) (*connect.Response[api.ContactResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("CreateContact request received", "user_id", user.ID)

	contact := &models.Contact{UserID: user.ID}
	if err := s.fill(contact, req.Msg); err != nil {
		return nil, toConnectError(err)
	}
	err = reserved(ctx, s.enforcer, s.logger, user, billing.ResourceContacts, func() error {
		return s.store.CreateContact(ctx, contact)
	})
	if err != nil {
		s.logger.Warn("CreateContact failed", "user_id", user.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ContactResponse{Contact: toAPIContact(contact)}), nil
}

// GetContact returns a contact with its outstanding balances.
func (s *ContactService) GetContact(ctx context.Context, req *connect.Request[api.IDRequest]) (*connect.Response[api.ContactResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	contact, err := s.store.GetContact(ctx, user.ID, req.Msg.ID)
	if err != nil {
		s.logger.Warn("GetContact failed", "contact_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}
	debts, err := allDebts(ctx, s.store, user.ID, storage.DebtFilter{ContactID: contact.ID})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ContactResponse{
		Contact:  toAPIContact(contact),
		Balances: toAPIBalances(calculator.ContactBalances(debts)),
	}), nil
}

func (s *ContactService) ListContacts(ctx context.Context, req *connect.Request[api.ListContactsRequest]) (*connect.Response[api.ListContactsResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	contacts, err := s.store.ListContacts(ctx, user.ID, strings.TrimSpace(req.Msg.Search))
	if err != nil {
		s.logger.Error("ListContacts failed", "user_id", user.ID, "error", err)
		return nil, toConnectError(err)
	}
	resp := &api.ListContactsResponse{Contacts: make([]*api.Contact, 0, len(contacts))}
	for _, c := range contacts {
		resp.Contacts = append(resp.Contacts, toAPIContact(c))
	}
	return connect.NewResponse(resp), nil
}

func (s *ContactService) UpdateContact(ctx context.Context, req *connect.Request[api.ContactRequest]) (*connect.Response[api.ContactResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("UpdateContact request received", "user_id", user.ID, "contact_id", req.Msg.ID)

	contact, err := s.store.GetContact(ctx, user.ID, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := s.fill(contact, req.Msg); err != nil {
		return nil, toConnectError(err)
	}
	if err := s.store.UpdateContact(ctx, contact); err != nil {
		s.logger.Error("UpdateContact failed", "contact_id", contact.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ContactResponse{Contact: toAPIContact(contact)}), nil
}

// DeleteContact fails with FailedPrecondition while the contact has unpaid debts.
func (s *ContactService) DeleteContact(ctx context.Context, req *connect.Request[api.IDRequest]) (*connect.Response[api.Empty], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("DeleteContact request received", "user_id", user.ID, "contact_id", req.Msg.ID)

	if err := s.store.DeleteContact(ctx, user.ID, req.Msg.ID); err != nil {
		s.logger.Warn("DeleteContact failed", "contact_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.Empty{}), nil
}
