package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"connectrpc.com/connect"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/api"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/auth"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/billing"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/storage"
)

const maxCategoryName = 50

var (
	errSystemCategory = fmt.Errorf("%w: system categories are read-only", auth.ErrPermissionDenied)
	hexColor          = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// CategoryService implements the CategoryService RPC interface.
type CategoryService struct {
	store    storage.Store
	enforcer *billing.Enforcer
	logger   *slog.Logger
}

func NewCategoryService(store storage.Store, enforcer *billing.Enforcer, logger *slog.Logger) *CategoryService {
	return &CategoryService{store: store, enforcer: enforcer, logger: logger}
}

func validColor(color string) error {
	if color != "" && !hexColor.MatchString(color) {
		return invalidf("color must look like #rrggbb")
	}
	return nil
}

// CreateCategory adds a user category. A subcategory must sit under a
// top-level category of the same type.
func (s *CategoryService) CreateCategory(ctx context.Context, req *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CategoryResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("CreateCategory request received", "user_id", user.ID, "name", req.Msg.Name)

	name, err := requireName("name", req.Msg.Name, maxCategoryName)
	if err != nil {
		return nil, toConnectError(err)
	}
	cat := &models.Category{
		UserID:   user.ID,
		ParentID: req.Msg.ParentID,
		Name:     name,
		Type:     models.TransactionType(req.Msg.Type),
		Color:    strings.TrimSpace(req.Msg.Color),
		Icon:     strings.TrimSpace(req.Msg.Icon),
	}
	if !cat.Type.Valid() {
		return nil, toConnectError(invalidf("type must be income or expense"))
	}
	if err := validColor(cat.Color); err != nil {
		return nil, toConnectError(err)
	}
	if cat.ParentID != "" {
		parent, err := s.store.GetCategory(ctx, user.ID, cat.ParentID)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, toConnectError(invalidf("unknown parent category %q", cat.ParentID))
		}
		if err != nil {
			return nil, toConnectError(err)
		}
		if parent.ParentID != "" {
			return nil, toConnectError(invalidf("subcategories cannot be nested"))
		}
		if parent.Type != cat.Type {
			return nil, toConnectError(invalidf("parent category %q is for %s", parent.Name, parent.Type))
		}
	}

	err = reserved(ctx, s.enforcer, s.logger, user, billing.ResourceCategories, func() error {
		return s.store.CreateCategory(ctx, cat)
	})
	if err != nil {
		s.logger.Warn("CreateCategory failed", "user_id", user.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.CategoryResponse{Category: toAPICategory(cat)}), nil
}

// ListCategories returns the system categories followed by the user's own.
func (s *CategoryService) ListCategories(ctx context.Context, req *connect.Request[api.Empty]) (*connect.Response[api.ListCategoriesResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	cats, err := s.store.ListCategories(ctx, user.ID)
	if err != nil {
		s.logger.Error("ListCategories failed", "user_id", user.ID, "error", err)
		return nil, toConnectError(err)
	}
	resp := &api.ListCategoriesResponse{Categories: make([]*api.Category, 0, len(cats))}
	for _, c := range cats {
		resp.Categories = append(resp.Categories, toAPICategory(c))
	}
	return connect.NewResponse(resp), nil
}

// ownCategory loads a category the user may modify.
func (s *CategoryService) ownCategory(ctx context.Context, userID, id string) (*models.Category, error) {
	cat, err := s.store.GetCategory(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if cat.IsSystem() {
		return nil, errSystemCategory
	}
	return cat, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, req *connect.Request[api.UpdateCategoryRequest]) (*connect.Response[api.CategoryResponse], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("UpdateCategory request received", "user_id", user.ID, "category_id", req.Msg.ID)

	cat, err := s.ownCategory(ctx, user.ID, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if req.Msg.Name != nil {
		if cat.Name, err = requireName("name", *req.Msg.Name, maxCategoryName); err != nil {
			return nil, toConnectError(err)
		}
	}
	if req.Msg.Color != nil {
		cat.Color = strings.TrimSpace(*req.Msg.Color)
		if err := validColor(cat.Color); err != nil {
			return nil, toConnectError(err)
		}
	}
	if req.Msg.Icon != nil {
		cat.Icon = strings.TrimSpace(*req.Msg.Icon)
	}
	if err := s.store.UpdateCategory(ctx, cat); err != nil {
		s.logger.Error("UpdateCategory failed", "category_id", cat.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.CategoryResponse{Category: toAPICategory(cat)}), nil
}

// DeleteCategory removes a user category together with its subcategories.
// Transactions keep their category id.
func (s *CategoryService) DeleteCategory(ctx context.Context, req *connect.Request[api.IDRequest]) (*connect.Response[api.Empty], error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("DeleteCategory request received", "user_id", user.ID, "category_id", req.Msg.ID)

	if _, err := s.ownCategory(ctx, user.ID, req.Msg.ID); err != nil {
		return nil, toConnectError(err)
	}
	if err := s.store.DeleteCategory(ctx, user.ID, req.Msg.ID); err != nil {
		s.logger.Error("DeleteCategory failed", "category_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.Empty{}), nil
}
