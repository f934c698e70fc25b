package application

import (
	"context"

	"github.com/restauranthq/pos-service/internal/catalog/domain"
	"github.com/restauranthq/pos-service/pkg/apperr"
)

type CreateMenuGroupRequest struct {
	Name *string
}

type MenuGroupService struct {
	groups MenuGroupRepository
}

func NewMenuGroupService(groups MenuGroupRepository) *MenuGroupService {
	return &MenuGroupService{groups: groups}
}

func (s *MenuGroupService) Create(ctx context.Context, req CreateMenuGroupRequest) (domain.MenuGroup, error) {
	if req.Name == nil || *req.Name == "" {
		return domain.MenuGroup{}, apperr.InvalidArgumentf("menu group name is required")
	}
	return s.groups.Save(ctx, domain.NewMenuGroup(*req.Name))
}

func (s *MenuGroupService) FindAll(ctx context.Context) ([]domain.MenuGroup, error) {
	return s.groups.FindAll(ctx)
}
