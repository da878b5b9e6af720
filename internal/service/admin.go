package service

import (
	"context"

	"gatekeeper-bot/internal/domain"
	"gatekeeper-bot/internal/repository"
)

type adminService struct {
	members repository.MemberRepository
}

func NewAdminService(members repository.MemberRepository) AdminService {
	return &adminService{members: members}
}

func (s *adminService) FindByIdentifier(ctx context.Context, identifier string) (*domain.Member, error) {
	return s.members.FindByIdentifier(ctx, identifier)
}

func (s *adminService) ListActive(ctx context.Context) ([]domain.Member, error) {
	return s.members.ListByStatus(ctx, domain.MemberStatusActive)
}

func (s *adminService) ListExpiringSoon(ctx context.Context, days int) ([]domain.Member, error) {
	return s.members.ListExpiringWithin(ctx, domain.MemberStatusActive, days)
}

func (s *adminService) ListAll(ctx context.Context) ([]domain.Member, error) {
	return s.members.ListAll(ctx)
}
