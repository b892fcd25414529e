package service

import (
	"context"
	"encoding/json"
	"fmt"

	"libstack/internal/cache"
	"libstack/internal/model"
	"libstack/internal/repository"
)

const memberListCacheKey = "members:all"

// MemberService handles member registration.
type MemberService interface {
	Create(ctx context.Context, member *model.Member) (*model.Member, error)
	List(ctx context.Context) ([]model.Member, error)
}

type memberService struct {
	memberRepo repository.MemberRepository
	cache      *cache.Client
}

// NewMemberService creates a new member service.
func NewMemberService(memberRepo repository.MemberRepository, cache *cache.Client) MemberService {
	return &memberService{
		memberRepo: memberRepo,
		cache:      cache,
	}
}

// Create registers a new library member.
func (s *memberService) Create(ctx context.Context, member *model.Member) (*model.Member, error) {
	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, fmt.Errorf("create member: %w", err)
	}
	_ = s.cache.Delete(ctx, memberListCacheKey)
	return member, nil
}

// List returns all registered members.
func (s *memberService) List(ctx context.Context) ([]model.Member, error) {
	if data, _ := s.cache.Get(ctx, memberListCacheKey); data != nil {
		var cached []model.Member
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	members, err := s.memberRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(members); err == nil {
		_ = s.cache.Set(ctx, memberListCacheKey, payload, catalogCacheTTL)
	}
	return members, nil
}
