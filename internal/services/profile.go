package services

import (
	"context"

	"github.com/krishiguru/apiserver/types"
)

// ProfileRepository defines persistence operations for farm profiles.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (types.Profile, error)
	Update(ctx context.Context, profile types.Profile) (types.Profile, error)
}

// ProfileService encapsulates profile use-cases.
type ProfileService struct {
	repo ProfileRepository
}

func NewProfileService(repo ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

func (s *ProfileService) GetByUserID(ctx context.Context, userID string) (types.Profile, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// Patch applies merge-patch semantics: only fields present in the patch are
// written, everything else keeps its stored value.
func (s *ProfileService) Patch(ctx context.Context, userID string, patch types.ProfilePatch) (types.Profile, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return types.Profile{}, err
	}

	if patch.FullName != nil {
		profile.FullName = *patch.FullName
	}
	if patch.FarmName != nil {
		profile.FarmName = *patch.FarmName
	}
	if patch.Location != nil {
		profile.Location = *patch.Location
	}
	if patch.FarmSize != nil {
		profile.FarmSize = *patch.FarmSize
	}
	if patch.Crops != nil {
		profile.Crops = *patch.Crops
	}

	return s.repo.Update(ctx, profile)
}
