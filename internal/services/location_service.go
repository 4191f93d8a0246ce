package services

import (
	"fmt"

	"github.com/cpopa/taskdesk-api/internal/models"
	"github.com/cpopa/taskdesk-api/internal/repository"
)

// LocationService exposes the shared positions of workspace members.
type LocationService struct {
	workspaceRepo repository.WorkspaceRepository
	policy        *AccessPolicy
}

// NewLocationService creates a new LocationService.
func NewLocationService(workspaceRepo repository.WorkspaceRepository, policy *AccessPolicy) *LocationService {
	return &LocationService{workspaceRepo: workspaceRepo, policy: policy}
}

// MemberLocation is one member's last shared position.
type MemberLocation struct {
	UserID    uint64               `json:"user_id"`
	Name      string               `json:"name"`
	Latitude  *float64             `json:"latitude"`
	Longitude *float64             `json:"longitude"`
	Role      models.WorkspaceRole `json:"role"`
}

// WorkspaceMemberLocations returns positions of members who have shared one.
// Members only.
func (s *LocationService) WorkspaceMemberLocations(actorID, workspaceID uint64) ([]MemberLocation, error) {
	if _, err := s.policy.RequireMembership(actorID, workspaceID); err != nil {
		return nil, err
	}

	members, err := s.workspaceRepo.ListMembers(workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	locations := make([]MemberLocation, 0, len(members))
	for _, member := range members {
		if member.User.Latitude == nil || member.User.Longitude == nil {
			continue
		}
		locations = append(locations, MemberLocation{
			UserID:    member.UserID,
			Name:      member.User.Name,
			Latitude:  member.User.Latitude,
			Longitude: member.User.Longitude,
			Role:      member.Role,
		})
	}
	return locations, nil
}
