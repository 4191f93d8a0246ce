package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/cpopa/taskdesk-api/internal/models"
	"github.com/cpopa/taskdesk-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrWorkspaceNotFound     = errors.New("workspace not found")
	ErrWorkspaceNameRequired = errors.New("workspace name is required")
	ErrInvalidMemberRole     = errors.New("role must be LEADER or MEMBER")
	ErrAlreadyMember         = errors.New("user is already a member of this workspace")
	ErrMemberUserNotFound    = errors.New("user to add was not found")
)

// WorkspaceService manages workspaces and their memberships.
type WorkspaceService struct {
	workspaceRepo repository.WorkspaceRepository
	userRepo      repository.UserRepository
	policy        *AccessPolicy
}

// NewWorkspaceService creates a new WorkspaceService.
func NewWorkspaceService(workspaceRepo repository.WorkspaceRepository, userRepo repository.UserRepository, policy *AccessPolicy) *WorkspaceService {
	return &WorkspaceService{
		workspaceRepo: workspaceRepo,
		userRepo:      userRepo,
		policy:        policy,
	}
}

// CreateWorkspace creates a workspace. The creator becomes its OWNER member
// in the same transaction.
func (s *WorkspaceService) CreateWorkspace(actorID uint64, name, description string) (*models.Workspace, error) {
	if name == "" {
		return nil, ErrWorkspaceNameRequired
	}

	workspace := &models.Workspace{
		Name:        name,
		Description: description,
		OwnerID:     actorID,
	}
	owner := &models.WorkspaceMember{
		UserID:   actorID,
		Role:     models.RoleOwner,
		JoinedAt: time.Now(),
	}

	if err := s.workspaceRepo.Create(workspace, owner); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	return workspace, nil
}

// ListWorkspaces lists the workspaces the actor belongs to, with the actor's
// role in each.
func (s *WorkspaceService) ListWorkspaces(actorID uint64) ([]models.WorkspaceMember, error) {
	memberships, err := s.workspaceRepo.ListMembershipsByUser(actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	return memberships, nil
}

// GetWorkspace returns a workspace with its member list. Members only.
func (s *WorkspaceService) GetWorkspace(actorID, workspaceID uint64) (*models.Workspace, []models.WorkspaceMember, error) {
	if _, err := s.policy.RequireMembership(actorID, workspaceID); err != nil {
		return nil, nil, err
	}

	workspace, err := s.workspaceRepo.FindByID(workspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrWorkspaceNotFound
		}
		return nil, nil, fmt.Errorf("failed to find workspace: %w", err)
	}

	members, err := s.workspaceRepo.ListMembers(workspaceID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list members: %w", err)
	}

	return workspace, members, nil
}

// AddMember adds a user to a workspace. Only OWNER/LEADER members may add,
// and only the LEADER and MEMBER roles may be granted.
func (s *WorkspaceService) AddMember(actorID, workspaceID, userID uint64, role models.WorkspaceRole) (*models.WorkspaceMember, error) {
	membership, err := s.policy.RequireMembership(actorID, workspaceID)
	if err != nil {
		return nil, err
	}
	if !membership.Role.IsLeadership() {
		return nil, ErrLeadershipRequired
	}

	if role != models.RoleLeader && role != models.RoleMember {
		return nil, ErrInvalidMemberRole
	}

	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	existing, err := s.policy.MembershipOf(userID, workspaceID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyMember
	}

	member := &models.WorkspaceMember{
		WorkspaceID: workspaceID,
		UserID:      userID,
		Role:        role,
		JoinedAt:    time.Now(),
	}
	if err := s.workspaceRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return member, nil
}
