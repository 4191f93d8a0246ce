package services

import (
	"errors"
	"fmt"

	"github.com/cpopa/taskdesk-api/internal/models"
	"github.com/cpopa/taskdesk-api/internal/repository"
	"gorm.io/gorm"
)

var (
	// ErrNotWorkspaceMember rejects a caller who is not a member of the
	// workspace (forbidden).
	ErrNotWorkspaceMember = errors.New("you do not have access to this workspace")

	// ErrAssigneeNotMember rejects a delegation or assignment target that is
	// not a member of the workspace (validation, distinct from the caller
	// check above).
	ErrAssigneeNotMember = errors.New("user is not a member of the workspace")
)

// AccessPolicy answers membership questions for the task and workspace
// services. It is stateless; every call goes to the store.
type AccessPolicy struct {
	workspaceRepo repository.WorkspaceRepository
}

// NewAccessPolicy creates a new AccessPolicy.
func NewAccessPolicy(workspaceRepo repository.WorkspaceRepository) *AccessPolicy {
	return &AccessPolicy{workspaceRepo: workspaceRepo}
}

// MembershipOf returns the user's membership record, or nil when the user is
// not a member.
func (p *AccessPolicy) MembershipOf(userID, workspaceID uint64) (*models.WorkspaceMember, error) {
	member, err := p.workspaceRepo.FindMember(workspaceID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up workspace membership: %w", err)
	}
	return member, nil
}

// RequireMembership returns the membership record or ErrNotWorkspaceMember.
func (p *AccessPolicy) RequireMembership(userID, workspaceID uint64) (*models.WorkspaceMember, error) {
	member, err := p.MembershipOf(userID, workspaceID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrNotWorkspaceMember
	}
	return member, nil
}

// RequireAssigneeMembership validates a delegation or assignment target.
// A nil workspace id fails closed: a task outside any workspace has no
// membership to validate against, so it can never accept a target.
func (p *AccessPolicy) RequireAssigneeMembership(userID uint64, workspaceID *uint64) error {
	if workspaceID == nil {
		return ErrAssigneeNotMember
	}

	member, err := p.MembershipOf(userID, *workspaceID)
	if err != nil {
		return err
	}
	if member == nil {
		return ErrAssigneeNotMember
	}
	return nil
}
