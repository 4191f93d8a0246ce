package handlers

import (
	"net/http"

	"github.com/cpopa/taskdesk-api/internal/dto"
	apierrors "github.com/cpopa/taskdesk-api/internal/errors"
	"github.com/cpopa/taskdesk-api/internal/middleware"
	"github.com/cpopa/taskdesk-api/internal/models"
	"github.com/cpopa/taskdesk-api/internal/services"
	"github.com/gin-gonic/gin"
)

// WorkspaceHandler coordinates workspace-related HTTP handlers.
type WorkspaceHandler struct {
	workspaceService *services.WorkspaceService
	locationService  *services.LocationService
}

// NewWorkspaceHandler creates a new WorkspaceHandler.
func NewWorkspaceHandler(workspaceService *services.WorkspaceService, locationService *services.LocationService) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceService: workspaceService,
		locationService:  locationService,
	}
}

// CreateWorkspace creates a workspace owned by the caller.
func (h *WorkspaceHandler) CreateWorkspace(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateWorkspaceRequest struct {
		Name        string `json:"name" binding:"required,min=1,max=255"`
		Description string `json:"description"`
	}

	var req CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	workspace, err := h.workspaceService.CreateWorkspace(userID, req.Name, req.Description)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToWorkspaceDTO(*workspace))
}

// ListWorkspaces lists the caller's workspaces with their role in each.
func (h *WorkspaceHandler) ListWorkspaces(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	memberships, err := h.workspaceService.ListWorkspaces(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	workspaces := make([]dto.WorkspaceDTO, len(memberships))
	for i, membership := range memberships {
		workspaceDTO := dto.ToWorkspaceDTO(membership.Workspace)
		workspaceDTO.Role = membership.Role
		workspaces[i] = workspaceDTO
	}

	c.JSON(http.StatusOK, gin.H{"workspaces": workspaces})
}

// GetWorkspace returns a workspace with its member list. Members only.
func (h *WorkspaceHandler) GetWorkspace(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	workspaceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	workspace, members, err := h.workspaceService.GetWorkspace(userID, workspaceID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	workspaceDTO := dto.ToWorkspaceDTO(*workspace)
	workspaceDTO.Members = make([]dto.WorkspaceMemberDTO, len(members))
	for i, member := range members {
		workspaceDTO.Members[i] = dto.ToWorkspaceMemberDTO(member)
	}

	c.JSON(http.StatusOK, workspaceDTO)
}

// AddMember adds a user to a workspace. OWNER/LEADER only.
func (h *WorkspaceHandler) AddMember(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	workspaceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type AddMemberRequest struct {
		UserID uint64 `json:"user_id" binding:"required"`
		Role   string `json:"role" binding:"required"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.workspaceService.AddMember(userID, workspaceID, req.UserID, models.WorkspaceRole(req.Role))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"workspace_id": member.WorkspaceID,
		"user_id":      member.UserID,
		"role":         member.Role,
		"joined_at":    member.JoinedAt,
	})
}

// MemberLocations returns the shared positions of workspace members.
func (h *WorkspaceHandler) MemberLocations(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	workspaceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	locations, err := h.locationService.WorkspaceMemberLocations(userID, workspaceID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"locations": locations})
}
