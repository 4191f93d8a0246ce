package dto

import (
	"time"

	"github.com/cpopa/taskdesk-api/internal/models"
	"github.com/cpopa/taskdesk-api/internal/services"
)

// TaskAssignmentDTO represents a task assignment in API responses
type TaskAssignmentDTO struct {
	User UserDTO `json:"user"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID              uint64               `json:"id"`
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	Status          models.TaskStatus    `json:"status"`
	DueDate         *time.Time           `json:"due_date"`
	CreatorID       uint64               `json:"creator_id"`
	WorkspaceID     *uint64              `json:"workspace_id"`
	ParentID        *uint64              `json:"parent_id"`
	DelegationCount int                  `json:"delegation_count"`
	Latitude        *float64             `json:"latitude,omitempty"`
	Longitude       *float64             `json:"longitude,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
	Creator         *UserDTO             `json:"creator,omitempty"`
	Assignments     []TaskAssignmentDTO  `json:"assignments,omitempty"`
	DelegationChain []services.ChainUser `json:"delegation_chain,omitempty"`
	SubTasks        []TaskDTO            `json:"sub_tasks,omitempty"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO `json:"tasks"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int64     `json:"total_count"`
	TotalPages int       `json:"total_pages"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:              task.ID,
		Title:           task.Title,
		Description:     task.Description,
		Status:          task.Status,
		DueDate:         task.DueDate,
		CreatorID:       task.CreatorID,
		WorkspaceID:     task.WorkspaceID,
		ParentID:        task.ParentID,
		DelegationCount: task.DelegationCount,
		Latitude:        task.Latitude,
		Longitude:       task.Longitude,
		CreatedAt:       task.CreatedAt,
		UpdatedAt:       task.UpdatedAt,
	}

	// Include creator if preloaded
	if task.Creator.ID != 0 {
		creator := ToUserDTO(task.Creator)
		dto.Creator = &creator
	}

	// Include assignments if preloaded
	if len(task.Assignments) > 0 {
		dto.Assignments = make([]TaskAssignmentDTO, len(task.Assignments))
		for i, assignment := range task.Assignments {
			dto.Assignments[i] = TaskAssignmentDTO{
				User: ToUserDTO(assignment.Assignee),
			}
		}
	}

	// Include subtasks if preloaded
	if len(task.SubTasks) > 0 {
		dto.SubTasks = make([]TaskDTO, len(task.SubTasks))
		for i, subTask := range task.SubTasks {
			dto.SubTasks[i] = ToTaskDTO(subTask)
		}
	}

	return dto
}

// ToTaskDTOs converts a slice of Task models
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}
