package repository

import (
	"errors"
	"time"

	"github.com/cpopa/taskdesk-api/internal/database"
	"github.com/cpopa/taskdesk-api/internal/models"
	"gorm.io/gorm"
)

// ErrConcurrentDelegation is returned when the delegation transaction finds
// the task changed underneath it. The caller rejects the request rather than
// retrying.
var ErrConcurrentDelegation = errors.New("task repository: task was delegated concurrently")

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task and its optional assignment row atomically
func (r *GormTaskRepository) Create(task *models.Task, assigneeID *uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}

		if assigneeID != nil {
			assignment := models.TaskAssignment{
				TaskID:     task.ID,
				AssigneeID: *assigneeID,
			}
			if err := tx.Create(&assignment).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// Delegate runs the four-way delegation effect in one transaction: append to
// the chain, increment the counter, delete the old assignment row, insert the
// new one. The counter doubles as an optimistic guard so two concurrent
// delegations of the same task cannot both commit.
func (r *GormTaskRepository) Delegate(task *models.Task, oldAssignmentID, newAssigneeID uint64) error {
	updatedChain := task.DelegationChain.Append(newAssigneeID)

	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Task{}).
			Where("id = ? AND delegation_count = ?", task.ID, task.DelegationCount).
			Updates(map[string]interface{}{
				"delegation_chain": updatedChain,
				"delegation_count": gorm.Expr("delegation_count + ?", 1),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConcurrentDelegation
		}

		if err := tx.Delete(&models.TaskAssignment{}, oldAssignmentID).Error; err != nil {
			return err
		}

		assignment := models.TaskAssignment{
			TaskID:     task.ID,
			AssigneeID: newAssigneeID,
		}
		return tx.Create(&assignment).Error
	})
}

// UpdateStatus updates only the status column
func (r *GormTaskRepository) UpdateStatus(taskID uint64, status models.TaskStatus) error {
	return r.db.Model(&models.Task{}).
		Where("id = ?", taskID).
		Update("status", status).Error
}

// CountSubTasks counts a parent's subtasks in total and in DONE status
func (r *GormTaskRepository) CountSubTasks(parentID uint64) (int64, int64, error) {
	var total int64
	if err := r.db.Model(&models.Task{}).
		Where("parent_id = ?", parentID).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}

	var done int64
	if err := r.db.Model(&models.Task{}).
		Where("parent_id = ? AND status = ?", parentID, models.TaskStatusDone).
		Count(&done).Error; err != nil {
		return 0, 0, err
	}

	return total, done, nil
}

// Update persists field changes on a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete removes a task, its subtasks and all related assignment rows
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var subTaskIDs []uint64
		if err := tx.Model(&models.Task{}).
			Where("parent_id = ?", id).
			Pluck("id", &subTaskIDs).Error; err != nil {
			return err
		}

		taskIDs := append(subTaskIDs, id)
		if err := tx.Where("task_id IN ?", taskIDs).
			Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}

		if len(subTaskIDs) > 0 {
			if err := tx.Where("id IN ?", subTaskIDs).Delete(&models.Task{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.Task{}, id).Error
	})
}

// ListAssignedTo lists tasks currently assigned to the user
func (r *GormTaskRepository) ListAssignedTo(userID uint64, dueFrom, dueTo *time.Time) ([]models.Task, error) {
	query := r.db.Model(&models.Task{}).
		Where("EXISTS (?)", r.assignmentSubQuery(userID))

	if dueFrom != nil {
		query = query.Where("tasks.due_date >= ?", *dueFrom)
	}
	if dueTo != nil {
		query = query.Where("tasks.due_date <= ?", *dueTo)
	}

	var tasks []models.Task
	if err := query.
		Order("tasks.created_at DESC").
		Preload("Assignments").
		Preload("Assignments.Assignee").
		Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// ListDelegatedBy lists tasks the user created that someone else now holds
func (r *GormTaskRepository) ListDelegatedBy(creatorID uint64) ([]models.Task, error) {
	subQuery := r.db.Model(&models.TaskAssignment{}).
		Select("1").
		Where("task_assignments.task_id = tasks.id").
		Where("task_assignments.assignee_id <> ?", creatorID)

	var tasks []models.Task
	if err := r.db.Model(&models.Task{}).
		Where("tasks.creator_id = ?", creatorID).
		Where("EXISTS (?)", subQuery).
		Order("tasks.created_at DESC").
		Preload("Assignments").
		Preload("Assignments.Assignee").
		Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// ListByWorkspace lists all tasks of a workspace with pagination
func (r *GormTaskRepository) ListByWorkspace(workspaceID uint64, page, pageSize int) ([]models.Task, int64, error) {
	query := r.db.Model(&models.Task{}).Where("tasks.workspace_id = ?", workspaceID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []models.Task
	if err := query.
		Order("tasks.created_at DESC").
		Scopes(database.Paginate(page, pageSize)).
		Preload("Assignments").
		Preload("Assignments.Assignee").
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// ListGeoTagged lists geo-tagged tasks across the user's workspaces
func (r *GormTaskRepository) ListGeoTagged(userID uint64) ([]models.Task, error) {
	memberSubQuery := r.db.Model(&models.WorkspaceMember{}).
		Select("1").
		Where("workspace_members.workspace_id = tasks.workspace_id").
		Where("workspace_members.user_id = ?", userID)

	var tasks []models.Task
	if err := r.db.Model(&models.Task{}).
		Where("tasks.latitude IS NOT NULL AND tasks.longitude IS NOT NULL").
		Where("EXISTS (?)", memberSubQuery).
		Preload("Assignments").
		Preload("Assignments.Assignee").
		Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

func (r *GormTaskRepository) assignmentSubQuery(userID uint64) *gorm.DB {
	return r.db.Model(&models.TaskAssignment{}).
		Select("1").
		Where("task_assignments.task_id = tasks.id").
		Where("task_assignments.assignee_id = ?", userID)
}
