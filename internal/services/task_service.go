package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/cpopa/taskdesk-api/internal/constants"
	"github.com/cpopa/taskdesk-api/internal/models"
	"github.com/cpopa/taskdesk-api/internal/notify"
	"github.com/cpopa/taskdesk-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrParentTaskNotFound     = errors.New("parent task not found")
	ErrTitleRequired          = errors.New("title is required")
	ErrAssigneeRequired       = errors.New("assignee is required")
	ErrStatusRequired         = errors.New("status is required")
	ErrInvalidStatus          = errors.New("status is not a recognized value")
	ErrInvalidDueDate         = errors.New("due date is not a valid timestamp")
	ErrNotCurrentAssignee     = errors.New("only the currently assigned user may perform this action")
	ErrDelegationLimitReached = errors.New("the delegation limit has been reached")
	ErrAlreadyInChain         = errors.New("user is already in the delegation chain")
	ErrTaskAccessDenied       = errors.New("you do not have access to this task")
	ErrTaskEditForbidden      = errors.New("you do not have permission to modify this task")
	ErrLeadershipRequired     = errors.New("only workspace owners or leaders may perform this action")
)

// UnknownUserName labels delegation chain members that can no longer be
// resolved to a user.
const UnknownUserName = "Unknown user"

// taskPreloads hydrates the relations every task response carries.
var taskPreloads = []string{"Creator", "Assignments", "Assignments.Assignee"}

// TaskService owns the task lifecycle: creation, delegation down a capped
// append-only chain, assignee-gated status transitions with the one-level
// subtask completion cascade, and the usual edit/delete surface around them.
type TaskService struct {
	taskRepo   repository.TaskRepository
	userRepo   repository.UserRepository
	policy     *AccessPolicy
	dispatcher *Dispatcher
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, policy *AccessPolicy, dispatcher *Dispatcher) *TaskService {
	return &TaskService{
		taskRepo:   taskRepo,
		userRepo:   userRepo,
		policy:     policy,
		dispatcher: dispatcher,
	}
}

// CreateTaskInput represents input for creating a task. A nil WorkspaceID
// makes a personal task. DueDate is an RFC3339 string so a malformed value
// can be rejected as a validation error rather than a binding failure.
type CreateTaskInput struct {
	WorkspaceID *uint64
	Title       string
	Description string
	DueDate     *string
	AssigneeID  *uint64
	Latitude    *float64
	Longitude   *float64
}

// CreateSubTaskInput represents input for creating a subtask.
type CreateSubTaskInput struct {
	Title       string
	AssigneeID  uint64
	Description string
	DueDate     *string
}

// UpdateTaskInput represents input for editing a task's fields.
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	DueDate      *string
	ClearDueDate bool
}

// ChainUser is a hydrated delegation chain entry.
type ChainUser struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// CreateTask creates a task. Workspace tasks validate the creator's and the
// optional assignee's membership; the delegation chain is seeded with the
// creator, plus the assignee when one is set and differs from the creator.
func (s *TaskService) CreateTask(actorID uint64, input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}

	dueDate, err := parseDueDate(input.DueDate)
	if err != nil {
		return nil, err
	}

	chain := models.DelegationChain{actorID}
	if input.WorkspaceID != nil {
		if _, err := s.policy.RequireMembership(actorID, *input.WorkspaceID); err != nil {
			return nil, err
		}
		if input.AssigneeID != nil {
			if err := s.policy.RequireAssigneeMembership(*input.AssigneeID, input.WorkspaceID); err != nil {
				return nil, err
			}
			if *input.AssigneeID != actorID {
				chain = chain.Append(*input.AssigneeID)
			}
		}
	}

	task := &models.Task{
		Title:           input.Title,
		Description:     input.Description,
		DueDate:         dueDate,
		CreatorID:       actorID,
		WorkspaceID:     input.WorkspaceID,
		DelegationChain: chain,
		Latitude:        input.Latitude,
		Longitude:       input.Longitude,
	}

	if err := s.taskRepo.Create(task, input.AssigneeID); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	actorName := s.dispatcher.ActorName(actorID)
	if input.AssigneeID != nil && *input.AssigneeID != actorID {
		assigneeName := s.resolveName(*input.AssigneeID)
		s.dispatcher.LogToUsers(chain, actorName,
			fmt.Sprintf("%s created the task '%s' and assigned it to %s.", actorName, task.Title, assigneeName))
		s.dispatcher.NotifyUser(*input.AssigneeID, notify.Event{
			Type: "notification",
			Payload: taskNotification{
				Title:  "New task assigned",
				Body:   fmt.Sprintf("%s assigned you the task '%s'.", actorName, task.Title),
				TaskID: task.ID,
			},
		})
	} else {
		s.dispatcher.LogToUsers(chain, actorName,
			fmt.Sprintf("%s created the task '%s'.", actorName, task.Title))
	}

	return s.taskRepo.FindByID(task.ID, taskPreloads...)
}

// DelegateTask hands the task from its current holder to a new assignee.
// The chain append, counter increment and assignment swap commit in a single
// transaction; side effects run only after it succeeds.
func (s *TaskService) DelegateTask(actorID, taskID, newAssigneeID uint64) (*models.Task, error) {
	if newAssigneeID == 0 {
		return nil, ErrAssigneeRequired
	}

	task, err := s.findTask(taskID, "Assignments")
	if err != nil {
		return nil, err
	}

	current := task.CurrentAssignment(actorID)
	if current == nil {
		return nil, ErrNotCurrentAssignee
	}

	if task.DelegationCount >= constants.MaxDelegations {
		return nil, ErrDelegationLimitReached
	}

	if task.DelegationChain.Contains(newAssigneeID) {
		return nil, ErrAlreadyInChain
	}

	// Fails closed for personal tasks: no workspace means no membership the
	// target could hold.
	if err := s.policy.RequireAssigneeMembership(newAssigneeID, task.WorkspaceID); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Delegate(task, current.ID, newAssigneeID); err != nil {
		return nil, err
	}

	updatedChain := task.DelegationChain.Append(newAssigneeID)
	actorName := s.dispatcher.ActorName(actorID)
	assigneeName := s.resolveName(newAssigneeID)
	s.dispatcher.LogToUsers(updatedChain, actorName,
		fmt.Sprintf("%s delegated the task '%s' to %s.", actorName, task.Title, assigneeName))
	s.dispatcher.NotifyUser(newAssigneeID, notify.Event{
		Type: "notification",
		Payload: taskNotification{
			Title:  "Task delegated to you",
			Body:   fmt.Sprintf("%s delegated the task '%s' to you.", actorName, task.Title),
			TaskID: task.ID,
		},
	})

	return s.taskRepo.FindByID(task.ID, taskPreloads...)
}

// UpdateTaskStatus changes a task's status. Only the current assignee may do
// this; workspace leadership does not bypass the check. Completing the last
// open subtask of a parent completes the parent too, one level only.
func (s *TaskService) UpdateTaskStatus(actorID, taskID uint64, status string) (*models.Task, error) {
	if status == "" {
		return nil, ErrStatusRequired
	}

	newStatus := models.TaskStatus(status)
	if !newStatus.Valid() {
		return nil, ErrInvalidStatus
	}

	task, err := s.findTask(taskID, "Assignments")
	if err != nil {
		return nil, err
	}

	if task.WorkspaceID != nil {
		if _, err := s.policy.RequireMembership(actorID, *task.WorkspaceID); err != nil {
			return nil, err
		}
	}

	if task.CurrentAssignment(actorID) == nil {
		return nil, ErrNotCurrentAssignee
	}

	if err := s.taskRepo.UpdateStatus(task.ID, newStatus); err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	actorName := s.dispatcher.ActorName(actorID)
	var action string
	if newStatus == models.TaskStatusDone {
		action = fmt.Sprintf("%s completed the task '%s'.", actorName, task.Title)
	} else {
		action = fmt.Sprintf("%s moved the task '%s' to %s.", actorName, task.Title, newStatus)
	}
	s.dispatcher.LogToUsers(task.DelegationChain, actorName, action)

	if task.CreatorID != actorID {
		s.dispatcher.NotifyUser(task.CreatorID, notify.Event{
			Type: "notification",
			Payload: taskNotification{
				Title:  "Task status changed",
				Body:   action,
				TaskID: task.ID,
			},
		})
	}

	if newStatus == models.TaskStatusDone && task.ParentID != nil {
		s.cascadeParentCompletion(actorID, actorName, *task.ParentID)
	}

	return s.taskRepo.FindByID(task.ID, taskPreloads...)
}

// cascadeParentCompletion marks the parent done when every one of its
// subtasks is done. It looks one level up only; the parent's completion does
// not cascade further.
func (s *TaskService) cascadeParentCompletion(actorID uint64, actorName string, parentID uint64) {
	total, done, err := s.taskRepo.CountSubTasks(parentID)
	if err != nil {
		// Side effect of an already committed mutation; never escalated.
		log.Printf("failed to count subtasks of task %d: %v", parentID, err)
		return
	}
	if total == 0 || total != done {
		return
	}

	if err := s.taskRepo.UpdateStatus(parentID, models.TaskStatusDone); err != nil {
		log.Printf("failed to complete parent task %d: %v", parentID, err)
		return
	}

	parent, err := s.taskRepo.FindByID(parentID)
	if err != nil {
		log.Printf("failed to load parent task %d: %v", parentID, err)
		return
	}

	s.dispatcher.LogToUsers(parent.DelegationChain, actorName,
		fmt.Sprintf("%s completed the task '%s'.", actorName, parent.Title))

	if parent.CreatorID != actorID {
		s.dispatcher.NotifyUser(parent.CreatorID, notify.Event{
			Type: "notification",
			Payload: taskNotification{
				Title:  "Task completed",
				Body:   fmt.Sprintf("All subtasks of '%s' are done.", parent.Title),
				TaskID: parent.ID,
			},
		})
	}
}

// CreateSubTask creates a subtask under a workspace task. Only OWNER or
// LEADER members may do this; the subtask inherits the parent's workspace
// and seeds its own chain with creator and assignee.
func (s *TaskService) CreateSubTask(actorID, parentTaskID uint64, input CreateSubTaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}
	if input.AssigneeID == 0 {
		return nil, ErrAssigneeRequired
	}

	parent, err := s.taskRepo.FindByID(parentTaskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParentTaskNotFound
		}
		return nil, fmt.Errorf("failed to find parent task: %w", err)
	}

	// Personal parents fail closed: subtasks are a workspace feature.
	if parent.WorkspaceID == nil {
		return nil, ErrNotWorkspaceMember
	}

	membership, err := s.policy.RequireMembership(actorID, *parent.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if !membership.Role.IsLeadership() {
		return nil, ErrLeadershipRequired
	}

	if err := s.policy.RequireAssigneeMembership(input.AssigneeID, parent.WorkspaceID); err != nil {
		return nil, err
	}

	dueDate, err := parseDueDate(input.DueDate)
	if err != nil {
		return nil, err
	}

	chain := models.DelegationChain{actorID}
	if input.AssigneeID != actorID {
		chain = chain.Append(input.AssigneeID)
	}

	subTask := &models.Task{
		Title:           input.Title,
		Description:     input.Description,
		DueDate:         dueDate,
		CreatorID:       actorID,
		WorkspaceID:     parent.WorkspaceID,
		ParentID:        &parent.ID,
		DelegationChain: chain,
	}

	assigneeID := input.AssigneeID
	if err := s.taskRepo.Create(subTask, &assigneeID); err != nil {
		return nil, fmt.Errorf("failed to create subtask: %w", err)
	}

	actorName := s.dispatcher.ActorName(actorID)
	s.dispatcher.LogToUsers(chain, actorName,
		fmt.Sprintf("%s created the subtask '%s' under '%s'.", actorName, subTask.Title, parent.Title))
	if input.AssigneeID != actorID {
		s.dispatcher.NotifyUser(input.AssigneeID, notify.Event{
			Type: "notification",
			Payload: taskNotification{
				Title:  "New subtask assigned",
				Body:   fmt.Sprintf("%s assigned you the subtask '%s'.", actorName, subTask.Title),
				TaskID: subTask.ID,
			},
		})
	}

	return s.taskRepo.FindByID(subTask.ID, taskPreloads...)
}

// GetTask returns a task with its subtasks, plus the delegation chain
// hydrated to id/name pairs. Unresolvable members get the unknown-user label.
func (s *TaskService) GetTask(actorID, taskID uint64) (*models.Task, []ChainUser, error) {
	task, err := s.findTask(taskID,
		"Creator",
		"Assignments", "Assignments.Assignee",
		"SubTasks", "SubTasks.Assignments", "SubTasks.Assignments.Assignee",
	)
	if err != nil {
		return nil, nil, err
	}

	if task.WorkspaceID != nil {
		if _, err := s.policy.RequireMembership(actorID, *task.WorkspaceID); err != nil {
			return nil, nil, err
		}
	} else if task.CreatorID != actorID && task.CurrentAssignment(actorID) == nil {
		return nil, nil, ErrTaskAccessDenied
	}

	chain, err := s.hydrateChain(task.DelegationChain)
	if err != nil {
		return nil, nil, err
	}

	return task, chain, nil
}

// TaskForSuggestion loads a task for the AI breakdown endpoint. Workspace
// tasks gate on OWNER/LEADER, matching who could create the resulting
// subtasks; personal tasks are creator-only.
func (s *TaskService) TaskForSuggestion(actorID, taskID uint64) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if task.WorkspaceID != nil {
		membership, err := s.policy.RequireMembership(actorID, *task.WorkspaceID)
		if err != nil {
			return nil, err
		}
		if !membership.Role.IsLeadership() {
			return nil, ErrLeadershipRequired
		}
	} else if task.CreatorID != actorID {
		return nil, ErrTaskAccessDenied
	}

	return task, nil
}

// ListTasks returns the actor's tasks. Supported filters: "today" and "week"
// restrict by due date; "delegated" lists tasks the actor created that are
// now held by someone else; anything else means every task assigned to the
// actor.
func (s *TaskService) ListTasks(actorID uint64, filter string) ([]models.Task, error) {
	if filter == "delegated" {
		return s.taskRepo.ListDelegatedBy(actorID)
	}

	var dueFrom, dueTo *time.Time
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch filter {
	case "today":
		end := startOfDay.Add(24*time.Hour - time.Second)
		dueFrom, dueTo = &startOfDay, &end
	case "week":
		end := startOfDay.Add(8*24*time.Hour - time.Second)
		dueFrom, dueTo = &startOfDay, &end
	}

	return s.taskRepo.ListAssignedTo(actorID, dueFrom, dueTo)
}

// ListWorkspaceTasks lists every task of a workspace. OWNER/LEADER only.
func (s *TaskService) ListWorkspaceTasks(actorID, workspaceID uint64, page, pageSize int) ([]models.Task, int64, error) {
	membership, err := s.policy.RequireMembership(actorID, workspaceID)
	if err != nil {
		return nil, 0, err
	}
	if !membership.Role.IsLeadership() {
		return nil, 0, ErrLeadershipRequired
	}

	return s.taskRepo.ListByWorkspace(workspaceID, page, pageSize)
}

// TaskLocations returns geo-tagged tasks across the actor's workspaces.
func (s *TaskService) TaskLocations(actorID uint64) ([]models.Task, error) {
	return s.taskRepo.ListGeoTagged(actorID)
}

// UpdateTask edits a task's fields. Personal tasks: creator only. Workspace
// tasks: creator, or an OWNER/LEADER member.
func (s *TaskService) UpdateTask(actorID, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if err := s.requireEditPermission(actorID, task); err != nil {
		return nil, err
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTitleRequired
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		dueDate, err := parseDueDate(input.DueDate)
		if err != nil {
			return nil, err
		}
		task.DueDate = dueDate
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, taskPreloads...)
}

// DeleteTask removes a task. Same permission gate as UpdateTask.
func (s *TaskService) DeleteTask(actorID, taskID uint64) error {
	task, err := s.findTask(taskID)
	if err != nil {
		return err
	}

	if err := s.requireEditPermission(actorID, task); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

func (s *TaskService) requireEditPermission(actorID uint64, task *models.Task) error {
	if task.IsPersonal() {
		if task.CreatorID != actorID {
			return ErrTaskEditForbidden
		}
		return nil
	}

	membership, err := s.policy.RequireMembership(actorID, *task.WorkspaceID)
	if err != nil {
		return err
	}
	if !membership.Role.IsLeadership() && task.CreatorID != actorID {
		return ErrTaskEditForbidden
	}
	return nil
}

func (s *TaskService) findTask(taskID uint64, preload ...string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

func (s *TaskService) hydrateChain(chain models.DelegationChain) ([]ChainUser, error) {
	names, err := s.userRepo.NamesByIDs(chain)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve delegation chain: %w", err)
	}

	hydrated := make([]ChainUser, len(chain))
	for i, id := range chain {
		name, ok := names[id]
		if !ok {
			name = UnknownUserName
		}
		hydrated[i] = ChainUser{ID: id, Name: name}
	}
	return hydrated, nil
}

func (s *TaskService) resolveName(userID uint64) string {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return "a colleague"
	}
	return user.Name
}

// taskNotification is the payload of task-related realtime events.
type taskNotification struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	TaskID uint64 `json:"task_id"`
}

func parseDueDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		return nil, ErrInvalidDueDate
	}
	return &parsed, nil
}
