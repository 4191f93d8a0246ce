package services

import (
	"testing"
	"time"

	"github.com/cpopa/taskdesk-api/internal/models"
	"github.com/cpopa/taskdesk-api/internal/notify"
	"github.com/cpopa/taskdesk-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// recordingSink captures events for assertions.
type recordingSink struct {
	userEvents map[uint64][]notify.Event
	roomEvents map[string][]notify.Event
}

func newRecordingSink() *recordingSink {
	return &recordingSink{
		userEvents: make(map[uint64][]notify.Event),
		roomEvents: make(map[string][]notify.Event),
	}
}

func (s *recordingSink) SendToUser(userID uint64, event notify.Event) {
	s.userEvents[userID] = append(s.userEvents[userID], event)
}

func (s *recordingSink) SendToRoom(room string, event notify.Event) {
	s.roomEvents[room] = append(s.roomEvents[room], event)
}

// TaskServiceTestSuite defines the test suite for TaskService
type TaskServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	taskRepo repository.TaskRepository
	logRepo  repository.LogRepository
	sink     *recordingSink
	service  *TaskService
}

// SetupTest runs before each test
func (suite *TaskServiceTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	// Run migrations
	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Workspace{},
		&models.WorkspaceMember{},
		&models.Task{},
		&models.TaskAssignment{},
		&models.ActivityLog{},
	)
	suite.Require().NoError(err)

	suite.taskRepo = repository.NewTaskRepository(suite.db)
	suite.logRepo = repository.NewLogRepository(suite.db)
	workspaceRepo := repository.NewWorkspaceRepository(suite.db)
	userRepo := repository.NewUserRepository(suite.db)

	suite.sink = newRecordingSink()
	policy := NewAccessPolicy(workspaceRepo)
	dispatcher := NewDispatcher(suite.logRepo, userRepo, suite.sink)
	suite.service = NewTaskService(suite.taskRepo, userRepo, policy, dispatcher)
}

// TearDownTest runs after each test
func (suite *TaskServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper functions to create test data

func (suite *TaskServiceTestSuite) createTestUser(name, email string) *models.User {
	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: "hashedpassword",
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *TaskServiceTestSuite) createTestWorkspace(ownerID uint64) *models.Workspace {
	workspace := &models.Workspace{Name: "Test Workspace", OwnerID: ownerID}
	suite.Require().NoError(suite.db.Create(workspace).Error)
	suite.addMember(workspace.ID, ownerID, models.RoleOwner)
	return workspace
}

func (suite *TaskServiceTestSuite) addMember(workspaceID, userID uint64, role models.WorkspaceRole) {
	member := &models.WorkspaceMember{
		WorkspaceID: workspaceID,
		UserID:      userID,
		Role:        role,
		JoinedAt:    time.Now(),
	}
	suite.Require().NoError(suite.db.Create(member).Error)
}

func (suite *TaskServiceTestSuite) assignmentsOf(taskID uint64) []models.TaskAssignment {
	var assignments []models.TaskAssignment
	suite.Require().NoError(suite.db.Where("task_id = ?", taskID).Find(&assignments).Error)
	return assignments
}

func (suite *TaskServiceTestSuite) logsOf(userID uint64) []models.ActivityLog {
	var logs []models.ActivityLog
	suite.Require().NoError(suite.db.Where("user_id = ?", userID).Find(&logs).Error)
	return logs
}

func (suite *TaskServiceTestSuite) reloadTask(taskID uint64) *models.Task {
	task, err := suite.taskRepo.FindByID(taskID, "Assignments")
	suite.Require().NoError(err)
	return task
}

// Creation

func (suite *TaskServiceTestSuite) TestCreateTask_Personal() {
	alice := suite.createTestUser("Alice", "alice@example.com")

	task, err := suite.service.CreateTask(alice.ID, CreateTaskInput{Title: "Buy groceries"})

	suite.Require().NoError(err)
	assert.Nil(suite.T(), task.WorkspaceID)
	assert.Equal(suite.T(), models.DelegationChain{alice.ID}, task.DelegationChain)
	assert.Equal(suite.T(), 0, task.DelegationCount)
	assert.Equal(suite.T(), models.TaskStatusTodo, task.Status)
	assert.Empty(suite.T(), suite.assignmentsOf(task.ID))
}

func (suite *TaskServiceTestSuite) TestCreateTask_WorkspaceWithAssignee() {
	alice := suite.createTestUser("Alice", "alice@example.com")
	bob := suite.createTestUser("Bob", "bob@example.com")
	workspace := suite.createTestWorkspace(alice.ID)
	suite.addMember(workspace.ID, bob.ID, models.RoleMember)

	task, err := suite.service.CreateTask(alice.ID, CreateTaskInput{
		WorkspaceID: &workspace.ID,
		Title:       "Prepare report",
		AssigneeID:  &bob.ID,
	})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.DelegationChain{alice.ID, bob.ID}, task.DelegationChain)

	assignments := suite.assignmentsOf(task.ID)
	suite.Require().Len(assignments, 1)
	assert.Equal(suite.T(), bob.ID, assignments[0].AssigneeID)

	// One activity log per chain member
	assert.Len(suite.T(), suite.logsOf(alice.ID), 1)
	assert.Len(suite.T(), suite.logsOf(bob.ID), 1)

	// The assignee gets a realtime notification
	suite.Require().Len(suite.sink.userEvents[bob.ID], 1)
	assert.Equal(suite.T(), "notification", suite.sink.userEvents[bob.ID][0].Type)
}

func (suite *TaskServiceTestSuite) TestCreateTask_SelfAssignKeepsChainDeduped() {
	alice := suite.createTestUser("Alice", "alice@example.com")
	workspace := suite.createTestWorkspace(alice.ID)

	task, err := suite.service.CreateTask(alice.ID, CreateTaskInput{
		WorkspaceID: &workspace.ID,
		Title:       "Solo task",
		AssigneeID:  &alice.ID,
	})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.DelegationChain{alice.ID}, task.DelegationChain)
	suite.Require().Len(suite.assignmentsOf(task.ID), 1)
	// No notification for assigning to yourself
	assert.Empty(suite.T(), suite.sink.userEvents[alice.ID])
}

func (suite *TaskServiceTestSuite) TestCreateTask_CreatorNotMember() {
	alice := suite.createTestUser("Alice", "alice@example.com")
	bob := suite.createTestUser("Bob", "bob@example.com")
	workspace := suite.createTestWorkspace(alice.ID)

	_, err := suite.service.CreateTask(bob.ID, CreateTaskInput{
		WorkspaceID: &workspace.ID,
		Title:       "Sneaky task",
	})

	assert.ErrorIs(suite.T(), err, ErrNotWorkspaceMember)
}

func (suite *TaskServiceTestSuite) TestCreateTask_AssigneeNotMember() {
	alice := suite.createTestUser("Alice", "alice@example.com")
	carol := suite.createTestUser("Carol", "carol@example.com")
	workspace := suite.createTestWorkspace(alice.ID)

	_, err := suite.service.CreateTask(alice.ID, CreateTaskInput{
		WorkspaceID: &workspace.ID,
		Title:       "Task for outsider",
		AssigneeID:  &carol.ID,
	})

	assert.ErrorIs(suite.T(), err, ErrAssigneeNotMember)
}

func (suite *TaskServiceTestSuite) TestCreateTask_Validation() {
	alice := suite.createTestUser("Alice", "alice@example.com")

	_, err := suite.service.CreateTask(alice.ID, CreateTaskInput{Title: ""})
	assert.ErrorIs(suite.T(), err, ErrTitleRequired)

	badDate := "not-a-date"
	_, err = suite.service.CreateTask(alice.ID, CreateTaskInput{Title: "X", DueDate: &badDate})
	assert.ErrorIs(suite.T(), err, ErrInvalidDueDate)
}

// Delegation

func (suite *TaskServiceTestSuite) delegationFixture() (alice, bob, carol *models.User, workspace *models.Workspace, task *models.Task) {
	alice = suite.createTestUser("Alice", "alice@example.com")
	bob = suite.createTestUser("Bob", "bob@example.com")
	carol = suite.createTestUser("Carol", "carol@example.com")
	workspace = suite.createTestWorkspace(alice.ID)
	suite.addMember(workspace.ID, bob.ID, models.RoleMember)
	suite.addMember(workspace.ID, carol.ID, models.RoleMember)

	var err error
	task, err = suite.service.CreateTask(alice.ID, CreateTaskInput{
		WorkspaceID: &workspace.ID,
		Title:       "Chain task",
		AssigneeID:  &bob.ID,
	})
	suite.Require().NoError(err)
	return
}

func (suite *TaskServiceTestSuite) TestDelegateTask_Success() {
	alice, bob, carol, _, task := suite.delegationFixture()

	delegated, err := suite.service.DelegateTask(bob.ID, task.ID, carol.ID)

	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.DelegationChain{alice.ID, bob.ID, carol.ID}, delegated.DelegationChain)
	assert.Equal(suite.T(), 1, delegated.DelegationCount)

	// Exactly one assignment row, pointing at the new holder
	assignments := suite.assignmentsOf(task.ID)
	suite.Require().Len(assignments, 1)
	assert.Equal(suite.T(), carol.ID, assignments[0].AssigneeID)

	// Every chain member got a log row for the delegation
	assert.Len(suite.T(), suite.logsOf(alice.ID), 2) // creation + delegation
	assert.Len(suite.T(), suite.logsOf(bob.ID), 2)
	assert.Len(suite.T(), suite.logsOf(carol.ID), 1)

	// The new assignee is notified
	suite.Require().NotEmpty(suite.sink.userEvents[carol.ID])
}

func (suite *TaskServiceTestSuite) TestDelegateTask_SurvivesLogWriteFailure() {
	alice, bob, carol, _, task := suite.delegationFixture()

	// Activity-log writes land after the delegation commits; make them fail
	suite.Require().NoError(suite.db.Migrator().DropTable(&models.ActivityLog{}))

	delegated, err := suite.service.DelegateTask(bob.ID, task.ID, carol.ID)

	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.DelegationChain{alice.ID, bob.ID, carol.ID}, delegated.DelegationChain)
	assert.Equal(suite.T(), 1, delegated.DelegationCount)

	assignments := suite.assignmentsOf(task.ID)
	suite.Require().Len(assignments, 1)
	assert.Equal(suite.T(), carol.ID, assignments[0].AssigneeID)

	// The new assignee is still notified even though logging broke
	assert.NotEmpty(suite.T(), suite.sink.userEvents[carol.ID])
}

func (suite *TaskServiceTestSuite) TestDelegateTask_ChainGrowsToLimit() {
	alice, bob, carol, workspace, task := suite.delegationFixture()
	dave := suite.createTestUser("Dave", "dave@example.com")
	eve := suite.createTestUser("Eve", "eve@example.com")
	suite.addMember(workspace.ID, dave.ID, models.RoleMember)
	suite.addMember(workspace.ID, eve.ID, models.RoleMember)

	_, err := suite.service.DelegateTask(bob.ID, task.ID, carol.ID)
	suite.Require().NoError(err)
	_, err = suite.service.DelegateTask(carol.ID, task.ID, dave.ID)
	suite.Require().NoError(err)
	delegated, err := suite.service.DelegateTask(dave.ID, task.ID, eve.ID)
	suite.Require().NoError(err)

	assert.Equal(suite.T(), 3, delegated.DelegationCount)
	assert.Equal(suite.T(),
		models.DelegationChain{alice.ID, bob.ID, carol.ID, dave.ID, eve.ID},
		delegated.DelegationChain)

	// The fourth delegation is rejected and leaves everything untouched
	frank := suite.createTestUser("Frank", "frank@example.com")
	suite.addMember(workspace.ID, frank.ID, models.RoleMember)

	_, err = suite.service.DelegateTask(eve.ID, task.ID, frank.ID)
	assert.ErrorIs(suite.T(), err, ErrDelegationLimitReached)

	reloaded := suite.reloadTask(task.ID)
	assert.Equal(suite.T(), 3, reloaded.DelegationCount)
	assert.Len(suite.T(), reloaded.DelegationChain, 5)
	assignments := suite.assignmentsOf(task.ID)
	suite.Require().Len(assignments, 1)
	assert.Equal(suite.T(), eve.ID, assignments[0].AssigneeID)
}

func (suite *TaskServiceTestSuite) TestDelegateTask_DuplicateInChain() {
	alice, bob, _, _, task := suite.delegationFixture()

	// Alice is the creator, already first in the chain
	_, err := suite.service.DelegateTask(bob.ID, task.ID, alice.ID)

	assert.ErrorIs(suite.T(), err, ErrAlreadyInChain)
	reloaded := suite.reloadTask(task.ID)
	assert.Equal(suite.T(), 0, reloaded.DelegationCount)
}

func (suite *TaskServiceTestSuite) TestDelegateTask_OnlyCurrentAssignee() {
	_, _, carol, _, task := suite.delegationFixture()
	alice := suite.reloadTask(task.ID).CreatorID

	// The creator does not hold the assignment, so even they cannot delegate
	_, err := suite.service.DelegateTask(alice, task.ID, carol.ID)
	assert.ErrorIs(suite.T(), err, ErrNotCurrentAssignee)
}

func (suite *TaskServiceTestSuite) TestDelegateTask_TargetNotMember() {
	_, bob, _, _, task := suite.delegationFixture()
	outsider := suite.createTestUser("Oscar", "oscar@example.com")

	_, err := suite.service.DelegateTask(bob.ID, task.ID, outsider.ID)
	assert.ErrorIs(suite.T(), err, ErrAssigneeNotMember)
}

func (suite *TaskServiceTestSuite) TestDelegateTask_PersonalTaskFailsClosed() {
	alice := suite.createTestUser("Alice", "alice@example.com")
	bob := suite.createTestUser("Bob", "bob@example.com")

	task, err := suite.service.CreateTask(alice.ID, CreateTaskInput{
		Title:      "Personal with helper",
		AssigneeID: &alice.ID,
	})
	suite.Require().NoError(err)

	// No workspace means no membership the target could hold
	_, err = suite.service.DelegateTask(alice.ID, task.ID, bob.ID)
	assert.ErrorIs(suite.T(), err, ErrAssigneeNotMember)
}

func (suite *TaskServiceTestSuite) TestDelegateTask_NotFound() {
	alice := suite.createTestUser("Alice", "alice@example.com")

	_, err := suite.service.DelegateTask(alice.ID, 9999, alice.ID)
	assert.ErrorIs(suite.T(), err, ErrTaskNotFound)
}

// Status transitions

func (suite *TaskServiceTestSuite) TestUpdateTaskStatus_AssigneeOnly() {
	alice, bob, _, _, task := suite.delegationFixture()

	// The creator is not the assignee and is rejected
	_, err := suite.service.UpdateTaskStatus(alice.ID, task.ID, "IN_PROGRESS")
	assert.ErrorIs(suite.T(), err, ErrNotCurrentAssignee)

	updated, err := suite.service.UpdateTaskStatus(bob.ID, task.ID, "IN_PROGRESS")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.TaskStatusInProgress, updated.Status)

	// The creator is notified of the change made by someone else
	suite.Require().NotEmpty(suite.sink.userEvents[alice.ID])
}

func (suite *TaskServiceTestSuite) TestUpdateTaskStatus_Validation() {
	_, bob, _, _, task := suite.delegationFixture()

	_, err := suite.service.UpdateTaskStatus(bob.ID, task.ID, "")
	assert.ErrorIs(suite.T(), err, ErrStatusRequired)

	_, err = suite.service.UpdateTaskStatus(bob.ID, task.ID, "FINISHED")
	assert.ErrorIs(suite.T(), err, ErrInvalidStatus)
}

func (suite *TaskServiceTestSuite) TestUpdateTaskStatus_LogsForChain() {
	alice, bob, carol, _, task := suite.delegationFixture()
	_, err := suite.service.DelegateTask(bob.ID, task.ID, carol.ID)
	suite.Require().NoError(err)

	logsBefore := len(suite.logsOf(alice.ID))
	_, err = suite.service.UpdateTaskStatus(carol.ID, task.ID, "DONE")
	suite.Require().NoError(err)

	// Every chain member gets exactly one new row
	assert.Len(suite.T(), suite.logsOf(alice.ID), logsBefore+1)
	assert.Len(suite.T(), suite.logsOf(bob.ID), logsBefore+1)
}

// Subtasks and the completion cascade

func (suite *TaskServiceTestSuite) subTaskFixture() (alice, bob *models.User, parent, sub1, sub2 *models.Task) {
	alice = suite.createTestUser("Alice", "alice@example.com")
	bob = suite.createTestUser("Bob", "bob@example.com")
	workspace := suite.createTestWorkspace(alice.ID)
	suite.addMember(workspace.ID, bob.ID, models.RoleMember)

	var err error
	parent, err = suite.service.CreateTask(alice.ID, CreateTaskInput{
		WorkspaceID: &workspace.ID,
		Title:       "Release v2",
		AssigneeID:  &alice.ID,
	})
	suite.Require().NoError(err)

	sub1, err = suite.service.CreateSubTask(alice.ID, parent.ID, CreateSubTaskInput{
		Title:      "Write changelog",
		AssigneeID: bob.ID,
	})
	suite.Require().NoError(err)

	sub2, err = suite.service.CreateSubTask(alice.ID, parent.ID, CreateSubTaskInput{
		Title:      "Tag release",
		AssigneeID: bob.ID,
	})
	suite.Require().NoError(err)
	return
}

func (suite *TaskServiceTestSuite) TestCreateSubTask_SeedsChainAndInherits() {
	alice, bob, parent, sub1, _ := suite.subTaskFixture()

	assert.Equal(suite.T(), parent.WorkspaceID, sub1.WorkspaceID)
	suite.Require().NotNil(sub1.ParentID)
	assert.Equal(suite.T(), parent.ID, *sub1.ParentID)
	assert.Equal(suite.T(), models.DelegationChain{alice.ID, bob.ID}, sub1.DelegationChain)

	assignments := suite.assignmentsOf(sub1.ID)
	suite.Require().Len(assignments, 1)
	assert.Equal(suite.T(), bob.ID, assignments[0].AssigneeID)
}

func (suite *TaskServiceTestSuite) TestCreateSubTask_MemberRoleRejected() {
	_, bob, parent, _, _ := suite.subTaskFixture()

	_, err := suite.service.CreateSubTask(bob.ID, parent.ID, CreateSubTaskInput{
		Title:      "Not allowed",
		AssigneeID: bob.ID,
	})
	assert.ErrorIs(suite.T(), err, ErrLeadershipRequired)
}

func (suite *TaskServiceTestSuite) TestCreateSubTask_ParentNotFound() {
	alice := suite.createTestUser("Alice", "alice@example.com")

	_, err := suite.service.CreateSubTask(alice.ID, 9999, CreateSubTaskInput{
		Title:      "Orphan",
		AssigneeID: alice.ID,
	})
	assert.ErrorIs(suite.T(), err, ErrParentTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestCascade_CompletesParentExactlyOnce() {
	alice, bob, parent, sub1, sub2 := suite.subTaskFixture()

	_, err := suite.service.UpdateTaskStatus(bob.ID, sub1.ID, "DONE")
	suite.Require().NoError(err)

	// One subtask still open: parent untouched
	assert.Equal(suite.T(), models.TaskStatusTodo, suite.reloadTask(parent.ID).Status)

	aliceEventsBefore := len(suite.sink.userEvents[alice.ID])
	_, err = suite.service.UpdateTaskStatus(bob.ID, sub2.ID, "DONE")
	suite.Require().NoError(err)

	// Last subtask done: parent cascades to DONE
	assert.Equal(suite.T(), models.TaskStatusDone, suite.reloadTask(parent.ID).Status)

	// Parent's creator is notified; Bob acted, so Alice gets the events
	assert.Greater(suite.T(), len(suite.sink.userEvents[alice.ID]), aliceEventsBefore)
}

func (suite *TaskServiceTestSuite) TestCascade_OneLevelOnly() {
	_, bob, parent, sub1, sub2 := suite.subTaskFixture()

	// Mark the parent itself as a child of a grandparent
	grandparent := &models.Task{
		Title:           "Grandparent",
		CreatorID:       1,
		WorkspaceID:     parent.WorkspaceID,
		DelegationChain: models.DelegationChain{1},
	}
	suite.Require().NoError(suite.db.Create(grandparent).Error)
	suite.Require().NoError(suite.db.Model(&models.Task{}).
		Where("id = ?", parent.ID).
		Update("parent_id", grandparent.ID).Error)

	_, err := suite.service.UpdateTaskStatus(bob.ID, sub1.ID, "DONE")
	suite.Require().NoError(err)
	_, err = suite.service.UpdateTaskStatus(bob.ID, sub2.ID, "DONE")
	suite.Require().NoError(err)

	// Parent cascades, grandparent does not
	assert.Equal(suite.T(), models.TaskStatusDone, suite.reloadTask(parent.ID).Status)
	assert.Equal(suite.T(), models.TaskStatusTodo, suite.reloadTask(grandparent.ID).Status)
}

func (suite *TaskServiceTestSuite) TestCompletingTaskWithoutParentDoesNotCascade() {
	alice := suite.createTestUser("Alice", "alice@example.com")
	task, err := suite.service.CreateTask(alice.ID, CreateTaskInput{
		Title:      "Standalone",
		AssigneeID: &alice.ID,
	})
	suite.Require().NoError(err)

	updated, err := suite.service.UpdateTaskStatus(alice.ID, task.ID, "DONE")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.TaskStatusDone, updated.Status)
}

// Reads

func (suite *TaskServiceTestSuite) TestGetTask_HydratesChain() {
	alice, bob, _, _, task := suite.delegationFixture()

	loaded, chain, err := suite.service.GetTask(bob.ID, task.ID)

	suite.Require().NoError(err)
	assert.Equal(suite.T(), task.ID, loaded.ID)
	suite.Require().Len(chain, 2)
	assert.Equal(suite.T(), ChainUser{ID: alice.ID, Name: "Alice"}, chain[0])
	assert.Equal(suite.T(), ChainUser{ID: bob.ID, Name: "Bob"}, chain[1])
}

func (suite *TaskServiceTestSuite) TestGetTask_UnknownChainMember() {
	alice := suite.createTestUser("Alice", "alice@example.com")
	task, err := suite.service.CreateTask(alice.ID, CreateTaskInput{Title: "Haunted"})
	suite.Require().NoError(err)

	// Inject a chain member that no longer exists
	suite.Require().NoError(suite.db.Model(&models.Task{}).
		Where("id = ?", task.ID).
		Update("delegation_chain", models.DelegationChain{alice.ID, 424242}).Error)

	_, chain, err := suite.service.GetTask(alice.ID, task.ID)
	suite.Require().NoError(err)
	suite.Require().Len(chain, 2)
	assert.Equal(suite.T(), UnknownUserName, chain[1].Name)
}

func (suite *TaskServiceTestSuite) TestGetTask_PersonalAccessDenied() {
	alice := suite.createTestUser("Alice", "alice@example.com")
	mallory := suite.createTestUser("Mallory", "mallory@example.com")
	task, err := suite.service.CreateTask(alice.ID, CreateTaskInput{Title: "Private"})
	suite.Require().NoError(err)

	_, _, err = suite.service.GetTask(mallory.ID, task.ID)
	assert.ErrorIs(suite.T(), err, ErrTaskAccessDenied)
}

func (suite *TaskServiceTestSuite) TestListTasks_DelegatedFilter() {
	_, bob, carol, _, task := suite.delegationFixture()
	_, err := suite.service.DelegateTask(bob.ID, task.ID, carol.ID)
	suite.Require().NoError(err)

	creatorID := suite.reloadTask(task.ID).CreatorID
	delegated, err := suite.service.ListTasks(creatorID, "delegated")
	suite.Require().NoError(err)
	suite.Require().Len(delegated, 1)
	assert.Equal(suite.T(), task.ID, delegated[0].ID)

	// Carol currently holds it
	held, err := suite.service.ListTasks(carol.ID, "")
	suite.Require().NoError(err)
	suite.Require().Len(held, 1)
	assert.Equal(suite.T(), task.ID, held[0].ID)

	// Bob no longer does
	held, err = suite.service.ListTasks(bob.ID, "")
	suite.Require().NoError(err)
	assert.Empty(suite.T(), held)
}

// Edit and delete gates

func (suite *TaskServiceTestSuite) TestUpdateTask_PersonalCreatorOnly() {
	alice := suite.createTestUser("Alice", "alice@example.com")
	mallory := suite.createTestUser("Mallory", "mallory@example.com")
	task, err := suite.service.CreateTask(alice.ID, CreateTaskInput{Title: "Mine"})
	suite.Require().NoError(err)

	newTitle := "Still mine"
	_, err = suite.service.UpdateTask(mallory.ID, task.ID, UpdateTaskInput{Title: &newTitle})
	assert.ErrorIs(suite.T(), err, ErrTaskEditForbidden)

	updated, err := suite.service.UpdateTask(alice.ID, task.ID, UpdateTaskInput{Title: &newTitle})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "Still mine", updated.Title)
}

func (suite *TaskServiceTestSuite) TestDeleteTask_LeadershipOverridesCreator() {
	alice, bob, _, _, task := suite.delegationFixture()

	// Bob is a plain member and not the creator
	err := suite.service.DeleteTask(bob.ID, task.ID)
	assert.ErrorIs(suite.T(), err, ErrTaskEditForbidden)

	// Alice owns the workspace
	suite.Require().NoError(suite.service.DeleteTask(alice.ID, task.ID))

	_, _, err = suite.service.GetTask(alice.ID, task.ID)
	assert.ErrorIs(suite.T(), err, ErrTaskNotFound)
	assert.Empty(suite.T(), suite.assignmentsOf(task.ID))
}

func (suite *TaskServiceTestSuite) TestListWorkspaceTasks_LeadershipOnly() {
	alice, bob, _, workspace, _ := suite.delegationFixture()

	_, _, err := suite.service.ListWorkspaceTasks(bob.ID, workspace.ID, 1, 20)
	assert.ErrorIs(suite.T(), err, ErrLeadershipRequired)

	tasks, total, err := suite.service.ListWorkspaceTasks(alice.ID, workspace.ID, 1, 20)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(1), total)
	assert.Len(suite.T(), tasks, 1)
}

// TestTaskServiceTestSuite runs the test suite
func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
