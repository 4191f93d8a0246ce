package services

import (
	"testing"
	"time"

	"github.com/cpopa/taskdesk-api/internal/models"
	"github.com/cpopa/taskdesk-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// MessageServiceTestSuite defines the test suite for MessageService
type MessageServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *MessageService
}

// SetupTest runs before each test
func (suite *MessageServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Workspace{},
		&models.WorkspaceMember{},
		&models.Message{},
	)
	suite.Require().NoError(err)

	messageRepo := repository.NewMessageRepository(suite.db)
	workspaceRepo := repository.NewWorkspaceRepository(suite.db)
	userRepo := repository.NewUserRepository(suite.db)
	policy := NewAccessPolicy(workspaceRepo)
	suite.service = NewMessageService(messageRepo, userRepo, policy)
}

// TearDownTest runs after each test
func (suite *MessageServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *MessageServiceTestSuite) createTestUser(name, email string) *models.User {
	user := &models.User{Name: name, Email: email, PasswordHash: "hashedpassword"}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *MessageServiceTestSuite) createTestWorkspace(ownerID uint64) *models.Workspace {
	workspace := &models.Workspace{Name: "Test Workspace", OwnerID: ownerID}
	suite.Require().NoError(suite.db.Create(workspace).Error)
	member := &models.WorkspaceMember{
		WorkspaceID: workspace.ID,
		UserID:      ownerID,
		Role:        models.RoleOwner,
		JoinedAt:    time.Now(),
	}
	suite.Require().NoError(suite.db.Create(member).Error)
	return workspace
}

func (suite *MessageServiceTestSuite) TestSend_Direct() {
	alice := suite.createTestUser("Alice", "alice@example.com")
	bob := suite.createTestUser("Bob", "bob@example.com")

	message, err := suite.service.Send(alice.ID, &bob.ID, nil, "hello")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), alice.ID, message.SenderID)
	assert.Equal(suite.T(), "Alice", message.Sender.Name)
	suite.Require().NotNil(message.ReceiverID)
	assert.Equal(suite.T(), bob.ID, *message.ReceiverID)
}

func (suite *MessageServiceTestSuite) TestSend_Validation() {
	alice := suite.createTestUser("Alice", "alice@example.com")
	bob := suite.createTestUser("Bob", "bob@example.com")

	_, err := suite.service.Send(alice.ID, &bob.ID, nil, "")
	assert.ErrorIs(suite.T(), err, ErrMessageContentRequired)

	// Neither target
	_, err = suite.service.Send(alice.ID, nil, nil, "hi")
	assert.ErrorIs(suite.T(), err, ErrMessageTargetRequired)

	// Both targets
	workspace := suite.createTestWorkspace(alice.ID)
	_, err = suite.service.Send(alice.ID, &bob.ID, &workspace.ID, "hi")
	assert.ErrorIs(suite.T(), err, ErrMessageTargetRequired)
}

func (suite *MessageServiceTestSuite) TestSend_WorkspaceRequiresMembership() {
	alice := suite.createTestUser("Alice", "alice@example.com")
	mallory := suite.createTestUser("Mallory", "mallory@example.com")
	workspace := suite.createTestWorkspace(alice.ID)

	_, err := suite.service.Send(mallory.ID, nil, &workspace.ID, "let me in")
	assert.ErrorIs(suite.T(), err, ErrNotWorkspaceMember)

	message, err := suite.service.Send(alice.ID, nil, &workspace.ID, "standup in 5")
	suite.Require().NoError(err)
	suite.Require().NotNil(message.WorkspaceID)
	assert.Equal(suite.T(), workspace.ID, *message.WorkspaceID)
}

func (suite *MessageServiceTestSuite) TestDirectHistory_BothDirections() {
	alice := suite.createTestUser("Alice", "alice@example.com")
	bob := suite.createTestUser("Bob", "bob@example.com")
	carol := suite.createTestUser("Carol", "carol@example.com")

	_, err := suite.service.Send(alice.ID, &bob.ID, nil, "hi bob")
	suite.Require().NoError(err)
	_, err = suite.service.Send(bob.ID, &alice.ID, nil, "hi alice")
	suite.Require().NoError(err)
	_, err = suite.service.Send(alice.ID, &carol.ID, nil, "hi carol")
	suite.Require().NoError(err)

	history, err := suite.service.DirectHistory(alice.ID, bob.ID)
	suite.Require().NoError(err)
	suite.Require().Len(history, 2)
	assert.Equal(suite.T(), "hi bob", history[0].Content)
	assert.Equal(suite.T(), "hi alice", history[1].Content)
}

func (suite *MessageServiceTestSuite) TestConversations_OnePerPartner() {
	alice := suite.createTestUser("Alice", "alice@example.com")
	bob := suite.createTestUser("Bob", "bob@example.com")
	carol := suite.createTestUser("Carol", "carol@example.com")

	_, err := suite.service.Send(alice.ID, &bob.ID, nil, "first to bob")
	suite.Require().NoError(err)
	_, err = suite.service.Send(bob.ID, &alice.ID, nil, "latest with bob")
	suite.Require().NoError(err)
	_, err = suite.service.Send(carol.ID, &alice.ID, nil, "from carol")
	suite.Require().NoError(err)

	conversations, err := suite.service.Conversations(alice.ID)
	suite.Require().NoError(err)
	suite.Require().Len(conversations, 2)

	latest := map[uint64]string{}
	for _, conversation := range conversations {
		latest[conversation.Partner.ID] = conversation.LastMessage.Content
	}
	assert.Equal(suite.T(), "latest with bob", latest[bob.ID])
	assert.Equal(suite.T(), "from carol", latest[carol.ID])
}

// TestMessageServiceTestSuite runs the test suite
func TestMessageServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MessageServiceTestSuite))
}
