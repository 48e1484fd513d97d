package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/tasktrack/todo-list-api/internal/models"
	"github.com/tasktrack/todo-list-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TaskServiceTestSuite defines the test suite for TaskService
type TaskServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *TaskService
}

// SetupTest runs before each test
func (suite *TaskServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Task{},
	)
	suite.Require().NoError(err)

	taskRepo := repository.NewTaskRepository(suite.db)
	projectRepo := repository.NewProjectRepository(suite.db)
	suite.service = NewTaskService(taskRepo, projectRepo)
}

// TearDownTest runs after each test
func (suite *TaskServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper functions to create test data
func (suite *TaskServiceTestSuite) createTestUser(email string) *models.User {
	user := &models.User{
		Name:         email,
		Email:        email,
		PasswordHash: "hashedpassword",
	}
	suite.db.Create(user)
	return user
}

func (suite *TaskServiceTestSuite) createTestProject(name string, ownerID uint64) *models.Project {
	project := &models.Project{
		Name:      name,
		OwnerID:   ownerID,
		StartDate: time.Now(),
		Status:    models.ProjectStatusInProgress,
	}
	suite.db.Create(project)
	return project
}

func (suite *TaskServiceTestSuite) addParticipant(project *models.Project, user *models.User) {
	err := suite.db.Model(project).Association("Participants").Append(user)
	suite.Require().NoError(err)
}

func (suite *TaskServiceTestSuite) createTestTask(name string, ownerID, projectID uint64, status models.TaskStatus, completedAt *time.Time) *models.Task {
	task := &models.Task{
		ProjectID:   projectID,
		OwnerID:     ownerID,
		Name:        name,
		StartDate:   time.Now().AddDate(0, 0, -3),
		Priority:    models.TaskPriorityLow,
		Status:      status,
		CompletedAt: completedAt,
	}
	suite.db.Create(task)
	return task
}

func (suite *TaskServiceTestSuite) reloadTask(id uint64) *models.Task {
	var task models.Task
	err := suite.db.First(&task, id).Error
	suite.Require().NoError(err)
	return &task
}

// TestCreateTask_Defaults tests creation with minimal input
func (suite *TaskServiceTestSuite) TestCreateTask_Defaults() {
	owner := suite.createTestUser("owner@example.com")
	project := suite.createTestProject("Project", owner.ID)

	task, err := suite.service.CreateTask(CreateTaskInput{
		ProjectID: project.ID,
		OwnerID:   owner.ID,
		Name:      "  New Task  ",
	})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), "New Task", task.Name)
	assert.Equal(suite.T(), models.TaskStatusInProgress, task.Status)
	assert.Equal(suite.T(), models.TaskPriorityLow, task.Priority)
	assert.Nil(suite.T(), task.CompletedAt)
	assert.False(suite.T(), task.StartDate.IsZero())
}

// TestCreateTask_NotParticipant tests creation by a non-participant
func (suite *TaskServiceTestSuite) TestCreateTask_NotParticipant() {
	owner := suite.createTestUser("owner@example.com")
	outsider := suite.createTestUser("outsider@example.com")
	project := suite.createTestProject("Project", owner.ID)

	_, err := suite.service.CreateTask(CreateTaskInput{
		ProjectID: project.ID,
		OwnerID:   outsider.ID,
		Name:      "Task",
	})

	assert.ErrorIs(suite.T(), err, ErrNotProjectParticipant)
}

// TestCreateTask_AssigneeNotParticipant tests assigning an outsider at creation
func (suite *TaskServiceTestSuite) TestCreateTask_AssigneeNotParticipant() {
	owner := suite.createTestUser("owner@example.com")
	outsider := suite.createTestUser("outsider@example.com")
	project := suite.createTestProject("Project", owner.ID)

	_, err := suite.service.CreateTask(CreateTaskInput{
		ProjectID:    project.ID,
		OwnerID:      owner.ID,
		AssignedToID: &outsider.ID,
		Name:         "Task",
	})

	assert.ErrorIs(suite.T(), err, ErrInvalidAssignee)
}

// TestCreateTask_InvalidPriority tests creation with an unknown priority
func (suite *TaskServiceTestSuite) TestCreateTask_InvalidPriority() {
	owner := suite.createTestUser("owner@example.com")
	project := suite.createTestProject("Project", owner.ID)

	_, err := suite.service.CreateTask(CreateTaskInput{
		ProjectID: project.ID,
		OwnerID:   owner.ID,
		Name:      "Task",
		Priority:  models.TaskPriority("urgent"),
	})

	assert.ErrorIs(suite.T(), err, ErrInvalidTaskPriority)
}

// TestComplete_StampsTimestamp tests that completing writes status and timestamp
func (suite *TaskServiceTestSuite) TestComplete_StampsTimestamp() {
	owner := suite.createTestUser("owner@example.com")
	project := suite.createTestProject("Project", owner.ID)
	task := suite.createTestTask("Task", owner.ID, project.ID, models.TaskStatusInProgress, nil)

	updated, changed, err := suite.service.Complete(task.ID, owner)

	suite.Require().NoError(err)
	assert.True(suite.T(), changed)
	assert.Equal(suite.T(), models.TaskStatusCompleted, updated.Status)
	suite.Require().NotNil(updated.CompletedAt)

	stored := suite.reloadTask(task.ID)
	assert.Equal(suite.T(), models.TaskStatusCompleted, stored.Status)
	suite.Require().NotNil(stored.CompletedAt)
}

// TestComplete_Idempotent tests that re-completing keeps the original timestamp
func (suite *TaskServiceTestSuite) TestComplete_Idempotent() {
	owner := suite.createTestUser("owner@example.com")
	project := suite.createTestProject("Project", owner.ID)
	original := time.Now().Add(-48 * time.Hour).Truncate(time.Second)
	task := suite.createTestTask("Task", owner.ID, project.ID, models.TaskStatusCompleted, &original)

	updated, changed, err := suite.service.Complete(task.ID, owner)

	suite.Require().NoError(err)
	assert.False(suite.T(), changed)
	assert.Equal(suite.T(), models.TaskStatusCompleted, updated.Status)

	stored := suite.reloadTask(task.ID)
	suite.Require().NotNil(stored.CompletedAt)
	assert.Equal(suite.T(), original.Unix(), stored.CompletedAt.Unix())
}

// TestReopen_ClearsTimestamp tests the completed -> in_progress transition
func (suite *TaskServiceTestSuite) TestReopen_ClearsTimestamp() {
	owner := suite.createTestUser("owner@example.com")
	project := suite.createTestProject("Project", owner.ID)
	completedAt := time.Now().Add(-time.Hour)
	task := suite.createTestTask("Task", owner.ID, project.ID, models.TaskStatusCompleted, &completedAt)

	updated, changed, err := suite.service.Reopen(task.ID, owner)

	suite.Require().NoError(err)
	assert.True(suite.T(), changed)
	assert.Equal(suite.T(), models.TaskStatusInProgress, updated.Status)
	assert.Nil(suite.T(), updated.CompletedAt)

	stored := suite.reloadTask(task.ID)
	assert.Equal(suite.T(), models.TaskStatusInProgress, stored.Status)
	assert.Nil(suite.T(), stored.CompletedAt)
}

// TestCancel_ClearsTimestamp tests that canceling a completed task drops the
// timestamp along with the status change
func (suite *TaskServiceTestSuite) TestCancel_ClearsTimestamp() {
	owner := suite.createTestUser("owner@example.com")
	project := suite.createTestProject("Project", owner.ID)
	completedAt := time.Now().Add(-time.Hour)
	task := suite.createTestTask("Task", owner.ID, project.ID, models.TaskStatusCompleted, &completedAt)

	updated, changed, err := suite.service.Cancel(task.ID, owner)

	suite.Require().NoError(err)
	assert.True(suite.T(), changed)
	assert.Equal(suite.T(), models.TaskStatusCanceled, updated.Status)
	assert.Nil(suite.T(), updated.CompletedAt)

	stored := suite.reloadTask(task.ID)
	assert.Equal(suite.T(), models.TaskStatusCanceled, stored.Status)
	assert.Nil(suite.T(), stored.CompletedAt)
}

// TestTransition_AssigneeDenied tests that even the assignee cannot transition
func (suite *TaskServiceTestSuite) TestTransition_AssigneeDenied() {
	owner := suite.createTestUser("owner@example.com")
	assignee := suite.createTestUser("assignee@example.com")
	project := suite.createTestProject("Project", owner.ID)
	suite.addParticipant(project, assignee)
	task := suite.createTestTask("Task", owner.ID, project.ID, models.TaskStatusInProgress, nil)
	task.AssignedToID = &assignee.ID
	suite.db.Save(task)

	_, changed, err := suite.service.Complete(task.ID, assignee)

	assert.ErrorIs(suite.T(), err, ErrNotTaskOwner)
	assert.False(suite.T(), changed)

	stored := suite.reloadTask(task.ID)
	assert.Equal(suite.T(), models.TaskStatusInProgress, stored.Status)
	assert.Nil(suite.T(), stored.CompletedAt)
}

// TestTransition_Superuser tests that superusers bypass the owner check
func (suite *TaskServiceTestSuite) TestTransition_Superuser() {
	owner := suite.createTestUser("owner@example.com")
	admin := suite.createTestUser("admin@example.com")
	admin.IsSuperuser = true
	suite.db.Save(admin)
	project := suite.createTestProject("Project", owner.ID)
	task := suite.createTestTask("Task", owner.ID, project.ID, models.TaskStatusInProgress, nil)

	_, changed, err := suite.service.Complete(task.ID, admin)

	suite.Require().NoError(err)
	assert.True(suite.T(), changed)
}

// TestTransition_TaskNotFound tests transitioning an unknown task
func (suite *TaskServiceTestSuite) TestTransition_TaskNotFound() {
	owner := suite.createTestUser("owner@example.com")

	_, _, err := suite.service.Complete(9999, owner)

	assert.ErrorIs(suite.T(), err, ErrTaskNotFound)
}

// TestUpdateTask_ClearEndDate tests removing the end date
func (suite *TaskServiceTestSuite) TestUpdateTask_ClearEndDate() {
	owner := suite.createTestUser("owner@example.com")
	project := suite.createTestProject("Project", owner.ID)
	task := suite.createTestTask("Task", owner.ID, project.ID, models.TaskStatusInProgress, nil)
	endDate := time.Now().AddDate(0, 0, 7)
	task.EndDate = &endDate
	suite.db.Save(task)

	updated, err := suite.service.UpdateTask(task.ID, UpdateTaskInput{ClearEndDate: true})

	suite.Require().NoError(err)
	assert.Nil(suite.T(), updated.EndDate)
}

// TestUpdateTask_AssigneeMustBeParticipant tests reassignment validation
func (suite *TaskServiceTestSuite) TestUpdateTask_AssigneeMustBeParticipant() {
	owner := suite.createTestUser("owner@example.com")
	outsider := suite.createTestUser("outsider@example.com")
	project := suite.createTestProject("Project", owner.ID)
	task := suite.createTestTask("Task", owner.ID, project.ID, models.TaskStatusInProgress, nil)

	_, err := suite.service.UpdateTask(task.ID, UpdateTaskInput{AssignedToID: &outsider.ID})

	assert.ErrorIs(suite.T(), err, ErrInvalidAssignee)
}

// TestDeleteTask_NotOwner tests deletion by a non-owner
func (suite *TaskServiceTestSuite) TestDeleteTask_NotOwner() {
	owner := suite.createTestUser("owner@example.com")
	other := suite.createTestUser("other@example.com")
	project := suite.createTestProject("Project", owner.ID)
	task := suite.createTestTask("Task", owner.ID, project.ID, models.TaskStatusInProgress, nil)

	err := suite.service.DeleteTask(task.ID, other)

	assert.ErrorIs(suite.T(), err, ErrNotTaskOwner)
}

// TestListTasks_LimitCapped tests that the list never exceeds the cap
func (suite *TaskServiceTestSuite) TestListTasks_LimitCapped() {
	owner := suite.createTestUser("owner@example.com")
	project := suite.createTestProject("Project", owner.ID)
	for i := 0; i < 55; i++ {
		suite.createTestTask("Task", owner.ID, project.ID, models.TaskStatusInProgress, nil)
	}

	tasks, total, err := suite.service.ListTasks(ListTasksInput{OwnerID: &owner.ID, Limit: 500})

	suite.Require().NoError(err)
	assert.Len(suite.T(), tasks, 50)
	assert.Equal(suite.T(), int64(55), total)
}

// TestListTasks_StatusFilter tests filtering by status
func (suite *TaskServiceTestSuite) TestListTasks_StatusFilter() {
	owner := suite.createTestUser("owner@example.com")
	project := suite.createTestProject("Project", owner.ID)
	suite.createTestTask("Open", owner.ID, project.ID, models.TaskStatusInProgress, nil)
	completedAt := time.Now()
	suite.createTestTask("Done", owner.ID, project.ID, models.TaskStatusCompleted, &completedAt)

	status := models.TaskStatusCompleted
	tasks, total, err := suite.service.ListTasks(ListTasksInput{OwnerID: &owner.ID, Status: &status})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(1), total)
	suite.Require().Len(tasks, 1)
	assert.Equal(suite.T(), "Done", tasks[0].Name)
}

// TestSuite runs the test suite
func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
