package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/tasktrack/todo-list-api/internal/database"
	"github.com/tasktrack/todo-list-api/internal/dto"
	"github.com/tasktrack/todo-list-api/internal/models"
	"github.com/tasktrack/todo-list-api/internal/repository"
	"github.com/tasktrack/todo-list-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// MetricsHandlerTestSuite defines the test suite for MetricsHandler
type MetricsHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *MetricsHandler
}

// SetupTest runs before each test
func (suite *MetricsHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Task{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	taskRepo := repository.NewTaskRepository(suite.db)
	metricsService := services.NewMetricsService(taskRepo)
	suite.handler = NewMetricsHandler(metricsService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *MetricsHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *MetricsHandlerTestSuite) createTestUser(email string, superuser bool) *models.User {
	user := &models.User{
		Name:         email,
		Email:        email,
		PasswordHash: "hashedpassword",
		IsSuperuser:  superuser,
	}
	suite.db.Create(user)
	return user
}

func (suite *MetricsHandlerTestSuite) createTestProject(ownerID uint64) *models.Project {
	project := &models.Project{
		Name:      "Project",
		OwnerID:   ownerID,
		StartDate: time.Now(),
		Status:    models.ProjectStatusInProgress,
	}
	suite.db.Create(project)
	return project
}

func (suite *MetricsHandlerTestSuite) createTestTask(ownerID, projectID uint64, status models.TaskStatus, completedAt, endDate *time.Time) *models.Task {
	task := &models.Task{
		ProjectID:   projectID,
		OwnerID:     ownerID,
		Name:        "Task",
		StartDate:   time.Now().AddDate(0, 0, -5),
		EndDate:     endDate,
		Priority:    models.TaskPriorityMedium,
		Status:      status,
		CompletedAt: completedAt,
	}
	suite.db.Create(task)
	return task
}

func (suite *MetricsHandlerTestSuite) getMetrics(user *models.User) (*httptest.ResponseRecorder, dto.DashboardResponse) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/metrics", nil)

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set("user_id", user.ID)
	c.Set("current_user", *user)

	suite.handler.GetMetrics(c)

	var response dto.DashboardResponse
	if w.Code == http.StatusOK {
		err := json.Unmarshal(w.Body.Bytes(), &response)
		suite.Require().NoError(err)
	}
	return w, response
}

// TestGetMetrics_ScopedToCaller tests that another user's tasks never leak
// into the dashboard
func (suite *MetricsHandlerTestSuite) TestGetMetrics_ScopedToCaller() {
	alice := suite.createTestUser("alice@example.com", false)
	bob := suite.createTestUser("bob@example.com", false)
	project := suite.createTestProject(bob.ID)

	suite.createTestTask(alice.ID, project.ID, models.TaskStatusInProgress, nil, nil)
	suite.createTestTask(bob.ID, project.ID, models.TaskStatusInProgress, nil, nil)
	suite.createTestTask(bob.ID, project.ID, models.TaskStatusCanceled, nil, nil)

	w, response := suite.getMetrics(alice)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), 1, response.TotalTasks)
}

// TestGetMetrics_SuperuserSeesAll tests the superuser scope
func (suite *MetricsHandlerTestSuite) TestGetMetrics_SuperuserSeesAll() {
	alice := suite.createTestUser("alice@example.com", false)
	admin := suite.createTestUser("admin@example.com", true)
	project := suite.createTestProject(alice.ID)

	suite.createTestTask(alice.ID, project.ID, models.TaskStatusInProgress, nil, nil)
	suite.createTestTask(alice.ID, project.ID, models.TaskStatusInProgress, nil, nil)

	w, response := suite.getMetrics(admin)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), 2, response.TotalTasks)
}

// TestGetMetrics_AssignedTasksIncluded tests that assignment grants scope
func (suite *MetricsHandlerTestSuite) TestGetMetrics_AssignedTasksIncluded() {
	alice := suite.createTestUser("alice@example.com", false)
	bob := suite.createTestUser("bob@example.com", false)
	project := suite.createTestProject(bob.ID)

	task := suite.createTestTask(bob.ID, project.ID, models.TaskStatusInProgress, nil, nil)
	task.AssignedToID = &alice.ID
	suite.db.Save(task)

	w, response := suite.getMetrics(alice)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), 1, response.TotalTasks)
}

// TestGetMetrics_DenseShape tests the wire shape: every bucket and every day
// present even for an empty account
func (suite *MetricsHandlerTestSuite) TestGetMetrics_DenseShape() {
	alice := suite.createTestUser("alice@example.com", false)

	w, response := suite.getMetrics(alice)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), 0, response.TotalTasks)
	assert.Len(suite.T(), response.StatusCounts, 3)
	assert.Len(suite.T(), response.PriorityCounts, 3)
	assert.Len(suite.T(), response.CompletedTasksByDate, 30)
	assert.Nil(suite.T(), response.AvgCompletionTimeDays)
	assert.Equal(suite.T(), 3, response.RiskDays)
	assert.NotNil(suite.T(), response.TasksInRisk)
}

// TestGetMetrics_RiskAndOverdue tests the live risk window against the clock
func (suite *MetricsHandlerTestSuite) TestGetMetrics_RiskAndOverdue() {
	alice := suite.createTestUser("alice@example.com", false)
	project := suite.createTestProject(alice.ID)

	yesterday := time.Now().AddDate(0, 0, -1)
	tomorrow := time.Now().AddDate(0, 0, 1)
	farOut := time.Now().AddDate(0, 0, 30)

	suite.createTestTask(alice.ID, project.ID, models.TaskStatusInProgress, nil, &yesterday)
	suite.createTestTask(alice.ID, project.ID, models.TaskStatusInProgress, nil, &tomorrow)
	suite.createTestTask(alice.ID, project.ID, models.TaskStatusInProgress, nil, &farOut)

	w, response := suite.getMetrics(alice)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), 1, response.OverdueTasks)
	assert.Equal(suite.T(), 1, response.TasksInRiskCount)
	assert.Len(suite.T(), response.TasksInRisk, 1)
}

// TestSuite runs the test suite
func TestMetricsHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(MetricsHandlerTestSuite))
}
