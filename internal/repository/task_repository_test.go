package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/tasktrack/todo-list-api/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return db, mock
}

// TestSetStatus_SingleUpdate verifies that a transition writes status and
// completed_at in one statement. A crash between two separate updates could
// otherwise leave a completed task without its timestamp.
func TestSetStatus_SingleUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `tasks` SET `completed_at`=\\?,`status`=\\?,`updated_at`=\\?").
		WithArgs(sqlmock.AnyArg(), string(models.TaskStatusCompleted), sqlmock.AnyArg(), uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.SetStatus(7, models.TaskStatusCompleted, &now)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

// TestSetStatus_ClearsTimestamp verifies that leaving the completed state
// nulls completed_at in the same statement.
func TestSetStatus_ClearsTimestamp(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `tasks` SET `completed_at`=\\?,`status`=\\?,`updated_at`=\\?").
		WithArgs(nil, string(models.TaskStatusInProgress), sqlmock.AnyArg(), uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.SetStatus(7, models.TaskStatusInProgress, nil)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

// TaskRepositoryTestSuite exercises the GORM repository against SQLite
type TaskRepositoryTestSuite struct {
	suite.Suite
	db   *gorm.DB
	repo TaskRepository
}

func (suite *TaskRepositoryTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Task{},
	)
	suite.Require().NoError(err)

	suite.repo = NewTaskRepository(suite.db)
}

func (suite *TaskRepositoryTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskRepositoryTestSuite) createUser(email string) *models.User {
	user := &models.User{Name: email, Email: email, PasswordHash: "x"}
	suite.db.Create(user)
	return user
}

func (suite *TaskRepositoryTestSuite) createProject(ownerID uint64) *models.Project {
	project := &models.Project{
		Name:      "Project",
		OwnerID:   ownerID,
		StartDate: time.Now(),
		Status:    models.ProjectStatusInProgress,
	}
	suite.db.Create(project)
	return project
}

func (suite *TaskRepositoryTestSuite) createTask(ownerID, projectID uint64, assignedTo *uint64) *models.Task {
	task := &models.Task{
		ProjectID:    projectID,
		OwnerID:      ownerID,
		AssignedToID: assignedTo,
		Name:         "Task",
		StartDate:    time.Now(),
		Priority:     models.TaskPriorityLow,
		Status:       models.TaskStatusInProgress,
	}
	suite.db.Create(task)
	return task
}

// TestListScoped_ExcludesUnrelated tests that the scoped read only returns
// tasks the user owns or is assigned to
func (suite *TaskRepositoryTestSuite) TestListScoped_ExcludesUnrelated() {
	alice := suite.createUser("alice@example.com")
	bob := suite.createUser("bob@example.com")
	carol := suite.createUser("carol@example.com")
	project := suite.createProject(carol.ID)

	owned := suite.createTask(alice.ID, project.ID, nil)
	assigned := suite.createTask(bob.ID, project.ID, &alice.ID)
	suite.createTask(carol.ID, project.ID, &bob.ID) // unrelated to alice

	tasks, err := suite.repo.ListScoped(alice.ID, false)

	suite.Require().NoError(err)
	suite.Require().Len(tasks, 2)

	ids := []uint64{tasks[0].ID, tasks[1].ID}
	assert.ElementsMatch(suite.T(), []uint64{owned.ID, assigned.ID}, ids)
}

// TestListScoped_Superuser tests that superusers read the whole table
func (suite *TaskRepositoryTestSuite) TestListScoped_Superuser() {
	alice := suite.createUser("alice@example.com")
	bob := suite.createUser("bob@example.com")
	project := suite.createProject(alice.ID)

	suite.createTask(alice.ID, project.ID, nil)
	suite.createTask(bob.ID, project.ID, nil)

	tasks, err := suite.repo.ListScoped(alice.ID, true)

	suite.Require().NoError(err)
	assert.Len(suite.T(), tasks, 2)
}

// TestListScoped_PreloadsRelations tests that the dashboard read carries the
// data the risk sample needs
func (suite *TaskRepositoryTestSuite) TestListScoped_PreloadsRelations() {
	alice := suite.createUser("alice@example.com")
	project := suite.createProject(alice.ID)
	suite.createTask(alice.ID, project.ID, &alice.ID)

	tasks, err := suite.repo.ListScoped(alice.ID, false)

	suite.Require().NoError(err)
	suite.Require().Len(tasks, 1)
	assert.Equal(suite.T(), project.Name, tasks[0].Project.Name)
	assert.Equal(suite.T(), alice.Name, tasks[0].Owner.Name)
	suite.Require().NotNil(tasks[0].AssignedTo)
	assert.Equal(suite.T(), alice.ID, tasks[0].AssignedTo.ID)
}

// TestList_FilterAndLimit tests filter composition and the limit bound
func (suite *TaskRepositoryTestSuite) TestList_FilterAndLimit() {
	alice := suite.createUser("alice@example.com")
	project := suite.createProject(alice.ID)
	for i := 0; i < 5; i++ {
		suite.createTask(alice.ID, project.ID, nil)
	}

	tasks, total, err := suite.repo.List(TaskFilter{
		OwnerID: &alice.ID,
		Limit:   3,
	})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(5), total)
	assert.Len(suite.T(), tasks, 3)
}

// TestDelete_SoftDeletes tests that deleted tasks disappear from reads
func (suite *TaskRepositoryTestSuite) TestDelete_SoftDeletes() {
	alice := suite.createUser("alice@example.com")
	project := suite.createProject(alice.ID)
	task := suite.createTask(alice.ID, project.ID, nil)

	err := suite.repo.Delete(task.ID)
	suite.Require().NoError(err)

	_, err = suite.repo.FindByID(task.ID)
	assert.ErrorIs(suite.T(), err, gorm.ErrRecordNotFound)
}

func TestTaskRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(TaskRepositoryTestSuite))
}
