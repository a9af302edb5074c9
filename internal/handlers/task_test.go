package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"storytracker/internal/models"
	"storytracker/internal/repository"
	"storytracker/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db          *gorm.DB
	handler     *TaskHandler
	taskService *services.TaskService
	analytics   *services.AnalyticService
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Task{},
		&models.Analytic{},
	)
	suite.Require().NoError(err)

	suite.analytics = services.NewAnalyticService(repository.NewAnalyticRepository(suite.db))
	suite.taskService = services.NewTaskService(repository.NewTaskRepository(suite.db), suite.analytics)
	projectService := services.NewProjectService(repository.NewProjectRepository(suite.db))

	suite.handler = NewTaskHandler(suite.taskService, projectService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper functions to create test data

func (suite *TaskHandlerTestSuite) createTestUser(username string) *models.User {
	user := &models.User{
		Username:     username,
		PasswordHash: "hashedpassword",
	}
	suite.db.Create(user)
	return user
}

func (suite *TaskHandlerTestSuite) createTestProject(name, ownerID string) *models.Project {
	project := &models.Project{
		Name:    name,
		OwnerID: ownerID,
	}
	suite.db.Create(project)
	return project
}

func (suite *TaskHandlerTestSuite) createTestTask(title, projectID string) *models.Task {
	task, err := suite.taskService.CreateTechnicalStory(services.CreateStoryInput{
		Title:     title,
		Assignee:  "u1",
		ProjectID: projectID,
	})
	suite.Require().NoError(err)
	return task
}

// Helper function to create an authenticated context
func (suite *TaskHandlerTestSuite) createAuthContext(method, url string, body []byte, userID string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set("user_id", userID)

	return c, w
}

func (suite *TaskHandlerTestSuite) setTaskParam(c *gin.Context, taskID string) {
	c.Params = gin.Params{{Key: "taskId", Value: taskID}}
}

func decodeBody(t assert.TestingT, w *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	err := json.Unmarshal(w.Body.Bytes(), &body)
	assert.NoError(t, err)
	return body
}

func linkRels(body map[string]any) []string {
	links, _ := body["_links"].([]any)
	rels := make([]string, 0, len(links))
	for _, link := range links {
		rels = append(rels, link.(map[string]any)["rel"].(string))
	}
	return rels
}

func (suite *TaskHandlerTestSuite) TestCreateUserStory_Success() {
	user := suite.createTestUser("alice")
	project := suite.createTestProject("Webshop", user.ID)

	requestBody := map[string]any{
		"title":           "Login page",
		"assignee":        "u1",
		"parentProjectId": project.ID,
		"points":          5,
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks/userStory", body, user.ID)
	suite.handler.CreateUserStory(c)

	suite.Equal(http.StatusCreated, w.Code)

	response := decodeBody(suite.T(), w)
	suite.Equal("Login page", response["title"])
	suite.Equal(5.0, response["points"])
	suite.Equal("todo", response["status"])
	suite.Equal(false, response["isArchived"])
	suite.Contains(linkRels(response), "moveToQa")
	suite.NotContains(linkRels(response), "complete")
}

func (suite *TaskHandlerTestSuite) TestCreateUserStory_PointsRequired() {
	user := suite.createTestUser("alice")
	project := suite.createTestProject("Webshop", user.ID)

	requestBody := map[string]any{
		"title":           "Login page",
		"assignee":        "u1",
		"parentProjectId": project.ID,
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks/userStory", body, user.ID)
	suite.handler.CreateUserStory(c)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTechnicalStory_OmitsPoints() {
	user := suite.createTestUser("alice")
	project := suite.createTestProject("Webshop", user.ID)

	requestBody := map[string]any{
		"title":           "Upgrade CI image",
		"assignee":        "u1",
		"parentProjectId": project.ID,
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks/technicalStory", body, user.ID)
	suite.handler.CreateTechnicalStory(c)

	suite.Equal(http.StatusCreated, w.Code)

	response := decodeBody(suite.T(), w)
	suite.NotContains(response, "points")
}

func (suite *TaskHandlerTestSuite) TestCreateTechnicalStory_TitleTooShort() {
	user := suite.createTestUser("alice")
	project := suite.createTestProject("Webshop", user.ID)

	requestBody := map[string]any{
		"title":           "abc",
		"assignee":        "u1",
		"parentProjectId": project.ID,
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks/technicalStory", body, user.ID)
	suite.handler.CreateTechnicalStory(c)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTechnicalStory_UnknownProject() {
	user := suite.createTestUser("alice")

	requestBody := map[string]any{
		"title":           "Upgrade CI image",
		"assignee":        "u1",
		"parentProjectId": "nope",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks/technicalStory", body, user.ID)
	suite.handler.CreateTechnicalStory(c)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestGetTask_NotFound() {
	user := suite.createTestUser("alice")

	c, w := suite.createAuthContext("GET", "/api/tasks/missing", nil, user.ID)
	suite.setTaskParam(c, "missing")
	suite.handler.GetTask(c)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_FreeTransition() {
	user := suite.createTestUser("alice")
	project := suite.createTestProject("Webshop", user.ID)
	task := suite.createTestTask("Fix bug", project.ID)

	body, _ := json.Marshal(map[string]any{"status": "review"})
	c, w := suite.createAuthContext("PUT", "/api/tasks/"+task.ID, body, user.ID)
	suite.setTaskParam(c, task.ID)
	suite.handler.UpdateTask(c)
	c.Writer.WriteHeaderNow()

	suite.Equal(http.StatusNoContent, w.Code)

	updated, err := suite.taskService.GetTask(task.ID)
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusReview, updated.Status)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_DoneRejectedOnGenericPath() {
	user := suite.createTestUser("alice")
	project := suite.createTestProject("Webshop", user.ID)
	task := suite.createTestTask("Fix bug", project.ID)

	body, _ := json.Marshal(map[string]any{"status": "done"})
	c, w := suite.createAuthContext("PUT", "/api/tasks/"+task.ID, body, user.ID)
	suite.setTaskParam(c, task.ID)
	suite.handler.UpdateTask(c)

	suite.Equal(http.StatusBadRequest, w.Code)

	unchanged, err := suite.taskService.GetTask(task.ID)
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusTodo, unchanged.Status)
}

func (suite *TaskHandlerTestSuite) TestMoveToQa_ThenControlsFlip() {
	user := suite.createTestUser("alice")
	project := suite.createTestProject("Webshop", user.ID)
	task := suite.createTestTask("Fix bug", project.ID)

	c, w := suite.createAuthContext("PUT", "/api/tasks/"+task.ID+"/toQa", nil, user.ID)
	suite.setTaskParam(c, task.ID)
	suite.handler.MoveToQa(c)
	c.Writer.WriteHeaderNow()
	suite.Equal(http.StatusNoContent, w.Code)

	c, w = suite.createAuthContext("GET", "/api/tasks/"+task.ID, nil, user.ID)
	suite.setTaskParam(c, task.ID)
	suite.handler.GetTask(c)
	suite.Equal(http.StatusOK, w.Code)

	response := decodeBody(suite.T(), w)
	suite.Equal("QA", response["status"])
	suite.Contains(linkRels(response), "complete")
	suite.NotContains(linkRels(response), "moveToQa")
}

func (suite *TaskHandlerTestSuite) TestComplete() {
	user := suite.createTestUser("alice")
	project := suite.createTestProject("Webshop", user.ID)
	task := suite.createTestTask("Fix bug", project.ID)

	c, w := suite.createAuthContext("PUT", "/api/tasks/"+task.ID+"/complete", nil, user.ID)
	suite.setTaskParam(c, task.ID)
	suite.handler.Complete(c)
	c.Writer.WriteHeaderNow()
	suite.Equal(http.StatusNoContent, w.Code)

	done, err := suite.taskService.GetTask(task.ID)
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusDone, done.Status)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask_RequiresArchive() {
	user := suite.createTestUser("alice")
	project := suite.createTestProject("Webshop", user.ID)
	task := suite.createTestTask("Fix bug", project.ID)

	c, w := suite.createAuthContext("DELETE", "/api/tasks/"+task.ID, nil, user.ID)
	suite.setTaskParam(c, task.ID)
	suite.handler.DeleteTask(c)

	suite.Equal(http.StatusBadRequest, w.Code)
	response := decodeBody(suite.T(), w)
	suite.Equal("BUSINESS_RULE_ENFORCED", response["code"])

	c, w = suite.createAuthContext("POST", "/api/tasks/"+task.ID+"/archive", nil, user.ID)
	suite.setTaskParam(c, task.ID)
	suite.handler.SwitchArchivedStatus(c)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(true, decodeBody(suite.T(), w)["isArchived"])

	c, w = suite.createAuthContext("DELETE", "/api/tasks/"+task.ID, nil, user.ID)
	suite.setTaskParam(c, task.ID)
	suite.handler.DeleteTask(c)
	c.Writer.WriteHeaderNow()
	suite.Equal(http.StatusNoContent, w.Code)

	c, w = suite.createAuthContext("GET", "/api/tasks/"+task.ID, nil, user.ID)
	suite.setTaskParam(c, task.ID)
	suite.handler.GetTask(c)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestListTasks_Success() {
	user := suite.createTestUser("alice")
	project := suite.createTestProject("Webshop", user.ID)
	suite.createTestTask("Fix bug", project.ID)
	suite.createTestTask("Ship release", project.ID)

	c, w := suite.createAuthContext("GET", "/api/tasks", nil, user.ID)
	suite.handler.ListTasks(c)

	suite.Equal(http.StatusOK, w.Code)

	response := decodeBody(suite.T(), w)
	tasks := response["tasks"].([]any)
	suite.Len(tasks, 2)
	suite.Contains(linkRels(response), "create")

	firstTask := tasks[0].(map[string]any)
	suite.Contains(firstTask, "_links")

	linkHeader := w.Header().Get("Link")
	suite.Contains(linkHeader, `rel="hydra:last"`)
}

func (suite *TaskHandlerTestSuite) TestListTasks_ProjectFilterAndPaging() {
	user := suite.createTestUser("alice")
	project := suite.createTestProject("Webshop", user.ID)
	other := suite.createTestProject("Intranet", user.ID)
	suite.createTestTask("Fix bug", project.ID)
	suite.createTestTask("Ship release", project.ID)
	suite.createTestTask("Elsewhere", other.ID)

	c, w := suite.createAuthContext("GET", "/api/tasks", nil, user.ID)
	c.Request.URL.RawQuery = "queryProjectId=" + project.ID + "&offset=0&limit=1"
	suite.handler.ListTasks(c)

	suite.Equal(http.StatusOK, w.Code)

	response := decodeBody(suite.T(), w)
	suite.Len(response["tasks"].([]any), 1)

	linkHeader := w.Header().Get("Link")
	suite.Contains(linkHeader, `rel="hydra:next"`)
	suite.Contains(linkHeader, "queryProjectId="+project.ID)
}

func (suite *TaskHandlerTestSuite) TestListTasks_Unauthorized() {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/tasks", nil)
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	suite.handler.ListTasks(c)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
