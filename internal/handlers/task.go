package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"storytracker/internal/dto"
	apierrors "storytracker/internal/errors"
	"storytracker/internal/hypermedia"
	"storytracker/internal/middleware"
	"storytracker/internal/models"
	"storytracker/internal/router"
	"storytracker/internal/services"
	"storytracker/internal/utils"
)

// TaskHandler exposes the task lifecycle over HTTP. It runs the business-rule
// validator before every mutation call and projects results through the hypermedia
// builder.
type TaskHandler struct {
	taskService    *services.TaskService
	projectService *services.ProjectService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *services.TaskService, projectService *services.ProjectService) *TaskHandler {
	return &TaskHandler{
		taskService:    taskService,
		projectService: projectService,
	}
}

// taskWithHypermediaControls projects a task and attaches the actions legal in its
// current state.
func taskWithHypermediaControls(task *models.Task) map[string]any {
	return hypermedia.Of(task).
		Representation(func(entity any) any {
			t := entity.(*models.Task)
			return t.Representation(router.ForProject, router.ForUser)
		}).
		Link(hypermedia.UpdateTask(task)).
		Link(hypermedia.DeleteTask(task)).
		Link(hypermedia.MoveToQa(task), task.Status != models.TaskStatusQA).
		Link(hypermedia.Complete(task), task.Status == models.TaskStatusQA).
		Link(hypermedia.ViewAnalytics(task)).
		Link(hypermedia.ReverseArchivedState(task)).
		Build()
}

// ListTasks returns a page of tasks, optionally scoped to a project the caller owns
// and to tasks created before a given instant.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	var projectID *string
	if raw := c.Query("queryProjectId"); raw != "" {
		// Unknown or foreign projects silently widen the query, matching the
		// permissive list behavior of the rest of the API.
		id := router.ExtractProjectID(raw)
		if h.projectService.ExistsWithID(id, userID) {
			projectID = &id
		}
	}

	var createdBefore *time.Time
	rawCreatedBefore := c.Query("createdBefore")
	if rawCreatedBefore != "" {
		parsed, err := parseInstant(rawCreatedBefore)
		if err != nil {
			apierrors.BadRequest(c, "Invalid createdBefore")
			return
		}
		createdBefore = &parsed
	}

	input := services.ListTasksInput{
		ProjectID:     projectID,
		CreatedBefore: createdBefore,
		Offset:        params.Offset,
		Limit:         params.Limit,
	}

	tasks, err := h.taskService.List(input)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	total, err := h.taskService.Count(input)
	if err != nil {
		apierrors.InternalError(c, "Failed to count tasks")
		return
	}

	basePageURL := router.ForTasks() + "?"
	if rawCreatedBefore != "" {
		basePageURL += "createdBefore=" + url.QueryEscape(rawCreatedBefore) + "&"
	}
	if projectID != nil {
		basePageURL += "queryProjectId=" + url.QueryEscape(*projectID) + "&"
	}
	c.Header("Link", utils.BuildLinkHeader(basePageURL, params, total))

	representation := hypermedia.Of(tasks).
		Representation(func(entity any) any {
			items := entity.([]models.Task)
			projected := make([]any, len(items))
			for i := range items {
				projected[i] = taskWithHypermediaControls(&items[i])
			}
			return projected
		}).
		Representation(func(entity any) any {
			return map[string]any{"tasks": entity}
		}).
		Link(hypermedia.CreateTask()).
		Build()

	c.JSON(http.StatusOK, representation)
}

// CreateUserStory creates a task carrying an effort-point estimate.
func (h *TaskHandler) CreateUserStory(c *gin.Context) {
	h.createStory(c, h.taskService.CreateUserStory)
}

// CreateTechnicalStory creates a task without an effort-point estimate.
func (h *TaskHandler) CreateTechnicalStory(c *gin.Context) {
	h.createStory(c, h.taskService.CreateTechnicalStory)
}

func (h *TaskHandler) createStory(c *gin.Context, create func(services.CreateStoryInput) (*models.Task, error)) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req dto.CreateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if !models.ValidateBusinessConstraints(nil, &req.Title, &req.Description, req.Points,
		req.StatusValue(), req.Tags, req.PriorityValue()) {
		apierrors.BadRequest(c, "Business constraints violated")
		return
	}

	// Reference URIs are accepted in place of technical ids on write paths.
	projectID := router.ExtractProjectID(req.ParentProjectID)
	if !h.projectService.ExistsWithID(projectID, userID) {
		apierrors.BadRequest(c, "Unknown parent project")
		return
	}

	input := services.CreateStoryInput{
		Title:       req.Title,
		Description: req.Description,
		Assignee:    router.ExtractUserID(req.Assignee),
		Status:      models.TaskStatus(req.Status),
		Tags:        req.Tags,
		Priority:    models.Priority(req.Priority),
		ProjectID:   projectID,
		Points:      req.Points,
	}

	task, err := create(input)
	if err != nil {
		if errors.Is(err, services.ErrPointsRequired) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to create task")
		return
	}

	c.JSON(http.StatusCreated, taskWithHypermediaControls(task))
}

// GetTask returns a single task with its hypermedia controls.
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, err := h.taskService.GetTask(c.Param("taskId"))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, taskWithHypermediaControls(task))
}

// UpdateTask applies a partial update after validating the proposed values against
// the current entity state.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	taskID := c.Param("taskId")

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.GetTask(taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	if !models.ValidateBusinessConstraints(task, req.Title, req.Description, req.Points,
		req.StatusValue(), req.Tags, req.PriorityValue()) {
		apierrors.BadRequest(c, "Business constraints violated")
		return
	}

	assignee := req.Assignee
	if assignee != nil {
		cleaned := router.ExtractUserID(*assignee)
		assignee = &cleaned
	}

	if _, err := h.taskService.UpdateTask(taskID, services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Assignee:    assignee,
		Status:      req.StatusValue(),
		Points:      req.Points,
		Tags:        req.Tags,
		Priority:    req.PriorityValue(),
	}); err != nil {
		respondTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteTask removes an archived task.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if err := h.taskService.Delete(c.Param("taskId")); err != nil {
		respondTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// MoveToQa moves a task to QA through the dedicated transition.
func (h *TaskHandler) MoveToQa(c *gin.Context) {
	if _, err := h.taskService.UpdateStatus(c.Param("taskId"), models.TaskStatusQA); err != nil {
		respondTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Complete moves a task to done through the dedicated transition.
func (h *TaskHandler) Complete(c *gin.Context) {
	if _, err := h.taskService.UpdateStatus(c.Param("taskId"), models.TaskStatusDone); err != nil {
		respondTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SwitchArchivedStatus toggles the archived flag and returns the new value.
func (h *TaskHandler) SwitchArchivedStatus(c *gin.Context) {
	isArchived, err := h.taskService.SwitchArchivedStatus(c.Param("taskId"))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"isArchived": isArchived})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrBusinessRuleEnforced):
		apierrors.BusinessRule(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}

func parseInstant(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
