package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "storytracker/internal/errors"
	"storytracker/internal/middleware"
	"storytracker/internal/router"
	"storytracker/internal/services"
)

// AnalyticHandler exposes the per-resource analytics records.
type AnalyticHandler struct {
	analyticService *services.AnalyticService
	projectService  *services.ProjectService
	taskService     *services.TaskService
}

// NewAnalyticHandler creates a new AnalyticHandler
func NewAnalyticHandler(analyticService *services.AnalyticService, projectService *services.ProjectService, taskService *services.TaskService) *AnalyticHandler {
	return &AnalyticHandler{
		analyticService: analyticService,
		projectService:  projectService,
		taskService:     taskService,
	}
}

// GetAnalytic returns the analytics record of a resource, with the resource id
// resolved to its reference URI when the resource still exists.
func (h *AnalyticHandler) GetAnalytic(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	resourceID := c.Param("resourceId")

	analytic, err := h.analyticService.FindByResourceID(resourceID)
	if err != nil {
		if errors.Is(err, services.ErrAnalyticNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	representation := analytic.Representation()
	representation["resourceId"] = h.resolveResourceURI(resourceID, userID)

	c.JSON(http.StatusOK, representation)
}

func (h *AnalyticHandler) resolveResourceURI(resourceID, userID string) string {
	if h.projectService.ExistsWithID(resourceID, userID) {
		return router.ForProject(resourceID)
	}
	if _, err := h.taskService.GetTask(resourceID); err == nil {
		return router.ForTask(resourceID)
	}
	return resourceID
}
