package dto

import "storytracker/internal/models"

// CreateStoryRequest is the request body for both story creation endpoints. The user
// story endpoint additionally requires points.
type CreateStoryRequest struct {
	Title           string   `json:"title" binding:"required"`
	Description     string   `json:"description"`
	Assignee        string   `json:"assignee" binding:"required"`
	Status          string   `json:"status"`
	Tags            []string `json:"tags"`
	Priority        string   `json:"priority"`
	ParentProjectID string   `json:"parentProjectId" binding:"required"`
	Points          *float64 `json:"points"`
}

// StatusValue returns the proposed status, or nil when none was supplied.
func (r CreateStoryRequest) StatusValue() *models.TaskStatus {
	return statusPtr(r.Status)
}

// PriorityValue returns the proposed priority, or nil when none was supplied.
func (r CreateStoryRequest) PriorityValue() *models.Priority {
	return priorityPtr(r.Priority)
}

// UpdateTaskRequest is the partial-update body. Absent fields mean "no change".
type UpdateTaskRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Assignee    *string  `json:"assignee"`
	Status      *string  `json:"status"`
	Points      *float64 `json:"points"`
	Tags        []string `json:"tags"`
	Priority    *string  `json:"priority"`
}

// StatusValue returns the proposed status, or nil when none was supplied.
func (r UpdateTaskRequest) StatusValue() *models.TaskStatus {
	if r.Status == nil {
		return nil
	}
	return statusPtr(*r.Status)
}

// PriorityValue returns the proposed priority, or nil when none was supplied.
func (r UpdateTaskRequest) PriorityValue() *models.Priority {
	if r.Priority == nil {
		return nil
	}
	return priorityPtr(*r.Priority)
}

func statusPtr(raw string) *models.TaskStatus {
	if raw == "" {
		return nil
	}
	status := models.TaskStatus(raw)
	return &status
}

func priorityPtr(raw string) *models.Priority {
	if raw == "" {
		return nil
	}
	priority := models.Priority(raw)
	return &priority
}
