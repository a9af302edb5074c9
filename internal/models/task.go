package models

import (
	"unicode/utf8"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusQA         TaskStatus = "QA"
	TaskStatusDone       TaskStatus = "done"
)

// NormalizeStatus collapses the "in progress" wire alias onto todo. Both spellings are
// accepted on input; only the normalized form is ever stored.
func NormalizeStatus(status TaskStatus) TaskStatus {
	if status == TaskStatusInProgress {
		return TaskStatusTodo
	}
	return status
}

// statusFreeToMove holds the statuses reachable through the generic update path.
// QA and done are only reachable through their dedicated operations.
var statusFreeToMove = map[TaskStatus]struct{}{
	TaskStatusTodo:       {},
	TaskStatusInProgress: {},
	TaskStatusReview:     {},
}

type Priority string

const (
	PriorityBlocking  Priority = "blocking"
	PriorityImportant Priority = "important"
	PriorityHigh      Priority = "high"
	PriorityMedium    Priority = "medium"
	PriorityLow       Priority = "low"
	PrioritySimple    Priority = "simple"
	PriorityCritical  Priority = "critical"
)

var priorities = map[Priority]struct{}{
	PriorityBlocking:  {},
	PriorityImportant: {},
	PriorityHigh:      {},
	PriorityMedium:    {},
	PriorityLow:       {},
	PrioritySimple:    {},
	PriorityCritical:  {},
}

// ValidPriority reports whether p is a member of the priority enumeration.
func ValidPriority(p Priority) bool {
	_, ok := priorities[p]
	return ok
}

// StoryKind discriminates the two task variants. It is derived from the presence of
// points and never stored explicitly.
type StoryKind int

const (
	StoryKindTechnical StoryKind = iota
	StoryKindUser
)

// Task is a story under a project. ID and ProjectID are write-once; Points is only
// ever set on user stories. The entity carries no creation timestamp, the analytics
// record keyed by its ID does.
type Task struct {
	ID          string     `gorm:"type:varchar(36);primarykey" json:"id"`
	ProjectID   string     `gorm:"type:varchar(36);not null;index" json:"project_id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Assignee    string     `gorm:"type:varchar(36);not null" json:"assignee"`
	Status      TaskStatus `gorm:"type:varchar(20);not null;default:'todo'" json:"status"`
	IsArchived  bool       `gorm:"not null;default:false" json:"is_archived"`
	Tags        []string   `gorm:"serializer:json" json:"tags"`
	Priority    Priority   `gorm:"type:varchar(20)" json:"priority"`
	Points      *float64   `json:"points,omitempty"`
}

// IsUserStory reports whether the task carries an effort-point estimate.
func (t *Task) IsUserStory() bool {
	return t.Points != nil
}

// IsTechnicalStory reports whether the task carries no effort-point estimate.
func (t *Task) IsTechnicalStory() bool {
	return !t.IsUserStory()
}

// Kind returns the exhaustive variant discriminator.
func (t *Task) Kind() StoryKind {
	if t.IsUserStory() {
		return StoryKindUser
	}
	return StoryKindTechnical
}

// OfUserStory builds a user story with a fresh identifier. Status defaults to todo
// when unspecified and the task starts unarchived.
func OfUserStory(projectID, title, description, assignee string, points float64, status TaskStatus, tags []string, priority Priority) *Task {
	task := newTask(projectID, title, description, assignee, status, tags, priority)
	task.Points = &points
	return task
}

// OfTechnicalStory builds a technical story with a fresh identifier. It never sets points.
func OfTechnicalStory(projectID, title, description, assignee string, status TaskStatus, tags []string, priority Priority) *Task {
	return newTask(projectID, title, description, assignee, status, tags, priority)
}

func newTask(projectID, title, description, assignee string, status TaskStatus, tags []string, priority Priority) *Task {
	if status == "" {
		status = TaskStatusTodo
	}

	return &Task{
		ID:          uuid.NewString(),
		ProjectID:   projectID,
		Title:       title,
		Description: description,
		Assignee:    assignee,
		Status:      NormalizeStatus(status),
		IsArchived:  false,
		Tags:        tags,
		Priority:    priority,
	}
}

// Representation projects the task into its wire form. Project and assignee
// identifiers are substituted with the reference strings produced by the supplied
// resolvers, and points appears only on user stories. The projection has no side
// effects and is stable for equal inputs.
func (t *Task) Representation(resolveProjectURI, resolveUserURI func(string) string) map[string]any {
	representation := map[string]any{
		"id":              t.ID,
		"title":           t.Title,
		"parentProjectId": resolveProjectURI(t.ProjectID),
		"description":     t.Description,
		"assignee":        resolveUserURI(t.Assignee),
		"status":          t.Status,
		"tags":            t.Tags,
		"priority":        t.Priority,
		"isArchived":      t.IsArchived,
	}

	if t.IsUserStory() {
		representation["points"] = *t.Points
	}

	return representation
}

// ValidateBusinessConstraints gates proposed field values against the current entity
// state, or against absence on the creation path (existing == nil). Each field is
// checked independently and only when present; the first violation short-circuits.
//
// A proposed status is legal when it leaves the current status unchanged or targets a
// freely movable status. QA and done are rejected here; they belong to the dedicated
// transition operations.
func ValidateBusinessConstraints(existing *Task, title, description *string, points *float64, status *TaskStatus, tags []string, priority *Priority) bool {
	switch {
	case title != nil && (utf8.RuneCountInString(*title) < 4 || utf8.RuneCountInString(*title) > 80):
		return false
	case description != nil && utf8.RuneCountInString(*description) > 4000:
		return false
	case status != nil && !statusChangeAllowed(existing, *status):
		return false
	case points != nil && (*points < 0 || *points > 120):
		return false
	case tags != nil && len(tags) > 10:
		return false
	case priority != nil && !ValidPriority(*priority):
		return false
	default:
		return true
	}
}

func statusChangeAllowed(existing *Task, proposed TaskStatus) bool {
	if existing != nil && proposed == existing.Status {
		return true
	}
	_, ok := statusFreeToMove[proposed]
	return ok
}
