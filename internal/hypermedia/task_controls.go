package hypermedia

import (
	"net/http"

	"storytracker/internal/models"
	"storytracker/internal/router"
)

// Task action controls. Callers decide per control whether the task's current state
// makes the action legal.

func UpdateTask(task *models.Task) Control {
	return Control{Rel: "update", Href: router.ForTask(task.ID), Method: http.MethodPut}
}

func DeleteTask(task *models.Task) Control {
	return Control{Rel: "delete", Href: router.ForTask(task.ID), Method: http.MethodDelete}
}

func MoveToQa(task *models.Task) Control {
	return Control{Rel: "moveToQa", Href: router.ForTask(task.ID) + "/toQa", Method: http.MethodPut}
}

func Complete(task *models.Task) Control {
	return Control{Rel: "complete", Href: router.ForTask(task.ID) + "/complete", Method: http.MethodPut}
}

func ViewAnalytics(task *models.Task) Control {
	return Control{Rel: "viewAnalytics", Href: router.ForAnalytic(task.ID), Method: http.MethodGet}
}

func ReverseArchivedState(task *models.Task) Control {
	return Control{Rel: "reverseArchivedState", Href: router.ForTask(task.ID) + "/archive", Method: http.MethodPost}
}

func CreateTask() Control {
	return Control{Rel: "create", Href: router.ForTasks(), Method: http.MethodPost}
}
