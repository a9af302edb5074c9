// Package router maps technical identifiers to the canonical reference URIs exposed
// on the wire, and back. Write paths accept either form; the inverse mapping strips
// the URI down to the embedded identifier.
package router

import "strings"

const apiPrefix = "/api"

func ForProject(projectID string) string {
	return apiPrefix + "/projects/" + projectID
}

func ForUser(userID string) string {
	return apiPrefix + "/users/" + userID
}

func ForTask(taskID string) string {
	return apiPrefix + "/tasks/" + taskID
}

func ForTasks() string {
	return apiPrefix + "/tasks"
}

func ForAnalytic(resourceID string) string {
	return apiPrefix + "/analytics/" + resourceID
}

// ExtractProjectID returns the identifier embedded in a project reference URI, or the
// input unchanged when it is not one.
func ExtractProjectID(reference string) string {
	return extract(reference, apiPrefix+"/projects/")
}

// ExtractUserID returns the identifier embedded in a user reference URI, or the input
// unchanged when it is not one.
func ExtractUserID(reference string) string {
	return extract(reference, apiPrefix+"/users/")
}

func extract(reference, prefix string) string {
	rest, ok := strings.CutPrefix(reference, prefix)
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return reference
	}
	return rest
}
