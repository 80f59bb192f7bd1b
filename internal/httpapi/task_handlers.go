package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskdeck.dev/internal/audit"
	"taskdeck.dev/internal/store"
	"taskdeck.dev/internal/stream"
	"taskdeck.dev/internal/task"
)

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type taskResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const (
	titleMinLen       = 3
	titleMaxLen       = 30
	descriptionMaxLen = 250
)

func toTaskResponse(t *store.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func validateTask(req *createTaskRequest) map[string]string {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	fields := make(map[string]string)

	switch n := len(req.Title); {
	case n == 0:
		fields["title"] = "title is required"
	case n < titleMinLen || n > titleMaxLen:
		fields["title"] = "title must contain between 3 and 30 characters"
	}
	if len(req.Description) > descriptionMaxLen {
		fields["description"] = "description allows up to 250 characters only"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func (a *API) handleTasksCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.createTask(w, r)
	case http.MethodGet:
		a.listTasks(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleTaskResource(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/tasks/")
	if path == "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	if path == "stream" {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		a.streamTasks(w, r)
		return
	}

	if rest, ok := strings.CutSuffix(path, "/completed"); ok {
		if r.Method != http.MethodPatch {
			methodNotAllowed(w, r, http.MethodPatch)
			return
		}
		a.toggleTaskCompleted(w, r, rest)
		return
	}

	if strings.Contains(path, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		a.getTask(w, r, path)
	case http.MethodDelete:
		a.deleteTask(w, r, path)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodDelete)
	}
}

func (a *API) createTask(w http.ResponseWriter, r *http.Request) {
	principal, ok := a.requirePrincipal(w, r)
	if !ok {
		return
	}

	var req createTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if fields := validateTask(&req); fields != nil {
		writeError(w, r, http.StatusBadRequest, fields)
		return
	}

	t, err := a.tasks.Create(r.Context(), principal.ID, req.Title, req.Description)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	a.publishTaskEvent(stream.EventTaskCreated, t)
	_ = audit.LogEvent(r.Context(), "task.create", map[string]any{"task_id": t.ID.String()})

	w.Header().Set("Location", "/v1/tasks/"+t.ID.String())
	writeJSON(w, http.StatusCreated, toTaskResponse(t))
}

func (a *API) listTasks(w http.ResponseWriter, r *http.Request) {
	principal, ok := a.requirePrincipal(w, r)
	if !ok {
		return
	}

	var completed *bool
	if raw := r.URL.Query().Get("completed"); raw != "" {
		switch raw {
		case "true":
			v := true
			completed = &v
		case "false":
			v := false
			completed = &v
		default:
			writeError(w, r, http.StatusBadRequest, "completed must be true or false")
			return
		}
	}

	tasks, err := a.tasks.List(r.Context(), principal.ID, completed)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	items := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, toTaskResponse(t))
	}
	writeJSON(w, http.StatusOK, items)
}

func (a *API) getTask(w http.ResponseWriter, r *http.Request, rawID string) {
	principal, ok := a.requirePrincipal(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid task id")
		return
	}

	t, err := a.tasks.Get(r.Context(), principal.ID, id)
	if err != nil {
		handleTaskError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(t))
}

func (a *API) toggleTaskCompleted(w http.ResponseWriter, r *http.Request, rawID string) {
	principal, ok := a.requirePrincipal(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid task id")
		return
	}

	t, err := a.tasks.ToggleCompleted(r.Context(), principal.ID, id)
	if err != nil {
		handleTaskError(w, r, err)
		return
	}

	event := stream.EventTaskReopened
	if t.Completed {
		event = stream.EventTaskCompleted
	}
	a.publishTaskEvent(event, t)
	_ = audit.LogEvent(r.Context(), "task.toggle", map[string]any{
		"task_id":   t.ID.String(),
		"completed": t.Completed,
	})

	writeJSON(w, http.StatusOK, toTaskResponse(t))
}

func (a *API) deleteTask(w http.ResponseWriter, r *http.Request, rawID string) {
	principal, ok := a.requirePrincipal(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid task id")
		return
	}

	if err := a.tasks.Delete(r.Context(), principal.ID, id); err != nil {
		handleTaskError(w, r, err)
		return
	}

	a.publishTaskEvent(stream.EventTaskDeleted, &store.Task{ID: id, OwnerID: principal.ID})
	_ = audit.LogEvent(r.Context(), "task.delete", map[string]any{"task_id": id.String()})

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) publishTaskEvent(eventType string, t *store.Task) {
	if a.stream == nil {
		return
	}
	a.stream.Publish(stream.TaskEvent{
		Type:      eventType,
		TaskID:    t.ID,
		OwnerID:   t.OwnerID,
		Title:     t.Title,
		Completed: t.Completed,
	})
}

// handleTaskError hides cross-owner existence: everything not found for this
// principal is a plain 404.
func handleTaskError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, task.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "task not found")
		return
	}
	writeError(w, r, http.StatusInternalServerError, "internal error")
}
