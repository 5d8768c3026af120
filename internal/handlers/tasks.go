package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/kugesan/eduquest/internal/app"
	"github.com/kugesan/eduquest/internal/models"
	"github.com/kugesan/eduquest/internal/store"
)

type TaskHandler struct {
	service *app.Service
}

func NewTaskHandler(service *app.Service) *TaskHandler {
	return &TaskHandler{
		service: service,
	}
}

func (h *TaskHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer observeRequest(r, start, "200")

	var task models.Task
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	task.ID = uuid.NewString()

	if err := task.Validate(); err != nil {
		http.Error(w, "Invalid task payload", http.StatusBadRequest)
		return
	}

	if err := h.service.Store.CreateTask(&task); err != nil {
		logger.Error.Printf("Failed to create task: %v", err)
		http.Error(w, "Failed to create task", http.StatusInternalServerError)
		return
	}

	created, err := h.service.Store.GetTask(task.ID)
	if err != nil || created == nil {
		logger.Error.Printf("Failed to re-read created task %s: %v", task.ID, err)
		http.Error(w, "Failed to create task", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, created)
}

func (h *TaskHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.Store.ListTasks()
	if err != nil {
		logger.Error.Printf("Failed to list tasks: %v", err)
		http.Error(w, "Failed to fetch tasks", http.StatusInternalServerError)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}

	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid task id", http.StatusBadRequest)
		return
	}

	task, err := h.service.Store.GetTask(id)
	if err != nil {
		logger.Error.Printf("Failed to get task %s: %v", id, err)
		http.Error(w, "Failed to fetch task", http.StatusInternalServerError)
		return
	}
	if task == nil {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer observeRequest(r, start, "200")

	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid task id", http.StatusBadRequest)
		return
	}

	var upd models.TaskUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if upd.IsEmpty() {
		http.Error(w, "Empty update", http.StatusBadRequest)
		return
	}

	if err := h.service.Store.UpdateTask(id, upd); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Task not found", http.StatusNotFound)
			return
		}
		logger.Error.Printf("Failed to update task %s: %v", id, err)
		http.Error(w, "Failed to update task", http.StatusInternalServerError)
		return
	}

	updated, err := h.service.Store.GetTask(id)
	if err != nil || updated == nil {
		logger.Error.Printf("Failed to re-read updated task %s: %v", id, err)
		http.Error(w, "Failed to update task", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *TaskHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid task id", http.StatusBadRequest)
		return
	}

	if err := h.service.Store.DeleteTask(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Task not found", http.StatusNotFound)
			return
		}
		logger.Error.Printf("Failed to delete task %s: %v", id, err)
		http.Error(w, "Failed to delete task", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted"})
}
