package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/kugesan/eduquest/internal/app"
	"github.com/kugesan/eduquest/internal/blob"
	"github.com/kugesan/eduquest/internal/metrics"
	"github.com/kugesan/eduquest/internal/models"
	"github.com/kugesan/eduquest/internal/progression"
	"github.com/kugesan/eduquest/internal/store"
)

type SubmissionHandler struct {
	service *app.Service
	engine  *progression.Engine
}

func NewSubmissionHandler(service *app.Service, engine *progression.Engine) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		engine:  engine,
	}
}

// readUploadedFile pulls the multipart file into memory and enforces the
// configured size ceiling. The whole payload is buffered before the check,
// which bounds this service to small uploads on purpose.
func (h *SubmissionHandler) readUploadedFile(r *http.Request) ([]byte, string, error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", fmt.Errorf("missing file field: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}

	return data, header.Filename, nil
}

// resolveStudent accepts either a record id or an email, matching what the
// frontend historically sent in the studentId field.
func (h *SubmissionHandler) resolveStudent(studentID string) (*models.User, error) {
	if _, err := uuid.Parse(studentID); err == nil {
		user, err := h.service.Store.GetUserByID(studentID)
		if err != nil || user != nil {
			return user, err
		}
	}
	return h.service.Store.GetUserByEmail(studentID)
}

func (h *SubmissionHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer observeRequest(r, start, "200")

	taskID, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid task id", http.StatusBadRequest)
		return
	}

	task, err := h.service.Store.GetTask(taskID)
	if err != nil {
		logger.Error.Printf("Failed to get task %s: %v", taskID, err)
		http.Error(w, "Failed to fetch task", http.StatusInternalServerError)
		return
	}
	if task == nil {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}

	studentID := r.FormValue("studentId")
	if studentID == "" {
		http.Error(w, "Missing studentId", http.StatusBadRequest)
		return
	}

	student, err := h.resolveStudent(studentID)
	if err != nil {
		logger.Error.Printf("Failed to resolve student %s: %v", studentID, err)
		http.Error(w, "Failed to resolve student", http.StatusInternalServerError)
		return
	}
	if student == nil {
		http.Error(w, "Student not found", http.StatusNotFound)
		return
	}

	if err := h.service.ValidateStudentAuth(r, student.Email); err != nil {
		logger.Error.Printf("Auth failed for %s: %v", student.Email, err)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	data, fileName, err := h.readUploadedFile(r)
	if err != nil {
		http.Error(w, "Invalid file upload", http.StatusBadRequest)
		return
	}
	if int64(len(data)) > h.service.MaxFileSize() {
		http.Error(w, "File too large", http.StatusRequestEntityTooLarge)
		return
	}

	key, err := h.service.Blobs.Put(r.Context(), data)
	if err != nil {
		logger.Error.Printf("Failed to store file: %v", err)
		http.Error(w, "Failed to store file", http.StatusInternalServerError)
		return
	}

	// Display fields come from the user record, not the form: the store is
	// canonical for the student's name and image.
	sub := &models.Submission{
		ID:           uuid.NewString(),
		TaskID:       task.ID,
		TaskTitle:    task.Title,
		StudentID:    studentID,
		StudentName:  student.Name,
		StudentImage: student.ProfileImage,
		SubmittedAt:  time.Now().Unix(),
		FileName:     fileName,
		FileSize:     int64(len(data)),
		FileKey:      key,
		Status:       models.StatusPending,
	}

	if err := h.service.Store.CreateSubmission(sub); err != nil {
		logger.Error.Printf("Failed to create submission: %v", err)
		http.Error(w, "Failed to create submission", http.StatusInternalServerError)
		return
	}

	created, err := h.service.Store.GetSubmission(sub.ID)
	if err != nil || created == nil {
		logger.Error.Printf("Failed to re-read submission %s: %v", sub.ID, err)
		http.Error(w, "Failed to create submission", http.StatusInternalServerError)
		return
	}

	metrics.SubmissionsTotal.WithLabelValues("created").Inc()

	writeJSON(w, http.StatusOK, created)
}

func (h *SubmissionHandler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer observeRequest(r, start, "200")

	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid submission id", http.StatusBadRequest)
		return
	}

	sub, err := h.service.Store.GetSubmission(id)
	if err != nil {
		logger.Error.Printf("Failed to get submission %s: %v", id, err)
		http.Error(w, "Failed to fetch submission", http.StatusInternalServerError)
		return
	}
	if sub == nil {
		http.Error(w, "Submission not found", http.StatusNotFound)
		return
	}

	student, err := h.resolveStudent(sub.StudentID)
	if err != nil {
		logger.Error.Printf("Failed to resolve student %s: %v", sub.StudentID, err)
		http.Error(w, "Failed to resolve student", http.StatusInternalServerError)
		return
	}
	if student != nil {
		if err := h.service.ValidateStudentAuth(r, student.Email); err != nil {
			logger.Error.Printf("Auth failed for %s: %v", student.Email, err)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
	}

	data, fileName, err := h.readUploadedFile(r)
	if err != nil {
		http.Error(w, "Invalid file upload", http.StatusBadRequest)
		return
	}
	if int64(len(data)) > h.service.MaxFileSize() {
		http.Error(w, "File too large", http.StatusRequestEntityTooLarge)
		return
	}

	key, err := h.service.Blobs.Put(r.Context(), data)
	if err != nil {
		logger.Error.Printf("Failed to store file: %v", err)
		http.Error(w, "Failed to store file", http.StatusInternalServerError)
		return
	}

	err = h.service.Store.ReplaceSubmissionFile(id, fileName, key, int64(len(data)), time.Now().Unix())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Submission not found", http.StatusNotFound)
			return
		}
		logger.Error.Printf("Failed to replace submission %s: %v", id, err)
		http.Error(w, "Failed to replace submission", http.StatusInternalServerError)
		return
	}

	if sub.FileKey != "" && sub.FileKey != key {
		if err := h.service.Blobs.Delete(r.Context(), sub.FileKey); err != nil {
			logger.Debug.Printf("Failed to drop replaced blob %s: %v", sub.FileKey, err)
		}
	}

	updated, err := h.service.Store.GetSubmission(id)
	if err != nil || updated == nil {
		logger.Error.Printf("Failed to re-read submission %s: %v", id, err)
		http.Error(w, "Failed to replace submission", http.StatusInternalServerError)
		return
	}

	metrics.SubmissionsTotal.WithLabelValues("replaced").Inc()

	writeJSON(w, http.StatusOK, updated)
}

func (h *SubmissionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	filter := store.SubmissionFilter{
		TaskID:    r.URL.Query().Get("taskId"),
		StudentID: r.URL.Query().Get("studentId"),
	}

	subs, err := h.service.Store.ListSubmissions(filter)
	if err != nil {
		logger.Error.Printf("Failed to list submissions: %v", err)
		http.Error(w, "Failed to fetch submissions", http.StatusInternalServerError)
		return
	}
	if subs == nil {
		subs = []models.Submission{}
	}

	writeJSON(w, http.StatusOK, subs)
}

func (h *SubmissionHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid submission id", http.StatusBadRequest)
		return
	}

	sub, err := h.service.Store.GetSubmission(id)
	if err != nil {
		logger.Error.Printf("Failed to get submission %s: %v", id, err)
		http.Error(w, "Failed to fetch submission", http.StatusInternalServerError)
		return
	}
	if sub == nil {
		http.Error(w, "Submission not found", http.StatusNotFound)
		return
	}

	data, err := h.service.Blobs.Get(r.Context(), sub.FileKey)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		logger.Error.Printf("Failed to read blob %s: %v", sub.FileKey, err)
		http.Error(w, "Failed to fetch file", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sub.FileName))
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

func (h *SubmissionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid submission id", http.StatusBadRequest)
		return
	}

	sub, err := h.service.Store.GetSubmission(id)
	if err != nil {
		logger.Error.Printf("Failed to get submission %s: %v", id, err)
		http.Error(w, "Failed to fetch submission", http.StatusInternalServerError)
		return
	}
	if sub == nil {
		http.Error(w, "Submission not found", http.StatusNotFound)
		return
	}

	if err := h.service.Store.DeleteSubmission(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Submission not found", http.StatusNotFound)
			return
		}
		logger.Error.Printf("Failed to delete submission %s: %v", id, err)
		http.Error(w, "Failed to delete submission", http.StatusInternalServerError)
		return
	}

	if sub.FileKey != "" {
		if err := h.service.Blobs.Delete(r.Context(), sub.FileKey); err != nil {
			logger.Debug.Printf("Failed to drop blob %s: %v", sub.FileKey, err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Submission deleted"})
}

func (h *SubmissionHandler) HandleGrade(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer observeRequest(r, start, "200")

	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid submission id", http.StatusBadRequest)
		return
	}

	var upd models.GradeUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if upd.IsEmpty() {
		http.Error(w, "Empty grade update", http.StatusBadRequest)
		return
	}
	upd.Normalize()

	if err := h.service.Store.GradeSubmission(id, upd); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Submission not found", http.StatusNotFound)
			return
		}
		logger.Error.Printf("Failed to grade submission %s: %v", id, err)
		http.Error(w, "Failed to grade submission", http.StatusInternalServerError)
		return
	}

	updated, err := h.service.Store.GetSubmission(id)
	if err != nil || updated == nil {
		logger.Error.Printf("Failed to re-read submission %s: %v", id, err)
		http.Error(w, "Failed to grade submission", http.StatusInternalServerError)
		return
	}

	if updated.Grade != nil {
		metrics.GradesTotal.WithLabelValues(*updated.Grade).Inc()
	}

	// Best-effort: the grade is already durable, so a failed unlock scan is
	// logged and the response still succeeds.
	if err := h.engine.HandleGraded(updated); err != nil {
		logger.Error.Printf("Progression scan failed after grading %s: %v", id, err)
	}

	writeJSON(w, http.StatusOK, updated)
}
