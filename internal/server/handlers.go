package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

// Response messages.
const (
	msgTitleRequired   = "Title is required"
	msgContentRequired = "Content is required"
	msgNoData          = "No data provided"
	msgInvalidStatus   = "Invalid status"
	msgNotFound        = "Not found"
	msgInternal        = "Internal server error"
	msgTaskDeleted     = "Task deleted successfully"
	msgCommentDeleted  = "Comment deleted successfully"
)

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

type commentRequest struct {
	Content string `json:"content"`
}

func (s *Server) listTasks(c *gin.Context) {
	tasks, err := s.store.ListTasks(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) getTask(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	t, err := s.store.GetTask(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (s *Server) createTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgTitleRequired})
		return
	}

	p := task.NewPayload(req.Title, req.Description, task.Status(req.Status))
	if !p.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidStatus})
		return
	}

	t, err := s.store.CreateTask(c.Request.Context(), p)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (s *Server) updateTask(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	// Unknown tasks are 404 whatever the body holds.
	if _, err := s.store.GetTask(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgNoData})
		return
	}

	var patch TaskPatch
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgTitleRequired})
			return
		}
		patch.Title = &title
	}
	if req.Description != nil {
		desc := strings.TrimSpace(*req.Description)
		patch.Description = &desc
	}
	if req.Status != nil {
		st := task.Status(*req.Status)
		if !st.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidStatus})
			return
		}
		patch.Status = &st
	}
	if patch.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgNoData})
		return
	}

	t, err := s.store.UpdateTask(c.Request.Context(), id, patch)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (s *Server) deleteTask(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := s.store.DeleteTask(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msgTaskDeleted})
}

func (s *Server) listComments(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	comments, err := s.store.ListComments(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (s *Server) getComment(c *gin.Context) {
	id, cid, ok := commentIDs(c)
	if !ok {
		return
	}
	cm, err := s.store.GetComment(c.Request.Context(), id, cid)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cm)
}

func (s *Server) createComment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, err := s.store.GetTask(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	content, ok := bindContent(c)
	if !ok {
		return
	}
	cm, err := s.store.CreateComment(c.Request.Context(), id, content)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, cm)
}

func (s *Server) updateComment(c *gin.Context) {
	id, cid, ok := commentIDs(c)
	if !ok {
		return
	}
	if _, err := s.store.GetComment(c.Request.Context(), id, cid); err != nil {
		s.fail(c, err)
		return
	}
	content, ok := bindContent(c)
	if !ok {
		return
	}
	cm, err := s.store.UpdateComment(c.Request.Context(), id, cid, content)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cm)
}

func (s *Server) deleteComment(c *gin.Context) {
	id, cid, ok := commentIDs(c)
	if !ok {
		return
	}
	if err := s.store.DeleteComment(c.Request.Context(), id, cid); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msgCommentDeleted})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// fail maps a store error to a JSON error response.
func (s *Server) fail(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
		return
	}
	s.logger.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
}

// paramID parses a positive integer path parameter. Anything else is a 404,
// as the route would not have matched an integer pattern.
func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
		return 0, false
	}
	return id, true
}

func commentIDs(c *gin.Context) (int, int, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return 0, 0, false
	}
	cid, ok := paramID(c, "cid")
	if !ok {
		return 0, 0, false
	}
	return id, cid, true
}

func bindContent(c *gin.Context) (string, bool) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgContentRequired})
		return "", false
	}
	return strings.TrimSpace(req.Content), true
}
