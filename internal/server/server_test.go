package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

type ServerTestSuite struct {
	suite.Suite
	store  *Store
	server *Server
}

func (s *ServerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := Open(MemoryDSN)
	s.Require().NoError(err)
	s.store = NewStore(db)
	s.server = New(s.store, nil, nil)
}

func (s *ServerTestSuite) TearDownTest() {
	s.Require().NoError(s.store.Close())
}

func (s *ServerTestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			s.Require().NoError(json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.server.Handler().ServeHTTP(w, req)
	return w
}

func (s *ServerTestSuite) decode(w *httptest.ResponseRecorder, out any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), out))
}

func (s *ServerTestSuite) errorOf(w *httptest.ResponseRecorder) string {
	var body map[string]string
	s.decode(w, &body)
	return body["error"]
}

func (s *ServerTestSuite) createTask(title string) *task.Task {
	w := s.do(http.MethodPost, "/api/tasks", map[string]string{"title": title})
	s.Require().Equal(http.StatusCreated, w.Code)
	var t task.Task
	s.decode(w, &t)
	return &t
}

func taskURL(id int, suffix string) string {
	return "/api/tasks/" + strconv.Itoa(id) + suffix
}

func (s *ServerTestSuite) TestHealth() {
	w := s.do(http.MethodGet, "/health", nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *ServerTestSuite) TestListEmpty() {
	w := s.do(http.MethodGet, "/api/tasks", nil)
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`[]`, w.Body.String())
}

func (s *ServerTestSuite) TestCreateTask() {
	w := s.do(http.MethodPost, "/api/tasks", map[string]string{
		"title":       "  Write docs ",
		"description": "API reference",
		"status":      "in_progress",
	})
	s.Require().Equal(http.StatusCreated, w.Code)

	var t task.Task
	s.decode(w, &t)
	s.Positive(t.ID)
	s.Equal("Write docs", t.Title)
	s.Equal("API reference", t.Description)
	s.Equal(task.StatusInProgress, t.Status)
	s.False(t.CreatedAt.IsZero())
	s.Zero(t.CommentsCount)
}

func (s *ServerTestSuite) TestCreateTaskDefaultsToPending() {
	t := s.createTask("Plan")
	s.Equal(task.StatusPending, t.Status)
	s.Empty(t.Description)
}

func (s *ServerTestSuite) TestCreateTaskRequiresTitle() {
	for _, body := range []any{map[string]string{"description": "x"}, map[string]string{"title": "   "}, ""} {
		w := s.do(http.MethodPost, "/api/tasks", body)
		s.Equal(http.StatusBadRequest, w.Code)
		s.Equal(msgTitleRequired, s.errorOf(w))
	}
}

func (s *ServerTestSuite) TestCreateTaskRejectsUnknownStatus() {
	w := s.do(http.MethodPost, "/api/tasks", map[string]string{"title": "x", "status": "done"})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(msgInvalidStatus, s.errorOf(w))
}

func (s *ServerTestSuite) TestListKeepsInsertionOrder() {
	s.createTask("one")
	s.createTask("two")
	s.createTask("three")

	w := s.do(http.MethodGet, "/api/tasks", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var tasks []task.Task
	s.decode(w, &tasks)
	s.Require().Len(tasks, 3)
	s.Equal([]string{"one", "two", "three"}, []string{tasks[0].Title, tasks[1].Title, tasks[2].Title})
}

func (s *ServerTestSuite) TestGetTask() {
	created := s.createTask("Plan")

	w := s.do(http.MethodGet, taskURL(created.ID, ""), nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var t task.Task
	s.decode(w, &t)
	s.Equal(created.ID, t.ID)

	s.Equal(http.StatusNotFound, s.do(http.MethodGet, taskURL(999, ""), nil).Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/api/tasks/abc", nil).Code)
}

func (s *ServerTestSuite) TestUpdateAppliesPresentFields() {
	created := s.createTask("Plan")

	w := s.do(http.MethodPut, taskURL(created.ID, ""), map[string]string{"status": "completed"})
	s.Require().Equal(http.StatusOK, w.Code)

	var t task.Task
	s.decode(w, &t)
	s.Equal("Plan", t.Title)
	s.Equal(task.StatusCompleted, t.Status)
	s.Equal(created.CreatedAt.Unix(), t.CreatedAt.Unix())
}

func (s *ServerTestSuite) TestUpdateValidation() {
	created := s.createTask("Plan")
	url := taskURL(created.ID, "")

	w := s.do(http.MethodPut, url, "")
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(msgNoData, s.errorOf(w))

	w = s.do(http.MethodPut, url, map[string]string{})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(msgNoData, s.errorOf(w))

	w = s.do(http.MethodPut, url, map[string]string{"status": "archived"})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(msgInvalidStatus, s.errorOf(w))

	w = s.do(http.MethodPut, url, map[string]string{"title": " "})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(msgTitleRequired, s.errorOf(w))

	w = s.do(http.MethodPut, taskURL(999, ""), map[string]string{"title": "x"})
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *ServerTestSuite) TestUnknownTaskIsNotFoundBeforeBodyChecks() {
	w := s.do(http.MethodPut, taskURL(999, ""), "")
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal(msgNotFound, s.errorOf(w))

	w = s.do(http.MethodPut, taskURL(999, ""), map[string]string{"status": "archived"})
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, taskURL(999, "/comments"), map[string]string{})
	s.Equal(http.StatusNotFound, w.Code)

	created := s.createTask("Plan")
	w = s.do(http.MethodPut, taskURL(created.ID, "/comments/42"), map[string]string{})
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *ServerTestSuite) TestDeleteTask() {
	created := s.createTask("Plan")
	s.do(http.MethodPost, taskURL(created.ID, "/comments"), map[string]string{"content": "note"})

	w := s.do(http.MethodDelete, taskURL(created.ID, ""), nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"message":"Task deleted successfully"}`, w.Body.String())

	s.Equal(http.StatusNotFound, s.do(http.MethodGet, taskURL(created.ID, ""), nil).Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodDelete, taskURL(created.ID, ""), nil).Code)

	var n int64
	s.Require().NoError(s.store.db.Model(&Comment{}).Count(&n).Error)
	s.Zero(n, "comments are removed with their task")
}

func (s *ServerTestSuite) TestCommentsNewestFirstAndCounted() {
	created := s.createTask("Plan")

	for _, content := range []string{"first", "second"} {
		w := s.do(http.MethodPost, taskURL(created.ID, "/comments"), map[string]string{"content": content})
		s.Require().Equal(http.StatusCreated, w.Code)
	}

	w := s.do(http.MethodGet, taskURL(created.ID, "/comments"), nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var comments []task.Comment
	s.decode(w, &comments)
	s.Require().Len(comments, 2)
	s.Equal("second", comments[0].Content)
	s.Equal(created.ID, comments[0].TaskID)

	var tasks []task.Task
	s.decode(s.do(http.MethodGet, "/api/tasks", nil), &tasks)
	s.Require().Len(tasks, 1)
	s.Equal(2, tasks[0].CommentsCount)

	var t task.Task
	s.decode(s.do(http.MethodGet, taskURL(created.ID, ""), nil), &t)
	s.Equal(2, t.CommentsCount)
}

func (s *ServerTestSuite) TestCommentCRUD() {
	created := s.createTask("Plan")

	w := s.do(http.MethodPost, taskURL(created.ID, "/comments"), map[string]string{"content": "draft"})
	s.Require().Equal(http.StatusCreated, w.Code)
	var cm task.Comment
	s.decode(w, &cm)
	url := taskURL(created.ID, "/comments/"+strconv.Itoa(cm.ID))

	w = s.do(http.MethodPut, url, map[string]string{"content": "final"})
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &cm)
	s.Equal("final", cm.Content)

	w = s.do(http.MethodGet, url, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodDelete, url, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"message":"Comment deleted successfully"}`, w.Body.String())
	s.Equal(http.StatusNotFound, s.do(http.MethodGet, url, nil).Code)
}

func (s *ServerTestSuite) TestCommentValidation() {
	created := s.createTask("Plan")

	w := s.do(http.MethodPost, taskURL(created.ID, "/comments"), map[string]string{"content": ""})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(msgContentRequired, s.errorOf(w))

	w = s.do(http.MethodPost, taskURL(999, "/comments"), map[string]string{"content": "x"})
	s.Equal(http.StatusNotFound, w.Code)

	other := s.createTask("Other")
	w = s.do(http.MethodPost, taskURL(created.ID, "/comments"), map[string]string{"content": "x"})
	var cm task.Comment
	s.decode(w, &cm)
	w = s.do(http.MethodGet, taskURL(other.ID, "/comments/"+strconv.Itoa(cm.ID)), nil)
	s.Equal(http.StatusNotFound, w.Code, "comment must belong to the task in the path")
}

func (s *ServerTestSuite) TestCORSPreflight() {
	req := httptest.NewRequest(http.MethodOptions, "/api/tasks", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	s.server.Handler().ServeHTTP(w, req)

	s.Less(w.Code, 300)
	s.Equal("*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}
