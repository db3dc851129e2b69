package cmd

import (
	"bufio"
	"bytes"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/taskdeck/internal/clierr"
	"github.com/twiced-technology-gmbh/taskdeck/internal/config"
	"github.com/twiced-technology-gmbh/taskdeck/internal/service"
	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

func ptr[T any](v T) *T { return &v }

func TestEditChangesApply(t *testing.T) {
	orig := &task.Task{ID: 3, Title: "Deploy", Description: "to staging", Status: task.StatusPending}

	assert.True(t, editChanges{}.empty())
	assert.Equal(t, task.PayloadOf(orig), editChanges{}.apply(orig))

	got := editChanges{title: ptr("  Deploy v2 "), status: ptr(task.StatusCompleted)}.apply(orig)
	assert.Equal(t, task.Payload{Title: "Deploy v2", Description: "to staging", Status: task.StatusCompleted}, got)

	got = editChanges{description: ptr(""), next: true}.apply(orig)
	assert.Equal(t, task.Payload{Title: "Deploy", Status: task.StatusInProgress}, got)

	// The original is left alone.
	assert.Equal(t, "to staging", orig.Description)
}

func TestServiceErr(t *testing.T) {
	assert.NoError(t, serviceErr(nil, 1))

	notFound := &service.Error{Method: http.MethodPut, Path: "/tasks/9", StatusCode: http.StatusNotFound}
	assert.Equal(t, clierr.TaskNotFound, clierr.As(serviceErr(notFound, 9)).Code)
	assert.Equal(t, clierr.ServiceError, clierr.As(serviceErr(notFound, 0)).Code)

	bad := &service.Error{Method: http.MethodPost, Path: "/tasks", StatusCode: http.StatusBadRequest,
		Message: "Title is required", RequestID: "req-1"}
	ce := clierr.As(serviceErr(bad, 0))
	assert.Equal(t, clierr.InvalidInput, ce.Code)
	assert.Equal(t, "Title is required", ce.Message)
	assert.Equal(t, "req-1", ce.Details["request_id"])
	assert.Equal(t, http.StatusBadRequest, ce.Details["status"])

	down := &service.Error{Method: http.MethodGet, Path: "/tasks", Err: errors.New("connection refused")}
	ce = clierr.As(serviceErr(down, 0))
	assert.Equal(t, clierr.ServiceError, ce.Code)
	assert.NotContains(t, ce.Details, "status")

	plain := errors.New("boom")
	assert.Same(t, plain, serviceErr(plain, 0))
}

func TestPromptConfirmer(t *testing.T) {
	tests := []struct {
		answer string
		want   bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		p := &promptConfirmer{in: bufio.NewReader(strings.NewReader(tt.answer)), out: &out, subject: "#4 Deploy"}
		assert.Equal(t, tt.want, p.Confirm("Delete this task?"), "answer %q", tt.answer)
		assert.Equal(t, "Delete this task: #4 Deploy? [y/N] ", out.String())
	}
}

func TestConfigAccessors(t *testing.T) {
	cfg := config.NewDefault()
	acc := configAccessors()

	for _, key := range allConfigKeys() {
		require.Contains(t, acc, key)
	}
	assert.False(t, acc["version"].writable)
	assert.False(t, acc["dir"].writable)

	require.NoError(t, acc["server.cors_origins"].set(cfg, "https://a.example, ,https://b.example"))
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)

	require.NoError(t, acc["log.activity"].set(cfg, "false"))
	assert.False(t, cfg.Log.Activity)
	assert.Error(t, acc["log.activity"].set(cfg, "maybe"))

	assert.Error(t, acc["api.timeout"].set(cfg, "forever"))
	require.NoError(t, acc["api.url"].set(cfg, "https://tasks.example.com/api"))
	assert.Equal(t, "https://tasks.example.com/api", acc["api.url"].get(cfg))
}

func TestFormatConfigValue(t *testing.T) {
	assert.Equal(t, "--", formatConfigValue(""))
	assert.Equal(t, "--", formatConfigValue([]string(nil)))
	assert.Equal(t, "a, b", formatConfigValue([]string{"a", "b"}))
	assert.Equal(t, "true", formatConfigValue(true))
	assert.Equal(t, "2", formatConfigValue(2))
}
