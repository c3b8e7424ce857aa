package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskpulse/apiserver/types"
)

func authedToken(t *testing.T, api *testAPI, username string) (string, int) {
	t.Helper()
	resp, body := api.register(t, username, "secret1")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	user := body["user"].(map[string]any)
	return body["token"].(string), int(user["userId"].(float64))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api := newTestAPI(t)

	for _, path := range []string{"/projects", "/tasks?projectId=1", "/users", "/users/1", "/search?query=x", "/auth/me"} {
		resp, raw := api.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		assert.JSONEq(t, `{"message":"No token provided"}`, string(raw), path)
	}
}

func TestProjectsAndTasks(t *testing.T) {
	api := newTestAPI(t)
	token, userID := authedToken(t, api, "alice")

	resp, raw := api.do(t, http.MethodPost, "/projects", token, types.Project{Name: "Apollo"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var project types.Project
	require.NoError(t, json.Unmarshal(raw, &project))

	resp, raw = api.do(t, http.MethodPost, "/projects", token, types.Project{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Project name is required"}`, string(raw))

	resp, raw = api.do(t, http.MethodPost, "/tasks", token, types.Task{Title: "Launch", ProjectID: project.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var task types.Task
	require.NoError(t, json.Unmarshal(raw, &task))
	require.NotNil(t, task.AuthorUserID)
	assert.Equal(t, userID, *task.AuthorUserID)

	resp, raw = api.do(t, http.MethodGet, "/tasks?projectId=1", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tasks []types.Task
	require.NoError(t, json.Unmarshal(raw, &tasks))
	assert.Len(t, tasks, 1)

	resp, _ = api.do(t, http.MethodGet, "/tasks", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, raw = api.do(t, http.MethodPatch, "/tasks/1/status", token, UpdateStatusRequest{Status: types.StatusCompleted})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `"status":"Completed"`)

	resp, _ = api.do(t, http.MethodPatch, "/tasks/99/status", token, UpdateStatusRequest{Status: types.StatusCompleted})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = api.do(t, http.MethodPatch, "/tasks/1/status", token, UpdateStatusRequest{Status: "Nope"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, raw = api.do(t, http.MethodGet, "/tasks/user/1", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &tasks))
	assert.Len(t, tasks, 1)
}

func TestUsersAndSearch(t *testing.T) {
	api := newTestAPI(t)
	token, _ := authedToken(t, api, "alice")
	_, _ = authedToken(t, api, "bob")

	resp, raw := api.do(t, http.MethodGet, "/users", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, string(raw), "password")
	var users []types.Identity
	require.NoError(t, json.Unmarshal(raw, &users))
	assert.Len(t, users, 2)

	resp, _ = api.do(t, http.MethodGet, "/users/42", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = api.do(t, http.MethodGet, "/users/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, raw = api.do(t, http.MethodGet, "/search?query=BO", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var results types.SearchResults
	require.NoError(t, json.Unmarshal(raw, &results))
	require.Len(t, results.Users, 1)
	assert.Equal(t, "bob", results.Users[0].Username)

	resp, _ = api.do(t, http.MethodGet, "/search", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	api := newTestAPI(t)
	resp, raw := api.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(raw))
}
