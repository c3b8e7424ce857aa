package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"github.com/taskpulse/apiserver/internal/auth"
	"github.com/taskpulse/apiserver/internal/logging"
	"github.com/taskpulse/apiserver/internal/media"
	"github.com/taskpulse/apiserver/internal/services"
	"github.com/taskpulse/apiserver/internal/store"
	"github.com/taskpulse/apiserver/types"
)

type memUsers struct {
	mu    sync.Mutex
	users []types.User
}

func (m *memUsers) GetByID(_ context.Context, id int) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (m *memUsers) List(context.Context) ([]types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.User(nil), m.users...), nil
}

func (m *memUsers) Search(_ context.Context, term string) ([]types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []types.User
	for _, u := range m.users {
		if strings.Contains(strings.ToLower(u.Username), strings.ToLower(term)) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memUsers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

func (m *memUsers) Create(_ context.Context, user types.User) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username {
			return types.User{}, store.ErrConflict
		}
	}
	user.ID = len(m.users) + 1
	m.users = append(m.users, user)
	return user, nil
}

type memProjects struct {
	projects []types.Project
}

func (m *memProjects) List(context.Context) ([]types.Project, error) { return m.projects, nil }

func (m *memProjects) Get(_ context.Context, id int) (types.Project, error) {
	for _, p := range m.projects {
		if p.ID == id {
			return p, nil
		}
	}
	return types.Project{}, store.ErrNotFound
}

func (m *memProjects) Create(_ context.Context, p types.Project) (types.Project, error) {
	p.ID = len(m.projects) + 1
	m.projects = append(m.projects, p)
	return p, nil
}

func (m *memProjects) Search(context.Context, string) ([]types.Project, error) { return nil, nil }

type memTasks struct {
	tasks []types.Task
}

func (m *memTasks) ListByProject(_ context.Context, projectID int) ([]types.Task, error) {
	out := []types.Task{}
	for _, t := range m.tasks {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTasks) ListByUser(_ context.Context, userID int) ([]types.Task, error) {
	out := []types.Task{}
	for _, t := range m.tasks {
		if (t.AuthorUserID != nil && *t.AuthorUserID == userID) || (t.AssignedUserID != nil && *t.AssignedUserID == userID) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTasks) Search(context.Context, string) ([]types.Task, error) { return nil, nil }

func (m *memTasks) Create(_ context.Context, t types.Task) (types.Task, error) {
	t.ID = len(m.tasks) + 1
	m.tasks = append(m.tasks, t)
	return t, nil
}

func (m *memTasks) UpdateStatus(_ context.Context, id int, status types.TaskStatus) (types.Task, error) {
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks[i].Status = &status
			return m.tasks[i], nil
		}
	}
	return types.Task{}, store.ErrNotFound
}

type stubUploader struct {
	mu      sync.Mutex
	err     error
	uploads int
}

func (s *stubUploader) Upload(_ context.Context, m media.Media) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.uploads++
	return fmt.Sprintf("https://cdn.test/user_profiles/%d-%s", s.uploads, m.Filename), nil
}

func (s *stubUploader) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *stubUploader) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploads
}

func (s *stubUploader) Remove(context.Context, string) error { return nil }

type testAPI struct {
	server   *httptest.Server
	users    *memUsers
	uploader *stubUploader
	now      time.Time
	clockMu  sync.Mutex
}

func (a *testAPI) clock() time.Time {
	a.clockMu.Lock()
	defer a.clockMu.Unlock()
	return a.now
}

func (a *testAPI) advance(d time.Duration) {
	a.clockMu.Lock()
	defer a.clockMu.Unlock()
	a.now = a.now.Add(d)
}

func newTestAPI(t *testing.T, opts ...services.AuthOption) *testAPI {
	t.Helper()

	api := &testAPI{
		users:    &memUsers{},
		uploader: &stubUploader{},
		now:      time.Now().Truncate(time.Second),
	}
	issuer, err := auth.NewIssuer("handler-secret", 72*time.Hour, auth.WithClock(api.clock))
	require.NoError(t, err)

	logger := logging.Discard()
	projects := &memProjects{}
	tasks := &memTasks{}

	authService := services.NewAuthService(api.users, api.uploader, issuer, logger, opts...)
	userService := services.NewUserService(api.users)
	requireAuth := RequireAuth(authService)

	r := chi.NewRouter()
	r.Get("/healthz", Healthz)
	r.Route("/auth", func(r chi.Router) {
		AuthRouter(r, NewAuthHandler(authService, userService, logger, 1024), requireAuth)
	})
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Route("/projects", func(r chi.Router) {
			ProjectRouter(r, NewProjectHandler(services.NewProjectService(projects), logger))
		})
		r.Route("/tasks", func(r chi.Router) {
			TaskRouter(r, NewTaskHandler(services.NewTaskService(tasks, projects), logger))
		})
		r.Route("/users", func(r chi.Router) {
			UserRouter(r, NewUserHandler(userService, logger))
		})
		r.Get("/search", NewSearchHandler(services.NewSearchService(tasks, projects, api.users), logger).Search)
	})

	api.server = httptest.NewServer(r)
	t.Cleanup(api.server.Close)
	return api
}

type filePart struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

func multipartBody(t *testing.T, fields map[string]string, files ...filePart) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.filename))
		if f.contentType != "" {
			h.Set("Content-Type", f.contentType)
		}
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func (a *testAPI) register(t *testing.T, username, password string, files ...filePart) (*http.Response, map[string]any) {
	t.Helper()
	body, contentType := multipartBody(t, map[string]string{"username": username, "password": password}, files...)
	resp, err := http.Post(a.server.URL+"/auth/register", contentType, body)
	require.NoError(t, err)
	return resp, decodeBody(t, resp)
}

func (a *testAPI) login(t *testing.T, username, password string) (*http.Response, map[string]any) {
	t.Helper()
	payload, err := json.Marshal(LoginRequest{Username: username, Password: password})
	require.NoError(t, err)
	resp, err := http.Post(a.server.URL+"/auth/login", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp, decodeBody(t, resp)
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	buf := &bytes.Buffer{}
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	out := map[string]any{}
	if resp.StatusCode == http.StatusNoContent {
		return out
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
