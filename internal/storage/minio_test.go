package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskpulse/apiserver/config"
)

// fakeS3 answers the handful of bucket calls EnsureBucket makes.
type fakeS3 struct {
	mu       sync.Mutex
	exists   bool
	created  int
	policies []string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	q := r.URL.Query()
	switch {
	case r.Method == http.MethodGet && q.Has("location"):
		w.Header().Set("Content-Type", "application/xml")
		_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?>`+
			`<LocationConstraint xmlns="http://s3.amazonaws.com/doc/2006-03-01/">us-east-1</LocationConstraint>`)
	case r.Method == http.MethodHead:
		if !f.exists {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut && q.Has("policy"):
		body, _ := io.ReadAll(r.Body)
		f.policies = append(f.policies, string(body))
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodPut:
		f.exists = true
		f.created++
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusNotImplemented)
	}
}

func newFakeMinio(t *testing.T, fake *fakeS3) *MinioClient {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	m, err := NewMinioClient(config.MinioConfig{
		Endpoint:  strings.TrimPrefix(srv.URL, "http://"),
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "avatars",
	})
	require.NoError(t, err)
	return m
}

func TestMinioClient_EnsureBucket_ExistingBucketGetsReadPolicy(t *testing.T) {
	fake := &fakeS3{exists: true}
	m := newFakeMinio(t, fake)

	require.NoError(t, m.EnsureBucket(context.Background()))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Zero(t, fake.created)
	require.Len(t, fake.policies, 1)
	assert.Contains(t, fake.policies[0], "arn:aws:s3:::avatars/*")
	assert.Contains(t, fake.policies[0], "s3:GetObject")
}

func TestMinioClient_EnsureBucket_CreatesMissingBucket(t *testing.T) {
	fake := &fakeS3{}
	m := newFakeMinio(t, fake)

	require.NoError(t, m.EnsureBucket(context.Background()))
	require.NoError(t, m.EnsureBucket(context.Background()))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, 1, fake.created)
	assert.Len(t, fake.policies, 2)
}
