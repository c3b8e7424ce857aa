package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskpulse/apiserver/config"
)

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New(context.Background(), config.StorageConfig{Backend: "ftp"})
	assert.Error(t, err)
}

func TestNewMinioClient_Validation(t *testing.T) {
	_, err := NewMinioClient(config.MinioConfig{})
	assert.Error(t, err)

	_, err = NewMinioClient(config.MinioConfig{Endpoint: "localhost:9000"})
	assert.Error(t, err)

	_, err = NewMinioClient(config.MinioConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"})
	assert.Error(t, err)
}

func TestMinioClient_URL(t *testing.T) {
	m, err := NewMinioClient(config.MinioConfig{
		Endpoint:  "localhost:9000",
		AccessKey: "a",
		SecretKey: "b",
		Bucket:    "taskpulse",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/taskpulse/user_profiles/a.png", m.URL("user_profiles/a.png"))

	m, err = NewMinioClient(config.MinioConfig{
		Endpoint:      "localhost:9000",
		AccessKey:     "a",
		SecretKey:     "b",
		Bucket:        "taskpulse",
		PublicBaseURL: "https://cdn.example.com/",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/k", m.URL("k"))
}

func TestS3BaseURL(t *testing.T) {
	assert.Equal(t, "https://media.s3.eu-west-1.amazonaws.com",
		s3BaseURL(config.S3Config{Bucket: "media", Region: "eu-west-1"}))
	assert.Equal(t, "http://localhost:9000/media",
		s3BaseURL(config.S3Config{Bucket: "media", Region: "us-east-1", Endpoint: "http://localhost:9000/"}))
	assert.Equal(t, "https://cdn.example.com",
		s3BaseURL(config.S3Config{Bucket: "media", PublicBaseURL: "https://cdn.example.com/"}))
}

func TestKeyFromURL(t *testing.T) {
	m, err := NewMinioClient(config.MinioConfig{
		Endpoint:  "localhost:9000",
		AccessKey: "a",
		SecretKey: "b",
		Bucket:    "taskpulse",
	})
	require.NoError(t, err)

	key, err := KeyFromURL(m, m.URL("user_profiles/x.png"))
	require.NoError(t, err)
	assert.Equal(t, "user_profiles/x.png", key)

	_, err = KeyFromURL(m, "https://elsewhere/x.png")
	assert.Error(t, err)

	_, err = KeyFromURL(m, m.URL(""))
	assert.Error(t, err)
}
