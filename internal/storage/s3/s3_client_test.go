package s3_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/config"
	"staybook/internal/port"
	s3storage "staybook/internal/storage/s3"
)

type recorded struct {
	method      string
	path        string
	contentType string
}

func newStorage(t *testing.T, handler http.HandlerFunc) port.ObjectStorage {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	storage, err := s3storage.NewS3Client(&config.S3Config{
		Region:    "eu-west-1",
		Bucket:    "staybook-test",
		Endpoint:  srv.URL,
		AccessKey: "test",
		SecretKey: "test",
	})
	require.NoError(t, err)
	return storage
}

func TestS3Client_Put(t *testing.T) {
	var (
		mu   sync.Mutex
		reqs []recorded
	)
	storage := newStorage(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		mu.Lock()
		reqs = append(reqs, recorded{method: r.Method, path: r.URL.Path, contentType: r.Header.Get("Content-Type")})
		mu.Unlock()
		w.Header().Set("ETag", `"abc"`)
		w.WriteHeader(http.StatusOK)
	})

	body := []byte("Source File,Outcome\n")
	loc, err := storage.Put(context.Background(), port.PutObjectInput{
		Key:         "reviews/review_b1_2025-06-10.csv",
		Body:        bytes.NewReader(body),
		ContentType: "text/csv",
		Size:        int64(len(body)),
	})

	require.NoError(t, err)
	assert.Contains(t, loc, "/staybook-test/reviews/review_b1_2025-06-10.csv")
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPut, reqs[0].method)
	assert.Equal(t, "/staybook-test/reviews/review_b1_2025-06-10.csv", reqs[0].path)
	assert.Equal(t, "text/csv", reqs[0].contentType)
}

func TestS3Client_PutFailure(t *testing.T) {
	storage := newStorage(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`<Error><Code>AccessDenied</Code><Message>denied</Message></Error>`))
	})

	_, err := storage.Put(context.Background(), port.PutObjectInput{
		Key: "uploads/b1/01-a.pdf", Body: strings.NewReader("%PDF"), ContentType: "application/pdf",
	})

	assert.ErrorContains(t, err, "uploads/b1/01-a.pdf")
}

func TestS3Client_PresignGet(t *testing.T) {
	storage := newStorage(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("presigning must not call the server, got %s %s", r.Method, r.URL.Path)
	})

	url, err := storage.PresignGet(context.Background(), "reviews/x.csv", 7*24*time.Hour)

	require.NoError(t, err)
	assert.Contains(t, url, "/staybook-test/reviews/x.csv")
	assert.Contains(t, url, "X-Amz-Expires=604800")
}

func TestNewS3Client_RequiresBucket(t *testing.T) {
	_, err := s3storage.NewS3Client(&config.S3Config{Region: "eu-west-1"})

	assert.Error(t, err)
}
