package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"mailcraft-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleRequest = Request{
	Purpose:     "intro",
	SubjectLine: "hello",
	Recipients:  "bob@x.com",
	Senders:     "a@x.com",
	MaxLength:   100,
	Tone:        models.ToneProfessional,
}

var fastRetry = RetryPolicy{MaxRetries: 2, InitialBackoff: time.Millisecond}

func TestHTTPGenerator_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var got Request
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, sampleRequest, got)

		_ = json.NewEncoder(w).Encode(map[string]string{"email": "Dear Bob,"})
	}))
	defer srv.Close()

	g := NewHTTPGenerator(srv.URL, time.Second, WithHTTPRetry(fastRetry))
	email, err := g.Generate(context.Background(), sampleRequest)
	require.NoError(t, err)
	assert.Equal(t, "Dear Bob,", email)
}

func TestHTTPGenerator_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"email": "third time"})
	}))
	defer srv.Close()

	g := NewHTTPGenerator(srv.URL, time.Second, WithHTTPRetry(fastRetry))
	email, err := g.Generate(context.Background(), sampleRequest)
	require.NoError(t, err)
	assert.Equal(t, "third time", email)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPGenerator_GivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	g := NewHTTPGenerator(srv.URL, time.Second, WithHTTPRetry(fastRetry))
	_, err := g.Generate(context.Background(), sampleRequest)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPGenerator_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	g := NewHTTPGenerator(srv.URL, time.Second, WithHTTPRetry(fastRetry))
	_, err := g.Generate(context.Background(), sampleRequest)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPGenerator_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	}))
	defer srv.Close()

	g := NewHTTPGenerator(srv.URL, time.Second, WithHTTPRetry(fastRetry))
	_, err := g.Generate(context.Background(), sampleRequest)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestHTTPGenerator_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	g := NewHTTPGenerator(url, 100*time.Millisecond, WithHTTPRetry(RetryPolicy{MaxRetries: 0}))
	_, err := g.Generate(context.Background(), sampleRequest)
	assert.ErrorIs(t, err, ErrUpstream)
}
