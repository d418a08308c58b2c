package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	var gotReq generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(generateResponse{Response: "RSA基于大整数分解难题。", Done: true})
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL, Model: "qwen2.5:7b", KeepAlive: "5m"})

	out, err := c.Generate(context.Background(), "什么是RSA")
	require.NoError(t, err)
	assert.Equal(t, "RSA基于大整数分解难题。", out)

	assert.Equal(t, "qwen2.5:7b", gotReq.Model)
	assert.Equal(t, "什么是RSA", gotReq.Prompt)
	assert.False(t, gotReq.Stream)
	assert.Equal(t, "5m", gotReq.KeepAlive)
}

func TestGenerateAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(ollamaError{Error: "model 'missing' not found"})
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL, Model: "missing"})

	_, err := c.Generate(context.Background(), "你好")
	require.Error(t, err)

	var clientErr *ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, ErrTypeInvalidResponse, clientErr.Type)
	assert.Contains(t, clientErr.Message, "model 'missing' not found")
}

func TestGenerateConnectionRefused(t *testing.T) {
	c := NewClient(ClientConfig{BaseURL: "http://localhost:1", Model: "qwen2.5:7b"})

	_, err := c.Generate(context.Background(), "你好")
	require.Error(t, err)

	var clientErr *ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, ErrTypeNotRunning, clientErr.Type)
}

func TestCheckRunning(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Ollama is running"))
	}))
	defer srv.Close()

	assert.NoError(t, NewClient(ClientConfig{BaseURL: srv.URL}).CheckRunning(context.Background()))
	assert.Error(t, NewClient(ClientConfig{BaseURL: "http://localhost:1"}).CheckRunning(context.Background()))
}
