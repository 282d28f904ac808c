package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"farmertwin/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeOpenAI(t *testing.T, handler func(t *testing.T, req map[string]any) (int, string)) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		status, body := handler(t, req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	return NewOpenAIClient("test-key", srv.URL+"/v1", "gpt-4o-mini", 5*time.Second)
}

func completion(content string) string {
	b, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	return string(b)
}

func TestOpenAIComplete(t *testing.T) {
	client := newFakeOpenAI(t, func(t *testing.T, req map[string]any) (int, string) {
		assert.Equal(t, "gpt-4o-mini", req["model"])
		assert.InDelta(t, 0.3, req["temperature"], 1e-6)
		assert.Equal(t, map[string]any{"type": "json_object"}, req["response_format"])

		msgs := req["messages"].([]any)
		require.Len(t, msgs, 2)
		assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
		assert.Equal(t, "be brief", msgs[0].(map[string]any)["content"])
		assert.Equal(t, "hello", msgs[1].(map[string]any)["content"])

		return http.StatusOK, completion("  {\"ok\":true}\n")
	})

	out, err := client.Complete(context.Background(), ChatRequest{
		System:      "be brief",
		User:        "hello",
		Temperature: 0.3,
		JSON:        true,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, out)
}

func TestOpenAICompleteWithImage(t *testing.T) {
	client := newFakeOpenAI(t, func(t *testing.T, req map[string]any) (int, string) {
		assert.EqualValues(t, 1000, req["max_tokens"])
		assert.Nil(t, req["response_format"])

		user := req["messages"].([]any)[1].(map[string]any)
		parts := user["content"].([]any)
		require.Len(t, parts, 2)
		assert.Equal(t, "text", parts[0].(map[string]any)["type"])
		image := parts[1].(map[string]any)
		assert.Equal(t, "image_url", image["type"])
		assert.Equal(t, "data:image/png;base64,AAAA", image["image_url"].(map[string]any)["url"])

		return http.StatusOK, completion("leaf blight")
	})

	out, err := client.Complete(context.Background(), ChatRequest{
		System:       "agronomist",
		User:         "what is wrong",
		ImageDataURL: "data:image/png;base64,AAAA",
		MaxTokens:    1000,
	})
	require.NoError(t, err)
	assert.Equal(t, "leaf blight", out)
}

func TestOpenAICompleteErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			name:    "insufficient quota",
			status:  http.StatusTooManyRequests,
			body:    `{"error":{"message":"You exceeded your current quota","type":"insufficient_quota","code":"insufficient_quota"}}`,
			wantErr: utils.ErrQuotaExceeded,
		},
		{
			name:    "quota named in message",
			status:  http.StatusForbidden,
			body:    `{"error":{"message":"Quota exhausted for this key","type":"billing"}}`,
			wantErr: utils.ErrQuotaExceeded,
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    `{"error":{"message":"The server had an error","type":"server_error"}}`,
			wantErr: utils.ErrUpstream,
		},
		{
			name:    "no choices",
			status:  http.StatusOK,
			body:    `{"id":"x","object":"chat.completion","choices":[]}`,
			wantErr: utils.ErrUpstream,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newFakeOpenAI(t, func(t *testing.T, req map[string]any) (int, string) {
				return tt.status, tt.body
			})
			_, err := client.Complete(context.Background(), ChatRequest{System: "s", User: "u"})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
