package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func chatServer(t *testing.T, status int, content string, capture *chatRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(capture))
		}
		w.WriteHeader(status)
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		}
		assert.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func TestGenerateAnswer(t *testing.T) {
	var captured chatRequest
	srv := chatServer(t, http.StatusOK, "  I have five years of experience.  ", &captured)
	defer srv.Close()

	client := NewLLMClient("openai", "test-key")
	client.baseURL = srv.URL

	answer, err := client.GenerateAnswer("Years of experience?", "resume text")
	assert.NoError(t, err)
	assert.Equal(t, "I have five years of experience.", answer)

	assert.Equal(t, openAIModel, captured.Model)
	if assert.Len(t, captured.Messages, 2) {
		assert.Equal(t, "system", captured.Messages[0].Role)
		assert.Contains(t, captured.Messages[1].Content, "Resume:\nresume text")
		assert.Contains(t, captured.Messages[1].Content, "Years of experience?")
	}
}

func TestGenerateAnswer_GroqModel(t *testing.T) {
	var captured chatRequest
	srv := chatServer(t, http.StatusOK, "answer", &captured)
	defer srv.Close()

	client := NewLLMClient("Groq", "test-key")
	client.baseURL = srv.URL

	_, err := client.GenerateAnswer("question", "resume")
	assert.NoError(t, err)
	assert.Equal(t, groqModel, captured.Model)
}

func TestGenerateAnswer_MissingInputs(t *testing.T) {
	client := NewLLMClient("openai", "")
	_, err := client.GenerateAnswer("question", "resume")
	assert.Error(t, err)

	client = NewLLMClient("openai", "key")
	_, err = client.GenerateAnswer("question", "   ")
	assert.Error(t, err)
}

func TestGenerateAnswer_EmptyCompletion(t *testing.T) {
	srv := chatServer(t, http.StatusOK, "   ", nil)
	defer srv.Close()

	client := NewLLMClient("openai", "key")
	client.baseURL = srv.URL

	_, err := client.GenerateAnswer("question", "resume")
	assert.Error(t, err)
}

func TestGenerateAnswer_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Incorrect API key provided"}}`))
	}))
	defer srv.Close()

	client := NewLLMClient("openai", "bad-key")
	client.baseURL = srv.URL

	_, err := client.GenerateAnswer("question", "resume")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Incorrect API key provided")
}

func TestClassifyFields(t *testing.T) {
	srv := chatServer(t, http.StatusOK, `["PREFILLED","AI_ANSWER","PREFILLED"]`, nil)
	defer srv.Close()

	client := NewLLMClient("openai", "key")
	client.baseURL = srv.URL

	cls, err := client.ClassifyFields([]string{"First Name", "Why join us?", "Email"})
	assert.NoError(t, err)
	assert.Equal(t, []string{ClassPrefilled, ClassAIAnswer, ClassPrefilled}, cls)
}

func TestClassifyFields_Empty(t *testing.T) {
	client := NewLLMClient("openai", "key")
	cls, err := client.ClassifyFields(nil)
	assert.NoError(t, err)
	assert.Empty(t, cls)
}

func TestParseClassifications(t *testing.T) {
	// Clean JSON array.
	assert.Equal(t,
		[]string{ClassPrefilled, ClassAIAnswer},
		parseClassifications(`["PREFILLED","AI_ANSWER"]`, 2))

	// Array wrapped in prose.
	assert.Equal(t,
		[]string{ClassAIAnswer, ClassPrefilled},
		parseClassifications("Here you go:\n[\"ai_answer\",\"prefilled\"]\nDone.", 2))

	// Unknown values normalize to PREFILLED.
	assert.Equal(t,
		[]string{ClassPrefilled},
		parseClassifications(`["MAYBE"]`, 1))

	// Wrong length falls back to per-line scanning.
	assert.Equal(t,
		[]string{ClassPrefilled, ClassAIAnswer},
		parseClassifications("0: PREFILLED\n1: AI_ANSWER", 2))

	// Unparseable output defaults everything to PREFILLED.
	assert.Equal(t,
		[]string{ClassPrefilled, ClassPrefilled},
		parseClassifications("no usable output", 2))
}
