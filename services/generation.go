package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	openAIAPIURL = "https://api.openai.com/v1/chat/completions"
	openAIModel  = "gpt-4.1"
	groqAPIURL   = "https://api.groq.com/openai/v1/chat/completions"
	groqModel    = "llama-3.3-70b-versatile"
)

const answerSystemPrompt = `You are helping fill a job application form. Output ONLY the direct answer: a short value, number, or 1–3 sentence response based on the candidate's resume. Use first person ("I"). Do not make up facts. Never output meta-commentary like "It seems like you want...", "I will help you...", or "Here is...". Output only the requested data (e.g. a percentage, a name, or a brief answer).`

const classifySystemPrompt = `You classify job application form questions into two categories.

PREFILLED: Can be answered from  prefiled knowledge given.The following are the knowledge exaclty available: Name/FullName/First Name/Last Name,email,Phone Number,Gender,Roll Number,College/University Name,Branch/Stream in College,Years of Experience,CGPA,Age,Company Name,Current Role/Designation in the Company,Current Salary (CTC),LinkedIn Profile(url),1Oth:Board,Percentage,School,12th:Board,Percentage,School

AI_ANSWER: Needs generated text from the resume (paragraph or multiple sentences). Examples: "Tell about experience in your current company and project and tech stack", "Describe a challenge", "Why do you want to join", "Cover letter", "Tell us about yourself", "Project you worked on", "Explain your role", motivations, accomplishments.

Output ONLY a JSON array of the same length as the input, with each element either "PREFILLED" or "AI_ANSWER". No other text. Example: ["PREFILLED","AI_ANSWER","PREFILLED"]`

// Field classifications returned by ClassifyFields.
const (
	ClassPrefilled = "PREFILLED"
	ClassAIAnswer  = "AI_ANSWER"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// LLMClient calls the OpenAI or Groq chat-completions API. Both speak the
// same wire format, so the provider only picks URL and model.
type LLMClient struct {
	provider string
	apiKey   string
	baseURL  string
	client   *http.Client
}

func NewLLMClient(provider, apiKey string) *LLMClient {
	c := &LLMClient{
		provider: strings.ToLower(strings.TrimSpace(provider)),
		apiKey:   strings.TrimSpace(apiKey),
		client:   &http.Client{},
	}
	if c.provider == "groq" {
		c.baseURL = groqAPIURL
	} else {
		c.baseURL = openAIAPIURL
	}
	return c
}

func (c *LLMClient) model() string {
	if c.provider == "groq" {
		return groqModel
	}
	return openAIModel
}

func (c *LLMClient) chat(messages []chatMessage, temperature float64) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("API key not set")
	}

	body, err := json.Marshal(chatRequest{
		Model:       c.model(),
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   500,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", c.baseURL, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		var apiErr chatResponse
		if json.Unmarshal(b, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("API error %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("API error %d", resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", err
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return chatResp.Choices[0].Message.Content, nil
}

// GenerateAnswer produces a short first-person answer to a form question,
// grounded in the candidate's resume text.
func (c *LLMClient) GenerateAnswer(question, resume string) (string, error) {
	if strings.TrimSpace(resume) == "" {
		return "", fmt.Errorf("resume not set")
	}

	userContent := fmt.Sprintf("Resume:\n%s\n\nForm question to answer:\n%s", resume, question)
	text, err := c.chat([]chatMessage{
		{Role: "system", Content: answerSystemPrompt},
		{Role: "user", Content: userContent},
	}, 0.3)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("empty response from API")
	}
	return text, nil
}

// ClassifyFields labels each field question PREFILLED or AI_ANSWER in one
// batched call. The returned slice always has len(labels) entries.
func (c *LLMClient) ClassifyFields(labels []string) ([]string, error) {
	if len(labels) == 0 {
		return []string{}, nil
	}

	var sb strings.Builder
	sb.WriteString("Classify each of these form field questions (one per line, index in brackets):\n\n")
	for i, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			l = "(no label)"
		}
		fmt.Fprintf(&sb, "[%d] %s\n", i, l)
	}

	raw, err := c.chat([]chatMessage{
		{Role: "system", Content: classifySystemPrompt},
		{Role: "user", Content: sb.String()},
	}, 0.2)
	if err != nil {
		return nil, err
	}
	return parseClassifications(strings.TrimSpace(raw), len(labels)), nil
}

// parseClassifications extracts the JSON array from the model output; when
// parsing fails or the length is wrong it falls back to per-line scanning,
// defaulting each entry to PREFILLED.
func parseClassifications(raw string, n int) []string {
	var out []string

	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	jsonStr := raw
	if start >= 0 && end > start {
		jsonStr = raw[start : end+1]
	}
	var parsed []string
	if json.Unmarshal([]byte(jsonStr), &parsed) == nil {
		for _, c := range parsed {
			if strings.ToUpper(c) == ClassAIAnswer {
				out = append(out, ClassAIAnswer)
			} else {
				out = append(out, ClassPrefilled)
			}
		}
	}
	if len(out) == n {
		return out
	}

	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	out = make([]string, n)
	for i := range out {
		out[i] = ClassPrefilled
		if i < len(lines) && strings.Contains(strings.ToUpper(lines[i]), ClassAIAnswer) {
			out[i] = ClassAIAnswer
		}
	}
	return out
}
