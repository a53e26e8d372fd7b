package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// GeneratedQuiz is what the AI endpoint must hand back.
type GeneratedQuiz struct {
	Question      string   `json:"question"`
	CorrectAnswer string   `json:"correct_answer"`
	Answers       []string `json:"answers"`
	HintLink      string   `json:"hint_link"`
	Explanation   string   `json:"explanation"`
}

// QuizGenerator lets tests stub out the Clova call.
type QuizGenerator interface {
	Generate(prompt string) (*GeneratedQuiz, error)
}

// ClovaClient asks HyperCLOVA to draft a quiz. The model is instructed
// to answer with a JSON object matching GeneratedQuiz.
type ClovaClient struct {
	APIURL string
	APIKey string
	Client *http.Client
}

func NewClovaClient(apiURL, apiKey string) *ClovaClient {
	return &ClovaClient{
		APIURL: apiURL,
		APIKey: apiKey,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *ClovaClient) Generate(prompt string) (*GeneratedQuiz, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("clova api key not configured")
	}

	reqBody := map[string]interface{}{
		"messages": []map[string]string{
			{"role": "system", "content": "You write bicycle-safety quizzes. Reply with a single JSON object with keys question, correct_answer, answers, hint_link, explanation."},
			{"role": "user", "content": prompt},
		},
	}
	jsonData, _ := json.Marshal(reqBody)

	req, err := http.NewRequest(http.MethodPost, c.APIURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("clova returned %d", resp.StatusCode)
	}

	var out struct {
		Result struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("malformed clova response: %w", err)
	}

	var quiz GeneratedQuiz
	if err := json.Unmarshal([]byte(out.Result.Message.Content), &quiz); err != nil {
		return nil, fmt.Errorf("clova content is not a quiz object: %w", err)
	}
	if quiz.Question == "" || quiz.CorrectAnswer == "" {
		return nil, fmt.Errorf("clova quiz missing question or answer")
	}
	return &quiz, nil
}
