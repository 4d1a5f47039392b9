package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"quizforge_backend/internal/config"
	"quizforge_backend/internal/util"
	"strings"
	"sync"
	"time"
)

// AIService 调用 OpenAI 兼容接口生成测验内容和配图。
// 配置会被 configwatcher 在独立协程里热更新，读写都要走锁。
type AIService struct {
	mu     sync.RWMutex
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		config: cfg,
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

// UpdateConfig 配置热更新入口（configwatcher 回调里调用）
func (s *AIService) UpdateConfig(cfg config.AIConfig) {
	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()
}

// snapshot 取当前配置的一份拷贝。每次请求开头取一次，
// 保证单个请求内的 BaseURL/APIKey/Model 来自同一版本配置。
func (s *AIService) snapshot() config.AIConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// Model 当前使用的文本模型名
func (s *AIService) Model() string {
	return s.snapshot().Model
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []AIChatMessage `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Temperature    float64         `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type imageGenerationRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format"`
}

type imageGenerationResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
		URL     string `json:"url"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GeneratedQuestion AI 返回的单题，id 为卷内 1 起始序号
type GeneratedQuestion struct {
	ID            int      `json:"id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// GeneratedQuiz AI 返回的整卷骨架
type GeneratedQuiz struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Questions   []GeneratedQuestion `json:"questions"`
}

func buildQuizPrompt(topic string, difficulty string, numQuestions int) (string, int) {
	seed := rand.Intn(1000000)

	prompt := fmt.Sprintf(`Generate a %s difficulty quiz about %s with %d questions.
Random seed for variety: %d

For each question, provide:
1. The question text
2. Four multiple choice options
3. The correct answer (must be the exact text of one of the options)
4. A brief explanation of why the answer is correct

Format the response as a JSON object with the following structure:
{
    "title": "string",
    "description": "string",
    "questions": [
        {
            "id": number,
            "text": "string",
            "options": ["string", "string", "string", "string"],
            "correctAnswer": "string",
            "explanation": "string"
        }
    ]
}

Ensure the questions are challenging but fair, and the explanations are clear and educational.`,
		difficulty, topic, numQuestions, seed)

	return prompt, seed
}

// GenerateQuiz 生成整卷内容。返回的骨架已通过 ValidateGeneratedQuiz 校验，
// 上游失败或内容不合法时不返回部分结果。
func (s *AIService) GenerateQuiz(ctx context.Context, topic string, difficulty string, numQuestions int) (*GeneratedQuiz, int, error) {
	cfg := s.snapshot()
	prompt, seed := buildQuizPrompt(topic, difficulty, numQuestions)

	reqBody := chatCompletionRequest{
		Model: cfg.Model,
		Messages: []AIChatMessage{
			{
				Role:    "system",
				Content: "You are an expert quiz generator. Generate educational and engaging quiz questions.",
			},
			{
				Role:    "user",
				Content: prompt,
			},
		},
		MaxTokens:      cfg.MaxTokens,
		Temperature:    cfg.Temperature,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", cfg.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, 0, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, 0, err
	}

	if len(result.Choices) == 0 {
		return nil, 0, fmt.Errorf("AI returned no choices")
	}

	quiz, err := ParseGeneratedQuiz([]byte(result.Choices[0].Message.Content))
	if err != nil {
		return nil, 0, err
	}

	return quiz, seed, nil
}

// ParseGeneratedQuiz 解析并校验 AI 返回的整卷 JSON
func ParseGeneratedQuiz(data []byte) (*GeneratedQuiz, error) {
	var quiz GeneratedQuiz
	if err := json.Unmarshal(data, &quiz); err != nil {
		return nil, util.ErrMalformedQuiz
	}
	if err := ValidateGeneratedQuiz(&quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}

// ValidateGeneratedQuiz 写入前校验：每题必须有题干、至少两个选项，
// 且 correctAnswer 是选项之一。不合法的整卷直接拒绝，不做静默修正。
// 题目序号统一重排为 1..n，不信任 AI 返回的 id。
func ValidateGeneratedQuiz(quiz *GeneratedQuiz) error {
	if quiz.Title == "" || len(quiz.Questions) == 0 {
		return util.ErrMalformedQuiz
	}

	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		if strings.TrimSpace(q.Text) == "" || len(q.Options) < 2 {
			return util.ErrMalformedQuiz
		}

		found := false
		for _, opt := range q.Options {
			if opt == q.CorrectAnswer {
				found = true
				break
			}
		}
		if !found {
			return util.ErrMalformedQuiz
		}

		q.ID = i + 1
	}

	return nil
}

func buildImagePrompt(topic string) string {
	return fmt.Sprintf("Create a simple and realistic illustration about %s, designed for educational use in a quiz. "+
		"The image should be clean and minimal, with a light, friendly color palette. "+
		"Avoid any text or words or letters. Focus on clarity, simplicity, and fast rendering.", topic)
}

// GenerateImage 生成测验配图，返回图片二进制和 MIME 类型
func (s *AIService) GenerateImage(ctx context.Context, topic string) ([]byte, string, error) {
	cfg := s.snapshot()
	reqBody := imageGenerationRequest{
		Model:          cfg.ImageModel,
		Prompt:         buildImagePrompt(topic),
		N:              1,
		Size:           cfg.ImageSize,
		ResponseFormat: "b64_json",
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", cfg.BaseURL+"/images/generations", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("image API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result imageGenerationResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, "", err
	}

	if len(result.Data) == 0 {
		return nil, "", util.ErrImageFetch
	}

	// 优先 b64，部分网关只回 URL
	if result.Data[0].B64JSON != "" {
		data, err := base64.StdEncoding.DecodeString(result.Data[0].B64JSON)
		if err != nil {
			return nil, "", util.ErrImageFetch
		}
		return data, util.DetectImageType(data), nil
	}

	if result.Data[0].URL != "" {
		return s.fetchImage(ctx, result.Data[0].URL)
	}

	return nil, "", util.ErrImageFetch
}

func (s *AIService) fetchImage(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", util.ErrImageFetch
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" && !util.IsImage(ct) {
		return nil, "", util.ErrImageFetch
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}

	return data, util.DetectImageType(data), nil
}
