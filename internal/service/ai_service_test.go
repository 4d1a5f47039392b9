package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"quizforge_backend/internal/config"
	"quizforge_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validGeneratedQuiz() *GeneratedQuiz {
	return &GeneratedQuiz{
		Title:       "Go Basics",
		Description: "A quiz about Go",
		Questions: []GeneratedQuestion{
			{
				ID:            5, // AI 返回的序号不可信，校验后重排
				Text:          "Which keyword declares a variable?",
				Options:       []string{"var", "let", "def", "dim"},
				CorrectAnswer: "var",
				Explanation:   "var declares a variable.",
			},
			{
				ID:            1,
				Text:          "Which type is a slice?",
				Options:       []string{"[]int", "[4]int"},
				CorrectAnswer: "[]int",
			},
		},
	}
}

func TestValidateGeneratedQuizOK(t *testing.T) {
	quiz := validGeneratedQuiz()
	require.NoError(t, ValidateGeneratedQuiz(quiz))

	// 序号重排为 1..n
	assert.Equal(t, 1, quiz.Questions[0].ID)
	assert.Equal(t, 2, quiz.Questions[1].ID)
}

func TestValidateGeneratedQuizRejectsMalformed(t *testing.T) {
	noTitle := validGeneratedQuiz()
	noTitle.Title = ""
	assert.ErrorIs(t, ValidateGeneratedQuiz(noTitle), util.ErrMalformedQuiz)

	noQuestions := validGeneratedQuiz()
	noQuestions.Questions = nil
	assert.ErrorIs(t, ValidateGeneratedQuiz(noQuestions), util.ErrMalformedQuiz)

	blankText := validGeneratedQuiz()
	blankText.Questions[0].Text = "   "
	assert.ErrorIs(t, ValidateGeneratedQuiz(blankText), util.ErrMalformedQuiz)

	oneOption := validGeneratedQuiz()
	oneOption.Questions[0].Options = []string{"var"}
	assert.ErrorIs(t, ValidateGeneratedQuiz(oneOption), util.ErrMalformedQuiz)
}

func TestValidateGeneratedQuizRejectsAnswerOutsideOptions(t *testing.T) {
	quiz := validGeneratedQuiz()
	quiz.Questions[1].CorrectAnswer = "map[int]int"

	assert.ErrorIs(t, ValidateGeneratedQuiz(quiz), util.ErrMalformedQuiz)
}

func TestParseGeneratedQuiz(t *testing.T) {
	data := []byte(`{
		"title": "Capitals",
		"description": "European capitals",
		"questions": [
			{
				"id": 1,
				"text": "What is the capital of France?",
				"options": ["Paris", "Lyon", "Nice", "Lille"],
				"correctAnswer": "Paris",
				"explanation": "Paris is the capital of France."
			}
		]
	}`)

	quiz, err := ParseGeneratedQuiz(data)

	require.NoError(t, err)
	assert.Equal(t, "Capitals", quiz.Title)
	require.Len(t, quiz.Questions, 1)
	assert.Equal(t, "Paris", quiz.Questions[0].CorrectAnswer)
}

func TestParseGeneratedQuizInvalidJSON(t *testing.T) {
	_, err := ParseGeneratedQuiz([]byte("not json at all"))
	assert.ErrorIs(t, err, util.ErrMalformedQuiz)
}

// 热重载配置和正在处理的生成请求并发执行，go test -race 下必须干净
func TestUpdateConfigConcurrentWithGeneration(t *testing.T) {
	content, err := json.Marshal(validGeneratedQuiz())
	require.NoError(t, err)
	respBody, err := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": string(content)}},
		},
	})
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(respBody)
	}))
	defer srv.Close()

	svc := NewAIService(config.AIConfig{
		BaseURL:     srv.URL,
		APIKey:      "key-a",
		Model:       "model-a",
		MaxTokens:   100,
		Temperature: 0.5,
	})
	updated := config.AIConfig{
		BaseURL:     srv.URL,
		APIKey:      "key-b",
		Model:       "model-b",
		MaxTokens:   200,
		Temperature: 0.6,
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				svc.UpdateConfig(updated)
				return
			}
			quiz, _, err := svc.GenerateQuiz(context.Background(), "history", "easy", 1)
			assert.NoError(t, err)
			assert.NotNil(t, quiz)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, "model-b", svc.Model())
}

func TestBuildQuizPromptContainsParameters(t *testing.T) {
	prompt, seed := buildQuizPrompt("World History", "hard", 7)

	assert.Contains(t, prompt, "World History")
	assert.Contains(t, prompt, "hard")
	assert.Contains(t, prompt, "7 questions")
	assert.GreaterOrEqual(t, seed, 0)
}
