package service

import (
	"context"
	"fmt"

	"quizentia_backend/internal/config"

	openai "github.com/sashabaranov/go-openai"
)

// quizPrompt is the fixed contract with the generation model. The response
// must be bare JSON; parse failures are handled per-article by callers.
const quizPrompt = `
You are an expert quiz creator.

You will receive an article.
Generate EXACTLY 10 multiple-choice questions.

Rules:
- Each question must have 4 options
- Only one correct answer
- Jumble the options so the correct answer is not always in the same position. Make it unpredictable.
- Provide a short helpful hint
- Questions must be factual and based only on the article
- Generate an interesting quiz title based on article content
- Output must be in JSON format as specified below
- Output MUST be valid JSON
{
  "title": "string",
  "questions": [
    {
      "question": "string",
      "options": ["A", "B", "C", "D"],
      "correct_answer": "one of the options",
      "hint": "string"
    }
  ]
}

- DO NOT use the word "answer".
- DO NOT add explanations.
- DO NOT wrap in markdown.
- DO NOT include explanations or markdown
- DO NOT reference the article in anyway in the question, just mention in the recent case of xyz case or in the judgement of xyz case
`

// GenerationService calls the chat-completion model with the fixed quiz
// prompt.
type GenerationService struct {
	client *openai.Client
	model  string
}

func NewGenerationService(cfg config.OpenAIConfig) *GenerationService {
	return &GenerationService{
		client: openai.NewClient(cfg.APIKey),
		model:  cfg.Model,
	}
}

func (s *GenerationService) GenerateQuiz(ctx context.Context, articleText string) (string, error) {
	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: quizPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: articleText,
				},
			},
			Temperature: 0.4,
		},
	)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("generation returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
