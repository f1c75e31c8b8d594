package ai

import (
	"context"
	"encoding/base64"

	"github.com/cockroachdb/errors"
	"github.com/sashabaranov/go-openai"

	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/application/ports"
)

var _ ports.LLMService = (*OpenAIService)(nil)

// OpenAIService adaptador de LLMService sobre la API de chat de OpenAI.
type OpenAIService struct {
	client *openai.Client
	model  string
}

// NewOpenAIService construye el adaptador. baseURL vacío usa la API pública.
func NewOpenAIService(apiKey, model, baseURL string) *OpenAIService {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIService{client: openai.NewClientWithConfig(cfg), model: model}
}

// ExtractInvoiceDraft pide al modelo un objeto JSON y lo convierte en borrador.
func (s *OpenAIService) ExtractInvoiceDraft(ctx context.Context, src ports.DraftSource) (*dto.InvoiceDraftDTO, error) {
	user := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	prompt := userPrompt(src.Text, len(src.Image) > 0)
	if len(src.Image) > 0 {
		user.MultiContent = []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: prompt},
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    "data:" + src.MediaType + ";base64," + base64.StdEncoding.EncodeToString(src.Image),
					Detail: openai.ImageURLDetailAuto,
				},
			},
		}
	} else {
		user.Content = prompt
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: draftSystemPrompt},
			user,
		},
		Temperature:    0.1,
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(ctx.Err(), "AI: timeout o cancelación")
		}
		return nil, errors.Wrap(err, "AI: OpenAI chat completion")
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("AI: OpenAI devolvió respuesta vacía")
	}
	return parseDraft(resp.Choices[0].Message.Content)
}
