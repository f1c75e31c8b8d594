package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/application/ports"
	"github.com/jhoicas/facturacion-api/pkg/logger"
)

// Verificar en tiempo de compilación que AnthropicService implementa LLMService.
var _ ports.LLMService = (*AnthropicService)(nil)

const (
	anthropicMessagesURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion     = "2023-06-01"
)

// AnthropicService adaptador que implementa LLMService con la API REST de Anthropic (Claude).
// Los 429 y 5xx se reintentan con backoff; el contexto del caso de uso acota el total.
type AnthropicService struct {
	apiKey string
	model  string
	url    string
	client *retryablehttp.Client
}

// NewAnthropicService construye el adaptador. Si apiKey está vacío las llamadas
// devuelven un error descriptivo en lugar de fallar al arrancar.
func NewAnthropicService(apiKey, model string, log *logger.Logger) *AnthropicService {
	c := retryablehttp.NewClient()
	c.RetryMax = 2
	c.RetryWaitMin = 300 * time.Millisecond
	c.RetryWaitMax = 2 * time.Second
	c.HTTPClient.Timeout = 25 * time.Second
	c.Logger = leveledLogger{log: log.Component("anthropic")}

	return &AnthropicService{
		apiKey: apiKey,
		model:  model,
		url:    anthropicMessagesURL,
		client: c,
	}
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string           `json:"role"`
	Content []anthropicBlock `json:"content"`
}

type anthropicBlock struct {
	Type   string           `json:"type"`
	Text   string           `json:"text,omitempty"`
	Source *anthropicSource `json:"source,omitempty"`
}

type anthropicSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// ExtractInvoiceDraft envía el texto o la imagen a Claude y parsea el JSON devuelto.
func (s *AnthropicService) ExtractInvoiceDraft(ctx context.Context, src ports.DraftSource) (*dto.InvoiceDraftDTO, error) {
	if s.apiKey == "" {
		return nil, errors.New("AI: ANTHROPIC_API_KEY no configurado")
	}

	blocks := make([]anthropicBlock, 0, 2)
	if len(src.Image) > 0 {
		blocks = append(blocks, anthropicBlock{
			Type: "image",
			Source: &anthropicSource{
				Type:      "base64",
				MediaType: src.MediaType,
				Data:      base64.StdEncoding.EncodeToString(src.Image),
			},
		})
	}
	blocks = append(blocks, anthropicBlock{Type: "text", Text: userPrompt(src.Text, len(src.Image) > 0)})

	body, err := json.Marshal(anthropicRequest{
		Model:     s.model,
		MaxTokens: 2048,
		System:    draftSystemPrompt,
		Messages:  []anthropicMessage{{Role: "user", Content: blocks}},
	})
	if err != nil {
		return nil, errors.Wrap(err, "AI: serializar request")
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, s.url, body)
	if err != nil {
		return nil, errors.Wrap(err, "AI: crear HTTP request")
	}
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("content-type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(ctx.Err(), "AI: timeout o cancelación")
		}
		return nil, errors.Wrap(err, "AI: llamada HTTP fallida")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 256*1024))
	if err != nil {
		return nil, errors.Wrap(err, "AI: leer respuesta")
	}

	var out anthropicResponse
	if resp.StatusCode != http.StatusOK {
		if json.Unmarshal(raw, &out) == nil && out.Error != nil {
			return nil, errors.Newf("AI: Anthropic error (%s): %s", out.Error.Type, out.Error.Message)
		}
		return nil, errors.Newf("AI: Anthropic HTTP %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errors.Wrap(err, "AI: deserializar respuesta Anthropic")
	}
	for _, c := range out.Content {
		if c.Type == "text" && c.Text != "" {
			return parseDraft(c.Text)
		}
	}
	return nil, errors.New("AI: Claude devolvió respuesta vacía")
}

// leveledLogger adapta el logger de la app a retryablehttp.LeveledLogger.
type leveledLogger struct {
	log *logger.Logger
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.log.Error().Fields(kv).Msg(msg) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.log.Debug().Fields(kv).Msg(msg) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.log.Trace().Fields(kv).Msg(msg) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.log.Warn().Fields(kv).Msg(msg) }
