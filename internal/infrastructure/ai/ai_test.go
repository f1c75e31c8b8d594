package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-api/internal/application/ports"
	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/pkg/logger"
)

const sampleDraft = `{"customer_name":" Panadería Sol ","items":[` +
	`{"description":"Harina 50kg","sku":"HAR-50","quantity":2,"unit_price":31.456,"tax_rate":19},` +
	`{"description":"  ","quantity":1},` +
	`{"description":"Levadura","quantity":0.6,"unit_price":-3,"tax_rate":150}],` +
	`"notes":"entregar el lunes","confidence":1.4}`

func TestParseDraft(t *testing.T) {
	d, err := parseDraft("Claro, aquí está:\n```json\n" + sampleDraft + "\n```")
	require.NoError(t, err)

	assert.Equal(t, "Panadería Sol", d.CustomerName)
	assert.Equal(t, "entregar el lunes", d.Notes)
	assert.Equal(t, 1.0, d.Confidence)
	require.Len(t, d.Items, 2)

	assert.Equal(t, "HAR-50", d.Items[0].SKU)
	assert.Equal(t, 2, d.Items[0].Quantity)
	assert.Equal(t, "31.46", d.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "19", d.Items[0].TaxRate.String())

	assert.Equal(t, 1, d.Items[1].Quantity)
	assert.True(t, d.Items[1].UnitPrice.IsZero())
	assert.Equal(t, "100", d.Items[1].TaxRate.String())
}

func TestParseDraft_SinJSON(t *testing.T) {
	_, err := parseDraft("no puedo ayudar con eso")
	assert.Error(t, err)
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSON(`{"a":1}`))
	assert.Equal(t, `{"a":1}`, extractJSON("texto {\"a\":1} más"))
	assert.Equal(t, "", extractJSON("nada"))
}

func TestAnthropicService_ExtractInvoiceDraft(t *testing.T) {
	var got anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "clave", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"type": "text", "text": sampleDraft}},
		})
	}))
	defer srv.Close()

	s := NewAnthropicService("clave", "claude-test", logger.Nop())
	s.url = srv.URL

	d, err := s.ExtractInvoiceDraft(context.Background(), ports.DraftSource{
		Text:      "2 bultos de harina",
		Image:     []byte{0x89, 0x50, 0x4e, 0x47},
		MediaType: "image/png",
	})
	require.NoError(t, err)
	assert.Len(t, d.Items, 2)

	assert.Equal(t, "claude-test", got.Model)
	require.Len(t, got.Messages, 1)
	blocks := got.Messages[0].Content
	require.Len(t, blocks, 2)
	assert.Equal(t, "image", blocks[0].Type)
	assert.Equal(t, "image/png", blocks[0].Source.MediaType)
	assert.Equal(t, "text", blocks[1].Type)
	assert.Contains(t, blocks[1].Text, "2 bultos de harina")
}

func TestAnthropicService_ErrorDeAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"modelo inválido"}}`))
	}))
	defer srv.Close()

	s := NewAnthropicService("clave", "x", logger.Nop())
	s.url = srv.URL
	_, err := s.ExtractInvoiceDraft(context.Background(), ports.DraftSource{Text: "hola"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "modelo inválido")
}

func TestAnthropicService_SinClave(t *testing.T) {
	_, err := NewAnthropicService("", "x", logger.Nop()).ExtractInvoiceDraft(context.Background(), ports.DraftSource{Text: "hola"})
	assert.ErrorContains(t, err, "ANTHROPIC_API_KEY")
}

func TestOpenAIService_ExtractInvoiceDraft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer clave", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-test", req["model"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "gpt-test",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]string{"role": "assistant", "content": sampleDraft},
			}},
		})
	}))
	defer srv.Close()

	s := NewOpenAIService("clave", "gpt-test", srv.URL+"/v1")
	d, err := s.ExtractInvoiceDraft(context.Background(), ports.DraftSource{Text: "2 bultos de harina"})
	require.NoError(t, err)
	assert.Equal(t, "Panadería Sol", d.CustomerName)
	assert.Len(t, d.Items, 2)
}

func TestDisabledService(t *testing.T) {
	_, err := DisabledService{}.ExtractInvoiceDraft(context.Background(), ports.DraftSource{Text: "x"})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}
