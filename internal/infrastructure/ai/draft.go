package ai

import (
	"encoding/json"
	"math"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturacion-api/internal/application/dto"
)

// draftSystemPrompt instrucciones comunes a todos los proveedores.
const draftSystemPrompt = `Eres un asistente de facturación. Recibes un pedido, una cotización o la foto de un recibo
y devuelves ÚNICAMENTE un objeto JSON (sin markdown, sin texto adicional) con esta estructura exacta:
{
  "customer_name": "<nombre del cliente o vacío>",
  "items": [
    {"description": "<texto>", "sku": "<código si aparece>", "quantity": <entero>, "unit_price": <número>, "tax_rate": <porcentaje>}
  ],
  "notes": "<observaciones breves o vacío>",
  "confidence": <número entre 0.0 y 1.0>
}

Reglas:
- Una entrada en items por cada producto o servicio distinto.
- quantity entera y positiva; si no se indica usa 1.
- unit_price y tax_rate en 0 cuando no aparecen; no inventes precios.
- No incluyas texto fuera del JSON.`

// jsonBlockRe extrae el primer objeto JSON del texto aunque el modelo lo envuelva en markdown.
var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

type draftPayload struct {
	CustomerName string `json:"customer_name"`
	Items        []struct {
		Description string  `json:"description"`
		SKU         string  `json:"sku"`
		Quantity    float64 `json:"quantity"`
		UnitPrice   float64 `json:"unit_price"`
		TaxRate     float64 `json:"tax_rate"`
	} `json:"items"`
	Notes      string  `json:"notes"`
	Confidence float64 `json:"confidence"`
}

// parseDraft convierte la respuesta del modelo en un borrador. Descarta líneas sin descripción.
func parseDraft(raw string) (*dto.InvoiceDraftDTO, error) {
	clean := extractJSON(raw)
	if clean == "" {
		return nil, errors.Newf("AI: no se encontró JSON en la respuesta del modelo: %q", truncate(raw, 200))
	}
	var p draftPayload
	if err := json.Unmarshal([]byte(clean), &p); err != nil {
		return nil, errors.Wrapf(err, "AI: parsear borrador (JSON extraído: %s)", truncate(clean, 200))
	}

	out := &dto.InvoiceDraftDTO{
		CustomerName: strings.TrimSpace(p.CustomerName),
		Notes:        strings.TrimSpace(p.Notes),
		Confidence:   math.Min(math.Max(p.Confidence, 0), 1),
		Items:        make([]dto.InvoiceDraftItem, 0, len(p.Items)),
	}
	for _, it := range p.Items {
		desc := strings.TrimSpace(it.Description)
		if desc == "" {
			continue
		}
		out.Items = append(out.Items, dto.InvoiceDraftItem{
			Description: desc,
			SKU:         strings.TrimSpace(it.SKU),
			Quantity:    int(math.Round(it.Quantity)),
			UnitPrice:   decimal.NewFromFloat(lo.Max([]float64{it.UnitPrice, 0})).Round(2),
			TaxRate:     decimal.NewFromFloat(lo.Clamp(it.TaxRate, 0, 100)).Round(2),
		})
	}
	return out, nil
}

// extractJSON quita los bloques ```json``` y devuelve el primer {...} del texto.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx != -1 {
		after := text[idx+3:]
		if nl := strings.Index(after, "\n"); nl != -1 {
			after = after[nl+1:]
		}
		if end := strings.LastIndex(after, "```"); end != -1 {
			after = after[:end]
		}
		text = strings.TrimSpace(after)
	}
	if strings.HasPrefix(text, "{") {
		return text
	}
	return strings.TrimSpace(jsonBlockRe.FindString(text))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// userPrompt texto que acompaña al material del usuario.
func userPrompt(text string, hasImage bool) string {
	switch {
	case text != "" && hasImage:
		return "Extrae el borrador de factura de la imagen adjunta. Indicaciones del usuario:\n" + text
	case hasImage:
		return "Extrae el borrador de factura de la imagen adjunta."
	default:
		return "Extrae el borrador de factura de este pedido:\n" + text
	}
}
