// Package ai contiene los adaptadores del puerto TextEnhancementService:
// Gemini (REST con net/http) y OpenAI (SDK go-openai). Ambos comparten los
// prompts y la extracción tolerante de JSON de la respuesta del modelo.
package ai

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jhoicas/Facturador-api/internal/domain"
)

const (
	// enhanceSystemPrompt instruye al modelo a devolver un array JSON con un
	// objeto por cada descripción original, en el mismo orden.
	enhanceSystemPrompt = `Eres un asistente que mejora las descripciones de línea de una factura.

Recibirás una lista de descripciones. Para cada una, evalúa si es demasiado
corta, vaga o usa jerga interna que el destinatario no entendería.

- Si la descripción ya es clara y suficientemente detallada, devuélvela tal cual.
- Si no, reescríbela para que sea más descriptiva y profesional, en el mismo
  idioma de la descripción original.

Devuelve ÚNICAMENTE un array JSON (sin markdown, sin texto adicional) con un
objeto por cada descripción original, EN EL MISMO ORDEN y con la MISMA cantidad
de elementos que la entrada:
[
  {"enhancedDescription": "<descripción mejorada o la original sin cambios>"}
]`

	// reformatSystemPrompt instruye al modelo a normalizar la factura para
	// impresión y devolver el objeto factura como JSON puro. Puede devolver
	// solo los campos que normalizó: el merge es parcial.
	reformatSystemPrompt = `Eres un asistente que reformatea datos de factura para una impresión óptima.

Recibirás una factura serializada como JSON. Normalízala siguiendo estas guías:
- Estandariza los formatos de fecha a YYYY-MM-DD.
- Usa etiquetas claras y completas (por ejemplo "Invoice Number" en vez de "Inv#").
- Verifica que los valores numéricos tengan los decimales apropiados.
- Estructura las direcciones con saltos de línea para calle, ciudad y código postal.
- Da a las líneas un espaciado y alineación consistentes.

Devuelve ÚNICAMENTE un objeto JSON (sin markdown, sin texto adicional) con la
misma forma que la factura recibida. Puedes omitir los campos que no cambiaste.`
)

// jsonObjectRe y jsonArrayRe extraen el primer bloque JSON del texto aunque el
// modelo lo envuelva en markdown. Capturan del primer delimitador al último.
var (
	jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)
	jsonArrayRe  = regexp.MustCompile(`(?s)\[.*\]`)
)

// extractJSONObject devuelve el primer objeto JSON embebido en text.
func extractJSONObject(text string) (string, error) {
	if m := jsonObjectRe.FindString(strings.TrimSpace(text)); m != "" {
		return m, nil
	}
	return "", fmt.Errorf("%w: el modelo no devolvió un objeto JSON", domain.ErrGatewayResponse)
}

// extractJSONArray devuelve el primer array JSON embebido en text.
func extractJSONArray(text string) (string, error) {
	if m := jsonArrayRe.FindString(strings.TrimSpace(text)); m != "" {
		return m, nil
	}
	return "", fmt.Errorf("%w: el modelo no devolvió un array JSON", domain.ErrGatewayResponse)
}
