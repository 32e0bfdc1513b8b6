package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/Facturador-api/internal/application/dto"
	"github.com/jhoicas/Facturador-api/internal/application/ports"
)

// Verificar en tiempo de compilación que GeminiService implementa el puerto.
var _ ports.TextEnhancementService = (*GeminiService)(nil)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiService adaptador que implementa TextEnhancementService llamando a la
// API REST de Google Gemini. Usa únicamente net/http; response_mime_type
// application/json obliga al modelo a devolver JSON puro.
type GeminiService struct {
	apiKey     string
	model      string
	baseURL    string // sobreescribible en tests
	httpClient *http.Client
}

// NewGeminiService construye el adaptador. model suele ser "gemini-1.5-flash".
// Si apiKey está vacío, las llamadas devuelven error descriptivo en lugar de panic.
func NewGeminiService(apiKey, model string) *GeminiService {
	return &GeminiService{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultGeminiBaseURL,
		httpClient: &http.Client{
			Timeout: 40 * time.Second, // timeout de red; el caso de uso pone además WithTimeout
		},
	}
}

// ── Estructuras internas para la API de Gemini ────────────────────────────────

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  genConfig       `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type genConfig struct {
	ResponseMIMEType string  `json:"responseMimeType"` // "application/json" → JSON puro garantizado
	Temperature      float32 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// EnhanceDescriptions envía las descripciones al modelo y devuelve la secuencia
// mejorada en el mismo orden. La verificación de longitud la hace el caso de uso.
func (s *GeminiService) EnhanceDescriptions(ctx context.Context, inputs []dto.DescriptionInput) ([]dto.EnhancedDescription, error) {
	payload, err := json.Marshal(inputs)
	if err != nil {
		return nil, fmt.Errorf("AI: serializar descripciones: %w", err)
	}

	userText := fmt.Sprintf("Las descripciones de línea son:\n%s", payload)
	rawText, err := s.generate(ctx, enhanceSystemPrompt, userText)
	if err != nil {
		return nil, err
	}

	rawJSON, err := extractJSONArray(rawText)
	if err != nil {
		return nil, err
	}
	var enhanced []dto.EnhancedDescription
	if err := json.Unmarshal([]byte(rawJSON), &enhanced); err != nil {
		return nil, fmt.Errorf("AI: respuesta del modelo no es el array esperado: %w", err)
	}
	return enhanced, nil
}

// ReformatForPrint envía la factura serializada y devuelve el JSON reformateado
// (posiblemente parcial) que el store aplicará como parche.
func (s *GeminiService) ReformatForPrint(ctx context.Context, invoiceJSON string) (string, error) {
	userText := fmt.Sprintf("La factura a reformatear es:\n%s", invoiceJSON)
	rawText, err := s.generate(ctx, reformatSystemPrompt, userText)
	if err != nil {
		return "", err
	}
	return extractJSONObject(rawText)
}

// generate hace la llamada generateContent y devuelve el texto del primer candidato.
func (s *GeminiService) generate(ctx context.Context, systemPrompt, userText string) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("AI: GEMINI_API_KEY no configurado")
	}

	payload := geminiRequest{
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: systemPrompt}},
		},
		Contents: []geminiContent{
			{
				Role:  "user",
				Parts: []geminiPart{{Text: userText}},
			},
		},
		GenerationConfig: genConfig{
			ResponseMIMEType: "application/json",
			Temperature:      0.2, // baja temperatura para respuestas más deterministas
			MaxOutputTokens:  4096,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("AI: serializar request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.baseURL, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return "", fmt.Errorf("AI: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("AI: leer respuesta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// Intentar extraer el mensaje de error de Gemini
		var errResp geminiResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return "", fmt.Errorf("AI: Gemini error %d: %s", errResp.Error.Code, errResp.Error.Message)
		}
		return "", fmt.Errorf("AI: Gemini HTTP %d", resp.StatusCode)
	}

	var gemResp geminiResponse
	if err := json.Unmarshal(rawBody, &gemResp); err != nil {
		return "", fmt.Errorf("AI: deserializar respuesta Gemini: %w", err)
	}

	if len(gemResp.Candidates) == 0 || len(gemResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("AI: Gemini devolvió respuesta vacía")
	}

	return strings.TrimSpace(gemResp.Candidates[0].Content.Parts[0].Text), nil
}
