package ai

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/jhoicas/Facturador-api/internal/application/dto"
	"github.com/jhoicas/Facturador-api/internal/application/ports"
)

// Verificar en tiempo de compilación que OpenAIService implementa el puerto.
var _ ports.TextEnhancementService = (*OpenAIService)(nil)

// OpenAIService adaptador que implementa TextEnhancementService usando el SDK
// go-openai (chat completions). Comparte prompts y extracción de JSON con el
// adaptador Gemini.
type OpenAIService struct {
	client *openai.Client
	model  string
}

// NewOpenAIService construye el adaptador. model suele ser "gpt-4o-mini".
func NewOpenAIService(apiKey, model string) *OpenAIService {
	return &OpenAIService{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// NewOpenAIServiceWithConfig permite inyectar la configuración del cliente
// (base URL alterna, proxies compatibles con la API de OpenAI, tests).
func NewOpenAIServiceWithConfig(cfg openai.ClientConfig, model string) *OpenAIService {
	return &OpenAIService{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// EnhanceDescriptions envía las descripciones al modelo y devuelve la
// secuencia mejorada en el mismo orden.
func (s *OpenAIService) EnhanceDescriptions(ctx context.Context, inputs []dto.DescriptionInput) ([]dto.EnhancedDescription, error) {
	payload, err := json.Marshal(inputs)
	if err != nil {
		return nil, fmt.Errorf("AI: serializar descripciones: %w", err)
	}

	rawText, err := s.chat(ctx, enhanceSystemPrompt, fmt.Sprintf("Las descripciones de línea son:\n%s", payload))
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

// ReformatForPrint envía la factura serializada y devuelve el JSON reformateado.
func (s *OpenAIService) ReformatForPrint(ctx context.Context, invoiceJSON string) (string, error) {
	rawText, err := s.chat(ctx, reformatSystemPrompt, fmt.Sprintf("La factura a reformatear es:\n%s", invoiceJSON))
	if err != nil {
		return "", err
	}
	return extractJSONObject(rawText)
}

// chat ejecuta una chat completion y devuelve el contenido de la primera opción.
func (s *OpenAIService) chat(ctx context.Context, systemPrompt, userText string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: 0.2,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userText},
		},
	})
	if err != nil {
		return "", fmt.Errorf("AI: llamada a OpenAI fallida: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("AI: OpenAI devolvió respuesta vacía")
	}
	return resp.Choices[0].Message.Content, nil
}
