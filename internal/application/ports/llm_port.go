package ports

import (
	"context"

	"github.com/jhoicas/Facturador-api/internal/application/dto"
)

// TextEnhancementService define el puerto de salida hacia el servicio de
// generación de texto. Cualquier adaptador (Gemini, OpenAI, mock) debe
// implementar esta interfaz; la aplicación solo conoce este contrato.
//
// El núcleo no asume que el gateway sea rápido ni esté siempre disponible:
// solo que cada llamada eventualmente resuelve o falla. El timeout lo pone
// el caso de uso vía contexto.
type TextEnhancementService interface {
	// EnhanceDescriptions recibe las descripciones de línea en orden y devuelve
	// la secuencia mejorada. El contrato exige misma longitud y mismo orden;
	// el caso de uso trata cualquier discrepancia como fallo.
	EnhanceDescriptions(ctx context.Context, inputs []dto.DescriptionInput) ([]dto.EnhancedDescription, error)

	// ReformatForPrint recibe la factura serializada como JSON y devuelve un
	// JSON que parsea a un subconjunto de la forma de la factura. El gateway
	// no garantiza completitud del esquema: solo devuelve lo que normalizó.
	ReformatForPrint(ctx context.Context, invoiceJSON string) (string, error)
}
