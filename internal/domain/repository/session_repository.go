package repository

import (
	"context"

	"github.com/jhoicas/Facturador-api/internal/domain/entity"
)

// SessionRepository es el puerto de persistencia de la factura de sesión.
// Hay exactamente una factura por sesión de navegador: se lee al inicializar
// el store y se escribe después de cada mutación.
//
// Load devuelve domain.ErrSessionNotFound si la sesión no existe o expiró.
type SessionRepository interface {
	Load(ctx context.Context, sessionID string) (*entity.Invoice, error)
	Save(ctx context.Context, sessionID string, inv *entity.Invoice) error
}
