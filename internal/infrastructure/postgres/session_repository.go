package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Facturador-api/internal/domain"
	"github.com/jhoicas/Facturador-api/internal/domain/entity"
	"github.com/jhoicas/Facturador-api/internal/domain/repository"
)

// Querier abstrae pool o tx de pgx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo implementación de SessionRepository sobre la tabla
// invoice_sessions (una fila por sesión, factura completa como JSONB).
type SessionRepo struct {
	q Querier
}

// NewSessionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSessionRepository(q Querier) *SessionRepo {
	return &SessionRepo{q: q}
}

// EnsureSchema crea la tabla de sesiones si no existe.
func EnsureSchema(ctx context.Context, q Querier) error {
	_, err := q.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS invoice_sessions (
			session_id TEXT PRIMARY KEY,
			data       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("crear tabla invoice_sessions: %w", err)
	}
	return nil
}

// Load lee la factura de la sesión.
func (r *SessionRepo) Load(ctx context.Context, sessionID string) (*entity.Invoice, error) {
	var data []byte
	err := r.q.QueryRow(ctx,
		`SELECT data FROM invoice_sessions WHERE session_id = $1`, sessionID,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select session: %w", err)
	}

	var inv entity.Invoice
	if err := json.Unmarshal(data, &inv); err != nil {
		return nil, fmt.Errorf("deserializar factura de sesión: %w", err)
	}
	return &inv, nil
}

// Save inserta o actualiza la factura de la sesión.
func (r *SessionRepo) Save(ctx context.Context, sessionID string, inv *entity.Invoice) error {
	data, err := json.Marshal(inv)
	if err != nil {
		return fmt.Errorf("serializar factura de sesión: %w", err)
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO invoice_sessions (session_id, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (session_id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		sessionID, data,
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}
