package postgres

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturador-api/internal/domain"
	"github.com/jhoicas/Facturador-api/internal/domain/invoice"
)

// fakeQuerier implementa Querier sobre un mapa, suficiente para cubrir el
// SQL de este repositorio sin un Postgres real.
type fakeQuerier struct {
	rows    map[string][]byte
	lastSQL string
}

func newFakeQuerier() *fakeQuerier {
	return &fakeQuerier{rows: make(map[string][]byte)}
}

func (f *fakeQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.lastSQL = sql
	if strings.Contains(sql, "INSERT INTO invoice_sessions") {
		f.rows[args[0].(string)] = args[1].([]byte)
	}
	return pgconn.CommandTag{}, nil
}

func (f *fakeQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	f.lastSQL = sql
	data, ok := f.rows[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{data: data}
}

type fakeRow struct {
	data []byte
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]byte)) = r.data
	return nil
}

func TestLoad_SesionInexistente(t *testing.T) {
	repo := NewSessionRepository(newFakeQuerier())

	_, err := repo.Load(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSaveLoad_IdaYVueltaJSONB(t *testing.T) {
	repo := NewSessionRepository(newFakeQuerier())
	ctx := context.Background()

	inv := invoice.Template()
	inv.Items[0].Price = decimal.RequireFromString("100.50")
	require.NoError(t, repo.Save(ctx, "s1", inv))

	loaded, err := repo.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, inv.InvoiceNumber, loaded.InvoiceNumber)
	require.Len(t, loaded.Items, 2)
	assert.Equal(t, inv.Items[0].ID, loaded.Items[0].ID)
	// decimal sobrevive el viaje por JSONB sin perder precisión.
	assert.True(t, loaded.Items[0].Price.Equal(decimal.RequireFromString("100.50")))
}

func TestSave_SegundoSaveSobrescribe(t *testing.T) {
	q := newFakeQuerier()
	repo := NewSessionRepository(q)
	ctx := context.Background()

	first := invoice.Template()
	require.NoError(t, repo.Save(ctx, "s1", first))

	second := invoice.Template()
	second.InvoiceNumber = "INV-002"
	require.NoError(t, repo.Save(ctx, "s1", second))
	assert.Contains(t, q.lastSQL, "ON CONFLICT (session_id) DO UPDATE")

	loaded, err := repo.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "INV-002", loaded.InvoiceNumber)
}

func TestEnsureSchema_CreaLaTabla(t *testing.T) {
	q := newFakeQuerier()
	require.NoError(t, EnsureSchema(context.Background(), q))
	assert.Contains(t, q.lastSQL, "CREATE TABLE IF NOT EXISTS invoice_sessions")
}
