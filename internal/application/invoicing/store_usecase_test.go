package invoicing_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturador-api/internal/application/dto"
	"github.com/jhoicas/Facturador-api/internal/application/invoicing"
	"github.com/jhoicas/Facturador-api/internal/domain/entity"
	"github.com/jhoicas/Facturador-api/internal/infrastructure/memory"
)

const testSession = "00000000-0000-0000-0000-0000000000aa"

// stubGateway implementa el puerto TextEnhancementService con funciones
// intercambiables por test.
type stubGateway struct {
	enhanceFn  func(ctx context.Context, inputs []dto.DescriptionInput) ([]dto.EnhancedDescription, error)
	reformatFn func(ctx context.Context, invoiceJSON string) (string, error)
}

func (s *stubGateway) EnhanceDescriptions(ctx context.Context, inputs []dto.DescriptionInput) ([]dto.EnhancedDescription, error) {
	if s.enhanceFn == nil {
		return nil, errors.New("enhance sin stub")
	}
	return s.enhanceFn(ctx, inputs)
}

func (s *stubGateway) ReformatForPrint(ctx context.Context, invoiceJSON string) (string, error) {
	if s.reformatFn == nil {
		return "", errors.New("reformat sin stub")
	}
	return s.reformatFn(ctx, invoiceJSON)
}

func newStore(t *testing.T, gw *stubGateway) *invoicing.StoreUseCase {
	t.Helper()
	repo := memory.NewSessionRepository(time.Minute)
	t.Cleanup(func() { _ = repo.Close() })
	return invoicing.NewStoreUseCase(repo, gw)
}

// snapshotJSON serializa la factura actual para comparar estados completos.
func snapshotJSON(t *testing.T, uc *invoicing.StoreUseCase) string {
	t.Helper()
	inv, err := uc.Current(context.Background(), testSession)
	require.NoError(t, err)
	raw, err := json.Marshal(inv)
	require.NoError(t, err)
	return string(raw)
}

// ── Mutaciones síncronas ──────────────────────────────────────────────────────

func TestCurrent_SiembraPlantillaUnaVez(t *testing.T) {
	uc := newStore(t, &stubGateway{})
	ctx := context.Background()

	first, err := uc.Current(ctx, testSession)
	require.NoError(t, err)
	assert.Equal(t, "INV-001", first.InvoiceNumber)
	require.Len(t, first.Items, 2)

	// La segunda carga devuelve la misma sesión, no otra plantilla nueva.
	second, err := uc.Current(ctx, testSession)
	require.NoError(t, err)
	assert.Equal(t, first.Items[0].ID, second.Items[0].ID)
}

func TestAddRemoveItem_SobrevivenLosNoEliminadosEnOrden(t *testing.T) {
	uc := newStore(t, &stubGateway{})
	ctx := context.Background()

	// Partir de una factura sin líneas para controlar la secuencia.
	require.NoError(t, uc.SetInvoice(ctx, testSession, &entity.Invoice{}))

	var ids []string
	for i := 0; i < 4; i++ {
		inv, err := uc.AddItem(ctx, testSession)
		require.NoError(t, err)
		ids = append(ids, inv.Items[len(inv.Items)-1].ID)
	}

	// Ids únicos.
	seen := map[string]bool{}
	for _, id := range ids {
		assert.False(t, seen[id], "id repetido: %s", id)
		seen[id] = true
	}

	// Eliminar la segunda y la cuarta; sobreviven la primera y la tercera en orden.
	_, err := uc.RemoveItem(ctx, testSession, ids[1])
	require.NoError(t, err)
	inv, err := uc.RemoveItem(ctx, testSession, ids[3])
	require.NoError(t, err)

	require.Len(t, inv.Items, 2)
	assert.Equal(t, ids[0], inv.Items[0].ID)
	assert.Equal(t, ids[2], inv.Items[1].ID)
}

func TestRemoveItem_IdInexistenteEsNoOp(t *testing.T) {
	uc := newStore(t, &stubGateway{})
	ctx := context.Background()

	before := snapshotJSON(t, uc)
	inv, err := uc.RemoveItem(ctx, testSession, "no-existe")
	require.NoError(t, err, "el borrado es idempotente, no un error")
	assert.Len(t, inv.Items, 2)
	assert.JSONEq(t, before, snapshotJSON(t, uc))
}

func TestUpdateItem_IdInexistenteEsNoOp(t *testing.T) {
	uc := newStore(t, &stubGateway{})
	ctx := context.Background()

	before := snapshotJSON(t, uc)
	_, err := uc.UpdateItem(ctx, testSession, "no-existe", "price", json.RawMessage(`999`))
	require.NoError(t, err)
	assert.JSONEq(t, before, snapshotJSON(t, uc))
}

func TestUpdateItem_ReemplazaUnCampoYPersiste(t *testing.T) {
	uc := newStore(t, &stubGateway{})
	ctx := context.Background()

	inv, err := uc.Current(ctx, testSession)
	require.NoError(t, err)
	id := inv.Items[0].ID

	_, err = uc.UpdateItem(ctx, testSession, id, "price", json.RawMessage(`150`))
	require.NoError(t, err)

	reloaded, err := uc.Current(ctx, testSession)
	require.NoError(t, err)
	assert.True(t, reloaded.Items[0].Price.Equal(decimal.NewFromInt(150)))
}

func TestUpdateField_PersisteYRecalculaTotales(t *testing.T) {
	uc := newStore(t, &stubGateway{})
	ctx := context.Background()

	_, err := uc.UpdateField(ctx, testSession, "discount", json.RawMessage(`0`))
	require.NoError(t, err)

	totals, err := uc.Totals(ctx, testSession)
	require.NoError(t, err)
	// Sin descuento: 1300 + 104 = 1404.
	assert.True(t, totals.Total.Equal(decimal.NewFromInt(1404)),
		"total sin descuento = 1404, obtuvo %s", totals.Total)
}

func TestTotals_VectorDeLaPlantilla(t *testing.T) {
	uc := newStore(t, &stubGateway{})

	totals, err := uc.Totals(context.Background(), testSession)
	require.NoError(t, err)
	assert.True(t, totals.Subtotal.Equal(decimal.NewFromInt(1300)))
	assert.True(t, totals.TotalTax.Equal(decimal.NewFromInt(104)))
	assert.True(t, totals.DiscountAmount.Equal(decimal.NewFromInt(65)))
	assert.True(t, totals.Total.Equal(decimal.NewFromInt(1339)))
}

// ── Inicialización de fechas ──────────────────────────────────────────────────

func TestInitializeDates_FijaHoyYMas30Dias(t *testing.T) {
	fixed := time.Date(2026, 8, 29, 15, 4, 5, 0, time.UTC)
	uc := newStore(t, &stubGateway{}).WithClock(func() time.Time { return fixed })
	ctx := context.Background()

	inv, err := uc.InitializeDates(ctx, testSession)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-29", inv.InvoiceDate)
	assert.Equal(t, "2026-09-28", inv.DueDate)
}

func TestInitializeDates_EsIdempotente(t *testing.T) {
	fixed := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	clock := &fixed
	uc := newStore(t, &stubGateway{}).WithClock(func() time.Time { return *clock })
	ctx := context.Background()

	first, err := uc.InitializeDates(ctx, testSession)
	require.NoError(t, err)

	// Aunque el reloj avance, la segunda llamada no tiene efecto.
	later := fixed.AddDate(0, 0, 7)
	clock = &later
	second, err := uc.InitializeDates(ctx, testSession)
	require.NoError(t, err)

	assert.Equal(t, first.InvoiceDate, second.InvoiceDate)
	assert.Equal(t, first.DueDate, second.DueDate)
}

func TestInitializeDates_NoTocaFechasParciales(t *testing.T) {
	uc := newStore(t, &stubGateway{})
	ctx := context.Background()

	inv, err := uc.Current(ctx, testSession)
	require.NoError(t, err)
	inv.InvoiceDate = "2025-01-01"
	require.NoError(t, uc.SetInvoice(ctx, testSession, inv))

	after, err := uc.InitializeDates(ctx, testSession)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", after.InvoiceDate)
	assert.Empty(t, after.DueDate, "con una fecha ya puesta no se inicializa nada")
}

// ── EnhanceDescriptions ───────────────────────────────────────────────────────

func TestEnhanceDescriptions_ReemplazaEnOrden(t *testing.T) {
	gw := &stubGateway{
		enhanceFn: func(_ context.Context, inputs []dto.DescriptionInput) ([]dto.EnhancedDescription, error) {
			out := make([]dto.EnhancedDescription, len(inputs))
			for i, in := range inputs {
				out[i] = dto.EnhancedDescription{EnhancedDescription: "Mejorada: " + in.Description}
			}
			return out, nil
		},
	}
	uc := newStore(t, gw)
	ctx := context.Background()

	require.True(t, uc.EnhanceDescriptions(ctx, testSession))

	inv, err := uc.Current(ctx, testSession)
	require.NoError(t, err)
	assert.Equal(t, "Mejorada: Web design services", inv.Items[0].Description)
	assert.Equal(t, "Mejorada: Hosting (1 year)", inv.Items[1].Description)
}

func TestEnhanceDescriptions_RespuestaCortaEsFalloSinAplicacionParcial(t *testing.T) {
	gw := &stubGateway{
		enhanceFn: func(_ context.Context, inputs []dto.DescriptionInput) ([]dto.EnhancedDescription, error) {
			// Una descripción menos de las enviadas.
			return []dto.EnhancedDescription{{EnhancedDescription: "solo una"}}, nil
		},
	}
	uc := newStore(t, gw)

	before := snapshotJSON(t, uc)
	assert.False(t, uc.EnhanceDescriptions(context.Background(), testSession),
		"una longitud distinta se reporta como fallo, no se indexa a ciegas")
	assert.JSONEq(t, before, snapshotJSON(t, uc), "el estado queda intacto")
}

func TestEnhanceDescriptions_FalloDelGatewayDejaEstadoIntacto(t *testing.T) {
	gw := &stubGateway{
		enhanceFn: func(context.Context, []dto.DescriptionInput) ([]dto.EnhancedDescription, error) {
			return nil, errors.New("gateway caído")
		},
	}
	uc := newStore(t, gw)

	before := snapshotJSON(t, uc)
	assert.False(t, uc.EnhanceDescriptions(context.Background(), testSession))
	assert.JSONEq(t, before, snapshotJSON(t, uc))
}

func TestEnhanceDescriptions_SinLineasEsExitoSinLlamada(t *testing.T) {
	called := false
	gw := &stubGateway{
		enhanceFn: func(context.Context, []dto.DescriptionInput) ([]dto.EnhancedDescription, error) {
			called = true
			return nil, nil
		},
	}
	uc := newStore(t, gw)
	ctx := context.Background()
	require.NoError(t, uc.SetInvoice(ctx, testSession, &entity.Invoice{}))

	assert.True(t, uc.EnhanceDescriptions(ctx, testSession))
	assert.False(t, called, "sin descripciones no hay nada que enviar")
}

func TestEnhanceDescriptions_LineaEliminadaEnVueloSeDescarta(t *testing.T) {
	// El usuario elimina una línea mientras la petición está en vuelo: el merge
	// alinea por id de la instantánea y descarta la mejora de la línea ausente.
	var store *invoicing.StoreUseCase
	var removedID string
	gw := &stubGateway{
		enhanceFn: func(ctx context.Context, inputs []dto.DescriptionInput) ([]dto.EnhancedDescription, error) {
			// Edición concurrente: se elimina la primera línea.
			_, err := store.RemoveItem(context.Background(), testSession, removedID)
			if err != nil {
				return nil, fmt.Errorf("edición concurrente: %w", err)
			}
			out := make([]dto.EnhancedDescription, len(inputs))
			for i, in := range inputs {
				out[i] = dto.EnhancedDescription{EnhancedDescription: "Mejorada: " + in.Description}
			}
			return out, nil
		},
	}
	store = newStore(t, gw)
	ctx := context.Background()

	inv, err := store.Current(ctx, testSession)
	require.NoError(t, err)
	removedID = inv.Items[0].ID
	keptID := inv.Items[1].ID

	require.True(t, store.EnhanceDescriptions(ctx, testSession))

	after, err := store.Current(ctx, testSession)
	require.NoError(t, err)
	require.Len(t, after.Items, 1)
	assert.Equal(t, keptID, after.Items[0].ID)
	assert.Equal(t, "Mejorada: Hosting (1 year)", after.Items[0].Description)
}

// ── ReformatInvoice ───────────────────────────────────────────────────────────

func TestReformatInvoice_MergeParcialConservaCamposAusentes(t *testing.T) {
	gw := &stubGateway{
		reformatFn: func(_ context.Context, invoiceJSON string) (string, error) {
			// El gateway solo normalizó dos campos.
			return `{"invoiceDate": "2026-08-29", "notes": "Gracias por su compra."}`, nil
		},
	}
	uc := newStore(t, gw)
	ctx := context.Background()

	require.True(t, uc.ReformatInvoice(ctx, testSession))

	inv, err := uc.Current(ctx, testSession)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-29", inv.InvoiceDate)
	assert.Equal(t, "Gracias por su compra.", inv.Notes)
	// Lo que el gateway no devolvió sigue igual.
	assert.Equal(t, "Your Company", inv.SenderName)
	assert.Equal(t, "INV-001", inv.InvoiceNumber)
	assert.Len(t, inv.Items, 2)
}

func TestReformatInvoice_EcoDelGatewayNoAlteraLaFactura(t *testing.T) {
	// Ida y vuelta: un gateway que devuelve exactamente lo que recibió produce
	// una factura igual (fidelidad JSON de todos los tipos de campo).
	gw := &stubGateway{
		reformatFn: func(_ context.Context, invoiceJSON string) (string, error) {
			return invoiceJSON, nil
		},
	}
	uc := newStore(t, gw)

	before := snapshotJSON(t, uc)
	require.True(t, uc.ReformatInvoice(context.Background(), testSession))
	assert.JSONEq(t, before, snapshotJSON(t, uc))
}

func TestReformatInvoice_RespuestaNoJSONEsFalloSinCambios(t *testing.T) {
	gw := &stubGateway{
		reformatFn: func(context.Context, string) (string, error) {
			return "esto no es JSON", nil
		},
	}
	uc := newStore(t, gw)

	before := snapshotJSON(t, uc)
	assert.False(t, uc.ReformatInvoice(context.Background(), testSession))
	assert.JSONEq(t, before, snapshotJSON(t, uc))
}

func TestReformatInvoice_FalloDelGatewayDejaEstadoIntacto(t *testing.T) {
	gw := &stubGateway{
		reformatFn: func(context.Context, string) (string, error) {
			return "", errors.New("timeout")
		},
	}
	uc := newStore(t, gw)

	before := snapshotJSON(t, uc)
	assert.False(t, uc.ReformatInvoice(context.Background(), testSession))
	assert.JSONEq(t, before, snapshotJSON(t, uc))
}
