package invoicing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Facturador-api/internal/application/dto"
	"github.com/jhoicas/Facturador-api/internal/application/ports"
	"github.com/jhoicas/Facturador-api/internal/domain"
	"github.com/jhoicas/Facturador-api/internal/domain/entity"
	"github.com/jhoicas/Facturador-api/internal/domain/invoice"
	"github.com/jhoicas/Facturador-api/internal/domain/repository"
)

// aiTimeout limita cada llamada al gateway de IA. El reformateo envía la
// factura completa, así que el margen es mayor que el de una consulta corta.
const aiTimeout = 30 * time.Second

// dueDateOffset plazo de pago por defecto al inicializar fechas.
const dueDateOffset = 30 * 24 * time.Hour

// StoreUseCase es el store de estado de la factura: carga la factura de la
// sesión, aplica la mutación y persiste el resultado. Los totales derivados
// se recalculan siempre (internal/domain/invoice), nunca se almacenan.
//
// El store no sincroniza: cada sesión tiene un único actor lógico (la pestaña
// del navegador). Los repositorios protegen sus propias estructuras.
type StoreUseCase struct {
	sessions repository.SessionRepository
	llm      ports.TextEnhancementService
	now      func() time.Time
}

// NewStoreUseCase construye el store inyectando la persistencia de sesión y
// el puerto del gateway de texto.
func NewStoreUseCase(sessions repository.SessionRepository, llm ports.TextEnhancementService) *StoreUseCase {
	return &StoreUseCase{
		sessions: sessions,
		llm:      llm,
		now:      time.Now,
	}
}

// WithClock fija el reloj del store (solo para tests de fechas).
func (uc *StoreUseCase) WithClock(now func() time.Time) *StoreUseCase {
	uc.now = now
	return uc
}

// Current devuelve la factura de la sesión. Si la sesión es nueva, siembra la
// plantilla inicial y la persiste (lectura única al inicializar el store).
func (uc *StoreUseCase) Current(ctx context.Context, sessionID string) (*entity.Invoice, error) {
	inv, err := uc.sessions.Load(ctx, sessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		inv = invoice.Template()
		if err := uc.sessions.Save(ctx, sessionID, inv); err != nil {
			return nil, fmt.Errorf("sembrar sesión: %w", err)
		}
		return inv, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cargar sesión: %w", err)
	}
	return inv, nil
}

// SetInvoice reemplaza la factura completa. Sin validación: el frontend es
// dueño de la forma; el único efecto secundario es la persistencia.
func (uc *StoreUseCase) SetInvoice(ctx context.Context, sessionID string, inv *entity.Invoice) error {
	if inv == nil {
		return fmt.Errorf("%w: factura nula", domain.ErrInvalidInput)
	}
	return uc.sessions.Save(ctx, sessionID, inv)
}

// UpdateField reemplaza un campo escalar de la cabecera y persiste.
func (uc *StoreUseCase) UpdateField(ctx context.Context, sessionID, field string, value json.RawMessage) (*entity.Invoice, error) {
	inv, err := uc.Current(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := inv.SetField(field, value); err != nil {
		return nil, err
	}
	if err := uc.sessions.Save(ctx, sessionID, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// AddItem agrega una línea nueva con id único, cantidad 1 y valores en cero.
func (uc *StoreUseCase) AddItem(ctx context.Context, sessionID string) (*entity.Invoice, error) {
	inv, err := uc.Current(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	inv.Items = append(inv.Items, invoice.NewLineItem())
	if err := uc.sessions.Save(ctx, sessionID, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// UpdateItem reemplaza un campo de la línea con ese id. Un id inexistente es
// un no-op silencioso (semántica idempotente, igual que RemoveItem).
func (uc *StoreUseCase) UpdateItem(ctx context.Context, sessionID, itemID, field string, value json.RawMessage) (*entity.Invoice, error) {
	inv, err := uc.Current(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	idx := inv.FindItem(itemID)
	if idx < 0 {
		return inv, nil
	}
	if err := inv.Items[idx].SetField(field, value); err != nil {
		return nil, err
	}
	if err := uc.sessions.Save(ctx, sessionID, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// RemoveItem elimina la línea con ese id; no-op si no existe.
func (uc *StoreUseCase) RemoveItem(ctx context.Context, sessionID, itemID string) (*entity.Invoice, error) {
	inv, err := uc.Current(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	idx := inv.FindItem(itemID)
	if idx < 0 {
		return inv, nil
	}
	inv.Items = append(inv.Items[:idx], inv.Items[idx+1:]...)
	if err := uc.sessions.Save(ctx, sessionID, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// Totals recalcula los totales derivados de la factura actual.
func (uc *StoreUseCase) Totals(ctx context.Context, sessionID string) (dto.TotalsDTO, error) {
	inv, err := uc.Current(ctx, sessionID)
	if err != nil {
		return dto.TotalsDTO{}, err
	}
	return TotalsOf(inv), nil
}

// TotalsOf deriva los totales de una factura ya cargada.
func TotalsOf(inv *entity.Invoice) dto.TotalsDTO {
	return dto.TotalsDTO{
		Subtotal:       invoice.Subtotal(inv),
		TotalTax:       invoice.TotalTax(inv),
		DiscountAmount: invoice.DiscountAmount(inv),
		Total:          invoice.Total(inv),
	}
}

// InitializeDates fija la fecha de factura a hoy y el vencimiento a hoy+30 días
// (YYYY-MM-DD), únicamente si ambas fechas están vacías. Llamarla de nuevo sin
// cambios intermedios no tiene efecto (guardia idempotente).
func (uc *StoreUseCase) InitializeDates(ctx context.Context, sessionID string) (*entity.Invoice, error) {
	inv, err := uc.Current(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if inv.InvoiceDate != "" || inv.DueDate != "" {
		return inv, nil
	}
	today := uc.now()
	inv.InvoiceDate = today.Format("2006-01-02")
	inv.DueDate = today.Add(dueDateOffset).Format("2006-01-02")
	if err := uc.sessions.Save(ctx, sessionID, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// EnhanceDescriptions envía las descripciones de línea al gateway y aplica las
// versiones mejoradas. Nunca propaga error: devuelve éxito o fracaso.
//
// Política ante carreras y discrepancias (documentada, no accidental):
//   - Se toma una instantánea de las líneas al inicio de la llamada.
//   - Una respuesta con longitud distinta a la instantánea es fallo, sin
//     aplicación parcial.
//   - El merge se hace contra el último estado confirmado, alineando la
//     i-ésima descripción mejorada con el id de la i-ésima línea de la
//     instantánea: líneas eliminadas en vuelo se descartan, líneas agregadas
//     en vuelo conservan su texto.
func (uc *StoreUseCase) EnhanceDescriptions(ctx context.Context, sessionID string) bool {
	snapshot, err := uc.Current(ctx, sessionID)
	if err != nil {
		log.Warn().Err(err).Str("session", sessionID).Msg("enhance: cargar factura")
		return false
	}
	if len(snapshot.Items) == 0 {
		return true
	}

	inputs := make([]dto.DescriptionInput, len(snapshot.Items))
	for i, it := range snapshot.Items {
		inputs[i] = dto.DescriptionInput{Description: it.Description}
	}

	callCtx, cancel := context.WithTimeout(ctx, aiTimeout)
	defer cancel()

	enhanced, err := uc.llm.EnhanceDescriptions(callCtx, inputs)
	if err != nil {
		log.Warn().Err(err).Str("session", sessionID).Msg("enhance: llamada al gateway")
		return false
	}
	if len(enhanced) != len(snapshot.Items) {
		log.Warn().
			Err(domain.ErrLengthMismatch).
			Int("sent", len(snapshot.Items)).
			Int("received", len(enhanced)).
			Str("session", sessionID).
			Msg("enhance: longitud de respuesta no coincide, se descarta")
		return false
	}

	// Releer: el usuario pudo editar mientras la petición estaba en vuelo.
	current, err := uc.Current(ctx, sessionID)
	if err != nil {
		log.Warn().Err(err).Str("session", sessionID).Msg("enhance: recargar factura")
		return false
	}
	byID := make(map[string]string, len(snapshot.Items))
	for i, it := range snapshot.Items {
		byID[it.ID] = enhanced[i].EnhancedDescription
	}
	for i := range current.Items {
		if text, ok := byID[current.Items[i].ID]; ok {
			current.Items[i].Description = text
		}
	}
	if err := uc.sessions.Save(ctx, sessionID, current); err != nil {
		log.Warn().Err(err).Str("session", sessionID).Msg("enhance: persistir factura")
		return false
	}
	return true
}

// ReformatInvoice serializa la factura completa, la envía al gateway de
// reformateo y aplica la respuesta como parche parcial: los campos presentes
// sobrescriben, los ausentes se conservan. Ante cualquier fallo (transporte,
// JSON inválido, forma incorrecta) el estado queda intacto y devuelve false.
func (uc *StoreUseCase) ReformatInvoice(ctx context.Context, sessionID string) bool {
	inv, err := uc.Current(ctx, sessionID)
	if err != nil {
		log.Warn().Err(err).Str("session", sessionID).Msg("reformat: cargar factura")
		return false
	}

	raw, err := json.Marshal(inv)
	if err != nil {
		log.Warn().Err(err).Str("session", sessionID).Msg("reformat: serializar factura")
		return false
	}

	callCtx, cancel := context.WithTimeout(ctx, aiTimeout)
	defer cancel()

	reformatted, err := uc.llm.ReformatForPrint(callCtx, string(raw))
	if err != nil {
		log.Warn().Err(err).Str("session", sessionID).Msg("reformat: llamada al gateway")
		return false
	}

	var patch entity.InvoicePatch
	if err := json.Unmarshal([]byte(reformatted), &patch); err != nil {
		log.Warn().Err(err).Str("session", sessionID).Msg("reformat: respuesta no parsea como factura parcial")
		return false
	}

	// Merge sobre el último estado confirmado (última escritura gana si hay
	// dos reformateos en vuelo; el núcleo no impide la segunda invocación).
	current, err := uc.Current(ctx, sessionID)
	if err != nil {
		log.Warn().Err(err).Str("session", sessionID).Msg("reformat: recargar factura")
		return false
	}
	patch.Apply(current)
	if err := uc.sessions.Save(ctx, sessionID, current); err != nil {
		log.Warn().Err(err).Str("session", sessionID).Msg("reformat: persistir factura")
		return false
	}
	return true
}
