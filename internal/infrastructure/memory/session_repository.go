// Package memory implementa la persistencia de sesión en memoria del proceso.
// Modela el session storage del navegador del lado del servidor: cada sesión
// guarda su factura con un TTL deslizante y desaparece al expirar.
// Adecuado para despliegues de una sola instancia y para tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/Facturador-api/internal/domain"
	"github.com/jhoicas/Facturador-api/internal/domain/entity"
	"github.com/jhoicas/Facturador-api/internal/domain/repository"
)

var _ repository.SessionRepository = (*SessionRepository)(nil)

type sessionEntry struct {
	invoice   *entity.Invoice
	expiresAt time.Time
}

// SessionRepository guarda una factura por sesión en un mapa protegido por
// RWMutex, con un goroutine de limpieza de entradas expiradas.
type SessionRepository struct {
	mu        sync.RWMutex
	entries   map[string]sessionEntry
	ttl       time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewSessionRepository construye el repositorio y arranca la limpieza periódica.
func NewSessionRepository(ttl time.Duration) *SessionRepository {
	r := &SessionRepository{
		entries:  make(map[string]sessionEntry),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}
	r.wg.Add(1)
	go r.cleanupLoop()
	return r
}

// Load devuelve una copia de la factura de la sesión y renueva su TTL.
// Sesión inexistente o expirada → domain.ErrSessionNotFound.
func (r *SessionRepository) Load(ctx context.Context, sessionID string) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[sessionID]
	if !ok || time.Now().After(e.expiresAt) {
		delete(r.entries, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	e.expiresAt = time.Now().Add(r.ttl)
	r.entries[sessionID] = e
	// Copia defensiva: el caller muta la factura fuera del lock.
	return e.invoice.Clone(), nil
}

// Save persiste una copia de la factura con TTL renovado.
func (r *SessionRepository) Save(ctx context.Context, sessionID string, inv *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[sessionID] = sessionEntry{
		invoice:   inv.Clone(),
		expiresAt: time.Now().Add(r.ttl),
	}
	return nil
}

// Close detiene el goroutine de limpieza. Seguro de llamar varias veces.
func (r *SessionRepository) Close() error {
	r.closeOnce.Do(func() {
		close(r.stopChan)
		r.wg.Wait()
	})
	return nil
}

func (r *SessionRepository) cleanupLoop() {
	defer r.wg.Done()

	interval := r.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopChan:
			return
		case <-ticker.C:
			r.removeExpired()
		}
	}
}

func (r *SessionRepository) removeExpired() {
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.entries {
		if now.After(e.expiresAt) {
			delete(r.entries, id)
		}
	}
}
