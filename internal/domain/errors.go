package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrSessionNotFound = errors.New("sesión de factura no encontrada")
	ErrUnknownField    = errors.New("campo desconocido")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrGatewayResponse = errors.New("respuesta del gateway de IA inválida")
	ErrLengthMismatch  = errors.New("el gateway devolvió un número distinto de descripciones")
)
