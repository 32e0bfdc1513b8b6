package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// sessionIDKey clave en c.Locals con el id de sesión del navegador.
const sessionIDKey = "sessionID"

// SessionMiddleware garantiza que cada petición lleva una sesión: si la cookie
// no existe o no es un UUID, emite una nueva. La cookie es de sesión (sin
// Expires), así que muere con la pestaña/navegador igual que el session
// storage del frontend.
func SessionMiddleware(cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies(cookieName)
		if uuid.Validate(sid) != nil {
			sid = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:        cookieName,
				Value:       sid,
				HTTPOnly:    true,
				SameSite:    fiber.CookieSameSiteLaxMode,
				SessionOnly: true,
			})
		}
		c.Locals(sessionIDKey, sid)
		return c.Next()
	}
}

// GetSessionID devuelve el id de sesión cargado por SessionMiddleware.
func GetSessionID(c *fiber.Ctx) string {
	if sid, ok := c.Locals(sessionIDKey).(string); ok {
		return sid
	}
	return ""
}
