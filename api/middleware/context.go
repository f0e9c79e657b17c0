package middleware

import (
	"nvocc-platform/internal/entity"
	"nvocc-platform/internal/service"

	"github.com/labstack/echo/v4"
)

const (
	contextIdentityKey = "auth_identity"
	contextSessionKey  = "auth_session"
)

func SetAuthContext(c echo.Context, identity *service.Identity, session *entity.UserSession) {
	c.Set(contextIdentityKey, identity)
	c.Set(contextSessionKey, session)
}

func IdentityFromContext(c echo.Context) (*service.Identity, bool) {
	identity, ok := c.Get(contextIdentityKey).(*service.Identity)
	if !ok || identity == nil {
		return nil, false
	}
	return identity, true
}

func SessionFromContext(c echo.Context) (*entity.UserSession, bool) {
	session, ok := c.Get(contextSessionKey).(*entity.UserSession)
	if !ok || session == nil {
		return nil, false
	}
	return session, true
}
