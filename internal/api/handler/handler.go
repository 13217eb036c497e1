// Package handler exposes the claim workflow over HTTP. Routing and
// request parsing live here; every decision about who may do what to
// which claim is delegated to the claims service.
package handler

import (
	"claimflow/backend/internal/claims"
	"claimflow/backend/internal/notify"
	"claimflow/backend/internal/storage"

	"go.uber.org/zap"
)

// Handler carries the dependencies of all HTTP endpoints.
type Handler struct {
	Claims    *claims.Service
	Storage   storage.Storage
	Hub       *notify.Hub
	JWTSecret []byte
	Logger    *zap.Logger
}

func NewHandler(claimsSvc *claims.Service, st storage.Storage, hub *notify.Hub, jwtSecret []byte, logger *zap.Logger) *Handler {
	return &Handler{
		Claims:    claimsSvc,
		Storage:   st,
		Hub:       hub,
		JWTSecret: jwtSecret,
		Logger:    logger.With(zap.String("component", "http")),
	}
}
