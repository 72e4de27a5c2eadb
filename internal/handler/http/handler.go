package http

import (
	"context"
	"time"

	"github.com/MKhiriev/oni-auth/internal/config"
	"github.com/MKhiriev/oni-auth/internal/logger"
	"github.com/MKhiriev/oni-auth/internal/service"
	"github.com/MKhiriev/oni-auth/internal/social"
)

// Pinger reports whether the backing storage is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	services *service.Services
	pinger   Pinger
	social   social.Provider

	app    config.App
	server config.Server

	now    func() time.Time
	logger *logger.Logger
}

func NewHandler(services *service.Services, pinger Pinger, app config.App, server config.Server, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		pinger:   pinger,
		app:      app,
		server:   server,
		now:      time.Now,
		logger:   logger,
	}
}

// WithSocialProvider enables sign-in through provider on /google and
// /google/callback. Without one those routes answer 404.
func (h *Handler) WithSocialProvider(provider social.Provider) *Handler {
	h.social = provider
	return h
}
