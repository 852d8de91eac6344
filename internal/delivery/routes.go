package delivery

import (
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

func RegisterRoutes(r chi.Router, h *VoiceHandler) {
	r.With(httputil.RecoverMiddleware).
		Get("/", h.Welcome)

	r.Route("/chat", func(cr chi.Router) {
		cr.Use(
			httputil.RecoverMiddleware,
			httprate.LimitByIP(60, time.Minute),
		)

		cr.Post("/voice", h.ChatVoice)
	})
}
