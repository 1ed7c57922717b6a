package records

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Save)
	r.Get("/stats", h.Stats)
	r.Post("/autofill", h.AutoFill)
	r.Post("/migrate", h.Migrate)
	r.Delete("/{id}", h.Delete)
	r.Get("/{id}/attachment", h.Attachment)
	r.Get("/{id}/attachment/info", h.AttachmentInfo)
}
