package vouchers

import "github.com/go-chi/chi/v5"

// MountRoutes attaches the voucher API.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/next-number", h.NextNumber)

	r.Route("/editor", func(r chi.Router) {
		r.Post("/", h.OpenEditor)
		r.Get("/{sid}", h.EditorState)
		r.Delete("/{sid}", h.CloseEditor)
		r.Post("/{sid}/lines", h.AddLine)
		r.Post("/{sid}/lines/{index}/edit", h.BeginEdit)
		r.Put("/{sid}/lines/{index}", h.CommitEdit)
		r.Delete("/{sid}/lines/{index}", h.RemoveLine)
		r.Post("/{sid}/cancel-edit", h.CancelEdit)
		r.Post("/{sid}/unlock", h.Unlock)
		r.Post("/{sid}/lock", h.Lock)
	})

	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
	r.Post("/{id}/edit-check", h.EditCheck)
}
