package persona

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nurumindfulness/nuru/backend/internal/model/persona"
	"github.com/nurumindfulness/nuru/backend/pkg/utils"
)

// View is the public part of the persona the UIs render.
type View struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Title    string `json:"title"`
	Greeting string `json:"greeting"`
}

// Handler persona服务的HTTP处理器
type Handler struct {
	view View
}

// New 创建persona处理器
func New(p persona.Persona) *Handler {
	return &Handler{
		view: View{
			ID:       p.ID,
			Name:     p.Name,
			Title:    p.Title,
			Greeting: p.OpeningLine,
		},
	}
}

// RegisterRoutes 注册persona相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/persona", h.handleGetPersona)
}

func (h *Handler) handleGetPersona(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.view)
}
