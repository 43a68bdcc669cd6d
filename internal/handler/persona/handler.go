package persona

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"github.com/lucaprotelli/bastian-project/backend/internal/model/persona"
	"github.com/lucaprotelli/bastian-project/backend/pkg/utils"
)

// Summary is the public view of a persona; instructions and examples stay server-side.
type Summary struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Sampling persona.Sampling `json:"sampling"`
	Examples int              `json:"examples"`
}

// ListResponse is the body of GET /personas.
type ListResponse struct {
	Default  string    `json:"default"`
	Personas []Summary `json:"personas"`
}

// Handler persona服务的HTTP处理器
type Handler struct {
	personas persona.Store
}

// New 创建persona处理器
func New(personas persona.Store) *Handler {
	return &Handler{
		personas: personas,
	}
}

// RegisterRoutes 注册persona相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/personas", h.handleListPersonas)
}

// handleListPersonas 列出所有persona
func (h *Handler) handleListPersonas(w http.ResponseWriter, _ *http.Request) {
	summaries := lo.Map(h.personas.List(), func(p persona.Persona, _ int) Summary {
		return Summary{ID: p.ID, Name: p.Name, Sampling: p.Sampling, Examples: len(p.Examples)}
	})
	utils.RespondJSON(w, http.StatusOK, ListResponse{Default: h.personas.DefaultID(), Personas: summaries})
}
