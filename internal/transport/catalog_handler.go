package transport

import (
	"errors"
	"net/http"
	"time"

	"confeitaria/internal/domain"
	"confeitaria/internal/middleware"
	"confeitaria/internal/repository"
	"confeitaria/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProdutoRequest represents the product create/update payload
type ProdutoRequest struct {
	Nome           string  `json:"nome" validate:"required"`
	Valor          float64 `json:"valor" validate:"gte=0"`
	DataVencimento string  `json:"dataVencimento"`
}

// ComboItemRequest represents one product line of a combo payload
type ComboItemRequest struct {
	ProdutoID     uuid.UUID `json:"produtoId" validate:"required"`
	Quantidade    int       `json:"quantidade" validate:"required,min=1"`
	ValorUnitario float64   `json:"valorUnitario" validate:"gte=0"`
}

// ComboRequest represents the combo create/update payload
type ComboRequest struct {
	Nome       string             `json:"nome" validate:"required"`
	Descricao  string             `json:"descricao"`
	ValorTotal float64            `json:"valorTotal" validate:"gte=0"`
	Ativo      bool               `json:"ativo"`
	Itens      []ComboItemRequest `json:"itens" validate:"required,min=1,dive"`
}

// CatalogHandler handles HTTP requests for catalog operations
type CatalogHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, logger: logger}
}

// RegisterRoutes registers all catalog routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/catalogo", h.ListCatalog)

	r.Route("/api/produtos", func(r chi.Router) {
		r.Get("/", h.ListProdutos)
		r.Post("/", h.CreateProduto)
		r.Put("/{id}", h.UpdateProduto)
		r.Delete("/{id}", h.DeleteProduto)
	})

	r.Route("/api/combos", func(r chi.Router) {
		r.Get("/", h.ListCombos)
		r.Post("/", h.CreateCombo)
		r.Put("/{id}", h.UpdateCombo)
		r.Delete("/{id}", h.DeleteCombo)
	})
}

// ListCatalog returns every product and combo in one payload
func (h *CatalogHandler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	catalogo, err := h.catalogService.ListCatalog(r.Context())
	if err != nil {
		h.logger.Error("Failed to list catalog", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list catalog")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, catalogo)
}

// ListProdutos returns all products
func (h *CatalogHandler) ListProdutos(w http.ResponseWriter, r *http.Request) {
	produtos, err := h.catalogService.ListProdutos(r.Context())
	if err != nil {
		h.logger.Error("Failed to list produtos", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list produtos")
		return
	}
	if produtos == nil {
		produtos = []domain.Produto{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, produtos)
}

// CreateProduto handles product creation
func (h *CatalogHandler) CreateProduto(w http.ResponseWriter, r *http.Request) {
	var req ProdutoRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	vencimento, ok := parseVencimento(w, req.DataVencimento)
	if !ok {
		return
	}

	produto, err := h.catalogService.CreateProduto(r.Context(), req.Nome, req.Valor, vencimento)
	if err != nil {
		h.respondCatalogError(w, err, "Failed to create produto")
		return
	}

	h.logger.Info("Produto created", zap.String("produto_id", produto.ID.String()), zap.String("nome", produto.Nome))
	middleware.RespondWithJSON(w, http.StatusCreated, produto)
}

// UpdateProduto handles product updates
func (h *CatalogHandler) UpdateProduto(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid produto id")
		return
	}

	var req ProdutoRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	vencimento, ok := parseVencimento(w, req.DataVencimento)
	if !ok {
		return
	}

	produto, err := h.catalogService.UpdateProduto(r.Context(), id, req.Nome, req.Valor, vencimento)
	if err != nil {
		h.respondCatalogError(w, err, "Failed to update produto")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, produto)
}

// DeleteProduto handles product deletion
func (h *CatalogHandler) DeleteProduto(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid produto id")
		return
	}

	if err := h.catalogService.DeleteProduto(r.Context(), id); err != nil {
		h.respondCatalogError(w, err, "Failed to delete produto")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCombos returns all combos, active or not
func (h *CatalogHandler) ListCombos(w http.ResponseWriter, r *http.Request) {
	combos, err := h.catalogService.ListCombos(r.Context())
	if err != nil {
		h.logger.Error("Failed to list combos", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list combos")
		return
	}
	if combos == nil {
		combos = []domain.Combo{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, combos)
}

// CreateCombo handles combo creation
func (h *CatalogHandler) CreateCombo(w http.ResponseWriter, r *http.Request) {
	var req ComboRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	combo := comboFromRequest(uuid.Nil, req)
	if err := h.catalogService.CreateCombo(r.Context(), combo); err != nil {
		h.respondCatalogError(w, err, "Failed to create combo")
		return
	}

	h.logger.Info("Combo created", zap.String("combo_id", combo.ID.String()), zap.String("nome", combo.Nome))
	middleware.RespondWithJSON(w, http.StatusCreated, combo)
}

// UpdateCombo handles combo updates
func (h *CatalogHandler) UpdateCombo(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid combo id")
		return
	}

	var req ComboRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	combo := comboFromRequest(id, req)
	if err := h.catalogService.UpdateCombo(r.Context(), combo); err != nil {
		h.respondCatalogError(w, err, "Failed to update combo")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, combo)
}

// DeleteCombo handles combo deletion
func (h *CatalogHandler) DeleteCombo(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid combo id")
		return
	}

	if err := h.catalogService.DeleteCombo(r.Context(), id); err != nil {
		h.respondCatalogError(w, err, "Failed to delete combo")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) respondCatalogError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrNomeObrigatorio), errors.Is(err, service.ErrValorNegativo):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrProdutoNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "produto not found")
	case errors.Is(err, repository.ErrComboNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "combo not found")
	default:
		h.logger.Error(logMsg, zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

func parseVencimento(w http.ResponseWriter, raw string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	vencimento, err := time.Parse(dateLayout, raw)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid dataVencimento")
		return nil, false
	}
	return &vencimento, true
}

func comboFromRequest(id uuid.UUID, req ComboRequest) *domain.Combo {
	combo := &domain.Combo{
		ID:         id,
		Nome:       req.Nome,
		Descricao:  req.Descricao,
		ValorTotal: req.ValorTotal,
		Ativo:      req.Ativo,
	}
	for _, item := range req.Itens {
		combo.Itens = append(combo.Itens, domain.ItemCombo{
			ID:            uuid.New(),
			Produto:       &domain.Produto{ID: item.ProdutoID},
			Quantidade:    item.Quantidade,
			ValorUnitario: item.ValorUnitario,
		})
	}
	return combo
}
