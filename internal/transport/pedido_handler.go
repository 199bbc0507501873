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

const dateLayout = "2006-01-02"

// CreatePedidoRequest represents the order creation payload
type CreatePedidoRequest struct {
	Cliente     string              `json:"cliente" validate:"required"`
	Descricao   string              `json:"descricao"`
	DataEntrega string              `json:"dataEntrega"`
	Itens       []PedidoItemRequest `json:"itens" validate:"required,min=1,dive"`
}

// PedidoItemRequest represents one line of the creation payload
type PedidoItemRequest struct {
	ProdutoID     *uuid.UUID `json:"produtoId"`
	ComboID       *uuid.UUID `json:"comboId"`
	Quantidade    int        `json:"quantidade" validate:"required,min=1"`
	ValorUnitario float64    `json:"valorUnitario" validate:"gte=0"`
}

// UpdateStatusRequest represents the status transition payload
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// PedidoHandler handles HTTP requests for order operations
type PedidoHandler struct {
	pedidoService service.PedidoService
	logger        *zap.Logger
}

// NewPedidoHandler creates a new PedidoHandler
func NewPedidoHandler(pedidoService service.PedidoService, logger *zap.Logger) *PedidoHandler {
	return &PedidoHandler{pedidoService: pedidoService, logger: logger}
}

// RegisterRoutes registers all order routes
func (h *PedidoHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/pedidos", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Put("/{id}/status", h.UpdateStatus)
	})
}

func pedidoKind(r *http.Request) (domain.PedidoKind, bool) {
	kind := domain.PedidoKind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = domain.KindVenda
	}
	return kind, kind.Valid()
}

// List returns the full order set of the requested kind
func (h *PedidoHandler) List(w http.ResponseWriter, r *http.Request) {
	kind, ok := pedidoKind(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "unknown pedido kind")
		return
	}

	pedidos, err := h.pedidoService.List(r.Context(), kind)
	if err != nil {
		h.logger.Error("Failed to list pedidos", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list pedidos")
		return
	}

	if pedidos == nil {
		pedidos = []domain.Pedido{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, pedidos)
}

// Create handles order creation
func (h *PedidoHandler) Create(w http.ResponseWriter, r *http.Request) {
	kind, ok := pedidoKind(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "unknown pedido kind")
		return
	}

	var req CreatePedidoRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Pedido validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := service.CreatePedidoInput{
		Cliente:   req.Cliente,
		Descricao: req.Descricao,
	}
	if req.DataEntrega != "" {
		entrega, err := time.Parse(dateLayout, req.DataEntrega)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid dataEntrega")
			return
		}
		input.DataEntrega = &entrega
	}
	for _, item := range req.Itens {
		input.Itens = append(input.Itens, service.CreatePedidoItem{
			ProdutoID:     item.ProdutoID,
			ComboID:       item.ComboID,
			Quantidade:    item.Quantidade,
			ValorUnitario: item.ValorUnitario,
		})
	}

	pedido, err := h.pedidoService.Create(r.Context(), kind, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClienteVazio),
			errors.Is(err, service.ErrPedidoSemItens),
			errors.Is(err, service.ErrItemSemRef):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Failed to create pedido", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create pedido")
		}
		return
	}

	h.logger.Info("Pedido created",
		zap.String("pedido_id", pedido.ID.String()),
		zap.String("kind", string(kind)),
		zap.Float64("valor_total", pedido.ValorTotal),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, pedido)
}

// UpdateStatus handles fulfillment transitions
func (h *PedidoHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	kind, ok := pedidoKind(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "unknown pedido kind")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid pedido id")
		return
	}

	var req UpdateStatusRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pedido, err := h.pedidoService.UpdateStatus(r.Context(), kind, id, domain.StatusPedido(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStatusInvalido):
			middleware.RespondWithError(w, http.StatusBadRequest, "unknown status")
		case errors.Is(err, domain.ErrIllegalTransition):
			middleware.RespondWithError(w, http.StatusConflict, err.Error())
		case errors.Is(err, repository.ErrPedidoNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "pedido not found")
		default:
			h.logger.Error("Failed to update pedido status", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update status")
		}
		return
	}

	h.logger.Info("Pedido status updated",
		zap.String("pedido_id", id.String()),
		zap.String("status", req.Status),
	)
	middleware.RespondWithJSON(w, http.StatusOK, pedido)
}
