package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"confeitaria/internal/domain"
	"confeitaria/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrPedidoSemItens = errors.New("pedido must have at least one item")
	ErrClienteVazio   = errors.New("cliente is required")
	ErrItemSemRef     = errors.New("pedido item must reference a produto or a combo")
	ErrStatusInvalido = errors.New("unknown status")
)

// CreatePedidoInput is the order-creation command. Unit prices come from the
// client as captured at intake time; they are never re-read from the catalog,
// so orders are immune to later price changes.
type CreatePedidoInput struct {
	Cliente     string
	Descricao   string
	DataEntrega *time.Time
	Itens       []CreatePedidoItem
}

// CreatePedidoItem is one line of the command. Exactly one of ProdutoID and
// ComboID must be set.
type CreatePedidoItem struct {
	ProdutoID     *uuid.UUID
	ComboID       *uuid.UUID
	Quantidade    int
	ValorUnitario float64
}

// PedidoService defines the interface for order business logic
type PedidoService interface {
	Create(ctx context.Context, kind domain.PedidoKind, input CreatePedidoInput) (*domain.Pedido, error)
	List(ctx context.Context, kind domain.PedidoKind) ([]domain.Pedido, error)
	UpdateStatus(ctx context.Context, kind domain.PedidoKind, id uuid.UUID, target domain.StatusPedido) (*domain.Pedido, error)
}

type pedidoService struct {
	pedidoRepo repository.PedidoRepository
}

// NewPedidoService creates a new instance of PedidoService
func NewPedidoService(pedidoRepo repository.PedidoRepository) PedidoService {
	return &pedidoService{pedidoRepo: pedidoRepo}
}

// Create persists a new PENDENTE order. Line and order totals are computed
// from the submitted quantities and unit prices.
func (s *pedidoService) Create(ctx context.Context, kind domain.PedidoKind, input CreatePedidoInput) (*domain.Pedido, error) {
	if input.Cliente == "" {
		return nil, ErrClienteVazio
	}
	if len(input.Itens) == 0 {
		return nil, ErrPedidoSemItens
	}

	pedido := &domain.Pedido{
		ID:          uuid.New(),
		Kind:        kind,
		Cliente:     input.Cliente,
		Descricao:   input.Descricao,
		Status:      domain.StatusPendente,
		CriadoEm:    time.Now(),
		DataEntrega: input.DataEntrega,
	}

	for _, in := range input.Itens {
		quantidade := in.Quantidade
		if quantidade < 1 {
			quantidade = 1
		}
		item := domain.LineItem{
			ID:            uuid.New(),
			Quantidade:    quantidade,
			ValorUnitario: in.ValorUnitario,
		}
		switch {
		case in.ComboID != nil:
			item.Kind = domain.ItemKindCombo
			item.RefID = *in.ComboID
		case in.ProdutoID != nil:
			item.Kind = domain.ItemKindProduto
			item.RefID = *in.ProdutoID
		default:
			return nil, ErrItemSemRef
		}
		item.Recompute()
		pedido.Itens = append(pedido.Itens, item)
	}
	pedido.ValorTotal = pedido.SomaItens()

	if err := s.pedidoRepo.Create(ctx, pedido); err != nil {
		return nil, fmt.Errorf("failed to create pedido: %w", err)
	}

	// Re-read so the response carries the joined catalog payloads.
	stored, err := s.pedidoRepo.FindByID(ctx, kind, pedido.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload pedido: %w", err)
	}
	return stored, nil
}

func (s *pedidoService) List(ctx context.Context, kind domain.PedidoKind) ([]domain.Pedido, error) {
	pedidos, err := s.pedidoRepo.ListByKind(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list pedidos: %w", err)
	}
	return pedidos, nil
}

// UpdateStatus validates target against the fulfillment graph and persists
// it. An illegal target fails with domain.ErrIllegalTransition and leaves
// the stored order unchanged.
func (s *pedidoService) UpdateStatus(ctx context.Context, kind domain.PedidoKind, id uuid.UUID, target domain.StatusPedido) (*domain.Pedido, error) {
	if !target.Valid() {
		return nil, ErrStatusInvalido
	}

	pedido, err := s.pedidoRepo.FindByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	if !pedido.Status.CanTransition(target) {
		return nil, fmt.Errorf("%s -> %s: %w", pedido.Status, target, domain.ErrIllegalTransition)
	}

	if err := s.pedidoRepo.UpdateStatus(ctx, id, target); err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	pedido.Status = target
	return pedido, nil
}
