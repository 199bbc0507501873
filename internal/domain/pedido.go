package domain

import (
	"time"

	"github.com/google/uuid"
)

// PedidoKind distinguishes the two order instantiations: vendas are
// timestamped at creation, encomendas carry a future delivery date.
type PedidoKind string

const (
	KindVenda     PedidoKind = "venda"
	KindEncomenda PedidoKind = "encomenda"
)

// Valid reports whether k is a known order kind.
func (k PedidoKind) Valid() bool {
	return k == KindVenda || k == KindEncomenda
}

// ItemKind tags a line item as referencing a product or a combo.
type ItemKind string

const (
	ItemKindProduto ItemKind = "produto"
	ItemKindCombo   ItemKind = "combo"
)

// LineItem is one priced, quantified entry within a cart or order. Exactly
// one of Produto/Combo is set according to Kind; a nil payload means the
// referenced catalog entity could no longer be resolved and the item is
// displayed degraded.
type LineItem struct {
	ID            uuid.UUID `json:"id"`
	Kind          ItemKind  `json:"tipo"`
	RefID         uuid.UUID `json:"refId"`
	Nome          string    `json:"nome"`
	Quantidade    int       `json:"quantidade"`
	ValorUnitario float64   `json:"valorUnitario"`
	ValorTotal    float64   `json:"valorTotal"`
	Produto       *Produto  `json:"produto,omitempty"`
	Combo         *Combo    `json:"combo,omitempty"`
}

// Resolved reports whether the item still references a live catalog entity.
func (li LineItem) Resolved() bool {
	switch li.Kind {
	case ItemKindProduto:
		return li.Produto != nil
	case ItemKindCombo:
		return li.Combo != nil
	}
	return false
}

// Recompute restores the ValorTotal invariant after a quantity change.
func (li *LineItem) Recompute() {
	li.ValorTotal = float64(li.Quantidade) * li.ValorUnitario
}

// Pedido is a customer order. Line items are immutable after creation; the
// only permitted mutation is a status transition, and orders are never
// deleted, only moved to a terminal status.
type Pedido struct {
	ID          uuid.UUID    `json:"id"`
	Kind        PedidoKind   `json:"kind"`
	Cliente     string       `json:"cliente"`
	Descricao   string       `json:"descricao,omitempty"`
	Status      StatusPedido `json:"status"`
	Itens       []LineItem   `json:"itens"`
	ValorTotal  float64      `json:"valorTotal"`
	CriadoEm    time.Time    `json:"criadoEm"`
	DataEntrega *time.Time   `json:"dataEntrega,omitempty"`
}

// Ativo reports whether the order is still in the production workflow; the
// production board shows only active orders.
func (p Pedido) Ativo() bool {
	return !p.Status.Terminal()
}

// SomaItens returns the sum of the line item totals.
func (p Pedido) SomaItens() float64 {
	var total float64
	for _, item := range p.Itens {
		total += item.ValorTotal
	}
	return total
}
