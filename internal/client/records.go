package client

import "github.com/google/uuid"

// Record types mirror the server's JSON with every field optional. Orders
// placed before a catalog entity was deleted come back with missing nested
// objects or totals; the normalize package turns these into fully populated
// domain values.

// ProdutoRecord is a raw product as returned by the server.
type ProdutoRecord struct {
	ID             *uuid.UUID `json:"id"`
	Nome           *string    `json:"nome"`
	Valor          *float64   `json:"valor"`
	DataVencimento *string    `json:"dataVencimento"`
}

// ItemComboRecord is one raw combo line.
type ItemComboRecord struct {
	ID            *uuid.UUID     `json:"id"`
	Produto       *ProdutoRecord `json:"produto"`
	Quantidade    *int           `json:"quantidade"`
	ValorUnitario *float64       `json:"valorUnitario"`
}

// ComboRecord is a raw combo definition.
type ComboRecord struct {
	ID         *uuid.UUID        `json:"id"`
	Nome       *string           `json:"nome"`
	Descricao  *string           `json:"descricao"`
	ValorTotal *float64          `json:"valorTotal"`
	Ativo      *bool             `json:"ativo"`
	Itens      []ItemComboRecord `json:"itens"`
}

// ItemPedidoRecord is one raw order line. Produto and Combo are both
// optional: at most one is set, and both may be absent when the referenced
// catalog entity was deleted after the order was placed.
type ItemPedidoRecord struct {
	ID            *uuid.UUID     `json:"id"`
	Quantidade    *int           `json:"quantidade"`
	ValorUnitario *float64       `json:"valorUnitario"`
	ValorTotal    *float64       `json:"valorTotal"`
	Produto       *ProdutoRecord `json:"produto"`
	Combo         *ComboRecord   `json:"combo"`
}

// PedidoRecord is a raw order as returned by the server.
type PedidoRecord struct {
	ID          *uuid.UUID         `json:"id"`
	Kind        *string            `json:"kind"`
	Cliente     *string            `json:"cliente"`
	Descricao   *string            `json:"descricao"`
	Status      *string            `json:"status"`
	ValorTotal  *float64           `json:"valorTotal"`
	Itens       []ItemPedidoRecord `json:"itens"`
	CriadoEm    *string            `json:"criadoEm"`
	DataEntrega *string            `json:"dataEntrega"`
}

// CatalogRecord is the raw catalog listing.
type CatalogRecord struct {
	Produtos []ProdutoRecord `json:"produtos"`
	Combos   []ComboRecord   `json:"combos"`
}
