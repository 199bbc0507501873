// Package normalize defensively reconstructs domain values from raw server
// records. Historical orders may reference catalog entities deleted after
// the order was placed; normalization substitutes placeholders and recomputes
// totals instead of failing, so a bad record never prevents the rest of a
// view from rendering. It runs on every fetch from the collaborator, not
// only at creation.
package normalize

import (
	"time"

	"confeitaria/internal/client"
	"confeitaria/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PlaceholderProdutoNome is substituted for a line item whose product can no
// longer be resolved.
const PlaceholderProdutoNome = "Produto não encontrado"

const dateLayout = "2006-01-02"

// Normalizer converts collaborator records into fully populated domain
// values. Missing references are logged at warn level; they are a degraded
// display condition, not an error.
type Normalizer struct {
	logger *zap.Logger
}

// New creates a Normalizer.
func New(logger *zap.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Pedidos normalizes a list of order records. kind is applied to records
// that do not carry their own.
func (n *Normalizer) Pedidos(records []client.PedidoRecord, kind domain.PedidoKind) []domain.Pedido {
	pedidos := make([]domain.Pedido, 0, len(records))
	for _, rec := range records {
		pedidos = append(pedidos, n.Pedido(rec, kind))
	}
	return pedidos
}

// Pedido normalizes one order record. Absent quantities and unit prices
// default to zero, absent line totals are recomputed as quantity x unit
// price, and an absent order total defaults to the sum of its lines.
func (n *Normalizer) Pedido(rec client.PedidoRecord, kind domain.PedidoKind) domain.Pedido {
	pedido := domain.Pedido{
		Kind:      kind,
		Cliente:   stringOr(rec.Cliente, ""),
		Descricao: stringOr(rec.Descricao, ""),
		Status:    domain.StatusPendente,
	}
	if rec.ID != nil {
		pedido.ID = *rec.ID
	}
	if rec.Kind != nil && domain.PedidoKind(*rec.Kind).Valid() {
		pedido.Kind = domain.PedidoKind(*rec.Kind)
	}
	if rec.Status != nil && domain.StatusPedido(*rec.Status).Valid() {
		pedido.Status = domain.StatusPedido(*rec.Status)
	}
	if rec.CriadoEm != nil {
		if ts, err := time.Parse(time.RFC3339, *rec.CriadoEm); err == nil {
			pedido.CriadoEm = ts
		}
	}
	if rec.DataEntrega != nil {
		if d, err := time.Parse(dateLayout, *rec.DataEntrega); err == nil {
			pedido.DataEntrega = &d
		}
	}

	for _, itemRec := range rec.Itens {
		pedido.Itens = append(pedido.Itens, n.lineItem(pedido.ID, itemRec))
	}

	if rec.ValorTotal != nil {
		pedido.ValorTotal = *rec.ValorTotal
	} else {
		pedido.ValorTotal = pedido.SomaItens()
	}
	return pedido
}

// lineItem normalizes one order line into the tagged variant. A line whose
// product and combo are both absent becomes a product line carrying the
// placeholder product, so it still renders with a name and a zero price.
func (n *Normalizer) lineItem(pedidoID uuid.UUID, rec client.ItemPedidoRecord) domain.LineItem {
	item := domain.LineItem{
		Quantidade:    intOr(rec.Quantidade, 0),
		ValorUnitario: floatOr(rec.ValorUnitario, 0),
	}
	if rec.ID != nil {
		item.ID = *rec.ID
	}

	switch {
	case rec.Combo != nil:
		combo := n.Combo(*rec.Combo)
		item.Kind = domain.ItemKindCombo
		item.RefID = combo.ID
		item.Nome = combo.Nome
		item.Combo = &combo
	case rec.Produto != nil:
		produto := n.Produto(*rec.Produto)
		item.Kind = domain.ItemKindProduto
		item.RefID = produto.ID
		item.Nome = produto.Nome
		item.Produto = &produto
	default:
		n.logger.Warn("Order line references a missing catalog entity",
			zap.String("pedido_id", pedidoID.String()),
		)
		placeholder := domain.Produto{Nome: PlaceholderProdutoNome, Valor: 0}
		item.Kind = domain.ItemKindProduto
		item.Nome = placeholder.Nome
		item.Produto = &placeholder
	}

	if rec.ValorTotal != nil {
		item.ValorTotal = *rec.ValorTotal
	} else {
		item.Recompute()
	}
	return item
}

// Produto normalizes one product record, substituting the placeholder name
// and a zero price for absent fields.
func (n *Normalizer) Produto(rec client.ProdutoRecord) domain.Produto {
	produto := domain.Produto{
		Nome:  stringOr(rec.Nome, PlaceholderProdutoNome),
		Valor: floatOr(rec.Valor, 0),
	}
	if rec.ID != nil {
		produto.ID = *rec.ID
	}
	if rec.DataVencimento != nil {
		if d, err := time.Parse(dateLayout, *rec.DataVencimento); err == nil {
			produto.DataVencimento = &d
		}
	}
	return produto
}

// Combo normalizes one combo record. Lines with an unresolvable product are
// kept with a nil Produto so Combo.Usable can flag the combo.
func (n *Normalizer) Combo(rec client.ComboRecord) domain.Combo {
	combo := domain.Combo{
		Nome:       stringOr(rec.Nome, ""),
		Descricao:  stringOr(rec.Descricao, ""),
		ValorTotal: floatOr(rec.ValorTotal, 0),
		Ativo:      boolOr(rec.Ativo, false),
	}
	if rec.ID != nil {
		combo.ID = *rec.ID
	}
	for _, itemRec := range rec.Itens {
		item := domain.ItemCombo{
			Quantidade:    intOr(itemRec.Quantidade, 0),
			ValorUnitario: floatOr(itemRec.ValorUnitario, 0),
		}
		if itemRec.ID != nil {
			item.ID = *itemRec.ID
		}
		if itemRec.Produto != nil && itemRec.Produto.ID != nil {
			produto := n.Produto(*itemRec.Produto)
			item.Produto = &produto
		} else {
			n.logger.Warn("Combo line references a missing product",
				zap.String("combo", combo.Nome),
			)
		}
		combo.Itens = append(combo.Itens, item)
	}
	return combo
}

func stringOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

func intOr(i *int, fallback int) int {
	if i == nil {
		return fallback
	}
	return *i
}

func floatOr(f *float64, fallback float64) float64 {
	if f == nil {
		return fallback
	}
	return *f
}

func boolOr(b *bool, fallback bool) bool {
	if b == nil {
		return fallback
	}
	return *b
}
