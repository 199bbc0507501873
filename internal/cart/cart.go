// Package cart implements the in-memory aggregation of line items for an
// order being taken. A Cart is transient: it is discarded on submit, cancel
// or clear, and is never persisted.
package cart

import (
	"errors"

	"confeitaria/internal/domain"

	"github.com/google/uuid"
)

// ErrInvalidCombo is returned when a combo with no resolvable product lines
// is added to the cart.
var ErrInvalidCombo = errors.New("combo has no usable product lines")

type itemKey struct {
	kind domain.ItemKind
	id   uuid.UUID
}

// Cart aggregates line items for an in-progress order. It holds at most one
// line per (kind, id) pair; duplicate additions merge by incrementing
// quantity. Cart is not safe for concurrent use; a cart belongs to a single
// intake flow.
type Cart struct {
	order []itemKey
	items map[itemKey]*domain.LineItem
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{items: make(map[itemKey]*domain.LineItem)}
}

// AddProduto adds one unit of the product. If a line for the same product
// already exists its quantity is incremented; otherwise a new line is
// appended with the product's current price copied in. Later catalog price
// changes never affect lines already in the cart.
func (c *Cart) AddProduto(p domain.Produto) {
	key := itemKey{kind: domain.ItemKindProduto, id: p.ID}
	if item, ok := c.items[key]; ok {
		item.Quantidade++
		item.Recompute()
		return
	}

	produto := p
	item := &domain.LineItem{
		Kind:          domain.ItemKindProduto,
		RefID:         p.ID,
		Nome:          p.Nome,
		Quantidade:    1,
		ValorUnitario: p.Valor,
		ValorTotal:    p.Valor,
		Produto:       &produto,
	}
	c.items[key] = item
	c.order = append(c.order, key)
}

// AddCombo adds one unit of the combo, keyed by combo id. The unit price is
// the combo's authored total price, copied verbatim; the combo's internal
// line prices are retained only for display and never summed. Combos with no
// usable lines are rejected with ErrInvalidCombo before the cart is touched.
func (c *Cart) AddCombo(cb domain.Combo) error {
	if !cb.Usable() {
		return ErrInvalidCombo
	}

	key := itemKey{kind: domain.ItemKindCombo, id: cb.ID}
	if item, ok := c.items[key]; ok {
		item.Quantidade++
		item.Recompute()
		return nil
	}

	combo := cb
	item := &domain.LineItem{
		Kind:          domain.ItemKindCombo,
		RefID:         cb.ID,
		Nome:          cb.Nome,
		Quantidade:    1,
		ValorUnitario: cb.ValorTotal,
		ValorTotal:    cb.ValorTotal,
		Combo:         &combo,
	}
	c.items[key] = item
	c.order = append(c.order, key)
	return nil
}

// SetQuantidade sets the quantity of the matching line, clamping n to at
// least 1, and recomputes the line total. A quantity change never removes a
// line; use Remove for that. Unknown (kind, id) pairs are a no-op.
func (c *Cart) SetQuantidade(kind domain.ItemKind, id uuid.UUID, n int) {
	item, ok := c.items[itemKey{kind: kind, id: id}]
	if !ok {
		return
	}
	if n < 1 {
		n = 1
	}
	item.Quantidade = n
	item.Recompute()
}

// Remove deletes the matching line from the cart.
func (c *Cart) Remove(kind domain.ItemKind, id uuid.UUID) {
	key := itemKey{kind: kind, id: id}
	if _, ok := c.items[key]; !ok {
		return
	}
	delete(c.items, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.order = nil
	c.items = make(map[itemKey]*domain.LineItem)
}

// GrandTotal returns the sum of all line totals.
func (c *Cart) GrandTotal() float64 {
	var total float64
	for _, item := range c.items {
		total += item.ValorTotal
	}
	return total
}

// Len returns the number of lines in the cart.
func (c *Cart) Len() int {
	return len(c.items)
}

// Itens returns the cart lines in insertion order. The returned slice holds
// copies; mutating it does not affect the cart.
func (c *Cart) Itens() []domain.LineItem {
	itens := make([]domain.LineItem, 0, len(c.order))
	for _, key := range c.order {
		itens = append(itens, *c.items[key])
	}
	return itens
}
