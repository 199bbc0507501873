package domain

import (
	"time"

	"github.com/google/uuid"
)

// Produto represents a product in the catalog
type Produto struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	Nome           string     `json:"nome" db:"nome"`
	Valor          float64    `json:"valor" db:"valor"`
	DataVencimento *time.Time `json:"dataVencimento,omitempty" db:"data_vencimento"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// ItemCombo is one fixed product line inside a combo. ValorUnitario is the
// product price captured when the combo was authored; it is kept for display
// and never summed into the combo price.
type ItemCombo struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Produto       *Produto  `json:"produto"`
	Quantidade    int       `json:"quantidade" db:"quantidade"`
	ValorUnitario float64   `json:"valorUnitario" db:"valor_unitario"`
}

// Resolved reports whether the referenced product still exists.
func (i ItemCombo) Resolved() bool {
	return i.Produto != nil
}

// Combo is a named bundle of product quantities sold at a single authored
// price. ValorTotal is independent of the sum of its line prices; combos may
// be discounted.
type Combo struct {
	ID         uuid.UUID   `json:"id" db:"id"`
	Nome       string      `json:"nome" db:"nome"`
	Descricao  string      `json:"descricao" db:"descricao"`
	ValorTotal float64     `json:"valorTotal" db:"valor_total"`
	Ativo      bool        `json:"ativo" db:"ativo"`
	Itens      []ItemCombo `json:"itens"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at" db:"updated_at"`
}

// UsableItens returns the combo lines whose product can still be resolved.
func (c Combo) UsableItens() []ItemCombo {
	usable := make([]ItemCombo, 0, len(c.Itens))
	for _, item := range c.Itens {
		if item.Resolved() {
			usable = append(usable, item)
		}
	}
	return usable
}

// Usable reports whether the combo has at least one resolvable line. Combos
// with no usable lines stay in the catalog but cannot be added to a cart.
func (c Combo) Usable() bool {
	return len(c.UsableItens()) > 0
}
