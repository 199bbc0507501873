package cart

import (
	"testing"

	"confeitaria/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func produto(nome string, valor float64) domain.Produto {
	return domain.Produto{ID: uuid.New(), Nome: nome, Valor: valor}
}

func comboCom(nome string, valorTotal float64, itens ...domain.ItemCombo) domain.Combo {
	return domain.Combo{
		ID:         uuid.New(),
		Nome:       nome,
		ValorTotal: valorTotal,
		Ativo:      true,
		Itens:      itens,
	}
}

func TestAddProdutoMergesDuplicates(t *testing.T) {
	c := New()
	bolo := produto("Bolo", 35.0)

	c.AddProduto(bolo)
	c.AddProduto(bolo)

	require.Equal(t, 1, c.Len())
	item := c.Itens()[0]
	assert.Equal(t, 2, item.Quantidade)
	assert.Equal(t, 70.0, item.ValorTotal)
	assert.Equal(t, 70.0, c.GrandTotal())
}

func TestAddComboUsesAuthoredPriceVerbatim(t *testing.T) {
	c := New()
	brigadeiro := produto("Brigadeiro", 30.0)

	// Authored total 50 deliberately diverges from the 60 line sum; the
	// cart must charge the authored figure.
	cb := comboCom("Festa", 50.0, domain.ItemCombo{
		Produto:       &brigadeiro,
		Quantidade:    2,
		ValorUnitario: 30.0,
	})

	require.NoError(t, c.AddCombo(cb))
	assert.Equal(t, 50.0, c.GrandTotal())

	item := c.Itens()[0]
	assert.Equal(t, domain.ItemKindCombo, item.Kind)
	assert.Equal(t, 50.0, item.ValorUnitario)
	require.NotNil(t, item.Combo)
	assert.Len(t, item.Combo.Itens, 1)
}

func TestAddComboRejectsUnusableCombo(t *testing.T) {
	c := New()

	// Every line references a deleted product.
	cb := comboCom("Vazio", 40.0, domain.ItemCombo{Quantidade: 1, ValorUnitario: 40.0})

	err := c.AddCombo(cb)
	assert.ErrorIs(t, err, ErrInvalidCombo)
	assert.Equal(t, 0, c.Len())
}

func TestSetQuantidadeClampsToOne(t *testing.T) {
	c := New()
	bolo := produto("Bolo", 35.0)
	c.AddProduto(bolo)

	for _, n := range []int{0, -1, -100} {
		c.SetQuantidade(domain.ItemKindProduto, bolo.ID, n)
		assert.Equal(t, 1, c.Itens()[0].Quantidade)
		assert.Equal(t, 35.0, c.GrandTotal())
	}

	c.SetQuantidade(domain.ItemKindProduto, bolo.ID, 7)
	assert.Equal(t, 7, c.Itens()[0].Quantidade)
	assert.Equal(t, 245.0, c.GrandTotal())
}

func TestSetQuantidadeUnknownItemIsNoop(t *testing.T) {
	c := New()
	c.SetQuantidade(domain.ItemKindProduto, uuid.New(), 3)
	assert.Equal(t, 0, c.Len())
}

func TestRemoveAndClear(t *testing.T) {
	c := New()
	bolo := produto("Bolo", 35.0)
	torta := produto("Torta", 42.5)
	c.AddProduto(bolo)
	c.AddProduto(torta)

	c.Remove(domain.ItemKindProduto, bolo.ID)
	require.Equal(t, 1, c.Len())
	assert.Equal(t, "Torta", c.Itens()[0].Nome)

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0.0, c.GrandTotal())
}

func TestProdutoAndComboWithSameIDDoNotMerge(t *testing.T) {
	c := New()
	id := uuid.New()
	p := domain.Produto{ID: id, Nome: "Bolo", Valor: 35.0}
	other := produto("Brigadeiro", 3.0)
	cb := domain.Combo{
		ID:         id,
		Nome:       "Combo Bolo",
		ValorTotal: 60.0,
		Ativo:      true,
		Itens:      []domain.ItemCombo{{Produto: &other, Quantidade: 2, ValorUnitario: 3.0}},
	}

	c.AddProduto(p)
	require.NoError(t, c.AddCombo(cb))

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 95.0, c.GrandTotal())
}

// Property: after any sequence of additions the cart holds at most one line
// per (kind, id), and the grand total always equals the sum of
// quantity x unit price across lines.
func TestProperty_CartMergesAndTotals(t *testing.T) {
	properties := gopter.NewProperties(nil)

	produtos := []domain.Produto{
		produto("Bolo", 35.0),
		produto("Torta", 42.5),
		produto("Brigadeiro", 3.0),
	}

	properties.Property("at most one line per product, total is the line sum", prop.ForAll(
		func(picks []int) bool {
			c := New()
			for _, pick := range picks {
				c.AddProduto(produtos[pick%len(produtos)])
			}

			seen := make(map[uuid.UUID]bool)
			var sum float64
			for _, item := range c.Itens() {
				if seen[item.RefID] {
					return false
				}
				seen[item.RefID] = true
				if item.ValorTotal != float64(item.Quantidade)*item.ValorUnitario {
					return false
				}
				sum += item.ValorTotal
			}
			return c.GrandTotal() == sum && c.Len() <= len(produtos)
		},
		gen.SliceOf(gen.IntRange(0, 2)),
	))

	properties.Property("quantity never drops below one", prop.ForAll(
		func(n int) bool {
			c := New()
			p := produtos[0]
			c.AddProduto(p)
			c.SetQuantidade(domain.ItemKindProduto, p.ID, n)
			q := c.Itens()[0].Quantidade
			if n < 1 {
				return q == 1
			}
			return q == n
		},
		gen.IntRange(-50, 50),
	))

	properties.TestingRun(t)
}
