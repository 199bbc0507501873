// Package catalog provides the immutable-per-fetch read model of products
// and active combos used during order intake.
package catalog

import (
	"context"
	"fmt"

	"confeitaria/internal/client"
	"confeitaria/internal/normalize"
	"confeitaria/internal/domain"

	"github.com/google/uuid"
)

// Snapshot is one fetch of the catalog. Combos are filtered to the active
// ones; combos whose every line references a deleted product are retained
// but report Usable() == false so intake surfaces can disable them.
type Snapshot struct {
	Produtos []domain.Produto
	Combos   []domain.Combo
}

// Load fetches and normalizes the catalog. Transport failures propagate as
// a *client.FetchError; the catalog is never retried here.
func Load(ctx context.Context, api client.API, n *normalize.Normalizer) (*Snapshot, error) {
	record, err := api.ListCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	snap := &Snapshot{
		Produtos: make([]domain.Produto, 0, len(record.Produtos)),
		Combos:   make([]domain.Combo, 0, len(record.Combos)),
	}
	for _, rec := range record.Produtos {
		snap.Produtos = append(snap.Produtos, n.Produto(rec))
	}
	for _, rec := range record.Combos {
		combo := n.Combo(rec)
		if combo.Ativo {
			snap.Combos = append(snap.Combos, combo)
		}
	}
	return snap, nil
}

// ProdutoByID looks up a product in the snapshot.
func (s *Snapshot) ProdutoByID(id uuid.UUID) (domain.Produto, bool) {
	for _, p := range s.Produtos {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Produto{}, false
}

// ComboByID looks up a combo in the snapshot.
func (s *Snapshot) ComboByID(id uuid.UUID) (domain.Combo, bool) {
	for _, c := range s.Combos {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Combo{}, false
}

// UsableCombos returns the combos that can currently be added to a cart.
func (s *Snapshot) UsableCombos() []domain.Combo {
	usable := make([]domain.Combo, 0, len(s.Combos))
	for _, c := range s.Combos {
		if c.Usable() {
			usable = append(usable, c)
		}
	}
	return usable
}
