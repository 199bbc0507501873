package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"confeitaria/internal/domain"

	"github.com/google/uuid"
)

var ErrPedidoNotFound = errors.New("pedido not found")

// PedidoRepository defines the interface for order data access. Orders are
// append-only except for their status; there is no delete.
type PedidoRepository interface {
	Create(ctx context.Context, pedido *domain.Pedido) error
	FindByID(ctx context.Context, kind domain.PedidoKind, id uuid.UUID) (*domain.Pedido, error)
	ListByKind(ctx context.Context, kind domain.PedidoKind) ([]domain.Pedido, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.StatusPedido) error
}

type pedidoRepository struct {
	db *sql.DB
}

// NewPedidoRepository creates a new instance of PedidoRepository
func NewPedidoRepository(db *sql.DB) PedidoRepository {
	return &pedidoRepository{db: db}
}

func (r *pedidoRepository) Create(ctx context.Context, pedido *domain.Pedido) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO pedidos (id, kind, cliente, descricao, status, valor_total, criado_em, data_entrega)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = tx.ExecContext(ctx, query,
		pedido.ID,
		pedido.Kind,
		pedido.Cliente,
		pedido.Descricao,
		pedido.Status,
		pedido.ValorTotal,
		pedido.CriadoEm,
		pedido.DataEntrega,
	)
	if err != nil {
		return fmt.Errorf("failed to create pedido: %w", err)
	}

	itemQuery := `
		INSERT INTO pedido_itens (id, pedido_id, produto_id, combo_id, quantidade, valor_unitario)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for i := range pedido.Itens {
		item := &pedido.Itens[i]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		var produtoID, comboID *uuid.UUID
		switch item.Kind {
		case domain.ItemKindProduto:
			id := item.RefID
			produtoID = &id
		case domain.ItemKindCombo:
			id := item.RefID
			comboID = &id
		}
		if _, err := tx.ExecContext(ctx, itemQuery,
			item.ID,
			pedido.ID,
			produtoID,
			comboID,
			item.Quantidade,
			item.ValorUnitario,
		); err != nil {
			return fmt.Errorf("failed to create pedido item: %w", err)
		}
	}

	return tx.Commit()
}

func (r *pedidoRepository) FindByID(ctx context.Context, kind domain.PedidoKind, id uuid.UUID) (*domain.Pedido, error) {
	query := `
		SELECT id, kind, cliente, descricao, status, valor_total, criado_em, data_entrega
		FROM pedidos
		WHERE id = $1 AND kind = $2
	`

	pedido, err := scanPedido(r.db.QueryRowContext(ctx, query, id, kind))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPedidoNotFound
		}
		return nil, fmt.Errorf("failed to find pedido: %w", err)
	}

	if err := r.loadItens(ctx, pedido); err != nil {
		return nil, err
	}
	return pedido, nil
}

func (r *pedidoRepository) ListByKind(ctx context.Context, kind domain.PedidoKind) ([]domain.Pedido, error) {
	query := `
		SELECT id, kind, cliente, descricao, status, valor_total, criado_em, data_entrega
		FROM pedidos
		WHERE kind = $1
		ORDER BY criado_em DESC
	`

	rows, err := r.db.QueryContext(ctx, query, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list pedidos: %w", err)
	}
	defer rows.Close()

	var pedidos []domain.Pedido
	for rows.Next() {
		pedido, err := scanPedido(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pedido: %w", err)
		}
		pedidos = append(pedidos, *pedido)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range pedidos {
		if err := r.loadItens(ctx, &pedidos[i]); err != nil {
			return nil, err
		}
	}
	return pedidos, nil
}

func (r *pedidoRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.StatusPedido) error {
	result, err := r.db.ExecContext(ctx, `UPDATE pedidos SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update pedido status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return ErrPedidoNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPedido(row rowScanner) (*domain.Pedido, error) {
	var pedido domain.Pedido
	var descricao sql.NullString
	var dataEntrega sql.NullTime
	if err := row.Scan(
		&pedido.ID,
		&pedido.Kind,
		&pedido.Cliente,
		&descricao,
		&pedido.Status,
		&pedido.ValorTotal,
		&pedido.CriadoEm,
		&dataEntrega,
	); err != nil {
		return nil, err
	}
	pedido.Descricao = descricao.String
	if dataEntrega.Valid {
		d := dataEntrega.Time
		pedido.DataEntrega = &d
	}
	return &pedido, nil
}

// loadItens fetches the order lines with the referenced product or combo
// left-joined. A line whose catalog entity was deleted keeps its quantity
// and captured unit price but carries no payload; normalization on the
// consuming side renders it degraded instead of failing.
func (r *pedidoRepository) loadItens(ctx context.Context, pedido *domain.Pedido) error {
	query := `
		SELECT i.id, i.quantidade, i.valor_unitario, i.produto_id, i.combo_id,
		       p.nome, p.valor, p.data_vencimento,
		       c.nome, c.descricao, c.valor_total, c.ativo
		FROM pedido_itens i
		LEFT JOIN produtos p ON p.id = i.produto_id
		LEFT JOIN combos c ON c.id = i.combo_id
		WHERE i.pedido_id = $1
		ORDER BY i.id
	`

	rows, err := r.db.QueryContext(ctx, query, pedido.ID)
	if err != nil {
		return fmt.Errorf("failed to load pedido itens: %w", err)
	}
	defer rows.Close()

	var itens []domain.LineItem
	for rows.Next() {
		var item domain.LineItem
		var (
			produtoID       sql.Null[uuid.UUID]
			comboID         sql.Null[uuid.UUID]
			produtoNome     sql.NullString
			produtoValor    sql.NullFloat64
			vencimento      sql.NullTime
			comboNome       sql.NullString
			comboDescricao  sql.NullString
			comboValorTotal sql.NullFloat64
			comboAtivo      sql.NullBool
		)
		if err := rows.Scan(
			&item.ID,
			&item.Quantidade,
			&item.ValorUnitario,
			&produtoID,
			&comboID,
			&produtoNome,
			&produtoValor,
			&vencimento,
			&comboNome,
			&comboDescricao,
			&comboValorTotal,
			&comboAtivo,
		); err != nil {
			return fmt.Errorf("failed to scan pedido item: %w", err)
		}

		switch {
		case comboID.Valid:
			item.Kind = domain.ItemKindCombo
			item.RefID = comboID.V
			item.Nome = comboNome.String
			item.Combo = &domain.Combo{
				ID:         comboID.V,
				Nome:       comboNome.String,
				Descricao:  comboDescricao.String,
				ValorTotal: comboValorTotal.Float64,
				Ativo:      comboAtivo.Bool,
			}
		case produtoID.Valid:
			item.Kind = domain.ItemKindProduto
			item.RefID = produtoID.V
			item.Nome = produtoNome.String
			produto := domain.Produto{
				ID:    produtoID.V,
				Nome:  produtoNome.String,
				Valor: produtoValor.Float64,
			}
			if vencimento.Valid {
				v := vencimento.Time
				produto.DataVencimento = &v
			}
			item.Produto = &produto
		default:
			// Referenced catalog entity was deleted; the line survives
			// without a payload.
			item.Kind = domain.ItemKindProduto
		}
		item.Recompute()
		itens = append(itens, item)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	// Nested combo lines are fetched so order views can show combo contents.
	combos := &comboRepository{db: r.db}
	for i := range itens {
		if itens[i].Combo == nil {
			continue
		}
		nested, err := combos.loadItens(ctx, itens[i].Combo.ID)
		if err != nil {
			return err
		}
		itens[i].Combo.Itens = nested
	}

	pedido.Itens = itens
	return nil
}
