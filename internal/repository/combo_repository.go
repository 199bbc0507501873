package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"confeitaria/internal/domain"

	"github.com/google/uuid"
)

var ErrComboNotFound = errors.New("combo not found")

// ComboRepository defines the interface for combo data access
type ComboRepository interface {
	Create(ctx context.Context, combo *domain.Combo) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Combo, error)
	List(ctx context.Context) ([]domain.Combo, error)
	Update(ctx context.Context, combo *domain.Combo) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type comboRepository struct {
	db *sql.DB
}

// NewComboRepository creates a new instance of ComboRepository
func NewComboRepository(db *sql.DB) ComboRepository {
	return &comboRepository{db: db}
}

func (r *comboRepository) Create(ctx context.Context, combo *domain.Combo) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO combos (id, nome, descricao, valor_total, ativo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = tx.ExecContext(ctx, query,
		combo.ID,
		combo.Nome,
		combo.Descricao,
		combo.ValorTotal,
		combo.Ativo,
		combo.CreatedAt,
		combo.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create combo: %w", err)
	}

	if err := insertComboItens(ctx, tx, combo); err != nil {
		return err
	}

	return tx.Commit()
}

func insertComboItens(ctx context.Context, tx *sql.Tx, combo *domain.Combo) error {
	query := `
		INSERT INTO combo_itens (id, combo_id, produto_id, quantidade, valor_unitario)
		VALUES ($1, $2, $3, $4, $5)
	`
	for i := range combo.Itens {
		item := &combo.Itens[i]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		var produtoID *uuid.UUID
		if item.Produto != nil {
			produtoID = &item.Produto.ID
		}
		if _, err := tx.ExecContext(ctx, query,
			item.ID,
			combo.ID,
			produtoID,
			item.Quantidade,
			item.ValorUnitario,
		); err != nil {
			return fmt.Errorf("failed to create combo item: %w", err)
		}
	}
	return nil
}

func (r *comboRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Combo, error) {
	query := `
		SELECT id, nome, descricao, valor_total, ativo, created_at, updated_at
		FROM combos
		WHERE id = $1
	`

	var combo domain.Combo
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&combo.ID,
		&combo.Nome,
		&combo.Descricao,
		&combo.ValorTotal,
		&combo.Ativo,
		&combo.CreatedAt,
		&combo.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrComboNotFound
		}
		return nil, fmt.Errorf("failed to find combo: %w", err)
	}

	itens, err := r.loadItens(ctx, combo.ID)
	if err != nil {
		return nil, err
	}
	combo.Itens = itens
	return &combo, nil
}

func (r *comboRepository) List(ctx context.Context) ([]domain.Combo, error) {
	query := `
		SELECT id, nome, descricao, valor_total, ativo, created_at, updated_at
		FROM combos
		ORDER BY nome
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list combos: %w", err)
	}
	defer rows.Close()

	var combos []domain.Combo
	for rows.Next() {
		var combo domain.Combo
		if err := rows.Scan(
			&combo.ID,
			&combo.Nome,
			&combo.Descricao,
			&combo.ValorTotal,
			&combo.Ativo,
			&combo.CreatedAt,
			&combo.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan combo: %w", err)
		}
		combos = append(combos, combo)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range combos {
		itens, err := r.loadItens(ctx, combos[i].ID)
		if err != nil {
			return nil, err
		}
		combos[i].Itens = itens
	}
	return combos, nil
}

// loadItens fetches the combo lines with their products left-joined, so a
// deleted product surfaces as a line with a nil Produto.
func (r *comboRepository) loadItens(ctx context.Context, comboID uuid.UUID) ([]domain.ItemCombo, error) {
	query := `
		SELECT ci.id, ci.quantidade, ci.valor_unitario,
		       p.id, p.nome, p.valor, p.data_vencimento, p.created_at, p.updated_at
		FROM combo_itens ci
		LEFT JOIN produtos p ON p.id = ci.produto_id
		WHERE ci.combo_id = $1
		ORDER BY ci.id
	`

	rows, err := r.db.QueryContext(ctx, query, comboID)
	if err != nil {
		return nil, fmt.Errorf("failed to load combo itens: %w", err)
	}
	defer rows.Close()

	var itens []domain.ItemCombo
	for rows.Next() {
		var item domain.ItemCombo
		var (
			produtoID  sql.Null[uuid.UUID]
			nome       sql.NullString
			valor      sql.NullFloat64
			vencimento sql.NullTime
			createdAt  sql.NullTime
			updatedAt  sql.NullTime
		)
		if err := rows.Scan(
			&item.ID,
			&item.Quantidade,
			&item.ValorUnitario,
			&produtoID,
			&nome,
			&valor,
			&vencimento,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan combo item: %w", err)
		}
		if produtoID.Valid {
			produto := domain.Produto{
				ID:        produtoID.V,
				Nome:      nome.String,
				Valor:     valor.Float64,
				CreatedAt: createdAt.Time,
				UpdatedAt: updatedAt.Time,
			}
			if vencimento.Valid {
				v := vencimento.Time
				produto.DataVencimento = &v
			}
			item.Produto = &produto
		}
		itens = append(itens, item)
	}
	return itens, rows.Err()
}

// Update replaces the combo row and its lines wholesale.
func (r *comboRepository) Update(ctx context.Context, combo *domain.Combo) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE combos
		SET nome = $2, descricao = $3, valor_total = $4, ativo = $5, updated_at = $6
		WHERE id = $1
	`
	result, err := tx.ExecContext(ctx, query,
		combo.ID,
		combo.Nome,
		combo.Descricao,
		combo.ValorTotal,
		combo.Ativo,
		combo.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update combo: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return ErrComboNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM combo_itens WHERE combo_id = $1`, combo.ID); err != nil {
		return fmt.Errorf("failed to clear combo itens: %w", err)
	}
	if err := insertComboItens(ctx, tx, combo); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *comboRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM combos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete combo: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrComboNotFound
	}
	return nil
}
