package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"confeitaria/internal/domain"

	"github.com/google/uuid"
)

var ErrProdutoNotFound = errors.New("produto not found")

// ProdutoRepository defines the interface for product data access
type ProdutoRepository interface {
	Create(ctx context.Context, produto *domain.Produto) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Produto, error)
	List(ctx context.Context) ([]domain.Produto, error)
	Update(ctx context.Context, produto *domain.Produto) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type produtoRepository struct {
	db *sql.DB
}

// NewProdutoRepository creates a new instance of ProdutoRepository
func NewProdutoRepository(db *sql.DB) ProdutoRepository {
	return &produtoRepository{db: db}
}

func (r *produtoRepository) Create(ctx context.Context, produto *domain.Produto) error {
	query := `
		INSERT INTO produtos (id, nome, valor, data_vencimento, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		produto.ID,
		produto.Nome,
		produto.Valor,
		produto.DataVencimento,
		produto.CreatedAt,
		produto.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create produto: %w", err)
	}
	return nil
}

func (r *produtoRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Produto, error) {
	query := `
		SELECT id, nome, valor, data_vencimento, created_at, updated_at
		FROM produtos
		WHERE id = $1
	`

	var produto domain.Produto
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&produto.ID,
		&produto.Nome,
		&produto.Valor,
		&produto.DataVencimento,
		&produto.CreatedAt,
		&produto.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProdutoNotFound
		}
		return nil, fmt.Errorf("failed to find produto: %w", err)
	}
	return &produto, nil
}

func (r *produtoRepository) List(ctx context.Context) ([]domain.Produto, error) {
	query := `
		SELECT id, nome, valor, data_vencimento, created_at, updated_at
		FROM produtos
		ORDER BY nome
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list produtos: %w", err)
	}
	defer rows.Close()

	var produtos []domain.Produto
	for rows.Next() {
		var produto domain.Produto
		if err := rows.Scan(
			&produto.ID,
			&produto.Nome,
			&produto.Valor,
			&produto.DataVencimento,
			&produto.CreatedAt,
			&produto.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan produto: %w", err)
		}
		produtos = append(produtos, produto)
	}
	return produtos, rows.Err()
}

func (r *produtoRepository) Update(ctx context.Context, produto *domain.Produto) error {
	query := `
		UPDATE produtos
		SET nome = $2, valor = $3, data_vencimento = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		produto.ID,
		produto.Nome,
		produto.Valor,
		produto.DataVencimento,
		produto.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update produto: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return ErrProdutoNotFound
	}
	return nil
}

// Delete removes a product. Order and combo lines referencing it keep their
// rows with a null product reference; displays degrade instead of breaking.
func (r *produtoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM produtos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete produto: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrProdutoNotFound
	}
	return nil
}
