package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"confeitaria/internal/domain"
	"confeitaria/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrNomeObrigatorio = errors.New("nome is required")
	ErrValorNegativo   = errors.New("valor must not be negative")
)

// Catalogo bundles one listing of products and combos. Combos keep their
// ativo flag; consumers filter inactive ones out of intake surfaces.
type Catalogo struct {
	Produtos []domain.Produto `json:"produtos"`
	Combos   []domain.Combo   `json:"combos"`
}

// CatalogService defines the interface for catalog business logic
type CatalogService interface {
	ListCatalog(ctx context.Context) (*Catalogo, error)
	ListProdutos(ctx context.Context) ([]domain.Produto, error)
	ListCombos(ctx context.Context) ([]domain.Combo, error)
	CreateProduto(ctx context.Context, nome string, valor float64, dataVencimento *time.Time) (*domain.Produto, error)
	UpdateProduto(ctx context.Context, id uuid.UUID, nome string, valor float64, dataVencimento *time.Time) (*domain.Produto, error)
	DeleteProduto(ctx context.Context, id uuid.UUID) error
	CreateCombo(ctx context.Context, combo *domain.Combo) error
	UpdateCombo(ctx context.Context, combo *domain.Combo) error
	DeleteCombo(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	produtoRepo repository.ProdutoRepository
	comboRepo   repository.ComboRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(produtoRepo repository.ProdutoRepository, comboRepo repository.ComboRepository) CatalogService {
	return &catalogService{produtoRepo: produtoRepo, comboRepo: comboRepo}
}

func (s *catalogService) ListCatalog(ctx context.Context) (*Catalogo, error) {
	produtos, err := s.produtoRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list produtos: %w", err)
	}
	combos, err := s.comboRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list combos: %w", err)
	}
	return &Catalogo{Produtos: produtos, Combos: combos}, nil
}

func (s *catalogService) ListProdutos(ctx context.Context) ([]domain.Produto, error) {
	return s.produtoRepo.List(ctx)
}

func (s *catalogService) ListCombos(ctx context.Context) ([]domain.Combo, error) {
	return s.comboRepo.List(ctx)
}

func (s *catalogService) CreateProduto(ctx context.Context, nome string, valor float64, dataVencimento *time.Time) (*domain.Produto, error) {
	if err := validarProduto(nome, valor); err != nil {
		return nil, err
	}

	now := time.Now()
	produto := &domain.Produto{
		ID:             uuid.New(),
		Nome:           nome,
		Valor:          valor,
		DataVencimento: dataVencimento,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.produtoRepo.Create(ctx, produto); err != nil {
		return nil, fmt.Errorf("failed to create produto: %w", err)
	}
	return produto, nil
}

func (s *catalogService) UpdateProduto(ctx context.Context, id uuid.UUID, nome string, valor float64, dataVencimento *time.Time) (*domain.Produto, error) {
	if err := validarProduto(nome, valor); err != nil {
		return nil, err
	}

	produto, err := s.produtoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	produto.Nome = nome
	produto.Valor = valor
	produto.DataVencimento = dataVencimento
	produto.UpdatedAt = time.Now()

	if err := s.produtoRepo.Update(ctx, produto); err != nil {
		return nil, fmt.Errorf("failed to update produto: %w", err)
	}
	return produto, nil
}

func (s *catalogService) DeleteProduto(ctx context.Context, id uuid.UUID) error {
	return s.produtoRepo.Delete(ctx, id)
}

func (s *catalogService) CreateCombo(ctx context.Context, combo *domain.Combo) error {
	if err := validarCombo(combo); err != nil {
		return err
	}

	now := time.Now()
	if combo.ID == uuid.Nil {
		combo.ID = uuid.New()
	}
	combo.CreatedAt = now
	combo.UpdatedAt = now
	if err := s.comboRepo.Create(ctx, combo); err != nil {
		return fmt.Errorf("failed to create combo: %w", err)
	}
	return nil
}

func (s *catalogService) UpdateCombo(ctx context.Context, combo *domain.Combo) error {
	if err := validarCombo(combo); err != nil {
		return err
	}

	combo.UpdatedAt = time.Now()
	if err := s.comboRepo.Update(ctx, combo); err != nil {
		return err
	}
	return nil
}

func (s *catalogService) DeleteCombo(ctx context.Context, id uuid.UUID) error {
	return s.comboRepo.Delete(ctx, id)
}

func validarProduto(nome string, valor float64) error {
	if nome == "" {
		return ErrNomeObrigatorio
	}
	if valor < 0 {
		return ErrValorNegativo
	}
	return nil
}

// validarCombo checks the authored fields only. The combo total is a single
// opaque figure and is deliberately never checked against the line sum.
func validarCombo(combo *domain.Combo) error {
	if combo.Nome == "" {
		return ErrNomeObrigatorio
	}
	if combo.ValorTotal < 0 {
		return ErrValorNegativo
	}
	return nil
}
