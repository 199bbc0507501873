package repository

import (
	"context"
	"database/sql"
	"log"
	"testing"
	"time"

	"confeitaria/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var testDB *sql.DB

func setupTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	var (
		dbName = "testdb"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:15",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), "5432/tcp")
	if err != nil {
		return dbContainer.Terminate, err
	}

	connStr := "postgres://" + dbUser + ":" + dbPwd + "@" + dbHost + ":" + dbPort.Port() + "/" + dbName + "?sslmode=disable"
	testDB, err = sql.Open("pgx", connStr)
	if err != nil {
		return dbContainer.Terminate, err
	}

	_, err = testDB.Exec(`
		CREATE TABLE IF NOT EXISTS produtos (
			id UUID PRIMARY KEY,
			nome VARCHAR(255) NOT NULL,
			valor DECIMAL(10, 2) NOT NULL DEFAULT 0,
			data_vencimento DATE,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS combos (
			id UUID PRIMARY KEY,
			nome VARCHAR(255) NOT NULL,
			descricao TEXT,
			valor_total DECIMAL(10, 2) NOT NULL DEFAULT 0,
			ativo BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS combo_itens (
			id UUID PRIMARY KEY,
			combo_id UUID NOT NULL REFERENCES combos(id) ON DELETE CASCADE,
			produto_id UUID REFERENCES produtos(id) ON DELETE SET NULL,
			quantidade INTEGER NOT NULL DEFAULT 1,
			valor_unitario DECIMAL(10, 2) NOT NULL DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS pedidos (
			id UUID PRIMARY KEY,
			kind VARCHAR(20) NOT NULL,
			cliente VARCHAR(255) NOT NULL,
			descricao TEXT,
			status VARCHAR(20) NOT NULL DEFAULT 'PENDENTE',
			valor_total DECIMAL(10, 2) NOT NULL DEFAULT 0,
			criado_em TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			data_entrega DATE
		);
		CREATE TABLE IF NOT EXISTS pedido_itens (
			id UUID PRIMARY KEY,
			pedido_id UUID NOT NULL REFERENCES pedidos(id) ON DELETE CASCADE,
			produto_id UUID REFERENCES produtos(id) ON DELETE SET NULL,
			combo_id UUID REFERENCES combos(id) ON DELETE SET NULL,
			quantidade INTEGER NOT NULL DEFAULT 1,
			valor_unitario DECIMAL(10, 2) NOT NULL DEFAULT 0
		);
	`)
	if err != nil {
		return dbContainer.Terminate, err
	}

	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	teardown, err := setupTestDB()
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Fatalf("could not teardown postgres container: %v", err)
		}
	}
}

func createTestProduto(t *testing.T, nome string, valor float64) *domain.Produto {
	t.Helper()
	repo := NewProdutoRepository(testDB)
	now := time.Now()
	produto := &domain.Produto{
		ID:        uuid.New(),
		Nome:      nome,
		Valor:     valor,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Create(context.Background(), produto))
	return produto
}

func TestPedidoRepository_CreateAndFindRoundTrip(t *testing.T) {
	repo := NewPedidoRepository(testDB)
	ctx := context.Background()

	bolo := createTestProduto(t, "Bolo de Cenoura", 35.0)

	pedido := &domain.Pedido{
		ID:      uuid.New(),
		Kind:    domain.KindVenda,
		Cliente: "Maria",
		Status:  domain.StatusPendente,
		Itens: []domain.LineItem{
			{
				Kind:          domain.ItemKindProduto,
				RefID:         bolo.ID,
				Nome:          bolo.Nome,
				Quantidade:    2,
				ValorUnitario: bolo.Valor,
			},
		},
		ValorTotal: 70.0,
		CriadoEm:   time.Now(),
	}
	require.NoError(t, repo.Create(ctx, pedido))

	found, err := repo.FindByID(ctx, domain.KindVenda, pedido.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maria", found.Cliente)
	assert.Equal(t, domain.StatusPendente, found.Status)
	assert.Equal(t, 70.0, found.ValorTotal)
	require.Len(t, found.Itens, 1)
	assert.Equal(t, domain.ItemKindProduto, found.Itens[0].Kind)
	assert.Equal(t, bolo.ID, found.Itens[0].RefID)
	assert.Equal(t, "Bolo de Cenoura", found.Itens[0].Nome)
	assert.Equal(t, 2, found.Itens[0].Quantidade)
	assert.Equal(t, 70.0, found.Itens[0].ValorTotal)
	require.NotNil(t, found.Itens[0].Produto)
	assert.Equal(t, 35.0, found.Itens[0].Produto.Valor)
}

func TestPedidoRepository_FindByIDRespectsKind(t *testing.T) {
	repo := NewPedidoRepository(testDB)
	ctx := context.Background()

	pedido := &domain.Pedido{
		ID:       uuid.New(),
		Kind:     domain.KindEncomenda,
		Cliente:  "João",
		Status:   domain.StatusPendente,
		CriadoEm: time.Now(),
	}
	require.NoError(t, repo.Create(ctx, pedido))

	_, err := repo.FindByID(ctx, domain.KindVenda, pedido.ID)
	assert.ErrorIs(t, err, ErrPedidoNotFound)

	found, err := repo.FindByID(ctx, domain.KindEncomenda, pedido.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.KindEncomenda, found.Kind)
}

func TestPedidoRepository_UpdateStatus(t *testing.T) {
	repo := NewPedidoRepository(testDB)
	ctx := context.Background()

	pedido := &domain.Pedido{
		ID:       uuid.New(),
		Kind:     domain.KindVenda,
		Cliente:  "Ana",
		Status:   domain.StatusPendente,
		CriadoEm: time.Now(),
	}
	require.NoError(t, repo.Create(ctx, pedido))

	require.NoError(t, repo.UpdateStatus(ctx, pedido.ID, domain.StatusEmPreparo))

	found, err := repo.FindByID(ctx, domain.KindVenda, pedido.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusEmPreparo, found.Status)
}

func TestPedidoRepository_UpdateStatusUnknownPedido(t *testing.T) {
	repo := NewPedidoRepository(testDB)

	err := repo.UpdateStatus(context.Background(), uuid.New(), domain.StatusEmPreparo)
	assert.ErrorIs(t, err, ErrPedidoNotFound)
}

// Deleting a catalog product must not break existing orders; the line
// survives with its captured price but no product payload.
func TestPedidoRepository_DeletedProdutoLeavesLineWithoutPayload(t *testing.T) {
	pedidoRepo := NewPedidoRepository(testDB)
	produtoRepo := NewProdutoRepository(testDB)
	ctx := context.Background()

	torta := createTestProduto(t, "Torta de Limão", 48.0)

	pedido := &domain.Pedido{
		ID:      uuid.New(),
		Kind:    domain.KindVenda,
		Cliente: "Carlos",
		Status:  domain.StatusPendente,
		Itens: []domain.LineItem{
			{
				Kind:          domain.ItemKindProduto,
				RefID:         torta.ID,
				Nome:          torta.Nome,
				Quantidade:    1,
				ValorUnitario: torta.Valor,
			},
		},
		ValorTotal: 48.0,
		CriadoEm:   time.Now(),
	}
	require.NoError(t, pedidoRepo.Create(ctx, pedido))

	require.NoError(t, produtoRepo.Delete(ctx, torta.ID))

	found, err := pedidoRepo.FindByID(ctx, domain.KindVenda, pedido.ID)
	require.NoError(t, err)
	require.Len(t, found.Itens, 1)

	item := found.Itens[0]
	assert.Nil(t, item.Produto)
	assert.Nil(t, item.Combo)
	assert.Empty(t, item.Nome)
	assert.Equal(t, 1, item.Quantidade)
	assert.Equal(t, 48.0, item.ValorUnitario)
	assert.Equal(t, 48.0, item.ValorTotal)
}

func TestComboRepository_RoundTripWithItens(t *testing.T) {
	comboRepo := NewComboRepository(testDB)
	ctx := context.Background()

	cafe := createTestProduto(t, "Café Coado", 6.0)
	paoDeQueijo := createTestProduto(t, "Pão de Queijo", 5.0)

	now := time.Now()
	combo := &domain.Combo{
		ID:         uuid.New(),
		Nome:       "Café da Tarde",
		Descricao:  "Café com pão de queijo",
		ValorTotal: 10.0,
		Ativo:      true,
		Itens: []domain.ItemCombo{
			{Produto: cafe, Quantidade: 1, ValorUnitario: 6.0},
			{Produto: paoDeQueijo, Quantidade: 1, ValorUnitario: 5.0},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, comboRepo.Create(ctx, combo))

	found, err := comboRepo.FindByID(ctx, combo.ID)
	require.NoError(t, err)
	// The authored bundle price is stored as-is even though the lines sum
	// to a different figure.
	assert.Equal(t, 10.0, found.ValorTotal)
	assert.True(t, found.Ativo)
	require.Len(t, found.Itens, 2)
	assert.True(t, found.Usable())
}

func TestComboRepository_DeletedProdutoMakesComboUnusable(t *testing.T) {
	comboRepo := NewComboRepository(testDB)
	produtoRepo := NewProdutoRepository(testDB)
	ctx := context.Background()

	brigadeiro := createTestProduto(t, "Brigadeiro", 3.0)

	now := time.Now()
	combo := &domain.Combo{
		ID:         uuid.New(),
		Nome:       "Festa",
		ValorTotal: 30.0,
		Ativo:      true,
		Itens: []domain.ItemCombo{
			{Produto: brigadeiro, Quantidade: 10, ValorUnitario: 3.0},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, comboRepo.Create(ctx, combo))

	require.NoError(t, produtoRepo.Delete(ctx, brigadeiro.ID))

	found, err := comboRepo.FindByID(ctx, combo.ID)
	require.NoError(t, err)
	require.Len(t, found.Itens, 1)
	assert.Nil(t, found.Itens[0].Produto)
	assert.False(t, found.Usable())
}
