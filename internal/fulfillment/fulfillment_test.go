package fulfillment

import (
	"context"
	"errors"
	"testing"

	"confeitaria/internal/client"
	"confeitaria/internal/domain"
	"confeitaria/internal/normalize"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubAPI struct {
	updateErr   error
	updated     *client.PedidoRecord
	updateCalls int
}

func (s *stubAPI) ListPedidos(context.Context, domain.PedidoKind) ([]client.PedidoRecord, error) {
	return nil, nil
}

func (s *stubAPI) CreatePedido(context.Context, domain.PedidoKind, client.CreatePedidoRequest) (*client.PedidoRecord, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAPI) UpdateStatus(_ context.Context, _ domain.PedidoKind, id uuid.UUID, status domain.StatusPedido) (*client.PedidoRecord, error) {
	s.updateCalls++
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	st := string(status)
	cliente := "Maria"
	total := 35.0
	s.updated = &client.PedidoRecord{ID: &id, Cliente: &cliente, Status: &st, ValorTotal: &total}
	return s.updated, nil
}

func (s *stubAPI) ListCatalog(context.Context) (*client.CatalogRecord, error) {
	return &client.CatalogRecord{}, nil
}

func newService(api client.API) *Service {
	return NewService(api, normalize.New(zap.NewNop()), zap.NewNop())
}

func pedidoEm(status domain.StatusPedido) domain.Pedido {
	return domain.Pedido{
		ID:      uuid.New(),
		Kind:    domain.KindVenda,
		Cliente: "Maria",
		Status:  status,
	}
}

func TestTransitionAdvancesAlongChain(t *testing.T) {
	api := &stubAPI{}
	svc := newService(api)

	pedido := pedidoEm(domain.StatusPronto)
	err := svc.Transition(context.Background(), &pedido, domain.StatusEntregue)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusEntregue, pedido.Status)
	assert.Equal(t, 1, api.updateCalls)
}

func TestTransitionRejectsIllegalTarget(t *testing.T) {
	api := &stubAPI{}
	svc := newService(api)

	pedido := pedidoEm(domain.StatusPronto)
	err := svc.Transition(context.Background(), &pedido, domain.StatusPendente)

	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	assert.Equal(t, domain.StatusPronto, pedido.Status)
	// Rejected before the collaborator is contacted.
	assert.Equal(t, 0, api.updateCalls)
}

func TestTransitionSkippingAStateIsRejected(t *testing.T) {
	api := &stubAPI{}
	svc := newService(api)

	pedido := pedidoEm(domain.StatusPendente)
	err := svc.Transition(context.Background(), &pedido, domain.StatusPronto)

	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	assert.Equal(t, domain.StatusPendente, pedido.Status)
}

func TestTransitionCommitFailureLeavesOrderUntouched(t *testing.T) {
	api := &stubAPI{updateErr: &client.FetchError{Op: "update status", StatusCode: 503}}
	svc := newService(api)

	pedido := pedidoEm(domain.StatusEmPreparo)
	err := svc.Transition(context.Background(), &pedido, domain.StatusPronto)

	require.Error(t, err)
	var fetchErr *client.FetchError
	assert.ErrorAs(t, err, &fetchErr)

	// No optimistic commit: the in-memory order keeps its old status.
	assert.Equal(t, domain.StatusEmPreparo, pedido.Status)
}

func TestCancelOnlyWhileAllowed(t *testing.T) {
	svc := newService(&stubAPI{})

	pendente := pedidoEm(domain.StatusPendente)
	require.NoError(t, svc.Cancel(context.Background(), &pendente))
	assert.Equal(t, domain.StatusCancelado, pendente.Status)

	pronto := pedidoEm(domain.StatusPronto)
	err := svc.Cancel(context.Background(), &pronto)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	assert.Equal(t, domain.StatusPronto, pronto.Status)
}

func TestAdvanceOnTerminalStatusFails(t *testing.T) {
	svc := newService(&stubAPI{})

	entregue := pedidoEm(domain.StatusEntregue)
	err := svc.Advance(context.Background(), &entregue)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
}
