package domain

import "errors"

// ErrIllegalTransition is returned when a status change outside the allowed
// transition graph is attempted.
var ErrIllegalTransition = errors.New("illegal status transition")

// StatusPedido is the position of an order within the production workflow.
type StatusPedido string

const (
	StatusPendente  StatusPedido = "PENDENTE"
	StatusEmPreparo StatusPedido = "EM_PREPARO"
	StatusPronto    StatusPedido = "PRONTO"
	StatusEntregue  StatusPedido = "ENTREGUE"
	StatusCancelado StatusPedido = "CANCELADO"
)

// AllStatuses lists every status in workflow order, terminal states last.
var AllStatuses = []StatusPedido{
	StatusPendente,
	StatusEmPreparo,
	StatusPronto,
	StatusEntregue,
	StatusCancelado,
}

// next maps each status to its successor along the main chain. Terminal
// states map to themselves.
var next = map[StatusPedido]StatusPedido{
	StatusPendente:  StatusEmPreparo,
	StatusEmPreparo: StatusPronto,
	StatusPronto:    StatusEntregue,
	StatusEntregue:  StatusEntregue,
	StatusCancelado: StatusCancelado,
}

var descricoes = map[StatusPedido]string{
	StatusPendente:  "Pendente",
	StatusEmPreparo: "Em Preparo",
	StatusPronto:    "Pronto",
	StatusEntregue:  "Entregue",
	StatusCancelado: "Cancelado",
}

// Valid reports whether s is one of the five known statuses.
func (s StatusPedido) Valid() bool {
	_, ok := next[s]
	return ok
}

// Next returns the deterministic successor along the main chain, or s itself
// once a terminal status is reached.
func (s StatusPedido) Next() StatusPedido {
	if n, ok := next[s]; ok {
		return n
	}
	return s
}

// Terminal reports whether no further transition is possible from s.
func (s StatusPedido) Terminal() bool {
	return s == StatusEntregue || s == StatusCancelado
}

// CanAdvance reports whether s has a successor on the main chain.
func (s StatusPedido) CanAdvance() bool {
	return s == StatusPendente || s == StatusEmPreparo || s == StatusPronto
}

// CanCancel reports whether an order in s may still be cancelled.
// Cancellation is only allowed before production finishes.
func (s StatusPedido) CanCancel() bool {
	return s == StatusPendente || s == StatusEmPreparo
}

// CanTransition reports whether target is a legal transition from s: either
// the next status on the main chain, or CANCELADO while cancellation is
// still allowed.
func (s StatusPedido) CanTransition(target StatusPedido) bool {
	if target == StatusCancelado {
		return s.CanCancel()
	}
	return s.CanAdvance() && target == s.Next()
}

// Descricao returns the display label for s, or the raw value for an
// unknown status.
func (s StatusPedido) Descricao() string {
	if d, ok := descricoes[s]; ok {
		return d
	}
	return string(s)
}
