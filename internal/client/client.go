// Package client talks to the ordering API. It exposes the raw, possibly
// incomplete record shapes exactly as the server returns them; callers pass
// records through the normalize package before display.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"confeitaria/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FetchError wraps a transport or server failure. The core never retries
// automatically; callers surface the error and keep last-known-good data.
type FetchError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// API is the persistence collaborator contract consumed by the core.
type API interface {
	ListPedidos(ctx context.Context, kind domain.PedidoKind) ([]PedidoRecord, error)
	CreatePedido(ctx context.Context, kind domain.PedidoKind, req CreatePedidoRequest) (*PedidoRecord, error)
	UpdateStatus(ctx context.Context, kind domain.PedidoKind, id uuid.UUID, status domain.StatusPedido) (*PedidoRecord, error)
	ListCatalog(ctx context.Context) (*CatalogRecord, error)
}

// CreatePedidoRequest is the order-creation payload. Each item references a
// product or a combo and carries the unit price captured at intake time.
type CreatePedidoRequest struct {
	Cliente     string              `json:"cliente"`
	Descricao   string              `json:"descricao,omitempty"`
	DataEntrega string              `json:"dataEntrega,omitempty"`
	Itens       []PedidoItemRequest `json:"itens"`
}

// PedidoItemRequest is one line of a creation request. Exactly one of
// ProdutoID/ComboID is set.
type PedidoItemRequest struct {
	ProdutoID     *uuid.UUID `json:"produtoId,omitempty"`
	ComboID       *uuid.UUID `json:"comboId,omitempty"`
	Quantidade    int        `json:"quantidade"`
	ValorUnitario float64    `json:"valorUnitario"`
}

// NewCreateRequest builds a creation payload from cart lines.
func NewCreateRequest(cliente string, itens []domain.LineItem) CreatePedidoRequest {
	req := CreatePedidoRequest{Cliente: cliente}
	for _, item := range itens {
		ir := PedidoItemRequest{
			Quantidade:    item.Quantidade,
			ValorUnitario: item.ValorUnitario,
		}
		id := item.RefID
		switch item.Kind {
		case domain.ItemKindCombo:
			ir.ComboID = &id
		default:
			ir.ProdutoID = &id
		}
		req.Itens = append(req.Itens, ir)
	}
	return req
}

// HTTP is the http implementation of API.
type HTTP struct {
	baseURL string
	hc      *http.Client
	logger  *zap.Logger
}

// NewHTTP creates an API client for the server at baseURL.
func NewHTTP(baseURL string, logger *zap.Logger) *HTTP {
	return &HTTP{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

// ListPedidos fetches the full order set of the given kind.
func (c *HTTP) ListPedidos(ctx context.Context, kind domain.PedidoKind) ([]PedidoRecord, error) {
	var records []PedidoRecord
	url := fmt.Sprintf("%s/api/pedidos?kind=%s", c.baseURL, kind)
	if err := c.do(ctx, http.MethodGet, "list pedidos", url, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// CreatePedido submits a new order and returns the stored record.
func (c *HTTP) CreatePedido(ctx context.Context, kind domain.PedidoKind, req CreatePedidoRequest) (*PedidoRecord, error) {
	var record PedidoRecord
	url := fmt.Sprintf("%s/api/pedidos?kind=%s", c.baseURL, kind)
	if err := c.do(ctx, http.MethodPost, "create pedido", url, req, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// UpdateStatus commits a status transition server-side and returns the
// updated record.
func (c *HTTP) UpdateStatus(ctx context.Context, kind domain.PedidoKind, id uuid.UUID, status domain.StatusPedido) (*PedidoRecord, error) {
	var record PedidoRecord
	url := fmt.Sprintf("%s/api/pedidos/%s/status?kind=%s", c.baseURL, id, kind)
	body := map[string]string{"status": string(status)}
	if err := c.do(ctx, http.MethodPut, "update status", url, body, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// ListCatalog fetches the product and combo catalog.
func (c *HTTP) ListCatalog(ctx context.Context) (*CatalogRecord, error) {
	var record CatalogRecord
	url := c.baseURL + "/api/catalogo"
	if err := c.do(ctx, http.MethodGet, "list catalog", url, nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *HTTP) do(ctx context.Context, method, op, url string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &FetchError{Op: op, Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return &FetchError{Op: op, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		c.logger.Error("Collaborator request failed",
			zap.String("op", op),
			zap.Error(err),
		)
		return &FetchError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		c.logger.Error("Collaborator returned error status",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
		)
		return &FetchError{Op: op, StatusCode: resp.StatusCode}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &FetchError{Op: op, Err: err}
		}
	}
	return nil
}
