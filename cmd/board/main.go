package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"confeitaria/internal/client"
	"confeitaria/internal/config"
	"confeitaria/internal/domain"
	"confeitaria/internal/fulfillment"
	"confeitaria/internal/logger"
	"confeitaria/internal/normalize"
	"confeitaria/internal/poller"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// board is an interactive production view over the orders API. It polls the
// venda backlog, prints active orders, and accepts advance/cancel commands.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	api := client.NewHTTP(cfg.Client.BaseURL, log)
	normalizer := normalize.New(log)
	workflow := fulfillment.NewService(api, normalizer, log)

	interval := poller.DefaultInterval
	if cfg.Client.PollingInterval > 0 {
		interval = time.Duration(cfg.Client.PollingInterval) * time.Second
	}

	board := poller.New(api, normalizer, log, poller.Options{
		Kind:     domain.KindVenda,
		Interval: interval,
		Filter:   poller.ActiveOnly,
		OnUpdate: render,
		OnError: func(err error) {
			log.Warn("Board refresh failed, keeping last snapshot", zap.Error(err))
		},
	})
	board.Start()
	defer board.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Println("Commands: avancar <id> | cancelar <id> | listar | sair")

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			fmt.Println("Encerrando.")
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if done := dispatch(ctx, line, board, workflow, log); done {
				return
			}
		}
	}
}

func dispatch(ctx context.Context, line string, board *poller.Poller, workflow *fulfillment.Service, log *zap.Logger) bool {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "sair":
		return true
	case "listar":
		render(board.Pedidos())
	case "avancar", "cancelar":
		if len(fields) < 2 {
			fmt.Println("uso:", fields[0], "<id>")
			return false
		}
		pedido, ok := findPedido(board.Pedidos(), fields[1])
		if !ok {
			fmt.Println("pedido não encontrado:", fields[1])
			return false
		}

		var err error
		if fields[0] == "avancar" {
			err = workflow.Advance(ctx, &pedido)
		} else {
			err = workflow.Cancel(ctx, &pedido)
		}
		if err != nil {
			fmt.Println("erro:", err)
			return false
		}
		fmt.Printf("%s -> %s\n", shortID(pedido.ID), pedido.Status)

		if err := board.Refresh(ctx); err != nil {
			log.Warn("Refresh after transition failed", zap.Error(err))
		}
	default:
		fmt.Println("comando desconhecido:", fields[0])
	}
	return false
}

func findPedido(pedidos []domain.Pedido, prefix string) (domain.Pedido, bool) {
	prefix = strings.ToLower(prefix)
	for _, p := range pedidos {
		if strings.HasPrefix(p.ID.String(), prefix) {
			return p, true
		}
	}
	return domain.Pedido{}, false
}

func render(pedidos []domain.Pedido) {
	fmt.Printf("\n=== Produção (%s) — %d pedido(s) ===\n", time.Now().Format("15:04:05"), len(pedidos))
	for _, p := range pedidos {
		fmt.Printf("  [%s] %-10s %-20s R$ %.2f\n", shortID(p.ID), p.Status, p.Cliente, p.ValorTotal)
		for _, item := range p.Itens {
			fmt.Printf("        %dx %s\n", item.Quantidade, item.Nome)
		}
	}
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
