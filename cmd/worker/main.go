package main

import (
	"context"
	"errors"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/brickfund/backend/internal/config"
	"github.com/brickfund/backend/internal/db"
	"github.com/brickfund/backend/internal/events"
	"github.com/brickfund/backend/internal/ledger"
	"github.com/brickfund/backend/internal/repositories"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	vaultRepo := repositories.NewVaultRepo(pool)
	paymentRepo := repositories.NewPaymentRepo(pool)
	ldg := ledger.NewPostgres(pool)
	publisher := events.NewRedisPublisher(rdb, log)

	log.Info("worker started",
		zap.Duration("shortfall_interval", cfg.ShortfallAuditInterval),
		zap.Duration("conservation_interval", cfg.ConservationAuditInterval),
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ticker := time.NewTicker(cfg.ShortfallAuditInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				runShortfallAudit(ctx, vaultRepo, paymentRepo, ldg, publisher, log)
			}
		}
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.ConservationAuditInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				runConservationAudit(ctx, ldg, log)
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("worker stopped", zap.Error(err))
	}
	log.Info("shutting down worker")
}

// runShortfallAudit ищет пулы, которые не покрывают сумму активных
// записей. После мастер-вывода это штатное состояние, а не ошибка, но
// такие own-выводы будут отбиваться, поэтому шлём событие.
func runShortfallAudit(ctx context.Context, vaults *repositories.VaultRepo, payments *repositories.PaymentRepo, ldg *ledger.Postgres, publisher events.Publisher, log *zap.Logger) {
	sums, err := payments.SumActiveByProperty(ctx)
	if err != nil {
		log.Error("failed to sum active records", zap.Error(err))
		return
	}

	const pageSize = 200
	for offset := 0; ; offset += pageSize {
		page, err := vaults.List(ctx, pageSize, offset)
		if err != nil {
			log.Error("failed to list vaults", zap.Error(err))
			return
		}
		if len(page) == 0 {
			return
		}

		for _, v := range page {
			active := sums[v.PropertyID]
			if active == 0 {
				continue
			}

			balance, err := ldg.Balance(ctx, v.Address())
			if err != nil {
				log.Error("failed to read vault balance",
					zap.Uint32("property_id", v.PropertyID),
					zap.Error(err),
				)
				continue
			}
			if balance >= active {
				continue
			}

			log.Warn("vault cannot cover active records",
				zap.Uint32("property_id", v.PropertyID),
				zap.Uint64("balance", balance),
				zap.Uint64("active_records", active),
			)
			_ = publisher.Publish(ctx, events.StreamEscrow, events.Event{
				Type: events.EventVaultShortfall,
				Payload: map[string]any{
					"property_id":    v.PropertyID,
					"balance":        strconv.FormatUint(balance, 10),
					"active_records": strconv.FormatUint(active, 10),
				},
			})
		}

		if len(page) < pageSize {
			return
		}
	}
}

// runConservationAudit сверяет сумму всех балансов с эмиссией.
// Переводы ничего не создают и не сжигают, расхождение означает баг
// или ручное вмешательство в базу.
func runConservationAudit(ctx context.Context, ldg *ledger.Postgres, log *zap.Logger) {
	total, err := ldg.TotalBalance(ctx)
	if err != nil {
		log.Error("failed to sum balances", zap.Error(err))
		return
	}
	minted, err := ldg.MintedTotal(ctx)
	if err != nil {
		log.Error("failed to read minted total", zap.Error(err))
		return
	}

	if total != minted {
		log.Error("ledger conservation violated",
			zap.Uint64("total_balance", total),
			zap.Uint64("minted", minted),
		)
		return
	}

	log.Debug("conservation holds", zap.Uint64("total", total))
}
