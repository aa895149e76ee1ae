package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/liteclient"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/ton"
	"go.uber.org/zap"

	"github.com/brickfund/backend/internal/config"
	"github.com/brickfund/backend/internal/db"
	"github.com/brickfund/backend/internal/events"
	"github.com/brickfund/backend/internal/ledger"
	"github.com/brickfund/backend/internal/models"
)

const (
	redisCursorLT   = "deposit-indexer:cursor:lt"
	redisCursorHash = "deposit-indexer:cursor:hash"
	redisProcessed  = "deposit-indexer:tx:"
	processedTTL    = 7 * 24 * time.Hour
	txBatchSize     = 100

	// memoPrefix помечает перевод как пополнение внутреннего счёта:
	// acct:<hex64-адрес в леджере>
	memoPrefix = "acct:"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.TONHotWalletAddress == "" {
		log.Fatal("TON_HOT_WALLET_ADDRESS is required")
	}

	hotWallet, err := address.ParseAddr(cfg.TONHotWalletAddress)
	if err != nil {
		log.Fatal("invalid TON_HOT_WALLET_ADDRESS", zap.String("addr", cfg.TONHotWalletAddress), zap.Error(err))
	}

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

	ldg := ledger.NewPostgres(pool)
	publisher := events.NewRedisPublisher(rdb, log)

	tonAPI, err := connectToTON(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to connect to TON network", zap.Error(err))
	}

	log.Info("deposit indexer started",
		zap.String("hot_wallet", hotWallet.String()),
		zap.String("network", cfg.TONNetwork),
	)

	initCursor(ctx, tonAPI, hotWallet, rdb, log)

	ticker := time.NewTicker(cfg.IndexerPollInterval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			if err := pollAndProcess(ctx, tonAPI, hotWallet, ldg, publisher, rdb, log); err != nil {
				log.Error("poll cycle failed", zap.Error(err))
			}
		case <-sigCh:
			log.Info("shutting down deposit indexer")
			cancel()
			return
		case <-ctx.Done():
			return
		}
	}
}

// connectToTON establishes a connection to the TON network.
// If LITE_SERVER_HOST + LITE_SERVER_KEY are set, connects to a specific lite server.
// Otherwise, auto-discovers lite servers from the global TON config based on TON_NETWORK.
func connectToTON(ctx context.Context, cfg *config.Config, log *zap.Logger) (ton.APIClientWrapped, error) {
	client := liteclient.NewConnectionPool()

	if cfg.LiteServerHost != "" && cfg.LiteServerKey != "" {
		addr := fmt.Sprintf("%s:%d", cfg.LiteServerHost, cfg.LiteServerPort)
		log.Info("connecting to lite server", zap.String("addr", addr))
		if err := client.AddConnection(ctx, addr, cfg.LiteServerKey); err != nil {
			return nil, fmt.Errorf("connect to lite server %s: %w", addr, err)
		}
	} else {
		var configURL string
		switch strings.ToLower(cfg.TONNetwork) {
		case "mainnet":
			configURL = "https://ton.org/global.config.json"
		default:
			configURL = "https://ton.org/testnet-global.config.json"
		}
		log.Info("connecting via global config", zap.String("url", configURL), zap.String("network", cfg.TONNetwork))
		if err := client.AddConnectionsFromConfigUrl(ctx, configURL); err != nil {
			return nil, fmt.Errorf("connect via config %s: %w", configURL, err)
		}
	}

	proofPolicy := ton.ProofCheckPolicyFast
	if strings.ToLower(cfg.TONNetwork) == "mainnet" {
		proofPolicy = ton.ProofCheckPolicySecure
	}

	api := ton.NewAPIClient(client, proofPolicy).WithRetry()
	return api, nil
}

// initCursor sets the initial cursor position on first run.
// On first run, it stores the current account LastTxLT so that only
// NEW transactions (arriving after startup) are processed.
func initCursor(ctx context.Context, api ton.APIClientWrapped, addr *address.Address, rdb *redis.Client, log *zap.Logger) {
	existing, _ := rdb.Get(ctx, redisCursorLT).Result()
	if existing != "" {
		log.Info("resuming from saved cursor", zap.String("lt", existing))
		return
	}

	block, err := api.CurrentMasterchainInfo(ctx)
	if err != nil {
		log.Warn("failed to get master block for cursor init", zap.Error(err))
		rdb.Set(ctx, redisCursorLT, "0", 0)
		return
	}

	account, err := api.GetAccount(ctx, block, addr)
	if err != nil {
		log.Warn("failed to get account for cursor init", zap.Error(err))
		rdb.Set(ctx, redisCursorLT, "0", 0)
		return
	}

	if account == nil || !account.IsActive || account.LastTxLT == 0 {
		log.Info("hot wallet not active yet, starting from LT=0")
		rdb.Set(ctx, redisCursorLT, "0", 0)
		return
	}

	saveCursor(ctx, rdb, account.LastTxLT, account.LastTxHash)
	log.Info("cursor initialized at current account state (skipping historical transactions)",
		zap.Uint64("lt", account.LastTxLT),
		zap.String("hash", hex.EncodeToString(account.LastTxHash)),
	)
}

func loadCursorLT(ctx context.Context, rdb *redis.Client) uint64 {
	val, err := rdb.Get(ctx, redisCursorLT).Result()
	if err != nil || val == "" {
		return 0
	}
	lt, _ := strconv.ParseUint(val, 10, 64)
	return lt
}

func saveCursor(ctx context.Context, rdb *redis.Client, lt uint64, hash []byte) {
	rdb.Set(ctx, redisCursorLT, strconv.FormatUint(lt, 10), 0)
	rdb.Set(ctx, redisCursorHash, hex.EncodeToString(hash), 0)
}

// pollAndProcess runs a single poll cycle:
// 1. Get the account's latest state
// 2. Fetch all transactions newer than the cursor
// 3. Credit incoming transfers with a valid memo to the ledger
// 4. Update the cursor
func pollAndProcess(
	ctx context.Context,
	api ton.APIClientWrapped,
	addr *address.Address,
	ldg *ledger.Postgres,
	publisher events.Publisher,
	rdb *redis.Client,
	log *zap.Logger,
) error {
	cursorLT := loadCursorLT(ctx, rdb)

	block, err := api.CurrentMasterchainInfo(ctx)
	if err != nil {
		return fmt.Errorf("get master block: %w", err)
	}

	account, err := api.GetAccount(ctx, block, addr)
	if err != nil {
		return fmt.Errorf("get account: %w", err)
	}

	if account == nil || !account.IsActive || account.LastTxLT == 0 {
		return nil
	}

	if account.LastTxLT <= cursorLT {
		return nil
	}

	newTxs, err := fetchNewTransactions(ctx, api, addr, account, cursorLT)
	if err != nil {
		return fmt.Errorf("fetch transactions: %w", err)
	}

	if len(newTxs) > 0 {
		log.Info("found new transactions", zap.Int("count", len(newTxs)))
		for _, tx := range newTxs {
			processIncomingTx(ctx, tx, ldg, publisher, rdb, log)
		}
	}

	saveCursor(ctx, rdb, account.LastTxLT, account.LastTxHash)
	return nil
}

// fetchNewTransactions retrieves all transactions with LT > cursorLT.
// ListTransactions returns results oldest-first; we paginate backwards
// until we reach the cursor, then return in chronological order.
func fetchNewTransactions(
	ctx context.Context,
	api ton.APIClientWrapped,
	addr *address.Address,
	account *tlb.Account,
	cursorLT uint64,
) ([]*tlb.Transaction, error) {
	var allTxs []*tlb.Transaction

	lt := account.LastTxLT
	hash := account.LastTxHash

	for {
		txs, err := api.ListTransactions(ctx, addr, uint32(txBatchSize), lt, hash)
		if err != nil {
			return nil, fmt.Errorf("list transactions (lt=%d): %w", lt, err)
		}
		if len(txs) == 0 {
			break
		}

		reachedCursor := false
		for _, tx := range txs {
			if tx.LT <= cursorLT {
				reachedCursor = true
				continue
			}
			allTxs = append(allTxs, tx)
		}

		if reachedCursor || len(txs) < txBatchSize {
			break
		}

		oldest := txs[0]
		if oldest.PrevTxLT == 0 {
			break
		}
		lt = oldest.PrevTxLT
		hash = oldest.PrevTxHash
	}

	sort.Slice(allTxs, func(i, j int) bool {
		return allTxs[i].LT < allTxs[j].LT
	})

	return allTxs, nil
}

// processIncomingTx handles a single incoming TON transfer: extracts
// the memo, parses the target ledger address out of it and credits the
// nanoTON amount. Mint bumps the emission counter, so the conservation
// audit keeps holding after on-ramp deposits.
func processIncomingTx(
	ctx context.Context,
	tx *tlb.Transaction,
	ldg *ledger.Postgres,
	publisher events.Publisher,
	rdb *redis.Client,
	log *zap.Logger,
) {
	if tx.IO.In == nil {
		return
	}

	inMsg, ok := tx.IO.In.Msg.(*tlb.InternalMessage)
	if !ok || inMsg == nil {
		return
	}

	if inMsg.Bounced {
		return
	}

	nano := inMsg.Amount.Nano()
	if nano.Sign() <= 0 {
		return
	}

	comment := extractComment(inMsg)
	if comment == "" {
		log.Debug("transfer without memo, skipping",
			zap.Uint64("lt", tx.LT),
			zap.String("from", inMsg.SrcAddr.String()),
			zap.String("amount", inMsg.Amount.String()),
		)
		return
	}

	// Idempotency: skip if already processed
	txKey := fmt.Sprintf("%s%d", redisProcessed, tx.LT)
	if rdb.Exists(ctx, txKey).Val() > 0 {
		return
	}

	memo := strings.TrimSpace(comment)
	if !strings.HasPrefix(memo, memoPrefix) {
		log.Debug("memo without account prefix, skipping", zap.String("memo", memo))
		rdb.Set(ctx, txKey, "no_prefix", processedTTL)
		return
	}

	target, err := models.ParseAddress(strings.TrimPrefix(memo, memoPrefix))
	if err != nil {
		log.Warn("memo carries malformed ledger address",
			zap.Uint64("lt", tx.LT),
			zap.String("memo", memo),
			zap.Error(err),
		)
		rdb.Set(ctx, txKey, "bad_address", processedTTL)
		return
	}

	// nanoTON за пределами uint64 в один перевод не прислать, но
	// доверять внешним данным всё равно нельзя
	if !nano.IsUint64() {
		log.Warn("amount does not fit ledger units, skipping",
			zap.Uint64("lt", tx.LT),
			zap.String("amount", inMsg.Amount.String()),
		)
		rdb.Set(ctx, txKey, "overflow", processedTTL)
		return
	}
	amount := nano.Uint64()

	log.Info("incoming deposit detected",
		zap.Uint64("lt", tx.LT),
		zap.String("from", inMsg.SrcAddr.String()),
		zap.String("amount", inMsg.Amount.String()),
		zap.String("account", string(target)),
	)

	if err := ldg.Mint(ctx, target, amount); err != nil {
		log.Error("failed to credit deposit",
			zap.Uint64("lt", tx.LT),
			zap.String("account", string(target)),
			zap.Error(err),
		)
		// Not marked as processed: retried on the next cycle
		return
	}

	_ = publisher.Publish(ctx, events.StreamEscrow, events.Event{
		Type: events.EventDepositCredited,
		Payload: map[string]any{
			"account": string(target),
			"amount":  strconv.FormatUint(amount, 10),
			"tx_lt":   tx.LT,
			"from":    inMsg.SrcAddr.String(),
		},
	})

	rdb.Set(ctx, txKey, "credited:"+string(target), processedTTL)

	log.Info("deposit credited",
		zap.Uint64("tx_lt", tx.LT),
		zap.String("account", string(target)),
		zap.Uint64("amount", amount),
	)
}

// extractComment parses a text comment from an InternalMessage body.
// TON text comments have opcode 0x00000000 followed by UTF-8 text.
func extractComment(inMsg *tlb.InternalMessage) string {
	body := inMsg.Body
	if body == nil {
		return ""
	}

	slice := body.BeginParse()
	if slice.BitsLeft() < 32 {
		return ""
	}

	op, err := slice.LoadUInt(32)
	if err != nil || op != 0 {
		return ""
	}

	remaining := slice.BitsLeft()
	if remaining < 8 {
		return ""
	}

	data, err := slice.LoadSlice(remaining)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(data))
}
