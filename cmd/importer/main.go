package main

import (
	"context"
	"os"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/brickfund/backend/internal/config"
	"github.com/brickfund/backend/internal/db"
	"github.com/brickfund/backend/internal/events"
	"github.com/brickfund/backend/internal/listingparser"
	"github.com/brickfund/backend/internal/models"
	"github.com/brickfund/backend/internal/repositories"
	"github.com/brickfund/backend/internal/services"
)

// Одноразовый импорт: по каждому URL из аргументов скачивает страницу
// объявления и заводит объект в реестре.
//
//	importer https://example.com/listing/42 [url...]
func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	if len(os.Args) < 2 {
		log.Fatal("usage: importer <listing-url> [listing-url...]")
	}

	cfg := config.Load()
	ctx := context.Background()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, "migrations", log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	propertyRepo := repositories.NewPropertyRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)
	registry := services.NewRegistryService(propertyRepo, auditRepo, events.NopPublisher{}, log)
	parser := listingparser.NewParser(cfg.ImportTimeoutMS, cfg.ImportMaxRetries, log)

	failed := 0
	for _, pageURL := range os.Args[1:] {
		if err := importListing(ctx, parser, registry, pageURL, log); err != nil {
			log.Error("import failed", zap.String("url", pageURL), zap.Error(err))
			failed++
		}
	}

	if failed > 0 {
		log.Warn("import finished with failures", zap.Int("failed", failed))
		os.Exit(1)
	}
	log.Info("import finished")
}

func importListing(ctx context.Context, parser *listingparser.Parser, registry *services.RegistryService, pageURL string, log *zap.Logger) error {
	listing, err := parser.FetchAndParse(ctx, pageURL)
	if err != nil {
		return err
	}

	name := listing.Title
	if len(name) > models.MaxPropertyNameLen {
		log.Warn("listing title trimmed to registry limit",
			zap.String("url", pageURL),
			zap.Int("length", len(name)),
		)
		name = name[:models.MaxPropertyNameLen]
		// срез мог разрезать руну пополам
		for len(name) > 0 && !utf8.ValidString(name) {
			name = name[:len(name)-1]
		}
	}

	imageURL := listing.ImageURL
	if len(imageURL) > models.MaxImageURLLen {
		log.Warn("listing image url too long, dropping",
			zap.String("url", pageURL),
			zap.Int("length", len(imageURL)),
		)
		imageURL = ""
	}

	p, err := registry.RegisterProperty(ctx, name, imageURL)
	if err != nil {
		return err
	}

	log.Info("property imported",
		zap.Uint32("property_id", p.ID),
		zap.String("name", p.Name),
		zap.String("url", pageURL),
	)
	return nil
}
