package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"nekognition/config"
	telegram "nekognition/internal/api"
	"nekognition/internal/api/rest"
	"nekognition/internal/container"
	"nekognition/internal/domain/port"
	"nekognition/internal/infrastructure/render"
	"nekognition/internal/infrastructure/storage"
	"nekognition/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	detector, closeDetector, err := newDetector(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create detector: %v", err)
	}
	defer closeDetector()

	// Uploads are cached per chat in memory
	sessionRepo := storage.NewMemorySessionRepository()

	appContainer, err := container.New(cfg, sessionRepo, detector, newMasker(cfg))
	if err != nil {
		log.Fatalf("Failed to build services: %v", err)
	}

	var wg sync.WaitGroup

	if cfg.HTTPAddr != "" {
		server := rest.NewServer(appContainer)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := server.ListenAndServe(ctx, cfg.HTTPAddr); err != nil {
				log.Printf("HTTP server error: %v", err)
				stop()
			}
		}()
	}

	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, appContainer)
		if err != nil {
			log.Fatalf("Failed to create bot: %v", err)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Println("Bot is running...")
			if err := bot.Run(ctx); err != nil {
				log.Printf("Bot error: %v", err)
				stop()
			}
		}()
	}

	wg.Wait()
	log.Println("Stopped")
}

func newDetector(ctx context.Context, cfg *config.Config) (port.Detector, func(), error) {
	noop := func() {}

	switch cfg.Detector {
	case config.DetectorGoogle:
		d, closeFn, err := vision.NewGoogleDetectorFromEnv(ctx)
		if err != nil {
			return nil, noop, err
		}
		log.Println("Using Google Cloud Vision detector")
		return d, func() {
			if err := closeFn(); err != nil {
				log.Printf("Error closing vision client: %v", err)
			}
		}, nil

	case config.DetectorFixture:
		d, err := vision.NewFixtureDetector(cfg.FixtureDir)
		if err != nil {
			return nil, noop, err
		}
		log.Printf("Using fixture detector from %s", cfg.FixtureDir)
		return d, noop, nil

	default:
		d, err := vision.NewRekognitionDetectorForRegion(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, noop, err
		}
		log.Printf("Using Rekognition detector in %s", cfg.AWSRegion)
		return d, noop, nil
	}
}

func newMasker(cfg *config.Config) port.FaceMasker {
	if cfg.Masker == config.MaskerGoCV {
		return render.NewGoCVMosaicMasker()
	}
	return render.NewEllipseMosaicMasker()
}
