package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	speech "cloud.google.com/go/speech/apiv1"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	stt "github.com/voxpipe/stt_streaming"
	"github.com/voxpipe/stt_streaming/providers"
	"github.com/voxpipe/stt_streaming/providers/deepgram"
	"github.com/voxpipe/stt_streaming/providers/google"
	"github.com/voxpipe/stt_streaming/vad"
)

func main() {
	var configPath = flag.String("config", "", "Path to YAML configuration file")
	flag.Parse()

	// Optional .env for local development; absence is fine.
	_ = godotenv.Load()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "stt",
	})

	cfg, err := stt.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}

	server := stt.New(cfg, logger)

	// Pipelines come up in the background so the websocket endpoint is
	// reachable immediately; sessions buffer audio until the gate fires.
	if os.Getenv("STT_SKIP_INIT") == "" {
		go initPipelines(server, cfg, logger)
	} else {
		logger.Warn("skipping VAD/ASR initialization (STT_SKIP_INIT set)")
	}

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("server failed to start", "error", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	if err := server.Stop(); err != nil {
		logger.Error("error during server shutdown", "error", err)
	}
}

// initPipelines builds the shared detector and recognizer stack and fires
// the readiness gate. A provider that fails to initialize is skipped; if
// none come up the gate never fires and sessions stay in buffer-only mode.
func initPipelines(server *stt.Server, cfg stt.Config, logger *log.Logger) {
	detector := vad.NewSimpleDetector(cfg.VAD.MinDurationSeconds)

	names := cfg.Recognition.Providers
	if len(names) == 0 && cfg.Recognition.DeepgramAPIKey != "" {
		names = []string{"deepgram"}
	}

	var recognizers []providers.Recognizer
	for _, name := range names {
		switch name {
		case "deepgram":
			if cfg.Recognition.DeepgramAPIKey == "" {
				logger.Error("deepgram provider configured without an API key")
				continue
			}
			recognizers = append(recognizers, deepgram.NewRecognizer(cfg.Recognition.DeepgramAPIKey))
		case "google":
			client, err := speech.NewClient(context.Background())
			if err != nil {
				logger.Error("failed to create google speech client", "error", err)
				continue
			}
			recognizers = append(recognizers, google.NewRecognizer(client))
		default:
			logger.Error("unknown recognition provider", "provider", name)
		}
	}

	switch len(recognizers) {
	case 0:
		logger.Error("no recognition providers available; sessions will buffer audio only")
		return
	case 1:
		server.SetPipelines(detector, recognizers[0])
	default:
		failover, err := providers.NewFailover(logger, recognizers...)
		if err != nil {
			logger.Error("failed to build failover recognizer", "error", err)
			return
		}
		server.SetPipelines(detector, failover)
	}
}
