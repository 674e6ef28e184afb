package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yegors/qso-trainer/internal/api"
	"github.com/yegors/qso-trainer/internal/audio"
	"github.com/yegors/qso-trainer/internal/config"
	"github.com/yegors/qso-trainer/internal/practice"
	"github.com/yegors/qso-trainer/internal/qso"
	"github.com/yegors/qso-trainer/internal/refdata"
	"github.com/yegors/qso-trainer/internal/scoring"
	"github.com/yegors/qso-trainer/internal/websocket"
	"github.com/yegors/qso-trainer/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to TOML config file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadFromFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting QSO trainer",
		logger.String("host", cfg.Server.Host),
		logger.Int("port", cfg.Server.Port),
		logger.String("audio_mode", cfg.Audio.Mode))

	data := refdata.New()
	generator := qso.NewGenerator(data, cfg.Session.Seed, log)

	wsServer := websocket.NewServer(log)

	morsePlayer := audio.NewMorsePlayer(audio.MorseConfig{
		WPM:           cfg.Audio.WPM,
		ToneFrequency: cfg.Audio.ToneFrequency,
		SampleRate:    cfg.Audio.SampleRate,
	}, nil, log)

	var player audio.Player = morsePlayer
	if cfg.Audio.Mode == "speech" {
		speechPlayer, err := audio.NewSpeechPlayer(audio.SpeechConfig{
			APIKey: cfg.Audio.OpenAIAPIKey,
			Model:  cfg.Audio.SpeechModel,
			Voice:  cfg.Audio.SpeechVoice,
		}, nil, log)
		if err != nil {
			log.Fatal("Failed to create speech player", logger.Error(err))
		}
		player = speechPlayer
	}

	verbosity, err := qso.ParseVerbosity(cfg.Session.Verbosity)
	if err != nil {
		log.Fatal("Invalid session verbosity", logger.Error(err))
	}

	session, err := practice.NewSession(practice.Config{
		QSOCount:  cfg.Session.QSOCount,
		Verbosity: verbosity,
		Region1:   cfg.Session.Region1,
		Region2:   cfg.Session.Region2,
	}, generator, player, log)
	if err != nil {
		log.Fatal("Failed to create practice session", logger.Error(err))
	}
	api.RegisterSessionEvents(session, wsServer)

	scorer, err := scoring.NewScorer(cfg.Scoring.FuzzyThreshold, cfg.Scoring.PartialCredit, cfg.Scoring.CaseSensitive)
	if err != nil {
		log.Fatal("Failed to create scorer", logger.Error(err))
	}
	scores := scoring.NewSessionScorer(scorer)

	handler := api.NewHandler(cfg, data, session, scores, morsePlayer, wsServer, log)
	router := api.NewRouter(handler, cfg, log)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening", logger.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", logger.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down")

	session.ResetSession()
	wsServer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("HTTP server shutdown failed", logger.Error(err))
	}

	log.Info("Shutdown complete")
}
