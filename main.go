package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/pliu/aichat/internal/auth"
	"github.com/pliu/aichat/internal/config"
	"github.com/pliu/aichat/internal/email"
	"github.com/pliu/aichat/internal/llm"
	"github.com/pliu/aichat/internal/logging"
	"github.com/pliu/aichat/internal/server"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()
	cfg.BindFlags(flag.CommandLine)
	flag.Parse()
	logging.Init(cfg.Env)

	if err := config.Validate(cfg); err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if cfg.LLMAPIKey == "" {
		log.Warn().Msg("HUGGINGFACEHUB_API_KEY is not set; assistant replies will fail")
	}
	if cfg.SMTP.Host == "" {
		log.Warn().Msg("SMTP_HOST is not set; verification emails are only logged")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	st, err := server.OpenStore(connectCtx, cfg)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("open store")
	}
	log.Info().Str("driver", cfg.StoreDriver).Msg("store connected")

	handler := server.NewRouter(server.Deps{
		Config:    cfg,
		Store:     st,
		Issuer:    auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL),
		Mailer:    email.NewSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From, cfg.SMTP.Secure),
		Completer: llm.New(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel),
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("env", cfg.Env).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if err := st.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("close store")
	}
}
