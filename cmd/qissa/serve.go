package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/qalam-lab/qissa/internal/api"
	"github.com/qalam-lab/qissa/internal/bpe"
	"github.com/qalam-lab/qissa/internal/logger"
	"github.com/qalam-lab/qissa/internal/ngram"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the story-generation REST API",
		Flags: append(commonModelFlags(),
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyServeConfig(cmd, LoadConfig(), &addr)

			codec := bpe.New()
			if err := codec.Load(bpeModelPath); err != nil {
				return fmt.Errorf("load codec: %w", err)
			}
			model := ngram.Default()
			if err := model.Load(trigramModelPath); err != nil {
				return fmt.Errorf("load trigram model: %w", err)
			}
			log.Info("models ready",
				"bpe_vocab", codec.VocabSize(),
				"trigram_vocab", model.VocabSize(),
				"trigram_contexts", model.ContextCount(),
			)

			server := api.NewServer(codec, model, log)
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)

			log.Info("starting server", "address", addr)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
