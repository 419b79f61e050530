package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/qalam-lab/qissa/internal/corpus"
	"github.com/qalam-lab/qissa/internal/logger"
	"github.com/qalam-lab/qissa/internal/ngram"
)

func perplexityCmd() *cli.Command {
	var evalPath string

	return &cli.Command{
		Name:  "perplexity",
		Usage: "Score a held-out corpus under the trained trigram model",
		Flags: append(commonModelFlags(),
			&cli.StringFlag{
				Name:        "corpus",
				Aliases:     []string{"c"},
				Usage:       "path to the evaluation corpus",
				Required:    true,
				Destination: &evalPath,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyModelConfig(cmd, LoadConfig())

			model := ngram.Default()
			if err := model.Load(trigramModelPath); err != nil {
				return fmt.Errorf("load trigram model: %w", err)
			}

			text, err := corpus.Load(evalPath)
			if err != nil {
				return fmt.Errorf("load corpus: %w", err)
			}

			pp, err := model.Perplexity(text)
			if err != nil {
				return err
			}
			log.Info("perplexity computed", "corpus", evalPath)
			fmt.Printf("perplexity: %.4f\n", pp)
			return nil
		},
	}
}
