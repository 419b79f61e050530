package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/qalam-lab/qissa/internal/logger"
	"github.com/qalam-lab/qissa/internal/ngram"
)

func generateCmd() *cli.Command {
	var (
		prefix    string
		maxLength int64
		temp      float64
		topK      int64
		seed      int64
	)

	return &cli.Command{
		Name:  "generate",
		Usage: "Generate a story continuation from a prefix",
		Flags: append(commonModelFlags(),
			&cli.StringFlag{
				Name:        "prefix",
				Aliases:     []string{"p"},
				Usage:       "starting phrase (at least one word)",
				Required:    true,
				Destination: &prefix,
			},
			&cli.Int64Flag{
				Name:        "max-length",
				Aliases:     []string{"n"},
				Usage:       "maximum tokens to generate beyond the seed",
				Value:       200,
				Destination: &maxLength,
			},
			&cli.Float64Flag{
				Name:        "temp",
				Aliases:     []string{"temperature", "t"},
				Usage:       "sampling temperature (<1 sharper, >1 flatter)",
				Value:       0.4,
				Destination: &temp,
			},
			&cli.Int64Flag{
				Name:        "top-k",
				Usage:       "sample only from the top-k candidates (0 disables)",
				Value:       5,
				Destination: &topK,
			},
			&cli.Int64Flag{
				Name:        "seed",
				Usage:       "random seed for reproducible output (-1 = random)",
				Value:       -1,
				Destination: &seed,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyGenerateConfig(cmd, LoadConfig(), &maxLength, &temp, &topK, &seed)

			model := ngram.Default()
			if err := model.Load(trigramModelPath); err != nil {
				return fmt.Errorf("load trigram model: %w", err)
			}
			log.Debug("model loaded",
				"vocab_size", model.VocabSize(),
				"contexts", model.ContextCount(),
			)

			seedTokens := strings.Fields(prefix)
			if len(seedTokens) == 1 {
				seedTokens = append(seedTokens, seedTokens[0])
			}

			opts := ngram.GenerateOptions{
				MaxLength:   int(maxLength),
				Temperature: temp,
				TopK:        int(topK),
			}
			if cmd.IsSet("seed") || seed >= 0 {
				opts.Seed = &seed
			}

			out, err := model.Generate(seedTokens, opts)
			if err != nil {
				return err
			}
			fmt.Println(strings.Join(out, " "))
			return nil
		},
	}
}
