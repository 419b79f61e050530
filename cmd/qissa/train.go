package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/qalam-lab/qissa/internal/bpe"
	"github.com/qalam-lab/qissa/internal/corpus"
	"github.com/qalam-lab/qissa/internal/logger"
	"github.com/qalam-lab/qissa/internal/ngram"
)

func trainCmd() *cli.Command {
	var (
		corpusPath string
		vocabSize  int64
		lambda1    float64
		lambda2    float64
		lambda3    float64
	)

	return &cli.Command{
		Name:  "train",
		Usage: "Train the BPE codec and the trigram model from a corpus",
		Flags: append(commonModelFlags(),
			&cli.StringFlag{
				Name:        "corpus",
				Aliases:     []string{"c"},
				Usage:       "path to the training corpus (.txt or scraped .json)",
				Required:    true,
				Destination: &corpusPath,
			},
			&cli.Int64Flag{
				Name:        "vocab-size",
				Usage:       "target BPE vocabulary size",
				Value:       250,
				Destination: &vocabSize,
			},
			&cli.Float64Flag{
				Name:        "lambda1",
				Usage:       "unigram interpolation weight",
				Value:       0.1,
				Destination: &lambda1,
			},
			&cli.Float64Flag{
				Name:        "lambda2",
				Usage:       "bigram interpolation weight",
				Value:       0.3,
				Destination: &lambda2,
			},
			&cli.Float64Flag{
				Name:        "lambda3",
				Usage:       "trigram interpolation weight",
				Value:       0.6,
				Destination: &lambda3,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			cfg := LoadConfig()
			applyModelConfig(cmd, cfg)
			if cfg.VocabSize != nil && !cmd.IsSet("vocab-size") {
				vocabSize = *cfg.VocabSize
			}

			text, err := corpus.Load(corpusPath)
			if err != nil {
				return fmt.Errorf("load corpus: %w", err)
			}
			log.Info("corpus loaded", "path", corpusPath, "bytes", len(text))

			codec := bpe.New()
			if err := codec.Train(text, int(vocabSize)); err != nil {
				return fmt.Errorf("train codec: %w", err)
			}
			log.Info("codec trained",
				"target", vocabSize,
				"vocab_size", codec.VocabSize(),
				"merges", codec.MergeCount(),
			)
			if err := codec.Save(bpeModelPath); err != nil {
				return fmt.Errorf("save codec: %w", err)
			}

			model, err := ngram.New(lambda1, lambda2, lambda3)
			if err != nil {
				return err
			}
			if err := model.Train(text); err != nil {
				return fmt.Errorf("train trigram model: %w", err)
			}
			log.Info("trigram model trained",
				"tokens", model.TotalTokens(),
				"vocab_size", model.VocabSize(),
				"contexts", model.ContextCount(),
			)
			if err := model.Save(trigramModelPath); err != nil {
				return fmt.Errorf("save trigram model: %w", err)
			}

			log.Info("training complete", "bpe", bpeModelPath, "trigram", trigramModelPath)
			return nil
		},
	}
}
