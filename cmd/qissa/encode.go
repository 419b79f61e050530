package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/qalam-lab/qissa/internal/bpe"
)

func encodeCmd() *cli.Command {
	var text string

	return &cli.Command{
		Name:  "encode",
		Usage: "Encode text with the trained BPE codec and show the round trip",
		Flags: append(commonModelFlags(),
			&cli.StringFlag{
				Name:        "text",
				Usage:       "text to encode",
				Required:    true,
				Destination: &text,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyModelConfig(cmd, LoadConfig())

			codec := bpe.New()
			if err := codec.Load(bpeModelPath); err != nil {
				return fmt.Errorf("load codec: %w", err)
			}

			ids, err := codec.Encode(text)
			if err != nil {
				return err
			}
			decoded, err := codec.Decode(ids)
			if err != nil {
				return err
			}
			fmt.Printf("ids:     %v\n", ids)
			fmt.Printf("decoded: %s\n", decoded)
			return nil
		},
	}
}
