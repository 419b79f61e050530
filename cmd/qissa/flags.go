package main

import "github.com/urfave/cli/v3"

var (
	bpeModelPath     string
	trigramModelPath string
	logLevel         string
	logFormat        string
	debug            bool
)

func commonModelFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "bpe-model",
			Usage:       "path to the trained BPE codec file",
			Value:       "bpe_tokenizer_trained.json",
			Destination: &bpeModelPath,
		},
		&cli.StringFlag{
			Name:        "trigram-model",
			Usage:       "path to the trained trigram model file",
			Value:       "trigram_model_trained.json",
			Destination: &trigramModelPath,
		},
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}
