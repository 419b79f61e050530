// Package api exposes the story-generation HTTP surface: a generate
// endpoint over the trigram model and a liveness probe reporting both
// loaded models. The server holds the models as explicit state handed
// in at construction; there are no package-level singletons.
package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/qalam-lab/qissa/internal/bpe"
	"github.com/qalam-lab/qissa/internal/logger"
	"github.com/qalam-lab/qissa/internal/ngram"
	"github.com/qalam-lab/qissa/internal/tokens"
)

// Request parameter bounds mirror what the models can usefully serve;
// anything outside is rejected rather than clamped.
const (
	defaultMaxLength = 200
	minMaxLength     = 10
	maxMaxLength     = 1000

	defaultTemperature = 0.4
	minTemperature     = 0.1
	maxTemperature     = 2.0

	defaultTopK = 5
	minTopK     = 1
	maxTopK     = 500
)

type Server struct {
	codec *bpe.Codec
	model *ngram.Model
	log   logger.Logger
}

func NewServer(codec *bpe.Codec, model *ngram.Model, log logger.Logger) *Server {
	if log == nil {
		log = logger.Default()
	}
	return &Server{codec: codec, model: model, log: log}
}

func (s *Server) Register(e *echo.Echo) {
	e.POST("/generate", s.handleGenerate)
	e.GET("/health", s.handleHealth)
}

func (s *Server) ready() bool {
	return s.codec != nil && s.codec.Trained() && s.model != nil && s.model.Trained()
}

func (s *Server) handleHealth(c *echo.Context) error {
	if !s.ready() {
		return c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "loading"})
	}
	return c.JSON(http.StatusOK, HealthResponse{
		Status:           "ok",
		BPEVocabSize:     s.codec.VocabSize(),
		TrigramVocabSize: s.model.VocabSize(),
		TrigramContexts:  s.model.ContextCount(),
	})
}

func (s *Server) handleGenerate(c *echo.Context) error {
	if !s.ready() {
		return writeError(c, http.StatusServiceUnavailable, "not_ready", "models not loaded yet")
	}
	req, err := decodeJSON[GenerateRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, "malformed request body")
	}

	seed, opts, err := validateRequest(&req)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}

	out, err := s.model.Generate(seed, opts)
	if err != nil {
		if errors.Is(err, ngram.ErrNotTrained) {
			return writeError(c, http.StatusServiceUnavailable, "not_ready", err.Error())
		}
		if errors.Is(err, ngram.ErrSeedTooShort) {
			return writeBadRequest(c, err.Error())
		}
		s.log.Error("generation failed", "error", err)
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
	}

	resp := GenerateResponse{
		ID:            "gen_" + uuid.NewString(),
		GeneratedText: strings.Join(out, " "),
		TokenCount:    len(out),
		StoppedAtEOT:  len(out) > 0 && out[len(out)-1] == tokens.EOT,
	}
	s.log.Info("generated story",
		"id", resp.ID,
		"seed_tokens", len(seed),
		"token_count", resp.TokenCount,
		"stopped_at_eot", resp.StoppedAtEOT,
	)
	return c.JSON(http.StatusOK, resp)
}

// validateRequest checks the sampling bounds and builds the seed token
// list. A single-token prefix is padded by duplication because the
// trigram model needs a two-token context.
func validateRequest(req *GenerateRequest) ([]string, ngram.GenerateOptions, error) {
	var opts ngram.GenerateOptions

	seed := strings.Fields(req.Prefix)
	if len(seed) == 0 {
		return nil, opts, newInvalidRequest("prefix produced no tokens")
	}
	if len(seed) == 1 {
		seed = append(seed, seed[0])
	}

	opts.MaxLength = defaultMaxLength
	if req.MaxLength != nil {
		if *req.MaxLength < minMaxLength || *req.MaxLength > maxMaxLength {
			return nil, opts, newInvalidRequest(fmt.Sprintf("max_length must be between %d and %d", minMaxLength, maxMaxLength))
		}
		opts.MaxLength = *req.MaxLength
	}

	opts.Temperature = defaultTemperature
	if req.Temperature != nil {
		if *req.Temperature < minTemperature || *req.Temperature > maxTemperature {
			return nil, opts, newInvalidRequest(fmt.Sprintf("temperature must be between %g and %g", minTemperature, maxTemperature))
		}
		opts.Temperature = *req.Temperature
	}

	opts.TopK = defaultTopK
	if req.TopK != nil {
		if *req.TopK < minTopK || *req.TopK > maxTopK {
			return nil, opts, newInvalidRequest(fmt.Sprintf("top_k must be between %d and %d", minTopK, maxTopK))
		}
		opts.TopK = *req.TopK
	}

	opts.Seed = req.Seed
	return seed, opts, nil
}

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg)
}

func writeError(c *echo.Context, status int, errType, msg string) error {
	return c.JSON(status, ErrorResponse{Error: ErrorBody{Message: msg, Type: errType}})
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var out T
	dec := json.NewDecoder(r)
	if err := dec.Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}
