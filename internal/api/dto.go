package api

// GenerateRequest is the body of POST /generate. Optional fields are
// pointers so "not set" is distinguishable from a zero value.
type GenerateRequest struct {
	Prefix      string   `json:"prefix"`
	MaxLength   *int     `json:"max_length,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	TopK        *int     `json:"top_k,omitempty"`
	Seed        *int64   `json:"seed,omitempty"`
}

type GenerateResponse struct {
	ID            string `json:"id"`
	GeneratedText string `json:"generated_text"`
	TokenCount    int    `json:"token_count"`
	StoppedAtEOT  bool   `json:"stopped_at_eot"`
}

type HealthResponse struct {
	Status           string `json:"status"`
	BPEVocabSize     int    `json:"bpe_vocab_size,omitempty"`
	TrigramVocabSize int    `json:"trigram_vocab_size,omitempty"`
	TrigramContexts  int    `json:"trigram_contexts,omitempty"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}
