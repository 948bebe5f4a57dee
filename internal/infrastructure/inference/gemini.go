package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"swadesh-intern/internal/config"
	"swadesh-intern/internal/logging"
)

var (
	ErrMissingAPIKey = errors.New("inference api key not configured")
	ErrUpstream      = errors.New("inference request failed")
)

// Reply is the useful part of a generateContent response. BlockReason is set
// when the prompt was refused by the safety filter.
type Reply struct {
	Text        string
	BlockReason string
}

type Generator interface {
	Generate(ctx context.Context, prompt string) (Reply, error)
}

type GeminiClient struct {
	apiKey          string
	baseURL         string
	model           string
	temperature     float64
	maxOutputTokens int
	client          *http.Client
	logger          logrus.FieldLogger
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason"`
}

// finish reasons that mean the model refused rather than ran out of tokens.
var blockedFinish = map[string]bool{
	"SAFETY":             true,
	"RECITATION":         true,
	"BLOCKLIST":          true,
	"PROHIBITED_CONTENT": true,
	"SPII":               true,
}

type generateResponse struct {
	Candidates     []candidate `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func NewGeminiClient(cfg config.InferenceConfig, logger logrus.FieldLogger) *GeminiClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &GeminiClient{
		apiKey:          strings.TrimSpace(cfg.APIKey),
		baseURL:         strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		model:           strings.TrimSpace(cfg.Model),
		temperature:     cfg.Temperature,
		maxOutputTokens: cfg.MaxOutputTokens,
		client:          &http.Client{Timeout: timeout},
		logger:          logging.OrDiscard(logger),
	}
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (Reply, error) {
	if c == nil || c.client == nil {
		return Reply{}, errors.New("nil inference client")
	}
	if c.apiKey == "" {
		return Reply{}, ErrMissingAPIKey
	}

	body := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     c.temperature,
			MaxOutputTokens: c.maxOutputTokens,
		},
	}
	b, err := json.Marshal(body)
	if err != nil {
		return Reply{}, err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return Reply{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		// The url carries the key; keep it out of the error.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return Reply{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	log := c.logger.WithFields(logrus.Fields{
		"model":    c.model,
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		bodyStr := strings.TrimSpace(string(rb))
		log.WithField("body", bodyStr).Warn("gemini generateContent failed")
		return Reply{}, fmt.Errorf("%w: status=%d", ErrUpstream, resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Reply{}, fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}
	if out.Error != nil {
		log.WithField("upstream_message", out.Error.Message).Warn("gemini returned an error payload")
		return Reply{}, fmt.Errorf("%w: %s", ErrUpstream, out.Error.Status)
	}

	reply := replyFrom(out)
	log.WithField("blocked", reply.BlockReason != "").Debug("gemini reply received")
	return reply, nil
}

// replyFrom takes the first candidate that carries text. With none, the
// prompt feedback or a blocking finish reason becomes the BlockReason.
func replyFrom(out generateResponse) Reply {
	blocked := ""
	for _, c := range out.Candidates {
		var sb strings.Builder
		for _, p := range c.Content.Parts {
			sb.WriteString(p.Text)
		}
		if text := strings.TrimSpace(sb.String()); text != "" {
			return Reply{Text: text}
		}
		if blocked == "" && blockedFinish[c.FinishReason] {
			blocked = c.FinishReason
		}
	}
	if out.PromptFeedback != nil && out.PromptFeedback.BlockReason != "" {
		return Reply{BlockReason: out.PromptFeedback.BlockReason}
	}
	return Reply{BlockReason: blocked}
}

var _ Generator = (*GeminiClient)(nil)
