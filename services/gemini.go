package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"hotel-review-graphrag/config"
	"hotel-review-graphrag/errors"
	"hotel-review-graphrag/translator"
)

// GenerationService produces text completions for the translation and answer
// synthesis stages.
type GenerationService interface {
	translator.QueryGenerator
	GenerateAnswer(ctx context.Context, prompt string) (string, error)
}

// GeminiClient calls the Gemini generateContent API. It satisfies
// translator.QueryGenerator, so the translation pipeline stays decoupled from
// the concrete provider.
type GeminiClient struct {
	config     *config.LLMConfig
	httpClient *http.Client
	logger     Logger
}

// NewGeminiClient creates a new Gemini API client
func NewGeminiClient(cfg *config.LLMConfig, logger Logger) *GeminiClient {
	if logger == nil {
		logger = NewDefaultLogger()
	}
	return &GeminiClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.With(String("component", "gemini_client")),
	}
}

// Configured reports whether the client has an API key. Without one every
// call fails fast and the pipeline runs on fallback translation.
func (c *GeminiClient) Configured() bool {
	return c.config.APIKey != ""
}

// geminiRequest is the generateContent request body.
type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// geminiResponse is the subset of the generateContent response we consume.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		FinishReason string  `json:"finishReason"`
		AvgLogprobs  float64 `json:"avgLogprobs"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateQuery implements translator.QueryGenerator. Query generation runs
// with low temperature; the repair rules expect near-deterministic output.
func (c *GeminiClient) GenerateQuery(ctx context.Context, prompt string) (translator.GeneratedQuery, error) {
	text, finishReason, err := c.generate(ctx, prompt, 0.1, 512)
	if err != nil {
		return translator.GeneratedQuery{}, err
	}

	confidence := 0.85
	if finishReason != "STOP" {
		confidence = 0.5
	}

	return translator.GeneratedQuery{
		RawText:    text,
		Confidence: confidence,
	}, nil
}

// GenerateAnswer produces a natural language answer for the ask pipeline.
func (c *GeminiClient) GenerateAnswer(ctx context.Context, prompt string) (string, error) {
	text, _, err := c.generate(ctx, prompt, 0.4, 1024)
	return text, err
}

// generate executes one generateContent call with retry.
func (c *GeminiClient) generate(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, string, error) {
	if !c.Configured() {
		return "", "", errors.NewAuthError(
			errors.ErrCodeInvalidCredentials,
			"Gemini API key is not configured",
			nil,
		)
	}

	request := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     temperature,
			MaxOutputTokens: maxTokens,
		},
	}

	type generation struct {
		text         string
		finishReason string
	}

	result, err := errors.ExecuteWithResult(ctx, errors.LLMRetryConfig(), func() (generation, error) {
		var response geminiResponse
		if err := c.makeHTTPRequest(ctx, request, &response); err != nil {
			return generation{}, err
		}

		if response.Error != nil {
			return generation{}, errors.NewExternalServiceError(
				errors.ErrCodeLLMServiceFailed,
				fmt.Sprintf("Gemini API returned error %d: %s", response.Error.Code, response.Error.Message),
				nil,
			)
		}

		if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
			return generation{}, errors.NewExternalServiceError(
				errors.ErrCodeLLMEmptyResponse,
				"Gemini API returned no candidates",
				nil,
			)
		}

		candidate := response.Candidates[0]
		return generation{
			text:         candidate.Content.Parts[0].Text,
			finishReason: candidate.FinishReason,
		}, nil
	})
	if err != nil {
		c.logger.Warn("generation request failed",
			String("model", c.config.Model),
			String("error", err.Error()))
		return "", "", err
	}

	return result.text, result.finishReason, nil
}

// makeHTTPRequest makes the actual HTTP request to the generateContent API
func (c *GeminiClient) makeHTTPRequest(ctx context.Context, request geminiRequest, response *geminiResponse) error {
	requestBody, err := json.Marshal(request)
	if err != nil {
		return errors.NewInternalError(
			errors.ErrCodeSerializationError,
			"Failed to marshal generation request",
			err,
		)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.config.Endpoint, c.config.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(requestBody))
	if err != nil {
		return errors.NewInternalError(
			errors.ErrCodeProcessingError,
			"Failed to create HTTP request",
			err,
		)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewNetworkError(
			errors.ErrCodeNetworkConnection,
			"Gemini API request failed",
			err,
		)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewNetworkError(
			errors.ErrCodeNetworkConnection,
			"Failed to read Gemini API response",
			err,
		)
	}

	if resp.StatusCode >= 400 {
		return c.handleHTTPError(resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, response); err != nil {
		return errors.NewInternalError(
			errors.ErrCodeSerializationError,
			"Failed to unmarshal Gemini API response",
			err,
		)
	}

	return nil
}

// handleHTTPError converts HTTP errors to appropriate AppErrors
func (c *GeminiClient) handleHTTPError(statusCode int, body string) error {
	switch {
	case statusCode == 401 || statusCode == 403:
		return errors.NewAuthError(
			errors.ErrCodeInvalidCredentials,
			"Gemini API authentication failed",
			fmt.Errorf("HTTP %d: %s", statusCode, body),
		)
	case statusCode == 429:
		return errors.NewRateLimitError(
			"LLM_RATE_LIMIT",
			"Gemini API rate limit exceeded",
			fmt.Errorf("HTTP %d: %s", statusCode, body),
		)
	case statusCode >= 500:
		return errors.NewExternalServiceError(
			errors.ErrCodeLLMServiceFailed,
			"Gemini API server error",
			fmt.Errorf("HTTP %d: %s", statusCode, body),
		)
	default:
		return errors.NewValidationError(
			errors.ErrCodeInvalidInput,
			"Gemini API rejected the request",
			fmt.Errorf("HTTP %d: %s", statusCode, body),
		)
	}
}
