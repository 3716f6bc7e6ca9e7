package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/h2non/filetype"
	gonanoid "github.com/matoous/go-nanoid/v2"
	config "github.com/nichelab/brandbrain/configs"
	"github.com/nichelab/brandbrain/internal/models"
	"github.com/nichelab/brandbrain/internal/transfer"
)

const (
	draftBatchSize    = 5
	videoPollInterval = 8 * time.Second
)

// GenerationError is a provider failure. Permission marks the
// user-actionable case: the configured API key lacks access to the
// requested model tier.
type GenerationError struct {
	Op         string
	Message    string
	Permission bool
}

func (e *GenerationError) Error() string {
	if e.Permission {
		return fmt.Sprintf("%s generation: %s (a paid API key is required)", e.Op, e.Message)
	}
	return fmt.Sprintf("%s generation: %s", e.Op, e.Message)
}

type GenerationService interface {
	GenerateDrafts(ctx context.Context, niche *models.Niche) ([]models.Post, error)
	GenerateImage(ctx context.Context, topic string) (string, error)
	GenerateVideo(ctx context.Context, topic string) (string, error)
}

type generationService struct {
	cfg          config.Config
	media        MediaStore
	httpClient   *http.Client
	pollInterval time.Duration
}

func NewGenerationService(cfg config.Config, media MediaStore) GenerationService {
	return &generationService{
		cfg:          cfg,
		media:        media,
		httpClient:   &http.Client{},
		pollInterval: videoPollInterval,
	}
}

// GenerateDrafts asks the text model for a structured batch of post
// ideas. An unparseable response yields an empty batch, not an error.
func (s *generationService) GenerateDrafts(ctx context.Context, niche *models.Niche) ([]models.Post, error) {
	prompt := fmt.Sprintf(`Generate %d creative social media post drafts for a brand in the %q niche.
Target Audience: %s.
Tone: %s.
Provide variety in topics and suggest whether each should be an image or a video.`,
		draftBatchSize, niche.Name, niche.TargetAudience, niche.Tone)

	req := &transfer.GeminiRequest{
		Contents: []transfer.GeminiContent{
			{Parts: []transfer.GeminiPart{{Text: prompt}}},
		},
		GenerationConfig: &transfer.GenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema: &transfer.GeminiSchema{
				Type: "array",
				Items: &transfer.GeminiSchema{
					Type: "object",
					Properties: map[string]*transfer.GeminiSchema{
						"topic":    {Type: "string"},
						"caption":  {Type: "string"},
						"hashtags": {Type: "array", Items: &transfer.GeminiSchema{Type: "string"}},
						"mediaType": {
							Type:        "string",
							Description: "IMAGE, VIDEO, or TEXT_ONLY",
						},
					},
					Required: []string{"topic", "caption", "hashtags", "mediaType"},
				},
			},
		},
	}

	resp, err := s.generateContent(ctx, "drafts", s.cfg.Gemini.TextModel, req)
	if err != nil {
		return nil, err
	}

	var ideas []transfer.DraftIdea
	if err := json.Unmarshal([]byte(firstText(resp)), &ideas); err != nil {
		slog.Info("draft batch response was not valid JSON: " + err.Error())
		return []models.Post{}, nil
	}

	now := time.Now()
	posts := make([]models.Post, 0, len(ideas))
	for _, idea := range ideas {
		id, err := gonanoid.New()
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, models.Post{
			ID:        id,
			Niche:     niche.Name,
			Topic:     idea.Topic,
			Caption:   idea.Caption,
			Hashtags:  idea.Hashtags,
			MediaType: normalizeMediaType(idea.MediaType),
			Status:    models.PostStatusDraft,
			CreatedAt: now,
		})
	}
	return posts, nil
}

// GenerateImage returns an embeddable data URI for the topic.
func (s *generationService) GenerateImage(ctx context.Context, topic string) (string, error) {
	prompt := fmt.Sprintf("High quality, aesthetic social media post image. Style: Modern, Professional. Subject: %s", topic)

	req := &transfer.GeminiRequest{
		Contents: []transfer.GeminiContent{
			{Parts: []transfer.GeminiPart{{Text: prompt}}},
		},
	}

	resp, err := s.generateContent(ctx, "image", s.cfg.Gemini.ImageModel, req)
	if err != nil {
		return "", err
	}

	for _, candidate := range resp.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				mime := part.InlineData.MimeType
				if mime == "" {
					mime = "image/png"
				}
				return fmt.Sprintf("data:%s;base64,%s", mime, part.InlineData.Data), nil
			}
		}
	}

	return "", &GenerationError{Op: "image", Message: "no image data found in response"}
}

// GenerateVideo submits an asynchronous job, polls it until completion,
// then stores the downloaded asset and returns its public URL. The
// loop has no attempt cap; only context cancellation stops a stalled job.
func (s *generationService) GenerateVideo(ctx context.Context, topic string) (string, error) {
	req := &transfer.VideoGenerationRequest{
		Instances: []transfer.VideoInstance{
			{Prompt: fmt.Sprintf("Cinematic professional social media short: %s", topic)},
		},
		Parameters: &transfer.VideoParameters{
			NumberOfVideos: 1,
			Resolution:     "720p",
			AspectRatio:    "9:16",
		},
	}

	op, err := s.submitVideoJob(ctx, req)
	if err != nil {
		return "", err
	}

	for !op.Done {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(s.pollInterval):
		}

		op, err = s.getVideoOperation(ctx, op.Name)
		if err != nil {
			return "", err
		}
	}

	if op.Error != nil {
		return "", s.providerError("video", 0, op.Error.Message)
	}

	if op.Response == nil {
		return "", &GenerationError{Op: "video", Message: "no video found in completed operation"}
	}
	samples := op.Response.GenerateVideoResponse.GeneratedSamples
	if len(samples) == 0 || samples[0].Video.URI == "" {
		return "", &GenerationError{Op: "video", Message: "no video found in completed operation"}
	}

	return s.downloadAndStore(ctx, samples[0].Video.URI)
}

func (s *generationService) generateContent(ctx context.Context, op, model string, req *transfer.GeminiRequest) (*transfer.GeminiResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", strings.TrimRight(s.cfg.Gemini.BaseURL, "/"), model, s.cfg.Gemini.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := s.httpClient.Do(httpReq)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer httpResp.Body.Close()

	var resp transfer.GeminiResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK || resp.Error != nil {
		message := httpResp.Status
		if resp.Error != nil {
			message = resp.Error.Message
		}
		return nil, s.providerError(op, httpResp.StatusCode, message)
	}

	return &resp, nil
}

func (s *generationService) submitVideoJob(ctx context.Context, req *transfer.VideoGenerationRequest) (*transfer.VideoOperation, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/models/%s:predictLongRunning?key=%s", strings.TrimRight(s.cfg.Gemini.BaseURL, "/"), s.cfg.Gemini.VideoModel, s.cfg.Gemini.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := s.httpClient.Do(httpReq)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		message := httpResp.Status
		var geminiErr struct {
			Error *transfer.GeminiError `json:"error"`
		}
		if err := json.NewDecoder(httpResp.Body).Decode(&geminiErr); err == nil && geminiErr.Error != nil {
			message = geminiErr.Error.Message
		}
		return nil, s.providerError("video", httpResp.StatusCode, message)
	}

	var op transfer.VideoOperation
	if err := json.NewDecoder(httpResp.Body).Decode(&op); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to decode operation: %w", err)
	}
	return &op, nil
}

func (s *generationService) getVideoOperation(ctx context.Context, name string) (*transfer.VideoOperation, error) {
	url := fmt.Sprintf("%s/%s?key=%s", strings.TrimRight(s.cfg.Gemini.BaseURL, "/"), name, s.cfg.Gemini.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	httpResp, err := s.httpClient.Do(httpReq)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, s.providerError("video", httpResp.StatusCode, httpResp.Status)
	}

	var op transfer.VideoOperation
	if err := json.NewDecoder(httpResp.Body).Decode(&op); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to decode operation: %w", err)
	}
	return &op, nil
}

// downloadAndStore fetches the finished asset (the retrieval URL needs
// the API key appended) and uploads it to R2.
func (s *generationService) downloadAndStore(ctx context.Context, uri string) (string, error) {
	sep := "?"
	if strings.Contains(uri, "?") {
		sep = "&"
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, uri+sep+"key="+s.cfg.Gemini.APIKey, nil)
	if err != nil {
		return "", err
	}

	httpResp, err := s.httpClient.Do(httpReq)
	if err != nil {
		slog.Info(err.Error())
		return "", fmt.Errorf("failed to download video: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return "", &GenerationError{Op: "video", Message: fmt.Sprintf("asset download returned %s", httpResp.Status)}
	}

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	contentType := "video/mp4"
	if kind, err := filetype.Match(data); err == nil && kind.MIME.Value != "" {
		contentType = kind.MIME.Value
	}

	key, err := gonanoid.New()
	if err != nil {
		return "", err
	}

	if err := s.media.Upload(ctx, key, data, contentType); err != nil {
		return "", err
	}

	return s.media.PublicURL(key), nil
}

func (s *generationService) providerError(op string, status int, message string) *GenerationError {
	return &GenerationError{
		Op:         op,
		Message:    message,
		Permission: status == http.StatusForbidden || strings.Contains(strings.ToLower(message), "permission"),
	}
}

func firstText(resp *transfer.GeminiResponse) string {
	for _, candidate := range resp.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				return part.Text
			}
		}
	}
	return ""
}

func normalizeMediaType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "video":
		return models.MediaTypeVideo
	case "text_only", "textonly", "text":
		return models.MediaTypeTextOnly
	default:
		return models.MediaTypeImage
	}
}
