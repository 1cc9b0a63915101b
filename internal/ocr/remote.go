package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/contasapp/contas-ingest/internal/common"
	"github.com/contasapp/contas-ingest/internal/entity"
)

// Remote recognizes documents through an HTTP recognition service: the
// document bytes go out as a multipart body, recognized text comes back as
// JSON. Any transport failure, non-2xx status, or response missing the text
// payload is a hard failure for that document.
type Remote struct {
	url      string
	language string
	client   *http.Client
	logger   *slog.Logger
}

type remoteResponse struct {
	Text *string `json:"text"`
}

func NewRemote(url, language string, client *http.Client, logger *slog.Logger) *Remote {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if language == "" {
		language = "por"
	}
	return &Remote{url: url, language: language, client: client, logger: logger}
}

func (r *Remote) Recognize(ctx context.Context, doc entity.Document) (string, error) {
	start := time.Now()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", doc.DisplayName)
	if err != nil {
		return "", fmt.Errorf("%w: build multipart: %v", common.ErrOCRService, err)
	}
	if _, err := fw.Write(doc.Content); err != nil {
		return "", fmt.Errorf("%w: write multipart: %v", common.ErrOCRService, err)
	}
	if err := mw.WriteField("lang", r.language); err != nil {
		return "", fmt.Errorf("%w: write multipart: %v", common.ErrOCRService, err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("%w: close multipart: %v", common.ErrOCRService, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, &body)
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", common.ErrOCRService, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrOCRService, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			r.logger.Warn("ocr response body close", "error", cerr)
		}
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", common.ErrOCRService, err)
	}

	r.logger.Info("ocr.remote.response",
		"name", doc.DisplayName,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("%w: status %d", common.ErrOCRService, resp.StatusCode)
	}

	var parsed remoteResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", common.ErrOCRService, err)
	}
	if parsed.Text == nil {
		return "", fmt.Errorf("%w: response missing text payload", common.ErrOCRService)
	}
	return *parsed.Text, nil
}
