// Package pipeline drives uploaded documents through recognition and field
// extraction. Documents are independent: each accepted document yields exactly
// one result, and one document's failure never affects another's.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/contasapp/contas-ingest/constants"
	"github.com/contasapp/contas-ingest/internal/entity"
	"github.com/contasapp/contas-ingest/internal/extract"
	"github.com/contasapp/contas-ingest/internal/ocr"
)

// Result is the per-document outcome. UploadID is a synthetic identifier
// assigned at ingestion time; DisplayName is kept as a correlation hint for
// clients but is not guaranteed unique within a batch.
type Result struct {
	UploadID       string         `json:"upload_id"`
	DisplayName    string         `json:"display_name"`
	RecognizedText string         `json:"recognized_text"`
	Fields         extract.Fields `json:"extracted_fields"`
	Error          string         `json:"error,omitempty"`
}

// Rejection reports a document turned away before OCR was attempted.
type Rejection struct {
	DisplayName string `json:"display_name"`
	Reason      string `json:"reason"`
}

// Batch aggregates one ingestion request. Results holds exactly one entry per
// accepted document, in submission order. Rejected is never silently dropped.
type Batch struct {
	Results  []Result    `json:"results"`
	Rejected []Rejection `json:"rejected,omitempty"`
}

type Orchestrator struct {
	recognizer  ocr.Recognizer
	concurrency int
	logger      *slog.Logger
}

func NewOrchestrator(rec ocr.Recognizer, concurrency int, logger *slog.Logger) *Orchestrator {
	if concurrency <= 0 {
		concurrency = 4
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{recognizer: rec, concurrency: concurrency, logger: logger}
}

// Ingest validates the batch, recognizes accepted documents concurrently
// (bounded by the configured limit), and extracts fields from each result.
// Recognition failures are isolated per document: the affected entry carries
// an error description while the rest of the batch completes normally. The
// only batch-level error is context cancellation.
func (o *Orchestrator) Ingest(ctx context.Context, docs []entity.Document) (Batch, error) {
	accepted, rejected := Validate(docs)

	results := make([]Result, len(accepted))
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(o.concurrency)

	for i, doc := range accepted {
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			res := Result{
				UploadID:    uuid.NewString(),
				DisplayName: doc.DisplayName,
			}

			start := time.Now()
			text, err := o.recognizer.Recognize(gctx, doc)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				o.logger.Warn("document recognition failed",
					"name", doc.DisplayName, "upload_id", res.UploadID, "error", err)
				res.Error = err.Error()
			} else {
				res.RecognizedText = text
				res.Fields = extract.FromText(text)
				o.logger.Info("document processed",
					"name", doc.DisplayName,
					"upload_id", res.UploadID,
					"text_bytes", len(text),
					"elapsed_ms", time.Since(start).Milliseconds(),
				)
			}

			// indexed write; order is restored for free
			results[i] = res
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return Batch{}, err
	}
	return Batch{Results: results, Rejected: rejected}, nil
}

// Validate splits a batch into accepted documents and per-item rejections.
func Validate(docs []entity.Document) ([]entity.Document, []Rejection) {
	var accepted []entity.Document
	var rejected []Rejection
	for _, doc := range docs {
		switch {
		case len(doc.Content) == 0:
			rejected = append(rejected, Rejection{
				DisplayName: doc.DisplayName,
				Reason:      "empty file payload",
			})
		case !constants.IsAccepted(string(doc.MediaType)):
			rejected = append(rejected, Rejection{
				DisplayName: doc.DisplayName,
				Reason:      "unsupported media type: " + string(doc.MediaType),
			})
		default:
			accepted = append(accepted, doc)
		}
	}
	return accepted, rejected
}
