package entity

import "github.com/contasapp/contas-ingest/constants"

// Document is one user-submitted file. It exists only for the duration of a
// single ingestion request and is never persisted by the pipeline.
type Document struct {
	DisplayName string              `json:"display_name"`
	MediaType   constants.MediaType `json:"media_type"`
	Content     []byte              `json:"-"`
}
