package ocr

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/contasapp/contas-ingest/constants"
	"github.com/contasapp/contas-ingest/internal/common"
	"github.com/contasapp/contas-ingest/internal/entity"
)

func testDoc() entity.Document {
	return entity.Document{
		DisplayName: "recibo.pdf",
		MediaType:   constants.MediaPDF,
		Content:     []byte("%PDF-fake"),
	}
}

func TestRemoteRecognize(t *testing.T) {
	var gotName, gotLang string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if fhs := r.MultipartForm.File["file"]; len(fhs) == 1 {
			gotName = fhs[0].Filename
		}
		gotLang = r.FormValue("lang")
		_ = json.NewEncoder(w).Encode(map[string]string{"text": "Vencimento 31/12/2024"})
	}))
	defer srv.Close()

	r := NewRemote(srv.URL, "por", srv.Client(), nil)
	text, err := r.Recognize(context.Background(), testDoc())
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if text != "Vencimento 31/12/2024" {
		t.Fatalf("text = %q", text)
	}
	if gotName != "recibo.pdf" {
		t.Errorf("filename = %q, want recibo.pdf", gotName)
	}
	if gotLang != "por" {
		t.Errorf("lang = %q, want por", gotLang)
	}
}

func TestRemoteNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	r := NewRemote(srv.URL, "", srv.Client(), nil)
	_, err := r.Recognize(context.Background(), testDoc())
	if !errors.Is(err, common.ErrOCRService) {
		t.Fatalf("error = %v, want ErrOCRService", err)
	}
}

func TestRemoteMissingTextPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
	}))
	defer srv.Close()

	r := NewRemote(srv.URL, "", srv.Client(), nil)
	_, err := r.Recognize(context.Background(), testDoc())
	if !errors.Is(err, common.ErrOCRService) {
		t.Fatalf("error = %v, want ErrOCRService", err)
	}
}

func TestRemoteTruncatedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// promise more bytes than we send so the client read fails mid-body
		w.Header().Set("Content-Length", "1000")
		_, _ = w.Write([]byte(`{"text":"Venc`))
	}))
	defer srv.Close()

	r := NewRemote(srv.URL, "", srv.Client(), nil)
	_, err := r.Recognize(context.Background(), testDoc())
	if !errors.Is(err, common.ErrOCRService) {
		t.Fatalf("error = %v, want ErrOCRService", err)
	}
	if !strings.Contains(err.Error(), "read response") {
		t.Fatalf("error = %v, want read failure reported", err)
	}
}

func TestRemoteUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // immediately: connection refused

	r := NewRemote(srv.URL, "", nil, nil)
	_, err := r.Recognize(context.Background(), testDoc())
	if !errors.Is(err, common.ErrOCRService) {
		t.Fatalf("error = %v, want ErrOCRService", err)
	}
}

func TestRemoteEmptyTextIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"text": ""})
	}))
	defer srv.Close()

	r := NewRemote(srv.URL, "", srv.Client(), nil)
	text, err := r.Recognize(context.Background(), testDoc())
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if text != "" {
		t.Fatalf("text = %q, want empty", text)
	}
}
