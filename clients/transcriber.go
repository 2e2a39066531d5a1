package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

type TransWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}
type TransSeg struct {
	Start float64     `json:"start"`
	End   float64     `json:"end"`
	Text  string      `json:"text"`
	Words []TransWord `json:"words"`
}
type TranscribeResp struct {
	Segments []TransSeg `json:"segments"`
	Language string     `json:"language"`
}

// Duration reports the overall recording duration, taken from the last
// transcription segment's end time.
func (r *TranscribeResp) Duration() float64 {
	if len(r.Segments) == 0 {
		return 0
	}
	return r.Segments[len(r.Segments)-1].End
}

// Words flattens the per-segment word events, preserving source order.
func (r *TranscribeResp) Words() []TransWord {
	var out []TransWord
	for _, s := range r.Segments {
		out = append(out, s.Words...)
	}
	return out
}

func (h *HTTP) Transcribe(ctx context.Context, url, mediaPath string) (*TranscribeResp, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	fw, err := w.CreateFormFile("file", filepath.Base(mediaPath))
	if err != nil {
		return nil, err
	}
	fd, err := os.Open(mediaPath)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	if _, err = io.Copy(fw, fd); err != nil {
		return nil, err
	}
	if err = w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url+"/transcribe", &b)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := h.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("transcribe %s: %s", resp.Status, string(body))
	}

	var out TranscribeResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("transcribe decode: %w", err)
	}
	return &out, nil
}
