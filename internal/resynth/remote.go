package resynth

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
	"time"

	"github.com/dropforge/dropforge/internal/pitch"
)

// RemoteShaper posts audio plus the envelope table to a shaping service
// and writes the returned audio. Used when Praat is not installed where
// the pipeline runs.
type RemoteShaper struct {
	baseURL    string
	httpClient *http.Client
}

func NewRemoteShaper(baseURL string) *RemoteShaper {
	return &RemoteShaper{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

func (r *RemoteShaper) Name() string { return "remote" }

func (r *RemoteShaper) Shape(ctx context.Context, input, output string, env *pitch.Envelope) error {
	audio, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("opening audio: %w", err)
	}
	defer audio.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("audio", filepath.Base(input))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, audio); err != nil {
		return fmt.Errorf("copying audio into request: %w", err)
	}

	table, err := json.Marshal(env.Table())
	if err != nil {
		return fmt.Errorf("marshaling envelope: %w", err)
	}
	if err := mw.WriteField("envelope", string(table)); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", r.baseURL+"/shape", &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("shape request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("shape failed (status %d): %s", resp.StatusCode, string(respBody))
	}

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return fmt.Errorf("writing shaped audio: %w", err)
	}
	return out.Close()
}
