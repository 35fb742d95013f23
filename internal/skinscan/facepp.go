// Package skinscan reads skin status from a face photo with the Face++
// detect API and turns the worst readings into product advice.
package skinscan

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/notexe/glowcare/internal/config"
)

const (
	defaultBaseURL = "https://api-us.faceplusplus.com/facepp/v3"
	defaultTimeout = 30

	// Face++ rejects image_base64 payloads above 2 MB.
	MaxImageBytes = 2 << 20

	returnAttributes = "gender,skinstatus"
)

var (
	ErrNoFace        = errors.New("no face found in the photo")
	ErrImageTooLarge = errors.New("image is larger than 2 MB")
	ErrNotConfigured = errors.New("face analysis needs FACEPP_API_KEY and FACEPP_API_SECRET")
)

// SkinStatus holds Face++ scores in 0..100. Health is better when higher,
// the rest are worse when higher.
type SkinStatus struct {
	Health     float64 `json:"health"`
	Stain      float64 `json:"stain"`
	DarkCircle float64 `json:"dark_circle"`
	Acne       float64 `json:"acne"`
}

// Analysis is the first face found in a photo.
type Analysis struct {
	Gender string
	Skin   SkinStatus
	Faces  int
}

// Analyzer calls the Face++ detect endpoint.
type Analyzer struct {
	client  *http.Client
	baseURL string
	key     string
	secret  string
}

func NewAnalyzer(cfg config.ScanConfig) (*Analyzer, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Analyzer{
		client:  &http.Client{Timeout: time.Duration(timeout) * time.Second},
		baseURL: baseURL,
		key:     cfg.APIKey,
		secret:  cfg.APISecret,
	}, nil
}

type detectResponse struct {
	ErrorMessage string `json:"error_message"`
	Faces        []struct {
		Attributes struct {
			Gender struct {
				Value string `json:"value"`
			} `json:"gender"`
			SkinStatus SkinStatus `json:"skinstatus"`
		} `json:"attributes"`
	} `json:"faces"`
}

// Detect uploads a JPEG or PNG and returns the skin status of the first face.
func (a *Analyzer) Detect(ctx context.Context, image []byte) (Analysis, error) {
	if len(image) > MaxImageBytes {
		return Analysis{}, ErrImageTooLarge
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fields := [][2]string{
		{"api_key", a.key},
		{"api_secret", a.secret},
		{"image_base64", base64.StdEncoding.EncodeToString(image)},
		{"return_attributes", returnAttributes},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return Analysis{}, fmt.Errorf("failed to build Face++ request: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return Analysis{}, fmt.Errorf("failed to build Face++ request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/detect", &body)
	if err != nil {
		return Analysis{}, fmt.Errorf("failed to create Face++ request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return Analysis{}, fmt.Errorf("Face++ request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Analysis{}, fmt.Errorf("failed to read Face++ response: %w", err)
	}

	var out detectResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return Analysis{}, fmt.Errorf("Face++ API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(raw)))
		}
		return Analysis{}, fmt.Errorf("failed to decode Face++ response: %w", err)
	}
	if out.ErrorMessage != "" {
		return Analysis{}, fmt.Errorf("Face++ API error (status %d): %s", resp.StatusCode, out.ErrorMessage)
	}
	if resp.StatusCode != http.StatusOK {
		return Analysis{}, fmt.Errorf("Face++ API error (status %d)", resp.StatusCode)
	}
	if len(out.Faces) == 0 {
		return Analysis{}, ErrNoFace
	}

	first := out.Faces[0].Attributes
	return Analysis{
		Gender: first.Gender.Value,
		Skin:   first.SkinStatus,
		Faces:  len(out.Faces),
	}, nil
}
