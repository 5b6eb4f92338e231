package recognize

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/junwei-lu/tradescan/internal/remote"
)

// Client posts screenshots to the recognition service as base64 data URLs.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Logger  *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
		Logger:  logger,
	}
}

func (c *Client) Recognize(ctx context.Context, imagePath string) (Result, error) {
	dataURL, mimeType, err := readAsDataURL(imagePath)
	if err != nil {
		return Result{}, fmt.Errorf("read image: %w", err)
	}

	body := map[string]any{
		"image":     dataURL,
		"mime_type": mimeType,
		"filename":  filepath.Base(imagePath),
	}
	raw, _, err := remote.PostJSON(ctx, c.HTTP, c.BaseURL+"/recognize", body, nil, c.Logger)
	if err != nil {
		return Result{}, fmt.Errorf("recognize %s: %w", filepath.Base(imagePath), err)
	}

	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return Result{}, fmt.Errorf("decode recognition response: %w", err)
	}
	return res, nil
}

func readAsDataURL(path string) (string, string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	mt := mime.TypeByExtension("." + ext)
	if mt == "" {
		// fallbacks
		switch ext {
		case "jpg", "jpeg":
			mt = "image/jpeg"
		case "png":
			mt = "image/png"
		default:
			mt = "application/octet-stream"
		}
	}
	data := base64.StdEncoding.EncodeToString(b)
	return "data:" + mt + ";base64," + data, mt, nil
}
