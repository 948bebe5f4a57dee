package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"swadesh-intern/internal/config"
	"swadesh-intern/internal/domain/application"
	"swadesh-intern/internal/logging"
)

const defaultAPIBase = "https://api.cloudinary.com/v1_1"

var (
	ErrNoSecureURL = errors.New("upload response carried no secure_url")
	ErrTooLarge    = errors.New("file exceeds upload limit")
	ErrEmptyFile   = errors.New("empty file")
)

// File is an in-memory upload.
type File struct {
	Filename    string
	ContentType string
	Data        []byte
}

// CloudinaryClient performs unsigned uploads with a preset. The file host
// returns a public https URL that is stored as-is.
type CloudinaryClient struct {
	apiBase   string
	cloudName string
	preset    string
	resumeURL string
	maxBytes  int64
	client    *http.Client
	logger    logrus.FieldLogger
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func NewCloudinaryClient(cfg config.UploadConfig, logger logrus.FieldLogger) *CloudinaryClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CloudinaryClient{
		apiBase:   defaultAPIBase,
		cloudName: strings.TrimSpace(cfg.CloudName),
		preset:    strings.TrimSpace(cfg.Preset),
		resumeURL: strings.TrimSpace(cfg.ResumeURL),
		maxBytes:  cfg.MaxBytes,
		client:    &http.Client{Timeout: timeout},
		logger:    logging.OrDiscard(logger),
	}
}

// UploadResume stores an applicant's PDF and returns its public URL.
func (c *CloudinaryClient) UploadResume(ctx context.Context, r application.Resume) (string, error) {
	endpoint := c.resumeURL
	if endpoint == "" {
		endpoint = fmt.Sprintf("%s/%s/auto/upload", c.apiBase, c.cloudName)
	}
	return c.upload(ctx, endpoint, File{Filename: r.Filename, ContentType: r.ContentType, Data: r.Data})
}

// UploadImage is used for admin profile photos.
func (c *CloudinaryClient) UploadImage(ctx context.Context, f File) (string, error) {
	return c.upload(ctx, fmt.Sprintf("%s/%s/image/upload", c.apiBase, c.cloudName), f)
}

func (c *CloudinaryClient) upload(ctx context.Context, endpoint string, f File) (string, error) {
	if c == nil || c.client == nil {
		return "", errors.New("nil upload client")
	}
	if len(f.Data) == 0 {
		return "", ErrEmptyFile
	}
	if c.maxBytes > 0 && int64(len(f.Data)) > c.maxBytes {
		return "", ErrTooLarge
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", safeFilename(f.Filename))
	if err != nil {
		return "", err
	}
	if _, err := fw.Write(f.Data); err != nil {
		return "", err
	}
	if err := mw.WriteField("upload_preset", c.preset); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	log := c.logger.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"status":   resp.StatusCode,
		"bytes":    len(f.Data),
		"duration": time.Since(start).String(),
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		bodyStr := strings.TrimSpace(string(rb))
		log.WithField("body", bodyStr).Warn("cloudinary upload failed")
		return "", fmt.Errorf("upload failed: status=%d body=%s", resp.StatusCode, bodyStr)
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if strings.TrimSpace(out.SecureURL) == "" {
		return "", ErrNoSecureURL
	}
	log.WithField("public_id", out.PublicID).Info("file uploaded")
	return out.SecureURL, nil
}

func safeFilename(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return "upload"
	}
	return name
}
