package upload

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swadesh-intern/internal/config"
	"swadesh-intern/internal/domain/application"
)

func testClient(t *testing.T, h http.HandlerFunc, cfg config.UploadConfig) *CloudinaryClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewCloudinaryClient(cfg, nil)
	c.apiBase = srv.URL
	return c
}

func TestUploadResume_SendsFileAndPreset(t *testing.T) {
	var gotPath string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "resumes", r.FormValue("upload_preset"))
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		b, _ := io.ReadAll(f)
		assert.Equal(t, "cv.pdf", hdr.Filename)
		assert.Equal(t, "%PDF", string(b))
		_, _ = w.Write([]byte(`{"secure_url":"https://res.cloudinary.com/demo/cv.pdf","public_id":"cv"}`))
	}, config.UploadConfig{CloudName: "demo", Preset: "resumes"})

	url, err := c.UploadResume(context.Background(), application.Resume{Filename: "C:\\docs\\cv.pdf", Data: []byte("%PDF")})
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/cv.pdf", url)
	assert.Equal(t, "/demo/auto/upload", gotPath)
}

func TestUploadResume_ExplicitURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/custom", r.URL.Path)
		_, _ = w.Write([]byte(`{"secure_url":"https://x/y.pdf"}`))
	}))
	defer srv.Close()

	c := NewCloudinaryClient(config.UploadConfig{CloudName: "demo", ResumeURL: srv.URL + "/custom"}, nil)
	url, err := c.UploadResume(context.Background(), application.Resume{Filename: "a.pdf", Data: []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, "https://x/y.pdf", url)
}

func TestUploadImage_Path(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/demo/image/upload", r.URL.Path)
		_, _ = w.Write([]byte(`{"secure_url":"https://x/me.png"}`))
	}, config.UploadConfig{CloudName: "demo", Preset: "p"})

	url, err := c.UploadImage(context.Background(), File{Filename: "me.png", Data: []byte{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, "https://x/me.png", url)
}

func TestUpload_MissingSecureURLIsFailure(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"message":"Upload preset not found"}}`))
	}, config.UploadConfig{CloudName: "demo"})

	_, err := c.UploadResume(context.Background(), application.Resume{Filename: "a.pdf", Data: []byte("x")})
	assert.True(t, errors.Is(err, ErrNoSecureURL))
}

func TestUpload_Non2xx(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"bad"}}`, http.StatusBadRequest)
	}, config.UploadConfig{CloudName: "demo"})

	_, err := c.UploadImage(context.Background(), File{Filename: "a.png", Data: []byte("x")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=400")
}

func TestUpload_LimitsBeforeNetwork(t *testing.T) {
	called := false
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) { called = true }, config.UploadConfig{CloudName: "demo", MaxBytes: 2})

	_, err := c.UploadImage(context.Background(), File{Data: []byte("abc")})
	assert.True(t, errors.Is(err, ErrTooLarge))
	_, err = c.UploadImage(context.Background(), File{})
	assert.True(t, errors.Is(err, ErrEmptyFile))
	assert.False(t, called)
}
