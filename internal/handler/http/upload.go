package http

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rhankbrguw/rumah-kosim-api/pkg/httputil"
)

// maxUploadSize caps product image uploads at 5MB.
const maxUploadSize = 5 << 20

// imageExtensions maps accepted content types to the stored file extension.
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// UploadHandler handles admin product image uploads. Files are written to a
// configured directory and served back by their public path.
type UploadHandler struct {
	dir        string
	publicPath string
	logger     *slog.Logger
}

// NewUploadHandler creates a new upload HTTP handler. dir is the filesystem
// destination; publicPath is the URL prefix under which files are served.
func NewUploadHandler(dir, publicPath string, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{dir: dir, publicPath: publicPath, logger: logger}
}

// Upload handles POST /admin/upload (multipart/form-data).
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+(1<<20))

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorBody{
			Error: httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "failed to parse multipart form: " + err.Error()},
		})
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorBody{
			Error: httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "image file is required"},
		})
		return
	}
	defer file.Close()

	// Sniff the real content type instead of trusting the part header.
	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	ext, ok := imageExtensions[http.DetectContentType(head[:n])]
	if !ok {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorBody{
			Error: httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "only jpeg, png, and gif images are accepted"},
		})
		return
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	name := strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + uuid.New().String()[:8] + ext

	if err := h.save(file, name); err != nil {
		h.logger.ErrorContext(r.Context(), "image upload failed",
			slog.String("file", name),
			slog.String("error", err.Error()),
		)
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorBody{
			Error: httputil.ErrorResponse{Code: "INTERNAL_ERROR", Message: "failed to store image"},
		})
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"path":    strings.TrimSuffix(h.publicPath, "/") + "/" + name,
	})
}

func (h *UploadHandler) save(src io.Reader, name string) error {
	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		return err
	}

	dst, err := os.Create(filepath.Join(h.dir, name))
	if err != nil {
		return err
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return err
	}
	return dst.Close()
}
