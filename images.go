package photoblog

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
)

const (
	maxImageWidth = 1280
	jpegQuality   = 80
	// MaxUploadSize is the largest accepted image upload (10MB).
	MaxUploadSize = 10 << 20

	previewSuffix = "-preview.jpg"
)

// processImage decodes an image from src, resizes it down to maxImageWidth
// when wider, and encodes it as JPEG. Returns the encoded bytes.
func processImage(src io.Reader) ([]byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// blurImage produces a heavily degraded variant of an encoded image for the
// anonymous preview: the image is collapsed to 1/16 width and scaled back up
// bilinearly, which destroys all detail while keeping dimensions and overall
// color. The result is encoded as JPEG.
func blurImage(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	smallW, smallH := w/16, h/16
	if smallW < 1 {
		smallW = 1
	}
	if smallH < 1 {
		smallH = 1
	}
	small := image.NewRGBA(image.Rect(0, 0, smallW, smallH))
	draw.ApproxBiLinear.Scale(small, small.Bounds(), img, bounds, draw.Over, nil)

	blurred := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(blurred, blurred.Bounds(), small, small.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, blurred, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// saveUpload validates and stores an uploaded image, writing both the full
// variant and the blurred preview variant. It returns the public URL of the
// stored image.
func (a *App) saveUpload(file *multipart.FileHeader) (string, error) {
	if file.Size > MaxUploadSize {
		return "", echo.NewHTTPError(http.StatusBadRequest, "File too large (max 10MB)")
	}
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	data, err := processImage(src)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Invalid image: "+err.Error())
	}
	preview, err := blurImage(data)
	if err != nil {
		return "", err
	}

	filename := uploadFilename(file.Filename)
	if err := os.MkdirAll(a.Config.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create uploads dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(a.Config.UploadDir, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	previewName := strings.TrimSuffix(filename, ".jpg") + previewSuffix
	if err := os.WriteFile(filepath.Join(a.Config.UploadDir, previewName), preview, 0o644); err != nil {
		return "", fmt.Errorf("write preview image: %w", err)
	}

	return "/api/blog/uploads/" + filename, nil
}

// uploadFilename derives a unique stored name from the original upload name.
func uploadFilename(original string) string {
	base := Slugify(strings.TrimSuffix(original, filepath.Ext(original)))
	if base == "" {
		base = "image"
	}
	return fmt.Sprintf("%s-%s.jpg", base, uuid.NewString()[:8])
}

// handleServeUpload serves stored images. Authenticated viewers get the full
// image; anonymous viewers always get the blurred preview variant, so a
// private-quality original never crosses the wire without a session.
func (a *App) handleServeUpload(c echo.Context) error {
	filename := filepath.Base(c.Param("filename"))
	if filename == "." || filename == "/" || strings.HasSuffix(filename, previewSuffix) {
		return echo.NewHTTPError(http.StatusNotFound)
	}

	full := filepath.Join(a.Config.UploadDir, filename)
	if a.currentUser(c) != nil {
		return c.File(full)
	}

	previewName := strings.TrimSuffix(filename, ".jpg") + previewSuffix
	preview := filepath.Join(a.Config.UploadDir, previewName)
	if _, err := os.Stat(preview); err != nil {
		// Older uploads may predate preview generation; derive one now.
		data, err := os.ReadFile(full)
		if err != nil {
			return echo.NewHTTPError(http.StatusNotFound)
		}
		blurred, err := blurImage(data)
		if err != nil {
			return err
		}
		if err := os.WriteFile(preview, blurred, 0o644); err != nil {
			return err
		}
	}
	return c.File(preview)
}
