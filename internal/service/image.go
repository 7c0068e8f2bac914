package service

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"mime"
	"strings"

	_ "image/gif"
	_ "image/png"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder

	"platebook/internal/models"
)

const (
	// ImageMaxDimension caps the longest edge of a stored image.
	ImageMaxDimension = 2048
	// WebPQuality is the lossy quality for re-encoded uploads.
	WebPQuality = 80
	// JPEGQuality is the fallback quality when WebP encoding fails.
	JPEGQuality = 82
)

// ProcessedImage is a normalized upload ready for the media store.
type ProcessedImage struct {
	Content     []byte
	ContentType string
}

// ProcessImage validates and normalizes a raw upload: it must decode
// as a supported image, is downscaled to fit ImageMaxDimension, and is
// re-encoded to WebP (JPEG if the encoder rejects it).
func ProcessImage(content []byte, declaredType string) (*ProcessedImage, error) {
	if !isAllowedImageMIME(declaredType) {
		return nil, models.NewValidationError("Unsupported image type")
	}

	decoded, format, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, models.NewValidationError("File is not a valid image")
	}
	if !isSupportedDecodedFormat(format) {
		return nil, models.NewValidationError("Unsupported image type")
	}

	resized := resizeToFit(decoded, ImageMaxDimension, ImageMaxDimension)

	out, err := encodeWebP(resized, WebPQuality)
	if err == nil {
		return &ProcessedImage{Content: out, ContentType: "image/webp"}, nil
	}

	out, err = encodeJPEG(resized, JPEGQuality)
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("encoding image: %w", err))
	}
	return &ProcessedImage{Content: out, ContentType: "image/jpeg"}, nil
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isSupportedDecodedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg", "png", "gif", "webp":
		return true
	default:
		return false
	}
}
