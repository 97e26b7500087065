package storage

import (
	"bytes"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
)

var (
	ErrImageEmpty    = errors.New("image payload is empty")
	ErrImageTooLarge = errors.New("image exceeds maximum size")
	ErrImageInvalid  = errors.New("image payload is not a valid image")
)

// maxImageWidth caps stored image dimensions; anything wider is downscaled
// before upload so the bucket never holds multi-megapixel originals.
const maxImageWidth = 1920

// DecodeBase64Image turns a data-URI (or bare base64) payload into JPEG
// bytes ready for upload. Oversized images are resized preserving aspect
// ratio. The reported content type is always image/jpeg because the image
// is re-encoded.
func DecodeBase64Image(payload string, maxBytes int) ([]byte, string, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, "", ErrImageEmpty
	}

	// "data:image/png;base64,...." → keep only the base64 part
	if strings.HasPrefix(payload, "data:") {
		idx := strings.Index(payload, ",")
		if idx < 0 {
			return nil, "", ErrImageInvalid
		}
		payload = payload[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", ErrImageInvalid
	}
	if len(raw) == 0 {
		return nil, "", ErrImageEmpty
	}
	if maxBytes > 0 && len(raw) > maxBytes {
		return nil, "", ErrImageTooLarge
	}

	contentType := http.DetectContentType(raw)
	allowed := false
	for _, t := range AllowImage {
		if t == contentType {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, "", ErrUnsupportedFileType
	}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, "", ErrImageInvalid
	}
	if img.Bounds().Dx() > maxImageWidth {
		img = imaging.Resize(img, maxImageWidth, 0, imaging.Lanczos)
	}

	var out bytes.Buffer
	if err := imaging.Encode(&out, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, "", err
	}
	return out.Bytes(), "image/jpeg", nil
}
