// Package imagehost stores property photos on Cloudinary and builds rendition URLs.
package imagehost

import (
	"context"
	"fmt"
	"io"
	"time"

	"realestate-catalog/pkg/metrics"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gabriel-vasile/mimetype"
)

// UploadTransformation caps stored originals at 1920x1080 with automatic quality and format.
const UploadTransformation = "q_auto:best,f_auto/c_limit,w_1920,h_1080"

// MaxUploadBytes is the largest accepted photo.
const MaxUploadBytes = 10 << 20

// AllowedContentTypes are the photo formats accepted for upload.
var AllowedContentTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// Asset describes a stored photo.
type Asset struct {
	PublicID  string
	SecureURL string
	Width     int
	Height    int
	Format    string
	Bytes     int64
}

// Host is the remote photo store.
type Host interface {
	Upload(ctx context.Context, file io.Reader, filename string) (*Asset, error)
	Destroy(ctx context.Context, publicID string) error
	URL(publicID string, width, height int) (string, error)
}

type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinary(cloudName, apiKey, apiSecret, folder string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}
	cld.Config.URL.Secure = true
	return &Cloudinary{cld: cld, folder: folder}, nil
}

func (c *Cloudinary) Upload(ctx context.Context, file io.Reader, filename string) (*Asset, error) {
	start := time.Now()
	defer observe("upload", start)

	res, err := c.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:         c.folder,
		UniqueFilename: api.Bool(true),
		Overwrite:      api.Bool(false),
		ResourceType:   "image",
		Transformation: UploadTransformation,
	})
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", filename, err)
	}
	if res.Error.Message != "" {
		return nil, fmt.Errorf("upload %s: %s", filename, res.Error.Message)
	}
	return &Asset{
		PublicID:  res.PublicID,
		SecureURL: res.SecureURL,
		Width:     res.Width,
		Height:    res.Height,
		Format:    res.Format,
		Bytes:     int64(res.Bytes),
	}, nil
}

// Destroy removes the stored photo. A photo that is already gone is not an error.
func (c *Cloudinary) Destroy(ctx context.Context, publicID string) error {
	start := time.Now()
	defer observe("destroy", start)

	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
		Invalidate:   api.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("destroy %s: %w", publicID, err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("destroy %s: %s", publicID, res.Error.Message)
	}
	if res.Result != "ok" && res.Result != "not found" {
		return fmt.Errorf("destroy %s: unexpected result %q", publicID, res.Result)
	}
	return nil
}

// URL returns the delivery URL of publicID filled and cropped to width x height.
// Zero dimensions return the untransformed original.
func (c *Cloudinary) URL(publicID string, width, height int) (string, error) {
	img, err := c.cld.Image(publicID)
	if err != nil {
		return "", fmt.Errorf("image %s: %w", publicID, err)
	}
	if width > 0 && height > 0 {
		img.Transformation = fmt.Sprintf("c_fill,g_auto,w_%d,h_%d/q_auto/f_auto", width, height)
	}
	return img.String()
}

// DetectContentType sniffs the media type of the leading bytes of a file.
func DetectContentType(head []byte) string {
	return mimetype.Detect(head).String()
}

// Allowed reports whether contentType is an accepted photo format.
func Allowed(contentType string) bool {
	for _, t := range AllowedContentTypes {
		if mimetype.EqualsAny(contentType, t) {
			return true
		}
	}
	return false
}

func observe(operation string, start time.Time) {
	metrics.ImageHostOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
