// Package gallery implements the image ingestion, retrieval and deletion
// pipelines on top of a Blob Store.
package gallery

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/leca/image-cdn/internal/database"
	"github.com/leca/image-cdn/internal/imageid"
	"github.com/leca/image-cdn/internal/imageproc"
	"github.com/leca/image-cdn/internal/model"
	"github.com/rs/zerolog"
)

// PathPrefix is the public path under which images are served.
const PathPrefix = "/gallery/"

// Service runs the pipelines. It holds no mutable state and is safe for
// concurrent use.
type Service struct {
	db      database.Database
	baseURL string
	newID   func() string
}

// New returns a Service storing images in db and building canonical URLs
// under baseURL (e.g. "https://cdn.example.com").
func New(db database.Database, baseURL string) *Service {
	return &Service{
		db:      db,
		baseURL: strings.TrimRight(baseURL, "/"),
		newID:   imageid.New,
	}
}

// Upload is an incoming file. Filename is whatever the client declared and
// is informational only.
type Upload struct {
	Data     []byte
	Filename string
}

// Key returns the lookup key of a requested filename: everything before the
// first '.'.
func Key(filename string) string {
	key, _, _ := strings.Cut(filename, ".")
	return key
}

// CanonicalURL returns the public URL of img.
func (s *Service) CanonicalURL(img *model.Image) string {
	return s.baseURL + PathPrefix + img.Filename()
}

// Ingest validates and stores an upload. The MIME type is sniffed from the
// bytes in memory; client headers are ignored.
func (s *Service) Ingest(ctx context.Context, up Upload) (*model.Ingested, error) {
	log := zerolog.Ctx(ctx)

	if len(up.Data) == 0 {
		return nil, ErrEmptyUpload
	}

	mimeType := imageproc.Sniff(up.Data)
	if !imageproc.IsImage(mimeType) {
		log.Debug().Str("declared_filename", up.Filename).Str("mimetype", mimeType).Msg("rejected non-image upload")
		return nil, ErrNotAnImage
	}

	img := &model.Image{
		ID:       s.newID(),
		Data:     up.Data,
		MIMEType: mimeType,
	}
	if err := s.db.CreateImage(ctx, img); err != nil {
		log.Error().Err(err).Str("image_id", img.ID).Msg("failed to insert image")
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	log.Info().
		Str("image_id", img.ID).
		Str("mimetype", mimeType).
		Int("bytes", len(up.Data)).
		Str("declared_filename", up.Filename).
		Msg("image stored")

	return &model.Ingested{ID: img.ID, URL: s.CanonicalURL(img)}, nil
}

// Outcome is a successful retrieval: either a found image or a redirect to
// its canonical filename.
type Outcome struct {
	// Redirect is set when the requested filename is not canonical; all
	// other fields are then zero.
	Redirect string

	Image  *model.Image
	Width  int
	Height int
	HTML   string
}

// Retrieve looks up an image by requested filename ("<id>" or
// "<id>.<ext>"). Non-canonical filenames yield a redirect. size is the
// optional display-size override ("" when absent).
func (s *Service) Retrieve(ctx context.Context, filename, size string) (*Outcome, error) {
	key := Key(filename)

	var img *model.Image
	err := database.ErrNotFound
	// No row can match a key New could not have produced.
	if imageid.Valid(key) {
		img, err = s.db.GetImage(ctx, key)
	}
	if errors.Is(err, database.ErrNotFound) {
		return nil, &notFoundError{msg: fmt.Sprintf("image with name `%s` could not be found", filename), err: err}
	}
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("image_id", key).Msg("failed to fetch image")
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	if canonical := img.Filename(); filename != canonical {
		return &Outcome{Redirect: PathPrefix + canonical}, nil
	}

	width, height, err := imageproc.ResolveDimensions(size, img.Data)
	if errors.Is(err, imageproc.ErrDimensionProbe) {
		return nil, &notFoundError{msg: fmt.Sprintf("failed to get image dimensions of `%s`", filename), err: err}
	}
	if err != nil {
		return nil, err
	}

	html, err := imageproc.RenderWrapper(img, width, height)
	if err != nil {
		return nil, err
	}

	return &Outcome{Image: img, Width: width, Height: height, HTML: html}, nil
}

// Delete removes the image whose id is the key of requestedID. Deleting an
// id that does not exist succeeds.
func (s *Service) Delete(ctx context.Context, requestedID string) (string, error) {
	log := zerolog.Ctx(ctx)
	id := Key(requestedID)

	if !imageid.Valid(id) {
		log.Info().Str("image_id", id).Msg("delete matched no image")
		return id, nil
	}

	n, err := s.db.DeleteImage(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("image_id", id).Msg("failed to delete image")
		return "", fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if n == 0 {
		log.Info().Str("image_id", id).Msg("delete matched no image")
	} else {
		log.Info().Str("image_id", id).Msg("image deleted")
	}
	return id, nil
}
