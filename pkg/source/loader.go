package source

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/layerpaste/pkg/errors"
)

// Payload is an image ready to be pasted: its bytes, intrinsic size and the
// path or URL it came from.
type Payload struct {
	Data   []byte
	Width  int
	Height int
	Origin string
	Format string
}

// Loader resolves paths and URLs into payloads.
type Loader struct {
	fetcher *Fetcher
	logger  *log.Logger
}

// NewLoader creates a Loader. A nil fetcher uses [NewFetcher] defaults.
func NewLoader(fetcher *Fetcher, logger *log.Logger) *Loader {
	if fetcher == nil {
		fetcher = NewFetcher(FetcherOptions{})
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{fetcher: fetcher, logger: logger}
}

// Open loads spec, which is either an http(s) URL or a local file path.
// Surrounding whitespace and quotes (as added by terminals when a file is
// dropped) are ignored.
func (l *Loader) Open(ctx context.Context, spec string) (*Payload, error) {
	spec = cleanSpec(spec)

	if errors.IsURL(spec) {
		data, err := l.fetcher.Fetch(ctx, spec)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("fetched image", "url", spec, "bytes", len(data))
		return Decode(data, spec)
	}

	if err := errors.ValidatePath(spec); err != nil {
		return nil, err
	}
	path, err := filepath.Abs(expandHome(spec))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", spec)
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeNotFound, "no such file: %s", spec)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", spec)
	}
	l.logger.Debug("read image", "path", path, "bytes", len(data))
	return Decode(data, path)
}

// Decode reads the intrinsic size of data and wraps it in a Payload.
// JPEG sizes honour the EXIF orientation tag.
func Decode(data []byte, origin string) (*Payload, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidImage, err, "%s is not a supported image", origin)
	}
	w, h := cfg.Width, cfg.Height

	if format == "jpeg" {
		img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidImage, err, "decode %s", origin)
		}
		w, h = img.Bounds().Dx(), img.Bounds().Dy()
	}

	if err := errors.ValidateImageSize(w, h); err != nil {
		return nil, err
	}
	return &Payload{Data: data, Width: w, Height: h, Origin: origin, Format: format}, nil
}

func cleanSpec(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		s = s[1 : len(s)-1]
	}
	return strings.TrimPrefix(s, "file://")
}

func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}
