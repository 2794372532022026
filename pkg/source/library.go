package source

import (
	"bytes"
	"image"
	"net/url"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"

	"github.com/matzehuels/layerpaste/pkg/cache"
	"github.com/matzehuels/layerpaste/pkg/errors"
)

// refPrefix and refHashLen define the shape of image refs.
const (
	refPrefix  = "img:"
	refHashLen = 16
)

// Library is an in-memory registry of pasted image payloads.
//
// It is safe for concurrent use: the editor adds images on its update loop
// while an export reads them from another goroutine.
type Library struct {
	mu      sync.RWMutex
	entries map[string]*entry
	allowed []string
}

type entry struct {
	data   []byte
	origin string
	img    image.Image
	thumbs map[int]image.Image
}

// NewLibrary creates an empty library. allowedHosts lists the remote hosts
// whose images may be exported; an entry of the form "*.example.com"
// matches every subdomain of example.com.
func NewLibrary(allowedHosts []string) *Library {
	hosts := make([]string, 0, len(allowedHosts))
	for _, h := range allowedHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			hosts = append(hosts, h)
		}
	}
	return &Library{entries: make(map[string]*entry), allowed: hosts}
}

// Put stores data and returns its ref. Storing identical bytes twice returns
// the same ref; the first origin is kept.
func (l *Library) Put(data []byte, origin string) (string, error) {
	if len(data) == 0 {
		return "", errors.New(errors.ErrCodeInvalidImage, "empty image payload")
	}
	ref := refPrefix + cache.Hash(data)[:refHashLen]

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.entries[ref]; !ok {
		l.entries[ref] = &entry{data: data, origin: origin}
	}
	return ref, nil
}

// Len returns the number of stored images.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Origin returns the path or URL an image was loaded from.
func (l *Library) Origin(ref string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if e, ok := l.entries[ref]; ok {
		return e.origin
	}
	return ""
}

// Image returns the decoded image for ref, decoding on first use.
func (l *Library) Image(ref string) (image.Image, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.decodeLocked(ref)
}

func (l *Library) decodeLocked(ref string) (image.Image, error) {
	e, ok := l.entries[ref]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "unknown image %s", ref)
	}
	if e.img == nil {
		img, err := imaging.Decode(bytes.NewReader(e.data), imaging.AutoOrientation(true))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidImage, err, "decode %s", ref)
		}
		e.img = img
	}
	return e.img, nil
}

// Thumbnail returns ref scaled so that its longer side is at most maxDim
// pixels. Images already within maxDim are returned unscaled. Results are
// memoised per size.
func (l *Library) Thumbnail(ref string, maxDim int) (image.Image, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	img, err := l.decodeLocked(ref)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	if maxDim <= 0 || (b.Dx() <= maxDim && b.Dy() <= maxDim) {
		return img, nil
	}

	e := l.entries[ref]
	if t, ok := e.thumbs[maxDim]; ok {
		return t, nil
	}

	w, h := fit(b.Dx(), b.Dy(), maxDim)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)

	if e.thumbs == nil {
		e.thumbs = make(map[int]image.Image)
	}
	e.thumbs[maxDim] = dst
	return dst, nil
}

// Tainted reports whether ref came from a remote host outside the
// allow-list. Local files and unknown refs are never tainted.
func (l *Library) Tainted(ref string) bool {
	origin := l.Origin(ref)
	if !errors.IsURL(origin) {
		return false
	}
	u, err := url.Parse(origin)
	if err != nil {
		return true
	}
	return !l.hostAllowed(strings.ToLower(u.Hostname()))
}

func (l *Library) hostAllowed(host string) bool {
	for _, a := range l.allowed {
		if a == host {
			return true
		}
		if suffix, ok := strings.CutPrefix(a, "*"); ok && strings.HasSuffix(host, suffix) {
			return true
		}
	}
	return false
}

// fit scales w×h down so the longer side equals maxDim, keeping at least
// one pixel on each side.
func fit(w, h, maxDim int) (int, int) {
	if w >= h {
		return maxDim, max(1, h*maxDim/w)
	}
	return max(1, w*maxDim/h), maxDim
}
