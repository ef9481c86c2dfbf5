// Package fonts keeps the font families available to the renderer and
// resolves ordered family fallback chains to concrete faces.
package fonts

import (
	"os"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"

	"github.com/rook-computer/hubcrest/internal/errors"
)

// Serif is the generic family every Book carries. It is backed by the
// embedded Go fonts so resolution never fails.
const Serif = "serif"

// Weight selects the regular or bold member of a family.
type Weight int

const (
	Regular Weight = iota
	Bold
)

func (w Weight) String() string {
	if w == Bold {
		return "bold"
	}
	return "regular"
}

// Book is a registry of font families. A Book is safe for concurrent use;
// faces it returns are not and belong to the caller.
type Book struct {
	mu       sync.RWMutex
	families map[string]*family
}

type family struct {
	regular source
	bold    source
}

func (f *family) pick(w Weight) source {
	if w == Bold && f.bold != nil {
		return f.bold
	}
	if f.regular != nil {
		return f.regular
	}
	return f.bold
}

// NewBook returns a Book holding only the generic serif family.
func NewBook() *Book {
	b := &Book{families: map[string]*family{}}
	if err := b.Register(Serif, Regular, goregular.TTF); err != nil {
		panic(err)
	}
	if err := b.Register(Serif, Bold, gobold.TTF); err != nil {
		panic(err)
	}
	return b
}

// Register parses data as a TrueType or OpenType font and adds it to family.
// Family names are matched case-insensitively.
func (b *Book) Register(name string, w Weight, data []byte) error {
	key := normalize(name)
	if key == "" {
		return errors.New(errors.ErrCodeInvalidInput, "font family name is empty")
	}
	src, err := parse(data)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s %s font", name, w)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	f := b.families[key]
	if f == nil {
		f = &family{}
		b.families[key] = f
	}
	if w == Bold {
		f.bold = src
	} else {
		f.regular = src
	}
	return nil
}

// RegisterFile reads path and registers it like Register.
func (b *Book) RegisterFile(name string, w Weight, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeNotFound, err, "read font %s", path)
	}
	return b.Register(name, w, data)
}

// Has reports whether name is registered.
func (b *Book) Has(name string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.families[normalize(name)]
	return ok
}

// Families lists registered family keys.
func (b *Book) Families() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.families))
	for k := range b.families {
		out = append(out, k)
	}
	return out
}

// Resolve walks candidates in order and returns the family that will be used
// for text. The first registered candidate with glyphs for every letter in
// text wins; otherwise the first registered candidate; otherwise Serif.
func (b *Book) Resolve(candidates []string, w Weight, text string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	first := ""
	for _, c := range candidates {
		key := normalize(c)
		f, ok := b.families[key]
		if !ok {
			continue
		}
		if first == "" {
			first = key
		}
		if f.pick(w).covers(text) {
			return key
		}
	}
	if first != "" {
		return first
	}
	return Serif
}

// Face resolves candidates and opens a face at size pixels.
// The returned name is the family actually used.
func (b *Book) Face(candidates []string, w Weight, text string, size float64) (font.Face, string, error) {
	name := b.Resolve(candidates, w, text)

	b.mu.RLock()
	src := b.families[name].pick(w)
	b.mu.RUnlock()

	face, err := src.face(size)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInternal, err, "open %s face", name)
	}
	return face, name, nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(strings.Trim(name, `"'`)))
}

// Pixel sizes are expressed as points at 72 DPI.
const dpi = 72

type source interface {
	face(size float64) (font.Face, error)
	covers(text string) bool
}

// parse prefers freetype's parser for plain TrueType outlines and falls back
// to sfnt for CFF flavoured OpenType.
func parse(data []byte) (source, error) {
	if tt, err := truetype.Parse(data); err == nil {
		return ttSource{tt}, nil
	}
	otf, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	return otSource{otf}, nil
}

type ttSource struct{ f *truetype.Font }

func (s ttSource) face(size float64) (font.Face, error) {
	// freetype sizes its glyph mask cache as entries x the font's bounding
	// box, so the default 512 entries grows with size squared.
	return truetype.NewFace(s.f, &truetype.Options{
		Size:              size,
		DPI:               dpi,
		Hinting:           font.HintingNone,
		GlyphCacheEntries: glyphCacheEntries(size),
	}), nil
}

// glyphCacheEntries keeps the cache for text sizes and drops it to a single
// slot for display sizes. freetype requires a power of two.
func glyphCacheEntries(size float64) int {
	switch {
	case size <= 48:
		return 64
	case size <= 128:
		return 8
	}
	return 1
}

func (s ttSource) covers(text string) bool {
	for _, r := range text {
		if skipCoverage(r) {
			continue
		}
		if s.f.Index(r) == 0 {
			return false
		}
	}
	return true
}

type otSource struct{ f *opentype.Font }

func (s otSource) face(size float64) (font.Face, error) {
	return opentype.NewFace(s.f, &opentype.FaceOptions{Size: size, DPI: dpi, Hinting: font.HintingNone})
}

func (s otSource) covers(text string) bool {
	var buf sfnt.Buffer
	for _, r := range text {
		if skipCoverage(r) {
			continue
		}
		idx, err := s.f.GlyphIndex(&buf, r)
		if err != nil || idx == 0 {
			return false
		}
	}
	return true
}

func skipCoverage(r rune) bool {
	return r == ' ' || r == '\u200c' || r == '\u200d'
}
