package render

import "image/color"

// Palette holds the two colours every render uses. It is passed by value into
// each render call.
type Palette struct {
	Background color.NRGBA
	Accent     color.NRGBA
}

// DefaultPalette is deep green with a gold accent.
var DefaultPalette = Palette{
	Background: color.NRGBA{R: 0x0d, G: 0x3d, B: 0x2b, A: 0xff}, // #0d3d2b
	Accent:     color.NRGBA{R: 0xd4, G: 0xaf, B: 0x37, A: 0xff}, // #d4af37
}

// Canvas defaults.
const (
	DefaultLogoSize     = 512
	DefaultBannerWidth  = 1920
	DefaultBannerHeight = 480
	DefaultInviteSize   = 640

	// MaxDimension bounds each side of a surface.
	MaxDimension = 8192

	// MaxTitleLines is how many logo title lines fit above the subtitle.
	MaxTitleLines = 2
)

// Brand is the fixed text overlay. Title lines go on the logo, BannerTitle on
// the banner and Subtitle (right-to-left) under both.
type Brand struct {
	TitleLines  []string
	BannerTitle string
	Subtitle    string

	TitleFamilies    []string
	SubtitleFamilies []string
}

// DefaultBrand is the English and Arabic overlay.
var DefaultBrand = Brand{
	TitleLines:       []string{"MUSLIM", "CREATORS HUB"},
	BannerTitle:      "Muslim Creators Hub",
	Subtitle:         "مجتمع المسلمين المبدعين",
	TitleFamilies:    []string{"serif"},
	SubtitleFamilies: []string{"Noto Naskh Arabic", "Amiri", "serif"},
}
