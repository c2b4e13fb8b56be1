package models

// RGB is an exact 8-bit-per-channel triple derived from a hex value
type RGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// CMYK is a print-approximation of an RGB color, each channel 0-100
type CMYK struct {
	C int `json:"c"`
	M int `json:"m"`
	Y int `json:"y"`
	K int `json:"k"`
}

// ColorSpec is a single palette entry with every representation the
// document renders. Hex is always normalized 6-digit uppercase.
type ColorSpec struct {
	Name    string `json:"name"`
	Hex     string `json:"hex"`
	RGB     RGB    `json:"rgb"`
	CMYK    CMYK   `json:"cmyk"`
	Pantone string `json:"pantone,omitempty"` // advisory nearest match, empty when too far
}

// ContrastNote records WCAG contrast ratios for one brand color
// against white and black backgrounds
type ContrastNote struct {
	Role      string  `json:"role"`
	Hex       string  `json:"hex"`
	OnWhite   float64 `json:"on_white"`
	OnBlack   float64 `json:"on_black"`
	AAOnWhite bool    `json:"aa_on_white"` // ratio >= 4.5
	AAOnBlack bool    `json:"aa_on_black"`
}

// ColorPalette is the ranked role assignment extracted from a site.
// Any of primary/secondary/accent may be absent; that is a soft gap,
// not an error.
type ColorPalette struct {
	Primary   *ColorSpec     `json:"primary,omitempty"`
	Secondary *ColorSpec     `json:"secondary,omitempty"`
	Accent    *ColorSpec     `json:"accent,omitempty"`
	Neutrals  []ColorSpec    `json:"neutrals"`
	Contrast  []ContrastNote `json:"contrast"`
}

// Entries returns all palette colors in rank order
func (p *ColorPalette) Entries() []ColorSpec {
	var out []ColorSpec
	for _, c := range []*ColorSpec{p.Primary, p.Secondary, p.Accent} {
		if c != nil {
			out = append(out, *c)
		}
	}
	out = append(out, p.Neutrals...)
	return out
}

// FontSource classifies where a detected font comes from
type FontSource string

const (
	FontSourceDeclared FontSource = "declared" // @font-face with a file the site serves
	FontSourceWebFont  FontSource = "webfont"  // known hosted web-font catalog entry
	FontSourceSystem   FontSource = "system"   // generic/system fallback
)

// FontSpec describes one typeface in the typography system
type FontSpec struct {
	Name        string     `json:"name"`
	Stack       string     `json:"stack"` // full font-family stack as declared
	Source      FontSource `json:"source"`
	DownloadURL string     `json:"download_url,omitempty"`
}

// TypeRole is a semantic slot in the size/weight hierarchy
type TypeRole string

const (
	TypeRoleHeading1 TypeRole = "heading-1"
	TypeRoleHeading2 TypeRole = "heading-2"
	TypeRoleHeading3 TypeRole = "heading-3"
	TypeRoleHeading4 TypeRole = "heading-4"
	TypeRoleHeading5 TypeRole = "heading-5"
	TypeRoleHeading6 TypeRole = "heading-6"
	TypeRoleBody     TypeRole = "body"
	TypeRoleCaption  TypeRole = "caption"
)

// TypeRoles is the hierarchy in display order
var TypeRoles = []TypeRole{
	TypeRoleHeading1, TypeRoleHeading2, TypeRoleHeading3,
	TypeRoleHeading4, TypeRoleHeading5, TypeRoleHeading6,
	TypeRoleBody, TypeRoleCaption,
}

// TypeStyle is the resolved font, size and weight for one role
type TypeStyle struct {
	FontName string  `json:"font_name"`
	SizePx   float64 `json:"size_px"`
	Weight   int     `json:"weight"`
}

// TypographySpec is the extracted typography system. Every hierarchy
// entry references a font present in primary/secondary/fallback.
type TypographySpec struct {
	Primary   FontSpec               `json:"primary"`
	Secondary *FontSpec              `json:"secondary,omitempty"`
	Fallback  string                 `json:"fallback"` // system fallback stack, always set
	Hierarchy map[TypeRole]TypeStyle `json:"hierarchy"`
}

// KnownFontNames returns the set of names a hierarchy entry may reference
func (t *TypographySpec) KnownFontNames() map[string]bool {
	known := map[string]bool{t.Primary.Name: true, t.Fallback: true}
	if t.Secondary != nil {
		known[t.Secondary.Name] = true
	}
	return known
}

// LogoTier is the detection-confidence tier of a logo candidate,
// lower value means higher confidence
type LogoTier int

const (
	LogoTierMeta LogoTier = iota // schema.org / og:image markup
	LogoTierHeader
	LogoTierInlineSVG
	LogoTierFavicon
)

func (t LogoTier) String() string {
	switch t {
	case LogoTierMeta:
		return "meta"
	case LogoTierHeader:
		return "header"
	case LogoTierInlineSVG:
		return "inline-svg"
	case LogoTierFavicon:
		return "favicon"
	}
	return "unknown"
}

// LogoCandidate is one detected logo image
type LogoCandidate struct {
	SourceURL string   `json:"source_url"`
	Format    string   `json:"format"`
	Tier      LogoTier `json:"tier"`
	Data      []byte   `json:"-"`
}

// LogoAsset is the logo extraction result. Found=false is a valid
// outcome; document assembly renders a placeholder for it.
type LogoAsset struct {
	Found      bool            `json:"found"`
	Primary    *LogoCandidate  `json:"primary,omitempty"`
	Variations []LogoCandidate `json:"variations,omitempty"`
}

// BrandPillar is one of exactly three brand pillars
type BrandPillar struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// PersonalityTrait is one of exactly four brand personality traits
type PersonalityTrait struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// VoiceGuideline pairs a voice characteristic with its opposite to avoid
type VoiceGuideline struct {
	IsTrait      string `json:"is_trait" validate:"required"`
	IsExample    string `json:"is_example" validate:"required"`
	IsNotTrait   string `json:"is_not_trait" validate:"required"`
	IsNotExample string `json:"is_not_example" validate:"required"`
}

// BrandContent is the generated narrative layer of the brand profile.
// Cardinalities are hard requirements on every path, generated or
// fallback alike: 3 pillars, 4 traits, 3 voice guidelines.
type BrandContent struct {
	CompanyName            string             `json:"company_name" validate:"required"`
	Tagline                string             `json:"tagline,omitempty"`
	PositioningHeadline    string             `json:"positioning_headline" validate:"required"`
	PositioningDescription string             `json:"positioning_description" validate:"required"`
	Mission                string             `json:"mission" validate:"required"`
	MissionDescription     string             `json:"mission_description,omitempty"`
	Vision                 string             `json:"vision" validate:"required"`
	VisionDescription      string             `json:"vision_description,omitempty"`
	Pillars                []BrandPillar      `json:"pillars" validate:"len=3,dive"`
	Traits                 []PersonalityTrait `json:"traits" validate:"len=4,dive"`
	Promise                string             `json:"promise,omitempty"`
	PromiseDescription     string             `json:"promise_description,omitempty"`
	VoiceGuidelines        []VoiceGuideline   `json:"voice_guidelines" validate:"len=3,dive"`
	BoilerplateShort       string             `json:"boilerplate_short" validate:"required"`
	BoilerplateLong        string             `json:"boilerplate_long" validate:"required"`
	PhotoStyle             string             `json:"photo_style,omitempty"`
	Fallback               bool               `json:"fallback"` // true when templated fallback content was used
}

// ExtractedBrand aggregates every extraction into the sole input of
// the document assembler
type ExtractedBrand struct {
	CompanyName string         `json:"company_name"`
	Domain      string         `json:"domain"`
	SourceURL   string         `json:"source_url"`
	Colors      ColorPalette   `json:"colors"`
	Typography  TypographySpec `json:"typography"`
	Logo        LogoAsset      `json:"logo"`
	Content     BrandContent   `json:"content"`
	LayoutNotes LayoutNotes    `json:"layout_notes"`
}

// LayoutNotes are component-count heuristics over scraped markup,
// rendered best-effort in the document's layout section
type LayoutNotes struct {
	NavLinks     int  `json:"nav_links"`
	Buttons      int  `json:"buttons"`
	Forms        int  `json:"forms"`
	CardSections int  `json:"card_sections"`
	UsesHero     bool `json:"uses_hero"`
}
