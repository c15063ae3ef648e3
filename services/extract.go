package services

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Title patterns. Each is searched independently and only the first match
// counts. bathPattern needs the digits right before "bath", so a title like
// "1 shared bath" leaves bathrooms missing and only sharedPattern matches.
var (
	bedroomPattern = titlePattern(`(\d+)\s*bedroom`)
	bathPattern    = titlePattern(`(\d+(\.\d+)?)\s*bath`)
	bedsPattern    = titlePattern(`(\d+)\s*bed`)
	sharedPattern  = titlePattern(`(\d+)\s*shared`)
	// starsPattern uses U+2605 BLACK STAR. Titles decoded with the wrong
	// charset simply never match.
	starsPattern = titlePattern(`★(\d+(\.\d+)?)`)
)

// unicodeClasses widens \d and \s to every Unicode decimal digit and
// whitespace rune, so "２ bedroom" and "2\u00a0bath" match too.
var unicodeClasses = strings.NewReplacer(
	`\d`, `\p{Nd}`,
	`\s`, `[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]`,
)

func titlePattern(expr string) *regexp.Regexp {
	return regexp.MustCompile(unicodeClasses.Replace(expr))
}

// Attributes are the structured values recovered from a listing title.
type Attributes struct {
	Bedrooms   *float64
	Bathrooms  *float64
	Beds       *float64
	SharedBath *float64
	Stars      *string
}

// ExtractAttributes runs every title extractor over name.
func ExtractAttributes(name string) Attributes {
	return Attributes{
		Bedrooms:   ExtractBedrooms(name),
		Bathrooms:  ExtractBathrooms(name),
		Beds:       ExtractBeds(name),
		SharedBath: ExtractSharedBath(name),
		Stars:      ExtractStars(name),
	}
}

// ExtractBedrooms returns the number in "<n> bedroom", or nil.
func ExtractBedrooms(name string) *float64 {
	return extractNumber(bedroomPattern, name)
}

// ExtractBathrooms returns the possibly fractional number in "<n> bath", or nil.
func ExtractBathrooms(name string) *float64 {
	return extractNumber(bathPattern, name)
}

// ExtractBeds returns the number in "<n> bed". "2 bedrooms" matches too.
func ExtractBeds(name string) *float64 {
	return extractNumber(bedsPattern, name)
}

// ExtractSharedBath returns the number in "<n> shared", or nil.
func ExtractSharedBath(name string) *float64 {
	return extractNumber(sharedPattern, name)
}

// ExtractStars returns the rating after the star glyph as raw text.
func ExtractStars(name string) *string {
	g, ok := firstGroup(starsPattern, name)
	if !ok {
		return nil
	}
	return &g
}

func firstGroup(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}

func extractNumber(re *regexp.Regexp, text string) *float64 {
	g, ok := firstGroup(re, text)
	if !ok {
		return nil
	}
	v, err := strconv.ParseFloat(asciiDigits(g), 64)
	if err != nil {
		return nil
	}
	return &v
}

// asciiDigits rewrites every decimal digit in s as its ASCII form.
func asciiDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r < utf8.RuneSelf || !unicode.Is(unicode.Nd, r) {
			return r
		}
		return '0' + digitValue(r)
	}, s)
}

// digitValue relies on every Nd range being runs of ten starting at zero.
func digitValue(r rune) rune {
	for _, rg := range unicode.Nd.R16 {
		if lo, hi := rune(rg.Lo), rune(rg.Hi); r >= lo && r <= hi {
			return (r - lo) % 10
		}
	}
	for _, rg := range unicode.Nd.R32 {
		if lo, hi := rune(rg.Lo), rune(rg.Hi); r >= lo && r <= hi {
			return (r - lo) % 10
		}
	}
	return 0
}
