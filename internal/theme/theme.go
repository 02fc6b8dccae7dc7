// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package theme defines storefront color themes, the built-in presets and
// the CSS custom properties derived from a theme.
package theme

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("theme: invalid color theme")

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ColorTheme is the palette of a store. Every field is a #RRGGBB color.
type ColorTheme struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Text       string `json:"text"`
	Error      string `json:"error"`
	Success    string `json:"success"`
}

// Fields returns the theme's colors keyed by their JSON names.
func (t ColorTheme) Fields() map[string]string {
	return map[string]string{
		"primary":    t.Primary,
		"secondary":  t.Secondary,
		"accent":     t.Accent,
		"background": t.Background,
		"text":       t.Text,
		"error":      t.Error,
		"success":    t.Success,
	}
}

// fieldOrder is the declaration order of ColorTheme.
var fieldOrder = []string{"primary", "secondary", "accent", "background", "text", "error", "success"}

// Validate reports the first field that is missing or not a hex color.
func (t ColorTheme) Validate() error {
	f := t.Fields()
	for _, name := range fieldOrder {
		v := f[name]
		if v == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalid, name)
		}
		if !ValidHex(v) {
			return fmt.Errorf("%w: %s %q is not a #RRGGBB color", ErrInvalid, name, v)
		}
	}
	return nil
}

// With returns a copy of t with one field replaced by its JSON name.
func (t ColorTheme) With(field, value string) (ColorTheme, error) {
	switch field {
	case "primary":
		t.Primary = value
	case "secondary":
		t.Secondary = value
	case "accent":
		t.Accent = value
	case "background":
		t.Background = value
	case "text":
		t.Text = value
	case "error":
		t.Error = value
	case "success":
		t.Success = value
	default:
		return t, fmt.Errorf("%w: unknown field %q", ErrInvalid, field)
	}
	return t, nil
}

// ValidHex reports whether s is a #RRGGBB color (case-insensitive).
func ValidHex(s string) bool {
	return hexColor.MatchString(s)
}

var presets = map[string]ColorTheme{
	"modern": {
		Primary: "#3B82F6", Secondary: "#8B5CF6", Accent: "#F59E0B",
		Background: "#FFFFFF", Text: "#1F2937", Error: "#EF4444", Success: "#10B981",
	},
	"elegant": {
		Primary: "#1F2937", Secondary: "#6B7280", Accent: "#D1D5DB",
		Background: "#F9FAFB", Text: "#111827", Error: "#DC2626", Success: "#059669",
	},
	"vibrant": {
		Primary: "#EC4899", Secondary: "#8B5CF6", Accent: "#F59E0B",
		Background: "#FFFFFF", Text: "#1F2937", Error: "#EF4444", Success: "#10B981",
	},
	"minimalist": {
		Primary: "#000000", Secondary: "#404040", Accent: "#808080",
		Background: "#FFFFFF", Text: "#000000", Error: "#DC2626", Success: "#059669",
	},
	"ocean": {
		Primary: "#0EA5E9", Secondary: "#06B6D4", Accent: "#14B8A6",
		Background: "#F0F9FF", Text: "#0C4A6E", Error: "#DC2626", Success: "#059669",
	},
}

// DefaultPreset is used when a store is generated without a theme.
const DefaultPreset = "modern"

// Default returns the modern preset.
func Default() ColorTheme { return presets[DefaultPreset] }

// Preset looks up a built-in theme by name.
func Preset(name string) (ColorTheme, bool) {
	t, ok := presets[strings.ToLower(name)]
	return t, ok
}

// PresetNames returns the preset names sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Presets returns a copy of every built-in theme.
func Presets() map[string]ColorTheme {
	out := make(map[string]ColorTheme, len(presets))
	for k, v := range presets {
		out[k] = v
	}
	return out
}

// Lighten raises each channel by 2.55*percent, clamped to 255.
func Lighten(hex string, percent float64) string {
	return shift(hex, percent)
}

// Darken lowers each channel by 2.55*percent, clamped to 0.
func Darken(hex string, percent float64) string {
	return shift(hex, -percent)
}

func shift(hex string, percent float64) string {
	r, g, b, ok := channels(hex)
	if !ok {
		return hex
	}
	amt := int(math.Round(2.55 * percent))
	return fmt.Sprintf("#%02x%02x%02x", clamp(r+amt), clamp(g+amt), clamp(b+amt))
}

// IsLight reports whether the color's perceived brightness exceeds 155.
func IsLight(hex string) bool {
	r, g, b, ok := channels(hex)
	if !ok {
		return false
	}
	return float64(r*299+g*587+b*114)/1000 > 155
}

// ContrastText returns black for light backgrounds and white otherwise.
func ContrastText(background string) string {
	if IsLight(background) {
		return "#000000"
	}
	return "#FFFFFF"
}

// Variable is one CSS custom property.
type Variable struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Variables returns the CSS custom properties for t, base colors first,
// then light and dark shades of primary and secondary.
func Variables(t ColorTheme) []Variable {
	return []Variable{
		{"--color-primary", t.Primary},
		{"--color-secondary", t.Secondary},
		{"--color-accent", t.Accent},
		{"--color-background", t.Background},
		{"--color-text", t.Text},
		{"--color-error", t.Error},
		{"--color-success", t.Success},
		{"--color-primary-light", Lighten(t.Primary, 20)},
		{"--color-primary-dark", Darken(t.Primary, 20)},
		{"--color-secondary-light", Lighten(t.Secondary, 20)},
		{"--color-secondary-dark", Darken(t.Secondary, 20)},
	}
}

// Stylesheet renders the variables as a :root block.
func Stylesheet(t ColorTheme) string {
	var b strings.Builder
	b.WriteString(":root {\n")
	for _, v := range Variables(t) {
		fmt.Fprintf(&b, "  %s: %s;\n", v.Name, v.Value)
	}
	b.WriteString("}")
	return b.String()
}

func channels(hex string) (r, g, b int, ok bool) {
	if !ValidHex(hex) {
		return 0, 0, 0, false
	}
	n, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(n >> 16), int(n >> 8 & 0xff), int(n & 0xff), true
}

func clamp(c int) int {
	return max(0, min(255, c))
}
