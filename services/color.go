package services

import (
	"fmt"
	"log"
	"strconv"
	"strings"
)

// DefaultBrandColor is used when no valid brand color is configured.
const DefaultBrandColor = "#2563EB"

// Color is an RGB color.
type Color struct {
	R, G, B uint8
}

// ParseHexColor parses "#RRGGBB", "RRGGBB" or the short "#RGB" form.
func ParseHexColor(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Hex returns the color as "#RRGGBB".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// OOXML returns the color as "RRGGBB", the form used in WordprocessingML.
func (c Color) OOXML() string {
	return strings.TrimPrefix(c.Hex(), "#")
}

// Tint mixes the color with white. f=0 keeps the color, f=1 gives white.
func (c Color) Tint(f float64) Color {
	mix := func(v uint8) uint8 {
		return uint8(float64(v) + (255-float64(v))*f)
	}
	return Color{R: mix(c.R), G: mix(c.G), B: mix(c.B)}
}

// resolveBrandColor picks the first parseable color among the candidates,
// falling back to DefaultBrandColor.
func resolveBrandColor(candidates ...string) Color {
	for _, s := range candidates {
		if strings.TrimSpace(s) == "" {
			continue
		}
		c, err := ParseHexColor(s)
		if err == nil {
			return c
		}
		log.Printf("export: ignoring brand color: %v", err)
	}
	c, _ := ParseHexColor(DefaultBrandColor)
	return c
}

// Shared palette.
var (
	colorText       = Color{33, 37, 41}
	colorMuted      = Color{108, 117, 125}
	colorBorder     = Color{200, 200, 200}
	colorHeaderFill = Color{224, 224, 224}
	colorStripe     = Color{250, 250, 250}
	colorHighlight  = Color{255, 243, 205}
	colorPanel      = Color{248, 248, 248}
	colorChartFill  = Color{240, 240, 240}
	colorTrendUp    = Color{22, 163, 74}
	colorTrendDown  = Color{220, 38, 38}
	colorTitle      = Color{31, 78, 121}
	colorHeading1   = Color{46, 117, 182}
	colorHeading2   = Color{91, 155, 213}
	colorWhite      = Color{255, 255, 255}
)
