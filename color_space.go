package pqjpeg

import (
	"fmt"
	"strings"
)

// Gamut names a set of RGB primaries. All of them share the D65 white point.
type Gamut int

// Supported source gamuts.
const (
	GamutBT2020 Gamut = iota
	GamutBT709        // Also sRGB.
	GamutDisplayP3
	GamutAdobeRGB
)

var gamutNames = map[Gamut]string{
	GamutBT2020:    "bt2020",
	GamutBT709:     "bt709",
	GamutDisplayP3: "p3",
	GamutAdobeRGB:  "adobergb",
}

func (g Gamut) String() string {
	if n, ok := gamutNames[g]; ok {
		return n
	}
	return fmt.Sprintf("Gamut(%d)", int(g))
}

// ParseGamut accepts the String form of a gamut and a few common aliases.
func ParseGamut(s string) (Gamut, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bt2020", "rec2020", "2020":
		return GamutBT2020, nil
	case "bt709", "rec709", "709", "srgb":
		return GamutBT709, nil
	case "p3", "displayp3", "display-p3":
		return GamutDisplayP3, nil
	case "adobergb", "adobe", "adobe-rgb":
		return GamutAdobeRGB, nil
	}
	return 0, fmt.Errorf("unknown gamut %q", s)
}

// Linear RGB to linear BT.2020 RGB, rows sum to 1.
var toBT2020 = map[Gamut][3][3]float32{
	GamutBT709: {
		{0.6274039, 0.3292830, 0.0433131},
		{0.0690973, 0.9195404, 0.0113623},
		{0.0163914, 0.0880133, 0.8955953},
	},
	GamutDisplayP3: {
		{0.7538330, 0.1985974, 0.0475696},
		{0.0457438, 0.9417772, 0.0124789},
		{-0.0012103, 0.0176017, 0.9836086},
	},
	GamutAdobeRGB: {
		{0.8773338, 0.0774937, 0.0451725},
		{0.0966226, 0.8915273, 0.0118501},
		{0.0229211, 0.0430367, 0.9340423},
	},
}

// ToBT2020 converts linear samples in place from the from primaries to
// BT.2020. Alpha is left untouched.
func (b *ImageBuffer) ToBT2020(from Gamut) error {
	if from == GamutBT2020 {
		return nil
	}
	m, ok := toBT2020[from]
	if !ok {
		return fmt.Errorf("unsupported source gamut %v", from)
	}
	if err := b.Validate(); err != nil {
		return err
	}
	for i, p := range b.Pix[:b.Width*b.Height] {
		r, g, bl := p.R.Float32(), p.G.Float32(), p.B.Float32()
		s := NewLinearSample(
			m[0][0]*r+m[0][1]*g+m[0][2]*bl,
			m[1][0]*r+m[1][1]*g+m[1][2]*bl,
			m[2][0]*r+m[2][1]*g+m[2][2]*bl,
			0,
		)
		s.A = p.A
		b.Pix[i] = s
	}
	return nil
}
