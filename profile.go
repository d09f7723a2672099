package pqjpeg

import (
	"fmt"
	"os"
	"path/filepath"

	"seehuhn.de/go/icc"
)

// LoadICCProfile reads a raw ICC profile. The bytes are not interpreted.
func LoadICCProfile(path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProfileRead, err)
	}
	return data, nil
}

// ProfileInfo summarizes an ICC profile header.
type ProfileInfo struct {
	Size       int    `json:"size"`
	ColorSpace string `json:"colorSpace,omitempty"`
	Components int    `json:"components,omitempty"`
	RGB        bool   `json:"rgb"`
}

// DescribeICCProfile decodes the profile header and tag table.
func DescribeICCProfile(profile []byte) (*ProfileInfo, error) {
	if len(profile) == 0 {
		return nil, fmt.Errorf("%w: empty profile", ErrInvalidProfile)
	}
	p, err := icc.Decode(profile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}
	return &ProfileInfo{
		Size:       len(profile),
		ColorSpace: fmt.Sprint(p.ColorSpace),
		Components: p.ColorSpace.NumComponents(),
		RGB:        p.ColorSpace == icc.RGBSpace,
	}, nil
}
