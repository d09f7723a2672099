package pqjpeg

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vearutop/pqjpeg/internal/jpegx"
)

// Encode writes img as a baseline JPEG with PQ-encoded samples and profile
// embedded as ICC_PROFILE APP2 segments ahead of the scan data.
// Nothing is written to w unless encoding succeeds up to the final flush.
func Encode(w io.Writer, img *ImageBuffer, profile []byte, opts ...func(o *EncodeOptions)) error {
	opt := EncodeOptions{
		Quality:        defaultQuality,
		SegmentPayload: MaxICCSegmentPayload,
	}
	for _, applyOpt := range opts {
		applyOpt(&opt)
	}
	if opt.Quality < 0 || opt.Quality > 100 {
		return fmt.Errorf("%w: quality %d out of range [0, 100]", ErrInvalidOptions, opt.Quality)
	}
	if err := img.Validate(); err != nil {
		return err
	}
	if opt.ValidateProfile {
		info, err := DescribeICCProfile(profile)
		if err != nil {
			return err
		}
		if !info.RGB {
			return fmt.Errorf("%w: %s profile, want RGB", ErrInvalidProfile, info.ColorSpace)
		}
	}
	payload := opt.SegmentPayload
	if payload > MaxICCSegmentPayload {
		payload = MaxICCSegmentPayload
	}
	segs, err := SegmentICCProfile(profile, payload)
	if err != nil {
		return err
	}

	enc := jpegx.NewEncoder(w)
	defer enc.Abort()

	err = enc.Configure(jpegx.Config{
		Width:      img.Width,
		Height:     img.Height,
		Components: 3,
		ColorSpace: jpegx.ColorSpaceRGB,
		Quality:    opt.Quality,
		Precision:  8,
	})
	if err != nil {
		return fmt.Errorf("configure encoder: %w", err)
	}
	if err := enc.Begin(); err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	for _, seg := range segs {
		if err := enc.WriteMarker(jpegx.MarkerAPP2, seg.Bytes()); err != nil {
			return fmt.Errorf("write ICC segment %d/%d: %w", seg.Sequence, seg.Total, err)
		}
	}

	samples := make([]Rec2020PQSample, img.Width)
	scanline := make([]byte, 0, img.Width*3)
	for y := 0; y < img.Height; y++ {
		samples = QuantizeRow(samples, img.Row(y))
		scanline = AppendScanline(scanline[:0], samples)
		if err := enc.WriteScanline(scanline); err != nil {
			return fmt.Errorf("write scanline %d: %w", y, err)
		}
	}

	if err := enc.Finish(); err != nil {
		return fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	return nil
}

// EncodeFile loads the ICC profile from iccProfilePath and encodes img to
// outPath. The output is staged in a temporary file next to outPath and only
// renamed into place on success; on failure no file is left behind.
func EncodeFile(outPath string, img *ImageBuffer, iccProfilePath string, opts ...func(o *EncodeOptions)) (err error) {
	profile, err := LoadICCProfile(iccProfilePath)
	if err != nil {
		return err
	}

	outPath = filepath.Clean(outPath)
	f, err := os.CreateTemp(filepath.Dir(outPath), "."+filepath.Base(outPath)+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	bw := bufio.NewWriter(f)
	if err = Encode(bw, img, profile, opts...); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	// CreateTemp opens with 0600; published files get the usual 0644.
	if err = os.Chmod(tmp, 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	if err = os.Rename(tmp, outPath); err != nil {
		return fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	return nil
}
