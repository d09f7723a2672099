package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"
	"github.com/vearutop/pqjpeg"
)

const (
	demoOut     = "hdr_rec2020_pq.jpg"
	demoProfile = "rec-2020-pq.icc"
	demoSize    = 480
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

func main() {
	if len(os.Args) < 2 {
		if err := runDemo(); err != nil {
			fail(err)
		}
		return
	}
	switch os.Args[1] {
	case "encode":
		if err := runEncode(os.Args[2:]); err != nil {
			fail(err)
		}
	case "inspect":
		if err := runInspect(os.Args[2:]); err != nil {
			fail(err)
		}
	case "extract-icc":
		if err := runExtractICC(os.Args[2:]); err != nil {
			fail(err)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: pqjpegtool [<command> [args]]")
	fmt.Fprintln(os.Stderr, "Without a command, writes "+demoOut+" from a synthetic pattern using "+demoProfile+".")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  encode      -in src.(png|tif|exr|hdr) -icc profile.icc -out output.jpg [-q 95] [-white 203] [-w 0 -h 0 -interp lanczos3] [-gamut bt709] [-validate]")
	fmt.Fprintln(os.Stderr, "  inspect     -in input.jpg [-json]")
	fmt.Fprintln(os.Stderr, "  extract-icc -in input.jpg -out profile.icc")
}

func runDemo() error {
	img, err := pqjpeg.SyntheticImage(demoSize, demoSize)
	if err != nil {
		return err
	}
	if err := pqjpeg.EncodeFile(demoOut, img, demoProfile, func(o *pqjpeg.EncodeOptions) {
		o.Quality = 95
	}); err != nil {
		return err
	}
	logger.Info("wrote demo image", "out", demoOut, "width", demoSize, "height", demoSize)
	return nil
}

func runEncode(args []string) error {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	inPath := fs.String("in", "", "input image (png, tif, exr, hdr)")
	iccPath := fs.String("icc", "", "ICC profile to embed")
	outPath := fs.String("out", "", "output JPEG")
	q := fs.Int("q", 95, "JPEG quality")
	white := fs.Float64("white", pqjpeg.SDRWhiteNits, "luminance in nits of SDR white or HDR 1.0")
	width := fs.Int("w", 0, "resize width (SDR inputs only)")
	height := fs.Int("h", 0, "resize height (SDR inputs only)")
	validate := fs.Bool("validate", false, "require an RGB ICC profile")
	interpName := fs.String("interp", "lanczos3", "resize kernel: nearest, bilinear, bicubic, mitchell, lanczos2, lanczos3")
	gamutName := fs.String("gamut", "bt709", "source primaries: bt709 (sRGB), p3, adobergb or bt2020")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" || *iccPath == "" || *outPath == "" {
		return errors.New("missing required arguments")
	}
	if (*width > 0) != (*height > 0) {
		return errors.New("-w and -h must be set together")
	}
	gamut, err := pqjpeg.ParseGamut(*gamutName)
	if err != nil {
		return err
	}
	interp, err := pqjpeg.ParseInterpolation(*interpName)
	if err != nil {
		return err
	}

	img, err := loadSource(*inPath, float32(*white), *width, *height, interp)
	if err != nil {
		return err
	}
	if err := img.ToBT2020(gamut); err != nil {
		return err
	}
	logger.Info("loaded source", "in", *inPath, "width", img.Width, "height", img.Height, "gamut", gamut)

	if err := pqjpeg.EncodeFile(*outPath, img, *iccPath, func(o *pqjpeg.EncodeOptions) {
		o.Quality = *q
		o.ValidateProfile = *validate
	}); err != nil {
		return err
	}
	logger.Info("wrote PQ JPEG", "out", *outPath, "quality", *q)
	return nil
}

func loadSource(path string, whiteNits float32, width, height int, interp pqjpeg.Interpolation) (*pqjpeg.ImageBuffer, error) {
	resized := width > 0 && height > 0
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		pix, w, h, err := pqjpeg.ReadRGBA(path)
		if err != nil {
			return nil, err
		}
		if !resized {
			return pqjpeg.ImageBufferFromRGBA8(pix, w, h, whiteNits)
		}
		src := &image.NRGBA{Pix: pix, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}
		return resizeSDR(src, width, height, interp, whiteNits)
	case ".tif", ".tiff":
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, err
		}
		src, err := pqjpeg.DecodeTIFF(data)
		if err != nil {
			return nil, err
		}
		if !resized {
			return pqjpeg.ImageBufferFromSDR(src, whiteNits)
		}
		return resizeSDR(src, width, height, interp, whiteNits)
	case ".exr", ".hdr":
		if resized {
			return nil, fmt.Errorf("resizing %s input is not supported", ext)
		}
		if ext == ".exr" {
			data, err := os.ReadFile(filepath.Clean(path))
			if err != nil {
				return nil, err
			}
			return pqjpeg.ImageBufferFromEXR(data, whiteNits)
		}
		return loadRadiance(path, whiteNits)
	default:
		return nil, fmt.Errorf("unsupported input extension %q", ext)
	}
}

func resizeSDR(src image.Image, width, height int, interp pqjpeg.Interpolation, whiteNits float32) (*pqjpeg.ImageBuffer, error) {
	dst, err := pqjpeg.ResizeSDR(src, width, height, interp)
	if err != nil {
		return nil, err
	}
	return pqjpeg.ImageBufferFromSDR(dst, whiteNits)
}

func loadRadiance(path string, whiteNits float32) (*pqjpeg.ImageBuffer, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := rgbe.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pqjpeg.ErrInvalidImage, err)
	}
	h, ok := img.(hdr.Image)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected RGBE decoder output %T", pqjpeg.ErrInvalidImage, img)
	}
	return pqjpeg.ImageBufferFromHDR(h, whiteNits)
}

func runInspect(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	inPath := fs.String("in", "", "input JPEG")
	asJSON := fs.Bool("json", false, "print JSON")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" {
		return errors.New("missing required arguments")
	}
	data, err := os.ReadFile(filepath.Clean(*inPath))
	if err != nil {
		return err
	}
	frame, err := pqjpeg.InspectJPEG(data)
	if err != nil {
		return err
	}
	payloads, err := pqjpeg.ICCSegmentPayloads(data)
	if err != nil {
		return err
	}
	profile, err := pqjpeg.ReassembleICCProfile(payloads)
	if err != nil {
		return err
	}

	report := struct {
		Frame    *pqjpeg.JPEGInfo    `json:"frame"`
		Segments int                 `json:"segments"`
		Profile  *pqjpeg.ProfileInfo `json:"profile,omitempty"`
	}{Frame: frame, Segments: len(payloads)}
	if profile != nil {
		info, err := pqjpeg.DescribeICCProfile(profile)
		if err != nil {
			logger.Warn("embedded profile does not decode", "error", err)
			info = &pqjpeg.ProfileInfo{Size: len(profile)}
		}
		report.Profile = info
	}

	if *asJSON {
		payload, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, string(payload))
		return nil
	}
	fmt.Fprintf(os.Stdout, "%dx%d, %d components, sampling %dx%d, quality ~%d\n",
		frame.Width, frame.Height, frame.Components, frame.LumaSampling[0], frame.LumaSampling[1], frame.Quality)
	if report.Profile == nil {
		fmt.Fprintln(os.Stdout, "no ICC profile")
		return nil
	}
	fmt.Fprintf(os.Stdout, "ICC profile: %d bytes in %d APP2 segments, color space %q\n",
		report.Profile.Size, report.Segments, report.Profile.ColorSpace)
	return nil
}

func runExtractICC(args []string) error {
	fs := flag.NewFlagSet("extract-icc", flag.ContinueOnError)
	inPath := fs.String("in", "", "input JPEG")
	outPath := fs.String("out", "", "output ICC profile")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" || *outPath == "" {
		return errors.New("missing required arguments")
	}
	data, err := os.ReadFile(filepath.Clean(*inPath))
	if err != nil {
		return err
	}
	profile, err := pqjpeg.ExtractICCProfile(data)
	if err != nil {
		return err
	}
	if profile == nil {
		return errors.New("no ICC profile found")
	}
	return os.WriteFile(filepath.Clean(*outPath), profile, 0o644)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
