package pqjpeg_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vearutop/pqjpeg"
)

func ExampleEncodeFile() {
	img, err := pqjpeg.SyntheticImage(480, 480)
	if err != nil {
		return
	}
	_ = pqjpeg.EncodeFile("hdr_rec2020_pq.jpg", img, filepath.FromSlash("testdata/rec-2020-pq.icc"), func(o *pqjpeg.EncodeOptions) {
		o.Quality = 95
	})
}

func ExampleEncode() {
	img, err := pqjpeg.NewImageBuffer(16, 16)
	if err != nil {
		return
	}
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			v := pqjpeg.NitsToLinear(pqjpeg.SDRWhiteNits)
			img.Set(x, y, v, v, v, 1)
		}
	}
	profile, err := os.ReadFile(filepath.FromSlash("testdata/rec-2020-pq.icc"))
	if err != nil {
		return
	}
	var buf bytes.Buffer
	_ = pqjpeg.Encode(&buf, img, profile)
}

func ExampleSegmentICCProfile() {
	segs, err := pqjpeg.SegmentICCProfile(make([]byte, 200000), pqjpeg.DefaultICCSegmentPayload)
	if err != nil {
		return
	}
	for _, s := range segs {
		fmt.Println(s.Sequence, s.Total, s.MarkerLength())
	}

	// Output:
	// 1 4 65547
	// 2 4 65547
	// 3 4 65547
	// 4 4 3415
}
