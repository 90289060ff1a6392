// Command fimgtool inspects PPM files and writes PPM test images.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/fimg"
)

func main() {
	var (
		info       = flag.String("info", "", "print information about a PPM file and exit")
		width      = flag.Int("width", 256, "image width")
		height     = flag.Int("height", 256, "image height")
		output     = flag.String("output", "gradient.ppm", "output file")
		lang       = flag.String("lang", "en", "language for number formatting")
		verbose    = flag.Bool("v", false, "enable debug logging")
		maxSamples = flag.Int("max-samples", fimg.DefaultMaxSamples, "refuse images with more samples")
	)
	flag.Parse()

	if *verbose {
		fimg.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	tag, err := language.Parse(*lang)
	if err != nil {
		log.Fatalf("Invalid language %q: %v", *lang, err)
	}
	p := message.NewPrinter(tag)

	if *info != "" {
		img, err := fimg.ImportPPM(*info, fimg.WithMaxSamples(*maxSamples))
		if err != nil {
			log.Fatalf("Failed to import: %v", err)
		}
		printInfo(p, *info, img)
		_ = img.Destroy()
		return
	}

	img, err := fimg.New(*width, *height, fimg.DefaultChannels, fimg.WithMaxSamples(*maxSamples))
	if err != nil {
		log.Fatalf("Failed to create image: %v", err)
	}
	defer func() { _ = img.Destroy() }()

	drawGradient(img)

	if err := fimg.ExportPPM(*output, img); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	log.Printf("Gradient saved to %s (%dx%d)\n", *output, img.Width(), img.Height())
}

// printInfo writes the image geometry with locale-aware number formatting.
func printInfo(p *message.Printer, path string, img *fimg.Image) {
	p.Printf("%s\n", path)
	p.Printf("  size:     %d x %d\n", img.Width(), img.Height())
	p.Printf("  channels: %d\n", img.Channels())
	p.Printf("  pitch:    %d samples\n", img.Pitch())
	p.Printf("  samples:  %d\n", img.Len())

	var sum [fimg.DefaultChannels]float64
	for y := range img.Height() {
		row := img.Row(y)
		for i, v := range row {
			sum[i%img.Channels()] += float64(v)
		}
	}
	n := float64(img.Width() * img.Height())
	p.Printf("  mean:     R=%.4f G=%.4f B=%.4f\n", sum[0]/n, sum[1]/n, sum[2]/n)
}

// drawGradient fills img with a horizontal red ramp, a vertical green ramp
// and constant blue.
func drawGradient(img *fimg.Image) {
	w, h := img.Width(), img.Height()
	for y := range h {
		for x := range w {
			px := img.Pixel(y, x)
			px[0] = float32(x) / float32(max(w-1, 1))
			px[1] = float32(y) / float32(max(h-1, 1))
			px[2] = 0.5
		}
	}
}
