package repl

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/notexe/glowcare/internal/advice"
	"github.com/notexe/glowcare/internal/clinic"
	"github.com/notexe/glowcare/internal/skinscan"
)

type clinicFinder interface {
	Nearby(ctx context.Context, lat, lon float64) ([]clinic.Clinic, error)
}

type faceDetector interface {
	Detect(ctx context.Context, image []byte) (skinscan.Analysis, error)
}

// UseClinics enables /clinics.
func (r *REPL) UseClinics(f clinicFinder) {
	r.clinics = f
}

// UseScanner enables /scan.
func (r *REPL) UseScanner(d faceDetector) {
	r.scanner = d
}

func (r *REPL) handleClinics(ctx context.Context, args string) error {
	if r.clinics == nil {
		return fmt.Errorf("clinic lookup is not configured")
	}

	fields := strings.Fields(strings.ReplaceAll(args, ",", " "))
	if len(fields) != 2 {
		return fmt.Errorf("usage: /clinics <latitude> <longitude>")
	}
	lat, errLat := strconv.ParseFloat(fields[0], 64)
	lon, errLon := strconv.ParseFloat(fields[1], 64)
	if errLat != nil || errLon != nil {
		return fmt.Errorf("usage: /clinics <latitude> <longitude>")
	}

	r.spinner.Start("Searching nearby dermatologists...")
	clinics, err := r.clinics.Nearby(ctx, lat, lon)
	r.spinner.Stop()
	if err != nil {
		return fmt.Errorf("failed to find dermatologists: %w", err)
	}

	fmt.Fprintln(r.out, r.formatter.FormatClinics(clinics))
	fmt.Fprintln(r.out)
	return nil
}

// handleScan analyzes a face photo and asks for matching products. Without a
// provider, or when it fails, general suggestions are shown instead.
func (r *REPL) handleScan(ctx context.Context, path string) error {
	if r.scanner == nil {
		return skinscan.ErrNotConfigured
	}
	if path == "" {
		return fmt.Errorf("usage: /scan <photo.jpg>")
	}

	image, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read photo: %w", err)
	}

	r.spinner.Start("Analyzing your skin...")
	analysis, err := r.scanner.Detect(ctx, image)
	r.spinner.Stop()
	if err != nil {
		return fmt.Errorf("failed to analyze photo: %w", err)
	}
	fmt.Fprintln(r.out, r.formatter.FormatAnalysis(analysis))

	products := skinscan.FallbackProducts
	if r.provider != nil {
		r.spinner.Start("Finding products for you...")
		text, err := skinscan.Recommend(ctx, r.provider, r.config.Model.Name, analysis)
		r.spinner.Stop()
		if err != nil {
			r.displayError(err)
		} else {
			products = text
		}
	}

	r.displayAssistant(products)
	r.displayInfo("See a professional with /clinics <lat> <lon>")
	return nil
}

func (r *REPL) handleIngredient(ctx context.Context, ingredient string) error {
	if r.provider == nil {
		return r.requireChat()
	}

	r.spinner.Start("Checking ingredient...")
	text, err := advice.CheckIngredient(ctx, r.provider, r.config.Model.Name, ingredient)
	r.spinner.Stop()
	if err != nil {
		return err
	}

	r.displayAssistant(text)
	return nil
}
