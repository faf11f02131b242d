package autocrop

import "fmt"

// Outcome explains what a pass did.
type Outcome int

const (
	// OutcomeUnchanged: no margin was found. This is success.
	OutcomeUnchanged Outcome = iota
	// OutcomeCropped: a margin was detected and removed.
	OutcomeCropped
	// OutcomeScanLimit: every scanned line matched the margin colour. The
	// image was cropped to the scan limit unless KeepOnScanLimit was set.
	OutcomeScanLimit
	// OutcomeRejected: the crop would have kept too little of the image.
	OutcomeRejected
	// OutcomeSkipped: the input was empty, too small to sample, or the
	// side was invalid.
	OutcomeSkipped
)

var outcomeNames = [...]string{"unchanged", "cropped", "scan_limit_reached", "rejected", "skipped"}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
	return outcomeNames[o]
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Outcome) UnmarshalText(text []byte) error {
	for i, n := range outcomeNames {
		if n == string(text) {
			*o = Outcome(i)
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", text)
}

// Uncertain reports whether the outcome should be flagged for manual review.
func (o Outcome) Uncertain() bool { return o == OutcomeScanLimit }

// Result is the outcome of one pass.
type Result struct {
	// Image is the cropped view, or the input itself when nothing changed.
	Image *Image `json:"-"`

	// Rect is the crop applied, in the input's coordinates. It equals the
	// input bounds when nothing changed.
	Rect CropRect `json:"rect"`

	Outcome Outcome `json:"outcome"`

	// Stage is "white" for the white-border pass or the side name for a
	// grey-margin pass.
	Stage string `json:"stage"`

	// MarginColor is the colour a grey-margin pass matched against.
	MarginColor RGBColor `json:"margin_color"`

	// Scan is the raw scanner result of a grey-margin pass.
	Scan ScanResult `json:"scan"`

	input CropRect
}

// Changed reports whether the pass cropped anything.
func (r Result) Changed() bool {
	return r.Rect != r.input
}

func unchanged(img *Image, stage string, outcome Outcome) Result {
	res := Result{Image: img, Outcome: outcome, Stage: stage}
	if img != nil {
		res.Rect = img.Bounds()
		res.input = res.Rect
	}
	return res
}
