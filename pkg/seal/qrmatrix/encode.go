// Package qrmatrix wraps the QR encoding library behind a uniform result
// shape: a square boolean module matrix plus the resolved error-correction
// level.
//
// The encoding algorithm itself is the library's concern. This package owns
// only the percentage-based level selection and the matrix extraction, both
// of which feed every downstream geometry calculation and therefore must be
// byte-for-byte stable.
package qrmatrix

import (
	qrcode "github.com/skip2/go-qrcode"

	"github.com/jonguttman/psillyops-seal/pkg/errors"
)

// Error-correction percentage bounds. The four discrete QR levels recover
// roughly 7% (L), 15% (M), 25% (Q) and 30% (H) of damaged modules.
const (
	MinErrorCorrectionPercent = 7
	MaxErrorCorrectionPercent = 30
)

// Bucketing thresholds: midpoints between adjacent level percentages.
// Changing these changes N for existing payloads, which changes every seal.
const (
	thresholdLowMedium   = 11.0 // midpoint of 7 and 15
	thresholdMediumHigh  = 20.0 // midpoint of 15 and 25
	thresholdHighHighest = 27.5 // midpoint of 25 and 30
)

// Result is the uniform output of an encode call.
type Result struct {
	// Matrix is the square module grid, true for dark modules. It excludes
	// the quiet zone; the renderer owns all spacing.
	Matrix [][]bool

	// Size is the matrix side length N.
	Size int

	// Level is the resolved error-correction level: "L", "M", "Q" or "H".
	Level string

	// LevelPercent is the nominal recovery percentage of the resolved level.
	LevelPercent int
}

// Encode encodes payload into a module matrix at the level selected by
// percent, a continuous value in [7, 30].
//
// If the payload exceeds capacity at the selected level the error carries
// code ENCODING_CAPACITY; the payload is never truncated. Callers may retry
// with a lower percentage.
func Encode(payload string, percent float64) (*Result, error) {
	if payload == "" {
		return nil, errors.New(errors.ErrCodeInvalidToken, "cannot encode empty payload")
	}
	if percent < MinErrorCorrectionPercent || percent > MaxErrorCorrectionPercent {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"error correction percent %.1f outside [%d, %d]",
			percent, MinErrorCorrectionPercent, MaxErrorCorrectionPercent)
	}

	level, name, nominal := bucketLevel(percent)

	q, err := qrcode.New(payload, level)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncodingCapacity, err,
			"payload of %d bytes cannot be encoded at level %s", len(payload), name)
	}

	// The library pads its bitmap with a quiet-zone border; strip it so the
	// matrix is exactly N x N modules.
	q.DisableBorder = true
	matrix := q.Bitmap()
	n := len(matrix)
	if n == 0 {
		return nil, errors.New(errors.ErrCodeInternal, "encoder returned empty bitmap")
	}

	return &Result{
		Matrix:       matrix,
		Size:         n,
		Level:        name,
		LevelPercent: nominal,
	}, nil
}

// bucketLevel maps a continuous percentage onto the nearest discrete level
// using fixed midpoint thresholds. Total over [7, 30]; boundaries round down
// (a threshold value selects the lower level).
func bucketLevel(percent float64) (qrcode.RecoveryLevel, string, int) {
	switch {
	case percent <= thresholdLowMedium:
		return qrcode.Low, "L", 7
	case percent <= thresholdMediumHigh:
		return qrcode.Medium, "M", 15
	case percent <= thresholdHighHighest:
		return qrcode.High, "Q", 25
	default:
		return qrcode.Highest, "H", 30
	}
}
