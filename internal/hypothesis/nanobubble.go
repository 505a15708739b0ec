package hypothesis

import (
	"log/slog"

	"github.com/san-kum/kppsim/internal/simerr"
)

// MaxVoidFraction is the upper end of the range the linear mixture-density
// model is used for. It is a first-order approximation, not validated
// against two-phase flow data.
const MaxVoidFraction = 0.4

// H1 holds the nanobubble coefficients.
type H1 struct {
	Enabled       bool
	VoidFraction  float64
	DragReduction float64
}

// ApplyH1 returns the effective water density and drag coefficient seen by
// a descending floater. Disabled, it is the identity regardless of the
// coefficients.
func ApplyH1(baseDensity, baseDragCoeff float64, h H1) (density, dragCoeff float64, err error) {
	if !h.Enabled {
		return baseDensity, baseDragCoeff, nil
	}

	phi := h.VoidFraction
	if phi < 0 || phi >= 1 {
		return 0, 0, simerr.NewConfigError("h1.void_fraction", "in [0, 1)", phi)
	}
	if h.DragReduction < 0 || h.DragReduction >= 1 {
		return 0, 0, simerr.NewConfigError("h1.drag_reduction", "in [0, 1)", h.DragReduction)
	}
	if phi > MaxVoidFraction {
		slog.Warn("void fraction outside linear mixture model, clamping",
			"void_fraction", phi, "max", MaxVoidFraction)
		phi = MaxVoidFraction
	}

	density = baseDensity * (1 - phi)
	dragCoeff = baseDragCoeff * (1 - h.DragReduction)
	return density, dragCoeff, nil
}
