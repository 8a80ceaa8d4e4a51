package core

// Logger is the sink for one-shot diagnostics raised by the recoverable error
// path (degenerate transforms, NaNs surfacing out of a BSDF, etc). Fatal
// conditions are latched by the frame loop instead of logged here.
type Logger interface {
	Printf(format string, args ...interface{})
}

// RT-wide clamps. These bound the values the integrators are allowed to
// produce so that a single bad sample can't poison a progressive average.
const (
	// MaxAllowedRadiance is the componentwise cap PathTracingIntegrator applies
	// to each radiance contribution to suppress fireflies.
	MaxAllowedRadiance = 1000.0
	// MaxTraceDistance is the maximum parametric length of any ray cast into the scene.
	MaxTraceDistance = 1000.0
	// TraceOffset is the minimum ray-origin epsilon added along the geometric
	// normal to avoid self-intersection; the per-hit error estimate can push
	// the effective offset higher (see Interaction.TraceErrorOffset).
	TraceOffset = 1e-4
)
