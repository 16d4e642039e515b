package velodyne

import "fmt"

// FiringFormat names one of the four (return-mode × beam-count)
// variants that the decode pipeline supports.
type FiringFormat uint8

const (
	Single16 FiringFormat = iota
	Single32
	Dual16
	Dual32
)

func (f FiringFormat) String() string {
	switch f {
	case Single16:
		return "Single16"
	case Single32:
		return "Single32"
	case Dual16:
		return "Dual16"
	case Dual32:
		return "Dual32"
	default:
		return fmt.Sprintf("FiringFormat(%d)", uint8(f))
	}
}

// FiringCount is the number of firings a single packet yields for this
// format.
func (f FiringFormat) FiringCount() int {
	switch f {
	case Single16:
		return 24
	case Single32:
		return 12
	case Dual16:
		return 12
	case Dual32:
		return 6
	default:
		return 0
	}
}

func firingFormatOf(mode ReturnMode, beamCount int) FiringFormat {
	dual := mode == ReturnDual
	switch {
	case !dual && beamCount == 16:
		return Single16
	case !dual && beamCount == 32:
		return Single32
	case dual && beamCount == 16:
		return Dual16
	case dual && beamCount == 32:
		return Dual32
	default:
		return Single16
	}
}

// FormatKind is the tagged union used uniformly across firings,
// projected firings, frames, and converters to carry exactly one of the
// four (Single16, Single32, Dual16, Dual32) variants at runtime.
// Only the top-level entry point (the dispatch functions in
// firing.go/convert.go/frame.go) matches on Format(); everything
// downstream operates on the concrete payload for its own variant.
type FormatKind[S16, S32, D16, D32 any] struct {
	format FiringFormat
	s16    S16
	s32    S32
	d16    D16
	d32    D32
}

func NewSingle16[S16, S32, D16, D32 any](v S16) FormatKind[S16, S32, D16, D32] {
	return FormatKind[S16, S32, D16, D32]{format: Single16, s16: v}
}

func NewSingle32[S16, S32, D16, D32 any](v S32) FormatKind[S16, S32, D16, D32] {
	return FormatKind[S16, S32, D16, D32]{format: Single32, s32: v}
}

func NewDual16[S16, S32, D16, D32 any](v D16) FormatKind[S16, S32, D16, D32] {
	return FormatKind[S16, S32, D16, D32]{format: Dual16, d16: v}
}

func NewDual32[S16, S32, D16, D32 any](v D32) FormatKind[S16, S32, D16, D32] {
	return FormatKind[S16, S32, D16, D32]{format: Dual32, d32: v}
}

// Format reports which variant is carried.
func (k FormatKind[S16, S32, D16, D32]) Format() FiringFormat { return k.format }

// AsSingle16 returns the carried value and true if Format() == Single16.
func (k FormatKind[S16, S32, D16, D32]) AsSingle16() (S16, bool) {
	return k.s16, k.format == Single16
}

// AsSingle32 returns the carried value and true if Format() == Single32.
func (k FormatKind[S16, S32, D16, D32]) AsSingle32() (S32, bool) {
	return k.s32, k.format == Single32
}

// AsDual16 returns the carried value and true if Format() == Dual16.
func (k FormatKind[S16, S32, D16, D32]) AsDual16() (D16, bool) {
	return k.d16, k.format == Dual16
}

// AsDual32 returns the carried value and true if Format() == Dual32.
func (k FormatKind[S16, S32, D16, D32]) AsDual32() (D32, bool) {
	return k.d32, k.format == Dual32
}
