package velodyne

import (
	"fmt"
	"iter"
)

// AzimuthRanger is the constraint the batcher depends on: anything with
// a well-defined start azimuth can be batched into frames. Firing and
// FiringXyz both satisfy it through FormatKind's StartAzimuth method.
type AzimuthRanger interface {
	StartAzimuth() float64
}

// StartAzimuth dispatches to the carried variant's StartAzimuth method.
// It is only meaningful for instantiations of FormatKind whose variant
// types are themselves azimuth-bearing (Firing, FiringXyz, FrameXyz);
// Converter instantiations never call it.
func (k FormatKind[S16, S32, D16, D32]) StartAzimuth() float64 {
	switch k.format {
	case Single16:
		return any(k.s16).(AzimuthRanger).StartAzimuth()
	case Single32:
		return any(k.s32).(AzimuthRanger).StartAzimuth()
	case Dual16:
		return any(k.d16).(AzimuthRanger).StartAzimuth()
	default:
		return any(k.d32).(AzimuthRanger).StartAzimuth()
	}
}

// Batcher groups a lazy sequence of azimuth-bearing values into frames
// by detecting azimuth wrap-around. It owns its buffer
// exclusively and is not safe for concurrent use; independent streams
// each get their own Batcher.
type Batcher[E AzimuthRanger] struct {
	buffer []E
}

// NewBatcher creates an empty batcher.
func NewBatcher[E AzimuthRanger]() *Batcher[E] {
	return &Batcher[E]{}
}

// PushOne feeds one value into the current frame. If the new value's
// start azimuth is strictly less than the buffer's last start azimuth,
// a new revolution has started: the buffer is emitted as a completed
// frame and replaced with a new buffer containing only e. The wrap test
// is strict '<': an equal start azimuth does not close a frame.
func (b *Batcher[E]) PushOne(e E) (frame []E, complete bool) {
	if len(b.buffer) > 0 && e.StartAzimuth() < b.buffer[len(b.buffer)-1].StartAzimuth() {
		frame = b.buffer
		b.buffer = []E{e}
		return frame, true
	}
	b.buffer = append(b.buffer, e)
	return nil, false
}

// Flush returns and clears the current buffer if non-empty. Callers
// must flush at end-of-stream to retrieve the final, possibly partial,
// frame.
func (b *Batcher[E]) Flush() (frame []E, ok bool) {
	if len(b.buffer) == 0 {
		return nil, false
	}
	frame = b.buffer
	b.buffer = nil
	return frame, true
}

// BatchSeq adapts a Batcher into a pull-based iterator: it yields each
// completed frame as soon as a wrap is detected, then the flushed
// remainder once in is exhausted.
func BatchSeq[E AzimuthRanger](in iter.Seq[E]) iter.Seq[[]E] {
	return func(yield func([]E) bool) {
		b := NewBatcher[E]()
		for e := range in {
			if frame, complete := b.PushOne(e); complete {
				if !yield(frame) {
					return
				}
			}
		}
		if frame, ok := b.Flush(); ok {
			yield(frame)
		}
	}
}

// FrameXyzS16 is one completed Single16 revolution.
type FrameXyzS16 struct{ Firings []FiringXyzS16 }

// FrameXyzS32 is one completed Single32 revolution.
type FrameXyzS32 struct{ Firings []FiringXyzS32 }

// FrameXyzD16 is one completed Dual16 revolution.
type FrameXyzD16 struct{ Firings []FiringXyzD16 }

// FrameXyzD32 is one completed Dual32 revolution.
type FrameXyzD32 struct{ Firings []FiringXyzD32 }

// AzimuthRange spans the first firing's start to the last firing's end.
func (f FrameXyzS16) AzimuthRange() AzimuthRange {
	return AzimuthRange{Start: f.Firings[0].AzimuthRange.Start, End: f.Firings[len(f.Firings)-1].AzimuthRange.End}
}
func (f FrameXyzS32) AzimuthRange() AzimuthRange {
	return AzimuthRange{Start: f.Firings[0].AzimuthRange.Start, End: f.Firings[len(f.Firings)-1].AzimuthRange.End}
}
func (f FrameXyzD16) AzimuthRange() AzimuthRange {
	return AzimuthRange{Start: f.Firings[0].AzimuthRange.Start, End: f.Firings[len(f.Firings)-1].AzimuthRange.End}
}
func (f FrameXyzD32) AzimuthRange() AzimuthRange {
	return AzimuthRange{Start: f.Firings[0].AzimuthRange.Start, End: f.Firings[len(f.Firings)-1].AzimuthRange.End}
}

func (f FrameXyzS16) StartAzimuth() float64 { return f.AzimuthRange().Start }
func (f FrameXyzS32) StartAzimuth() float64 { return f.AzimuthRange().Start }
func (f FrameXyzD16) StartAzimuth() float64 { return f.AzimuthRange().Start }
func (f FrameXyzD32) StartAzimuth() float64 { return f.AzimuthRange().Start }

// FrameXyz is the format-polymorphic wrapper around a completed frame.
type FrameXyz = FormatKind[FrameXyzS16, FrameXyzS32, FrameXyzD16, FrameXyzD32]

// BuildFrameXyz assembles a batch of same-variant FiringXyz values (as
// produced by BatchSeq[FiringXyz]) into a tagged FrameXyz. It fails with
// ErrFormatMismatch if the batch is empty or mixes variants — a caller
// error, since a single Batcher instance only ever sees one variant.
func BuildFrameXyz(batch []FiringXyz) (FrameXyz, error) {
	if len(batch) == 0 {
		return FrameXyz{}, fmt.Errorf("%w: empty firing batch", ErrFormatMismatch)
	}
	format := batch[0].Format()

	switch format {
	case Single16:
		firings := make([]FiringXyzS16, 0, len(batch))
		for _, fx := range batch {
			v, ok := fx.AsSingle16()
			if !ok {
				return FrameXyz{}, fmt.Errorf("%w: mixed firing variants in batch", ErrFormatMismatch)
			}
			firings = append(firings, v)
		}
		return NewSingle16[FrameXyzS16, FrameXyzS32, FrameXyzD16, FrameXyzD32](FrameXyzS16{Firings: firings}), nil
	case Single32:
		firings := make([]FiringXyzS32, 0, len(batch))
		for _, fx := range batch {
			v, ok := fx.AsSingle32()
			if !ok {
				return FrameXyz{}, fmt.Errorf("%w: mixed firing variants in batch", ErrFormatMismatch)
			}
			firings = append(firings, v)
		}
		return NewSingle32[FrameXyzS16, FrameXyzS32, FrameXyzD16, FrameXyzD32](FrameXyzS32{Firings: firings}), nil
	case Dual16:
		firings := make([]FiringXyzD16, 0, len(batch))
		for _, fx := range batch {
			v, ok := fx.AsDual16()
			if !ok {
				return FrameXyz{}, fmt.Errorf("%w: mixed firing variants in batch", ErrFormatMismatch)
			}
			firings = append(firings, v)
		}
		return NewDual16[FrameXyzS16, FrameXyzS32, FrameXyzD16, FrameXyzD32](FrameXyzD16{Firings: firings}), nil
	default:
		firings := make([]FiringXyzD32, 0, len(batch))
		for _, fx := range batch {
			v, ok := fx.AsDual32()
			if !ok {
				return FrameXyz{}, fmt.Errorf("%w: mixed firing variants in batch", ErrFormatMismatch)
			}
			firings = append(firings, v)
		}
		return NewDual32[FrameXyzS16, FrameXyzS32, FrameXyzD16, FrameXyzD32](FrameXyzD32{Firings: firings}), nil
	}
}

// PacketToFrameXyzSeq is the full packet-to-frames pipeline: it extracts
// firings from each packet, projects them through conv, batches them by
// azimuth wrap, and yields completed FrameXyz values as they close.
// A firing/converter variant
// mismatch ends the sequence without yielding any further frame; the
// error is stored in *errOut when errOut is non-nil.
func PacketToFrameXyzSeq(packets iter.Seq[*Packet], conv ConverterKind, errOut *error) iter.Seq[FrameXyz] {
	return func(yield func(FrameXyz) bool) {
		batcher := NewBatcher[FiringXyz]()
		for pkt := range packets {
			for _, firing := range ExtractFirings(pkt) {
				fx, err := ConvertFiring(conv, firing)
				if err != nil {
					if errOut != nil {
						*errOut = err
					}
					return
				}
				if batch, complete := batcher.PushOne(fx); complete {
					frame, err := BuildFrameXyz(batch)
					if err != nil {
						if errOut != nil {
							*errOut = err
						}
						return
					}
					if !yield(frame) {
						return
					}
				}
			}
		}
		if batch, ok := batcher.Flush(); ok {
			frame, err := BuildFrameXyz(batch)
			if err != nil {
				if errOut != nil {
					*errOut = err
				}
				return
			}
			yield(frame)
		}
	}
}
