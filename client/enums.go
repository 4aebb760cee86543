package wl

// ShmFormat names a pixel format a wl_shm_pool buffer can be created
// with. The numeric values match the wire values the compositor
// reports via wl_shm.format; only the two formats deedles.dev/ximage
// knows how to wrap as a draw.Image are given names here.
type ShmFormat uint32

const (
	ShmFormatARGB8888 ShmFormat = 0
	ShmFormatXRGB8888 ShmFormat = 1
)

func (f ShmFormat) String() string {
	switch f {
	case ShmFormatARGB8888:
		return "argb8888"
	case ShmFormatXRGB8888:
		return "xrgb8888"
	default:
		return "unknown"
	}
}

// OutputTransform describes the transform a compositor applies to
// content destined for an output, as reported by wl_output.geometry.
type OutputTransform int32

const (
	OutputTransformNormal OutputTransform = iota
	OutputTransform90
	OutputTransform180
	OutputTransform270
	OutputTransformFlipped
	OutputTransformFlipped90
	OutputTransformFlipped180
	OutputTransformFlipped270
)

// OutputMode is the bitfield reported alongside an output's
// resolution and refresh rate by wl_output.mode.
type OutputMode uint32

const (
	OutputModeCurrent OutputMode = 1 << iota
	OutputModePreferred
)

// SeatCapability is the bitfield reported by wl_seat.capabilities,
// naming the input devices a seat currently exposes.
type SeatCapability uint32

const (
	SeatCapabilityPointer SeatCapability = 1 << iota
	SeatCapabilityKeyboard
	SeatCapabilityTouch
)

func (c SeatCapability) Has(cap SeatCapability) bool {
	return c&cap == cap
}

// PointerButtonState is the uint argument of wl_pointer.button.
type PointerButtonState uint32

const (
	PointerButtonStateReleased PointerButtonState = iota
	PointerButtonStatePressed
)

// PointerAxis distinguishes scroll axes reported by wl_pointer.axis.
type PointerAxis uint32

const (
	PointerAxisVerticalScroll PointerAxis = iota
	PointerAxisHorizontalScroll
)

// PointerAxisSource names the input device class that generated an
// axis event, reported by wl_pointer.axis_source.
type PointerAxisSource uint32

const (
	PointerAxisSourceWheel PointerAxisSource = iota
	PointerAxisSourceFinger
	PointerAxisSourceContinuous
	PointerAxisSourceWheelTilt
)

// KeyboardKeymapFormat names the encoding of the keymap handed over
// wl_keyboard.keymap's file descriptor.
type KeyboardKeymapFormat uint32

const (
	KeyboardKeymapFormatNoKeymap KeyboardKeymapFormat = iota
	KeyboardKeymapFormatXKBV1
)

// KeyState is the uint argument of wl_keyboard.key.
type KeyState uint32

const (
	KeyStateReleased KeyState = iota
	KeyStatePressed
)
