package cdtv

// Code is one 12-bit command as transmitted on the infrared link. Zero
// means "no input" and is never transmitted.
type Code uint16

// Device class selectors. Direction and button inputs carry the class
// of the originating device in the top bits; active inputs are
// individual bits below.
const (
	ClassMouse Code = 0x800
	ClassJoy   Code = 0x400

	// classPanel carries the discrete keypad and transport buttons.
	classPanel = ClassMouse | ClassJoy
)

// Input bits, valid with ClassMouse or ClassJoy.
const (
	BitButtonA Code = 0x001
	BitButtonB Code = 0x002
	BitUp      Code = 0x004
	BitDown    Code = 0x008
	BitLeft    Code = 0x010
	BitRight   Code = 0x020
)

// Keypad buttons.
const (
	Key1 Code = classPanel | (iota + 1)
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	Key0
	KeyEscape
	KeyEnter
)

// Transport controls.
const (
	KeyGenlock Code = classPanel | (0x10 + iota)
	KeyCDTV
	KeyPower
	KeyRewind
	KeyPlayPause
	KeyStop
	KeyForward
	KeyVolumeUp
	KeyVolumeDown
)

// Names maps the symbolic button names accepted by the CLI to their
// codes.
var Names = map[string]Code{
	"1":        Key1,
	"2":        Key2,
	"3":        Key3,
	"4":        Key4,
	"5":        Key5,
	"6":        Key6,
	"7":        Key7,
	"8":        Key8,
	"9":        Key9,
	"0":        Key0,
	"escape":   KeyEscape,
	"enter":    KeyEnter,
	"genlock":  KeyGenlock,
	"cdtv":     KeyCDTV,
	"power":    KeyPower,
	"rew":      KeyRewind,
	"play":     KeyPlayPause,
	"stop":     KeyStop,
	"ff":       KeyForward,
	"vol-up":   KeyVolumeUp,
	"vol-down": KeyVolumeDown,
}
