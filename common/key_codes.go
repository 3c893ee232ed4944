package common

// Virtual key codes delivered to window key callbacks.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW            = 87 // W key (ASCII)
	KeyA            = 65 // A key (ASCII)
	KeyS            = 83 // S key (ASCII)
	KeyD            = 68 // D key (ASCII)
	KeyG            = 71 // G key (ASCII)
	KeyP            = 80 // P key (ASCII)
	KeyR            = 82 // R key (ASCII)
	KeyV            = 86 // V key (ASCII)
	KeySpace        = 32 // Spacebar (ASCII)
	KeyMinus        = 45 // - key (ASCII)
	KeyEqual        = 61 // = / + key (ASCII)
	KeyLeftBracket  = 91 // [ key (ASCII)
	KeyRightBracket = 93 // ] key (ASCII)
)

// Non-printable keys (GLFW)
const (
	KeyRight      = 262
	KeyLeft       = 263
	KeyDown       = 264
	KeyUp         = 265
	KeyKPSubtract = 333
	KeyKPAdd      = 334
)

// Mouse buttons (GLFW)
const (
	MouseButtonLeft   = 0
	MouseButtonRight  = 1
	MouseButtonMiddle = 2
)
