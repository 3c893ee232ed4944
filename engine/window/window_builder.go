package window

// WindowBuilderOption configures a Window in NewWindow.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the title bar text.
//
// Parameters:
//   - title: the window title
//
// Returns:
//   - WindowBuilderOption: the option
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithSize sets the initial client size. Non-positive sizes keep the default of 1280x720.
//
// Parameters:
//   - width: the width in pixels
//   - height: the height in pixels
//
// Returns:
//   - WindowBuilderOption: the option
func WithSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		if width > 0 && height > 0 {
			w.size = Size{Width: width, Height: height}
		}
	}
}

// WithSizeLimits replaces the default minimum of 320x240 and no maximum. The initial size
// is clamped to the limits.
//
// Parameters:
//   - limits: the limits, zero components are unbounded
//
// Returns:
//   - WindowBuilderOption: the option
func WithSizeLimits(limits SizeLimits) WindowBuilderOption {
	return func(w *engineWindow) {
		w.limits = limits
	}
}

// WithResizable controls whether the user can resize the window.
//
// Parameters:
//   - resizable: false for a fixed size window
//
// Returns:
//   - WindowBuilderOption: the option
func WithResizable(resizable bool) WindowBuilderOption {
	return func(w *engineWindow) {
		w.resizable = resizable
	}
}

// WithCloseKey sets the key that closes the window, Escape by default. 0 disables it, leaving
// every key to the key callbacks.
//
// Parameters:
//   - keyCode: the key code (common.Key*), or 0
//
// Returns:
//   - WindowBuilderOption: the option
func WithCloseKey(keyCode uint32) WindowBuilderOption {
	return func(w *engineWindow) {
		w.closeKey = keyCode
	}
}
