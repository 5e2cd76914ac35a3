package platform

// BackgroundController abstracts the OS wallpaper primitives. The rotation
// engine never branches on the platform; each target OS provides its own
// implementation behind this interface.
type BackgroundController interface {
	// Current returns the path of the currently displayed background.
	// ok is false when the platform cannot report it; callers must then
	// skip manual-change detection rather than fail.
	Current() (path string, ok bool)

	Set(path string) error
}

func NewBackgroundController() BackgroundController {
	return newController()
}
