//go:build !windows && !linux

package platform

import "errors"

type unsupportedController struct{}

func newController() BackgroundController {
	return &unsupportedController{}
}

func (c *unsupportedController) Set(string) error {
	return errors.New("setting the background is not supported on this platform")
}

func (c *unsupportedController) Current() (string, bool) {
	return "", false
}
