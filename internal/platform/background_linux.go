//go:build linux

package platform

import (
	"fmt"
	"os/exec"
	"strings"
)

const gnomeBackgroundSchema = "org.gnome.desktop.background"

// linuxController drives GNOME via gsettings. Other desktop environments
// report no current background, which disables manual-change detection.
type linuxController struct{}

func newController() BackgroundController {
	return &linuxController{}
}

func (c *linuxController) Set(path string) error {
	uri := "file://" + path
	for _, key := range []string{"picture-uri", "picture-uri-dark"} {
		cmd := exec.Command("gsettings", "set", gnomeBackgroundSchema, key, uri)
		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("gsettings set %s: %w: %s", key, err, strings.TrimSpace(string(out)))
		}
	}
	return nil
}

func (c *linuxController) Current() (string, bool) {
	out, err := exec.Command("gsettings", "get", gnomeBackgroundSchema, "picture-uri").Output()
	if err != nil {
		return "", false
	}
	uri := strings.Trim(strings.TrimSpace(string(out)), "'\"")
	uri = strings.TrimPrefix(uri, "file://")
	if uri == "" {
		return "", false
	}
	return uri, true
}
