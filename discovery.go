package teleop

import (
	"strings"

	"github.com/pkg/errors"
	"go.bug.st/serial/enumerator"
	"go.viam.com/rdk/logging"
)

// 3Dconnexion's USB vendor ID. Serial adapters that report it are preferred
// over generic candidates during discovery.
const spaceMouseVendorID = "256F"

// FindSpaceMousePort locates a serial-attached SpaceMouse. Ports carrying
// the 3Dconnexion vendor ID win; otherwise the first USB-serial candidate is
// returned so adapters with generic bridge chips still work.
func FindSpaceMousePort(logger logging.Logger) (string, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return "", errors.Wrap(err, "failed to enumerate serial ports")
	}

	var names []string
	for _, d := range details {
		names = append(names, d.Name)
		if d.IsUSB && strings.EqualFold(d.VID, spaceMouseVendorID) {
			logger.Infof("found SpaceMouse on %s (VID %s, PID %s)", d.Name, d.VID, d.PID)
			return d.Name, nil
		}
	}

	candidates := filterCandidatePorts(names)
	if len(candidates) == 0 {
		return "", errors.New("no SpaceMouse found: no candidate serial ports present")
	}

	logger.Infof("no port with the 3Dconnexion vendor ID, trying first candidate %s", candidates[0])
	return candidates[0], nil
}

// filterCandidatePorts keeps the ports that look like USB-serial devices.
func filterCandidatePorts(ports []string) []string {
	candidates := []string{}
	for _, port := range ports {
		if isCandidatePort(port) {
			candidates = append(candidates, port)
		}
	}
	return candidates
}

// isCandidatePort checks if a port matches USB-serial naming patterns.
func isCandidatePort(port string) bool {
	// Linux: /dev/ttyUSB*, /dev/ttyACM*
	if strings.HasPrefix(port, "/dev/ttyUSB") || strings.HasPrefix(port, "/dev/ttyACM") {
		return true
	}
	// macOS: /dev/tty.usbmodem*, /dev/tty.usbserial*, /dev/cu.usbmodem*, /dev/cu.usbserial*
	if strings.HasPrefix(port, "/dev/tty.usb") || strings.HasPrefix(port, "/dev/cu.usb") {
		return true
	}
	// Windows: COM*
	if strings.HasPrefix(port, "COM") {
		return true
	}
	return false
}
