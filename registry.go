package teleop

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.viam.com/rdk/logging"
)

// DeviceOptions carries the startup parameters a device factory may need.
type DeviceOptions struct {
	// Port is the serial port for wire-attached devices. When empty the
	// factory runs discovery.
	Port string

	Tuning DeviceTuning
}

// DeviceFactory constructs a device from its options.
type DeviceFactory func(opts DeviceOptions, logger logging.Logger) (Device, error)

var (
	deviceMu        sync.RWMutex
	deviceFactories = map[string]DeviceFactory{}
)

func init() {
	RegisterDevice("keyboard", func(opts DeviceOptions, logger logging.Logger) (Device, error) {
		return newKeyboardDevice(opts.Tuning, logger), nil
	})
	RegisterDevice("spacemouse", func(opts DeviceOptions, logger logging.Logger) (Device, error) {
		port := opts.Port
		if port == "" {
			found, err := FindSpaceMousePort(logger)
			if err != nil {
				return nil, err
			}
			port = found
		}
		return newSpaceMouseDevice(port, opts.Tuning, logger), nil
	})
}

// RegisterDevice makes a device constructor available under a CLI name.
// Registering the same name twice panics, matching the behavior of other
// init-time registries.
func RegisterDevice(name string, factory DeviceFactory) {
	deviceMu.Lock()
	defer deviceMu.Unlock()
	if _, exists := deviceFactories[name]; exists {
		panic(fmt.Sprintf("device %q registered twice", name))
	}
	deviceFactories[name] = factory
}

// NewDevice builds the named device. An unknown name is a startup-time fatal
// condition for the caller; the error lists what is available.
func NewDevice(name string, opts DeviceOptions, logger logging.Logger) (Device, error) {
	deviceMu.RLock()
	factory, ok := deviceFactories[name]
	deviceMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("invalid device choice %q: choose one of %s",
			name, strings.Join(RegisteredDevices(), ", "))
	}
	return factory(opts, logger)
}

// RegisteredDevices returns the known device names in stable order.
func RegisteredDevices() []string {
	deviceMu.RLock()
	defer deviceMu.RUnlock()
	names := make([]string, 0, len(deviceFactories))
	for name := range deviceFactories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
