package input

// Related things to separate handlers that comes from /proc/bus/input/devices

import (
	"fmt"
	"strings"
)

// DeviceInfo contains information of every reported event device
// it is supposed to be created by unmarshal function only
type DeviceInfo struct {
	ID       InputID // ID of the device
	Name     string  // name of the device
	Phys     string  // physical path to the device in the system hierarchy
	Sysfs    string  // sysfs path
	Uniq     string  // unique identification code for the device (if device has it)
	Handlers []string // list of input handles associated with the device
}

type InputID struct {
	Bus     uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

// Event returns event name, like "event0" for /dev/input/event0
func (d *DeviceInfo) Event() string {
	for _, handler := range d.Handlers {
		if strings.HasPrefix(handler, "event") {
			return handler
		}
	}
	return ""
}

// EventPath returns a /dev/input/event filepath for button presses
func (d *DeviceInfo) EventPath() string {
	event := d.Event()
	if event == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s", inputDir, event)
}

func (d *DeviceInfo) String() string {
	return fmt.Sprintf(
		"\"%s\" (%s, 0x%04x, 0x%04x, 0x%04x, 0x%04x)",
		d.Name, d.Event(), d.ID.Bus, d.ID.Vendor, d.ID.Product, d.ID.Version,
	)
}
