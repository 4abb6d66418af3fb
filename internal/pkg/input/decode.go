package input

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"
	"reflect"
	"strings"
)

const procDevices = "/proc/bus/input/devices"

// GetHandlers returns a list of available input handlers in the system.
func GetHandlers() ([]DeviceInfo, error) {
	data, err := os.ReadFile(procDevices)
	if err != nil {
		return nil, err
	}

	di, err := unmarshal(data)
	if err != nil {
		return nil, err
	}

	return di, nil
}

// FindHandler returns the first handler with exactly matching name
func FindHandler(name string) (DeviceInfo, error) {
	handlers, err := GetHandlers()
	if err != nil {
		return DeviceInfo{}, fmt.Errorf("reading input handlers failed: %w", err)
	}
	return findHandler(handlers, name)
}

func findHandler(handlers []DeviceInfo, name string) (DeviceInfo, error) {
	for _, h := range handlers {
		if h.Name == name && h.Event() != "" {
			return h, nil
		}
	}
	return DeviceInfo{}, fmt.Errorf("%w: \"%s\"", ErrNotFound, name)
}

// unmarshal parses /proc/bus/input/devices file
func unmarshal(data []byte) ([]DeviceInfo, error) {
	var devices = make([]DeviceInfo, 0)

	if len(data) == 0 {
		return devices, nil
	}

	var device DeviceInfo
	var pending bool

	for _, line := range strings.Split(string(data), "\n") {
		if line == "" {
			if pending {
				devices = append(devices, device)
				device = DeviceInfo{}
				pending = false
			}
			continue
		}
		if len(line) < 3 {
			return devices, fmt.Errorf("malformed line: \"%s\"", line)
		}
		pending = true

		label := line[:1]
		info := line[3:]

		switch label {
		case "I":
			ps := reflect.ValueOf(&device.ID)
			s := ps.Elem()

			for _, param := range strings.Split(info, " ") {
				fields := strings.Split(param, "=")
				if len(fields) != 2 {
					return devices, fmt.Errorf("malformed id field: \"%s\"", param)
				}
				l, v := fields[0], fields[1]
				f := s.FieldByName(l)
				if !f.IsValid() {
					continue
				}

				hv, err := hex.DecodeString(v)
				if err != nil {
					return devices, fmt.Errorf("hex decoding failed: %v", err)
				}
				if len(hv) != 2 {
					return devices, fmt.Errorf("unexpected id length: \"%s\"", v)
				}
				uv := binary.BigEndian.Uint16(hv)

				f.SetUint(uint64(uv))
			}
		case "N":
			device.Name = strings.Trim(strings.TrimPrefix(info, "Name="), "\"")
		case "P":
			device.Phys = strings.TrimPrefix(info, "Phys=")
		case "S":
			device.Sysfs = strings.TrimPrefix(info, "Sysfs=")
		case "U":
			device.Uniq = strings.TrimPrefix(info, "Uniq=")
		case "H":
			// If there is at least one handler, there is additional space at the end of the line
			handlersChain := strings.TrimPrefix(info, "Handlers=")
			trimmed := strings.TrimRight(handlersChain, " ")
			device.Handlers = strings.Split(trimmed, " ")
		}
	}
	if pending {
		devices = append(devices, device)
	}

	return devices, nil
}
