package tintin

import (
	"fmt"
	"path/filepath"
	"strings"

	usb "github.com/kevmo314/go-usb"
	"golang.org/x/sys/unix"
)

var _ Device = (*Handle)(nil)

// OpenPath opens a usbfs node such as /dev/bus/usb/001/004, for callers that
// were handed a path or fd by a permission broker instead of enumerating.
func OpenPath(path string) (*Handle, error) {
	if !strings.HasPrefix(filepath.Clean(path), "/dev/bus/usb/") {
		return nil, fmt.Errorf("%q is not a usbfs device path", path)
	}
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	handle, err := usb.WrapSysDevice(fd)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("wrap %s: %w", path, err)
	}
	return &Handle{DeviceHandle: handle}, nil
}
