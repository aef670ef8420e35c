//go:build linux

package i2c

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	ioctlSlave = 0x0703
	ioctlSMBus = 0x0720

	smbusRead     = 1
	smbusByteData = 2
)

// smbusIoctlData mirrors struct i2c_smbus_ioctl_data.
type smbusIoctlData struct {
	readWrite uint8
	command   uint8
	size      uint32
	data      *[34]byte
}

// Bus is an opened SMBus device addressing a single slave.
type Bus struct {
	f *os.File
}

// Open opens the device at path and selects the slave at addr.
func Open(path string, addr int) (*Bus, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	if err := unix.IoctlSetInt(int(f.Fd()), ioctlSlave, addr); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to address device %d on %s: %w", addr, path, err)
	}
	return &Bus{f: f}, nil
}

// ReadRegister performs an SMBus read byte data transfer.
// Errno values are returned unwrapped so callers can detect retryable ones.
func (b *Bus) ReadRegister(reg byte) (byte, error) {
	var data [34]byte
	args := smbusIoctlData{
		readWrite: smbusRead,
		command:   reg,
		size:      smbusByteData,
		data:      &data,
	}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, b.f.Fd(), ioctlSMBus, uintptr(unsafe.Pointer(&args)))
	if errno != 0 {
		return 0, errno
	}
	return data[0], nil
}

// Close closes the device.
func (b *Bus) Close() error {
	return b.f.Close()
}
