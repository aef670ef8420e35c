//go:build !linux

package i2c

import (
	"fmt"
	"runtime"

	"github.com/aretw0/fernspiel/pkg/domain"
)

// Bus is unavailable outside of linux.
type Bus struct{}

// Open always fails on this platform.
func Open(path string, addr int) (*Bus, error) {
	return nil, fmt.Errorf("%w: i2c is not supported on %s", domain.ErrNoPhone, runtime.GOOS)
}

func (b *Bus) ReadRegister(reg byte) (byte, error) {
	return 0, domain.ErrNoPhone
}

func (b *Bus) Close() error { return nil }
