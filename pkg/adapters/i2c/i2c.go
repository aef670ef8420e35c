// Package i2c opens the SMBus character device the phone is attached to.
package i2c

import "github.com/aretw0/fernspiel/pkg/phone"

// OpenPhone opens the bus device at path and addresses the phone at addr.
func OpenPhone(path string, addr int, opts ...phone.Option) (*phone.Phone, error) {
	bus, err := Open(path, addr)
	if err != nil {
		return nil, err
	}
	return phone.New(bus, opts...), nil
}
