package senses

import (
	"errors"

	"github.com/aretw0/fernspiel/pkg/domain"
	"github.com/aretw0/fernspiel/pkg/phone"
	"github.com/aretw0/fernspiel/pkg/ports"
)

// HardwareDial reads the dial of a connected phone.
//
// The hook switch reports its position repeatedly, only changes are passed on.
type HardwareDial struct {
	phone ports.Phone
	hook  *domain.Input
}

var _ ports.Sense = (*HardwareDial)(nil)

// NewHardwareDial polls p, which is typically a shared phone.Handle.
func NewHardwareDial(p ports.Phone) *HardwareDial {
	return &HardwareDial{phone: p}
}

// Poll returns the next input. A busy device is not an error, any other
// failure is fatal.
func (h *HardwareDial) Poll() (domain.Input, error) {
	in, err := h.phone.Poll()
	if err != nil {
		if errors.Is(err, domain.ErrWouldBlock) || errors.Is(err, phone.ErrNoAck) {
			return domain.Input{}, domain.ErrWouldBlock
		}
		return domain.Input{}, domain.Fatal(err)
	}

	if in.Kind == domain.InputDigit {
		return in, nil
	}
	if h.hook != nil && *h.hook == in {
		return domain.Input{}, domain.ErrWouldBlock
	}
	h.hook = &in
	return in, nil
}
