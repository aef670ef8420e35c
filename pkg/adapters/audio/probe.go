package audio

import (
	"context"
	"time"
)

const probeTimeout = 5 * time.Second

func probeContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), probeTimeout)
}
