package acts_test

import (
	"errors"
	"sync"
	"time"

	"github.com/aretw0/fernspiel/pkg/adapters/audio"
	"github.com/aretw0/fernspiel/pkg/domain"
	"github.com/aretw0/fernspiel/pkg/domain/domaintest"
	"github.com/aretw0/fernspiel/pkg/ports"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// fakePhone counts bell operations.
type fakePhone struct {
	mu        sync.Mutex
	ringing   bool
	rings     int
	unrings   int
	failRing  error
	failUnrng error
}

func (p *fakePhone) Poll() (domain.Input, error) {
	return domain.Input{}, domain.ErrWouldBlock
}

func (p *fakePhone) Ring() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failRing != nil {
		return p.failRing
	}
	p.rings++
	p.ringing = true
	return nil
}

func (p *fakePhone) Unring() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.unrings++
	if p.failUnrng != nil {
		return p.failUnrng
	}
	p.ringing = false
	return nil
}

func (p *fakePhone) isRinging() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ringing
}

// fakeVoice records what was said. Utterances finish when finish is called.
type fakeVoice struct {
	said       []string
	utterances []*fakeUtterance
	err        error
}

func (v *fakeVoice) Speak(text string) (ports.Utterance, error) {
	if v.err != nil {
		return nil, v.err
	}
	v.said = append(v.said, text)
	u := &fakeUtterance{}
	v.utterances = append(v.utterances, u)
	return u, nil
}

type fakeUtterance struct {
	done      bool
	cancelled bool
}

func (u *fakeUtterance) Done() (bool, error) { return u.done || u.cancelled, nil }
func (u *fakeUtterance) Cancel() error {
	u.cancelled = true
	return nil
}

// timelineFactory opens silent timelines with durations looked up by source.
type timelineFactory struct {
	clock     *domaintest.FakeClock
	durations map[string]time.Duration
	opened    []*audio.Timeline
}

func (f *timelineFactory) Open(spec domain.SoundSpec) (ports.Player, error) {
	d, ok := f.durations[spec.Source]
	if !ok {
		return nil, errors.New("no such file: " + spec.Source)
	}
	tl := audio.NewTimeline(d, f.clock)
	f.opened = append(f.opened, tl)
	return tl, nil
}

func playing(p ports.Player) bool {
	ok, _ := p.Playing()
	return ok
}
