package domain

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type Span struct {
	Name    string    `json:"name"`
	startTs time.Time `json:"-"`

	Elapsed *int64 `json:"elapsed"`
}

type contextKey string

const ContextProfileKey contextKey = "performanceProfile"

// GetProfile returns the request profile stored in ctx. callers outside
// of a request (cli, cron) get a throwaway profile so spans can always be
// recorded
func GetProfile(ctx context.Context) (profile *Profile, endProfile func()) {
	profile, ok := ctx.Value(ContextProfileKey).(*Profile)
	if !ok || profile == nil {
		return NewProfile()
	}
	return profile, profile.End
}

// Profile is simply a list of spans
type Profile struct {
	mu      sync.Mutex
	Spans   []*Span
	startTs time.Time
	TotalMs *int64
}

func (p *Profile) End() {
	p.mu.Lock()
	defer p.mu.Unlock()
	t := time.Since(p.startTs).Milliseconds()
	if p.TotalMs == nil {
		p.TotalMs = &t
	}
}

func (s *Span) End() {
	if s.Elapsed == nil {
		t := time.Since(s.startTs).Milliseconds()
		s.Elapsed = &t
	}
}

func NewProfile() (newProfile *Profile, endNewProfile func()) {
	newProfile = &Profile{
		Spans:   []*Span{},
		startTs: time.Now(),
	}

	return newProfile, newProfile.End
}

func NewCtxWithProfile(ctx context.Context) (context.Context, *Profile) {
	profile, _ := NewProfile()
	return context.WithValue(ctx, ContextProfileKey, profile), profile
}

// StartSpan begins a span without ending the previous one, so it is
// safe to use from the goroutine running a shared fetch
func (p *Profile) StartSpan(name string) (newSpan *Span, endSpan func()) {
	newSpan = &Span{
		Name:    name,
		startTs: time.Now(),
	}
	p.mu.Lock()
	p.Spans = append(p.Spans, newSpan)
	p.mu.Unlock()

	return newSpan, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		newSpan.End()
	}
}

func (p *Profile) SpanNames() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.Spans))
	for _, s := range p.Spans {
		out = append(out, s.Name)
	}
	return out
}

func (p *Profile) ToJsonBytes() ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	bytes, err := json.Marshal(p.Spans)
	if err != nil {
		return nil, err
	}
	return bytes, nil
}
