// Package connectivity exposes a boolean online signal the orchestrator
// samples before attempting generation.
package connectivity

import (
	"context"
	"net"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Monitor reports whether the generation endpoint is believed reachable.
type Monitor interface {
	IsOnline() bool
}

// Static is a fixed-value monitor, used by tests and by deployments that
// disable probing.
type Static bool

func (s Static) IsOnline() bool { return bool(s) }

// Prober checks reachability of a host on an interval and caches the result
// in an atomic flag. It starts optimistic: until the first probe completes
// the signal reads online so startup never spuriously degrades to fallback.
type Prober struct {
	addr     string
	interval time.Duration
	online   atomic.Bool
	log      zerolog.Logger
}

// NewProber builds a prober for the given base URL (scheme://host[:port]).
// Call Start to begin probing.
func NewProber(baseURL string, interval time.Duration, log zerolog.Logger) (*Prober, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	host := u.Host
	if u.Port() == "" {
		switch u.Scheme {
		case "http":
			host = net.JoinHostPort(u.Hostname(), "80")
		default:
			host = net.JoinHostPort(u.Hostname(), "443")
		}
	}
	p := &Prober{addr: host, interval: interval, log: log}
	p.online.Store(true)
	return p, nil
}

// IsOnline reports the most recent probe result.
func (p *Prober) IsOnline() bool { return p.online.Load() }

// Start launches the background probe loop; it stops when ctx is cancelled.
func (p *Prober) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		p.probe()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.probe()
			}
		}
	}()
}

func (p *Prober) probe() {
	conn, err := net.DialTimeout("tcp", p.addr, 3*time.Second)
	if err != nil {
		if p.online.Swap(false) {
			p.log.Warn().Str("addr", p.addr).Err(err).Msg("connectivity lost")
		}
		return
	}
	_ = conn.Close()
	if !p.online.Swap(true) {
		p.log.Info().Str("addr", p.addr).Msg("connectivity restored")
	}
}
