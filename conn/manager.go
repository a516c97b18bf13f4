// Package conn owns the lifecycle of the process-wide Redis client: lazy
// one-time construction, an observable connection state machine, and a
// bounded reconnect probe. The facade asks it for the client and never
// learns about connection failures directly; those surface asynchronously
// as state transitions and, ultimately, as fast-failing operations that
// the facade absorbs.
package conn

import (
	"context"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/civiclens/issuecache"
)

// Manager constructs exactly one Redis client per process, on first use.
// Build one at the composition root and hand it to whoever needs the
// client; do not create more than one per backend.
type Manager struct {
	cfg Config
	log issuecache.Logger

	initOnce  sync.Once
	closeOnce sync.Once

	client *goredis.Client

	mu        sync.Mutex
	state     State
	lastErr   error
	observers []func(State)

	events chan State
	stop   chan struct{}
}

// NewManager validates cfg and returns an idle manager. No connection is
// attempted until the first Client() call.
func NewManager(cfg Config, log issuecache.Logger) (*Manager, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = issuecache.NopLogger{}
	}
	return &Manager{
		cfg:    cfg,
		log:    log,
		state:  StateUninitialized,
		events: make(chan State, 16),
		stop:   make(chan struct{}),
	}, nil
}

// Client returns the shared client handle, constructing it on first call.
// It never fails synchronously: construction problems surface through
// state transitions, and operations on a dead client fail fast so the
// facade can degrade.
func (m *Manager) Client() goredis.UniversalClient {
	m.initOnce.Do(m.init)
	return m.client
}

func (m *Manager) init() {
	m.setState(StateConnecting, nil)
	m.client = goredis.NewClient(&goredis.Options{
		Addr:        m.cfg.Addr,
		Password:    m.cfg.Password,
		DB:          m.cfg.DB,
		PoolSize:    m.cfg.PoolSize,
		DialTimeout: m.cfg.DialTimeout,
		// The manager's capped backoff is the one retry policy; the
		// client's own per-command retries would multiply every probe and
		// keep degraded operations from failing fast.
		MaxRetries: -1,
		OnConnect: func(context.Context, *goredis.Conn) error {
			m.markConnected()
			return nil
		},
	})
	go m.dispatch()
	go m.probe()
}

// probe pings until the backend answers or the attempt cap is exhausted.
// After the cap the manager settles into StateDisconnected and schedules
// nothing further; recovery comes from Reset or from the client library
// re-establishing transport on a later operation.
func (m *Manager) probe() {
	for attempt := 1; ; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), m.cfg.DialTimeout)
		err := m.client.Ping(ctx).Err()
		cancel()

		if err == nil {
			m.setState(StateReady, nil)
			return
		}
		if attempt >= m.cfg.MaxAttempts {
			m.log.Warn("cache backend unreachable, giving up",
				issuecache.Fields{"addr": m.cfg.Addr, "attempts": attempt, "err": err})
			m.setState(StateDisconnected, err)
			return
		}
		m.setState(StateReconnecting, err)
		select {
		case <-time.After(backoff(attempt, m.cfg.BackoffBase, m.cfg.BackoffCap)):
		case <-m.stop:
			return
		}
	}
}

// markConnected records a freshly established socket. From a settled
// StateDisconnected this means the client library recovered transport on
// its own, so the manager goes straight back to StateReady.
func (m *Manager) markConnected() {
	m.mu.Lock()
	prev := m.state
	m.mu.Unlock()

	switch prev {
	case StateConnecting, StateReconnecting:
		m.setState(StateConnected, nil)
	case StateDisconnected:
		m.setState(StateReady, nil)
	}
}

// State returns the current connection state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Err returns the most recent connection error, if any. Meaningful mainly
// in StateDisconnected.
func (m *Manager) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// OnStateChange registers an observer. Observers run on the manager's
// dispatch goroutine and drive logging/metrics only; they must not block.
func (m *Manager) OnStateChange(f func(State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, f)
}

// Reset re-arms the reconnect probe after the manager has settled into
// StateDisconnected. The manual recovery path for operators.
func (m *Manager) Reset() {
	m.initOnce.Do(m.init)

	m.mu.Lock()
	settled := m.state == StateDisconnected
	m.mu.Unlock()
	if !settled {
		return
	}
	m.setState(StateConnecting, nil)
	go m.probe()
}

// Close tears down the client on process shutdown. No caller other than
// the manager may close or reconfigure the shared client.
func (m *Manager) Close() error {
	var err error
	m.closeOnce.Do(func() {
		close(m.stop)
		m.setState(StateDisconnected, nil)
		if m.client != nil {
			err = m.client.Close()
		}
	})
	return err
}

func (m *Manager) setState(s State, cause error) {
	m.mu.Lock()
	if m.state == s {
		m.mu.Unlock()
		return
	}
	prev := m.state
	m.state = s
	if cause != nil {
		m.lastErr = cause
	}
	m.mu.Unlock()

	// Failures here are routine (backend restarts, network blips): warn at
	// most, and never from Ready/Connected transitions.
	switch s {
	case StateReady:
		m.log.Info("cache backend ready", issuecache.Fields{"addr": m.cfg.Addr})
	case StateReconnecting, StateDisconnected:
		m.log.Warn("cache backend "+s.String(),
			issuecache.Fields{"addr": m.cfg.Addr, "prev": prev.String(), "err": cause})
	default:
		m.log.Debug("cache connection state changed",
			issuecache.Fields{"addr": m.cfg.Addr, "from": prev.String(), "to": s.String()})
	}

	// Non-blocking: a slow observer queue drops transitions rather than
	// stalling connection handling.
	select {
	case m.events <- s:
	default:
	}
}

func (m *Manager) dispatch() {
	for {
		select {
		case s := <-m.events:
			m.mu.Lock()
			obs := make([]func(State), len(m.observers))
			copy(obs, m.observers)
			m.mu.Unlock()
			for _, f := range obs {
				f(s)
			}
		case <-m.stop:
			return
		}
	}
}
