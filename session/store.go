package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"

	"github.com/kbukum/startup-analyzer/component"
	"github.com/kbukum/startup-analyzer/encryption"
	"github.com/kbukum/startup-analyzer/errors"
	"github.com/kbukum/startup-analyzer/logger"
	"github.com/kbukum/startup-analyzer/security"
	"github.com/kbukum/startup-analyzer/validation"
)

const componentName = "sessions"

// Config controls session lifetime and the cookie that carries the id.
type Config struct {
	TTL        time.Duration `yaml:"ttl" mapstructure:"ttl"`
	CookieName string        `yaml:"cookie_name" mapstructure:"cookie_name"`
	Secure     bool          `yaml:"secure" mapstructure:"secure"`
	// Capacity bounds the number of live sessions; 0 means unbounded.
	Capacity uint64 `yaml:"capacity" mapstructure:"capacity"`
	// Cipher seals stored API keys: aes-256-gcm (default) or chacha20-poly1305.
	Cipher string `yaml:"cipher" mapstructure:"cipher"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.TTL <= 0 {
		c.TTL = 30 * time.Minute
	}
	if c.CookieName == "" {
		c.CookieName = "analyzer_session"
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.TTL < time.Minute {
		return fmt.Errorf("session.ttl must be at least 1m (got: %s)", c.TTL)
	}
	if _, err := encryption.ParseAlgorithm(c.Cipher); err != nil {
		return fmt.Errorf("session.cipher: %w", err)
	}
	return nil
}

// entry is what the cache holds: the state without its credential, plus
// the credential sealed under the store's process-local key.
type entry struct {
	state      State
	credential []byte
}

// Store is an in-memory, expiring session store. It is safe for concurrent use.
type Store struct {
	cfg    Config
	cache  *ttlcache.Cache[string, entry]
	sealer *encryption.Sealer
	log    *logger.Logger

	mu      sync.Mutex
	running map[string]struct{}
	started bool
}

var (
	_ component.Component   = (*Store)(nil)
	_ component.Describable = (*Store)(nil)
)

// NewStore creates a store. Call Start to run background expiry.
// API keys are sealed with a random key that never leaves the process.
func NewStore(cfg Config, log *logger.Logger) (*Store, error) {
	cfg.ApplyDefaults()

	alg, err := encryption.ParseAlgorithm(cfg.Cipher)
	if err != nil {
		return nil, err
	}
	sealer, err := encryption.NewRandom(alg)
	if err != nil {
		return nil, err
	}

	opts := []ttlcache.Option[string, entry]{ttlcache.WithTTL[string, entry](cfg.TTL)}
	if cfg.Capacity > 0 {
		opts = append(opts, ttlcache.WithCapacity[string, entry](cfg.Capacity))
	}

	s := &Store{
		cfg:     cfg,
		cache:   ttlcache.New[string, entry](opts...),
		sealer:  sealer,
		log:     log.WithComponent("session"),
		running: make(map[string]struct{}),
	}
	s.cache.OnEviction(func(_ context.Context, reason ttlcache.EvictionReason, item *ttlcache.Item[string, entry]) {
		if reason == ttlcache.EvictionReasonExpired || reason == ttlcache.EvictionReasonCapacityReached {
			s.log.Debug("Session evicted", map[string]interface{}{
				logger.FieldSessionID: item.Key(),
				"reason":              evictionReason(reason),
			})
		}
	})
	return s, nil
}

// Config returns the store configuration with defaults applied.
func (s *Store) Config() Config { return s.cfg }

// NewID returns a fresh session id.
func NewID() string { return uuid.NewString() }

// ValidID reports whether id is a well-formed session id.
func ValidID(id string) bool {
	_, err := validation.ValidateUUID("session_id", id)
	return err == nil
}

// Get returns a copy of the session state. Reading refreshes the expiry.
func (s *Store) Get(id string) (State, bool) {
	if !ValidID(id) {
		return State{}, false
	}
	item := s.cache.Get(id)
	if item == nil {
		return State{}, false
	}

	e := item.Value()
	state := e.state
	if len(e.credential) > 0 {
		key, err := s.sealer.Open(e.credential)
		if err != nil {
			s.log.Error("Stored credential could not be opened", logger.Fields(logger.FieldSessionID, id))
		} else {
			state.Credential = security.NewCredential(string(key))
		}
	}
	return state, true
}

// Save stores state under state.ID and stamps UpdatedAt.
func (s *Store) Save(state State) error {
	if _, err := validation.ValidateUUID("session_id", state.ID); err != nil {
		return err
	}
	state.UpdatedAt = time.Now().UTC()

	e := entry{state: state}
	if !state.Credential.IsZero() {
		sealed, err := s.sealer.Seal([]byte(state.Credential.Reveal()))
		if err != nil {
			return errors.Internal(err)
		}
		e.credential = sealed
	}
	e.state.Credential = security.Credential{}

	s.cache.Set(state.ID, e, ttlcache.DefaultTTL)
	return nil
}

// Reset forgets everything stored for id.
func (s *Store) Reset(id string) {
	s.cache.Delete(id)
}

// Len returns the number of live sessions.
func (s *Store) Len() int { return s.cache.Len() }

// Lock marks id as running an analysis. A second Lock for the same id
// before unlock fails with a CONFLICT error.
func (s *Store) Lock(id string) (unlock func(), err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.running[id]; busy {
		return nil, errors.Conflict("An analysis is already running for this session.")
	}
	s.running[id] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.running, id)
			s.mu.Unlock()
		})
	}, nil
}

// --- component.Component ---

// Name returns the component name.
func (s *Store) Name() string { return componentName }

// Start runs the expiry loop in the background.
func (s *Store) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}
	s.started = true
	go s.cache.Start()
	return nil
}

// Stop ends the expiry loop and drops every session.
func (s *Store) Stop(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		s.cache.Stop()
		s.started = false
	}
	s.cache.DeleteAll()
	return nil
}

// Health reports the number of live sessions.
func (s *Store) Health(_ context.Context) component.Health {
	return component.Health{
		Name:    componentName,
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%d active", s.Len()),
	}
}

// Describe returns the startup summary line.
func (s *Store) Describe() component.Description {
	return component.Description{
		Name:    "Session Store",
		Type:    "cache",
		Details: fmt.Sprintf("in-memory ttl=%s cipher=%s", s.cfg.TTL, s.sealer.Algorithm()),
	}
}

func evictionReason(r ttlcache.EvictionReason) string {
	switch r {
	case ttlcache.EvictionReasonExpired:
		return "expired"
	case ttlcache.EvictionReasonCapacityReached:
		return "capacity"
	default:
		return "deleted"
	}
}
