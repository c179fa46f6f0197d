package tintin

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/kevmo314/go-tintin/pkg/params"
)

type State int

const (
	StateReady State = iota
	StateStarted
	StateUnusable
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateStarted:
		return "started"
	case StateUnusable:
		return "unusable"
	}
	return "unknown"
}

// registerWrite is one step of the fixed power-up sequence.
type registerWrite struct {
	address, value uint32
}

// initWrites enables the analog blocks and loads the mixing voltage (1500 mV)
// and pixel VDD (3300 mV) codes.
var initWrites = []registerWrite{
	{0x2D06, 0xFF},
	{0x2D04, 0x40},
	{0x2D05, 0x94},
	{0x2D0D, 0x40},
	{0x2D0E, 0xB8},
	{0x2D0F, 0xFF},
}

// tillumSlaveAddr is the I2C address of the illuminator driver.
const tillumSlaveAddr = 0x72

// Camera is one TintinCDK board. Parameter access and streaming calls are
// serialized; each blocks on USB I/O.
type Camera struct {
	id       uuid.UUID
	log      *slog.Logger
	cfg      *Config
	dev      Device
	base     Base
	backend  Backend
	registry *params.Registry

	mu    sync.Mutex
	state State
	cause error
}

type Option func(*Camera)

func WithLogger(l *slog.Logger) Option {
	return func(c *Camera) { c.log = l }
}

func WithConfig(cfg *Config) Option {
	return func(c *Camera) { c.cfg = cfg }
}

func WithBase(b Base) Option {
	return func(c *Camera) { c.base = b }
}

// New selects the backend for the attached variant, registers the board
// parameters, runs the power-up register sequence and initializes the base.
// The first failing step aborts the sequence without undoing earlier writes.
// On failure New returns the error together with a Camera in StateUnusable,
// on which every further call fails with ErrUnusable.
func New(dev Device, opts ...Option) (*Camera, error) {
	c := &Camera{
		id:       uuid.New(),
		log:      slog.Default(),
		cfg:      DefaultConfig(),
		dev:      dev,
		base:     HostBase{},
		registry: params.NewRegistry(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With(
		slog.String("camera_id", c.id.String()),
		slog.String("product", fmt.Sprintf("%04x", dev.Descriptor().ProductID)),
	)
	if err := c.init(); err != nil {
		c.state = StateUnusable
		c.cause = err
		c.log.Error("initialization failed", "err", err)
		return c, err
	}
	c.log.Info("initialized", "backend", c.backend.Kind())
	return c, nil
}

func (c *Camera) init() error {
	backend, err := selectBackend(c.dev, c.cfg)
	if err != nil {
		return err
	}
	c.backend = backend
	prog := backend.Programmer()

	if err := c.registry.Add(boardParameters(prog, c.registry)...); err != nil {
		return fmt.Errorf("register parameters: %w", err)
	}
	for i, w := range initWrites {
		if err := prog.WriteRegister(w.address, w.value); err != nil {
			return fmt.Errorf("init write %d/%d 0x%04x=0x%02x: %w", i+1, len(initWrites), w.address, w.value, err)
		}
	}
	if err := c.base.Init(c.registry, prog); err != nil {
		return fmt.Errorf("base init: %w", err)
	}
	return nil
}

func (c *Camera) ID() uuid.UUID {
	return c.id
}

func (c *Camera) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Backend returns the backend chosen at construction, nil if selection failed.
func (c *Camera) Backend() Backend {
	return c.backend
}

func (c *Camera) usable() error {
	if c.state == StateUnusable {
		return fmt.Errorf("%w: %v", ErrUnusable, c.cause)
	}
	return nil
}

// VideoClass returns the video-class backend, or ErrWrongBackend on a bulk board.
func (c *Camera) VideoClass() (*VideoClassBackend, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.usable(); err != nil {
		return nil, err
	}
	b, ok := c.backend.(*VideoClassBackend)
	if !ok {
		c.log.Error("video-class backend requested", "backend", c.backend.Kind())
		return nil, fmt.Errorf("%w: have %s", ErrWrongBackend, c.backend.Kind())
	}
	return b, nil
}

// Bulk returns the bulk backend, or ErrWrongBackend on a video-class board.
func (c *Camera) Bulk() (*BulkBackend, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.usable(); err != nil {
		return nil, err
	}
	b, ok := c.backend.(*BulkBackend)
	if !ok {
		c.log.Error("bulk backend requested", "backend", c.backend.Kind())
		return nil, fmt.Errorf("%w: have %s", ErrWrongBackend, c.backend.Kind())
	}
	return b, nil
}

// Start prepares the start-time parameters: the base's own, then the
// illuminator address and, on bulk boards, raw frames without block headers.
func (c *Camera) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.usable(); err != nil {
		return err
	}
	if err := c.base.InitStartParams(c.registry); err != nil {
		c.log.Error("start params failed", "err", err)
		return fmt.Errorf("base start params: %w", err)
	}
	if err := c.registry.Set(ParamTillumSlaveAddr, tillumSlaveAddr); err != nil {
		c.log.Error("set illuminator address failed", "err", err)
		return err
	}
	if _, ok := c.backend.(*BulkBackend); ok {
		if err := c.registry.Set(ParamBlkHeaderEn, 0); err != nil {
			c.log.Error("disable block header failed", "err", err)
			return err
		}
	}
	c.state = StateStarted
	return nil
}

// Parameters returns the registered parameters sorted by identifier.
func (c *Camera) Parameters() ([]params.Parameter, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.usable(); err != nil {
		return nil, err
	}
	ids := c.registry.IDs()
	ps := make([]params.Parameter, 0, len(ids))
	for _, id := range ids {
		if p, ok := c.registry.Lookup(id); ok {
			ps = append(ps, p)
		}
	}
	return ps, nil
}

func (c *Camera) Get(id string) (uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.usable(); err != nil {
		return 0, err
	}
	v, err := c.registry.Get(id)
	if err != nil {
		c.log.Error("get parameter failed", "id", id, "err", err)
		return 0, err
	}
	return v, nil
}

func (c *Camera) Set(id string, value uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.usable(); err != nil {
		return err
	}
	if err := c.registry.Set(id, value); err != nil {
		c.log.Error("set parameter failed", "id", id, "value", value, "err", err)
		return err
	}
	c.log.Debug("set parameter", "id", id, "value", value)
	return nil
}

// StartStreaming starts the streamer of the backend. SetFrameSize must have
// configured it first.
func (c *Camera) StartStreaming() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.usable(); err != nil {
		return err
	}
	if c.state != StateStarted {
		return ErrNotStarted
	}
	switch b := c.backend.(type) {
	case *VideoClassBackend:
		return b.Streamer.Start()
	case *BulkBackend:
		return b.Streamer.Start()
	}
	return ErrWrongBackend
}

// ReadFrame returns the next raw frame. It does not hold the camera lock so
// parameters can be changed while a read blocks.
func (c *Camera) ReadFrame(ctx context.Context) ([]byte, error) {
	c.mu.Lock()
	err := c.usable()
	backend := c.backend
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	switch b := backend.(type) {
	case *VideoClassBackend:
		return b.Streamer.ReadFrame(ctx)
	case *BulkBackend:
		return b.Streamer.ReadFrame(ctx)
	}
	return nil, ErrWrongBackend
}

func (c *Camera) StopStreaming() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch b := c.backend.(type) {
	case *VideoClassBackend:
		return b.Streamer.Close()
	case *BulkBackend:
		return b.Streamer.Close()
	}
	return nil
}

// Close stops streaming and releases the device, also on an unusable camera.
func (c *Camera) Close() error {
	if err := c.StopStreaming(); err != nil {
		c.log.Warn("stop streaming failed", "err", err)
	}
	return c.dev.Close()
}
