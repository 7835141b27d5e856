package core

import (
	"io"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/nmxmxh/contractchain/internal/metrics"
)

// GenesisPayload is the data carried by the first block of every chain.
const GenesisPayload = "Genesis Block"

// env is shared by a chain and its blocks. mu is the chain lock: every
// append, lookup, execution and teardown holds it.
type env struct {
	mu      sync.Mutex
	clock   clock.Clock
	log     logrus.FieldLogger
	metrics *metrics.Recorder
}

func newEnv(opts ...Option) *env {
	e := &env{clock: clock.New()}
	for _, opt := range opts {
		opt(e)
	}
	if e.clock == nil {
		e.clock = clock.New()
	}
	if e.log == nil {
		quiet := logrus.New()
		quiet.SetOutput(io.Discard)
		e.log = quiet
	}
	return e
}

// Option configures a Chain.
type Option func(*env)

// WithClock sets the clock block timestamps are read from.
func WithClock(c clock.Clock) Option {
	return func(e *env) { e.clock = c }
}

// WithLogger sets the logger shared by the chain and its blocks.
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *env) { e.log = log }
}

// WithMetrics records appends, load failures and executions on r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(e *env) { e.metrics = r }
}

// Chain is an append-only, hash-linked list of blocks. A single mutex,
// shared with the blocks, serializes every operation on the chain.
//
// The zero value is an empty chain with no genesis block and default
// settings; NewChain builds a seeded one.
type Chain struct {
	once   sync.Once
	blocks []*Block
	loader ProgramLoader
	env    *env
}

// NewChain builds a chain seeded with the genesis block.
func NewChain(loader ProgramLoader, opts ...Option) *Chain {
	c := &Chain{loader: loader, env: newEnv(opts...)}
	c.AppendData(GenesisPayload)
	return c
}

// lock takes the chain lock, filling in defaults for a zero-value chain.
func (c *Chain) lock() {
	c.once.Do(func() {
		if c.env == nil {
			c.env = newEnv()
		}
	})
	c.env.mu.Lock()
}

func (c *Chain) unlock() { c.env.mu.Unlock() }

// AppendData appends a block carrying payload and no program.
func (c *Chain) AppendData(payload string) {
	c.lock()
	defer c.unlock()

	prev := c.lastHash()
	b := newDataBlock(now(c.env.clock), payload, prev, c.env)
	c.blocks = append(c.blocks, b)

	c.env.metrics.BlockAppended(metrics.KindData)
	c.env.log.WithFields(logrus.Fields{
		"index": len(c.blocks) - 1,
		"hash":  b.hash,
	}).Debug("Appended data block")
}

// AppendProgram loads the program named by identifier and appends a block
// owning it. On failure the chain is left untouched and the error, a
// *LoadError, is returned to the caller.
func (c *Chain) AppendProgram(identifier string) error {
	c.lock()
	defer c.unlock()

	timestamp := now(c.env.clock)
	prev := c.lastHash()

	if c.loader == nil {
		return &LoadError{Identifier: identifier, Stage: StageEnvironment, Err: errors.New("no program loader configured")}
	}

	program, err := c.loader.Load(identifier)
	if err != nil {
		var le *LoadError
		if !errors.As(err, &le) {
			le = &LoadError{Identifier: identifier, Stage: StageInstantiate, Err: err}
		}
		c.env.metrics.LoadFailed(le.Stage)
		return le
	}
	if program == nil {
		c.env.metrics.LoadFailed(StageInstantiate)
		return &LoadError{Identifier: identifier, Stage: StageInstantiate, Err: errors.New("loader returned no program")}
	}

	b := newProgramBlock(timestamp, identifier, prev, program, c.env)
	c.blocks = append(c.blocks, b)

	c.env.metrics.BlockAppended(metrics.KindProgram)
	c.env.log.WithFields(logrus.Fields{
		"index":   len(c.blocks) - 1,
		"hash":    b.hash,
		"program": identifier,
	}).Debug("Appended program block")
	return nil
}

// LastHash returns the hash of the newest block, or GenesisPrevHash when the
// chain is empty.
func (c *Chain) LastHash() string {
	c.lock()
	defer c.unlock()
	return c.lastHash()
}

func (c *Chain) lastHash() string {
	if len(c.blocks) == 0 {
		return GenesisPrevHash
	}
	return c.blocks[len(c.blocks)-1].hash
}

// Get returns the block at index. The block is shared with the chain and
// must be treated as read-only.
func (c *Chain) Get(index int) (*Block, error) {
	c.lock()
	defer c.unlock()

	if index < 0 || index >= len(c.blocks) {
		return nil, outOfRange(index, len(c.blocks))
	}
	return c.blocks[index], nil
}

// Len is the number of blocks, genesis included.
func (c *Chain) Len() int {
	c.lock()
	defer c.unlock()
	return len(c.blocks)
}

// Blocks returns the blocks in chain order. The slice is a copy; the blocks
// are not.
func (c *Chain) Blocks() []*Block {
	c.lock()
	defer c.unlock()

	out := make([]*Block, len(c.blocks))
	copy(out, c.blocks)
	return out
}

// Close tears down every program instance held by the chain's blocks.
func (c *Chain) Close() {
	c.lock()
	defer c.unlock()

	for _, b := range c.blocks {
		b.close()
	}
}
