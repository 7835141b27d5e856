package core

import (
	"github.com/nmxmxh/contractchain/internal/metrics"
)

// EntryPoint is the exported function invoked by Block.Execute.
const EntryPoint = "_start"

// Program is a loaded, instantiated module owned by exactly one block.
type Program interface {
	// Call invokes the named export with no arguments.
	Call(entry string) error
	// Close releases the sandbox instance.
	Close()
}

// ProgramLoader resolves an identifier to a ready-to-run Program.
type ProgramLoader interface {
	Load(identifier string) (Program, error)
}

// Block is immutable once built. The program handle is set only for blocks
// appended through Chain.AppendProgram and is guarded by the chain lock.
type Block struct {
	timestamp    string
	payload      string
	hash         string
	previousHash string
	program      Program

	env *env
}

func newDataBlock(timestamp, payload, previousHash string, e *env) *Block {
	return &Block{
		timestamp:    timestamp,
		payload:      payload,
		hash:         Digest(timestamp, payload, previousHash),
		previousHash: previousHash,
		env:          e,
	}
}

func newProgramBlock(timestamp, identifier, previousHash string, program Program, e *env) *Block {
	b := newDataBlock(timestamp, identifier, previousHash, e)
	b.program = program
	return b
}

// Timestamp is the creation time, formatted with TimestampLayout.
func (b *Block) Timestamp() string { return b.timestamp }

// Payload is the block's data, or the program identifier for program blocks.
func (b *Block) Payload() string { return b.payload }

// Hash is Digest(Timestamp, Payload, PreviousHash).
func (b *Block) Hash() string { return b.hash }

// PreviousHash is the hash of the preceding block, GenesisPrevHash for the first.
func (b *Block) PreviousHash() string { return b.previousHash }

// HasProgram reports whether the block still owns a program.
func (b *Block) HasProgram() bool {
	b.env.mu.Lock()
	defer b.env.mu.Unlock()
	return b.program != nil
}

// Execute runs the block's program entry point while holding the chain
// lock. A block without a program logs a diagnostic and succeeds.
func (b *Block) Execute() error {
	b.env.mu.Lock()
	defer b.env.mu.Unlock()

	log := b.env.log.WithField("payload", b.payload)
	if b.program == nil {
		log.Info("No program found")
		b.env.metrics.Executed(metrics.ResultNoProgram)
		return nil
	}

	log.Debug("Executing program")
	if err := b.program.Call(EntryPoint); err != nil {
		b.env.metrics.Executed(metrics.ResultError)
		return &ExecError{Payload: b.payload, Err: err}
	}
	b.env.metrics.Executed(metrics.ResultOK)
	return nil
}

// Close tears down the program instance, if any. Safe to call twice.
func (b *Block) Close() {
	b.env.mu.Lock()
	defer b.env.mu.Unlock()
	b.close()
}

func (b *Block) close() {
	if b.program == nil {
		return
	}
	b.program.Close()
	b.program = nil
}
