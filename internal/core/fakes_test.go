package core_test

import (
	"os"

	"github.com/nmxmxh/contractchain/internal/core"
)

type fakeProgram struct {
	calls  []string
	err    error
	closed int
}

func (p *fakeProgram) Call(entry string) error {
	p.calls = append(p.calls, entry)
	return p.err
}

func (p *fakeProgram) Close() { p.closed++ }

// fakeLoader serves programs by identifier and fails like a missing file for
// anything else.
type fakeLoader struct {
	programs  map[string]*fakeProgram
	requested []string
}

func newFakeLoader(programs map[string]*fakeProgram) *fakeLoader {
	return &fakeLoader{programs: programs}
}

func (l *fakeLoader) Load(identifier string) (core.Program, error) {
	l.requested = append(l.requested, identifier)
	p, ok := l.programs[identifier]
	if !ok {
		return nil, &core.LoadError{Identifier: identifier, Stage: core.StageRead, Err: os.ErrNotExist}
	}
	return p, nil
}
