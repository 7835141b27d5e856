package wasm

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/nmxmxh/contractchain/internal/core"
)

// DefaultExtension is appended to an identifier to find its module file.
const DefaultExtension = ".wasm"

// Loader turns an identifier into a running program by reading
// <dir>/<identifier><ext> and handing it to a Runtime.
type Loader struct {
	rt  Runtime
	fs  afero.Fs
	dir string
	ext string
	log logrus.FieldLogger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithDir sets the directory module files are resolved against.
func WithDir(dir string) LoaderOption {
	return func(l *Loader) { l.dir = dir }
}

// WithExtension sets the module file extension; a missing dot is added.
func WithExtension(ext string) LoaderOption {
	return func(l *Loader) {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		l.ext = ext
	}
}

// WithFs replaces the filesystem module files are read from.
func WithFs(fs afero.Fs) LoaderOption {
	return func(l *Loader) { l.fs = fs }
}

// WithLogger sets the logger load failures are reported to at debug level.
func WithLogger(log logrus.FieldLogger) LoaderOption {
	return func(l *Loader) { l.log = log }
}

// NewLoader reads modules from the working directory unless configured
// otherwise.
func NewLoader(rt Runtime, opts ...LoaderOption) *Loader {
	l := &Loader{
		rt:  rt,
		fs:  afero.NewOsFs(),
		dir: ".",
		ext: DefaultExtension,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.log == nil {
		quiet := logrus.New()
		quiet.SetOutput(io.Discard)
		l.log = quiet
	}
	return l
}

// Path is where the module for identifier is expected.
func (l *Loader) Path(identifier string) string {
	return filepath.Join(l.dir, identifier+l.ext)
}

// Load reads, compiles, links and instantiates the module for identifier.
// Every failure is a *core.LoadError naming the stage that failed.
func (l *Loader) Load(identifier string) (core.Program, error) {
	path := l.Path(identifier)
	log := l.log.WithFields(logrus.Fields{"program": identifier, "path": path})

	fail := func(stage string, err error) (core.Program, error) {
		log.WithError(err).WithField("stage", stage).Debug("Program load failed")
		return nil, &core.LoadError{Identifier: identifier, Stage: stage, Err: err}
	}

	code, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return fail(core.StageRead, err)
	}

	mod, err := l.rt.Compile(code)
	if err != nil {
		return fail(core.StageCompile, err)
	}

	env, err := l.rt.Environment(mod, identifier)
	if err != nil {
		mod.Close()
		return fail(core.StageEnvironment, err)
	}

	instance, err := l.rt.Link(mod, env)
	if err != nil {
		mod.Close()
		return fail(core.StageInstantiate, err)
	}

	log.WithFields(logrus.Fields{
		"bytes":   len(code),
		"imports": len(mod.Imports()),
		"env":     env.Name(),
	}).Debug("Program loaded")
	return instance, nil
}
