package wasm

import (
	"github.com/pkg/errors"
	"github.com/wasmerio/wasmer-go/wasmer"
)

// WasmerRuntime backs programs with wasmer. Each module gets its own store;
// the engine is shared.
type WasmerRuntime struct {
	engine *wasmer.Engine
}

// NewWasmerRuntime creates a runtime with a fresh wasmer engine.
func NewWasmerRuntime() *WasmerRuntime {
	return &WasmerRuntime{engine: wasmer.NewEngine()}
}

type wasmerModule struct {
	store  *wasmer.Store
	module *wasmer.Module
}

// Close frees the module and the store it was compiled in.
func (m *wasmerModule) Close() {
	if m.module != nil {
		m.module.Close()
		m.module = nil
	}
	if m.store != nil {
		m.store.Close()
		m.store = nil
	}
}

func (m *wasmerModule) Imports() []string {
	imports := m.module.Imports()
	names := make([]string, 0, len(imports))
	for _, imp := range imports {
		names = append(names, imp.Module()+"."+imp.Name())
	}
	return names
}

// wasiEnvironment is a WASI host with no arguments, no environment
// variables and no preopened directories. Modules that do not speak WASI
// get an empty import object instead.
type wasiEnvironment struct {
	name    string
	imports *wasmer.ImportObject
}

func (e *wasiEnvironment) Name() string { return e.name }

// wasmerInstance owns its module and store and frees all three on Close.
type wasmerInstance struct {
	instance *wasmer.Instance
	module   *wasmerModule
}

// Compile validates and compiles code in a store of its own.
func (r *WasmerRuntime) Compile(code []byte) (Module, error) {
	store := wasmer.NewStore(r.engine)
	if err := wasmer.ValidateModule(store, code); err != nil {
		store.Close()
		return nil, errors.Wrap(err, "validate module")
	}
	module, err := wasmer.NewModule(store, code)
	if err != nil {
		store.Close()
		return nil, errors.Wrap(err, "compile module")
	}
	return &wasmerModule{store: store, module: module}, nil
}

// Environment builds the WASI host for mod, named after the program.
func (r *WasmerRuntime) Environment(mod Module, name string) (Environment, error) {
	m, ok := mod.(*wasmerModule)
	if !ok {
		return nil, errors.Errorf("module %T was not compiled by wasmer", mod)
	}

	if wasmer.GetWasiVersion(m.module) == wasmer.WASI_VERSION_INVALID {
		return &wasiEnvironment{name: name, imports: wasmer.NewImportObject()}, nil
	}

	wasiEnv, err := wasmer.NewWasiStateBuilder(name).Finalize()
	if err != nil {
		return nil, errors.Wrap(err, "build wasi state")
	}
	imports, err := wasiEnv.GenerateImportObject(m.store, m.module)
	if err != nil {
		return nil, errors.Wrap(err, "generate wasi imports")
	}
	return &wasiEnvironment{name: name, imports: imports}, nil
}

// Link instantiates mod against env. The returned Instance takes ownership
// of mod.
func (r *WasmerRuntime) Link(mod Module, env Environment) (Instance, error) {
	m, ok := mod.(*wasmerModule)
	if !ok {
		return nil, errors.Errorf("module %T was not compiled by wasmer", mod)
	}
	e, ok := env.(*wasiEnvironment)
	if !ok {
		return nil, errors.Errorf("environment %T was not built by wasmer", env)
	}

	instance, err := wasmer.NewInstance(m.module, e.imports)
	if err != nil {
		return nil, errors.Wrap(err, "instantiate module")
	}
	return &wasmerInstance{instance: instance, module: m}, nil
}

// Call runs the named export with no arguments. Traps come back as errors.
func (i *wasmerInstance) Call(name string) error {
	if i.instance == nil {
		return errors.Errorf("entry point %q: instance is closed", name)
	}
	fn, err := i.instance.Exports.GetFunction(name)
	if err != nil {
		return errors.Wrapf(err, "entry point %q", name)
	}
	if _, err := fn(); err != nil {
		return errors.Wrapf(err, "call %q", name)
	}
	return nil
}

// Close frees the instance, then its module and store. Safe to call twice.
func (i *wasmerInstance) Close() {
	if i.instance != nil {
		i.instance.Close()
		i.instance = nil
	}
	if i.module != nil {
		i.module.Close()
		i.module = nil
	}
}
