// Package wasm loads WebAssembly programs into sandboxed instances that
// blocks can own and execute.
package wasm

// Runtime compiles and links bytecode. Implementations decide which sandbox
// technology backs a Module or Instance.
type Runtime interface {
	Compile(code []byte) (Module, error)
	// Environment builds the host imports a module may link against.
	Environment(mod Module, name string) (Environment, error)
	Link(mod Module, env Environment) (Instance, error)
}

// Module is validated, compiled bytecode.
type Module interface {
	// Imports lists what the module needs from its host as "namespace.name".
	Imports() []string
	// Close releases the compiled module. Loaders call it when linking
	// fails; after a successful Link the Instance owns the module.
	Close()
}

// Environment is the host side a module is linked against.
type Environment interface {
	Name() string
}

// Instance is a linked module ready to run.
type Instance interface {
	Call(name string) error
	Close()
}
