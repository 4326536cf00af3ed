package config

// SourceFileExt is the extension of host source files.
const SourceFileExt = ".ts"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".ts", ".mts", ".js"}

// ConfigFileNames are searched, in order, by FindConfig.
var ConfigFileNames = []string{"specialize.yaml", "specialize.yml", "specialize.toml"}

// Macro names recognised by the front end
const (
	SpecializeFuncName       = "specialize"
	SpecializeInlineFuncName = "specializeInline"
)

// Comment annotations
const (
	DefaultOptOutMarker = "@no-specialize-warn"
	CapabilityMarker    = "@capability"
)

// Engine defaults
const (
	DefaultMaxDepth         = 5
	DefaultOverlapThreshold = 2
	DefaultHoistPrefix      = "__specialized_"
)

// DefaultKindConstructors are the abstract type constructors narrowed to a
// concrete brand: Kind<F, A>, $<F, A>, HKT<F, A>.
var DefaultKindConstructors = []string{"Kind", "$", "HKT"}

// Environment overrides
const (
	EnvMaxDepth = "SPECIALIZE_MAX_DEPTH"
	EnvOverlap  = "SPECIALIZE_OVERLAP"
	EnvNoHoist  = "SPECIALIZE_NO_HOIST"
	EnvMarker   = "SPECIALIZE_MARKER"
)

// Runtime builtin names shared by the evaluator and the printer
const (
	ConsoleName = "console"
	LogFuncName = "log"
)
