// Package errors provides standardized error handling for inikeys.
// It defines the error kinds raised around loading, editing and writing
// keybinding files, plus helpers for creating, wrapping and inspecting them.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package errors that we re-export for convenience
var (
	Unwrap = errors.Unwrap
	Is     = errors.Is
	As     = errors.As
)

// ErrNotLoaded is returned by operations that need a loaded document.
var ErrNotLoaded = NewDocumentError("no INI file loaded", "", NotLoaded, nil)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// File error kinds
	FileNotFound
	FileAccessDenied
	FileOperationFailed
	// Config error kinds
	InvalidConfig
	// Document error kinds
	NotLoaded
	NoBindings
	// Binding error kinds
	BindingNotFound
	InvalidBinding
)

var kindNames = map[ErrorKind]string{
	Unknown:             "unknown",
	FileNotFound:        "file not found",
	FileAccessDenied:    "file access denied",
	FileOperationFailed: "file operation failed",
	InvalidConfig:       "invalid config",
	NotLoaded:           "not loaded",
	NoBindings:          "no bindings",
	BindingNotFound:     "binding not found",
	InvalidBinding:      "invalid binding",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

func base(msg string, kind ErrorKind, err error) ApplicationError {
	return ApplicationError{msg: msg, err: err, kind: kind}
}

func (e *ApplicationError) Error() string {
	return e.format()
}

// format joins the message, an optional subject and the cause with ": ".
func (e *ApplicationError) format(subject ...string) string {
	s := e.msg
	for _, part := range subject {
		if part != "" {
			s += ": " + part
		}
	}
	if e.err != nil {
		s += ": " + e.err.Error()
	}
	return s
}

func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// FileError is raised while reading, writing or watching a file.
type FileError struct {
	ApplicationError
	path string
}

func NewFileError(msg string, path string, kind ErrorKind, err error) *FileError {
	return &FileError{ApplicationError: base(msg, kind, err), path: path}
}

func (e *FileError) Error() string {
	return e.format(e.path)
}

// Path returns the file path associated with the error
func (e *FileError) Path() string {
	return e.path
}

// ConfigError reports a bad configuration value. Param is the yaml key,
// e.g. "watch.debounce_ms".
type ConfigError struct {
	ApplicationError
	param string
}

func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{ApplicationError: base(msg, kind, err), param: param}
}

func (e *ConfigError) Error() string {
	return e.format(e.param)
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// DocumentError is about a keybinding document as a whole. The document
// name, when known, leads the message.
type DocumentError struct {
	ApplicationError
	name string
}

func NewDocumentError(msg string, name string, kind ErrorKind, err error) *DocumentError {
	return &DocumentError{ApplicationError: base(msg, kind, err), name: name}
}

func (e *DocumentError) Error() string {
	if e.name == "" {
		return e.format()
	}
	return e.name + ": " + e.format()
}

// Name returns the document (file) name associated with the error
func (e *DocumentError) Name() string {
	return e.name
}

// BindingError is about a single Bindings[N] entry.
type BindingError struct {
	ApplicationError
	index int
}

func NewBindingError(msg string, index int, kind ErrorKind, err error) *BindingError {
	return &BindingError{ApplicationError: base(msg, kind, err), index: index}
}

func (e *BindingError) Error() string {
	return e.format(fmt.Sprintf("Bindings[%d]", e.index))
}

// Index returns the binding index associated with the error
func (e *BindingError) Index() int {
	return e.index
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{msg: msg}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{msg: fmt.Sprintf(format, args...)}
}

// Wrap adds context to err. Wrapping nil returns nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{msg: msg, err: err}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{msg: fmt.Sprintf(format, args...), err: err}
}

// KindOf returns the first known kind found in err's chain, skipping plain wraps.
func KindOf(err error) ErrorKind {
	for err != nil {
		if k, ok := err.(interface{ Kind() ErrorKind }); ok && k.Kind() != Unknown {
			return k.Kind()
		}
		err = errors.Unwrap(err)
	}
	return Unknown
}

type kinded interface {
	error
	Kind() ErrorKind
}

// hasKind reports whether the first T in err's chain has the given kind.
func hasKind[T kinded](err error, kind ErrorKind) bool {
	var target T
	return errors.As(err, &target) && target.Kind() == kind
}

func IsFileNotFound(err error) bool     { return hasKind[*FileError](err, FileNotFound) }
func IsFileAccessDenied(err error) bool { return hasKind[*FileError](err, FileAccessDenied) }
func IsInvalidConfig(err error) bool    { return hasKind[*ConfigError](err, InvalidConfig) }

// IsNotLoaded reports an operation on an empty session.
func IsNotLoaded(err error) bool { return hasKind[*DocumentError](err, NotLoaded) }

// IsNoBindings reports the soft "no keybindings found" warning.
func IsNoBindings(err error) bool { return hasKind[*DocumentError](err, NoBindings) }

func IsBindingNotFound(err error) bool { return hasKind[*BindingError](err, BindingNotFound) }
func IsInvalidBinding(err error) bool  { return hasKind[*BindingError](err, InvalidBinding) }
