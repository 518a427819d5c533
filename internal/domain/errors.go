package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNameAlreadyExists = errors.New("mod name already exists")
	ErrStoreDirExists    = errors.New("mod directory already exists without a registry entry")
	ErrModDirNotFound    = errors.New("mod directory not found")
	ErrManifestNotFound  = errors.New("mod manifest not found")
	ErrManifestCorrupt   = errors.New("mod manifest is corrupt")
	ErrRegistryCorrupt   = errors.New("registry file is corrupt")
	ErrArchiveUnreadable = errors.New("archive unreadable")
	ErrArchiveNotFound   = errors.New("archive not found")
	ErrGameDirNotSet     = errors.New("game directory not set")
	ErrGameDirNotFound   = errors.New("game directory not found")
	ErrRenameFailed      = errors.New("rename failed")
	ErrNoSelection       = errors.New("no selection")
	ErrCategoryExists    = errors.New("category already exists")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrModNotRegistered  = errors.New("mod is not in the registry")
	ErrInvalidModName    = errors.New("invalid mod name")
)

// Kind classifies an Error so callers can branch without matching messages.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindAlreadyExists
	KindCorrupt
	KindIO
	KindNoSelection
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindAlreadyExists:
		return "already exists"
	case KindCorrupt:
		return "corrupt"
	case KindIO:
		return "io failure"
	case KindNoSelection:
		return "no selection"
	case KindInvalid:
		return "invalid input"
	default:
		return "unknown"
	}
}

// Error is the error type returned by lifecycle and archive operations.
// Op names the failing step, Path the file or directory involved (may be empty).
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Kind)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// NotFound builds a KindNotFound error.
func NotFound(op, path string, err error) *Error {
	return &Error{Kind: KindNotFound, Op: op, Path: path, Err: err}
}

// AlreadyExists builds a KindAlreadyExists error.
func AlreadyExists(op, path string, err error) *Error {
	return &Error{Kind: KindAlreadyExists, Op: op, Path: path, Err: err}
}

// Corrupt builds a KindCorrupt error.
func Corrupt(op, path string, err error) *Error {
	return &Error{Kind: KindCorrupt, Op: op, Path: path, Err: err}
}

// IOFailure builds a KindIO error wrapping the underlying cause.
func IOFailure(op, path string, err error) *Error {
	return &Error{Kind: KindIO, Op: op, Path: path, Err: err}
}

// NoSelection is returned when the user dismisses a picker.
func NoSelection(op string) *Error {
	return &Error{Kind: KindNoSelection, Op: op, Err: ErrNoSelection}
}

// Invalid builds a KindInvalid error for rejected user input.
func Invalid(op, value string, err error) *Error {
	return &Error{Kind: KindInvalid, Op: op, Path: value, Err: err}
}
