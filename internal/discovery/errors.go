package discovery

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument reports that no usable root path was supplied.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrIO matches every *IOError via errors.Is.
	ErrIO = errors.New("i/o failure")
)

// IOError is a failed filesystem read during discovery.
type IOError struct {
	Err  error
	Op   string // lstat, readdir, samefile, canonical
	Path string
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (*IOError) Is(target error) bool { return target == ErrIO }

func ioError(op, path string, err error) error {
	return &IOError{Op: op, Path: path, Err: err}
}
