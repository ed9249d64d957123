package arena

import "errors"

var (
	// ErrBadArguments indicates a negative or unrepresentable size request.
	ErrBadArguments = errors.New("arena: bad arguments")

	// ErrSyscallFailed indicates the OS could not supply or map the backing region.
	ErrSyscallFailed = errors.New("arena: syscall failed")

	// ErrUninitialized indicates an operation on an arena that holds no region,
	// either because Init was never called or because Destroy already ran.
	// Destroy also reports it when the unmap itself fails.
	ErrUninitialized = errors.New("arena: uninitialized")

	// ErrAlreadyInitialized indicates Init was called on an arena that still holds a region.
	ErrAlreadyInitialized = errors.New("arena: already initialized")
)
