package vm

import "errors"

// ErrInvalidArgument is returned when a Store instruction's addressing
// mode resolves to a register or immediate destination.
var ErrInvalidArgument = errors.New("invalid argument: store destination must be Indirect, Index, or IndexOffset")

// ErrUnimplemented is returned when a Call(Library) instruction names
// an extension not present in the VM's host-extension table.
var ErrUnimplemented = errors.New("unimplemented: no host extension registered under that name")

// errEndCode is returned internally by Step when pc addresses past the
// program's last instruction. It is not an error from the host's point
// of view: Run converts it into a nil return.
var errEndCode = errors.New("end of program")
