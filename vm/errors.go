package vm

// RuntimeError is fatal to the current execution: it halts the VM rather
// than being collected like a compile-time diagnostic.
type RuntimeError struct {
	Message string
	IP      int32
}

func (e RuntimeError) Error() string {
	return e.Message
}
