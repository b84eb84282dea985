package vm

import "github.com/kiz-lang/kiz/object"

// Frame is one call activation, per spec.md §3.4. The return program
// counter is not stored explicitly: the caller's Frame remains on the
// call stack (below this one) with its IP already advanced past CALL,
// so popping this Frame on RET resumes it naturally.
type Frame struct {
	Name   string
	Code   *object.Code
	IP     int
	Locals map[string]object.Value
}

func newModuleFrame(code *object.Code) *Frame {
	return &Frame{Name: "<module>", Code: code, Locals: map[string]object.Value{}}
}

func newCallFrame(name string, code *object.Code) *Frame {
	return &Frame{Name: name, Code: code, Locals: map[string]object.Value{}}
}

// releaseLocals releases every value still bound in the frame's locals,
// matching "frame torn down" in spec.md §3.5's lifetime rules.
func (f *Frame) releaseLocals() {
	for _, v := range f.Locals {
		object.Release(v)
	}
}
