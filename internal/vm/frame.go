package vm

import (
	"github.com/binoyjayan/p2sh-go/internal/code"
	"github.com/binoyjayan/p2sh-go/internal/value"
)

// frame is one call's activation record: the closure being executed, its
// instruction pointer, and the stack index its locals start at.
type frame struct {
	closure     *value.Closure
	ip          int
	basePointer int
}

func newFrame(cl *value.Closure, basePointer int) *frame {
	return &frame{closure: cl, basePointer: basePointer}
}

func (f *frame) instructions() code.Instructions {
	return f.closure.Fn.Instructions
}
