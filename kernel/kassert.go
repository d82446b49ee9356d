package kernel

import "github.com/joeycumines/kerncore/klog"

// kassert checks an invariant that should be impossible to violate from
// outside this package (a caller violating a documented precondition, or a
// bug in the scheduler itself). Unlike the exported sentinel errors, these
// are not recoverable conditions: the original kernel's ASSERT() macro
// panics the whole machine, and so does this.
func kassert(logger *klog.Logger, cond bool, msg string) {
	if cond {
		return
	}
	if logger != nil {
		logger.Err().Log(msg)
	}
	panic("kernel: assertion failed: " + msg)
}
