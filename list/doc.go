// Package list implements an intrusive, generic, circular doubly-linked
// list with a sentinel head.
//
// Unlike [container/list], an [Elem] is meant to be held as a named field
// of the type it links (for example, a kernel thread holds a pointer to one
// [Elem] for ready-queue/waiter-list membership and a second, independent
// [Elem] for membership of the all-threads list). Each [Elem]
// tracks which [List] it currently belongs to, if any, so that "a thread
// is a member of at most one waiter list or ready queue at a time" can be
// asserted rather than merely hoped for.
package list
