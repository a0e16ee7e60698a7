package routing

import "fmt"

// RouteConflictError is returned by Handle when a pattern's parameter
// segment disagrees with a parameter child already registered at the
// same depth under a different name. A node may have at most one
// parameter child (invariant 2); literal children are unaffected and
// may freely coexist with a parameter child at the same node.
type RouteConflictError struct {
	Segment  string // the conflicting segment, e.g. ":postId"
	Existing string // the already-registered parameter, e.g. ":id"
}

func (e *RouteConflictError) Error() string {
	return fmt.Sprintf("routing: segment %q conflicts with existing parameter %q at the same depth", e.Segment, e.Existing)
}
