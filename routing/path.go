package routing

import "strings"

// Split tokenizes a request path or route pattern into segments.
//
// A single leading slash is stripped before splitting; any empty
// segments produced by repeated or trailing slashes are dropped. A
// bare "/" or the empty string yields the root, i.e. an empty slice.
// Split never fails — every string has a (possibly empty) segment
// list.
func Split(path string) []string {
	if path == "" || path == "/" {
		return nil
	}
	if path[0] == '/' {
		path = path[1:]
	}
	if path == "" {
		return nil
	}

	raw := strings.Split(path, "/")
	segments := make([]string, 0, len(raw))
	for _, s := range raw {
		if s == "" {
			continue
		}
		segments = append(segments, s)
	}
	return segments
}

// isParamSegment reports whether a pattern segment names a parameter.
func isParamSegment(segment string) bool {
	return len(segment) > 1 && segment[0] == ':'
}

// paramName returns the name portion of a parameter segment, i.e. the
// text following the leading ':'.
func paramName(segment string) string {
	return segment[1:]
}
