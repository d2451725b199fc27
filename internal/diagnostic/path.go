package diagnostic

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// PathSegment is either a property name or an array index.
type PathSegment struct {
	// Name is the property name (empty for index segments).
	Name string
	// Index is the array position, valid when IsIndex is set.
	Index int
	// IsIndex marks an array element segment, e.g. "[3]".
	IsIndex bool
}

// Path locates a value inside a bundle, e.g. "tasks[3].tags[1]".
// Paths are values: Field and Index return extended copies.
type Path struct {
	Segments []PathSegment
}

// Root is the empty path addressing the document itself.
var Root = Path{}

// Field returns p extended with a property segment.
func (p Path) Field(name string) Path {
	return p.with(PathSegment{Name: name})
}

// Index returns p extended with an array element segment.
func (p Path) Index(i int) Path {
	return p.with(PathSegment{Index: i, IsIndex: true})
}

func (p Path) with(seg PathSegment) Path {
	segments := make([]PathSegment, len(p.Segments), len(p.Segments)+1)
	copy(segments, p.Segments)

	return Path{Segments: append(segments, seg)}
}

// String returns the path as a string.
func (p Path) String() string {
	var sb strings.Builder

	for i, seg := range p.Segments {
		if seg.IsIndex {
			sb.WriteString("[")
			sb.WriteString(strconv.Itoa(seg.Index))
			sb.WriteString("]")

			continue
		}

		if i > 0 {
			sb.WriteString(".")
		}

		sb.WriteString(seg.Name)
	}

	return sb.String()
}

// IsEmpty returns true if the path has no segments.
func (p Path) IsEmpty() bool {
	return len(p.Segments) == 0
}

// Record returns the collection name and element index addressed by the
// first two segments, e.g. ("tasks", 3) for "tasks[3].tags[1]".
func (p Path) Record() (string, int, bool) {
	if len(p.Segments) < 2 || p.Segments[0].IsIndex || !p.Segments[1].IsIndex {
		return "", 0, false
	}

	return p.Segments[0].Name, p.Segments[1].Index, true
}

// ParsePath parses a path string into a Path.
// Supports: "field", "nested.field", "items[2]", "items[2].name".
func ParsePath(path string) (Path, error) {
	if path == "" {
		return Path{}, errors.New("empty path")
	}

	var segments []PathSegment

	for part := range strings.SplitSeq(path, ".") {
		if part == "" {
			return Path{}, fmt.Errorf("invalid path %q: empty segment", path)
		}

		name, rest, _ := strings.Cut(part, "[")
		if name == "" && len(segments) == 0 {
			return Path{}, fmt.Errorf("invalid path %q: index without field name", path)
		}

		if name != "" {
			segments = append(segments, PathSegment{Name: name})
		}

		for rest != "" {
			digits, after, ok := strings.Cut(rest, "]")
			if !ok {
				return Path{}, fmt.Errorf("invalid path %q: unterminated index", path)
			}

			idx, err := strconv.Atoi(digits)
			if err != nil || idx < 0 {
				return Path{}, fmt.Errorf("invalid path %q: bad index %q", path, digits)
			}

			segments = append(segments, PathSegment{Index: idx, IsIndex: true})

			if after == "" {
				break
			}

			if !strings.HasPrefix(after, "[") {
				return Path{}, fmt.Errorf("invalid path %q: unexpected %q", path, after)
			}

			rest = after[1:]
		}
	}

	return Path{Segments: segments}, nil
}
