package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Index is a path of child positions from a plan's synthetic root to a task.
// The empty Index names the root itself. Root is never addressable on the
// wire, so ParseIndex rejects the empty string.
type Index []int

// ParseIndex parses the wire form "0,1,2" into an Index.
func ParseIndex(s string) (Index, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("index must not be empty")
	}
	parts := strings.Split(s, ",")
	idx := make(Index, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid index segment %q: %w", part, err)
		}
		if n < 0 {
			return nil, fmt.Errorf("invalid index segment %q: positions must be non-negative", part)
		}
		idx = append(idx, n)
	}
	return idx, nil
}

// String renders the Index in its wire form. The root renders as "".
func (i Index) String() string {
	if len(i) == 0 {
		return ""
	}
	parts := make([]string, len(i))
	for n, pos := range i {
		parts[n] = strconv.Itoa(pos)
	}
	return strings.Join(parts, ",")
}

// IsRoot reports whether the Index names the synthetic root.
func (i Index) IsRoot() bool {
	return len(i) == 0
}

// Parent returns the Index of the parent task. The root's parent is the root.
func (i Index) Parent() Index {
	if len(i) == 0 {
		return nil
	}
	return i[:len(i)-1].Clone()
}

// Child returns a new Index extending this one by pos.
func (i Index) Child(pos int) Index {
	child := make(Index, len(i)+1)
	copy(child, i)
	child[len(i)] = pos
	return child
}

// Clone returns an independent copy.
func (i Index) Clone() Index {
	if i == nil {
		return nil
	}
	out := make(Index, len(i))
	copy(out, i)
	return out
}

// Equal reports whether both indices name the same path.
func (i Index) Equal(other Index) bool {
	if len(i) != len(other) {
		return false
	}
	for n := range i {
		if i[n] != other[n] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix is an ancestor of (or equal to) i.
func (i Index) HasPrefix(prefix Index) bool {
	if len(prefix) > len(i) {
		return false
	}
	for n := range prefix {
		if i[n] != prefix[n] {
			return false
		}
	}
	return true
}
