// Package collection provides small, allocation-light list/set helpers
// shared by the bayesnet, browser, and pipeline packages: ordered value
// lists with a canonical string form, and set types supporting the
// intersection/difference/union arithmetic constraint propagation needs.
package collection

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/tools/container/intsets"
)

// IntList is an ordered list of integers, used for dotted version segments.
type IntList []int

// IntSet is a set of integers, used for major-version whitelists.
type IntSet struct {
	intsets.Sparse
	sync.RWMutex
}

// NewIntList returns an int list parsed from a dot-separated string.
func NewIntList(s string) (IntList, error) {
	var a IntList
	err := a.Parse(s)
	return a, err
}

// Parse an int list from a "."-separated string. Parsing is lenient per
// the dottedVersion grammar: a non-numeric segment (e.g. the "b1" in
// "98.0.4758.b1") parses as 0 rather than failing the whole list. An
// empty segment (consecutive or leading/trailing dots) is still a
// format error.
func (a *IntList) Parse(s string) error {
	*a = nil
	var split []string
	if len(s) > 0 {
		split = strings.Split(s, ".")
	}
	for _, v := range split {
		if len(v) == 0 {
			return fmt.Errorf("invalid int list format: '%s'", s)
		}
		elem, err := strconv.Atoi(v)
		if err != nil {
			elem = 0
		}
		*a = append(*a, elem)
	}
	return nil
}

// String returns a "."-separated string of list elements.
func (a IntList) String() string {
	var buf bytes.Buffer
	for idx, elem := range a {
		if idx != 0 {
			buf.WriteString(".")
		}
		buf.WriteString(strconv.Itoa(elem))
	}
	return buf.String()
}

// Set returns a set representation of a list.
func (a IntList) Set() *IntSet {
	var set IntSet
	for _, elem := range a {
		set.Insert(elem)
	}
	return &set
}

/*
 * intsets.Sparse is NOT thread-safe, so locking is added for use from
 * concurrent request handling (constrained sampling/propagation calls
 * can run on any number of requests against the same loaded network).
 */

// String stringifies an IntSet.
func (a *IntSet) String() string {
	str := ""
	if a != nil {
		a.RLock()
		str = a.Sparse.String()
		a.RUnlock()
	}
	return str
}

// Len returns the length of an IntSet.
func (a *IntSet) Len() int {
	n := 0
	if a != nil {
		a.RLock()
		n = a.Sparse.Len()
		a.RUnlock()
	}
	return n
}

// Insert inserts elem into the IntSet.
func (a *IntSet) Insert(elem int) {
	if a != nil {
		a.Lock()
		a.Sparse.Insert(elem)
		a.Unlock()
	}
}

// Has returns whether the IntSet contains elem.
func (a *IntSet) Has(elem int) bool {
	has := false
	if a != nil {
		a.RLock()
		has = a.Sparse.Has(elem)
		a.RUnlock()
	}
	return has
}

// IsEmpty reports whether the IntSet is empty.
func (a *IntSet) IsEmpty() bool {
	empty := true
	if a != nil {
		a.RLock()
		empty = a.Sparse.IsEmpty()
		a.RUnlock()
	}
	return empty
}

// List returns a sorted list representation of the set.
func (a *IntSet) List() IntList {
	var list IntList
	if a != nil {
		a.Lock()
		list = a.AppendTo([]int{})
		a.Unlock()
		sort.Ints(list)
	}
	return list
}

// StringList is an ordered list of strings.
type StringList []string

// StringSet is a set of strings.
type StringSet map[string]bool

// NewStringList returns a string list parsed from a comma-separated string.
func NewStringList(s string) (StringList, error) {
	var a StringList
	err := a.Parse(s)
	return a, err
}

// Parse a string list from a comma-separated string.
func (a *StringList) Parse(s string) error {
	*a = nil
	if len(s) > 0 {
		*a = strings.Split(s, ",")
	}
	return nil
}

// String returns a comma-separated string of list elements.
func (a StringList) String() string {
	var buf bytes.Buffer
	for idx, elem := range a {
		if idx != 0 {
			buf.WriteString(",")
		}
		buf.WriteString(elem)
	}
	return buf.String()
}

// Contains returns true if b is an ordered subsequence of a.
func (a StringList) Contains(b StringList) bool {
	bIdx := 0
	bLen := len(b)
	if bLen == 0 {
		return true
	}
	for _, elem := range a {
		if elem == b[bIdx] {
			bIdx++
			if bIdx == bLen {
				return true
			}
		}
	}
	return false
}

// Set returns a set representation of a list.
func (a StringList) Set() StringSet {
	set := make(StringSet, len(a))
	for _, elem := range a {
		set[elem] = true
	}
	return set
}

// List returns a sorted list representation of a set.
func (a StringSet) List() StringList {
	list := make(StringList, 0, len(a))
	for elem := range a {
		list = append(list, elem)
	}
	sort.Strings(list)
	return list
}

// Inter returns the set intersection (a & b).
func (a StringSet) Inter(b StringSet) StringSet {
	inter := make(StringSet, len(a))
	for elem := range a {
		if b[elem] {
			inter[elem] = true
		}
	}
	return inter
}

// Diff returns the set difference (a - b).
func (a StringSet) Diff(b StringSet) StringSet {
	diff := make(StringSet, len(a))
	for elem := range a {
		if !b[elem] {
			diff[elem] = true
		}
	}
	return diff
}

// Union returns the set union (a | b).
func (a StringSet) Union(b StringSet) StringSet {
	union := make(StringSet, len(a)+len(b))
	for elem := range a {
		union[elem] = true
	}
	for elem := range b {
		union[elem] = true
	}
	return union
}
