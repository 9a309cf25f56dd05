// Package variant lists the count-set engines a sweep can benchmark.
package variant

import (
	"fmt"
	"strings"

	"github.com/orsinium-labs/enum"
)

// Variant identifies a concurrent engine implementation under test.
type Variant enum.Member[string]

var (
	LockPersistent = Variant{Value: "lock-persistent"}
	LockModifiable = Variant{Value: "lock-modifiable"}
	Universal      = Variant{Value: "universal"}
	LockFree       = Variant{Value: "lock-free"}

	// Variants holds every engine in the order sweeps visit them.
	Variants = enum.New(LockPersistent, LockModifiable, Universal, LockFree)
)

// String returns the name the runner expects in bench_type.
func (v Variant) String() string {
	return v.Value
}

// Parse returns the Variant with the given name.
func Parse(name string) (Variant, error) {
	v := Variants.Parse(strings.TrimSpace(name))
	if v == nil {
		return Variant{}, fmt.Errorf(
			"unknown variant %q, valid values are: %s",
			name, strings.Join(Variants.Values(), ", "),
		)
	}
	return *v, nil
}

// ParseList parses a list of names and returns the selected variants in
// declared order, without duplicates. An empty list selects every variant.
func ParseList(names []string) ([]Variant, error) {
	if len(names) == 0 {
		return Variants.Members(), nil
	}

	selected := make(map[Variant]bool, len(names))
	for _, name := range names {
		for _, part := range strings.Split(name, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			v, err := Parse(part)
			if err != nil {
				return nil, err
			}
			selected[v] = true
		}
	}

	if len(selected) == 0 {
		return nil, fmt.Errorf("no variants selected")
	}

	list := make([]Variant, 0, len(selected))
	for _, v := range Variants.Members() {
		if selected[v] {
			list = append(list, v)
		}
	}
	return list, nil
}

// Names returns the names of the given variants.
func Names(variants []Variant) []string {
	names := make([]string, 0, len(variants))
	for _, v := range variants {
		names = append(names, v.Value)
	}
	return names
}
