package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/imdone/pkg/core"
)

const shortIDLen = 8

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// resolveID expands an id prefix to the full id of exactly one note.
func resolveID(service *core.Service, prefix string) (string, error) {
	if _, ok := service.Get(prefix); ok {
		return prefix, nil
	}

	var matches []string
	for _, n := range service.Notes() {
		if strings.HasPrefix(n.ID, prefix) {
			matches = append(matches, n.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no note matches %q", prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%q is ambiguous (%d notes)", prefix, len(matches))
	}
}
