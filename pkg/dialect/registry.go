package dialect

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	dialectsMu  sync.RWMutex
	dialects    = make(map[string]*Dialect)
	defaultName string
)

// Register adds d to the registry, replacing any dialect of the same name.
func Register(d *Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[strings.ToLower(d.Name)] = d
}

// SetDefault marks a registered dialect as the one used when no name is given.
func SetDefault(d *Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	defaultName = strings.ToLower(d.Name)
}

// Default returns the default dialect.
func Default() *Dialect {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	return dialects[defaultName]
}

// Get returns a dialect by name. An empty name yields the default dialect.
func Get(name string) (*Dialect, error) {
	if name == "" {
		if d := Default(); d != nil {
			return d, nil
		}
	}
	dialectsMu.RLock()
	d, ok := dialects[strings.ToLower(name)]
	dialectsMu.RUnlock()
	if !ok {
		return nil, &UnknownDialectError{Name: name, Available: List()}
	}
	return d, nil
}

// List returns all registered dialect names, sorted.
func List() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownDialectError is returned by Get for unregistered names.
type UnknownDialectError struct {
	Name      string
	Available []string
}

func (e *UnknownDialectError) Error() string {
	return fmt.Sprintf("unknown dialect %q (available: %s)", e.Name, strings.Join(e.Available, ", "))
}
