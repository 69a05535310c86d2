package codec

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/ajitpratap0/arrowlog/pkg/errors"
)

// registry maps Go types to their codecs for callers that only know a type at
// runtime, such as the CLI and the file reader. Typed code should hold its
// codec directly.
var registry = struct {
	sync.RWMutex
	codecs map[reflect.Type]any
}{codecs: make(map[reflect.Type]any)}

// Register makes c the codec of T. Registering a type twice is an error.
func Register[T any](c Codec[T]) error {
	if c == nil {
		return errors.New(errors.ErrorTypeNullArgument, "cannot register a nil codec")
	}
	t := reflect.TypeFor[T]()

	registry.Lock()
	defer registry.Unlock()
	if _, exists := registry.codecs[t]; exists {
		return errors.Newf(errors.ErrorTypeValidation, "codec for %s already registered", t)
	}
	registry.codecs[t] = c
	return nil
}

// MustRegister is like Register but panics on error. It is meant for package
// init functions.
func MustRegister[T any](c Codec[T]) {
	if err := Register(c); err != nil {
		panic(err)
	}
}

// Lookup returns the codec registered for T
func Lookup[T any]() (Codec[T], bool) {
	registry.RLock()
	defer registry.RUnlock()
	c, ok := registry.codecs[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	typed, ok := c.(Codec[T])
	return typed, ok
}

// MustLookup returns the codec registered for T and panics if there is none
func MustLookup[T any]() Codec[T] {
	c, ok := Lookup[T]()
	if !ok {
		panic(fmt.Sprintf("codec: no codec registered for %s", reflect.TypeFor[T]()))
	}
	return c
}

// Registered lists the names of every registered Go type.
func Registered() []string {
	registry.RLock()
	defer registry.RUnlock()
	names := make([]string, 0, len(registry.codecs))
	for t := range registry.codecs {
		names = append(names, t.String())
	}
	return names
}
