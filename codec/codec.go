// Package codec provides named token converters and default factories.
//
// Converters turn a single command-line token into a typed value. They are
// referenced by name from struct tags (`type:"title"`), schema documents and
// the dsl package. Factories produce default values lazily, once per parse.
package codec

import (
	"fmt"
	"sort"
	"strconv"
	"sync"
)

// Converter turns a raw token into a typed value.
type Converter = func(string) (any, error)

// Factory produces a default value. It is invoked once per parse call in which
// its field is absent.
type Factory = func() any

var (
	mu         sync.RWMutex
	converters = map[string]Converter{}
	factories  = map[string]Factory{}
)

func init() {
	for name, c := range map[string]Converter{
		"str":      Identity,
		"string":   Identity,
		"int":      Int,
		"float":    Float,
		"bool":     Bool,
		"title":    Title,
		"upper":    Upper,
		"lower":    Lower,
		"datetime": ISODateTime,
		"rfc3339":  RFC3339,
		"date":     Date,
		"duration": Duration,
		"uuid":     UUID,
		"json":     JSON,
	} {
		converters[name] = c
	}
	for name, f := range map[string]Factory{
		"now":    Now,
		"utcnow": UTCNow,
		"today":  Today,
		"uuid4":  NewUUID,
	} {
		factories[name] = f
	}
}

// Register adds or replaces a named converter.
func Register(name string, c Converter) {
	if name == "" || c == nil {
		return
	}
	mu.Lock()
	converters[name] = c
	mu.Unlock()
}

// Lookup returns the converter registered under name.
func Lookup(name string) (Converter, bool) {
	mu.RLock()
	defer mu.RUnlock()
	c, ok := converters[name]
	return c, ok
}

// Names lists registered converter names in sorted order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(converters))
	for k := range converters {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// RegisterFactory adds or replaces a named default factory.
func RegisterFactory(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	mu.Lock()
	factories[name] = f
	mu.Unlock()
}

// LookupFactory returns the factory registered under name.
func LookupFactory(name string) (Factory, bool) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := factories[name]
	return f, ok
}

// Identity returns the token unchanged.
func Identity(s string) (any, error) { return s, nil }

// Int parses a base-10 integer into int64.
func Int(s string) (any, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, unwrapNumErr(err)
	}
	return n, nil
}

// Float parses a float64.
func Float(s string) (any, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, unwrapNumErr(err)
	}
	return f, nil
}

// Bool parses the strconv.ParseBool spellings plus yes/no and on/off.
func Bool(s string) (any, error) {
	switch s {
	case "yes", "y", "on", "YES", "Yes", "ON", "On":
		return true, nil
	case "no", "n", "off", "NO", "No", "OFF", "Off":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, unwrapNumErr(err)
	}
	return b, nil
}

// strconv errors repeat the input; keep only the reason.
func unwrapNumErr(err error) error {
	if ne, ok := err.(*strconv.NumError); ok {
		return fmt.Errorf("%s: %w", ne.Func, ne.Err)
	}
	return err
}
