package rule

import (
	"fmt"
	"reflect"
)

// WithSettings returns a fresh copy of r with settings applied on top of
// its defaults, leaving the registered instance untouched. Rules that are
// not Configurable are returned as is; settings for them are an error.
func WithSettings(r Rule, settings map[string]any) (Rule, error) {
	if len(settings) == 0 {
		return r, nil
	}
	c, ok := r.(Configurable)
	if !ok {
		return nil, fmt.Errorf("%s: rule takes no settings", r.Name())
	}

	rv := reflect.ValueOf(r)
	if rv.Kind() != reflect.Ptr {
		return nil, fmt.Errorf("%s: configurable rule must be a pointer", r.Name())
	}
	clone := reflect.New(rv.Elem().Type()).Interface().(Rule)
	cc := clone.(Configurable)
	if err := cc.ApplySettings(c.DefaultSettings()); err != nil {
		return nil, err
	}
	if err := cc.ApplySettings(settings); err != nil {
		return nil, err
	}
	return clone, nil
}
