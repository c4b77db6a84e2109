// Copyright ©2026 nsopt. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cutplane

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// ErrUnknownOption is returned when setting an option that was never registered.
var ErrUnknownOption = fmt.Errorf("cutplane: unknown option")

// ErrOptionRange is returned when a value lies outside the registered range.
var ErrOptionRange = fmt.Errorf("cutplane: option value out of range")

// ErrOptionType is returned when a value has the wrong type for the option.
var ErrOptionType = fmt.Errorf("cutplane: option value has wrong type")

type optionKind int

const (
	boolOption optionKind = iota
	floatOption
	intOption
)

type optionMeta struct {
	kind        optionKind
	description string
	lowerF      float64
	upperF      float64
	lowerI      int
	upperI      int
}

// Options is the registry of solver options. Every strategy registers its
// options with defaults, admissible ranges and descriptions; values may then
// be overridden by name before the solve. Storage is a private viper
// instance; values enter it only through the registered defaults and Set.
type Options struct {
	store *viper.Viper
	meta  map[string]optionMeta
	log   zerolog.Logger
}

// NewOptions creates an empty option registry.
func NewOptions() *Options {
	return &Options{
		store: viper.New(),
		meta:  make(map[string]optionMeta),
		log:   zerolog.Nop(),
	}
}

// SetLogger attaches a logger for clamping warnings.
func (o *Options) SetLogger(log zerolog.Logger) { o.log = log }

// AddBool registers a bool option with its default value.
func (o *Options) AddBool(name string, value bool, description string) {
	o.meta[name] = optionMeta{kind: boolOption, description: description}
	o.store.SetDefault(name, value)
}

// AddFloat registers a float option with its default value and admissible range.
func (o *Options) AddFloat(name string, value, lower, upper float64, description string) {
	o.meta[name] = optionMeta{kind: floatOption, description: description, lowerF: lower, upperF: upper}
	o.store.SetDefault(name, value)
}

// AddInt registers an integer option with its default value and admissible range.
func (o *Options) AddInt(name string, value, lower, upper int, description string) {
	o.meta[name] = optionMeta{kind: intOption, description: description, lowerI: lower, upperI: upper}
	o.store.SetDefault(name, value)
}

// Set overrides a registered option. The value must match the registered type
// and lie within the registered range.
func (o *Options) Set(name string, value any) error {
	m, ok := o.meta[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownOption, name)
	}
	switch m.kind {
	case boolOption:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("%w: %q wants bool", ErrOptionType, name)
		}
	case floatOption:
		var f float64
		switch v := value.(type) {
		case float64:
			f = v
		case int:
			f = float64(v)
		default:
			return fmt.Errorf("%w: %q wants float64", ErrOptionType, name)
		}
		if f < m.lowerF || f > m.upperF || math.IsNaN(f) {
			return fmt.Errorf("%w: %q = %g not in [%g, %g]", ErrOptionRange, name, f, m.lowerF, m.upperF)
		}
		value = f
	case intOption:
		i, ok := value.(int)
		if !ok {
			return fmt.Errorf("%w: %q wants int", ErrOptionType, name)
		}
		if i < m.lowerI || i > m.upperI {
			return fmt.Errorf("%w: %q = %d not in [%d, %d]", ErrOptionRange, name, i, m.lowerI, m.upperI)
		}
	}
	o.store.Set(name, value)
	return nil
}

// Bool reads a bool option.
func (o *Options) Bool(name string) bool {
	return o.store.GetBool(name)
}

// Float reads a float option. Stored values outside the registered range are
// clamped back into it with a warning.
func (o *Options) Float(name string) float64 {
	f := o.store.GetFloat64(name)
	m, ok := o.meta[name]
	if !ok {
		return f
	}
	if f < m.lowerF || f > m.upperF || math.IsNaN(f) {
		clamped := math.Min(math.Max(f, m.lowerF), m.upperF)
		if math.IsNaN(f) {
			clamped = m.lowerF
		}
		o.log.Warn().Str("option", name).Float64("value", f).Float64("clamped", clamped).
			Msg("option out of range")
		return clamped
	}
	return f
}

// Int reads an integer option, clamped into the registered range.
func (o *Options) Int(name string) int {
	i := o.store.GetInt(name)
	m, ok := o.meta[name]
	if !ok {
		return i
	}
	if i < m.lowerI || i > m.upperI {
		clamped := min(max(i, m.lowerI), m.upperI)
		o.log.Warn().Str("option", name).Int("value", i).Int("clamped", clamped).
			Msg("option out of range")
		return clamped
	}
	return i
}

// Describe returns the registered description, or "" for unknown names.
func (o *Options) Describe(name string) string {
	return o.meta[name].description
}

// Names returns the registered option names in no particular order.
func (o *Options) Names() []string {
	names := make([]string, 0, len(o.meta))
	for name := range o.meta {
		names = append(names, name)
	}
	return names
}
