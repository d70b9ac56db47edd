package config

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// Range is an inclusive parameter sweep min, min+step, ..., <= max.
// In YAML it is written as [min, max, step] or as a single value.
type Range struct {
	Min  float64
	Max  float64
	Step float64
}

// Single returns a Range holding only v.
func Single(v float64) Range {
	return Range{Min: v, Max: v}
}

// UnmarshalYAML accepts a scalar or a sequence of one or three numbers.
func (r *Range) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var v float64
		if err := value.Decode(&v); err != nil {
			return err
		}
		*r = Single(v)
		return nil
	case yaml.SequenceNode:
		var vs []float64
		if err := value.Decode(&vs); err != nil {
			return err
		}
		switch len(vs) {
		case 1:
			*r = Single(vs[0])
		case 3:
			*r = Range{Min: vs[0], Max: vs[1], Step: vs[2]}
		default:
			return fmt.Errorf("line %d: range needs [min, max, step], got %d values", value.Line, len(vs))
		}
		return nil
	default:
		return fmt.Errorf("line %d: range must be a number or a sequence", value.Line)
	}
}

// MarshalYAML writes r in its shortest form.
func (r Range) MarshalYAML() (any, error) {
	if r.Min == r.Max {
		return r.Min, nil
	}
	return []float64{r.Min, r.Max, r.Step}, nil
}

// Len returns the number of values in r.
func (r Range) Len() int {
	if r.Max <= r.Min || r.Step <= 0 {
		return 1
	}
	return int(math.Floor((r.Max-r.Min)/r.Step+1e-9)) + 1
}

// Values returns every value of r in ascending order. Values are computed
// as min + i*step so that float steps do not drift past max.
func (r Range) Values() []float64 {
	n := r.Len()
	out := make([]float64, n)
	for i := range out {
		out[i] = r.Min + float64(i)*r.Step
	}
	return out
}

// Uints returns the values of r truncated to unsigned integers.
func (r Range) Uints() []uint {
	vs := r.Values()
	out := make([]uint, len(vs))
	for i, v := range vs {
		out[i] = uint(v)
	}
	return out
}

func (r Range) validate(name string) error {
	if r.Min < 0 {
		return fmt.Errorf("%s must not be negative", name)
	}
	if r.Max < r.Min {
		return fmt.Errorf("%s: max %g below min %g", name, r.Max, r.Min)
	}
	if r.Max > r.Min && r.Step <= 0 {
		return fmt.Errorf("%s: step must be positive", name)
	}
	return nil
}
