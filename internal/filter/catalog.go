// Package filter implements the filter catalog, the filter-graph engine and
// the two consumers of it: the cached single-filter applier used on the
// interactive path and the background preview batch generator.
package filter

import (
	"fmt"
	"math"
)

// Name identifies a catalog entry. Display names are resolved by the UI.
type Name string

const (
	Original   Name = "original"
	SepiaTone  Name = "sepia_tone"
	Vignette   Name = "vignette"
	Contrast   Name = "contrast"
	Gamma      Name = "gamma"
	Sharpen    Name = "sharpen"
	Saturation Name = "saturation"
)

// Definition is one catalog entry. An empty EngineID with a zero-width range
// marks the passthrough filter.
type Definition struct {
	Name     Name
	EngineID string
	ParamKey string
	Default  float64
	Min      float64
	Max      float64
}

// IsOriginal reports whether the definition passes the source through unmodified.
func (d Definition) IsOriginal() bool {
	return d.Name == Original
}

// HasParam reports whether the filter exposes an adjustable intensity.
func (d Definition) HasParam() bool {
	return d.ParamKey != ""
}

// Clamp limits v to [Min, Max]. NaN maps to Default.
func (d Definition) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return d.Default
	}
	return math.Max(d.Min, math.Min(d.Max, v))
}

func (d Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("filter definition without a name")
	}
	if !(d.Min <= d.Default && d.Default <= d.Max) {
		return fmt.Errorf("filter %s: default %.3f outside [%.3f, %.3f]", d.Name, d.Default, d.Min, d.Max)
	}
	if d.IsOriginal() && (d.EngineID != "" || d.Min != d.Max) {
		return fmt.Errorf("filter %s: passthrough filter must have no engine and a zero-width range", d.Name)
	}
	if !d.IsOriginal() && d.EngineID == "" {
		return fmt.Errorf("filter %s: missing engine filter id", d.Name)
	}
	return nil
}

// Catalog is the ordered list of filters; order is display order.
type Catalog []Definition

// DefaultCatalog returns the built-in filter set.
func DefaultCatalog() Catalog {
	return Catalog{
		{Name: Original},
		{Name: SepiaTone, EngineID: EngineSepia, ParamKey: KeyIntensity, Default: 0.5, Min: 0, Max: 1},
		{Name: Vignette, EngineID: EngineVignette, ParamKey: KeyIntensity, Default: 0.5, Min: 0, Max: 1},
		{Name: Contrast, EngineID: EngineColorControls, ParamKey: KeyContrast, Default: 0.5, Min: 0, Max: 1},
		{Name: Gamma, EngineID: EngineGammaAdjust, ParamKey: KeyPower, Default: 0.5, Min: 0, Max: 1},
		{Name: Sharpen, EngineID: EngineSharpenLuminance, ParamKey: KeySharpness, Default: 0.5, Min: 0, Max: 1},
		{Name: Saturation, EngineID: EngineColorControls, ParamKey: KeySaturation, Default: 0.5, Min: 0, Max: 1},
	}
}

func (c Catalog) Len() int {
	return len(c)
}

// At returns the definition at index i.
func (c Catalog) At(i int) (Definition, bool) {
	if i < 0 || i >= len(c) {
		return Definition{}, false
	}
	return c[i], true
}

// Index returns the position of the named filter, or -1.
func (c Catalog) Index(name Name) int {
	for i, def := range c {
		if def.Name == name {
			return i
		}
	}
	return -1
}

// Validate checks every entry and that the first entry is the passthrough filter.
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("empty filter catalog")
	}
	if !c[0].IsOriginal() {
		return fmt.Errorf("first catalog entry must be %s, got %s", Original, c[0].Name)
	}
	seen := make(map[Name]bool, len(c))
	for _, def := range c {
		if err := def.Validate(); err != nil {
			return err
		}
		if seen[def.Name] {
			return fmt.Errorf("duplicate filter %s", def.Name)
		}
		seen[def.Name] = true
	}
	return nil
}
