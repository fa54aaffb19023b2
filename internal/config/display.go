package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/agenda"
)

// Display is the optional YAML file that restyles the grid.  Any key left
// out keeps the built-in value.  Values may reference environment
// variables as ${NAME}.
//
//	quick_reserve:
//	  enabled: true
//	  label: "Reservación Rápida"
//	colors:
//	  confirmed: "#d4edda"
//	  pending: "#fff3cd"
//	day_names: [Dom, Lun, Mar, Mié, Jue, Vie, Sáb]
type Display struct {
	QuickReserve struct {
		Enabled *bool  `yaml:"enabled"`
		Label   string `yaml:"label"`
	} `yaml:"quick_reserve"`
	Colors     map[string]string `yaml:"colors"`
	DayNames   []string          `yaml:"day_names"`
	MonthNames []string          `yaml:"month_names"`
}

// LoadDisplay reads path.  An empty path or a missing file yields an empty
// Display.
func LoadDisplay(path string) (Display, error) {
	var d Display
	if path == "" {
		return d, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return d, nil
	}
	if err != nil {
		return d, fmt.Errorf("read display config: %w", err)
	}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &d); err != nil {
		return d, fmt.Errorf("parse display config: %w", err)
	}
	return d, nil
}

// Apply overlays the file's settings on the stock render options.
func (d Display) Apply(opts agenda.RenderOptions) (agenda.RenderOptions, error) {
	if d.QuickReserve.Enabled != nil {
		opts.QuickReserve = *d.QuickReserve.Enabled
	}
	if d.QuickReserve.Label != "" {
		opts.QuickReserveLabel = d.QuickReserve.Label
	}
	if len(d.Colors) > 0 {
		palette := make(map[agenda.Category]string, len(opts.Palette))
		for k, v := range opts.Palette {
			palette[k] = v
		}
		for k, v := range d.Colors {
			switch c := agenda.Category(k); c {
			case agenda.CategoryConfirmed, agenda.CategoryPending, agenda.CategoryCompleted, agenda.CategoryOther:
				palette[c] = v
			default:
				return opts, fmt.Errorf("display config: unknown status colour %q", k)
			}
		}
		opts.Palette = palette
	}
	if len(d.DayNames) > 0 {
		if len(d.DayNames) != 7 {
			return opts, fmt.Errorf("display config: day_names needs 7 entries, got %d", len(d.DayNames))
		}
		copy(opts.DayNames[:], d.DayNames)
	}
	if len(d.MonthNames) > 0 {
		if len(d.MonthNames) != 12 {
			return opts, fmt.Errorf("display config: month_names needs 12 entries, got %d", len(d.MonthNames))
		}
		copy(opts.MonthNames[:], d.MonthNames)
	}
	return opts, nil
}
