package charts

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/plot"
)

// MillionsTicker labels ticks with the value in whole millions using
// thousands separators (2_500_000_000 -> "2,500"). Tick positions are the
// plot defaults.
type MillionsTicker struct {
	printer *message.Printer
}

// NewMillionsTicker creates a ticker formatting numbers for lang
func NewMillionsTicker(lang language.Tag) MillionsTicker {
	return MillionsTicker{printer: message.NewPrinter(lang)}
}

// Ticks implements plot.Ticker
func (m MillionsTicker) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i, t := range ticks {
		if t.Label == "" {
			continue
		}
		ticks[i].Label = m.Format(t.Value)
	}
	return ticks
}

// Format renders v in whole millions, truncated toward zero
func (m MillionsTicker) Format(v float64) string {
	p := m.printer
	if p == nil {
		p = message.NewPrinter(language.English)
	}
	return p.Sprintf("%d", int64(v/1e6))
}
