// Package notifier renders the human-readable text form of a snapshot
// for log and CLI consumption.
package notifier

import (
	"fmt"
	"strings"

	"GoldWatch/internal/model"
)

// Formatter renders snapshots as multi-line text with a fixed section
// order: header, driver/momentum, key monitors, technicals, next
// catalyst, alert conditions.
type Formatter struct {
	symbol string
}

// NewFormatter creates a formatter for the given instrument symbol.
func NewFormatter(symbol string) *Formatter {
	return &Formatter{symbol: strings.ReplaceAll(symbol, "/", "")}
}

// Render produces the text rendering of one snapshot.
func (f *Formatter) Render(snap *model.MarketSnapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s]\n", snap.Timestamp.UTC().Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "%s: $%.2f | Change: %+.2f%% (1hr) | Session: %s\n\n",
		f.symbol, snap.Instrument.Price, snap.Instrument.Change1h, snap.Session)

	fmt.Fprintf(&b, "PRIMARY DRIVER: %s\n", snap.PrimaryDriver)
	fmt.Fprintf(&b, "MOMENTUM: %s\n\n", snap.Momentum.Description)

	b.WriteString("KEY MONITORS:\n\n")
	if y := snap.Correlations.Yield; y != nil {
		fmt.Fprintf(&b, "YIELD WATCH: 10Y @ %.2f%% (%s %.1fbps) → Gold Pressure: %s\n",
			y.Price, y.Direction, abs(y.ChangeBps), y.Pressure)
	}
	if d := snap.Correlations.Dollar; d != nil {
		label := d.Symbol
		if label == "" {
			label = "DXY"
		}
		fmt.Fprintf(&b, "USD WATCH: %s @ %.2f (%s %.2f%%) → Pressure: %s\n",
			label, d.Price, d.Direction, abs(d.PercentChange), d.Pressure)
	}
	if r := snap.Correlations.Risk; r != nil {
		label := r.Symbol
		if label == "" {
			label = "SPX futures"
		}
		fmt.Fprintf(&b, "RISK GAUGE: %s %s %.2f%% → Haven Demand: %s\n",
			label, r.Direction, abs(r.PercentChange), r.HavenDemand)
	}
	b.WriteString("\n")

	b.WriteString("TECHNICALS:\n")
	if tech := snap.Technical; tech != nil {
		if s := tech.Nearest.Support; s != nil {
			fmt.Fprintf(&b, "• Nearest Support: $%.2f (%.1f pips below)\n", s.Price, s.Pips)
		}
		if r := tech.Nearest.Resistance; r != nil {
			fmt.Fprintf(&b, "• Nearest Resistance: $%.2f (%.1f pips above)\n", r.Price, r.Pips)
		}
		fmt.Fprintf(&b, "• MA Alignment: %s\n", tech.MAAlignment)
		if tech.RSI != nil {
			fmt.Fprintf(&b, "• RSI(14): %.1f [%s]\n", *tech.RSI, tech.RSIStatus)
		}
	} else {
		b.WriteString("• Unavailable this cycle\n")
	}
	b.WriteString("\n")

	if cat := snap.NextCatalyst; cat != nil {
		fmt.Fprintf(&b, "NEXT CATALYST: %s at %s in %d minutes | Impact: %s\n\n",
			cat.Event, cat.Time, cat.MinutesUntil, cat.Impact)
	} else {
		b.WriteString("NEXT CATALYST: None scheduled\n\n")
	}

	fmt.Fprintf(&b, "ALERT CONDITIONS: %s", strings.Join(snap.Alerts, ", "))
	return b.String()
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
