package notifier

import (
	"fmt"
	"html"
	"strings"

	"ResaleEngine/internal/appraisal"
	"ResaleEngine/internal/config"
)

// FormatAppraisal renders an appraisal for a chat reply.
func FormatAppraisal(a *appraisal.Appraisal) string {
	r := a.Analysis
	var b strings.Builder

	title := a.Query
	if title == "" {
		title = "item"
	}
	fmt.Fprintf(&b, "📊 <b>%s</b> | condition %s\n\n", html.EscapeString(title), a.Condition)

	fmt.Fprintf(&b, "Sold median: $%.2f (%d sold)\n", r.SoldMedian, r.SoldCount)
	if r.ActiveMedian > 0 {
		fmt.Fprintf(&b, "Active median: $%.2f (%d listed)\n", r.ActiveMedian, r.ActiveCount)
	} else {
		b.WriteString("Active median: none listed\n")
	}
	fmt.Fprintf(&b, "\n💰 <b>Max buy:</b> $%.2f\n", r.MaxBuy)
	fmt.Fprintf(&b, "   Sell target: $%.2f\n", r.SellTarget)
	fmt.Fprintf(&b, "   Fast sale: $%.2f\n", r.Undercut)
	if a.Posting != nil {
		fmt.Fprintf(&b, "   Hold price: $%.2f\n", a.Posting.HoldMax)
	}

	fmt.Fprintf(&b, "\n📈 %s (ratio %.2f)\n", r.MarketBalance, r.SupplyRatio)
	fmt.Fprintf(&b, "   %s (volatility %.2f)\n", r.PriceConsistency, r.Volatility)
	fmt.Fprintf(&b, "   Risk: %s\n", r.RiskLevel)
	fmt.Fprintf(&b, "   Liquidity: %d (%s) | Confidence: %d\n", r.LiquidityScore, r.LiquidityLabel, r.Confidence)
	return b.String()
}

// FormatAlert renders the message sent when a watch item starts qualifying.
func FormatAlert(item config.WatchItem, a *appraisal.Appraisal, value float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔔 <b>Watchlist: %s</b>\n", html.EscapeString(item.Name))
	fmt.Fprintf(&b, "%s = %.2f (threshold %.2f), risk %s (max %s)\n\n",
		item.AlertMetric, value, item.AlertThreshold, a.Analysis.RiskLevel, item.MaxRisk)
	b.WriteString(FormatAppraisal(a))
	return b.String()
}

// FormatPresets lists the configured presets.
func FormatPresets(presets []appraisal.Preset) string {
	var b strings.Builder
	b.WriteString("⚙️ <b>Presets</b>\n\n")
	for _, p := range presets {
		marker := ""
		if p.Default {
			marker = " (default)"
		}
		fmt.Fprintf(&b, "%s: %.2f%s\n", p.Name, p.LocalFactor, marker)
	}
	return b.String()
}

// FormatWatchlist lists watch items with their last known state.
func FormatWatchlist(items []config.WatchItem, qualifying map[string]bool) string {
	if len(items) == 0 {
		return "Watchlist is empty."
	}
	var b strings.Builder
	b.WriteString("👀 <b>Watchlist</b>\n\n")
	for _, it := range items {
		state := "watching"
		if qualifying[it.Name] {
			state = "✅ qualifying"
		}
		fmt.Fprintf(&b, "%s: %s ≥ %.2f, risk ≤ %s [%s]\n",
			html.EscapeString(it.Name), it.AlertMetric, it.AlertThreshold, it.MaxRisk, state)
	}
	return b.String()
}

// HelpText lists the supported chat commands.
const HelpText = "Commands:\n/check &lt;query&gt; - appraise a query from the comps source\n/watchlist - show watch items\n/presets - show local factor presets\n/run - re-check the watchlist now"
