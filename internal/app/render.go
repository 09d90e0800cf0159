package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jonorri23/thefoxSwift21jan-observatory/internal/store"
	"github.com/jonorri23/thefoxSwift21jan-observatory/internal/ui"
	"github.com/jonorri23/thefoxSwift21jan-observatory/internal/view"
)

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))

	switch m.view {
	case ViewSessions:
		sections = append(sections, m.renderSessions())
	case ViewFeed:
		sections = append(sections, m.renderFeed())
	case ViewDetail:
		sections = append(sections, m.renderDetail())
	}

	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := ui.TitleStyle.Render("OBSERVATORY")

	var tabs []string
	tab := func(label string, id ViewID) string {
		if m.view == id {
			return ui.TabActiveStyle.Render(label)
		}
		return ui.TabStyle.Render(label)
	}
	tabs = append(tabs, tab("[1] Sessions", ViewSessions))
	tabs = append(tabs, tab("[2] Live Feed", ViewFeed))
	if m.view == ViewDetail {
		tabs = append(tabs, ui.TabActiveStyle.Render("Session "+view.ShortID(m.detailID)))
	}

	var live string
	if (m.view == ViewFeed && m.feedSub != nil) || (m.view == ViewDetail && m.detailLive) {
		live = "  " + ui.LiveBadgeStyle.Render("● LIVE")
	}

	return title + "  " + strings.Join(tabs, "  ") + live
}

// contentHeight is the number of lines available to the active view body.
func (m Model) contentHeight() int {
	// Reserve: header(1) + dividers(2) + footer(1)
	return max(5, m.height-4)
}

func (m Model) renderSessions() string {
	height := m.contentHeight()
	var lines []string

	stats := ui.StatLabelStyle.Render("Total Sessions ") + ui.StatValueStyle.Render(fmt.Sprintf("%d", m.stats.TotalSessions)) +
		ui.StatLabelStyle.Render("   Active Now ") + ui.StatValueStyle.Render(fmt.Sprintf("%d", m.stats.ActiveSessions)) +
		ui.StatLabelStyle.Render("   Pipeline Events ") + ui.StatValueStyle.Render(fmt.Sprintf("%d", m.stats.TotalEvents))
	lines = append(lines, stats)
	lines = append(lines, "")

	switch {
	case m.loadingSessions:
		lines = append(lines, ui.DimStyle.Render("  Loading sessions..."))

	case m.sessionsErr != "":
		lines = append(lines, ui.ErrorStyle.Render("  Error: ")+ui.ErrorTextStyle.Render(m.sessionsErr))
		lines = append(lines, ui.DimStyle.Render("  Press r to retry"))

	case len(m.sessions) == 0:
		lines = append(lines, ui.DimStyle.Render("  No sessions yet"))
		lines = append(lines, ui.DimStyle.Render("  Enable analytics in the app to start collecting data"))

	default:
		rows := m.sessionRows()
		// Keep the selected row in the visible window.
		visible := height - len(lines)
		start := 0
		if m.selected >= visible {
			start = m.selected - visible + 1
		}
		end := min(len(rows), start+visible)
		lines = append(lines, rows[start:end]...)
	}

	return padToHeight(lines, height)
}

func (m Model) sessionRows() []string {
	var rows []string
	for i, sess := range m.sessions {
		marker := "  "
		titleStyle := lipgloss.NewStyle()
		if i == m.selected {
			marker = ui.SelectedStyle.Render("> ")
			titleStyle = ui.SelectedStyle
		}

		title := titleStyle.Render(padRight(truncateToWidth(view.SessionTitle(sess), 24), 24))
		id := ui.DimStyle.Render(view.ShortID(sess.ID))
		started := ui.TimestampStyle.Render(view.FormatDateTime(sess.StartedAt))

		duration := view.FormatDuration(sess.StartedAt, sess.EndedAt)
		var durStr string
		if sess.Active() {
			durStr = ui.ActiveStyle.Render(padRight(duration, 8))
		} else {
			durStr = ui.DimStyle.Render(padRight(duration, 8))
		}

		count := fmt.Sprintf("%d events", m.counts[sess.ID])

		rows = append(rows, marker+title+"  "+id+"  "+started+"  "+durStr+"  "+ui.DimStyle.Render(count))
	}
	return rows
}

func (m Model) renderFeed() string {
	height := m.contentHeight()
	var lines []string

	var status string
	switch {
	case m.feedSub != nil:
		status = ui.LiveBadgeStyle.Render("● Live Connection")
	case m.feedOffline:
		status = ui.EndedBadgeStyle.Render("○ Feed offline — snapshot only")
	default:
		status = ui.DimStyle.Render("○ Connecting...")
	}
	lines = append(lines, status+ui.DimStyle.Render(fmt.Sprintf("   %d events", m.feedList.Len())))
	lines = append(lines, "")

	switch {
	case m.loadingFeed && m.feedList.Len() == 0:
		lines = append(lines, ui.DimStyle.Render("  Connecting to live feed..."))

	case m.feedErr != "":
		lines = append(lines, ui.ErrorStyle.Render("  Error: ")+ui.ErrorTextStyle.Render(m.feedErr))
		lines = append(lines, ui.DimStyle.Render("  Press r to retry"))

	case m.feedList.Len() == 0:
		lines = append(lines, ui.DimStyle.Render("  Waiting for events..."))
		lines = append(lines, ui.DimStyle.Render("  Events appear here as they happen"))

	default:
		events := m.feedList.Events()
		for _, ev := range events[min(m.feedScroll, len(events)-1):] {
			if len(lines) >= height {
				break
			}
			lines = append(lines, m.feedRow(ev))
		}
	}

	return padToHeight(lines, height)
}

func (m Model) feedRow(ev store.Event) string {
	ts := ui.TimestampStyle.Render(view.FormatClockTime(ev.Timestamp))
	badge := badgeStyle(ev.EventType).Render(padRight(view.BadgeLabel(ev.EventType), 10))

	summary := view.EventSummary(ev)
	var summaryStr string
	switch {
	case ev.WinnerTitle != nil && *ev.WinnerTitle != "":
		summaryStr = summary
	case ev.Feedback != nil && *ev.Feedback != "":
		summaryStr = ui.BadgeFeedbackStyle.Render(summary)
	default:
		summaryStr = ui.DimStyle.Render(summary)
	}

	row := "  " + ts + "  " + badge + "  " + summaryStr
	if ev.WinnerScore != nil {
		row += "  " + ui.ScoreStyle.Render(fmt.Sprintf("%.3f", *ev.WinnerScore))
	}
	if loc := view.LocationBadge(ev); loc != "" {
		row += "  " + ui.LocationStyle.Render(loc)
	}
	return truncateToWidth(row, m.width)
}

func (m Model) renderDetail() string {
	height := m.contentHeight()
	var lines []string

	switch {
	case m.loadingDetail:
		lines = append(lines, ui.DimStyle.Render("  Loading session..."))
		return padToHeight(lines, height)

	case m.detailErr != "":
		lines = append(lines, ui.ErrorStyle.Render("  Error: ")+ui.ErrorTextStyle.Render(m.detailErr))
		lines = append(lines, ui.DimStyle.Render("  Press r to retry, esc to go back"))
		return padToHeight(lines, height)

	case m.detail == nil:
		// An unknown session id renders best-effort, never crashes.
		lines = append(lines, ui.DimStyle.Render("  Session not found: ")+ui.DimStyle.Render(m.detailID))
		if m.detailList.Len() > 0 {
			lines = append(lines, ui.DimStyle.Render(fmt.Sprintf("  %d orphaned events recorded against it", m.detailList.Len())))
		}
		lines = append(lines, ui.DimStyle.Render("  Press esc to go back"))
		return padToHeight(lines, height)
	}

	sess := *m.detail

	var badge string
	switch {
	case !sess.Active():
		badge = ui.EndedBadgeStyle.Render("Ended")
	case m.detailLive:
		badge = ui.LiveBadgeStyle.Render("● LIVE")
	default:
		badge = ui.ActiveStyle.Render("Active")
	}

	header := ui.SectionTitleStyle.Render(view.SessionTitle(sess)) + "  " + badge +
		ui.DimStyle.Render(fmt.Sprintf("   %d events", m.detailList.Len()))
	lines = append(lines, header)
	lines = append(lines, ui.DimStyle.Render(sess.ID)+
		ui.DimStyle.Render("   "+view.FormatDuration(sess.StartedAt, sess.EndedAt)))

	if len(sess.Settings) > 0 {
		lines = append(lines, renderSettings(sess.Settings, m.width))
	}
	lines = append(lines, "")

	if m.detailList.Len() == 0 {
		lines = append(lines, ui.DimStyle.Render("  No events yet"))
		lines = append(lines, ui.DimStyle.Render("  Events appear as the app runs"))
		return padToHeight(lines, height)
	}

	events := m.detailList.Events()
	for _, ev := range events[min(m.detailScroll, len(events)-1):] {
		if len(lines) >= height {
			break
		}
		card := m.renderEventCard(ev)
		lines = append(lines, card...)
		lines = append(lines, "")
	}

	return padToHeight(lines, height)
}

// renderSettings shows the session config as key=value chips on one line.
func renderSettings(settings map[string]any, width int) string {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	// Stable order for a deterministic redraw.
	sort.Strings(keys)

	var chips []string
	for _, k := range keys {
		chips = append(chips, ui.DimStyle.Render(k+"=")+fmt.Sprintf("%v", settings[k]))
	}
	return truncateToWidth("  "+strings.Join(chips, "  "), width)
}

// renderEventCard renders one event as a two-column card: winner and
// candidates on the left, payload metadata and diagnostics on the right.
func (m Model) renderEventCard(ev store.Event) []string {
	header := "  " + badgeStyle(ev.EventType).Render(view.BadgeLabel(ev.EventType)) +
		"  " + ui.TimestampStyle.Render(view.FormatClockTime(ev.Timestamp))
	if loc := view.LocationBadge(ev); loc != "" {
		header += "  " + ui.LocationStyle.Render(loc)
	}

	leftW := max(30, m.width/2-2)
	rightW := max(20, m.width-leftW-5)

	left := m.renderCardLeft(ev, leftW)
	right := m.renderCardRight(ev, rightW)

	body := joinColumns(left, right, leftW)

	lines := []string{truncateToWidth(header, m.width)}
	lines = append(lines, body...)
	return lines
}

func (m Model) renderCardLeft(ev store.Event, width int) []string {
	var lines []string

	switch {
	case ev.WinnerTitle != nil && *ev.WinnerTitle != "":
		lines = append(lines, ui.SectionTitleStyle.Render("Selected Content"))
		lines = append(lines, ui.WinnerStyle.Render(truncateToWidth(*ev.WinnerTitle, width-2)))
		meta := "Score: " + view.FloatOrDash(ev.WinnerScore, 3)
		if ev.WinnerID != nil {
			meta += " • ID: " + view.ShortID(*ev.WinnerID)
		}
		lines = append(lines, ui.DimStyle.Render(meta))

	case ev.Feedback != nil && *ev.Feedback != "":
		lines = append(lines, ui.SectionTitleStyle.Render("User Feedback"))
		lines = append(lines, ui.BadgeFeedbackStyle.Render(strings.ToUpper(*ev.Feedback)))

	default:
		lines = append(lines, ui.DimStyle.Render("No winner selected"))
	}

	if len(ev.Candidates) > 0 {
		lines = append(lines, "")
		lines = append(lines, ui.SectionTitleStyle.Render(fmt.Sprintf("All Candidates (%d)", len(ev.Candidates))))

		shown, more := view.CandidatePreview(ev.Candidates)
		for _, c := range shown {
			lines = append(lines, m.candidateLines(ev, c, width)...)
		}
		if more > 0 {
			lines = append(lines, ui.DimStyle.Render(fmt.Sprintf("+%d more candidates", more)))
		}
	}

	return lines
}

func (m Model) candidateLines(ev store.Event, c store.Candidate, width int) []string {
	marker := "  "
	titleStyle := lipgloss.NewStyle()
	if view.IsWinner(ev, c) {
		marker = ui.WinnerStyle.Render("★ ")
		titleStyle = ui.WinnerStyle
	}

	src := ui.DimStyle.Render("[" + view.SourceLabel(c) + "]")
	title := titleStyle.Render(truncateToWidth(c.Title, max(10, width-24)))
	score := ui.ScoreStyle.Render(fmt.Sprintf("%.3f", c.Score))
	dist := ui.DimStyle.Render(fmt.Sprintf("%.0fm", c.Distance))

	lines := []string{marker + src + " " + title + "  " + score + " " + dist}

	if c.Breakdown != nil {
		d, h, hd := view.WeightedBreakdown(*c.Breakdown)
		bd := fmt.Sprintf("    Dist: %.2f  Hist: %.2f  Head: %.2f", d, h, hd)
		if len(c.Breakdown.Notes) > 0 {
			bd += " • " + strings.Join(c.Breakdown.Notes, ", ")
		}
		lines = append(lines, ui.DimStyle.Render(truncateToWidth(bd, width)))
	}
	if c.ProsePreview != nil && *c.ProsePreview != "" {
		prose := "    “" + view.TruncateProse(*c.ProsePreview, 80) + "”"
		lines = append(lines, ui.DimStyle.Render(truncateToWidth(prose, width)))
	}
	return lines
}

func (m Model) renderCardRight(ev store.Event, width int) []string {
	if ev.Payload == nil {
		return []string{ui.DimStyle.Render(view.Placeholder)}
	}
	p := *ev.Payload

	var lines []string
	lines = append(lines, ui.SectionTitleStyle.Render("Pipeline Metadata"))
	lines = append(lines, ui.DimStyle.Render("POIs Found ")+view.IntOrDash(p.POICount)+
		ui.DimStyle.Render("   Candidates ")+view.IntOrDash(p.CandidateCount))
	lines = append(lines, ui.DimStyle.Render("Persona ")+view.StringOrDash(p.PromptPersona)+
		ui.DimStyle.Render("   Lyricism ")+view.FloatOrDash(p.PromptLyricism, 1))

	if len(p.UserHistoryTags) > 0 {
		tags := "Tags: " + strings.Join(p.UserHistoryTags, ", ")
		lines = append(lines, ui.TagStyle.Render(truncateToWidth(tags, width)))
	}

	if p.Preprocessing != nil {
		pp := p.Preprocessing
		state := "Disabled"
		if pp.Enabled {
			state = "Active"
		}
		line := "Preprocessing " + state
		if pp.Model != nil {
			line += " • " + *pp.Model
		}
		if pp.LatencyMS != nil {
			line += fmt.Sprintf(" • %dms", *pp.LatencyMS)
		}
		lines = append(lines, ui.PreprocessingStyle.Render(truncateToWidth(line, width)))
		if pp.OriginalProse != nil {
			lines = append(lines, ui.DimStyle.Render(truncateToWidth("  orig: "+view.TruncateProse(*pp.OriginalProse, 200), width)))
		}
		if pp.SynthesizedProse != nil {
			lines = append(lines, ui.DimStyle.Render(truncateToWidth("  synth: "+view.TruncateProse(*pp.SynthesizedProse, 200), width)))
		}
	}

	if p.GeminiPayloadPreview != nil && *p.GeminiPayloadPreview != "" {
		lines = append(lines, ui.SectionTitleStyle.Render("Gemini Payload Preview"))
		for _, wl := range wrapText(*p.GeminiPayloadPreview, max(10, width-2)) {
			lines = append(lines, ui.DimStyle.Render(wl))
		}
	}

	return lines
}

func (m Model) renderFooter() string {
	var parts []string

	switch m.view {
	case ViewSessions:
		parts = append(parts, ui.FooterKeyStyle.Render("Enter")+ui.FooterDescStyle.Render(" Open"))
		parts = append(parts, ui.FooterKeyStyle.Render("j/k")+ui.FooterDescStyle.Render(" Nav"))
	case ViewFeed:
		parts = append(parts, ui.FooterKeyStyle.Render("j/k")+ui.FooterDescStyle.Render(" Scroll"))
	case ViewDetail:
		parts = append(parts, ui.FooterKeyStyle.Render("Esc")+ui.FooterDescStyle.Render(" Back"))
		parts = append(parts, ui.FooterKeyStyle.Render("j/k")+ui.FooterDescStyle.Render(" Scroll"))
	}

	parts = append(parts, ui.FooterKeyStyle.Render("1/2")+ui.FooterDescStyle.Render(" Views"))
	parts = append(parts, ui.FooterKeyStyle.Render("r")+ui.FooterDescStyle.Render(" Refresh"))
	parts = append(parts, ui.FooterKeyStyle.Render("q")+ui.FooterDescStyle.Render(" Quit"))

	return strings.Join(parts, "  ")
}

func badgeStyle(eventType string) lipgloss.Style {
	switch view.BadgeKind(eventType) {
	case view.BadgeFeedback:
		return ui.BadgeFeedbackStyle
	case view.BadgeError:
		return ui.BadgeErrorStyle
	default:
		return ui.BadgePipelineStyle
	}
}

// Helpers

// joinColumns lays two line slices side by side, padding the left column to
// leftW.
func joinColumns(left, right []string, leftW int) []string {
	n := max(len(left), len(right))
	divider := ui.DividerStyle.Render("│")

	var rows []string
	for i := 0; i < n; i++ {
		var l, r string
		if i < len(left) {
			l = left[i]
		}
		if i < len(right) {
			r = right[i]
		}
		rows = append(rows, "  "+padRight(l, leftW)+" "+divider+" "+r)
	}
	return rows
}

func padToHeight(lines []string, height int) string {
	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func truncateToWidth(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible <= width {
		return s
	}
	runes := []rune(s)
	if len(runes) > width-1 {
		return string(runes[:width-1]) + "…"
	}
	return s
}

func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		var current string
		for _, word := range strings.Fields(paragraph) {
			if current == "" {
				current = word
			} else if len(current)+1+len(word) <= width {
				current += " " + word
			} else {
				lines = append(lines, current)
				current = word
			}
		}
		if current != "" {
			lines = append(lines, current)
		} else {
			lines = append(lines, "")
		}
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
