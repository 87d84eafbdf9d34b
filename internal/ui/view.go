package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/seberle/plume/internal/feed"
	"github.com/seberle/plume/internal/masto"
	"github.com/seberle/plume/internal/profile"
)

// layout recomputes the viewport geometry and content from the latest
// snapshots. Called whenever a snapshot or the window size changes.
func (m *Model) layout() {
	if !m.ready {
		return
	}
	header := m.renderHeader()
	footer := m.renderFooter()

	m.vp.Width = m.width
	height := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if height < 3 {
		height = 3
	}
	m.vp.Height = height
	m.vp.SetContent(m.renderList())
}

func (m Model) render() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.vp.View())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader renders the profile header: title, handle, relationship
// badge, counts, bio, fields and featured tags.
func (m Model) renderHeader() string {
	switch m.profSnap.State.Phase {
	case profile.PhaseIdle, profile.PhaseLoading:
		return m.spin.View() + m.styles.Muted.Render(" Loading profile...")
	case profile.PhaseFailed:
		msg := "profile fetch failed"
		if m.profSnap.State.Err != nil {
			msg = m.profSnap.State.Err.Error()
		}
		return m.styles.Error.Render("✗ "+msg) + "\n" +
			m.styles.Muted.Render("press r to retry")
	}

	account := m.profSnap.State.Account
	var b strings.Builder

	title := m.profSnap.Title()
	if title == "" {
		title = account.Username
	}
	b.WriteString(m.styles.Title.Render(title))
	b.WriteString("  ")
	b.WriteString(m.styles.Handle.Render(account.Handle()))
	if badge := m.relationshipBadge(); badge != "" {
		b.WriteString("  ")
		b.WriteString(badge)
	}
	b.WriteString("\n")

	b.WriteString(m.styles.Counts.Render(fmt.Sprintf(
		"%s statuses · %s followers · %s following",
		humanCount(account.StatusesCount),
		humanCount(account.FollowersCount),
		humanCount(account.FollowingCount),
	)))
	b.WriteString("\n")

	if bio := masto.PlainText(account.Note); bio != "" {
		b.WriteString(m.styles.Bio.Render(truncate(bio, m.width, 3)))
		b.WriteString("\n")
	}

	for _, field := range m.profSnap.Fields {
		mark := "  "
		if field.Verified() {
			mark = m.styles.Verified.Render("✓ ")
		}
		line := fmt.Sprintf("%s%s %s",
			mark,
			m.styles.FieldName.Render(field.Name+":"),
			masto.PlainText(field.Value),
		)
		b.WriteString(truncate(line, m.width, 1))
		b.WriteString("\n")
	}

	if len(m.profSnap.FeaturedTags) > 0 {
		chips := make([]string, 0, len(m.profSnap.FeaturedTags))
		for _, tag := range m.profSnap.FeaturedTags {
			chips = append(chips, m.styles.TagChip.Render(
				fmt.Sprintf("#%s %d", tag.Name, tag.StatusesCount)))
		}
		b.WriteString(strings.Join(chips, " "))
		b.WriteString("\n")
	}

	if m.profSnap.IsCurrentUser {
		b.WriteString(m.renderTabBar())
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func (m Model) relationshipBadge() string {
	rel := m.profSnap.Relationship
	if rel == nil {
		return ""
	}
	switch {
	case rel.Blocking:
		return m.styles.Error.Render("blocked")
	case rel.Requested:
		return m.styles.BadgeOff.Render("requested")
	case rel.Following && rel.FollowedBy:
		return m.styles.Badge.Render("mutuals")
	case rel.Following:
		return m.styles.Badge.Render("following")
	case rel.FollowedBy:
		return m.styles.BadgeOff.Render("follows you")
	}
	return ""
}

func (m Model) renderTabBar() string {
	statuses := m.styles.TabOff.Render("Statuses")
	tags := m.styles.TabOff.Render("Followed tags")
	if m.feedSnap.Tab.Kind == feed.TabFollowedTags {
		tags = m.styles.TabOn.Render("Followed tags")
	} else {
		statuses = m.styles.TabOn.Render("Statuses")
	}
	return statuses + "   " + tags
}

// renderList renders the viewport content for the active tab.
func (m Model) renderList() string {
	if m.feedSnap.Tab.Kind == feed.TabFollowedTags {
		return m.renderTags()
	}
	return m.renderStatuses()
}

func (m Model) renderStatuses() string {
	if len(m.feedSnap.Statuses) == 0 {
		if m.feedSnap.Loading {
			return m.styles.Muted.Render("loading statuses...")
		}
		if m.feedSnap.Err != nil {
			return m.styles.Error.Render("statuses unavailable: " + m.feedSnap.Err.Error())
		}
		return m.styles.Muted.Render("no statuses")
	}

	var b strings.Builder
	for _, status := range m.feedSnap.Statuses {
		b.WriteString(m.renderStatus(status))
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render(strings.Repeat("─", max(1, m.width-2))))
		b.WriteString("\n")
	}
	if m.feedSnap.Loading {
		b.WriteString(m.styles.Muted.Render("loading more..."))
	} else if m.feedSnap.Exhausted {
		b.WriteString(m.styles.Muted.Render("end of statuses"))
	}
	return b.String()
}

func (m Model) renderStatus(status masto.Status) string {
	display := status
	prefix := ""
	if status.IsReblog() {
		display = *status.Reblog
		boosted := ""
		if display.Account != nil {
			boosted = " " + display.Account.Handle()
		}
		prefix = m.styles.Meta.Render("⇄ boosted"+boosted) + "\n"
	}

	meta := m.styles.Meta.Render(fmt.Sprintf(
		"%s · ↩ %d ⇄ %d ★ %d",
		display.CreatedAt.Format("2006-01-02 15:04"),
		display.RepliesCount,
		display.ReblogsCount,
		display.FavouritesCount,
	))

	content := display.Plain()
	if display.SpoilerText != "" {
		content = "[cw: " + display.SpoilerText + "] " + content
	}

	return prefix + meta + "\n" + m.styles.Status.Render(content)
}

func (m Model) renderTags() string {
	tags := m.feedSnap.Tab.Tags
	if len(tags) == 0 {
		if m.feedSnap.Loading {
			return m.styles.Muted.Render("loading followed tags...")
		}
		return m.styles.Muted.Render("no followed tags")
	}

	var b strings.Builder
	for _, tag := range tags {
		b.WriteString(m.styles.Handle.Render("#" + tag.Name))
		b.WriteString(m.styles.Meta.Render(fmt.Sprintf(
			"  %d uses by %d accounts this week", tag.Uses(), tag.Accounts())))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderFooter() string {
	if m.toast != "" {
		return m.styles.Toast.Render("✗ " + m.toast)
	}

	parts := []string{"r refresh", "j/k scroll", "q quit"}
	if !m.profSnap.IsCurrentUser && m.profSnap.Relationship != nil {
		action := "f follow"
		if m.profSnap.Following() {
			action = "f unfollow"
		}
		parts = append([]string{action}, parts...)
	}
	if m.profSnap.IsCurrentUser {
		parts = append(parts, "tab switch")
	}
	help := m.styles.Footer.Render(strings.Join(parts, " · "))

	if m.feedSnap.Loading {
		return m.spin.View() + " " + help
	}
	return help
}

// humanCount formats a count the way the profile header shows it: exact
// under a thousand, abbreviated above.
func humanCount(n int64) string {
	switch {
	case n >= 1_000_000:
		return trimZero(fmt.Sprintf("%.1fM", float64(n)/1_000_000))
	case n >= 1_000:
		return trimZero(fmt.Sprintf("%.1fK", float64(n)/1_000))
	default:
		return fmt.Sprintf("%d", n)
	}
}

func trimZero(s string) string {
	return strings.Replace(s, ".0", "", 1)
}

// truncate clips text to maxLines lines of at most width runes, appending
// an ellipsis when something was cut.
func truncate(text string, width, maxLines int) string {
	if width <= 1 {
		width = 80
	}
	lines := strings.Split(text, "\n")
	dropped := false
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		dropped = true
	}
	for i, line := range lines {
		runes := []rune(line)
		if len(runes) > width {
			lines[i] = string(runes[:width-1]) + "…"
		}
	}
	out := strings.Join(lines, "\n")
	if dropped && !strings.HasSuffix(out, "…") {
		out += "…"
	}
	return out
}
