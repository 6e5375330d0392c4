package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/goliatone/go-linkora/identity"
	"github.com/goliatone/go-linkora/model"
	"github.com/goliatone/go-linkora/reputation"
	"github.com/goliatone/go-linkora/social"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

// noColor disables ANSI escapes. Set by --no-color or NO_COLOR.
var noColor bool

// now is replaced in tests.
var now = time.Now

func colorize(color, text string) string {
	if noColor {
		return text
	}
	return color + text + colorReset
}

func printSuccess(out io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(out, colorize(colorGreen, "✓ "+msg))
}

func printStatus(out io.Writer, label string, format string, args ...any) {
	val := fmt.Sprintf(format, args...)
	l := colorize(colorBold, label+":")
	fmt.Fprintf(out, "  %s %s\n", l, val)
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "none"
	}
	return s
}

func ago(t time.Time) string {
	if t.IsZero() {
		return "undated"
	}
	return humanize.RelTime(t, now(), "ago", "from now")
}

func bandColor(b reputation.Band) string {
	switch b {
	case reputation.BandHigh, reputation.BandGood:
		return colorGreen
	case reputation.BandFair:
		return colorYellow
	default:
		return colorRed
	}
}

func printProfile(out io.Writer, id identity.ID, p model.UserProfile) {
	fmt.Fprintf(out, "%s %s\n", colorize(colorBold, p.Name), colorize(colorCyan, id.String()))
	if p.Designation != "" || p.Department != "" {
		printStatus(out, "Role", "%s", strings.TrimSpace(p.Designation+" "+p.Department))
	}
	if p.Year > 0 {
		printStatus(out, "Year", "%s", humanize.Ordinal(p.Year))
	}
	if p.Bio != "" {
		printStatus(out, "Bio", "%s", p.Bio)
	}
	platforms := make([]string, 0, len(p.SocialLinks))
	for platform := range p.SocialLinks {
		platforms = append(platforms, platform)
	}
	sort.Strings(platforms)
	for _, platform := range platforms {
		printStatus(out, platform, "%s", p.SocialLinks[platform])
	}
}

func printSummary(out io.Writer, id identity.ID, sum reputation.Summary) {
	fmt.Fprintf(out, "%s %s\n", colorize(colorBold, "Reputation of"), colorize(colorCyan, id.String()))
	printStatus(out, "Reviews", "%s", humanize.Comma(int64(sum.Reviews)))
	printStatus(out, "Aggregate", "%d (%s)", sum.Aggregate, colorize(bandColor(sum.Band), sum.Band.String()))
	printStatus(out, "Compatibility", "%d%%", sum.Compatibility)
	for _, d := range sum.Dimensions {
		printStatus(out, d.Dimension.String(), "%3d %s", d.Score, colorize(bandColor(d.Band), d.Band.String()))
	}
}

func printCandidates(out io.Writer, ranked []reputation.Candidate) {
	if len(ranked) == 0 {
		fmt.Fprintln(out, "no matches")
		return
	}
	for i, c := range ranked {
		fmt.Fprintf(out, "%-5s %s  %d%% %s\n",
			humanize.Ordinal(i+1),
			colorize(colorBold, c.Profile.Name),
			c.Compatibility,
			c.Match,
		)
		printStatus(out, "Skills", "%s", orNone(strings.Join(c.Skills, ", ")))
	}
}

func printPosts(out io.Writer, posts []model.Post, caller identity.ID) {
	if len(posts) == 0 {
		fmt.Fprintln(out, "no posts yet")
		return
	}
	for _, p := range posts {
		liked := " "
		if social.HasLiked(p, caller) {
			liked = colorize(colorRed, "♥")
		}
		fmt.Fprintf(out, "%s %s · %s · %d likes\n",
			liked,
			colorize(colorCyan, p.Author.String()),
			ago(p.CreatedAt),
			len(p.Likes),
		)
		fmt.Fprintf(out, "  %s\n", p.Content)
	}
}

func printCommunities(out io.Writer, communities []model.Community, caller identity.ID) {
	if len(communities) == 0 {
		fmt.Fprintln(out, "no communities yet")
		return
	}
	for _, c := range communities {
		marker := " "
		if social.IsCommunityMember(c, caller) {
			marker = colorize(colorGreen, "*")
		}
		fmt.Fprintf(out, "%s %s [%s] %s members\n",
			marker,
			colorize(colorBold, c.Name),
			c.Category,
			humanize.Comma(int64(len(c.Members))),
		)
	}
}

func printEvents(out io.Writer, events []model.Event, caller identity.ID) {
	if len(events) == 0 {
		fmt.Fprintln(out, "no events yet")
		return
	}
	for _, e := range events {
		marker := " "
		if social.IsOrganizer(e, caller) {
			marker = colorize(colorYellow, "@")
		}
		fmt.Fprintf(out, "%s %s · %s · up to %d\n",
			marker,
			colorize(colorBold, e.Title),
			ago(e.Date),
			e.MaxParticipants,
		)
		if len(e.Tags) > 0 {
			printStatus(out, "Tags", "%s", strings.Join(e.Tags, ", "))
		}
	}
}
