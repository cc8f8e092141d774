package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/digitalabcs/textdecoder/internal/models"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
	labelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	warnStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	statusStyle = map[models.ConversationStatus]lipgloss.Style{
		models.StatusDraft:              lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		models.StatusSpeakersIdentified: lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		models.StatusSpeakersVerified:   lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		models.StatusAnalyzing:          lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		models.StatusAnalyzed:           lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		models.StatusError:              lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
)

// statusBadge renders a conversation status with its color.
func statusBadge(s models.ConversationStatus) string {
	style, ok := statusStyle[s]
	if !ok {
		return string(s)
	}
	return style.Render(string(s))
}

// speakerChip renders a speaker name in the speaker's deterministic color.
func speakerChip(sp models.Speaker) string {
	hex := fmt.Sprintf("#%06X", sp.ColorValue&0xFFFFFF)
	name := sp.Label()
	if sp.IsUser {
		name += " (you)"
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(hex)).Render(name)
}

// chipByID renders the chip for a speaker id, falling back to the stored name.
func chipByID(conv *models.Conversation, m models.Message) string {
	if sp, ok := conv.SpeakerByID(m.SpeakerID); ok {
		return speakerChip(*sp)
	}
	return m.SpeakerName
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func bullets(items []string, indent string) string {
	var b strings.Builder
	for _, it := range items {
		b.WriteString(indent)
		b.WriteString("- ")
		b.WriteString(it)
		b.WriteByte('\n')
	}
	return b.String()
}
