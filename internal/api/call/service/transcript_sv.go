package callService

import (
	"fmt"
	"strings"

	"MortgageIntake/internal/api/call"
	"MortgageIntake/internal/entity"
)

// mergeTranscript folds provider fragments into the ordered turn list.
// Providers resend partial utterances as they grow and replay whole
// batches in the end-of-call artifact, so each fragment is checked
// against every existing turn of the same role: an exact duplicate or
// shorter resend is skipped, a fragment that extends an existing turn
// replaces it in place, and only genuinely new text appends. Fragments
// with unknown roles or empty text are dropped. The second return
// reports whether anything changed.
func mergeTranscript(turns []entity.TranscriptTurn, fragments []call.TurnFragment) ([]entity.TranscriptTurn, bool) {
	changed := false

	for _, fragment := range fragments {
		role, ok := entity.NormalizeTurnRole(fragment.Role)
		if !ok {
			continue
		}
		text := strings.TrimSpace(fragment.Text())
		if text == "" {
			continue
		}

		matched := false
		for i := range turns {
			if turns[i].Role != role {
				continue
			}
			if turns[i].Text == text || strings.HasPrefix(turns[i].Text, text) {
				matched = true
				break
			}
			if strings.HasPrefix(text, turns[i].Text) {
				turns[i].Text = text
				matched = true
				changed = true
				break
			}
		}
		if matched {
			continue
		}

		turns = append(turns, entity.TranscriptTurn{Role: role, Text: text})
		changed = true
	}

	return turns, changed
}

// transcriptText flattens merged turns for the field extractor.
func transcriptText(turns []entity.TranscriptTurn) string {
	if len(turns) == 0 {
		return ""
	}

	var b strings.Builder
	for i, turn := range turns {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s: %s", turn.Role, turn.Text)
	}
	return b.String()
}
