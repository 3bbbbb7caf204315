package callService

import (
	"testing"

	"MortgageIntake/internal/api/call"
	"MortgageIntake/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestMergeTranscript_AppendsNewTurns(t *testing.T) {
	turns, changed := mergeTranscript(nil, []call.TurnFragment{
		{Role: "assistant", Message: "Hi, this is Alex."},
		{Role: "customer", Message: "Hello."},
	})

	assert.True(t, changed)
	assert.Equal(t, []entity.TranscriptTurn{
		{Role: entity.TurnRoleBot, Text: "Hi, this is Alex."},
		{Role: entity.TurnRoleUser, Text: "Hello."},
	}, turns)
}

func TestMergeTranscript_PrefixExtensionReplacesLastTurn(t *testing.T) {
	turns := []entity.TranscriptTurn{
		{Role: entity.TurnRoleUser, Text: "I make seventy"},
	}

	turns, changed := mergeTranscript(turns, []call.TurnFragment{
		{Role: "customer", Message: "I make seventy five thousand a year"},
	})

	assert.True(t, changed)
	assert.Len(t, turns, 1)
	assert.Equal(t, "I make seventy five thousand a year", turns[0].Text)
}

func TestMergeTranscript_ShorterResendIsSkipped(t *testing.T) {
	turns := []entity.TranscriptTurn{
		{Role: entity.TurnRoleUser, Text: "I make seventy five thousand a year"},
	}

	turns, changed := mergeTranscript(turns, []call.TurnFragment{
		{Role: "customer", Message: "I make seventy"},
	})

	assert.False(t, changed)
	assert.Len(t, turns, 1)
	assert.Equal(t, "I make seventy five thousand a year", turns[0].Text)
}

func TestMergeTranscript_ExactDuplicateIsSkipped(t *testing.T) {
	turns := []entity.TranscriptTurn{
		{Role: entity.TurnRoleBot, Text: "What is your annual income?"},
	}

	turns, changed := mergeTranscript(turns, []call.TurnFragment{
		{Role: "assistant", Message: "What is your annual income?"},
	})

	assert.False(t, changed)
	assert.Len(t, turns, 1)
}

func TestMergeTranscript_DivergentSameRoleTextAppends(t *testing.T) {
	turns := []entity.TranscriptTurn{
		{Role: entity.TurnRoleUser, Text: "Yes."},
	}

	turns, changed := mergeTranscript(turns, []call.TurnFragment{
		{Role: "customer", Message: "My address is 12 Main St."},
	})

	assert.True(t, changed)
	assert.Len(t, turns, 2)
}

func TestMergeTranscript_DropsEmptyAndUnknownRoles(t *testing.T) {
	turns, changed := mergeTranscript(nil, []call.TurnFragment{
		{Role: "system", Message: "internal prompt"},
		{Role: "customer", Message: "   "},
		{Role: "customer", Message: ""},
	})

	assert.False(t, changed)
	assert.Empty(t, turns)
}

func TestMergeTranscript_FullBatchReplayIsIdempotent(t *testing.T) {
	fragments := []call.TurnFragment{
		{Role: "assistant", Message: "Hi there."},
		{Role: "customer", Message: "Hello."},
		{Role: "assistant", Message: "What's your income?"},
	}

	turns, _ := mergeTranscript(nil, fragments)
	replayed, changed := mergeTranscript(turns, fragments)

	assert.False(t, changed)
	assert.Len(t, replayed, 3)
	assert.Equal(t, turns, replayed)
}

func TestMergeTranscript_ShorterResendOfEarlierTurnIsSkipped(t *testing.T) {
	turns := []entity.TranscriptTurn{
		{Role: entity.TurnRoleBot, Text: "What is your annual income?"},
		{Role: entity.TurnRoleUser, Text: "Seventy five thousand."},
	}

	turns, changed := mergeTranscript(turns, []call.TurnFragment{
		{Role: "assistant", Message: "What is your annual"},
	})

	assert.False(t, changed)
	assert.Len(t, turns, 2)
}

func TestMergeTranscript_ExtensionOfEarlierTurnReplacesInPlace(t *testing.T) {
	turns := []entity.TranscriptTurn{
		{Role: entity.TurnRoleUser, Text: "I make seventy"},
		{Role: entity.TurnRoleBot, Text: "Go on."},
	}

	turns, changed := mergeTranscript(turns, []call.TurnFragment{
		{Role: "customer", Message: "I make seventy five thousand a year"},
	})

	assert.True(t, changed)
	assert.Len(t, turns, 2)
	assert.Equal(t, "I make seventy five thousand a year", turns[0].Text)
	assert.Equal(t, "Go on.", turns[1].Text)
}

func TestMergeTranscript_ContentFieldFallback(t *testing.T) {
	turns, changed := mergeTranscript(nil, []call.TurnFragment{
		{Role: "assistant", Content: "Spoken via content field"},
	})

	assert.True(t, changed)
	assert.Equal(t, "Spoken via content field", turns[0].Text)
}

func TestTranscriptText(t *testing.T) {
	turns := []entity.TranscriptTurn{
		{Role: entity.TurnRoleBot, Text: "What is your income?"},
		{Role: entity.TurnRoleUser, Text: "75000"},
	}

	assert.Equal(t, "bot: What is your income?\nuser: 75000", transcriptText(turns))
	assert.Equal(t, "", transcriptText(nil))
}
