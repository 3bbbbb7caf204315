package openai

import (
	"MortgageIntake/internal/entity"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sashabaranov/go-openai"
)

type IExtractor interface {
	ExtractApplicationFields(ctx context.Context, transcript string) (entity.CandidateRecord, error)
}

type extractorService struct {
	client *openai.Client
	model  string
}

func NewExtractor() IExtractor {
	apiKey := os.Getenv("OPENAI_API_KEY")
	model := os.Getenv("OPENAI_CHAT_MODEL")

	if model == "" {
		model = openai.GPT4o
	}

	return &extractorService{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

const extractionSystemPrompt = `You are a precise information extraction assistant. Return only valid JSON.`

const extractionPromptTemplate = `You are an expert at extracting structured information from call transcripts.
Analyze the following transcript and extract the requested information with exact formatting requirements.

TRANSCRIPT:
%s

Extract the following information. If any piece of information cannot be found in the transcript, leave that field blank ("").

EXTRACTION REQUIREMENTS:

1. Date of birth: Format as MM/DD/YYYY. For "April first 2004" write "04/01/2004". Be very careful with month/day conversion.
2. Loan amount: Extract as a number only (e.g., "250000" for $250,000)
3. Property address: Full address as mentioned (e.g., "123 Main Street, Boston, MA 02101")
4. Property value: Extract as a number only (e.g., "450000" for $450,000)
5. Mortgage balance: Extract as a number only (e.g., "180000" for $180,000)
6. Property usage: Must be exactly one of: "I live in it", "Second home", "Rented", "Other"
7. Employment type: Must be exactly one of: "Employed", "Self employed", "Retired", "Pension", "Unemployed"
8. Annual income: Extract as a number only (e.g., "75000" for $75,000)
9. What looking to do: Extract purpose like "Mortgage application", "Refinance", "Purchase", etc.

Return ONLY a valid JSON object with these exact keys:
{
    "date_of_birth": "",
    "loan_amount": "",
    "property_address": "",
    "property_value": "",
    "mortgage_balance": "",
    "property_usage": "",
    "employment_type": "",
    "annual_income": "",
    "what_looking_to_do": ""
}

Important:
- Use empty string "" for any information not found
- Numbers should be digits only (no commas, dollar signs, or decimals)
- Dates must be MM/DD/YYYY format
- Property usage and employment type must match the exact options provided
- Return only the JSON object, no other text`

// ExtractApplicationFields never blocks the persistence pipeline: an
// empty transcript or an API failure both yield an all-blank candidate
// together with the error for the caller to log.
func (e *extractorService) ExtractApplicationFields(ctx context.Context, transcript string) (entity.CandidateRecord, error) {
	if transcript == "" {
		return entity.CandidateRecord{}, nil
	}

	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: extractionSystemPrompt,
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: fmt.Sprintf(extractionPromptTemplate, transcript),
		},
	}

	resp, err := e.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       e.model,
			Messages:    messages,
			Temperature: 0.1,
			MaxTokens:   2000,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		},
	)

	if err != nil {
		return entity.CandidateRecord{}, fmt.Errorf("extraction API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return entity.CandidateRecord{}, fmt.Errorf("no response from extraction API")
	}

	var candidate entity.CandidateRecord
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &candidate); err != nil {
		return entity.CandidateRecord{}, fmt.Errorf("failed to parse extraction response: %w", err)
	}

	return candidate, nil
}
