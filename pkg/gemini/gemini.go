package gemini

import (
	"MortgageIntake/internal/entity"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type IGemini interface {
	ExtractApplicationFields(ctx context.Context, transcript string) (entity.CandidateRecord, error)
}

type geminiClient struct {
	apiKey    string
	modelName string
	client    *genai.Client
}

func NewGeminiClient() (IGemini, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")

	modelName := os.Getenv("GEMINI_MODEL_NAME")
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	return &geminiClient{
		apiKey:    apiKey,
		modelName: modelName,
		client:    client,
	}, nil
}

const extractionPrompt = `Extract structured mortgage application information from this call transcript and return it as JSON.

TRANSCRIPT:
%s

Return ONLY a JSON object with these exact keys, blank string for anything not found:
{
	"date_of_birth": "MM/DD/YYYY or blank",
	"loan_amount": "digits only",
	"property_address": "full address",
	"property_value": "digits only",
	"mortgage_balance": "digits only",
	"property_usage": "one of: I live in it / Second home / Rented / Other",
	"employment_type": "one of: Employed / Self employed / Retired / Pension / Unemployed",
	"annual_income": "digits only",
	"what_looking_to_do": "e.g. Refinance, Purchase"
}
Respond with the JSON object only, no extra text.`

func (g *geminiClient) ExtractApplicationFields(ctx context.Context, transcript string) (entity.CandidateRecord, error) {
	if transcript == "" {
		return entity.CandidateRecord{}, nil
	}

	model := g.client.GenerativeModel(g.modelName)

	res, err := model.GenerateContent(ctx, genai.Text(fmt.Sprintf(extractionPrompt, transcript)))
	if err != nil {
		return entity.CandidateRecord{}, err
	}

	if len(res.Candidates) == 0 || len(res.Candidates[0].Content.Parts) == 0 {
		return entity.CandidateRecord{}, errors.New("no response from Gemini API")
	}

	text, ok := res.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return entity.CandidateRecord{}, errors.New("unexpected response format from Gemini API")
	}

	return parseGeminiResponse(string(text))
}

func parseGeminiResponse(response string) (entity.CandidateRecord, error) {
	jsonStart := strings.Index(response, "{")
	jsonEnd := strings.LastIndex(response, "}")

	if jsonStart == -1 || jsonEnd == -1 || jsonEnd <= jsonStart {
		return entity.CandidateRecord{}, errors.New("cannot find valid JSON in response")
	}

	jsonStr := response[jsonStart : jsonEnd+1]

	var candidate entity.CandidateRecord
	if err := json.Unmarshal([]byte(jsonStr), &candidate); err != nil {
		return entity.CandidateRecord{}, err
	}

	return candidate, nil
}

func (g *geminiClient) Close() {
	if g.client != nil {
		g.client.Close()
	}
}
