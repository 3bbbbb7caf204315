package vapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

type PlaceCallRequest struct {
	ApplicationID string
	AgentName     string
	BrokerageName string
	FirstName     string
	LastName      string
	Email         string
	PhoneNumber   string
	Interest      string
	// EarliestAt, when set, schedules the call instead of placing it
	// immediately.
	EarliestAt time.Time
}

type IVapi interface {
	PlaceCall(ctx context.Context, req PlaceCallRequest) (string, error)
}

type vapiClient struct {
	apiKey        string
	assistantID   string
	phoneNumberID string
	baseURL       string
	httpClient    *http.Client
	log           *logrus.Logger
}

func New(log *logrus.Logger) IVapi {
	baseURL := os.Getenv("VAPI_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.vapi.ai"
	}

	return &vapiClient{
		apiKey:        os.Getenv("VAPI_API_PRIVATE_KEY"),
		assistantID:   os.Getenv("VAPI_ASSISTANT_ID"),
		phoneNumberID: os.Getenv("VAPI_PHONE_NUMBER_ID"),
		baseURL:       baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: log,
	}
}

type callPayload struct {
	AssistantID        string             `json:"assistantId"`
	PhoneNumberID      string             `json:"phoneNumberId"`
	Customer           customerPayload    `json:"customer"`
	AssistantOverrides assistantOverrides `json:"assistantOverrides"`
	SchedulePlan       *schedulePlan      `json:"schedulePlan,omitempty"`
}

type customerPayload struct {
	Number string `json:"number"`
}

type assistantOverrides struct {
	VariableValues map[string]string `json:"variableValues"`
}

type schedulePlan struct {
	EarliestAt string `json:"earliestAt"`
}

type callResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// PlaceCall asks the voice provider to dial the customer. The returned
// identifier keys all subsequent webhook events for the call. A timeout
// is an ordinary failure: no call id, error returned.
func (v *vapiClient) PlaceCall(ctx context.Context, req PlaceCallRequest) (string, error) {
	if v.apiKey == "" {
		return "", fmt.Errorf("VAPI_API_PRIVATE_KEY is not configured")
	}

	number := req.PhoneNumber
	if len(number) > 0 && number[0] != '+' {
		number = "+" + number
	}

	payload := callPayload{
		AssistantID:   v.assistantID,
		PhoneNumberID: v.phoneNumberID,
		Customer:      customerPayload{Number: number},
		AssistantOverrides: assistantOverrides{
			VariableValues: map[string]string{
				"application_id":      req.ApplicationID,
				"mortgage_agent_name": req.AgentName,
				"brokerage_name":      req.BrokerageName,
				"first_name":          req.FirstName,
				"last_name":           req.LastName,
				"email":               req.Email,
				"phone_number":        number,
				"interest":            req.Interest,
			},
		},
	}

	if !req.EarliestAt.IsZero() {
		payload.SchedulePlan = &schedulePlan{
			EarliestAt: req.EarliestAt.UTC().Format(time.RFC3339),
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal call payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+"/call/phone", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+v.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := v.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("call request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		v.log.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"body":   string(respBody),
		}).Error("Call placement rejected by provider")
		return "", fmt.Errorf("call placement failed with status %d", resp.StatusCode)
	}

	var callResp callResponse
	if err := json.Unmarshal(respBody, &callResp); err != nil {
		return "", fmt.Errorf("failed to decode call response: %w", err)
	}

	if callResp.ID == "" {
		return "", fmt.Errorf("no call id in provider response")
	}

	v.log.WithFields(logrus.Fields{
		"call_id": callResp.ID,
		"status":  callResp.Status,
	}).Info("Call placed successfully")

	return callResp.ID, nil
}
