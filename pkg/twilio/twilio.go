package twilio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type ITwilioSender interface {
	SendSMS(ctx context.Context, phoneNumber, message string) (string, error)
}

type twilioSender struct {
	accountSID string
	authToken  string
	fromNumber string
	baseURL    string
	httpClient *http.Client
	log        *logrus.Logger
}

func New(log *logrus.Logger) ITwilioSender {
	baseURL := os.Getenv("TWILIO_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.twilio.com"
	}

	return &twilioSender{
		accountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		authToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		fromNumber: os.Getenv("TWILIO_PHONE_NUMBER"),
		baseURL:    baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

type messageResponse struct {
	SID          string `json:"sid"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

func (t *twilioSender) SendSMS(ctx context.Context, phoneNumber, message string) (string, error) {
	if t.accountSID == "" || t.authToken == "" {
		return "", fmt.Errorf("twilio credentials are not configured")
	}

	form := url.Values{}
	form.Set("To", phoneNumber)
	form.Set("From", t.fromNumber)
	form.Set("Body", message)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", t.baseURL, t.accountSID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(t.accountSID, t.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sms request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var msgResp messageResponse
	if err := json.Unmarshal(body, &msgResp); err != nil {
		return "", fmt.Errorf("failed to decode sms response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		t.log.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"error":  msgResp.ErrorMessage,
		}).Error("SMS rejected by provider")
		return "", fmt.Errorf("sms send failed with status %d", resp.StatusCode)
	}

	t.log.WithFields(logrus.Fields{
		"sid": msgResp.SID,
		"to":  phoneNumber,
	}).Info("SMS sent successfully")

	return msgResp.SID, nil
}
