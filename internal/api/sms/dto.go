package sms

type InboundSMSRequest struct {
	From       string `form:"From"`
	To         string `form:"To"`
	Body       string `form:"Body"`
	MessageSid string `form:"MessageSid"`
}

type SendFirstSMSRequest struct {
	Phone   string `json:"phone" validate:"required"`
	Message string `json:"message,omitempty"`
}

type SendFirstSMSResponse struct {
	Success    bool   `json:"success"`
	MessageSID string `json:"message_sid,omitempty"`
}

type ConversationResponse struct {
	Phone    string      `json:"phone"`
	Messages interface{} `json:"messages"`
	Count    int         `json:"count"`
}
