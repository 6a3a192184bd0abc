// Package notifications delivers guardian alerts when emergency mode is
// activated.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/klifeguard/emergency-finder/internal/domain/providers"
)

const defaultKakaoAPIBaseURL = "https://kapi.kakao.com"

// renderMessage builds the notification text shared by every sender.
func renderMessage(n providers.GuardianNotification) string {
	return fmt.Sprintf("[응급상황 알림]\n환자가 %s(으)로 이동 중입니다.\n예상 도착: %d분\n증상: %s",
		n.HospitalName, n.ETAMinutes, n.Symptoms)
}

// KakaoTalkSender sends guardian alerts through the KakaoTalk message API.
type KakaoTalkSender struct {
	accessToken string
	httpClient  *http.Client
	baseURL     string
}

// NewKakaoTalkSender creates a KakaoTalk guardian notifier.
func NewKakaoTalkSender(accessToken string) (*KakaoTalkSender, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("kakao access token must be set")
	}
	return &KakaoTalkSender{
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		baseURL:     defaultKakaoAPIBaseURL,
	}, nil
}

type kakaoTemplateObject struct {
	ObjectType string         `json:"object_type"`
	Text       string         `json:"text"`
	Link       kakaoLinkBlock `json:"link"`
}

type kakaoLinkBlock struct {
	WebURL string `json:"web_url,omitempty"`
}

type kakaoSendResponse struct {
	ResultCode int `json:"result_code"`
}

// Notify sends the alert as a text template message and returns the rendered
// message text.
func (k *KakaoTalkSender) Notify(ctx context.Context, n providers.GuardianNotification) (string, error) {
	text := renderMessage(n)

	template, err := json.Marshal(kakaoTemplateObject{
		ObjectType: "text",
		Text:       text,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode message template: %w", err)
	}

	form := url.Values{}
	form.Set("template_object", string(template))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		k.baseURL+"/v2/api/talk/memo/default/send", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build message request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+k.accessToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := k.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("message request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("message request returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload kakaoSendResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("failed to decode message response: %w", err)
	}
	if payload.ResultCode != 0 {
		return "", fmt.Errorf("message send rejected with result code %d", payload.ResultCode)
	}

	return text, nil
}

// SimulatedSender renders the notification without delivering it. It is the
// default when no KakaoTalk token is configured.
type SimulatedSender struct{}

// NewSimulatedSender creates a no-delivery guardian notifier.
func NewSimulatedSender() *SimulatedSender {
	return &SimulatedSender{}
}

// Notify returns the rendered message text without sending anything.
func (s *SimulatedSender) Notify(_ context.Context, n providers.GuardianNotification) (string, error) {
	return renderMessage(n), nil
}
