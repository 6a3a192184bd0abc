package services

import (
	"context"
	"time"

	"github.com/klifeguard/emergency-finder/internal/domain/providers"
	"github.com/klifeguard/emergency-finder/internal/infrastructure/observability"
)

// ActivateResult is the response of an emergency activation.
type ActivateResult struct {
	Success              bool                  `json:"success"`
	Session              SessionSummary        `json:"session"`
	Navigation           Navigation            `json:"navigation"`
	GuardianNotification *GuardianNotification `json:"guardian_notification"`
	Monitoring           Monitoring            `json:"monitoring"`
	EmergencyTips        []string              `json:"emergency_tips"`
}

// SessionSummary describes a newly activated session.
type SessionSummary struct {
	ID           string `json:"id"`
	HospitalID   string `json:"hospital_id"`
	HospitalName string `json:"hospital_name"`
	ETAMinutes   int    `json:"eta_minutes"`
	ActivatedAt  string `json:"activated_at"`
	Status       string `json:"status"`
}

// Navigation carries the deep link into the navigation app.
type Navigation struct {
	KakaoNaviLink string `json:"kakao_navi_link"`
	Instruction   string `json:"instruction"`
}

// GuardianNotification reports the delivered (or simulated) guardian alert.
type GuardianNotification struct {
	Sent     bool                 `json:"sent"`
	Message  string               `json:"message"`
	Template NotificationTemplate `json:"template"`
}

// NotificationTemplate is the message template included in the response.
type NotificationTemplate struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// Monitoring describes the bed-status monitoring promise.
type Monitoring struct {
	BedCheckInterval string `json:"bed_check_interval"`
	Message          string `json:"message"`
}

// StatusResult is the response of a session status query.
type StatusResult struct {
	Success           bool               `json:"success"`
	ActiveEmergency   bool               `json:"active_emergency"`
	Message           string             `json:"message,omitempty"`
	Tip               string             `json:"tip,omitempty"`
	Session           *SessionStatus     `json:"session,omitempty"`
	RealtimeBedStatus *RealtimeBedStatus `json:"realtime_bed_status,omitempty"`
	Actions           *SessionActions    `json:"actions,omitempty"`
}

// SessionStatus describes an active session with elapsed-time accounting.
type SessionStatus struct {
	ID                string `json:"id"`
	HospitalID        string `json:"hospital_id"`
	HospitalName      string `json:"hospital_name"`
	Symptoms          string `json:"symptoms"`
	ActivatedAt       string `json:"activated_at"`
	ElapsedMinutes    int    `json:"elapsed_minutes"`
	OriginalETA       int    `json:"original_eta"`
	RemainingETA      int    `json:"remaining_eta"`
	GuardiansNotified bool   `json:"guardians_notified"`
}

// RealtimeBedStatus carries the destination hospital's live bed counts, or a
// message when the feed is unavailable.
type RealtimeBedStatus struct {
	EmergencyBeds *int   `json:"emergency_beds,omitempty"`
	OperationBeds *int   `json:"operation_beds,omitempty"`
	GeneralBeds   *int   `json:"general_beds,omitempty"`
	ICUBeds       *int   `json:"icu_beds,omitempty"`
	LastUpdated   string `json:"last_updated,omitempty"`
	Message       string `json:"message,omitempty"`
}

// SessionActions tells the caller how to proceed from an active session.
type SessionActions struct {
	Cancel         string `json:"cancel"`
	ChangeHospital string `json:"change_hospital"`
}

// SessionService activates emergency mode and reports session status.
type SessionService struct {
	store     providers.SessionStore
	directory providers.DirectoryProvider
	routes    providers.RouteProvider
	notifier  providers.GuardianNotifier
	now       func() time.Time
}

// NewSessionService creates the emergency session service.
func NewSessionService(
	store providers.SessionStore,
	directory providers.DirectoryProvider,
	routes providers.RouteProvider,
	notifier providers.GuardianNotifier,
) *SessionService {
	return &SessionService{
		store:     store,
		directory: directory,
		routes:    routes,
		notifier:  notifier,
		now:       time.Now,
	}
}

// Activate creates an emergency session for the chosen hospital, optionally
// notifies guardians, and returns the navigation deep link.
func (s *SessionService) Activate(ctx context.Context, hospitalID, hospitalName string, etaMinutes int, lat, lon float64, symptoms string, notifyGuardians bool) (*ActivateResult, error) {
	sess, err := s.store.Create(ctx, hospitalID, hospitalName, etaMinutes, lat, lon, symptoms)
	if err != nil {
		return nil, err
	}

	var notification *GuardianNotification
	if notifyGuardians {
		message, err := s.notifier.Notify(ctx, providers.GuardianNotification{
			HospitalName: hospitalName,
			ETAMinutes:   etaMinutes,
			Symptoms:     symptoms,
		})
		if err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Msg("guardian notification failed")
			notification = &GuardianNotification{
				Sent:    false,
				Message: "보호자 알림 발송에 실패했습니다.",
			}
		} else {
			notification = &GuardianNotification{
				Sent:    true,
				Message: "보호자 알림이 발송되었습니다.",
				Template: NotificationTemplate{
					Type:    "location",
					Content: message,
				},
			}
			if err := s.store.MarkGuardiansNotified(ctx, sess.ID); err != nil {
				observability.LoggerFromContext(ctx).Warn().Err(err).Str("session_id", sess.ID).Msg("failed to mark guardians notified")
			}
		}
	}

	return &ActivateResult{
		Success: true,
		Session: SessionSummary{
			ID:           sess.ID,
			HospitalID:   hospitalID,
			HospitalName: hospitalName,
			ETAMinutes:   etaMinutes,
			ActivatedAt:  sess.ActivatedAt.UTC().Format(time.RFC3339),
			Status:       "ACTIVE",
		},
		Navigation: Navigation{
			KakaoNaviLink: s.routes.DeepLink(lat, lon, nil, ""),
			Instruction:   "카카오내비 앱이 설치되어 있다면 위 링크로 바로 길안내를 시작할 수 있습니다.",
		},
		GuardianNotification: notification,
		Monitoring: Monitoring{
			BedCheckInterval: "5분",
			Message:          "병상 상황이 변동되면 알려드립니다.",
		},
		EmergencyTips: []string{
			"안전벨트를 착용하세요.",
			"응급실 도착 시 증상을 명확히 전달하세요.",
			"신분증과 보험증을 준비하세요.",
		},
	}, nil
}

// Status reports the session with the id, or the latest session when id is
// empty, together with the destination's live bed availability.
func (s *SessionService) Status(ctx context.Context, sessionID string) (*StatusResult, error) {
	sess, err := s.store.GetOrLatest(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return &StatusResult{
			Success:         true,
			ActiveEmergency: false,
			Message:         "활성화된 응급 세션이 없습니다.",
			Tip:             "응급 상황 발생 시 lifeguard_search_emergency로 먼저 병원을 검색하세요.",
		}, nil
	}

	now := s.now()
	result := &StatusResult{
		Success:         true,
		ActiveEmergency: true,
		Session: &SessionStatus{
			ID:                sess.ID,
			HospitalID:        sess.HospitalID,
			HospitalName:      sess.HospitalName,
			Symptoms:          sess.Symptoms,
			ActivatedAt:       sess.ActivatedAt.UTC().Format(time.RFC3339),
			ElapsedMinutes:    sess.ElapsedMinutes(now),
			OriginalETA:       sess.ETAMinutes,
			RemainingETA:      sess.RemainingETA(now),
			GuardiansNotified: sess.GuardiansNotified,
		},
		Actions: &SessionActions{
			Cancel:         "세션을 취소하려면 새로운 검색을 시작하세요.",
			ChangeHospital: "lifeguard_search_emergency로 다른 병원을 검색할 수 있습니다.",
		},
	}

	statuses := s.directory.FetchBedStatus(ctx, []string{sess.HospitalID})
	if status, ok := statuses[sess.HospitalID]; ok {
		result.RealtimeBedStatus = &RealtimeBedStatus{
			EmergencyBeds: &status.EmergencyBeds,
			OperationBeds: &status.OperatingBeds,
			GeneralBeds:   &status.GeneralBeds,
			ICUBeds:       &status.ICUBeds,
			LastUpdated:   now.UTC().Format(time.RFC3339),
		}
	} else {
		result.RealtimeBedStatus = &RealtimeBedStatus{
			Message: "병상 정보를 가져올 수 없습니다.",
		}
	}

	return result, nil
}
