package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/klifeguard/emergency-finder/internal/domain/entities"
	"github.com/klifeguard/emergency-finder/internal/domain/providers"
)

type stubSessionStore struct {
	sessions map[string]*entities.EmergencySession
	latest   *entities.EmergencySession
	marked   []string
	nextID   string
}

func (s *stubSessionStore) Create(_ context.Context, hospitalID, hospitalName string, etaMinutes int, lat, lon float64, symptoms string) (*entities.EmergencySession, error) {
	sess := &entities.EmergencySession{
		ID:            s.nextID,
		HospitalID:    hospitalID,
		HospitalName:  hospitalName,
		ETAMinutes:    etaMinutes,
		ActivatedAt:   time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC),
		UserLatitude:  lat,
		UserLongitude: lon,
		Symptoms:      symptoms,
	}
	if s.sessions == nil {
		s.sessions = make(map[string]*entities.EmergencySession)
	}
	s.sessions[sess.ID] = sess
	s.latest = sess
	return sess, nil
}

func (s *stubSessionStore) Get(_ context.Context, id string) (*entities.EmergencySession, error) {
	return s.sessions[id], nil
}

func (s *stubSessionStore) Latest(context.Context) (*entities.EmergencySession, error) {
	return s.latest, nil
}

func (s *stubSessionStore) GetOrLatest(ctx context.Context, id string) (*entities.EmergencySession, error) {
	if id != "" {
		return s.Get(ctx, id)
	}
	return s.Latest(ctx)
}

func (s *stubSessionStore) MarkGuardiansNotified(_ context.Context, id string) error {
	s.marked = append(s.marked, id)
	if sess, ok := s.sessions[id]; ok {
		sess.GuardiansNotified = true
	}
	return nil
}

type stubBedDirectory struct {
	statuses map[string]entities.BedStatus
}

func (s *stubBedDirectory) FindHospitals(context.Context, float64, float64, float64) []*entities.Hospital {
	return nil
}

func (s *stubBedDirectory) FetchBedStatus(context.Context, []string) map[string]entities.BedStatus {
	return s.statuses
}

func (s *stubBedDirectory) FindPharmacies(context.Context, float64, float64, float64) []*entities.Pharmacy {
	return nil
}

type stubRoutes struct{}

func (stubRoutes) FetchETA(context.Context, float64, float64, float64, float64) *int { return nil }

func (stubRoutes) AnnotateETAs(context.Context, float64, float64, []*entities.Hospital) {}

func (stubRoutes) DeepLink(userLat, userLon float64, _ *entities.Location, _ string) string {
	return "kakaomap://route?sp=37.566500,126.978000&by=CAR"
}

type stubNotifier struct {
	message string
	err     error
	calls   int
}

func (s *stubNotifier) Notify(_ context.Context, n providers.GuardianNotification) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.message, nil
}

func newSessionTestService(store *stubSessionStore, dir *stubBedDirectory, notifier *stubNotifier) *SessionService {
	svc := NewSessionService(store, dir, stubRoutes{}, notifier)
	// Twelve minutes after the stub store's activation time.
	svc.now = func() time.Time { return time.Date(2025, 3, 5, 10, 12, 0, 0, time.UTC) }
	return svc
}

func TestActivate_NotifiesGuardians(t *testing.T) {
	store := &stubSessionStore{nextID: "ER-test-1"}
	notifier := &stubNotifier{message: "[응급상황 알림] 이동 중"}
	svc := newSessionTestService(store, &stubBedDirectory{}, notifier)

	result, err := svc.Activate(context.Background(), "A1100001", "서울중앙병원", 15, 37.5665, 126.978, "가슴통증", true)

	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "ER-test-1", result.Session.ID)
	assert.Equal(t, "ACTIVE", result.Session.Status)
	assert.Equal(t, 15, result.Session.ETAMinutes)

	assert.Equal(t, 1, notifier.calls)
	assert.NotNil(t, result.GuardianNotification)
	assert.True(t, result.GuardianNotification.Sent)
	assert.Equal(t, "location", result.GuardianNotification.Template.Type)
	assert.Equal(t, notifier.message, result.GuardianNotification.Template.Content)
	assert.Equal(t, []string{"ER-test-1"}, store.marked)

	assert.Contains(t, result.Navigation.KakaoNaviLink, "kakaomap://route")
	assert.Equal(t, "5분", result.Monitoring.BedCheckInterval)
	assert.Len(t, result.EmergencyTips, 3)
}

func TestActivate_SkipsNotificationWhenDisabled(t *testing.T) {
	store := &stubSessionStore{nextID: "ER-test-2"}
	notifier := &stubNotifier{message: "msg"}
	svc := newSessionTestService(store, &stubBedDirectory{}, notifier)

	result, err := svc.Activate(context.Background(), "A1100001", "서울중앙병원", 15, 37.5665, 126.978, "가슴통증", false)

	assert.NoError(t, err)
	assert.Equal(t, 0, notifier.calls)
	assert.Nil(t, result.GuardianNotification)
	assert.Empty(t, store.marked)
}

func TestActivate_NotificationFailureIsNotFatal(t *testing.T) {
	store := &stubSessionStore{nextID: "ER-test-3"}
	notifier := &stubNotifier{err: errors.New("kakao unavailable")}
	svc := newSessionTestService(store, &stubBedDirectory{}, notifier)

	result, err := svc.Activate(context.Background(), "A1100001", "서울중앙병원", 15, 37.5665, 126.978, "가슴통증", true)

	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.NotNil(t, result.GuardianNotification)
	assert.False(t, result.GuardianNotification.Sent)
	assert.Empty(t, store.marked)
}

func TestStatus_ActiveSession(t *testing.T) {
	store := &stubSessionStore{nextID: "ER-test-4"}
	dir := &stubBedDirectory{statuses: map[string]entities.BedStatus{
		"A1100001": {EmergencyBeds: 3, OperatingBeds: 1, GeneralBeds: 12, ICUBeds: 2},
	}}
	svc := newSessionTestService(store, dir, &stubNotifier{})

	_, err := svc.Activate(context.Background(), "A1100001", "서울중앙병원", 25, 37.5665, 126.978, "가슴통증", false)
	assert.NoError(t, err)

	result, err := svc.Status(context.Background(), "ER-test-4")

	assert.NoError(t, err)
	assert.True(t, result.ActiveEmergency)
	assert.Equal(t, 12, result.Session.ElapsedMinutes)
	assert.Equal(t, 25, result.Session.OriginalETA)
	assert.Equal(t, 13, result.Session.RemainingETA)

	assert.NotNil(t, result.RealtimeBedStatus)
	assert.Equal(t, 3, *result.RealtimeBedStatus.EmergencyBeds)
	assert.Equal(t, 2, *result.RealtimeBedStatus.ICUBeds)
	assert.Empty(t, result.RealtimeBedStatus.Message)
	assert.NotNil(t, result.Actions)
}

func TestStatus_RemainingETAFloorsAtZero(t *testing.T) {
	store := &stubSessionStore{nextID: "ER-test-5"}
	svc := newSessionTestService(store, &stubBedDirectory{}, &stubNotifier{})

	_, err := svc.Activate(context.Background(), "A1100001", "서울중앙병원", 5, 37.5665, 126.978, "가슴통증", false)
	assert.NoError(t, err)

	result, err := svc.Status(context.Background(), "")

	assert.NoError(t, err)
	assert.Equal(t, 0, result.Session.RemainingETA)
}

func TestStatus_FallsBackToLatestSession(t *testing.T) {
	store := &stubSessionStore{nextID: "ER-test-6"}
	svc := newSessionTestService(store, &stubBedDirectory{}, &stubNotifier{})

	_, err := svc.Activate(context.Background(), "A1100001", "서울중앙병원", 20, 37.5665, 126.978, "복통", false)
	assert.NoError(t, err)

	result, err := svc.Status(context.Background(), "")

	assert.NoError(t, err)
	assert.True(t, result.ActiveEmergency)
	assert.Equal(t, "ER-test-6", result.Session.ID)
}

func TestStatus_NoActiveSession(t *testing.T) {
	svc := newSessionTestService(&stubSessionStore{}, &stubBedDirectory{}, &stubNotifier{})

	result, err := svc.Status(context.Background(), "")

	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.False(t, result.ActiveEmergency)
	assert.Equal(t, "활성화된 응급 세션이 없습니다.", result.Message)
	assert.NotEmpty(t, result.Tip)
	assert.Nil(t, result.Session)
}

func TestStatus_BedStatusUnavailable(t *testing.T) {
	store := &stubSessionStore{nextID: "ER-test-7"}
	svc := newSessionTestService(store, &stubBedDirectory{}, &stubNotifier{})

	_, err := svc.Activate(context.Background(), "A1100001", "서울중앙병원", 20, 37.5665, 126.978, "복통", false)
	assert.NoError(t, err)

	result, err := svc.Status(context.Background(), "")

	assert.NoError(t, err)
	assert.NotNil(t, result.RealtimeBedStatus)
	assert.Equal(t, "병상 정보를 가져올 수 없습니다.", result.RealtimeBedStatus.Message)
	assert.Nil(t, result.RealtimeBedStatus.EmergencyBeds)
}

func TestStatus_GuardiansNotifiedFlag(t *testing.T) {
	store := &stubSessionStore{nextID: "ER-test-8"}
	notifier := &stubNotifier{message: "msg"}
	svc := newSessionTestService(store, &stubBedDirectory{}, notifier)

	_, err := svc.Activate(context.Background(), "A1100001", "서울중앙병원", 20, 37.5665, 126.978, "복통", true)
	assert.NoError(t, err)

	result, err := svc.Status(context.Background(), "ER-test-8")

	assert.NoError(t, err)
	assert.True(t, result.Session.GuardiansNotified)
}
