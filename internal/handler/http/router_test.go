package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/proposal"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type stubTimesheetService struct {
	punches     []timesheet.IngestPunchRequest
	recalcs     []timesheet.RecalculateRequest
	listReq     timesheet.ListEntriesRequest
	monthlyArgs []string
	err         error
}

func (s *stubTimesheetService) IngestPunch(_ context.Context, req timesheet.IngestPunchRequest) (timesheet.EntryResponse, error) {
	s.punches = append(s.punches, req)
	return timesheet.EntryResponse{EmployeeID: req.EmployeeID}, s.err
}

func (s *stubTimesheetService) Recalculate(_ context.Context, req timesheet.RecalculateRequest) (timesheet.RecalculationResponse, error) {
	s.recalcs = append(s.recalcs, req)
	return timesheet.RecalculationResponse{Source: req.Source, Processed: 3}, s.err
}

func (s *stubTimesheetService) ListEntries(_ context.Context, req timesheet.ListEntriesRequest) ([]timesheet.EntryResponse, error) {
	s.listReq = req
	return []timesheet.EntryResponse{}, s.err
}

func (s *stubTimesheetService) GetMonthly(_ context.Context, employeeID, monthKey string) (timesheet.MonthlyTimesheetResponse, error) {
	s.monthlyArgs = []string{employeeID, monthKey}
	return timesheet.MonthlyTimesheetResponse{EmployeeID: employeeID, MonthKey: monthKey}, s.err
}

func (s *stubTimesheetService) RefreshMonthly(ctx context.Context, employeeID, monthKey string) (timesheet.MonthlyTimesheetResponse, error) {
	return s.GetMonthly(ctx, employeeID, monthKey)
}

type stubProposalService struct {
	executed []string
	err      error
}

func (s *stubProposalService) Execute(_ context.Context, id string) (proposal.ExecutionResponse, error) {
	s.executed = append(s.executed, id)
	return proposal.ExecutionResponse{ProposalID: id}, s.err
}

func (s *stubProposalService) Revoke(_ context.Context, id string) (proposal.ExecutionResponse, error) {
	return proposal.ExecutionResponse{ProposalID: id}, s.err
}

type stubScheduleService struct {
	upserted []schedule.UpsertWorkScheduleRequest
}

func (s *stubScheduleService) ListWorkSchedules(context.Context) ([]schedule.WorkScheduleResponse, error) {
	return []schedule.WorkScheduleResponse{}, nil
}

func (s *stubScheduleService) UpsertWorkSchedule(_ context.Context, req schedule.UpsertWorkScheduleRequest) (schedule.WorkScheduleResponse, error) {
	s.upserted = append(s.upserted, req)
	return schedule.WorkScheduleResponse{Weekday: req.Weekday}, nil
}

type routerFixture struct {
	router    *chi.Mux
	jwt       *jwt.JWTService
	timesheet *stubTimesheetService
	proposal  *stubProposalService
	schedule  *stubScheduleService
}

func newRouterFixture() *routerFixture {
	f := &routerFixture{
		jwt:       jwt.NewJWTService(handlerTestSecret, time.Hour),
		timesheet: &stubTimesheetService{},
		proposal:  &stubProposalService{},
		schedule:  &stubScheduleService{},
	}
	f.router = NewRouter(
		RouterOptions{Env: "test", Version: "test", LogLevel: slog.LevelError},
		f.jwt,
		NewTimesheetHandler(f.timesheet),
		NewProposalHandler(f.proposal),
		NewScheduleHandler(f.schedule),
	)
	return f
}

func (f *routerFixture) do(t *testing.T, method, path string, role jwt.Role, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		token, _, err := f.jwt.GenerateAccessToken("caller", role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRouter_RequiresToken(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(t, http.MethodPost, "/api/v1/timesheets/punches", "", timesheet.IngestPunchRequest{EmployeeID: "e-1"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, f.timesheet.punches)
}

func TestRouter_IngestPunch(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(t, http.MethodPost, "/api/v1/timesheets/punches", jwt.RoleService, map[string]string{
		"employee_id": "e-1",
		"punched_at":  "2024-03-04T08:01:00+07:00",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, f.timesheet.punches, 1)
	assert.Equal(t, "2024-03-04T08:01:00+07:00", f.timesheet.punches[0].PunchedAt)
	assert.True(t, decodeResponse(t, rec).Success)
}

func TestRouter_IngestPunch_BadBody(t *testing.T) {
	f := newRouterFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/timesheets/punches", bytes.NewBufferString("{"))
	token, _, err := f.jwt.GenerateAccessToken("device", jwt.RoleService)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_RecalculateIsAdminOnly(t *testing.T) {
	f := newRouterFixture()
	body := map[string]string{"from": "2024-03-01", "to": "2024-03-31", "source": "manual"}

	rec := f.do(t, http.MethodPost, "/api/v1/timesheets/recalculate", jwt.RoleService, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, f.timesheet.recalcs)

	rec = f.do(t, http.MethodPost, "/api/v1/timesheets/recalculate", jwt.RoleAdmin, body)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, f.timesheet.recalcs, 1)
	assert.Equal(t, "manual", f.timesheet.recalcs[0].Source)
}

func TestRouter_ListEntries(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(t, http.MethodGet, "/api/v1/timesheets/employees/e-7/entries?from=2024-03-01&to=2024-03-15", jwt.RoleService, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, timesheet.ListEntriesRequest{EmployeeID: "e-7", From: "2024-03-01", To: "2024-03-15"}, f.timesheet.listReq)
}

func TestRouter_MonthlyNotFound(t *testing.T) {
	f := newRouterFixture()
	f.timesheet.err = timesheet.ErrMonthlyTimesheetNotFound

	rec := f.do(t, http.MethodGet, "/api/v1/timesheets/employees/e-7/monthly/202403", jwt.RoleService, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, []string{"e-7", "202403"}, f.timesheet.monthlyArgs)
}

func TestRouter_ExecuteProposal(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(t, http.MethodPost, "/api/v1/proposals/p-1/execute", jwt.RoleService, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"p-1"}, f.proposal.executed)

	f.proposal.err = proposal.ErrProposalNotApproved
	rec = f.do(t, http.MethodPost, "/api/v1/proposals/p-2/execute", jwt.RoleService, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRouter_UpsertWorkSchedule(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(t, http.MethodPut, "/api/v1/work-schedules/1", jwt.RoleAdmin, map[string]interface{}{
		"morning_start":       "08:00",
		"morning_end":         "12:00",
		"is_morning_required": true,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, f.schedule.upserted, 1)
	assert.Equal(t, 1, f.schedule.upserted[0].Weekday)

	rec = f.do(t, http.MethodPut, "/api/v1/work-schedules/monday", jwt.RoleAdmin, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
