package timesheet

import (
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// REQUEST DTOs
// ========================================

type IngestPunchRequest struct {
	EmployeeID string `json:"employee_id"`
	PunchedAt  string `json:"punched_at"`

	punchedAt time.Time
}

func (r *IngestPunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	if validator.IsEmpty(r.PunchedAt) {
		errs = append(errs, validator.ValidationError{
			Field:   "punched_at",
			Message: "punched_at is required",
		})
	} else if t, ok := validator.IsValidDateTime(r.PunchedAt); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "punched_at",
			Message: "punched_at must be an RFC3339 timestamp",
		})
	} else {
		r.punchedAt = t
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Time returns the parsed punch, valid after Validate succeeds.
func (r *IngestPunchRequest) Time() time.Time {
	return r.punchedAt
}

type RecalculateRequest struct {
	EmployeeID string `json:"employee_id"`
	From       string `json:"from"`
	To         string `json:"to"`
	Source     string `json:"source"`
}

func (r *RecalculateRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsEmpty(r.EmployeeID) && !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	from, fromOK := validator.IsValidDate(r.From)
	if !fromOK {
		errs = append(errs, validator.ValidationError{
			Field:   "from",
			Message: "from must use the YYYY-MM-DD format",
		})
	}
	to, toOK := validator.IsValidDate(r.To)
	if !toOK {
		errs = append(errs, validator.ValidationError{
			Field:   "to",
			Message: "to must use the YYYY-MM-DD format",
		})
	}
	if fromOK && toOK && to.Before(from) {
		errs = append(errs, validator.ValidationError{
			Field:   "to",
			Message: ErrInvalidDateRange.Error(),
		})
	}

	if r.Source != "" && !validator.IsInSlice(r.Source, EventSourceValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "source",
			Message: ErrUnknownEventSource.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToEvent converts a validated request. Dates are placed at midnight in loc.
func (r *RecalculateRequest) ToEvent(loc *time.Location) RecalculationEvent {
	from, _ := validator.IsValidDate(r.From)
	to, _ := validator.IsValidDate(r.To)
	source := SourceManual
	if r.Source != "" {
		source = EventSource(r.Source)
	}
	return RecalculationEvent{
		Source:     source,
		EmployeeID: r.EmployeeID,
		From:       time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc),
		To:         time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, loc),
	}
}

type ListEntriesRequest struct {
	EmployeeID string
	From       string
	To         string
}

func (r *ListEntriesRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}
	from, fromOK := validator.IsValidDate(r.From)
	if !fromOK {
		errs = append(errs, validator.ValidationError{
			Field:   "from",
			Message: "from must use the YYYY-MM-DD format",
		})
	}
	to, toOK := validator.IsValidDate(r.To)
	if !toOK {
		errs = append(errs, validator.ValidationError{
			Field:   "to",
			Message: "to must use the YYYY-MM-DD format",
		})
	}
	if fromOK && toOK {
		if to.Before(from) {
			errs = append(errs, validator.ValidationError{
				Field:   "to",
				Message: ErrInvalidDateRange.Error(),
			})
		} else if to.Sub(from) >= MaxRecalculationDays*24*time.Hour {
			errs = append(errs, validator.ValidationError{
				Field:   "to",
				Message: ErrDateRangeTooLong.Error(),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Range returns the validated bounds at midnight in loc.
func (r *ListEntriesRequest) Range(loc *time.Location) (time.Time, time.Time) {
	from, _ := validator.IsValidDate(r.From)
	to, _ := validator.IsValidDate(r.To)
	return time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc),
		time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, loc)
}

// ========================================
// RESPONSE DTOs
// ========================================

type EntryResponse struct {
	ID                  string  `json:"id"`
	EmployeeID          string  `json:"employee_id"`
	Date                string  `json:"date"`
	StartTime           *string `json:"start_time"`
	EndTime             *string `json:"end_time"`
	IsManuallyCorrected bool    `json:"is_manually_corrected"`
	DayType             string  `json:"day_type"`

	MorningHours     string `json:"morning_hours"`
	AfternoonHours   string `json:"afternoon_hours"`
	OfficialHours    string `json:"official_hours"`
	OTTC1Hours       string `json:"ot_tc1_hours"`
	OTTC2Hours       string `json:"ot_tc2_hours"`
	OTTC3Hours       string `json:"ot_tc3_hours"`
	OvertimeHours    string `json:"overtime_hours"`
	TotalWorkedHours string `json:"total_worked_hours"`

	ContractID         *string `json:"contract_id"`
	WageRate           string  `json:"wage_rate"`
	IsFullSalary       bool    `json:"is_full_salary"`
	IsExempt           bool    `json:"is_exempt"`
	AllowedLateMinutes int     `json:"allowed_late_minutes"`
	ApprovedOTStart    *string `json:"approved_ot_start_time"`
	ApprovedOTEnd      *string `json:"approved_ot_end_time"`
	ApprovedOTMinutes  int     `json:"approved_ot_minutes"`

	Status            *string `json:"status"`
	AbsentReason      *string `json:"absent_reason"`
	LateMinutes       int     `json:"late_minutes"`
	EarlyMinutes      int     `json:"early_minutes"`
	IsPunished        bool    `json:"is_punished"`
	WorkingDays       *string `json:"working_days"`
	CompensationValue string  `json:"compensation_value"`
	PaidLeaveDays     string  `json:"paid_leave_days"`
	IsClosed          bool    `json:"is_closed"`
}

func ToEntryResponse(e Entry) EntryResponse {
	resp := EntryResponse{
		ID:                  e.ID,
		EmployeeID:          e.EmployeeID,
		Date:                e.Date.Format("2006-01-02"),
		StartTime:           formatTime(e.StartTime, time.RFC3339),
		EndTime:             formatTime(e.EndTime, time.RFC3339),
		IsManuallyCorrected: e.IsManuallyCorrected,
		DayType:             string(e.DayType),
		MorningHours:        fixed(e.MorningHours),
		AfternoonHours:      fixed(e.AfternoonHours),
		OfficialHours:       fixed(e.OfficialHours),
		OTTC1Hours:          fixed(e.OTTC1Hours),
		OTTC2Hours:          fixed(e.OTTC2Hours),
		OTTC3Hours:          fixed(e.OTTC3Hours),
		OvertimeHours:       fixed(e.OvertimeHours),
		TotalWorkedHours:    fixed(e.TotalWorkedHours),
		ContractID:          e.ContractID,
		WageRate:            fixed(e.WageRate),
		IsFullSalary:        e.IsFullSalary,
		IsExempt:            e.IsExempt,
		AllowedLateMinutes:  e.AllowedLateMinutes,
		ApprovedOTStart:     formatTime(e.ApprovedOTStartTime, "15:04"),
		ApprovedOTEnd:       formatTime(e.ApprovedOTEndTime, "15:04"),
		ApprovedOTMinutes:   e.ApprovedOTMinutes,
		LateMinutes:         e.LateMinutes,
		EarlyMinutes:        e.EarlyMinutes,
		IsPunished:          e.IsPunished,
		CompensationValue:   fixed(e.CompensationValue),
		PaidLeaveDays:       fixed(e.PaidLeaveDays),
		IsClosed:            e.IsClosed,
	}
	if e.Status != nil {
		s := string(*e.Status)
		resp.Status = &s
	}
	if e.AbsentReason != nil {
		s := string(*e.AbsentReason)
		resp.AbsentReason = &s
	}
	if e.WorkingDays != nil {
		s := fixed(*e.WorkingDays)
		resp.WorkingDays = &s
	}
	return resp
}

type MonthlyTimesheetResponse struct {
	EmployeeID string `json:"employee_id"`
	MonthKey   string `json:"month_key"`

	ProbationWorkingDays string `json:"probation_working_days"`
	OfficialWorkingDays  string `json:"official_working_days"`
	TotalWorkingDays     string `json:"total_working_days"`
	OfficialHours        string `json:"official_hours"`
	OvertimeHours        string `json:"overtime_hours"`
	TotalWorkedHours     string `json:"total_worked_hours"`

	LeaveDays map[string]int `json:"leave_days"`

	TotalLateMinutes  int    `json:"total_late_minutes"`
	TotalEarlyMinutes int    `json:"total_early_minutes"`
	PunishedDays      int    `json:"punished_days"`
	SinglePunchDays   int    `json:"single_punch_days"`
	CompensatoryDebt  string `json:"compensatory_debt"`

	CarriedOverLeave        string `json:"carried_over_leave"`
	OpeningBalanceLeaveDays string `json:"opening_balance_leave_days"`
	GeneratedLeaveDays      string `json:"generated_leave_days"`
	ConsumedLeaveDays       string `json:"consumed_leave_days"`
	RemainingLeaveDays      string `json:"remaining_leave_days"`

	NeedRefresh bool   `json:"need_refresh"`
	UpdatedAt   string `json:"updated_at"`
}

func ToMonthlyResponse(m MonthlyTimesheet) MonthlyTimesheetResponse {
	return MonthlyTimesheetResponse{
		EmployeeID:           m.EmployeeID,
		MonthKey:             m.MonthKey,
		ProbationWorkingDays: fixed(m.ProbationWorkingDays),
		OfficialWorkingDays:  fixed(m.OfficialWorkingDays),
		TotalWorkingDays:     fixed(m.TotalWorkingDays),
		OfficialHours:        fixed(m.OfficialHours),
		OvertimeHours:        fixed(m.OvertimeHours),
		TotalWorkedHours:     fixed(m.TotalWorkedHours),
		LeaveDays: map[string]int{
			string(AbsentReasonPaidLeave):      m.PaidLeaveDays,
			string(AbsentReasonUnpaidLeave):    m.UnpaidLeaveDays,
			string(AbsentReasonMaternityLeave): m.MaternityLeaveDays,
			string(AbsentReasonPublicHoliday):  m.PublicHolidayDays,
			string(AbsentReasonUnexcused):      m.UnexcusedDays,
		},
		TotalLateMinutes:        m.TotalLateMinutes,
		TotalEarlyMinutes:       m.TotalEarlyMinutes,
		PunishedDays:            m.PunishedDays,
		SinglePunchDays:         m.SinglePunchDays,
		CompensatoryDebt:        fixed(m.CompensatoryDebt),
		CarriedOverLeave:        fixed(m.CarriedOverLeave),
		OpeningBalanceLeaveDays: fixed(m.OpeningBalanceLeaveDays),
		GeneratedLeaveDays:      fixed(m.GeneratedLeaveDays),
		ConsumedLeaveDays:       fixed(m.ConsumedLeaveDays),
		RemainingLeaveDays:      fixed(m.RemainingLeaveDays),
		NeedRefresh:             m.NeedRefresh,
		UpdatedAt:               m.UpdatedAt.Format(time.RFC3339),
	}
}

type RecalculationResponse struct {
	Source    string `json:"source"`
	Processed int    `json:"processed"`
	Failed    int    `json:"failed"`
}

func formatTime(t *time.Time, layout string) *string {
	if t == nil {
		return nil
	}
	s := t.Format(layout)
	return &s
}

func fixed(d decimal.Decimal) string {
	return d.StringFixed(2)
}
