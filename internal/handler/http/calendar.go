package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/presenzo/presence-backend-go/internal/domain/calendar"
	"github.com/presenzo/presence-backend-go/internal/handler/http/response"
	"github.com/presenzo/presence-backend-go/internal/pkg/jwt"
)

type CalendarHandler interface {
	GetMonthly(w http.ResponseWriter, r *http.Request)
}

type calendarHandlerImpl struct {
	calendarService calendar.CalendarService
}

func NewCalendarHandler(calendarService calendar.CalendarService) CalendarHandler {
	return &calendarHandlerImpl{
		calendarService: calendarService,
	}
}

// GetMonthly implements CalendarHandler. Month selection accepts either
// ?month=YYYY-MM or separate ?year= and ?month= integers; defaults to the
// current month.
func (h *calendarHandlerImpl) GetMonthly(w http.ResponseWriter, r *http.Request) {
	requesterID, err := jwt.UserIDFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	year, month, ok := parseMonthParams(r)
	if !ok {
		response.BadRequest(w, "Invalid month selection, expected month=YYYY-MM", nil)
		return
	}

	req := calendar.MonthlyCalendarRequest{
		RequesterID:  requesterID,
		Year:         year,
		Month:        month,
		EmployeeID:   r.URL.Query().Get("employee_id"),
		DepartmentID: r.URL.Query().Get("department_id"),
	}

	result, err := h.calendarService.BuildMonthlyCalendar(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func parseMonthParams(r *http.Request) (int, int, bool) {
	if v := r.URL.Query().Get("month"); v != "" {
		if parsed, err := time.Parse("2006-01", v); err == nil {
			return parsed.Year(), int(parsed.Month()), true
		}
		// Fall through: month may be a bare integer alongside ?year=.
		m, errM := strconv.Atoi(v)
		y, errY := strconv.Atoi(r.URL.Query().Get("year"))
		if errM != nil || errY != nil {
			return 0, 0, false
		}
		return y, m, true
	}

	now := time.Now()
	return now.Year(), int(now.Month()), true
}
