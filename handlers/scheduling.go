package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"clinicore/models"
	"clinicore/services/scheduling"
	"clinicore/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SchedulingHandler exposes the availability and booking engine over HTTP.
type SchedulingHandler struct {
	Engine scheduling.SchedulingEngine
	Logger *zap.Logger
}

// NewSchedulingHandler constructs a SchedulingHandler.
func NewSchedulingHandler(engine scheduling.SchedulingEngine, logger *zap.Logger) *SchedulingHandler {
	return &SchedulingHandler{Engine: engine, Logger: logger}
}

// GetAvailability handles GET /api/scheduling/availability.
func (h *SchedulingHandler) GetAvailability(c *gin.Context) {
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid date", "from must be RFC3339")
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid date", "to must be RFC3339")
		return
	}

	req := scheduling.AvailabilityRequest{
		ProviderID:        c.Query("providerId"),
		AppointmentTypeID: c.Query("appointmentTypeId"),
		From:              from,
		To:                to,
	}
	if v := c.Query("granularityMinutes"); v != "" {
		granularity, err := strconv.Atoi(v)
		if err != nil || granularity <= 0 {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", "granularityMinutes must be a positive integer")
			return
		}
		req.GranularityMinutes = granularity
	}
	if v := c.Query("maxDays"); v != "" {
		maxDays, err := strconv.Atoi(v)
		if err != nil || maxDays <= 0 {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", "maxDays must be a positive integer")
			return
		}
		req.MaxDays = maxDays
	}

	report, err := h.Engine.GenerateAvailability(c.Request.Context(), req)
	if err != nil {
		h.respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

type bookAppointmentInput struct {
	PatientID         string    `json:"patientId"`
	ProviderIDs       []string  `json:"providerIds"`
	AppointmentTypeID string    `json:"appointmentTypeId"`
	StartUtc          time.Time `json:"startUtc"`
	EndUtc            time.Time `json:"endUtc"`
	Tentative         bool      `json:"tentative"`
}

// BookAppointment handles POST /api/scheduling/appointments.
func (h *SchedulingHandler) BookAppointment(c *gin.Context) {
	var input bookAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	appt, err := h.Engine.BookAppointment(c.Request.Context(), scheduling.BookingRequest{
		PatientID:         input.PatientID,
		ProviderIDs:       input.ProviderIDs,
		AppointmentTypeID: input.AppointmentTypeID,
		Start:             input.StartUtc,
		End:               input.EndUtc,
		Tentative:         input.Tentative,
	})
	if err != nil {
		h.respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"appointment": appt})
}

type batchCheckInput struct {
	ProviderID        string                 `json:"providerId"`
	AppointmentTypeID string                 `json:"appointmentTypeId"`
	TimeSlots         []models.CandidateSlot `json:"timeSlots"`
}

// BatchCheck handles POST /api/scheduling/availability/batch.
func (h *SchedulingHandler) BatchCheck(c *gin.Context) {
	var input batchCheckInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	results, err := h.Engine.BatchCheck(c.Request.Context(), scheduling.BatchCheckRequest{
		ProviderID:        input.ProviderID,
		AppointmentTypeID: input.AppointmentTypeID,
		TimeSlots:         input.TimeSlots,
	})
	if err != nil {
		h.respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// respondSchedulingError maps engine errors onto HTTP statuses:
// validation 400, not-found 404, business rejections 409, defects 500.
func (h *SchedulingHandler) respondSchedulingError(c *gin.Context, err error) {
	var (
		validationErr  *scheduling.ValidationError
		missingFields  *scheduling.MissingFieldsError
		invalidDate    *scheduling.InvalidDateError
		invalidRange   *scheduling.InvalidRangeError
		pastBooking    *scheduling.PastBookingError
		rangeTooLarge  *scheduling.RangeTooLargeError
		invalidTime    *scheduling.InvalidTimeFormatError
		notFound       *scheduling.NotFoundError
		inactiveProv   *scheduling.InactiveProviderError
		inactiveType   *scheduling.InactiveTypeError
		slotUnavail    *scheduling.SlotUnavailableError
		iterationError *scheduling.InternalIterationError
	)

	switch {
	case errors.As(err, &validationErr),
		errors.As(err, &missingFields),
		errors.As(err, &invalidDate),
		errors.As(err, &invalidRange),
		errors.As(err, &pastBooking),
		errors.As(err, &rangeTooLarge),
		errors.As(err, &invalidTime):
		utils.JSONError(c, http.StatusBadRequest, "invalid request", err.Error())
	case errors.As(err, &notFound):
		utils.JSONError(c, http.StatusNotFound, "not found", err.Error())
	case errors.As(err, &inactiveProv), errors.As(err, &inactiveType):
		utils.JSONError(c, http.StatusConflict, "resource inactive", err.Error())
	case errors.As(err, &slotUnavail):
		utils.JSONError(c, http.StatusConflict, "slot unavailable", err.Error())
	case errors.As(err, &iterationError):
		h.Logger.Error("scheduling iteration safety valve tripped", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "internal error", "availability computation failed")
	default:
		h.Logger.Error("scheduling request failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "internal error", "an unexpected error occurred")
	}
}
