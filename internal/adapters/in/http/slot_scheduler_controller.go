package http

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/suchimauz/hms-slot-scheduler/internal/config"
	"github.com/suchimauz/hms-slot-scheduler/internal/core/domain"
	"github.com/suchimauz/hms-slot-scheduler/internal/core/json_types"
	"github.com/suchimauz/hms-slot-scheduler/internal/core/ports/in"
)

type SlotSchedulerController struct {
	useCase in.SlotSchedulerUseCase
	cfg     *config.Config
}

func NewSlotSchedulerController(useCase in.SlotSchedulerUseCase, cfg *config.Config) *SlotSchedulerController {
	return &SlotSchedulerController{
		useCase: useCase,
		cfg:     cfg,
	}
}

func (c *SlotSchedulerController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	api.Use(c.basicAuth())
	{
		api.GET("/schedules/:doctorId", c.getSchedule)
		api.PUT("/schedules/:doctorId", c.updateSchedule)
		api.GET("/slots/:doctorId/:date", c.getDaySlots)
		api.POST("/bookings/validate", c.validateBooking)
		api.POST("/bookings/validate-reschedule", c.validateReschedule)
		api.POST("/appointments/:appointmentId/transitions/validate", c.validateStatusTransition)
	}
}

type ValidateBookingRequest struct {
	DoctorID string `json:"doctorId" binding:"required"`
	Date     string `json:"date" binding:"required"`
	Time     string `json:"time" binding:"required"`
}

type ValidateRescheduleRequest struct {
	AppointmentID string `json:"appointmentId" binding:"required"`
	NewDate       string `json:"newDate" binding:"required"`
	NewTime       string `json:"newTime" binding:"required"`
}

type ValidateTransitionRequest struct {
	RequestedStatus string `json:"requestedStatus" binding:"required"`
}

func (c *SlotSchedulerController) getSchedule(ctx *gin.Context) {
	doctorID, err := uuid.Parse(ctx.Param("doctorId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid doctor ID format"})
		return
	}

	schedule, err := c.useCase.GetSchedule(ctx.Request.Context(), doctorID)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, schedule)
}

func (c *SlotSchedulerController) updateSchedule(ctx *gin.Context) {
	doctorID, err := uuid.Parse(ctx.Param("doctorId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid doctor ID format"})
		return
	}

	var schedule domain.DoctorSchedule
	if err := ctx.ShouldBindJSON(&schedule); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Владелец расписания определяется путем запроса, а не телом
	schedule.DoctorID = doctorID

	if err := c.useCase.UpdateSchedule(ctx.Request.Context(), schedule); err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, schedule)
}

func (c *SlotSchedulerController) getDaySlots(ctx *gin.Context) {
	doctorID, err := uuid.Parse(ctx.Param("doctorId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid doctor ID format"})
		return
	}

	date, err := json_types.ParseDate(ctx.Param("date"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return
	}

	slots, err := c.useCase.GetDaySlots(ctx.Request.Context(), doctorID, date)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"doctorId": doctorID,
		"date":     date,
		"slots":    slots,
	})
}

// validateBooking - консультативная проверка записи. Финальную перепроверку
// по свежему снимку бэкенд обязан сделать атомарно в момент создания записи.
func (c *SlotSchedulerController) validateBooking(ctx *gin.Context) {
	var req ValidateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid doctor ID format"})
		return
	}

	date, err := json_types.ParseDate(req.Date)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return
	}

	tm, err := json_types.ParseClockTime(req.Time)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time format, expected HH:MM"})
		return
	}

	if err := c.useCase.ValidateBooking(ctx.Request.Context(), doctorID, date, tm); err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"valid": true})
}

func (c *SlotSchedulerController) validateReschedule(ctx *gin.Context) {
	var req ValidateRescheduleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	appointmentID, err := uuid.Parse(req.AppointmentID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment ID format"})
		return
	}

	newDate, err := json_types.ParseDate(req.NewDate)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return
	}

	newTime, err := json_types.ParseClockTime(req.NewTime)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time format, expected HH:MM"})
		return
	}

	if err := c.useCase.ValidateReschedule(ctx.Request.Context(), appointmentID, newDate, newTime); err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"valid": true})
}

func (c *SlotSchedulerController) validateStatusTransition(ctx *gin.Context) {
	appointmentID, err := uuid.Parse(ctx.Param("appointmentId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment ID format"})
		return
	}

	var req ValidateTransitionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	requested := domain.AppointmentStatus(req.RequestedStatus)
	if err := c.useCase.ValidateStatusTransition(ctx.Request.Context(), appointmentID, requested); err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"valid": true})
}

// respondError переводит типизированные ошибки планировщика в HTTP-коды.
// Бизнес-отказы - это 4xx, системные сбои - 500.
func (c *SlotSchedulerController) respondError(ctx *gin.Context, err error) {
	var slotUnavailable *domain.SlotUnavailableError
	var illegalTransition *domain.IllegalTransitionError

	switch {
	case errors.As(err, &slotUnavailable):
		ctx.JSON(http.StatusConflict, gin.H{
			"code":   "slot-unavailable",
			"reason": slotUnavailable.Reason,
			"error":  err.Error(),
		})
	case errors.As(err, &illegalTransition):
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{
			"code":            "illegal-transition",
			"currentStatus":   illegalTransition.Current,
			"requestedStatus": illegalTransition.Requested,
			"error":           err.Error(),
		})
	case errors.Is(err, domain.ErrInvalidSlot):
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{
			"code":  "invalid-slot",
			"error": err.Error(),
		})
	case errors.Is(err, domain.ErrPastDate):
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{
			"code":  "past-date",
			"error": err.Error(),
		})
	case errors.Is(err, domain.ErrTerminalAppointment):
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{
			"code":  "terminal-appointment",
			"error": err.Error(),
		})
	case errors.Is(err, domain.ErrMalformedInput):
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":  "malformed-input",
			"error": err.Error(),
		})
	case errors.Is(err, domain.ErrScheduleNotFound), errors.Is(err, domain.ErrAppointmentNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{
			"code":  "not-found",
			"error": err.Error(),
		})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (c *SlotSchedulerController) basicAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		username, password, hasAuth := ctx.Request.BasicAuth()
		if !hasAuth {
			ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		for _, client := range c.cfg.Auth.BasicClients {
			if subtle.ConstantTimeCompare([]byte(username), []byte(client.Username)) == 1 &&
				subtle.ConstantTimeCompare([]byte(password), []byte(client.Password)) == 1 {
				ctx.Next()
				return
			}
		}

		ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
		ctx.AbortWithStatus(http.StatusUnauthorized)
	}
}
