package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"nvocc-platform/internal/dto"
	"nvocc-platform/internal/entity"
	"nvocc-platform/internal/repository"
	"nvocc-platform/internal/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ActivityLogHandler struct {
	Service *service.AuthService
}

func NewActivityLogHandler(svc *service.AuthService) *ActivityLogHandler {
	return &ActivityLogHandler{Service: svc}
}

// List browses the audit trail, filtered by actor, action and entity.
func (h *ActivityLogHandler) List(c echo.Context) error {
	filter := repository.ActivityLogFilter{
		Action: entity.ActivityAction(c.QueryParam("action")),
		Entity: c.QueryParam("entity"),
		Limit:  50,
	}
	if raw := c.QueryParam("userId"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			return writeError(c, http.StatusBadRequest, "VALIDATION_FAILED", err)
		}
		filter.UserID = &userID
	}
	if raw := c.QueryParam("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 && limit <= 500 {
			filter.Limit = limit
		}
	}
	if raw := c.QueryParam("offset"); raw != "" {
		if offset, err := strconv.Atoi(raw); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}

	logs, err := h.Service.ListActivity(c.Request().Context(), filter)
	if err != nil {
		return writeServiceError(c, err)
	}

	entries := make([]dto.ActivityLogEntry, 0, len(logs))
	for i := range logs {
		log := &logs[i]
		entry := dto.ActivityLogEntry{
			ID:        log.ID.String(),
			UserID:    log.UserID,
			Action:    string(log.Action),
			Entity:    log.Entity,
			EntityID:  log.EntityID,
			IPAddress: log.IPAddress,
			CreatedAt: log.CreatedAt,
		}
		if len(log.Details) > 0 {
			entry.Details = json.RawMessage(log.Details)
		}
		entries = append(entries, entry)
	}
	return c.JSON(http.StatusOK, echo.Map{"logs": entries})
}
