package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"roomly/internal/reservations/service"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/httputil"
	"roomly/pkg/logger"
	"roomly/pkg/model"
)

// RequesterHeader carries the chat user id the gateway resolved from the
// interaction payload.
const RequesterHeader = "X-Requester-ID"

type ReservationHandler struct {
	service service.ReservationService
	log     *logger.Logger
}

func NewReservationHandler(service service.ReservationService, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		log:     log,
	}
}

// reservationPayload is the request body for create and edit: the modal form
// plus the requester identity. A requester_id in the body wins over the
// header.
type reservationPayload struct {
	model.ReservationForm
	RequesterID string `json:"requester_id"`
}

func (h *ReservationHandler) decodePayload(w http.ResponseWriter, r *http.Request, handlerName string) (*reservationPayload, bool) {
	var payload reservationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", handlerName, "operation", "WriteError", "error", writeErr)
		}
		return nil, false
	}
	if payload.RequesterID == "" {
		payload.RequesterID = r.Header.Get(RequesterHeader)
	}
	return &payload, true
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	payload, ok := h.decodePayload(w, r, "Create")
	if !ok {
		return
	}

	confirmation, err := h.service.Create(r.Context(), &payload.ReservationForm, payload.RequesterID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, confirmation); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ReservationHandler) Edit(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	payload, ok := h.decodePayload(w, r, "Edit")
	if !ok {
		return
	}

	confirmation, err := h.service.Edit(r.Context(), ps.ByName("id"), &payload.ReservationForm, payload.RequesterID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Edit", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, confirmation); err != nil {
		h.log.Error("failed to write success response", "handler", "Edit", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Cancel(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Cancel", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ReservationHandler) Prefill(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	prefill, err := h.service.Prefill(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Prefill", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, prefill); err != nil {
		h.log.Error("failed to write success response", "handler", "Prefill", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) Status(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	digest, err := h.service.Status(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Status", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, digest); err != nil {
		h.log.Error("failed to write success response", "handler", "Status", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) Upcoming(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	days := 0
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		var err error
		days, err = strconv.Atoi(daysStr)
		if err != nil || days < 1 {
			if writeErr := httputil.WriteError(w, apperrors.InvalidInput(fmt.Sprintf("invalid days parameter: %s", daysStr))); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "Upcoming", "operation", "WriteError", "error", writeErr)
			}
			return
		}
	}

	digest, err := h.service.Upcoming(r.Context(), days)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Upcoming", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, digest); err != nil {
		h.log.Error("failed to write success response", "handler", "Upcoming", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) FormDefaults(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteSuccess(w, h.service.FormDefaults()); err != nil {
		h.log.Error("failed to write success response", "handler", "FormDefaults", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/reservations", h.Create)
	router.GET("/api/v1/reservations", h.Status)
	router.GET("/api/v1/reservations/upcoming", h.Upcoming)
	router.GET("/api/v1/reservations/defaults", h.FormDefaults)
	router.GET("/api/v1/reservations/id/:id/prefill", h.Prefill)
	router.PATCH("/api/v1/reservations/id/:id", h.Edit)
	router.DELETE("/api/v1/reservations/id/:id", h.Cancel)
}
