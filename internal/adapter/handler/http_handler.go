package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bloodbank/lisreceiver/internal/core/domain"
	"github.com/bloodbank/lisreceiver/internal/core/service"
)

// HTTPHandler exposes the LIS receiver surface. Routes and payload shapes
// follow the upstream contract under /LisReceiver/web.
type HTTPHandler struct {
	svc    *service.Service
	logger *zap.Logger
}

func NewHTTPHandler(svc *service.Service, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{svc: svc, logger: logger}
}

// Routes mounts every endpoint on a fresh router.
func (h *HTTPHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", h.HealthCheck)

	r.Route("/LisReceiver/web", func(r chi.Router) {
		r.Post("/SavePatient", h.SavePatient)
		r.Post("/GetInventory", h.GetInventory)
		r.Get("/GetAllData", h.GetAllData)
		r.Get("/GetPatientOrders", h.GetPatientOrders)

		r.Post("/CreateInventory", h.CreateInventory)
		r.Put("/UpdateInventory/{index}", h.UpdateInventory)
		r.Delete("/DeleteInventory/{index}", h.DeleteInventory)

		r.Post("/CreatePatientOrder", h.CreatePatientOrder)
		r.Put("/UpdatePatientOrder/{index}", h.UpdatePatientOrder)
		r.Delete("/DeletePatientOrder/{index}", h.DeletePatientOrder)
	})

	return r
}

type inventoryRequest struct {
	ABO       string `json:"ABO"`
	Rh        string `json:"Rh"`
	ElementID string `json:"ElementID"`
	Volume    int    `json:"Volume"`
}

type inventoryResponse struct {
	IsSuccess     bool                     `json:"IsSuccess"`
	ErrorMessage  string                   `json:"ErrorMessage"`
	InventoryInfo []domain.InventoryRecord `json:"InventoryInfo"`
}

type statusResponse struct {
	IsSuccess    bool   `json:"IsSuccess"`
	ErrorMessage string `json:"ErrorMessage"`
}

func (h *HTTPHandler) SavePatient(w http.ResponseWriter, r *http.Request) {
	var order domain.PatientOrder
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		writeJSON(w, http.StatusBadRequest, statusResponse{ErrorMessage: "invalid request body"})
		return
	}

	if _, err := h.svc.SubmitOrder(r.Context(), order); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{IsSuccess: true})
}

func (h *HTTPHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	// An empty or absent body means "everything"; the filter's zero value
	// already encodes that.
	var req inventoryRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	records, err := h.svc.GetInventory(r.Context(), domain.FilterCriteria{
		ABO:       req.ABO,
		Rh:        req.Rh,
		ElementID: req.ElementID,
		Volume:    req.Volume,
	})
	if err != nil {
		h.logger.Error("get inventory failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, inventoryResponse{
			ErrorMessage:  "storage unavailable",
			InventoryInfo: []domain.InventoryRecord{},
		})
		return
	}
	writeJSON(w, http.StatusOK, inventoryResponse{IsSuccess: true, InventoryInfo: records})
}

func (h *HTTPHandler) GetAllData(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.GetAllData(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *HTTPHandler) GetPatientOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.ListOrders(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *HTTPHandler) CreateInventory(w http.ResponseWriter, r *http.Request) {
	var rec domain.InventoryRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeJSON(w, http.StatusBadRequest, statusResponse{ErrorMessage: "invalid request body"})
		return
	}
	created, err := h.svc.CreateInventoryRecord(r.Context(), rec)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, created)
}

func (h *HTTPHandler) UpdateInventory(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	var rec domain.InventoryRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeJSON(w, http.StatusBadRequest, statusResponse{ErrorMessage: "invalid request body"})
		return
	}
	if err := h.svc.UpdateInventoryRecord(r.Context(), index, rec); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{IsSuccess: true})
}

func (h *HTTPHandler) DeleteInventory(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteInventoryRecord(r.Context(), index); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{IsSuccess: true})
}

func (h *HTTPHandler) CreatePatientOrder(w http.ResponseWriter, r *http.Request) {
	var order domain.PatientOrder
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		writeJSON(w, http.StatusBadRequest, statusResponse{ErrorMessage: "invalid request body"})
		return
	}
	created, err := h.svc.CreateOrder(r.Context(), order)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, created)
}

func (h *HTTPHandler) UpdatePatientOrder(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	var order domain.PatientOrder
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		writeJSON(w, http.StatusBadRequest, statusResponse{ErrorMessage: "invalid request body"})
		return
	}
	if err := h.svc.UpdateOrder(r.Context(), index, order); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{IsSuccess: true})
}

func (h *HTTPHandler) DeletePatientOrder(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteOrder(r.Context(), index); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{IsSuccess: true})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) writeServiceError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, statusResponse{ErrorMessage: verr.Message})
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, statusResponse{ErrorMessage: "not found"})
	default:
		h.logger.Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, statusResponse{ErrorMessage: "storage unavailable"})
	}
}

func indexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		writeJSON(w, http.StatusBadRequest, statusResponse{ErrorMessage: "invalid index"})
		return 0, false
	}
	return index, true
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
