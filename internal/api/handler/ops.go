// Package handler provides HTTP handlers for the Nimbus API.
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/nimbusapp/nimbus/internal/api/models"
	"github.com/nimbusapp/nimbus/internal/api/response"
	"github.com/nimbusapp/nimbus/internal/connectivity"
	"github.com/nimbusapp/nimbus/internal/kvstore"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	store     kvstore.Store
	probe     connectivity.Probe
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(version, buildTime string, store kvstore.Store, probe connectivity.Probe) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		store:     store,
		probe:     probe,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check. The store
// must answer; being offline only degrades the report, since the service
// deliberately keeps working without a network.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := models.HealthStatusOK
	httpStatus := http.StatusOK

	storeStatus := models.HealthStatusOK
	if err := h.storeHealthy(ctx); err != nil {
		storeStatus = models.HealthStatusFail
		status = models.HealthStatusFail
		httpStatus = http.StatusServiceUnavailable
	}

	networkStatus := models.HealthStatusOK
	if !h.probe.Online(ctx) {
		networkStatus = models.HealthStatusDegraded
		if status == models.HealthStatusOK {
			status = models.HealthStatusDegraded
		}
	}

	health := models.Health{
		Status: status,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"store":   storeStatus,
			"network": networkStatus,
		},
	}
	response.JSON(w, r, httpStatus, health)
}

// SystemStatus handles GET /v1/ops/status - subsystem status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	storeStatus := models.HealthStatusOK
	if err := h.storeHealthy(ctx); err != nil {
		storeStatus = models.HealthStatusFail
	}
	networkStatus := models.HealthStatusOK
	if !h.probe.Online(ctx) {
		networkStatus = models.HealthStatusDegraded
	}

	overall := storeStatus
	if overall == models.HealthStatusOK && networkStatus != models.HealthStatusOK {
		overall = models.HealthStatusDegraded
	}

	status := models.SystemStatus{
		Status: overall,
		Time:   models.Timestamp(time.Now()),
		Subsystems: []models.SubsystemStatus{
			{Name: "store", Status: storeStatus},
			{Name: "network", Status: networkStatus},
		},
	}
	response.JSON(w, r, http.StatusOK, status)
}

// storeHealthy exercises the store with a probe read. A missing key is a
// healthy answer.
func (h *OpsHandler) storeHealthy(ctx context.Context) error {
	_, err := h.store.Get(ctx, "ops:ping")
	if err != nil && !errors.Is(err, kvstore.ErrKeyNotFound) {
		return err
	}
	return nil
}
