package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/hubsync/backend/internal/infrastructure/monitor"
	"github.com/hubsync/backend/internal/services"
	syncmgr "github.com/hubsync/backend/internal/sync"
	"github.com/hubsync/backend/pkg/httpcontext"
)

// SyncHandler exposes the reconciliation state: the local change version,
// queued snapshots awaiting cloud push, and a manual flush trigger.
type SyncHandler struct {
	baseHandler
	manager    *syncmgr.Manager
	reconciler *services.Reconciler
	monitor    *monitor.Monitor
}

func NewSyncHandler(manager *syncmgr.Manager, reconciler *services.Reconciler, mon *monitor.Monitor, adapter *httpcontext.Adapter, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{
		baseHandler: newBaseHandler(adapter, logger),
		manager:     manager,
		reconciler:  reconciler,
		monitor:     mon,
	}
}

// @Summary Sync status
// @Tags sync
// @Router /api/v1/sync/status [get]
func (h *SyncHandler) Status(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"version":     h.manager.Version(),
		"queueSize":   h.reconciler.QueueSize(),
		"cloudOnline": h.monitor.CloudOnline(),
	})
}

// @Summary Flush the offline queue
// @Tags sync
// @Router /api/v1/sync/flush [post]
func (h *SyncHandler) Flush(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.reconciler.Drain(stdCtx); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"queueSize": h.reconciler.QueueSize(),
	})
}
