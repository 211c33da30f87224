package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/hubsync/backend/api/transport"
	"github.com/hubsync/backend/domain"
	syncmgr "github.com/hubsync/backend/internal/sync"
	"github.com/hubsync/backend/pkg/httpcontext"
)

type ActivityHandler struct {
	baseHandler
	manager *syncmgr.Manager
}

func NewActivityHandler(manager *syncmgr.Manager, adapter *httpcontext.Adapter, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		baseHandler: newBaseHandler(adapter, logger),
		manager:     manager,
	}
}

// @Summary Read an activity feed
// @Tags activity
// @Router /api/v1/activities/{feed} [get]
func (h *ActivityHandler) Feed(ctx *fasthttp.RequestCtx) {
	feed, _ := ctx.UserValue("feed").(string)
	if feed != domain.FeedAdmin && feed != domain.FeedUser {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "unknown feed", nil))
		return
	}
	h.respondSuccess(ctx, http.StatusOK, h.manager.Activities(feed))
}
