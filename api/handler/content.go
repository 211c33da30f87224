package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/hubsync/backend/api/transport"
	"github.com/hubsync/backend/domain"
	"github.com/hubsync/backend/pkg/httpcontext"
	contentUC "github.com/hubsync/backend/usecase/content"
)

type ContentHandler struct {
	baseHandler
	uc *contentUC.UseCase
}

func NewContentHandler(uc *contentUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List active articles
// @Tags content
// @Router /api/v1/content [get]
func (h *ContentHandler) List(ctx *fasthttp.RequestCtx) {
	items := h.uc.List(
		string(ctx.QueryArgs().Peek("category")),
		string(ctx.QueryArgs().Peek("q")),
	)
	h.respondSuccess(ctx, http.StatusOK, items)
}

// @Summary Publish article
// @Tags content
// @Router /api/v1/content [post]
func (h *ContentHandler) Publish(ctx *fasthttp.RequestCtx) {
	actor, ok := h.requireActor(ctx)
	if !ok {
		return
	}

	var req transport.ContentRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Title == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	created, err := h.uc.Publish(domain.ContentItem{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
	}, actor)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update article
// @Tags content
// @Router /api/v1/content/{id} [put]
func (h *ContentHandler) Update(ctx *fasthttp.RequestCtx) {
	actor, ok := h.requireActor(ctx)
	if !ok {
		return
	}

	id, _ := ctx.UserValue("id").(string)
	var req transport.ContentPatchRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	updated, err := h.uc.Update(id, domain.ContentPatch{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
	}, actor)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Archive article
// @Tags content
// @Router /api/v1/content/{id} [delete]
func (h *ContentHandler) Archive(ctx *fasthttp.RequestCtx) {
	actor, ok := h.requireActor(ctx)
	if !ok {
		return
	}

	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing content id", nil))
		return
	}

	if err := h.uc.Archive(id, actor); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}
