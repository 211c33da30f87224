package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/hubsync/backend/api/transport"
	"github.com/hubsync/backend/domain"
	"github.com/hubsync/backend/pkg/httpcontext"
	documentUC "github.com/hubsync/backend/usecase/document"
)

type DocumentHandler struct {
	baseHandler
	uc *documentUC.UseCase
}

func NewDocumentHandler(uc *documentUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List documents
// @Tags documents
// @Router /api/v1/documents [get]
func (h *DocumentHandler) List(ctx *fasthttp.RequestCtx) {
	filter := documentUC.Filter{
		Status:   string(ctx.QueryArgs().Peek("status")),
		Priority: string(ctx.QueryArgs().Peek("priority")),
	}
	h.respondSuccess(ctx, http.StatusOK, h.uc.List(filter))
}

// @Summary Get one document
// @Tags documents
// @Router /api/v1/documents/{id} [get]
func (h *DocumentHandler) Get(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	doc, err := h.uc.Get(id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, doc)
}

// @Summary Submit document
// @Tags documents
// @Router /api/v1/documents [post]
func (h *DocumentHandler) Submit(ctx *fasthttp.RequestCtx) {
	actor, ok := h.requireActor(ctx)
	if !ok {
		return
	}

	var req transport.DocumentRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Title == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	created, err := h.uc.Submit(domain.Document{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
	}, h.source(ctx), actor)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update document
// @Tags documents
// @Router /api/v1/documents/{id} [put]
func (h *DocumentHandler) Update(ctx *fasthttp.RequestCtx) {
	actor, ok := h.requireActor(ctx)
	if !ok {
		return
	}

	id, _ := ctx.UserValue("id").(string)
	var req transport.DocumentPatchRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	updated, err := h.uc.Update(id, domain.DocumentPatch{
		Title:        req.Title,
		Description:  req.Description,
		Type:         req.Type,
		Status:       req.Status,
		DueDate:      req.DueDate,
		Priority:     req.Priority,
		UserResponse: req.UserResponse,
		AdminNote:    req.AdminNote,
	}, h.source(ctx), actor)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Review document
// @Tags documents
// @Router /api/v1/documents/{id}/review [post]
func (h *DocumentHandler) Review(ctx *fasthttp.RequestCtx) {
	actor, ok := h.requireActor(ctx)
	if !ok {
		return
	}

	id, _ := ctx.UserValue("id").(string)
	var req transport.DocumentReviewRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Verdict == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	reviewed, err := h.uc.Review(id, req.Verdict, req.Note, actor)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, reviewed)
}

// @Summary Delete document
// @Tags documents
// @Router /api/v1/documents/{id} [delete]
func (h *DocumentHandler) Delete(ctx *fasthttp.RequestCtx) {
	actor, ok := h.requireActor(ctx)
	if !ok {
		return
	}

	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing document id", nil))
		return
	}

	if err := h.uc.Delete(id, h.source(ctx), actor); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}
