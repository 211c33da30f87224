package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/hubsync/backend/api/transport"
	"github.com/hubsync/backend/domain"
	"github.com/hubsync/backend/pkg/httpcontext"
	profileUC "github.com/hubsync/backend/usecase/profile"
)

type ProfileHandler struct {
	baseHandler
	uc *profileUC.UseCase
}

func NewProfileHandler(uc *profileUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List registered accounts
// @Tags users
// @Router /api/v1/users [get]
func (h *ProfileHandler) List(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, h.uc.List())
}

// @Summary Get the signed-in account
// @Tags users
// @Router /api/v1/users/me [get]
func (h *ProfileHandler) Me(ctx *fasthttp.RequestCtx) {
	actor, ok := h.requireActor(ctx)
	if !ok {
		return
	}
	user, err := h.uc.Get(actor)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, user)
}

// @Summary Update an account
// @Tags users
// @Router /api/v1/users/{email} [put]
func (h *ProfileHandler) Update(ctx *fasthttp.RequestCtx) {
	if _, ok := h.requireActor(ctx); !ok {
		return
	}

	email, _ := ctx.UserValue("email").(string)
	var req transport.UserPatchRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	updated, err := h.uc.Update(email, domain.UserPatch{
		Name: req.Name,
		Role: req.Role,
	}, h.source(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete an account
// @Tags users
// @Router /api/v1/users/{email} [delete]
func (h *ProfileHandler) Delete(ctx *fasthttp.RequestCtx) {
	if _, ok := h.requireActor(ctx); !ok {
		return
	}

	email, _ := ctx.UserValue("email").(string)
	if email == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing email", nil))
		return
	}

	if err := h.uc.Delete(email, h.source(ctx)); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}
