package inbound

import (
	"github.com/samber/lo"

	"github.com/pixelveil/pixelveil/internal/notification/entity"
	"github.com/pixelveil/pixelveil/internal/notification/usecase"
	"github.com/pixelveil/pixelveil/internal/pkg/router"
)

type HTTPEndpoint struct {
	uc uc
}

// ListReceipts returns exchange receipts for an identity.
// @Summary List receipts
// @Description Returns recent send and decode receipts for an identity, newest first.
// @Tags Notification
// @Produce json
// @Param identity query string true "Email address the receipts were mailed to"
// @Param limit query int false "Pagination limit"
// @Param offset query int false "Pagination offset"
// @Success 200 {object} router.successResponse{data=ReceiptsResponse} "Receipt list"
// @Failure 400 {object} router.errorResponse "Invalid query parameters"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notification/receipts [get]
func (h *HTTPEndpoint) ListReceipts(r *router.Request) (any, error) {
	limit, err := r.GetQueryInt32("limit")
	if err != nil {
		return nil, err
	}
	offset, err := r.GetQueryInt32("offset")
	if err != nil {
		return nil, err
	}

	items, err := h.uc.ListReceipts(r.Context(), usecase.ListReceiptsInput{
		Identity: r.GetQuery("identity"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return nil, err
	}

	resp := lo.Map(items, func(item entity.Receipt, _ int) ReceiptResponse {
		return ReceiptResponse{
			ID:        item.ID,
			Identity:  item.Identity,
			Kind:      item.Kind.String(),
			Detail:    item.Detail,
			CreatedAt: item.CreatedAt,
		}
	})

	return ReceiptsResponse{Receipts: resp}, nil
}
