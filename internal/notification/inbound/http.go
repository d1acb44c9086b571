package inbound

import (
	"github.com/pixelveil/pixelveil/internal/pkg/router"
)

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/api/v1/notification/receipts", end.ListReceipts)
}
