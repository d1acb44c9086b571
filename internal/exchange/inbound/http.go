package inbound

import (
	"context"

	"github.com/pixelveil/pixelveil/internal/exchange/usecase"
	"github.com/pixelveil/pixelveil/internal/pkg/router"
)

type uc interface {
	OtpRequest(ctx context.Context, in usecase.OtpRequestInput) (*usecase.OtpRequestOutput, error)
	SendSecurely(ctx context.Context, in usecase.SendSecurelyInput) (*usecase.SendSecurelyOutput, error)
	DecodeSecurely(ctx context.Context, in usecase.DecodeSecurelyInput) (*usecase.DecodeSecurelyOutput, error)
	Capacity(ctx context.Context, in usecase.CapacityInput) (*usecase.CapacityOutput, error)
	Probe(ctx context.Context, in usecase.ProbeInput) (*usecase.ProbeOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Two-phase send: request a passcode, then submit it with the payload.
	r.POST("/api/v1/exchange/send/otp", end.SendOtp)
	r.POST("/api/v1/exchange/send", end.Send)

	// Two-phase decode, gated the same way.
	r.POST("/api/v1/exchange/decode/otp", end.DecodeOtp)
	r.POST("/api/v1/exchange/decode", end.Decode)

	// Ungated helpers.
	r.POST("/api/v1/exchange/capacity", end.Capacity)
	r.POST("/api/v1/exchange/probe", end.Probe)
}
