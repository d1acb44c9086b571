package inbound

import (
	"encoding/base64"

	"github.com/pixelveil/pixelveil/internal/exchange/usecase"
	"github.com/pixelveil/pixelveil/internal/pkg/goerror"
	"github.com/pixelveil/pixelveil/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the secure exchange workflows.
type HTTPEndpoint struct {
	uc uc
}

// SendOtp opens a send challenge and emails its passcode.
// @Summary Request send passcode
// @Description Generates a single-use passcode for the send flow and delivers it by email.
// @Tags Exchange
// @Accept json
// @Produce json
// @Param request body OtpRequestRequest true "Identity payload"
// @Success 200 {object} router.successResponse{data=OtpRequestResponse} "Passcode sent"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Delivery failure"
// @Router /api/v1/exchange/send/otp [post]
func (h *HTTPEndpoint) SendOtp(r *router.Request) (any, error) {
	var req OtpRequestRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.OtpRequest(r.Context(), usecase.OtpRequestInput{
		Identity: req.Identity,
		Purpose:  "send",
	})
	if err != nil {
		return nil, err
	}

	return OtpRequestResponse{MaskedIdentity: resp.MaskedIdentity}, nil
}

// DecodeOtp opens a decode challenge and emails its passcode.
// @Summary Request decode passcode
// @Description Generates a single-use passcode for the decode flow and delivers it by email.
// @Tags Exchange
// @Accept json
// @Produce json
// @Param request body OtpRequestRequest true "Identity payload"
// @Success 200 {object} router.successResponse{data=OtpRequestResponse} "Passcode sent"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Delivery failure"
// @Router /api/v1/exchange/decode/otp [post]
func (h *HTTPEndpoint) DecodeOtp(r *router.Request) (any, error) {
	var req OtpRequestRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.OtpRequest(r.Context(), usecase.OtpRequestInput{
		Identity: req.Identity,
		Purpose:  "decode",
	})
	if err != nil {
		return nil, err
	}

	return OtpRequestResponse{MaskedIdentity: resp.MaskedIdentity}, nil
}

// Send embeds an encrypted payload into a cover image.
// @Summary Send a secure message
// @Description Verifies the passcode, encrypts the message or secret image, and embeds it into the cover image.
// @Tags Exchange
// @Accept json
// @Produce json
// @Param request body SendRequest true "Send payload"
// @Success 200 {object} router.successResponse{data=SendResponse} "Stego image"
// @Failure 401 {object} router.errorResponse "Invalid or expired passcode"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/exchange/send [post]
func (h *HTTPEndpoint) Send(r *router.Request) (any, error) {
	var req SendRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	cover, err := decodeImageField(req.CoverImage)
	if err != nil {
		return nil, err
	}
	secret, err := decodeImageField(req.SecretImage)
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.SendSecurely(r.Context(), usecase.SendSecurelyInput{
		Identity:    req.Identity,
		Otp:         req.Otp,
		CoverImage:  cover,
		Message:     req.Message,
		SecretImage: secret,
		Password:    req.Password,
	})
	if err != nil {
		return nil, err
	}

	return SendResponse{
		Image:    base64.StdEncoding.EncodeToString(resp.Image),
		ImageURL: resp.ImageURL,
	}, nil
}

// Decode recovers a hidden payload from a stego image.
// @Summary Decode a secure message
// @Description Verifies the passcode, extracts the hidden payload, and decrypts it when it is an encrypted envelope.
// @Tags Exchange
// @Accept json
// @Produce json
// @Param request body DecodeRequest true "Decode payload"
// @Success 200 {object} router.successResponse{data=DecodeResponse} "Recovered payload"
// @Failure 401 {object} router.errorResponse "Invalid or expired passcode"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/exchange/decode [post]
func (h *HTTPEndpoint) Decode(r *router.Request) (any, error) {
	var req DecodeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	image, err := decodeImageField(req.StegoImage)
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.DecodeSecurely(r.Context(), usecase.DecodeSecurelyInput{
		Identity:   req.Identity,
		Otp:        req.Otp,
		StegoImage: image,
		ImageKey:   req.ImageKey,
		Password:   req.Password,
	})
	if err != nil {
		return nil, err
	}

	out := DecodeResponse{Kind: resp.Kind}
	if resp.Kind == usecase.PayloadKindImage {
		out.Image = base64.StdEncoding.EncodeToString(resp.Payload)
	} else {
		out.Message = string(resp.Payload)
	}

	return out, nil
}

// Capacity reports how many bytes an image can carry.
// @Summary Report carrier capacity
// @Description Returns the payload capacity in bytes for an uploaded image or explicit dimensions.
// @Tags Exchange
// @Accept json
// @Produce json
// @Param request body CapacityRequest true "Capacity payload"
// @Success 200 {object} router.successResponse{data=CapacityResponse} "Capacity"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Router /api/v1/exchange/capacity [post]
func (h *HTTPEndpoint) Capacity(r *router.Request) (any, error) {
	var req CapacityRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	image, err := decodeImageField(req.Image)
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.Capacity(r.Context(), usecase.CapacityInput{
		Image:  image,
		Width:  req.Width,
		Height: req.Height,
	})
	if err != nil {
		return nil, err
	}

	return CapacityResponse{
		Width:         resp.Width,
		Height:        resp.Height,
		CapacityBytes: resp.CapacityBytes,
	}, nil
}

// Probe checks an image for a hidden payload.
// @Summary Probe for hidden payload
// @Description Reports whether the image carries the payload marker, without decoding anything.
// @Tags Exchange
// @Accept json
// @Produce json
// @Param request body ProbeRequest true "Probe payload"
// @Success 200 {object} router.successResponse{data=ProbeResponse} "Probe result"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Router /api/v1/exchange/probe [post]
func (h *HTTPEndpoint) Probe(r *router.Request) (any, error) {
	var req ProbeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	image, err := decodeImageField(req.Image)
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.Probe(r.Context(), usecase.ProbeInput{Image: image})
	if err != nil {
		return nil, err
	}

	return ProbeResponse{Steganographic: resp.Steganographic}, nil
}

// decodeImageField decodes a base64 image field, tolerating an empty
// value for optional fields.
func decodeImageField(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, goerror.NewInvalidFormat("image must be base64 encoded")
	}

	return data, nil
}
