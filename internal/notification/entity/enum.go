package entity

type ReceiptKind int16

const (
	ReceiptKindUnknown ReceiptKind = 0
	ReceiptKindSend    ReceiptKind = 1
	ReceiptKindDecode  ReceiptKind = 2
)

func (k ReceiptKind) String() string {
	switch k {
	case ReceiptKindSend:
		return "send"
	case ReceiptKindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

type Channel int16

const (
	ChannelUnknown Channel = 0
	ChannelEmail   Channel = 1
)

func (c Channel) String() string {
	switch c {
	case ChannelEmail:
		return "email"
	default:
		return "unknown"
	}
}

type DeliveryStatus int16

const (
	DeliveryStatusUnknown DeliveryStatus = 0
	DeliveryStatusQueued  DeliveryStatus = 1
	DeliveryStatusSent    DeliveryStatus = 2
	DeliveryStatusFailed  DeliveryStatus = 3
)

func (s DeliveryStatus) String() string {
	switch s {
	case DeliveryStatusQueued:
		return "queued"
	case DeliveryStatusSent:
		return "sent"
	case DeliveryStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type TriggerKey string

const (
	TriggerKeySecureSendReceipt   TriggerKey = "secure_send_receipt"
	TriggerKeySecureDecodeReceipt TriggerKey = "secure_decode_receipt"
)

func (tk TriggerKey) String() string {
	return string(tk)
}
