package event

const SecureDecodeCompletedDestination string = "secure_decode_completed"
const SecureDecodeCompletedConsumerNotification string = "secure_decode_completed_notification"

type SecureDecodeCompletedMessage struct {
	Identity string `json:"identity"`
	Kind     string `json:"kind"`
}
