package event

const SecureSendCompletedDestination string = "secure_send_completed"
const SecureSendCompletedConsumerNotification string = "secure_send_completed_notification"

type SecureSendCompletedMessage struct {
	Identity string `json:"identity"`
	ImageURL string `json:"image_url"`
	Password bool   `json:"password"`
}
