package inbound

type OtpRequestRequest struct {
	Identity string `json:"identity"`
	Purpose  string `json:"purpose"`
}

type OtpRequestResponse struct {
	MaskedIdentity string `json:"masked_identity"`
}

func (OtpRequestResponse) Message() string {
	return "A one-time passcode has been sent. It expires in 5 minutes."
}

type SendRequest struct {
	Identity    string `json:"identity"`
	Otp         string `json:"otp"`
	CoverImage  string `json:"cover_image"`
	Message     string `json:"message,omitempty"`
	SecretImage string `json:"secret_image,omitempty"`
	Password    string `json:"password,omitempty"`
}

type SendResponse struct {
	Image    string `json:"image"`
	ImageURL string `json:"image_url"`
}

func (SendResponse) Message() string {
	return "Message embedded successfully."
}

type DecodeRequest struct {
	Identity   string `json:"identity"`
	Otp        string `json:"otp"`
	StegoImage string `json:"stego_image,omitempty"`
	ImageKey   string `json:"image_key,omitempty"`
	Password   string `json:"password,omitempty"`
}

type DecodeResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message,omitempty"`
	Image   string `json:"image,omitempty"`
}

type CapacityRequest struct {
	Image  string `json:"image,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

type CapacityResponse struct {
	Width         int `json:"width"`
	Height        int `json:"height"`
	CapacityBytes int `json:"capacity_bytes"`
}

type ProbeRequest struct {
	Image string `json:"image"`
}

type ProbeResponse struct {
	Steganographic bool `json:"steganographic"`
}
