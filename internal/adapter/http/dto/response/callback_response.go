package response

// CallbackAck is the body the gateway expects back from a callback URL.
// ResultCode 0 tells it to stop redelivering.
type CallbackAck struct {
	ResultCode int    `json:"ResultCode"`
	ResultDesc string `json:"ResultDesc"`
}

var (
	CallbackAccepted = CallbackAck{ResultCode: 0, ResultDesc: "Accepted"}
	CallbackRejected = CallbackAck{ResultCode: 1, ResultDesc: "Rejected"}
)

type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}
