package push

import "fmt"

type PushError string

func (e PushError) TransportErrorCode() string {
	return string(e)
}

func (e PushError) Error() string {
	return e.TransportErrorCode()
}

var (
	ErrorTransportProblem   = fmt.Errorf("error [%w]", PushError("TransportProblem"))
	ErrorRequest            = fmt.Errorf("error [%w]", PushError("InvalidRequest"))
	ErrorInvalidKey         = fmt.Errorf("error [%w]", PushError("InvalidKey"))
	ErrorServiceUnavailable = fmt.Errorf("error [%w]", PushError("ServiceUnavailable"))
	ErrorUploadFailed       = fmt.Errorf("error [%w]", PushError("UploadFailed"))
	ErrorCancelFailed       = fmt.Errorf("error [%w]", PushError("CancelFailed"))
	ErrorUnknownPlatform    = fmt.Errorf("error [%w]", PushError("UnknownPlatform"))
)
