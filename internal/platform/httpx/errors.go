package httpx

// Fixed user-facing messages for transport-level failures. Clients display
// these verbatim, so the set is closed.
const (
	MsgUnauthorized = "You are not authorized to perform this action"
	MsgNotFound     = "The requested record was not found"
	MsgServerError  = "The server encountered an error, please try again"
	MsgGeneric      = "Something went wrong, please try again"
)
