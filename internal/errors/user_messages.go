package errors

// User-friendly error messages
const (
	MsgNotFound           = "The requested resource was not found."
	MsgInvalidIdentifier  = "The provided identifier is not valid."
	MsgConflict           = "A record with the same unique value already exists."
	MsgServiceUnavailable = "We're unable to reach the catalog right now. Please try again in a few minutes."
	MsgRateLimited        = "You're sending requests too quickly! Please wait a moment and try again."
	MsgInvalidParameters  = "The provided parameters are invalid. Please check your input and try again."
	MsgInternalError      = "Something went wrong on our end. Please try again later."
)
