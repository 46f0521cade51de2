package core

// New API request header constants
const (
	HeaderNewAPIUser = "New-Api-User"
)

// Channel payload defaults for the New API channel endpoint
const (
	ChannelModeSingle         = "single"
	ChannelTypeAntigravity    = 24
	ChannelGroupDefault       = "default"
	ChannelMultiKeyModeRandom = "random"
	ChannelAutoBanEnabled     = 1
	ChannelModelSeparator     = ","
	ChannelEmptySettings      = "{}"
)

// PushSuccessStatuses are the status codes counted as a successful channel creation.
var PushSuccessStatuses = []int{200, 201}
