package booth

// Topics published by the booth core. The names are a stable contract
// with other services subscribed to the ephemeral store.
const (
	TopicAdvanceComplete = "advance:complete"
	TopicPlaylistCycle   = "playlist:cycle"
	TopicUserPlay        = "user:play"
	TopicWaitlistUpdate  = "waitlist:update"
)
