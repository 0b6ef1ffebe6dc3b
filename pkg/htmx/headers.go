package htmx

// Response headers.
const (
	HeaderHXPushURL  = "HX-Push-Url"
	HeaderHXRedirect = "HX-Redirect"
	HeaderHXRefresh  = "HX-Refresh"
	HeaderHXReswap   = "HX-Reswap"
	HeaderHXRetarget = "HX-Retarget"
	HeaderHXTrigger  = "HX-Trigger"
)

// Request headers.
const (
	HeaderHXRequest = "HX-Request"
	HeaderHXBoosted = "HX-Boosted"
	HeaderHXTarget  = "HX-Target"
)
