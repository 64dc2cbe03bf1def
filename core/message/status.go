package message

import "sync"

// Status codes not covered by net/http that the reason table knows about.
const (
	StatusPageExpired            = 419
	StatusEnhanceYourCalm        = 420
	StatusNoResponse             = 444
	StatusRetryWith              = 449
	StatusBlockedByParentalCtrl  = 450
	StatusInvalidToken           = 498
	StatusClientClosedRequest    = 499
	StatusBandwidthLimitExceeded = 509
	StatusNetworkReadTimeout     = 598
	StatusNetworkConnectTimeout  = 599

	unknownStatusReason = "Unknown Status"
)

var (
	statusMu   sync.RWMutex
	statusText = map[int]string{
		100: "Continue",
		101: "Switching Protocols",
		102: "Processing",
		103: "Early Hints",

		200: "OK",
		201: "Created",
		202: "Accepted",
		203: "Non-Authoritative Information",
		204: "No Content",
		205: "Reset Content",
		206: "Partial Content",
		207: "Multi-Status",
		208: "Already Reported",
		226: "IM Used",

		300: "Multiple Choices",
		301: "Moved Permanently",
		302: "Found",
		303: "See Other",
		304: "Not Modified",
		305: "Use Proxy",
		307: "Temporary Redirect",
		308: "Permanent Redirect",

		400: "Bad Request",
		401: "Unauthorized",
		402: "Payment Required",
		403: "Forbidden",
		404: "Not Found",
		405: "Method Not Allowed",
		406: "Not Acceptable",
		407: "Proxy Authentication Required",
		408: "Request Timeout",
		409: "Conflict",
		410: "Gone",
		411: "Length Required",
		412: "Precondition Failed",
		413: "Content Too Large",
		414: "URI Too Long",
		415: "Unsupported Media Type",
		416: "Range Not Satisfiable",
		417: "Expectation Failed",
		418: "I'm a teapot",
		419: "Page Expired",
		420: "Enhance Your Calm",
		421: "Misdirected Request",
		422: "Unprocessable Content",
		423: "Locked",
		424: "Failed Dependency",
		425: "Too Early",
		426: "Upgrade Required",
		428: "Precondition Required",
		429: "Too Many Requests",
		431: "Request Header Fields Too Large",
		444: "No Response",
		449: "Retry With",
		450: "Blocked by Windows Parental Controls",
		451: "Unavailable For Legal Reasons",
		498: "Invalid Token",
		499: "Client Closed Request",

		500: "Internal Server Error",
		501: "Not Implemented",
		502: "Bad Gateway",
		503: "Service Unavailable",
		504: "Gateway Timeout",
		505: "HTTP Version Not Supported",
		506: "Variant Also Negotiates",
		507: "Insufficient Storage",
		508: "Loop Detected",
		509: "Bandwidth Limit Exceeded",
		510: "Not Extended",
		511: "Network Authentication Required",
		598: "Network Read Timeout Error",
		599: "Network Connect Timeout Error",
	}
)

// StatusText returns the reason phrase for code, or "Unknown Status".
func StatusText(code int) string {
	statusMu.RLock()
	defer statusMu.RUnlock()
	if text, ok := statusText[code]; ok {
		return text
	}
	return unknownStatusReason
}

// RegisterStatus adds or replaces the reason phrase for a custom code.
// Call it during application setup.
func RegisterStatus(code int, reason string) {
	statusMu.Lock()
	defer statusMu.Unlock()
	statusText[code] = reason
}

// BodyAllowed reports whether a response with this status may carry a body.
func BodyAllowed(code int) bool {
	return code >= 200 && code != 204 && code != 304
}
