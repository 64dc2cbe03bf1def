package message

// Method is an HTTP request method.
type Method string

const (
	MethodGet     Method = "GET"
	MethodHead    Method = "HEAD"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodPatch   Method = "PATCH"
	MethodDelete  Method = "DELETE"
	MethodOptions Method = "OPTIONS"
	MethodConnect Method = "CONNECT"
	MethodTrace   Method = "TRACE"
)

var knownMethods = map[string]Method{
	"GET":     MethodGet,
	"HEAD":    MethodHead,
	"POST":    MethodPost,
	"PUT":     MethodPut,
	"PATCH":   MethodPatch,
	"DELETE":  MethodDelete,
	"OPTIONS": MethodOptions,
	"CONNECT": MethodConnect,
	"TRACE":   MethodTrace,
}

// Methods returns every supported method.
func Methods() []Method {
	return []Method{
		MethodGet, MethodHead, MethodPost, MethodPut, MethodPatch,
		MethodDelete, MethodOptions, MethodConnect, MethodTrace,
	}
}

// ParseMethod resolves a method token. Tokens are case-sensitive.
func ParseMethod(s string) (Method, bool) {
	m, ok := knownMethods[s]
	return m, ok
}

func (m Method) String() string {
	return string(m)
}
