package respond

// Version enumerates the protocol versions a Response can target.
type Version int

const (
	HTTP11 Version = iota
	HTTP2
)

func (v Version) String() string {
	switch v {
	case HTTP11:
		return "HTTP/1.1"
	case HTTP2:
		return "HTTP/2"
	default:
		return "HTTP/unknown"
	}
}

// Response is an immutable snapshot handed to a Responder. Ownership
// passes to the Responder once written.
type Response struct {
	Version Version
	Status  int
	Header  Header
}

// IsInformational reports whether the status code is 100–199.
func (r Response) IsInformational() bool {
	return r.Status >= 100 && r.Status <= 199
}

// IsFinal reports whether the status code is >= 200.
func (r Response) IsFinal() bool {
	return r.Status >= 200
}

// IsSuccessNoBody reports whether the status forbids a body: 204, 205, or
// 304. This is recognized for trailer legality, which remains the
// Encoder's responsibility to enforce.
func (r Response) IsSuccessNoBody() bool {
	switch r.Status {
	case 204, 205, 304:
		return true
	default:
		return false
	}
}
