package core

// Endpoint describes one presentation-boundary operation in a
// framework-agnostic way. Adapters map OperationID onto their own handler
// and attach the access gate when Protected is set.
type Endpoint struct {
	Path      string
	Method    string
	Protected bool
	Metadata  EndpointMetadata
}

type EndpointMetadata struct {
	OperationID string
	Description string
}

// ErrorResponse is the JSON error body. ReturnTo carries the originally
// requested path on access denial so the client can resume after login.
type ErrorResponse struct {
	Error    string `json:"error"`
	ReturnTo string `json:"returnTo,omitempty"`
}
