package invoicing

// NumberRequest is the payload sent to the numbering service.
type NumberRequest struct {
	MemberID int64  `json:"member_id"`
	Series   string `json:"series"`
}

// NumberResponse is the numbering service reply.
type NumberResponse struct {
	Number string `json:"number"`
}

// ErrorResponse is the error payload of the numbering service.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
