package dto

// IssueTokenRequest is the identity claim posted to /jwt. The claim shape is
// not validated beyond JSON binding; any payload with an email field is
// accepted.
type IssueTokenRequest struct {
	Email string `json:"email" binding:"required"`
}
