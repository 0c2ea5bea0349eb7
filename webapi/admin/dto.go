package admin

// ApprovePayoutInput is the approval form. It is accepted as JSON or as a
// urlencoded form submission.
type ApprovePayoutInput struct {
	PayoutID string `json:"payoutId" form:"payoutId"`
}
