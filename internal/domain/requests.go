package domain

type SetCheckedRequest struct {
	Checked *bool `json:"checked" validate:"required"`
}

type NotesRequest struct {
	Text string `json:"text"`
}
