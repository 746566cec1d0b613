package domain

type LearningEntry struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	Platform   string `json:"platform"`
	Category   string `json:"category"`
	Incident   string `json:"incident"`
	Action     string `json:"action"`
	Prevention string `json:"prevention"`
	Published  bool   `json:"published"`
}

type CreateLearningEntryRequest struct {
	Date       string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Platform   string `json:"platform" validate:"required"`
	Category   string `json:"category" validate:"required"`
	Incident   string `json:"incident" validate:"required"`
	Action     string `json:"action" validate:"required"`
	Prevention string `json:"prevention"`
	Published  bool   `json:"published"`
}

type LearningExport struct {
	Filename string
	Data     []byte
}

// Insight is a published learning entry shown on the insights page.
type Insight struct {
	LearningEntry
	Icon string `json:"icon"`
}
