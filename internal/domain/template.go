package domain

type Template struct {
	ID           string   `json:"id" yaml:"id"`
	Title        string   `json:"title" yaml:"title"`
	Category     string   `json:"category" yaml:"category"`
	Platform     []string `json:"platform" yaml:"platform"`
	Body         string   `json:"body" yaml:"body"`
	EmojiVersion *string  `json:"emoji_version" yaml:"emoji_version"`
	UserAdded    bool     `json:"userAdded" yaml:"userAdded"`
}

type CreateTemplateRequest struct {
	Title        string   `json:"title" validate:"required"`
	Category     string   `json:"category" validate:"required"`
	Platform     []string `json:"platform" validate:"required,min=1,dive,required"`
	Body         string   `json:"body" validate:"required"`
	EmojiVersion string   `json:"emoji_version"`
}

type TemplateFilter struct {
	Category string
	Platform string
	Query    string
}

type TemplateCopy struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji"`
}
