// Package blockkit provides the view-model types for the platform's block
// based UI framework: composition objects, layout blocks, interactive
// elements and view containers. Constructors set the JSON type
// discriminators so hand-built payloads stay valid.
package blockkit

// Text object types.
const (
	PlainTextType = "plain_text"
	MarkdownType  = "mrkdwn"
)

// TextObject is the basic text container used throughout blocks.
type TextObject struct {
	Type     string `json:"type" validate:"required,oneof=plain_text mrkdwn"`
	Text     string `json:"text" validate:"required,max=3000"`
	Emoji    bool   `json:"emoji,omitempty"`
	Verbatim bool   `json:"verbatim,omitempty"`
}

// PlainText creates a plain_text object with emoji rendering enabled.
func PlainText(text string) *TextObject {
	return &TextObject{Type: PlainTextType, Text: text, Emoji: true}
}

// Markdown creates a mrkdwn text object.
func Markdown(text string) *TextObject {
	return &TextObject{Type: MarkdownType, Text: text}
}

// ConfirmationDialog prompts the user before an interactive action fires.
type ConfirmationDialog struct {
	Title   *TextObject `json:"title" validate:"required"`
	Text    *TextObject `json:"text" validate:"required"`
	Confirm *TextObject `json:"confirm" validate:"required"`
	Deny    *TextObject `json:"deny" validate:"required"`
	Style   string      `json:"style,omitempty" validate:"omitempty,oneof=primary danger"`
}

// NewConfirmationDialog creates a confirmation dialog with plain-text labels.
func NewConfirmationDialog(title, text, confirm, deny string) *ConfirmationDialog {
	return &ConfirmationDialog{
		Title:   PlainText(title),
		Text:    PlainText(text),
		Confirm: PlainText(confirm),
		Deny:    PlainText(deny),
	}
}

// Option is a selectable item in select, overflow, checkbox and radio
// elements.
type Option struct {
	Text        *TextObject `json:"text" validate:"required"`
	Value       string      `json:"value" validate:"required,max=150"`
	Description *TextObject `json:"description,omitempty"`
	URL         string      `json:"url,omitempty" validate:"omitempty,max=3000"`
}

// NewOption creates an option with a plain-text label.
func NewOption(label, value string) *Option {
	return &Option{Text: PlainText(label), Value: value}
}

// OptionGroup labels a set of options inside a select element.
type OptionGroup struct {
	Label   *TextObject `json:"label" validate:"required"`
	Options []*Option   `json:"options" validate:"required,max=100,dive,required"`
}

// NewOptionGroup creates an option group with a plain-text label.
func NewOptionGroup(label string, options ...*Option) *OptionGroup {
	return &OptionGroup{Label: PlainText(label), Options: options}
}
