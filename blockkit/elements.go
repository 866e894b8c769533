package blockkit

// Element type discriminators.
const (
	ButtonElementType              = "button"
	StaticSelectElementType        = "static_select"
	MultiStaticSelectElementType   = "multi_static_select"
	UsersSelectElementType         = "users_select"
	ConversationsSelectElementType = "conversations_select"
	ChannelsSelectElementType      = "channels_select"
	ExternalSelectElementType      = "external_select"
	OverflowElementType            = "overflow"
	DatePickerElementType          = "datepicker"
	TimePickerElementType          = "timepicker"
	PlainTextInputElementType      = "plain_text_input"
	CheckboxesElementType          = "checkboxes"
	RadioButtonsElementType        = "radio_buttons"
	ImageElementType               = "image"
)

// Element is an interactive or display element placed inside a block.
type Element interface {
	ElementType() string
}

// ButtonElement is a clickable button.
type ButtonElement struct {
	Type     string              `json:"type" validate:"required"`
	Text     *TextObject         `json:"text" validate:"required"`
	ActionID string              `json:"action_id,omitempty" validate:"omitempty,max=255"`
	Value    string              `json:"value,omitempty" validate:"omitempty,max=2000"`
	URL      string              `json:"url,omitempty" validate:"omitempty,max=3000"`
	Style    string              `json:"style,omitempty" validate:"omitempty,oneof=primary danger"`
	Confirm  *ConfirmationDialog `json:"confirm,omitempty"`
}

// ElementType identifies the element kind.
func (e *ButtonElement) ElementType() string { return ButtonElementType }

// NewButtonElement creates a button with a plain-text label, capped at 75
// characters by the platform.
func NewButtonElement(label, actionID, value string) *ButtonElement {
	return &ButtonElement{Type: ButtonElementType, Text: PlainText(label), ActionID: actionID, Value: value}
}

// StaticSelectElement is a dropdown with a fixed option list.
type StaticSelectElement struct {
	Type          string              `json:"type" validate:"required"`
	ActionID      string              `json:"action_id,omitempty" validate:"omitempty,max=255"`
	Placeholder   *TextObject         `json:"placeholder,omitempty"`
	Options       []*Option           `json:"options,omitempty" validate:"omitempty,max=100"`
	OptionGroups  []*OptionGroup      `json:"option_groups,omitempty" validate:"omitempty,max=100"`
	InitialOption *Option             `json:"initial_option,omitempty"`
	Confirm       *ConfirmationDialog `json:"confirm,omitempty"`
}

// ElementType identifies the element kind.
func (e *StaticSelectElement) ElementType() string { return StaticSelectElementType }

// NewStaticSelectElement creates a static select with a plain-text
// placeholder.
func NewStaticSelectElement(placeholder, actionID string, options ...*Option) *StaticSelectElement {
	return &StaticSelectElement{
		Type:        StaticSelectElementType,
		ActionID:    actionID,
		Placeholder: PlainText(placeholder),
		Options:     options,
	}
}

// MultiStaticSelectElement is a multi-choice dropdown with a fixed option
// list.
type MultiStaticSelectElement struct {
	Type             string              `json:"type" validate:"required"`
	ActionID         string              `json:"action_id,omitempty" validate:"omitempty,max=255"`
	Placeholder      *TextObject         `json:"placeholder,omitempty"`
	Options          []*Option           `json:"options,omitempty" validate:"omitempty,max=100"`
	OptionGroups     []*OptionGroup      `json:"option_groups,omitempty" validate:"omitempty,max=100"`
	InitialOptions   []*Option           `json:"initial_options,omitempty"`
	MaxSelectedItems int                 `json:"max_selected_items,omitempty" validate:"omitempty,min=1"`
	Confirm          *ConfirmationDialog `json:"confirm,omitempty"`
}

// ElementType identifies the element kind.
func (e *MultiStaticSelectElement) ElementType() string { return MultiStaticSelectElementType }

// UsersSelectElement is a dropdown of workspace members.
type UsersSelectElement struct {
	Type        string      `json:"type" validate:"required"`
	ActionID    string      `json:"action_id,omitempty" validate:"omitempty,max=255"`
	Placeholder *TextObject `json:"placeholder,omitempty"`
	InitialUser string      `json:"initial_user,omitempty"`
}

// ElementType identifies the element kind.
func (e *UsersSelectElement) ElementType() string { return UsersSelectElementType }

// ConversationsSelectElement is a dropdown of conversations.
type ConversationsSelectElement struct {
	Type                string      `json:"type" validate:"required"`
	ActionID            string      `json:"action_id,omitempty" validate:"omitempty,max=255"`
	Placeholder         *TextObject `json:"placeholder,omitempty"`
	InitialConversation string      `json:"initial_conversation,omitempty"`
	DefaultToCurrent    bool        `json:"default_to_current_conversation,omitempty"`
}

// ElementType identifies the element kind.
func (e *ConversationsSelectElement) ElementType() string { return ConversationsSelectElementType }

// ChannelsSelectElement is a dropdown of public channels.
type ChannelsSelectElement struct {
	Type           string      `json:"type" validate:"required"`
	ActionID       string      `json:"action_id,omitempty" validate:"omitempty,max=255"`
	Placeholder    *TextObject `json:"placeholder,omitempty"`
	InitialChannel string      `json:"initial_channel,omitempty"`
}

// ElementType identifies the element kind.
func (e *ChannelsSelectElement) ElementType() string { return ChannelsSelectElementType }

// ExternalSelectElement is a dropdown whose options are served by the app at
// interaction time.
type ExternalSelectElement struct {
	Type           string      `json:"type" validate:"required"`
	ActionID       string      `json:"action_id,omitempty" validate:"omitempty,max=255"`
	Placeholder    *TextObject `json:"placeholder,omitempty"`
	InitialOption  *Option     `json:"initial_option,omitempty"`
	MinQueryLength *int        `json:"min_query_length,omitempty"`
}

// ElementType identifies the element kind.
func (e *ExternalSelectElement) ElementType() string { return ExternalSelectElementType }

// OverflowElement is the "..." context menu, holding two to five options.
type OverflowElement struct {
	Type     string              `json:"type" validate:"required"`
	ActionID string              `json:"action_id,omitempty" validate:"omitempty,max=255"`
	Options  []*Option           `json:"options" validate:"required,min=2,max=5"`
	Confirm  *ConfirmationDialog `json:"confirm,omitempty"`
}

// ElementType identifies the element kind.
func (e *OverflowElement) ElementType() string { return OverflowElementType }

// NewOverflowElement creates an overflow menu.
func NewOverflowElement(actionID string, options ...*Option) *OverflowElement {
	return &OverflowElement{Type: OverflowElementType, ActionID: actionID, Options: options}
}

// DatePickerElement lets the user pick a calendar date.
type DatePickerElement struct {
	Type        string              `json:"type" validate:"required"`
	ActionID    string              `json:"action_id,omitempty" validate:"omitempty,max=255"`
	Placeholder *TextObject         `json:"placeholder,omitempty"`
	InitialDate string              `json:"initial_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Confirm     *ConfirmationDialog `json:"confirm,omitempty"`
}

// ElementType identifies the element kind.
func (e *DatePickerElement) ElementType() string { return DatePickerElementType }

// TimePickerElement lets the user pick a time of day.
type TimePickerElement struct {
	Type        string      `json:"type" validate:"required"`
	ActionID    string      `json:"action_id,omitempty" validate:"omitempty,max=255"`
	Placeholder *TextObject `json:"placeholder,omitempty"`
	InitialTime string      `json:"initial_time,omitempty" validate:"omitempty,datetime=15:04"`
}

// ElementType identifies the element kind.
func (e *TimePickerElement) ElementType() string { return TimePickerElementType }

// PlainTextInputElement is a free-form text field.
type PlainTextInputElement struct {
	Type         string      `json:"type" validate:"required"`
	ActionID     string      `json:"action_id,omitempty" validate:"omitempty,max=255"`
	Placeholder  *TextObject `json:"placeholder,omitempty"`
	InitialValue string      `json:"initial_value,omitempty"`
	Multiline    bool        `json:"multiline,omitempty"`
	MinLength    int         `json:"min_length,omitempty" validate:"omitempty,min=0,max=3000"`
	MaxLength    int         `json:"max_length,omitempty" validate:"omitempty,min=1,max=3000"`
}

// ElementType identifies the element kind.
func (e *PlainTextInputElement) ElementType() string { return PlainTextInputElementType }

// NewPlainTextInputElement creates a single-line text input.
func NewPlainTextInputElement(actionID string) *PlainTextInputElement {
	return &PlainTextInputElement{Type: PlainTextInputElementType, ActionID: actionID}
}

// CheckboxesElement is a group of checkboxes.
type CheckboxesElement struct {
	Type           string              `json:"type" validate:"required"`
	ActionID       string              `json:"action_id,omitempty" validate:"omitempty,max=255"`
	Options        []*Option           `json:"options" validate:"required,max=10"`
	InitialOptions []*Option           `json:"initial_options,omitempty"`
	Confirm        *ConfirmationDialog `json:"confirm,omitempty"`
}

// ElementType identifies the element kind.
func (e *CheckboxesElement) ElementType() string { return CheckboxesElementType }

// RadioButtonsElement is a group of radio buttons.
type RadioButtonsElement struct {
	Type          string              `json:"type" validate:"required"`
	ActionID      string              `json:"action_id,omitempty" validate:"omitempty,max=255"`
	Options       []*Option           `json:"options" validate:"required,max=10"`
	InitialOption *Option             `json:"initial_option,omitempty"`
	Confirm       *ConfirmationDialog `json:"confirm,omitempty"`
}

// ElementType identifies the element kind.
func (e *RadioButtonsElement) ElementType() string { return RadioButtonsElementType }

// ImageElement embeds an image inside section and context blocks.
type ImageElement struct {
	Type     string `json:"type" validate:"required"`
	ImageURL string `json:"image_url" validate:"required,max=3000"`
	AltText  string `json:"alt_text" validate:"required,max=2000"`
}

// ElementType identifies the element kind.
func (e *ImageElement) ElementType() string { return ImageElementType }

// NewImageElement creates an image element.
func NewImageElement(imageURL, altText string) *ImageElement {
	return &ImageElement{Type: ImageElementType, ImageURL: imageURL, AltText: altText}
}
