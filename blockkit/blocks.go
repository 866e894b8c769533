package blockkit

// Block type discriminators.
const (
	SectionBlockType = "section"
	DividerBlockType = "divider"
	HeaderBlockType  = "header"
	ImageBlockType   = "image"
	ContextBlockType = "context"
	ActionsBlockType = "actions"
	InputBlockType   = "input"
)

// Block is a layout block in a message, modal or home tab.
type Block interface {
	BlockType() string
}

// SectionBlock displays text, optionally with up to ten field columns and a
// trailing accessory element.
type SectionBlock struct {
	Type      string        `json:"type" validate:"required"`
	BlockID   string        `json:"block_id,omitempty" validate:"omitempty,max=255"`
	Text      *TextObject   `json:"text,omitempty"`
	Fields    []*TextObject `json:"fields,omitempty" validate:"omitempty,max=10"`
	Accessory Element       `json:"accessory,omitempty"`
}

// BlockType identifies the block kind.
func (b *SectionBlock) BlockType() string { return SectionBlockType }

// NewSectionBlock creates a section with mrkdwn text.
func NewSectionBlock(text string) *SectionBlock {
	return &SectionBlock{Type: SectionBlockType, Text: Markdown(text)}
}

// DividerBlock renders a horizontal rule.
type DividerBlock struct {
	Type    string `json:"type" validate:"required"`
	BlockID string `json:"block_id,omitempty" validate:"omitempty,max=255"`
}

// BlockType identifies the block kind.
func (b *DividerBlock) BlockType() string { return DividerBlockType }

// NewDividerBlock creates a divider.
func NewDividerBlock() *DividerBlock {
	return &DividerBlock{Type: DividerBlockType}
}

// HeaderBlock renders large plain text.
type HeaderBlock struct {
	Type    string      `json:"type" validate:"required"`
	BlockID string      `json:"block_id,omitempty" validate:"omitempty,max=255"`
	Text    *TextObject `json:"text" validate:"required"`
}

// BlockType identifies the block kind.
func (b *HeaderBlock) BlockType() string { return HeaderBlockType }

// NewHeaderBlock creates a header with plain text, which is capped at 150
// characters by the platform.
func NewHeaderBlock(text string) *HeaderBlock {
	return &HeaderBlock{Type: HeaderBlockType, Text: PlainText(text)}
}

// ImageBlock embeds an image with alt text.
type ImageBlock struct {
	Type     string      `json:"type" validate:"required"`
	BlockID  string      `json:"block_id,omitempty" validate:"omitempty,max=255"`
	ImageURL string      `json:"image_url" validate:"required,max=3000"`
	AltText  string      `json:"alt_text" validate:"required,max=2000"`
	Title    *TextObject `json:"title,omitempty"`
}

// BlockType identifies the block kind.
func (b *ImageBlock) BlockType() string { return ImageBlockType }

// NewImageBlock creates an image block.
func NewImageBlock(imageURL, altText string) *ImageBlock {
	return &ImageBlock{Type: ImageBlockType, ImageURL: imageURL, AltText: altText}
}

// ContextBlock renders small text and images side by side.
type ContextBlock struct {
	Type     string `json:"type" validate:"required"`
	BlockID  string `json:"block_id,omitempty" validate:"omitempty,max=255"`
	Elements []any  `json:"elements" validate:"required,max=10"`
}

// BlockType identifies the block kind.
func (b *ContextBlock) BlockType() string { return ContextBlockType }

// NewContextBlock creates a context block from text objects and image
// elements.
func NewContextBlock(elements ...any) *ContextBlock {
	return &ContextBlock{Type: ContextBlockType, Elements: elements}
}

// ActionsBlock holds up to twenty-five interactive elements.
type ActionsBlock struct {
	Type     string    `json:"type" validate:"required"`
	BlockID  string    `json:"block_id,omitempty" validate:"omitempty,max=255"`
	Elements []Element `json:"elements" validate:"required,max=25"`
}

// BlockType identifies the block kind.
func (b *ActionsBlock) BlockType() string { return ActionsBlockType }

// NewActionsBlock creates an actions block.
func NewActionsBlock(elements ...Element) *ActionsBlock {
	return &ActionsBlock{Type: ActionsBlockType, Elements: elements}
}

// InputBlock collects user input inside modals and home tabs.
type InputBlock struct {
	Type           string      `json:"type" validate:"required"`
	BlockID        string      `json:"block_id,omitempty" validate:"omitempty,max=255"`
	Label          *TextObject `json:"label" validate:"required"`
	Element        Element     `json:"element" validate:"required"`
	Hint           *TextObject `json:"hint,omitempty"`
	Optional       bool        `json:"optional,omitempty"`
	DispatchAction bool        `json:"dispatch_action,omitempty"`
}

// BlockType identifies the block kind.
func (b *InputBlock) BlockType() string { return InputBlockType }

// NewInputBlock creates an input block with a plain-text label.
func NewInputBlock(label string, element Element) *InputBlock {
	return &InputBlock{Type: InputBlockType, Label: PlainText(label), Element: element}
}
