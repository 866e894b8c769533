package blockkit

// View type discriminators.
const (
	ModalViewType = "modal"
	HomeViewType  = "home"
)

// ModalView is the container payload for views.open, views.push and
// views.update.
type ModalView struct {
	Type            string      `json:"type" validate:"required"`
	Title           *TextObject `json:"title" validate:"required"`
	Blocks          []Block     `json:"blocks" validate:"required,max=100"`
	Close           *TextObject `json:"close,omitempty"`
	Submit          *TextObject `json:"submit,omitempty"`
	PrivateMetadata string      `json:"private_metadata,omitempty" validate:"omitempty,max=3000"`
	CallbackID      string      `json:"callback_id,omitempty" validate:"omitempty,max=255"`
	ExternalID      string      `json:"external_id,omitempty"`
	ClearOnClose    bool        `json:"clear_on_close,omitempty"`
	NotifyOnClose   bool        `json:"notify_on_close,omitempty"`
}

// NewModalView creates a modal with a plain-text title, which the platform
// caps at 24 characters.
func NewModalView(title string, blocks ...Block) *ModalView {
	return &ModalView{Type: ModalViewType, Title: PlainText(title), Blocks: blocks}
}

// HomeView is the container payload for views.publish.
type HomeView struct {
	Type            string  `json:"type" validate:"required"`
	Blocks          []Block `json:"blocks" validate:"required,max=100"`
	PrivateMetadata string  `json:"private_metadata,omitempty" validate:"omitempty,max=3000"`
	CallbackID      string  `json:"callback_id,omitempty" validate:"omitempty,max=255"`
	ExternalID      string  `json:"external_id,omitempty"`
}

// NewHomeView creates a home tab view.
func NewHomeView(blocks ...Block) *HomeView {
	return &HomeView{Type: HomeViewType, Blocks: blocks}
}
