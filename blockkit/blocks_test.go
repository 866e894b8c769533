package blockkit

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionBlockJSON(t *testing.T) {
	b := NewSectionBlock("*hello* world")
	b.Accessory = NewButtonElement("Click", "act1", "v1")

	raw, err := json.Marshal(b)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, "section", decoded["type"])
	text := decoded["text"].(map[string]any)
	assert.Equal(t, "mrkdwn", text["type"])
	assert.Equal(t, "*hello* world", text["text"])
	accessory := decoded["accessory"].(map[string]any)
	assert.Equal(t, "button", accessory["type"])
}

func TestConstructorsSetDiscriminators(t *testing.T) {
	tests := []struct {
		name  string
		block Block
		want  string
	}{
		{"Section", NewSectionBlock("x"), "section"},
		{"Divider", NewDividerBlock(), "divider"},
		{"Header", NewHeaderBlock("x"), "header"},
		{"Image", NewImageBlock("https://example.com/a.png", "alt"), "image"},
		{"Context", NewContextBlock(Markdown("x")), "context"},
		{"Actions", NewActionsBlock(NewButtonElement("a", "b", "c")), "actions"},
		{"Input", NewInputBlock("Label", NewPlainTextInputElement("a")), "input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.block.BlockType())

			raw, err := json.Marshal(tt.block)
			require.NoError(t, err)
			assert.Contains(t, string(raw), `"type":"`+tt.want+`"`)
		})
	}
}

func TestValidateAcceptsWellFormedBlocks(t *testing.T) {
	blocks := []Block{
		NewHeaderBlock("Release 1.2"),
		NewSectionBlock("All green."),
		NewDividerBlock(),
		NewActionsBlock(
			NewButtonElement("Approve", "approve", "yes"),
			NewOverflowElement("more", NewOption("A", "a"), NewOption("B", "b")),
		),
	}

	assert.NoError(t, ValidateMessageBlocks(blocks))
}

func TestValidateHeaderLength(t *testing.T) {
	b := NewHeaderBlock(strings.Repeat("x", 151))
	err := Validate(b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header text")
}

func TestValidateButtonLabelLength(t *testing.T) {
	e := NewButtonElement(strings.Repeat("x", 76), "act", "v")
	err := Validate(e)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "button label")
}

func TestValidateOverflowOptionCount(t *testing.T) {
	// Overflow menus require between two and five options.
	err := Validate(NewOverflowElement("menu", NewOption("only", "1")))
	assert.Error(t, err)

	opts := make([]*Option, 6)
	for i := range opts {
		opts[i] = NewOption("o", "v")
	}
	assert.Error(t, Validate(NewOverflowElement("menu", opts...)))
}

func TestValidateMessageBlockCount(t *testing.T) {
	blocks := make([]Block, 51)
	for i := range blocks {
		blocks[i] = NewDividerBlock()
	}
	err := ValidateMessageBlocks(blocks)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit")
}

func TestValidateNilBlock(t *testing.T) {
	err := ValidateMessageBlocks([]Block{NewDividerBlock(), nil})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil")
}

func TestModalViewValidation(t *testing.T) {
	view := NewModalView("Settings", NewSectionBlock("body"))
	view.Submit = PlainText("Save")
	assert.NoError(t, Validate(view))

	long := NewModalView(strings.Repeat("t", 25), NewSectionBlock("body"))
	err := Validate(long)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "modal title")
}

func TestOptionValueLength(t *testing.T) {
	opt := NewOption("label", strings.Repeat("v", 151))
	assert.Error(t, Validate(opt))
}

func TestDatePickerInitialDateFormat(t *testing.T) {
	e := &DatePickerElement{Type: DatePickerElementType, InitialDate: "2025-13-40"}
	assert.Error(t, Validate(e))

	e.InitialDate = "2025-06-30"
	assert.NoError(t, Validate(e))
}
