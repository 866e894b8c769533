package blockkit

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Platform limits not expressible as struct tags.
const (
	maxMessageBlocks = 50
	maxHeaderLength  = 150
	maxButtonLength  = 75
	maxTitleLength   = 24
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks a single block, element or composition object against the
// platform's documented limits.
func Validate(payload any) error {
	if err := structValidator().Struct(payload); err != nil {
		return fmt.Errorf("blockkit: %w", err)
	}

	switch v := payload.(type) {
	case *HeaderBlock:
		if v.Text != nil && len(v.Text.Text) > maxHeaderLength {
			return fmt.Errorf("blockkit: header text exceeds %d characters", maxHeaderLength)
		}
	case *ButtonElement:
		if v.Text != nil && len(v.Text.Text) > maxButtonLength {
			return fmt.Errorf("blockkit: button label exceeds %d characters", maxButtonLength)
		}
	case *ModalView:
		if v.Title != nil && len(v.Title.Text) > maxTitleLength {
			return fmt.Errorf("blockkit: modal title exceeds %d characters", maxTitleLength)
		}
		return validateBlocks(v.Blocks, 100)
	case *HomeView:
		return validateBlocks(v.Blocks, 100)
	}
	return nil
}

// ValidateMessageBlocks checks a message's block list. Messages allow fewer
// blocks than views.
func ValidateMessageBlocks(blocks []Block) error {
	return validateBlocks(blocks, maxMessageBlocks)
}

func validateBlocks(blocks []Block, limit int) error {
	if len(blocks) > limit {
		return fmt.Errorf("blockkit: %d blocks exceed the limit of %d", len(blocks), limit)
	}
	for i, b := range blocks {
		if b == nil {
			return fmt.Errorf("blockkit: block %d is nil", i)
		}
		if err := Validate(b); err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
	}
	return nil
}
