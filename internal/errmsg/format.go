// Package errmsg provides consistent error formatting for log messages and
// the failure reasons reported back to command callers.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Catalog operations
	OpCatalogScan  Op = "scan media catalog"
	OpCatalogWatch Op = "watch media catalog"
	OpCatalogTags  Op = "read file tags"

	// Pipeline operations
	OpPipelineInit  Op = "initialize media pipeline"
	OpPipelineLoad  Op = "load media"
	OpPipelinePlay  Op = "start playback"
	OpPipelineSeek  Op = "seek"
	OpPipelineClose Op = "close media pipeline"

	// Remote control operations
	OpRemoteSend  Op = "forward remote control action"
	OpRemoteWatch Op = "watch remote peer"

	// Settings operations
	OpSettingsLoad Op = "load settings"
	OpSettingsSave Op = "save settings"

	// Desktop integration
	OpMprisStart Op = "start MPRIS bridge"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}

// Wrap annotates err with the failed operation, keeping it unwrappable.
func Wrap(op Op, context string, err error) error {
	if err == nil {
		return nil
	}
	if context == "" {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s '%s': %w", op, context, err)
}
