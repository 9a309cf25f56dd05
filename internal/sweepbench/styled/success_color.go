package styled

import "github.com/fatih/color"

// SuccessColor returns the *color.Color used for completion messages.
func SuccessColor() *color.Color {
	return color.New(color.FgGreen, color.Bold)
}
