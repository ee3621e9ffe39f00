// Цветовые схемы и стили терминального интерфейса.
package tui

import "github.com/charmbracelet/lipgloss"

// ColorScheme определяет цвета элементов чата.
//
// Каждое поле — lipgloss.Color (hex, ANSI или именованный цвет).
type ColorScheme struct {
	StatusBackground lipgloss.Color
	StatusForeground lipgloss.Color

	SystemMessage lipgloss.Color
	UserMessage   lipgloss.Color
	AIMessage     lipgloss.Color
	ErrorMessage  lipgloss.Color
	ToolCall      lipgloss.Color
	ToolResult    lipgloss.Color

	InputPrompt lipgloss.Color
	Border      lipgloss.Color
}

// ColorSchemes — предустановленные схемы.
var ColorSchemes = map[string]ColorScheme{
	"default": {
		StatusBackground: lipgloss.Color("235"),
		StatusForeground: lipgloss.Color("252"),
		SystemMessage:    lipgloss.Color("242"),
		UserMessage:      lipgloss.Color("226"),
		AIMessage:        lipgloss.Color("86"),
		ErrorMessage:     lipgloss.Color("196"),
		ToolCall:         lipgloss.Color("99"),
		ToolResult:       lipgloss.Color("245"),
		InputPrompt:      lipgloss.Color("252"),
		Border:           lipgloss.Color("240"),
	},
	"dark": {
		StatusBackground: lipgloss.Color("0"),
		StatusForeground: lipgloss.Color("15"),
		SystemMessage:    lipgloss.Color("8"),
		UserMessage:      lipgloss.Color("11"),
		AIMessage:        lipgloss.Color("14"),
		ErrorMessage:     lipgloss.Color("9"),
		ToolCall:         lipgloss.Color("13"),
		ToolResult:       lipgloss.Color("7"),
		InputPrompt:      lipgloss.Color("15"),
		Border:           lipgloss.Color("4"),
	},
}

// GetColorScheme возвращает схему по имени, default как fallback.
func GetColorScheme(name string) ColorScheme {
	if scheme, ok := ColorSchemes[name]; ok {
		return scheme
	}
	return ColorSchemes["default"]
}

// styles — готовые lipgloss стили, собранные из схемы один раз.
type styles struct {
	status     lipgloss.Style
	system     lipgloss.Style
	user       lipgloss.Style
	ai         lipgloss.Style
	errMsg     lipgloss.Style
	toolCall   lipgloss.Style
	toolResult lipgloss.Style
}

func newStyles(scheme ColorScheme) styles {
	return styles{
		status: lipgloss.NewStyle().
			Background(scheme.StatusBackground).
			Foreground(scheme.StatusForeground).
			Padding(0, 1),
		system:     lipgloss.NewStyle().Foreground(scheme.SystemMessage),
		user:       lipgloss.NewStyle().Foreground(scheme.UserMessage).Bold(true),
		ai:         lipgloss.NewStyle().Foreground(scheme.AIMessage),
		errMsg:     lipgloss.NewStyle().Foreground(scheme.ErrorMessage).Bold(true),
		toolCall:   lipgloss.NewStyle().Foreground(scheme.ToolCall),
		toolResult: lipgloss.NewStyle().Foreground(scheme.ToolResult),
	}
}
