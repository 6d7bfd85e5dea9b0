// Package styles provides Lipgloss styles for timeline output using the Ciapre colour palette.
package styles

import "github.com/charmbracelet/lipgloss"

// Color palette - Ciapre (warm, earthy) theme from Gogh
const (
	// Border is the colour of frames and rules (Ciapre ANSI 6 brown)
	Border = lipgloss.Color("#5C4F4B")
	// Magenta marks the tweaked strip (Ciapre ANSI 5 magenta)
	Magenta = lipgloss.Color("#724D7C")
	// Dim is the colour of secondary text (Ciapre foreground)
	Dim = lipgloss.Color("#AEA47A")
	// Text is the primary text colour (Ciapre ANSI 14 cream)
	Text = lipgloss.Color("#F3DBB2")
	// Pink is used for headers and the active track (Ciapre ANSI 13 bright magenta)
	Pink = lipgloss.Color("#D33061")
	// Cyan is the colour of clip strips (Ciapre ANSI 12 bright blue)
	Cyan = lipgloss.Color("#3097C6")
	// Amber is the colour of transitions and metas (Ciapre derived)
	Amber = lipgloss.Color("#CC8B3F")
	// Red is used for muted strips and errors (Ciapre ANSI 1)
	Red = lipgloss.Color("#AC3835")
	// Green is used for sound strips and success messages (Ciapre ANSI 2)
	Green = lipgloss.Color("#A6A75D")
)

// Header is the style for table and timeline headers
var Header = lipgloss.NewStyle().
	Foreground(Pink).
	Bold(true)

// Rule is the style for frame rulers and empty track cells
var Rule = lipgloss.NewStyle().
	Foreground(Border)

// PrimaryText is the style for primary text content
var PrimaryText = lipgloss.NewStyle().
	Foreground(Text)

// SecondaryText is the style for less prominent text
var SecondaryText = lipgloss.NewStyle().
	Foreground(Dim)

// Active highlights the active track name and active strip
var Active = lipgloss.NewStyle().
	Foreground(Pink).
	Bold(true)

// Tweak highlights the strip being tweaked
var Tweak = lipgloss.NewStyle().
	Background(Magenta).
	Foreground(Text).
	Bold(true)

// Clip, Transition, Meta and Sound colour strip spans by kind
var (
	Clip       = lipgloss.NewStyle().Foreground(Cyan)
	Transition = lipgloss.NewStyle().Foreground(Amber)
	Meta       = lipgloss.NewStyle().Foreground(Amber).Bold(true)
	Sound      = lipgloss.NewStyle().Foreground(Green)
)

// Muted is the style for muted strips and disabled tracks
var Muted = lipgloss.NewStyle().
	Foreground(Red).
	Faint(true)

// Warning is the style for warning messages
var Warning = lipgloss.NewStyle().
	Foreground(Red).
	Bold(true)

// Success is the style for success messages
var Success = lipgloss.NewStyle().
	Foreground(Green).
	Bold(true)
