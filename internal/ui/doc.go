// package ui styles the human-readable job summaries printed by the CLI.
//
// Styles come from a single [Palette] of [lipgloss] colors. Colors are dropped automatically when stdout
// is not a terminal, so scheduler logs stay plain.
package ui
