package styles

// NewDefaultTheme creates the dark aurora theme.
func NewDefaultTheme() *Theme {
	return &Theme{
		Name:   "default",
		IsDark: true,

		// Green/teal aurora tones
		Primary:   ParseHex("#4fd6be"), // Teal
		Secondary: ParseHex("#7aa2f7"), // Soft blue
		Tertiary:  ParseHex("#3b4261"), // Dark gray-blue
		Accent:    ParseHex("#bb9af7"), // Violet

		// Dark backgrounds
		BgBase:    ParseHex("#1a1b26"),
		BgSubtle:  ParseHex("#24283b"),
		BgOverlay: ParseHex("#292e42"),

		// Light foregrounds
		FgBase:   ParseHex("#c0caf5"),
		FgMuted:  ParseHex("#737aa2"),
		FgSubtle: ParseHex("#565f89"),

		// Borders
		Border:      ParseHex("#3b4261"),
		BorderFocus: ParseHex("#4fd6be"),

		// Status colors
		Success: ParseHex("#9ece6a"), // Green
		Error:   ParseHex("#f7768e"), // Red
		Warning: ParseHex("#e0af68"), // Yellow
		Info:    ParseHex("#7dcfff"), // Cyan
	}
}

// NewDawnTheme creates a light theme.
func NewDawnTheme() *Theme {
	return &Theme{
		Name:   "dawn",
		IsDark: false,

		Primary:   ParseHex("#286983"),
		Secondary: ParseHex("#56949f"),
		Tertiary:  ParseHex("#dfdad9"),
		Accent:    ParseHex("#907aa9"),

		BgBase:    ParseHex("#faf4ed"),
		BgSubtle:  ParseHex("#f2e9e1"),
		BgOverlay: ParseHex("#fffaf3"),

		FgBase:   ParseHex("#575279"),
		FgMuted:  ParseHex("#797593"),
		FgSubtle: ParseHex("#9893a5"),

		Border:      ParseHex("#dfdad9"),
		BorderFocus: ParseHex("#286983"),

		Success: ParseHex("#56949f"),
		Error:   ParseHex("#b4637a"),
		Warning: ParseHex("#ea9d34"),
		Info:    ParseHex("#286983"),
	}
}
