package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Keymap struct {
	Normal map[string]string `toml:"normal"`
}

type EditorOptions struct {
	TabWidth        int    `toml:"tab-width"`
	ShiftWidth      int    `toml:"shift-width"`
	LineNumbers     string `toml:"line-numbers"`
	GitBranchSymbol string `toml:"git-branch-symbol"`
}

// SelectionOptions configure multi-selection runs.
type SelectionOptions struct {
	// AbortOnError reports command failures from a run instead of only
	// logging them.
	AbortOnError bool `toml:"abort-on-error"`
	// StopOnError ends a run at the first failing interval.
	StopOnError bool `toml:"stop-on-error"`
	// Marker names the buffer marker reused to track line drift.
	Marker       string `toml:"marker"`
	GutterSymbol string `toml:"gutter-symbol"`
}

type Theme struct {
	Theme                      string `toml:"theme"`
	Foreground                 string `toml:"foreground"`
	Background                 string `toml:"background"`
	StatuslineForeground       string `toml:"statusline-foreground"`
	StatuslineBackground       string `toml:"statusline-background"`
	CommandlineForeground      string `toml:"commandline-foreground"`
	CommandlineBackground      string `toml:"commandline-background"`
	LineNumberForeground       string `toml:"line-number-foreground"`
	LineNumberActiveForeground string `toml:"line-number-active-foreground"`
	SelectionForeground        string `toml:"selection-foreground"`
	SelectionBackground        string `toml:"selection-background"`
	MultiselectForeground      string `toml:"multiselect-foreground"`
	MultiselectBackground      string `toml:"multiselect-background"`
	GutterForeground           string `toml:"gutter-foreground"`
	SyntaxKeyword              string `toml:"syntax-keyword"`
	SyntaxString               string `toml:"syntax-string"`
	SyntaxComment              string `toml:"syntax-comment"`
	SyntaxType                 string `toml:"syntax-type"`
	SyntaxFunction             string `toml:"syntax-function"`
	SyntaxNumber               string `toml:"syntax-number"`
	SyntaxConstant             string `toml:"syntax-constant"`
	SyntaxField                string `toml:"syntax-field"`
	SyntaxVariable             string `toml:"syntax-variable"`
}

type Config struct {
	Editor    EditorOptions    `toml:"editor"`
	Selection SelectionOptions `toml:"selection"`
	Theme     Theme            `toml:"theme"`
	Keymap    Keymap           `toml:"keymap"`
}

// userConfig mirrors Config with pointer booleans so that an explicit false
// in config.toml can override a true default.
type userConfig struct {
	Editor    EditorOptions `toml:"editor"`
	Selection struct {
		AbortOnError *bool  `toml:"abort-on-error"`
		StopOnError  *bool  `toml:"stop-on-error"`
		Marker       string `toml:"marker"`
		GutterSymbol string `toml:"gutter-symbol"`
	} `toml:"selection"`
	Theme  Theme  `toml:"theme"`
	Keymap Keymap `toml:"keymap"`
}

func Default() Config {
	return Config{
		Editor: EditorOptions{
			TabWidth:        4,
			ShiftWidth:      4,
			LineNumbers:     "absolute",
			GitBranchSymbol: "git:",
		},
		Selection: SelectionOptions{
			AbortOnError: true,
			StopOnError:  false,
			Marker:       "z",
			GutterSymbol: "▌",
		},
		Theme: Theme{
			Foreground:                 "#B3B1AD",
			Background:                 "#0A0E14",
			StatuslineForeground:       "#B3B1AD",
			StatuslineBackground:       "#0F1419",
			CommandlineForeground:      "#B3B1AD",
			CommandlineBackground:      "#0F1419",
			LineNumberForeground:       "#3E4B59",
			LineNumberActiveForeground: "#B3B1AD",
			SelectionForeground:        "#B3B1AD",
			SelectionBackground:        "#27425A",
			MultiselectForeground:      "#0A0E14",
			MultiselectBackground:      "#E6B450",
			GutterForeground:           "#E6B450",
			SyntaxKeyword:              "#FF8F40",
			SyntaxString:               "#AAD94C",
			SyntaxComment:              "#626A73",
			SyntaxType:                 "#59C2FF",
			SyntaxFunction:             "#FFB454",
			SyntaxNumber:               "#D2A6FF",
			SyntaxConstant:             "#D2A6FF",
			SyntaxField:                "#F07178",
			SyntaxVariable:             "#B3B1AD",
		},
		Keymap: Keymap{
			Normal: map[string]string{
				"j":      "move_down",
				"k":      "move_up",
				"down":   "move_down",
				"up":     "move_up",
				"pgup":   "page_up",
				"pgdn":   "page_down",
				"g":      "file_start",
				"G":      "file_end",
				"home":   "file_start",
				"end":    "file_end",
				":":      "enter_command",
				"ctrl+c": "quit",
				"cmd+l":  "toggle_line_numbers",

				"V":      "toggle_line_select",
				"esc":    "collapse_selection",
				"+":      "selection_add",
				"-":      "selection_clear",
				"!":      "selection_invert",
				"D":      "selection_delete",
				"R":      "selection_restore",
				"H":      "selection_toggle_hidden",
				"n":      "selection_next",
				"N":      "selection_prev",
				"ctrl+n": "selection_next",
				"ctrl+p": "selection_prev",
			},
		},
	}
}

func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg userConfig
	if _, err := toml.Decode(string(data), &userCfg); err != nil {
		return cfg, err
	}

	if userCfg.Editor.TabWidth > 0 {
		cfg.Editor.TabWidth = userCfg.Editor.TabWidth
	}
	if userCfg.Editor.ShiftWidth > 0 {
		cfg.Editor.ShiftWidth = userCfg.Editor.ShiftWidth
	}
	if userCfg.Editor.LineNumbers != "" {
		cfg.Editor.LineNumbers = userCfg.Editor.LineNumbers
	}
	if userCfg.Editor.GitBranchSymbol != "" {
		cfg.Editor.GitBranchSymbol = userCfg.Editor.GitBranchSymbol
	}
	if v := userCfg.Selection.AbortOnError; v != nil {
		cfg.Selection.AbortOnError = *v
	}
	if v := userCfg.Selection.StopOnError; v != nil {
		cfg.Selection.StopOnError = *v
	}
	if userCfg.Selection.Marker != "" {
		cfg.Selection.Marker = userCfg.Selection.Marker
	}
	if userCfg.Selection.GutterSymbol != "" {
		cfg.Selection.GutterSymbol = userCfg.Selection.GutterSymbol
	}
	if userCfg.Theme.Theme != "" {
		cfg.Theme.Theme = userCfg.Theme.Theme
	}
	if cfg.Theme.Theme != "" {
		theme, err := LoadTheme(cfg.Theme.Theme)
		if err != nil {
			return cfg, err
		}
		mergeTheme(&cfg.Theme, theme)
	}
	mergeTheme(&cfg.Theme, userCfg.Theme)
	for k, v := range userCfg.Keymap.Normal {
		cfg.Keymap.Normal[k] = v
	}

	return cfg, nil
}

func mergeTheme(dst *Theme, src Theme) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&dst.Foreground, src.Foreground)
	set(&dst.Background, src.Background)
	set(&dst.StatuslineForeground, src.StatuslineForeground)
	set(&dst.StatuslineBackground, src.StatuslineBackground)
	set(&dst.CommandlineForeground, src.CommandlineForeground)
	set(&dst.CommandlineBackground, src.CommandlineBackground)
	set(&dst.LineNumberForeground, src.LineNumberForeground)
	set(&dst.LineNumberActiveForeground, src.LineNumberActiveForeground)
	set(&dst.SelectionForeground, src.SelectionForeground)
	set(&dst.SelectionBackground, src.SelectionBackground)
	set(&dst.MultiselectForeground, src.MultiselectForeground)
	set(&dst.MultiselectBackground, src.MultiselectBackground)
	set(&dst.GutterForeground, src.GutterForeground)
	set(&dst.SyntaxKeyword, src.SyntaxKeyword)
	set(&dst.SyntaxString, src.SyntaxString)
	set(&dst.SyntaxComment, src.SyntaxComment)
	set(&dst.SyntaxType, src.SyntaxType)
	set(&dst.SyntaxFunction, src.SyntaxFunction)
	set(&dst.SyntaxNumber, src.SyntaxNumber)
	set(&dst.SyntaxConstant, src.SyntaxConstant)
	set(&dst.SyntaxField, src.SyntaxField)
	set(&dst.SyntaxVariable, src.SyntaxVariable)
}

func ThemePath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "theme", name+".toml"), nil
}

func LoadTheme(name string) (Theme, error) {
	path, err := ThemePath(name)
	if err != nil {
		return Theme{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, err
	}
	var t Theme
	if _, err := toml.Decode(string(data), &t); err == nil {
		return t, nil
	}
	var wrap struct {
		Theme Theme `toml:"theme"`
	}
	if _, err := toml.Decode(string(data), &wrap); err != nil {
		return Theme{}, err
	}
	return wrap.Theme, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("MULTISEL_CONFIG_HOME"); v != "" {
		return filepath.Join(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "multisel"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "multisel"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
