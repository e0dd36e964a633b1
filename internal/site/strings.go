package site

// Strings are the localized labels used inside rendered markup.
type Strings struct {
	Code       string `yaml:"code"`
	CodeSelect string `yaml:"codeSelect"`
	Quote      string `yaml:"quote"`
	QuoteFrom  string `yaml:"quoteFrom"`
	Spoiler    string `yaml:"spoiler"`
	SearchOn   string `yaml:"searchOn"`
	Footnote   string `yaml:"footnote"`
}

// DefaultStrings returns the English label set.
func DefaultStrings() Strings {
	return Strings{
		Code:       "Code",
		CodeSelect: "Select",
		Quote:      "Quote",
		QuoteFrom:  "Quote from",
		Spoiler:    "Spoiler",
		SearchOn:   "on",
		Footnote:   "Footnote",
	}
}

// Merge returns s with every empty field filled from fallback.
func (s Strings) Merge(fallback Strings) Strings {
	pick := func(v, d string) string {
		if v == "" {
			return d
		}
		return v
	}
	return Strings{
		Code:       pick(s.Code, fallback.Code),
		CodeSelect: pick(s.CodeSelect, fallback.CodeSelect),
		Quote:      pick(s.Quote, fallback.Quote),
		QuoteFrom:  pick(s.QuoteFrom, fallback.QuoteFrom),
		Spoiler:    pick(s.Spoiler, fallback.Spoiler),
		SearchOn:   pick(s.SearchOn, fallback.SearchOn),
		Footnote:   pick(s.Footnote, fallback.Footnote),
	}
}
