package codes

import (
	"errors"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/elkarte/go-bbc/internal/dateutil"
)

var (
	colorPattern  = regexp.MustCompile(`^(?:#[0-9a-fA-F]{3}|#[0-9a-fA-F]{6}|[A-Za-z]{1,20}|rgb\(\d{1,3}, ?\d{1,3}, ?\d{1,3}\))$`)
	sizePattern   = regexp.MustCompile(`^(?:[1-7]|\d{1,2}(?:\.\d{1,2})?(?:px|pt|em)|(?:xx-|x-)?(?:small|large)|medium|larger|smaller)$`)
	fontPattern   = regexp.MustCompile(`^[A-Za-z0-9 ,_\-]{1,50}$`)
	anchorPattern = regexp.MustCompile(`^#?([a-z][-a-z0-9_]*)$`)
	digitsPattern = regexp.MustCompile(`^\d+$`)
	floatPattern  = regexp.MustCompile(`^(left|right)$`)
	schemePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*:`)
	langPattern   = regexp.MustCompile(`^[A-Za-z0-9_+#.\-]{1,30}$`)
)

// relative font sizes for [size=1] through [size=7]
var sizeSteps = map[string]string{
	"1": "0.7em",
	"2": "1em",
	"3": "1.35em",
	"4": "1.45em",
	"5": "2em",
	"6": "2.65em",
	"7": "3.95em",
}

var unsafeSchemes = []string{"javascript:", "vbscript:", "data:"}

// normalizeURL trims v, rejects script schemes and adds http:// to
// scheme-less addresses.
func normalizeURL(v string) (string, error) {
	v = strings.TrimSpace(strings.ReplaceAll(v, "<br />", ""))
	if v == "" {
		return "", ErrEmptyValue
	}
	probe := strings.ToLower(html.UnescapeString(v))
	probe = strings.Map(func(r rune) rune {
		if r <= ' ' {
			return -1
		}
		return r
	}, probe)
	for _, s := range unsafeSchemes {
		if strings.HasPrefix(probe, s) {
			return "", fmt.Errorf("%w: %q", ErrUnsafeURL, s)
		}
	}
	switch {
	case strings.HasPrefix(v, "//"), strings.HasPrefix(v, "/"), strings.HasPrefix(v, "#"):
	case strings.Contains(v, "://"), schemePattern.MatchString(v):
	default:
		v = "http://" + v
	}
	return v, nil
}

// URLValidator normalizes values[idx] as a link target.
func URLValidator(idx int) Validator {
	return ValidatorFunc(func(values []string, _ bool) ([]string, error) {
		if idx >= len(values) {
			return nil, ErrEmptyValue
		}
		u, err := normalizeURL(values[idx])
		if err != nil {
			return nil, err
		}
		out := append([]string(nil), values...)
		out[idx] = u
		return out, nil
	})
}

// IURLValidator is URLValidator for in-forum links; anchors stay relative.
func IURLValidator(idx int) Validator {
	return ValidatorFunc(func(values []string, disabled bool) ([]string, error) {
		if idx < len(values) && strings.HasPrefix(strings.TrimSpace(values[idx]), "#") {
			out := append([]string(nil), values...)
			out[idx] = "#post_" + strings.TrimPrefix(strings.TrimSpace(values[idx]), "#")
			return out, nil
		}
		return URLValidator(idx).Validate(values, disabled)
	})
}

// EmailValidator requires an @ in $1 and strips line breaks.
var EmailValidator = ValidatorFunc(func(values []string, _ bool) ([]string, error) {
	if len(values) == 0 {
		return nil, ErrEmptyValue
	}
	v := strings.TrimSpace(strings.ReplaceAll(values[0], "<br />", ""))
	if !strings.Contains(v, "@") || strings.ContainsAny(v, " \t") {
		return nil, fmt.Errorf("%w: not an email address", ErrInvalidValue)
	}
	out := append([]string(nil), values...)
	out[0] = v
	return out, nil
})

// ColorValidator accepts hex, named and rgb() colors.
var ColorValidator = &RegexValidator{Pattern: colorPattern, Description: "a color"}

// FontValidator accepts plain font family lists.
var FontValidator = &RegexValidator{Pattern: fontPattern, Description: "a font family"}

// FloatValidator accepts left or right.
var FloatValidator = &RegexValidator{Pattern: floatPattern, Description: "left or right"}

// SizeValidator maps 1-7 to relative sizes and passes explicit units.
var SizeValidator = ValidatorFunc(func(values []string, _ bool) ([]string, error) {
	if len(values) == 0 || !sizePattern.MatchString(values[0]) {
		return nil, fmt.Errorf("%w: expected a font size", ErrInvalidValue)
	}
	out := append([]string(nil), values...)
	if step, ok := sizeSteps[out[0]]; ok {
		out[0] = step
	}
	return out, nil
})

// AnchorValidator strips a leading # from anchor names.
var AnchorValidator = ValidatorFunc(func(values []string, _ bool) ([]string, error) {
	if len(values) == 0 {
		return nil, ErrEmptyValue
	}
	m := anchorPattern.FindStringSubmatch(values[0])
	if m == nil {
		return nil, fmt.Errorf("%w: expected an anchor name", ErrInvalidValue)
	}
	out := append([]string(nil), values...)
	out[0] = m[1]
	return out, nil
})

// DigitsValidator requires $1 to be a non negative integer.
var DigitsValidator = &RegexValidator{Pattern: digitsPattern, Description: "a number"}

// tabValidator keeps tabs visible inside code blocks.
var tabValidator = ValidatorFunc(func(values []string, disabled bool) ([]string, error) {
	if len(values) == 0 {
		return values, nil
	}
	out := append([]string(nil), values...)
	if disabled {
		out[0] = strings.ReplaceAll(out[0], "\t", "&#009;")
	} else {
		out[0] = strings.ReplaceAll(out[0], "\t", `<span class="tab">&#009;</span>`)
	}
	return out, nil
})

// highlightValidator renders $1 through h using the language in $2. Unknown
// languages and highlighter failures fall back to the tab-expanded body.
func highlightValidator(h Highlighter) Validator {
	return ValidatorFunc(func(values []string, disabled bool) ([]string, error) {
		if len(values) < 2 {
			return tabValidator(values, disabled)
		}
		out := append([]string(nil), values...)
		out[1] = strings.TrimSpace(out[1])
		if !langPattern.MatchString(out[1]) {
			return nil, fmt.Errorf("%w: expected a language name", ErrInvalidValue)
		}
		if h == nil || disabled {
			return tabValidator(out, disabled)
		}
		src := html.UnescapeString(strings.ReplaceAll(out[0], "<br />", "\n"))
		rendered, err := h.Highlight(strings.ToLower(out[1]), src)
		if err != nil {
			return tabValidator(out, disabled)
		}
		out[0] = rendered
		return out, nil
	})
}

// dateValidator formats a unix timestamp with the forum date format.
func dateValidator(format string) Validator {
	return ValidatorFunc(func(values []string, _ bool) ([]string, error) {
		if len(values) == 0 {
			return nil, ErrEmptyValue
		}
		ts, err := strconv.ParseInt(values[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		formatted, err := dateutil.FormatUnix(ts, format)
		if err != nil {
			if errors.Is(err, dateutil.ErrInvalidDateFormat) {
				formatted, err = dateutil.FormatUnix(ts, dateutil.DefaultDateFormat)
			}
			if err != nil {
				return nil, err
			}
		}
		return []string{formatted}, nil
	})
}
