package codes

import (
	"fmt"
	"regexp"
)

const listStyles = `none|disc|circle|square|decimal|decimal-leading-zero|lower-roman|upper-roman|lower-alpha|upper-alpha|lower-greek|lower-latin|upper-latin|hebrew|armenian|georgian|cjk-ideographic|hiragana|katakana|hiragana-iroha|katakana-iroha`

var (
	quoteAuthorMatch = regexp.MustCompile(`^([^<>]{1,192}?)$`)
	quoteLinkMatch   = regexp.MustCompile(`^((?:board=\d+;)?(?:(?:topic|threadid)=[\dmsg#./]{1,40}(?:;start=[\dmsg#./]{1,40})?|msg=\d{1,40}|action=profile;u=\d+))$`)
	quoteDateMatch   = regexp.MustCompile(`^(\d+)$`)
	dimensionMatch   = regexp.MustCompile(`^(\d+)$`)
	freeTextMatch    = regexp.MustCompile(`^([^\]]{0,200})$`)
	listTypeMatch    = regexp.MustCompile(`^(` + listStyles + `)$`)
)

const linkAttrs = `class="bbc_link" target="_blank" rel="noopener noreferrer ugc"`

// buildDefaults returns the built-in tag table. It is called once per
// Registry.
func buildDefaults(env Env) []Tag {
	txt := env.Site.Strings
	script := env.Site.ScriptURL
	settings := env.Site.Settings

	imgStyle := ""
	if settings.MaxImageWidth > 0 {
		imgStyle += fmt.Sprintf("max-width: %dpx;", settings.MaxImageWidth)
	}
	if settings.MaxImageHeight > 0 {
		imgStyle += fmt.Sprintf("max-height: %dpx;", settings.MaxImageHeight)
	}
	imgStyleAttr := ""
	if imgStyle != "" {
		imgStyleAttr = ` style="` + imgStyle + `"`
	}

	var codeValidator Validator = tabValidator
	var langValidator = highlightValidator(nil)
	if settings.HighlightCode && env.Highlighter != nil {
		langValidator = highlightValidator(env.Highlighter)
	}

	codeHeader := `<div class="codeheader"><span class="code">` + txt.Code + `:</span></div>`

	return []Tag{
		{
			Name:          "abbr",
			Kind:          UnparsedEquals{Before: `<abbr title="$1">`, After: `</abbr>`},
			Quoted:        QuoteOptional,
			DisabledAfter: ` ($1)`,
		},
		{
			Name: "anchor",
			Kind: UnparsedEquals{
				Before:   `<span id="post_$1">`,
				After:    `</span>`,
				Validate: AnchorValidator,
			},
			DisallowParents: []string{"url", "iurl"},
		},
		{
			Name: "b",
			Kind: ParsedContent{Before: `<strong class="bbc_strong">`, After: `</strong>`},
		},
		{
			Name: "br",
			Kind: Closed{Content: `<br />`},
		},
		{
			Name:  "center",
			Kind:  ParsedContent{Before: `<div class="centertext">`, After: `</div>`},
			Block: true,
		},
		{
			Name: "code",
			Kind: UnparsedContent{
				Content:  codeHeader + `<pre class="bbc_code prettyprint">$1</pre>`,
				Validate: codeValidator,
			},
			Block:      true,
			NoAutolink: true,
		},
		{
			Name: "code",
			Kind: UnparsedEqualsContent{
				Content:  `<div class="codeheader"><span class="code">` + txt.Code + `:</span> ($2)</div><pre class="bbc_code prettyprint lang-$2">$1</pre>`,
				Validate: langValidator,
			},
			Block:      true,
			NoAutolink: true,
		},
		{
			Name: "color",
			Kind: UnparsedEquals{
				Before:   `<span style="color: $1;" class="bbc_color">`,
				After:    `</span>`,
				Validate: ColorValidator,
			},
		},
		{
			Name: "email",
			Kind: UnparsedContent{
				Content:  `<a href="mailto:$1" class="bbc_email">$1</a>`,
				Validate: EmailValidator,
			},
			DisabledContent: `$1`,
			NoAutolink:      true,
		},
		{
			Name: "email",
			Kind: UnparsedEquals{
				Before:   `<a href="mailto:$1" class="bbc_email">`,
				After:    `</a>`,
				Validate: EmailValidator,
			},
			DisallowChildren: []string{"email", "url", "iurl"},
			DisabledAfter:    ` ($1)`,
			NoAutolink:       true,
		},
		{
			Name: "float",
			Kind: UnparsedEquals{
				Before:   `<div class="float$1">`,
				After:    `</div>`,
				Validate: FloatValidator,
			},
			DisallowChildren: []string{"float"},
			Block:            true,
			Trim:             TrimOutside,
		},
		{
			Name: "font",
			Kind: UnparsedEquals{
				Before:   `<span style="font-family: $1;" class="bbc_font">`,
				After:    `</span>`,
				Validate: FontValidator,
			},
		},
		{
			Name:             "footnote",
			Kind:             ParsedContent{Before: `<sup class="bbc_footnotes" title="` + txt.Footnote + `">`, After: `</sup>`},
			DisallowParents:  []string{"footnote", "code", "anchor", "url", "iurl"},
			DisallowChildren: []string{"footnote"},
			DisabledBefore:   " (",
			DisabledAfter:    ")",
		},
		{
			Name:  "hr",
			Kind:  Closed{Content: `<hr />`},
			Block: true,
			Trim:  TrimOutside,
		},
		{
			Name: "i",
			Kind: ParsedContent{Before: `<em>`, After: `</em>`},
		},
		{
			Name: "icode",
			Kind: UnparsedContent{
				Content:  `<code class="bbc_code_inline">$1</code>`,
				Validate: tabValidator,
			},
			NoAutolink: true,
		},
		{
			Name: "img",
			Kind: UnparsedContent{
				Content:  `<img src="$1" alt="{alt}" title="{title}" style="{width}{height}" class="bbc_img resized" />`,
				Validate: URLValidator(0),
			},
			Params: []Param{
				{Name: "width", Match: dimensionMatch, Value: "width: 100%; max-width: $1px;", Optional: true},
				{Name: "height", Match: dimensionMatch, Value: "max-height: $1px;", Optional: true},
				{Name: "alt", Match: freeTextMatch, Quoted: QuoteOptional, Optional: true},
				{Name: "title", Match: freeTextMatch, Quoted: QuoteOptional, Optional: true},
			},
			DisabledContent: `($1)`,
			NoAutolink:      true,
		},
		{
			Name: "img",
			Kind: UnparsedContent{
				Content:  `<img src="$1" alt=""` + imgStyleAttr + ` class="bbc_img" />`,
				Validate: URLValidator(0),
			},
			DisabledContent: `($1)`,
			NoAutolink:      true,
		},
		{
			Name: "iurl",
			Kind: UnparsedContent{
				Content:  `<a href="$1" class="bbc_link">$1</a>`,
				Validate: IURLValidator(0),
			},
			DisabledContent: `$1`,
			NoAutolink:      true,
		},
		{
			Name: "iurl",
			Kind: UnparsedEquals{
				Before:   `<a href="$1" class="bbc_link">`,
				After:    `</a>`,
				Validate: IURLValidator(0),
			},
			DisallowChildren: []string{"email", "url", "iurl"},
			DisabledAfter:    ` ($1)`,
			NoAutolink:       true,
		},
		{
			Name:  "left",
			Kind:  ParsedContent{Before: `<div style="text-align: left;">`, After: `</div>`},
			Block: true,
		},
		{
			Name:           "li",
			Kind:           ParsedContent{Before: `<li>`, After: `</li>`},
			Trim:           TrimOutside,
			RequireParents: []string{"list"},
			Block:          true,
			DisabledAfter:  `<br />`,
		},
		{
			Name:            "list",
			Kind:            ParsedContent{Before: `<ul class="bbc_list">`, After: `</ul>`},
			Trim:            TrimInside,
			RequireChildren: []string{"li", "list"},
			Block:           true,
		},
		{
			Name: "list",
			Kind: ParsedContent{
				Before: `<ul class="bbc_list" style="list-style-type: {type};">`,
				After:  `</ul>`,
			},
			Params:          []Param{{Name: "type", Match: listTypeMatch}},
			Trim:            TrimInside,
			RequireChildren: []string{"li", "list"},
			Block:           true,
		},
		{
			Name:           "me",
			Kind:           UnparsedEquals{Before: `<div class="meaction">&nbsp;$1 `, After: `</div>`},
			Quoted:         QuoteOptional,
			Block:          true,
			DisabledBefore: `/me `,
			DisabledAfter:  `<br />`,
		},
		{
			Name: "member",
			Kind: UnparsedEquals{
				Before:   `<span class="bbc_mention"><a href="` + script + `?action=profile;u=$1">@`,
				After:    `</a></span>`,
				Validate: DigitsValidator,
			},
			DisabledBefore: `@`,
		},
		{
			Name:       "nobbc",
			Kind:       UnparsedContent{Content: `$1`},
			NoAutolink: true,
		},
		{
			Name:  "pre",
			Kind:  ParsedContent{Before: `<pre class="bbc_pre">`, After: `</pre>`},
			Block: true,
		},
		{
			Name: "quote",
			Kind: ParsedContent{
				Before: `<div class="quoteheader">` + txt.Quote + `</div><blockquote class="bbc_standard_quote">`,
				After:  `</blockquote>`,
			},
			Block: true,
			Trim:  TrimBoth,
		},
		{
			Name: "quote",
			Kind: ParsedEquals{
				Before: `<div class="quoteheader">` + txt.QuoteFrom + `: $1</div><blockquote class="bbc_standard_quote">`,
				After:  `</blockquote>`,
			},
			Quoted: QuoteOptional,
			Block:  true,
			Trim:   TrimBoth,
		},
		{
			Name: "quote",
			Kind: ParsedContent{
				Before: `<div class="quoteheader"><a href="` + script + `?{link}">` + txt.QuoteFrom + `: {author} ` + txt.SearchOn + ` {date}</a></div><blockquote class="bbc_standard_quote">`,
				After:  `</blockquote>`,
			},
			Params: []Param{
				{Name: "author", Match: quoteAuthorMatch, Quoted: QuoteOptional},
				{Name: "link", Match: quoteLinkMatch},
				{Name: "date", Match: quoteDateMatch, Validate: dateValidator(settings.QuoteDateFormat)},
			},
			Block: true,
			Trim:  TrimBoth,
		},
		{
			Name: "quote",
			Kind: ParsedContent{
				Before: `<div class="quoteheader">` + txt.QuoteFrom + `: {author} ` + txt.SearchOn + ` {date}</div><blockquote class="bbc_standard_quote">`,
				After:  `</blockquote>`,
			},
			Params: []Param{
				{Name: "author", Match: quoteAuthorMatch, Quoted: QuoteOptional},
				{Name: "date", Match: quoteDateMatch, Validate: dateValidator(settings.QuoteDateFormat)},
			},
			Block: true,
			Trim:  TrimBoth,
		},
		{
			Name: "quote",
			Kind: ParsedContent{
				Before: `<div class="quoteheader">` + txt.QuoteFrom + `: {author}</div><blockquote class="bbc_standard_quote">`,
				After:  `</blockquote>`,
			},
			Params: []Param{
				{Name: "author", Match: quoteAuthorMatch, Quoted: QuoteOptional},
			},
			Block: true,
			Trim:  TrimBoth,
		},
		{
			Name:  "right",
			Kind:  ParsedContent{Before: `<div style="text-align: right;">`, After: `</div>`},
			Block: true,
		},
		{
			Name: "s",
			Kind: ParsedContent{Before: `<del>`, After: `</del>`},
		},
		{
			Name: "size",
			Kind: UnparsedEquals{
				Before:   `<span style="font-size: $1;" class="bbc_size">`,
				After:    `</span>`,
				Validate: SizeValidator,
			},
		},
		{
			Name: "spoiler",
			Kind: ParsedContent{
				Before: `<details class="bbc_spoiler"><summary>` + txt.Spoiler + `</summary><div class="spoiler">`,
				After:  `</div></details>`,
			},
			Block:          true,
			DisabledBefore: `<div class="spoiler">`,
			DisabledAfter:  `</div>`,
		},
		{
			Name: "spoiler",
			Kind: ParsedEquals{
				Before: `<details class="bbc_spoiler"><summary>$1</summary><div class="spoiler">`,
				After:  `</div></details>`,
			},
			Quoted: QuoteOptional,
			Block:  true,
		},
		{
			Name: "strike",
			Kind: ParsedContent{Before: `<del>`, After: `</del>`},
		},
		{
			Name:             "sub",
			Kind:             ParsedContent{Before: `<sub>`, After: `</sub>`},
			DisallowChildren: []string{"sub", "sup"},
		},
		{
			Name:             "sup",
			Kind:             ParsedContent{Before: `<sup>`, After: `</sup>`},
			DisallowChildren: []string{"sub", "sup"},
		},
		{
			Name:            "table",
			Kind:            ParsedContent{Before: `<div class="bbc_table_container"><table class="bbc_table">`, After: `</table></div>`},
			Trim:            TrimInside,
			RequireChildren: []string{"tr"},
			Block:           true,
		},
		{
			Name:           "td",
			Kind:           ParsedContent{Before: `<td>`, After: `</td>`},
			RequireParents: []string{"tr"},
			Trim:           TrimOutside,
			Block:          true,
			DisabledAfter:  ` `,
		},
		{
			Name:           "th",
			Kind:           ParsedContent{Before: `<th>`, After: `</th>`},
			RequireParents: []string{"tr"},
			Trim:           TrimOutside,
			Block:          true,
			DisabledAfter:  ` `,
		},
		{
			Name:            "tr",
			Kind:            ParsedContent{Before: `<tr>`, After: `</tr>`},
			RequireParents:  []string{"table"},
			RequireChildren: []string{"td", "th"},
			Trim:            TrimBoth,
			Block:           true,
			DisabledAfter:   `<br />`,
		},
		{
			Name: "tt",
			Kind: ParsedContent{Before: `<span class="bbc_tt">`, After: `</span>`},
		},
		{
			Name: "u",
			Kind: ParsedContent{Before: `<span class="bbc_u">`, After: `</span>`},
		},
		{
			Name: "url",
			Kind: UnparsedContent{
				Content:  `<a href="$1" ` + linkAttrs + `>$1</a>`,
				Validate: URLValidator(0),
			},
			DisabledContent: `$1`,
			NoAutolink:      true,
		},
		{
			Name: "url",
			Kind: UnparsedEquals{
				Before:   `<a href="$1" ` + linkAttrs + `>`,
				After:    `</a>`,
				Validate: URLValidator(0),
			},
			DisallowChildren: []string{"email", "url", "iurl"},
			DisabledAfter:    ` ($1)`,
			NoAutolink:       true,
		},
	}
}
