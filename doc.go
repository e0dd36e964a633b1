// Package bbc renders forum messages written in BBCode into HTML fragments.
//
// # Quick Start
//
// Create a renderer and render a message:
//
//	r, err := bbc.NewRenderer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := r.Render(ctx, bbc.Input{
//	    Message: "[b]Hello[/b] world :)",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.HTML)
//
// # Rendering Pipeline
//
// Render runs these stages in order:
//
//  1. Input validation and HTML escaping of the raw message
//  2. Markdown pre-pass (code fences and spans, then emphasis, rules, quotes)
//  3. Tag registry build for this call (extensions, print mode, parsed tags)
//  4. BBCode interpretation with autolinking, smileys and emoji
//  5. Optional allow-list sanitization (bluemonday)
//
// A stage that degrades without failing, such as a markdown pass hitting its
// time limit or a smiley set that cannot be loaded, adds a line to
// Result.Warnings and the render continues.
//
// # Configuration
//
// Use functional options to customize the renderer:
//
//	r, err := bbc.NewRenderer(
//	    bbc.WithSettings(settings),
//	    bbc.WithSite("https://forum.example.com/index.php", "https://forum.example.com/smileys", ""),
//	    bbc.WithCache(bbc.NewRedisCache(bbc.RedisOptions{Addr: "localhost:6379"})),
//	    bbc.WithSanitize(true),
//	)
//
// Smiley sets come from the embedded YAML definitions by default. Use
// WithAssetPath to override them from a directory, or WithSmileySource with
// NewSQLSmileySource to read the forum's smileys table.
//
// # Extensions
//
// Extensions add tags and adjust the table before each render:
//
//	r, _ := bbc.NewRenderer(bbc.WithExtension(bbc.Extension{
//	    Name: "youtube",
//	    Tags: []bbc.Tag{{
//	        Name: "youtube",
//	        Kind: bbc.UnparsedContent{Content: `<div class="video" data-id="$1"></div>`},
//	    }},
//	}))
//
// # Concurrency
//
// A Renderer is safe for concurrent use. Every Render call builds its own
// tag registry, so per-call options in Input never leak between calls.
//
// # Error Handling
//
// Errors can be checked using errors.Is:
//
//	_, err := r.Render(ctx, input)
//	if errors.Is(err, bbc.ErrEmptyMessage) {
//	    // handle empty input
//	}
package bbc
