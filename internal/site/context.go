// Package site holds the forum-wide state a render needs: feature switches,
// localized strings and site URLs. It is passed explicitly to every stage
// instead of being read from ambient globals.
package site

import "time"

// Settings are the forum feature switches consulted while rendering.
type Settings struct {
	EnableBBC       bool     // false renders the message as plain escaped text
	DisabledTags    []string // tags kept in the table but rendered without formatting
	AutoLinkURLs    bool     // turn bare http(s)/www links into anchors
	EnableSmileys   bool
	EnableEmoji     bool
	EnableMarkdown  bool
	PrintImages     bool // keep [img] enabled in print mode
	MaxImageWidth   int  // 0 = unlimited
	MaxImageHeight  int  // 0 = unlimited
	HighlightCode   bool // chroma highlighting for [code=lang]
	QuoteDateFormat string
	SmileySet       string
}

// DefaultSettings mirrors a fresh forum install.
func DefaultSettings() Settings {
	return Settings{
		EnableBBC:       true,
		AutoLinkURLs:    true,
		EnableSmileys:   true,
		EnableEmoji:     true,
		EnableMarkdown:  true,
		HighlightCode:   true,
		QuoteDateFormat: "MMMM D, YYYY",
		SmileySet:       "default",
	}
}

// Context is the explicit render context.
type Context struct {
	Settings   Settings
	Strings    Strings
	ScriptURL  string // e.g. https://forum.example.com/index.php
	SmileysURL string // base URL holding smiley set directories
	ImagesURL  string
	Now        func() time.Time
}

// NewContext returns a Context with default settings and English strings.
func NewContext() Context {
	return Context{
		Settings:   DefaultSettings(),
		Strings:    DefaultStrings(),
		ScriptURL:  "index.php",
		SmileysURL: "smileys",
		ImagesURL:  "images",
		Now:        time.Now,
	}
}

// IsTagDisabled reports whether name is listed in Settings.DisabledTags.
func (c Context) IsTagDisabled(name string) bool {
	for _, t := range c.Settings.DisabledTags {
		if t == name {
			return true
		}
	}
	return false
}
