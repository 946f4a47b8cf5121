// Package types provides shared type definitions for the application.
package types

// UpdateKind distinguishes the payload of an Update.
type UpdateKind int

const (
	UpdateCaption UpdateKind = iota // Caption is set
	UpdateStatus                    // Status is set
)

// Caption is one recognized segment and its translation.
type Caption struct {
	ID         string `json:"id"`
	SourceLang string `json:"sourceLang"`
	Text       string `json:"text"`       // recognized source text
	Translated string `json:"translated"` // target-language text or a bracketed error
	Timestamp  int64  `json:"timestamp"`  // Unix milliseconds
}

// Update is a message for the presentation layer.
type Update struct {
	Kind    UpdateKind
	Caption Caption
	Status  string
}

// CaptionUpdate wraps c in an Update.
func CaptionUpdate(c Caption) Update {
	return Update{Kind: UpdateCaption, Caption: c}
}

// StatusUpdate wraps a status message in an Update.
func StatusUpdate(msg string) Update {
	return Update{Kind: UpdateStatus, Status: msg}
}

// Language is one selectable source language.
type Language struct {
	Label string `json:"label"`
	Code  string `json:"code"`
}

// OverlayState is the full state rendered by the caption window.
type OverlayState struct {
	Caption Caption `json:"caption"`
	Status  string  `json:"status"`
	Opacity float64 `json:"opacity"`
	Visible bool    `json:"visible"`
}

// Settings is what the settings popup edits.
type Settings struct {
	SourceLang string     `json:"sourceLang"`
	Opacity    float64    `json:"opacity"`
	Languages  []Language `json:"languages"`
}

// SettingsRequest is submitted by the settings popup on Apply.
type SettingsRequest struct {
	SourceLang string  `json:"sourceLang"`
	Opacity    float64 `json:"opacity"`
	Confirmed  bool    `json:"confirmed"` // user accepted the language change prompt
}

// ApplyResult tells the settings popup what happened on Apply.
type ApplyResult struct {
	NeedsConfirm bool   `json:"needsConfirm"`
	Prompt       string `json:"prompt,omitempty"`
	Applied      bool   `json:"applied"`
}

// STTProviderInfo represents information about a speech provider.
type STTProviderInfo struct {
	Name          string `json:"name"`
	DisplayName   string `json:"displayName"`
	SetupProgress int    `json:"setupProgress"` // 0-100, -1 if not started
	IsReady       bool   `json:"isReady"`
}
