package render

import (
	"strings"

	"github.com/resumify/backend/models"
)

// Contact is one header contact line
type Contact struct {
	Kind  string `json:"kind"` // email, phone, linkedin, github, location
	Value string `json:"value"`
}

// Document is the target-independent layout of a resume
type Document struct {
	FullName string    `json:"fullName"`
	Title    string    `json:"title"`
	Contacts []Contact `json:"contacts"`
	Sections []Section `json:"sections"`
	Language string    `json:"language"`

	// DownloadURL is shown as a link on the preview page only
	DownloadURL string `json:"-"`
}

// Build lays out a record. A nil record gives an empty document.
func Build(r *models.Resume) Document {
	if r == nil {
		return Document{}
	}
	doc := Document{
		FullName: strings.TrimSpace(r.FullName),
		Title:    strings.TrimSpace(r.Title),
		Language: r.Language,
		Sections: Sections(r),
	}
	if doc.Language == "" {
		doc.Language = models.DefaultLanguage
	}
	for _, c := range []Contact{
		{Kind: models.KeyEmail, Value: r.Email},
		{Kind: models.KeyPhone, Value: r.Phone},
		{Kind: models.KeyLinkedIn, Value: r.LinkedIn},
		{Kind: models.KeyGitHub, Value: r.GitHub},
		{Kind: models.KeyLocation, Value: r.Location},
	} {
		if c.Value = strings.TrimSpace(c.Value); c.Value != "" {
			doc.Contacts = append(doc.Contacts, c)
		}
	}
	return doc
}
