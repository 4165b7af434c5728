package domain

import "strings"

// DefaultUsername est le nom affiché tant qu'aucun login (décoratif) n'a eu lieu.
const DefaultUsername = "sss@example.com"

// Profile est l'état client d'une session : aucun secret n'y est stocké.
type Profile struct {
	SessionID string   `json:"sessionId"`
	Username  string   `json:"username"`
	Language  Language `json:"language"`
}

func NewProfile(sessionID string) *Profile {
	return &Profile{
		SessionID: sessionID,
		Username:  DefaultUsername,
		Language:  LanguageEnglish,
	}
}

// Login remplace le nom affiché ; un nom vide ne change rien.
func (p *Profile) Login(username string) {
	if name := strings.TrimSpace(username); name != "" {
		p.Username = name
	}
}

func (p *Profile) Logout() {
	p.Username = DefaultUsername
}
