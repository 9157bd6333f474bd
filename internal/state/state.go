// Package state decodes the "state" parameter Drive passes to an app opened
// from the Drive UI ("Open with" or "New").
package state

import (
	"encoding/json"
	"strings"
)

// State is the decoded Drive launch state.
// Drive sends {"action":"open","ids":[...]} or {"action":"create","folderId":"..."}.
type State struct {
	Action    string   `json:"action,omitempty"`
	IDs       []string `json:"ids,omitempty"`
	ExportIDs []string `json:"exportIds,omitempty"`
	FolderID  string   `json:"folderId,omitempty"`
	UserID    string   `json:"userId,omitempty"`
}

// Parse decodes raw. Anything that is not a JSON object yields the zero State
// together with the decoding error, so callers can log it and carry on.
func Parse(raw string) (State, error) {
	var s State
	if strings.TrimSpace(raw) == "" {
		return s, nil
	}
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return State{}, err
	}
	return s, nil
}

// LastID returns the last entry of IDs. Drive lists the selection in order
// and the viewer opens the final one.
func (s State) LastID() (string, bool) {
	if len(s.IDs) == 0 {
		return "", false
	}
	return s.IDs[len(s.IDs)-1], true
}

// HasFolder reports whether the state targets a folder.
func (s State) HasFolder() bool {
	return s.FolderID != ""
}
