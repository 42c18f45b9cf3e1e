package realtime

import (
	"encoding/json"
	"time"
)

// Inbound event types.
const (
	EventJoined       = "joined"
	EventChatMessage  = "chat_message"
	EventCodeSync     = "code_sync"
	EventMatchStarted = "match_started"
	EventMatchEnded   = "match_ended"
)

// Outbound event types.
const (
	EventJoinMatch    = "join_match"
	EventMatchMessage = "match_message"
	EventCodeUpdate   = "code_update"
)

// Event is the {type, ...} envelope used in both directions. Fields outside
// the known set survive in Raw for inbound events.
type Event struct {
	Type    string          `json:"type"`
	MatchID string          `json:"match_id,omitempty"`
	UserID  string          `json:"user_id,omitempty"`
	Content string          `json:"content,omitempty"`
	Code    string          `json:"code,omitempty"`
	Cursor  *int            `json:"cursor,omitempty"`
	Results json.RawMessage `json:"results,omitempty"`

	Raw        json.RawMessage `json:"-"`
	ReceivedAt time.Time       `json:"-"`
}

// MatchResults is the payload of a match_ended event.
type MatchResults struct {
	WinnerID string `json:"winner_id"`
	XPEarned int    `json:"xp_earned"`
}

// MatchResults decodes Results. ok is false when the event carries none or
// they do not decode.
func (e Event) MatchResults() (MatchResults, bool) {
	var r MatchResults
	if len(e.Results) == 0 || json.Unmarshal(e.Results, &r) != nil {
		return MatchResults{}, false
	}
	return r, true
}
