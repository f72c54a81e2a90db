package model

// UserID is the opaque per-user namespace identifier. Every key in the
// knowledge store is scoped by it.
type UserID string

func (id UserID) String() string {
	return string(id)
}

// ThreadID identifies a conversation thread in the reasoning engine
type ThreadID string

func (id ThreadID) String() string {
	return string(id)
}

// Session carries the identity of one chat exchange. It is passed
// explicitly to every operation instead of living in package state.
type Session struct {
	UserID   UserID
	ThreadID ThreadID
}

// ChatRequest is an inbound user message
type ChatRequest struct {
	UserID   UserID
	Message  string
	ThreadID ThreadID
}

// ChatReply is the final assistant output of a completed run. Exactly one
// of Text and ImageURL is set.
type ChatReply struct {
	ThreadID ThreadID
	Text     string
	ImageURL string
}

// Content returns whichever of Text or ImageURL the reply carries
func (r *ChatReply) Content() string {
	if r.ImageURL != "" {
		return r.ImageURL
	}
	return r.Text
}

// SlackUserID namespaces a Slack member by workspace
func SlackUserID(teamID, userID string) UserID {
	return UserID("slack:" + teamID + ":" + userID)
}
