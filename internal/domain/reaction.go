package domain

type ReactionKind string

const (
	ReactionHeart      ReactionKind = "HEART"
	ReactionBook       ReactionKind = "BOOK"
	ReactionMirrorBall ReactionKind = "MIRROR_BALL"
	ReactionNote       ReactionKind = "NOTE"
)

// ReactionKinds lists the known kinds in the order the UI binds them to keys.
var ReactionKinds = []ReactionKind{ReactionHeart, ReactionBook, ReactionMirrorBall, ReactionNote}

func (k ReactionKind) Known() bool {
	switch k {
	case ReactionHeart, ReactionBook, ReactionMirrorBall, ReactionNote:
		return true
	}
	return false
}

// Reaction is an ephemeral emoji broadcast to everyone in a room.
type Reaction struct {
	Kind ReactionKind `json:"emojiType"`
}

// DisplayKind falls back to NOTE for kinds this client does not know.
func (r Reaction) DisplayKind() ReactionKind {
	if r.Kind.Known() {
		return r.Kind
	}
	return ReactionNote
}
