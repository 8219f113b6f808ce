package entity

// Round is one presented question: a target item and the choices offered for it.
type Round struct {
	ID       string
	Index    int
	TargetID string
	// ChoiceIDs holds the offered items in presentation order; the target appears exactly once.
	ChoiceIDs []string
	ChosenID  string
	Correct   *bool
}

// Answered reports whether an outcome has been recorded.
func (r *Round) Answered() bool {
	return r.Correct != nil
}

// Offers reports whether itemID is one of the round's choices.
func (r *Round) Offers(itemID string) bool {
	for _, id := range r.ChoiceIDs {
		if id == itemID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy safe to hand out to callers.
func (r *Round) Clone() Round {
	out := *r
	out.ChoiceIDs = append([]string(nil), r.ChoiceIDs...)
	if r.Correct != nil {
		correct := *r.Correct
		out.Correct = &correct
	}
	return out
}
