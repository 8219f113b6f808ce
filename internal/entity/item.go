package entity

// Item is a single prompt/answer pair drilled during a practice session.
type Item struct {
	ID     string
	Prompt string
	Answer string

	// ShownRounds lists, oldest first, the rounds in which this item was the target.
	ShownRounds []string
	// Peers is keyed by the id of another item offered alongside this one as a distractor.
	Peers map[string]PeerExposure
}

// PeerExposure counts how a distractor fared against the item that owns the ledger entry.
type PeerExposure struct {
	Shown  int
	Picked int
}

// Ratio reports how often the distractor was mistakenly picked when it was shown.
func (p PeerExposure) Ratio() float64 {
	if p.Shown == 0 {
		return 0
	}
	return float64(p.Picked) / float64(p.Shown)
}

// TimesShown returns how many rounds targeted the item.
func (i *Item) TimesShown() int {
	return len(i.ShownRounds)
}

// Clone returns a deep copy safe to hand out to callers.
func (i *Item) Clone() Item {
	out := Item{
		ID:          i.ID,
		Prompt:      i.Prompt,
		Answer:      i.Answer,
		ShownRounds: append([]string(nil), i.ShownRounds...),
		Peers:       make(map[string]PeerExposure, len(i.Peers)),
	}
	for id, exposure := range i.Peers {
		out.Peers[id] = exposure
	}
	return out
}
