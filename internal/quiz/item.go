package quiz

// Item is a single multiple-choice question.
//
// Question, Options, Answer and Explanation come from the generation
// service. Selected is local UI state and is never part of a service
// payload.
type Item struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
	Selected    *string  `json:"selected,omitempty"`
}

// Answered reports whether an option has been selected.
func (it Item) Answered() bool {
	return it.Selected != nil
}

// Choice returns the selected option, or "" when nothing is selected.
func (it Item) Choice() string {
	if it.Selected == nil {
		return ""
	}
	return *it.Selected
}

// Clone returns a deep copy of items.
func Clone(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it
		if it.Options != nil {
			out[i].Options = append([]string(nil), it.Options...)
		}
		if it.Selected != nil {
			sel := *it.Selected
			out[i].Selected = &sel
		}
	}
	return out
}
