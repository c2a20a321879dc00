package quiz

// Evaluator tracks the learner's selection per question.
//
// Correctness is never stored: Correct and Score derive it from the
// current items on every call, so replacing the quiz cannot leave stale
// feedback behind.
type Evaluator struct {
	items []Item
}

// NewEvaluator creates an Evaluator over a private copy of items.
func NewEvaluator(items []Item) *Evaluator {
	return &Evaluator{items: Clone(items)}
}

// Replace swaps in a new quiz, dropping all previous selections.
func (e *Evaluator) Replace(items []Item) {
	e.items = Clone(items)
}

// Select records option as the answer to question i. Selecting the same
// option again is a no-op; an out-of-range index is ignored.
func (e *Evaluator) Select(i int, option string) bool {
	if i < 0 || i >= len(e.items) {
		return false
	}
	if cur := e.items[i].Selected; cur != nil && *cur == option {
		return false
	}
	sel := option
	e.items[i].Selected = &sel
	return true
}

// Correct reports whether question i was answered correctly. answered is
// false when nothing has been selected yet (or i is out of range).
func (e *Evaluator) Correct(i int) (correct, answered bool) {
	if i < 0 || i >= len(e.items) {
		return false, false
	}
	it := e.items[i]
	if it.Selected == nil {
		return false, false
	}
	return *it.Selected == it.Answer, true
}

// Score returns how many questions have been answered and how many of
// those are correct.
func (e *Evaluator) Score() (answered, correct int) {
	for i := range e.items {
		ok, done := e.Correct(i)
		if !done {
			continue
		}
		answered++
		if ok {
			correct++
		}
	}
	return answered, correct
}

// Item returns question i.
func (e *Evaluator) Item(i int) (Item, bool) {
	if i < 0 || i >= len(e.items) {
		return Item{}, false
	}
	return e.items[i], true
}

// Items returns a copy of the current quiz including selections.
func (e *Evaluator) Items() []Item {
	return Clone(e.items)
}

// Len returns the number of questions.
func (e *Evaluator) Len() int {
	return len(e.items)
}
