package topic

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// SelectorState is the last selected index; -1 means nothing picked yet.
type SelectorState struct {
	Last int `json:"last"`
}

func NoSelection() SelectorState { return SelectorState{Last: -1} }

// Selector picks topics uniformly at random without repeating the previous
// pick. One Selector lives for the whole process; state is not persisted.
type Selector struct {
	topics []Topic
	state  SelectorState
	rnd    *rand.Rand
}

func NewSelector(topics []Topic, rnd *rand.Rand) (*Selector, error) {
	return NewSelectorFromState(topics, NoSelection(), rnd)
}

func NewSelectorFromState(topics []Topic, state SelectorState, rnd *rand.Rand) (*Selector, error) {
	if len(topics) == 0 {
		return nil, fmt.Errorf("topic catalog is empty")
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if state.Last < 0 || state.Last >= len(topics) {
		state = NoSelection()
	}
	return &Selector{
		topics: append([]Topic(nil), topics...),
		state:  state,
		rnd:    rnd,
	}, nil
}

// Select draws a topic different from the previous one. A one-topic catalog
// always returns that topic.
func (s *Selector) Select() Topic {
	idx := 0
	if n := len(s.topics); n > 1 {
		idx = s.rnd.Intn(n)
		for idx == s.state.Last {
			idx = s.rnd.Intn(n)
		}
	}
	s.state.Last = idx
	return s.topics[idx]
}

// Pick selects a topic by name (case-insensitive) and records it as the last pick.
func (s *Selector) Pick(name string) (Topic, error) {
	i, ok := Find(s.topics, name)
	if !ok {
		return Topic{}, fmt.Errorf("unknown topic %q", name)
	}
	s.state.Last = i
	return s.topics[i], nil
}

// Find returns the index of the topic named name, ignoring case.
func Find(topics []Topic, name string) (int, bool) {
	want := strings.TrimSpace(name)
	for i, t := range topics {
		if strings.EqualFold(t.Name, want) {
			return i, true
		}
	}
	return -1, false
}

func (s *Selector) State() SelectorState { return s.state }
