package block

// EmojiRegistry is the append-only set of emoji used in a buffer, keyed by
// CustomEmoji.Key.
type EmojiRegistry struct {
	items []CustomEmoji
	index map[string]int
}

func NewEmojiRegistry() *EmojiRegistry {
	return &EmojiRegistry{index: make(map[string]int)}
}

// Register adds e unless an emoji with the same key is already present.
// It reports whether e was added.
func (r *EmojiRegistry) Register(e CustomEmoji) bool {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if _, ok := r.index[e.Key()]; ok {
		return false
	}
	r.index[e.Key()] = len(r.items)
	r.items = append(r.items, e)
	return true
}

func (r *EmojiRegistry) Lookup(key string) (CustomEmoji, bool) {
	if r == nil {
		return CustomEmoji{}, false
	}
	i, ok := r.index[key]
	if !ok {
		return CustomEmoji{}, false
	}
	return r.items[i], true
}

func (r *EmojiRegistry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.items)
}

// All returns the registered emoji in registration order.
func (r *EmojiRegistry) All() []CustomEmoji {
	if r == nil {
		return nil
	}
	return append([]CustomEmoji(nil), r.items...)
}

func (r *EmojiRegistry) Reset() {
	r.items = nil
	r.index = make(map[string]int)
}

// MentionRegistry is the append-only set of mentions used in a buffer, keyed
// by display string. The first registration of a display string wins until
// the registry is reset.
type MentionRegistry struct {
	items []Mention
	index map[string]int
}

func NewMentionRegistry() *MentionRegistry {
	return &MentionRegistry{index: make(map[string]int)}
}

// Register adds m unless a mention with the same display string is already
// present. It reports whether m was added.
func (r *MentionRegistry) Register(m Mention) bool {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if _, ok := r.index[m.Display]; ok {
		return false
	}
	r.index[m.Display] = len(r.items)
	r.items = append(r.items, m)
	return true
}

func (r *MentionRegistry) Lookup(display string) (Mention, bool) {
	if r == nil {
		return Mention{}, false
	}
	i, ok := r.index[display]
	if !ok {
		return Mention{}, false
	}
	return r.items[i], true
}

func (r *MentionRegistry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.items)
}

func (r *MentionRegistry) All() []Mention {
	if r == nil {
		return nil
	}
	return append([]Mention(nil), r.items...)
}

func (r *MentionRegistry) Reset() {
	r.items = nil
	r.index = make(map[string]int)
}
