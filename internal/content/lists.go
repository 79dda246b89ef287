package content

import (
	"strings"
)

// TagList is the ordered tag editor of the post form. Adding a tag that is
// already present, ignoring case, is a no-op and the first spelling wins.
type TagList struct {
	items []string
}

func NewTagList(tags ...string) TagList {
	var l TagList
	for _, t := range tags {
		l.Add(t)
	}
	return l
}

// Add trims tag and appends it unless it is empty or a duplicate.
func (l *TagList) Add(tag string) bool {
	t := strings.TrimSpace(tag)
	if t == "" {
		return false
	}
	for _, existing := range l.items {
		if strings.EqualFold(existing, t) {
			return false
		}
	}
	l.items = append(l.items, t)
	return true
}

func (l *TagList) Remove(tag string) {
	kept := l.items[:0]
	for _, existing := range l.items {
		if existing != tag {
			kept = append(kept, existing)
		}
	}
	l.items = kept
}

// Values returns a copy of the tags; never nil.
func (l TagList) Values() []string {
	out := make([]string, len(l.items))
	copy(out, l.items)
	return out
}

func (l TagList) Len() int { return len(l.items) }

// ParseTags reads a comma or newline separated tag input.
func ParseTags(raw string) TagList {
	var l TagList
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == '\n' }) {
		l.Add(part)
	}
	return l
}

// Items is an ordered list editor for requirements and responsibilities.
// Unlike tags, repeated entries are kept.
type Items []string

func (i *Items) Add(item string) bool {
	s := strings.TrimSpace(item)
	if s == "" {
		return false
	}
	*i = append(*i, s)
	return true
}

// Remove drops every entry equal to item.
func (i *Items) Remove(item string) {
	kept := (*i)[:0]
	for _, existing := range *i {
		if existing != item {
			kept = append(kept, existing)
		}
	}
	*i = kept
}

func (i Items) Values() []string {
	out := make([]string, len(i))
	copy(out, i)
	return out
}

// ParseItems reads one entry per line.
func ParseItems(raw string) Items {
	var items Items
	for _, line := range strings.Split(raw, "\n") {
		items.Add(line)
	}
	return items
}
