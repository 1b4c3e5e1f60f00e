package hierarchy

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// TOCEntry is one table-of-contents row as reported by a document backend:
// nesting level (1 = chapter), raw title, 1-based target page.
type TOCEntry struct {
	Level int
	Title string
	Page  int
}

// span holds the text assigned to a node by the segmenter. A node whose
// heading was never located keeps set=false, which is distinct from a node
// that was assigned an empty or whitespace-only span.
type span struct {
	text   string
	length int
	set    bool
}

// SetText assigns the node's text. Length counts the runes of the trimmed
// text; the text itself keeps its original whitespace.
func (s *span) SetText(text string) {
	s.text = text
	s.length = utf8.RuneCountInString(strings.TrimSpace(text))
	s.set = true
}

// Text returns the assigned text and whether any was assigned.
func (s *span) Text() (string, bool) {
	return s.text, s.set
}

// Length returns the trimmed rune count of the assigned text.
func (s *span) Length() int {
	return s.length
}

// Node is the part of a tree node the segmenter interacts with.
type Node interface {
	SetText(text string)
	Text() (string, bool)
}

// Tree is the hierarchy skeleton: chapters in document declaration order.
type Tree struct {
	Chapters []*Chapter

	byID map[string]*Chapter
}

// Chapter is a level-1 node keyed by its bare numeral id ("3").
type Chapter struct {
	ID        string
	Title     string
	StartPage int // zero-based
	Sections  []*Section

	span
	byID map[string]*Section
}

// Section is a level-2 node keyed by a dotted id ("3.2").
type Section struct {
	ID          string
	Title       string
	StartPage   int
	Subsections []*Subsection

	span
	byID map[string]*Subsection
}

// Subsection is a leaf node keyed by a double-dotted id ("3.2.1").
type Subsection struct {
	ID        string
	Title     string
	StartPage int

	span
}

// NewTree returns an empty hierarchy.
func NewTree() *Tree {
	return &Tree{byID: make(map[string]*Chapter)}
}

// AddChapter appends a chapter, or replaces an existing chapter with the same
// id in place (insertion position is kept).
func (t *Tree) AddChapter(id, title string, startPage int) *Chapter {
	ch := &Chapter{
		ID:        id,
		Title:     title,
		StartPage: startPage,
		byID:      make(map[string]*Section),
	}
	if old, ok := t.byID[id]; ok {
		for i, c := range t.Chapters {
			if c == old {
				t.Chapters[i] = ch
				break
			}
		}
	} else {
		t.Chapters = append(t.Chapters, ch)
	}
	t.byID[id] = ch
	return ch
}

// Chapter looks a chapter up by id.
func (t *Tree) Chapter(id string) *Chapter {
	return t.byID[id]
}

// AddSection appends a section under the chapter, replacing in place on a
// duplicate id.
func (c *Chapter) AddSection(id, title string, startPage int) *Section {
	sec := &Section{
		ID:        id,
		Title:     title,
		StartPage: startPage,
		byID:      make(map[string]*Subsection),
	}
	if old, ok := c.byID[id]; ok {
		for i, s := range c.Sections {
			if s == old {
				c.Sections[i] = sec
				break
			}
		}
	} else {
		c.Sections = append(c.Sections, sec)
	}
	c.byID[id] = sec
	return sec
}

// Section looks a section up by id.
func (c *Chapter) Section(id string) *Section {
	return c.byID[id]
}

// AddSubsection appends a subsection under the section, replacing in place on
// a duplicate id.
func (s *Section) AddSubsection(id, title string, startPage int) *Subsection {
	sub := &Subsection{
		ID:        id,
		Title:     title,
		StartPage: startPage,
	}
	if old, ok := s.byID[id]; ok {
		for i, x := range s.Subsections {
			if x == old {
				s.Subsections[i] = sub
				break
			}
		}
	} else {
		s.Subsections = append(s.Subsections, sub)
	}
	s.byID[id] = sub
	return sub
}

// Subsection looks a subsection up by id.
func (s *Section) Subsection(id string) *Subsection {
	return s.byID[id]
}

// Counts returns the number of chapters, sections and subsections.
func (t *Tree) Counts() (chapters, sections, subsections int) {
	chapters = len(t.Chapters)
	for _, ch := range t.Chapters {
		sections += len(ch.Sections)
		for _, sec := range ch.Sections {
			subsections += len(sec.Subsections)
		}
	}
	return chapters, sections, subsections
}

// MarshalJSON serializes the tree as a nested mapping keyed by chapter id,
// preserving declaration order. Nodes without assigned text carry no
// text/length keys at all.
func (t *Tree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, ch := range t.Chapters {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, ch.ID); err != nil {
			return nil, err
		}
		b, err := ch.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (c *Chapter) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := writeField(&buf, "title", c.Title, false); err != nil {
		return nil, err
	}
	if err := writeField(&buf, "start_page", c.StartPage, true); err != nil {
		return nil, err
	}
	if err := writeSpan(&buf, &c.span); err != nil {
		return nil, err
	}
	buf.WriteString(`,"sections":{`)
	for i, sec := range c.Sections {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, sec.ID); err != nil {
			return nil, err
		}
		b, err := sec.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

func (s *Section) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := writeField(&buf, "title", s.Title, false); err != nil {
		return nil, err
	}
	if err := writeField(&buf, "start_page", s.StartPage, true); err != nil {
		return nil, err
	}
	if err := writeSpan(&buf, &s.span); err != nil {
		return nil, err
	}
	buf.WriteString(`,"subsections":{`)
	for i, sub := range s.Subsections {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, sub.ID); err != nil {
			return nil, err
		}
		b, err := sub.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

func (s *Subsection) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := writeField(&buf, "title", s.Title, false); err != nil {
		return nil, err
	}
	if err := writeField(&buf, "start_page", s.StartPage, true); err != nil {
		return nil, err
	}
	if err := writeSpan(&buf, &s.span); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	b, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(b)
	buf.WriteByte(':')
	return nil
}

func writeField(buf *bytes.Buffer, key string, value any, comma bool) error {
	if comma {
		buf.WriteByte(',')
	}
	if err := writeKey(buf, key); err != nil {
		return err
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

func writeSpan(buf *bytes.Buffer, sp *span) error {
	if !sp.set {
		return nil
	}
	if err := writeField(buf, "text", sp.text, true); err != nil {
		return err
	}
	return writeField(buf, "length", sp.length, true)
}
