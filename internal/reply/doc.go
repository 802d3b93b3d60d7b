// Package reply builds and renders the structured text replies of the chat
// assistant. Data shaping (payload → typed document) is kept separate from
// presentation (document → marked-up text → display blocks) so each half can
// be tested on its own.
package reply

import "strings"

// SegmentKind classifies one line of a reply document.
type SegmentKind int

const (
	SegHeading SegmentKind = iota
	SegSubheading
	SegBullet
	SegText
)

// Segment is one line of a reply document.
type Segment struct {
	Kind SegmentKind
	Text string
}

// Doc is an ordered reply document.
type Doc struct {
	segments []Segment
}

// Heading appends a top-level heading line.
func (d *Doc) Heading(text string) *Doc {
	d.segments = append(d.segments, Segment{Kind: SegHeading, Text: text})
	return d
}

// Subheading appends a second-level heading line.
func (d *Doc) Subheading(text string) *Doc {
	d.segments = append(d.segments, Segment{Kind: SegSubheading, Text: text})
	return d
}

// Bullet appends one bullet line.
func (d *Doc) Bullet(text string) *Doc {
	d.segments = append(d.segments, Segment{Kind: SegBullet, Text: text})
	return d
}

// Text appends a plain paragraph line.
func (d *Doc) Text(text string) *Doc {
	d.segments = append(d.segments, Segment{Kind: SegText, Text: text})
	return d
}

// Segments returns the document's lines in order.
func (d *Doc) Segments() []Segment {
	return d.segments
}

// Render serializes the document to the line-oriented wire form the UI
// understands: "### " headings, "#### " subheadings, "- " bullets.
func (d *Doc) Render() string {
	var b strings.Builder
	for i, seg := range d.segments {
		if i > 0 {
			b.WriteByte('\n')
		}
		switch seg.Kind {
		case SegHeading:
			b.WriteString("### ")
		case SegSubheading:
			b.WriteString("#### ")
		case SegBullet:
			b.WriteString("- ")
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}
