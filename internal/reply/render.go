package reply

import "strings"

// BlockKind classifies one display block of a rendered reply.
type BlockKind int

const (
	BlockHeading BlockKind = iota
	BlockSubheading
	BlockBullet
	BlockParagraph
)

// Block is one display unit handed to the UI layer.
type Block struct {
	Kind BlockKind
	Text string
}

// splitThreshold is the length above which a comma-joined bullet or
// paragraph is broken into separate bullets for readability.
const splitThreshold = 100

// ParseBlocks interprets a rendered reply string for display: "### " and
// "#### " prefixes become heading levels, leading "- " becomes a bullet, and
// overly long comma-joined lines are split into separate bullets. This is a
// presentation heuristic only; it never alters the underlying data.
func ParseBlocks(s string) []Block {
	var blocks []Block
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "#### "):
			blocks = append(blocks, Block{Kind: BlockSubheading, Text: strings.TrimPrefix(line, "#### ")})
		case strings.HasPrefix(line, "### "):
			blocks = append(blocks, Block{Kind: BlockHeading, Text: strings.TrimPrefix(line, "### ")})
		case strings.HasPrefix(line, "- "):
			blocks = append(blocks, splitLong(BlockBullet, strings.TrimPrefix(line, "- "))...)
		default:
			blocks = append(blocks, splitLong(BlockParagraph, line)...)
		}
	}
	return blocks
}

// splitLong breaks a long comma-joined line into bullet blocks. Short lines
// pass through with their original kind.
func splitLong(kind BlockKind, text string) []Block {
	if len(text) <= splitThreshold || !strings.Contains(text, ", ") {
		return []Block{{Kind: kind, Text: text}}
	}
	parts := strings.Split(text, ", ")
	blocks := make([]Block, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		blocks = append(blocks, Block{Kind: BlockBullet, Text: p})
	}
	return blocks
}
