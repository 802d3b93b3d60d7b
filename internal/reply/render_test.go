package reply

import (
	"strings"
	"testing"
)

func TestParseBlocksKinds(t *testing.T) {
	in := "### FPT hôm nay\n#### 2026-08-29\n- Giá mở cửa: 100 VND\nGhi chú cuối."
	blocks := ParseBlocks(in)
	want := []Block{
		{Kind: BlockHeading, Text: "FPT hôm nay"},
		{Kind: BlockSubheading, Text: "2026-08-29"},
		{Kind: BlockBullet, Text: "Giá mở cửa: 100 VND"},
		{Kind: BlockParagraph, Text: "Ghi chú cuối."},
	}
	if len(blocks) != len(want) {
		t.Fatalf("len(blocks) = %d, want %d", len(blocks), len(want))
	}
	for i := range want {
		if blocks[i] != want[i] {
			t.Errorf("blocks[%d] = %+v, want %+v", i, blocks[i], want[i])
		}
	}
}

func TestParseBlocksSkipsBlankLines(t *testing.T) {
	blocks := ParseBlocks("### Tiêu đề\n\n   \n- một dòng\n")
	if len(blocks) != 2 {
		t.Fatalf("len(blocks) = %d, want 2", len(blocks))
	}
}

func TestParseBlocksSplitsLongCommaLines(t *testing.T) {
	long := "Giá mở cửa: 100.000 VND, Giá đóng cửa: 101.000 VND, Cao nhất: 101.500 VND, Thấp nhất: 99.800 VND, Khối lượng: 1.2M cp"
	if len(long) <= splitThreshold {
		t.Fatalf("fixture too short: %d", len(long))
	}
	blocks := ParseBlocks(long)
	if len(blocks) != 5 {
		t.Fatalf("len(blocks) = %d, want 5:\n%+v", len(blocks), blocks)
	}
	for _, b := range blocks {
		if b.Kind != BlockBullet {
			t.Errorf("block %+v kind = %v, want BlockBullet", b, b.Kind)
		}
		if strings.HasSuffix(b.Text, ",") || strings.HasPrefix(b.Text, " ") {
			t.Errorf("block text %q not trimmed", b.Text)
		}
	}
}

func TestParseBlocksKeepsShortLinesWhole(t *testing.T) {
	blocks := ParseBlocks("Ngắn, gọn, đủ ý.")
	if len(blocks) != 1 || blocks[0].Kind != BlockParagraph {
		t.Errorf("short comma line was split: %+v", blocks)
	}
}

func TestRenderRoundTrip(t *testing.T) {
	d := (&Doc{}).Heading("FPT hôm nay").Bullet("Giá mở cửa: 100 VND").Text("xong")
	blocks := ParseBlocks(d.Render())
	if len(blocks) != 3 {
		t.Fatalf("len(blocks) = %d, want 3", len(blocks))
	}
	if blocks[0].Kind != BlockHeading || blocks[1].Kind != BlockBullet || blocks[2].Kind != BlockParagraph {
		t.Errorf("round trip kinds wrong: %+v", blocks)
	}
}
