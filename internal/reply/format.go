package reply

import (
	"fmt"

	"stockwatch/internal/domain"
	"stockwatch/internal/util"
)

// Bullet labels, matching the mobile app's Vietnamese wording.
const (
	labelOpen      = "Giá mở cửa"
	labelClose     = "Giá đóng cửa"
	labelHigh      = "Cao nhất"
	labelLow       = "Thấp nhất"
	labelReference = "Giá tham chiếu"
	labelCeiling   = "Giá trần"
	labelFloor     = "Giá sàn"
	labelChange    = "Thay đổi"
	labelVolume    = "Khối lượng"
	labelValue     = "Giá trị"
	labelSession   = "Giờ giao dịch"
	labelLiquidity = "Thanh khoản"
	labelAdvice    = "Khuyến nghị"
)

// FormatStockInfo shapes a single-day lookup into a reply document. Bullets
// are emitted only for fields the backend actually sent: an absent field
// produces no line at all, never a placeholder bullet.
func FormatStockInfo(title string, info *domain.StockInfo) *Doc {
	d := &Doc{}
	d.Heading(title)

	if info.OpenTime != "" && info.CloseTime != "" {
		d.Bullet(fmt.Sprintf("%s: %s – %s", labelSession, info.OpenTime, info.CloseTime))
	}

	quoteBullets(d, info.Quote)

	if info.ReferencePrice != nil {
		d.Bullet(priceBullet(labelReference, *info.ReferencePrice))
	}
	if info.CeilingPrice != nil {
		d.Bullet(priceBullet(labelCeiling, *info.CeilingPrice))
	}
	if info.FloorPrice != nil {
		d.Bullet(priceBullet(labelFloor, *info.FloorPrice))
	}
	if info.RSI14 != nil {
		line := fmt.Sprintf("RSI(14): %.0f", *info.RSI14)
		if info.RSIStatus != "" {
			line += " (" + info.RSIStatus + ")"
		}
		d.Bullet(line)
	}
	if info.LiquidityCompare != "" {
		d.Bullet(fmt.Sprintf("%s: %s", labelLiquidity, info.LiquidityCompare))
	}
	if info.Recommendation != "" {
		d.Bullet(fmt.Sprintf("%s: %s", labelAdvice, info.Recommendation))
	}
	if info.Analysis != "" {
		d.Text(info.Analysis)
	}
	return d
}

// rangeDisplayRows caps how many daily rows a range reply shows.
const rangeDisplayRows = 5

// FormatRangeSeries shapes a multi-day lookup into a reply document. Only
// the most recent rows are rendered; a footer states the true total.
func FormatRangeSeries(title string, series *domain.RangeSeries) *Doc {
	d := &Doc{}
	d.Heading(title)

	rows := series.Rows
	if len(rows) > rangeDisplayRows {
		rows = rows[len(rows)-rangeDisplayRows:]
	}
	// Most recent first.
	for i := len(rows) - 1; i >= 0; i-- {
		q := rows[i]
		sub := q.Date
		if sub == "" {
			sub = series.Symbol
		}
		d.Subheading(sub)
		quoteBullets(d, q)
	}

	d.Text(fmt.Sprintf("Tổng cộng %d phiên trong %d ngày gần nhất.", series.Total, series.Days))
	return d
}

// FormatFreeText wraps a free-form chat answer as a plain document.
func FormatFreeText(answer string) *Doc {
	d := &Doc{}
	return d.Text(answer)
}

// quoteBullets appends one bullet per present quote field.
func quoteBullets(d *Doc, q domain.Quote) {
	if q.Open != nil {
		d.Bullet(priceBullet(labelOpen, *q.Open))
	}
	if q.Close != nil {
		d.Bullet(priceBullet(labelClose, *q.Close))
	}
	if q.High != nil {
		d.Bullet(priceBullet(labelHigh, *q.High))
	}
	if q.Low != nil {
		d.Bullet(priceBullet(labelLow, *q.Low))
	}
	if q.Change != nil {
		line := fmt.Sprintf("%s: %s VND", labelChange, util.FormatChange(*q.Change))
		if q.PercentChange != nil {
			line += " (" + util.FormatPercent(*q.PercentChange) + ")"
		}
		d.Bullet(line)
	} else if q.PercentChange != nil {
		d.Bullet(fmt.Sprintf("%s: %s", labelChange, util.FormatPercent(*q.PercentChange)))
	}
	if q.Volume != nil {
		d.Bullet(fmt.Sprintf("%s: %s cp", labelVolume, util.FormatQuantity(*q.Volume)))
	}
	if q.Value != nil {
		d.Bullet(fmt.Sprintf("%s: %s VND", labelValue, util.FormatQuantity(*q.Value)))
	}
}

func priceBullet(label string, v float64) string {
	return fmt.Sprintf("%s: %s VND", label, util.FormatVND(v))
}
