package booking

import (
	"fmt"
	"sort"
	"strings"

	"peony/internal/catalog"
	"peony/internal/models"
)

// User-facing strings live here, apart from the validation logic, so the
// checks stay language-agnostic.
const (
	msgInvalidName       = "姓名請填寫完整中文全名 (不可用英文/綽號)"
	msgInvalidPhone      = "電話格式錯誤 (需為09開頭10碼數字)"
	msgMissingSlots      = "尚未選擇預約時段"
	msgInsufficientSlots = "請至少選擇 %d 個預約時段 (以利安排)"
	msgMissingRemoval    = "尚未選擇卸甲需求"
	msgMissingService    = "尚未選擇服務項目"
	msgServiceNotAllowed = "此期間只接造型款式，期間暫不接透明/單色/純漸層/純卸甲/純保養"

	releaseDayPlaceholder = "3月預約開放日 (請至系統預約)"

	removalLabelNone      = "不需要"
	removalLabelNeeded    = "需要"
	removalLabelExtension = "卸延甲"
)

var weekdayNames = [7]string{"日", "一", "二", "三", "四", "五", "六"}

// weekdayLabel renders the single-character weekday in parentheses,
// e.g. "(三)" for a Wednesday.
func weekdayLabel(date models.DateKey) string {
	return "(" + weekdayNames[int(date.Weekday())] + ")"
}

// slotLines groups cart entries by date and renders one line per date:
// "1/21(三)11:00、13:30", dates ascending, times ascending within a date.
func slotLines(entries []models.CartEntry) []string {
	grouped := make(map[models.DateKey][]string)
	for _, e := range entries {
		grouped[e.Date] = append(grouped[e.Date], e.Time)
	}

	dates := make([]models.DateKey, 0, len(grouped))
	for date := range grouped {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i] < dates[j] })

	lines := make([]string, 0, len(dates))
	for _, date := range dates {
		times := grouped[date]
		sort.Strings(times)
		_, month, day := date.Parts()
		lines = append(lines, fmt.Sprintf("%d/%d%s%s", month, day, weekdayLabel(date), strings.Join(times, "、")))
	}
	return lines
}

func removalText(choice models.RemovalChoice, cat *catalog.Catalog) string {
	switch choice.Type {
	case models.RemovalNone:
		return removalLabelNone
	case models.RemovalNeeded:
		if opt, ok := cat.RemovalOption(choice.Detail); ok {
			return fmt.Sprintf("%s (%s)", removalLabelNeeded, opt.Label)
		}
		return removalLabelNeeded
	case models.RemovalExtension:
		if price := cat.ExtensionPrice(); price != "" {
			return fmt.Sprintf("%s (%s)", removalLabelExtension, price)
		}
		return removalLabelExtension
	}
	return ""
}

// renderConfirmation builds the final plain-text message. Field order is
// fixed: name, phone, slots block, removal, service, duration.
func renderConfirmation(in Input, item models.ServiceItem, cat *catalog.Catalog) string {
	timeDisplay := strings.Join(slotLines(in.Entries), "\n")
	if len(in.Entries) == 0 && in.ActiveTier == models.TierOpenBookingDay {
		timeDisplay = releaseDayPlaceholder
	}

	serviceText := fmt.Sprintf("%s (%s)", item.Name, item.Price)
	if item.OriginalPrice != "" {
		serviceText = fmt.Sprintf("%s (特價%s)", item.Name, item.Price)
	}

	return fmt.Sprintf(`【預約資料】
姓名：%s
電話：%s
預約時段：
%s
卸甲需求：%s
服務項目：%s
預計時間：%s`,
		in.Name,
		in.Phone,
		timeDisplay,
		removalText(in.Removal, cat),
		serviceText,
		item.Duration,
	)
}
