package ingest

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// "< 1%" 哨兵值统一归一为 0.005（开区间中点），不是 0 也不是 0.01
const lessThanOnePercent = 0.005

// dateLayouts 按固定优先级尝试的日期格式。
// 已知限制：源数据没有任何 locale 信号，01/02 与 02/01 的歧义无法消除，
// 这里保留月/日优先于日/月的既有顺序，部分日期可能被静默误读
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"02/01/2006",
	"2006/01/02",
	"Jan 2, 2006",
}

var (
	urnRegex  = regexp.MustCompile(`urn:li:(?:share|ugcPost|activity):(\d+)`)
	hourRegex = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})\s*(AM|PM)$`)
)

// ParseDate 依次尝试各已知格式，全部失败返回零值和 false
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseIntLoose 宽松整数解析：容忍千分位逗号和空格，失败返回 0
func ParseIntLoose(value string) int {
	cleaned := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if cleaned == "" {
		return 0
	}
	if n, err := strconv.Atoi(cleaned); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return int(f)
	}
	return 0
}

// ParseFloatLoose 宽松浮点解析，失败返回 0
func ParseFloatLoose(value string) float64 {
	cleaned := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if cleaned == "" {
		return 0
	}
	if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return f
	}
	return 0
}

// ParsePercent 把三种百分比编码归一为 0-1 的小数：
// 纯小数（0.31）原样保留；"15%" 除以 100；"< 1%" 映射到固定小常量
func ParsePercent(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if strings.HasPrefix(value, "<") {
		return lessThanOnePercent, true
	}
	if strings.HasSuffix(value, "%") {
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(value, "%")), 64)
		if err != nil {
			return 0, false
		}
		return f / 100, true
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParsePostHour 把 12 小时制文本（"2:30 PM"）归一为 24 小时整数。
// 12:xx AM 是午夜（0 点），12:xx PM 是正午（12 点）。无法解析返回 nil
func ParsePostHour(value string) *int {
	m := hourRegex.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return nil
	}
	hour, err := strconv.Atoi(m[1])
	if err != nil || hour < 1 || hour > 12 {
		return nil
	}
	meridiem := strings.ToUpper(m[3])
	if meridiem == "AM" {
		if hour == 12 {
			hour = 0
		}
	} else if hour != 12 {
		hour += 12
	}
	return &hour
}

// ExtractURNFromURL 从帖子 URL 中提取数字形式的外部帖子标识。
// 兼容 share / ugcPost / activity 三种 URN 形态
func ExtractURNFromURL(url string) string {
	m := urnRegex.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}

// NormalizeCategory 受众画像类别名归一为 snake_case（"Company size" -> "company_size"）
func NormalizeCategory(category string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(category)), " ", "_")
}
