package helper

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	reHyphen   = regexp.MustCompile(`-+`)

	// đ không tách được bằng NFD
	viReplacer = strings.NewReplacer("đ", "d")
)

// Slugify: "Sinh hoạt Chi đoàn" → "sinh-hoat-chi-doan".
// maxLen <= 0 nghĩa là 100; chuỗi rỗng sau khi lọc trả về "event".
func Slugify(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = 100
	}
	s = viReplacer.Replace(strings.ToLower(strings.TrimSpace(s)))

	var buf []rune
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		buf = append(buf, r)
	}
	s = string(buf)

	s = reNonAlnum.ReplaceAllString(s, "-")
	s = reHyphen.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if utf8.RuneCountInString(s) > maxLen {
		s = strings.Trim(string([]rune(s)[:maxLen]), "-")
	}
	if s == "" {
		s = "event"
	}
	return s
}

// EnsureUniqueSlugCI thử base, base-2, base-3, ... trên cột lower-case đã cho
// (so sánh không phân biệt hoa thường). Sau 25 lần thì thêm hậu tố ngẫu nhiên ngắn.
func EnsureUniqueSlugCI(ctx context.Context, db *gorm.DB, table, column, base string, maxLen int) (string, error) {
	if maxLen <= 0 {
		maxLen = 100
	}
	slug := base
	for i := 0; i < 25; i++ {
		var count int64
		err := db.WithContext(ctx).Table(table).
			Where(fmt.Sprintf("%s = ?", column), strings.ToLower(slug)).
			Count(&count).Error
		if err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		suffix := fmt.Sprintf("-%d", i+2)
		slug = trimForSuffix(base, suffix, maxLen) + suffix
	}

	r := fmt.Sprintf("-%x", time.Now().UnixNano()&0xffff)
	return trimForSuffix(base, r, maxLen) + r, nil
}

func trimForSuffix(base, suffix string, maxLen int) string {
	keep := maxLen - len(suffix)
	if keep < 1 {
		return "x"
	}
	rs := []rune(base)
	if len(rs) > keep {
		rs = rs[:keep]
	}
	out := strings.Trim(string(rs), "-")
	if out == "" {
		out = "x"
	}
	return out
}
