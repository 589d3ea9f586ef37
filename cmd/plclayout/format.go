package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wippyai/plcmem/layout"
)

// formatValue renders a decoded field value for display.
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strconv.Quote(x)
	case []byte:
		return hex.EncodeToString(x)
	case time.Time:
		if x.IsZero() {
			return "-"
		}
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format(time.DateOnly)
		}
		return x.Format("2006-01-02 15:04:05.000")
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = formatValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprint(x)
	}
}

// parseValue converts user input to a value accepted by instance.Encode for
// dt. Integers may use the based notation 16#FF, 8#17 or 2#1010.
func parseValue(dt *layout.DataType, text string) (any, error) {
	text = strings.TrimSpace(text)

	switch dt.Kind() {
	case layout.KindBool:
		switch strings.ToUpper(text) {
		case "1", "TRUE":
			return true, nil
		case "0", "FALSE":
			return false, nil
		}
		return nil, fmt.Errorf("%q is not a BOOL", text)

	case layout.KindChar:
		if s, ok := unquote(text); ok {
			return s, nil
		}
		if len(text) == 1 && (text[0] < '0' || text[0] > '9') {
			return text, nil
		}
		return parseInt(text)

	case layout.KindByte, layout.KindWord, layout.KindInt, layout.KindDWord, layout.KindDInt,
		layout.KindS5Time, layout.KindBlockDB, layout.KindBlockFB, layout.KindBlockFC,
		layout.KindCounter, layout.KindTimer:
		return parseInt(text)

	case layout.KindReal:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a REAL", text)
		}
		return f, nil

	case layout.KindTime, layout.KindTimeOfDay:
		if d, err := time.ParseDuration(text); err == nil {
			return d, nil
		}
		return parseInt(text)

	case layout.KindDate:
		t, err := time.Parse(time.DateOnly, text)
		if err != nil {
			return nil, fmt.Errorf("%q is not a DATE (YYYY-MM-DD)", text)
		}
		return t, nil

	case layout.KindDateAndTime:
		for _, format := range []string{"2006-01-02 15:04:05.000", time.DateTime, time.RFC3339Nano} {
			if t, err := time.Parse(format, text); err == nil {
				return t, nil
			}
		}
		return nil, fmt.Errorf("%q is not a DATE_AND_TIME (YYYY-MM-DD hh:mm:ss)", text)

	case layout.KindString:
		if s, ok := unquote(text); ok {
			return s, nil
		}
		return text, nil

	default:
		b, err := hex.DecodeString(strings.ReplaceAll(text, " ", ""))
		if err != nil {
			return nil, fmt.Errorf("%s needs hex bytes", dt)
		}
		return b, nil
	}
}

func parseInt(text string) (int64, error) {
	if base, digits, ok := strings.Cut(text, "#"); ok {
		b, err := strconv.Atoi(base)
		if err == nil {
			if v, err := strconv.ParseInt(strings.ReplaceAll(digits, "_", ""), b, 64); err == nil {
				return v, nil
			}
		}
		return 0, fmt.Errorf("%q is not an integer", text)
	}
	v, err := strconv.ParseInt(text, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", text)
	}
	return v, nil
}

func unquote(text string) (string, bool) {
	if len(text) >= 2 && text[0] == '\'' && text[len(text)-1] == '\'' {
		return text[1 : len(text)-1], true
	}
	return "", false
}
