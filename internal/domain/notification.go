package domain

import "strings"

// Notification languages.
const (
	LangKurdish = "ckb"
	LangEnglish = "en"
)

// ReminderTitle returns the notification title for an expired item.
func ReminderTitle(kind Kind, lang string) string {
	if lang == LangEnglish {
		return "⏰ Reminder: " + kind.Display()
	}
	noun := "ئەرک"
	if kind == KindLetter {
		noun = "نامە"
	}
	return "⏰ یادخستنەوە: " + noun
}

// ReminderBody returns the notification body: the item name or a placeholder.
func ReminderBody(name, lang string) string {
	if s := strings.TrimSpace(name); s != "" {
		return s
	}
	if lang == LangEnglish {
		return "Untitled"
	}
	return "بێ ناونیشان"
}
