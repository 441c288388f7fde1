package domain

// Recipient keys offered for a letter's sentTo field.
var sentToKeys = []string{
	"sentTo_chairman",
	"sentTo_ceo",
	"sentTo_hr",
	"sentTo_accounting",
	"sentTo_supply_chain",
	"sentTo_equipment",
	"sentTo_office_slemani",
	"sentTo_office_kirkuk",
	"sentTo_office_diyala",
}

// Type keys offered for a letter's letterType field.
var letterTypeKeys = []string{
	"letterType_general",
	"letterType_termination",
	"letterType_service_extension",
	"letterType_candidacy",
	"letterType_position_change",
	"letterType_commencement",
	"letterType_confirmation",
	"letterType_leave",
	"letterType_material_request",
	"letterType_material_return",
}

// SentToKeys returns the known recipient keys.
func SentToKeys() []string {
	return append([]string(nil), sentToKeys...)
}

// LetterTypeKeys returns the known letter type keys.
func LetterTypeKeys() []string {
	return append([]string(nil), letterTypeKeys...)
}

// IsKnownSentTo reports whether s is one of the offered recipient keys.
// Other values are stored as free text.
func IsKnownSentTo(s string) bool {
	return containsString(sentToKeys, s)
}

// IsKnownLetterType reports whether s is one of the offered type keys.
func IsKnownLetterType(s string) bool {
	return containsString(letterTypeKeys, s)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
