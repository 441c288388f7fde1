package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Field names one editable item field. Values match the wire keys.
type Field string

const (
	FieldName           Field = "name"
	FieldDetail         Field = "detail"
	FieldFurtherDetails Field = "furtherDetails"
	FieldResult         Field = "result"
	FieldPriority       Field = "priority"
	FieldUrgent         Field = "isUrgent"
	FieldReminder       Field = "reminder"
	FieldStartTime      Field = "startTime"
	FieldCreatedAt      Field = "createdAt"
	FieldDone           Field = "isDone"
	FieldCompletedAt    Field = "completedAt"
	FieldLetterCode     Field = "letterCode"
	FieldSentTo         Field = "sentTo"
	FieldLetterType     Field = "letterType"
)

var allFields = []Field{
	FieldName, FieldDetail, FieldFurtherDetails, FieldResult,
	FieldPriority, FieldUrgent, FieldReminder, FieldStartTime, FieldCreatedAt,
	FieldDone, FieldCompletedAt, FieldLetterCode, FieldSentTo, FieldLetterType,
}

// AllFields returns every editable field.
func AllFields() []Field {
	return append([]Field(nil), allFields...)
}

// ParseField parses a field name.
func ParseField(s string) (Field, error) {
	for _, f := range allFields {
		if strings.EqualFold(string(f), s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidField, s)
}

// HasConfig reports whether the field carries a FieldConfig.
func (f Field) HasConfig() bool {
	switch f {
	case FieldName, FieldDetail, FieldFurtherDetails, FieldResult:
		return true
	}
	return false
}

// LetterOnly reports whether the field exists only on letters.
func (f Field) LetterOnly() bool {
	return f == FieldLetterCode || f == FieldSentTo || f == FieldLetterType
}

// IsTime reports whether the field holds a timestamp.
func (f Field) IsTime() bool {
	switch f {
	case FieldReminder, FieldStartTime, FieldCreatedAt, FieldCompletedAt:
		return true
	}
	return false
}

// FieldUpdate is one field-level patch. Value is string for text fields,
// int for priority, bool for flags and *time.Time for timestamps (nil clears).
type FieldUpdate struct {
	Value  any
	Config *FieldConfig
	Field  Field
}

// Apply patches one field. It does not touch UpdatedAt.
func (it *Item) Apply(u FieldUpdate) error {
	if u.Field.LetterOnly() && it.Letter == nil {
		return fmt.Errorf("%w: %s is only valid for letters", ErrInvalidField, u.Field)
	}

	switch u.Field {
	case FieldName, FieldDetail, FieldFurtherDetails, FieldResult,
		FieldLetterCode, FieldSentTo, FieldLetterType:
		s, ok := u.Value.(string)
		if !ok {
			return typeMismatch(u, "string")
		}
		if u.Field == FieldName && strings.TrimSpace(s) == "" {
			return ErrEmptyName
		}
		it.setText(u.Field, s)
		if u.Config != nil {
			it.setConfig(u.Field, *u.Config)
		}
	case FieldPriority:
		p, ok := u.Value.(int)
		if !ok {
			return typeMismatch(u, "int")
		}
		if err := ValidatePriority(p); err != nil {
			return err
		}
		it.Priority = p
	case FieldUrgent, FieldDone:
		b, ok := u.Value.(bool)
		if !ok {
			return typeMismatch(u, "bool")
		}
		if u.Field == FieldUrgent {
			it.IsUrgent = b
		} else {
			it.IsDone = b
		}
	case FieldReminder, FieldStartTime, FieldCreatedAt, FieldCompletedAt:
		t, err := timeValue(u)
		if err != nil {
			return err
		}
		switch u.Field {
		case FieldReminder:
			it.Reminder = t
		case FieldCompletedAt:
			it.CompletedAt = t
		case FieldStartTime, FieldCreatedAt:
			if t == nil {
				return fmt.Errorf("%w: %s cannot be cleared", ErrInvalidField, u.Field)
			}
			if u.Field == FieldStartTime {
				it.StartTime = *t
			} else {
				it.CreatedAt = *t
			}
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidField, u.Field)
	}
	return nil
}

func (it *Item) setText(f Field, s string) {
	switch f {
	case FieldName:
		it.Name = s
	case FieldDetail:
		it.Detail = s
	case FieldFurtherDetails:
		it.FurtherDetails = s
	case FieldResult:
		it.Result = s
	case FieldLetterCode:
		it.LetterCode = s
	case FieldSentTo:
		it.SentTo = s
	case FieldLetterType:
		it.LetterType = s
	}
}

func (it *Item) setConfig(f Field, c FieldConfig) {
	switch f {
	case FieldName:
		it.NameConfig = c
	case FieldDetail:
		it.DetailConfig = c
	case FieldFurtherDetails:
		it.FurtherDetailsConfig = c
	case FieldResult:
		it.ResultConfig = c
	}
}

func timeValue(u FieldUpdate) (*time.Time, error) {
	switch v := u.Value.(type) {
	case nil:
		return nil, nil
	case *time.Time:
		return cloneTime(v), nil
	case time.Time:
		return &v, nil
	default:
		return nil, typeMismatch(u, "time")
	}
}

func typeMismatch(u FieldUpdate, want string) error {
	return fmt.Errorf("%w: %s wants %s, got %T", ErrInvalidField, u.Field, want, u.Value)
}

// ParseFieldValue converts a textual value into the Go type Apply expects.
// Timestamps use RFC 3339 or "2006-01-02 15:04" in loc; "" or "none" clears them.
func ParseFieldValue(f Field, raw string, loc *time.Location) (any, error) {
	switch {
	case f == FieldPriority:
		p, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: priority %q", ErrInvalidField, raw)
		}
		return p, nil
	case f == FieldUrgent || f == FieldDone:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %s %q", ErrInvalidField, f, raw)
		}
		return b, nil
	case f.IsTime():
		s := strings.TrimSpace(raw)
		if s == "" || strings.EqualFold(s, "none") || strings.EqualFold(s, "null") {
			return (*time.Time)(nil), nil
		}
		t, err := ParseTime(s, loc)
		if err != nil {
			return nil, err
		}
		return &t, nil
	default:
		return raw, nil
	}
}

// DecodeFieldValue converts a JSON value into the Go type Apply expects.
func DecodeFieldValue(f Field, raw json.RawMessage) (any, error) {
	switch {
	case f == FieldPriority:
		var p int
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("%w: priority: %v", ErrInvalidField, err)
		}
		return p, nil
	case f == FieldUrgent || f == FieldDone:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidField, f, err)
		}
		return b, nil
	case f.IsTime():
		var t *time.Time
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidField, f, err)
		}
		return t, nil
	default:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidField, f, err)
		}
		return s, nil
	}
}

// Accepted layouts for ParseTime, tried in order.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTime parses a timestamp. Layouts without a zone are read in loc.
func ParseTime(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
}
