// Package metadata holds the completeness rule for descriptive records.
// A version may only enter review once its record satisfies the rule for
// its declared language mode.
package metadata

import (
	"fmt"
	"strings"

	"github.com/zeebo/errs"

	"github.com/qurtubah/bayanat/internal/entity"
)

// Error is the error class for metadata validation failures.
var Error = errs.Class("metadata")

// ErrUnknownLanguage is returned for a language mode outside en/ar/both.
var ErrUnknownLanguage = Error.New("unknown language mode")

// DefaultCategory is assigned when a record is saved without a category.
// Category is never a blocking field.
const DefaultCategory = "General"

// IncompleteError names the fields that are blank but required by the
// record's language mode.
type IncompleteError struct {
	Language      entity.Language
	MissingFields []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("incomplete metadata for language %q: missing %s",
		e.Language, strings.Join(e.MissingFields, ", "))
}

// Validate checks rec against the completeness rule for its language mode.
//
// en mode requires title and description. ar mode accepts the primary field
// as the Arabic content when the dedicated Arabic field is blank, so an
// ar-mode record only fails when both variants of a field are blank. both
// mode requires all four fields individually.
func Validate(rec *entity.MetadataRecord) error {
	switch rec.Language {
	case entity.LanguageEnglish:
		var missing []string
		if blank(rec.Title) {
			missing = append(missing, "title")
		}
		if blank(rec.Description) {
			missing = append(missing, "description")
		}
		if len(missing) > 0 {
			return &IncompleteError{Language: rec.Language, MissingFields: missing}
		}
		return nil

	case entity.LanguageArabic:
		var missing []string
		if blank(rec.TitleArabic) && blank(rec.Title) {
			missing = append(missing, "title_arabic")
		}
		if blank(rec.DescriptionArabic) && blank(rec.Description) {
			missing = append(missing, "description_arabic")
		}
		if len(missing) > 0 {
			return &IncompleteError{Language: rec.Language, MissingFields: missing}
		}
		return nil

	case entity.LanguageBoth:
		var missing []string
		if blank(rec.Title) {
			missing = append(missing, "title")
		}
		if blank(rec.TitleArabic) {
			missing = append(missing, "title_arabic")
		}
		if blank(rec.Description) {
			missing = append(missing, "description")
		}
		if blank(rec.DescriptionArabic) {
			missing = append(missing, "description_arabic")
		}
		if len(missing) > 0 {
			return &IncompleteError{Language: rec.Language, MissingFields: missing}
		}
		return nil

	default:
		return ErrUnknownLanguage
	}
}

// BlocksSave reports whether a validation failure should reject the save
// itself. The permissive ar-mode branch never blocks a save; en and both
// mode violations do.
func BlocksSave(rec *entity.MetadataRecord, err error) bool {
	if err == nil {
		return false
	}
	return rec.Language != entity.LanguageArabic
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
