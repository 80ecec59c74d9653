package metadata

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qurtubah/bayanat/internal/entity"
)

func TestValidateEnglish(t *testing.T) {
	rec := &entity.MetadataRecord{
		Language:    entity.LanguageEnglish,
		Title:       "Population by district",
		Description: "Annual resident counts per district.",
	}
	require.NoError(t, Validate(rec))

	rec.Description = "   "
	err := Validate(rec)
	require.Error(t, err)

	var incomplete *IncompleteError
	require.True(t, errors.As(err, &incomplete))
	require.Equal(t, []string{"description"}, incomplete.MissingFields)
	require.True(t, BlocksSave(rec, err))
}

func TestValidateArabicDedicatedFields(t *testing.T) {
	rec := &entity.MetadataRecord{
		Language:          entity.LanguageArabic,
		TitleArabic:       "السكان حسب المنطقة",
		DescriptionArabic: "أعداد السكان السنوية لكل منطقة.",
	}
	require.NoError(t, Validate(rec))
}

func TestValidateArabicAcceptsPrimaryFields(t *testing.T) {
	// ar mode deliberately accepts the primary fields as Arabic content.
	rec := &entity.MetadataRecord{
		Language:    entity.LanguageArabic,
		Title:       "السكان حسب المنطقة",
		Description: "أعداد السكان السنوية",
	}
	require.NoError(t, Validate(rec))
}

func TestValidateArabicNeverBlocksSave(t *testing.T) {
	rec := &entity.MetadataRecord{Language: entity.LanguageArabic}

	err := Validate(rec)
	require.Error(t, err)
	require.False(t, BlocksSave(rec, err))
}

func TestValidateBothRequiresAllFour(t *testing.T) {
	rec := &entity.MetadataRecord{
		Language:    entity.LanguageBoth,
		Title:       "Population by district",
		Description: "Annual resident counts per district.",
		TitleArabic: "السكان حسب المنطقة",
	}

	err := Validate(rec)
	var incomplete *IncompleteError
	require.True(t, errors.As(err, &incomplete))
	require.Equal(t, []string{"description_arabic"}, incomplete.MissingFields)
	require.True(t, BlocksSave(rec, err))

	rec.DescriptionArabic = "أعداد السكان السنوية لكل منطقة."
	require.NoError(t, Validate(rec))
}

func TestValidateUnknownLanguage(t *testing.T) {
	rec := &entity.MetadataRecord{Language: "fr"}
	require.ErrorIs(t, Validate(rec), ErrUnknownLanguage)
}
