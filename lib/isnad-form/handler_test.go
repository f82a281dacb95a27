package isnadformhandler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"isnad-backend/models"
)

func TestMergeSectionData(t *testing.T) {
	t.Run(`incoming keys overwrite, untouched keys survive check`, func(t *testing.T) {
		existing := datatypes.JSON(`{"site_survey":"done","capacity":1200}`)
		merged, err := mergeSectionData(existing, map[string]interface{}{
			"capacity": 1500,
			"notes":    "expansion approved",
		})
		require.Nil(t, err)

		result := map[string]interface{}{}
		require.Nil(t, json.Unmarshal(merged, &result))
		require.Equal(t, "done", result["site_survey"])
		require.Equal(t, float64(1500), result["capacity"])
		require.Equal(t, "expansion approved", result["notes"])
	})

	t.Run(`empty stored payload check`, func(t *testing.T) {
		merged, err := mergeSectionData(nil, map[string]interface{}{"capacity": 800})
		require.Nil(t, err)
		result := map[string]interface{}{}
		require.Nil(t, json.Unmarshal(merged, &result))
		require.Equal(t, float64(800), result["capacity"])
	})

	t.Run(`corrupted stored payload is reported check`, func(t *testing.T) {
		_, err := mergeSectionData(datatypes.JSON(`[1,2,3]`), map[string]interface{}{"capacity": 800})
		require.NotNil(t, err)
	})
}

func TestSectionColumns(t *testing.T) {
	t.Run(`every section maps to distinct columns check`, func(t *testing.T) {
		seen := map[string]bool{}
		for _, section := range []models.SectionName{
			models.SectionSchoolPlanning,
			models.SectionInvestment,
			models.SectionFinance,
			models.SectionSecurityFacility,
		} {
			for _, column := range []string{
				sectionDataColumn(section),
				sectionCompletedAtColumn(section),
				sectionCompletedByColumn(section),
			} {
				require.NotEmpty(t, column, "section %v", section)
				require.False(t, seen[column], "column %v mapped twice", column)
				seen[column] = true
			}
		}
	})
}
