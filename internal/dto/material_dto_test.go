package dto

import (
	"testing"

	"github.com/sahabat-guru/backend/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMaterialResolve(t *testing.T) {
	t.Run("selects the matching variant", func(t *testing.T) {
		req := GenerateMaterialRequest{
			Type:     "exercise",
			Exercise: &ExerciseMaterialParams{Topic: "Fractions", Difficulty: "MEDIUM", QuestionCount: 10},
		}
		topic, params, err := req.Resolve()
		require.NoError(t, err)
		assert.Equal(t, "Fractions", topic)
		assert.Same(t, req.Exercise, params)
	})

	t.Run("missing parameter block fails", func(t *testing.T) {
		req := GenerateMaterialRequest{Type: "syllabus"}
		_, _, err := req.Resolve()
		require.Error(t, err)
		assert.Equal(t, apperror.BadRequest, apperror.KindOf(err))
	})

	t.Run("mismatched block is ignored", func(t *testing.T) {
		// Type selects the variant; a stray block of another type does not count.
		req := GenerateMaterialRequest{
			Type:    "summary",
			Exercise: &ExerciseMaterialParams{Topic: "x"},
		}
		_, _, err := req.Resolve()
		require.Error(t, err)
		assert.Equal(t, apperror.BadRequest, apperror.KindOf(err))
	})

	t.Run("unknown type fails", func(t *testing.T) {
		req := GenerateMaterialRequest{Type: "poem"}
		_, _, err := req.Resolve()
		require.Error(t, err)
		assert.Equal(t, apperror.BadRequest, apperror.KindOf(err))
	})
}
