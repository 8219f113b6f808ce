package mapping

import (
	"strings"

	"github.com/samber/lo"

	"github.com/eslsoft/vocdrill/internal/entity"
	v1 "github.com/eslsoft/vocdrill/pkg/api/vocdrill/v1"
)

func FromPbWordPairs(in []v1.WordPair) []entity.WordPair {
	if in == nil {
		return nil
	}
	return lo.Map(in, func(p v1.WordPair, _ int) entity.WordPair {
		return entity.WordPair{
			Word:    strings.TrimSpace(p.Word),
			Meaning: strings.TrimSpace(p.Meaning),
		}
	})
}

func ToPbWordSet(in *entity.WordSet) *v1.WordSet {
	if in == nil {
		return nil
	}
	return &v1.WordSet{
		Id:   in.ID,
		Name: in.Name,
		Words: lo.Map(in.Words, func(p entity.WordPair, _ int) v1.WordPair {
			return v1.WordPair{Word: p.Word, Meaning: p.Meaning}
		}),
		CreatedAt: in.CreatedAt,
		UpdatedAt: in.UpdatedAt,
	}
}

func ToPbWordSets(in []entity.WordSet) []*v1.WordSet {
	return lo.Map(in, func(set entity.WordSet, _ int) *v1.WordSet {
		return ToPbWordSet(&set)
	})
}
