package search

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"seqsearch/core/align"
	"seqsearch/core/alphabet"
	"seqsearch/internal/errors"
)

var validate = validator.New()

// Params is the per-run search configuration. It is built once, validated,
// and then shared read-only by every searcher.
type Params struct {
	MaxAccepts  int     `validate:"min=1"`
	MaxRejects  int     `validate:"min=0"` // 0 means no limit
	MinIdentity float64 `validate:"gte=0,lte=1"`
	Strand      alphabet.Strand
	Scoring     align.Scoring
}

// NewParams validates the user-facing knobs. The strand is parsed only when
// the alphabet has strands; protein searches always run on the query as given.
func NewParams(a alphabet.Alphabet, maxAccepts, maxRejects int, minIdentity float64, strand string) (Params, error) {
	p := Params{
		MaxAccepts:  maxAccepts,
		MaxRejects:  maxRejects,
		MinIdentity: minIdentity,
		Strand:      alphabet.StrandPlus,
		Scoring:     align.DefaultScoring,
	}
	if a.Strands {
		s, err := alphabet.ParseStrand(strand)
		if err != nil {
			return Params{}, err
		}
		p.Strand = s
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// Validate checks field ranges.
func (p Params) Validate() error {
	if p.Strand < alphabet.StrandPlus || p.Strand > alphabet.StrandBoth {
		return errors.InvalidConfigf("search: strand not set")
	}
	if err := validate.Struct(p); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Mark(errors.Wrap(err, "search"), errors.ErrInvalidConfig)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s (got %v)", fe.Field(), fe.Tag(), fe.Param(), fe.Value()))
	}
	return errors.WithHint(
		errors.InvalidConfigf("search: %s", strings.Join(msgs, "; ")),
		"max-accepts >= 1, max-rejects >= 0, 0 <= min-identity <= 1",
	)
}
