package widgets

import (
	"strconv"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Slider and rating fallbacks used when the schema omits the attribute.
const (
	DefaultSliderMin   = 0
	DefaultSliderMax   = 100
	DefaultSliderValue = 50
	DefaultRatingMax   = 5
	// MaxRatingStars is the most stars a rating renders, whatever its max.
	MaxRatingStars = 20
)

type sliderStrategy struct{}

func (sliderStrategy) Type() model.FieldType { return model.FieldTypeSlider }

func (sliderStrategy) Render(field model.Field, value any) Widget {
	w := baseWidget(field, InputRange)
	rng := Range{
		Min: model.FloatOr(field.Min, DefaultSliderMin),
		Max: model.FloatOr(field.Max, DefaultSliderMax),
	}
	current, ok := AsFloat(value)
	if !ok {
		current = model.FloatOr(field.Value, DefaultSliderValue)
	}
	if rng.Min <= rng.Max {
		current = max(rng.Min, min(rng.Max, current))
	}
	rng.Value = current
	w.Range = &rng
	w.Text = strconv.FormatFloat(current, 'f', -1, 64)
	return w
}

func (sliderStrategy) Validate(model.Field, any) *ValidationError { return nil }

type ratingStrategy struct{}

func (ratingStrategy) Type() model.FieldType { return model.FieldTypeRating }

func (ratingStrategy) Render(field model.Field, value any) Widget {
	w := baseWidget(field, InputRating)
	stars := model.FloatOr(field.Max, DefaultRatingMax)
	limit := DefaultRatingMax
	if stars >= 1 {
		limit = int(min(stars, MaxRatingStars))
	}
	current, _ := AsFloat(value)

	rating := Rating{
		Max:       limit,
		Value:     current,
		AllowHalf: field.AllowHalf,
		Stars:     make([]Star, limit),
	}
	for i := 1; i <= limit; i++ {
		star := Star{
			Index:     i,
			Filled:    float64(i) <= current,
			FullValue: RatingValue(i, false),
		}
		if field.AllowHalf {
			star.HalfValue = RatingValue(i, true)
			star.HalfFilled = star.HalfValue <= current && current < float64(i)
		}
		rating.Stars[i-1] = star
	}
	w.Rating = &rating
	if current > 0 {
		w.Text = strconv.FormatFloat(current, 'f', -1, 64)
	}
	return w
}

func (ratingStrategy) Validate(model.Field, any) *ValidationError { return nil }
