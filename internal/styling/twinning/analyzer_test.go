// internal/styling/twinning/analyzer_test.go
package twinning

import (
	"context"
	"errors"
	"strings"
	"testing"

	"stylist-workers/internal/common/logger"
	"stylist-workers/internal/models"
	"stylist-workers/internal/styling/gateway"
	"stylist-workers/internal/styling/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAI struct {
	respond func(prompt string, image *gateway.Image) (string, error)
	prompts []string
}

func (f *fakeAI) Call(ctx context.Context, prompt string, image *gateway.Image) (gateway.Result, error) {
	f.prompts = append(f.prompts, prompt)
	if err := ctx.Err(); err != nil {
		return gateway.Result{}, err
	}
	text, err := f.respond(prompt, image)
	if err != nil {
		return gateway.Result{}, err
	}
	return gateway.Result{Text: text, Attempts: 1, Provider: "fake"}, nil
}

var photo = &gateway.Image{Data: []byte{0xff, 0xd8}, MIMEType: "image/jpeg"}

const twinningJSON = `{
  "personA": [{"id":"a-1","title":"Linen Pair","items":["White linen shirt","Beige chinos"],"colors":["white","beige"]}],
  "personB": [{"id":"b-1","title":"Linen Pair","items":["White linen dress","Tan sandals"],"colors":["white","tan"]}],
  "coordination": {"theme":"Coastal whites","sharedColors":["white"],"tips":["Match fabrics"]}
}`

func scripted(twinning string, twinErr error) func(string, *gateway.Image) (string, error) {
	return func(p string, image *gateway.Image) (string, error) {
		switch {
		case strings.Contains(p, "(person A)"):
			return `{"gender":"male","heightBucket":"Tall","bodyType":"athletic","skinTone":"wheatish","dominantColors":["blue"]}`, nil
		case strings.Contains(p, "(person B)"):
			return "```json\n{\"gender\":\"female\",\"skinTone\":\"fair\"}\n```", nil
		case strings.Contains(p, "venue photo"):
			return `{"setting":"beach","ambience":"breezy","formality":"casual","colorPalette":["Sand","Turquoise"]}`, nil
		default:
			return twinning, twinErr
		}
	}
}

func TestAnalyze_AIPath(t *testing.T) {
	ai := &fakeAI{respond: scripted(twinningJSON, nil)}
	a := NewAnalyzer(ai, logger.NewTestLogger(t))

	res, err := a.Analyze(context.Background(), Request{
		PersonA:      Person{Image: photo},
		PersonB:      Person{Image: photo, Hint: models.PersonAnalysis{HeightBucket: "short", BodyType: "slim"}},
		Place:        photo,
		Relationship: "couple",
	})

	require.NoError(t, err)
	assert.Equal(t, SourceAI, res.Source)
	assert.Len(t, ai.prompts, 4)

	assert.Equal(t, profile.GenderMale, res.PersonA.Gender)
	assert.Equal(t, "tall", res.PersonA.HeightBucket)
	assert.Equal(t, profile.BodyAverage, res.PersonA.BodyType)
	assert.Equal(t, profile.SkinWheatish, res.PersonA.SkinTone)

	assert.Equal(t, profile.GenderFemale, res.PersonB.Gender)
	assert.Equal(t, "short", res.PersonB.HeightBucket)
	assert.Equal(t, profile.SkinFair, res.PersonB.SkinTone)

	require.NotNil(t, res.Place)
	assert.Equal(t, "beach", res.Place.Setting)

	require.Len(t, res.PersonAOutfits, 1)
	require.Len(t, res.PersonBOutfits, 1)
	assert.NotEmpty(t, res.PersonAOutfits[0].ShoppingLinks)
	assert.NotEmpty(t, res.PersonBOutfits[0].ReferenceLinks)
	assert.Equal(t, "Coastal whites", res.Coordination.Theme)

	twinPrompt := ai.prompts[3]
	assert.Contains(t, twinPrompt, "Person A is MALE. Person B is FEMALE.")
	assert.Contains(t, twinPrompt, "Relationship: couple.")
	assert.Contains(t, twinPrompt, "Setting: beach")
}

func TestAnalyze_FallbackOnGatewayError(t *testing.T) {
	ai := &fakeAI{respond: scripted("", gateway.ErrProviderBusy)}
	a := NewAnalyzer(ai, logger.NewTestLogger(t))

	res, err := a.Analyze(context.Background(), Request{
		PersonA:  Person{Image: photo},
		PersonB:  Person{Image: photo},
		Occasion: "party",
		Count:    2,
	})

	require.NoError(t, err)
	assert.Equal(t, SourceFallback, res.Source)
	require.Len(t, res.PersonAOutfits, 2)
	require.Len(t, res.PersonBOutfits, 2)
	assert.Equal(t, res.Coordination.SharedColors, res.PersonAOutfits[0].Colors)
	assert.Equal(t, res.Coordination.SharedColors, res.PersonBOutfits[1].Colors)
	assert.True(t, strings.HasPrefix(res.PersonAOutfits[0].ID, "a-"))
	assert.True(t, strings.HasPrefix(res.PersonBOutfits[0].ID, "b-"))
	assert.NotEmpty(t, res.PersonAOutfits[0].ShoppingLinks)
	assert.NotEmpty(t, res.Warnings)
}

func TestAnalyze_FallbackWhenOnePersonEmpty(t *testing.T) {
	onlyA := `{"personA":[{"items":["Shirt"]}],"personB":[],"coordination":{}}`
	a := NewAnalyzer(&fakeAI{respond: scripted(onlyA, nil)}, logger.NewTestLogger(t))

	res, err := a.Analyze(context.Background(), Request{PersonA: Person{Image: photo}, PersonB: Person{Image: photo}})

	require.NoError(t, err)
	assert.Equal(t, SourceFallback, res.Source)
	assert.Len(t, res.PersonBOutfits, defaultCount)
}

func TestAnalyze_AIOutfitsTrimmedToCount(t *testing.T) {
	many := `{
  "personA": [{"id":"a-1","items":["Navy blazer"]},{"id":"a-2","items":["Grey chinos"]},{"id":"a-3","items":["Linen shirt"]}],
  "personB": [{"id":"b-1","items":["Silk blouse"]},{"id":"b-2","items":["Wrap dress"]},{"id":"b-3","items":["Denim jacket"]}],
  "coordination": {"theme":"Smart casual","sharedColors":["navy"]}
}`
	a := NewAnalyzer(&fakeAI{respond: scripted(many, nil)}, logger.NewTestLogger(t))

	res, err := a.Analyze(context.Background(), Request{PersonA: Person{Image: photo}, PersonB: Person{Image: photo}, Count: 2})

	require.NoError(t, err)
	assert.Equal(t, SourceAI, res.Source)
	require.Len(t, res.PersonAOutfits, 2)
	require.Len(t, res.PersonBOutfits, 2)
	assert.Equal(t, "a-1", res.PersonAOutfits[0].ID)
	assert.Equal(t, "b-2", res.PersonBOutfits[1].ID)
}

func TestAnalyze_HintsWithoutImages(t *testing.T) {
	ai := &fakeAI{respond: scripted(twinningJSON, nil)}
	a := NewAnalyzer(ai, logger.NewTestLogger(t))

	res, err := a.Analyze(context.Background(), Request{
		PersonA: Person{Hint: models.PersonAnalysis{Gender: "female", SkinTone: "dusky"}},
		PersonB: Person{Hint: models.PersonAnalysis{Gender: "unknown"}},
	})

	require.NoError(t, err)
	assert.Len(t, ai.prompts, 1)
	assert.Equal(t, profile.GenderFemale, res.PersonA.Gender)
	assert.Equal(t, profile.SkinDusky, res.PersonA.SkinTone)
	assert.Equal(t, profile.GenderMale, res.PersonB.Gender)
}

func TestAnalyze_PersonAnalysisFailureIsSoft(t *testing.T) {
	ai := &fakeAI{respond: func(p string, image *gateway.Image) (string, error) {
		if image != nil {
			return "", errors.New("vision down")
		}
		return twinningJSON, nil
	}}
	a := NewAnalyzer(ai, logger.NewTestLogger(t))

	res, err := a.Analyze(context.Background(), Request{
		PersonA: Person{Image: photo, Hint: models.PersonAnalysis{Gender: "male"}},
		PersonB: Person{Image: photo, Hint: models.PersonAnalysis{Gender: "female"}},
		Place:   photo,
	})

	require.NoError(t, err)
	assert.Equal(t, SourceAI, res.Source)
	assert.Nil(t, res.Place)

	analysisWarnings := 0
	for _, w := range res.Warnings {
		if strings.Contains(w, "analysis:") {
			analysisWarnings++
		}
	}
	assert.Equal(t, 3, analysisWarnings)
}

func TestAnalyze_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := NewAnalyzer(&fakeAI{respond: scripted(twinningJSON, nil)}, logger.NewTestLogger(t))
	_, err := a.Analyze(ctx, Request{})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestSharedPalette(t *testing.T) {
	fair := models.PersonAnalysis{SkinTone: profile.SkinFair}
	dark := models.PersonAnalysis{SkinTone: profile.SkinDark}

	assert.Equal(t, []string{"navy", "emerald green", "burgundy"}, SharedPalette(fair, fair, nil))

	shared := SharedPalette(fair, dark, &models.PlaceAnalysis{ColorPalette: []string{" Sand "}})
	assert.Equal(t, []string{"sand", "navy", "white"}, shared)

	assert.Len(t, SharedPalette(models.PersonAnalysis{}, dark, nil), 3)
}
