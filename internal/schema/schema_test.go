package schema

import (
	"testing"

	"trade-checker-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func complete() models.Parameters {
	var p models.Parameters
	for i := range p {
		if i%2 == 0 {
			p[i] = models.Yes
		} else {
			p[i] = models.No
		}
	}
	return p
}

func TestGroupsCoverEveryKeyOnce(t *testing.T) {
	seen := map[string]int{}
	for _, g := range Groups {
		assert.Len(t, g.Parameters, 3, g.Title)
		for _, d := range g.Parameters {
			seen[d.Key]++
			assert.NotEmpty(t, d.Label)
			assert.NotEmpty(t, d.Description)
		}
	}
	assert.Len(t, Groups, 5)
	for _, k := range models.ParameterKeys {
		assert.Equal(t, 1, seen[k], k)
	}
}

func TestInitialize(t *testing.T) {
	p := Initialize()
	for i, v := range p {
		assert.Equal(t, models.Unset, v, models.ParameterKeys[i])
	}
	assert.False(t, Validate(p))
	assert.Equal(t, 0, Filled(p))
}

func TestValidate(t *testing.T) {
	assert.True(t, Validate(complete()))

	for i := range models.ParameterKeys {
		p := complete()
		p[i] = models.Unset
		assert.False(t, Validate(p), "unset %s must fail", models.ParameterKeys[i])
		assert.Equal(t, models.ParameterCount-1, Filled(p))
	}

	var outOfRange models.Parameters = complete()
	outOfRange[3] = models.TriState(9)
	assert.False(t, Validate(outOfRange))
}

func TestDisplayValue(t *testing.T) {
	assert.Equal(t, "Not Set", DisplayValue(models.Unset))
	assert.Equal(t, "Yes", DisplayValue(models.Yes))
	assert.Equal(t, "No", DisplayValue(models.No))
}

func TestShortLabelAndSummary(t *testing.T) {
	assert.Equal(t, "P1", ShortLabel("p1"))
	assert.Equal(t, "P15", ShortLabel("p15"))
	assert.Equal(t, "P99", ShortLabel("p99"))

	summary := Summary(complete())
	assert.Contains(t, summary, "SROOT Analysis (P1-P3): Yes, No, Yes | Post-SROOT Touches (P4-P6): No, Yes, No")
	assert.Contains(t, summary, "VL & EB Levels (P13-P15): Yes, No, Yes")
}

func TestParse(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		want      func() models.Parameters
		expectErr bool
	}{
		{
			name:  "compact symbols",
			input: "ynyny nynyn ynyny",
			want:  complete,
		},
		{
			name:  "digits with separators",
			input: "1,0,1|0,1,0|1,0,1|0,1,0|1,0,1",
			want:  complete,
		},
		{
			name:  "unset markers",
			input: "-?_yyyyyyyyyyyy",
			want: func() models.Parameters {
				var p models.Parameters
				for i := 3; i < models.ParameterCount; i++ {
					p[i] = models.Yes
				}
				return p
			},
		},
		{
			name:  "assignments",
			input: "p1=yes, p15=no p7=true",
			want: func() models.Parameters {
				var p models.Parameters
				p[0] = models.Yes
				p[14] = models.No
				p[6] = models.Yes
				return p
			},
		},
		{name: "too short", input: "yyy", expectErr: true},
		{name: "too long", input: "yyyyyyyyyyyyyyyy", expectErr: true},
		{name: "unknown symbol", input: "yyyyyyyxyyyyyyy", expectErr: true},
		{name: "unknown key", input: "p16=yes", expectErr: true},
		{name: "unknown word", input: "p1=maybe", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.input)
			if tc.expectErr {
				assert.ErrorIs(t, err, ErrParse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want(), got)
		})
	}
}

func TestFormatRoundTrip(t *testing.T) {
	p := complete()
	p[5] = models.Unset

	text := Format(p)
	assert.Equal(t, "yny ny- yny nyn yny", text)

	back, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, p, back)
}
